package formatting

import (
	"errors"
	"sync"
	"testing"

	"github.com/ftrs/dos-migration/internal/platform/logging"
)

type mockSearcher struct {
	results []Subdivision
	err     error
	queries []string
}

func (m *mockSearcher) SearchFuzzy(q string) ([]Subdivision, error) {
	m.queries = append(m.queries, q)
	return m.results, m.err
}

func str(p *string) string {
	if p == nil {
		return "<nil>"
	}
	return *p
}

func TestAddressFormatter_Format(t *testing.T) {
	f := NewAddressFormatter(logging.Nop(), nil)

	tests := []struct {
		name    string
		address string
		town    string
		line1   string
		line2   string
		county  string
	}{
		{"drops town segment", "123 Main St$Springfield$Hampshire", "Springfield", "123 Main St", "<nil>", "Hampshire"},
		{"town match ignores case and spacing", "123 Main St$  SPRINGFIELD $Hampshire", "springfield", "123 Main St", "<nil>", "Hampshire"},
		{"consecutive duplicates", "123 Main St$123 main st$Hampshire", "Springfield", "123 Main St", "<nil>", "Hampshire"},
		{"two lines kept", "123 Main St$Apt 4B$Town Center$Hampshire", "Springfield", "123 Main St", "Apt 4B", "Hampshire"},
		{"no county", "1 High Street$Market Square", "Anytown", "1 High Street", "Market Square", "<nil>"},
		{"empty segments dropped", "$ 1 High Street $$ Kent $", "Anytown", "1 High Street", "<nil>", "Kent"},
		{"fallback county list", "5 Mill Lane$West Yorkshire", "Leeds", "5 Mill Lane", "<nil>", "West Yorkshire"},
		{"county title cased", "5 Mill Lane$hampshire", "Winchester", "5 Mill Lane", "<nil>", "Hampshire"},
		{"non GB match is not a county", "5 Mill Lane$Kerry", "Tralee", "5 Mill Lane", "Kerry", "<nil>"},
		{"unitary authority", "1 High St$West Berkshire", "Newbury", "1 High St", "<nil>", "West Berkshire"},
		{"comma named subdivision", "1 High St$Durham", "Chester-le-Street", "1 High St", "<nil>", "Durham, County"},
		{"reordered comma name", "1 High St$County Durham", "Chester-le-Street", "1 High St", "<nil>", "Durham, County"},
		{"empty address", "", "", "<nil>", "<nil>", "<nil>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := f.Format(tt.address, tt.town, "SP1 2AB")
			if str(got.Line1) != tt.line1 {
				t.Errorf("line1 = %s, want %s", str(got.Line1), tt.line1)
			}
			if str(got.Line2) != tt.line2 {
				t.Errorf("line2 = %s, want %s", str(got.Line2), tt.line2)
			}
			if str(got.County) != tt.county {
				t.Errorf("county = %s, want %s", str(got.County), tt.county)
			}
			if got.Town != tt.town || got.Postcode != "SP1 2AB" {
				t.Errorf("town/postcode not passed through: %+v", got)
			}
		})
	}
}

func TestAddressFormatter_SearcherMatch(t *testing.T) {
	searcher := &mockSearcher{results: []Subdivision{
		{Code: "US-WY", Name: "Wyoming", CountryCode: "US"},
		{Code: "GB-WYK", Name: "west yorkshire", CountryCode: "GB"},
	}}
	f := NewAddressFormatter(logging.Nop(), searcher)

	got := f.Format("1 Road$W Yorks", "Leeds", "LS1 1AA")
	if str(got.County) != "West Yorkshire" {
		t.Errorf("expected first GB match title cased, got %s", str(got.County))
	}
	if len(searcher.queries) != 1 || searcher.queries[0] != "W Yorks" {
		t.Errorf("unexpected queries %v", searcher.queries)
	}
}

func TestAddressFormatter_SearcherFailureFallsBack(t *testing.T) {
	tests := []struct {
		name     string
		searcher *mockSearcher
	}{
		{"error", &mockSearcher{err: errors.New("lookup failed")}},
		{"no results", &mockSearcher{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log, capture := logging.NewCapture()
			f := NewAddressFormatter(log, tt.searcher)
			f.counties = []string{"Hampshire"}

			got := f.Format("1 Road$hampshire", "Winchester", "SO23 8UJ")
			if str(got.County) != "Hampshire" {
				t.Errorf("expected fallback county, got %s", str(got.County))
			}
			if capture.Count(logging.AddressFormatter004) != 1 {
				t.Errorf("expected fallback to be logged, got %v", capture.References())
			}
		})
	}
}

func TestAddressFormatter_LogsNoCounty(t *testing.T) {
	log, capture := logging.NewCapture()
	f := NewAddressFormatter(log, &mockSearcher{})
	f.counties = nil

	got := f.Format("1 Road$Nowhere", "", "")
	if got.County != nil {
		t.Errorf("expected no county, got %s", *got.County)
	}
	refs := capture.References()
	want := []string{
		"UTILS_ADDRESS_FORMATTER_000",
		"UTILS_ADDRESS_FORMATTER_001",
		"UTILS_ADDRESS_FORMATTER_004",
		"UTILS_ADDRESS_FORMATTER_005",
	}
	if len(refs) != len(want) {
		t.Fatalf("unexpected references %v", refs)
	}
	for i := range want {
		if refs[i] != want[i] {
			t.Errorf("reference[%d] = %s, want %s", i, refs[i], want[i])
		}
	}
}

func TestAddressFormatter_ConcurrentFormat(t *testing.T) {
	log, _ := logging.NewCapture()
	f := NewAddressFormatter(log, nil)

	var wg sync.WaitGroup
	got := make([]string, 16)
	for i := range got {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			county := "hampshire"
			if i%2 == 1 {
				county = "west berkshire"
			}
			got[i] = str(f.Format("1 High St$"+county, "Anytown", "SP1 2AB").County)
		}(i)
	}
	wg.Wait()

	for i, c := range got {
		want := "Hampshire"
		if i%2 == 1 {
			want = "West Berkshire"
		}
		if c != want {
			t.Errorf("goroutine %d: county = %s, want %s", i, c, want)
		}
	}
}

func TestNormalize(t *testing.T) {
	tests := map[string]string{
		"  Test  String  ": "test string",
		"HAMPSHIRE":        "hampshire",
		"":                 "",
		"\tNew\nForest ":   "new forest",
	}
	for in, want := range tests {
		if got := Normalize(in); got != want {
			t.Errorf("Normalize(%q) = %q, want %q", in, got, want)
		}
	}
}
