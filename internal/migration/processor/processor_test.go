package processor

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/ftrs/dos-migration/internal/domain/healthcareservice"
	"github.com/ftrs/dos-migration/internal/domain/legacy"
	"github.com/ftrs/dos-migration/internal/domain/legacy/legacytest"
	"github.com/ftrs/dos-migration/internal/domain/location"
	"github.com/ftrs/dos-migration/internal/domain/organisation"
	"github.com/ftrs/dos-migration/internal/migration/formatting"
	"github.com/ftrs/dos-migration/internal/migration/identity"
	"github.com/ftrs/dos-migration/internal/migration/metadata"
	"github.com/ftrs/dos-migration/internal/migration/transformer"
	"github.com/ftrs/dos-migration/internal/platform/docstore"
	"github.com/ftrs/dos-migration/internal/platform/logging"
)

const (
	orgTable = "ftrs-dos-test-database-organisation"
	locTable = "ftrs-dos-test-database-location"
	hsTable  = "ftrs-dos-test-database-healthcare-service"
)

type fixture struct {
	repo     *legacy.MemoryRepo
	store    *docstore.MemoryStore
	capture  *logging.Capture
	recorder *MemoryRecorder
	proc     *Processor
}

func newFixture(t *testing.T, services ...*legacy.Service) *fixture {
	t.Helper()
	repo := legacytest.Repo(services...)
	store := docstore.NewMemoryStore()
	log, capture := logging.NewCapture()
	recorder := &MemoryRecorder{}

	stores := Stores{
		Organisations:      organisation.NewRepoDocstore(store, orgTable),
		Locations:          location.NewRepoDocstore(store, locTable),
		HealthcareServices: healthcareservice.NewRepoDocstore(store, hsTable),
	}
	proc := New(log, repo, metadata.New(repo), stores,
		WithRecorder(recorder),
		WithBatchSize(2),
		WithClock(func() time.Time { return time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC) }),
	)
	return &fixture{repo: repo, store: store, capture: capture, recorder: recorder, proc: proc}
}

func TestProcessor_SyncOne_GPPractice(t *testing.T) {
	f := newFixture(t, legacytest.GPPractice())
	ctx := context.Background()

	if err := f.proc.SyncOne(ctx, 1); err != nil {
		t.Fatalf("SyncOne: %v", err)
	}

	got := f.proc.Metrics().Snapshot()
	want := Snapshot{TotalRecords: 1, SupportedRecords: 1, TransformedRecords: 1, MigratedRecords: 1}
	if got != want {
		t.Errorf("metrics = %+v, want %+v", got, want)
	}

	if f.store.Len(orgTable) != 1 || f.store.Len(locTable) != 1 || f.store.Len(hsTable) != 1 {
		t.Fatalf("expected one document per table, got %d/%d/%d", f.store.Len(orgTable), f.store.Len(locTable), f.store.Len(hsTable))
	}

	hs, err := healthcareservice.NewRepoDocstore(f.store, hsTable).GetByID(ctx, uuid.MustParse("903cd48b-5d0f-532f-94f4-937a4517b14d"))
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if hs.Telecom.PhonePublic == nil || *hs.Telecom.PhonePublic != "01234567890" {
		t.Errorf("expected sanitised public phone, got %v", hs.Telecom.PhonePublic)
	}
	if hs.MigrationNotes != nil {
		t.Errorf("expected no migration notes, got %v", hs.MigrationNotes)
	}

	org, err := organisation.NewRepoDocstore(f.store, orgTable).GetByID(ctx, uuid.MustParse("4539600c-e04e-5b35-a582-9fb36858d0e0"))
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if org.Name != "Public Test Service" {
		t.Errorf("expected organisation named from the public name, got %q", org.Name)
	}

	if n := f.capture.Count(logging.DMETL007); n != 1 {
		t.Errorf("expected one DM_ETL_007, got %d (%v)", n, f.capture.References())
	}
	outcomes := f.recorder.Outcomes()
	if len(outcomes) != 1 || outcomes[0].State != StateMigrated || outcomes[0].Transformer != "GPPracticeTransformer" {
		t.Errorf("unexpected outcomes %+v", outcomes)
	}
}

func TestProcessor_SyncOne_NotFound(t *testing.T) {
	f := newFixture(t)

	err := f.proc.SyncOne(context.Background(), 404)
	if !errors.Is(err, ErrServiceNotFound) {
		t.Fatalf("expected ErrServiceNotFound, got %v", err)
	}
	if got := f.proc.Metrics().Snapshot(); got != (Snapshot{}) {
		t.Errorf("expected untouched metrics, got %+v", got)
	}
}

func TestProcessor_SyncAll_Outcomes(t *testing.T) {
	gp := legacytest.GPPractice()

	unsupported := legacytest.GPPractice()
	unsupported.ID = 10
	unsupported.TypeID = 200

	inactive := legacytest.GPPractice()
	inactive.ID = 11
	inactive.StatusID = 2

	noPublicName := legacytest.GPPractice()
	noPublicName.ID = 12
	noPublicName.PublicName = nil

	badPhone := legacytest.GPPractice()
	badPhone.ID = 13
	phone := "12345"
	badPhone.PublicPhone = &phone

	brokenDay := legacytest.GPPractice()
	brokenDay.ID = 14
	brokenDay.ScheduledOpeningTimes[0].DayID = 99

	pcn := legacytest.EnhancedAccess()

	f := newFixture(t, gp, unsupported, inactive, noPublicName, badPhone, brokenDay, pcn)
	if err := f.proc.SyncAll(context.Background()); err != nil {
		t.Fatalf("SyncAll: %v", err)
	}

	got := f.proc.Metrics().Snapshot()
	want := Snapshot{
		TotalRecords:       7,
		SupportedRecords:   6,
		UnsupportedRecords: 1,
		TransformedRecords: 3,
		MigratedRecords:    3,
		SkippedRecords:     1,
		InvalidRecords:     1,
		Errors:             1,
	}
	if got != want {
		t.Errorf("metrics = %+v, want %+v", got, want)
	}

	states := map[int64]State{}
	for _, o := range f.recorder.Outcomes() {
		states[o.RecordID] = o.State
	}
	wantStates := map[int64]State{
		1:  StateMigrated,
		2:  StateMigrated,
		10: StateUnsupported,
		11: StateSkipped,
		12: StateInvalid,
		13: StateMigrated,
		14: StateError,
	}
	for id, state := range wantStates {
		if states[id] != state {
			t.Errorf("record %d state = %s, want %s", id, states[id], state)
		}
	}

	// The record with a bad phone migrates with a note and no phone.
	hs, err := healthcareservice.NewRepoDocstore(f.store, hsTable).GetByID(context.Background(), identityOf(13))
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if hs.Telecom.PhonePublic != nil {
		t.Errorf("expected invalid phone to be dropped, got %s", *hs.Telecom.PhonePublic)
	}
	if len(hs.MigrationNotes) != 1 {
		t.Errorf("expected one migration note, got %v", hs.MigrationNotes)
	}

	if f.capture.Count(logging.DMETL004) != 1 || f.capture.Count(logging.DMETL005) != 1 ||
		f.capture.Count(logging.DMETL014) != 1 || f.capture.Count(logging.DMETL008) != 1 {
		t.Errorf("unexpected log references %v", f.capture.References())
	}
	if f.capture.Count(logging.DMETL013) != 2 {
		t.Errorf("expected DM_ETL_013 for both records with issues, got %d", f.capture.Count(logging.DMETL013))
	}
}

func TestProcessor_SyncAll_ResetIsCallerControlled(t *testing.T) {
	f := newFixture(t, legacytest.GPPractice())
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if err := f.proc.SyncAll(ctx); err != nil {
			t.Fatalf("SyncAll: %v", err)
		}
	}
	if got := f.proc.Metrics().Snapshot().MigratedRecords; got != 2 {
		t.Errorf("expected counters to accumulate without reset, got %d", got)
	}
	f.proc.Metrics().Reset()
	if got := f.proc.Metrics().Snapshot(); got != (Snapshot{}) {
		t.Errorf("expected zeroed metrics, got %+v", got)
	}

	// Re-running is idempotent on the target store.
	if f.store.Len(hsTable) != 1 {
		t.Errorf("expected a single healthcare service document, got %d", f.store.Len(hsTable))
	}
}

func TestProcessor_PanicIsContained(t *testing.T) {
	boom := transformer.Definition{
		Kind:          "Boom",
		IsSupported:   func(*legacy.Service) (bool, string) { return true, "" },
		ShouldInclude: func(*legacy.Service) (bool, string) { return true, "" },
		Validator:     transformer.GPEnhancedAccess.Validator,
		Transform: func(context.Context, *transformer.Builder, *legacy.Service, []string) (*transformer.Output, error) {
			panic("nil map")
		},
	}

	second := legacytest.GPPractice()
	second.ID = 2
	f := newFixture(t, legacytest.GPPractice(), second)
	f.proc.defs = []transformer.Definition{boom}

	if err := f.proc.SyncAll(context.Background()); err != nil {
		t.Fatalf("SyncAll: %v", err)
	}
	got := f.proc.Metrics().Snapshot()
	if got.Errors != 2 || got.TotalRecords != 2 {
		t.Errorf("expected both panics to be counted, got %+v", got)
	}
}

func TestProcessor_SyncAll_PartlyLoadedRecordIsCounted(t *testing.T) {
	broken := legacytest.GPPractice()
	broken.ID = 2
	broken.LoadErr = errors.New("service day opening time 7: invalid time of day \"25:00:00\"")
	third := legacytest.GPPractice()
	third.ID = 3

	f := newFixture(t, legacytest.GPPractice(), broken, third)
	if err := f.proc.SyncAll(context.Background()); err != nil {
		t.Fatalf("SyncAll: %v", err)
	}

	got := f.proc.Metrics().Snapshot()
	want := Snapshot{TotalRecords: 3, SupportedRecords: 2, TransformedRecords: 2, MigratedRecords: 2, Errors: 1}
	if got != want {
		t.Errorf("metrics = %+v, want %+v", got, want)
	}
	if n := f.capture.Count(logging.DMETL008); n != 1 {
		t.Errorf("expected one DM_ETL_008, got %d", n)
	}
	if _, err := healthcareservice.NewRepoDocstore(f.store, hsTable).GetByID(context.Background(), identityOf(3)); err != nil {
		t.Errorf("expected the record after the broken one to migrate: %v", err)
	}
	if _, _, _, err := f.proc.Preview(context.Background(), 2); err == nil {
		t.Error("expected Preview to report the load error")
	}
}

type failingOrgs struct{}

func (failingOrgs) Upsert(context.Context, *organisation.Organisation) error {
	return errors.New("throttled")
}

func (failingOrgs) GetByID(context.Context, uuid.UUID) (*organisation.Organisation, error) {
	return nil, docstore.ErrNotFound
}

func TestProcessor_PersistenceErrorIsCounted(t *testing.T) {
	f := newFixture(t, legacytest.GPPractice())
	f.proc.stores.Organisations = failingOrgs{}

	if err := f.proc.SyncOne(context.Background(), 1); err != nil {
		t.Fatalf("SyncOne: %v", err)
	}
	got := f.proc.Metrics().Snapshot()
	if got.Errors != 1 || got.MigratedRecords != 0 || got.TransformedRecords != 1 {
		t.Errorf("unexpected metrics %+v", got)
	}
	if f.store.Len(hsTable) != 0 {
		t.Error("expected no healthcare service written after the organisation failed")
	}
}

func TestProcessor_Preview(t *testing.T) {
	inactive := legacytest.GPPractice()
	inactive.ID = 5
	inactive.StatusID = 3
	f := newFixture(t, legacytest.GPPractice(), inactive)
	ctx := context.Background()

	out, _, reason, err := f.proc.Preview(ctx, 1)
	if err != nil || reason != "" {
		t.Fatalf("Preview: %v %q", err, reason)
	}
	if len(out.Organisations) != 1 || f.store.Len(orgTable) != 0 {
		t.Errorf("expected output without persistence")
	}

	out, _, reason, err = f.proc.Preview(ctx, 5)
	if err != nil || out != nil || reason != "Service is not active" {
		t.Errorf("unexpected preview of inactive record: %v %v %q", out, err, reason)
	}

	if _, _, _, err := f.proc.Preview(ctx, 404); !errors.Is(err, ErrServiceNotFound) {
		t.Errorf("expected ErrServiceNotFound, got %v", err)
	}
}

func identityOf(id int64) uuid.UUID {
	return identity.Generate(id, identity.TagHealthcareService)
}

type countySearcher map[string]formatting.Subdivision

func (s countySearcher) SearchFuzzy(q string) ([]formatting.Subdivision, error) {
	sub, ok := s[q]
	if !ok {
		return nil, errors.New("no subdivision matched")
	}
	return []formatting.Subdivision{sub}, nil
}

func TestProcessor_WithAddressFormatter(t *testing.T) {
	repo := legacytest.Repo(legacytest.GPPractice())
	store := docstore.NewMemoryStore()
	log, capture := logging.NewCapture()
	searcher := countySearcher{"West Yorkshire": {Code: "GB-WYK", Name: "Yorkshire, West", CountryCode: "GB"}}

	proc := New(log, repo, metadata.New(repo), Stores{
		Organisations:      organisation.NewRepoDocstore(store, orgTable),
		Locations:          location.NewRepoDocstore(store, locTable),
		HealthcareServices: healthcareservice.NewRepoDocstore(store, hsTable),
	}, WithAddressFormatter(formatting.NewAddressFormatter(log, searcher)))

	if err := proc.SyncOne(context.Background(), 1); err != nil {
		t.Fatalf("SyncOne: %v", err)
	}

	var locs []location.Location
	err := store.Scan(context.Background(), locTable, func(_ string, doc json.RawMessage) error {
		var l location.Location
		if err := json.Unmarshal(doc, &l); err != nil {
			return err
		}
		locs = append(locs, l)
		return nil
	})
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(locs) != 1 || locs[0].Address == nil {
		t.Fatalf("expected one location with an address, got %+v", locs)
	}
	if c := locs[0].Address.County; c == nil || *c != "Yorkshire, West" {
		t.Errorf("expected the county from the injected searcher, got %v", c)
	}
	if capture.Count(logging.AddressFormatter003) == 0 {
		t.Errorf("expected an AF_003 log from the injected formatter")
	}
}
