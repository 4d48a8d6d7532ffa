package clinicalcode

import "testing"

func TestSymptomGroupSource(t *testing.T) {
	if SymptomGroupSource(true) != SourceServiceFinder {
		t.Error("z-code symptom groups come from servicefinder")
	}
	if SymptomGroupSource(false) != SourcePathways {
		t.Error("other symptom groups come from pathways")
	}
}

func TestSymptomDiscriminatorSource(t *testing.T) {
	tests := []struct {
		id   int64
		want Source
	}{
		{1, SourcePathways},
		{10999, SourcePathways},
		{11000, SourceServiceFinder},
		{20001, SourceServiceFinder},
	}
	for _, tt := range tests {
		if got := SymptomDiscriminatorSource(tt.id); got != tt.want {
			t.Errorf("SymptomDiscriminatorSource(%d) = %s, want %s", tt.id, got, tt.want)
		}
	}
}
