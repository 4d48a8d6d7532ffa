// Package triagecode holds the flattened reference catalogue of symptom
// groups, symptom discriminators, dispositions and their pairings.
package triagecode

import (
	"github.com/ftrs/dos-migration/internal/domain/audit"
	"github.com/ftrs/dos-migration/internal/domain/clinicalcode"
)

// Field values. A symptom group has a code record and a combinations
// record sharing the same id.
const (
	FieldDocument     = "document"
	FieldCombinations = "combinations"
)

// Combination is one discriminator paired with a symptom group.
type Combination struct {
	ID    string  `json:"id"`
	Value *string `json:"value"`
}

// TriageCode is keyed by (ID, Field). CodeID holds the legacy id for
// symptom groups and discriminators and the Dx code for dispositions.
type TriageCode struct {
	ID           string                `json:"id"`
	Field        string                `json:"field"`
	Source       clinicalcode.Source   `json:"source"`
	CodeType     clinicalcode.CodeType `json:"codeType"`
	CodeID       string                `json:"codeID,omitempty"`
	CodeValue    string                `json:"codeValue,omitempty"`
	ZCodeExists  *bool                 `json:"zCodeExists,omitempty"`
	Synonyms     []string              `json:"synonyms,omitempty"`
	Time         *int                  `json:"time,omitempty"`
	Combinations []Combination         `json:"combinations,omitempty"`
	audit.Fields
}

// Key is the composite document key.
func (t *TriageCode) Key() string {
	field := t.Field
	if field == "" {
		field = FieldDocument
	}
	return t.ID + "#" + field
}
