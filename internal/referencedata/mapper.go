// Package referencedata loads the triage-code catalogue from the legacy
// reference tables into the target document store.
package referencedata

import (
	"strconv"
	"time"

	"github.com/ftrs/dos-migration/internal/domain/audit"
	"github.com/ftrs/dos-migration/internal/domain/clinicalcode"
	"github.com/ftrs/dos-migration/internal/domain/legacy"
	"github.com/ftrs/dos-migration/internal/domain/triagecode"
)

func SymptomGroupID(id int64) string         { return "SG" + strconv.FormatInt(id, 10) }
func SymptomDiscriminatorID(id int64) string { return "SD" + strconv.FormatInt(id, 10) }

// MapSymptomGroup maps a symptom group to its code record.
func MapSymptomGroup(sg *legacy.SymptomGroup, at time.Time) *triagecode.TriageCode {
	return &triagecode.TriageCode{
		ID:          SymptomGroupID(sg.ID),
		Field:       triagecode.FieldDocument,
		Source:      clinicalcode.SymptomGroupSource(sg.IsZCode()),
		CodeType:    clinicalcode.CodeTypeSymptomGroup,
		CodeID:      strconv.FormatInt(sg.ID, 10),
		CodeValue:   sg.Name,
		ZCodeExists: sg.ZCodeExists,
		Fields:      audit.Migration(at),
	}
}

func MapSymptomDiscriminator(sd *legacy.SymptomDiscriminator, at time.Time) *triagecode.TriageCode {
	synonyms := make([]string, 0, len(sd.Synonyms))
	for _, syn := range sd.Synonyms {
		synonyms = append(synonyms, syn.Name)
	}
	value := ""
	if sd.Description != nil {
		value = *sd.Description
	}
	return &triagecode.TriageCode{
		ID:        SymptomDiscriminatorID(sd.ID),
		Field:     triagecode.FieldDocument,
		Source:    clinicalcode.SymptomDiscriminatorSource(sd.ID),
		CodeType:  clinicalcode.CodeTypeSymptomDiscriminator,
		CodeID:    strconv.FormatInt(sd.ID, 10),
		CodeValue: value,
		Synonyms:  synonyms,
		Fields:    audit.Migration(at),
	}
}

// MapDisposition keys the record by its Dx code. A missing disposition
// time is stored as zero.
func MapDisposition(d *legacy.Disposition, at time.Time) *triagecode.TriageCode {
	minutes := 0
	if d.DispositionTime != nil {
		minutes = *d.DispositionTime
	}
	return &triagecode.TriageCode{
		ID:        d.DxCode,
		Field:     triagecode.FieldDocument,
		Source:    clinicalcode.SourcePathways,
		CodeType:  clinicalcode.CodeTypeDisposition,
		CodeID:    d.DxCode,
		CodeValue: d.Name,
		Time:      &minutes,
		Fields:    audit.Migration(at),
	}
}

// MapCombinations builds the combinations record of a symptom group.
func MapCombinations(sg *legacy.SymptomGroup, sds []*legacy.SymptomDiscriminator, at time.Time) *triagecode.TriageCode {
	combos := make([]triagecode.Combination, 0, len(sds))
	for _, sd := range sds {
		combos = append(combos, triagecode.Combination{ID: SymptomDiscriminatorID(sd.ID), Value: sd.Description})
	}
	return &triagecode.TriageCode{
		ID:           SymptomGroupID(sg.ID),
		Field:        triagecode.FieldCombinations,
		Source:       clinicalcode.SymptomGroupSource(sg.IsZCode()),
		CodeType:     clinicalcode.CodeTypeSGSDPair,
		Combinations: combos,
		Fields:       audit.Migration(at),
	}
}
