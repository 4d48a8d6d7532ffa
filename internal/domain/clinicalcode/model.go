// Package clinicalcode models the triage codes attached to migrated
// healthcare services.
package clinicalcode

import "github.com/google/uuid"

// Source records which catalogue a code came from.
type Source string

const (
	SourcePathways      Source = "pathways"
	SourceServiceFinder Source = "servicefinder"
)

type CodeType string

const (
	CodeTypeSymptomGroup         CodeType = "Symptom Group (SG)"
	CodeTypeSymptomDiscriminator CodeType = "Symptom Discriminator (SD)"
	CodeTypeDisposition          CodeType = "Disposition (Dx)"
	CodeTypeSGSDPair             CodeType = "SG-SD Pair"
)

// SymptomDiscriminatorPathwaysMax is the highest symptom discriminator id
// owned by the pathways catalogue.
const SymptomDiscriminatorPathwaysMax = 10999

// SymptomGroupSource returns servicefinder for z-code symptom groups.
func SymptomGroupSource(zCode bool) Source {
	if zCode {
		return SourceServiceFinder
	}
	return SourcePathways
}

// SymptomDiscriminatorSource classifies a discriminator by its id.
func SymptomDiscriminatorSource(id int64) Source {
	if id <= SymptomDiscriminatorPathwaysMax {
		return SourcePathways
	}
	return SourceServiceFinder
}

// Code is a single clinical code. Synonyms apply to symptom
// discriminators and Time, in minutes, to dispositions.
type Code struct {
	ID        uuid.UUID `json:"id"`
	Source    Source    `json:"source"`
	CodeType  CodeType  `json:"codeType"`
	CodeID    int64     `json:"codeID"`
	CodeValue string    `json:"codeValue"`
	Synonyms  []string  `json:"synonyms,omitempty"`
	Time      *int      `json:"time,omitempty"`
}

// SymptomGroupSymptomDiscriminatorPair links a symptom group with one of
// its discriminators.
type SymptomGroupSymptomDiscriminatorPair struct {
	SG Code `json:"sg"`
	SD Code `json:"sd"`
}
