package healthcareservice

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ftrs/dos-migration/internal/domain/audit"
	"github.com/ftrs/dos-migration/internal/domain/clinicalcode"
	"github.com/ftrs/dos-migration/internal/platform/fhir"
)

type Category string

const CategoryGPServices Category = "GP Services"

type Type string

const (
	TypeGPConsultationService Type = "GP Consultation Service"
	TypePCNService            Type = "PCN Service"
)

// Telecom holds the four contact channels of a service.
type Telecom struct {
	PhonePublic  *string `json:"phone_public"`
	PhonePrivate *string `json:"phone_private"`
	Email        *string `json:"email"`
	Web          *string `json:"web"`
}

// OpeningTimeCategory discriminates the OpeningTime variants.
type OpeningTimeCategory string

const (
	CategoryAvailableTime               OpeningTimeCategory = "availableTime"
	CategoryAvailableTimePublicHolidays OpeningTimeCategory = "availableTimePublicHolidays"
	CategoryAvailableTimeVariations     OpeningTimeCategory = "availableTimeVariations"
	CategoryNotAvailable                OpeningTimeCategory = "notAvailable"
)

// DateTimeLayout formats the start and end of date-specific entries.
const DateTimeLayout = "2006-01-02T15:04:05"

// OpeningTime is one opening-hours entry. Weekly entries carry DayOfWeek
// and times of day; variations and closures carry date-times.
type OpeningTime struct {
	Category    OpeningTimeCategory `json:"category"`
	DayOfWeek   *string             `json:"dayOfWeek,omitempty"`
	StartTime   string              `json:"startTime"`
	EndTime     string              `json:"endTime"`
	AllDay      *bool               `json:"allDay,omitempty"`
	Description *string             `json:"description,omitempty"`
}

// AgeRangeTypeDays is the unit of age eligibility bounds.
const AgeRangeTypeDays = "days"

type AgeRange struct {
	RangeFrom decimal.Decimal `json:"rangeFrom"`
	RangeTo   decimal.Decimal `json:"rangeTo"`
	Type      string          `json:"type"`
}

// HealthcareService is a migrated service offered at a location.
type HealthcareService struct {
	ID                                uuid.UUID                                           `json:"id"`
	IdentifierOldDoSUID               string                                              `json:"identifier_oldDoS_uid"`
	Active                            bool                                                `json:"active"`
	Category                          Category                                            `json:"category"`
	Type                              Type                                                `json:"type"`
	ProvidedBy                        *uuid.UUID                                          `json:"providedBy"`
	Location                          *uuid.UUID                                          `json:"location"`
	Name                              string                                              `json:"name"`
	Telecom                           Telecom                                             `json:"telecom"`
	OpeningTime                       []OpeningTime                                       `json:"openingTime"`
	SymptomGroupSymptomDiscriminators []clinicalcode.SymptomGroupSymptomDiscriminatorPair `json:"symptomGroupSymptomDiscriminators"`
	Dispositions                      []clinicalcode.Code                                 `json:"dispositions"`
	MigrationNotes                    []string                                            `json:"migrationNotes"`
	AgeEligibilityCriteria            []AgeRange                                          `json:"ageEligibilityCriteria"`
	audit.Fields
}

func (hs *HealthcareService) Key() string { return hs.ID.String() }

func (hs *HealthcareService) ToFHIR() map[string]interface{} {
	result := map[string]interface{}{
		"resourceType": "HealthcareService",
		"id":           hs.ID.String(),
		"active":       hs.Active,
		"name":         hs.Name,
		"identifier": []fhir.Identifier{{
			System: fhir.SystemDoSServiceUID,
			Value:  hs.IdentifierOldDoSUID,
		}},
		"category": []fhir.CodeableConcept{fhir.TextConcept(string(hs.Category))},
		"type":     []fhir.CodeableConcept{fhir.TextConcept(string(hs.Type))},
		"meta":     fhir.UKCoreMeta("HealthcareService", hs.ModifiedDateTime),
	}
	if hs.ProvidedBy != nil {
		result["providedBy"] = fhir.ReferenceTo("Organization", hs.ProvidedBy.String())
	}
	if hs.Location != nil {
		result["location"] = []fhir.Reference{fhir.ReferenceTo("Location", hs.Location.String())}
	}

	var telecom []fhir.ContactPoint
	add := func(system, use string, v *string) {
		if v != nil {
			telecom = append(telecom, fhir.ContactPoint{System: system, Value: *v, Use: use})
		}
	}
	add("phone", "work", hs.Telecom.PhonePublic)
	add("phone", "temp", hs.Telecom.PhonePrivate)
	add("email", "work", hs.Telecom.Email)
	add("url", "work", hs.Telecom.Web)
	if len(telecom) > 0 {
		result["telecom"] = telecom
	}

	var available, notAvailable []map[string]interface{}
	for _, ot := range hs.OpeningTime {
		switch ot.Category {
		case CategoryAvailableTime:
			entry := map[string]interface{}{
				"availableStartTime": ot.StartTime,
				"availableEndTime":   ot.EndTime,
			}
			if ot.DayOfWeek != nil {
				entry["daysOfWeek"] = []string{*ot.DayOfWeek}
			}
			available = append(available, entry)
		case CategoryNotAvailable, CategoryAvailableTimeVariations, CategoryAvailableTimePublicHolidays:
			desc := string(ot.Category)
			if ot.Description != nil {
				desc = *ot.Description
			}
			if ot.Category == CategoryNotAvailable {
				notAvailable = append(notAvailable, map[string]interface{}{
					"description": desc,
					"during":      map[string]string{"start": ot.StartTime, "end": ot.EndTime},
				})
				continue
			}
			available = append(available, map[string]interface{}{
				"availableStartTime": ot.StartTime,
				"availableEndTime":   ot.EndTime,
				"extension":          []map[string]string{{"url": "category", "valueString": desc}},
			})
		}
	}
	if len(available) > 0 {
		result["availableTime"] = available
	}
	if len(notAvailable) > 0 {
		result["notAvailable"] = notAvailable
	}

	if len(hs.AgeEligibilityCriteria) > 0 {
		var eligibility []map[string]interface{}
		for _, r := range hs.AgeEligibilityCriteria {
			eligibility = append(eligibility, map[string]interface{}{
				"code":    fhir.TextConcept("age"),
				"comment": r.RangeFrom.String() + "-" + r.RangeTo.String() + " " + r.Type,
			})
		}
		result["eligibility"] = eligibility
	}
	if len(hs.MigrationNotes) > 0 {
		result["comment"] = hs.MigrationNotes[0]
	}
	return result
}
