// Package fhir holds the FHIR R4 datatypes used to render migrated
// directory records, plus OperationOutcome and searchset Bundle support.
package fhir

import (
	"time"
)

const ukCoreProfileBase = "https://fhir.hl7.org.uk/StructureDefinition/UKCore-"

// Identifier systems for values carried over from DoS and ODS.
const (
	SystemODSOrganisation = "https://fhir.nhs.uk/Id/ods-organization-code"
	SystemDoSServiceUID   = "https://fhir.nhs.uk/Id/dos-service-uid"
	SystemDoSEndpointID   = "https://fhir.nhs.uk/Id/dos-endpoint-id"
)

type Meta struct {
	VersionID   string    `json:"versionId,omitempty"`
	LastUpdated time.Time `json:"lastUpdated,omitempty"`
	Profile     []string  `json:"profile,omitempty"`
}

// UKCoreMeta stamps a resource with its UK Core profile.
func UKCoreMeta(resourceType string, lastUpdated time.Time) Meta {
	return Meta{
		LastUpdated: lastUpdated,
		Profile:     []string{ukCoreProfileBase + resourceType},
	}
}

type Coding struct {
	System  string `json:"system,omitempty"`
	Code    string `json:"code,omitempty"`
	Display string `json:"display,omitempty"`
}

type CodeableConcept struct {
	Coding []Coding `json:"coding,omitempty"`
	Text   string   `json:"text,omitempty"`
}

// TextConcept is a concept with free text only, for values that have no
// terminology binding yet.
func TextConcept(text string) CodeableConcept {
	return CodeableConcept{Text: text}
}

type Reference struct {
	Reference string `json:"reference,omitempty"`
	Type      string `json:"type,omitempty"`
	Display   string `json:"display,omitempty"`
}

// ReferenceTo returns a relative reference such as Organization/<id>.
func ReferenceTo(resourceType, id string) Reference {
	return Reference{Reference: FormatReference(resourceType, id)}
}

// FormatReference returns a relative literal reference such as "Organization/123".
func FormatReference(resourceType, id string) string {
	return resourceType + "/" + id
}

type Identifier struct {
	Use    string `json:"use,omitempty"`
	System string `json:"system,omitempty"`
	Value  string `json:"value,omitempty"`
}

type Address struct {
	Use        string   `json:"use,omitempty"`
	Type       string   `json:"type,omitempty"`
	Line       []string `json:"line,omitempty"`
	City       string   `json:"city,omitempty"`
	District   string   `json:"district,omitempty"`
	PostalCode string   `json:"postalCode,omitempty"`
	Country    string   `json:"country,omitempty"`
}

type ContactPoint struct {
	System string `json:"system,omitempty"`
	Value  string `json:"value,omitempty"`
	Use    string `json:"use,omitempty"`
}
