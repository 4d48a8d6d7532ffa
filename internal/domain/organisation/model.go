package organisation

import (
	"strconv"

	"github.com/google/uuid"

	"github.com/ftrs/dos-migration/internal/domain/audit"
	"github.com/ftrs/dos-migration/internal/platform/fhir"
)

// Organisation is a migrated provider organisation.
type Organisation struct {
	ID                uuid.UUID  `json:"id"`
	IdentifierODSCode string     `json:"identifier_ODS_ODSCode"`
	Active            bool       `json:"active"`
	Name              string     `json:"name"`
	Telecom           *string    `json:"telecom"`
	Type              string     `json:"type"`
	Endpoints         []Endpoint `json:"endpoints"`
	audit.Fields
}

func (o *Organisation) Key() string { return o.ID.String() }

// EndpointStatus values.
const EndpointStatusActive = "active"

// Endpoint is an electronic address owned by an organisation.
type Endpoint struct {
	ID                    uuid.UUID  `json:"id"`
	IdentifierOldDoSID    int64      `json:"identifier_oldDoS_id"`
	Status                string     `json:"status"`
	ConnectionType        string     `json:"connectionType"`
	Name                  *string    `json:"name"`
	Description           string     `json:"description"`
	PayloadType           *string    `json:"payloadType"`
	PayloadMimeType       *string    `json:"payloadMimeType"`
	Address               string     `json:"address"`
	ManagedByOrganisation uuid.UUID  `json:"managedByOrganisation"`
	Service               *uuid.UUID `json:"service"`
	Order                 int        `json:"order"`
	IsCompressionEnabled  bool       `json:"isCompressionEnabled"`
	audit.Fields
}

// PayloadMimeTypes maps legacy endpoint formats to MIME types. Unknown
// formats are carried through unchanged.
var PayloadMimeTypes = map[string]string{
	"PDF":  "application/pdf",
	"HTML": "text/html",
	"FHIR": "application/fhir",
	"CDA":  "application/hl7-cda+xml",
}

// PayloadMimeType resolves a legacy format to its MIME type.
func PayloadMimeType(format *string) *string {
	if format == nil {
		return nil
	}
	if mime, ok := PayloadMimeTypes[*format]; ok {
		return &mime
	}
	v := *format
	return &v
}

func (o *Organisation) ToFHIR() map[string]interface{} {
	result := map[string]interface{}{
		"resourceType": "Organization",
		"id":           o.ID.String(),
		"active":       o.Active,
		"name":         o.Name,
		"identifier": []fhir.Identifier{{
			Use:    "official",
			System: fhir.SystemODSOrganisation,
			Value:  o.IdentifierODSCode,
		}},
		"meta": fhir.UKCoreMeta("Organization", o.ModifiedDateTime),
	}
	if o.Type != "" {
		result["type"] = []fhir.CodeableConcept{fhir.TextConcept(o.Type)}
	}
	if o.Telecom != nil {
		result["telecom"] = []fhir.ContactPoint{{System: "phone", Value: *o.Telecom, Use: "work"}}
	}
	return result
}

func (e *Endpoint) ToFHIR() map[string]interface{} {
	result := map[string]interface{}{
		"resourceType":         "Endpoint",
		"id":                   e.ID.String(),
		"status":               e.Status,
		"address":              e.Address,
		"connectionType":       fhir.Coding{Code: e.ConnectionType},
		"managingOrganization": fhir.ReferenceTo("Organization", e.ManagedByOrganisation.String()),
		"identifier": []fhir.Identifier{{
			System: fhir.SystemDoSEndpointID,
			Value:  strconv.FormatInt(e.IdentifierOldDoSID, 10),
		}},
	}
	if e.Name != nil {
		result["name"] = *e.Name
	}
	if e.PayloadType != nil {
		result["payloadType"] = []fhir.CodeableConcept{{Coding: []fhir.Coding{{Code: *e.PayloadType}}}}
	} else {
		result["payloadType"] = []fhir.CodeableConcept{}
	}
	if e.PayloadMimeType != nil {
		result["payloadMimeType"] = []string{*e.PayloadMimeType}
	}
	return result
}
