package location

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ftrs/dos-migration/internal/domain/audit"
	"github.com/ftrs/dos-migration/internal/platform/fhir"
)

// Address is a structured postal address. Line1, Line2 and County are
// absent when the source address did not yield them.
type Address struct {
	Line1    *string `json:"line1"`
	Line2    *string `json:"line2"`
	County   *string `json:"county"`
	Town     string  `json:"town"`
	Postcode string  `json:"postcode"`
}

type PositionGCS struct {
	Latitude  decimal.Decimal `json:"latitude"`
	Longitude decimal.Decimal `json:"longitude"`
}

// Location is the physical site of a migrated service.
type Location struct {
	ID                          uuid.UUID    `json:"id"`
	Active                      bool         `json:"active"`
	ManagingOrganisation        uuid.UUID    `json:"managingOrganisation"`
	Address                     *Address     `json:"address"`
	Name                        *string      `json:"name"`
	PositionGCS                 *PositionGCS `json:"positionGCS"`
	PositionReferenceNumberUPRN *int64       `json:"positionReferenceNumber_UPRN"`
	PositionReferenceNumberUBRN *int64       `json:"positionReferenceNumber_UBRN"`
	PrimaryAddress              bool         `json:"primaryAddress"`
	PartOf                      *uuid.UUID   `json:"partOf"`
	audit.Fields
}

func (l *Location) Key() string { return l.ID.String() }

func (l *Location) ToFHIR() map[string]interface{} {
	status := "inactive"
	if l.Active {
		status = "active"
	}
	result := map[string]interface{}{
		"resourceType":         "Location",
		"id":                   l.ID.String(),
		"status":               status,
		"mode":                 "instance",
		"managingOrganization": fhir.ReferenceTo("Organization", l.ManagingOrganisation.String()),
		"meta":                 fhir.UKCoreMeta("Location", l.ModifiedDateTime),
	}
	if l.Name != nil {
		result["name"] = *l.Name
	}
	if l.Address != nil {
		addr := fhir.Address{Use: "work", City: l.Address.Town, PostalCode: l.Address.Postcode}
		for _, line := range []*string{l.Address.Line1, l.Address.Line2} {
			if line != nil {
				addr.Line = append(addr.Line, *line)
			}
		}
		if l.Address.County != nil {
			addr.District = *l.Address.County
		}
		result["address"] = addr
	}
	if l.PositionGCS != nil {
		lat, _ := l.PositionGCS.Latitude.Float64()
		lng, _ := l.PositionGCS.Longitude.Float64()
		result["position"] = map[string]interface{}{"latitude": lat, "longitude": lng}
	}
	if l.PartOf != nil {
		result["partOf"] = fhir.ReferenceTo("Location", l.PartOf.String())
	}
	return result
}
