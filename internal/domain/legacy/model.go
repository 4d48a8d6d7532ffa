// Package legacy models the read-only DoS source schema.
package legacy

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// Service maps to the services table together with its nested collections.
type Service struct {
	ID                    int64                         `db:"id" json:"id"`
	UID                   string                        `db:"uid" json:"uid"`
	Name                  string                        `db:"name" json:"name"`
	PublicName            *string                       `db:"publicname" json:"publicname,omitempty"`
	ODSCode               *string                       `db:"odscode" json:"odscode,omitempty"`
	TypeID                int64                         `db:"typeid" json:"typeid"`
	StatusID              int64                         `db:"statusid" json:"statusid"`
	Address               *string                       `db:"address" json:"address,omitempty"`
	Town                  *string                       `db:"town" json:"town,omitempty"`
	Postcode              *string                       `db:"postcode" json:"postcode,omitempty"`
	PublicPhone           *string                       `db:"publicphone" json:"publicphone,omitempty"`
	NonPublicPhone        *string                       `db:"nonpublicphone" json:"nonpublicphone,omitempty"`
	Email                 *string                       `db:"email" json:"email,omitempty"`
	Web                   *string                       `db:"web" json:"web,omitempty"`
	Latitude              *decimal.Decimal              `db:"latitude" json:"latitude,omitempty"`
	Longitude             *decimal.Decimal              `db:"longitude" json:"longitude,omitempty"`
	Endpoints             []ServiceEndpoint             `json:"endpoints,omitempty"`
	ScheduledOpeningTimes []ServiceDayOpening           `json:"scheduled_opening_times,omitempty"`
	SpecifiedOpeningTimes []ServiceSpecifiedOpeningDate `json:"specified_opening_times,omitempty"`
	SGSDs                 []ServiceSGSD                 `json:"sgsds,omitempty"`
	Dispositions          []ServiceDisposition          `json:"dispositions,omitempty"`
	AgeRanges             []ServiceAgeRange             `json:"age_range,omitempty"`

	// LoadErr is set when the service row or one of its child rows could
	// not be read. The rest of the record may be incomplete.
	LoadErr error `db:"-" json:"-"`
}

func (s *Service) addLoadErr(err error) {
	s.LoadErr = errors.Join(s.LoadErr, err)
}

// Clone returns a deep copy so validation can sanitise fields without
// touching the caller's record.
func (s *Service) Clone() *Service {
	c := *s
	c.PublicName = cloneStr(s.PublicName)
	c.ODSCode = cloneStr(s.ODSCode)
	c.Address = cloneStr(s.Address)
	c.Town = cloneStr(s.Town)
	c.Postcode = cloneStr(s.Postcode)
	c.PublicPhone = cloneStr(s.PublicPhone)
	c.NonPublicPhone = cloneStr(s.NonPublicPhone)
	c.Email = cloneStr(s.Email)
	c.Web = cloneStr(s.Web)
	c.Endpoints = append([]ServiceEndpoint(nil), s.Endpoints...)
	c.ScheduledOpeningTimes = append([]ServiceDayOpening(nil), s.ScheduledOpeningTimes...)
	c.SpecifiedOpeningTimes = append([]ServiceSpecifiedOpeningDate(nil), s.SpecifiedOpeningTimes...)
	c.SGSDs = append([]ServiceSGSD(nil), s.SGSDs...)
	c.Dispositions = append([]ServiceDisposition(nil), s.Dispositions...)
	c.AgeRanges = append([]ServiceAgeRange(nil), s.AgeRanges...)
	return &c
}

func cloneStr(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

type ServiceEndpoint struct {
	ID                   int64   `db:"id" json:"id"`
	EndpointOrder        int     `db:"endpointorder" json:"endpointorder"`
	Transport            string  `db:"transport" json:"transport"`
	Format               *string `db:"format" json:"format,omitempty"`
	Interaction          string  `db:"interaction" json:"interaction"`
	BusinessScenario     string  `db:"businessscenario" json:"businessscenario"`
	Address              string  `db:"address" json:"address"`
	Comment              *string `db:"comment" json:"comment,omitempty"`
	IsCompressionEnabled string  `db:"iscompressionenabled" json:"iscompressionenabled"`
	ServiceID            int64   `db:"serviceid" json:"serviceid"`
}

type ServiceDayOpening struct {
	ID        int64                   `db:"id" json:"id"`
	ServiceID int64                   `db:"serviceid" json:"serviceid"`
	DayID     int64                   `db:"dayid" json:"dayid"`
	Times     []ServiceDayOpeningTime `json:"times"`
}

type ServiceDayOpeningTime struct {
	ID        int64     `db:"id" json:"id"`
	StartTime TimeOfDay `db:"starttime" json:"starttime"`
	EndTime   TimeOfDay `db:"endtime" json:"endtime"`
}

type ServiceSpecifiedOpeningDate struct {
	ID        int64                         `db:"id" json:"id"`
	ServiceID int64                         `db:"serviceid" json:"serviceid"`
	Date      time.Time                     `db:"date" json:"date"`
	Times     []ServiceSpecifiedOpeningTime `json:"times"`
}

type ServiceSpecifiedOpeningTime struct {
	ID        int64     `db:"id" json:"id"`
	StartTime TimeOfDay `db:"starttime" json:"starttime"`
	EndTime   TimeOfDay `db:"endtime" json:"endtime"`
	IsClosed  bool      `db:"isclosed" json:"isclosed"`
}

type ServiceSGSD struct {
	ID        int64 `db:"id" json:"id"`
	ServiceID int64 `db:"serviceid" json:"serviceid"`
	SGID      int64 `db:"sgid" json:"sgid"`
	SDID      int64 `db:"sdid" json:"sdid"`
}

type ServiceDisposition struct {
	ID            int64 `db:"id" json:"id"`
	ServiceID     int64 `db:"serviceid" json:"serviceid"`
	DispositionID int64 `db:"dispositionid" json:"dispositionid"`
}

type ServiceAgeRange struct {
	ID        int64           `db:"id" json:"id"`
	ServiceID int64           `db:"serviceid" json:"serviceid"`
	DaysFrom  decimal.Decimal `db:"daysfrom" json:"daysfrom"`
	DaysTo    decimal.Decimal `db:"daysto" json:"daysto"`
}

// Reference tables.

type ServiceType struct {
	ID   int64  `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}

type SymptomGroup struct {
	ID          int64  `db:"id" json:"id"`
	Name        string `db:"name" json:"name"`
	ZCodeExists *bool  `db:"zcodeexists" json:"zcodeexists,omitempty"`
}

// IsZCode reports whether the symptom group is flagged as a z-code.
func (sg *SymptomGroup) IsZCode() bool {
	return sg.ZCodeExists != nil && *sg.ZCodeExists
}

type SymptomDiscriminator struct {
	ID          int64                         `db:"id" json:"id"`
	Description *string                       `db:"description" json:"description,omitempty"`
	Synonyms    []SymptomDiscriminatorSynonym `json:"synonyms"`
}

type SymptomDiscriminatorSynonym struct {
	ID                     int64  `db:"id" json:"id"`
	Name                   string `db:"name" json:"name"`
	SymptomDiscriminatorID int64  `db:"symptomdiscriminatorid" json:"symptomdiscriminatorid"`
}

type Disposition struct {
	ID              int64  `db:"id" json:"id"`
	Name            string `db:"name" json:"name"`
	DxCode          string `db:"dxcode" json:"dxcode"`
	DispositionTime *int   `db:"dispositiontime" json:"dispositiontime,omitempty"`
}

type OpeningTimeDay struct {
	ID   int64  `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}

type SymptomGroupSymptomDiscriminator struct {
	ID                     int64 `db:"id" json:"id"`
	SymptomGroupID         int64 `db:"symptomgroupid" json:"symptomgroupid"`
	SymptomDiscriminatorID int64 `db:"symptomdiscriminatorid" json:"symptomdiscriminatorid"`
}
