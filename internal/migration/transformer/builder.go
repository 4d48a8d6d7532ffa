package transformer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ftrs/dos-migration/internal/domain/audit"
	"github.com/ftrs/dos-migration/internal/domain/clinicalcode"
	"github.com/ftrs/dos-migration/internal/domain/healthcareservice"
	"github.com/ftrs/dos-migration/internal/domain/legacy"
	"github.com/ftrs/dos-migration/internal/domain/location"
	"github.com/ftrs/dos-migration/internal/domain/organisation"
	"github.com/ftrs/dos-migration/internal/migration/agerange"
	"github.com/ftrs/dos-migration/internal/migration/formatting"
	"github.com/ftrs/dos-migration/internal/migration/identity"
	"github.com/ftrs/dos-migration/internal/migration/metadata"
	"github.com/ftrs/dos-migration/internal/platform/logging"
)

// BankHoliday is the opening-time day that maps to public holiday hours.
const BankHoliday = "BankHoliday"

// AddressNotAvailable marks a legacy address that must not be formatted.
const AddressNotAvailable = "Not Available"

// TransportTelephone endpoints carry no payload.
const TransportTelephone = "telno"

// Builder holds the sub-builders shared by every transformer. One Builder
// is created per record; its start time stamps the audit fields of every
// document built for that record.
type Builder struct {
	log       *logging.Logger
	meta      *metadata.Cache
	addresses *formatting.AddressFormatter
	startTime time.Time
}

func NewBuilder(log *logging.Logger, meta *metadata.Cache, addresses *formatting.AddressFormatter, startTime time.Time) *Builder {
	if addresses == nil {
		addresses = formatting.NewAddressFormatter(log, nil)
	}
	return &Builder{log: log, meta: meta, addresses: addresses, startTime: startTime}
}

func (b *Builder) audit() audit.Fields {
	return audit.Migration(b.startTime)
}

// BuildOrganisation maps a service to its provider organisation, including
// one endpoint per legacy endpoint.
func (b *Builder) BuildOrganisation(ctx context.Context, s *legacy.Service) (*organisation.Organisation, error) {
	orgID := identity.Generate(s.ID, identity.TagOrganisation)

	serviceType, err := b.meta.ServiceTypes.Get(ctx, s.TypeID)
	if err != nil {
		return nil, fmt.Errorf("resolve service type: %w", err)
	}

	org := &organisation.Organisation{
		ID:        orgID,
		Active:    true,
		Name:      s.Name,
		Type:      serviceType.Name,
		Endpoints: make([]organisation.Endpoint, 0, len(s.Endpoints)),
		Fields:    b.audit(),
	}
	if s.ODSCode != nil {
		org.IdentifierODSCode = *s.ODSCode
	}
	for _, ep := range s.Endpoints {
		org.Endpoints = append(org.Endpoints, b.BuildEndpoint(ep, orgID, nil))
	}
	return org, nil
}

// BuildEndpoint maps a legacy endpoint owned by orgID. Telephone endpoints
// carry no payload.
func (b *Builder) BuildEndpoint(ep legacy.ServiceEndpoint, orgID uuid.UUID, serviceID *uuid.UUID) organisation.Endpoint {
	var payloadType, payloadMimeType *string
	if ep.Transport != TransportTelephone {
		interaction := ep.Interaction
		payloadType = &interaction
		payloadMimeType = organisation.PayloadMimeType(ep.Format)
	}

	return organisation.Endpoint{
		ID:                    identity.Generate(ep.ID, identity.TagEndpoint),
		IdentifierOldDoSID:    ep.ID,
		Status:                organisation.EndpointStatusActive,
		ConnectionType:        ep.Transport,
		Description:           ep.BusinessScenario,
		PayloadType:           payloadType,
		PayloadMimeType:       payloadMimeType,
		Address:               ep.Address,
		ManagedByOrganisation: orgID,
		Service:               serviceID,
		Order:                 ep.EndpointOrder,
		IsCompressionEnabled:  ep.IsCompressionEnabled == "compressed",
		Fields:                b.audit(),
	}
}

// BuildLocation maps the service's site. The address is formatted only
// when present and not "Not Available"; the position only when both
// coordinates are non-zero.
func (b *Builder) BuildLocation(s *legacy.Service, orgID uuid.UUID) *location.Location {
	loc := &location.Location{
		ID:                   identity.Generate(s.ID, identity.TagLocation),
		Active:               true,
		ManagingOrganisation: orgID,
		PrimaryAddress:       true,
		Fields:               b.audit(),
	}

	if s.Latitude != nil && s.Longitude != nil && !s.Latitude.IsZero() && !s.Longitude.IsZero() {
		loc.PositionGCS = &location.PositionGCS{Latitude: *s.Latitude, Longitude: *s.Longitude}
	}

	if s.Address != nil && *s.Address != "" && *s.Address != AddressNotAvailable {
		addr := b.addresses.Format(*s.Address, deref(s.Town), deref(s.Postcode))
		loc.Address = &addr
		b.log.Log(logging.DMETL015, logging.Fields{"organisation": orgID.String(), "address": addr})
	} else {
		b.log.Log(logging.DMETL016, logging.Fields{"organisation": orgID.String()})
	}
	return loc
}

// BuildHealthcareService maps the service itself. providedBy and loc are
// nil for services with no organisation linkage.
func (b *Builder) BuildHealthcareService(
	ctx context.Context,
	s *legacy.Service,
	providedBy, loc *uuid.UUID,
	category healthcareservice.Category,
	typ healthcareservice.Type,
	notes []string,
) (*healthcareservice.HealthcareService, error) {
	openingTimes, err := b.BuildOpeningTimes(ctx, s)
	if err != nil {
		return nil, err
	}
	sgsds, err := b.BuildSGSDs(ctx, s)
	if err != nil {
		return nil, err
	}
	dispositions, err := b.BuildDispositions(ctx, s)
	if err != nil {
		return nil, err
	}
	if len(notes) == 0 {
		notes = nil
	}

	return &healthcareservice.HealthcareService{
		ID:                  identity.Generate(s.ID, identity.TagHealthcareService),
		IdentifierOldDoSUID: s.UID,
		Active:              true,
		Category:            category,
		Type:                typ,
		ProvidedBy:          providedBy,
		Location:            loc,
		Name:                s.Name,
		Telecom: healthcareservice.Telecom{
			PhonePublic:  s.PublicPhone,
			PhonePrivate: s.NonPublicPhone,
			Email:        s.Email,
			Web:          s.Web,
		},
		OpeningTime:                       openingTimes,
		SymptomGroupSymptomDiscriminators: sgsds,
		Dispositions:                      dispositions,
		MigrationNotes:                    notes,
		AgeEligibilityCriteria:            b.BuildAgeEligibilityCriteria(s),
		Fields:                            b.audit(),
	}, nil
}

// BuildOpeningTimes returns the weekly entries followed by the
// date-specific ones.
func (b *Builder) BuildOpeningTimes(ctx context.Context, s *legacy.Service) ([]healthcareservice.OpeningTime, error) {
	scheduled, err := b.BuildScheduledOpeningTimes(ctx, s.ScheduledOpeningTimes)
	if err != nil {
		return nil, err
	}
	return append(scheduled, BuildSpecifiedOpeningTimes(s.SpecifiedOpeningTimes)...), nil
}

func (b *Builder) BuildScheduledOpeningTimes(ctx context.Context, openings []legacy.ServiceDayOpening) ([]healthcareservice.OpeningTime, error) {
	items := []healthcareservice.OpeningTime{}
	for _, opening := range openings {
		day, err := b.meta.OpeningTimeDays.Get(ctx, opening.DayID)
		if err != nil {
			return nil, fmt.Errorf("resolve opening time day: %w", err)
		}

		category := healthcareservice.CategoryAvailableTime
		var dayOfWeek *string
		var allDay *bool
		if day.Name == BankHoliday {
			category = healthcareservice.CategoryAvailableTimePublicHolidays
		} else {
			dow := dayAbbreviation(day.Name)
			dayOfWeek = &dow
			f := false
			allDay = &f
		}

		for _, t := range opening.Times {
			items = append(items, healthcareservice.OpeningTime{
				Category:  category,
				DayOfWeek: dayOfWeek,
				StartTime: t.StartTime.String(),
				EndTime:   t.EndTime.String(),
				AllDay:    allDay,
			})
		}
	}
	return items, nil
}

// BuildSpecifiedOpeningTimes maps date-specific hours. Closed entries
// become notAvailable.
func BuildSpecifiedOpeningTimes(dates []legacy.ServiceSpecifiedOpeningDate) []healthcareservice.OpeningTime {
	items := []healthcareservice.OpeningTime{}
	for _, d := range dates {
		for _, t := range d.Times {
			category := healthcareservice.CategoryAvailableTimeVariations
			if t.IsClosed {
				category = healthcareservice.CategoryNotAvailable
			}
			items = append(items, healthcareservice.OpeningTime{
				Category:  category,
				StartTime: t.StartTime.On(d.Date).Format(healthcareservice.DateTimeLayout),
				EndTime:   t.EndTime.On(d.Date).Format(healthcareservice.DateTimeLayout),
			})
		}
	}
	return items
}

func (b *Builder) BuildSGSDs(ctx context.Context, s *legacy.Service) ([]clinicalcode.SymptomGroupSymptomDiscriminatorPair, error) {
	pairs := make([]clinicalcode.SymptomGroupSymptomDiscriminatorPair, 0, len(s.SGSDs))
	for _, code := range s.SGSDs {
		pair, err := b.BuildSGSDPair(ctx, code)
		if err != nil {
			return nil, err
		}
		pairs = append(pairs, pair)
	}
	return pairs, nil
}

// BuildSGSDPair resolves both halves of a pair. The symptom group's z-code
// flag decides the source of both codes.
func (b *Builder) BuildSGSDPair(ctx context.Context, code legacy.ServiceSGSD) (clinicalcode.SymptomGroupSymptomDiscriminatorPair, error) {
	sg, err := b.meta.SymptomGroups.Get(ctx, code.SGID)
	if err != nil {
		return clinicalcode.SymptomGroupSymptomDiscriminatorPair{}, fmt.Errorf("resolve symptom group: %w", err)
	}
	sd, err := b.meta.SymptomDiscriminators.Get(ctx, code.SDID)
	if err != nil {
		return clinicalcode.SymptomGroupSymptomDiscriminatorPair{}, fmt.Errorf("resolve symptom discriminator: %w", err)
	}

	source := clinicalcode.SymptomGroupSource(sg.IsZCode())
	synonyms := make([]string, 0, len(sd.Synonyms))
	for _, syn := range sd.Synonyms {
		synonyms = append(synonyms, syn.Name)
	}

	return clinicalcode.SymptomGroupSymptomDiscriminatorPair{
		SG: clinicalcode.Code{
			ID:        identity.Generate(sg.ID, identity.TagSymptomGroup),
			Source:    source,
			CodeType:  clinicalcode.CodeTypeSymptomGroup,
			CodeID:    code.SGID,
			CodeValue: sg.Name,
		},
		SD: clinicalcode.Code{
			ID:        identity.Generate(sd.ID, identity.TagSymptomDiscriminator),
			Source:    source,
			CodeType:  clinicalcode.CodeTypeSymptomDiscriminator,
			CodeID:    code.SDID,
			CodeValue: deref(sd.Description),
			Synonyms:  synonyms,
		},
	}, nil
}

func (b *Builder) BuildDispositions(ctx context.Context, s *legacy.Service) ([]clinicalcode.Code, error) {
	codes := make([]clinicalcode.Code, 0, len(s.Dispositions))
	for _, code := range s.Dispositions {
		d, err := b.BuildDisposition(ctx, code)
		if err != nil {
			return nil, err
		}
		codes = append(codes, d)
	}
	return codes, nil
}

// BuildDisposition maps one service disposition link. The id derives from
// the link row, the code id from the disposition itself.
func (b *Builder) BuildDisposition(ctx context.Context, code legacy.ServiceDisposition) (clinicalcode.Code, error) {
	d, err := b.meta.Dispositions.Get(ctx, code.DispositionID)
	if err != nil {
		return clinicalcode.Code{}, fmt.Errorf("resolve disposition: %w", err)
	}
	return clinicalcode.Code{
		ID:        identity.Generate(code.ID, identity.TagDisposition),
		Source:    clinicalcode.SourcePathways,
		CodeType:  clinicalcode.CodeTypeDisposition,
		CodeID:    code.DispositionID,
		CodeValue: d.Name,
		Time:      d.DispositionTime,
	}, nil
}

// BuildAgeEligibilityCriteria consolidates the service's age bands. It
// returns nil, and logs, when the service has none.
func (b *Builder) BuildAgeEligibilityCriteria(s *legacy.Service) []healthcareservice.AgeRange {
	if len(s.AgeRanges) == 0 {
		b.log.Log(logging.DMETL017, logging.Fields{"service_id": s.ID})
		return nil
	}
	ranges := make([]agerange.Range, 0, len(s.AgeRanges))
	for _, r := range s.AgeRanges {
		ranges = append(ranges, agerange.Range{From: r.DaysFrom, To: r.DaysTo})
	}
	return agerange.Consolidate(ranges)
}

func dayAbbreviation(name string) string {
	lower := strings.ToLower(name)
	if len(lower) > 3 {
		return lower[:3]
	}
	return lower
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
