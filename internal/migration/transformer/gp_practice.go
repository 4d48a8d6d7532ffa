package transformer

import (
	"context"
	"errors"
	"regexp"

	"github.com/ftrs/dos-migration/internal/domain/healthcareservice"
	"github.com/ftrs/dos-migration/internal/domain/legacy"
	"github.com/ftrs/dos-migration/internal/domain/location"
	"github.com/ftrs/dos-migration/internal/domain/organisation"
	"github.com/ftrs/dos-migration/internal/migration/validation"
)

// GPPracticeTypeID is the legacy service type of a GP practice.
const GPPracticeTypeID = 100

var gpPracticeODSCode = regexp.MustCompile(`^[ABCDEFGHJKLMNPVWY][0-9]{5}$`)

// ErrPublicNameMissing is returned when a GP practice reaches the transform
// without a public name.
var ErrPublicNameMissing = errors.New("publicname is not set")

// GPPractice handles active GP practices with a practice-format ODS code.
// It builds the organisation, its location and the consultation service.
var GPPractice = Definition{
	Kind:          KindGPPractice,
	IsSupported:   gpPracticeSupported,
	ShouldInclude: activeOnly,
	Validator:     validation.GPPracticeValidator{},
	Transform:     transformGPPractice,
}

func gpPracticeSupported(s *legacy.Service) (bool, string) {
	if s.TypeID != GPPracticeTypeID {
		return false, "Service type is not GP Practice (100)"
	}
	if s.ODSCode == nil || *s.ODSCode == "" {
		return false, "Service does not have an ODS code"
	}
	if !gpPracticeODSCode.MatchString(*s.ODSCode) {
		return false, "ODS code does not match the required format"
	}
	return true, ""
}

func activeOnly(s *legacy.Service) (bool, string) {
	if s.StatusID != StatusActive {
		return false, "Service is not active"
	}
	return true, ""
}

func transformGPPractice(ctx context.Context, b *Builder, s *legacy.Service, notes []string) (*Output, error) {
	org, err := b.BuildOrganisation(ctx, s)
	if err != nil {
		return nil, err
	}
	if s.PublicName == nil || *s.PublicName == "" {
		return nil, ErrPublicNameMissing
	}
	org.Name = validation.CleanName(*s.PublicName)

	loc := b.BuildLocation(s, org.ID)
	hs, err := b.BuildHealthcareService(ctx, s, &org.ID, &loc.ID,
		healthcareservice.CategoryGPServices, healthcareservice.TypeGPConsultationService, notes)
	if err != nil {
		return nil, err
	}

	return &Output{
		Organisations:      []*organisation.Organisation{org},
		HealthcareServices: []*healthcareservice.HealthcareService{hs},
		Locations:          []*location.Location{loc},
	}, nil
}
