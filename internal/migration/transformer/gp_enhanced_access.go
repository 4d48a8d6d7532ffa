package transformer

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/ftrs/dos-migration/internal/domain/healthcareservice"
	"github.com/ftrs/dos-migration/internal/domain/legacy"
	"github.com/ftrs/dos-migration/internal/domain/location"
	"github.com/ftrs/dos-migration/internal/domain/organisation"
	"github.com/ftrs/dos-migration/internal/migration/validation"
)

const (
	GPAccessHubTypeID          = 136
	PCNEnhancedServiceTypeID   = 152
	enhancedAccessODSCodeChars = 6
)

var enhancedAccessODSCode = regexp.MustCompile(`^U\d{5}$`)

// ExcludedEnhancedAccessNames are name fragments of services that are not
// migrated as enhanced access.
var ExcludedEnhancedAccessNames = []string{
	"GP Protected Learning Time (PLT)",
	"ARI - ",
	"Primary Care CAS - ",
}

// GPEnhancedAccess handles GP access hubs and PCN enhanced services. Only
// the healthcare service is built; it has no organisation or location.
var GPEnhancedAccess = Definition{
	Kind:          KindGPEnhancedAccess,
	IsSupported:   gpEnhancedAccessSupported,
	ShouldInclude: gpEnhancedAccessIncluded,
	Validator:     validation.ServiceValidator{},
	Transform:     transformGPEnhancedAccess,
}

func gpEnhancedAccessSupported(s *legacy.Service) (bool, string) {
	if s.TypeID != GPAccessHubTypeID && s.TypeID != PCNEnhancedServiceTypeID {
		return false, "Service type is not GP Access Hub (136) or Primary Care Network (PCN) Enhanced Service (152)"
	}
	if s.ODSCode == nil || *s.ODSCode == "" {
		return false, "Service does not have an ODS code"
	}

	code := *s.ODSCode
	if len(code) > enhancedAccessODSCodeChars {
		code = code[:enhancedAccessODSCodeChars]
	}
	if !enhancedAccessODSCode.MatchString(code) {
		return false, "ODS code (first 6 characters) does not match the required format (Unnnnn)"
	}
	return true, ""
}

func gpEnhancedAccessIncluded(s *legacy.Service) (bool, string) {
	if ok, reason := activeOnly(s); !ok {
		return false, reason
	}
	for _, pattern := range ExcludedEnhancedAccessNames {
		if s.Name != "" && strings.Contains(s.Name, pattern) {
			return false, fmt.Sprintf("Service name contains excluded pattern: '%s'", pattern)
		}
	}
	return true, ""
}

func transformGPEnhancedAccess(ctx context.Context, b *Builder, s *legacy.Service, notes []string) (*Output, error) {
	hs, err := b.BuildHealthcareService(ctx, s, nil, nil,
		healthcareservice.CategoryGPServices, healthcareservice.TypePCNService, notes)
	if err != nil {
		return nil, err
	}
	return &Output{
		Organisations:      []*organisation.Organisation{},
		HealthcareServices: []*healthcareservice.HealthcareService{hs},
		Locations:          []*location.Location{},
	}, nil
}
