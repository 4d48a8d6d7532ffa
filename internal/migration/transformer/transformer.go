// Package transformer maps legacy services onto the target domain model.
//
// Each service category is a Definition: a Kind plus its eligibility and
// inclusion predicates, its validator and its mapping function. Registry
// lists the definitions in selection order; the first whose IsSupported
// accepts a service handles it.
package transformer

import (
	"context"

	"github.com/ftrs/dos-migration/internal/domain/healthcareservice"
	"github.com/ftrs/dos-migration/internal/domain/legacy"
	"github.com/ftrs/dos-migration/internal/domain/location"
	"github.com/ftrs/dos-migration/internal/domain/organisation"
	"github.com/ftrs/dos-migration/internal/migration/validation"
)

// StatusActive is the legacy status id of an active service.
const StatusActive = 1

// Output is the aggregate produced by one transform. Any list may be empty.
type Output struct {
	Organisations      []*organisation.Organisation           `json:"organisation" yaml:"organisation"`
	HealthcareServices []*healthcareservice.HealthcareService `json:"healthcare_service" yaml:"healthcare_service"`
	Locations          []*location.Location                   `json:"location" yaml:"location"`
}

// Kind names a transformer variant.
type Kind string

const (
	KindGPPractice       Kind = "GPPracticeTransformer"
	KindGPEnhancedAccess Kind = "GPEnhancedAccessTransformer"
)

// Predicate reports whether a service passes a check, with the reason when
// it does not.
type Predicate func(s *legacy.Service) (bool, string)

// TransformFunc builds the aggregate for a validated service. notes are
// the migration notes from validation.
type TransformFunc func(ctx context.Context, b *Builder, s *legacy.Service, notes []string) (*Output, error)

type Definition struct {
	Kind          Kind
	IsSupported   Predicate
	ShouldInclude Predicate
	Validator     validation.Validator
	Transform     TransformFunc
}

func (d Definition) Name() string { return string(d.Kind) }

// Registry is the ordered list of transformers tried for each service.
var Registry = []Definition{
	GPPractice,
	GPEnhancedAccess,
}

// Miss records a definition that declined a service.
type Miss struct {
	Kind   Kind
	Reason string
}

// Select returns the first definition in defs that supports s, along with
// every definition that declined it before the match.
func Select(defs []Definition, s *legacy.Service) (*Definition, []Miss) {
	var misses []Miss
	for i := range defs {
		ok, reason := defs[i].IsSupported(s)
		if ok {
			return &defs[i], misses
		}
		misses = append(misses, Miss{Kind: defs[i].Kind, Reason: reason})
	}
	return nil, misses
}

// ByKind looks a definition up by name.
func ByKind(defs []Definition, kind Kind) (*Definition, bool) {
	for i := range defs {
		if defs[i].Kind == kind {
			return &defs[i], true
		}
	}
	return nil, false
}
