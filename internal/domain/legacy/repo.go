package legacy

import (
	"context"
	"errors"
)

// ErrNotFound is returned by point lookups for an absent id.
var ErrNotFound = errors.New("legacy record not found")

// ServiceRepository reads service records with their nested collections.
type ServiceRepository interface {
	GetService(ctx context.Context, id int64) (*Service, error)
	// StreamServices calls fn for every service in id order, reading
	// batchSize records from the store at a time. A non-nil error from fn
	// stops the stream and is returned.
	StreamServices(ctx context.Context, batchSize int, fn func(*Service) error) error
	// ListServiceIDs returns service ids, optionally restricted to the
	// given type and status ids. A nil filter matches everything.
	ListServiceIDs(ctx context.Context, typeIDs, statusIDs []int64) ([]int64, error)
}

// ReferenceRepository reads the small reference tables.
type ReferenceRepository interface {
	GetServiceType(ctx context.Context, id int64) (*ServiceType, error)
	GetSymptomGroup(ctx context.Context, id int64) (*SymptomGroup, error)
	GetSymptomDiscriminator(ctx context.Context, id int64) (*SymptomDiscriminator, error)
	GetDisposition(ctx context.Context, id int64) (*Disposition, error)
	GetOpeningTimeDay(ctx context.Context, id int64) (*OpeningTimeDay, error)

	ListSymptomGroups(ctx context.Context) ([]*SymptomGroup, error)
	ListSymptomDiscriminators(ctx context.Context) ([]*SymptomDiscriminator, error)
	ListDispositions(ctx context.Context) ([]*Disposition, error)
	ListSymptomGroupSymptomDiscriminators(ctx context.Context) ([]*SymptomGroupSymptomDiscriminator, error)
}
