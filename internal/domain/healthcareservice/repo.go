package healthcareservice

import (
	"context"

	"github.com/google/uuid"

	"github.com/ftrs/dos-migration/internal/platform/docstore"
)

type HealthcareServiceRepository interface {
	Upsert(ctx context.Context, hs *HealthcareService) error
	GetByID(ctx context.Context, id uuid.UUID) (*HealthcareService, error)
}

type RepoDocstore struct {
	table *docstore.Table[HealthcareService]
}

func NewRepoDocstore(store docstore.Store, table string) *RepoDocstore {
	return &RepoDocstore{table: docstore.NewTable(store, table, (*HealthcareService).Key)}
}

func (r *RepoDocstore) Upsert(ctx context.Context, hs *HealthcareService) error {
	return r.table.Upsert(ctx, hs)
}

func (r *RepoDocstore) GetByID(ctx context.Context, id uuid.UUID) (*HealthcareService, error) {
	return r.table.Get(ctx, id.String())
}
