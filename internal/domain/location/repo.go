package location

import (
	"context"

	"github.com/google/uuid"

	"github.com/ftrs/dos-migration/internal/platform/docstore"
)

type Repository interface {
	Upsert(ctx context.Context, l *Location) error
	GetByID(ctx context.Context, id uuid.UUID) (*Location, error)
}

type RepoDocstore struct {
	table *docstore.Table[Location]
}

func NewRepoDocstore(store docstore.Store, table string) *RepoDocstore {
	return &RepoDocstore{table: docstore.NewTable(store, table, (*Location).Key)}
}

func (r *RepoDocstore) Upsert(ctx context.Context, l *Location) error {
	return r.table.Upsert(ctx, l)
}

func (r *RepoDocstore) GetByID(ctx context.Context, id uuid.UUID) (*Location, error) {
	return r.table.Get(ctx, id.String())
}
