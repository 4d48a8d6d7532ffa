package organisation

import (
	"context"

	"github.com/google/uuid"

	"github.com/ftrs/dos-migration/internal/platform/docstore"
)

type RepoDocstore struct {
	table *docstore.Table[Organisation]
}

func NewRepoDocstore(store docstore.Store, table string) *RepoDocstore {
	return &RepoDocstore{table: docstore.NewTable(store, table, (*Organisation).Key)}
}

func (r *RepoDocstore) Upsert(ctx context.Context, o *Organisation) error {
	return r.table.Upsert(ctx, o)
}

func (r *RepoDocstore) GetByID(ctx context.Context, id uuid.UUID) (*Organisation, error) {
	return r.table.Get(ctx, id.String())
}
