package triagecode

import (
	"context"

	"github.com/ftrs/dos-migration/internal/platform/docstore"
)

type Repository interface {
	Upsert(ctx context.Context, tc *TriageCode) error
	Get(ctx context.Context, id, field string) (*TriageCode, error)
}

type RepoDocstore struct {
	table *docstore.Table[TriageCode]
}

func NewRepoDocstore(store docstore.Store, table string) *RepoDocstore {
	return &RepoDocstore{table: docstore.NewTable(store, table, (*TriageCode).Key)}
}

func (r *RepoDocstore) Upsert(ctx context.Context, tc *TriageCode) error {
	if tc.Field == "" {
		tc.Field = FieldDocument
	}
	return r.table.Upsert(ctx, tc)
}

func (r *RepoDocstore) Get(ctx context.Context, id, field string) (*TriageCode, error) {
	return r.table.Get(ctx, (&TriageCode{ID: id, Field: field}).Key())
}
