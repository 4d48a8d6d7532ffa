package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ftrs/dos-migration/internal/platform/db"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

// StorePG keeps each table as (pk text, document jsonb, updated_at) in the
// given schema.
type StorePG struct {
	pool   *pgxpool.Pool
	schema string
}

func NewStorePG(pool *pgxpool.Pool, schema string) *StorePG {
	return &StorePG{pool: pool, schema: schema}
}

func (s *StorePG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return s.pool
}

func (s *StorePG) table(name string) string {
	if s.schema == "" {
		return pgx.Identifier{name}.Sanitize()
	}
	return pgx.Identifier{s.schema, name}.Sanitize()
}

func (s *StorePG) EnsureTable(ctx context.Context, table string) error {
	_, err := s.conn(ctx).Exec(ctx, fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
    pk TEXT PRIMARY KEY,
    document JSONB NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`, s.table(table)))
	if err != nil {
		return fmt.Errorf("create table %s: %w", table, err)
	}
	return nil
}

func (s *StorePG) upsertSQL(table string) string {
	return fmt.Sprintf(`INSERT INTO %s (pk, document, updated_at) VALUES ($1, $2, NOW())
ON CONFLICT (pk) DO UPDATE SET document = EXCLUDED.document, updated_at = NOW()`, s.table(table))
}

func (s *StorePG) Put(ctx context.Context, table, key string, doc json.RawMessage) error {
	_, err := s.conn(ctx).Exec(ctx, s.upsertSQL(table), key, []byte(doc))
	return err
}

// PutBatch writes all documents in one transaction.
func (s *StorePG) PutBatch(ctx context.Context, table string, docs map[string]json.RawMessage) error {
	if len(docs) == 0 {
		return nil
	}
	return db.WithTx(ctx, s.pool, func(ctx context.Context) error {
		sql := s.upsertSQL(table)
		batch := &pgx.Batch{}
		for _, key := range sortedKeys(docs) {
			batch.Queue(sql, key, []byte(docs[key]))
		}
		results := s.conn(ctx).SendBatch(ctx, batch)
		for range docs {
			if _, err := results.Exec(); err != nil {
				results.Close()
				return fmt.Errorf("batch upsert into %s: %w", table, err)
			}
		}
		return results.Close()
	})
}

func (s *StorePG) Get(ctx context.Context, table, key string) (json.RawMessage, error) {
	var doc []byte
	err := s.conn(ctx).QueryRow(ctx, fmt.Sprintf(`SELECT document FROM %s WHERE pk = $1`, s.table(table)), key).Scan(&doc)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get %s/%s: %w", table, key, err)
	}
	return doc, nil
}

func (s *StorePG) Scan(ctx context.Context, table string, fn func(key string, doc json.RawMessage) error) error {
	rows, err := s.conn(ctx).Query(ctx, fmt.Sprintf(`SELECT pk, document FROM %s ORDER BY pk`, s.table(table)))
	if err != nil {
		return fmt.Errorf("scan %s: %w", table, err)
	}
	defer rows.Close()

	for rows.Next() {
		var key string
		var doc []byte
		if err := rows.Scan(&key, &doc); err != nil {
			return fmt.Errorf("scan %s row: %w", table, err)
		}
		if err := fn(key, doc); err != nil {
			return err
		}
	}
	return rows.Err()
}
