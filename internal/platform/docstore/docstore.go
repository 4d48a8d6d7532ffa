// Package docstore persists migrated documents as JSON keyed by id in one
// table per entity type.
package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrNotFound is returned by Get when no document exists for the key.
var ErrNotFound = errors.New("document not found")

// Entity names of the target tables.
const (
	EntityOrganisation      = "organisation"
	EntityLocation          = "location"
	EntityHealthcareService = "healthcare-service"
	EntityTriageCode        = "triage-code"
)

// Entities lists every target table in export order.
var Entities = []string{
	EntityOrganisation,
	EntityLocation,
	EntityHealthcareService,
	EntityTriageCode,
}

// FormatTableName returns "<prefix>-<env>-database-<entity>[-<workspace>]".
func FormatTableName(prefix, env, entity, workspace string) string {
	name := fmt.Sprintf("%s-%s-database-%s", prefix, env, entity)
	if workspace != "" {
		name += "-" + workspace
	}
	return name
}

// Store is a set of keyed JSON document tables. Put is an upsert: writing
// the same key twice leaves one document holding the latest content.
type Store interface {
	EnsureTable(ctx context.Context, table string) error
	Put(ctx context.Context, table, key string, doc json.RawMessage) error
	PutBatch(ctx context.Context, table string, docs map[string]json.RawMessage) error
	Get(ctx context.Context, table, key string) (json.RawMessage, error)
	// Scan calls fn for every document in key order.
	Scan(ctx context.Context, table string, fn func(key string, doc json.RawMessage) error) error
}

// Table is a typed view over one document table.
type Table[T any] struct {
	store Store
	name  string
	key   func(*T) string
}

func NewTable[T any](store Store, name string, key func(*T) string) *Table[T] {
	return &Table[T]{store: store, name: name, key: key}
}

func (t *Table[T]) Name() string { return t.name }

func (t *Table[T]) Upsert(ctx context.Context, doc *T) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal document for %s: %w", t.name, err)
	}
	if err := t.store.Put(ctx, t.name, t.key(doc), data); err != nil {
		return fmt.Errorf("upsert into %s: %w", t.name, err)
	}
	return nil
}

func (t *Table[T]) Get(ctx context.Context, key string) (*T, error) {
	data, err := t.store.Get(ctx, t.name, key)
	if err != nil {
		return nil, err
	}
	var doc T
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode document %s/%s: %w", t.name, key, err)
	}
	return &doc, nil
}
