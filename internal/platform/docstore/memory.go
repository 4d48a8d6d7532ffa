package docstore

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
)

// MemoryStore is an in-process Store used for previews and tests.
type MemoryStore struct {
	mu     sync.RWMutex
	tables map[string]map[string]json.RawMessage
	// Puts counts successful writes per table.
	Puts map[string]int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		tables: make(map[string]map[string]json.RawMessage),
		Puts:   make(map[string]int),
	}
}

func (m *MemoryStore) EnsureTable(_ context.Context, table string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tables[table]; !ok {
		m.tables[table] = make(map[string]json.RawMessage)
	}
	return nil
}

func (m *MemoryStore) Put(_ context.Context, table, key string, doc json.RawMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.put(table, key, doc)
	return nil
}

func (m *MemoryStore) put(table, key string, doc json.RawMessage) {
	t, ok := m.tables[table]
	if !ok {
		t = make(map[string]json.RawMessage)
		m.tables[table] = t
	}
	t[key] = append(json.RawMessage(nil), doc...)
	m.Puts[table]++
}

func (m *MemoryStore) PutBatch(_ context.Context, table string, docs map[string]json.RawMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for key, doc := range docs {
		m.put(table, key, doc)
	}
	return nil
}

func (m *MemoryStore) Get(_ context.Context, table, key string) (json.RawMessage, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	doc, ok := m.tables[table][key]
	if !ok {
		return nil, ErrNotFound
	}
	return doc, nil
}

func (m *MemoryStore) Scan(ctx context.Context, table string, fn func(key string, doc json.RawMessage) error) error {
	m.mu.RLock()
	t := m.tables[table]
	keys := sortedKeys(t)
	docs := make([]json.RawMessage, len(keys))
	for i, k := range keys {
		docs[i] = t[k]
	}
	m.mu.RUnlock()

	for i, k := range keys {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := fn(k, docs[i]); err != nil {
			return err
		}
	}
	return nil
}

// Len returns the number of documents in table.
func (m *MemoryStore) Len(table string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.tables[table])
}

func sortedKeys(docs map[string]json.RawMessage) []string {
	keys := make([]string, 0, len(docs))
	for k := range docs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
