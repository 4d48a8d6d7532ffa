// Package metadata caches the legacy reference tables for the lifetime of
// one migration run.
package metadata

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/ftrs/dos-migration/internal/domain/legacy"
)

// ErrNotFound matches every NotFoundError.
var ErrNotFound = errors.New("metadata not found")

// NotFoundError reports a key absent from both the cache and the store.
type NotFoundError struct {
	Model string
	Key   int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("Item with key %d and model %s not found in cache or database", e.Key, e.Model)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// Loader fetches one item from the backing store.
type Loader[T any] func(ctx context.Context, key int64) (*T, error)

// KVCache is a read-through cache. Entries are never evicted.
type KVCache[T any] struct {
	model string
	load  Loader[T]

	mu    sync.RWMutex
	items map[int64]*T
}

func NewKVCache[T any](model string, load Loader[T]) *KVCache[T] {
	return &KVCache[T]{model: model, load: load, items: make(map[int64]*T)}
}

// Get returns the cached item for key, loading it on first use.
func (c *KVCache[T]) Get(ctx context.Context, key int64) (*T, error) {
	c.mu.RLock()
	item, ok := c.items[key]
	c.mu.RUnlock()
	if ok {
		return item, nil
	}

	item, err := c.load(ctx, key)
	if errors.Is(err, legacy.ErrNotFound) || (err == nil && item == nil) {
		return nil, &NotFoundError{Model: c.model, Key: key}
	}
	if err != nil {
		return nil, fmt.Errorf("load %s %d: %w", c.model, key, err)
	}

	c.mu.Lock()
	c.items[key] = item
	c.mu.Unlock()
	return item, nil
}

// Len returns the number of cached items.
func (c *KVCache[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Cache holds one KVCache per reference table. Construct one per run.
type Cache struct {
	ServiceTypes          *KVCache[legacy.ServiceType]
	SymptomGroups         *KVCache[legacy.SymptomGroup]
	SymptomDiscriminators *KVCache[legacy.SymptomDiscriminator]
	Dispositions          *KVCache[legacy.Disposition]
	OpeningTimeDays       *KVCache[legacy.OpeningTimeDay]
}

func New(repo legacy.ReferenceRepository) *Cache {
	return &Cache{
		ServiceTypes:          NewKVCache("ServiceType", repo.GetServiceType),
		SymptomGroups:         NewKVCache("SymptomGroup", repo.GetSymptomGroup),
		SymptomDiscriminators: NewKVCache("SymptomDiscriminator", repo.GetSymptomDiscriminator),
		Dispositions:          NewKVCache("Disposition", repo.GetDisposition),
		OpeningTimeDays:       NewKVCache("OpeningTimeDay", repo.GetOpeningTimeDay),
	}
}
