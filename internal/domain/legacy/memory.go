package legacy

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// MemoryRepo is a map-backed ServiceRepository and ReferenceRepository.
type MemoryRepo struct {
	mu sync.RWMutex

	Services              map[int64]*Service
	ServiceTypes          map[int64]*ServiceType
	SymptomGroups         map[int64]*SymptomGroup
	SymptomDiscriminators map[int64]*SymptomDiscriminator
	Dispositions          map[int64]*Disposition
	OpeningTimeDays       map[int64]*OpeningTimeDay
	SGSDPairs             []*SymptomGroupSymptomDiscriminator

	// Lookups counts reference point lookups by table.
	Lookups map[string]int
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		Services:              make(map[int64]*Service),
		ServiceTypes:          make(map[int64]*ServiceType),
		SymptomGroups:         make(map[int64]*SymptomGroup),
		SymptomDiscriminators: make(map[int64]*SymptomDiscriminator),
		Dispositions:          make(map[int64]*Disposition),
		OpeningTimeDays:       make(map[int64]*OpeningTimeDay),
		Lookups:               make(map[string]int),
	}
}

var (
	_ ServiceRepository   = (*MemoryRepo)(nil)
	_ ReferenceRepository = (*MemoryRepo)(nil)
)

func (m *MemoryRepo) AddService(s *Service) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Services[s.ID] = s
}

func (m *MemoryRepo) sortedServiceIDs() []int64 {
	ids := make([]int64, 0, len(m.Services))
	for id := range m.Services {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (m *MemoryRepo) GetService(_ context.Context, id int64) (*Service, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.Services[id]
	if !ok {
		return nil, fmt.Errorf("service %d: %w", id, ErrNotFound)
	}
	return s.Clone(), nil
}

func (m *MemoryRepo) StreamServices(ctx context.Context, batchSize int, fn func(*Service) error) error {
	if batchSize <= 0 {
		return fmt.Errorf("batch size must be positive, got %d", batchSize)
	}
	m.mu.RLock()
	ids := m.sortedServiceIDs()
	m.mu.RUnlock()

	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return err
		}
		s, err := m.GetService(ctx, id)
		if err != nil {
			return err
		}
		if err := fn(s); err != nil {
			return err
		}
	}
	return nil
}

func (m *MemoryRepo) ListServiceIDs(_ context.Context, typeIDs, statusIDs []int64) ([]int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []int64
	for _, id := range m.sortedServiceIDs() {
		s := m.Services[id]
		if typeIDs != nil && !contains(typeIDs, s.TypeID) {
			continue
		}
		if statusIDs != nil && !contains(statusIDs, s.StatusID) {
			continue
		}
		out = append(out, id)
	}
	return out, nil
}

func contains(values []int64, v int64) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}

func lookup[T any](m *MemoryRepo, table string, items map[int64]*T, id int64) (*T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Lookups[table]++
	item, ok := items[id]
	if !ok {
		return nil, fmt.Errorf("%s %d: %w", table, id, ErrNotFound)
	}
	return item, nil
}

func (m *MemoryRepo) GetServiceType(_ context.Context, id int64) (*ServiceType, error) {
	return lookup(m, "servicetypes", m.ServiceTypes, id)
}

func (m *MemoryRepo) GetSymptomGroup(_ context.Context, id int64) (*SymptomGroup, error) {
	return lookup(m, "symptomgroups", m.SymptomGroups, id)
}

func (m *MemoryRepo) GetSymptomDiscriminator(_ context.Context, id int64) (*SymptomDiscriminator, error) {
	return lookup(m, "symptomdiscriminators", m.SymptomDiscriminators, id)
}

func (m *MemoryRepo) GetDisposition(_ context.Context, id int64) (*Disposition, error) {
	return lookup(m, "dispositions", m.Dispositions, id)
}

func (m *MemoryRepo) GetOpeningTimeDay(_ context.Context, id int64) (*OpeningTimeDay, error) {
	return lookup(m, "openingtimedays", m.OpeningTimeDays, id)
}

func sortedValues[T any](items map[int64]*T) []*T {
	ids := make([]int64, 0, len(items))
	for id := range items {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := make([]*T, 0, len(ids))
	for _, id := range ids {
		out = append(out, items[id])
	}
	return out
}

func (m *MemoryRepo) ListSymptomGroups(_ context.Context) ([]*SymptomGroup, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return sortedValues(m.SymptomGroups), nil
}

func (m *MemoryRepo) ListSymptomDiscriminators(_ context.Context) ([]*SymptomDiscriminator, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return sortedValues(m.SymptomDiscriminators), nil
}

func (m *MemoryRepo) ListDispositions(_ context.Context) ([]*Disposition, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return sortedValues(m.Dispositions), nil
}

func (m *MemoryRepo) ListSymptomGroupSymptomDiscriminators(_ context.Context) ([]*SymptomGroupSymptomDiscriminator, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]*SymptomGroupSymptomDiscriminator(nil), m.SGSDPairs...), nil
}
