package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/bareloved/gigpack-sub000/internal/domain"
	"github.com/redis/go-redis/v9"
)

// memoryCache is an in-memory Cache
type memoryCache struct {
	mu   sync.Mutex
	data map[string]string
	sets int
	dels int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: make(map[string]string)}
}

func (m *memoryCache) Get(ctx context.Context, key string) *redis.StringCmd {
	m.mu.Lock()
	defer m.mu.Unlock()
	cmd := redis.NewStringCmd(ctx)
	v, ok := m.data[key]
	if !ok {
		cmd.SetErr(redis.Nil)
		return cmd
	}
	cmd.SetVal(v)
	return cmd
}

func (m *memoryCache) Set(ctx context.Context, key string, value interface{}, _ time.Duration) *redis.StatusCmd {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sets++
	m.data[key] = fmt.Sprint(value)
	cmd := redis.NewStatusCmd(ctx)
	cmd.SetVal("OK")
	return cmd
}

func (m *memoryCache) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dels++
	var n int64
	for _, k := range keys {
		if _, ok := m.data[k]; ok {
			delete(m.data, k)
			n++
		}
	}
	cmd := redis.NewIntCmd(ctx)
	cmd.SetVal(n)
	return cmd
}

func (m *memoryCache) has(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.data[key]
	return ok
}

// MockBandRepository is a map-backed BandRepository that counts lookups
type MockBandRepository struct {
	bands        map[string]*domain.Band
	getByIDCount int
}

func NewMockBandRepository() *MockBandRepository {
	return &MockBandRepository{bands: make(map[string]*domain.Band)}
}

func (m *MockBandRepository) Create(ctx context.Context, band *domain.Band) error {
	m.bands[band.ID] = band
	return nil
}

func (m *MockBandRepository) GetByID(ctx context.Context, id string) (*domain.Band, error) {
	m.getByIDCount++
	band, ok := m.bands[id]
	if !ok {
		return nil, nil
	}
	return band, nil
}

func (m *MockBandRepository) ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]*domain.Band, int, error) {
	var bands []*domain.Band
	for _, b := range m.bands {
		if b.OwnerID == ownerID {
			bands = append(bands, b)
		}
	}
	return bands, len(bands), nil
}

func (m *MockBandRepository) Update(ctx context.Context, band *domain.Band) error {
	if _, ok := m.bands[band.ID]; !ok {
		return ErrNotFound
	}
	m.bands[band.ID] = band
	return nil
}

func (m *MockBandRepository) Delete(ctx context.Context, id string) error {
	if _, ok := m.bands[id]; !ok {
		return ErrNotFound
	}
	delete(m.bands, id)
	return nil
}

// MockGigPackRepository is a map-backed GigPackRepository that counts slug lookups
type MockGigPackRepository struct {
	packs          map[string]*domain.GigPack
	getBySlugCount int
}

func NewMockGigPackRepository() *MockGigPackRepository {
	return &MockGigPackRepository{packs: make(map[string]*domain.GigPack)}
}

func (m *MockGigPackRepository) Create(ctx context.Context, pack *domain.GigPack) error {
	m.packs[pack.ID] = pack
	return nil
}

func (m *MockGigPackRepository) GetByID(ctx context.Context, id string) (*domain.GigPack, error) {
	pack, ok := m.packs[id]
	if !ok || pack.IsDeleted() {
		return nil, nil
	}
	return pack, nil
}

func (m *MockGigPackRepository) GetBySlug(ctx context.Context, slug string) (*domain.GigPack, error) {
	m.getBySlugCount++
	for _, p := range m.packs {
		if p.PublicSlug == slug && !p.IsDeleted() {
			return p, nil
		}
	}
	return nil, nil
}

func (m *MockGigPackRepository) List(ctx context.Context, filter *GigPackFilter, limit, offset int) ([]*domain.GigPack, int, error) {
	var packs []*domain.GigPack
	for _, p := range m.packs {
		if !p.IsDeleted() && (filter == nil || filter.OwnerID == "" || p.OwnerID == filter.OwnerID) {
			packs = append(packs, p)
		}
	}
	return packs, len(packs), nil
}

func (m *MockGigPackRepository) Update(ctx context.Context, pack *domain.GigPack) error {
	if _, ok := m.packs[pack.ID]; !ok {
		return ErrNotFound
	}
	m.packs[pack.ID] = pack
	return nil
}

func (m *MockGigPackRepository) UpdateSchedule(ctx context.Context, id string, schedule []domain.GigScheduleItem) error {
	pack, ok := m.packs[id]
	if !ok {
		return ErrNotFound
	}
	pack.Schedule = schedule
	return nil
}

func (m *MockGigPackRepository) Delete(ctx context.Context, id string) error {
	pack, ok := m.packs[id]
	if !ok || pack.IsDeleted() {
		return ErrNotFound
	}
	now := time.Now()
	pack.DeletedAt = &now
	return nil
}

func (m *MockGigPackRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	for _, p := range m.packs {
		if p.PublicSlug == slug {
			return true, nil
		}
	}
	return false, nil
}
