package repository

import (
	"context"
	"time"

	"github.com/bareloved/gigpack-sub000/internal/domain"
)

// CachedGigPackRepository caches public slug lookups, the only read served
// to unauthenticated visitors. Every write drops the slug entry.
type CachedGigPackRepository struct {
	repo  GigPackRepository
	cache Cache
	ttl   time.Duration
}

// NewCachedGigPackRepository creates a new CachedGigPackRepository
func NewCachedGigPackRepository(repo GigPackRepository, cache Cache, ttl time.Duration) *CachedGigPackRepository {
	if ttl <= 0 {
		ttl = defaultSlugCacheTTL
	}
	return &CachedGigPackRepository{
		repo:  repo,
		cache: cache,
		ttl:   ttl,
	}
}

// Create creates a new gig pack
func (r *CachedGigPackRepository) Create(ctx context.Context, pack *domain.GigPack) error {
	return r.repo.Create(ctx, pack)
}

// GetByID bypasses the cache; owners must see their latest edits
func (r *CachedGigPackRepository) GetByID(ctx context.Context, id string) (*domain.GigPack, error) {
	return r.repo.GetByID(ctx, id)
}

// GetBySlug retrieves a gig pack by its public slug with caching
func (r *CachedGigPackRepository) GetBySlug(ctx context.Context, slug string) (*domain.GigPack, error) {
	key := gigPackSlugPrefix + slug

	var pack domain.GigPack
	if getJSON(ctx, r.cache, key, &pack) {
		pack.EnsureCollections()
		return &pack, nil
	}

	found, err := r.repo.GetBySlug(ctx, slug)
	if err != nil || found == nil {
		return found, err
	}

	setJSON(ctx, r.cache, key, found, r.ttl)
	return found, nil
}

// List bypasses the cache
func (r *CachedGigPackRepository) List(ctx context.Context, filter *GigPackFilter, limit, offset int) ([]*domain.GigPack, int, error) {
	return r.repo.List(ctx, filter, limit, offset)
}

// Update updates a gig pack and drops its slug entry
func (r *CachedGigPackRepository) Update(ctx context.Context, pack *domain.GigPack) error {
	if err := r.repo.Update(ctx, pack); err != nil {
		return err
	}
	r.invalidate(ctx, pack.PublicSlug)
	return nil
}

// UpdateSchedule replaces the schedule and drops the slug entry
func (r *CachedGigPackRepository) UpdateSchedule(ctx context.Context, id string, schedule []domain.GigScheduleItem) error {
	pack, err := r.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := r.repo.UpdateSchedule(ctx, id, schedule); err != nil {
		return err
	}
	if pack != nil {
		r.invalidate(ctx, pack.PublicSlug)
	}
	return nil
}

// Delete soft deletes a gig pack and drops its slug entry
func (r *CachedGigPackRepository) Delete(ctx context.Context, id string) error {
	pack, err := r.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := r.repo.Delete(ctx, id); err != nil {
		return err
	}
	if pack != nil {
		r.invalidate(ctx, pack.PublicSlug)
	}
	return nil
}

// SlugExists bypasses the cache
func (r *CachedGigPackRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	return r.repo.SlugExists(ctx, slug)
}

func (r *CachedGigPackRepository) invalidate(ctx context.Context, slug string) {
	if slug != "" {
		r.cache.Del(ctx, gigPackSlugPrefix+slug)
	}
}
