package repository

import (
	"context"
	"time"

	"github.com/bareloved/gigpack-sub000/internal/domain"
)

// CachedBandRepository wraps BandRepository with a Redis read-through
// cache for single-band lookups. The public view reads the band of every
// pack it renders.
type CachedBandRepository struct {
	repo  BandRepository
	cache Cache
	ttl   time.Duration
}

// NewCachedBandRepository creates a new CachedBandRepository
func NewCachedBandRepository(repo BandRepository, cache Cache, ttl time.Duration) *CachedBandRepository {
	if ttl <= 0 {
		ttl = defaultBandCacheTTL
	}
	return &CachedBandRepository{
		repo:  repo,
		cache: cache,
		ttl:   ttl,
	}
}

// Create creates a new band
func (r *CachedBandRepository) Create(ctx context.Context, band *domain.Band) error {
	return r.repo.Create(ctx, band)
}

// GetByID retrieves a band by ID with caching
func (r *CachedBandRepository) GetByID(ctx context.Context, id string) (*domain.Band, error) {
	key := bandKeyPrefix + id

	var band domain.Band
	if getJSON(ctx, r.cache, key, &band) {
		return &band, nil
	}

	found, err := r.repo.GetByID(ctx, id)
	if err != nil || found == nil {
		return found, err
	}

	setJSON(ctx, r.cache, key, found, r.ttl)
	return found, nil
}

// ListByOwner bypasses the cache
func (r *CachedBandRepository) ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]*domain.Band, int, error) {
	return r.repo.ListByOwner(ctx, ownerID, limit, offset)
}

// Update updates a band and drops its cache entry
func (r *CachedBandRepository) Update(ctx context.Context, band *domain.Band) error {
	if err := r.repo.Update(ctx, band); err != nil {
		return err
	}
	r.cache.Del(ctx, bandKeyPrefix+band.ID)
	return nil
}

// Delete deletes a band and drops its cache entry
func (r *CachedBandRepository) Delete(ctx context.Context, id string) error {
	if err := r.repo.Delete(ctx, id); err != nil {
		return err
	}
	r.cache.Del(ctx, bandKeyPrefix+id)
	return nil
}
