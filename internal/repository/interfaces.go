package repository

import (
	"context"
	"errors"

	"github.com/bareloved/gigpack-sub000/internal/domain"
)

// ErrNotFound is returned by Update and Delete when no live row matched
var ErrNotFound = errors.New("record not found")

// ErrSlugTaken is returned by Create when the public slug is already used
var ErrSlugTaken = errors.New("public slug already taken")

// BandRepository defines the interface for band data access.
// Lookups return (nil, nil) when the band does not exist.
type BandRepository interface {
	// Create creates a new band
	Create(ctx context.Context, band *domain.Band) error
	// GetByID retrieves a band by ID
	GetByID(ctx context.Context, id string) (*domain.Band, error)
	// ListByOwner lists an owner's bands, newest first
	ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]*domain.Band, int, error)
	// Update updates a band
	Update(ctx context.Context, band *domain.Band) error
	// Delete deletes a band by ID
	Delete(ctx context.Context, id string) error
}

// GigPackRepository defines the interface for gig pack data access.
// Lookups return (nil, nil) when the pack does not exist or was deleted.
type GigPackRepository interface {
	// Create creates a new gig pack
	Create(ctx context.Context, pack *domain.GigPack) error
	// GetByID retrieves a gig pack by ID
	GetByID(ctx context.Context, id string) (*domain.GigPack, error)
	// GetBySlug retrieves a gig pack by its public slug
	GetBySlug(ctx context.Context, slug string) (*domain.GigPack, error)
	// List lists gig packs with filters and pagination
	List(ctx context.Context, filter *GigPackFilter, limit, offset int) ([]*domain.GigPack, int, error)
	// Update updates a gig pack
	Update(ctx context.Context, pack *domain.GigPack) error
	// UpdateSchedule replaces only the schedule of a gig pack
	UpdateSchedule(ctx context.Context, id string, schedule []domain.GigScheduleItem) error
	// Delete soft deletes a gig pack by ID
	Delete(ctx context.Context, id string) error
	// SlugExists checks if a public slug is already used
	SlugExists(ctx context.Context, slug string) (bool, error)
}

// GigPackFilter contains filter options for listing gig packs
type GigPackFilter struct {
	OwnerID string
	BandID  string
	GigType string
	Search  string
}
