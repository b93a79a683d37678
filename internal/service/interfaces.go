package service

import (
	"context"

	"github.com/bareloved/gigpack-sub000/internal/domain"
	"github.com/bareloved/gigpack-sub000/internal/dto"
	"github.com/bareloved/gigpack-sub000/internal/theme"
)

// BandService defines the interface for band business logic.
// Every operation is scoped to the calling owner.
type BandService interface {
	// CreateBand creates a new band
	CreateBand(ctx context.Context, req *dto.CreateBandRequest) (*domain.Band, error)
	// GetBand retrieves one of the owner's bands
	GetBand(ctx context.Context, ownerID, id string) (*domain.Band, error)
	// ListBands lists the owner's bands with pagination
	ListBands(ctx context.Context, filter *dto.BandListFilter) ([]*domain.Band, int, error)
	// UpdateBand updates one of the owner's bands
	UpdateBand(ctx context.Context, ownerID, id string, req *dto.UpdateBandRequest) (*domain.Band, error)
	// DeleteBand deletes one of the owner's bands
	DeleteBand(ctx context.Context, ownerID, id string) error
}

// GigPackService defines the interface for gig pack business logic
type GigPackService interface {
	// CreateGigPack creates a new gig pack with a fresh public slug
	CreateGigPack(ctx context.Context, req *dto.CreateGigPackRequest) (*domain.GigPack, error)
	// GetGigPack retrieves one of the owner's gig packs
	GetGigPack(ctx context.Context, ownerID, id string) (*domain.GigPack, error)
	// ListGigPacks lists the owner's gig packs with filters and pagination
	ListGigPacks(ctx context.Context, filter *dto.GigPackListFilter) ([]*domain.GigPack, int, error)
	// UpdateGigPack updates one of the owner's gig packs
	UpdateGigPack(ctx context.Context, ownerID, id string, req *dto.UpdateGigPackRequest) (*domain.GigPack, error)
	// DeleteGigPack soft deletes one of the owner's gig packs
	DeleteGigPack(ctx context.Context, ownerID, id string) error
	// PreviewSchedule parses pasted schedule text without saving anything
	PreviewSchedule(ctx context.Context, ownerID, id, text string) (*SchedulePreview, error)
	// ImportSchedule parses pasted schedule text and appends the new entries
	ImportSchedule(ctx context.Context, ownerID, id, text string) (*ScheduleImport, error)
	// GetPublicGigPack retrieves a shared gig pack by its public slug
	GetPublicGigPack(ctx context.Context, slug string) (*PublicGigPack, error)
	// ResolveTheme classifies a pack, taking its linked band into account
	ResolveTheme(ctx context.Context, pack *domain.GigPack) theme.Theme
}
