package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bareloved/gigpack-sub000/internal/domain"
	"github.com/bareloved/gigpack-sub000/internal/dto"
	"github.com/bareloved/gigpack-sub000/internal/repository"
	"github.com/google/uuid"
)

// Common errors
var (
	ErrBandNotFound = errors.New("band not found")
	ErrForbidden    = errors.New("not allowed to access this resource")
)

// bandService implements BandService
type bandService struct {
	bandRepo repository.BandRepository
}

// NewBandService creates a new BandService
func NewBandService(bandRepo repository.BandRepository) BandService {
	return &bandService{
		bandRepo: bandRepo,
	}
}

// CreateBand creates a new band
func (s *bandService) CreateBand(ctx context.Context, req *dto.CreateBandRequest) (*domain.Band, error) {
	if valid, msg := req.Validate(); !valid {
		return nil, errors.New(msg)
	}

	now := time.Now()
	band := &domain.Band{
		ID:           uuid.New().String(),
		OwnerID:      req.OwnerID,
		Name:         strings.TrimSpace(req.Name),
		Description:  req.Description,
		LogoURL:      req.LogoURL,
		HeroImageURL: req.HeroImageURL,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := band.Validate(); err != nil {
		return nil, err
	}

	if err := s.bandRepo.Create(ctx, band); err != nil {
		return nil, err
	}

	return band, nil
}

// GetBand retrieves one of the owner's bands
func (s *bandService) GetBand(ctx context.Context, ownerID, id string) (*domain.Band, error) {
	return s.ownedBand(ctx, ownerID, id)
}

// ListBands lists the owner's bands with pagination
func (s *bandService) ListBands(ctx context.Context, filter *dto.BandListFilter) ([]*domain.Band, int, error) {
	filter.SetDefaults()
	return s.bandRepo.ListByOwner(ctx, filter.OwnerID, filter.Limit, filter.Offset)
}

// UpdateBand updates one of the owner's bands
func (s *bandService) UpdateBand(ctx context.Context, ownerID, id string, req *dto.UpdateBandRequest) (*domain.Band, error) {
	if valid, msg := req.Validate(); !valid {
		return nil, errors.New(msg)
	}

	band, err := s.ownedBand(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		band.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		band.Description = *req.Description
	}
	if req.LogoURL != nil {
		band.LogoURL = *req.LogoURL
	}
	if req.HeroImageURL != nil {
		band.HeroImageURL = *req.HeroImageURL
	}
	band.UpdatedAt = time.Now()

	if err := s.bandRepo.Update(ctx, band); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrBandNotFound
		}
		return nil, err
	}

	return band, nil
}

// DeleteBand deletes one of the owner's bands. Gig packs pointing at it
// keep their copied band name.
func (s *bandService) DeleteBand(ctx context.Context, ownerID, id string) error {
	if _, err := s.ownedBand(ctx, ownerID, id); err != nil {
		return err
	}

	if err := s.bandRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrBandNotFound
		}
		return err
	}
	return nil
}

// ownedBand loads a band and checks it belongs to ownerID
func (s *bandService) ownedBand(ctx context.Context, ownerID, id string) (*domain.Band, error) {
	band, err := s.bandRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if band == nil {
		return nil, ErrBandNotFound
	}
	if !band.IsOwnedBy(ownerID) {
		return nil, ErrForbidden
	}
	return band, nil
}
