package handler

import (
	"context"
	"time"

	"github.com/bareloved/gigpack-sub000/internal/domain"
	"github.com/bareloved/gigpack-sub000/internal/dto"
	"github.com/bareloved/gigpack-sub000/internal/schedule"
	"github.com/bareloved/gigpack-sub000/internal/service"
	"github.com/bareloved/gigpack-sub000/internal/theme"
	"github.com/bareloved/gigpack-sub000/pkg/middleware"
	"github.com/gin-gonic/gin"
)

// MockBandService is a mock implementation of BandService
type MockBandService struct {
	bands map[string]*domain.Band
	err   error
}

func NewMockBandService() *MockBandService {
	return &MockBandService{bands: make(map[string]*domain.Band)}
}

func (m *MockBandService) CreateBand(ctx context.Context, req *dto.CreateBandRequest) (*domain.Band, error) {
	if m.err != nil {
		return nil, m.err
	}
	now := time.Now()
	band := &domain.Band{
		ID:        "band-123",
		OwnerID:   req.OwnerID,
		Name:      req.Name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	m.bands[band.ID] = band
	return band, nil
}

func (m *MockBandService) owned(ownerID, id string) (*domain.Band, error) {
	band, ok := m.bands[id]
	if !ok {
		return nil, service.ErrBandNotFound
	}
	if band.OwnerID != ownerID {
		return nil, service.ErrForbidden
	}
	return band, nil
}

func (m *MockBandService) GetBand(ctx context.Context, ownerID, id string) (*domain.Band, error) {
	return m.owned(ownerID, id)
}

func (m *MockBandService) ListBands(ctx context.Context, filter *dto.BandListFilter) ([]*domain.Band, int, error) {
	if m.err != nil {
		return nil, 0, m.err
	}
	filter.SetDefaults()
	var bands []*domain.Band
	for _, b := range m.bands {
		if b.OwnerID == filter.OwnerID {
			bands = append(bands, b)
		}
	}
	return bands, len(bands), nil
}

func (m *MockBandService) UpdateBand(ctx context.Context, ownerID, id string, req *dto.UpdateBandRequest) (*domain.Band, error) {
	band, err := m.owned(ownerID, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		band.Name = *req.Name
	}
	return band, nil
}

func (m *MockBandService) DeleteBand(ctx context.Context, ownerID, id string) error {
	if _, err := m.owned(ownerID, id); err != nil {
		return err
	}
	delete(m.bands, id)
	return nil
}

// AddBand adds a band to the mock service
func (m *MockBandService) AddBand(band *domain.Band) {
	m.bands[band.ID] = band
}

// MockGigPackService is a mock implementation of GigPackService
type MockGigPackService struct {
	packs     map[string]*domain.GigPack
	bandNames map[string]string
	createErr error
	importErr error
}

func NewMockGigPackService() *MockGigPackService {
	return &MockGigPackService{
		packs:     make(map[string]*domain.GigPack),
		bandNames: make(map[string]string),
	}
}

func (m *MockGigPackService) CreateGigPack(ctx context.Context, req *dto.CreateGigPackRequest) (*domain.GigPack, error) {
	if m.createErr != nil {
		return nil, m.createErr
	}
	date, _ := dto.ParseDate(req.Date)
	now := time.Now()
	pack := &domain.GigPack{
		ID:         "gig-123",
		OwnerID:    req.OwnerID,
		Title:      req.Title,
		GigType:    domain.GigType(req.GigType),
		Date:       date,
		VenueName:  req.VenueName,
		PublicSlug: "test-slug-1a2b3c4d",
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	m.packs[pack.ID] = pack
	return pack, nil
}

func (m *MockGigPackService) owned(ownerID, id string) (*domain.GigPack, error) {
	pack, ok := m.packs[id]
	if !ok {
		return nil, service.ErrGigPackNotFound
	}
	if pack.OwnerID != ownerID {
		return nil, service.ErrForbidden
	}
	return pack, nil
}

func (m *MockGigPackService) GetGigPack(ctx context.Context, ownerID, id string) (*domain.GigPack, error) {
	return m.owned(ownerID, id)
}

func (m *MockGigPackService) ListGigPacks(ctx context.Context, filter *dto.GigPackListFilter) ([]*domain.GigPack, int, error) {
	filter.SetDefaults()
	var packs []*domain.GigPack
	for _, p := range m.packs {
		if p.OwnerID == filter.OwnerID {
			packs = append(packs, p)
		}
	}
	return packs, len(packs), nil
}

func (m *MockGigPackService) UpdateGigPack(ctx context.Context, ownerID, id string, req *dto.UpdateGigPackRequest) (*domain.GigPack, error) {
	pack, err := m.owned(ownerID, id)
	if err != nil {
		return nil, err
	}
	if req.Title != nil {
		pack.Title = *req.Title
	}
	return pack, nil
}

func (m *MockGigPackService) DeleteGigPack(ctx context.Context, ownerID, id string) error {
	if _, err := m.owned(ownerID, id); err != nil {
		return err
	}
	delete(m.packs, id)
	return nil
}

func (m *MockGigPackService) PreviewSchedule(ctx context.Context, ownerID, id, text string) (*service.SchedulePreview, error) {
	pack, err := m.owned(ownerID, id)
	if err != nil {
		return nil, err
	}
	result := schedule.ParseBlock(text)
	preview := &service.SchedulePreview{Result: result}
	for _, item := range result.Items {
		if schedule.IsDuplicate(item, pack.Schedule) {
			preview.Duplicates = append(preview.Duplicates, item)
		} else {
			preview.NewItems = append(preview.NewItems, item)
		}
	}
	return preview, nil
}

func (m *MockGigPackService) ImportSchedule(ctx context.Context, ownerID, id, text string) (*service.ScheduleImport, error) {
	if m.importErr != nil {
		return nil, m.importErr
	}
	pack, err := m.owned(ownerID, id)
	if err != nil {
		return nil, err
	}
	result := schedule.ParseBlock(text)
	merge := schedule.Materialize(result.Items, pack.Schedule)
	pack.Schedule = append(pack.Schedule, merge.Items...)
	return &service.ScheduleImport{Result: result, Merge: merge, Schedule: pack.Schedule}, nil
}

func (m *MockGigPackService) GetPublicGigPack(ctx context.Context, slug string) (*service.PublicGigPack, error) {
	for _, p := range m.packs {
		if p.PublicSlug == slug && p.IsPublic {
			return &service.PublicGigPack{
				Pack:         p,
				Theme:        m.ResolveTheme(ctx, p),
				HeroImageURL: p.PosterImageURL,
				Schedule:     schedule.SortItems(p.Schedule),
			}, nil
		}
	}
	return nil, service.ErrGigPackNotFound
}

func (m *MockGigPackService) ResolveTheme(ctx context.Context, pack *domain.GigPack) theme.Theme {
	var band *theme.BandInfo
	if pack.BandID != nil {
		if name, ok := m.bandNames[*pack.BandID]; ok {
			band = &theme.BandInfo{Name: name}
		}
	}
	return theme.Classify(theme.GigInfo{
		ExplicitType: pack.GigType.String(),
		VenueName:    pack.VenueName,
		Title:        pack.Title,
		BandName:     pack.BandName,
	}, band)
}

// AddGigPack adds a gig pack to the mock service
func (m *MockGigPackService) AddGigPack(pack *domain.GigPack) {
	m.packs[pack.ID] = pack
}

// withUser stands in for the JWT middleware; an X-Test-User header sets
// the authenticated user
func withUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if id := c.GetHeader("X-Test-User"); id != "" {
			c.Set(middleware.ContextKeyUserID, id)
		}
		c.Next()
	}
}
