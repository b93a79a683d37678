package service

import (
	"context"
	"strings"
	"time"

	"github.com/bareloved/gigpack-sub000/internal/domain"
	"github.com/bareloved/gigpack-sub000/internal/repository"
	"github.com/bareloved/gigpack-sub000/pkg/kafka"
	"github.com/stretchr/testify/mock"
)

// MockBandRepository is a mock implementation of BandRepository
type MockBandRepository struct {
	bands  map[string]*domain.Band
	getErr error
}

func NewMockBandRepository() *MockBandRepository {
	return &MockBandRepository{bands: make(map[string]*domain.Band)}
}

func (m *MockBandRepository) Create(ctx context.Context, band *domain.Band) error {
	m.bands[band.ID] = band
	return nil
}

func (m *MockBandRepository) GetByID(ctx context.Context, id string) (*domain.Band, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	band, ok := m.bands[id]
	if !ok {
		return nil, nil
	}
	cp := *band
	return &cp, nil
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
		return repository.ErrNotFound
	}
	m.bands[band.ID] = band
	return nil
}

func (m *MockBandRepository) Delete(ctx context.Context, id string) error {
	if _, ok := m.bands[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.bands, id)
	return nil
}

// AddBand helper
func (m *MockBandRepository) AddBand(band *domain.Band) {
	m.bands[band.ID] = band
}

// MockGigPackRepository is a mock implementation of GigPackRepository
type MockGigPackRepository struct {
	packs         map[string]*domain.GigPack
	slugToID      map[string]string
	createErr     error
	scheduleErrs  []error
	scheduleCalls int
}

func NewMockGigPackRepository() *MockGigPackRepository {
	return &MockGigPackRepository{
		packs:    make(map[string]*domain.GigPack),
		slugToID: make(map[string]string),
	}
}

func (m *MockGigPackRepository) Create(ctx context.Context, pack *domain.GigPack) error {
	if m.createErr != nil {
		err := m.createErr
		m.createErr = nil
		return err
	}
	if _, ok := m.slugToID[pack.PublicSlug]; ok {
		return repository.ErrSlugTaken
	}
	cp := *pack
	m.packs[pack.ID] = &cp
	m.slugToID[pack.PublicSlug] = pack.ID
	return nil
}

func (m *MockGigPackRepository) GetByID(ctx context.Context, id string) (*domain.GigPack, error) {
	pack, ok := m.packs[id]
	if !ok || pack.DeletedAt != nil {
		return nil, nil
	}
	cp := *pack
	return &cp, nil
}

func (m *MockGigPackRepository) GetBySlug(ctx context.Context, slug string) (*domain.GigPack, error) {
	id, ok := m.slugToID[slug]
	if !ok {
		return nil, nil
	}
	return m.GetByID(ctx, id)
}

func (m *MockGigPackRepository) List(ctx context.Context, filter *repository.GigPackFilter, limit, offset int) ([]*domain.GigPack, int, error) {
	var packs []*domain.GigPack
	for _, p := range m.packs {
		if p.DeletedAt != nil {
			continue
		}
		if filter != nil && filter.OwnerID != "" && p.OwnerID != filter.OwnerID {
			continue
		}
		if filter != nil && filter.GigType != "" && string(p.GigType) != filter.GigType {
			continue
		}
		if filter != nil && filter.Search != "" && !strings.Contains(strings.ToLower(p.Title), strings.ToLower(filter.Search)) {
			continue
		}
		packs = append(packs, p)
	}
	return packs, len(packs), nil
}

func (m *MockGigPackRepository) Update(ctx context.Context, pack *domain.GigPack) error {
	existing, ok := m.packs[pack.ID]
	if !ok || existing.DeletedAt != nil {
		return repository.ErrNotFound
	}
	cp := *pack
	m.packs[pack.ID] = &cp
	return nil
}

func (m *MockGigPackRepository) UpdateSchedule(ctx context.Context, id string, items []domain.GigScheduleItem) error {
	m.scheduleCalls++
	if len(m.scheduleErrs) > 0 {
		err := m.scheduleErrs[0]
		m.scheduleErrs = m.scheduleErrs[1:]
		if err != nil {
			return err
		}
	}
	pack, ok := m.packs[id]
	if !ok || pack.DeletedAt != nil {
		return repository.ErrNotFound
	}
	pack.Schedule = append([]domain.GigScheduleItem(nil), items...)
	return nil
}

func (m *MockGigPackRepository) Delete(ctx context.Context, id string) error {
	pack, ok := m.packs[id]
	if !ok || pack.DeletedAt != nil {
		return repository.ErrNotFound
	}
	now := time.Now()
	pack.DeletedAt = &now
	return nil
}

func (m *MockGigPackRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	_, ok := m.slugToID[slug]
	return ok, nil
}

// AddGigPack helper
func (m *MockGigPackRepository) AddGigPack(pack *domain.GigPack) {
	m.packs[pack.ID] = pack
	if pack.PublicSlug != "" {
		m.slugToID[pack.PublicSlug] = pack.ID
	}
}

// MockEventPublisher is a testify mock of EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) PublishGigPackCreated(ctx context.Context, pack *domain.GigPack) error {
	args := m.Called(ctx, pack)
	return args.Error(0)
}

func (m *MockEventPublisher) PublishGigPackUpdated(ctx context.Context, pack *domain.GigPack) error {
	args := m.Called(ctx, pack)
	return args.Error(0)
}

func (m *MockEventPublisher) PublishGigPackDeleted(ctx context.Context, pack *domain.GigPack) error {
	args := m.Called(ctx, pack)
	return args.Error(0)
}

func (m *MockEventPublisher) PublishScheduleImported(ctx context.Context, pack *domain.GigPack, importedCount int) error {
	args := m.Called(ctx, pack, importedCount)
	return args.Error(0)
}

func (m *MockEventPublisher) Close() error {
	args := m.Called()
	return args.Error(0)
}

// recordingProducer captures produced messages
type recordingProducer struct {
	messages []*kafka.Message
	err      error
	closed   bool
}

func (p *recordingProducer) Produce(ctx context.Context, msg *kafka.Message) error {
	if p.err != nil {
		return p.err
	}
	p.messages = append(p.messages, msg)
	return nil
}

func (p *recordingProducer) Close() {
	p.closed = true
}
