package service

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/bareloved/gigpack-sub000/internal/domain"
	"github.com/bareloved/gigpack-sub000/internal/dto"
	"github.com/bareloved/gigpack-sub000/internal/repository"
	"github.com/bareloved/gigpack-sub000/internal/schedule"
	"github.com/bareloved/gigpack-sub000/internal/theme"
	"github.com/bareloved/gigpack-sub000/pkg/database"
	"github.com/bareloved/gigpack-sub000/pkg/logger"
	"github.com/bareloved/gigpack-sub000/pkg/retry"
	"github.com/bareloved/gigpack-sub000/pkg/telemetry"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	ErrGigPackNotFound = errors.New("gig pack not found")
	ErrSlugUnavailable = errors.New("could not allocate a public slug")
)

const (
	maxSlugBaseLen  = 60
	maxSlugAttempts = 5
	fallbackSlug    = "gig"
)

var hyphenRun = regexp.MustCompile(`-+`)

// SchedulePreview is what an import of the same text would do
type SchedulePreview struct {
	Result     *schedule.Result
	NewItems   []schedule.ParsedItem
	Duplicates []schedule.ParsedItem
}

// ScheduleImport is the outcome of a persisted import
type ScheduleImport struct {
	Result   *schedule.Result
	Merge    *schedule.Merge
	Schedule []domain.GigScheduleItem
}

// PublicGigPack is the read-only view served to visitors
type PublicGigPack struct {
	Pack         *domain.GigPack
	Band         *domain.Band
	Theme        theme.Theme
	HeroImageURL string
	Schedule     []domain.GigScheduleItem
}

// gigPackService implements GigPackService
type gigPackService struct {
	gigPackRepo repository.GigPackRepository
	bandRepo    repository.BandRepository
	publisher   EventPublisher
	retryConfig *retry.Config
}

// NewGigPackService creates a new GigPackService. A nil publisher drops events.
func NewGigPackService(gigPackRepo repository.GigPackRepository, bandRepo repository.BandRepository, publisher EventPublisher) GigPackService {
	if publisher == nil {
		publisher = NewNoOpEventPublisher()
	}

	retryConfig := retry.DefaultConfig()
	retryConfig.ShouldRetry = database.IsTransient

	return &gigPackService{
		gigPackRepo: gigPackRepo,
		bandRepo:    bandRepo,
		publisher:   publisher,
		retryConfig: retryConfig,
	}
}

// CreateGigPack creates a new gig pack with a fresh public slug
func (s *gigPackService) CreateGigPack(ctx context.Context, req *dto.CreateGigPackRequest) (*domain.GigPack, error) {
	if valid, msg := req.Validate(); !valid {
		return nil, errors.New(msg)
	}

	date, err := dto.ParseDate(req.Date)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	pack := &domain.GigPack{
		ID:             uuid.New().String(),
		OwnerID:        req.OwnerID,
		Title:          strings.TrimSpace(req.Title),
		BandName:       strings.TrimSpace(req.BandName),
		GigType:        domain.GigType(req.GigType),
		Date:           date,
		CallTime:       normalizeClock(req.CallTime),
		OnStageTime:    normalizeClock(req.OnStageTime),
		VenueName:      req.VenueName,
		VenueAddress:   req.VenueAddress,
		VenueMapsURL:   req.VenueMapsURL,
		DressCode:      req.DressCode,
		Lineup:         req.Lineup,
		Setlist:        req.Setlist,
		Schedule:       toScheduleItems(req.Schedule),
		ParkingNotes:   req.ParkingNotes,
		PaymentNotes:   req.PaymentNotes,
		Notes:          req.Notes,
		PosterImageURL: req.PosterImageURL,
		IsPublic:       req.IsPublic,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	pack.EnsureCollections()

	if err := s.attachBand(ctx, pack, req.BandID, pack.BandName == ""); err != nil {
		return nil, err
	}
	if err := pack.Validate(); err != nil {
		return nil, err
	}

	base := generateSlug(pack.Title)
	for attempt := 0; attempt < maxSlugAttempts; attempt++ {
		slug, err := s.ensureUniqueSlug(ctx, base)
		if err != nil {
			return nil, err
		}
		pack.PublicSlug = slug

		err = s.gigPackRepo.Create(ctx, pack)
		if errors.Is(err, repository.ErrSlugTaken) {
			continue
		}
		if err != nil {
			return nil, err
		}

		s.publish(ctx, domain.GigPackEventCreated, pack, func(ctx context.Context) error {
			return s.publisher.PublishGigPackCreated(ctx, pack)
		})
		return pack, nil
	}

	return nil, ErrSlugUnavailable
}

// GetGigPack retrieves one of the owner's gig packs
func (s *gigPackService) GetGigPack(ctx context.Context, ownerID, id string) (*domain.GigPack, error) {
	return s.ownedGigPack(ctx, ownerID, id)
}

// ListGigPacks lists the owner's gig packs with filters and pagination
func (s *gigPackService) ListGigPacks(ctx context.Context, filter *dto.GigPackListFilter) ([]*domain.GigPack, int, error) {
	filter.SetDefaults()

	repoFilter := &repository.GigPackFilter{
		OwnerID: filter.OwnerID,
		BandID:  filter.BandID,
		GigType: filter.GigType,
		Search:  strings.TrimSpace(filter.Search),
	}

	return s.gigPackRepo.List(ctx, repoFilter, filter.Limit, filter.Offset)
}

// UpdateGigPack updates one of the owner's gig packs. The public slug
// never changes so shared links stay valid.
func (s *gigPackService) UpdateGigPack(ctx context.Context, ownerID, id string, req *dto.UpdateGigPackRequest) (*domain.GigPack, error) {
	if valid, msg := req.Validate(); !valid {
		return nil, errors.New(msg)
	}

	pack, err := s.ownedGigPack(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		pack.Title = strings.TrimSpace(*req.Title)
	}
	if req.BandName != nil {
		pack.BandName = strings.TrimSpace(*req.BandName)
	}
	if req.BandID != nil {
		if err := s.attachBand(ctx, pack, req.BandID, req.BandName == nil && pack.BandName == ""); err != nil {
			return nil, err
		}
	}
	if req.GigType != nil {
		pack.GigType = domain.GigType(*req.GigType)
	}
	if req.Date != nil {
		date, err := dto.ParseDate(*req.Date)
		if err != nil {
			return nil, err
		}
		pack.Date = date
	}
	if req.CallTime != nil {
		pack.CallTime = normalizeClock(*req.CallTime)
	}
	if req.OnStageTime != nil {
		pack.OnStageTime = normalizeClock(*req.OnStageTime)
	}
	if req.VenueName != nil {
		pack.VenueName = *req.VenueName
	}
	if req.VenueAddress != nil {
		pack.VenueAddress = *req.VenueAddress
	}
	if req.VenueMapsURL != nil {
		pack.VenueMapsURL = *req.VenueMapsURL
	}
	if req.DressCode != nil {
		pack.DressCode = *req.DressCode
	}
	if req.Lineup != nil {
		pack.Lineup = *req.Lineup
	}
	if req.Setlist != nil {
		pack.Setlist = *req.Setlist
	}
	if req.Schedule != nil {
		pack.Schedule = toScheduleItems(*req.Schedule)
	}
	if req.ParkingNotes != nil {
		pack.ParkingNotes = *req.ParkingNotes
	}
	if req.PaymentNotes != nil {
		pack.PaymentNotes = *req.PaymentNotes
	}
	if req.Notes != nil {
		pack.Notes = *req.Notes
	}
	if req.PosterImageURL != nil {
		pack.PosterImageURL = *req.PosterImageURL
	}
	if req.IsPublic != nil {
		pack.IsPublic = *req.IsPublic
	}
	pack.EnsureCollections()
	pack.UpdatedAt = time.Now()

	if err := pack.Validate(); err != nil {
		return nil, err
	}

	if err := s.gigPackRepo.Update(ctx, pack); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrGigPackNotFound
		}
		return nil, err
	}

	s.publish(ctx, domain.GigPackEventUpdated, pack, func(ctx context.Context) error {
		return s.publisher.PublishGigPackUpdated(ctx, pack)
	})
	return pack, nil
}

// DeleteGigPack soft deletes one of the owner's gig packs
func (s *gigPackService) DeleteGigPack(ctx context.Context, ownerID, id string) error {
	pack, err := s.ownedGigPack(ctx, ownerID, id)
	if err != nil {
		return err
	}

	if err := s.gigPackRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrGigPackNotFound
		}
		return err
	}

	s.publish(ctx, domain.GigPackEventDeleted, pack, func(ctx context.Context) error {
		return s.publisher.PublishGigPackDeleted(ctx, pack)
	})
	return nil
}

// PreviewSchedule parses text and partitions the accepted lines into new
// entries and duplicates of the stored schedule. Nothing is saved.
func (s *gigPackService) PreviewSchedule(ctx context.Context, ownerID, id, text string) (*SchedulePreview, error) {
	ctx, span := telemetry.StartSpan(ctx, "gigpack.schedule.preview")
	defer span.End()
	span.SetAttributes(attribute.String("gig_pack.id", id))

	pack, err := s.ownedGigPack(ctx, ownerID, id)
	if err != nil {
		telemetry.SetSpanError(span, err)
		return nil, err
	}

	result := schedule.ParseBlock(text)
	preview := &SchedulePreview{
		Result:     result,
		NewItems:   []schedule.ParsedItem{},
		Duplicates: []schedule.ParsedItem{},
	}
	for _, item := range result.Items {
		if schedule.IsDuplicate(item, pack.Schedule) {
			preview.Duplicates = append(preview.Duplicates, item)
		} else {
			preview.NewItems = append(preview.NewItems, item)
		}
	}

	span.SetAttributes(
		attribute.Int("schedule.lines", result.Total()),
		attribute.Int("schedule.parsed", len(result.Items)),
		attribute.Int("schedule.rejected", len(result.Errors)),
	)
	return preview, nil
}

// ImportSchedule parses text, drops duplicates of the stored schedule and
// appends the rest. Valid lines are imported even when siblings fail.
func (s *gigPackService) ImportSchedule(ctx context.Context, ownerID, id, text string) (*ScheduleImport, error) {
	ctx, span := telemetry.StartSpan(ctx, "gigpack.schedule.import")
	defer span.End()
	span.SetAttributes(attribute.String("gig_pack.id", id))

	pack, err := s.ownedGigPack(ctx, ownerID, id)
	if err != nil {
		telemetry.SetSpanError(span, err)
		return nil, err
	}

	result := schedule.ParseBlock(text)
	merge := schedule.Materialize(result.Items, pack.Schedule)

	updated := make([]domain.GigScheduleItem, 0, len(pack.Schedule)+len(merge.Items))
	updated = append(updated, pack.Schedule...)
	updated = append(updated, merge.Items...)

	if len(merge.Items) > 0 {
		err := retry.Err(ctx, s.retryConfig, func(ctx context.Context) error {
			return s.gigPackRepo.UpdateSchedule(ctx, id, updated)
		})
		if err != nil {
			telemetry.SetSpanError(span, err)
			if errors.Is(err, repository.ErrNotFound) {
				return nil, ErrGigPackNotFound
			}
			return nil, err
		}

		pack.Schedule = updated
		s.publish(ctx, domain.GigPackEventScheduleImported, pack, func(ctx context.Context) error {
			return s.publisher.PublishScheduleImported(ctx, pack, len(merge.Items))
		})
	}

	span.SetAttributes(
		attribute.Int("schedule.imported", len(merge.Items)),
		attribute.Int("schedule.duplicates", len(merge.Duplicates)),
		attribute.Int("schedule.rejected", len(result.Errors)),
	)
	logger.FromContext(ctx).Info("schedule imported",
		zap.String("gig_pack_id", id),
		zap.Int("imported", len(merge.Items)),
		zap.Int("duplicates", len(merge.Duplicates)),
		zap.Int("rejected", len(result.Errors)),
	)

	return &ScheduleImport{
		Result:   result,
		Merge:    merge,
		Schedule: updated,
	}, nil
}

// ResolveTheme classifies a pack the same way the public view does,
// including the linked band's name. A failed band lookup classifies
// without it.
func (s *gigPackService) ResolveTheme(ctx context.Context, pack *domain.GigPack) theme.Theme {
	return theme.Classify(gigInfo(pack), bandInfo(s.linkedBand(ctx, pack)))
}

// GetPublicGigPack resolves a shared pack for visitors. Hero image
// priority: band hero image, then gig poster, then the theme fallback.
func (s *gigPackService) GetPublicGigPack(ctx context.Context, slug string) (*PublicGigPack, error) {
	ctx, span := telemetry.StartSpan(ctx, "gigpack.public.get")
	defer span.End()
	span.SetAttributes(attribute.String("gig_pack.slug", slug))

	pack, err := s.gigPackRepo.GetBySlug(ctx, slug)
	if err != nil {
		telemetry.SetSpanError(span, err)
		return nil, err
	}
	if pack == nil || !pack.IsPublic {
		return nil, ErrGigPackNotFound
	}

	band := s.linkedBand(ctx, pack)
	visual := theme.Resolve(gigInfo(pack), bandInfo(band), pack.ID)

	hero := visual.ImageURL
	switch {
	case band != nil && band.HeroImageURL != "":
		hero = band.HeroImageURL
	case pack.PosterImageURL != "":
		hero = pack.PosterImageURL
	}

	span.SetAttributes(attribute.String("gig_pack.theme", visual.Theme.String()))
	return &PublicGigPack{
		Pack:         pack,
		Band:         band,
		Theme:        visual.Theme,
		HeroImageURL: hero,
		Schedule:     schedule.SortItems(pack.Schedule),
	}, nil
}

// ownedGigPack loads a gig pack and checks it belongs to ownerID
func (s *gigPackService) ownedGigPack(ctx context.Context, ownerID, id string) (*domain.GigPack, error) {
	pack, err := s.gigPackRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if pack == nil {
		return nil, ErrGigPackNotFound
	}
	if !pack.IsOwnedBy(ownerID) {
		return nil, ErrForbidden
	}
	pack.EnsureCollections()
	return pack, nil
}

// attachBand links the pack to bandID after an ownership check. An empty
// id unlinks. copyName fills BandName from the band record.
func (s *gigPackService) attachBand(ctx context.Context, pack *domain.GigPack, bandID *string, copyName bool) error {
	if bandID == nil {
		return nil
	}
	if *bandID == "" {
		pack.BandID = nil
		return nil
	}

	band, err := s.bandRepo.GetByID(ctx, *bandID)
	if err != nil {
		return err
	}
	if band == nil {
		return ErrBandNotFound
	}
	if !band.IsOwnedBy(pack.OwnerID) {
		return ErrForbidden
	}

	id := band.ID
	pack.BandID = &id
	if copyName {
		pack.BandName = band.Name
	}
	return nil
}

// publish sends an event and only logs failures
func (s *gigPackService) publish(ctx context.Context, eventType domain.GigPackEventType, pack *domain.GigPack, send func(context.Context) error) {
	if err := send(ctx); err != nil {
		logger.FromContext(ctx).Warn("failed to publish gig pack event",
			zap.String("event_type", string(eventType)),
			zap.String("gig_pack_id", pack.ID),
			zap.Error(err),
		)
	}
}

// ensureUniqueSlug appends a short random suffix until the slug is free
func (s *gigPackService) ensureUniqueSlug(ctx context.Context, base string) (string, error) {
	for attempt := 0; attempt < maxSlugAttempts; attempt++ {
		slug := base + "-" + uuid.New().String()[:8]
		exists, err := s.gigPackRepo.SlugExists(ctx, slug)
		if err != nil {
			return "", err
		}
		if !exists {
			return slug, nil
		}
	}
	return "", ErrSlugUnavailable
}

// generateSlug generates a URL-friendly slug from a title: lower case,
// diacritics removed, every other character run collapsed to one hyphen
func generateSlug(s string) string {
	// transformers carry state, so one chain per call
	stripMarks := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if folded, _, err := transform.String(stripMarks, s); err == nil {
		s = folded
	}
	s = strings.ToLower(s)

	var builder strings.Builder
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			builder.WriteRune(r)
		} else {
			builder.WriteRune('-')
		}
	}
	slug := hyphenRun.ReplaceAllString(builder.String(), "-")
	slug = strings.Trim(slug, "-")

	if r := []rune(slug); len(r) > maxSlugBaseLen {
		slug = strings.TrimRight(string(r[:maxSlugBaseLen]), "-")
	}
	if slug == "" {
		return fallbackSlug
	}
	return slug
}

// toScheduleItems normalizes editor entries; missing ids are generated
func toScheduleItems(items []dto.ScheduleItemRequest) []domain.GigScheduleItem {
	out := make([]domain.GigScheduleItem, 0, len(items))
	for _, item := range items {
		id := item.ID
		if id == "" {
			id = uuid.New().String()
		}
		out = append(out, domain.GigScheduleItem{
			ID:    id,
			Time:  normalizeClock(item.Time),
			Label: strings.TrimSpace(item.Label),
		})
	}
	return out
}

func normalizeClock(s string) string {
	if t, ok := schedule.NormalizeTime(s); ok {
		return t
	}
	return strings.TrimSpace(s)
}

// linkedBand loads the pack's band. Lookup failures are logged and yield
// nil so views still render without band branding.
func (s *gigPackService) linkedBand(ctx context.Context, pack *domain.GigPack) *domain.Band {
	if pack.BandID == nil {
		return nil
	}
	band, err := s.bandRepo.GetByID(ctx, *pack.BandID)
	if err != nil {
		logger.FromContext(ctx).Warn("failed to load band for gig pack",
			zap.String("gig_pack_id", pack.ID),
			zap.Error(err),
		)
		return nil
	}
	return band
}

func gigInfo(pack *domain.GigPack) theme.GigInfo {
	return theme.GigInfo{
		ExplicitType: pack.GigType.String(),
		VenueName:    pack.VenueName,
		Title:        pack.Title,
		BandName:     pack.BandName,
	}
}

func bandInfo(band *domain.Band) *theme.BandInfo {
	if band == nil {
		return nil
	}
	return &theme.BandInfo{Name: band.Name}
}
