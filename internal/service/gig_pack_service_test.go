package service

import (
	"context"
	"errors"
	"testing"

	"github.com/bareloved/gigpack-sub000/internal/domain"
	"github.com/bareloved/gigpack-sub000/internal/dto"
	"github.com/bareloved/gigpack-sub000/internal/repository"
	"github.com/bareloved/gigpack-sub000/internal/theme"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestGigPackService() (*gigPackService, *MockGigPackRepository, *MockBandRepository, *MockEventPublisher) {
	packs := NewMockGigPackRepository()
	bands := NewMockBandRepository()
	publisher := new(MockEventPublisher)
	svc := NewGigPackService(packs, bands, publisher).(*gigPackService)
	return svc, packs, bands, publisher
}

func seedPack(packs *MockGigPackRepository) *domain.GigPack {
	pack := &domain.GigPack{
		ID:         "gig-1",
		OwnerID:    "user-1",
		Title:      "Friday at the Blue Note",
		PublicSlug: "friday-at-the-blue-note-1a2b3c4d",
		Schedule: []domain.GigScheduleItem{
			{ID: "s1", Time: "18:00", Label: "Soundcheck"},
		},
	}
	pack.EnsureCollections()
	packs.AddGigPack(pack)
	return pack
}

func TestGigPackService_CreateGigPack(t *testing.T) {
	svc, packs, bands, publisher := newTestGigPackService()
	bands.AddBand(&domain.Band{ID: "band-1", OwnerID: "user-1", Name: "The Regulars"})
	bands.AddBand(&domain.Band{ID: "band-2", OwnerID: "user-2", Name: "Other"})
	publisher.On("PublishGigPackCreated", mock.Anything, mock.AnythingOfType("*domain.GigPack")).Return(nil)
	ctx := context.Background()

	t.Run("valid request", func(t *testing.T) {
		pack, err := svc.CreateGigPack(ctx, &dto.CreateGigPackRequest{
			Title:       "Friday at the Blue Note!",
			BandID:      strPtr("band-1"),
			GigType:     "club_show",
			Date:        "2026-11-20",
			CallTime:    "7:30",
			OnStageTime: "21:00",
			Schedule: []dto.ScheduleItemRequest{
				{Time: "9:15", Label: " Doors "},
			},
			OwnerID: "user-1",
		})
		require.NoError(t, err)

		assert.Regexp(t, `^friday-at-the-blue-note-[0-9a-f]{8}$`, pack.PublicSlug)
		assert.Equal(t, "The Regulars", pack.BandName)
		require.NotNil(t, pack.BandID)
		assert.Equal(t, "band-1", *pack.BandID)
		assert.Equal(t, "07:30", pack.CallTime)
		require.NotNil(t, pack.Date)
		assert.Equal(t, "2026-11-20", pack.Date.Format(dto.DateLayout))
		require.Len(t, pack.Schedule, 1)
		assert.NotEmpty(t, pack.Schedule[0].ID)
		assert.Equal(t, "09:15", pack.Schedule[0].Time)
		assert.Equal(t, "Doors", pack.Schedule[0].Label)
		assert.NotNil(t, pack.Lineup)
		assert.Contains(t, packs.packs, pack.ID)
	})

	t.Run("explicit band name wins", func(t *testing.T) {
		pack, err := svc.CreateGigPack(ctx, &dto.CreateGigPackRequest{
			Title:    "Wedding",
			BandID:   strPtr("band-1"),
			BandName: "Regulars Trio",
			OwnerID:  "user-1",
		})
		require.NoError(t, err)
		assert.Equal(t, "Regulars Trio", pack.BandName)
	})

	t.Run("band of another owner", func(t *testing.T) {
		_, err := svc.CreateGigPack(ctx, &dto.CreateGigPackRequest{
			Title:   "Wedding",
			BandID:  strPtr("band-2"),
			OwnerID: "user-1",
		})
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("unknown band", func(t *testing.T) {
		_, err := svc.CreateGigPack(ctx, &dto.CreateGigPackRequest{
			Title:   "Wedding",
			BandID:  strPtr("nope"),
			OwnerID: "user-1",
		})
		assert.ErrorIs(t, err, ErrBandNotFound)
	})

	t.Run("invalid request", func(t *testing.T) {
		_, err := svc.CreateGigPack(ctx, &dto.CreateGigPackRequest{OwnerID: "user-1"})
		require.Error(t, err)
		assert.Equal(t, "Title is required", err.Error())
	})

	t.Run("slug race retries with a new suffix", func(t *testing.T) {
		packs.createErr = repository.ErrSlugTaken
		pack, err := svc.CreateGigPack(ctx, &dto.CreateGigPackRequest{Title: "Race", OwnerID: "user-1"})
		require.NoError(t, err)
		assert.Regexp(t, `^race-[0-9a-f]{8}$`, pack.PublicSlug)
	})

	publisher.AssertNumberOfCalls(t, "PublishGigPackCreated", 3)
}

func TestGigPackService_CreateGigPack_PublishFailureIsNotReturned(t *testing.T) {
	svc, _, _, publisher := newTestGigPackService()
	publisher.On("PublishGigPackCreated", mock.Anything, mock.Anything).Return(errors.New("broker down"))

	pack, err := svc.CreateGigPack(context.Background(), &dto.CreateGigPackRequest{Title: "Gig", OwnerID: "user-1"})
	require.NoError(t, err)
	assert.NotNil(t, pack)
	publisher.AssertExpectations(t)
}

func TestGigPackService_UpdateGigPack(t *testing.T) {
	svc, packs, bands, publisher := newTestGigPackService()
	bands.AddBand(&domain.Band{ID: "band-1", OwnerID: "user-1", Name: "The Regulars"})
	original := seedPack(packs)
	publisher.On("PublishGigPackUpdated", mock.Anything, mock.Anything).Return(nil)
	ctx := context.Background()

	pack, err := svc.UpdateGigPack(ctx, "user-1", "gig-1", &dto.UpdateGigPackRequest{
		Title:    strPtr("Saturday at the Blue Note"),
		BandID:   strPtr("band-1"),
		Date:     strPtr("2026-12-01"),
		IsPublic: boolPtr(true),
	})
	require.NoError(t, err)
	assert.Equal(t, "Saturday at the Blue Note", pack.Title)
	assert.Equal(t, original.PublicSlug, pack.PublicSlug, "slug survives a title change")
	assert.Equal(t, "The Regulars", pack.BandName)
	assert.True(t, pack.IsPublic)
	require.NotNil(t, pack.Date)

	pack, err = svc.UpdateGigPack(ctx, "user-1", "gig-1", &dto.UpdateGigPackRequest{
		BandID: strPtr(""),
		Date:   strPtr(""),
	})
	require.NoError(t, err)
	assert.Nil(t, pack.BandID)
	assert.Nil(t, pack.Date)
	assert.Equal(t, "The Regulars", pack.BandName)

	_, err = svc.UpdateGigPack(ctx, "user-2", "gig-1", &dto.UpdateGigPackRequest{Title: strPtr("x")})
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.UpdateGigPack(ctx, "user-1", "missing", &dto.UpdateGigPackRequest{Title: strPtr("x")})
	assert.ErrorIs(t, err, ErrGigPackNotFound)

	publisher.AssertNumberOfCalls(t, "PublishGigPackUpdated", 2)
}

func TestGigPackService_DeleteGigPack(t *testing.T) {
	svc, packs, _, publisher := newTestGigPackService()
	seedPack(packs)
	publisher.On("PublishGigPackDeleted", mock.Anything, mock.Anything).Return(nil)
	ctx := context.Background()

	assert.ErrorIs(t, svc.DeleteGigPack(ctx, "user-2", "gig-1"), ErrForbidden)
	require.NoError(t, svc.DeleteGigPack(ctx, "user-1", "gig-1"))
	assert.NotNil(t, packs.packs["gig-1"].DeletedAt)

	_, err := svc.GetGigPack(ctx, "user-1", "gig-1")
	assert.ErrorIs(t, err, ErrGigPackNotFound)
	assert.ErrorIs(t, svc.DeleteGigPack(ctx, "user-1", "gig-1"), ErrGigPackNotFound)

	publisher.AssertNumberOfCalls(t, "PublishGigPackDeleted", 1)
}

func TestGigPackService_ListGigPacks(t *testing.T) {
	svc, packs, _, _ := newTestGigPackService()
	packs.AddGigPack(&domain.GigPack{ID: "a", OwnerID: "user-1", Title: "Jazz night", GigType: domain.GigTypeClubShow})
	packs.AddGigPack(&domain.GigPack{ID: "b", OwnerID: "user-1", Title: "Wedding", GigType: domain.GigTypeWedding})
	packs.AddGigPack(&domain.GigPack{ID: "c", OwnerID: "user-2", Title: "Jazz brunch"})

	filter := &dto.GigPackListFilter{OwnerID: "user-1", Search: " jazz "}
	list, total, err := svc.ListGigPacks(context.Background(), filter)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 1, total)
	assert.Equal(t, "a", list[0].ID)
	assert.Equal(t, 20, filter.Limit)
}

func TestGigPackService_PreviewSchedule(t *testing.T) {
	svc, packs, _, publisher := newTestGigPackService()
	seedPack(packs)

	preview, err := svc.PreviewSchedule(context.Background(), "user-1", "gig-1",
		"18:00 - soundcheck\n19:00-19:45 Dinner set\nnot a time\n21:00 Show")
	require.NoError(t, err)

	assert.Len(t, preview.Result.Items, 3)
	require.Len(t, preview.Result.Errors, 1)
	assert.Equal(t, "not a time", preview.Result.Errors[0].OriginalText)

	require.Len(t, preview.Duplicates, 1)
	assert.Equal(t, "soundcheck", preview.Duplicates[0].Label)
	require.Len(t, preview.NewItems, 2)
	assert.Equal(t, "19:45", preview.NewItems[0].EndTime)

	// nothing saved, nothing published
	assert.Len(t, packs.packs["gig-1"].Schedule, 1)
	assert.Equal(t, 0, packs.scheduleCalls)
	publisher.AssertNotCalled(t, "PublishScheduleImported", mock.Anything, mock.Anything, mock.Anything)

	_, err = svc.PreviewSchedule(context.Background(), "user-2", "gig-1", "18:00 x")
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestGigPackService_ImportSchedule(t *testing.T) {
	svc, packs, _, publisher := newTestGigPackService()
	seedPack(packs)
	publisher.On("PublishScheduleImported", mock.Anything, mock.Anything, 2).Return(nil)

	out, err := svc.ImportSchedule(context.Background(), "user-1", "gig-1",
		"18:00 Soundcheck\n19:00-19:45 Dinner set\n25:00 Bad\n\n21:00 Show")
	require.NoError(t, err)

	assert.Len(t, out.Result.Errors, 2)
	assert.Len(t, out.Merge.Duplicates, 1)
	require.Len(t, out.Merge.Items, 2)
	assert.Equal(t, "Dinner set", out.Merge.Items[0].Label)
	assert.NotEmpty(t, out.Merge.Items[0].ID)

	stored := packs.packs["gig-1"].Schedule
	require.Len(t, stored, 3)
	assert.Equal(t, "s1", stored[0].ID)
	assert.Equal(t, "19:00", stored[1].Time)
	assert.Equal(t, "21:00", stored[2].Time)
	assert.Equal(t, stored, out.Schedule)

	publisher.AssertExpectations(t)
}

func TestGigPackService_ImportSchedule_NothingNew(t *testing.T) {
	svc, packs, _, publisher := newTestGigPackService()
	seedPack(packs)

	out, err := svc.ImportSchedule(context.Background(), "user-1", "gig-1", "18:00 SOUNDCHECK\nhello")
	require.NoError(t, err)
	assert.Empty(t, out.Merge.Items)
	assert.Len(t, out.Merge.Duplicates, 1)
	assert.Len(t, out.Schedule, 1)
	assert.Equal(t, 0, packs.scheduleCalls)
	publisher.AssertNotCalled(t, "PublishScheduleImported", mock.Anything, mock.Anything, mock.Anything)
}

func TestGigPackService_ImportSchedule_RetriesTransientErrors(t *testing.T) {
	svc, packs, _, publisher := newTestGigPackService()
	seedPack(packs)
	publisher.On("PublishScheduleImported", mock.Anything, mock.Anything, 1).Return(nil)
	packs.scheduleErrs = []error{&pgconn.PgError{Code: "40001"}, nil}

	out, err := svc.ImportSchedule(context.Background(), "user-1", "gig-1", "20:00 Show")
	require.NoError(t, err)
	assert.Len(t, out.Merge.Items, 1)
	assert.Equal(t, 2, packs.scheduleCalls)
}

func TestGigPackService_ImportSchedule_PermanentErrorIsNotRetried(t *testing.T) {
	svc, packs, _, _ := newTestGigPackService()
	seedPack(packs)
	boom := errors.New("disk full")
	packs.scheduleErrs = []error{boom}

	_, err := svc.ImportSchedule(context.Background(), "user-1", "gig-1", "20:00 Show")
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, packs.scheduleCalls)
}

func TestGigPackService_GetPublicGigPack(t *testing.T) {
	svc, packs, bands, _ := newTestGigPackService()
	ctx := context.Background()
	bandID := "band-1"
	bands.AddBand(&domain.Band{ID: bandID, OwnerID: "user-1", Name: "Blue Note Trio", HeroImageURL: "https://cdn.example/band.jpg"})

	packs.AddGigPack(&domain.GigPack{
		ID:             "gig-1",
		OwnerID:        "user-1",
		BandID:         &bandID,
		Title:          "Late set",
		VenueName:      "Blue Note Jazz Club",
		PosterImageURL: "https://cdn.example/poster.jpg",
		PublicSlug:     "late-set",
		IsPublic:       true,
		Schedule: []domain.GigScheduleItem{
			{ID: "b", Time: "21:00", Label: "Show"},
			{ID: "a", Time: "18:00", Label: "Soundcheck"},
		},
	})
	packs.AddGigPack(&domain.GigPack{
		ID:         "gig-2",
		OwnerID:    "user-1",
		Title:      "Private",
		PublicSlug: "private",
	})
	packs.AddGigPack(&domain.GigPack{
		ID:         "gig-3",
		OwnerID:    "user-1",
		Title:      "Office party",
		GigType:    domain.GigTypeCorporate,
		PublicSlug: "office",
		IsPublic:   true,
	})

	t.Run("band hero image wins", func(t *testing.T) {
		view, err := svc.GetPublicGigPack(ctx, "late-set")
		require.NoError(t, err)
		assert.Equal(t, theme.JazzClub, view.Theme)
		assert.Equal(t, "https://cdn.example/band.jpg", view.HeroImageURL)
		require.NotNil(t, view.Band)
		assert.Equal(t, "Blue Note Trio", view.Band.Name)
		require.Len(t, view.Schedule, 2)
		assert.Equal(t, "18:00", view.Schedule[0].Time)
		assert.Equal(t, "21:00", view.Pack.Schedule[0].Time, "stored order untouched")
	})

	t.Run("poster when band lookup fails", func(t *testing.T) {
		bands.getErr = errors.New("redis down")
		defer func() { bands.getErr = nil }()

		view, err := svc.GetPublicGigPack(ctx, "late-set")
		require.NoError(t, err)
		assert.Nil(t, view.Band)
		assert.Equal(t, "https://cdn.example/poster.jpg", view.HeroImageURL)
	})

	t.Run("theme image fallback", func(t *testing.T) {
		view, err := svc.GetPublicGigPack(ctx, "office")
		require.NoError(t, err)
		assert.Equal(t, theme.CorporateEvent, view.Theme)
		assert.Equal(t, theme.PickImage(theme.CorporateEvent, "gig-3"), view.HeroImageURL)
	})

	t.Run("private pack is hidden", func(t *testing.T) {
		_, err := svc.GetPublicGigPack(ctx, "private")
		assert.ErrorIs(t, err, ErrGigPackNotFound)
	})

	t.Run("unknown slug", func(t *testing.T) {
		_, err := svc.GetPublicGigPack(ctx, "nope")
		assert.ErrorIs(t, err, ErrGigPackNotFound)
	})
}

func TestGigPackService_ResolveTheme(t *testing.T) {
	svc, packs, bands, _ := newTestGigPackService()
	ctx := context.Background()
	bandID := "band-1"
	bands.AddBand(&domain.Band{ID: bandID, OwnerID: "user-1", Name: "Smooth Jazz Trio"})

	pack := &domain.GigPack{
		ID:         "gig-1",
		OwnerID:    "user-1",
		BandID:     &bandID,
		Title:      "Saturday night",
		BandName:   "The Hosts",
		PublicSlug: "saturday-night",
		IsPublic:   true,
	}
	packs.AddGigPack(pack)

	assert.Equal(t, theme.JazzClub, svc.ResolveTheme(ctx, pack))

	view, err := svc.GetPublicGigPack(ctx, "saturday-night")
	require.NoError(t, err)
	assert.Equal(t, view.Theme, svc.ResolveTheme(ctx, pack), "owner and public views agree")

	t.Run("unlinked pack ignores bands", func(t *testing.T) {
		unlinked := &domain.GigPack{ID: "gig-2", Title: "Saturday night", BandName: "The Hosts"}
		assert.Equal(t, theme.GenericMusic, svc.ResolveTheme(ctx, unlinked))
	})

	t.Run("band lookup failure falls back to pack fields", func(t *testing.T) {
		bands.getErr = errors.New("redis down")
		defer func() { bands.getErr = nil }()
		assert.Equal(t, theme.GenericMusic, svc.ResolveTheme(ctx, pack))
	})
}

func TestGenerateSlug(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Friday at the Blue Note", "friday-at-the-blue-note"},
		{"  Café Müller -- Élan!! ", "cafe-muller-elan"},
		{"Rock_n_Roll 2026", "rock-n-roll-2026"},
		{"חתונה בגן", "חתונה-בגן"},
		{"!!!", "gig"},
		{"", "gig"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, generateSlug(tt.in))
		})
	}
}

func TestGenerateSlug_TruncatesLongTitles(t *testing.T) {
	long := "a very long title that goes on and on about the gig and the venue and the band"
	slug := generateSlug(long)
	assert.LessOrEqual(t, len([]rune(slug)), maxSlugBaseLen)
	assert.NotEqual(t, '-', rune(slug[len(slug)-1]))
}

func boolPtr(b bool) *bool { return &b }
