package dto

import (
	"strings"
	"time"

	"github.com/bareloved/gigpack-sub000/internal/domain"
	"github.com/bareloved/gigpack-sub000/internal/schedule"
)

// DateLayout is the wire format of a gig date
const DateLayout = "2006-01-02"

// ScheduleItemRequest is one schedule entry sent by the editor
type ScheduleItemRequest struct {
	ID    string `json:"id"`
	Time  string `json:"time" binding:"required"`
	Label string `json:"label" binding:"required"`
}

// CreateGigPackRequest represents the request to create a gig pack
type CreateGigPackRequest struct {
	Title          string                  `json:"title" binding:"required,min=1,max=255"`
	BandID         *string                 `json:"band_id"`
	BandName       string                  `json:"band_name" binding:"max=255"`
	GigType        string                  `json:"gig_type"`
	Date           string                  `json:"date"` // YYYY-MM-DD
	CallTime       string                  `json:"call_time"`
	OnStageTime    string                  `json:"on_stage_time"`
	VenueName      string                  `json:"venue_name" binding:"max=255"`
	VenueAddress   string                  `json:"venue_address"`
	VenueMapsURL   string                  `json:"venue_maps_url"`
	DressCode      string                  `json:"dress_code"`
	Lineup         []domain.LineupMember   `json:"lineup"`
	Setlist        []domain.SetlistSection `json:"setlist"`
	Schedule       []ScheduleItemRequest   `json:"schedule"`
	ParkingNotes   string                  `json:"parking_notes"`
	PaymentNotes   string                  `json:"payment_notes"`
	Notes          string                  `json:"notes"`
	PosterImageURL string                  `json:"poster_image_url"`
	IsPublic       bool                    `json:"is_public"`
	OwnerID        string                  `json:"-"` // Set from context
}

// Validate validates the CreateGigPackRequest
func (r *CreateGigPackRequest) Validate() (bool, string) {
	if strings.TrimSpace(r.Title) == "" {
		return false, "Title is required"
	}
	if !domain.GigType(r.GigType).IsValid() {
		return false, "Invalid gig type"
	}
	if _, err := ParseDate(r.Date); err != nil {
		return false, "Date must be in YYYY-MM-DD format"
	}
	if !validClock(r.CallTime) {
		return false, "Call time must be in HH:MM format"
	}
	if !validClock(r.OnStageTime) {
		return false, "On stage time must be in HH:MM format"
	}
	return validScheduleItems(r.Schedule)
}

// UpdateGigPackRequest represents the request to update a gig pack.
// Nil fields are left unchanged; an empty band_id or date clears it.
type UpdateGigPackRequest struct {
	Title          *string                  `json:"title" binding:"omitempty,min=1,max=255"`
	BandID         *string                  `json:"band_id"`
	BandName       *string                  `json:"band_name" binding:"omitempty,max=255"`
	GigType        *string                  `json:"gig_type"`
	Date           *string                  `json:"date"`
	CallTime       *string                  `json:"call_time"`
	OnStageTime    *string                  `json:"on_stage_time"`
	VenueName      *string                  `json:"venue_name" binding:"omitempty,max=255"`
	VenueAddress   *string                  `json:"venue_address"`
	VenueMapsURL   *string                  `json:"venue_maps_url"`
	DressCode      *string                  `json:"dress_code"`
	Lineup         *[]domain.LineupMember   `json:"lineup"`
	Setlist        *[]domain.SetlistSection `json:"setlist"`
	Schedule       *[]ScheduleItemRequest   `json:"schedule"`
	ParkingNotes   *string                  `json:"parking_notes"`
	PaymentNotes   *string                  `json:"payment_notes"`
	Notes          *string                  `json:"notes"`
	PosterImageURL *string                  `json:"poster_image_url"`
	IsPublic       *bool                    `json:"is_public"`
}

// Validate validates the UpdateGigPackRequest
func (r *UpdateGigPackRequest) Validate() (bool, string) {
	if r.Title != nil && strings.TrimSpace(*r.Title) == "" {
		return false, "Title cannot be empty"
	}
	if r.GigType != nil && !domain.GigType(*r.GigType).IsValid() {
		return false, "Invalid gig type"
	}
	if r.Date != nil {
		if _, err := ParseDate(*r.Date); err != nil {
			return false, "Date must be in YYYY-MM-DD format"
		}
	}
	if r.CallTime != nil && !validClock(*r.CallTime) {
		return false, "Call time must be in HH:MM format"
	}
	if r.OnStageTime != nil && !validClock(*r.OnStageTime) {
		return false, "On stage time must be in HH:MM format"
	}
	if r.Schedule != nil {
		return validScheduleItems(*r.Schedule)
	}
	return true, ""
}

// ParseDate parses an optional YYYY-MM-DD date. Empty input yields nil.
func ParseDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func validClock(s string) bool {
	if s == "" {
		return true
	}
	_, ok := schedule.NormalizeTime(s)
	return ok
}

func validScheduleItems(items []ScheduleItemRequest) (bool, string) {
	for _, item := range items {
		if _, ok := schedule.NormalizeTime(item.Time); !ok {
			return false, "Schedule item time must be in HH:MM format"
		}
		if strings.TrimSpace(item.Label) == "" {
			return false, "Schedule item label is required"
		}
	}
	return true, ""
}

// GigPackResponse represents the response for a gig pack
type GigPackResponse struct {
	ID             string                   `json:"id"`
	OwnerID        string                   `json:"owner_id"`
	BandID         *string                  `json:"band_id,omitempty"`
	Title          string                   `json:"title"`
	BandName       string                   `json:"band_name"`
	GigType        string                   `json:"gig_type"`
	Date           *string                  `json:"date,omitempty"`
	CallTime       string                   `json:"call_time"`
	OnStageTime    string                   `json:"on_stage_time"`
	VenueName      string                   `json:"venue_name"`
	VenueAddress   string                   `json:"venue_address"`
	VenueMapsURL   string                   `json:"venue_maps_url"`
	DressCode      string                   `json:"dress_code"`
	Lineup         []domain.LineupMember    `json:"lineup"`
	Setlist        []domain.SetlistSection  `json:"setlist"`
	Schedule       []domain.GigScheduleItem `json:"schedule"`
	ScheduleText   string                   `json:"schedule_text"`
	ParkingNotes   string                   `json:"parking_notes"`
	PaymentNotes   string                   `json:"payment_notes"`
	Notes          string                   `json:"notes"`
	PosterImageURL string                   `json:"poster_image_url"`
	PublicSlug     string                   `json:"public_slug"`
	IsPublic       bool                     `json:"is_public"`
	Theme          string                   `json:"theme"`
	CreatedAt      string                   `json:"created_at"`
	UpdatedAt      string                   `json:"updated_at"`
}

// GigPackListFilter represents filters for listing gig packs
type GigPackListFilter struct {
	OwnerID string `form:"-"`
	BandID  string `form:"band_id"`
	GigType string `form:"gig_type"`
	Search  string `form:"search"`
	Limit   int    `form:"limit"`
	Offset  int    `form:"offset"`
}

// SetDefaults sets default values for pagination
func (f *GigPackListFilter) SetDefaults() {
	f.Limit, f.Offset = pagination(f.Limit, f.Offset)
}
