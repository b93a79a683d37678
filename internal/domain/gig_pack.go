package domain

import (
	"strings"
	"time"
)

// GigType is the explicit gig type tag chosen in the editor
type GigType string

const (
	GigTypeWedding     GigType = "wedding"
	GigTypeClubShow    GigType = "club_show"
	GigTypeCorporate   GigType = "corporate"
	GigTypeBarGig      GigType = "bar_gig"
	GigTypeCoffeeHouse GigType = "coffee_house"
	GigTypeFestival    GigType = "festival"
	GigTypeRehearsal   GigType = "rehearsal"
	GigTypeOther       GigType = "other"
)

// IsValid checks if the gig type is a known tag. Empty means "not set".
func (t GigType) IsValid() bool {
	switch t {
	case "", GigTypeWedding, GigTypeClubShow, GigTypeCorporate, GigTypeBarGig,
		GigTypeCoffeeHouse, GigTypeFestival, GigTypeRehearsal, GigTypeOther:
		return true
	}
	return false
}

// String returns the string representation of GigType
func (t GigType) String() string {
	return string(t)
}

// GigScheduleItem is one persisted entry of a gig's run of show
type GigScheduleItem struct {
	ID    string `json:"id"`
	Time  string `json:"time"`
	Label string `json:"label"`
}

// LineupMember is one musician in the gig lineup
type LineupMember struct {
	Role  string `json:"role"`
	Name  string `json:"name"`
	Notes string `json:"notes,omitempty"`
}

// SetlistSection is a named block of songs (e.g. "Set 1", "Encore")
type SetlistSection struct {
	Title string   `json:"title"`
	Songs []string `json:"songs"`
}

// GigPack is the single-page pack shared with the band for one gig
type GigPack struct {
	ID             string            `json:"id"`
	OwnerID        string            `json:"owner_id"`
	BandID         *string           `json:"band_id,omitempty"`
	Title          string            `json:"title"`
	BandName       string            `json:"band_name"`
	GigType        GigType           `json:"gig_type"`
	Date           *time.Time        `json:"date,omitempty"`
	CallTime       string            `json:"call_time"`
	OnStageTime    string            `json:"on_stage_time"`
	VenueName      string            `json:"venue_name"`
	VenueAddress   string            `json:"venue_address"`
	VenueMapsURL   string            `json:"venue_maps_url"`
	DressCode      string            `json:"dress_code"`
	Lineup         []LineupMember    `json:"lineup"`
	Setlist        []SetlistSection  `json:"setlist"`
	Schedule       []GigScheduleItem `json:"schedule"`
	ParkingNotes   string            `json:"parking_notes"`
	PaymentNotes   string            `json:"payment_notes"`
	Notes          string            `json:"notes"`
	PosterImageURL string            `json:"poster_image_url"`
	PublicSlug     string            `json:"public_slug"`
	IsPublic       bool              `json:"is_public"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
	DeletedAt      *time.Time        `json:"deleted_at,omitempty"`
}

// Validate validates gig pack fields
func (g *GigPack) Validate() error {
	if strings.TrimSpace(g.Title) == "" {
		return ErrInvalidGigTitle
	}
	if g.OwnerID == "" {
		return ErrInvalidOwnerID
	}
	if !g.GigType.IsValid() {
		return ErrInvalidGigType
	}
	return nil
}

// IsOwnedBy reports whether the gig pack belongs to the given owner
func (g *GigPack) IsOwnedBy(ownerID string) bool {
	return ownerID != "" && g.OwnerID == ownerID
}

// IsDeleted reports whether the gig pack was soft deleted
func (g *GigPack) IsDeleted() bool {
	return g.DeletedAt != nil
}

// EnsureCollections replaces nil slices with empty ones so JSONB columns
// and API responses never carry null arrays
func (g *GigPack) EnsureCollections() {
	if g.Lineup == nil {
		g.Lineup = []LineupMember{}
	}
	if g.Setlist == nil {
		g.Setlist = []SetlistSection{}
	}
	if g.Schedule == nil {
		g.Schedule = []GigScheduleItem{}
	}
}
