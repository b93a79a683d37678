package dto

// PublicBandResponse is the band as shown to visitors
type PublicBandResponse struct {
	Name    string `json:"name"`
	LogoURL string `json:"logo_url"`
}

// PublicGigPackResponse is the read-only view of a shared gig pack.
// Payment notes are never exposed.
type PublicGigPackResponse struct {
	Title          string                 `json:"title"`
	BandName       string                 `json:"band_name"`
	Band           *PublicBandResponse    `json:"band,omitempty"`
	GigType        string                 `json:"gig_type"`
	Date           *string                `json:"date,omitempty"`
	CallTime       string                 `json:"call_time"`
	OnStageTime    string                 `json:"on_stage_time"`
	VenueName      string                 `json:"venue_name"`
	VenueAddress   string                 `json:"venue_address"`
	VenueMapsURL   string                 `json:"venue_maps_url"`
	DressCode      string                 `json:"dress_code"`
	Lineup         []PublicLineupMember   `json:"lineup"`
	Setlist        []PublicSetlistSection `json:"setlist"`
	Schedule       []ScheduleItemResponse `json:"schedule"`
	ParkingNotes   string                 `json:"parking_notes"`
	Notes          string                 `json:"notes"`
	PosterImageURL string                 `json:"poster_image_url"`
	HeroImageURL   string                 `json:"hero_image_url"`
	Theme          string                 `json:"theme"`
	PublicSlug     string                 `json:"public_slug"`
	UpdatedAt      string                 `json:"updated_at"`
}

// PublicLineupMember is a lineup entry on the public page
type PublicLineupMember struct {
	Role  string `json:"role"`
	Name  string `json:"name"`
	Notes string `json:"notes,omitempty"`
}

// PublicSetlistSection is a setlist block on the public page
type PublicSetlistSection struct {
	Title string   `json:"title"`
	Songs []string `json:"songs"`
}
