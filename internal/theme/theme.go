// Package theme picks a visual theme and fallback hero image for a gig
// from its sparse free-text metadata.
//
// Classification is rule based and total: every input, including an
// entirely empty one, yields a theme. Keyword matching is a
// case-insensitive substring test, so "bar" also matches "Barstow Hall".
package theme

import "strings"

// Theme is a visual theme tag
type Theme string

const (
	WeddingParty   Theme = "weddingParty"
	Coffeehouse    Theme = "coffeehouse"
	BarGig         Theme = "barGig"
	JazzClub       Theme = "jazzClub"
	ClubStage      Theme = "clubStage"
	CorporateEvent Theme = "corporateEvent"
	FestivalStage  Theme = "festivalStage"
	RehearsalRoom  Theme = "rehearsalRoom"
	GenericMusic   Theme = "genericMusic"
)

// String returns the string representation of Theme
func (t Theme) String() string {
	return string(t)
}

// IsValid checks if t is one of the known themes
func (t Theme) IsValid() bool {
	for _, known := range order {
		if t == known {
			return true
		}
	}
	return false
}

// GigInfo is the read-only view of a gig record the classifier needs.
// Empty strings stand for missing values.
type GigInfo struct {
	ExplicitType string
	VenueName    string
	Title        string
	BandName     string
}

// BandInfo is the read-only view of the gig's band record
type BandInfo struct {
	Name string
}

// Visual is a resolved theme with its fallback image
type Visual struct {
	Theme    Theme  `json:"theme"`
	ImageURL string `json:"image_url"`
}

// Themes returns every theme in keyword iteration order
func Themes() []Theme {
	out := make([]Theme, len(order))
	copy(out, order)
	return out
}

// Classify maps gig metadata to a theme. The first rule that matches wins:
// explicit gig type, then venue keywords, then title/band keywords, and
// GenericMusic when nothing matched.
func Classify(gig GigInfo, band *BandInfo) Theme {
	if t, ok := typeThemes[gig.ExplicitType]; ok {
		return t
	}

	if gig.VenueName != "" {
		if t, ok := matchKeywords(gig.VenueName, venueKeywords, venueKeywordsHe); ok {
			return t
		}
	}

	parts := make([]string, 0, 3)
	for _, s := range []string{gig.Title, gig.BandName} {
		if strings.TrimSpace(s) != "" {
			parts = append(parts, s)
		}
	}
	if band != nil && strings.TrimSpace(band.Name) != "" {
		parts = append(parts, band.Name)
	}

	if len(parts) > 0 {
		content := strings.Join(parts, " ")
		if t, ok := matchKeywords(content, contentKeywords, contentKeywordsHe); ok {
			return t
		}
	}

	return GenericMusic
}

// matchKeywords checks the whole primary table before the secondary one
func matchKeywords(text string, primary, secondary map[Theme][]string) (Theme, bool) {
	lower := strings.ToLower(text)
	for _, table := range []map[Theme][]string{primary, secondary} {
		for _, t := range order {
			for _, kw := range table[t] {
				if strings.Contains(lower, kw) {
					return t, true
				}
			}
		}
	}
	return "", false
}

// Resolve classifies the gig and picks its fallback image in one step
func Resolve(gig GigInfo, band *BandInfo, gigID string) Visual {
	t := Classify(gig, band)
	return Visual{
		Theme:    t,
		ImageURL: PickImage(t, gigID),
	}
}
