package domain

import (
	"strings"
	"time"
)

// Band represents a band owned by a musician
type Band struct {
	ID           string    `json:"id"`
	OwnerID      string    `json:"owner_id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	LogoURL      string    `json:"logo_url"`
	HeroImageURL string    `json:"hero_image_url"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Validate validates band fields
func (b *Band) Validate() error {
	if strings.TrimSpace(b.Name) == "" {
		return ErrInvalidBandName
	}
	if b.OwnerID == "" {
		return ErrInvalidOwnerID
	}
	return nil
}

// IsOwnedBy reports whether the band belongs to the given owner
func (b *Band) IsOwnedBy(ownerID string) bool {
	return ownerID != "" && b.OwnerID == ownerID
}
