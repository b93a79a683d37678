package dto

import "strings"

// CreateBandRequest represents the request to create a band
type CreateBandRequest struct {
	Name         string `json:"name" binding:"required,min=1,max=255"`
	Description  string `json:"description" binding:"max=2000"`
	LogoURL      string `json:"logo_url"`
	HeroImageURL string `json:"hero_image_url"`
	OwnerID      string `json:"-"` // Set from context
}

// Validate validates the CreateBandRequest
func (r *CreateBandRequest) Validate() (bool, string) {
	if strings.TrimSpace(r.Name) == "" {
		return false, "Band name is required"
	}
	return true, ""
}

// UpdateBandRequest represents the request to update a band.
// Nil fields are left unchanged.
type UpdateBandRequest struct {
	Name         *string `json:"name" binding:"omitempty,min=1,max=255"`
	Description  *string `json:"description"`
	LogoURL      *string `json:"logo_url"`
	HeroImageURL *string `json:"hero_image_url"`
}

// Validate validates the UpdateBandRequest
func (r *UpdateBandRequest) Validate() (bool, string) {
	if r.Name != nil && strings.TrimSpace(*r.Name) == "" {
		return false, "Band name cannot be empty"
	}
	return true, ""
}

// BandResponse represents the response for a band
type BandResponse struct {
	ID           string `json:"id"`
	OwnerID      string `json:"owner_id"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	LogoURL      string `json:"logo_url"`
	HeroImageURL string `json:"hero_image_url"`
	CreatedAt    string `json:"created_at"`
	UpdatedAt    string `json:"updated_at"`
}

// BandListFilter represents pagination for listing bands
type BandListFilter struct {
	OwnerID string `form:"-"`
	Limit   int    `form:"limit"`
	Offset  int    `form:"offset"`
}

// SetDefaults sets default values for pagination
func (f *BandListFilter) SetDefaults() {
	f.Limit, f.Offset = pagination(f.Limit, f.Offset)
}

func pagination(limit, offset int) (int, int) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
