package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/bareloved/gigpack-sub000/internal/domain"
	"github.com/bareloved/gigpack-sub000/internal/dto"
	"github.com/bareloved/gigpack-sub000/internal/service"
	"github.com/bareloved/gigpack-sub000/pkg/middleware"
	"github.com/bareloved/gigpack-sub000/pkg/response"
	"github.com/gin-gonic/gin"
)

// BandHandler handles band-related HTTP requests
type BandHandler struct {
	bandService service.BandService
}

// NewBandHandler creates a new BandHandler
func NewBandHandler(bandService service.BandService) *BandHandler {
	return &BandHandler{
		bandService: bandService,
	}
}

// List handles GET /bands - lists the caller's bands
func (h *BandHandler) List(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var filter dto.BandListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, response.BadRequest("Invalid query parameters"))
		return
	}
	filter.OwnerID = userID

	bands, total, err := h.bandService.ListBands(c.Request.Context(), &filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.InternalError("Failed to list bands"))
		return
	}

	bandResponses := make([]*dto.BandResponse, len(bands))
	for i, band := range bands {
		bandResponses[i] = toBandResponse(band)
	}

	filter.SetDefaults()
	c.JSON(http.StatusOK, response.Paginated(bandResponses, filter.Offset/filter.Limit+1, filter.Limit, int64(total)))
}

// Get handles GET /bands/:id
func (h *BandHandler) Get(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	band, err := h.bandService.GetBand(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		writeBandError(c, err, "Failed to get band")
		return
	}

	c.JSON(http.StatusOK, response.Success(toBandResponse(band)))
}

// Create handles POST /bands
func (h *BandHandler) Create(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req dto.CreateBandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.BadRequest("Invalid request body"))
		return
	}
	req.OwnerID = userID

	if valid, msg := req.Validate(); !valid {
		c.JSON(http.StatusBadRequest, response.BadRequest(msg))
		return
	}

	band, err := h.bandService.CreateBand(c.Request.Context(), &req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.InternalError("Failed to create band"))
		return
	}

	c.JSON(http.StatusCreated, response.Success(toBandResponse(band)))
}

// Update handles PUT /bands/:id
func (h *BandHandler) Update(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req dto.UpdateBandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.BadRequest("Invalid request body"))
		return
	}

	if valid, msg := req.Validate(); !valid {
		c.JSON(http.StatusBadRequest, response.BadRequest(msg))
		return
	}

	band, err := h.bandService.UpdateBand(c.Request.Context(), userID, c.Param("id"), &req)
	if err != nil {
		writeBandError(c, err, "Failed to update band")
		return
	}

	c.JSON(http.StatusOK, response.Success(toBandResponse(band)))
}

// Delete handles DELETE /bands/:id
func (h *BandHandler) Delete(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	if err := h.bandService.DeleteBand(c.Request.Context(), userID, c.Param("id")); err != nil {
		writeBandError(c, err, "Failed to delete band")
		return
	}

	c.JSON(http.StatusOK, response.Success(map[string]string{"message": "Band deleted successfully"}))
}

func writeBandError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrBandNotFound):
		c.JSON(http.StatusNotFound, response.NotFound("Band not found"))
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, response.Forbidden("You do not own this band"))
	default:
		c.JSON(http.StatusInternalServerError, response.InternalError(fallback))
	}
}

// requireUser reads the authenticated user id or writes a 401
func requireUser(c *gin.Context) (string, bool) {
	userID, ok := middleware.GetUserID(c)
	if !ok || userID == "" {
		c.JSON(http.StatusUnauthorized, response.Unauthorized("User ID not found in token"))
		return "", false
	}
	return userID, true
}

// toBandResponse converts a domain band to response DTO
func toBandResponse(band *domain.Band) *dto.BandResponse {
	return &dto.BandResponse{
		ID:           band.ID,
		OwnerID:      band.OwnerID,
		Name:         band.Name,
		Description:  band.Description,
		LogoURL:      band.LogoURL,
		HeroImageURL: band.HeroImageURL,
		CreatedAt:    band.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    band.UpdatedAt.Format(time.RFC3339),
	}
}
