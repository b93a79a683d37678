package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/bareloved/gigpack-sub000/internal/domain"
	"github.com/bareloved/gigpack-sub000/internal/dto"
	"github.com/bareloved/gigpack-sub000/internal/schedule"
	"github.com/bareloved/gigpack-sub000/internal/service"
	"github.com/bareloved/gigpack-sub000/internal/theme"
	"github.com/bareloved/gigpack-sub000/pkg/response"
	"github.com/gin-gonic/gin"
)

// GigPackHandler handles gig pack HTTP requests
type GigPackHandler struct {
	gigPackService service.GigPackService
}

// NewGigPackHandler creates a new GigPackHandler
func NewGigPackHandler(gigPackService service.GigPackService) *GigPackHandler {
	return &GigPackHandler{
		gigPackService: gigPackService,
	}
}

// List handles GET /gigpacks - lists the caller's gig packs
func (h *GigPackHandler) List(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var filter dto.GigPackListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, response.BadRequest("Invalid query parameters"))
		return
	}
	filter.OwnerID = userID

	packs, total, err := h.gigPackService.ListGigPacks(c.Request.Context(), &filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.InternalError("Failed to list gig packs"))
		return
	}

	packResponses := make([]*dto.GigPackResponse, len(packs))
	for i, pack := range packs {
		packResponses[i] = h.toResponse(c, pack)
	}

	filter.SetDefaults()
	c.JSON(http.StatusOK, response.Paginated(packResponses, filter.Offset/filter.Limit+1, filter.Limit, int64(total)))
}

// Get handles GET /gigpacks/:id
func (h *GigPackHandler) Get(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	pack, err := h.gigPackService.GetGigPack(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		writeGigPackError(c, err, "Failed to get gig pack")
		return
	}

	c.JSON(http.StatusOK, response.Success(h.toResponse(c, pack)))
}

// Create handles POST /gigpacks
func (h *GigPackHandler) Create(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req dto.CreateGigPackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.BadRequest("Invalid request body"))
		return
	}
	req.OwnerID = userID

	if valid, msg := req.Validate(); !valid {
		c.JSON(http.StatusBadRequest, response.BadRequest(msg))
		return
	}

	pack, err := h.gigPackService.CreateGigPack(c.Request.Context(), &req)
	if err != nil {
		writeGigPackError(c, err, "Failed to create gig pack")
		return
	}

	c.JSON(http.StatusCreated, response.Success(h.toResponse(c, pack)))
}

// Update handles PUT /gigpacks/:id
func (h *GigPackHandler) Update(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req dto.UpdateGigPackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.BadRequest("Invalid request body"))
		return
	}

	if valid, msg := req.Validate(); !valid {
		c.JSON(http.StatusBadRequest, response.BadRequest(msg))
		return
	}

	pack, err := h.gigPackService.UpdateGigPack(c.Request.Context(), userID, c.Param("id"), &req)
	if err != nil {
		writeGigPackError(c, err, "Failed to update gig pack")
		return
	}

	c.JSON(http.StatusOK, response.Success(h.toResponse(c, pack)))
}

// Delete handles DELETE /gigpacks/:id - soft deletes a gig pack
func (h *GigPackHandler) Delete(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	if err := h.gigPackService.DeleteGigPack(c.Request.Context(), userID, c.Param("id")); err != nil {
		writeGigPackError(c, err, "Failed to delete gig pack")
		return
	}

	c.JSON(http.StatusOK, response.Success(map[string]string{"message": "Gig pack deleted successfully"}))
}

// PreviewSchedule handles POST /gigpacks/:id/schedule/preview
func (h *GigPackHandler) PreviewSchedule(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	req, ok := bindScheduleText(c)
	if !ok {
		return
	}

	preview, err := h.gigPackService.PreviewSchedule(c.Request.Context(), userID, c.Param("id"), req.Text)
	if err != nil {
		writeGigPackError(c, err, "Failed to preview schedule")
		return
	}

	c.JSON(http.StatusOK, response.Success(&dto.SchedulePreviewResponse{
		Items:      toParsedItemResponses(preview.Result.Items),
		Errors:     toParsingErrorResponses(preview.Result.Errors),
		NewItems:   toParsedItemResponses(preview.NewItems),
		Duplicates: toParsedItemResponses(preview.Duplicates),
		TotalLines: preview.Result.Total(),
	}))
}

// ImportSchedule handles POST /gigpacks/:id/schedule/import
func (h *GigPackHandler) ImportSchedule(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	req, ok := bindScheduleText(c)
	if !ok {
		return
	}

	out, err := h.gigPackService.ImportSchedule(c.Request.Context(), userID, c.Param("id"), req.Text)
	if err != nil {
		writeGigPackError(c, err, "Failed to import schedule")
		return
	}

	c.JSON(http.StatusOK, response.Success(&dto.ScheduleImportResponse{
		Imported:      toScheduleItemResponses(out.Merge.Items),
		Duplicates:    toParsedItemResponses(out.Merge.Duplicates),
		Errors:        toParsingErrorResponses(out.Result.Errors),
		Schedule:      toScheduleItemResponses(out.Schedule),
		ImportedCount: len(out.Merge.Items),
	}))
}

func bindScheduleText(c *gin.Context) (*dto.ScheduleTextRequest, bool) {
	var req dto.ScheduleTextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.BadRequest("Invalid request body"))
		return nil, false
	}
	if valid, msg := req.Validate(); !valid {
		c.JSON(http.StatusBadRequest, response.BadRequest(msg))
		return nil, false
	}
	return &req, true
}

func writeGigPackError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrGigPackNotFound):
		c.JSON(http.StatusNotFound, response.NotFound("Gig pack not found"))
	case errors.Is(err, service.ErrBandNotFound):
		c.JSON(http.StatusBadRequest, response.BadRequest("Band not found"))
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, response.Forbidden("You do not own this resource"))
	case errors.Is(err, service.ErrSlugUnavailable):
		c.JSON(http.StatusConflict, response.Error(response.ErrCodeConflict, "Could not allocate a public link, please retry"))
	default:
		c.JSON(http.StatusInternalServerError, response.InternalError(fallback))
	}
}

func (h *GigPackHandler) toResponse(c *gin.Context, pack *domain.GigPack) *dto.GigPackResponse {
	return toGigPackResponse(pack, h.gigPackService.ResolveTheme(c.Request.Context(), pack))
}

// toGigPackResponse converts a domain gig pack to response DTO
func toGigPackResponse(pack *domain.GigPack, packTheme theme.Theme) *dto.GigPackResponse {
	pack.EnsureCollections()
	return &dto.GigPackResponse{
		ID:             pack.ID,
		OwnerID:        pack.OwnerID,
		BandID:         pack.BandID,
		Title:          pack.Title,
		BandName:       pack.BandName,
		GigType:        pack.GigType.String(),
		Date:           formatDate(pack.Date),
		CallTime:       pack.CallTime,
		OnStageTime:    pack.OnStageTime,
		VenueName:      pack.VenueName,
		VenueAddress:   pack.VenueAddress,
		VenueMapsURL:   pack.VenueMapsURL,
		DressCode:      pack.DressCode,
		Lineup:         pack.Lineup,
		Setlist:        pack.Setlist,
		Schedule:       pack.Schedule,
		ScheduleText:   schedule.FormatItems(pack.Schedule),
		ParkingNotes:   pack.ParkingNotes,
		PaymentNotes:   pack.PaymentNotes,
		Notes:          pack.Notes,
		PosterImageURL: pack.PosterImageURL,
		PublicSlug:     pack.PublicSlug,
		IsPublic:       pack.IsPublic,
		Theme:          packTheme.String(),
		CreatedAt:      pack.CreatedAt.Format(time.RFC3339),
		UpdatedAt:      pack.UpdatedAt.Format(time.RFC3339),
	}
}

func formatDate(d *time.Time) *string {
	if d == nil {
		return nil
	}
	s := d.Format(dto.DateLayout)
	return &s
}

func toParsedItemResponses(items []schedule.ParsedItem) []dto.ParsedItemResponse {
	out := make([]dto.ParsedItemResponse, len(items))
	for i, item := range items {
		out[i] = dto.ParsedItemResponse{
			Time:         item.Time,
			EndTime:      item.EndTime,
			Label:        item.Label,
			OriginalText: item.OriginalText,
		}
	}
	return out
}

func toParsingErrorResponses(errs []*schedule.ParsingError) []dto.ParsingErrorResponse {
	out := make([]dto.ParsingErrorResponse, len(errs))
	for i, e := range errs {
		out[i] = dto.ParsingErrorResponse{
			OriginalText: e.OriginalText,
			Hint:         e.Hint,
		}
	}
	return out
}

func toScheduleItemResponses(items []domain.GigScheduleItem) []dto.ScheduleItemResponse {
	out := make([]dto.ScheduleItemResponse, len(items))
	for i, item := range items {
		out[i] = dto.ScheduleItemResponse{
			ID:    item.ID,
			Time:  item.Time,
			Label: item.Label,
		}
	}
	return out
}
