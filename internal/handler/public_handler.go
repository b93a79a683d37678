package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/bareloved/gigpack-sub000/internal/dto"
	"github.com/bareloved/gigpack-sub000/internal/service"
	"github.com/bareloved/gigpack-sub000/pkg/response"
	"github.com/gin-gonic/gin"
)

// PublicHandler serves shared gig packs to unauthenticated visitors
type PublicHandler struct {
	gigPackService service.GigPackService
}

// NewPublicHandler creates a new PublicHandler
func NewPublicHandler(gigPackService service.GigPackService) *PublicHandler {
	return &PublicHandler{
		gigPackService: gigPackService,
	}
}

// GetBySlug handles GET /public/gigpacks/:slug
func (h *PublicHandler) GetBySlug(c *gin.Context) {
	slug := c.Param("slug")
	if slug == "" {
		c.JSON(http.StatusBadRequest, response.BadRequest("Slug is required"))
		return
	}

	view, err := h.gigPackService.GetPublicGigPack(c.Request.Context(), slug)
	if err != nil {
		if errors.Is(err, service.ErrGigPackNotFound) {
			c.JSON(http.StatusNotFound, response.NotFound("Gig pack not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, response.InternalError("Failed to get gig pack"))
		return
	}

	c.Header("Cache-Control", "public, max-age=60")
	c.JSON(http.StatusOK, response.Success(toPublicGigPackResponse(view)))
}

// toPublicGigPackResponse converts the public view to response DTO
func toPublicGigPackResponse(view *service.PublicGigPack) *dto.PublicGigPackResponse {
	pack := view.Pack

	resp := &dto.PublicGigPackResponse{
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
		Lineup:         make([]dto.PublicLineupMember, len(pack.Lineup)),
		Setlist:        make([]dto.PublicSetlistSection, len(pack.Setlist)),
		Schedule:       toScheduleItemResponses(view.Schedule),
		ParkingNotes:   pack.ParkingNotes,
		Notes:          pack.Notes,
		PosterImageURL: pack.PosterImageURL,
		HeroImageURL:   view.HeroImageURL,
		Theme:          view.Theme.String(),
		PublicSlug:     pack.PublicSlug,
		UpdatedAt:      pack.UpdatedAt.Format(time.RFC3339),
	}

	for i, m := range pack.Lineup {
		resp.Lineup[i] = dto.PublicLineupMember{Role: m.Role, Name: m.Name, Notes: m.Notes}
	}
	for i, s := range pack.Setlist {
		songs := s.Songs
		if songs == nil {
			songs = []string{}
		}
		resp.Setlist[i] = dto.PublicSetlistSection{Title: s.Title, Songs: songs}
	}
	if view.Band != nil {
		resp.Band = &dto.PublicBandResponse{
			Name:    view.Band.Name,
			LogoURL: view.Band.LogoURL,
		}
	}

	return resp
}
