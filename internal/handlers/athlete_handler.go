package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "sportfund/internal/errors"
	"sportfund/internal/pagination"
	"sportfund/internal/services"
)

// AthleteHandler serves athlete discovery, profiles and activity feeds.
type AthleteHandler struct {
	discoveryService services.DiscoveryServicer
	feedService      services.AthleteFeedServicer
}

// NewAthleteHandler creates a new AthleteHandler.
func NewAthleteHandler(discoveryService services.DiscoveryServicer, feedService services.AthleteFeedServicer) *AthleteHandler {
	return &AthleteHandler{discoveryService: discoveryService, feedService: feedService}
}

// DiscoverQuery holds the optional discovery filters.
type DiscoverQuery struct {
	Name   string `form:"name" binding:"max=200"`
	Sport  string `form:"sport" binding:"max=50"`
	SortBy string `form:"sort_by" binding:"omitempty,oneof=most_trending highest_valuation highest_growth most_followers default"`
}

// Discover handles listing athletes for investors.
// @Summary     Discover athletes
// @Description List athletes with funding metrics, optionally filtered by name and sport
// @Tags        athletes
// @Produce     json
// @Security    BearerAuth
// @Param       name    query string false "Substring of first, last or full name"
// @Param       sport   query string false "Primary sport"
// @Param       sort_by query string false "most_trending, highest_valuation, highest_growth, most_followers or default"
// @Success     200 {object} map[string][]models.Athlete "Athletes"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /athletes [get]
func (h *AthleteHandler) Discover(c *gin.Context) {
	var q DiscoverQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	athletes, err := h.discoveryService.Discover(c.Request.Context(), services.DiscoveryFilter{
		Name:   q.Name,
		Sport:  q.Sport,
		SortBy: q.SortBy,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"athletes": athletes})
}

// GetProfile handles retrieving a single athlete.
// @Summary     Get athlete profile
// @Description Get an athlete with funding metrics and relationships
// @Tags        athletes
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Athlete ID"
// @Success     200 {object} models.Athlete "Athlete"
// @Failure     400 {object} ErrorResponse "Invalid athlete ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Athlete not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /athletes/{id} [get]
func (h *AthleteHandler) GetProfile(c *gin.Context) {
	athleteID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	athlete, err := h.discoveryService.GetAthleteProfile(c.Request.Context(), athleteID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"athlete": athlete})
}

// ListUpdates handles listing an athlete's activity feed.
// @Summary     List athlete updates
// @Description Get a paginated, newest-first list of an athlete's activity feed
// @Tags        athletes
// @Produce     json
// @Security    BearerAuth
// @Param       id        path  string true  "Athlete ID"
// @Param       page      query int    false "Page number (default 1)"
// @Param       page_size query int    false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.AthleteUpdate] "Paginated updates"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /athletes/{id}/updates [get]
func (h *AthleteHandler) ListUpdates(c *gin.Context) {
	athleteID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.feedService.ListUpdates(c.Request.Context(), athleteID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
