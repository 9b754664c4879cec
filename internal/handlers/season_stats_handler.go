package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "sportfund/internal/errors"
	"sportfund/internal/pagination"
	"sportfund/internal/services"
	"sportfund/internal/stats"
)

// SeasonStatsHandler handles season-stats submission and retrieval.
type SeasonStatsHandler struct {
	statsService services.SeasonStatsServicer
}

// NewSeasonStatsHandler creates a new SeasonStatsHandler.
func NewSeasonStatsHandler(statsService services.SeasonStatsServicer) *SeasonStatsHandler {
	return &SeasonStatsHandler{statsService: statsService}
}

// SubmitStatsRequest carries a season-stats submission. Sport defaults to the
// athlete's primary sport.
type SubmitStatsRequest struct {
	Sport string       `json:"sport" binding:"omitempty,sport"`
	Stats stats.Fields `json:"stats" binding:"required"`
}

// PipelineStatsRequest carries a machine stats submission. The sport must be
// named explicitly.
type PipelineStatsRequest struct {
	Sport string       `json:"sport" binding:"required,sport"`
	Stats stats.Fields `json:"stats" binding:"required"`
}

// SubmitStats handles an athlete's season-stats submission.
// @Summary     Submit season stats
// @Description Record new season stats for the athlete's primary sport; identical stats are a no-op
// @Tags        stats
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string             true "Athlete ID"
// @Param       request body SubmitStatsRequest true "Season stats"
// @Success     200 {object} services.UpsertResult "Upsert result"
// @Failure     400 {object} ErrorResponse "Invalid input or sport mismatch"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Athlete or sport not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /athletes/{id}/stats [put]
func (h *SeasonStatsHandler) SubmitStats(c *gin.Context) {
	athleteID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req SubmitStatsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.statsService.SubmitStats(c.Request.Context(), athleteID, req.Sport, req.Stats)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// PipelineSubmit handles stats pushed by the ingestion pipeline.
// @Summary     Pipeline stats ingestion
// @Description Record season stats for the athlete's primary sport on behalf of a data pipeline
// @Tags        pipeline
// @Accept      json
// @Produce     json
// @Security    ApiKeyAuth
// @Param       id      path string               true "Athlete ID"
// @Param       request body PipelineStatsRequest true "Season stats"
// @Success     200 {object} services.UpsertResult "Upsert result"
// @Failure     400 {object} ErrorResponse "Invalid input or sport mismatch"
// @Failure     401 {object} ErrorResponse "Invalid API key"
// @Failure     404 {object} ErrorResponse "Athlete or sport not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /pipeline/athletes/{id}/stats [put]
func (h *SeasonStatsHandler) PipelineSubmit(c *gin.Context) {
	athleteID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req PipelineStatsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.statsService.SubmitStats(c.Request.Context(), athleteID, req.Sport, req.Stats)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetCurrentStats handles retrieving the latest snapshot for a sport.
// @Summary     Get current season stats
// @Description Get the latest season-stats snapshot for a sport
// @Tags        stats
// @Produce     json
// @Security    BearerAuth
// @Param       id    path string true "Athlete ID"
// @Param       sport path string true "Sport"
// @Success     200 {object} map[string]interface{} "Snapshot"
// @Failure     400 {object} ErrorResponse "Invalid athlete ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Sport or stats not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /athletes/{id}/stats/{sport} [get]
func (h *SeasonStatsHandler) GetCurrentStats(c *gin.Context) {
	athleteID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	snapshot, err := h.statsService.GetCurrentStats(c.Request.Context(), athleteID, c.Param("sport"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"stats": snapshot})
}

// GetStatsHistory handles listing every snapshot for a sport.
// @Summary     Get season stats history
// @Description Get a paginated, newest-first list of season-stats snapshots
// @Tags        stats
// @Produce     json
// @Security    BearerAuth
// @Param       id        path  string true  "Athlete ID"
// @Param       sport     path  string true  "Sport"
// @Param       page      query int    false "Page number (default 1)"
// @Param       page_size query int    false "Items per page (default 20, max 100)"
// @Success     200 {object} map[string]interface{} "Paginated snapshots"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Sport not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /athletes/{id}/stats/{sport}/history [get]
func (h *SeasonStatsHandler) GetStatsHistory(c *gin.Context) {
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

	result, err := h.statsService.GetStatsHistory(c.Request.Context(), athleteID, c.Param("sport"), page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// ListSports handles listing the sports that accept stats.
// @Summary     List sports
// @Description List the sports that accept season stats, in display order
// @Tags        stats
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} map[string]interface{} "Sports"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /sports [get]
func (h *SeasonStatsHandler) ListSports(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"sports": h.statsService.ListSports()})
}
