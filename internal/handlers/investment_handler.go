package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "sportfund/internal/errors"
	"sportfund/internal/pagination"
	"sportfund/internal/services"
)

// InvestmentHandler handles investment-related requests.
type InvestmentHandler struct {
	investmentService services.InvestmentServicer
	auditService      services.AuditServicer
}

// NewInvestmentHandler creates a new InvestmentHandler.
func NewInvestmentHandler(investmentService services.InvestmentServicer, auditService services.AuditServicer) *InvestmentHandler {
	return &InvestmentHandler{investmentService: investmentService, auditService: auditService}
}

// RecordInvestmentRequest represents the request payload for investing in an athlete.
type RecordInvestmentRequest struct {
	Amount decimal.Decimal `json:"amount"`
	Note   string          `json:"note" binding:"max=500"`
}

// RecordInvestment handles an investor's commitment to an athlete.
// @Summary     Invest in athlete
// @Description Record an investment of at least the athlete's minimum
// @Tags        investments
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string                  true "Athlete ID"
// @Param       request body RecordInvestmentRequest true "Investment"
// @Success     201 {object} models.Investment "Investment recorded"
// @Failure     400 {object} ErrorResponse "Invalid input or below minimum"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Forbidden"
// @Failure     404 {object} ErrorResponse "Athlete not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /athletes/{id}/investments [post]
func (h *InvestmentHandler) RecordInvestment(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	athleteID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req RecordInvestmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	investment, err := h.investmentService.RecordInvestment(c.Request.Context(), userID, athleteID, req.Amount, req.Note)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Record(c.Request.Context(), services.AuditEntry{
		UserID:       userID,
		Action:       services.AuditActionCreateInvestment,
		ResourceType: services.AuditResourceInvestment,
		ResourceID:   investment.ID,
		IPAddress:    c.ClientIP(),
		Changes:      map[string]any{"athlete_id": athleteID, "amount": req.Amount.StringFixed(2)},
	})

	c.JSON(http.StatusCreated, gin.H{"investment": investment})
}

// GetAthleteInvestments handles listing investments in an athlete.
// @Summary     List athlete investments
// @Description Get a paginated list of investments in an athlete
// @Tags        investments
// @Produce     json
// @Security    BearerAuth
// @Param       id        path  string true  "Athlete ID"
// @Param       page      query int    false "Page number (default 1)"
// @Param       page_size query int    false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Investment] "Paginated investments"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Athlete not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /athletes/{id}/investments [get]
func (h *InvestmentHandler) GetAthleteInvestments(c *gin.Context) {
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

	result, err := h.investmentService.GetAthleteInvestments(c.Request.Context(), athleteID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
