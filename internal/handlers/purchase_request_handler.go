package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "sportfund/internal/errors"
	"sportfund/internal/models"
	"sportfund/internal/pagination"
	"sportfund/internal/services"
)

// PurchaseRequestHandler handles purchase request submission and review.
type PurchaseRequestHandler struct {
	purchaseService services.PurchaseRequestServicer
	auditService    services.AuditServicer
}

// NewPurchaseRequestHandler creates a new PurchaseRequestHandler.
func NewPurchaseRequestHandler(purchaseService services.PurchaseRequestServicer, auditService services.AuditServicer) *PurchaseRequestHandler {
	return &PurchaseRequestHandler{purchaseService: purchaseService, auditService: auditService}
}

// CreatePurchaseRequest represents the request payload for a new purchase request.
type CreatePurchaseRequest struct {
	Category      string          `json:"category" binding:"required,min=1,max=100"`
	Amount        decimal.Decimal `json:"amount"`
	Vendor        string          `json:"vendor" binding:"max=200"`
	Justification string          `json:"justification" binding:"max=2000"`
	Urgency       models.Urgency  `json:"urgency" binding:"omitempty,urgency"`
}

// ListPurchaseRequestsQuery filters the purchase request listing.
type ListPurchaseRequestsQuery struct {
	pagination.PageRequest
	Status models.PurchaseStatus `form:"status" binding:"omitempty,purchase_status"`
}

// UpdateStatusRequest represents an admin review decision.
type UpdateStatusRequest struct {
	Status models.PurchaseStatus `json:"status" binding:"required,purchase_status"`
	Note   string                `json:"note" binding:"max=2000"`
}

// BulkUpdateStatusRequest applies one review decision to many requests.
type BulkUpdateStatusRequest struct {
	RequestIDs []string              `json:"request_ids" binding:"required,min=1,max=100,dive,uuid"`
	Status     models.PurchaseStatus `json:"status" binding:"required,purchase_status"`
	Note       string                `json:"note" binding:"max=2000"`
}

// PendingCountQuery optionally scopes the pending count to one athlete.
type PendingCountQuery struct {
	AthleteID string `form:"athlete_id" binding:"omitempty,uuid"`
}

// CreateRequest handles an athlete's new purchase request.
// @Summary     Create purchase request
// @Tags        purchase-requests
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string                true "Athlete ID"
// @Param       request body CreatePurchaseRequest true "Purchase request"
// @Success     201 {object} models.PurchaseRequest "Purchase request created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Athlete not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /athletes/{id}/purchase-requests [post]
func (h *PurchaseRequestHandler) CreateRequest(c *gin.Context) {
	athleteID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreatePurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	request, err := h.purchaseService.CreateRequest(c.Request.Context(), athleteID, services.PurchaseRequestInput{
		Category:      req.Category,
		Amount:        req.Amount,
		Vendor:        req.Vendor,
		Justification: req.Justification,
		Urgency:       req.Urgency,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"purchase_request": request})
}

// ListRequests handles listing an athlete's purchase requests.
// @Summary     List purchase requests
// @Tags        purchase-requests
// @Produce     json
// @Security    BearerAuth
// @Param       id        path  string true  "Athlete ID"
// @Param       status    query string false "pending, under_review, approved or rejected"
// @Param       page      query int    false "Page number (default 1)"
// @Param       page_size query int    false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.PurchaseRequest] "Paginated purchase requests"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /athletes/{id}/purchase-requests [get]
func (h *PurchaseRequestHandler) ListRequests(c *gin.Context) {
	athleteID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var q ListPurchaseRequestsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	var status *models.PurchaseStatus
	if q.Status != "" {
		status = &q.Status
	}

	result, err := h.purchaseService.ListRequests(c.Request.Context(), athleteID, status, q.PageRequest)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetOverview handles the purchase totals for an athlete.
// @Summary     Purchase request overview
// @Description Get requested, approved and pending-review totals for an athlete
// @Tags        purchase-requests
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Athlete ID"
// @Success     200 {object} services.PurchaseOverview "Totals"
// @Failure     400 {object} ErrorResponse "Invalid athlete ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /athletes/{id}/purchase-requests/overview [get]
func (h *PurchaseRequestHandler) GetOverview(c *gin.Context) {
	athleteID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	overview, err := h.purchaseService.GetOverview(c.Request.Context(), athleteID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, overview)
}

// CountPending handles the admin badge count of pending requests.
// @Summary     Count pending purchase requests
// @Tags        purchase-requests
// @Produce     json
// @Security    BearerAuth
// @Param       athlete_id query string false "Limit to one athlete"
// @Success     200 {object} map[string]int64 "Pending count"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Forbidden"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /purchase-requests/pending-count [get]
func (h *PurchaseRequestHandler) CountPending(c *gin.Context) {
	var q PendingCountQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	var athleteID *string
	if q.AthleteID != "" {
		athleteID = &q.AthleteID
	}

	count, err := h.purchaseService.CountPending(c.Request.Context(), athleteID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"pending": count})
}

// UpdateStatus handles an admin review of one purchase request.
// @Summary     Review purchase request
// @Tags        admin
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       requestId path string              true "Purchase request ID"
// @Param       request   body UpdateStatusRequest true "Decision"
// @Success     200 {object} models.PurchaseRequest "Updated purchase request"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Forbidden"
// @Failure     404 {object} ErrorResponse "Purchase request not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /admin/purchase-requests/{requestId}/status [put]
func (h *PurchaseRequestHandler) UpdateStatus(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	requestID, err := parsePathID(c, "requestId")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	request, err := h.purchaseService.UpdateStatus(c.Request.Context(), requestID, req.Status, req.Note, userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Record(c.Request.Context(), reviewEntry(c, userID, requestID, req.Status, req.Note, false))

	c.JSON(http.StatusOK, gin.H{"purchase_request": request})
}

// BulkUpdateStatus handles an admin review of many purchase requests.
// @Summary     Bulk review purchase requests
// @Description Apply one status to several purchase requests; unknown IDs are skipped
// @Tags        admin
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body BulkUpdateStatusRequest true "Decision"
// @Success     200 {object} services.BulkUpdateResult "Updated purchase requests"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Forbidden"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /admin/purchase-requests/bulk-status [post]
func (h *PurchaseRequestHandler) BulkUpdateStatus(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req BulkUpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.purchaseService.BulkUpdateStatus(c.Request.Context(), req.RequestIDs, req.Status, req.Note, userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	ctx := c.Request.Context()
	for i := range result.Requests {
		h.auditService.Record(ctx, reviewEntry(c, userID, result.Requests[i].ID, req.Status, req.Note, true))
	}

	c.JSON(http.StatusOK, result)
}

func reviewEntry(c *gin.Context, userID, requestID string, status models.PurchaseStatus, note string, bulk bool) services.AuditEntry {
	changes := map[string]any{"status": string(status), "note": note}
	if bulk {
		changes["bulk"] = true
	}
	return services.AuditEntry{
		UserID:       userID,
		Action:       services.AuditActionUpdatePurchaseStatus,
		ResourceType: services.AuditResourcePurchaseRequest,
		ResourceID:   requestID,
		IPAddress:    c.ClientIP(),
		Changes:      changes,
	}
}
