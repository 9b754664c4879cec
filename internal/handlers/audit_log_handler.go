package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "sportfund/internal/errors"
	"sportfund/internal/pagination"
	"sportfund/internal/services"
)

// AuditLogHandler exposes the privileged-action log to admins.
type AuditLogHandler struct {
	auditService services.AuditServicer
}

// NewAuditLogHandler creates a new AuditLogHandler.
func NewAuditLogHandler(auditService services.AuditServicer) *AuditLogHandler {
	return &AuditLogHandler{auditService: auditService}
}

// ListAuditLogsQuery filters the audit log listing.
type ListAuditLogsQuery struct {
	pagination.PageRequest
	UserID       string `form:"user_id" binding:"omitempty,uuid"`
	Action       string `form:"action" binding:"max=100"`
	ResourceType string `form:"resource_type" binding:"max=100"`
	ResourceID   string `form:"resource_id" binding:"omitempty,uuid"`
}

// ListAuditLogs handles the admin audit log listing.
// @Summary     List audit log
// @Description List privileged actions, newest first, optionally filtered by actor, action or resource
// @Tags        admin
// @Produce     json
// @Security    BearerAuth
// @Param       user_id       query string false "Acting user"
// @Param       action        query string false "Action, e.g. UPDATE_PURCHASE_STATUS"
// @Param       resource_type query string false "Resource type, e.g. purchase_request"
// @Param       resource_id   query string false "Resource ID"
// @Param       page          query int    false "Page number (default 1)"
// @Param       page_size     query int    false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.AuditLog] "Paginated audit entries"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Forbidden"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /admin/audit-logs [get]
func (h *AuditLogHandler) ListAuditLogs(c *gin.Context) {
	var q ListAuditLogsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	filter := services.AuditFilter{
		UserID:       q.UserID,
		Action:       q.Action,
		ResourceType: q.ResourceType,
		ResourceID:   q.ResourceID,
	}
	result, err := h.auditService.List(c.Request.Context(), filter, q.PageRequest)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
