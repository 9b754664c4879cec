package services

import (
	"context"
	"encoding/json"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	apperrors "sportfund/internal/errors"
	"sportfund/internal/logger"
	"sportfund/internal/models"
	"sportfund/internal/pagination"
)

// Audited resource types and actions.
const (
	AuditResourceCareerGoal      = "career_goal"
	AuditResourcePurchaseRequest = "purchase_request"
	AuditResourceInvestment      = "investment"

	AuditActionDeleteCareerGoal     = "DELETE_CAREER_GOAL"
	AuditActionUpdatePurchaseStatus = "UPDATE_PURCHASE_STATUS"
	AuditActionCreateInvestment     = "CREATE_INVESTMENT"
)

// auditService writes and lists the privileged-action log.
type auditService struct {
	db *gorm.DB
}

// NewAuditService creates a new AuditServicer.
func NewAuditService(db *gorm.DB) AuditServicer {
	return &auditService{db: db}
}

// Record stores entry. Like the athlete feed, failures are logged and never
// returned to the caller.
func (s *auditService) Record(ctx context.Context, entry AuditEntry) {
	changes := datatypes.JSON("{}")
	if len(entry.Changes) > 0 {
		data, err := json.Marshal(entry.Changes)
		if err != nil {
			logger.Named("audit").Errorw("failed to marshal audit changes", "error", err, "action", entry.Action)
		} else {
			changes = datatypes.JSON(data)
		}
	}

	row := &models.AuditLog{
		UserID:       entry.UserID,
		Action:       entry.Action,
		ResourceType: entry.ResourceType,
		IPAddress:    entry.IPAddress,
		Changes:      changes,
	}
	if entry.ResourceID != "" {
		row.ResourceID = &entry.ResourceID
	}

	if err := s.db.WithContext(ctx).Create(row).Error; err != nil {
		logger.Named("audit").Errorw("failed to record audit entry",
			"error", err,
			"user_id", entry.UserID,
			"action", entry.Action,
			"resource_type", entry.ResourceType,
			"resource_id", entry.ResourceID,
		)
	}
}

// List returns matching audit entries, newest first.
func (s *auditService) List(ctx context.Context, filter AuditFilter, page pagination.PageRequest) (*pagination.PageResponse[models.AuditLog], error) {
	query := s.db.WithContext(ctx).Model(&models.AuditLog{})
	if filter.UserID != "" {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if filter.Action != "" {
		query = query.Where("action = ?", filter.Action)
	}
	if filter.ResourceType != "" {
		query = query.Where("resource_type = ?", filter.ResourceType)
	}
	if filter.ResourceID != "" {
		query = query.Where("resource_id = ?", filter.ResourceID)
	}

	result, err := pagination.Fetch[models.AuditLog](query, page, pagination.NewestFirst)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return result, nil
}
