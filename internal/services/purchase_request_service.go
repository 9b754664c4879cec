package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	apperrors "sportfund/internal/errors"
	"sportfund/internal/logger"
	"sportfund/internal/metrics"
	"sportfund/internal/models"
	"sportfund/internal/pagination"
)

// purchaseRequestService handles athlete purchase requests and their review.
type purchaseRequestService struct {
	db      *gorm.DB
	feed    AthleteFeedServicer
	metrics *metrics.Metrics
}

// NewPurchaseRequestService creates a new PurchaseRequestServicer. m may be nil.
func NewPurchaseRequestService(db *gorm.DB, feed AthleteFeedServicer, m *metrics.Metrics) PurchaseRequestServicer {
	return &purchaseRequestService{db: db, feed: feed, metrics: m}
}

// CreateRequest files a pending purchase request for the athlete.
func (s *purchaseRequestService) CreateRequest(ctx context.Context, athleteID string, input PurchaseRequestInput) (*models.PurchaseRequest, error) {
	if _, err := findAthlete(ctx, s.db, athleteID); err != nil {
		return nil, err
	}
	if !input.Amount.IsPositive() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Amount must be greater than zero")
	}
	if strings.TrimSpace(input.Category) == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Category is required")
	}

	urgency := input.Urgency
	if urgency == "" {
		urgency = models.UrgencyMedium
	}

	req := &models.PurchaseRequest{
		AthleteID:     athleteID,
		Category:      input.Category,
		Amount:        input.Amount,
		Vendor:        input.Vendor,
		Justification: input.Justification,
		Urgency:       urgency,
		Status:        models.PurchaseStatusPending,
	}
	if err := s.db.WithContext(ctx).Create(req).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	s.feed.Append(ctx, athleteID, FeedTitlePurchaseRequested,
		fmt.Sprintf("%s: %s", req.Category, req.Amount.StringFixed(2)))
	return req, nil
}

// ListRequests returns the athlete's requests, newest first, optionally
// filtered by status.
func (s *purchaseRequestService) ListRequests(ctx context.Context, athleteID string, status *models.PurchaseStatus, page pagination.PageRequest) (*pagination.PageResponse[models.PurchaseRequest], error) {
	query := s.db.WithContext(ctx).Model(&models.PurchaseRequest{}).Where("athlete_id = ?", athleteID)
	if status != nil {
		query = query.Where("status = ?", *status)
	}

	result, err := pagination.Fetch[models.PurchaseRequest](query, page, pagination.NewestFirst)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return result, nil
}

// GetOverview sums the athlete's non-deleted requests in one query.
func (s *purchaseRequestService) GetOverview(ctx context.Context, athleteID string) (*PurchaseOverview, error) {
	var overview PurchaseOverview
	if err := s.db.WithContext(ctx).Model(&models.PurchaseRequest{}).
		Select(
			"COALESCE(SUM(amount), 0) AS total_requested_amount, "+
				"COALESCE(SUM(CASE WHEN status = ? THEN amount ELSE 0 END), 0) AS total_approved_amount, "+
				"COALESCE(SUM(CASE WHEN status IN ? THEN amount ELSE 0 END), 0) AS total_pending_review_amount",
			models.PurchaseStatusApproved,
			[]models.PurchaseStatus{models.PurchaseStatusPending, models.PurchaseStatusUnderReview},
		).
		Where("athlete_id = ?", athleteID).
		Scan(&overview).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &overview, nil
}

// UpdateStatus reviews a single request.
func (s *purchaseRequestService) UpdateStatus(ctx context.Context, requestID string, status models.PurchaseStatus, note, actorID string) (*models.PurchaseRequest, error) {
	if !status.Valid() {
		return nil, apperrors.ErrInvalidPurchaseStatus
	}

	var req models.PurchaseRequest
	if err := s.db.WithContext(ctx).Where("id = ?", requestID).First(&req).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrPurchaseRequestNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if err := s.review(s.db.WithContext(ctx), &req, status, note, actorID, time.Now()); err != nil {
		return nil, err
	}

	s.announceReview(ctx, []models.PurchaseRequest{req}, status)
	return &req, nil
}

// BulkUpdateStatus reviews every request in requestIDs that exists. Unknown
// IDs are skipped and repeated IDs are reviewed once, so Updated counts
// distinct records.
func (s *purchaseRequestService) BulkUpdateStatus(ctx context.Context, requestIDs []string, status models.PurchaseStatus, note, actorID string) (*BulkUpdateResult, error) {
	if !status.Valid() {
		return nil, apperrors.ErrInvalidPurchaseStatus
	}

	result := &BulkUpdateResult{Requests: []models.PurchaseRequest{}}
	if len(requestIDs) == 0 {
		return result, nil
	}

	now := time.Now()
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		seen := make(map[string]struct{}, len(requestIDs))
		for _, id := range requestIDs {
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}

			var req models.PurchaseRequest
			if err := tx.Where("id = ?", id).First(&req).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					continue
				}
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
			if err := s.review(tx, &req, status, note, actorID, now); err != nil {
				return err
			}
			result.Requests = append(result.Requests, req)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	result.Updated = len(result.Requests)
	s.announceReview(ctx, result.Requests, status)
	logger.Get().Infow("bulk purchase request review",
		"status", status,
		"requested", len(requestIDs),
		"updated", result.Updated,
		"actor_id", actorID,
	)
	return result, nil
}

// review writes the review fields onto req and persists them with db.
func (s *purchaseRequestService) review(db *gorm.DB, req *models.PurchaseRequest, status models.PurchaseStatus, note, actorID string, at time.Time) error {
	updates := map[string]any{
		"status":      status,
		"admin_note":  note,
		"reviewed_on": at,
		"approved_by": nil,
	}
	if actorID != "" {
		updates["approved_by"] = actorID
	}
	if err := db.Model(req).Updates(updates).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	req.Status = status
	req.AdminNote = note
	req.ReviewedOn = &at
	req.ApprovedBy = nil
	if actorID != "" {
		actor := actorID
		req.ApprovedBy = &actor
	}
	return nil
}

func (s *purchaseRequestService) announceReview(ctx context.Context, reqs []models.PurchaseRequest, status models.PurchaseStatus) {
	s.metrics.ObservePurchaseTransition(string(status), len(reqs))
	for _, r := range reqs {
		s.feed.Append(ctx, r.AthleteID, FeedTitlePurchaseReviewed,
			fmt.Sprintf("%s request for %s marked %s", r.Category, r.Amount.StringFixed(2), status))
	}
}

// CountPending counts pending requests, across all athletes when athleteID is nil.
func (s *purchaseRequestService) CountPending(ctx context.Context, athleteID *string) (int64, error) {
	query := s.db.WithContext(ctx).Model(&models.PurchaseRequest{}).
		Where("status = ?", models.PurchaseStatusPending)
	if athleteID != nil {
		query = query.Where("athlete_id = ?", *athleteID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return count, nil
}
