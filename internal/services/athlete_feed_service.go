package services

import (
	"context"

	"gorm.io/gorm"

	apperrors "sportfund/internal/errors"
	"sportfund/internal/logger"
	"sportfund/internal/models"
	"sportfund/internal/pagination"
)

// Feed event titles.
const (
	FeedTitleStatsCreated      = "Season Stats Created"
	FeedTitleStatsUpdated      = "Season Stats Updated"
	FeedTitleGoalCreated       = "Career Goal Created"
	FeedTitleGoalUpdated       = "Career Goal Updated"
	FeedTitleGoalDeleted       = "Career Goal Deleted"
	FeedTitleMilestoneAdded    = "Milestone Added"
	FeedTitleMilestoneUpdated  = "Milestone Updated"
	FeedTitlePurchaseRequested = "Purchase Request Submitted"
	FeedTitlePurchaseReviewed  = "Purchase Request Reviewed"
	FeedTitleInvestment        = "New Investment"
)

// athleteFeedService writes and reads the athlete activity feed.
type athleteFeedService struct {
	db *gorm.DB
}

// NewAthleteFeedService creates a new AthleteFeedServicer.
func NewAthleteFeedService(db *gorm.DB) AthleteFeedServicer {
	return &athleteFeedService{db: db}
}

// Append records a feed event. Failures are logged and never returned, so
// the write the event describes is not rolled back.
func (s *athleteFeedService) Append(ctx context.Context, athleteID, title, description string) {
	entry := &models.AthleteUpdate{
		AthleteID:   athleteID,
		Title:       title,
		Description: description,
	}
	if err := s.db.WithContext(ctx).Create(entry).Error; err != nil {
		logger.Named("feed").Errorw("failed to append athlete feed event",
			"error", err,
			"athlete_id", athleteID,
			"title", title,
		)
	}
}

// ListUpdates returns an athlete's feed, newest first.
func (s *athleteFeedService) ListUpdates(ctx context.Context, athleteID string, page pagination.PageRequest) (*pagination.PageResponse[models.AthleteUpdate], error) {
	query := s.db.WithContext(ctx).Model(&models.AthleteUpdate{}).Where("athlete_id = ?", athleteID)
	result, err := pagination.Fetch[models.AthleteUpdate](query, page, pagination.NewestFirst)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return result, nil
}
