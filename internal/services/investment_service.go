package services

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "sportfund/internal/errors"
	"sportfund/internal/logger"
	"sportfund/internal/metrics"
	"sportfund/internal/models"
	"sportfund/internal/pagination"
)

// investmentService records investor commitments to athletes.
type investmentService struct {
	db      *gorm.DB
	feed    AthleteFeedServicer
	metrics *metrics.Metrics
}

// NewInvestmentService creates a new InvestmentServicer. m may be nil.
func NewInvestmentService(db *gorm.DB, feed AthleteFeedServicer, m *metrics.Metrics) InvestmentServicer {
	return &investmentService{db: db, feed: feed, metrics: m}
}

// RecordInvestment stores an investment of at least the athlete's minimum.
func (s *investmentService) RecordInvestment(ctx context.Context, investorID, athleteID string, amount decimal.Decimal, note string) (*models.Investment, error) {
	athlete, err := findAthlete(ctx, s.db, athleteID)
	if err != nil {
		return nil, err
	}
	if !amount.IsPositive() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Amount must be greater than zero")
	}
	if amount.LessThan(athlete.MinInvestment) {
		return nil, apperrors.WithMessage(apperrors.ErrBelowMinimumInvestment,
			fmt.Sprintf("Minimum investment is %s", athlete.MinInvestment.StringFixed(2)))
	}

	investment := &models.Investment{
		InvestorID: investorID,
		AthleteID:  athleteID,
		Amount:     amount,
		Note:       note,
	}
	if err := s.db.WithContext(ctx).Create(investment).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	s.metrics.ObserveInvestment()
	s.feed.Append(ctx, athleteID, FeedTitleInvestment,
		fmt.Sprintf("Received %s", amount.StringFixed(2)))
	logger.Get().Infow("investment recorded",
		"athlete_id", athleteID,
		"investor_id", investorID,
		"investment_id", investment.ID,
	)
	return investment, nil
}

// GetAthleteInvestments returns the athlete's investments with investor
// details, newest first.
func (s *investmentService) GetAthleteInvestments(ctx context.Context, athleteID string, page pagination.PageRequest) (*pagination.PageResponse[models.Investment], error) {
	if _, err := findAthlete(ctx, s.db, athleteID); err != nil {
		return nil, err
	}

	query := s.db.WithContext(ctx).Model(&models.Investment{}).Where("athlete_id = ?", athleteID)
	result, err := pagination.Fetch[models.Investment](query, page, preloadInvestor, pagination.NewestFirst)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return result, nil
}

func preloadInvestor(db *gorm.DB) *gorm.DB {
	return db.Preload("Investor")
}
