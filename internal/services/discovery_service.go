package services

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "sportfund/internal/errors"
	"sportfund/internal/metrics"
	"sportfund/internal/models"
	"sportfund/internal/pagination"
)

// Discovery sort criteria.
const (
	SortMostTrending     = "most_trending"
	SortHighestValuation = "highest_valuation"
	SortHighestGrowth    = "highest_growth"
	SortMostFollowers    = "most_followers"
	SortDefault          = "default"
)

// DefaultRecentUpdatesLimit caps the feed entries attached to each athlete.
const DefaultRecentUpdatesLimit = 5

var sortOrders = map[string]string{
	SortMostTrending:     "athletes.updated_at DESC",
	SortHighestValuation: "athletes.years_of_experience DESC",
	SortHighestGrowth:    "athletes.created_at DESC",
	SortMostFollowers:    `COALESCE("SocialMedia"."follower_count", 0) DESC`,
}

// normalizeSort maps a user-supplied criterion onto a known key, or SortDefault.
func normalizeSort(sortBy string) string {
	key := strings.ToLower(strings.TrimSpace(sortBy))
	key = strings.NewReplacer("-", "_", " ", "_").Replace(key)
	if _, ok := sortOrders[key]; ok {
		return key
	}
	return SortDefault
}

// investmentPercentage is invested/funding as a percentage with two decimals.
func investmentPercentage(invested, funding decimal.Decimal) string {
	if funding.IsZero() {
		return "0.00"
	}
	return invested.Div(funding).Mul(decimal.NewFromInt(100)).Round(2).StringFixed(2)
}

// investmentTotals holds the investor aggregates for one athlete.
type investmentTotals struct {
	AthleteID           string
	TotalInvestors      int64
	TotalInvestedAmount decimal.Decimal
}

// getInvestmentTotals aggregates investments for the given athletes in one
// grouped query. Athletes without investments are not in the map.
func getInvestmentTotals(ctx context.Context, db *gorm.DB, athleteIDs []string) (map[string]investmentTotals, error) {
	if len(athleteIDs) == 0 {
		return map[string]investmentTotals{}, nil
	}

	var rows []investmentTotals
	if err := db.WithContext(ctx).Model(&models.Investment{}).
		Select("athlete_id, COUNT(DISTINCT investor_id) AS total_investors, COALESCE(SUM(amount), 0) AS total_invested_amount").
		Where("athlete_id IN ?", athleteIDs).
		Group("athlete_id").
		Scan(&rows).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := make(map[string]investmentTotals, len(rows))
	for _, r := range rows {
		result[r.AthleteID] = r
	}
	return result, nil
}

// getRecentUpdates loads at most limit feed entries per athlete, newest first.
// Rows are ranked per athlete in the database so long feeds are never read
// in full.
func getRecentUpdates(ctx context.Context, db *gorm.DB, athleteIDs []string, limit int) (map[string][]models.AthleteUpdate, error) {
	result := make(map[string][]models.AthleteUpdate, len(athleteIDs))
	if len(athleteIDs) == 0 {
		return result, nil
	}

	ranked := db.Model(&models.AthleteUpdate{}).
		Select("athlete_updates.*, ROW_NUMBER() OVER (PARTITION BY athlete_id ORDER BY created_at DESC, id DESC) AS feed_rank").
		Where("athlete_id IN ?", athleteIDs)

	var rows []models.AthleteUpdate
	if err := db.WithContext(ctx).
		Table("(?) AS ranked", ranked).
		Where("feed_rank <= ?", limit).
		Order("athlete_id").
		Scopes(pagination.NewestFirst).
		Find(&rows).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	for _, u := range rows {
		result[u.AthleteID] = append(result[u.AthleteID], u)
	}
	return result, nil
}

// discoveryService builds the athlete discovery query.
type discoveryService struct {
	db                 *gorm.DB
	registry           SportRegistry
	recentUpdatesLimit int
	metrics            *metrics.Metrics
}

// NewDiscoveryService creates a new DiscoveryServicer. A non-positive
// recentUpdatesLimit falls back to DefaultRecentUpdatesLimit; m may be nil.
func NewDiscoveryService(db *gorm.DB, registry SportRegistry, recentUpdatesLimit int, m *metrics.Metrics) DiscoveryServicer {
	if recentUpdatesLimit <= 0 {
		recentUpdatesLimit = DefaultRecentUpdatesLimit
	}
	return &discoveryService{db: db, registry: registry, recentUpdatesLimit: recentUpdatesLimit, metrics: m}
}

// Discover lists athletes matching filter with investment aggregates attached.
func (s *discoveryService) Discover(ctx context.Context, filter DiscoveryFilter) ([]models.Athlete, error) {
	start := time.Now()
	sortKey := normalizeSort(filter.SortBy)
	defer func() { s.metrics.ObserveDiscovery(sortKey, time.Since(start)) }()

	query := s.db.WithContext(ctx).Model(&models.Athlete{}).
		Joins("User").
		Joins("SocialMedia").
		Preload("FundingGoal").
		Preload("Coach").
		Preload("CareerGoals.Milestones").
		Preload("InvestmentPitches")

	// An unrecognised sport is not an error; it only skips the stats join.
	if desc, ok := s.registry.Lookup(filter.Sport); ok {
		query = query.Joins(desc.Relation)
	}

	if filter.AthleteID != "" {
		query = query.Where("athletes.id = ?", filter.AthleteID)
	}
	if name := strings.TrimSpace(filter.Name); name != "" {
		pattern := "%" + strings.ToLower(name) + "%"
		query = query.Where(
			`LOWER("User"."first_name") LIKE ? OR LOWER("User"."last_name") LIKE ? OR LOWER("User"."first_name" || ' ' || "User"."last_name") LIKE ?`,
			pattern, pattern, pattern,
		)
	}
	if sport := strings.TrimSpace(filter.Sport); sport != "" {
		query = query.Where("LOWER(athletes.primary_sport) = LOWER(?)", sport)
	}

	if order, ok := sortOrders[sortKey]; ok {
		query = query.Order(order)
	}
	query = query.Order("athletes.created_at DESC").Order("athletes.id DESC")

	var athletes []models.Athlete
	if err := query.Find(&athletes).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	ids := make([]string, len(athletes))
	for i := range athletes {
		ids[i] = athletes[i].ID
	}
	totals, err := getInvestmentTotals(ctx, s.db, ids)
	if err != nil {
		return nil, err
	}
	recent, err := getRecentUpdates(ctx, s.db, ids, s.recentUpdatesLimit)
	if err != nil {
		return nil, err
	}

	for i := range athletes {
		a := &athletes[i]
		t := totals[a.ID]
		a.TotalInvestors = t.TotalInvestors
		a.TotalInvestedAmount = t.TotalInvestedAmount.InexactFloat64()
		a.InvestmentPercentage = investmentPercentage(t.TotalInvestedAmount, a.TotalFunding)
		a.RecentUpdates = recent[a.ID]
	}
	return athletes, nil
}

// GetAthleteProfile returns one athlete with the same enrichment as Discover.
func (s *discoveryService) GetAthleteProfile(ctx context.Context, athleteID string) (*models.Athlete, error) {
	athletes, err := s.Discover(ctx, DiscoveryFilter{AthleteID: athleteID})
	if err != nil {
		return nil, err
	}
	if len(athletes) == 0 {
		return nil, apperrors.ErrAthleteNotFound
	}
	return &athletes[0], nil
}
