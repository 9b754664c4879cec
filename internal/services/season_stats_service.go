package services

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	apperrors "sportfund/internal/errors"
	"sportfund/internal/logger"
	"sportfund/internal/metrics"
	"sportfund/internal/models"
	"sportfund/internal/pagination"
	"sportfund/internal/stats"
)

// seasonStatsService handles the per-sport snapshot history of athletes.
type seasonStatsService struct {
	db       *gorm.DB
	registry SportRegistry
	feed     AthleteFeedServicer
	metrics  *metrics.Metrics
}

// NewSeasonStatsService creates a new SeasonStatsServicer. m may be nil.
func NewSeasonStatsService(db *gorm.DB, registry SportRegistry, feed AthleteFeedServicer, m *metrics.Metrics) SeasonStatsServicer {
	return &seasonStatsService{db: db, registry: registry, feed: feed, metrics: m}
}

// Upsert appends a snapshot when fields differ from the latest one. The read
// and the write are not in one transaction: two concurrent callers may both
// see the same latest snapshot and both append.
func (s *seasonStatsService) Upsert(ctx context.Context, athleteID, sportName string, fields stats.Fields) (*UpsertResult, error) {
	accessor, err := s.registry.Resolve(sportName)
	if err != nil {
		return nil, err
	}
	desc := accessor.Descriptor()

	existing, err := accessor.FindLatest(ctx, athleteID)
	if err != nil {
		return nil, err
	}

	if existing == nil {
		snapshot, err := accessor.CreateSnapshot(ctx, athleteID, nil, fields)
		if err != nil {
			return nil, err
		}
		s.feed.Append(ctx, athleteID, FeedTitleStatsCreated,
			describe(desc, stats.Summarize(accessor.Accepted(fields))))
		return s.settle(athleteID, desc, UpsertCreated, snapshot, nil), nil
	}

	changes := accessor.Diff(ctx, existing, fields)
	if len(changes) == 0 {
		return s.settle(athleteID, desc, UpsertUnchanged, existing, nil), nil
	}

	snapshot, err := accessor.CreateSnapshot(ctx, athleteID, existing, fields)
	if err != nil {
		return nil, err
	}
	s.feed.Append(ctx, athleteID, FeedTitleStatsUpdated,
		describe(desc, stats.SummarizeChanges(changes)))
	return s.settle(athleteID, desc, UpsertUpdated, snapshot, changes), nil
}

func (s *seasonStatsService) settle(athleteID string, desc stats.Descriptor, outcome UpsertOutcome, snapshot models.StatsSnapshot, changes []stats.FieldChange) *UpsertResult {
	s.metrics.ObserveStatsUpsert(string(desc.Sport), string(outcome))
	logger.Named("stats").Infow("season stats upsert",
		"athlete_id", athleteID,
		"sport", desc.Sport,
		"outcome", outcome,
		"snapshot_id", snapshot.GetID(),
	)
	return &UpsertResult{Sport: desc.Sport, Outcome: outcome, Snapshot: snapshot, Changes: changes}
}

func describe(desc stats.Descriptor, summary string) string {
	if summary == "" {
		return desc.Label
	}
	return fmt.Sprintf("%s: %s", desc.Label, summary)
}

// UpdateBackpointer points the athlete's current-stats reference for its
// primary sport at snapshot.
func (s *seasonStatsService) UpdateBackpointer(ctx context.Context, athleteID string, snapshot models.StatsSnapshot) (*models.Athlete, error) {
	athlete, err := findAthlete(ctx, s.db, athleteID)
	if err != nil {
		return nil, err
	}
	return s.pointAt(ctx, athlete, snapshot)
}

func (s *seasonStatsService) pointAt(ctx context.Context, athlete *models.Athlete, snapshot models.StatsSnapshot) (*models.Athlete, error) {
	desc, ok := s.registry.Lookup(athlete.PrimarySport)
	if !ok {
		return nil, apperrors.ErrSportNotRecognized
	}

	if err := s.db.WithContext(ctx).Model(&models.Athlete{}).
		Where("id = ?", athlete.ID).
		Update(desc.BackpointerColumn, snapshot.GetID()).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return findAthlete(ctx, s.db, athlete.ID)
}

// SubmitStats upserts stats for the athlete's primary sport and moves the
// backpointer to the resulting snapshot. An empty sportName means the
// primary sport.
func (s *seasonStatsService) SubmitStats(ctx context.Context, athleteID, sportName string, fields stats.Fields) (*UpsertResult, error) {
	athlete, err := findAthlete(ctx, s.db, athleteID)
	if err != nil {
		return nil, err
	}

	primary, ok := s.registry.Lookup(athlete.PrimarySport)
	if !ok {
		return nil, apperrors.ErrSportNotRecognized
	}
	if sportName != "" {
		requested, ok := s.registry.Lookup(sportName)
		if !ok {
			return nil, apperrors.ErrSportNotRecognized
		}
		if requested.Sport != primary.Sport {
			return nil, apperrors.ErrSportMismatch
		}
	}

	result, err := s.Upsert(ctx, athleteID, string(primary.Sport), fields)
	if err != nil {
		return nil, err
	}

	current := athlete.CurrentStatsID(primary.Sport)
	if current != nil && *current == result.Snapshot.GetID() {
		return result, nil
	}
	if _, err := s.pointAt(ctx, athlete, result.Snapshot); err != nil {
		return nil, err
	}
	return result, nil
}

// GetCurrentStats returns the latest snapshot for the sport.
func (s *seasonStatsService) GetCurrentStats(ctx context.Context, athleteID, sportName string) (models.StatsSnapshot, error) {
	accessor, err := s.registry.Resolve(sportName)
	if err != nil {
		return nil, err
	}
	if _, err := findAthlete(ctx, s.db, athleteID); err != nil {
		return nil, err
	}

	snapshot, err := accessor.FindLatest(ctx, athleteID)
	if err != nil {
		return nil, err
	}
	if snapshot == nil {
		return nil, apperrors.ErrStatsNotFound
	}
	return snapshot, nil
}

// GetStatsHistory returns every snapshot for the sport, newest first.
func (s *seasonStatsService) GetStatsHistory(ctx context.Context, athleteID, sportName string, page pagination.PageRequest) (*pagination.PageResponse[models.StatsSnapshot], error) {
	accessor, err := s.registry.Resolve(sportName)
	if err != nil {
		return nil, err
	}
	if _, err := findAthlete(ctx, s.db, athleteID); err != nil {
		return nil, err
	}
	return accessor.History(ctx, athleteID, page)
}

// ListSports returns the sports that accept stats submissions.
func (s *seasonStatsService) ListSports() []stats.Descriptor {
	return s.registry.Descriptors()
}
