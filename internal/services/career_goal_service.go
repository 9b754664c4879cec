package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"gorm.io/gorm"

	apperrors "sportfund/internal/errors"
	"sportfund/internal/models"
)

// goalProgress derives progress from milestones: the rounded share of
// completed milestones, or 0 for a goal without milestones.
func goalProgress(milestones []models.Milestone) int {
	if len(milestones) == 0 {
		return 0
	}
	completed := 0
	for _, m := range milestones {
		if m.IsCompleted {
			completed++
		}
	}
	return int(math.Round(float64(completed) / float64(len(milestones)) * 100))
}

func withProgress(goal models.CareerGoal) GoalProgress {
	p := goalProgress(goal.Milestones)
	return GoalProgress{
		CareerGoal:  goal,
		Progress:    p,
		IsCompleted: p == 100,
		InProgress:  p > 0 && p < 100,
	}
}

// careerGoalService handles career goals and their milestones.
type careerGoalService struct {
	db   *gorm.DB
	feed AthleteFeedServicer
}

// NewCareerGoalService creates a new CareerGoalServicer.
func NewCareerGoalService(db *gorm.DB, feed AthleteFeedServicer) CareerGoalServicer {
	return &careerGoalService{db: db, feed: feed}
}

// GetGoals returns the athlete's goals with derived progress, newest first.
func (s *careerGoalService) GetGoals(ctx context.Context, athleteID string) ([]GoalProgress, error) {
	var goals []models.CareerGoal
	if err := s.db.WithContext(ctx).
		Where("athlete_id = ?", athleteID).
		Preload("Milestones", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Order("created_at DESC").
		Find(&goals).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := make([]GoalProgress, len(goals))
	for i, g := range goals {
		result[i] = withProgress(g)
	}
	return result, nil
}

// GetOverview counts goals by state and averages their progress.
func (s *careerGoalService) GetOverview(ctx context.Context, athleteID string) (*GoalOverview, error) {
	goals, err := s.GetGoals(ctx, athleteID)
	if err != nil {
		return nil, err
	}

	overview := &GoalOverview{Total: len(goals)}
	if len(goals) == 0 {
		return overview, nil
	}

	sum := 0
	for _, g := range goals {
		sum += g.Progress
		switch {
		case g.IsCompleted:
			overview.Completed++
		case g.InProgress:
			overview.InProgress++
		}
	}
	overview.AvgProgress = int(math.Round(float64(sum) / float64(len(goals))))
	return overview, nil
}

// CreateGoal creates a goal for the athlete.
func (s *careerGoalService) CreateGoal(ctx context.Context, athleteID string, input GoalInput) (*models.CareerGoal, error) {
	if _, err := findAthlete(ctx, s.db, athleteID); err != nil {
		return nil, err
	}
	if input.Title == nil || strings.TrimSpace(*input.Title) == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Goal title is required")
	}

	goal := &models.CareerGoal{
		AthleteID:  athleteID,
		Title:      *input.Title,
		Priority:   models.GoalPriorityMedium,
		TargetDate: input.TargetDate,
	}
	if input.Description != nil {
		goal.Description = *input.Description
	}
	if input.Category != nil {
		goal.Category = *input.Category
	}
	if input.Priority != nil {
		goal.Priority = *input.Priority
	}

	if err := s.db.WithContext(ctx).Create(goal).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	goal.Milestones = []models.Milestone{}

	s.feed.Append(ctx, athleteID, FeedTitleGoalCreated, goal.Title)
	return goal, nil
}

// UpdateGoal applies the non-nil fields of input. Nothing is written when
// no field changes.
func (s *careerGoalService) UpdateGoal(ctx context.Context, athleteID, goalID string, input GoalInput) (*models.CareerGoal, error) {
	goal, err := s.findGoal(ctx, athleteID, goalID)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if input.Title != nil && *input.Title != goal.Title {
		if strings.TrimSpace(*input.Title) == "" {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Goal title is required")
		}
		updates["title"] = *input.Title
	}
	if input.Description != nil && *input.Description != goal.Description {
		updates["description"] = *input.Description
	}
	if input.Category != nil && *input.Category != goal.Category {
		updates["category"] = *input.Category
	}
	if input.Priority != nil && *input.Priority != goal.Priority {
		updates["priority"] = *input.Priority
	}
	if input.TargetDate != nil && (goal.TargetDate == nil || !goal.TargetDate.Equal(*input.TargetDate)) {
		updates["target_date"] = *input.TargetDate
	}

	if len(updates) == 0 {
		return goal, nil
	}

	if err := s.db.WithContext(ctx).Model(goal).Updates(updates).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	s.feed.Append(ctx, athleteID, FeedTitleGoalUpdated,
		fmt.Sprintf("%s: %s changed", goal.Title, changedKeys(updates)))
	return s.findGoal(ctx, athleteID, goalID)
}

// DeleteGoal soft-deletes a goal. It reports false, without writing, when
// the goal does not exist or is already deleted.
func (s *careerGoalService) DeleteGoal(ctx context.Context, athleteID, goalID string) (bool, error) {
	var goal models.CareerGoal
	if err := s.db.WithContext(ctx).
		Where("id = ? AND athlete_id = ?", goalID, athleteID).
		First(&goal).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := s.db.WithContext(ctx).Delete(&goal)
	if result.Error != nil {
		return false, apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	if result.RowsAffected == 0 {
		return false, nil
	}

	s.feed.Append(ctx, athleteID, FeedTitleGoalDeleted, goal.Title)
	return true, nil
}

// AddMilestone appends a milestone to a goal.
func (s *careerGoalService) AddMilestone(ctx context.Context, athleteID, goalID string, input MilestoneInput) (*models.Milestone, error) {
	goal, err := s.findGoal(ctx, athleteID, goalID)
	if err != nil {
		return nil, err
	}
	if input.Title == nil || strings.TrimSpace(*input.Title) == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Milestone title is required")
	}

	milestone := &models.Milestone{
		GoalID:  goal.ID,
		Title:   *input.Title,
		DueDate: input.DueDate,
	}
	if input.IsCompleted != nil {
		milestone.IsCompleted = *input.IsCompleted
	}
	if input.InProgress != nil {
		milestone.InProgress = *input.InProgress
	}

	if err := s.db.WithContext(ctx).Create(milestone).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	s.feed.Append(ctx, athleteID, FeedTitleMilestoneAdded,
		fmt.Sprintf("%s: %s", goal.Title, milestone.Title))
	return milestone, nil
}

// UpdateMilestone applies the non-nil fields of input. Nothing is written
// when no field changes.
func (s *careerGoalService) UpdateMilestone(ctx context.Context, athleteID, goalID, milestoneID string, input MilestoneInput) (*models.Milestone, error) {
	goal, err := s.findGoal(ctx, athleteID, goalID)
	if err != nil {
		return nil, err
	}

	var milestone models.Milestone
	if err := s.db.WithContext(ctx).
		Where("id = ? AND goal_id = ?", milestoneID, goal.ID).
		First(&milestone).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrMilestoneNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	updates := map[string]any{}
	if input.Title != nil && *input.Title != milestone.Title {
		updates["title"] = *input.Title
	}
	if input.DueDate != nil && (milestone.DueDate == nil || !milestone.DueDate.Equal(*input.DueDate)) {
		updates["due_date"] = *input.DueDate
	}
	if input.IsCompleted != nil && *input.IsCompleted != milestone.IsCompleted {
		updates["is_completed"] = *input.IsCompleted
	}
	if input.InProgress != nil && *input.InProgress != milestone.InProgress {
		updates["in_progress"] = *input.InProgress
	}

	if len(updates) == 0 {
		return &milestone, nil
	}

	if err := s.db.WithContext(ctx).Model(&milestone).Updates(updates).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if err := s.db.WithContext(ctx).First(&milestone, "id = ?", milestone.ID).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	s.feed.Append(ctx, athleteID, FeedTitleMilestoneUpdated,
		fmt.Sprintf("%s / %s: %s changed", goal.Title, milestone.Title, changedKeys(updates)))
	return &milestone, nil
}

func (s *careerGoalService) findGoal(ctx context.Context, athleteID, goalID string) (*models.CareerGoal, error) {
	var goal models.CareerGoal
	if err := s.db.WithContext(ctx).
		Where("id = ? AND athlete_id = ?", goalID, athleteID).
		Preload("Milestones", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		First(&goal).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCareerGoalNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &goal, nil
}

// changedKeys lists update keys in sorted order, joined by ", ".
func changedKeys(updates map[string]any) string {
	keys := make([]string, 0, len(updates))
	for k := range updates {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return strings.Join(keys, ", ")
}
