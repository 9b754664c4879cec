package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	apperrors "sportfund/internal/errors"
	"sportfund/internal/models"
)

// findAthlete loads a non-deleted athlete by ID.
func findAthlete(ctx context.Context, db *gorm.DB, athleteID string) (*models.Athlete, error) {
	var athlete models.Athlete
	if err := db.WithContext(ctx).Where("id = ?", athleteID).First(&athlete).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrAthleteNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &athlete, nil
}
