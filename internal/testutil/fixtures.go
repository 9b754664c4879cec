package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"sportfund/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates an athlete-role user with a unique email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	n := nextID()
	return CreateTestUserWithName(t, db, fmt.Sprintf("First%d", n), fmt.Sprintf("Last%d", n), models.RoleAthlete)
}

// CreateTestUserWithName creates a user with the given name and role.
func CreateTestUserWithName(t *testing.T, db *gorm.DB, first, last string, role models.Role) *models.User {
	t.Helper()

	user := &models.User{
		Email:     fmt.Sprintf("user%d@test.com", nextID()),
		FirstName: first,
		LastName:  last,
		Role:      role,
		IsActive:  true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestInvestor creates an investor-role user.
func CreateTestInvestor(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	n := nextID()
	return CreateTestUserWithName(t, db, fmt.Sprintf("Investor%d", n), "Test", models.RoleInvestor)
}

// CreateTestAthlete creates an athlete with a fresh user and the given primary sport.
func CreateTestAthlete(t *testing.T, db *gorm.DB, sport string) *models.Athlete {
	t.Helper()
	user := CreateTestUser(t, db)
	return CreateTestAthleteForUser(t, db, user, sport)
}

// CreateTestAthleteForUser creates an athlete profile owned by user.
func CreateTestAthleteForUser(t *testing.T, db *gorm.DB, user *models.User, sport string) *models.Athlete {
	t.Helper()

	athlete := &models.Athlete{
		UserID:             user.ID,
		PrimarySport:       sport,
		Position:           "Guard",
		YearsOfExperience:  3,
		TotalFunding:       decimal.NewFromInt(10000),
		MinInvestment:      decimal.NewFromInt(100),
		InvestmentDuration: 12,
	}
	if err := db.Create(athlete).Error; err != nil {
		t.Fatalf("failed to create test athlete: %v", err)
	}
	athlete.User = *user
	return athlete
}

// CreateTestInvestment records an investment of amount into athleteID.
func CreateTestInvestment(t *testing.T, db *gorm.DB, investorID, athleteID string, amount int64) *models.Investment {
	t.Helper()

	inv := &models.Investment{
		InvestorID: investorID,
		AthleteID:  athleteID,
		Amount:     decimal.NewFromInt(amount),
	}
	if err := db.Create(inv).Error; err != nil {
		t.Fatalf("failed to create test investment: %v", err)
	}
	return inv
}

// CreateTestGoal creates a career goal with one milestone per entry in
// completed; each value sets that milestone's IsCompleted flag.
func CreateTestGoal(t *testing.T, db *gorm.DB, athleteID string, completed ...bool) *models.CareerGoal {
	t.Helper()

	goal := &models.CareerGoal{
		AthleteID: athleteID,
		Title:     fmt.Sprintf("Goal %d", nextID()),
		Category:  "performance",
		Priority:  models.GoalPriorityMedium,
	}
	if err := db.Create(goal).Error; err != nil {
		t.Fatalf("failed to create test goal: %v", err)
	}

	for i, done := range completed {
		due := time.Now().AddDate(0, i+1, 0)
		m := models.Milestone{
			GoalID:      goal.ID,
			Title:       fmt.Sprintf("Milestone %d", i+1),
			DueDate:     &due,
			IsCompleted: done,
		}
		if err := db.Create(&m).Error; err != nil {
			t.Fatalf("failed to create test milestone: %v", err)
		}
		goal.Milestones = append(goal.Milestones, m)
	}
	return goal
}

// CreateTestPurchaseRequest creates a purchase request in the given status.
func CreateTestPurchaseRequest(t *testing.T, db *gorm.DB, athleteID string, amount int64, status models.PurchaseStatus) *models.PurchaseRequest {
	t.Helper()

	req := &models.PurchaseRequest{
		AthleteID:     athleteID,
		Category:      "equipment",
		Amount:        decimal.NewFromInt(amount),
		Vendor:        "Test Vendor",
		Justification: "Needed for training",
		Urgency:       models.UrgencyMedium,
		Status:        status,
	}
	if err := db.Create(req).Error; err != nil {
		t.Fatalf("failed to create test purchase request: %v", err)
	}
	return req
}
