package testutil_test

import (
	"testing"

	"sportfund/internal/errors"
	"sportfund/internal/models"
	"sportfund/internal/testutil"
)

func TestSetupTestDB(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	// Verify all tables exist by doing a simple count query on each model.
	var count int64
	for _, table := range []string{
		"users", "athletes", "athlete_updates", "career_goals", "milestones",
		"purchase_requests", "investments", "audit_logs", "social_media",
		"basketball_stats", "track_and_field_stats",
	} {
		if err := db.Table(table).Count(&count).Error; err != nil {
			t.Errorf("table %q should exist after migration: %v", table, err)
		}
	}
}

func TestSetupTestDB_Isolated(t *testing.T) {
	first := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, first)
	second := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, second)

	testutil.CreateTestUser(t, first)

	var count int64
	second.Model(&models.User{}).Count(&count)
	if count != 0 {
		t.Errorf("expected second database to be empty, got %d users", count)
	}
}

func TestFixtures(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	athlete := testutil.CreateTestAthlete(t, db, "basketball")
	if athlete.ID == "" {
		t.Fatal("athlete should have an ID")
	}
	if athlete.User.ID == "" || athlete.UserID != athlete.User.ID {
		t.Error("athlete should carry its user")
	}

	investor := testutil.CreateTestInvestor(t, db)
	if investor.Role != models.RoleInvestor {
		t.Errorf("expected investor role, got %s", investor.Role)
	}

	inv := testutil.CreateTestInvestment(t, db, investor.ID, athlete.ID, 250)
	if inv.Amount.IntPart() != 250 {
		t.Errorf("expected amount 250, got %s", inv.Amount)
	}

	goal := testutil.CreateTestGoal(t, db, athlete.ID, true, false)
	if len(goal.Milestones) != 2 {
		t.Fatalf("expected 2 milestones, got %d", len(goal.Milestones))
	}
	if !goal.Milestones[0].IsCompleted || goal.Milestones[1].IsCompleted {
		t.Error("milestone completion flags not applied")
	}

	req := testutil.CreateTestPurchaseRequest(t, db, athlete.ID, 500, models.PurchaseStatusPending)
	if req.Status != models.PurchaseStatusPending {
		t.Errorf("expected pending status, got %s", req.Status)
	}
}

func TestAssertions(t *testing.T) {
	testutil.AssertAppError(t, errors.ErrNotFound, "NOT_FOUND")
	testutil.AssertAppError(t, errors.Wrap(errors.ErrAthleteNotFound, nil), "ATHLETE_NOT_FOUND")
	testutil.AssertNoError(t, nil)
}
