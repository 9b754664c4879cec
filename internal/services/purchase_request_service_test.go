package services

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"sportfund/internal/models"
	"sportfund/internal/pagination"
	"sportfund/internal/testutil"
)

func TestCreatePurchaseRequest(t *testing.T) {
	ctx := context.Background()

	t.Run("starts_pending", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewPurchaseRequestService(db, NewAthleteFeedService(db), nil)
		athlete := testutil.CreateTestAthlete(t, db, "tennis")

		req, err := svc.CreateRequest(ctx, athlete.ID, PurchaseRequestInput{
			Category: "equipment",
			Amount:   decimal.RequireFromString("249.99"),
			Vendor:   "Racquet Shop",
		})
		testutil.AssertNoError(t, err)
		if req.Status != models.PurchaseStatusPending || req.Urgency != models.UrgencyMedium {
			t.Errorf("unexpected request %+v", req)
		}
		if n := countFeed(t, db, athlete.ID, FeedTitlePurchaseRequested); n != 1 {
			t.Errorf("expected 1 feed event, got %d", n)
		}
	})

	t.Run("rejects_non_positive_amount", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewPurchaseRequestService(db, NewAthleteFeedService(db), nil)
		athlete := testutil.CreateTestAthlete(t, db, "tennis")

		_, err := svc.CreateRequest(ctx, athlete.ID, PurchaseRequestInput{Category: "travel", Amount: decimal.Zero})
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestListPurchaseRequests(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewPurchaseRequestService(db, NewAthleteFeedService(db), nil)
	athlete := testutil.CreateTestAthlete(t, db, "tennis")
	testutil.CreateTestPurchaseRequest(t, db, athlete.ID, 100, models.PurchaseStatusPending)
	testutil.CreateTestPurchaseRequest(t, db, athlete.ID, 200, models.PurchaseStatusApproved)
	testutil.CreateTestPurchaseRequest(t, db, athlete.ID, 300, models.PurchaseStatusPending)

	t.Run("all", func(t *testing.T) {
		page, err := svc.ListRequests(ctx, athlete.ID, nil, pagination.PageRequest{})
		testutil.AssertNoError(t, err)
		if page.TotalItems != 3 {
			t.Errorf("expected 3 requests, got %d", page.TotalItems)
		}
	})

	t.Run("by_status", func(t *testing.T) {
		status := models.PurchaseStatusPending
		page, err := svc.ListRequests(ctx, athlete.ID, &status, pagination.PageRequest{Page: 1, PageSize: 1})
		testutil.AssertNoError(t, err)
		if page.TotalItems != 2 || page.TotalPages != 2 || len(page.Data) != 1 {
			t.Errorf("unexpected page %+v", page)
		}
		if !page.Data[0].Amount.Equal(decimal.NewFromInt(300)) {
			t.Errorf("expected newest request first, got %s", page.Data[0].Amount)
		}
	})
}

func TestPurchaseOverview(t *testing.T) {
	ctx := context.Background()

	t.Run("sums_by_status", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewPurchaseRequestService(db, NewAthleteFeedService(db), nil)
		athlete := testutil.CreateTestAthlete(t, db, "tennis")
		other := testutil.CreateTestAthlete(t, db, "tennis")

		testutil.CreateTestPurchaseRequest(t, db, athlete.ID, 100, models.PurchaseStatusPending)
		testutil.CreateTestPurchaseRequest(t, db, athlete.ID, 200, models.PurchaseStatusUnderReview)
		testutil.CreateTestPurchaseRequest(t, db, athlete.ID, 400, models.PurchaseStatusApproved)
		testutil.CreateTestPurchaseRequest(t, db, athlete.ID, 800, models.PurchaseStatusRejected)
		deleted := testutil.CreateTestPurchaseRequest(t, db, athlete.ID, 1600, models.PurchaseStatusApproved)
		db.Delete(deleted)
		testutil.CreateTestPurchaseRequest(t, db, other.ID, 3200, models.PurchaseStatusApproved)

		overview, err := svc.GetOverview(ctx, athlete.ID)
		testutil.AssertNoError(t, err)
		testutil.AssertAmount(t, overview.TotalRequestedAmount, "1500")
		testutil.AssertAmount(t, overview.TotalApprovedAmount, "400")
		testutil.AssertAmount(t, overview.TotalPendingReviewAmount, "300")
	})

	t.Run("no_requests", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewPurchaseRequestService(db, NewAthleteFeedService(db), nil)

		overview, err := svc.GetOverview(ctx, "nobody")
		testutil.AssertNoError(t, err)
		if !overview.TotalRequestedAmount.IsZero() || !overview.TotalApprovedAmount.IsZero() || !overview.TotalPendingReviewAmount.IsZero() {
			t.Errorf("expected zero overview, got %+v", overview)
		}
	})
}

func TestBulkUpdateStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("skips_missing_ids", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewPurchaseRequestService(db, NewAthleteFeedService(db), nil)
		athlete := testutil.CreateTestAthlete(t, db, "tennis")
		admin := testutil.CreateTestUserWithName(t, db, "Ada", "Admin", models.RoleAdmin)
		req := testutil.CreateTestPurchaseRequest(t, db, athlete.ID, 100, models.PurchaseStatusPending)

		result, err := svc.BulkUpdateStatus(ctx, []string{req.ID, "missing"}, models.PurchaseStatusApproved, "ok", admin.ID)
		testutil.AssertNoError(t, err)
		if result.Updated != 1 || len(result.Requests) != 1 {
			t.Fatalf("expected 1 updated request, got %+v", result)
		}

		var stored models.PurchaseRequest
		db.First(&stored, "id = ?", req.ID)
		if stored.Status != models.PurchaseStatusApproved || stored.AdminNote != "ok" {
			t.Errorf("unexpected stored request %+v", stored)
		}
		if stored.ReviewedOn == nil || stored.ApprovedBy == nil || *stored.ApprovedBy != admin.ID {
			t.Error("expected review fields set")
		}
		if n := countFeed(t, db, athlete.ID, FeedTitlePurchaseReviewed); n != 1 {
			t.Errorf("expected 1 feed event, got %d", n)
		}
	})

	t.Run("duplicate_ids_counted_once", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewPurchaseRequestService(db, NewAthleteFeedService(db), nil)
		athlete := testutil.CreateTestAthlete(t, db, "tennis")
		admin := testutil.CreateTestUserWithName(t, db, "Ada", "Admin", models.RoleAdmin)
		req := testutil.CreateTestPurchaseRequest(t, db, athlete.ID, 100, models.PurchaseStatusPending)
		other := testutil.CreateTestPurchaseRequest(t, db, athlete.ID, 50, models.PurchaseStatusPending)

		ids := []string{req.ID, req.ID, other.ID, req.ID}
		result, err := svc.BulkUpdateStatus(ctx, ids, models.PurchaseStatusApproved, "", admin.ID)
		testutil.AssertNoError(t, err)
		if result.Updated != 2 || len(result.Requests) != 2 {
			t.Fatalf("expected 2 distinct updated requests, got %+v", result)
		}
		if result.Requests[0].ID != req.ID || result.Requests[1].ID != other.ID {
			t.Errorf("expected first-seen order, got %s, %s", result.Requests[0].ID, result.Requests[1].ID)
		}
		if n := countFeed(t, db, athlete.ID, FeedTitlePurchaseReviewed); n != 2 {
			t.Errorf("expected 2 feed events, got %d", n)
		}
	})

	t.Run("rejects_unknown_status", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewPurchaseRequestService(db, NewAthleteFeedService(db), nil)
		athlete := testutil.CreateTestAthlete(t, db, "tennis")
		req := testutil.CreateTestPurchaseRequest(t, db, athlete.ID, 100, models.PurchaseStatusPending)

		_, err := svc.BulkUpdateStatus(ctx, []string{req.ID}, "shipped", "", "")
		testutil.AssertAppError(t, err, "INVALID_PURCHASE_STATUS")
	})

	t.Run("empty_ids", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewPurchaseRequestService(db, NewAthleteFeedService(db), nil)

		result, err := svc.BulkUpdateStatus(ctx, nil, models.PurchaseStatusRejected, "", "")
		testutil.AssertNoError(t, err)
		if result.Updated != 0 || result.Requests == nil {
			t.Errorf("expected empty result, got %+v", result)
		}
	})
}

func TestUpdatePurchaseStatus(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewPurchaseRequestService(db, NewAthleteFeedService(db), nil)
	athlete := testutil.CreateTestAthlete(t, db, "tennis")
	req := testutil.CreateTestPurchaseRequest(t, db, athlete.ID, 100, models.PurchaseStatusPending)

	t.Run("moves_to_under_review", func(t *testing.T) {
		updated, err := svc.UpdateStatus(ctx, req.ID, models.PurchaseStatusUnderReview, "checking", "")
		testutil.AssertNoError(t, err)
		if updated.Status != models.PurchaseStatusUnderReview || updated.ReviewedOn == nil {
			t.Errorf("unexpected request %+v", updated)
		}
	})

	t.Run("not_found", func(t *testing.T) {
		_, err := svc.UpdateStatus(ctx, "missing", models.PurchaseStatusApproved, "", "")
		testutil.AssertAppError(t, err, "PURCHASE_REQUEST_NOT_FOUND")
	})
}

func TestCountPending(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewPurchaseRequestService(db, NewAthleteFeedService(db), nil)
	athlete := testutil.CreateTestAthlete(t, db, "tennis")
	other := testutil.CreateTestAthlete(t, db, "tennis")

	testutil.CreateTestPurchaseRequest(t, db, athlete.ID, 100, models.PurchaseStatusPending)
	testutil.CreateTestPurchaseRequest(t, db, athlete.ID, 100, models.PurchaseStatusUnderReview)
	testutil.CreateTestPurchaseRequest(t, db, athlete.ID, 100, models.PurchaseStatusApproved)
	deleted := testutil.CreateTestPurchaseRequest(t, db, athlete.ID, 100, models.PurchaseStatusPending)
	db.Delete(deleted)
	testutil.CreateTestPurchaseRequest(t, db, other.ID, 100, models.PurchaseStatusPending)

	t.Run("scoped_to_athlete", func(t *testing.T) {
		count, err := svc.CountPending(ctx, &athlete.ID)
		testutil.AssertNoError(t, err)
		if count != 1 {
			t.Errorf("expected 1 pending, got %d", count)
		}
	})

	t.Run("all_athletes", func(t *testing.T) {
		count, err := svc.CountPending(ctx, nil)
		testutil.AssertNoError(t, err)
		if count != 2 {
			t.Errorf("expected 2 pending, got %d", count)
		}
	})
}
