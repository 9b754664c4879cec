package services

import (
	"context"
	"testing"

	"sportfund/internal/models"
	"sportfund/internal/pagination"
	"sportfund/internal/testutil"
)

func TestAuditService_Record(t *testing.T) {
	ctx := context.Background()

	t.Run("stores_entry_with_json_changes", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAuditService(db)
		admin := testutil.CreateTestUserWithName(t, db, "Ada", "Admin", models.RoleAdmin)
		athlete := testutil.CreateTestAthlete(t, db, "soccer")
		req := testutil.CreateTestPurchaseRequest(t, db, athlete.ID, 100, models.PurchaseStatusPending)

		svc.Record(ctx, AuditEntry{
			UserID:       admin.ID,
			Action:       AuditActionUpdatePurchaseStatus,
			ResourceType: AuditResourcePurchaseRequest,
			ResourceID:   req.ID,
			IPAddress:    "127.0.0.1",
			Changes:      map[string]any{"status": "approved"},
		})

		var entry models.AuditLog
		if err := db.First(&entry).Error; err != nil {
			t.Fatalf("expected audit log entry: %v", err)
		}
		if entry.Action != AuditActionUpdatePurchaseStatus || entry.UserID != admin.ID {
			t.Errorf("unexpected entry %+v", entry)
		}
		if entry.ResourceID == nil || *entry.ResourceID != req.ID {
			t.Errorf("expected resource id %s, got %v", req.ID, entry.ResourceID)
		}
		if string(entry.Changes) != `{"status":"approved"}` {
			t.Errorf("unexpected changes %s", entry.Changes)
		}
	})

	t.Run("empty_resource_and_changes", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAuditService(db)
		admin := testutil.CreateTestUserWithName(t, db, "Ada", "Admin", models.RoleAdmin)

		svc.Record(ctx, AuditEntry{UserID: admin.ID, Action: "EXPORT", ResourceType: "report"})

		var entry models.AuditLog
		if err := db.First(&entry).Error; err != nil {
			t.Fatalf("expected audit log entry: %v", err)
		}
		if entry.ResourceID != nil {
			t.Errorf("expected nil resource id, got %q", *entry.ResourceID)
		}
		if string(entry.Changes) != "{}" {
			t.Errorf("expected empty JSON object, got %s", entry.Changes)
		}
	})
}

func TestAuditService_List(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewAuditService(db)
	admin := testutil.CreateTestUserWithName(t, db, "Ada", "Admin", models.RoleAdmin)
	investor := testutil.CreateTestInvestor(t, db)
	athlete := testutil.CreateTestAthlete(t, db, "golf")
	first := testutil.CreateTestPurchaseRequest(t, db, athlete.ID, 100, models.PurchaseStatusPending)
	second := testutil.CreateTestPurchaseRequest(t, db, athlete.ID, 200, models.PurchaseStatusPending)
	goal := testutil.CreateTestGoal(t, db, athlete.ID)

	svc.Record(ctx, AuditEntry{UserID: admin.ID, Action: AuditActionUpdatePurchaseStatus, ResourceType: AuditResourcePurchaseRequest, ResourceID: first.ID})
	svc.Record(ctx, AuditEntry{UserID: admin.ID, Action: AuditActionUpdatePurchaseStatus, ResourceType: AuditResourcePurchaseRequest, ResourceID: second.ID})
	svc.Record(ctx, AuditEntry{UserID: admin.ID, Action: AuditActionDeleteCareerGoal, ResourceType: AuditResourceCareerGoal, ResourceID: goal.ID})
	svc.Record(ctx, AuditEntry{UserID: investor.ID, Action: AuditActionCreateInvestment, ResourceType: AuditResourceInvestment})

	t.Run("all_newest_first", func(t *testing.T) {
		page, err := svc.List(ctx, AuditFilter{}, pagination.PageRequest{})
		testutil.AssertNoError(t, err)
		if page.TotalItems != 4 {
			t.Fatalf("expected 4 entries, got %d", page.TotalItems)
		}
		if page.Data[0].Action != AuditActionCreateInvestment {
			t.Errorf("expected newest entry first, got %s", page.Data[0].Action)
		}
	})

	t.Run("by_actor", func(t *testing.T) {
		page, err := svc.List(ctx, AuditFilter{UserID: investor.ID}, pagination.PageRequest{})
		testutil.AssertNoError(t, err)
		if page.TotalItems != 1 {
			t.Errorf("expected 1 entry, got %d", page.TotalItems)
		}
	})

	t.Run("by_resource", func(t *testing.T) {
		page, err := svc.List(ctx, AuditFilter{ResourceType: AuditResourcePurchaseRequest, ResourceID: second.ID}, pagination.PageRequest{})
		testutil.AssertNoError(t, err)
		if page.TotalItems != 1 || *page.Data[0].ResourceID != second.ID {
			t.Errorf("unexpected page %+v", page)
		}
	})

	t.Run("by_action_paginated", func(t *testing.T) {
		page, err := svc.List(ctx, AuditFilter{Action: AuditActionUpdatePurchaseStatus}, pagination.PageRequest{Page: 1, PageSize: 1})
		testutil.AssertNoError(t, err)
		if page.TotalItems != 2 || len(page.Data) != 1 || !page.HasNext {
			t.Errorf("unexpected page %+v", page)
		}
		if *page.Data[0].ResourceID != second.ID {
			t.Errorf("expected latest review first")
		}
	})
}
