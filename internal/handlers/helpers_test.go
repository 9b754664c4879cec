package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"

	"sportfund/internal/middleware"
	"sportfund/internal/models"
	"sportfund/internal/pagination"
	"sportfund/internal/services"
	"sportfund/internal/validator"
)

const (
	testUserID    = "0192a3b4-0000-7000-8000-0000000000aa"
	testAthleteID = "0192a3b4-0000-7000-8000-000000000001"
	testGoalID    = "0192a3b4-0000-7000-8000-000000000002"
	testItemID    = "0192a3b4-0000-7000-8000-000000000003"
)

// --- mock audit service ---

type mockAuditService struct {
	mu      sync.Mutex
	entries []services.AuditEntry

	listFn func(ctx context.Context, filter services.AuditFilter, page pagination.PageRequest) (*pagination.PageResponse[models.AuditLog], error)
}

func (m *mockAuditService) Record(_ context.Context, entry services.AuditEntry) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, entry)
}

func (m *mockAuditService) List(ctx context.Context, filter services.AuditFilter, page pagination.PageRequest) (*pagination.PageResponse[models.AuditLog], error) {
	if m.listFn != nil {
		return m.listFn(ctx, filter, page)
	}
	return nil, nil
}

// --- test helpers ---

func init() {
	gin.SetMode(gin.TestMode)
	validator.Register()
}

func injectUser(uid string, role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ContextUserID, uid)
		c.Set(middleware.ContextRole, role)
		c.Next()
	}
}

func doRequest(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON response: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

func assertErrorCode(t *testing.T, result map[string]interface{}, code string) {
	t.Helper()
	errObj, ok := result["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected error object in response, got: %v", result)
	}
	if errObj["code"] != code {
		t.Errorf("expected error code %q, got %q", code, errObj["code"])
	}
}

func TestParsePathID(t *testing.T) {
	r := gin.New()
	r.GET("/things/:id", func(c *gin.Context) {
		id, err := parsePathID(c, "id")
		if err != nil {
			respondWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": id})
	})

	t.Run("accepts_uuid", func(t *testing.T) {
		rec := doRequest(r, "GET", "/things/"+testAthleteID, "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if parseJSON(t, rec)["id"] != testAthleteID {
			t.Error("expected id to be echoed")
		}
	})

	t.Run("rejects_non_uuid", func(t *testing.T) {
		rec := doRequest(r, "GET", "/things/7", "")
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})
}

func TestGetUserID(t *testing.T) {
	r := gin.New()
	r.GET("/anon", func(c *gin.Context) {
		if _, err := getUserID(c); err != nil {
			respondWithError(c, err)
			return
		}
		c.Status(http.StatusOK)
	})

	rec := doRequest(r, "GET", "/anon", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	assertErrorCode(t, parseJSON(t, rec), "UNAUTHORIZED")
}
