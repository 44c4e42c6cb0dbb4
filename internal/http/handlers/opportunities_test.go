package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	intconfig "crmbackend/internal/config"
	"crmbackend/internal/domain"
	"crmbackend/internal/http/middleware"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
)

func opportunityCols() []string {
	return []string{"id", "location_id", "contact_id", "name", "status", "monetary_value", "created_at", "updated_at"}
}

func TestOpportunityStatusFilterUsesScopedLookup(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()
	intconfig.DB = db
	defer func() { intconfig.DB = nil }()

	now := time.Now()
	// Both queries must carry the status predicate: the generic list path
	// is never taken when a status filter is present.
	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM opportunities WHERE location_id = \\? AND status = \\?").
		WithArgs("L1", "won").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))
	mock.ExpectQuery("SELECT .+ FROM opportunities WHERE location_id = \\? AND status = \\? ORDER BY id DESC LIMIT \\? OFFSET \\?").
		WithArgs("L1", "won", 5, 0).
		WillReturnRows(sqlmock.NewRows(opportunityCols()).
			AddRow(3, "L1", 5, "Big Deal", "won", 250000, now, now))

	admin := domain.Caller{UserID: 1, TenantID: "t1", Role: domain.RoleAdmin}

	r := gin.New()
	r.GET("/api/opportunities",
		middleware.RequireAuth(handlerTestSecret, stubResolver(admin)),
		GetOpportunities)

	req := httptest.NewRequest(http.MethodGet, "/api/opportunities?location_id=L1&status=won&limit=5", nil)
	req.Header.Set("Authorization", authHeader(t))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}
	body := decode(t, w)
	meta := body["meta"].(map[string]any)
	if meta["page"] != float64(1) || meta["limit"] != float64(5) || meta["total"] != float64(7) {
		t.Fatalf("meta does not echo request: %v", meta)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestOpportunityUnknownStatusRejected(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()
	intconfig.DB = db
	defer func() { intconfig.DB = nil }()

	admin := domain.Caller{UserID: 1, TenantID: "t1", Role: domain.RoleAdmin}

	r := gin.New()
	r.GET("/api/opportunities",
		middleware.RequireAuth(handlerTestSecret, stubResolver(admin)),
		GetOpportunities)

	req := httptest.NewRequest(http.MethodGet, "/api/opportunities?location_id=L1&status=everything", nil)
	req.Header.Set("Authorization", authHeader(t))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	// An unrecognized status is a validation failure, not a pass-through.
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("data layer touched for invalid status: %v", err)
	}
}

func TestDeleteOpportunityAcknowledgement(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()
	intconfig.DB = db
	defer func() { intconfig.DB = nil }()

	mock.ExpectExec("DELETE FROM opportunities WHERE location_id = \\? AND id = \\?").
		WithArgs("L1", int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	admin := domain.Caller{UserID: 1, TenantID: "t1", Role: domain.RoleAdmin}

	r := gin.New()
	r.DELETE("/api/opportunities/:id",
		middleware.RequireAuth(handlerTestSecret, stubResolver(admin)),
		DeleteOpportunity)

	req := httptest.NewRequest(http.MethodDelete, "/api/opportunities/3?location_id=L1", nil)
	req.Header.Set("Authorization", authHeader(t))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}
	body := decode(t, w)
	data := body["data"].(map[string]any)
	if data["id"] != float64(3) || data["deleted"] != true {
		t.Fatalf("delete ack = %v", data)
	}
}

func TestDeleteOpportunityTwiceIsNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()
	intconfig.DB = db
	defer func() { intconfig.DB = nil }()

	mock.ExpectExec("DELETE FROM opportunities").
		WillReturnResult(sqlmock.NewResult(0, 0))

	admin := domain.Caller{UserID: 1, TenantID: "t1", Role: domain.RoleAdmin}

	r := gin.New()
	r.DELETE("/api/opportunities/:id",
		middleware.RequireAuth(handlerTestSecret, stubResolver(admin)),
		DeleteOpportunity)

	req := httptest.NewRequest(http.MethodDelete, "/api/opportunities/3?location_id=L1", nil)
	req.Header.Set("Authorization", authHeader(t))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
}
