package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	intconfig "crmbackend/internal/config"
	"crmbackend/internal/domain"
	"crmbackend/internal/http/middleware"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
)

func dashboardUsersEngine(caller domain.Caller) *gin.Engine {
	r := gin.New()
	g := r.Group("/api/dashboard",
		middleware.RequireAuth(handlerTestSecret, stubResolver(caller)),
		middleware.RequireRoles(domain.RoleAdmin, domain.RoleManager))
	g.GET("/users", GetDashboardUsers)
	g.POST("/users", CreateDashboardUser)
	return r
}

func TestManagerUserListNarrowedOverHTTP(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()
	intconfig.DB = db
	defer func() { intconfig.DB = nil }()

	now := time.Now()
	mock.ExpectQuery("AND id IN \\(SELECT user_id FROM team_members WHERE manager_id = \\?\\)").
		WithArgs("t1", int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "tenant_id", "name", "email", "password_hash", "role", "manager_id", "created_at", "updated_at"}).
			AddRow(21, "t1", "Agent One", "a1@x.com", "hash", "agent", 1, now, now))

	manager := domain.Caller{UserID: 1, TenantID: "t1", Role: domain.RoleManager}
	r := dashboardUsersEngine(manager)

	req := httptest.NewRequest(http.MethodGet, "/api/dashboard/users", nil)
	req.Header.Set("Authorization", authHeader(t))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}
	body := decode(t, w)
	data := body["data"].(map[string]any)
	if data["hasMore"] != false {
		t.Fatalf("hasMore = %v, want false", data["hasMore"])
	}
	users := data["users"].([]any)
	if len(users) != 1 {
		t.Fatalf("got %d users, want 1", len(users))
	}
	if users[0].(map[string]any)["role"] != "agent" {
		t.Fatalf("manager list leaked non-agent: %v", users[0])
	}
	// Password hash must never serialize.
	if strings.Contains(w.Body.String(), "hash") {
		t.Fatal("password hash leaked in response")
	}
}

func TestAgentRoleDeniedOnDashboard(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()
	intconfig.DB = db
	defer func() { intconfig.DB = nil }()

	agent := domain.Caller{UserID: 1, TenantID: "t1", Role: domain.RoleAgent}
	r := dashboardUsersEngine(agent)

	req := httptest.NewRequest(http.MethodGet, "/api/dashboard/users", nil)
	req.Header.Set("Authorization", authHeader(t))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", w.Code)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("data layer touched after role deny: %v", err)
	}
}

func TestCreateDashboardUserDuplicateEmail(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()
	intconfig.DB = db
	defer func() { intconfig.DB = nil }()

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM users WHERE tenant_id = \\? AND email = \\?").
		WithArgs("t1", "dupe@x.com").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	admin := domain.Caller{UserID: 1, TenantID: "t1", Role: domain.RoleAdmin}
	r := dashboardUsersEngine(admin)

	payload := `{"name":"Dupe","email":"dupe@x.com","password":"longenough","role":"agent"}`
	req := httptest.NewRequest(http.MethodPost, "/api/dashboard/users", strings.NewReader(payload))
	req.Header.Set("Authorization", authHeader(t))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409: %s", w.Code, w.Body.String())
	}
	// Only the existence check may run; an INSERT would fail the mock.
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unexpected data access: %v", err)
	}
}
