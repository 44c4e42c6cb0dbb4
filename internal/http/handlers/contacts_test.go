package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	intconfig "crmbackend/internal/config"
	"crmbackend/internal/domain"
	"crmbackend/internal/http/middleware"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var handlerTestSecret = []byte("handler-test-secret")

// authHeader signs a token for user 1; tests stub the resolver with a
// fixed caller so no DB round-trip happens during authentication.
func authHeader(t *testing.T) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": 1,
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString(handlerTestSecret)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return "Bearer " + signed
}

func stubResolver(caller domain.Caller) middleware.CallerResolver {
	return func(int64) (domain.Caller, error) { return caller, nil }
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("bad json: %v", err)
	}
	return body
}

func TestContactByEmailRequiresEmailParam(t *testing.T) {
	r := gin.New()
	r.GET("/api/contacts/by-email", GetContactByEmail)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/contacts/by-email?location_id=L1", nil))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	body := decode(t, w)
	errObj := body["error"].(map[string]any)
	if errObj["message"] != "Email parameter is required" {
		t.Fatalf("message = %v", errObj["message"])
	}
}

func TestContactByEmailReturnsTrimmedProjection(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()
	intconfig.DB = db
	defer func() { intconfig.DB = nil }()

	now := time.Now()
	mock.ExpectQuery("SELECT .+ FROM contacts WHERE location_id = \\? AND email = \\? LIMIT 1").
		WithArgs("L1", "alice@x.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "location_id", "first_name", "last_name", "email", "phone", "tags", "created_at", "updated_at"}).
			AddRow(5, "L1", "Alice", "Smith", "alice@x.com", "0800", "vip,lead", now, now))

	r := gin.New()
	r.GET("/api/contacts/by-email", GetContactByEmail)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/contacts/by-email?location_id=L1&email=Alice@x.com", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}
	body := decode(t, w)
	data := body["data"].(map[string]any)
	if data["email"] != "alice@x.com" {
		t.Fatalf("email = %v", data["email"])
	}
	// Public projection must not leak tags or timestamps.
	if _, ok := data["tags"]; ok {
		t.Fatal("public lookup leaked tags")
	}
	if _, ok := data["created_at"]; ok {
		t.Fatal("public lookup leaked timestamps")
	}
}

func TestGateDenyPrecedesDataAccess(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()
	intconfig.DB = db
	defer func() { intconfig.DB = nil }()

	r := gin.New()
	r.GET("/api/contacts",
		middleware.RequireAuth(handlerTestSecret, stubResolver(domain.Caller{})),
		GetContacts)

	// No Authorization header at all.
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/contacts?location_id=L1", nil))

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
	// The mock has zero expectations: any data-layer call would have failed
	// it. Deny must short-circuit before the repository is touched.
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("data layer was touched on a denied request: %v", err)
	}
}

func TestLocationScopeDenyPrecedesDataAccess(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()
	intconfig.DB = db
	defer func() { intconfig.DB = nil }()

	agent := domain.Caller{UserID: 1, TenantID: "t1", Role: domain.RoleAgent, LocationIDs: []string{"L1"}}

	r := gin.New()
	r.GET("/api/contacts",
		middleware.RequireAuth(handlerTestSecret, stubResolver(agent)),
		GetContacts)

	req := httptest.NewRequest(http.MethodGet, "/api/contacts?location_id=L2", nil)
	req.Header.Set("Authorization", authHeader(t))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", w.Code)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("data layer was touched on a denied request: %v", err)
	}
}

func TestContactListEnvelopeAndMeta(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()
	intconfig.DB = db
	defer func() { intconfig.DB = nil }()

	now := time.Now()
	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM contacts WHERE location_id = \\?").
		WithArgs("L1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery("SELECT .+ FROM contacts WHERE location_id = \\? ORDER BY id DESC LIMIT \\? OFFSET \\?").
		WithArgs("L1", 20, 0).
		WillReturnRows(sqlmock.NewRows([]string{"id", "location_id", "first_name", "last_name", "email", "phone", "tags", "created_at", "updated_at"}).
			AddRow(5, "L1", "Alice", "Smith", "alice@x.com", "0800", "", now, now))

	agent := domain.Caller{UserID: 1, TenantID: "t1", Role: domain.RoleAgent, LocationIDs: []string{"L1"}}

	r := gin.New()
	r.GET("/api/contacts",
		middleware.RequireAuth(handlerTestSecret, stubResolver(agent)),
		GetContacts)

	req := httptest.NewRequest(http.MethodGet, "/api/contacts?location_id=L1", nil)
	req.Header.Set("Authorization", authHeader(t))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}
	body := decode(t, w)
	if body["success"] != true {
		t.Fatalf("success = %v", body["success"])
	}
	meta := body["meta"].(map[string]any)
	if meta["page"] != float64(1) || meta["limit"] != float64(20) || meta["total"] != float64(1) {
		t.Fatalf("meta = %v", meta)
	}
	if _, ok := body["error"]; ok {
		t.Fatal("success response must not carry error")
	}
}
