package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"crmbackend/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var testSecret = []byte("test-secret")

func signToken(t *testing.T, userID int64, exp time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"exp":     exp.Unix(),
	})
	signed, err := token.SignedString(testSecret)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func gatedEngine(resolve CallerResolver, handlerCalled *bool, roles ...domain.Role) *gin.Engine {
	r := gin.New()
	chain := []gin.HandlerFunc{RequireAuth(testSecret, resolve)}
	if len(roles) > 0 {
		chain = append(chain, RequireRoles(roles...))
	}
	chain = append(chain, func(c *gin.Context) {
		*handlerCalled = true
		c.JSON(http.StatusOK, gin.H{"success": true})
	})
	r.GET("/gated", chain...)
	return r
}

func TestRequireAuthMissingToken(t *testing.T) {
	called := false
	resolverCalls := 0
	r := gatedEngine(func(int64) (domain.Caller, error) {
		resolverCalls++
		return domain.Caller{}, nil
	}, &called)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/gated", nil))

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
	if called {
		t.Fatal("handler must not run after deny")
	}
	if resolverCalls != 0 {
		t.Fatal("resolver must not run without a token")
	}
}

func TestRequireAuthExpiredToken(t *testing.T) {
	called := false
	r := gatedEngine(func(int64) (domain.Caller, error) {
		return domain.Caller{UserID: 1, Role: domain.RoleAdmin}, nil
	}, &called)

	req := httptest.NewRequest(http.MethodGet, "/gated", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, 1, time.Now().Add(-time.Hour)))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
	if called {
		t.Fatal("handler must not run with an expired token")
	}
}

func TestRequireAuthUnknownUser(t *testing.T) {
	called := false
	r := gatedEngine(func(int64) (domain.Caller, error) {
		return domain.Caller{}, domain.NotFoundError{Resource: "user"}
	}, &called)

	req := httptest.NewRequest(http.MethodGet, "/gated", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, 42, time.Now().Add(time.Hour)))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
	if called {
		t.Fatal("handler must not run for an unknown user")
	}
}

func TestRequireAuthAttachesCaller(t *testing.T) {
	want := domain.Caller{UserID: 7, TenantID: "t1", Role: domain.RoleAgent, LocationIDs: []string{"L1"}}

	r := gin.New()
	r.GET("/gated", RequireAuth(testSecret, func(id int64) (domain.Caller, error) {
		if id != 7 {
			t.Fatalf("resolver got user_id %d, want 7", id)
		}
		return want, nil
	}), func(c *gin.Context) {
		got, ok := CallerFrom(c)
		if !ok {
			t.Fatal("caller missing from context")
		}
		if got.UserID != want.UserID || got.TenantID != want.TenantID || got.Role != want.Role {
			t.Fatalf("caller = %+v, want %+v", got, want)
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
	})

	req := httptest.NewRequest(http.MethodGet, "/gated", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, 7, time.Now().Add(time.Hour)))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
}

func TestRequireRolesMismatch(t *testing.T) {
	called := false
	r := gatedEngine(func(int64) (domain.Caller, error) {
		return domain.Caller{UserID: 1, Role: domain.RoleAgent}, nil
	}, &called, domain.RoleAdmin, domain.RoleManager)

	req := httptest.NewRequest(http.MethodGet, "/gated", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, 1, time.Now().Add(time.Hour)))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", w.Code)
	}
	if called {
		t.Fatal("handler must not run after role deny")
	}
}

func TestRequireRolesMatchIsCaseInsensitive(t *testing.T) {
	called := false
	r := gatedEngine(func(int64) (domain.Caller, error) {
		return domain.Caller{UserID: 1, Role: domain.Role(" Admin ")}, nil
	}, &called, domain.RoleAdmin)

	req := httptest.NewRequest(http.MethodGet, "/gated", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, 1, time.Now().Add(time.Hour)))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if !called {
		t.Fatal("handler should run for a matching role")
	}
}
