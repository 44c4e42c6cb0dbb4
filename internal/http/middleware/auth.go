package middleware

import (
	"strings"

	"crmbackend/internal/domain"
	"crmbackend/internal/http/respond"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const callerKey = "caller"

// CallerResolver loads the full caller context (tenant, role, assigned
// locations) for an authenticated user id. Backed by the user repository in
// production; stubbed in tests.
type CallerResolver func(userID int64) (domain.Caller, error)

// RequireAuth is the authentication checkpoint. It verifies the bearer
// token, resolves the caller, and attaches it to the request context.
// Any failure is a terminal 401: no handler code runs afterwards, so denied
// requests never reach parsing or the data layer.
func RequireAuth(secret []byte, resolve CallerResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			respond.Error(c, 401, "missing bearer token")
			return
		}
		raw := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))

		token, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return secret, nil
		})
		if err != nil || !token.Valid {
			respond.Error(c, 401, "invalid or expired token")
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			respond.Error(c, 401, "invalid token claims")
			return
		}
		rawID, ok := claims["user_id"].(float64)
		if !ok || rawID <= 0 {
			respond.Error(c, 401, "invalid token claims")
			return
		}

		caller, err := resolve(int64(rawID))
		if err != nil {
			respond.Error(c, 401, "unknown user")
			return
		}

		c.Set(callerKey, caller)
		c.Next()
	}
}

// RequireRoles is the authorization checkpoint, run after RequireAuth.
// Role match is case/space-insensitive. Mismatch is a terminal 403.
func RequireRoles(allowedRoles ...domain.Role) gin.HandlerFunc {
	allowed := make(map[domain.Role]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[domain.Role(strings.ToLower(strings.TrimSpace(string(r))))] = struct{}{}
	}

	return func(c *gin.Context) {
		caller, ok := CallerFrom(c)
		if !ok {
			respond.Error(c, 401, "no caller on context")
			return
		}

		role := domain.Role(strings.ToLower(strings.TrimSpace(string(caller.Role))))
		if _, ok := allowed[role]; !ok {
			respond.Error(c, 403, "role not allowed")
			return
		}

		c.Next()
	}
}

// CallerFrom extracts the authenticated caller set by RequireAuth.
func CallerFrom(c *gin.Context) (domain.Caller, bool) {
	v, ok := c.Get(callerKey)
	if !ok {
		return domain.Caller{}, false
	}
	caller, ok := v.(domain.Caller)
	return caller, ok
}
