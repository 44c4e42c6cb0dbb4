package services

import (
	"strings"
	"time"

	"crmbackend/internal/domain"
	"crmbackend/internal/domain/models"
	"crmbackend/internal/repositories"
	"crmbackend/internal/utils"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// AuthService issues session tokens and resolves caller context for the
// auth middleware.
type AuthService struct {
	UserRepo  repositories.UserRepository
	Secret    []byte
	TokenTTL  time.Duration
	RequestID string
}

func (s AuthService) ttl() time.Duration {
	if s.TokenTTL > 0 {
		return s.TokenTTL
	}
	return 24 * time.Hour
}

// Login verifies credentials and returns the user with a signed token.
// Wrong email and wrong password are indistinguishable to the caller.
func (s AuthService) Login(email, password string) (models.PublicUser, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return models.PublicUser{}, "", domain.ValidationError{Msg: "email and password are required"}
	}

	user, err := s.UserRepo.FindForLogin(email)
	if err != nil {
		if domain.IsNotFound(err) {
			return models.PublicUser{}, "", domain.UnauthorizedError{Msg: "invalid email or password"}
		}
		return models.PublicUser{}, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return models.PublicUser{}, "", domain.UnauthorizedError{Msg: "invalid email or password"}
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":   user.ID,
		"tenant_id": user.TenantID,
		"role":      string(user.Role),
		"exp":       time.Now().Add(s.ttl()).Unix(),
	})
	signed, err := token.SignedString(s.Secret)
	if err != nil {
		return models.PublicUser{}, "", domain.InternalError{Err: err}
	}

	utils.LogEvent(s.RequestID, "auth", "login", "user_id="+itoa(user.ID))
	return user.ToPublic(), signed, nil
}

// ResolveCaller loads the tenant/role/location context for an
// authenticated user id. Used by the RequireAuth middleware.
func (s AuthService) ResolveCaller(userID int64) (domain.Caller, error) {
	user, err := s.UserRepo.GetByID(userID)
	if err != nil {
		return domain.Caller{}, err
	}
	role, err := domain.ParseRole(string(user.Role))
	if err != nil {
		return domain.Caller{}, err
	}
	return domain.Caller{
		UserID:      user.ID,
		TenantID:    user.TenantID,
		Role:        role,
		LocationIDs: user.LocationIDs,
	}, nil
}

// HashPassword is the single place bcrypt cost is chosen.
func HashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", domain.InternalError{Err: err}
	}
	return string(hash), nil
}
