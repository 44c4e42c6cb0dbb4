package handlers

import (
	"crmbackend/internal/http/middleware"
	"crmbackend/internal/http/respond"
	"crmbackend/internal/repositories"
	"crmbackend/internal/services"

	"github.com/gin-gonic/gin"
)

var jwtSecret = []byte("dev-secret-change-me")

// SetAuthSecret wires the signing secret from config at router build time.
func SetAuthSecret(secret []byte) {
	if len(secret) > 0 {
		jwtSecret = secret
	}
}

func authService(c *gin.Context) services.AuthService {
	return services.AuthService{
		UserRepo:  repositories.UserRepository{},
		Secret:    jwtSecret,
		RequestID: middleware.GetRequestID(c),
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// POST /api/auth/login
func Login(c *gin.Context) {
	var req loginRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	svc := authService(c)
	user, token, err := svc.Login(req.Email, req.Password)
	if err != nil {
		respond.DomainError(c, err)
		return
	}

	respond.OK(c, gin.H{"token": token, "user": user})
}
