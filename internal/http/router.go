package api

import (
	"log"
	stdhttp "net/http"

	intconfig "crmbackend/internal/config"
	"crmbackend/internal/domain"
	h "crmbackend/internal/http/handlers"
	"crmbackend/internal/http/middleware"
	"crmbackend/internal/repositories"
	"crmbackend/internal/services"

	"github.com/gin-gonic/gin"
)

func NewRouter(env intconfig.Env) *gin.Engine {
	secret := []byte(env.JWTSecret)
	h.SetAuthSecret(secret)

	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(), gin.Recovery(), middleware.CORS(env.AllowedOrigins))

	if err := r.SetTrustedProxies(nil); err != nil {
		log.Printf("warning: failed to set trusted proxies: %v", err)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(stdhttp.StatusNotFound, gin.H{
			"success": false,
			"error":   gin.H{"message": "route not found"},
			"path":    c.Request.URL.Path,
			"method":  c.Request.Method,
		})
	})

	resolveCaller := func(userID int64) (domain.Caller, error) {
		svc := services.AuthService{UserRepo: repositories.UserRepository{}}
		return svc.ResolveCaller(userID)
	}

	api := r.Group("/api")
	{
		api.GET("/health", h.Health)
		api.GET("/db-check", h.DBCheck)

		// Auth
		auth := api.Group("/auth")
		auth.POST("/login", h.Login)

		// Public contact lookups (widget API, intentionally ungated)
		api.GET("/contacts/by-email", h.GetContactByEmail)
		api.GET("/contacts/by-phone", h.GetContactByPhone)

		// Everything below requires an authenticated caller.
		authed := api.Group("", middleware.RequireAuth(secret, resolveCaller))

		// Contacts
		contacts := authed.Group("/contacts")
		contacts.GET("", h.GetContacts)
		contacts.GET("/:id", h.GetContactByID)
		contacts.POST("", h.CreateContact)
		contacts.PUT("/:id", h.UpdateContact)
		contacts.DELETE("/:id", h.DeleteContact)

		// Conversations
		conversations := authed.Group("/conversations")
		conversations.GET("", h.GetConversations)
		conversations.GET("/:id", h.GetConversationByID)
		conversations.PUT("/:id/read", h.MarkConversationRead)

		// Opportunities
		opportunities := authed.Group("/opportunities")
		opportunities.GET("", h.GetOpportunities)
		opportunities.GET("/summary", h.GetOpportunitySummary)
		opportunities.GET("/:id", h.GetOpportunityByID)
		opportunities.POST("", h.CreateOpportunity)
		opportunities.PUT("/:id", h.UpdateOpportunity)
		opportunities.DELETE("/:id", h.DeleteOpportunity)

		// Products
		products := authed.Group("/products")
		products.GET("", h.GetProducts)
		products.GET("/:id", h.GetProductByID)
		products.POST("", h.CreateProduct)
		products.PUT("/:id", h.UpdateProduct)
		products.DELETE("/:id", h.DeleteProduct)

		// Sync status
		sync := authed.Group("/sync")
		sync.GET("/status", h.GetSyncStatus)
		sync.POST("/status", middleware.RequireRoles(domain.RoleAdmin), h.UpsertSyncStatus)

		// Reports
		reports := authed.Group("/reports", middleware.RequireRoles(domain.RoleAdmin, domain.RoleManager))
		reports.GET("/opportunities/pdf", h.GetOpportunityReportPDF)

		// Dashboard user management
		dashboard := authed.Group("/dashboard", middleware.RequireRoles(domain.RoleAdmin, domain.RoleManager))
		users := dashboard.Group("/users")
		users.GET("", h.GetDashboardUsers)
		users.GET("/:id", h.GetDashboardUserByID)
		users.POST("", h.CreateDashboardUser)
		users.PUT("/:id", h.UpdateDashboardUser)
		users.DELETE("/:id", h.DeleteDashboardUser)
	}

	return r
}
