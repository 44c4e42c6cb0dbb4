package handlers

import (
	"crmbackend/internal/http/middleware"
	"crmbackend/internal/http/query"
	"crmbackend/internal/http/respond"
	"crmbackend/internal/repositories"
	"crmbackend/internal/services"

	"github.com/gin-gonic/gin"
)

func conversationService(c *gin.Context) services.ConversationService {
	return services.ConversationService{
		ConversationRepo: repositories.ConversationRepository{},
		RequestID:        middleware.GetRequestID(c),
	}
}

// GET /api/conversations?location_id=&contact_id=&unread=
func GetConversations(c *gin.Context) {
	locationID, ok := ScopedLocation(c)
	if !ok {
		return
	}

	params := c.Request.URL.Query()
	pagination := query.ParsePagination(params)
	filters := query.ParseFilters(params, "contact_id", "unread")

	list, meta, err := conversationService(c).List(locationID, pagination, filters)
	if err != nil {
		respond.DomainError(c, err)
		return
	}
	respond.OKList(c, list, meta)
}

// GET /api/conversations/:id
func GetConversationByID(c *gin.Context) {
	locationID, ok := ScopedLocation(c)
	if !ok {
		return
	}
	id, ok := IDParam(c)
	if !ok {
		return
	}

	conv, err := conversationService(c).Get(locationID, id)
	if err != nil {
		respond.DomainError(c, err)
		return
	}
	respond.OK(c, conv)
}

// PUT /api/conversations/:id/read
func MarkConversationRead(c *gin.Context) {
	locationID, ok := ScopedLocation(c)
	if !ok {
		return
	}
	id, ok := IDParam(c)
	if !ok {
		return
	}

	conv, err := conversationService(c).MarkRead(locationID, id)
	if err != nil {
		respond.DomainError(c, err)
		return
	}
	respond.OK(c, conv)
}
