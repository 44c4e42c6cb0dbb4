package handlers

import (
	"crmbackend/internal/http/middleware"
	"crmbackend/internal/http/query"
	"crmbackend/internal/http/respond"
	"crmbackend/internal/repositories"
	"crmbackend/internal/services"

	"github.com/gin-gonic/gin"
)

func opportunityService(c *gin.Context) services.OpportunityService {
	return services.OpportunityService{
		OpportunityRepo: repositories.OpportunityRepository{},
		RequestID:       middleware.GetRequestID(c),
	}
}

// GET /api/opportunities?location_id=&status=&page=&limit=
func GetOpportunities(c *gin.Context) {
	locationID, ok := ScopedLocation(c)
	if !ok {
		return
	}

	params := c.Request.URL.Query()
	pagination := query.ParsePagination(params)
	filters := query.ParseFilters(params, "status")

	list, meta, err := opportunityService(c).List(locationID, filters["status"], pagination)
	if err != nil {
		respond.DomainError(c, err)
		return
	}
	respond.OKList(c, list, meta)
}

// GET /api/opportunities/summary?location_id=
func GetOpportunitySummary(c *gin.Context) {
	locationID, ok := ScopedLocation(c)
	if !ok {
		return
	}

	summary, err := opportunityService(c).Summary(locationID)
	if err != nil {
		respond.DomainError(c, err)
		return
	}
	respond.OK(c, summary)
}

// GET /api/opportunities/:id
func GetOpportunityByID(c *gin.Context) {
	locationID, ok := ScopedLocation(c)
	if !ok {
		return
	}
	id, ok := IDParam(c)
	if !ok {
		return
	}

	opp, err := opportunityService(c).Get(locationID, id)
	if err != nil {
		respond.DomainError(c, err)
		return
	}
	respond.OK(c, opp)
}

// POST /api/opportunities
func CreateOpportunity(c *gin.Context) {
	locationID, ok := ScopedLocation(c)
	if !ok {
		return
	}

	var in services.OpportunityInput
	if !BindJSONOrError(c, &in) {
		return
	}

	opp, err := opportunityService(c).Create(locationID, in)
	if err != nil {
		respond.DomainError(c, err)
		return
	}
	respond.Created(c, opp)
}

// PUT /api/opportunities/:id
func UpdateOpportunity(c *gin.Context) {
	locationID, ok := ScopedLocation(c)
	if !ok {
		return
	}
	id, ok := IDParam(c)
	if !ok {
		return
	}

	var in services.OpportunityPatch
	if !BindJSONOrError(c, &in) {
		return
	}

	opp, err := opportunityService(c).Update(locationID, id, in)
	if err != nil {
		respond.DomainError(c, err)
		return
	}
	respond.OK(c, opp)
}

// DELETE /api/opportunities/:id
func DeleteOpportunity(c *gin.Context) {
	locationID, ok := ScopedLocation(c)
	if !ok {
		return
	}
	id, ok := IDParam(c)
	if !ok {
		return
	}

	if err := opportunityService(c).Delete(locationID, id); err != nil {
		respond.DomainError(c, err)
		return
	}
	respond.Deleted(c, id)
}
