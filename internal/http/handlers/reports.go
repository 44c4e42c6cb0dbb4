package handlers

import (
	"net/http"

	"crmbackend/internal/http/middleware"
	"crmbackend/internal/http/respond"
	"crmbackend/internal/repositories"
	"crmbackend/internal/services"

	"github.com/gin-gonic/gin"
)

// GET /api/reports/opportunities/pdf?location_id=
func GetOpportunityReportPDF(c *gin.Context) {
	locationID, ok := ScopedLocation(c)
	if !ok {
		return
	}

	svc := services.ReportService{
		OpportunityRepo: repositories.OpportunityRepository{},
		RequestID:       middleware.GetRequestID(c),
	}
	pdf, filename, err := svc.OpportunitiesPDF(locationID)
	if err != nil {
		respond.DomainError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", pdf)
}
