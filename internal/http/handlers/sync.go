package handlers

import (
	"crmbackend/internal/http/middleware"
	"crmbackend/internal/http/respond"
	"crmbackend/internal/repositories"
	"crmbackend/internal/services"

	"github.com/gin-gonic/gin"
)

func syncService(c *gin.Context) services.SyncService {
	return services.SyncService{
		SyncRepo:  repositories.SyncRepository{},
		RequestID: middleware.GetRequestID(c),
	}
}

// GET /api/sync/status?location_id=
func GetSyncStatus(c *gin.Context) {
	locationID, ok := ScopedLocation(c)
	if !ok {
		return
	}

	list, err := syncService(c).Status(locationID)
	if err != nil {
		respond.DomainError(c, err)
		return
	}
	respond.OK(c, list)
}

// POST /api/sync/status — admin-only upsert from the sync worker.
func UpsertSyncStatus(c *gin.Context) {
	var in services.SyncUpsertInput
	if !BindJSONOrError(c, &in) {
		return
	}

	row, err := syncService(c).Upsert(in)
	if err != nil {
		respond.DomainError(c, err)
		return
	}
	respond.OK(c, row)
}
