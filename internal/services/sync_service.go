package services

import (
	"strings"
	"time"

	"crmbackend/internal/domain"
	"crmbackend/internal/domain/models"
	"crmbackend/internal/repositories"
	"crmbackend/internal/utils"
)

var syncResources = map[string]bool{
	"contacts":      true,
	"conversations": true,
	"opportunities": true,
	"products":      true,
}

type SyncService struct {
	SyncRepo  repositories.SyncRepository
	RequestID string
}

type SyncUpsertInput struct {
	LocationID    string     `json:"location_id"`
	Resource      string     `json:"resource"`
	Status        string     `json:"status"`
	LastSyncedAt  *time.Time `json:"last_synced_at"`
	LastError     string     `json:"last_error"`
	RecordsSynced int        `json:"records_synced"`
}

func (s SyncService) Status(locationID string) ([]models.SyncStatus, error) {
	return s.SyncRepo.ListByLocation(locationID)
}

// Upsert records the latest state reported by the sync worker.
func (s SyncService) Upsert(in SyncUpsertInput) (models.SyncStatus, error) {
	locationID := strings.TrimSpace(in.LocationID)
	if locationID == "" {
		return models.SyncStatus{}, domain.ValidationError{Field: "location_id", Msg: "is required"}
	}
	resource := strings.ToLower(strings.TrimSpace(in.Resource))
	if !syncResources[resource] {
		return models.SyncStatus{}, domain.ValidationError{Field: "resource", Msg: "must be one of contacts, conversations, opportunities, products"}
	}
	status := strings.ToLower(strings.TrimSpace(in.Status))
	switch status {
	case models.SyncIdle, models.SyncRunning, models.SyncFailed:
	default:
		return models.SyncStatus{}, domain.ValidationError{Field: "status", Msg: "must be one of idle, running, failed"}
	}
	if in.RecordsSynced < 0 {
		return models.SyncStatus{}, domain.ValidationError{Field: "records_synced", Msg: "must not be negative"}
	}

	syncedAt := time.Now()
	if in.LastSyncedAt != nil {
		syncedAt = *in.LastSyncedAt
	}

	row := models.SyncStatus{
		LocationID:    locationID,
		Resource:      resource,
		Status:        status,
		LastSyncedAt:  syncedAt,
		LastError:     strings.TrimSpace(in.LastError),
		RecordsSynced: in.RecordsSynced,
	}
	if err := s.SyncRepo.Upsert(row); err != nil {
		return models.SyncStatus{}, err
	}
	utils.LogEvent(s.RequestID, "sync", "upsert", "location_id="+locationID+" resource="+resource)
	return row, nil
}
