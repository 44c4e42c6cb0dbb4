package models

import "time"

// Sync job states reported by the upstream CRM sync worker.
const (
	SyncIdle    = "idle"
	SyncRunning = "running"
	SyncFailed  = "failed"
)

type SyncStatus struct {
	LocationID    string    `json:"location_id"`
	Resource      string    `json:"resource"` // contacts, conversations, opportunities, products
	Status        string    `json:"status"`
	LastSyncedAt  time.Time `json:"last_synced_at"`
	LastError     string    `json:"last_error,omitempty"`
	RecordsSynced int       `json:"records_synced"`
}
