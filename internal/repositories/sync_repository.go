package repositories

import (
	"database/sql"

	intconfig "crmbackend/internal/config"
	"crmbackend/internal/domain"
	"crmbackend/internal/domain/models"
)

// SyncRepository tracks per-location, per-resource sync state written by the
// upstream CRM sync worker.
type SyncRepository struct {
	DB *sql.DB
}

func (r SyncRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

func (r SyncRepository) ListByLocation(locationID string) ([]models.SyncStatus, error) {
	rows, err := r.db().Query(`
		SELECT location_id, resource, COALESCE(status,'idle'), last_synced_at, COALESCE(last_error,''), COALESCE(records_synced,0)
		FROM sync_status
		WHERE location_id = ?
		ORDER BY resource
	`, locationID)
	if err != nil {
		return nil, domain.InternalError{Err: err}
	}
	defer rows.Close()

	list := []models.SyncStatus{}
	for rows.Next() {
		var s models.SyncStatus
		if err := rows.Scan(&s.LocationID, &s.Resource, &s.Status, &s.LastSyncedAt, &s.LastError, &s.RecordsSynced); err != nil {
			return nil, domain.InternalError{Err: err}
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

// Upsert keys on (location_id, resource).
func (r SyncRepository) Upsert(s models.SyncStatus) error {
	_, err := r.db().Exec(`
		INSERT INTO sync_status (location_id, resource, status, last_synced_at, last_error, records_synced)
		VALUES (?, ?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			status = VALUES(status),
			last_synced_at = VALUES(last_synced_at),
			last_error = VALUES(last_error),
			records_synced = VALUES(records_synced)
	`, s.LocationID, s.Resource, s.Status, s.LastSyncedAt, s.LastError, s.RecordsSynced)
	if err != nil {
		return domain.InternalError{Err: err}
	}
	return nil
}
