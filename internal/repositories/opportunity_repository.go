package repositories

import (
	"database/sql"
	"errors"

	intconfig "crmbackend/internal/config"
	"crmbackend/internal/domain"
	"crmbackend/internal/domain/models"
)

type OpportunityRepository struct {
	DB *sql.DB
}

func (r OpportunityRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

var opportunitySortColumns = map[string]string{
	"id":             "id",
	"name":           "name",
	"status":         "status",
	"monetary_value": "monetary_value",
	"created_at":     "created_at",
	"updated_at":     "updated_at",
}

const opportunityColumns = `id, location_id, contact_id, COALESCE(name,''),
	COALESCE(status,'open'), COALESCE(monetary_value,0), created_at, updated_at`

func scanOpportunity(row interface{ Scan(...any) error }) (models.Opportunity, error) {
	var o models.Opportunity
	err := row.Scan(&o.ID, &o.LocationID, &o.ContactID, &o.Name,
		&o.Status, &o.MonetaryValue, &o.CreatedAt, &o.UpdatedAt)
	return o, err
}

func (r OpportunityRepository) GetByID(locationID string, id int64) (models.Opportunity, error) {
	row := r.db().QueryRow(`SELECT `+opportunityColumns+` FROM opportunities WHERE location_id = ? AND id = ?`, locationID, id)
	o, err := scanOpportunity(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Opportunity{}, domain.NotFoundError{Resource: "opportunity"}
	}
	if err != nil {
		return models.Opportunity{}, domain.InternalError{Err: err}
	}
	return o, nil
}

// List pages through a location's opportunities without a status filter.
func (r OpportunityRepository) List(locationID string, p domain.Pagination) ([]models.Opportunity, int, error) {
	return r.list(`WHERE location_id = ?`, []any{locationID}, p)
}

// ListByStatus is the status-scoped lookup used when a status filter is
// present; the generic list path is never taken in that case.
func (r OpportunityRepository) ListByStatus(locationID, status string, p domain.Pagination) ([]models.Opportunity, int, error) {
	return r.list(`WHERE location_id = ? AND status = ?`, []any{locationID, status}, p)
}

func (r OpportunityRepository) list(where string, args []any, p domain.Pagination) ([]models.Opportunity, int, error) {
	var total int
	if err := r.db().QueryRow(`SELECT COUNT(*) FROM opportunities `+where, args...).Scan(&total); err != nil {
		return nil, 0, domain.InternalError{Err: err}
	}

	order := orderClause(p.SortBy, p.SortOrder, "id", opportunitySortColumns)
	rows, err := r.db().Query(`SELECT `+opportunityColumns+` FROM opportunities `+where+` ORDER BY `+order+` LIMIT ? OFFSET ?`,
		append(args, p.Limit, p.Offset())...)
	if err != nil {
		return nil, 0, domain.InternalError{Err: err}
	}
	defer rows.Close()

	list := []models.Opportunity{}
	for rows.Next() {
		o, err := scanOpportunity(rows)
		if err != nil {
			return nil, 0, domain.InternalError{Err: err}
		}
		list = append(list, o)
	}
	return list, total, rows.Err()
}

// Summary aggregates count and value per status for the dashboard cards.
func (r OpportunityRepository) Summary(locationID string) (models.OpportunitySummary, error) {
	out := models.OpportunitySummary{
		LocationID: locationID,
		Stages:     map[string]models.StageBreakdown{},
	}

	rows, err := r.db().Query(`
		SELECT status, COUNT(*), COALESCE(SUM(monetary_value),0)
		FROM opportunities
		WHERE location_id = ?
		GROUP BY status
	`, locationID)
	if err != nil {
		return out, domain.InternalError{Err: err}
	}
	defer rows.Close()

	for rows.Next() {
		var (
			status string
			stage  models.StageBreakdown
		)
		if err := rows.Scan(&status, &stage.Count, &stage.Value); err != nil {
			return out, domain.InternalError{Err: err}
		}
		out.Stages[status] = stage
		out.TotalCount += stage.Count
		out.TotalValue += stage.Value
	}
	return out, rows.Err()
}

func (r OpportunityRepository) Create(o models.Opportunity) (int64, error) {
	res, err := r.db().Exec(`
		INSERT INTO opportunities (location_id, contact_id, name, status, monetary_value, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, NOW(), NOW())
	`, o.LocationID, o.ContactID, o.Name, o.Status, o.MonetaryValue)
	if err != nil {
		return 0, domain.InternalError{Err: err}
	}
	id, _ := res.LastInsertId()
	return id, nil
}

func (r OpportunityRepository) Update(o models.Opportunity) error {
	_, err := r.db().Exec(`
		UPDATE opportunities SET contact_id = ?, name = ?, status = ?, monetary_value = ?, updated_at = NOW()
		WHERE location_id = ? AND id = ?
	`, o.ContactID, o.Name, o.Status, o.MonetaryValue, o.LocationID, o.ID)
	if err != nil {
		return domain.InternalError{Err: err}
	}
	return nil
}

func (r OpportunityRepository) Delete(locationID string, id int64) error {
	res, err := r.db().Exec(`DELETE FROM opportunities WHERE location_id = ? AND id = ?`, locationID, id)
	if err != nil {
		return domain.InternalError{Err: err}
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.NotFoundError{Resource: "opportunity"}
	}
	return nil
}
