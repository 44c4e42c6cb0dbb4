package repositories

import (
	"database/sql"
	"errors"

	intconfig "crmbackend/internal/config"
	intdb "crmbackend/internal/db"
	"crmbackend/internal/domain"
	"crmbackend/internal/domain/models"
)

type ContactRepository struct {
	DB *sql.DB
}

func (r ContactRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

var contactSortColumns = map[string]string{
	"id":         "id",
	"first_name": "first_name",
	"last_name":  "last_name",
	"email":      "email",
	"created_at": "created_at",
	"updated_at": "updated_at",
}

const contactColumns = `id, location_id, COALESCE(first_name,''), COALESCE(last_name,''),
	COALESCE(email,''), COALESCE(phone,''), COALESCE(tags,''), created_at, updated_at`

func scanContact(row interface{ Scan(...any) error }) (models.Contact, error) {
	var c models.Contact
	err := row.Scan(&c.ID, &c.LocationID, &c.FirstName, &c.LastName,
		&c.Email, &c.Phone, &c.Tags, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

func (r ContactRepository) GetByID(locationID string, id int64) (models.Contact, error) {
	row := r.db().QueryRow(`SELECT `+contactColumns+` FROM contacts WHERE location_id = ? AND id = ?`, locationID, id)
	c, err := scanContact(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Contact{}, domain.NotFoundError{Resource: "contact"}
	}
	if err != nil {
		return models.Contact{}, domain.InternalError{Err: err}
	}
	return c, nil
}

func (r ContactRepository) FindByEmail(locationID, email string) (models.Contact, error) {
	row := r.db().QueryRow(`SELECT `+contactColumns+` FROM contacts WHERE location_id = ? AND email = ? LIMIT 1`, locationID, email)
	c, err := scanContact(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Contact{}, domain.NotFoundError{Resource: "contact"}
	}
	if err != nil {
		return models.Contact{}, domain.InternalError{Err: err}
	}
	return c, nil
}

func (r ContactRepository) FindByPhone(locationID, phone string) (models.Contact, error) {
	row := r.db().QueryRow(`SELECT `+contactColumns+` FROM contacts WHERE location_id = ? AND phone = ? LIMIT 1`, locationID, phone)
	c, err := scanContact(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Contact{}, domain.NotFoundError{Resource: "contact"}
	}
	if err != nil {
		return models.Contact{}, domain.InternalError{Err: err}
	}
	return c, nil
}

// List pages through a location's contacts. Supported filters: search
// (matches name or email) and tag.
func (r ContactRepository) List(locationID string, p domain.Pagination, filters map[string]string) ([]models.Contact, int, error) {
	where := `WHERE location_id = ?`
	args := []any{locationID}

	if search := filters["search"]; search != "" {
		where += ` AND (first_name LIKE ? OR last_name LIKE ? OR email LIKE ?)`
		like := "%" + search + "%"
		args = append(args, like, like, like)
	}
	if tag := filters["tag"]; tag != "" {
		where += ` AND FIND_IN_SET(?, tags) > 0`
		args = append(args, tag)
	}

	var total int
	if err := r.db().QueryRow(`SELECT COUNT(*) FROM contacts `+where, args...).Scan(&total); err != nil {
		return nil, 0, domain.InternalError{Err: err}
	}

	order := orderClause(p.SortBy, p.SortOrder, "id", contactSortColumns)
	rows, err := r.db().Query(`SELECT `+contactColumns+` FROM contacts `+where+` ORDER BY `+order+` LIMIT ? OFFSET ?`,
		append(args, p.Limit, p.Offset())...)
	if err != nil {
		return nil, 0, domain.InternalError{Err: err}
	}
	defer rows.Close()

	list := []models.Contact{}
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, 0, domain.InternalError{Err: err}
		}
		list = append(list, c)
	}
	return list, total, rows.Err()
}

func (r ContactRepository) Create(c models.Contact) (int64, error) {
	res, err := r.db().Exec(`
		INSERT INTO contacts (location_id, first_name, last_name, email, phone, tags, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, NOW(), NOW())
	`, c.LocationID, c.FirstName, c.LastName, intdb.NullIfEmpty(c.Email), intdb.NullIfEmpty(c.Phone), c.Tags)
	if err != nil {
		return 0, domain.InternalError{Err: err}
	}
	id, _ := res.LastInsertId()
	return id, nil
}

// Update assumes the caller has already loaded the row (read-merge-write);
// zero affected rows is not treated as missing because MySQL reports 0 for
// no-op updates.
func (r ContactRepository) Update(c models.Contact) error {
	_, err := r.db().Exec(`
		UPDATE contacts SET first_name = ?, last_name = ?, email = ?, phone = ?, tags = ?, updated_at = NOW()
		WHERE location_id = ? AND id = ?
	`, c.FirstName, c.LastName, c.Email, c.Phone, c.Tags, c.LocationID, c.ID)
	if err != nil {
		return domain.InternalError{Err: err}
	}
	return nil
}

func (r ContactRepository) Delete(locationID string, id int64) error {
	res, err := r.db().Exec(`DELETE FROM contacts WHERE location_id = ? AND id = ?`, locationID, id)
	if err != nil {
		return domain.InternalError{Err: err}
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.NotFoundError{Resource: "contact"}
	}
	return nil
}
