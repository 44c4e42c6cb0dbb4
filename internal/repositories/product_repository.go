package repositories

import (
	"database/sql"
	"errors"

	intconfig "crmbackend/internal/config"
	"crmbackend/internal/domain"
	"crmbackend/internal/domain/models"
)

type ProductRepository struct {
	DB *sql.DB
}

func (r ProductRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

var productSortColumns = map[string]string{
	"id":         "id",
	"name":       "name",
	"price":      "price",
	"created_at": "created_at",
	"updated_at": "updated_at",
}

const productColumns = `id, location_id, COALESCE(name,''), COALESCE(description,''),
	COALESCE(price,0), COALESCE(currency,'USD'), active, created_at, updated_at`

func scanProduct(row interface{ Scan(...any) error }) (models.Product, error) {
	var p models.Product
	err := row.Scan(&p.ID, &p.LocationID, &p.Name, &p.Description,
		&p.Price, &p.Currency, &p.Active, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func (r ProductRepository) GetByID(locationID string, id int64) (models.Product, error) {
	row := r.db().QueryRow(`SELECT `+productColumns+` FROM products WHERE location_id = ? AND id = ?`, locationID, id)
	p, err := scanProduct(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Product{}, domain.NotFoundError{Resource: "product"}
	}
	if err != nil {
		return models.Product{}, domain.InternalError{Err: err}
	}
	return p, nil
}

// List supports an active filter ("true"/"false"); anything else lists all.
func (r ProductRepository) List(locationID string, p domain.Pagination, filters map[string]string) ([]models.Product, int, error) {
	where := `WHERE location_id = ?`
	args := []any{locationID}

	switch filters["active"] {
	case "true":
		where += ` AND active = 1`
	case "false":
		where += ` AND active = 0`
	}

	var total int
	if err := r.db().QueryRow(`SELECT COUNT(*) FROM products `+where, args...).Scan(&total); err != nil {
		return nil, 0, domain.InternalError{Err: err}
	}

	order := orderClause(p.SortBy, p.SortOrder, "id", productSortColumns)
	rows, err := r.db().Query(`SELECT `+productColumns+` FROM products `+where+` ORDER BY `+order+` LIMIT ? OFFSET ?`,
		append(args, p.Limit, p.Offset())...)
	if err != nil {
		return nil, 0, domain.InternalError{Err: err}
	}
	defer rows.Close()

	list := []models.Product{}
	for rows.Next() {
		pr, err := scanProduct(rows)
		if err != nil {
			return nil, 0, domain.InternalError{Err: err}
		}
		list = append(list, pr)
	}
	return list, total, rows.Err()
}

func (r ProductRepository) Create(p models.Product) (int64, error) {
	res, err := r.db().Exec(`
		INSERT INTO products (location_id, name, description, price, currency, active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, NOW(), NOW())
	`, p.LocationID, p.Name, p.Description, p.Price, p.Currency, p.Active)
	if err != nil {
		return 0, domain.InternalError{Err: err}
	}
	id, _ := res.LastInsertId()
	return id, nil
}

func (r ProductRepository) Update(p models.Product) error {
	_, err := r.db().Exec(`
		UPDATE products SET name = ?, description = ?, price = ?, currency = ?, active = ?, updated_at = NOW()
		WHERE location_id = ? AND id = ?
	`, p.Name, p.Description, p.Price, p.Currency, p.Active, p.LocationID, p.ID)
	if err != nil {
		return domain.InternalError{Err: err}
	}
	return nil
}

func (r ProductRepository) Delete(locationID string, id int64) error {
	res, err := r.db().Exec(`DELETE FROM products WHERE location_id = ? AND id = ?`, locationID, id)
	if err != nil {
		return domain.InternalError{Err: err}
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.NotFoundError{Resource: "product"}
	}
	return nil
}
