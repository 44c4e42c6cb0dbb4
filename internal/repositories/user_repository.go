package repositories

import (
	"database/sql"
	"errors"

	intconfig "crmbackend/internal/config"
	"crmbackend/internal/domain"
	"crmbackend/internal/domain/models"
)

// UserRepository owns dashboard users plus their assigned-location rows
// (user_locations) and team membership (team_members).
type UserRepository struct {
	DB *sql.DB
}

func (r UserRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

var userSortColumns = map[string]string{
	"id":         "id",
	"name":       "name",
	"email":      "email",
	"role":       "role",
	"created_at": "created_at",
}

const userColumns = `id, tenant_id, COALESCE(name,''), COALESCE(email,''),
	COALESCE(password_hash,''), COALESCE(role,'agent'), COALESCE(manager_id,0), created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }) (models.User, error) {
	var (
		u    models.User
		role string
	)
	err := row.Scan(&u.ID, &u.TenantID, &u.Name, &u.Email,
		&u.PasswordHash, &role, &u.ManagerID, &u.CreatedAt, &u.UpdatedAt)
	u.Role = domain.Role(role)
	return u, err
}

func (r UserRepository) GetByID(id int64) (models.User, error) {
	row := r.db().QueryRow(`SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, domain.NotFoundError{Resource: "user"}
	}
	if err != nil {
		return models.User{}, domain.InternalError{Err: err}
	}
	u.LocationIDs, err = r.locationIDs(u.ID)
	if err != nil {
		return models.User{}, err
	}
	return u, nil
}

func (r UserRepository) GetByEmail(tenantID, email string) (models.User, error) {
	row := r.db().QueryRow(`SELECT `+userColumns+` FROM users WHERE tenant_id = ? AND email = ?`, tenantID, email)
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, domain.NotFoundError{Resource: "user"}
	}
	if err != nil {
		return models.User{}, domain.InternalError{Err: err}
	}
	u.LocationIDs, err = r.locationIDs(u.ID)
	if err != nil {
		return models.User{}, err
	}
	return u, nil
}

// FindForLogin looks a user up by email alone; the tenant comes back with
// the row. Login happens before any tenant context exists.
func (r UserRepository) FindForLogin(email string) (models.User, error) {
	row := r.db().QueryRow(`SELECT `+userColumns+` FROM users WHERE email = ? LIMIT 1`, email)
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, domain.NotFoundError{Resource: "user"}
	}
	if err != nil {
		return models.User{}, domain.InternalError{Err: err}
	}
	u.LocationIDs, err = r.locationIDs(u.ID)
	if err != nil {
		return models.User{}, err
	}
	return u, nil
}

func (r UserRepository) EmailExists(tenantID, email string) (bool, error) {
	var n int
	if err := r.db().QueryRow(`SELECT COUNT(*) FROM users WHERE tenant_id = ? AND email = ?`, tenantID, email).Scan(&n); err != nil {
		return false, domain.InternalError{Err: err}
	}
	return n > 0, nil
}

// List pages through a tenant's users, optionally filtered by role.
func (r UserRepository) List(tenantID string, p domain.Pagination, role string) ([]models.User, int, error) {
	where := `WHERE tenant_id = ?`
	args := []any{tenantID}
	if role != "" {
		where += ` AND role = ?`
		args = append(args, role)
	}

	var total int
	if err := r.db().QueryRow(`SELECT COUNT(*) FROM users `+where, args...).Scan(&total); err != nil {
		return nil, 0, domain.InternalError{Err: err}
	}

	order := orderClause(p.SortBy, p.SortOrder, "id", userSortColumns)
	rows, err := r.db().Query(`SELECT `+userColumns+` FROM users `+where+` ORDER BY `+order+` LIMIT ? OFFSET ?`,
		append(args, p.Limit, p.Offset())...)
	if err != nil {
		return nil, 0, domain.InternalError{Err: err}
	}
	defer rows.Close()

	list, err := collectUsers(rows)
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// ListTeamAgents returns role=agent users belonging to the manager's team.
// The result is the manager's whole team; no paging on this path.
func (r UserRepository) ListTeamAgents(tenantID string, managerID int64) ([]models.User, error) {
	rows, err := r.db().Query(`
		SELECT `+userColumns+`
		FROM users
		WHERE tenant_id = ? AND role = 'agent'
		  AND id IN (SELECT user_id FROM team_members WHERE manager_id = ?)
		ORDER BY id DESC
	`, tenantID, managerID)
	if err != nil {
		return nil, domain.InternalError{Err: err}
	}
	defer rows.Close()

	return collectUsers(rows)
}

// IsTeamMember reports whether userID belongs to managerID's team.
func (r UserRepository) IsTeamMember(managerID, userID int64) (bool, error) {
	var n int
	if err := r.db().QueryRow(`SELECT COUNT(*) FROM team_members WHERE manager_id = ? AND user_id = ?`, managerID, userID).Scan(&n); err != nil {
		return false, domain.InternalError{Err: err}
	}
	return n > 0, nil
}

func (r UserRepository) Create(u models.User) (int64, error) {
	res, err := r.db().Exec(`
		INSERT INTO users (tenant_id, name, email, password_hash, role, manager_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, NULLIF(?, 0), NOW(), NOW())
	`, u.TenantID, u.Name, u.Email, u.PasswordHash, string(u.Role), u.ManagerID)
	if err != nil {
		return 0, domain.InternalError{Err: err}
	}
	id, _ := res.LastInsertId()

	if err := r.replaceLocations(id, u.LocationIDs); err != nil {
		return 0, err
	}
	return id, nil
}

func (r UserRepository) Update(u models.User) error {
	_, err := r.db().Exec(`
		UPDATE users SET name = ?, email = ?, role = ?, manager_id = NULLIF(?, 0), updated_at = NOW()
		WHERE tenant_id = ? AND id = ?
	`, u.Name, u.Email, string(u.Role), u.ManagerID, u.TenantID, u.ID)
	if err != nil {
		return domain.InternalError{Err: err}
	}
	return r.replaceLocations(u.ID, u.LocationIDs)
}

func (r UserRepository) Delete(tenantID string, id int64) error {
	res, err := r.db().Exec(`DELETE FROM users WHERE tenant_id = ? AND id = ?`, tenantID, id)
	if err != nil {
		return domain.InternalError{Err: err}
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.NotFoundError{Resource: "user"}
	}
	_, _ = r.db().Exec(`DELETE FROM user_locations WHERE user_id = ?`, id)
	_, _ = r.db().Exec(`DELETE FROM team_members WHERE user_id = ?`, id)
	return nil
}

func (r UserRepository) locationIDs(userID int64) ([]string, error) {
	rows, err := r.db().Query(`SELECT location_id FROM user_locations WHERE user_id = ? ORDER BY location_id`, userID)
	if err != nil {
		return nil, domain.InternalError{Err: err}
	}
	defer rows.Close()

	out := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, domain.InternalError{Err: err}
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

func (r UserRepository) replaceLocations(userID int64, locationIDs []string) error {
	if _, err := r.db().Exec(`DELETE FROM user_locations WHERE user_id = ?`, userID); err != nil {
		return domain.InternalError{Err: err}
	}
	for _, loc := range locationIDs {
		if _, err := r.db().Exec(`INSERT INTO user_locations (user_id, location_id) VALUES (?, ?)`, userID, loc); err != nil {
			return domain.InternalError{Err: err}
		}
	}
	return nil
}

func collectUsers(rows *sql.Rows) ([]models.User, error) {
	list := []models.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, domain.InternalError{Err: err}
		}
		list = append(list, u)
	}
	return list, rows.Err()
}
