package repositories

import (
	"database/sql"
	"errors"

	intconfig "crmbackend/internal/config"
	"crmbackend/internal/domain"
	"crmbackend/internal/domain/models"
)

type ConversationRepository struct {
	DB *sql.DB
}

func (r ConversationRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

var conversationSortColumns = map[string]string{
	"id":              "id",
	"last_message_at": "last_message_at",
	"unread_count":    "unread_count",
	"updated_at":      "updated_at",
}

const conversationColumns = `id, location_id, contact_id, COALESCE(last_message,''),
	last_message_at, unread_count, updated_at`

func scanConversation(row interface{ Scan(...any) error }) (models.Conversation, error) {
	var v models.Conversation
	err := row.Scan(&v.ID, &v.LocationID, &v.ContactID, &v.LastMessage,
		&v.LastMessageAt, &v.UnreadCount, &v.UpdatedAt)
	return v, err
}

func (r ConversationRepository) GetByID(locationID string, id int64) (models.Conversation, error) {
	row := r.db().QueryRow(`SELECT `+conversationColumns+` FROM conversations WHERE location_id = ? AND id = ?`, locationID, id)
	v, err := scanConversation(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Conversation{}, domain.NotFoundError{Resource: "conversation"}
	}
	if err != nil {
		return models.Conversation{}, domain.InternalError{Err: err}
	}
	return v, nil
}

// List supports contact_id and unread filters. unread=true keeps only
// conversations with pending messages.
func (r ConversationRepository) List(locationID string, p domain.Pagination, filters map[string]string) ([]models.Conversation, int, error) {
	where := `WHERE location_id = ?`
	args := []any{locationID}

	if contactID := filters["contact_id"]; contactID != "" {
		where += ` AND contact_id = ?`
		args = append(args, contactID)
	}
	if filters["unread"] == "true" {
		where += ` AND unread_count > 0`
	}

	var total int
	if err := r.db().QueryRow(`SELECT COUNT(*) FROM conversations `+where, args...).Scan(&total); err != nil {
		return nil, 0, domain.InternalError{Err: err}
	}

	order := orderClause(p.SortBy, p.SortOrder, "last_message_at", conversationSortColumns)
	rows, err := r.db().Query(`SELECT `+conversationColumns+` FROM conversations `+where+` ORDER BY `+order+` LIMIT ? OFFSET ?`,
		append(args, p.Limit, p.Offset())...)
	if err != nil {
		return nil, 0, domain.InternalError{Err: err}
	}
	defer rows.Close()

	list := []models.Conversation{}
	for rows.Next() {
		v, err := scanConversation(rows)
		if err != nil {
			return nil, 0, domain.InternalError{Err: err}
		}
		list = append(list, v)
	}
	return list, total, rows.Err()
}

// MarkRead zeroes the unread counter.
func (r ConversationRepository) MarkRead(locationID string, id int64) error {
	res, err := r.db().Exec(`UPDATE conversations SET unread_count = 0, updated_at = NOW() WHERE location_id = ? AND id = ? AND unread_count > 0`, locationID, id)
	if err != nil {
		return domain.InternalError{Err: err}
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// Either missing or already read; disambiguate with a lookup.
		if _, err := r.GetByID(locationID, id); err != nil {
			return err
		}
	}
	return nil
}
