package models

import "time"

type Conversation struct {
	ID            int64     `json:"id"`
	LocationID    string    `json:"location_id"`
	ContactID     int64     `json:"contact_id"`
	LastMessage   string    `json:"last_message"`
	LastMessageAt time.Time `json:"last_message_at"`
	UnreadCount   int       `json:"unread_count"`
	UpdatedAt     time.Time `json:"updated_at"`
}
