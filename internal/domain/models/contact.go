package models

import "time"

type Contact struct {
	ID         int64     `json:"id"`
	LocationID string    `json:"location_id"`
	FirstName  string    `json:"first_name"`
	LastName   string    `json:"last_name"`
	Email      string    `json:"email"`
	Phone      string    `json:"phone"`
	Tags       string    `json:"tags"` // comma separated
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// PublicContact is the trimmed projection returned by the ungated
// by-email / by-phone lookups. No tags, no timestamps.
type PublicContact struct {
	ID         int64  `json:"id"`
	LocationID string `json:"location_id"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
}

func (c *Contact) ToPublic() PublicContact {
	return PublicContact{
		ID:         c.ID,
		LocationID: c.LocationID,
		FirstName:  c.FirstName,
		LastName:   c.LastName,
		Email:      c.Email,
		Phone:      c.Phone,
	}
}
