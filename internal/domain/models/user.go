package models

import (
	"time"

	"crmbackend/internal/domain"
)

type User struct {
	ID           int64       `json:"id"`
	TenantID     string      `json:"tenant_id"`
	Name         string      `json:"name"`
	Email        string      `json:"email"`
	PasswordHash string      `json:"-"` // never serialized
	Role         domain.Role `json:"role"`
	ManagerID    int64       `json:"manager_id,omitempty"`
	LocationIDs  []string    `json:"location_ids"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

type PublicUser struct {
	ID          int64       `json:"id"`
	TenantID    string      `json:"tenant_id"`
	Name        string      `json:"name"`
	Email       string      `json:"email"`
	Role        domain.Role `json:"role"`
	ManagerID   int64       `json:"manager_id,omitempty"`
	LocationIDs []string    `json:"location_ids"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

func (u *User) ToPublic() PublicUser {
	return PublicUser{
		ID:          u.ID,
		TenantID:    u.TenantID,
		Name:        u.Name,
		Email:       u.Email,
		Role:        u.Role,
		ManagerID:   u.ManagerID,
		LocationIDs: u.LocationIDs,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}
