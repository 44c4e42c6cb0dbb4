package domain

import "strings"

// Role is a dashboard user role. Only the three known roles are valid;
// anything else is rejected at parse time instead of being passed through.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleAgent   Role = "agent"
)

// ParseRole normalizes and validates a raw role value.
func ParseRole(raw string) (Role, error) {
	switch Role(strings.ToLower(strings.TrimSpace(raw))) {
	case RoleAdmin:
		return RoleAdmin, nil
	case RoleManager:
		return RoleManager, nil
	case RoleAgent:
		return RoleAgent, nil
	default:
		return "", ValidationError{Field: "role", Msg: "must be one of admin, manager, agent"}
	}
}

// Caller carries the authenticated identity for one request. It is built by
// the auth middleware and discarded when the request ends.
type Caller struct {
	UserID      int64    `json:"userId"`
	TenantID    string   `json:"tenantId"`
	Role        Role     `json:"role"`
	LocationIDs []string `json:"locationIds"`
}

// CanAccessLocation reports whether the caller may touch data scoped to the
// given location. Admins see every location in the tenant; everyone else is
// limited to their assigned set.
func CanAccessLocation(c Caller, locationID string) bool {
	if c.Role == RoleAdmin {
		return true
	}
	for _, id := range c.LocationIDs {
		if id == locationID {
			return true
		}
	}
	return false
}

// Pagination carries normalized paging params and result totals.
type Pagination struct {
	Page      int    `json:"page"`
	Limit     int    `json:"limit"`
	SortBy    string `json:"sortBy"`
	SortOrder string `json:"sortOrder"`
}

// Offset is the SQL offset for the current page.
func (p Pagination) Offset() int {
	return (p.Page - 1) * p.Limit
}

// ListMeta is the pagination echo attached to list responses.
type ListMeta struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// NewListMeta derives meta from the request and the total row count.
func NewListMeta(p Pagination, total int) ListMeta {
	pages := 0
	if p.Limit > 0 {
		pages = (total + p.Limit - 1) / p.Limit
	}
	return ListMeta{
		Page:       p.Page,
		Limit:      p.Limit,
		Total:      total,
		TotalPages: pages,
	}
}
