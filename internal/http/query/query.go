// Package query normalizes list-endpoint query strings into bounded
// pagination params and whitelisted filter maps.
package query

import (
	"net/url"
	"strconv"
	"strings"

	"crmbackend/internal/domain"
)

const (
	DefaultPage  = 1
	DefaultLimit = 20
	MaxLimit     = 100
)

// ParsePagination never fails: malformed numerics coerce to 0 and are then
// clamped, so page is always >= 1 and limit always within [1,100].
// sortOrder is taken verbatim; repositories normalize it before building SQL.
func ParsePagination(values url.Values) domain.Pagination {
	page, _ := strconv.Atoi(values.Get("page"))
	if page < 1 {
		page = DefaultPage
	}

	limit, _ := strconv.Atoi(values.Get("limit"))
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	sortBy := strings.TrimSpace(values.Get("sortBy"))
	if sortBy == "" {
		sortBy = "id"
	}

	sortOrder := strings.TrimSpace(values.Get("sortOrder"))
	if sortOrder == "" {
		sortOrder = "desc"
	}

	return domain.Pagination{
		Page:      page,
		Limit:     limit,
		SortBy:    sortBy,
		SortOrder: sortOrder,
	}
}

// ParseFilters picks the allowed keys out of the raw query. A key makes it
// into the result only when present with a non-empty value; everything else
// is silently dropped.
func ParseFilters(values url.Values, allowed ...string) map[string]string {
	out := map[string]string{}
	for _, key := range allowed {
		v := strings.TrimSpace(values.Get(key))
		if v != "" {
			out[key] = v
		}
	}
	return out
}
