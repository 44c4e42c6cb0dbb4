package repositories

import "strings"

// orderClause builds a safe ORDER BY from caller-supplied sort params.
// sortBy must map to a known column; anything unknown falls back to the
// default. sortOrder is normalized: anything other than "asc" means "desc".
func orderClause(sortBy, sortOrder, fallback string, columns map[string]string) string {
	col, ok := columns[strings.TrimSpace(sortBy)]
	if !ok {
		col = fallback
	}
	dir := "DESC"
	if strings.EqualFold(strings.TrimSpace(sortOrder), "asc") {
		dir = "ASC"
	}
	return col + " " + dir
}
