package service

// sortClause builds an ORDER BY fragment from user-supplied sort
// parameters. sortBy must be one of the allowed columns, otherwise the
// fallback column is used; order is restricted to asc or desc.
func sortClause(allowed map[string]bool, sortBy, fallback, order string) string {
	if !allowed[sortBy] {
		sortBy = fallback
	}
	if order != "asc" {
		order = "desc"
	}
	return sortBy + " " + order
}

var projectSortColumns = map[string]bool{
	"created_at":            true,
	"updated_at":            true,
	"title":                 true,
	"budget_min":            true,
	"budget_max":            true,
	"status":                true,
	"completion_percentage": true,
}

var userSortColumns = map[string]bool{
	"name":          true,
	"email":         true,
	"role":          true,
	"created_at":    true,
	"last_login_at": true,
}
