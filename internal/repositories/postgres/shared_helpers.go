package postgres

import "gorm.io/gorm"

// sortClause validates sort inputs against a column whitelist and returns a
// safe ORDER BY clause. Unknown columns fall back to created_at.
func sortClause(sortBy, sortOrder string) string {
	allowedSortColumns := map[string]bool{
		"created_at": true,
		"updated_at": true,
		"id":         true,
		"name":       true,
	}

	if sortBy == "" || !allowedSortColumns[sortBy] {
		sortBy = "created_at"
	}

	if sortOrder != "asc" && sortOrder != "ASC" {
		sortOrder = "DESC"
	} else {
		sortOrder = "ASC"
	}

	return sortBy + " " + sortOrder
}

// applyPaginationAndSort applies sorting and pagination with the sort
// inputs validated through sortClause.
func applyPaginationAndSort(query *gorm.DB, sortBy, sortOrder string, limit, offset int) *gorm.DB {
	query = query.Order(sortClause(sortBy, sortOrder))

	if limit > 0 {
		query = query.Limit(limit).Offset(offset)
	}

	return query
}
