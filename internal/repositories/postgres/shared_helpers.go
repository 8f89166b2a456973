package postgres

import (
	"fmt"

	"gorm.io/gorm"
)

// getDB returns the transaction handle when one is supplied, otherwise the
// repository's own connection.
func getDB(db, tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return db
}

// handleDBError wraps storage errors with the failing operation. Not-found
// conditions stay unwrapped-detectable via errors.Is.
func handleDBError(err error, operation string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s failed: %w", operation, err)
}

// applyPaginationAndSorting validates sort input against a whitelist and
// applies limit/offset. sortKeyToColumn maps API sort keys to SQL columns.
func applyPaginationAndSorting(query *gorm.DB, limit, offset int, sortBy, sortOrder string, sortKeyToColumn map[string]string, defaultColumn, defaultOrder string) *gorm.DB {
	// Validate and set sort column (map API to SQL name, default if invalid)
	column, ok := sortKeyToColumn[sortBy]
	if !ok {
		column = defaultColumn
	}

	// Validate and set sort order
	order := defaultOrder
	switch sortOrder {
	case "asc", "ASC":
		order = "ASC"
	case "desc", "DESC":
		order = "DESC"
	}

	// Use only mapped SQL column name and constant sort order
	query = query.Order(fmt.Sprintf("%s %s", column, order))

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	return query
}
