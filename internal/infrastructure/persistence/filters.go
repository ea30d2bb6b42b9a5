package persistence

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/piora/backend/internal/domain/shared"
)

// Query helpers shared by the gorm repositories.

// notFound maps gorm's record-not-found error onto the domain sentinel,
// leaving every other error untouched.
func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return shared.ErrNotFound
	}
	return err
}

// saveErr maps unique-constraint violations onto the domain sentinel.
// Requires TranslateError in the gorm config.
func saveErr(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return shared.ErrAlreadyExists
	}
	return err
}

// deleted turns a Delete result into an error, treating zero affected
// rows as not found.
func deleted(result *gorm.DB) error {
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// withPagination applies the filter's page window when both page and
// size are set.
func withPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}
	return query
}

// withOrder applies the requested ordering, or the caller's fallback
// when the filter does not name a column.
func withOrder(query *gorm.DB, filter shared.Filter, fallback string) *gorm.DB {
	if filter.OrderBy == "" {
		return query.Order(fallback)
	}
	dir := "ASC"
	if strings.EqualFold(filter.OrderDir, "desc") {
		dir = "DESC"
	}
	return query.Order(filter.OrderBy + " " + dir)
}

// likePattern wraps a search term for ILIKE matching.
func likePattern(term string) string {
	return "%" + term + "%"
}
