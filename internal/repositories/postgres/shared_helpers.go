package postgres

import (
	"fmt"
	"strings"

	"github.com/SAP-F-2025/university-service/internal/pagination"
	"github.com/SAP-F-2025/university-service/internal/repositories"
	"gorm.io/gorm"
)

// likeEscaper escapes LIKE wildcards so search input matches literally
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds a lower-cased LIKE pattern matching s anywhere
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(strings.TrimSpace(s))) + "%"
}

// orderBy builds an ORDER BY scope from a whitelisted sort column map. An
// unknown field falls back to defaultColumn. tieBreaker keeps paging stable
// when sort values repeat.
func orderBy(columns map[string]string, field string, direction repositories.SortDirection, defaultColumn, tieBreaker string) pagination.Scope {
	column, ok := columns[field]
	if !ok {
		column = defaultColumn
	}

	dir := "ASC"
	if direction == repositories.SortDesc {
		dir = "DESC"
	}

	return func(db *gorm.DB) *gorm.DB {
		if column == tieBreaker {
			return db.Order(fmt.Sprintf("%s %s", column, dir))
		}
		return db.Order(fmt.Sprintf("%s %s", column, dir)).Order(fmt.Sprintf("%s %s", tieBreaker, dir))
	}
}

// preloadScopes resolves includes against the allowed preloads of an entity
func preloadScopes(allowed map[repositories.Include][]pagination.Scope, includes []repositories.Include) ([]pagination.Scope, error) {
	var scopes []pagination.Scope
	seen := make(map[repositories.Include]bool, len(includes))

	for _, include := range includes {
		if seen[include] {
			continue
		}
		seen[include] = true

		preloads, ok := allowed[include]
		if !ok {
			return nil, fmt.Errorf("%w: %s", repositories.ErrUnsupportedInclude, include)
		}
		scopes = append(scopes, preloads...)
	}
	return scopes, nil
}

func preload(path string, args ...interface{}) pagination.Scope {
	return func(db *gorm.DB) *gorm.DB {
		return db.Preload(path, args...)
	}
}

// orderedEnrollments preloads enrollments in key order
func orderedEnrollments() pagination.Scope {
	return preload("Enrollments", func(db *gorm.DB) *gorm.DB {
		return db.Order("enrollment_id ASC")
	})
}
