package database

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// Repositories write their SQL with '?' placeholders. Drivers that use a
// different bindvar style rebind the query before it reaches the server.

// Rebind converts '?' placeholders to the bindvar style of the driver.
func Rebind(driver Driver, query string) string {
	switch driver {
	case DriverPostgres:
		return sqlx.Rebind(sqlx.DOLLAR, query)
	default:
		return query
	}
}

// In expands slice arguments of an IN (?) clause into one placeholder per
// element, returning the rewritten query and flattened arguments.
func In(query string, args ...any) (string, []any, error) {
	expanded, flat, err := sqlx.In(query, args...)
	if err != nil {
		return "", nil, fmt.Errorf("expand IN clause: %w", err)
	}
	return expanded, flat, nil
}

// PostgresArray renders values as a PostgreSQL array literal, suitable for
// binding to "= ANY(?::uuid[])" style predicates.
func PostgresArray(values []string) (string, error) {
	literal, err := pq.Array(values).Value()
	if err != nil {
		return "", fmt.Errorf("encode array: %w", err)
	}
	if literal == nil {
		return "{}", nil
	}
	s, ok := literal.(string)
	if !ok {
		return "", fmt.Errorf("encode array: unexpected literal %T", literal)
	}
	return s, nil
}
