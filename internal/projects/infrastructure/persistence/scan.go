// Package persistence stores projects, tasks and weekly snapshots through a
// database.Connection. Queries use '?' placeholders and are rebound per driver.
package persistence

import (
	"fmt"
	"time"

	"github.com/felixgeelhaar/pacer/internal/projects/domain"
	"github.com/felixgeelhaar/pacer/internal/shared/infrastructure/database"
	"github.com/google/uuid"
)

func collect[T any](rows database.Rows, scan func(database.Row) (T, error)) ([]T, error) {
	defer rows.Close()

	var out []T
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func parseID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid stored id %q: %w", raw, err)
	}
	return id, nil
}

func parseOptionalID(raw *string) (*uuid.UUID, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	id, err := parseID(*raw)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func optionalID(id *uuid.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}

func optionalDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := domain.FormatDate(*t)
	return &s
}

func parseOptionalDate(raw *string) (*time.Time, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	t, err := domain.ParseDate(*raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func idStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}

// notFound maps a missing row to target and wraps anything else.
func notFound(err error, target error, op string) error {
	if database.IsNoRows(err) {
		return target
	}
	return fmt.Errorf("failed to %s: %w", op, err)
}
