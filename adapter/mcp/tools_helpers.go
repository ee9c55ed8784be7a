package mcp

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/pacer/internal/projects/domain"
)

func parseUUID(what, value string) (uuid.UUID, error) {
	if value == "" {
		return uuid.Nil, fmt.Errorf("%s is required", what)
	}
	id, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid %s: %w", what, err)
	}
	return id, nil
}

func parseOptionalUUID(what, value string) (*uuid.UUID, error) {
	if value == "" {
		return nil, nil
	}
	id, err := parseUUID(what, value)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func parseOptionalDate(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	d, err := domain.ParseDate(value)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func parseOptionalWeekStatus(value string) (*domain.WeekStatus, error) {
	if value == "" {
		return nil, nil
	}
	s, err := domain.ParseWeekStatus(value)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// weekInput selects a week bucket. Zero fields fall back to the current week.
type weekInput struct {
	Year  int `json:"year,omitempty"`
	Month int `json:"month,omitempty"`
	Week  int `json:"week,omitempty"`
}

func (w weekInput) resolve(current domain.Bucket) (domain.Bucket, error) {
	b := current
	if w.Year != 0 {
		b.Year = w.Year
	}
	if w.Month != 0 {
		b.Month = w.Month
	}
	if w.Week != 0 {
		b.Week = w.Week
	}
	return b, b.Validate()
}

var errNoDatabase = errors.New("tool requires database connection")
