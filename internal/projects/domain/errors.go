package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is matched by every not-found error of this package.
	ErrNotFound = errors.New("not found")

	// ErrProjectNotFound indicates the requested project was not found.
	ErrProjectNotFound = fmt.Errorf("project %w", ErrNotFound)

	// ErrTaskNotFound indicates the requested task was not found.
	ErrTaskNotFound = fmt.Errorf("task %w", ErrNotFound)

	// ErrSnapshotNotFound indicates the requested weekly snapshot was not found.
	ErrSnapshotNotFound = fmt.Errorf("weekly snapshot %w", ErrNotFound)

	// ErrInvalidRange indicates a numeric input is outside its allowed bounds.
	ErrInvalidRange = errors.New("value out of range")

	// ErrNegativeWeight indicates a task weight below zero.
	ErrNegativeWeight = fmt.Errorf("%w: weight must not be negative", ErrInvalidRange)

	// ErrEmptyName indicates the name cannot be empty.
	ErrEmptyName = errors.New("name cannot be empty")

	// ErrMissingWeekStatus indicates a new snapshot was created without its status codes.
	ErrMissingWeekStatus = errors.New("planned and actual week status are required")

	// ErrInvalidWeekStatus indicates an unknown weekly status code.
	ErrInvalidWeekStatus = errors.New("invalid week status")

	// ErrInvalidStatus indicates an unknown task status label.
	ErrInvalidStatus = errors.New("invalid task status")

	// ErrTaskProjectMismatch indicates a task does not belong to the given project.
	ErrTaskProjectMismatch = errors.New("task does not belong to project")
)

// IsNotFound reports whether err is any of the not-found errors.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidation reports whether err was caused by invalid caller input.
func IsValidation(err error) bool {
	return errors.Is(err, ErrInvalidRange) ||
		errors.Is(err, ErrEmptyName) ||
		errors.Is(err, ErrMissingWeekStatus) ||
		errors.Is(err, ErrInvalidWeekStatus) ||
		errors.Is(err, ErrInvalidStatus) ||
		errors.Is(err, ErrTaskProjectMismatch)
}
