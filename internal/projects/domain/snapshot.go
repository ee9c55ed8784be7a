package domain

import (
	"time"

	sharedDomain "github.com/felixgeelhaar/pacer/internal/shared/domain"
	"github.com/google/uuid"
)

// WeekStatus is the opaque weekly status code of a snapshot.
type WeekStatus string

const (
	WeekStatusPlanned     WeekStatus = "P"
	WeekStatusActual      WeekStatus = "R"
	WeekStatusRescheduled WeekStatus = "RP"
)

// AllWeekStatuses lists the codes in display order.
var AllWeekStatuses = []WeekStatus{WeekStatusPlanned, WeekStatusActual, WeekStatusRescheduled}

func (s WeekStatus) String() string { return string(s) }

// IsValid returns true for P, R and RP.
func (s WeekStatus) IsValid() bool {
	switch s {
	case WeekStatusPlanned, WeekStatusActual, WeekStatusRescheduled:
		return true
	default:
		return false
	}
}

// ParseWeekStatus parses a wire code.
func ParseWeekStatus(s string) (WeekStatus, error) {
	status := WeekStatus(s)
	if !status.IsValid() {
		return "", ErrInvalidWeekStatus
	}
	return status, nil
}

const (
	MinBucketYear = 2020
	MaxBucketYear = 2030
	WeeksPerMonth = 4
	daysPerBucket = 7
)

// Bucket identifies one weekly slot: year, month and week of month (1..4).
type Bucket struct {
	Year  int `json:"year"`
	Month int `json:"month"`
	Week  int `json:"week"`
}

// Validate checks the bucket bounds.
func (b Bucket) Validate() error {
	if b.Year < MinBucketYear || b.Year > MaxBucketYear {
		return ErrInvalidRange
	}
	if b.Month < 1 || b.Month > 12 {
		return ErrInvalidRange
	}
	if b.Week < 1 || b.Week > WeeksPerMonth {
		return ErrInvalidRange
	}
	return nil
}

// Before orders buckets chronologically.
func (b Bucket) Before(other Bucket) bool {
	if b.Year != other.Year {
		return b.Year < other.Year
	}
	if b.Month != other.Month {
		return b.Month < other.Month
	}
	return b.Week < other.Week
}

// WeekOfMonth maps a day of month to its bucket week. Days 22 and later all
// fall into week 4.
func WeekOfMonth(dayOfMonth int) int {
	switch {
	case dayOfMonth <= 7:
		return 1
	case dayOfMonth <= 14:
		return 2
	case dayOfMonth <= 21:
		return 3
	default:
		return 4
	}
}

// CurrentBucket returns the bucket containing now, read in now's location.
func CurrentBucket(now time.Time) Bucket {
	return Bucket{
		Year:  now.Year(),
		Month: int(now.Month()),
		Week:  WeekOfMonth(now.Day()),
	}
}

// DateRange returns the first and last calendar day covered by the bucket.
// Week 4 runs to the end of the month.
func (b Bucket) DateRange() (start, end time.Time) {
	startDay := (b.Week-1)*daysPerBucket + 1
	start = time.Date(b.Year, time.Month(b.Month), startDay, 0, 0, 0, 0, time.UTC)

	lastDay := time.Date(b.Year, time.Month(b.Month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
	endDay := startDay + daysPerBucket - 1
	if b.Week == WeeksPerMonth || endDay > lastDay {
		endDay = lastDay
	}
	end = time.Date(b.Year, time.Month(b.Month), endDay, 0, 0, 0, 0, time.UTC)
	return start, end
}

// MonthRange is an inclusive range of months.
type MonthRange struct {
	StartYear  int
	StartMonth int
	EndYear    int
	EndMonth   int
}

// MonthRangeOf returns the single-month range containing bucket b.
func MonthRangeOf(b Bucket) MonthRange {
	return MonthRange{StartYear: b.Year, StartMonth: b.Month, EndYear: b.Year, EndMonth: b.Month}
}

// Validate checks the months and that start is not after end.
func (r MonthRange) Validate() error {
	if r.StartMonth < 1 || r.StartMonth > 12 || r.EndMonth < 1 || r.EndMonth > 12 {
		return ErrInvalidRange
	}
	if r.StartYear*12+r.StartMonth > r.EndYear*12+r.EndMonth {
		return ErrInvalidRange
	}
	return nil
}

// Contains reports whether the bucket's month is inside the range.
func (r MonthRange) Contains(b Bucket) bool {
	m := b.Year*12 + b.Month
	return m >= r.StartYear*12+r.StartMonth && m <= r.EndYear*12+r.EndMonth
}

// SnapshotState is the immutable content of a weekly snapshot.
type SnapshotState struct {
	TaskID          uuid.UUID
	ProjectID       uuid.UUID
	Bucket          Bucket
	PlannedStatus   WeekStatus
	ActualStatus    WeekStatus
	PlannedProgress float64
	ActualProgress  float64
	Comments        string
}

// SnapshotPatch carries the optional fields of an upsert.
type SnapshotPatch struct {
	PlannedStatus   *WeekStatus
	ActualStatus    *WeekStatus
	PlannedProgress *float64
	ActualProgress  *float64
	Comments        *string
}

// Validate checks the supplied status codes.
func (p SnapshotPatch) Validate() error {
	if p.PlannedStatus != nil && !p.PlannedStatus.IsValid() {
		return ErrInvalidWeekStatus
	}
	if p.ActualStatus != nil && !p.ActualStatus.IsValid() {
		return ErrInvalidWeekStatus
	}
	return nil
}

// ApplySnapshotPatch merges the supplied fields of patch onto prior.
func ApplySnapshotPatch(prior SnapshotState, patch SnapshotPatch) (SnapshotState, error) {
	if err := patch.Validate(); err != nil {
		return prior, err
	}
	next := prior
	next.PlannedStatus = coalesce(patch.PlannedStatus, prior.PlannedStatus)
	next.ActualStatus = coalesce(patch.ActualStatus, prior.ActualStatus)
	next.PlannedProgress = ClampProgress(coalesce(patch.PlannedProgress, prior.PlannedProgress))
	next.ActualProgress = ClampProgress(coalesce(patch.ActualProgress, prior.ActualProgress))
	next.Comments = coalesce(patch.Comments, prior.Comments)
	return next, nil
}

// WeeklySnapshot records one task's progress for one bucket.
type WeeklySnapshot struct {
	sharedDomain.BaseAggregateRoot
	state SnapshotState
}

// NewWeeklySnapshot creates a snapshot. Both status codes are required;
// progress defaults to zero and comments to empty.
func NewWeeklySnapshot(taskID, projectID uuid.UUID, bucket Bucket, patch SnapshotPatch, now time.Time) (*WeeklySnapshot, error) {
	if err := bucket.Validate(); err != nil {
		return nil, err
	}
	if patch.PlannedStatus == nil || patch.ActualStatus == nil {
		return nil, ErrMissingWeekStatus
	}
	state, err := ApplySnapshotPatch(SnapshotState{
		TaskID:    taskID,
		ProjectID: projectID,
		Bucket:    bucket,
	}, patch)
	if err != nil {
		return nil, err
	}

	s := &WeeklySnapshot{
		BaseAggregateRoot: sharedDomain.NewBaseAggregateRoot(now),
		state:             state,
	}
	s.AddDomainEvent(NewSnapshotUpserted(s, true, now))
	return s, nil
}

// RehydrateWeeklySnapshot recreates a snapshot from persisted state.
func RehydrateWeeklySnapshot(id uuid.UUID, createdAt, updatedAt time.Time, state SnapshotState) *WeeklySnapshot {
	return &WeeklySnapshot{
		BaseAggregateRoot: sharedDomain.RehydrateBaseAggregateRoot(
			sharedDomain.RehydrateBaseEntity(id, createdAt, updatedAt),
		),
		state: state,
	}
}

func (s *WeeklySnapshot) State() SnapshotState      { return s.state }
func (s *WeeklySnapshot) TaskID() uuid.UUID         { return s.state.TaskID }
func (s *WeeklySnapshot) ProjectID() uuid.UUID      { return s.state.ProjectID }
func (s *WeeklySnapshot) Bucket() Bucket            { return s.state.Bucket }
func (s *WeeklySnapshot) PlannedStatus() WeekStatus { return s.state.PlannedStatus }
func (s *WeeklySnapshot) ActualStatus() WeekStatus  { return s.state.ActualStatus }
func (s *WeeklySnapshot) PlannedProgress() float64  { return s.state.PlannedProgress }
func (s *WeeklySnapshot) ActualProgress() float64   { return s.state.ActualProgress }
func (s *WeeklySnapshot) Comments() string          { return s.state.Comments }

// Patch applies the supplied fields and refreshes UpdatedAt.
func (s *WeeklySnapshot) Patch(patch SnapshotPatch, now time.Time) error {
	next, err := ApplySnapshotPatch(s.state, patch)
	if err != nil {
		return err
	}
	s.state = next
	s.Touch(now)
	s.AddDomainEvent(NewSnapshotUpserted(s, false, now))
	return nil
}

// MarkDeleted records the deletion event for the snapshot.
func (s *WeeklySnapshot) MarkDeleted(now time.Time) {
	s.AddDomainEvent(NewSnapshotDeleted(s, now))
}
