package domain

// Status is the derived health label of a task.
type Status string

const (
	// StatusCompleted indicates the task reached full progress.
	StatusCompleted Status = "Completed"
	// StatusInProgress indicates the task is on track.
	StatusInProgress Status = "InProgress"
	// StatusDelayed indicates the task is behind plan or past its date.
	StatusDelayed Status = "Delayed"
	// StatusCritical indicates the task is far behind plan or badly late.
	StatusCritical Status = "Critical"
)

const (
	criticalDeviation = -30.0
	delayedDeviation  = -10.0
	criticalDelayDays = 10
)

// String returns the string representation of the status.
func (s Status) String() string {
	return string(s)
}

// IsValid returns true if the status is a known value.
func (s Status) IsValid() bool {
	switch s {
	case StatusCompleted, StatusInProgress, StatusDelayed, StatusCritical:
		return true
	default:
		return false
	}
}

// IsBehind returns true for Delayed and Critical tasks.
func (s Status) IsBehind() bool {
	return s == StatusDelayed || s == StatusCritical
}

// ParseStatus parses a string into a Status.
func ParseStatus(s string) (Status, error) {
	status := Status(s)
	if !status.IsValid() {
		return "", ErrInvalidStatus
	}
	return status, nil
}

// ClassifyStatus derives a task's status from its progress and delay.
// Rules apply in order; full progress wins over any delay.
func ClassifyStatus(plannedProgress, actualProgress float64, delayDays int) Status {
	if actualProgress >= 100 {
		return StatusCompleted
	}

	deviation := actualProgress - plannedProgress
	if deviation <= criticalDeviation || delayDays > criticalDelayDays {
		return StatusCritical
	}
	if deviation < delayedDeviation || delayDays > 0 {
		return StatusDelayed
	}
	return StatusInProgress
}
