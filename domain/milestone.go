package domain

import (
	"strings"
	"time"
)

// Status classifies a milestone's compliance state. Escalated is display-only:
// every derived calculation distinguishes Completed from everything else.
type Status string

const (
	StatusPending   Status = "Pending"
	StatusCompleted Status = "Completed"
	StatusEscalated Status = "Escalated"
)

// DateLayout is the canonical due-date format. Stored as zero-padded text,
// so lexicographic order matches calendar order.
const DateLayout = "2006-01-02"

// Milestone is the unit of compliance tracking: a titled task with a
// calendar due date and a status.
type Milestone struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Status    Status    `json:"status"`
	DueDate   string    `json:"due_date"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (m *Milestone) IsCompleted() bool {
	return m != nil && m.Status == StatusCompleted
}

// DueBefore reports whether the milestone's due date falls strictly before
// the given calendar day (DateLayout formatted). A milestone due exactly on
// the reference day is not "before" it.
func (m *Milestone) DueBefore(day string) bool {
	return m != nil && m.DueDate < day
}

// ParseStatus normalizes free-form status text to a known Status.
// Unrecognized values pass through unchanged; transitions are unconstrained.
func ParseStatus(s string) Status {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pending":
		return StatusPending
	case "completed":
		return StatusCompleted
	case "escalated":
		return StatusEscalated
	default:
		return Status(strings.TrimSpace(s))
	}
}

// ParseDueDate validates a calendar date string and returns it in canonical form.
func ParseDueDate(s string) (string, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return "", WrapError(ErrCodeInvalid, "invalid due date", err)
	}
	return t.Format(DateLayout), nil
}

// Day formats a point in time as a calendar day in the canonical layout.
func Day(t time.Time) string {
	return t.Format(DateLayout)
}
