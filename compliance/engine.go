// Package compliance derives dashboard views from a snapshot of milestones.
// Everything here is pure: callers fetch the snapshot and pass it in, the
// engine never touches storage.
package compliance

import (
	"fmt"
	"time"

	"github.com/comptrack/backend/domain"
)

// DefaultHorizonDays is the forward-looking window for upcoming milestones.
const DefaultHorizonDays = 7

// Score returns the percentage of milestones with status Completed, in [0,100].
// An empty snapshot scores 0.
func Score(milestones []domain.Milestone) float64 {
	if len(milestones) == 0 {
		return 0
	}
	completed := 0
	for i := range milestones {
		if milestones[i].IsCompleted() {
			completed++
		}
	}
	return 100 * float64(completed) / float64(len(milestones))
}

// Overdue returns the milestones due strictly before asOf and not Completed.
// Input order is preserved. A milestone due exactly on asOf is never overdue.
func Overdue(milestones []domain.Milestone, asOf time.Time) []domain.Milestone {
	day := domain.Day(asOf)
	var out []domain.Milestone
	for _, m := range milestones {
		if m.IsCompleted() {
			continue
		}
		if m.DueBefore(day) {
			out = append(out, m)
		}
	}
	return out
}

// Upcoming returns the not-Completed milestones due within the window
// [asOf, asOf+horizonDays], inclusive on both ends. Input order is preserved.
func Upcoming(milestones []domain.Milestone, asOf time.Time, horizonDays int) []domain.Milestone {
	if horizonDays <= 0 {
		horizonDays = DefaultHorizonDays
	}
	from := domain.Day(asOf)
	to := domain.Day(asOf.AddDate(0, 0, horizonDays))
	var out []domain.Milestone
	for _, m := range milestones {
		if m.IsCompleted() {
			continue
		}
		if m.DueDate >= from && m.DueDate <= to {
			out = append(out, m)
		}
	}
	return out
}

// EscalationMessages formats one alert per overdue milestone. Formatting is
// decoupled from sending so callers decide transport and batching.
func EscalationMessages(overdue []domain.Milestone) []string {
	messages := make([]string, 0, len(overdue))
	for _, m := range overdue {
		messages = append(messages, fmt.Sprintf("Escalation Alert: Milestone '%s' is overdue and non-compliant.", m.Title))
	}
	return messages
}

// ReminderMessage formats the reminder SMS for a single upcoming milestone.
func ReminderMessage(m domain.Milestone) string {
	return fmt.Sprintf("Reminder: Milestone '%s' is due on %s and is currently '%s'.", m.Title, m.DueDate, m.Status)
}

// StatusUpdateMessage formats the confirmation SMS sent after a status change.
func StatusUpdateMessage(m domain.Milestone) string {
	return fmt.Sprintf("Milestone '%s' updated to '%s'.", m.Title, m.Status)
}
