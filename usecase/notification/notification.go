package notification

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/comptrack/backend/compliance"
	"github.com/comptrack/backend/domain"
	"github.com/comptrack/backend/notify"
	"github.com/comptrack/backend/repository"
)

// Config collapses the source revisions' delivery variants into options:
// one aggregated SMS versus one SMS per milestone, and the default recipient
// used when the session carries no phone number.
type Config struct {
	DefaultRecipient string
	Bulk             bool
	HorizonDays      int
}

type UseCase struct {
	milestones repository.MilestoneRepository
	gateway    notify.Gateway
	cfg        Config
	logger     *zap.Logger
}

// Summary reports the outcome of one notification run. Each send is a single
// attempt; failures are collected, never retried.
type Summary struct {
	Destination string   `json:"destination"`
	Attempted   int      `json:"attempted"`
	Sent        int      `json:"sent"`
	Failed      int      `json:"failed"`
	Errors      []string `json:"errors,omitempty"`
}

func New(milestones repository.MilestoneRepository, gateway notify.Gateway, cfg Config, logger *zap.Logger) *UseCase {
	if cfg.HorizonDays <= 0 {
		cfg.HorizonDays = compliance.DefaultHorizonDays
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		milestones: milestones,
		gateway:    gateway,
		cfg:        cfg,
		logger:     logger,
	}
}

// EscalateOverdue sends an escalation alert for every overdue milestone.
// recipient overrides the configured default when non-empty.
func (uc *UseCase) EscalateOverdue(ctx context.Context, asOf time.Time, recipient string) (*Summary, error) {
	milestones, err := uc.milestones.List(ctx, repository.MilestoneFilter{})
	if err != nil {
		return nil, err
	}

	overdue := compliance.Overdue(milestones, asOf)
	messages := compliance.EscalationMessages(overdue)
	return uc.deliver(ctx, messages, recipient), nil
}

// RemindUpcoming sends a reminder for every milestone inside the upcoming window.
func (uc *UseCase) RemindUpcoming(ctx context.Context, asOf time.Time, recipient string) (*Summary, error) {
	milestones, err := uc.milestones.List(ctx, repository.MilestoneFilter{})
	if err != nil {
		return nil, err
	}

	upcoming := compliance.Upcoming(milestones, asOf, uc.cfg.HorizonDays)
	messages := make([]string, 0, len(upcoming))
	for _, m := range upcoming {
		messages = append(messages, compliance.ReminderMessage(m))
	}
	return uc.deliver(ctx, messages, recipient), nil
}

// RemindMilestone sends one reminder for a single milestone by id.
func (uc *UseCase) RemindMilestone(ctx context.Context, id int64, recipient string) (*Summary, error) {
	m, err := uc.milestones.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return uc.deliver(ctx, []string{compliance.ReminderMessage(*m)}, recipient), nil
}

// ConfirmStatusUpdate sends the status-change confirmation SMS. A failure is
// reported to the caller but must never roll back the update itself.
func (uc *UseCase) ConfirmStatusUpdate(ctx context.Context, m domain.Milestone, recipient string) error {
	dest := uc.destination(recipient)
	_, err := uc.gateway.Send(ctx, compliance.StatusUpdateMessage(m), dest)
	if err != nil {
		uc.logger.Warn("status update confirmation failed",
			zap.Int64("milestone_id", m.ID),
			zap.Error(err))
	}
	return err
}

func (uc *UseCase) deliver(ctx context.Context, messages []string, recipient string) *Summary {
	dest := uc.destination(recipient)
	summary := &Summary{Destination: dest}
	if len(messages) == 0 {
		return summary
	}

	if uc.cfg.Bulk {
		messages = []string{strings.Join(messages, "\n")}
	}

	for _, msg := range messages {
		summary.Attempted++
		if _, err := uc.gateway.Send(ctx, msg, dest); err != nil {
			summary.Failed++
			summary.Errors = append(summary.Errors, err.Error())
			uc.logger.Warn("sms send failed", zap.Error(err))
			continue
		}
		summary.Sent++
	}

	uc.logger.Info("notification run finished",
		zap.Int("attempted", summary.Attempted),
		zap.Int("sent", summary.Sent),
		zap.Int("failed", summary.Failed))
	return summary
}

func (uc *UseCase) destination(override string) string {
	if override != "" {
		return override
	}
	return uc.cfg.DefaultRecipient
}
