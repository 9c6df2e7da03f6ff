package milestone

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/comptrack/backend/compliance"
	"github.com/comptrack/backend/domain"
	"github.com/comptrack/backend/importer"
	"github.com/comptrack/backend/repository"
	"github.com/comptrack/backend/usecase"
)

type UseCase struct {
	milestones repository.MilestoneRepository
	buffer     usecase.OperationBuffer
	logger     *zap.Logger
}

// Report is the derived dashboard view over one milestone snapshot.
type Report struct {
	Score    float64            `json:"score"`
	Total    int                `json:"total"`
	Overdue  []domain.Milestone `json:"overdue"`
	Upcoming []domain.Milestone `json:"upcoming"`
}

func New(milestones repository.MilestoneRepository, buffer usecase.OperationBuffer, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		milestones: milestones,
		buffer:     buffer,
		logger:     logger,
	}
}

func (uc *UseCase) List(ctx context.Context, filter repository.MilestoneFilter) ([]domain.Milestone, error) {
	return uc.milestones.List(ctx, filter)
}

func (uc *UseCase) Get(ctx context.Context, id int64) (*domain.Milestone, error) {
	return uc.milestones.GetByID(ctx, id)
}

// Add validates the submitted fields and persists a new milestone. The store
// assigns the id.
func (uc *UseCase) Add(ctx context.Context, title, dueDate string, status domain.Status) (*domain.Milestone, error) {
	if title == "" {
		return nil, domain.ErrEmptyTitle
	}
	due, err := domain.ParseDueDate(dueDate)
	if err != nil {
		return nil, err
	}
	if status == "" {
		status = domain.StatusPending
	}

	m := &domain.Milestone{
		Title:   title,
		Status:  status,
		DueDate: due,
	}

	created, err := uc.milestones.Create(ctx, m)
	if err != nil {
		if uc.shouldBuffer(ctx, usecase.OperationCreate, m, err) {
			return m, nil
		}
		return nil, err
	}
	return created, nil
}

// UpdateStatus transitions a milestone to any status. Transitions are
// unconstrained; only unknown ids fail.
func (uc *UseCase) UpdateStatus(ctx context.Context, id int64, status domain.Status) (*domain.Milestone, error) {
	updated, err := uc.milestones.UpdateStatus(ctx, id, status)
	if err != nil {
		if domain.IsDomainError(err, domain.ErrCodeNotFound) {
			return nil, err
		}
		m := &domain.Milestone{ID: id, Status: status}
		if uc.shouldBuffer(ctx, usecase.OperationUpdateStatus, m, err) {
			return m, nil
		}
		return nil, err
	}
	return updated, nil
}

// Import parses unstructured document text and inserts every well-formed
// record. Malformed lines are dropped; the returned count covers inserted
// rows only.
func (uc *UseCase) Import(ctx context.Context, text string) (int, error) {
	res := importer.ParseString(text)
	if len(res.Records) == 0 {
		uc.logger.Info("bulk import produced no records", zap.Int("skipped", res.Skipped))
		return 0, nil
	}

	milestones := make([]domain.Milestone, 0, len(res.Records))
	for _, rec := range res.Records {
		milestones = append(milestones, domain.Milestone{
			Title:   rec.Title,
			Status:  rec.Status,
			DueDate: rec.DueDate,
		})
	}

	inserted, err := uc.milestones.BulkInsert(ctx, milestones)
	if err != nil {
		return inserted, err
	}

	uc.logger.Info("bulk import finished",
		zap.Int("inserted", inserted),
		zap.Int("skipped", res.Skipped))
	return inserted, nil
}

// Report computes the compliance view for the full milestone collection.
func (uc *UseCase) Report(ctx context.Context, asOf time.Time, horizonDays int) (*Report, error) {
	milestones, err := uc.milestones.List(ctx, repository.MilestoneFilter{})
	if err != nil {
		return nil, err
	}
	return &Report{
		Score:    compliance.Score(milestones),
		Total:    len(milestones),
		Overdue:  compliance.Overdue(milestones, asOf),
		Upcoming: compliance.Upcoming(milestones, asOf, horizonDays),
	}, nil
}

func (uc *UseCase) shouldBuffer(ctx context.Context, operation string, m *domain.Milestone, cause error) bool {
	if uc.buffer == nil {
		return false
	}
	if err := uc.buffer.BufferMilestone(ctx, operation, m); err != nil {
		uc.logger.Error("failed to buffer milestone operation",
			zap.String("operation", operation),
			zap.Error(err))
		return false
	}
	uc.logger.Warn("milestone operation buffered",
		zap.String("operation", operation),
		zap.Error(cause))
	return true
}
