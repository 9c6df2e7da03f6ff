package repository

import (
	"context"

	"github.com/comptrack/backend/domain"
)

type MilestoneFilter struct {
	Status string
	Limit  int
	Offset int
}

type MilestoneRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Milestone, error)
	// List returns milestones in insertion order.
	List(ctx context.Context, filter MilestoneFilter) ([]domain.Milestone, error)
	// Create assigns the next integer id (max existing + 1, or 1 if empty).
	Create(ctx context.Context, milestone *domain.Milestone) (*domain.Milestone, error)
	UpdateStatus(ctx context.Context, id int64, status domain.Status) (*domain.Milestone, error)
	// BulkInsert is best-effort: each record gets a fresh id, failures are
	// skipped, and the inserted count is returned.
	BulkInsert(ctx context.Context, milestones []domain.Milestone) (int, error)
}
