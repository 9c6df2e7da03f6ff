package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/comptrack/backend/domain"
	"github.com/comptrack/backend/repository"
)

type milestoneRepository struct {
	pool *pgxpool.Pool
}

// NewMilestoneRepository returns a Postgres-backed implementation of MilestoneRepository.
func NewMilestoneRepository(pool *pgxpool.Pool) repository.MilestoneRepository {
	return &milestoneRepository{pool: pool}
}

func (r *milestoneRepository) GetByID(ctx context.Context, id int64) (*domain.Milestone, error) {
	const query = `
	SELECT id, title, status, due_date, created_at, updated_at
	FROM milestones
	WHERE id = $1
	`
	row := r.pool.QueryRow(ctx, query, id)
	return scanMilestone(row)
}

func (r *milestoneRepository) List(ctx context.Context, filter repository.MilestoneFilter) ([]domain.Milestone, error) {
	const query = `
	SELECT id, title, status, due_date, created_at, updated_at
	FROM milestones
	WHERE ($1 = '' OR status = $1)
	ORDER BY id
	LIMIT $2 OFFSET $3
	`
	rows, err := r.pool.Query(ctx, query, filter.Status, clampLimit(filter.Limit), filter.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var milestones []domain.Milestone
	for rows.Next() {
		m, err := scanMilestone(rows)
		if err != nil {
			return nil, err
		}
		milestones = append(milestones, *m)
	}
	return milestones, rows.Err()
}

func (r *milestoneRepository) Create(ctx context.Context, milestone *domain.Milestone) (*domain.Milestone, error) {
	if milestone == nil {
		return nil, domain.ErrInvalidPayload
	}
	if milestone.Title == "" {
		return nil, domain.ErrEmptyTitle
	}
	due, err := domain.ParseDueDate(milestone.DueDate)
	if err != nil {
		return nil, err
	}
	if milestone.Status == "" {
		milestone.Status = domain.StatusPending
	}

	// Single-operator domain: the max+1 subselect is acceptable without a
	// sequence, last write wins under concurrent inserts.
	const query = `
	INSERT INTO milestones (id, title, status, due_date)
	VALUES ((SELECT COALESCE(MAX(id), 0) + 1 FROM milestones), $1, $2, $3)
	RETURNING id, created_at, updated_at
	`

	if err := r.pool.QueryRow(ctx, query,
		milestone.Title,
		string(milestone.Status),
		due,
	).Scan(&milestone.ID, &milestone.CreatedAt, &milestone.UpdatedAt); err != nil {
		return nil, err
	}

	milestone.DueDate = due
	return milestone, nil
}

func (r *milestoneRepository) UpdateStatus(ctx context.Context, id int64, status domain.Status) (*domain.Milestone, error) {
	const query = `
	UPDATE milestones
	SET status = $2,
		updated_at = NOW()
	WHERE id = $1
	RETURNING id, title, status, due_date, created_at, updated_at
	`
	row := r.pool.QueryRow(ctx, query, id, string(status))
	return scanMilestone(row)
}

func (r *milestoneRepository) BulkInsert(ctx context.Context, milestones []domain.Milestone) (int, error) {
	inserted := 0
	for i := range milestones {
		m := milestones[i]
		if _, err := r.Create(ctx, &m); err != nil {
			continue
		}
		inserted++
	}
	return inserted, nil
}

func scanMilestone(row interface {
	Scan(dest ...interface{}) error
}) (*domain.Milestone, error) {
	var m domain.Milestone
	var status string

	if err := row.Scan(
		&m.ID,
		&m.Title,
		&status,
		&m.DueDate,
		&m.CreatedAt,
		&m.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrMilestoneNotFound
		}
		return nil, err
	}

	m.Status = domain.Status(status)
	return &m, nil
}

func clampLimit(limit int) int {
	if limit <= 0 || limit > 500 {
		return 500
	}
	return limit
}
