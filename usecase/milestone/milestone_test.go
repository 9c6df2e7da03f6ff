package milestone

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comptrack/backend/domain"
	"github.com/comptrack/backend/repository"
)

// fakeRepo is an in-memory MilestoneRepository mirroring the store contract:
// insertion order preserved, ids assigned as max+1.
type fakeRepo struct {
	milestones []domain.Milestone
	failWith   error
}

func (f *fakeRepo) GetByID(_ context.Context, id int64) (*domain.Milestone, error) {
	for i := range f.milestones {
		if f.milestones[i].ID == id {
			m := f.milestones[i]
			return &m, nil
		}
	}
	return nil, domain.ErrMilestoneNotFound
}

func (f *fakeRepo) List(_ context.Context, filter repository.MilestoneFilter) ([]domain.Milestone, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	out := make([]domain.Milestone, 0, len(f.milestones))
	for _, m := range f.milestones {
		if filter.Status != "" && string(m.Status) != filter.Status {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

func (f *fakeRepo) Create(_ context.Context, m *domain.Milestone) (*domain.Milestone, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	var maxID int64
	for _, existing := range f.milestones {
		if existing.ID > maxID {
			maxID = existing.ID
		}
	}
	m.ID = maxID + 1
	f.milestones = append(f.milestones, *m)
	return m, nil
}

func (f *fakeRepo) UpdateStatus(_ context.Context, id int64, status domain.Status) (*domain.Milestone, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	for i := range f.milestones {
		if f.milestones[i].ID == id {
			f.milestones[i].Status = status
			m := f.milestones[i]
			return &m, nil
		}
	}
	return nil, domain.ErrMilestoneNotFound
}

func (f *fakeRepo) BulkInsert(ctx context.Context, ms []domain.Milestone) (int, error) {
	inserted := 0
	for i := range ms {
		if _, err := f.Create(ctx, &ms[i]); err != nil {
			continue
		}
		inserted++
	}
	return inserted, nil
}

type fakeBuffer struct {
	ops []string
}

func (f *fakeBuffer) BufferMilestone(_ context.Context, operation string, _ *domain.Milestone) error {
	f.ops = append(f.ops, operation)
	return nil
}

func TestAdd_AssignsSequentialIDs(t *testing.T) {
	repo := &fakeRepo{}
	uc := New(repo, nil, nil)
	ctx := context.Background()

	first, err := uc.Add(ctx, "Submit report", "2024-01-10", "")
	require.NoError(t, err)
	assert.Equal(t, int64(1), first.ID)
	assert.Equal(t, domain.StatusPending, first.Status)
	assert.Equal(t, "2024-01-10", first.DueDate)

	second, err := uc.Add(ctx, "File audit", "2024-02-01", domain.StatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, int64(2), second.ID)
	assert.Equal(t, domain.StatusCompleted, second.Status)

	list, err := uc.List(ctx, repository.MilestoneFilter{})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Submit report", list[0].Title)
}

func TestAdd_EmptyTitle(t *testing.T) {
	repo := &fakeRepo{}
	uc := New(repo, nil, nil)

	_, err := uc.Add(context.Background(), "", "2024-01-10", "")
	require.Error(t, err)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid))
	assert.Empty(t, repo.milestones)
}

func TestAdd_BadDueDate(t *testing.T) {
	repo := &fakeRepo{}
	uc := New(repo, nil, nil)

	_, err := uc.Add(context.Background(), "Submit report", "10/01/2024", "")
	require.Error(t, err)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid))
	assert.Empty(t, repo.milestones)
}

func TestAdd_BuffersOnStoreFailure(t *testing.T) {
	repo := &fakeRepo{failWith: errors.New("connection refused")}
	buf := &fakeBuffer{}
	uc := New(repo, buf, nil)

	m, err := uc.Add(context.Background(), "Submit report", "2024-01-10", "")
	require.NoError(t, err)
	assert.Equal(t, "Submit report", m.Title)
	assert.Equal(t, []string{"create"}, buf.ops)
}

func TestUpdateStatus_UnknownID(t *testing.T) {
	repo := &fakeRepo{milestones: []domain.Milestone{
		{ID: 1, Title: "Submit report", Status: domain.StatusPending, DueDate: "2024-01-10"},
	}}
	uc := New(repo, nil, nil)

	_, err := uc.UpdateStatus(context.Background(), 42, domain.StatusCompleted)
	require.Error(t, err)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeNotFound))

	// Store unchanged after the failed call.
	assert.Equal(t, domain.StatusPending, repo.milestones[0].Status)
}

func TestUpdateStatus_Persists(t *testing.T) {
	repo := &fakeRepo{milestones: []domain.Milestone{
		{ID: 1, Title: "Submit report", Status: domain.StatusPending, DueDate: "2024-01-10"},
	}}
	uc := New(repo, nil, nil)

	updated, err := uc.UpdateStatus(context.Background(), 1, domain.StatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, updated.Status)
	assert.Equal(t, domain.StatusCompleted, repo.milestones[0].Status)
}

func TestImport_SkipsMalformedLines(t *testing.T) {
	repo := &fakeRepo{}
	uc := New(repo, nil, nil)

	text := "1 Submit report Pending 2024-01-10\n2 broken\n3 File audit Completed 2024-02-01\n"
	count, err := uc.Import(context.Background(), text)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	require.Len(t, repo.milestones, 2)
	assert.Equal(t, int64(1), repo.milestones[0].ID)
	assert.Equal(t, int64(2), repo.milestones[1].ID)
}

func TestReport_EmptyStore(t *testing.T) {
	uc := New(&fakeRepo{}, nil, nil)

	report, err := uc.Report(context.Background(), time.Now(), 7)
	require.NoError(t, err)
	assert.Equal(t, 0.0, report.Score)
	assert.Zero(t, report.Total)
	assert.Empty(t, report.Overdue)
	assert.Empty(t, report.Upcoming)
}

func TestReport_OverdueClearsAfterCompletion(t *testing.T) {
	repo := &fakeRepo{milestones: []domain.Milestone{
		{ID: 1, Title: "Submit report", Status: domain.StatusPending, DueDate: "2024-01-05"},
		{ID: 2, Title: "File audit", Status: domain.StatusCompleted, DueDate: "2024-01-20"},
	}}
	uc := New(repo, nil, nil)
	ctx := context.Background()

	asOf, err := time.Parse(domain.DateLayout, "2024-01-10")
	require.NoError(t, err)

	report, err := uc.Report(ctx, asOf, 7)
	require.NoError(t, err)
	assert.Equal(t, 50.0, report.Score)
	require.Len(t, report.Overdue, 1)
	assert.Equal(t, int64(1), report.Overdue[0].ID)

	_, err = uc.UpdateStatus(ctx, 1, domain.StatusCompleted)
	require.NoError(t, err)

	report, err = uc.Report(ctx, asOf, 7)
	require.NoError(t, err)
	assert.Equal(t, 100.0, report.Score)
	assert.Empty(t, report.Overdue)
}
