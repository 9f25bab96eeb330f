package job

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/printchain/backend/internal/domain/job"
	"github.com/printchain/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockJobRepository struct {
	mock.Mock
}

func (m *mockJobRepository) FindByID(ctx context.Context, id uuid.UUID) (*job.Job, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*job.Job), args.Error(1)
}

func (m *mockJobRepository) FindByJobNo(ctx context.Context, jobNo string) (*job.Job, error) {
	args := m.Called(ctx, jobNo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*job.Job), args.Error(1)
}

func (m *mockJobRepository) FindAll(ctx context.Context, filter shared.Filter) ([]job.Job, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]job.Job), args.Error(1)
}

func (m *mockJobRepository) FindPage(ctx context.Context, page, pageSize int) ([]job.Job, error) {
	args := m.Called(ctx, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]job.Job), args.Error(1)
}

func (m *mockJobRepository) Save(ctx context.Context, j *job.Job) error {
	args := m.Called(ctx, j)
	return args.Error(0)
}

func (m *mockJobRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockJobRepository) ExistsByJobNo(ctx context.Context, jobNo string) (bool, error) {
	args := m.Called(ctx, jobNo)
	return args.Bool(0), args.Error(1)
}

func (m *mockJobRepository) GenerateJobNumber(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

type mockLedger struct {
	mock.Mock
}

func (m *mockLedger) RecalculateJobFromPOs(ctx context.Context, jobID uuid.UUID) error {
	args := m.Called(ctx, jobID)
	return args.Error(0)
}

func newServiceFixture(t *testing.T) (*Service, *mockJobRepository, *mockLedger) {
	t.Helper()
	repo := new(mockJobRepository)
	ledger := new(mockLedger)
	return NewService(repo, ledger, zap.NewNop()), repo, ledger
}

func newStoredJob(t *testing.T, customerTotal float64) *job.Job {
	t.Helper()
	j, err := job.NewJob("JOB-2026-00007", uuid.New(),
		decimal.NewFromFloat(customerTotal), decimal.Zero, decimal.Zero, false, false)
	require.NoError(t, err)
	j.ClearDomainEvents()
	return j
}

func TestService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("creates a pending job with a generated number", func(t *testing.T) {
		svc, repo, _ := newServiceFixture(t)

		repo.On("GenerateJobNumber", ctx).Return("JOB-2026-00001", nil)
		repo.On("Save", ctx, mock.AnythingOfType("*job.Job")).Return(nil)

		resp, err := svc.Create(ctx, CreateJobRequest{
			CustomerID:    uuid.New(),
			CustomerTotal: decimal.NewFromInt(500),
		})
		require.NoError(t, err)

		assert.Equal(t, "JOB-2026-00001", resp.JobNo)
		assert.Equal(t, job.StatusPending, resp.Status)
		assert.True(t, resp.CustomerTotal.Equal(decimal.NewFromInt(500)))
	})

	t.Run("rejects both routing flags set", func(t *testing.T) {
		svc, repo, _ := newServiceFixture(t)

		repo.On("GenerateJobNumber", ctx).Return("JOB-2026-00002", nil)

		_, err := svc.Create(ctx, CreateJobRequest{
			CustomerID:                uuid.New(),
			JDSuppliesPaper:           true,
			BradfordWaivesPaperMargin: true,
		})
		require.Error(t, err)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "VALIDATION_ERROR", domainErr.Code)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestService_AdvanceStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("advances a pending job into production", func(t *testing.T) {
		svc, repo, _ := newServiceFixture(t)

		j := newStoredJob(t, 500)
		repo.On("FindByID", ctx, j.ID).Return(j, nil)
		repo.On("Save", ctx, j).Return(nil)

		resp, err := svc.AdvanceStatus(ctx, j.ID, job.StatusInProduction)
		require.NoError(t, err)
		assert.Equal(t, job.StatusInProduction, resp.Status)
	})

	t.Run("cannot advance directly to completed", func(t *testing.T) {
		svc, repo, _ := newServiceFixture(t)

		j := newStoredJob(t, 500)
		repo.On("FindByID", ctx, j.ID).Return(j, nil)

		_, err := svc.AdvanceStatus(ctx, j.ID, job.StatusCompleted)
		require.Error(t, err)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_STATE", domainErr.Code)
	})

	t.Run("cannot move backwards", func(t *testing.T) {
		svc, repo, _ := newServiceFixture(t)

		j := newStoredJob(t, 500)
		require.NoError(t, j.AdvanceTo(job.StatusReadyForProof))
		repo.On("FindByID", ctx, j.ID).Return(j, nil)

		_, err := svc.AdvanceStatus(ctx, j.ID, job.StatusInProduction)
		require.Error(t, err)
	})
}

func TestService_Cancel(t *testing.T) {
	ctx := context.Background()

	t.Run("cancels with a reason", func(t *testing.T) {
		svc, repo, _ := newServiceFixture(t)

		j := newStoredJob(t, 500)
		repo.On("FindByID", ctx, j.ID).Return(j, nil)
		repo.On("Save", ctx, j).Return(nil)

		resp, err := svc.Cancel(ctx, j.ID, "customer withdrew")
		require.NoError(t, err)
		assert.Equal(t, job.StatusCancelled, resp.Status)
		assert.Equal(t, "customer withdrew", resp.CancelReason)
	})

	t.Run("requires a reason", func(t *testing.T) {
		svc, repo, _ := newServiceFixture(t)

		j := newStoredJob(t, 500)
		repo.On("FindByID", ctx, j.ID).Return(j, nil)

		_, err := svc.Cancel(ctx, j.ID, "")
		require.Error(t, err)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestService_UpdateFinancials(t *testing.T) {
	ctx := context.Background()

	t.Run("updates inputs and re-runs the ledger", func(t *testing.T) {
		svc, repo, ledger := newServiceFixture(t)

		j := newStoredJob(t, 500)
		repo.On("FindByID", ctx, j.ID).Return(j, nil)
		repo.On("Save", ctx, j).Return(nil)
		ledger.On("RecalculateJobFromPOs", ctx, j.ID).Return(nil)

		newTotal := decimal.NewFromInt(800)
		resp, err := svc.UpdateFinancials(ctx, j.ID, UpdateJobFinancialsRequest{CustomerTotal: &newTotal})
		require.NoError(t, err)

		assert.True(t, resp.CustomerTotal.Equal(decimal.NewFromInt(800)))
		ledger.AssertNumberOfCalls(t, "RecalculateJobFromPOs", 1)
	})

	t.Run("rejects edits on a terminal job", func(t *testing.T) {
		svc, repo, ledger := newServiceFixture(t)

		j := newStoredJob(t, 500)
		require.NoError(t, j.Cancel("withdrawn"))
		repo.On("FindByID", ctx, j.ID).Return(j, nil)

		newTotal := decimal.NewFromInt(800)
		_, err := svc.UpdateFinancials(ctx, j.ID, UpdateJobFinancialsRequest{CustomerTotal: &newTotal})
		require.Error(t, err)
		ledger.AssertNotCalled(t, "RecalculateJobFromPOs", mock.Anything, mock.Anything)
	})
}
