package billing

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/printchain/backend/internal/domain/billing"
	"github.com/printchain/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newLedgerFixture(t *testing.T) (*LedgerService, *mockJobRepository, *mockPurchaseOrderRepository) {
	t.Helper()
	jobRepo := new(mockJobRepository)
	poRepo := new(mockPurchaseOrderRepository)
	svc := NewLedgerService(jobRepo, poRepo, NewJobLocks(), zap.NewNop())
	return svc, jobRepo, poRepo
}

func TestLedgerService_RecalculateJobFromPOs(t *testing.T) {
	ctx := context.Background()

	t.Run("derives totals and margins from purchase orders", func(t *testing.T) {
		svc, jobRepo, poRepo := newLedgerFixture(t)

		j := newTestJob(1000)
		j.PaperCostTotal = decimal.NewFromInt(80)
		j.PaperChargedTotal = decimal.NewFromInt(100)

		jobRepo.On("FindByID", ctx, j.ID).Return(j, nil)
		poRepo.On("SumVendorAmountForLeg", ctx, j.ID, billing.LegImpactToBradford).Return(decimal.NewFromInt(700), nil)
		poRepo.On("SumVendorAmountForLeg", ctx, j.ID, billing.LegBradfordToJD).Return(decimal.NewFromInt(400), nil)
		jobRepo.On("Save", ctx, j).Return(nil)

		err := svc.RecalculateJobFromPOs(ctx, j.ID)
		require.NoError(t, err)

		assert.True(t, j.BradfordTotal.Equal(decimal.NewFromInt(700)))
		assert.True(t, j.JDTotal.Equal(decimal.NewFromInt(400)))
		// default routing: impact = (1000-400-100)/2 = 250, bradford = 1000-400-80-250 = 270
		assert.True(t, j.ImpactMargin.Equal(decimal.NewFromInt(250)), "impact margin = %s", j.ImpactMargin)
		assert.True(t, j.BradfordTotalMargin.Equal(decimal.NewFromInt(270)), "bradford margin = %s", j.BradfordTotalMargin)
		assert.True(t, j.BradfordPaperMargin.Equal(decimal.NewFromInt(20)))
		assert.True(t, j.BradfordPrintMargin.Equal(decimal.NewFromInt(250)))
	})

	t.Run("is idempotent with unchanged purchase orders", func(t *testing.T) {
		svc, jobRepo, poRepo := newLedgerFixture(t)

		j := newTestJob(1000)
		jobRepo.On("FindByID", ctx, j.ID).Return(j, nil)
		poRepo.On("SumVendorAmountForLeg", ctx, j.ID, billing.LegImpactToBradford).Return(decimal.NewFromInt(600), nil)
		poRepo.On("SumVendorAmountForLeg", ctx, j.ID, billing.LegBradfordToJD).Return(decimal.NewFromInt(300), nil)
		jobRepo.On("Save", ctx, j).Return(nil)

		require.NoError(t, svc.RecalculateJobFromPOs(ctx, j.ID))
		firstImpact := j.ImpactMargin
		firstBradford := j.BradfordTotalMargin

		require.NoError(t, svc.RecalculateJobFromPOs(ctx, j.ID))
		assert.True(t, j.ImpactMargin.Equal(firstImpact))
		assert.True(t, j.BradfordTotalMargin.Equal(firstBradford))
		assert.True(t, j.BradfordTotal.Equal(decimal.NewFromInt(600)))
	})

	t.Run("returns not found for unknown job", func(t *testing.T) {
		svc, jobRepo, poRepo := newLedgerFixture(t)

		jobID := uuid.New()
		jobRepo.On("FindByID", ctx, jobID).Return(nil, shared.ErrNotFound)

		err := svc.RecalculateJobFromPOs(ctx, jobID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
		poRepo.AssertNotCalled(t, "SumVendorAmountForLeg", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("does not persist when the margin comes out negative", func(t *testing.T) {
		svc, jobRepo, poRepo := newLedgerFixture(t)

		j := newTestJob(100)
		jobRepo.On("FindByID", ctx, j.ID).Return(j, nil)
		poRepo.On("SumVendorAmountForLeg", ctx, j.ID, billing.LegImpactToBradford).Return(decimal.NewFromInt(90), nil)
		poRepo.On("SumVendorAmountForLeg", ctx, j.ID, billing.LegBradfordToJD).Return(decimal.NewFromInt(400), nil)

		err := svc.RecalculateJobFromPOs(ctx, j.ID)
		assert.ErrorIs(t, err, billing.ErrNegativeMargin)
		jobRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}
