package job

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJob(t *testing.T) *Job {
	t.Helper()
	j, err := NewJob("JOB-2026-00001", uuid.New(),
		decimal.NewFromInt(1000), decimal.NewFromInt(80), decimal.NewFromInt(100), false, false)
	require.NoError(t, err)
	return j
}

func TestNewJob(t *testing.T) {
	t.Run("creates a pending job", func(t *testing.T) {
		j := newTestJob(t)
		assert.Equal(t, StatusPending, j.Status)
		assert.True(t, j.CustomerTotal.Equal(decimal.NewFromInt(1000)))
		assert.True(t, j.BradfordTotal.IsZero())
		assert.Len(t, j.GetDomainEvents(), 1)
	})

	t.Run("rejects empty job number", func(t *testing.T) {
		_, err := NewJob("", uuid.New(), decimal.Zero, decimal.Zero, decimal.Zero, false, false)
		require.Error(t, err)
	})

	t.Run("rejects nil customer", func(t *testing.T) {
		_, err := NewJob("JOB-2026-00002", uuid.Nil, decimal.Zero, decimal.Zero, decimal.Zero, false, false)
		require.Error(t, err)
	})

	t.Run("rejects both routing flags", func(t *testing.T) {
		_, err := NewJob("JOB-2026-00003", uuid.New(), decimal.Zero, decimal.Zero, decimal.Zero, true, true)
		require.Error(t, err)
	})
}

func TestStatusCanTransitionTo(t *testing.T) {
	t.Run("lifecycle is monotonic", func(t *testing.T) {
		assert.True(t, StatusPending.CanTransitionTo(StatusInProduction))
		assert.True(t, StatusPending.CanTransitionTo(StatusProofApproved))
		assert.True(t, StatusInProduction.CanTransitionTo(StatusReadyForProof))
		assert.False(t, StatusInProduction.CanTransitionTo(StatusPending))
		assert.False(t, StatusProofApproved.CanTransitionTo(StatusInProduction))
	})

	t.Run("cancel from any non-terminal stage", func(t *testing.T) {
		assert.True(t, StatusPending.CanTransitionTo(StatusCancelled))
		assert.True(t, StatusProofApproved.CanTransitionTo(StatusCancelled))
		assert.False(t, StatusCompleted.CanTransitionTo(StatusCancelled))
		assert.False(t, StatusCancelled.CanTransitionTo(StatusPending))
	})

	t.Run("in production or later", func(t *testing.T) {
		assert.False(t, StatusPending.InProductionOrLater())
		assert.True(t, StatusInProduction.InProductionOrLater())
		assert.True(t, StatusReadyForProof.InProductionOrLater())
		assert.True(t, StatusProofApproved.InProductionOrLater())
		assert.True(t, StatusCompleted.InProductionOrLater())
	})
}

func TestJobAdvanceTo(t *testing.T) {
	t.Run("advances through the lifecycle", func(t *testing.T) {
		j := newTestJob(t)
		require.NoError(t, j.AdvanceTo(StatusInProduction))
		require.NoError(t, j.AdvanceTo(StatusReadyForProof))
		require.NoError(t, j.AdvanceTo(StatusProofApproved))
		assert.Equal(t, StatusProofApproved, j.Status)
	})

	t.Run("cannot move backward", func(t *testing.T) {
		j := newTestJob(t)
		require.NoError(t, j.AdvanceTo(StatusReadyForProof))
		require.Error(t, j.AdvanceTo(StatusInProduction))
	})

	t.Run("completion is reserved for chain generation", func(t *testing.T) {
		j := newTestJob(t)
		require.Error(t, j.AdvanceTo(StatusCompleted))
	})

	t.Run("cancellation goes through Cancel", func(t *testing.T) {
		j := newTestJob(t)
		require.Error(t, j.AdvanceTo(StatusCancelled))
		require.NoError(t, j.Cancel("customer withdrew"))
		assert.Equal(t, StatusCancelled, j.Status)
		assert.NotNil(t, j.CancelledAt)
	})
}

func TestJobComplete(t *testing.T) {
	j := newTestJob(t)
	require.NoError(t, j.AdvanceTo(StatusProofApproved))
	require.NoError(t, j.Complete())
	assert.Equal(t, StatusCompleted, j.Status)
	assert.NotNil(t, j.CompletedAt)

	t.Run("terminal job rejects further transitions", func(t *testing.T) {
		require.Error(t, j.Complete())
		require.Error(t, j.Cancel("too late"))
		require.Error(t, j.ChangeCustomerTotal(decimal.NewFromInt(1)))
	})
}

func TestJobApplyDerivedFinancials(t *testing.T) {
	j := newTestJob(t)
	before := j.Version

	j.ApplyDerivedFinancials(
		decimal.NewFromInt(700), decimal.NewFromInt(400),
		decimal.NewFromInt(250), decimal.NewFromInt(270),
		decimal.NewFromInt(20), decimal.NewFromInt(250))

	assert.True(t, j.BradfordTotal.Equal(decimal.NewFromInt(700)))
	assert.True(t, j.JDTotal.Equal(decimal.NewFromInt(400)))
	assert.True(t, j.ImpactMargin.Equal(decimal.NewFromInt(250)))
	assert.True(t, j.BradfordTotalMargin.Equal(decimal.NewFromInt(270)))
	assert.True(t, j.BradfordPaperMargin.Equal(decimal.NewFromInt(20)))
	assert.True(t, j.BradfordPrintMargin.Equal(decimal.NewFromInt(250)))
	assert.Equal(t, before+1, j.Version)
}

func TestJobChangeAmounts(t *testing.T) {
	j := newTestJob(t)

	require.NoError(t, j.ChangeCustomerTotal(decimal.NewFromInt(1200)))
	assert.True(t, j.CustomerTotal.Equal(decimal.NewFromInt(1200)))

	require.NoError(t, j.ChangePaperAmounts(decimal.NewFromInt(90), decimal.NewFromInt(110)))
	assert.True(t, j.PaperCostTotal.Equal(decimal.NewFromInt(90)))
	assert.True(t, j.PaperChargedTotal.Equal(decimal.NewFromInt(110)))

	require.Error(t, j.ChangeCustomerTotal(decimal.NewFromInt(-1)))
	require.Error(t, j.ChangePaperAmounts(decimal.NewFromInt(-1), decimal.Zero))
}
