package billing

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestInvoice(t *testing.T) *Invoice {
	t.Helper()
	jobID := uuid.New()
	inv, err := NewInvoice("INV-2026-00001", &jobID, CompanyBradford, CompanyImpactDirect,
		decimal.NewFromInt(700), nil)
	require.NoError(t, err)
	return inv
}

func TestNewInvoice(t *testing.T) {
	t.Run("creates an invoice on a billing leg", func(t *testing.T) {
		inv := newTestInvoice(t)
		assert.Equal(t, InvoiceLegBradfordToImpact, inv.Leg())
		assert.False(t, inv.IsPaid())
		assert.False(t, inv.IssuedAt.IsZero())
		assert.Len(t, inv.GetDomainEvents(), 1)
	})

	t.Run("rejects empty invoice number", func(t *testing.T) {
		_, err := NewInvoice("", nil, CompanyBradford, CompanyImpactDirect, decimal.Zero, nil)
		require.Error(t, err)
	})

	t.Run("rejects self-billing", func(t *testing.T) {
		_, err := NewInvoice("INV-2026-00002", nil, CompanyBradford, CompanyBradford, decimal.Zero, nil)
		require.Error(t, err)
	})

	t.Run("rejects negative amount", func(t *testing.T) {
		_, err := NewInvoice("INV-2026-00003", nil, CompanyBradford, CompanyImpactDirect, decimal.NewFromInt(-1), nil)
		require.Error(t, err)
	})
}

func TestInvoiceChangeAmount(t *testing.T) {
	t.Run("updates amount", func(t *testing.T) {
		inv := newTestInvoice(t)
		require.NoError(t, inv.ChangeAmount(decimal.NewFromInt(725)))
		assert.True(t, inv.Amount.Equal(decimal.NewFromInt(725)))
	})

	t.Run("rejects edits on a paid invoice", func(t *testing.T) {
		inv := newTestInvoice(t)
		require.NoError(t, inv.MarkPaid(time.Now()))
		require.Error(t, inv.ChangeAmount(decimal.NewFromInt(725)))
	})
}

func TestInvoiceApplySyncedAmount(t *testing.T) {
	inv := newTestInvoice(t)
	inv.ClearDomainEvents()

	inv.ApplySyncedAmount(decimal.NewFromInt(725))

	assert.True(t, inv.Amount.Equal(decimal.NewFromInt(725)))
	assert.Empty(t, inv.GetDomainEvents())
}

func TestInvoiceMarkPaid(t *testing.T) {
	t.Run("sets paidAt once", func(t *testing.T) {
		inv := newTestInvoice(t)
		paidAt := time.Now()
		require.NoError(t, inv.MarkPaid(paidAt))
		assert.True(t, inv.IsPaid())
	})

	t.Run("second call fails and does not reset", func(t *testing.T) {
		inv := newTestInvoice(t)
		first := time.Now()
		require.NoError(t, inv.MarkPaid(first))
		err := inv.MarkPaid(time.Now().Add(time.Hour))
		require.Error(t, err)
		assert.Equal(t, first, *inv.PaidAt)
	})
}

func TestInvoiceIsOverdue(t *testing.T) {
	inv := newTestInvoice(t)
	now := time.Now()

	t.Run("no due date", func(t *testing.T) {
		assert.False(t, inv.IsOverdue(now))
	})

	t.Run("past due and unpaid", func(t *testing.T) {
		require.NoError(t, inv.SetDueDate(now.Add(-24*time.Hour)))
		assert.True(t, inv.IsOverdue(now))
	})

	t.Run("past due but paid", func(t *testing.T) {
		require.NoError(t, inv.MarkPaid(now))
		assert.False(t, inv.IsOverdue(now))
	})
}

func TestNewSyncLog(t *testing.T) {
	t.Run("creates an entry with documents", func(t *testing.T) {
		poID := uuid.New()
		invID := uuid.New()
		jobID := uuid.New()

		log, err := NewSyncLog(SyncTriggerPOUpdate, "vendor_amount", "700", "725")
		require.NoError(t, err)
		log.WithDocuments(&poID, &invID, &jobID).WithChangedBy("ops@impactdirect.example")

		assert.Equal(t, SyncTriggerPOUpdate, log.Trigger)
		assert.Equal(t, "700", log.OldValue)
		assert.Equal(t, "725", log.NewValue)
		assert.Equal(t, &jobID, log.JobID)
	})

	t.Run("rejects unknown trigger", func(t *testing.T) {
		_, err := NewSyncLog("SOMETHING_ELSE", "amount", "1", "2")
		require.Error(t, err)
	})

	t.Run("rejects empty field", func(t *testing.T) {
		_, err := NewSyncLog(SyncTriggerInvoiceUpdate, "", "1", "2")
		require.Error(t, err)
	})
}
