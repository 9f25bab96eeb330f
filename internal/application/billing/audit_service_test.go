package billing

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/printchain/backend/internal/domain/billing"
	"github.com/printchain/backend/internal/domain/job"
	"github.com/printchain/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type auditFixture struct {
	svc         *AuditService
	jobRepo     *mockJobRepository
	poRepo      *mockPurchaseOrderRepository
	invoiceRepo *mockInvoiceRepository
}

func newAuditFixture(t *testing.T) *auditFixture {
	t.Helper()
	f := &auditFixture{
		jobRepo:     new(mockJobRepository),
		poRepo:      new(mockPurchaseOrderRepository),
		invoiceRepo: new(mockInvoiceRepository),
	}
	f.svc = NewAuditService(f.jobRepo, f.poRepo, f.invoiceRepo, zap.NewNop(), DefaultAuditPageSize)
	return f
}

// expectNoDocuments makes every leg lookup miss
func (f *auditFixture) expectNoDocuments(ctx context.Context, jobID uuid.UUID) {
	f.poRepo.On("FindCanonicalForLeg", ctx, jobID, billing.LegImpactToBradford).Return(nil, shared.ErrNotFound)
	f.poRepo.On("FindCanonicalForLeg", ctx, jobID, billing.LegBradfordToJD).Return(nil, shared.ErrNotFound)
	f.invoiceRepo.On("FindCanonicalForLeg", ctx, jobID, billing.InvoiceLegJDToBradford).Return(nil, shared.ErrNotFound)
	f.invoiceRepo.On("FindCanonicalForLeg", ctx, jobID, billing.InvoiceLegBradfordToImpact).Return(nil, shared.ErrNotFound)
	f.invoiceRepo.On("FindCanonicalForLeg", ctx, jobID, billing.InvoiceLegImpactToCustomer).Return(nil, shared.ErrNotFound)
}

func TestAuditService_AuditJob(t *testing.T) {
	ctx := context.Background()

	t.Run("pending job without documents reports only the Impact PO issue", func(t *testing.T) {
		f := newAuditFixture(t)

		j := newTestJob(500)
		f.jobRepo.On("FindByID", ctx, j.ID).Return(j, nil)
		f.expectNoDocuments(ctx, j.ID)

		report, err := f.svc.AuditJob(ctx, j.ID)
		require.NoError(t, err)

		assert.False(t, report.ImpactToBradfordPO.Exists)
		assert.Equal(t, LegMissing, report.ImpactToBradfordPO.Outcome)
		assert.Contains(t, report.Issues, "Missing Impact Direct → Bradford PO")

		assert.Equal(t, LegNotYetExpected, report.BradfordToJDPO.Outcome)
		assert.Equal(t, "PO not yet created (expected for pending jobs)", report.BradfordToJDPO.Note)
		assert.NotContains(t, report.Issues, report.BradfordToJDPO.Note)

		assert.Equal(t, LegNotApplicable, report.JDToBradfordInvoice.Outcome)
		assert.Equal(t, "Invoice not expected before job completion", report.JDToBradfordInvoice.Note)

		assert.Equal(t, 1, report.IssueCount)
	})

	t.Run("missing Bradford to JD PO becomes an issue once in production", func(t *testing.T) {
		f := newAuditFixture(t)

		j := newTestJob(500)
		require.NoError(t, j.AdvanceTo(job.StatusInProduction))
		f.jobRepo.On("FindByID", ctx, j.ID).Return(j, nil)

		po := newTestPOForJob(j.ID, billing.LegImpactToBradford, 500, 0)
		f.poRepo.On("FindCanonicalForLeg", ctx, j.ID, billing.LegImpactToBradford).Return(po, nil)
		f.poRepo.On("FindCanonicalForLeg", ctx, j.ID, billing.LegBradfordToJD).Return(nil, shared.ErrNotFound)
		f.invoiceRepo.On("FindCanonicalForLeg", ctx, j.ID, billing.InvoiceLegJDToBradford).Return(nil, shared.ErrNotFound)
		f.invoiceRepo.On("FindCanonicalForLeg", ctx, j.ID, billing.InvoiceLegBradfordToImpact).Return(nil, shared.ErrNotFound)
		f.invoiceRepo.On("FindCanonicalForLeg", ctx, j.ID, billing.InvoiceLegImpactToCustomer).Return(nil, shared.ErrNotFound)

		report, err := f.svc.AuditJob(ctx, j.ID)
		require.NoError(t, err)

		assert.Equal(t, LegMissing, report.BradfordToJDPO.Outcome)
		assert.Contains(t, report.Issues, "Missing Bradford → JD Graphic PO")
		assert.Equal(t, 1, report.IssueCount)
	})

	t.Run("amount mismatch is an issue regardless of lifecycle gating", func(t *testing.T) {
		f := newAuditFixture(t)

		j := newTestJob(500)
		j.ApplyDerivedFinancials(decimal.NewFromInt(300), decimal.Zero,
			decimal.Zero, decimal.Zero, decimal.Zero, decimal.Zero)
		f.jobRepo.On("FindByID", ctx, j.ID).Return(j, nil)

		po := newTestPOForJob(j.ID, billing.LegImpactToBradford, 500, 320)
		f.poRepo.On("FindCanonicalForLeg", ctx, j.ID, billing.LegImpactToBradford).Return(po, nil)
		f.poRepo.On("FindCanonicalForLeg", ctx, j.ID, billing.LegBradfordToJD).Return(nil, shared.ErrNotFound)
		f.invoiceRepo.On("FindCanonicalForLeg", ctx, j.ID, billing.InvoiceLegJDToBradford).Return(nil, shared.ErrNotFound)
		f.invoiceRepo.On("FindCanonicalForLeg", ctx, j.ID, billing.InvoiceLegBradfordToImpact).Return(nil, shared.ErrNotFound)
		f.invoiceRepo.On("FindCanonicalForLeg", ctx, j.ID, billing.InvoiceLegImpactToCustomer).Return(nil, shared.ErrNotFound)

		report, err := f.svc.AuditJob(ctx, j.ID)
		require.NoError(t, err)

		assert.Equal(t, LegMismatched, report.ImpactToBradfordPO.Outcome)
		require.NotNil(t, report.ImpactToBradfordPO.ActualAmount)
		assert.True(t, report.ImpactToBradfordPO.ActualAmount.Equal(decimal.NewFromInt(320)))
		assert.Equal(t, 1, report.IssueCount)
	})

	t.Run("difference within tolerance is a match", func(t *testing.T) {
		f := newAuditFixture(t)

		j := newTestJob(500)
		j.ApplyDerivedFinancials(decimal.NewFromInt(300), decimal.Zero,
			decimal.Zero, decimal.Zero, decimal.Zero, decimal.Zero)
		f.jobRepo.On("FindByID", ctx, j.ID).Return(j, nil)

		po := newTestPOForJob(j.ID, billing.LegImpactToBradford, 500, 300.01)
		f.poRepo.On("FindCanonicalForLeg", ctx, j.ID, billing.LegImpactToBradford).Return(po, nil)
		f.poRepo.On("FindCanonicalForLeg", ctx, j.ID, billing.LegBradfordToJD).Return(nil, shared.ErrNotFound)
		f.invoiceRepo.On("FindCanonicalForLeg", ctx, j.ID, billing.InvoiceLegJDToBradford).Return(nil, shared.ErrNotFound)
		f.invoiceRepo.On("FindCanonicalForLeg", ctx, j.ID, billing.InvoiceLegBradfordToImpact).Return(nil, shared.ErrNotFound)
		f.invoiceRepo.On("FindCanonicalForLeg", ctx, j.ID, billing.InvoiceLegImpactToCustomer).Return(nil, shared.ErrNotFound)

		report, err := f.svc.AuditJob(ctx, j.ID)
		require.NoError(t, err)

		assert.Equal(t, LegMatched, report.ImpactToBradfordPO.Outcome)
	})

	t.Run("completed job missing its invoices reports each leg", func(t *testing.T) {
		f := newAuditFixture(t)

		j := newTestJob(500)
		require.NoError(t, j.Complete())
		f.jobRepo.On("FindByID", ctx, j.ID).Return(j, nil)

		impactPO := newTestPOForJob(j.ID, billing.LegImpactToBradford, 500, 0)
		bradfordPO := newTestPOForJob(j.ID, billing.LegBradfordToJD, 0, 0)
		f.poRepo.On("FindCanonicalForLeg", ctx, j.ID, billing.LegImpactToBradford).Return(impactPO, nil)
		f.poRepo.On("FindCanonicalForLeg", ctx, j.ID, billing.LegBradfordToJD).Return(bradfordPO, nil)
		f.invoiceRepo.On("FindCanonicalForLeg", ctx, j.ID, billing.InvoiceLegJDToBradford).Return(nil, shared.ErrNotFound)
		f.invoiceRepo.On("FindCanonicalForLeg", ctx, j.ID, billing.InvoiceLegBradfordToImpact).Return(nil, shared.ErrNotFound)
		f.invoiceRepo.On("FindCanonicalForLeg", ctx, j.ID, billing.InvoiceLegImpactToCustomer).Return(nil, shared.ErrNotFound)

		report, err := f.svc.AuditJob(ctx, j.ID)
		require.NoError(t, err)

		assert.Equal(t, LegMissing, report.JDToBradfordInvoice.Outcome)
		assert.Equal(t, LegMissing, report.BradfordToImpactInvoice.Outcome)
		assert.Equal(t, LegMissing, report.ImpactToCustomerInvoice.Outcome)
		assert.Equal(t, 3, report.IssueCount)
	})

	t.Run("returns not found for unknown job", func(t *testing.T) {
		f := newAuditFixture(t)

		jobID := uuid.New()
		f.jobRepo.On("FindByID", ctx, jobID).Return(nil, shared.ErrNotFound)

		_, err := f.svc.AuditJob(ctx, jobID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestAuditService_FindJobsWithIssues(t *testing.T) {
	ctx := context.Background()

	t.Run("returns only jobs with issues plus summary counters", func(t *testing.T) {
		f := newAuditFixture(t)

		clean := newTestJob(500)
		clean.ApplyDerivedFinancials(decimal.NewFromInt(300), decimal.Zero,
			decimal.Zero, decimal.Zero, decimal.Zero, decimal.Zero)
		dirty := newTestJob(800)

		f.jobRepo.On("FindPage", ctx, 1, DefaultAuditPageSize).Return([]job.Job{*clean, *dirty}, nil)

		cleanPO := newTestPOForJob(clean.ID, billing.LegImpactToBradford, 500, 300)
		f.poRepo.On("FindCanonicalForLeg", ctx, clean.ID, billing.LegImpactToBradford).Return(cleanPO, nil)
		f.poRepo.On("FindCanonicalForLeg", ctx, clean.ID, billing.LegBradfordToJD).Return(nil, shared.ErrNotFound)
		f.invoiceRepo.On("FindCanonicalForLeg", ctx, clean.ID, billing.InvoiceLegJDToBradford).Return(nil, shared.ErrNotFound)
		f.invoiceRepo.On("FindCanonicalForLeg", ctx, clean.ID, billing.InvoiceLegBradfordToImpact).Return(nil, shared.ErrNotFound)
		f.invoiceRepo.On("FindCanonicalForLeg", ctx, clean.ID, billing.InvoiceLegImpactToCustomer).Return(nil, shared.ErrNotFound)

		f.expectNoDocuments(ctx, dirty.ID)

		result, err := f.svc.FindJobsWithIssues(ctx)
		require.NoError(t, err)

		assert.Equal(t, 2, result.Summary.JobsScanned)
		assert.Equal(t, 1, result.Summary.JobsWithIssues)
		assert.Equal(t, 1, result.Summary.MissingImpactToBradfordPOs)
		assert.Equal(t, 0, result.Summary.MissingBradfordToJDPOs)
		require.Len(t, result.Reports, 1)
		assert.Equal(t, dirty.ID, result.Reports[0].JobID)
	})

	t.Run("empty population yields an empty report", func(t *testing.T) {
		f := newAuditFixture(t)

		f.jobRepo.On("FindPage", ctx, 1, DefaultAuditPageSize).Return([]job.Job{}, nil)

		result, err := f.svc.FindJobsWithIssues(ctx)
		require.NoError(t, err)

		assert.Equal(t, 0, result.Summary.JobsScanned)
		assert.Empty(t, result.Reports)
	})
}

func TestAuditService_ValidateAmounts(t *testing.T) {
	ctx := context.Background()

	t.Run("returns only mismatched legs", func(t *testing.T) {
		f := newAuditFixture(t)

		j := newTestJob(500)
		j.ApplyDerivedFinancials(decimal.NewFromInt(300), decimal.Zero,
			decimal.Zero, decimal.Zero, decimal.Zero, decimal.Zero)
		f.jobRepo.On("FindByID", ctx, j.ID).Return(j, nil)

		po := newTestPOForJob(j.ID, billing.LegImpactToBradford, 500, 280)
		f.poRepo.On("FindCanonicalForLeg", ctx, j.ID, billing.LegImpactToBradford).Return(po, nil)
		f.poRepo.On("FindCanonicalForLeg", ctx, j.ID, billing.LegBradfordToJD).Return(nil, shared.ErrNotFound)
		f.invoiceRepo.On("FindCanonicalForLeg", ctx, j.ID, billing.InvoiceLegJDToBradford).Return(nil, shared.ErrNotFound)
		f.invoiceRepo.On("FindCanonicalForLeg", ctx, j.ID, billing.InvoiceLegBradfordToImpact).Return(nil, shared.ErrNotFound)
		f.invoiceRepo.On("FindCanonicalForLeg", ctx, j.ID, billing.InvoiceLegImpactToCustomer).Return(nil, shared.ErrNotFound)

		mismatches, err := f.svc.ValidateAmounts(ctx, j.ID)
		require.NoError(t, err)

		require.Len(t, mismatches, 1)
		assert.Equal(t, LegMismatched, mismatches[0].Outcome)
		assert.Equal(t, "Impact Direct → Bradford PO", mismatches[0].Leg)
	})
}
