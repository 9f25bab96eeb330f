package billing

import (
	"context"

	"github.com/google/uuid"
	"github.com/printchain/backend/internal/domain/billing"
	"github.com/printchain/backend/internal/domain/job"
	"go.uber.org/zap"
)

// LedgerService is the single writer of a job's derived financial fields.
// It aggregates the job's purchase orders into the two canonical leg totals,
// runs the margin calculator, and persists the result onto the job.
type LedgerService struct {
	jobRepo job.Repository
	poRepo  billing.PurchaseOrderRepository
	locks   *JobLocks
	logger  *zap.Logger
}

// NewLedgerService creates a new LedgerService
func NewLedgerService(jobRepo job.Repository, poRepo billing.PurchaseOrderRepository, locks *JobLocks, logger *zap.Logger) *LedgerService {
	return &LedgerService{
		jobRepo: jobRepo,
		poRepo:  poRepo,
		locks:   locks,
		logger:  logger,
	}
}

// RecalculateJobFromPOs recomputes the job's aggregate totals and margins
// from its purchase orders. Idempotent: with unchanged orders, repeated
// invocation produces unchanged output. Must be called after any purchase
// order create or update that can change a canonical leg's total; the call
// is always an explicit step of the invoking orchestrator, never an event
// side effect.
func (s *LedgerService) RecalculateJobFromPOs(ctx context.Context, jobID uuid.UUID) error {
	unlock := s.locks.Lock(jobID)
	defer unlock()

	return s.recalculateLocked(ctx, jobID)
}

// recalculateLocked performs the recalculation. The caller must hold the
// job's lock.
func (s *LedgerService) recalculateLocked(ctx context.Context, jobID uuid.UUID) error {
	j, err := s.jobRepo.FindByID(ctx, jobID)
	if err != nil {
		return err
	}

	bradfordTotal, err := s.poRepo.SumVendorAmountForLeg(ctx, jobID, billing.LegImpactToBradford)
	if err != nil {
		return err
	}
	jdTotal, err := s.poRepo.SumVendorAmountForLeg(ctx, jobID, billing.LegBradfordToJD)
	if err != nil {
		return err
	}

	margins, err := billing.CalculateMargins(billing.MarginInput{
		CustomerTotal:             j.CustomerTotal,
		BradfordTotal:             bradfordTotal,
		JDTotal:                   jdTotal,
		PaperCostTotal:            j.PaperCostTotal,
		PaperChargedTotal:         j.PaperChargedTotal,
		JDSuppliesPaper:           j.JDSuppliesPaper,
		BradfordWaivesPaperMargin: j.BradfordWaivesPaperMargin,
	})
	if err != nil {
		s.logger.Warn("Margin calculation failed during ledger recalculation",
			zap.String("job_no", j.JobNo),
			zap.Error(err),
		)
		return err
	}

	j.ApplyDerivedFinancials(bradfordTotal, jdTotal,
		margins.ImpactMargin, margins.BradfordTotalMargin,
		margins.BradfordPaperMargin, margins.BradfordPrintMargin)

	if err := s.jobRepo.Save(ctx, j); err != nil {
		return err
	}

	s.logger.Debug("Job ledger recalculated",
		zap.String("job_no", j.JobNo),
		zap.String("bradford_total", bradfordTotal.String()),
		zap.String("jd_total", jdTotal.String()),
		zap.String("impact_margin", margins.ImpactMargin.String()),
		zap.String("bradford_total_margin", margins.BradfordTotalMargin.String()),
	)

	return nil
}
