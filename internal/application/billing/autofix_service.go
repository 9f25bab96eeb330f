package billing

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/printchain/backend/internal/domain/billing"
	"github.com/printchain/backend/internal/domain/job"
	"github.com/printchain/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// AutoFixService runs idempotent repair operations over a job's financial
// documents: it creates the missing Impact Direct → Bradford purchase order
// through the pricing rule, and regenerates a fully missing invoice chain.
//
// It never auto-creates the Bradford → JD Graphic purchase order. That leg
// carries an externally supplied PO number and is a deliberate manual step.
type AutoFixService struct {
	jobRepo     job.Repository
	poRepo      billing.PurchaseOrderRepository
	invoiceRepo billing.InvoiceRepository
	factory     PurchaseOrderFactory
	audit       *AuditService
	chain       *ChainService
	ledger      *LedgerService
	locks       *JobLocks
	logger      *zap.Logger
}

// NewAutoFixService creates a new AutoFixService
func NewAutoFixService(jobRepo job.Repository, poRepo billing.PurchaseOrderRepository, invoiceRepo billing.InvoiceRepository, factory PurchaseOrderFactory, audit *AuditService, chain *ChainService, ledger *LedgerService, locks *JobLocks, logger *zap.Logger) *AutoFixService {
	return &AutoFixService{
		jobRepo:     jobRepo,
		poRepo:      poRepo,
		invoiceRepo: invoiceRepo,
		factory:     factory,
		audit:       audit,
		chain:       chain,
		ledger:      ledger,
		locks:       locks,
		logger:      logger,
	}
}

// AutoFixMissingPOs audits the job and creates the Impact Direct → Bradford
// purchase order if it is missing, using the job's current aggregate totals
// (customer total as original amount, Bradford total as vendor amount)
// through the pricing rule. Idempotent: when nothing is missing it creates
// nothing and returns an empty list.
func (s *AutoFixService) AutoFixMissingPOs(ctx context.Context, jobID uuid.UUID) ([]string, error) {
	unlock := s.locks.Lock(jobID)
	defer unlock()

	j, err := s.jobRepo.FindByID(ctx, jobID)
	if err != nil {
		return nil, err
	}

	report, err := s.audit.auditLoaded(ctx, j)
	if err != nil {
		return nil, err
	}

	created := make([]string, 0)

	if report.ImpactToBradfordPO.Outcome == LegMissing {
		po, err := s.factory.CreateAutoPurchaseOrder(ctx, j, billing.LegImpactToBradford, j.CustomerTotal, j.BradfordTotal)
		if err != nil {
			return nil, err
		}
		if err := s.poRepo.Save(ctx, po); err != nil {
			return nil, err
		}
		if err := s.ledger.recalculateLocked(ctx, jobID); err != nil {
			return nil, err
		}

		created = append(created, fmt.Sprintf("%s PO %s", billing.LegImpactToBradford.Label(), po.PONumber))
		s.logger.Info("Auto-created purchase order",
			zap.String("job_no", j.JobNo),
			zap.String("po_number", po.PONumber),
		)
	}

	if report.BradfordToJDPO.Outcome == LegMissing {
		// Requires an externally supplied PO number; left for manual entry
		s.logger.Info("Bradford → JD Graphic PO missing, not auto-created",
			zap.String("job_no", j.JobNo),
		)
	}

	return created, nil
}

// AutoFixMissingInvoices regenerates the invoice chain of a completed job
// whose invoices are all missing. The chain generator refuses to run when
// any of the three legs already exists, so a partial subset cannot be
// repaired: zero missing is a no-op, three missing regenerates, anything
// in between fails.
func (s *AutoFixService) AutoFixMissingInvoices(ctx context.Context, jobID uuid.UUID) ([]string, error) {
	unlock := s.locks.Lock(jobID)
	defer unlock()

	j, err := s.jobRepo.FindByID(ctx, jobID)
	if err != nil {
		return nil, err
	}

	if !j.IsCompleted() {
		return nil, shared.NewDomainError("INVALID_STATE", "Invoices can only be repaired for completed jobs")
	}

	existing, err := s.chain.existingChainLegs(ctx, jobID)
	if err != nil {
		return nil, err
	}

	switch len(existing) {
	case 3:
		return []string{}, nil
	case 0:
		// regenerate below
	default:
		return nil, shared.NewDomainError("PRECONDITION_FAILED",
			fmt.Sprintf("Partial invoice chain cannot be repaired, existing legs: %v", existing))
	}

	for _, leg := range []billing.Leg{billing.LegImpactToBradford, billing.LegBradfordToJD} {
		if _, err := s.poRepo.FindCanonicalForLeg(ctx, jobID, leg); err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return nil, shared.NewDomainError("PRECONDITION_FAILED",
					fmt.Sprintf("%s PO does not exist for this job", leg.Label()))
			}
			return nil, err
		}
	}

	invoices, err := s.chain.generateChainLocked(ctx, j)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Invoice chain regenerated",
		zap.String("job_no", j.JobNo),
		zap.Int("invoices", len(invoices)),
	)

	s.chain.dispatchDocuments(ctx, invoices)

	created := make([]string, 0, len(invoices))
	for _, inv := range invoices {
		created = append(created, fmt.Sprintf("%s invoice %s", inv.Leg().Label(), inv.InvoiceNo))
	}
	return created, nil
}

// ApplyFixes runs the selected repair operations over a list of jobs with
// per-job success and failure accounting. One job's failure does not stop
// the batch.
func (s *AutoFixService) ApplyFixes(ctx context.Context, jobIDs []uuid.UUID, opts FixOptions) (*BatchFixResult, error) {
	result := &BatchFixResult{
		Results: make([]JobFixResult, 0, len(jobIDs)),
	}

	for _, jobID := range jobIDs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		fix := JobFixResult{JobID: jobID, Created: make([]string, 0)}

		if opts.FixMissingPOs {
			created, err := s.AutoFixMissingPOs(ctx, jobID)
			if err != nil {
				fix.Error = err.Error()
			} else {
				fix.Created = append(fix.Created, created...)
			}
		}
		if fix.Error == "" && opts.FixMissingInvoices {
			created, err := s.AutoFixMissingInvoices(ctx, jobID)
			if err != nil {
				fix.Error = err.Error()
			} else {
				fix.Created = append(fix.Created, created...)
			}
		}

		if fix.Error == "" {
			result.Succeeded++
		} else {
			result.Failed++
		}
		result.Results = append(result.Results, fix)
	}

	s.logger.Info("Batch fix finished",
		zap.Int("jobs", len(jobIDs)),
		zap.Int("succeeded", result.Succeeded),
		zap.Int("failed", result.Failed),
	)

	return result, nil
}
