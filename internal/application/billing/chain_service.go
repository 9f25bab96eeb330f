package billing

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/printchain/backend/internal/domain/billing"
	"github.com/printchain/backend/internal/domain/job"
	"github.com/printchain/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ChainService generates the three-leg invoice chain when a job completes:
// JD Graphic bills Bradford, Bradford bills Impact Direct, Impact Direct
// bills the customer. Chain generation is the only path that moves a job to
// COMPLETED.
type ChainService struct {
	jobRepo        job.Repository
	poRepo         billing.PurchaseOrderRepository
	invoiceRepo    billing.InvoiceRepository
	renderer       DocumentRenderer
	notifier       Notifier
	eventPublisher shared.EventPublisher
	locks          *JobLocks
	logger         *zap.Logger
}

// NewChainService creates a new ChainService
func NewChainService(jobRepo job.Repository, poRepo billing.PurchaseOrderRepository, invoiceRepo billing.InvoiceRepository, renderer DocumentRenderer, notifier Notifier, locks *JobLocks, logger *zap.Logger) *ChainService {
	return &ChainService{
		jobRepo:     jobRepo,
		poRepo:      poRepo,
		invoiceRepo: invoiceRepo,
		renderer:    renderer,
		notifier:    notifier,
		locks:       locks,
		logger:      logger,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *ChainService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// CompleteJobAndGenerateInvoices checks every precondition before any
// write, then generates the three invoices in sequence and marks the job
// COMPLETED. A precondition violation aborts with no writes performed.
//
// The sequence is not wrapped in a single transaction: a mid-sequence
// failure leaves partial invoices and a pre-completed job status, which the
// audit engine detects and reports. Rendering and notification per leg run
// afterward and never affect the outcome.
func (s *ChainService) CompleteJobAndGenerateInvoices(ctx context.Context, jobID uuid.UUID) (*ChainResult, error) {
	unlock := s.locks.Lock(jobID)
	defer unlock()

	j, err := s.jobRepo.FindByID(ctx, jobID)
	if err != nil {
		return nil, err
	}

	if j.IsCompleted() {
		return nil, shared.NewDomainError("PRECONDITION_FAILED", "Job is already completed")
	}
	if j.IsCancelled() {
		return nil, shared.NewDomainError("INVALID_STATE", "Cannot generate invoices for a cancelled job")
	}

	if _, err := s.poRepo.FindCanonicalForLeg(ctx, jobID, billing.LegImpactToBradford); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("PRECONDITION_FAILED", "Impact Direct → Bradford PO does not exist for this job")
		}
		return nil, err
	}
	if _, err := s.poRepo.FindCanonicalForLeg(ctx, jobID, billing.LegBradfordToJD); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("PRECONDITION_FAILED", "Bradford → JD Graphic PO does not exist for this job")
		}
		return nil, err
	}

	existing, err := s.existingChainLegs(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		return nil, shared.NewDomainError("PRECONDITION_FAILED",
			fmt.Sprintf("Chain invoices already exist for this job: %v", existing))
	}

	invoices, err := s.generateChainLocked(ctx, j)
	if err != nil {
		return nil, err
	}

	if err := j.Complete(); err != nil {
		return nil, err
	}
	if err := s.jobRepo.Save(ctx, j); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, j.GetDomainEvents())
	j.ClearDomainEvents()

	s.logger.Info("Invoice chain generated",
		zap.String("job_no", j.JobNo),
		zap.Int("invoices", len(invoices)),
	)

	s.dispatchDocuments(ctx, invoices)

	result := &ChainResult{JobID: j.ID, JobNo: j.JobNo}
	for _, inv := range invoices {
		result.InvoiceNumbers = append(result.InvoiceNumbers, inv.InvoiceNo)
	}
	return result, nil
}

// existingChainLegs returns the labels of canonical chain invoices that
// already exist for the job
func (s *ChainService) existingChainLegs(ctx context.Context, jobID uuid.UUID) ([]string, error) {
	legs := []billing.InvoiceLeg{
		billing.InvoiceLegJDToBradford,
		billing.InvoiceLegBradfordToImpact,
		billing.InvoiceLegImpactToCustomer,
	}

	existing := make([]string, 0)
	for _, leg := range legs {
		_, err := s.invoiceRepo.FindCanonicalForLeg(ctx, jobID, leg)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				continue
			}
			return nil, err
		}
		existing = append(existing, leg.Label())
	}
	return existing, nil
}

// generateChainLocked creates the three chain invoices in sequence. The
// caller must hold the job's lock and have verified the preconditions.
// Amounts: JD → Bradford carries the Bradford → JD PO vendor amount,
// Bradford → Impact carries the Impact → Bradford PO vendor amount, and
// Impact → Customer carries the job's customer total.
func (s *ChainService) generateChainLocked(ctx context.Context, j *job.Job) ([]*billing.Invoice, error) {
	impactToBradfordPO, err := s.poRepo.FindCanonicalForLeg(ctx, j.ID, billing.LegImpactToBradford)
	if err != nil {
		return nil, err
	}
	bradfordToJDPO, err := s.poRepo.FindCanonicalForLeg(ctx, j.ID, billing.LegBradfordToJD)
	if err != nil {
		return nil, err
	}

	specs := []struct {
		leg    billing.InvoiceLeg
		amount decimal.Decimal
	}{
		{billing.InvoiceLegJDToBradford, bradfordToJDPO.VendorAmount},
		{billing.InvoiceLegBradfordToImpact, impactToBradfordPO.VendorAmount},
		{billing.InvoiceLegImpactToCustomer, j.CustomerTotal},
	}

	invoices := make([]*billing.Invoice, 0, len(specs))
	for _, spec := range specs {
		invoiceNo, err := s.invoiceRepo.GenerateInvoiceNumber(ctx)
		if err != nil {
			return nil, err
		}

		inv, err := billing.NewInvoice(invoiceNo, &j.ID, spec.leg.From, spec.leg.To, spec.amount, nil)
		if err != nil {
			return nil, err
		}
		if err := s.invoiceRepo.Save(ctx, inv); err != nil {
			return nil, err
		}
		s.publishEvents(ctx, inv.GetDomainEvents())
		inv.ClearDomainEvents()

		invoices = append(invoices, inv)
	}

	return invoices, nil
}

// dispatchDocuments renders and dispatches each generated invoice. Each
// leg's failure is caught and logged independently; the chain is already
// complete once the financial documents exist.
func (s *ChainService) dispatchDocuments(ctx context.Context, invoices []*billing.Invoice) {
	for _, inv := range invoices {
		fileID, err := s.renderer.RenderInvoice(ctx, inv.ID)
		if err != nil {
			s.logger.Warn("Invoice rendering failed",
				zap.String("invoice_no", inv.InvoiceNo),
				zap.Error(err),
			)
			continue
		}

		recipient := billingRecipient(inv.ToCompany)
		subject := fmt.Sprintf("Invoice %s from %s", inv.InvoiceNo, inv.FromCompany)
		body := fmt.Sprintf("Invoice %s for %s has been issued.", inv.InvoiceNo, inv.Amount.StringFixed(2))

		if err := s.notifier.Send(ctx, recipient, subject, body, []string{fileID}); err != nil {
			s.logger.Warn("Invoice notification failed",
				zap.String("invoice_no", inv.InvoiceNo),
				zap.Error(err),
			)
		}
	}
}

// publishEvents publishes domain events, logging failures only
func (s *ChainService) publishEvents(ctx context.Context, events []shared.DomainEvent) {
	if s.eventPublisher == nil || len(events) == 0 {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		s.logger.Warn("Failed to publish domain events", zap.Error(err))
	}
}

// billingRecipient maps an invoice recipient company to its billing inbox
func billingRecipient(c billing.Company) string {
	switch c {
	case billing.CompanyImpactDirect:
		return "billing@impactdirect.example"
	case billing.CompanyBradford:
		return "billing@bradford.example"
	case billing.CompanyJDGraphic:
		return "billing@jdgraphic.example"
	}
	return "billing@printchain.example"
}
