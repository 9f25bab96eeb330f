package billing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/printchain/backend/internal/domain/billing"
	"github.com/printchain/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// DocumentService handles manual entry and retrieval of purchase orders,
// invoices and the sync history. Amount edits go through SyncService
// instead; this service covers creation, lifecycle transitions and reads.
type DocumentService struct {
	poRepo         billing.PurchaseOrderRepository
	invoiceRepo    billing.InvoiceRepository
	syncLogRepo    billing.SyncLogRepository
	ledger         *LedgerService
	locks          *JobLocks
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewDocumentService creates a new DocumentService
func NewDocumentService(poRepo billing.PurchaseOrderRepository, invoiceRepo billing.InvoiceRepository, syncLogRepo billing.SyncLogRepository, ledger *LedgerService, locks *JobLocks, logger *zap.Logger) *DocumentService {
	return &DocumentService{
		poRepo:      poRepo,
		invoiceRepo: invoiceRepo,
		syncLogRepo: syncLogRepo,
		ledger:      ledger,
		locks:       locks,
		logger:      logger,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *DocumentService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// CreatePurchaseOrder creates a purchase order from manual entry. When the
// order is attached to a job, the job ledger is re-run because the new
// order changes its leg total.
func (s *DocumentService) CreatePurchaseOrder(ctx context.Context, req CreatePurchaseOrderRequest) (*PurchaseOrderResponse, error) {
	poNumber, err := s.poRepo.GeneratePONumber(ctx)
	if err != nil {
		return nil, err
	}

	marginAmount := req.OriginalAmount.Sub(req.VendorAmount)
	po, err := billing.NewPurchaseOrder(poNumber, req.JobID, req.OriginCompany,
		req.TargetCompany, req.TargetVendorID,
		req.OriginalAmount, req.VendorAmount, marginAmount)
	if err != nil {
		return nil, err
	}
	if req.ReferencePONumber != "" {
		po.SetReference(req.ReferencePONumber)
	}
	if req.ExternalRef != "" {
		po.SetExternalRef(req.ExternalRef)
	}

	if req.JobID != nil {
		unlock := s.locks.Lock(*req.JobID)
		defer unlock()
	}

	if err := s.poRepo.Save(ctx, po); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, po.GetDomainEvents())
	po.ClearDomainEvents()

	if req.JobID != nil {
		if err := s.ledger.recalculateLocked(ctx, *req.JobID); err != nil {
			return nil, err
		}
	}

	s.logger.Info("Purchase order created",
		zap.String("po_number", po.PONumber),
		zap.String("origin", po.OriginCompany.String()),
	)

	return ToPurchaseOrderResponse(po), nil
}

// GetPurchaseOrder returns a purchase order by ID
func (s *DocumentService) GetPurchaseOrder(ctx context.Context, id uuid.UUID) (*PurchaseOrderResponse, error) {
	po, err := s.poRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToPurchaseOrderResponse(po), nil
}

// ListPurchaseOrders returns purchase orders with filtering and pagination
func (s *DocumentService) ListPurchaseOrders(ctx context.Context, filter shared.Filter) (*shared.Paginated[PurchaseOrderResponse], error) {
	orders, err := s.poRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.poRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := make([]PurchaseOrderResponse, 0, len(orders))
	for i := range orders {
		items = append(items, *ToPurchaseOrderResponse(&orders[i]))
	}

	result := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &result, nil
}

// ListPurchaseOrdersByJob returns all purchase orders attached to a job
func (s *DocumentService) ListPurchaseOrdersByJob(ctx context.Context, jobID uuid.UUID) ([]PurchaseOrderResponse, error) {
	orders, err := s.poRepo.FindByJob(ctx, jobID)
	if err != nil {
		return nil, err
	}

	items := make([]PurchaseOrderResponse, 0, len(orders))
	for i := range orders {
		items = append(items, *ToPurchaseOrderResponse(&orders[i]))
	}
	return items, nil
}

// ConfirmPurchaseOrder confirms a pending purchase order
func (s *DocumentService) ConfirmPurchaseOrder(ctx context.Context, id uuid.UUID) (*PurchaseOrderResponse, error) {
	return s.transitionPurchaseOrder(ctx, id, func(po *billing.PurchaseOrder) error {
		return po.Confirm()
	})
}

// CompletePurchaseOrder completes a confirmed purchase order
func (s *DocumentService) CompletePurchaseOrder(ctx context.Context, id uuid.UUID) (*PurchaseOrderResponse, error) {
	return s.transitionPurchaseOrder(ctx, id, func(po *billing.PurchaseOrder) error {
		return po.Complete()
	})
}

// CancelPurchaseOrder cancels a purchase order. Cancelled orders drop out
// of the canonical leg totals, so the job ledger is re-run afterward.
func (s *DocumentService) CancelPurchaseOrder(ctx context.Context, id uuid.UUID, reason string) (*PurchaseOrderResponse, error) {
	po, err := s.poRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if po.JobID != nil {
		unlock := s.locks.Lock(*po.JobID)
		defer unlock()
		po, err = s.poRepo.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
	}

	if err := po.Cancel(reason); err != nil {
		return nil, err
	}
	if err := s.poRepo.Save(ctx, po); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, po.GetDomainEvents())
	po.ClearDomainEvents()

	if po.JobID != nil {
		if err := s.ledger.recalculateLocked(ctx, *po.JobID); err != nil {
			return nil, err
		}
	}

	s.logger.Info("Purchase order cancelled",
		zap.String("po_number", po.PONumber),
		zap.String("reason", reason),
	)

	return ToPurchaseOrderResponse(po), nil
}

// transitionPurchaseOrder applies a status transition and saves
func (s *DocumentService) transitionPurchaseOrder(ctx context.Context, id uuid.UUID, transition func(*billing.PurchaseOrder) error) (*PurchaseOrderResponse, error) {
	po, err := s.poRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := transition(po); err != nil {
		return nil, err
	}
	if err := s.poRepo.Save(ctx, po); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, po.GetDomainEvents())
	po.ClearDomainEvents()

	return ToPurchaseOrderResponse(po), nil
}

// CreateInvoice creates an invoice from manual entry
func (s *DocumentService) CreateInvoice(ctx context.Context, req CreateInvoiceRequest) (*InvoiceResponse, error) {
	invoiceNo, err := s.invoiceRepo.GenerateInvoiceNumber(ctx)
	if err != nil {
		return nil, err
	}

	inv, err := billing.NewInvoice(invoiceNo, req.JobID, req.FromCompany, req.ToCompany, req.Amount, req.DueAt)
	if err != nil {
		return nil, err
	}

	if err := s.invoiceRepo.Save(ctx, inv); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, inv.GetDomainEvents())
	inv.ClearDomainEvents()

	s.logger.Info("Invoice created",
		zap.String("invoice_no", inv.InvoiceNo),
		zap.String("from", inv.FromCompany.String()),
		zap.String("to", inv.ToCompany.String()),
	)

	return ToInvoiceResponse(inv), nil
}

// GetInvoice returns an invoice by ID
func (s *DocumentService) GetInvoice(ctx context.Context, id uuid.UUID) (*InvoiceResponse, error) {
	inv, err := s.invoiceRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToInvoiceResponse(inv), nil
}

// ListInvoices returns invoices with filtering and pagination
func (s *DocumentService) ListInvoices(ctx context.Context, filter shared.Filter) (*shared.Paginated[InvoiceResponse], error) {
	invoices, err := s.invoiceRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.invoiceRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := make([]InvoiceResponse, 0, len(invoices))
	for i := range invoices {
		items = append(items, *ToInvoiceResponse(&invoices[i]))
	}

	result := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &result, nil
}

// ListInvoicesByJob returns all invoices attached to a job
func (s *DocumentService) ListInvoicesByJob(ctx context.Context, jobID uuid.UUID) ([]InvoiceResponse, error) {
	invoices, err := s.invoiceRepo.FindByJob(ctx, jobID)
	if err != nil {
		return nil, err
	}

	items := make([]InvoiceResponse, 0, len(invoices))
	for i := range invoices {
		items = append(items, *ToInvoiceResponse(&invoices[i]))
	}
	return items, nil
}

// MarkInvoicePaid records payment of an invoice. Payment is recorded once;
// a second call fails.
func (s *DocumentService) MarkInvoicePaid(ctx context.Context, id uuid.UUID) (*InvoiceResponse, error) {
	inv, err := s.invoiceRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := inv.MarkPaid(time.Now()); err != nil {
		return nil, err
	}
	if err := s.invoiceRepo.Save(ctx, inv); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, inv.GetDomainEvents())
	inv.ClearDomainEvents()

	s.logger.Info("Invoice paid", zap.String("invoice_no", inv.InvoiceNo))

	return ToInvoiceResponse(inv), nil
}

// GetSyncHistory returns the sync log entries for a job, newest first
func (s *DocumentService) GetSyncHistory(ctx context.Context, jobID uuid.UUID, filter shared.Filter) ([]SyncLogResponse, error) {
	logs, err := s.syncLogRepo.FindByJob(ctx, jobID, filter)
	if err != nil {
		return nil, err
	}

	items := make([]SyncLogResponse, 0, len(logs))
	for i := range logs {
		items = append(items, *ToSyncLogResponse(&logs[i]))
	}
	return items, nil
}

// publishEvents publishes domain events, logging failures only
func (s *DocumentService) publishEvents(ctx context.Context, events []shared.DomainEvent) {
	if s.eventPublisher == nil || len(events) == 0 {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		s.logger.Warn("Failed to publish domain events", zap.Error(err))
	}
}
