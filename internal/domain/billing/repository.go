package billing

import (
	"context"

	"github.com/google/uuid"
	"github.com/printchain/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// PurchaseOrderRepository defines the interface for purchase order persistence
type PurchaseOrderRepository interface {
	// FindByID finds a purchase order by ID
	FindByID(ctx context.Context, id uuid.UUID) (*PurchaseOrder, error)

	// FindByPONumber finds a purchase order by its PO number
	FindByPONumber(ctx context.Context, poNumber string) (*PurchaseOrder, error)

	// FindByJob finds all purchase orders attached to a job
	FindByJob(ctx context.Context, jobID uuid.UUID) ([]PurchaseOrder, error)

	// FindCanonicalForLeg resolves the authoritative purchase order for a
	// (job, leg) pair: the most recently created non-cancelled order.
	// Returns shared.ErrNotFound when no such order exists.
	FindCanonicalForLeg(ctx context.Context, jobID uuid.UUID, leg Leg) (*PurchaseOrder, error)

	// SumVendorAmountForLeg sums vendor amounts over a (job, leg) pair,
	// excluding cancelled orders
	SumVendorAmountForLeg(ctx context.Context, jobID uuid.UUID, leg Leg) (decimal.Decimal, error)

	// FindAll finds purchase orders with filtering
	FindAll(ctx context.Context, filter shared.Filter) ([]PurchaseOrder, error)

	// Save creates or updates a purchase order
	Save(ctx context.Context, po *PurchaseOrder) error

	// Count counts purchase orders with optional filters
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// ExistsByPONumber checks if a PO number is already taken
	ExistsByPONumber(ctx context.Context, poNumber string) (bool, error)

	// GeneratePONumber generates a unique PO number
	// Format: PO-YYYY-NNNNN (e.g., PO-2026-00001)
	GeneratePONumber(ctx context.Context) (string, error)
}

// InvoiceRepository defines the interface for invoice persistence
type InvoiceRepository interface {
	// FindByID finds an invoice by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Invoice, error)

	// FindByInvoiceNo finds an invoice by its invoice number
	FindByInvoiceNo(ctx context.Context, invoiceNo string) (*Invoice, error)

	// FindByJob finds all invoices attached to a job
	FindByJob(ctx context.Context, jobID uuid.UUID) ([]Invoice, error)

	// FindCanonicalForLeg resolves the authoritative invoice for a
	// (job, leg) pair: the most recently created one.
	// Returns shared.ErrNotFound when no such invoice exists.
	FindCanonicalForLeg(ctx context.Context, jobID uuid.UUID, leg InvoiceLeg) (*Invoice, error)

	// FindAll finds invoices with filtering
	FindAll(ctx context.Context, filter shared.Filter) ([]Invoice, error)

	// Save creates or updates an invoice
	Save(ctx context.Context, inv *Invoice) error

	// Count counts invoices with optional filters
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// ExistsByInvoiceNo checks if an invoice number is already taken
	ExistsByInvoiceNo(ctx context.Context, invoiceNo string) (bool, error)

	// GenerateInvoiceNumber generates a unique invoice number
	// Format: INV-YYYY-NNNNN (e.g., INV-2026-00001)
	GenerateInvoiceNumber(ctx context.Context) (string, error)
}

// SyncLogRepository defines the interface for the append-only sync log.
// There is deliberately no update or delete.
type SyncLogRepository interface {
	// Append appends a sync log entry
	Append(ctx context.Context, log *SyncLog) error

	// FindByJob finds sync log entries for a job, newest first
	FindByJob(ctx context.Context, jobID uuid.UUID, filter shared.Filter) ([]SyncLog, error)

	// FindByPurchaseOrder finds sync log entries for a purchase order, newest first
	FindByPurchaseOrder(ctx context.Context, purchaseOrderID uuid.UUID, filter shared.Filter) ([]SyncLog, error)

	// FindByInvoice finds sync log entries for an invoice, newest first
	FindByInvoice(ctx context.Context, invoiceID uuid.UUID, filter shared.Filter) ([]SyncLog, error)

	// CountByJob counts sync log entries for a job
	CountByJob(ctx context.Context, jobID uuid.UUID) (int64, error)
}
