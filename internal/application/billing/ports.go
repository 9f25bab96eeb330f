package billing

import (
	"context"

	"github.com/google/uuid"
	"github.com/printchain/backend/internal/domain/billing"
	"github.com/printchain/backend/internal/domain/job"
	"github.com/shopspring/decimal"
)

// PurchaseOrderFactory creates purchase orders from pricing rules.
// The auto-fix engine uses it to repair a missing Impact Direct → Bradford
// order from the job's current aggregate totals.
type PurchaseOrderFactory interface {
	// CreateAutoPurchaseOrder builds (but does not persist) a purchase
	// order for the given job and leg
	CreateAutoPurchaseOrder(ctx context.Context, j *job.Job, leg billing.Leg, originalAmount, vendorAmount decimal.Decimal) (*billing.PurchaseOrder, error)
}

// DocumentRenderer renders a financial document to a stored file.
// Rendering is opaque to the core; only the resulting file ID comes back.
type DocumentRenderer interface {
	// RenderInvoice renders an invoice and returns the file ID
	RenderInvoice(ctx context.Context, invoiceID uuid.UUID) (string, error)
}

// Notifier dispatches outbound notifications. Fire-and-forget from the
// core's perspective: the outcome is logged, never acted on.
type Notifier interface {
	// Send dispatches a notification with optional attachment file IDs
	Send(ctx context.Context, recipient, subject, body string, attachments []string) error
}
