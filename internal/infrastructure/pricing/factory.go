package pricing

import (
	"context"

	appbilling "github.com/printchain/backend/internal/application/billing"
	"github.com/printchain/backend/internal/domain/billing"
	"github.com/printchain/backend/internal/domain/job"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Factory builds purchase orders from the configured pricing rule. It is
// the collaborator the auto-fix engine uses to repair missing orders.
type Factory struct {
	poRepo               billing.PurchaseOrderRepository
	defaultMarginPercent decimal.Decimal
	logger               *zap.Logger
}

// NewFactory creates a new pricing Factory. defaultMarginPercent applies
// when the caller has no vendor amount for the leg: the vendor amount is
// then derived as original minus the default margin.
func NewFactory(poRepo billing.PurchaseOrderRepository, defaultMarginPercent float64, logger *zap.Logger) *Factory {
	return &Factory{
		poRepo:               poRepo,
		defaultMarginPercent: decimal.NewFromFloat(defaultMarginPercent),
		logger:               logger,
	}
}

// CreateAutoPurchaseOrder builds (but does not persist) a purchase order
// for the given job and leg. The order number is reserved through the
// repository's generator.
func (f *Factory) CreateAutoPurchaseOrder(ctx context.Context, j *job.Job, leg billing.Leg, originalAmount, vendorAmount decimal.Decimal) (*billing.PurchaseOrder, error) {
	poNumber, err := f.poRepo.GeneratePONumber(ctx)
	if err != nil {
		return nil, err
	}

	if vendorAmount.IsZero() && !originalAmount.IsZero() {
		margin := originalAmount.Mul(f.defaultMarginPercent).Div(decimal.NewFromInt(100))
		vendorAmount = originalAmount.Sub(margin)
		f.logger.Debug("Vendor amount derived from default margin",
			zap.String("po_number", poNumber),
			zap.String("vendor_amount", vendorAmount.String()),
		)
	}

	jobID := j.ID
	target := leg.Target
	po, err := billing.NewPurchaseOrder(poNumber, &jobID, leg.Origin, &target, nil,
		originalAmount, vendorAmount, originalAmount.Sub(vendorAmount))
	if err != nil {
		return nil, err
	}
	po.SetReference(j.JobNo)

	return po, nil
}

var _ appbilling.PurchaseOrderFactory = (*Factory)(nil)
