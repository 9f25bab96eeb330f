package billing

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/printchain/backend/internal/domain/billing"
	"github.com/printchain/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// SyncService applies purchase order and invoice edits and propagates
// amount changes to the mirror document on the opposite side of the leg.
//
// Propagation is one hop by construction: the mirror is written through its
// ApplySynced* direct setter, which carries no sync logic of its own, so an
// update can never trigger a second round of propagation.
type SyncService struct {
	poRepo      billing.PurchaseOrderRepository
	invoiceRepo billing.InvoiceRepository
	syncLogRepo billing.SyncLogRepository
	ledger      *LedgerService
	locks       *JobLocks
	logger      *zap.Logger
}

// NewSyncService creates a new SyncService
func NewSyncService(poRepo billing.PurchaseOrderRepository, invoiceRepo billing.InvoiceRepository, syncLogRepo billing.SyncLogRepository, ledger *LedgerService, locks *JobLocks, logger *zap.Logger) *SyncService {
	return &SyncService{
		poRepo:      poRepo,
		invoiceRepo: invoiceRepo,
		syncLogRepo: syncLogRepo,
		ledger:      ledger,
		locks:       locks,
		logger:      logger,
	}
}

// UpdatePurchaseOrder applies a patch to a purchase order. A vendor amount
// change is propagated to the mirror invoice and logged; the job ledger is
// re-run afterward because the canonical leg total may have moved.
func (s *SyncService) UpdatePurchaseOrder(ctx context.Context, id uuid.UUID, patch PurchaseOrderPatch, changedBy string) (*billing.PurchaseOrder, error) {
	po, err := s.poRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if po.JobID != nil {
		unlock := s.locks.Lock(*po.JobID)
		defer unlock()
		// Re-read under the lock so the edit applies to current state
		po, err = s.poRepo.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
	}

	amountChanged := false
	oldAmount := po.VendorAmount

	if patch.VendorAmount != nil && !patch.VendorAmount.Equal(po.VendorAmount) {
		if err := po.ChangeVendorAmount(*patch.VendorAmount); err != nil {
			return nil, err
		}
		amountChanged = true
	}
	if patch.OriginalAmount != nil {
		if err := po.ChangeOriginalAmount(*patch.OriginalAmount); err != nil {
			return nil, err
		}
	}
	if patch.ReferencePONumber != nil {
		po.SetReference(*patch.ReferencePONumber)
	}
	if patch.ExternalRef != nil {
		po.SetExternalRef(*patch.ExternalRef)
	}

	if err := s.poRepo.Save(ctx, po); err != nil {
		return nil, err
	}

	if amountChanged {
		if err := s.propagateToInvoice(ctx, po, oldAmount, changedBy); err != nil {
			return nil, err
		}
		if po.JobID != nil {
			if err := s.ledger.recalculateLocked(ctx, *po.JobID); err != nil {
				return nil, err
			}
		}
	}

	return po, nil
}

// UpdateInvoice applies a patch to an invoice. An amount change is
// propagated to the mirror purchase order's vendor amount and logged; the
// job ledger is re-run afterward.
func (s *SyncService) UpdateInvoice(ctx context.Context, id uuid.UUID, patch InvoicePatch, changedBy string) (*billing.Invoice, error) {
	inv, err := s.invoiceRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if inv.JobID != nil {
		unlock := s.locks.Lock(*inv.JobID)
		defer unlock()
		inv, err = s.invoiceRepo.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
	}

	amountChanged := false
	oldAmount := inv.Amount

	if patch.Amount != nil && !patch.Amount.Equal(inv.Amount) {
		if err := inv.ChangeAmount(*patch.Amount); err != nil {
			return nil, err
		}
		amountChanged = true
	}
	if patch.DueAt != nil {
		if err := inv.SetDueDate(*patch.DueAt); err != nil {
			return nil, err
		}
	}

	if err := s.invoiceRepo.Save(ctx, inv); err != nil {
		return nil, err
	}

	if amountChanged {
		if err := s.propagateToPurchaseOrder(ctx, inv, oldAmount, changedBy); err != nil {
			return nil, err
		}
		if inv.JobID != nil {
			if err := s.ledger.recalculateLocked(ctx, *inv.JobID); err != nil {
				return nil, err
			}
		}
	}

	return inv, nil
}

// propagateToInvoice writes a purchase order's new vendor amount onto its
// mirror invoice. A missing mirror is not an error: the edit stands and the
// audit engine will flag the gap.
func (s *SyncService) propagateToInvoice(ctx context.Context, po *billing.PurchaseOrder, oldAmount decimal.Decimal, changedBy string) error {
	leg := po.Leg()
	if po.JobID == nil || leg == nil {
		return nil
	}

	inv, err := s.invoiceRepo.FindCanonicalForLeg(ctx, *po.JobID, billing.MirrorInvoiceLeg(*leg))
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			s.logger.Debug("No mirror invoice for purchase order update",
				zap.String("po_number", po.PONumber),
			)
			return nil
		}
		return err
	}

	inv.ApplySyncedAmount(po.VendorAmount)
	if err := s.invoiceRepo.Save(ctx, inv); err != nil {
		return err
	}

	log, err := billing.NewSyncLog(billing.SyncTriggerPOUpdate, "vendor_amount",
		oldAmount.String(), po.VendorAmount.String())
	if err != nil {
		return err
	}
	log.WithDocuments(&po.ID, &inv.ID, po.JobID).
		WithChangedBy(changedBy).
		WithNotes("Amount propagated to invoice " + inv.InvoiceNo)

	if err := s.syncLogRepo.Append(ctx, log); err != nil {
		return err
	}

	s.logger.Info("Purchase order amount synced to invoice",
		zap.String("po_number", po.PONumber),
		zap.String("invoice_no", inv.InvoiceNo),
		zap.String("old_value", oldAmount.String()),
		zap.String("new_value", po.VendorAmount.String()),
	)

	return nil
}

// propagateToPurchaseOrder writes an invoice's new amount onto its mirror
// purchase order's vendor amount.
func (s *SyncService) propagateToPurchaseOrder(ctx context.Context, inv *billing.Invoice, oldAmount decimal.Decimal, changedBy string) error {
	if inv.JobID == nil {
		return nil
	}

	po, err := s.poRepo.FindCanonicalForLeg(ctx, *inv.JobID, billing.MirrorPOLeg(inv.Leg()))
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			s.logger.Debug("No mirror purchase order for invoice update",
				zap.String("invoice_no", inv.InvoiceNo),
			)
			return nil
		}
		return err
	}

	po.ApplySyncedVendorAmount(inv.Amount)
	if err := s.poRepo.Save(ctx, po); err != nil {
		return err
	}

	log, err := billing.NewSyncLog(billing.SyncTriggerInvoiceUpdate, "amount",
		oldAmount.String(), inv.Amount.String())
	if err != nil {
		return err
	}
	log.WithDocuments(&po.ID, &inv.ID, inv.JobID).
		WithChangedBy(changedBy).
		WithNotes("Amount propagated to purchase order " + po.PONumber)

	if err := s.syncLogRepo.Append(ctx, log); err != nil {
		return err
	}

	s.logger.Info("Invoice amount synced to purchase order",
		zap.String("invoice_no", inv.InvoiceNo),
		zap.String("po_number", po.PONumber),
		zap.String("old_value", oldAmount.String()),
		zap.String("new_value", inv.Amount.String()),
	)

	return nil
}
