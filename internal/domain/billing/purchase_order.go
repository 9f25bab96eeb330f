package billing

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/printchain/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// PurchaseOrderStatus represents the status of a purchase order
type PurchaseOrderStatus string

const (
	PurchaseOrderStatusPending   PurchaseOrderStatus = "PENDING"
	PurchaseOrderStatusConfirmed PurchaseOrderStatus = "CONFIRMED"
	PurchaseOrderStatusCompleted PurchaseOrderStatus = "COMPLETED"
	PurchaseOrderStatusCancelled PurchaseOrderStatus = "CANCELLED"
)

// IsValid checks if the status is a valid PurchaseOrderStatus
func (s PurchaseOrderStatus) IsValid() bool {
	switch s {
	case PurchaseOrderStatusPending, PurchaseOrderStatusConfirmed,
		PurchaseOrderStatusCompleted, PurchaseOrderStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of PurchaseOrderStatus
func (s PurchaseOrderStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s PurchaseOrderStatus) CanTransitionTo(target PurchaseOrderStatus) bool {
	switch s {
	case PurchaseOrderStatusPending:
		return target == PurchaseOrderStatusConfirmed || target == PurchaseOrderStatusCancelled
	case PurchaseOrderStatusConfirmed:
		return target == PurchaseOrderStatusCompleted || target == PurchaseOrderStatusCancelled
	case PurchaseOrderStatusCompleted, PurchaseOrderStatusCancelled:
		return false // Terminal states
	}
	return false
}

// PurchaseOrder represents money owed downstream along one leg of the
// print-job value chain. A purchase order is never hard-deleted; a
// superseded or mistaken order is cancelled instead.
type PurchaseOrder struct {
	shared.BaseAggregateRoot
	PONumber          string              `gorm:"type:varchar(50);not null;uniqueIndex"`
	JobID             *uuid.UUID          `gorm:"type:uuid;index"`
	OriginCompany     Company             `gorm:"type:varchar(20);not null"`
	TargetCompany     *Company            `gorm:"type:varchar(20)"`
	TargetVendorID    *uuid.UUID          `gorm:"type:uuid"`
	OriginalAmount    decimal.Decimal     `gorm:"type:decimal(18,4);not null;default:0"`
	VendorAmount      decimal.Decimal     `gorm:"type:decimal(18,4);not null;default:0"`
	MarginAmount      decimal.Decimal     `gorm:"type:decimal(18,4);not null;default:0"`
	Status            PurchaseOrderStatus `gorm:"type:varchar(20);not null;default:'PENDING'"`
	ReferencePONumber string              `gorm:"type:varchar(50)"`
	ExternalRef       string              `gorm:"type:varchar(100)"`
	ConfirmedAt       *time.Time
	CompletedAt       *time.Time
	CancelledAt       *time.Time
	CancelReason      string `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (PurchaseOrder) TableName() string {
	return "purchase_orders"
}

// NewPurchaseOrder creates a purchase order along a company leg or toward a
// third-party vendor. Exactly one of targetCompany / targetVendorID must be
// set: a document with both (or neither) has no well-defined mirror invoice.
func NewPurchaseOrder(poNumber string, jobID *uuid.UUID, origin Company, targetCompany *Company, targetVendorID *uuid.UUID, originalAmount, vendorAmount, marginAmount decimal.Decimal) (*PurchaseOrder, error) {
	if poNumber == "" {
		return nil, shared.NewDomainError("INVALID_PO_NUMBER", "PO number cannot be empty")
	}
	if !origin.IsValid() || origin == CompanyCustomer {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Origin company is not a valid chain party")
	}
	if (targetCompany == nil) == (targetVendorID == nil) {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Exactly one of target company or target vendor must be set")
	}
	if targetCompany != nil && (!targetCompany.IsValid() || *targetCompany == CompanyCustomer) {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Target company is not a valid chain party")
	}
	if vendorAmount.IsNegative() || originalAmount.IsNegative() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Purchase order amounts cannot be negative")
	}

	po := &PurchaseOrder{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		PONumber:          poNumber,
		JobID:             jobID,
		OriginCompany:     origin,
		TargetCompany:     targetCompany,
		TargetVendorID:    targetVendorID,
		OriginalAmount:    originalAmount,
		VendorAmount:      vendorAmount,
		MarginAmount:      marginAmount,
		Status:            PurchaseOrderStatusPending,
	}

	po.AddDomainEvent(NewPurchaseOrderCreatedEvent(po))

	return po, nil
}

// Leg returns the company leg this purchase order runs along, or nil for
// vendor-routed orders, which have no canonical leg.
func (po *PurchaseOrder) Leg() *Leg {
	if po.TargetCompany == nil {
		return nil
	}
	return &Leg{Origin: po.OriginCompany, Target: *po.TargetCompany}
}

// ChangeVendorAmount updates the vendor amount through the public edit path.
// Callers editing through the sync service get mirror propagation; this
// method itself only mutates the order.
func (po *PurchaseOrder) ChangeVendorAmount(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return shared.NewDomainError("VALIDATION_ERROR", "Vendor amount cannot be negative")
	}
	if po.Status == PurchaseOrderStatusCancelled {
		return shared.NewDomainError("INVALID_STATE", "Cannot change amounts on a cancelled purchase order")
	}

	po.VendorAmount = amount
	po.UpdatedAt = time.Now()
	po.IncrementVersion()

	return nil
}

// ApplySyncedVendorAmount writes the vendor amount directly during sync
// propagation. It bypasses the public edit path so a propagated change can
// never trigger further propagation: one-hop sync holds by construction.
func (po *PurchaseOrder) ApplySyncedVendorAmount(amount decimal.Decimal) {
	po.VendorAmount = amount
	po.UpdatedAt = time.Now()
	po.IncrementVersion()
}

// ChangeOriginalAmount updates the originating (customer-side) amount
func (po *PurchaseOrder) ChangeOriginalAmount(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return shared.NewDomainError("VALIDATION_ERROR", "Original amount cannot be negative")
	}
	if po.Status == PurchaseOrderStatusCancelled {
		return shared.NewDomainError("INVALID_STATE", "Cannot change amounts on a cancelled purchase order")
	}

	po.OriginalAmount = amount
	po.MarginAmount = po.OriginalAmount.Sub(po.VendorAmount)
	po.UpdatedAt = time.Now()
	po.IncrementVersion()

	return nil
}

// SetReference records the upstream PO number this order references
func (po *PurchaseOrder) SetReference(referencePONumber string) {
	po.ReferencePONumber = referencePONumber
	po.UpdatedAt = time.Now()
}

// SetExternalRef records an external system reference
func (po *PurchaseOrder) SetExternalRef(ref string) {
	po.ExternalRef = ref
	po.UpdatedAt = time.Now()
}

// Confirm transitions the order from PENDING to CONFIRMED
func (po *PurchaseOrder) Confirm() error {
	if !po.Status.CanTransitionTo(PurchaseOrderStatusConfirmed) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot confirm purchase order in %s status", po.Status))
	}

	now := time.Now()
	po.Status = PurchaseOrderStatusConfirmed
	po.ConfirmedAt = &now
	po.UpdatedAt = now
	po.IncrementVersion()

	return nil
}

// Complete transitions the order from CONFIRMED to COMPLETED
func (po *PurchaseOrder) Complete() error {
	if !po.Status.CanTransitionTo(PurchaseOrderStatusCompleted) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot complete purchase order in %s status", po.Status))
	}

	now := time.Now()
	po.Status = PurchaseOrderStatusCompleted
	po.CompletedAt = &now
	po.UpdatedAt = now
	po.IncrementVersion()

	return nil
}

// Cancel cancels the order. Cancelled orders are excluded from leg
// aggregation and mirror lookups but remain on record.
func (po *PurchaseOrder) Cancel(reason string) error {
	if !po.Status.CanTransitionTo(PurchaseOrderStatusCancelled) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot cancel purchase order in %s status", po.Status))
	}
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Cancel reason is required")
	}

	now := time.Now()
	po.Status = PurchaseOrderStatusCancelled
	po.CancelledAt = &now
	po.CancelReason = reason
	po.UpdatedAt = now
	po.IncrementVersion()

	po.AddDomainEvent(NewPurchaseOrderCancelledEvent(po))

	return nil
}

// IsCancelled returns true if the order is cancelled
func (po *PurchaseOrder) IsCancelled() bool {
	return po.Status == PurchaseOrderStatusCancelled
}

// IsTerminal returns true if the order is in a terminal state
func (po *PurchaseOrder) IsTerminal() bool {
	return po.Status == PurchaseOrderStatusCompleted || po.Status == PurchaseOrderStatusCancelled
}
