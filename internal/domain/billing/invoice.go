package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/printchain/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Invoice represents money billed upstream along one leg of the chain.
// Its direction is always the inverse of the purchase order it mirrors
// (invoice.from = po.target, invoice.to = po.origin).
type Invoice struct {
	shared.BaseAggregateRoot
	InvoiceNo   string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	JobID       *uuid.UUID      `gorm:"type:uuid;index"`
	FromCompany Company         `gorm:"type:varchar(20);not null"`
	ToCompany   Company         `gorm:"type:varchar(20);not null"`
	Amount      decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	DueAt       *time.Time
	IssuedAt    time.Time `gorm:"not null"`
	PaidAt      *time.Time
}

// TableName returns the table name for GORM
func (Invoice) TableName() string {
	return "invoices"
}

// NewInvoice creates an invoice for a billing leg
func NewInvoice(invoiceNo string, jobID *uuid.UUID, from, to Company, amount decimal.Decimal, dueAt *time.Time) (*Invoice, error) {
	if invoiceNo == "" {
		return nil, shared.NewDomainError("INVALID_INVOICE_NUMBER", "Invoice number cannot be empty")
	}
	if !from.IsValid() || !to.IsValid() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Invoice parties must be valid chain parties")
	}
	if from == to {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Invoice cannot bill a company to itself")
	}
	if amount.IsNegative() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Invoice amount cannot be negative")
	}

	inv := &Invoice{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		InvoiceNo:         invoiceNo,
		JobID:             jobID,
		FromCompany:       from,
		ToCompany:         to,
		Amount:            amount,
		DueAt:             dueAt,
		IssuedAt:          time.Now(),
	}

	inv.AddDomainEvent(NewInvoiceCreatedEvent(inv))

	return inv, nil
}

// Leg returns the billing leg this invoice runs along
func (i *Invoice) Leg() InvoiceLeg {
	return InvoiceLeg{From: i.FromCompany, To: i.ToCompany}
}

// ChangeAmount updates the amount through the public edit path.
// Callers editing through the sync service get mirror propagation.
func (i *Invoice) ChangeAmount(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return shared.NewDomainError("VALIDATION_ERROR", "Invoice amount cannot be negative")
	}
	if i.PaidAt != nil {
		return shared.NewDomainError("INVALID_STATE", "Cannot change the amount of a paid invoice")
	}

	i.Amount = amount
	i.UpdatedAt = time.Now()
	i.IncrementVersion()

	return nil
}

// ApplySyncedAmount writes the amount directly during sync propagation.
// It bypasses the public edit path so a propagated change can never
// trigger further propagation.
func (i *Invoice) ApplySyncedAmount(amount decimal.Decimal) {
	i.Amount = amount
	i.UpdatedAt = time.Now()
	i.IncrementVersion()
}

// SetDueDate sets the payment due date
func (i *Invoice) SetDueDate(dueAt time.Time) error {
	if i.PaidAt != nil {
		return shared.NewDomainError("INVALID_STATE", "Cannot change the due date of a paid invoice")
	}

	i.DueAt = &dueAt
	i.UpdatedAt = time.Now()

	return nil
}

// MarkPaid records payment. PaidAt is set once and never reset.
func (i *Invoice) MarkPaid(paidAt time.Time) error {
	if i.PaidAt != nil {
		return shared.NewDomainError("INVALID_STATE", "Invoice is already paid")
	}

	i.PaidAt = &paidAt
	i.UpdatedAt = time.Now()
	i.IncrementVersion()

	i.AddDomainEvent(NewInvoicePaidEvent(i))

	return nil
}

// IsPaid returns true if the invoice has been paid
func (i *Invoice) IsPaid() bool {
	return i.PaidAt != nil
}

// IsOverdue returns true if the invoice is unpaid past its due date
func (i *Invoice) IsOverdue(now time.Time) bool {
	return i.PaidAt == nil && i.DueAt != nil && now.After(*i.DueAt)
}
