package billing

import (
	"github.com/google/uuid"
	"github.com/printchain/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Aggregate type constants
const (
	AggregateTypePurchaseOrder = "PurchaseOrder"
	AggregateTypeInvoice       = "Invoice"
)

// Event type constants
const (
	EventTypePurchaseOrderCreated   = "PurchaseOrderCreated"
	EventTypePurchaseOrderCancelled = "PurchaseOrderCancelled"
	EventTypeInvoiceCreated         = "InvoiceCreated"
	EventTypeInvoicePaid            = "InvoicePaid"
	EventTypeAmountSynced           = "AmountSynced"
)

// PurchaseOrderCreatedEvent is raised when a new purchase order is created
type PurchaseOrderCreatedEvent struct {
	shared.BaseDomainEvent
	PurchaseOrderID uuid.UUID       `json:"purchase_order_id"`
	PONumber        string          `json:"po_number"`
	JobID           *uuid.UUID      `json:"job_id,omitempty"`
	OriginCompany   Company         `json:"origin_company"`
	TargetCompany   *Company        `json:"target_company,omitempty"`
	VendorAmount    decimal.Decimal `json:"vendor_amount"`
}

// NewPurchaseOrderCreatedEvent creates a new PurchaseOrderCreatedEvent
func NewPurchaseOrderCreatedEvent(po *PurchaseOrder) *PurchaseOrderCreatedEvent {
	return &PurchaseOrderCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePurchaseOrderCreated, AggregateTypePurchaseOrder, po.ID),
		PurchaseOrderID: po.ID,
		PONumber:        po.PONumber,
		JobID:           po.JobID,
		OriginCompany:   po.OriginCompany,
		TargetCompany:   po.TargetCompany,
		VendorAmount:    po.VendorAmount,
	}
}

// EventType returns the event type name
func (e *PurchaseOrderCreatedEvent) EventType() string {
	return EventTypePurchaseOrderCreated
}

// PurchaseOrderCancelledEvent is raised when a purchase order is cancelled
type PurchaseOrderCancelledEvent struct {
	shared.BaseDomainEvent
	PurchaseOrderID uuid.UUID  `json:"purchase_order_id"`
	PONumber        string     `json:"po_number"`
	JobID           *uuid.UUID `json:"job_id,omitempty"`
	CancelReason    string     `json:"cancel_reason"`
}

// NewPurchaseOrderCancelledEvent creates a new PurchaseOrderCancelledEvent
func NewPurchaseOrderCancelledEvent(po *PurchaseOrder) *PurchaseOrderCancelledEvent {
	return &PurchaseOrderCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePurchaseOrderCancelled, AggregateTypePurchaseOrder, po.ID),
		PurchaseOrderID: po.ID,
		PONumber:        po.PONumber,
		JobID:           po.JobID,
		CancelReason:    po.CancelReason,
	}
}

// EventType returns the event type name
func (e *PurchaseOrderCancelledEvent) EventType() string {
	return EventTypePurchaseOrderCancelled
}

// InvoiceCreatedEvent is raised when a new invoice is created
type InvoiceCreatedEvent struct {
	shared.BaseDomainEvent
	InvoiceID   uuid.UUID       `json:"invoice_id"`
	InvoiceNo   string          `json:"invoice_no"`
	JobID       *uuid.UUID      `json:"job_id,omitempty"`
	FromCompany Company         `json:"from_company"`
	ToCompany   Company         `json:"to_company"`
	Amount      decimal.Decimal `json:"amount"`
}

// NewInvoiceCreatedEvent creates a new InvoiceCreatedEvent
func NewInvoiceCreatedEvent(inv *Invoice) *InvoiceCreatedEvent {
	return &InvoiceCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoiceCreated, AggregateTypeInvoice, inv.ID),
		InvoiceID:       inv.ID,
		InvoiceNo:       inv.InvoiceNo,
		JobID:           inv.JobID,
		FromCompany:     inv.FromCompany,
		ToCompany:       inv.ToCompany,
		Amount:          inv.Amount,
	}
}

// EventType returns the event type name
func (e *InvoiceCreatedEvent) EventType() string {
	return EventTypeInvoiceCreated
}

// InvoicePaidEvent is raised when an invoice is marked paid
type InvoicePaidEvent struct {
	shared.BaseDomainEvent
	InvoiceID uuid.UUID       `json:"invoice_id"`
	InvoiceNo string          `json:"invoice_no"`
	JobID     *uuid.UUID      `json:"job_id,omitempty"`
	Amount    decimal.Decimal `json:"amount"`
}

// NewInvoicePaidEvent creates a new InvoicePaidEvent
func NewInvoicePaidEvent(inv *Invoice) *InvoicePaidEvent {
	return &InvoicePaidEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoicePaid, AggregateTypeInvoice, inv.ID),
		InvoiceID:       inv.ID,
		InvoiceNo:       inv.InvoiceNo,
		JobID:           inv.JobID,
		Amount:          inv.Amount,
	}
}

// EventType returns the event type name
func (e *InvoicePaidEvent) EventType() string {
	return EventTypeInvoicePaid
}
