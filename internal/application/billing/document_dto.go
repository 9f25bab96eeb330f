package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/printchain/backend/internal/domain/billing"
	"github.com/shopspring/decimal"
)

// CreatePurchaseOrderRequest carries the fields for manual purchase order
// entry. Exactly one of TargetCompany and TargetVendorID must be set.
type CreatePurchaseOrderRequest struct {
	JobID             *uuid.UUID       `json:"job_id,omitempty"`
	OriginCompany     billing.Company  `json:"origin_company" binding:"required"`
	TargetCompany     *billing.Company `json:"target_company,omitempty"`
	TargetVendorID    *uuid.UUID       `json:"target_vendor_id,omitempty"`
	OriginalAmount    decimal.Decimal  `json:"original_amount"`
	VendorAmount      decimal.Decimal  `json:"vendor_amount"`
	ReferencePONumber string           `json:"reference_po_number,omitempty"`
	ExternalRef       string           `json:"external_ref,omitempty"`
}

// CreateInvoiceRequest carries the fields for manual invoice entry
type CreateInvoiceRequest struct {
	JobID       *uuid.UUID      `json:"job_id,omitempty"`
	FromCompany billing.Company `json:"from_company" binding:"required"`
	ToCompany   billing.Company `json:"to_company" binding:"required"`
	Amount      decimal.Decimal `json:"amount"`
	DueAt       *time.Time      `json:"due_at,omitempty"`
}

// PurchaseOrderResponse is the purchase order representation returned to callers
type PurchaseOrderResponse struct {
	ID                uuid.UUID                   `json:"id"`
	PONumber          string                      `json:"po_number"`
	JobID             *uuid.UUID                  `json:"job_id,omitempty"`
	OriginCompany     billing.Company             `json:"origin_company"`
	TargetCompany     *billing.Company            `json:"target_company,omitempty"`
	TargetVendorID    *uuid.UUID                  `json:"target_vendor_id,omitempty"`
	OriginalAmount    decimal.Decimal             `json:"original_amount"`
	VendorAmount      decimal.Decimal             `json:"vendor_amount"`
	MarginAmount      decimal.Decimal             `json:"margin_amount"`
	Status            billing.PurchaseOrderStatus `json:"status"`
	ReferencePONumber string                      `json:"reference_po_number,omitempty"`
	ExternalRef       string                      `json:"external_ref,omitempty"`
	ConfirmedAt       *time.Time                  `json:"confirmed_at,omitempty"`
	CompletedAt       *time.Time                  `json:"completed_at,omitempty"`
	CancelledAt       *time.Time                  `json:"cancelled_at,omitempty"`
	CancelReason      string                      `json:"cancel_reason,omitempty"`
	CreatedAt         time.Time                   `json:"created_at"`
	UpdatedAt         time.Time                   `json:"updated_at"`
}

// ToPurchaseOrderResponse converts a domain purchase order to its response
// representation
func ToPurchaseOrderResponse(po *billing.PurchaseOrder) *PurchaseOrderResponse {
	return &PurchaseOrderResponse{
		ID:                po.ID,
		PONumber:          po.PONumber,
		JobID:             po.JobID,
		OriginCompany:     po.OriginCompany,
		TargetCompany:     po.TargetCompany,
		TargetVendorID:    po.TargetVendorID,
		OriginalAmount:    po.OriginalAmount,
		VendorAmount:      po.VendorAmount,
		MarginAmount:      po.MarginAmount,
		Status:            po.Status,
		ReferencePONumber: po.ReferencePONumber,
		ExternalRef:       po.ExternalRef,
		ConfirmedAt:       po.ConfirmedAt,
		CompletedAt:       po.CompletedAt,
		CancelledAt:       po.CancelledAt,
		CancelReason:      po.CancelReason,
		CreatedAt:         po.CreatedAt,
		UpdatedAt:         po.UpdatedAt,
	}
}

// InvoiceResponse is the invoice representation returned to callers
type InvoiceResponse struct {
	ID          uuid.UUID       `json:"id"`
	InvoiceNo   string          `json:"invoice_no"`
	JobID       *uuid.UUID      `json:"job_id,omitempty"`
	FromCompany billing.Company `json:"from_company"`
	ToCompany   billing.Company `json:"to_company"`
	Amount      decimal.Decimal `json:"amount"`
	DueAt       *time.Time      `json:"due_at,omitempty"`
	IssuedAt    time.Time       `json:"issued_at"`
	PaidAt      *time.Time      `json:"paid_at,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ToInvoiceResponse converts a domain invoice to its response representation
func ToInvoiceResponse(inv *billing.Invoice) *InvoiceResponse {
	return &InvoiceResponse{
		ID:          inv.ID,
		InvoiceNo:   inv.InvoiceNo,
		JobID:       inv.JobID,
		FromCompany: inv.FromCompany,
		ToCompany:   inv.ToCompany,
		Amount:      inv.Amount,
		DueAt:       inv.DueAt,
		IssuedAt:    inv.IssuedAt,
		PaidAt:      inv.PaidAt,
		CreatedAt:   inv.CreatedAt,
		UpdatedAt:   inv.UpdatedAt,
	}
}

// SyncLogResponse is the sync log representation returned to callers
type SyncLogResponse struct {
	ID              uuid.UUID           `json:"id"`
	Trigger         billing.SyncTrigger `json:"trigger"`
	PurchaseOrderID *uuid.UUID          `json:"purchase_order_id,omitempty"`
	InvoiceID       *uuid.UUID          `json:"invoice_id,omitempty"`
	JobID           *uuid.UUID          `json:"job_id,omitempty"`
	Field           string              `json:"field"`
	OldValue        string              `json:"old_value"`
	NewValue        string              `json:"new_value"`
	ChangedBy       string              `json:"changed_by,omitempty"`
	Notes           string              `json:"notes,omitempty"`
	CreatedAt       time.Time           `json:"created_at"`
}

// ToSyncLogResponse converts a domain sync log entry to its response
// representation
func ToSyncLogResponse(l *billing.SyncLog) *SyncLogResponse {
	return &SyncLogResponse{
		ID:              l.ID,
		Trigger:         l.Trigger,
		PurchaseOrderID: l.PurchaseOrderID,
		InvoiceID:       l.InvoiceID,
		JobID:           l.JobID,
		Field:           l.Field,
		OldValue:        l.OldValue,
		NewValue:        l.NewValue,
		ChangedBy:       l.ChangedBy,
		Notes:           l.Notes,
		CreatedAt:       l.CreatedAt,
	}
}
