package models

import (
	"time"

	"github.com/printchain/backend/internal/domain/billing"
	"github.com/printchain/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PurchaseOrderModel is the persistence model for the PurchaseOrder aggregate root.
type PurchaseOrderModel struct {
	AggregateModel
	PONumber          string                      `gorm:"type:varchar(50);not null;uniqueIndex"`
	JobID             *uuid.UUID                  `gorm:"type:uuid;index;index:idx_po_job_leg,priority:1"`
	OriginCompany     billing.Company             `gorm:"type:varchar(20);not null;index:idx_po_job_leg,priority:2"`
	TargetCompany     *billing.Company            `gorm:"type:varchar(20);index:idx_po_job_leg,priority:3"`
	TargetVendorID    *uuid.UUID                  `gorm:"type:uuid"`
	OriginalAmount    decimal.Decimal             `gorm:"type:decimal(18,4);not null;default:0"`
	VendorAmount      decimal.Decimal             `gorm:"type:decimal(18,4);not null;default:0"`
	MarginAmount      decimal.Decimal             `gorm:"type:decimal(18,4);not null;default:0"`
	Status            billing.PurchaseOrderStatus `gorm:"type:varchar(20);not null;default:'PENDING'"`
	ReferencePONumber string                      `gorm:"type:varchar(50)"`
	ExternalRef       string                      `gorm:"type:varchar(100)"`
	ConfirmedAt       *time.Time
	CompletedAt       *time.Time
	CancelledAt       *time.Time
	CancelReason      string `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (PurchaseOrderModel) TableName() string {
	return "purchase_orders"
}

// ToDomain converts the persistence model to a domain PurchaseOrder entity.
func (m *PurchaseOrderModel) ToDomain() *billing.PurchaseOrder {
	return &billing.PurchaseOrder{
		BaseAggregateRoot: shared.BaseAggregateRoot{
			BaseEntity: shared.BaseEntity{
				ID:        m.ID,
				CreatedAt: m.CreatedAt,
				UpdatedAt: m.UpdatedAt,
			},
			Version: m.Version,
		},
		PONumber:          m.PONumber,
		JobID:             m.JobID,
		OriginCompany:     m.OriginCompany,
		TargetCompany:     m.TargetCompany,
		TargetVendorID:    m.TargetVendorID,
		OriginalAmount:    m.OriginalAmount,
		VendorAmount:      m.VendorAmount,
		MarginAmount:      m.MarginAmount,
		Status:            m.Status,
		ReferencePONumber: m.ReferencePONumber,
		ExternalRef:       m.ExternalRef,
		ConfirmedAt:       m.ConfirmedAt,
		CompletedAt:       m.CompletedAt,
		CancelledAt:       m.CancelledAt,
		CancelReason:      m.CancelReason,
	}
}

// FromDomain populates the persistence model from a domain PurchaseOrder entity.
func (m *PurchaseOrderModel) FromDomain(po *billing.PurchaseOrder) {
	m.FromDomainAggregateRoot(po.BaseAggregateRoot)
	m.PONumber = po.PONumber
	m.JobID = po.JobID
	m.OriginCompany = po.OriginCompany
	m.TargetCompany = po.TargetCompany
	m.TargetVendorID = po.TargetVendorID
	m.OriginalAmount = po.OriginalAmount
	m.VendorAmount = po.VendorAmount
	m.MarginAmount = po.MarginAmount
	m.Status = po.Status
	m.ReferencePONumber = po.ReferencePONumber
	m.ExternalRef = po.ExternalRef
	m.ConfirmedAt = po.ConfirmedAt
	m.CompletedAt = po.CompletedAt
	m.CancelledAt = po.CancelledAt
	m.CancelReason = po.CancelReason
}

// PurchaseOrderModelFromDomain creates a new persistence model from a domain PurchaseOrder entity.
func PurchaseOrderModelFromDomain(po *billing.PurchaseOrder) *PurchaseOrderModel {
	m := &PurchaseOrderModel{}
	m.FromDomain(po)
	return m
}

// InvoiceModel is the persistence model for the Invoice aggregate root.
type InvoiceModel struct {
	AggregateModel
	InvoiceNo   string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	JobID       *uuid.UUID      `gorm:"type:uuid;index;index:idx_invoice_job_leg,priority:1"`
	FromCompany billing.Company `gorm:"type:varchar(20);not null;index:idx_invoice_job_leg,priority:2"`
	ToCompany   billing.Company `gorm:"type:varchar(20);not null;index:idx_invoice_job_leg,priority:3"`
	Amount      decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	DueAt       *time.Time
	IssuedAt    time.Time `gorm:"not null"`
	PaidAt      *time.Time
}

// TableName returns the table name for GORM
func (InvoiceModel) TableName() string {
	return "invoices"
}

// ToDomain converts the persistence model to a domain Invoice entity.
func (m *InvoiceModel) ToDomain() *billing.Invoice {
	return &billing.Invoice{
		BaseAggregateRoot: shared.BaseAggregateRoot{
			BaseEntity: shared.BaseEntity{
				ID:        m.ID,
				CreatedAt: m.CreatedAt,
				UpdatedAt: m.UpdatedAt,
			},
			Version: m.Version,
		},
		InvoiceNo:   m.InvoiceNo,
		JobID:       m.JobID,
		FromCompany: m.FromCompany,
		ToCompany:   m.ToCompany,
		Amount:      m.Amount,
		DueAt:       m.DueAt,
		IssuedAt:    m.IssuedAt,
		PaidAt:      m.PaidAt,
	}
}

// FromDomain populates the persistence model from a domain Invoice entity.
func (m *InvoiceModel) FromDomain(inv *billing.Invoice) {
	m.FromDomainAggregateRoot(inv.BaseAggregateRoot)
	m.InvoiceNo = inv.InvoiceNo
	m.JobID = inv.JobID
	m.FromCompany = inv.FromCompany
	m.ToCompany = inv.ToCompany
	m.Amount = inv.Amount
	m.DueAt = inv.DueAt
	m.IssuedAt = inv.IssuedAt
	m.PaidAt = inv.PaidAt
}

// InvoiceModelFromDomain creates a new persistence model from a domain Invoice entity.
func InvoiceModelFromDomain(inv *billing.Invoice) *InvoiceModel {
	m := &InvoiceModel{}
	m.FromDomain(inv)
	return m
}

// SyncLogModel is the persistence model for the append-only SyncLog entity.
type SyncLogModel struct {
	BaseModel
	Trigger         billing.SyncTrigger `gorm:"type:varchar(20);not null"`
	PurchaseOrderID *uuid.UUID          `gorm:"type:uuid;index"`
	InvoiceID       *uuid.UUID          `gorm:"type:uuid;index"`
	JobID           *uuid.UUID          `gorm:"type:uuid;index"`
	Field           string              `gorm:"type:varchar(50);not null"`
	OldValue        string              `gorm:"type:varchar(100);not null"`
	NewValue        string              `gorm:"type:varchar(100);not null"`
	ChangedBy       string              `gorm:"type:varchar(100)"`
	Notes           string              `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (SyncLogModel) TableName() string {
	return "sync_logs"
}

// ToDomain converts the persistence model to a domain SyncLog entity.
func (m *SyncLogModel) ToDomain() *billing.SyncLog {
	return &billing.SyncLog{
		BaseEntity: shared.BaseEntity{
			ID:        m.ID,
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
		Trigger:         m.Trigger,
		PurchaseOrderID: m.PurchaseOrderID,
		InvoiceID:       m.InvoiceID,
		JobID:           m.JobID,
		Field:           m.Field,
		OldValue:        m.OldValue,
		NewValue:        m.NewValue,
		ChangedBy:       m.ChangedBy,
		Notes:           m.Notes,
	}
}

// FromDomain populates the persistence model from a domain SyncLog entity.
func (m *SyncLogModel) FromDomain(l *billing.SyncLog) {
	m.FromDomainBaseEntity(l.BaseEntity)
	m.Trigger = l.Trigger
	m.PurchaseOrderID = l.PurchaseOrderID
	m.InvoiceID = l.InvoiceID
	m.JobID = l.JobID
	m.Field = l.Field
	m.OldValue = l.OldValue
	m.NewValue = l.NewValue
	m.ChangedBy = l.ChangedBy
	m.Notes = l.Notes
}

// SyncLogModelFromDomain creates a new persistence model from a domain SyncLog entity.
func SyncLogModelFromDomain(l *billing.SyncLog) *SyncLogModel {
	m := &SyncLogModel{}
	m.FromDomain(l)
	return m
}
