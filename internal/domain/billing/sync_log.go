package billing

import (
	"github.com/google/uuid"
	"github.com/printchain/backend/internal/domain/shared"
)

// SyncTrigger identifies which document edit triggered a propagation
type SyncTrigger string

const (
	SyncTriggerPOUpdate      SyncTrigger = "PO_UPDATE"
	SyncTriggerInvoiceUpdate SyncTrigger = "INVOICE_UPDATE"
)

// IsValid checks if the trigger is a known SyncTrigger
func (t SyncTrigger) IsValid() bool {
	return t == SyncTriggerPOUpdate || t == SyncTriggerInvoiceUpdate
}

// String returns the string representation of SyncTrigger
func (t SyncTrigger) String() string {
	return string(t)
}

// SyncLog records one successful cross-document propagation. Rows are
// append-only: never mutated, never deleted. They are the audit trail of
// amount edits flowing between purchase orders and their mirror invoices.
type SyncLog struct {
	shared.BaseEntity
	Trigger         SyncTrigger `gorm:"type:varchar(20);not null"`
	PurchaseOrderID *uuid.UUID  `gorm:"type:uuid;index"`
	InvoiceID       *uuid.UUID  `gorm:"type:uuid;index"`
	JobID           *uuid.UUID  `gorm:"type:uuid;index"`
	Field           string      `gorm:"type:varchar(50);not null"`
	OldValue        string      `gorm:"type:varchar(100);not null"`
	NewValue        string      `gorm:"type:varchar(100);not null"`
	ChangedBy       string      `gorm:"type:varchar(100)"`
	Notes           string      `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (SyncLog) TableName() string {
	return "sync_logs"
}

// NewSyncLog creates a sync log entry for a propagation
func NewSyncLog(trigger SyncTrigger, field, oldValue, newValue string) (*SyncLog, error) {
	if !trigger.IsValid() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Unknown sync trigger")
	}
	if field == "" {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Sync log field cannot be empty")
	}

	return &SyncLog{
		BaseEntity: shared.NewBaseEntity(),
		Trigger:    trigger,
		Field:      field,
		OldValue:   oldValue,
		NewValue:   newValue,
	}, nil
}

// WithDocuments links the log entry to the documents involved
func (l *SyncLog) WithDocuments(purchaseOrderID, invoiceID, jobID *uuid.UUID) *SyncLog {
	l.PurchaseOrderID = purchaseOrderID
	l.InvoiceID = invoiceID
	l.JobID = jobID
	return l
}

// WithChangedBy records who made the originating edit
func (l *SyncLog) WithChangedBy(changedBy string) *SyncLog {
	l.ChangedBy = changedBy
	return l
}

// WithNotes attaches free-form notes to the entry
func (l *SyncLog) WithNotes(notes string) *SyncLog {
	l.Notes = notes
	return l
}
