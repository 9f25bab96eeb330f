package job

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/printchain/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Status represents the lifecycle stage of a print job
type Status string

const (
	StatusPending       Status = "PENDING"
	StatusInProduction  Status = "IN_PRODUCTION"
	StatusReadyForProof Status = "READY_FOR_PROOF"
	StatusProofApproved Status = "PROOF_APPROVED"
	StatusCompleted     Status = "COMPLETED"
	StatusCancelled     Status = "CANCELLED"
)

// statusRank orders the forward lifecycle stages
var statusRank = map[Status]int{
	StatusPending:       0,
	StatusInProduction:  1,
	StatusReadyForProof: 2,
	StatusProofApproved: 3,
	StatusCompleted:     4,
}

// IsValid checks if the status is a valid job Status
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusInProduction, StatusReadyForProof,
		StatusProofApproved, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// IsTerminal returns true for COMPLETED and CANCELLED
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// CanTransitionTo checks if the status can transition to the target status.
// The lifecycle advances monotonically; CANCELLED is reachable from any
// non-terminal stage.
func (s Status) CanTransitionTo(target Status) bool {
	if s.IsTerminal() {
		return false
	}
	if target == StatusCancelled {
		return true
	}
	from, ok := statusRank[s]
	if !ok {
		return false
	}
	to, ok := statusRank[target]
	if !ok {
		return false
	}
	return to > from
}

// InProductionOrLater reports whether the job has entered production.
// The Bradford → JD Graphic purchase order is only expected from this
// stage onward.
func (s Status) InProductionOrLater() bool {
	rank, ok := statusRank[s]
	return ok && rank >= statusRank[StatusInProduction]
}

// Job is the aggregate root of a print job moving through the value chain.
// The derived financial fields (totals and margins) are written only by the
// ledger service via ApplyDerivedFinancials; everything else treats them as
// read-only.
type Job struct {
	shared.BaseAggregateRoot
	JobNo      string    `gorm:"type:varchar(50);not null;uniqueIndex"`
	CustomerID uuid.UUID `gorm:"type:uuid;not null;index"`
	Status     Status    `gorm:"type:varchar(20);not null;default:'PENDING'"`

	CustomerTotal     decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	BradfordTotal     decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	JDTotal           decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	PaperCostTotal    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	PaperChargedTotal decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`

	ImpactMargin        decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	BradfordTotalMargin decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	BradfordPaperMargin decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	BradfordPrintMargin decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`

	JDSuppliesPaper           bool `gorm:"not null;default:false"`
	BradfordWaivesPaperMargin bool `gorm:"not null;default:false"`

	CompletedAt  *time.Time
	CancelledAt  *time.Time
	CancelReason string `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (Job) TableName() string {
	return "jobs"
}

// NewJob creates a job at intake, in PENDING status
func NewJob(jobNo string, customerID uuid.UUID, customerTotal, paperCostTotal, paperChargedTotal decimal.Decimal, jdSuppliesPaper, bradfordWaivesPaperMargin bool) (*Job, error) {
	if jobNo == "" {
		return nil, shared.NewDomainError("INVALID_JOB_NUMBER", "Job number cannot be empty")
	}
	if len(jobNo) > 50 {
		return nil, shared.NewDomainError("INVALID_JOB_NUMBER", "Job number cannot exceed 50 characters")
	}
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer ID cannot be empty")
	}
	if customerTotal.IsNegative() || paperCostTotal.IsNegative() || paperChargedTotal.IsNegative() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Job amounts cannot be negative")
	}
	if jdSuppliesPaper && bradfordWaivesPaperMargin {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "At most one routing flag may be set")
	}

	j := &Job{
		BaseAggregateRoot:         shared.NewBaseAggregateRoot(),
		JobNo:                     jobNo,
		CustomerID:                customerID,
		Status:                    StatusPending,
		CustomerTotal:             customerTotal,
		PaperCostTotal:            paperCostTotal,
		PaperChargedTotal:         paperChargedTotal,
		JDSuppliesPaper:           jdSuppliesPaper,
		BradfordWaivesPaperMargin: bradfordWaivesPaperMargin,
	}

	j.AddDomainEvent(NewJobCreatedEvent(j))

	return j, nil
}

// AdvanceTo moves the job forward in its lifecycle
func (j *Job) AdvanceTo(target Status) error {
	if !target.IsValid() {
		return shared.NewDomainError("VALIDATION_ERROR", "Unknown job status: "+target.String())
	}
	if target == StatusCancelled {
		return shared.NewDomainError("INVALID_STATE", "Use Cancel to cancel a job")
	}
	if target == StatusCompleted {
		return shared.NewDomainError("INVALID_STATE", "Jobs are completed through invoice chain generation")
	}
	if !j.Status.CanTransitionTo(target) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot move job from %s to %s", j.Status, target))
	}

	oldStatus := j.Status
	j.Status = target
	j.UpdatedAt = time.Now()
	j.IncrementVersion()

	j.AddDomainEvent(NewJobStatusChangedEvent(j, oldStatus, target))

	return nil
}

// Complete marks the job COMPLETED. Called by the invoice chain generator
// as the final step after the three invoices exist.
func (j *Job) Complete() error {
	if !j.Status.CanTransitionTo(StatusCompleted) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot complete job in %s status", j.Status))
	}

	oldStatus := j.Status
	now := time.Now()
	j.Status = StatusCompleted
	j.CompletedAt = &now
	j.UpdatedAt = now
	j.IncrementVersion()

	j.AddDomainEvent(NewJobStatusChangedEvent(j, oldStatus, StatusCompleted))
	j.AddDomainEvent(NewJobCompletedEvent(j))

	return nil
}

// Cancel cancels the job
func (j *Job) Cancel(reason string) error {
	if !j.Status.CanTransitionTo(StatusCancelled) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot cancel job in %s status", j.Status))
	}
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Cancel reason is required")
	}

	oldStatus := j.Status
	now := time.Now()
	j.Status = StatusCancelled
	j.CancelledAt = &now
	j.CancelReason = reason
	j.UpdatedAt = now
	j.IncrementVersion()

	j.AddDomainEvent(NewJobStatusChangedEvent(j, oldStatus, StatusCancelled))

	return nil
}

// ChangeCustomerTotal updates the customer-facing total. The ledger must be
// re-run afterward to keep the derived margins consistent.
func (j *Job) ChangeCustomerTotal(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return shared.NewDomainError("VALIDATION_ERROR", "Customer total cannot be negative")
	}
	if j.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", "Cannot change amounts on a terminal job")
	}

	j.CustomerTotal = amount
	j.UpdatedAt = time.Now()
	j.IncrementVersion()

	return nil
}

// ChangePaperAmounts updates the paper cost and charged totals. The ledger
// must be re-run afterward.
func (j *Job) ChangePaperAmounts(paperCostTotal, paperChargedTotal decimal.Decimal) error {
	if paperCostTotal.IsNegative() || paperChargedTotal.IsNegative() {
		return shared.NewDomainError("VALIDATION_ERROR", "Paper amounts cannot be negative")
	}
	if j.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", "Cannot change amounts on a terminal job")
	}

	j.PaperCostTotal = paperCostTotal
	j.PaperChargedTotal = paperChargedTotal
	j.UpdatedAt = time.Now()
	j.IncrementVersion()

	return nil
}

// ApplyDerivedFinancials writes the ledger-computed aggregate totals and
// margins. Only the ledger service calls this; it is the single writer of
// these fields.
func (j *Job) ApplyDerivedFinancials(bradfordTotal, jdTotal, impactMargin, bradfordTotalMargin, bradfordPaperMargin, bradfordPrintMargin decimal.Decimal) {
	j.BradfordTotal = bradfordTotal
	j.JDTotal = jdTotal
	j.ImpactMargin = impactMargin
	j.BradfordTotalMargin = bradfordTotalMargin
	j.BradfordPaperMargin = bradfordPaperMargin
	j.BradfordPrintMargin = bradfordPrintMargin
	j.UpdatedAt = time.Now()
	j.IncrementVersion()
}

// IsCompleted returns true if the job is completed
func (j *Job) IsCompleted() bool {
	return j.Status == StatusCompleted
}

// IsCancelled returns true if the job is cancelled
func (j *Job) IsCancelled() bool {
	return j.Status == StatusCancelled
}
