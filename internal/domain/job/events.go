package job

import (
	"github.com/google/uuid"
	"github.com/printchain/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// AggregateTypeJob is the aggregate type constant for jobs
const AggregateTypeJob = "Job"

// Event type constants
const (
	EventTypeJobCreated       = "JobCreated"
	EventTypeJobStatusChanged = "JobStatusChanged"
	EventTypeJobCompleted     = "JobCompleted"
)

// JobCreatedEvent is raised when a job is created at intake
type JobCreatedEvent struct {
	shared.BaseDomainEvent
	JobID         uuid.UUID       `json:"job_id"`
	JobNo         string          `json:"job_no"`
	CustomerID    uuid.UUID       `json:"customer_id"`
	CustomerTotal decimal.Decimal `json:"customer_total"`
}

// NewJobCreatedEvent creates a new JobCreatedEvent
func NewJobCreatedEvent(j *Job) *JobCreatedEvent {
	return &JobCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeJobCreated, AggregateTypeJob, j.ID),
		JobID:           j.ID,
		JobNo:           j.JobNo,
		CustomerID:      j.CustomerID,
		CustomerTotal:   j.CustomerTotal,
	}
}

// EventType returns the event type name
func (e *JobCreatedEvent) EventType() string {
	return EventTypeJobCreated
}

// JobStatusChangedEvent is raised on every lifecycle transition
type JobStatusChangedEvent struct {
	shared.BaseDomainEvent
	JobID     uuid.UUID `json:"job_id"`
	JobNo     string    `json:"job_no"`
	OldStatus Status    `json:"old_status"`
	NewStatus Status    `json:"new_status"`
}

// NewJobStatusChangedEvent creates a new JobStatusChangedEvent
func NewJobStatusChangedEvent(j *Job, oldStatus, newStatus Status) *JobStatusChangedEvent {
	return &JobStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeJobStatusChanged, AggregateTypeJob, j.ID),
		JobID:           j.ID,
		JobNo:           j.JobNo,
		OldStatus:       oldStatus,
		NewStatus:       newStatus,
	}
}

// EventType returns the event type name
func (e *JobStatusChangedEvent) EventType() string {
	return EventTypeJobStatusChanged
}

// JobCompletedEvent is raised when the invoice chain generator completes a job
type JobCompletedEvent struct {
	shared.BaseDomainEvent
	JobID         uuid.UUID       `json:"job_id"`
	JobNo         string          `json:"job_no"`
	CustomerID    uuid.UUID       `json:"customer_id"`
	CustomerTotal decimal.Decimal `json:"customer_total"`
	ImpactMargin  decimal.Decimal `json:"impact_margin"`
}

// NewJobCompletedEvent creates a new JobCompletedEvent
func NewJobCompletedEvent(j *Job) *JobCompletedEvent {
	return &JobCompletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeJobCompleted, AggregateTypeJob, j.ID),
		JobID:           j.ID,
		JobNo:           j.JobNo,
		CustomerID:      j.CustomerID,
		CustomerTotal:   j.CustomerTotal,
		ImpactMargin:    j.ImpactMargin,
	}
}

// EventType returns the event type name
func (e *JobCompletedEvent) EventType() string {
	return EventTypeJobCompleted
}
