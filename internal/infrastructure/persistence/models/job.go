package models

import (
	"time"

	"github.com/printchain/backend/internal/domain/job"
	"github.com/printchain/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// JobModel is the persistence model for the Job aggregate root.
type JobModel struct {
	AggregateModel
	JobNo      string     `gorm:"type:varchar(50);not null;uniqueIndex"`
	CustomerID uuid.UUID  `gorm:"type:uuid;not null;index"`
	Status     job.Status `gorm:"type:varchar(20);not null;default:'PENDING';index"`

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
func (JobModel) TableName() string {
	return "jobs"
}

// ToDomain converts the persistence model to a domain Job entity.
func (m *JobModel) ToDomain() *job.Job {
	return &job.Job{
		BaseAggregateRoot: shared.BaseAggregateRoot{
			BaseEntity: shared.BaseEntity{
				ID:        m.ID,
				CreatedAt: m.CreatedAt,
				UpdatedAt: m.UpdatedAt,
			},
			Version: m.Version,
		},
		JobNo:                     m.JobNo,
		CustomerID:                m.CustomerID,
		Status:                    m.Status,
		CustomerTotal:             m.CustomerTotal,
		BradfordTotal:             m.BradfordTotal,
		JDTotal:                   m.JDTotal,
		PaperCostTotal:            m.PaperCostTotal,
		PaperChargedTotal:         m.PaperChargedTotal,
		ImpactMargin:              m.ImpactMargin,
		BradfordTotalMargin:       m.BradfordTotalMargin,
		BradfordPaperMargin:       m.BradfordPaperMargin,
		BradfordPrintMargin:       m.BradfordPrintMargin,
		JDSuppliesPaper:           m.JDSuppliesPaper,
		BradfordWaivesPaperMargin: m.BradfordWaivesPaperMargin,
		CompletedAt:               m.CompletedAt,
		CancelledAt:               m.CancelledAt,
		CancelReason:              m.CancelReason,
	}
}

// FromDomain populates the persistence model from a domain Job entity.
func (m *JobModel) FromDomain(j *job.Job) {
	m.FromDomainAggregateRoot(j.BaseAggregateRoot)
	m.JobNo = j.JobNo
	m.CustomerID = j.CustomerID
	m.Status = j.Status
	m.CustomerTotal = j.CustomerTotal
	m.BradfordTotal = j.BradfordTotal
	m.JDTotal = j.JDTotal
	m.PaperCostTotal = j.PaperCostTotal
	m.PaperChargedTotal = j.PaperChargedTotal
	m.ImpactMargin = j.ImpactMargin
	m.BradfordTotalMargin = j.BradfordTotalMargin
	m.BradfordPaperMargin = j.BradfordPaperMargin
	m.BradfordPrintMargin = j.BradfordPrintMargin
	m.JDSuppliesPaper = j.JDSuppliesPaper
	m.BradfordWaivesPaperMargin = j.BradfordWaivesPaperMargin
	m.CompletedAt = j.CompletedAt
	m.CancelledAt = j.CancelledAt
	m.CancelReason = j.CancelReason
}

// JobModelFromDomain creates a new persistence model from a domain Job entity.
func JobModelFromDomain(j *job.Job) *JobModel {
	m := &JobModel{}
	m.FromDomain(j)
	return m
}
