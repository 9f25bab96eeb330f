package job

import (
	"time"

	"github.com/google/uuid"
	"github.com/printchain/backend/internal/domain/job"
	"github.com/shopspring/decimal"
)

// CreateJobRequest carries the job intake fields
type CreateJobRequest struct {
	CustomerID                uuid.UUID       `json:"customer_id" binding:"required"`
	CustomerTotal             decimal.Decimal `json:"customer_total"`
	PaperCostTotal            decimal.Decimal `json:"paper_cost_total"`
	PaperChargedTotal         decimal.Decimal `json:"paper_charged_total"`
	JDSuppliesPaper           bool            `json:"jd_supplies_paper"`
	BradfordWaivesPaperMargin bool            `json:"bradford_waives_paper_margin"`
}

// UpdateJobFinancialsRequest carries the editable financial inputs.
// Nil fields are left untouched.
type UpdateJobFinancialsRequest struct {
	CustomerTotal     *decimal.Decimal `json:"customer_total,omitempty"`
	PaperCostTotal    *decimal.Decimal `json:"paper_cost_total,omitempty"`
	PaperChargedTotal *decimal.Decimal `json:"paper_charged_total,omitempty"`
}

// JobResponse is the job representation returned to callers
type JobResponse struct {
	ID         uuid.UUID  `json:"id"`
	JobNo      string     `json:"job_no"`
	CustomerID uuid.UUID  `json:"customer_id"`
	Status     job.Status `json:"status"`

	CustomerTotal     decimal.Decimal `json:"customer_total"`
	BradfordTotal     decimal.Decimal `json:"bradford_total"`
	JDTotal           decimal.Decimal `json:"jd_total"`
	PaperCostTotal    decimal.Decimal `json:"paper_cost_total"`
	PaperChargedTotal decimal.Decimal `json:"paper_charged_total"`

	ImpactMargin        decimal.Decimal `json:"impact_margin"`
	BradfordTotalMargin decimal.Decimal `json:"bradford_total_margin"`
	BradfordPaperMargin decimal.Decimal `json:"bradford_paper_margin"`
	BradfordPrintMargin decimal.Decimal `json:"bradford_print_margin"`

	JDSuppliesPaper           bool `json:"jd_supplies_paper"`
	BradfordWaivesPaperMargin bool `json:"bradford_waives_paper_margin"`

	CompletedAt  *time.Time `json:"completed_at,omitempty"`
	CancelledAt  *time.Time `json:"cancelled_at,omitempty"`
	CancelReason string     `json:"cancel_reason,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ToJobResponse converts a domain job to its response representation
func ToJobResponse(j *job.Job) *JobResponse {
	return &JobResponse{
		ID:                        j.ID,
		JobNo:                     j.JobNo,
		CustomerID:                j.CustomerID,
		Status:                    j.Status,
		CustomerTotal:             j.CustomerTotal,
		BradfordTotal:             j.BradfordTotal,
		JDTotal:                   j.JDTotal,
		PaperCostTotal:            j.PaperCostTotal,
		PaperChargedTotal:         j.PaperChargedTotal,
		ImpactMargin:              j.ImpactMargin,
		BradfordTotalMargin:       j.BradfordTotalMargin,
		BradfordPaperMargin:       j.BradfordPaperMargin,
		BradfordPrintMargin:       j.BradfordPrintMargin,
		JDSuppliesPaper:           j.JDSuppliesPaper,
		BradfordWaivesPaperMargin: j.BradfordWaivesPaperMargin,
		CompletedAt:               j.CompletedAt,
		CancelledAt:               j.CancelledAt,
		CancelReason:              j.CancelReason,
		CreatedAt:                 j.CreatedAt,
		UpdatedAt:                 j.UpdatedAt,
	}
}
