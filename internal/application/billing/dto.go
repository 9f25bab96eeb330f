package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/printchain/backend/internal/domain/job"
	"github.com/shopspring/decimal"
)

// PurchaseOrderPatch carries the mutable fields of a purchase order update.
// Nil fields are left untouched.
type PurchaseOrderPatch struct {
	VendorAmount      *decimal.Decimal `json:"vendor_amount,omitempty"`
	OriginalAmount    *decimal.Decimal `json:"original_amount,omitempty"`
	ReferencePONumber *string          `json:"reference_po_number,omitempty"`
	ExternalRef       *string          `json:"external_ref,omitempty"`
}

// InvoicePatch carries the mutable fields of an invoice update.
// Nil fields are left untouched.
type InvoicePatch struct {
	Amount *decimal.Decimal `json:"amount,omitempty"`
	DueAt  *time.Time       `json:"due_at,omitempty"`
}

// LegOutcome discriminates the audit result for one leg
type LegOutcome string

const (
	// LegMatched means the document exists and its amount matches
	LegMatched LegOutcome = "MATCHED"
	// LegMissing means the document is expected at this lifecycle stage but absent
	LegMissing LegOutcome = "MISSING"
	// LegMismatched means the document exists but its amount is off by more
	// than the tolerance
	LegMismatched LegOutcome = "MISMATCHED"
	// LegNotYetExpected means the document is absent but not yet due at this
	// lifecycle stage
	LegNotYetExpected LegOutcome = "NOT_YET_EXPECTED"
	// LegNotApplicable means the document is not expected at this lifecycle
	// stage at all
	LegNotApplicable LegOutcome = "NOT_APPLICABLE"
)

// LegStatus is the audit result for one canonical leg
type LegStatus struct {
	Leg            string           `json:"leg"`
	Outcome        LegOutcome       `json:"outcome"`
	Exists         bool             `json:"exists"`
	ActualAmount   *decimal.Decimal `json:"actual_amount,omitempty"`
	ExpectedAmount decimal.Decimal  `json:"expected_amount"`
	Note           string           `json:"note,omitempty"`
}

// IsIssue reports whether this leg status counts as an audit issue
func (s LegStatus) IsIssue() bool {
	return s.Outcome == LegMissing || s.Outcome == LegMismatched
}

// JobAuditReport is the full audit result for one job
type JobAuditReport struct {
	JobID  uuid.UUID  `json:"job_id"`
	JobNo  string     `json:"job_no"`
	Status job.Status `json:"status"`

	ImpactToBradfordPO LegStatus `json:"impact_to_bradford_po"`
	BradfordToJDPO     LegStatus `json:"bradford_to_jd_po"`

	JDToBradfordInvoice     LegStatus `json:"jd_to_bradford_invoice"`
	BradfordToImpactInvoice LegStatus `json:"bradford_to_impact_invoice"`
	ImpactToCustomerInvoice LegStatus `json:"impact_to_customer_invoice"`

	Issues     []string `json:"issues"`
	IssueCount int      `json:"issue_count"`
}

// Legs returns the five leg statuses in canonical order
func (r *JobAuditReport) Legs() []LegStatus {
	return []LegStatus{
		r.ImpactToBradfordPO,
		r.BradfordToJDPO,
		r.JDToBradfordInvoice,
		r.BradfordToImpactInvoice,
		r.ImpactToCustomerInvoice,
	}
}

// HasIssues reports whether the audit found anything wrong
func (r *JobAuditReport) HasIssues() bool {
	return r.IssueCount > 0
}

// AuditSummary aggregates counters over a population scan
type AuditSummary struct {
	JobsScanned                int `json:"jobs_scanned"`
	JobsWithIssues             int `json:"jobs_with_issues"`
	MissingImpactToBradfordPOs int `json:"missing_impact_to_bradford_pos"`
	MissingBradfordToJDPOs     int `json:"missing_bradford_to_jd_pos"`
	MissingInvoices            int `json:"missing_invoices"`
	AmountMismatches           int `json:"amount_mismatches"`
}

// PopulationAuditReport is the result of auditing every job
type PopulationAuditReport struct {
	Reports []JobAuditReport `json:"reports"`
	Summary AuditSummary     `json:"summary"`
}

// FixOptions selects which repair operations a batch run applies
type FixOptions struct {
	FixMissingPOs      bool `json:"fix_missing_pos"`
	FixMissingInvoices bool `json:"fix_missing_invoices"`
}

// JobFixResult is the per-job outcome of a batch fix run
type JobFixResult struct {
	JobID   uuid.UUID `json:"job_id"`
	Created []string  `json:"created"`
	Error   string    `json:"error,omitempty"`
}

// BatchFixResult accumulates per-job outcomes of a batch fix run
type BatchFixResult struct {
	Results   []JobFixResult `json:"results"`
	Succeeded int            `json:"succeeded"`
	Failed    int            `json:"failed"`
}

// ChainResult is the outcome of invoice chain generation
type ChainResult struct {
	JobID          uuid.UUID `json:"job_id"`
	JobNo          string    `json:"job_no"`
	InvoiceNumbers []string  `json:"invoice_numbers"`
}
