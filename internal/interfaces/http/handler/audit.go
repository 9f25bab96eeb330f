package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	billingapp "github.com/printchain/backend/internal/application/billing"
)

// AuditHandler handles reconciliation audit API endpoints
type AuditHandler struct {
	BaseHandler
	auditService   *billingapp.AuditService
	autoFixService *billingapp.AutoFixService
}

// NewAuditHandler creates a new AuditHandler
func NewAuditHandler(auditService *billingapp.AuditService, autoFixService *billingapp.AutoFixService) *AuditHandler {
	return &AuditHandler{
		auditService:   auditService,
		autoFixService: autoFixService,
	}
}

// ApplyFixesRequest selects jobs and repair operations for a batch fix run
type ApplyFixesRequest struct {
	JobIDs             []string `json:"job_ids" binding:"required,min=1"`
	FixMissingPOs      bool     `json:"fix_missing_pos"`
	FixMissingInvoices bool     `json:"fix_missing_invoices"`
}

// AutoFixResultResponse lists the document numbers a fix run created
type AutoFixResultResponse struct {
	Created []string `json:"created"`
}

// AuditJob handles GET /audit/jobs/:id
func (h *AuditHandler) AuditJob(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid job ID format")
		return
	}

	report, err := h.auditService.AuditJob(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, report)
}

// ValidateAmounts handles GET /audit/jobs/:id/amounts
func (h *AuditHandler) ValidateAmounts(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid job ID format")
		return
	}

	statuses, err := h.auditService.ValidateAmounts(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, statuses)
}

// FindIssues handles GET /audit/issues. It scans the whole job
// population, so expect it to be slow on large datasets.
func (h *AuditHandler) FindIssues(c *gin.Context) {
	report, err := h.auditService.FindJobsWithIssues(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, report)
}

// FixMissingPOs handles POST /audit/jobs/:id/fix/purchase-orders
func (h *AuditHandler) FixMissingPOs(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid job ID format")
		return
	}

	created, err := h.autoFixService.AutoFixMissingPOs(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, AutoFixResultResponse{Created: created})
}

// FixMissingInvoices handles POST /audit/jobs/:id/fix/invoices
func (h *AuditHandler) FixMissingInvoices(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid job ID format")
		return
	}

	created, err := h.autoFixService.AutoFixMissingInvoices(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, AutoFixResultResponse{Created: created})
}

// ApplyFixes handles POST /audit/fixes
func (h *AuditHandler) ApplyFixes(c *gin.Context) {
	var req ApplyFixesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	jobIDs := make([]uuid.UUID, 0, len(req.JobIDs))
	for _, raw := range req.JobIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			h.BadRequest(c, "Invalid job ID format: "+raw)
			return
		}
		jobIDs = append(jobIDs, id)
	}

	result, err := h.autoFixService.ApplyFixes(c.Request.Context(), jobIDs, billingapp.FixOptions{
		FixMissingPOs:      req.FixMissingPOs,
		FixMissingInvoices: req.FixMissingInvoices,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}
