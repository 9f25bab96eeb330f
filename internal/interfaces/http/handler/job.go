package handler

import (
	"github.com/gin-gonic/gin"
	billingapp "github.com/printchain/backend/internal/application/billing"
	jobapp "github.com/printchain/backend/internal/application/job"
	"github.com/printchain/backend/internal/domain/job"
)

// JobHandler handles print job API endpoints
type JobHandler struct {
	BaseHandler
	jobService   *jobapp.Service
	chainService *billingapp.ChainService
	docService   *billingapp.DocumentService
}

// NewJobHandler creates a new JobHandler
func NewJobHandler(jobService *jobapp.Service, chainService *billingapp.ChainService, docService *billingapp.DocumentService) *JobHandler {
	return &JobHandler{
		jobService:   jobService,
		chainService: chainService,
		docService:   docService,
	}
}

// AdvanceJobStatusRequest carries the target lifecycle status
type AdvanceJobStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// CancelJobRequest carries the cancellation reason
type CancelJobRequest struct {
	Reason string `json:"reason" binding:"required,min=1,max=500"`
}

// Create handles POST /jobs
func (h *JobHandler) Create(c *gin.Context) {
	var req jobapp.CreateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.jobService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// Get handles GET /jobs/:id
func (h *JobHandler) Get(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid job ID format")
		return
	}

	resp, err := h.jobService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// GetByNumber handles GET /jobs/number/:jobNo
func (h *JobHandler) GetByNumber(c *gin.Context) {
	resp, err := h.jobService.GetByJobNo(c.Request.Context(), c.Param("jobNo"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// List handles GET /jobs
func (h *JobHandler) List(c *gin.Context) {
	filter := parseListFilter(c)
	addUUIDFilter(c, &filter, "customer_id", "customer_id")
	addStringFilter(c, &filter, "status", "status")
	addDateFilter(c, &filter, "start_date", "start_date")
	addDateFilter(c, &filter, "end_date", "end_date")

	page, err := h.jobService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// AdvanceStatus handles POST /jobs/:id/advance
func (h *JobHandler) AdvanceStatus(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid job ID format")
		return
	}

	var req AdvanceJobStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	target := job.Status(req.Status)
	if !target.IsValid() {
		h.BadRequest(c, "Unknown job status: "+req.Status)
		return
	}

	resp, err := h.jobService.AdvanceStatus(c.Request.Context(), id, target)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Cancel handles POST /jobs/:id/cancel
func (h *JobHandler) Cancel(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid job ID format")
		return
	}

	var req CancelJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.jobService.Cancel(c.Request.Context(), id, req.Reason)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// UpdateFinancials handles PUT /jobs/:id/financials
func (h *JobHandler) UpdateFinancials(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid job ID format")
		return
	}

	var req jobapp.UpdateJobFinancialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.jobService.UpdateFinancials(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Complete handles POST /jobs/:id/complete. Completion marks the job
// done and generates the three-leg invoice chain in one step.
func (h *JobHandler) Complete(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid job ID format")
		return
	}

	result, err := h.chainService.CompleteJobAndGenerateInvoices(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// ListPurchaseOrders handles GET /jobs/:id/purchase-orders
func (h *JobHandler) ListPurchaseOrders(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid job ID format")
		return
	}

	orders, err := h.docService.ListPurchaseOrdersByJob(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, orders)
}

// ListInvoices handles GET /jobs/:id/invoices
func (h *JobHandler) ListInvoices(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid job ID format")
		return
	}

	invoices, err := h.docService.ListInvoicesByJob(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, invoices)
}

// SyncHistory handles GET /jobs/:id/sync-logs
func (h *JobHandler) SyncHistory(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid job ID format")
		return
	}

	filter := parseListFilter(c)
	addStringFilter(c, &filter, "trigger", "trigger")
	addStringFilter(c, &filter, "field", "field")

	logs, err := h.docService.GetSyncHistory(c.Request.Context(), id, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, logs)
}
