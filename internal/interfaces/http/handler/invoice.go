package handler

import (
	"github.com/gin-gonic/gin"
	billingapp "github.com/printchain/backend/internal/application/billing"
)

// InvoiceHandler handles invoice API endpoints
type InvoiceHandler struct {
	BaseHandler
	docService  *billingapp.DocumentService
	syncService *billingapp.SyncService
}

// NewInvoiceHandler creates a new InvoiceHandler
func NewInvoiceHandler(docService *billingapp.DocumentService, syncService *billingapp.SyncService) *InvoiceHandler {
	return &InvoiceHandler{
		docService:  docService,
		syncService: syncService,
	}
}

// Create handles POST /billing/invoices
func (h *InvoiceHandler) Create(c *gin.Context) {
	var req billingapp.CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.docService.CreateInvoice(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// Get handles GET /billing/invoices/:id
func (h *InvoiceHandler) Get(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid invoice ID format")
		return
	}

	resp, err := h.docService.GetInvoice(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// List handles GET /billing/invoices
func (h *InvoiceHandler) List(c *gin.Context) {
	filter := parseListFilter(c)
	addUUIDFilter(c, &filter, "job_id", "job_id")
	addStringFilter(c, &filter, "from_company", "from_company")
	addStringFilter(c, &filter, "to_company", "to_company")
	addBoolFilter(c, &filter, "paid", "paid")
	addBoolFilter(c, &filter, "overdue", "overdue")
	addDateFilter(c, &filter, "start_date", "start_date")
	addDateFilter(c, &filter, "end_date", "end_date")
	addDecimalFilter(c, &filter, "min_amount", "min_amount")
	addDecimalFilter(c, &filter, "max_amount", "max_amount")

	page, err := h.docService.ListInvoices(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// MarkPaid handles POST /billing/invoices/:id/pay
func (h *InvoiceHandler) MarkPaid(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid invoice ID format")
		return
	}

	resp, err := h.docService.MarkInvoicePaid(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Update handles PATCH /billing/invoices/:id. Amount changes propagate
// to the mirrored purchase order through the sync engine.
func (h *InvoiceHandler) Update(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid invoice ID format")
		return
	}

	var patch billingapp.InvoicePatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	inv, err := h.syncService.UpdateInvoice(c.Request.Context(), id, patch, getChangedBy(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, billingapp.ToInvoiceResponse(inv))
}
