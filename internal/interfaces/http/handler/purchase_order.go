package handler

import (
	"github.com/gin-gonic/gin"
	billingapp "github.com/printchain/backend/internal/application/billing"
)

// PurchaseOrderHandler handles purchase order API endpoints
type PurchaseOrderHandler struct {
	BaseHandler
	docService  *billingapp.DocumentService
	syncService *billingapp.SyncService
}

// NewPurchaseOrderHandler creates a new PurchaseOrderHandler
func NewPurchaseOrderHandler(docService *billingapp.DocumentService, syncService *billingapp.SyncService) *PurchaseOrderHandler {
	return &PurchaseOrderHandler{
		docService:  docService,
		syncService: syncService,
	}
}

// CancelPurchaseOrderRequest carries the cancellation reason
type CancelPurchaseOrderRequest struct {
	Reason string `json:"reason" binding:"required,min=1,max=500"`
}

// Create handles POST /billing/purchase-orders
func (h *PurchaseOrderHandler) Create(c *gin.Context) {
	var req billingapp.CreatePurchaseOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.docService.CreatePurchaseOrder(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// Get handles GET /billing/purchase-orders/:id
func (h *PurchaseOrderHandler) Get(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid purchase order ID format")
		return
	}

	resp, err := h.docService.GetPurchaseOrder(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// List handles GET /billing/purchase-orders
func (h *PurchaseOrderHandler) List(c *gin.Context) {
	filter := parseListFilter(c)
	addUUIDFilter(c, &filter, "job_id", "job_id")
	addUUIDFilter(c, &filter, "target_vendor_id", "target_vendor_id")
	addStringFilter(c, &filter, "origin_company", "origin_company")
	addStringFilter(c, &filter, "target_company", "target_company")
	addStringFilter(c, &filter, "status", "status")
	addDateFilter(c, &filter, "start_date", "start_date")
	addDateFilter(c, &filter, "end_date", "end_date")
	addDecimalFilter(c, &filter, "min_amount", "min_amount")
	addDecimalFilter(c, &filter, "max_amount", "max_amount")

	page, err := h.docService.ListPurchaseOrders(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// Confirm handles POST /billing/purchase-orders/:id/confirm
func (h *PurchaseOrderHandler) Confirm(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid purchase order ID format")
		return
	}

	resp, err := h.docService.ConfirmPurchaseOrder(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Complete handles POST /billing/purchase-orders/:id/complete
func (h *PurchaseOrderHandler) Complete(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid purchase order ID format")
		return
	}

	resp, err := h.docService.CompletePurchaseOrder(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Cancel handles POST /billing/purchase-orders/:id/cancel
func (h *PurchaseOrderHandler) Cancel(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid purchase order ID format")
		return
	}

	var req CancelPurchaseOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.docService.CancelPurchaseOrder(c.Request.Context(), id, req.Reason)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Update handles PATCH /billing/purchase-orders/:id. Amount changes
// propagate to the mirrored invoice through the sync engine.
func (h *PurchaseOrderHandler) Update(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid purchase order ID format")
		return
	}

	var patch billingapp.PurchaseOrderPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	po, err := h.syncService.UpdatePurchaseOrder(c.Request.Context(), id, patch, getChangedBy(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, billingapp.ToPurchaseOrderResponse(po))
}
