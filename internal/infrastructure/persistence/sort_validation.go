package persistence

import (
	"strings"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// Common allowed sort fields for entities with base fields
// These are the common fields present in most entities

// CommonSortFields contains fields common to most entities
var CommonSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
}

// JobSortFields contains allowed sort fields for print jobs
var JobSortFields = map[string]bool{
	"id":             true,
	"created_at":     true,
	"updated_at":     true,
	"job_no":         true,
	"customer_id":    true,
	"status":         true,
	"customer_total": true,
	"bradford_total": true,
	"jd_total":       true,
	"impact_margin":  true,
	"completed_at":   true,
}

// PurchaseOrderSortFields contains allowed sort fields for purchase orders
var PurchaseOrderSortFields = map[string]bool{
	"id":              true,
	"created_at":      true,
	"updated_at":      true,
	"po_number":       true,
	"job_id":          true,
	"origin_company":  true,
	"target_company":  true,
	"original_amount": true,
	"vendor_amount":   true,
	"margin_amount":   true,
	"status":          true,
	"confirmed_at":    true,
	"completed_at":    true,
}

// InvoiceSortFields contains allowed sort fields for invoices
var InvoiceSortFields = map[string]bool{
	"id":           true,
	"created_at":   true,
	"updated_at":   true,
	"invoice_no":   true,
	"job_id":       true,
	"from_company": true,
	"to_company":   true,
	"amount":       true,
	"issued_at":    true,
	"due_at":       true,
	"paid_at":      true,
}

// SyncLogSortFields contains allowed sort fields for sync log entries
var SyncLogSortFields = map[string]bool{
	"id":                true,
	"created_at":        true,
	"trigger":           true,
	"purchase_order_id": true,
	"invoice_id":        true,
	"job_id":            true,
	"field":             true,
}
