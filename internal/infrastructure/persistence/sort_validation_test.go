package persistence

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateSortOrder(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty string returns DESC", "", "DESC"},
		{"ASC uppercase returns ASC", "ASC", "ASC"},
		{"asc lowercase returns ASC", "asc", "ASC"},
		{"DESC uppercase returns DESC", "DESC", "DESC"},
		{"desc lowercase returns DESC", "DESC", "DESC"},
		{"invalid value returns DESC", "INVALID", "DESC"},
		{"sql injection attempt returns DESC", "ASC; DROP TABLE jobs;--", "DESC"},
		{"whitespace only returns DESC", "   ", "DESC"},
		{"whitespace around ASC returns ASC", "  asc  ", "ASC"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ValidateSortOrder(tt.input)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestValidateSortField(t *testing.T) {
	allowedFields := map[string]bool{
		"id":         true,
		"created_at": true,
		"updated_at": true,
		"job_no":     true,
	}

	tests := []struct {
		name         string
		input        string
		allowedMap   map[string]bool
		defaultField string
		expected     string
	}{
		{"empty string returns default", "", allowedFields, "created_at", "created_at"},
		{"valid field returns field", "job_no", allowedFields, "created_at", "job_no"},
		{"valid field id returns field", "id", allowedFields, "created_at", "id"},
		{"invalid field returns default", "invalid_field", allowedFields, "created_at", "created_at"},
		{"sql injection attempt returns default", "id; DROP TABLE jobs;--", allowedFields, "created_at", "created_at"},
		{"case sensitive - uppercase invalid", "JOB_NO", allowedFields, "created_at", "created_at"},
		{"whitespace only returns default", "   ", allowedFields, "created_at", "created_at"},
		{"whitespace around valid field returns field", "  job_no  ", allowedFields, "created_at", "job_no"},
		{"field with spaces injection returns default", "job_no jobs", allowedFields, "created_at", "created_at"},
		{"field with quotes injection returns default", "job_no'--", allowedFields, "created_at", "created_at"},
		{"empty default with valid field", "job_no", allowedFields, "", "job_no"},
		{"empty default with invalid field", "invalid", allowedFields, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ValidateSortField(tt.input, tt.allowedMap, tt.defaultField)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestSortFieldsWhitelists(t *testing.T) {
	whitelists := map[string]map[string]bool{
		"JobSortFields":           JobSortFields,
		"PurchaseOrderSortFields": PurchaseOrderSortFields,
		"InvoiceSortFields":       InvoiceSortFields,
		"SyncLogSortFields":       SyncLogSortFields,
	}

	commonFields := []string{"id", "created_at"}

	for name, whitelist := range whitelists {
		t.Run(name+" contains common fields", func(t *testing.T) {
			for _, field := range commonFields {
				assert.True(t, whitelist[field], "%s should contain '%s'", name, field)
			}
		})

		t.Run(name+" is not empty", func(t *testing.T) {
			assert.Greater(t, len(whitelist), 3, "%s should have more than 3 fields", name)
		})
	}
}

func TestDomainSortFields(t *testing.T) {
	assert.True(t, JobSortFields["job_no"])
	assert.True(t, JobSortFields["customer_total"])
	assert.True(t, PurchaseOrderSortFields["po_number"])
	assert.True(t, PurchaseOrderSortFields["vendor_amount"])
	assert.True(t, InvoiceSortFields["invoice_no"])
	assert.True(t, InvoiceSortFields["due_at"])
	assert.True(t, SyncLogSortFields["trigger"])

	// No sorting over free-form columns
	assert.False(t, SyncLogSortFields["old_value"])
	assert.False(t, SyncLogSortFields["notes"])
}

func TestSQLInjectionPrevention(t *testing.T) {
	injectionPayloads := []string{
		"id; DROP TABLE jobs;--",
		"id' OR '1'='1",
		"id\"; DROP TABLE jobs;--",
		"id UNION SELECT * FROM jobs",
		"id ORDER BY 1",
		"id, (SELECT po_number FROM purchase_orders)",
		"CASE WHEN 1=1 THEN id ELSE job_no END",
		"id/**/;DROP TABLE jobs",
		"id\n; DROP TABLE jobs",
		"id\t; DROP TABLE jobs",
		"' OR ''='",
		"1; EXEC xp_cmdshell('dir')",
	}

	for _, payload := range injectionPayloads {
		t.Run("field: "+payload[:min(len(payload), 30)], func(t *testing.T) {
			result := ValidateSortField(payload, JobSortFields, "created_at")
			assert.Equal(t, "created_at", result, "SQL injection payload should be rejected: %s", payload)
		})

		t.Run("order: "+payload[:min(len(payload), 30)], func(t *testing.T) {
			result := ValidateSortOrder(payload)
			assert.Equal(t, "DESC", result, "SQL injection payload should be rejected: %s", payload)
		})
	}
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
