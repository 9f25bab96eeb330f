package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/printchain/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// parseIDParam parses the :id path parameter as a UUID
func parseIDParam(c *gin.Context) (uuid.UUID, error) {
	return uuid.Parse(c.Param("id"))
}

// parseListFilter builds a repository filter from common query parameters
func parseListFilter(c *gin.Context) shared.Filter {
	filter := shared.DefaultFilter()

	if page, err := strconv.Atoi(c.Query("page")); err == nil && page > 0 {
		filter.Page = page
	}
	if pageSize, err := strconv.Atoi(c.Query("page_size")); err == nil && pageSize > 0 && pageSize <= 100 {
		filter.PageSize = pageSize
	}
	if orderBy := c.Query("order_by"); orderBy != "" {
		filter.OrderBy = orderBy
	}
	if orderDir := c.Query("order_dir"); orderDir == "asc" || orderDir == "desc" {
		filter.OrderDir = orderDir
	}
	filter.Search = c.Query("search")

	return filter
}

// addUUIDFilter adds a UUID-valued query parameter to the filter map
func addUUIDFilter(c *gin.Context, filter *shared.Filter, param, key string) {
	if raw := c.Query(param); raw != "" {
		if id, err := uuid.Parse(raw); err == nil {
			filter.Filters[key] = id
		}
	}
}

// addStringFilter adds a string-valued query parameter to the filter map
func addStringFilter(c *gin.Context, filter *shared.Filter, param, key string) {
	if raw := c.Query(param); raw != "" {
		filter.Filters[key] = raw
	}
}

// addDateFilter adds an RFC 3339 date query parameter to the filter map
func addDateFilter(c *gin.Context, filter *shared.Filter, param, key string) {
	raw := c.Query(param)
	if raw == "" {
		return
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		filter.Filters[key] = t
		return
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		filter.Filters[key] = t
	}
}

// addDecimalFilter adds a decimal-valued query parameter to the filter map
func addDecimalFilter(c *gin.Context, filter *shared.Filter, param, key string) {
	if raw := c.Query(param); raw != "" {
		if d, err := decimal.NewFromString(raw); err == nil {
			filter.Filters[key] = d
		}
	}
}

// addBoolFilter adds a boolean query parameter to the filter map
func addBoolFilter(c *gin.Context, filter *shared.Filter, param, key string) {
	if raw := c.Query(param); raw != "" {
		if b, err := strconv.ParseBool(raw); err == nil {
			filter.Filters[key] = b
		}
	}
}
