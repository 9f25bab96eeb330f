package persistence

import (
	"context"

	"github.com/printchain/backend/internal/domain/billing"
	"github.com/printchain/backend/internal/domain/shared"
	"github.com/printchain/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormSyncLogRepository implements billing.SyncLogRepository using GORM.
// The log is append-only: there is no update or delete path.
type GormSyncLogRepository struct {
	db *gorm.DB
}

// NewGormSyncLogRepository creates a new GormSyncLogRepository
func NewGormSyncLogRepository(db *gorm.DB) *GormSyncLogRepository {
	return &GormSyncLogRepository{db: db}
}

// Append appends a sync log entry
func (r *GormSyncLogRepository) Append(ctx context.Context, log *billing.SyncLog) error {
	model := models.SyncLogModelFromDomain(log)
	return r.db.WithContext(ctx).Create(model).Error
}

// FindByJob finds sync log entries for a job, newest first
func (r *GormSyncLogRepository) FindByJob(ctx context.Context, jobID uuid.UUID, filter shared.Filter) ([]billing.SyncLog, error) {
	return r.findBy(ctx, "job_id = ?", jobID, filter)
}

// FindByPurchaseOrder finds sync log entries for a purchase order, newest first
func (r *GormSyncLogRepository) FindByPurchaseOrder(ctx context.Context, purchaseOrderID uuid.UUID, filter shared.Filter) ([]billing.SyncLog, error) {
	return r.findBy(ctx, "purchase_order_id = ?", purchaseOrderID, filter)
}

// FindByInvoice finds sync log entries for an invoice, newest first
func (r *GormSyncLogRepository) FindByInvoice(ctx context.Context, invoiceID uuid.UUID, filter shared.Filter) ([]billing.SyncLog, error) {
	return r.findBy(ctx, "invoice_id = ?", invoiceID, filter)
}

// CountByJob counts sync log entries for a job
func (r *GormSyncLogRepository) CountByJob(ctx context.Context, jobID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.SyncLogModel{}).
		Where("job_id = ?", jobID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// findBy runs a filtered query ordered newest first
func (r *GormSyncLogRepository) findBy(ctx context.Context, condition string, id uuid.UUID, filter shared.Filter) ([]billing.SyncLog, error) {
	var logModels []models.SyncLogModel

	query := r.db.WithContext(ctx).
		Model(&models.SyncLogModel{}).
		Where(condition, id)
	query = r.applyFilter(query, filter)

	if err := query.Find(&logModels).Error; err != nil {
		return nil, err
	}
	logs := make([]billing.SyncLog, len(logModels))
	for i, model := range logModels {
		logs[i] = *model.ToDomain()
	}
	return logs, nil
}

// applyFilter applies filter options to the query
func (r *GormSyncLogRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "trigger":
			query = query.Where("trigger = ?", value)
		case "field":
			query = query.Where("field = ?", value)
		}
	}

	// Apply pagination
	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	// Apply ordering with whitelist validation to prevent SQL injection
	if filter.OrderBy != "" {
		sortField := ValidateSortField(filter.OrderBy, SyncLogSortFields, "")
		if sortField != "" {
			sortOrder := ValidateSortOrder(filter.OrderDir)
			query = query.Order(sortField + " " + sortOrder)
		} else {
			query = query.Order("created_at DESC")
		}
	} else {
		query = query.Order("created_at DESC")
	}

	return query
}

// Ensure GormSyncLogRepository implements billing.SyncLogRepository
var _ billing.SyncLogRepository = (*GormSyncLogRepository)(nil)
