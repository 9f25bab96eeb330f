package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/printchain/backend/internal/domain/job"
	"github.com/printchain/backend/internal/domain/shared"
	"github.com/printchain/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormJobRepository implements job.Repository using GORM
type GormJobRepository struct {
	db *gorm.DB
}

// NewGormJobRepository creates a new GormJobRepository
func NewGormJobRepository(db *gorm.DB) *GormJobRepository {
	return &GormJobRepository{db: db}
}

// FindByID finds a job by its ID
func (r *GormJobRepository) FindByID(ctx context.Context, id uuid.UUID) (*job.Job, error) {
	var model models.JobModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByJobNo finds a job by its job number
func (r *GormJobRepository) FindByJobNo(ctx context.Context, jobNo string) (*job.Job, error) {
	var model models.JobModel
	if err := r.db.WithContext(ctx).
		Where("job_no = ?", jobNo).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds jobs with filtering
func (r *GormJobRepository) FindAll(ctx context.Context, filter shared.Filter) ([]job.Job, error) {
	var jobModels []models.JobModel

	query := r.db.WithContext(ctx).Model(&models.JobModel{})
	query = r.applyFilter(query, filter)

	if err := query.Find(&jobModels).Error; err != nil {
		return nil, err
	}
	jobs := make([]job.Job, len(jobModels))
	for i, model := range jobModels {
		jobs[i] = *model.ToDomain()
	}
	return jobs, nil
}

// FindPage returns one page of jobs ordered by creation time. Used by the
// audit engine to scan the whole population in stable batches.
func (r *GormJobRepository) FindPage(ctx context.Context, page, pageSize int) ([]job.Job, error) {
	if page < 1 {
		page = 1
	}
	var jobModels []models.JobModel
	if err := r.db.WithContext(ctx).
		Model(&models.JobModel{}).
		Order("created_at ASC, id ASC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&jobModels).Error; err != nil {
		return nil, err
	}
	jobs := make([]job.Job, len(jobModels))
	for i, model := range jobModels {
		jobs[i] = *model.ToDomain()
	}
	return jobs, nil
}

// Save creates or updates a job
func (r *GormJobRepository) Save(ctx context.Context, j *job.Job) error {
	model := models.JobModelFromDomain(j)
	return r.db.WithContext(ctx).Save(model).Error
}

// Count counts jobs with optional filters
func (r *GormJobRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.JobModel{})
	query = r.applyFilterWithoutPagination(query, filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsByJobNo checks if a job number is already taken
func (r *GormJobRepository) ExistsByJobNo(ctx context.Context, jobNo string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.JobModel{}).
		Where("job_no = ?", jobNo).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// GenerateJobNumber generates a unique job number
// Format: JOB-YYYY-NNNNN (e.g., JOB-2026-00001)
func (r *GormJobRepository) GenerateJobNumber(ctx context.Context) (string, error) {
	year := time.Now().Year()
	prefix := fmt.Sprintf("JOB-%d-", year)

	// Get the highest job number for this year
	var lastJob models.JobModel
	err := r.db.WithContext(ctx).
		Model(&models.JobModel{}).
		Where("job_no LIKE ?", prefix+"%").
		Order("job_no DESC").
		First(&lastJob).Error

	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	var nextNum int64 = 1
	if err == nil && lastJob.JobNo != "" {
		parts := strings.Split(lastJob.JobNo, "-")
		if len(parts) == 3 {
			var num int64
			_, parseErr := fmt.Sscanf(parts[2], "%d", &num)
			if parseErr == nil {
				nextNum = num + 1
			}
		}
	}

	jobNo := fmt.Sprintf("%s%05d", prefix, nextNum)

	// Verify uniqueness
	exists, err := r.ExistsByJobNo(ctx, jobNo)
	if err != nil {
		return "", err
	}
	if exists {
		// If exists, try incrementing until we find a unique one
		for i := 0; i < 100; i++ {
			nextNum++
			jobNo = fmt.Sprintf("%s%05d", prefix, nextNum)
			exists, err = r.ExistsByJobNo(ctx, jobNo)
			if err != nil {
				return "", err
			}
			if !exists {
				break
			}
		}
	}

	return jobNo, nil
}

// applyFilter applies filter options to the query
func (r *GormJobRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	// Apply pagination
	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	// Apply ordering with whitelist validation to prevent SQL injection
	if filter.OrderBy != "" {
		sortField := ValidateSortField(filter.OrderBy, JobSortFields, "")
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

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormJobRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("job_no ILIKE ?", searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "customer_id":
			query = query.Where("customer_id = ?", value)
		case "status":
			query = query.Where("status = ?", value)
		case "statuses":
			if statuses, ok := value.([]string); ok && len(statuses) > 0 {
				query = query.Where("status IN ?", statuses)
			}
		case "start_date":
			if t, ok := value.(time.Time); ok {
				query = query.Where("created_at >= ?", t)
			}
		case "end_date":
			if t, ok := value.(time.Time); ok {
				query = query.Where("created_at <= ?", t)
			}
		}
	}

	return query
}

// Ensure GormJobRepository implements job.Repository
var _ job.Repository = (*GormJobRepository)(nil)
