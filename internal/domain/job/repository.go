package job

import (
	"context"

	"github.com/google/uuid"
	"github.com/printchain/backend/internal/domain/shared"
)

// Repository defines the interface for job persistence
type Repository interface {
	// FindByID finds a job by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Job, error)

	// FindByJobNo finds a job by its job number
	FindByJobNo(ctx context.Context, jobNo string) (*Job, error)

	// FindAll finds jobs with filtering
	FindAll(ctx context.Context, filter shared.Filter) ([]Job, error)

	// FindPage returns one page of jobs ordered by creation time, for
	// batch scans over the whole population
	FindPage(ctx context.Context, page, pageSize int) ([]Job, error)

	// Save creates or updates a job
	Save(ctx context.Context, j *Job) error

	// Count counts jobs with optional filters
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// ExistsByJobNo checks if a job number is already taken
	ExistsByJobNo(ctx context.Context, jobNo string) (bool, error)

	// GenerateJobNumber generates a unique job number
	// Format: JOB-YYYY-NNNNN (e.g., JOB-2026-00001)
	GenerateJobNumber(ctx context.Context) (string, error)
}
