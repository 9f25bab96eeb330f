package job

import (
	"context"

	"github.com/google/uuid"
	"github.com/printchain/backend/internal/domain/job"
	"github.com/printchain/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// LedgerRecalculator re-derives a job's aggregate totals and margins from
// its purchase orders. Satisfied by the billing ledger service.
type LedgerRecalculator interface {
	RecalculateJobFromPOs(ctx context.Context, jobID uuid.UUID) error
}

// Service handles job lifecycle operations
type Service struct {
	jobRepo        job.Repository
	ledger         LedgerRecalculator
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewService creates a new job Service
func NewService(jobRepo job.Repository, ledger LedgerRecalculator, logger *zap.Logger) *Service {
	return &Service{
		jobRepo: jobRepo,
		ledger:  ledger,
		logger:  logger,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *Service) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create creates a new job at intake
func (s *Service) Create(ctx context.Context, req CreateJobRequest) (*JobResponse, error) {
	jobNo, err := s.jobRepo.GenerateJobNumber(ctx)
	if err != nil {
		return nil, err
	}

	j, err := job.NewJob(jobNo, req.CustomerID, req.CustomerTotal,
		req.PaperCostTotal, req.PaperChargedTotal,
		req.JDSuppliesPaper, req.BradfordWaivesPaperMargin)
	if err != nil {
		return nil, err
	}

	if err := s.jobRepo.Save(ctx, j); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, j)

	s.logger.Info("Job created",
		zap.String("job_no", j.JobNo),
		zap.String("customer_id", j.CustomerID.String()),
	)

	return ToJobResponse(j), nil
}

// GetByID returns a job by ID
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*JobResponse, error) {
	j, err := s.jobRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToJobResponse(j), nil
}

// GetByJobNo returns a job by its job number
func (s *Service) GetByJobNo(ctx context.Context, jobNo string) (*JobResponse, error) {
	j, err := s.jobRepo.FindByJobNo(ctx, jobNo)
	if err != nil {
		return nil, err
	}
	return ToJobResponse(j), nil
}

// List returns jobs with filtering and pagination
func (s *Service) List(ctx context.Context, filter shared.Filter) (*shared.Paginated[JobResponse], error) {
	jobs, err := s.jobRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.jobRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := make([]JobResponse, 0, len(jobs))
	for i := range jobs {
		items = append(items, *ToJobResponse(&jobs[i]))
	}

	result := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &result, nil
}

// AdvanceStatus moves a job forward in its lifecycle. COMPLETED is not
// reachable here; jobs complete through invoice chain generation.
func (s *Service) AdvanceStatus(ctx context.Context, id uuid.UUID, target job.Status) (*JobResponse, error) {
	j, err := s.jobRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := j.AdvanceTo(target); err != nil {
		return nil, err
	}
	if err := s.jobRepo.Save(ctx, j); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, j)

	s.logger.Info("Job status advanced",
		zap.String("job_no", j.JobNo),
		zap.String("status", j.Status.String()),
	)

	return ToJobResponse(j), nil
}

// Cancel cancels a job
func (s *Service) Cancel(ctx context.Context, id uuid.UUID, reason string) (*JobResponse, error) {
	j, err := s.jobRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := j.Cancel(reason); err != nil {
		return nil, err
	}
	if err := s.jobRepo.Save(ctx, j); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, j)

	s.logger.Info("Job cancelled",
		zap.String("job_no", j.JobNo),
		zap.String("reason", reason),
	)

	return ToJobResponse(j), nil
}

// UpdateFinancials updates the editable financial inputs and re-runs the
// ledger so the derived margins stay consistent
func (s *Service) UpdateFinancials(ctx context.Context, id uuid.UUID, req UpdateJobFinancialsRequest) (*JobResponse, error) {
	j, err := s.jobRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.CustomerTotal != nil {
		if err := j.ChangeCustomerTotal(*req.CustomerTotal); err != nil {
			return nil, err
		}
	}
	if req.PaperCostTotal != nil || req.PaperChargedTotal != nil {
		paperCost := j.PaperCostTotal
		paperCharged := j.PaperChargedTotal
		if req.PaperCostTotal != nil {
			paperCost = *req.PaperCostTotal
		}
		if req.PaperChargedTotal != nil {
			paperCharged = *req.PaperChargedTotal
		}
		if err := j.ChangePaperAmounts(paperCost, paperCharged); err != nil {
			return nil, err
		}
	}

	if err := s.jobRepo.Save(ctx, j); err != nil {
		return nil, err
	}

	if err := s.ledger.RecalculateJobFromPOs(ctx, j.ID); err != nil {
		return nil, err
	}

	// re-read: the ledger wrote the derived fields
	j, err = s.jobRepo.FindByID(ctx, j.ID)
	if err != nil {
		return nil, err
	}

	return ToJobResponse(j), nil
}

// publishEvents publishes and clears the aggregate's domain events
func (s *Service) publishEvents(ctx context.Context, j *job.Job) {
	if s.eventPublisher == nil {
		return
	}
	events := j.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		s.logger.Warn("Failed to publish domain events", zap.Error(err))
	}
	j.ClearDomainEvents()
}
