package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/greenchainz/carbon-analysis/internal/core/domain"
	"github.com/greenchainz/carbon-analysis/internal/core/ports"
)

// SubmitAnalysisUseCase records a new analysis job and queues it for the
// worker pool. The HTTP handler returns as soon as the job is accepted.
type SubmitAnalysisUseCase struct {
	repo  ports.AnalysisRepository
	queue ports.MessageQueue
}

func NewSubmitAnalysisUseCase(repo ports.AnalysisRepository, queue ports.MessageQueue) *SubmitAnalysisUseCase {
	return &SubmitAnalysisUseCase{repo: repo, queue: queue}
}

func (uc *SubmitAnalysisUseCase) Submit(ctx context.Context, ownerID string, req domain.AnalysisRequest) (*domain.AnalysisJob, error) {
	if err := domain.ValidateModelURN(req.ModelURN); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.ModelName) == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "validate request", fmt.Errorf("model_name is required"))
	}
	if strings.TrimSpace(ownerID) == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "validate request", fmt.Errorf("owner id is required"))
	}

	now := time.Now().UTC()
	job := &domain.AnalysisJob{
		ID:        uuid.NewString(),
		ModelURN:  req.ModelURN,
		ModelName: req.ModelName,
		OwnerID:   ownerID,
		Status:    domain.StatusProcessing,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := uc.repo.Create(ctx, job); err != nil {
		return nil, domain.WrapError(err, "create analysis record", fmt.Errorf("analysis %s", job.ID))
	}

	if err := uc.queue.PublishAnalysisRequested(ctx, job.ID); err != nil {
		// The row already exists, so fail it rather than leave a job that
		// no worker will ever pick up.
		failErr := uc.repo.Fail(ctx, job.ID, "queue analysis request: "+err.Error())
		if failErr != nil {
			return nil, fmt.Errorf("publish analysis request: %w; mark failed status: %w", err, failErr)
		}
		return nil, fmt.Errorf("publish analysis request: %w", err)
	}
	return job, nil
}
