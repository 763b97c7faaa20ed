package ports

import (
	"context"

	"github.com/greenchainz/carbon-analysis/internal/core/domain"
)

// AnalysisSubmitter is the inbound contract for starting a model analysis.
// Submit validates synchronously and returns as soon as the job is queued.
type AnalysisSubmitter interface {
	Submit(ctx context.Context, ownerID string, req domain.AnalysisRequest) (*domain.AnalysisJob, error)
}

// AnalysisReader is the inbound read model for analysis state and results.
type AnalysisReader interface {
	GetByID(ctx context.Context, id string) (*domain.AnalysisJob, error)
}

// AnalysisProcessor is the inbound contract for asynchronous pipeline work.
type AnalysisProcessor interface {
	ProcessByID(ctx context.Context, analysisID string) error
}
