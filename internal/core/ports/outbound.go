package ports

import (
	"context"
	"time"

	"github.com/greenchainz/carbon-analysis/internal/core/domain"
)

// AnalysisRepository persists analysis job state. Complete and Fail only
// touch rows still in processing, so terminal jobs are never re-opened.
type AnalysisRepository interface {
	Create(ctx context.Context, job *domain.AnalysisJob) error
	GetByID(ctx context.Context, id string) (*domain.AnalysisJob, error)
	Complete(ctx context.Context, id string, result domain.AnalysisResult, alternatives []domain.Alternative, completedAt time.Time) error
	Fail(ctx context.Context, id string, errMessage string) error
}

// ProductCatalog reads verified building-product records.
type ProductCatalog interface {
	// ListAll returns every active product for in-memory matching.
	ListAll(ctx context.Context) ([]domain.Product, error)
	// Search returns products in a category with a per-unit factor strictly
	// below maxCarbonPerUnit, ordered ascending by factor.
	Search(ctx context.Context, category string, maxCarbonPerUnit float64, limit int) ([]domain.Product, error)
}

// TokenProvider yields a valid bearer token for the model-derivative service.
type TokenProvider interface {
	ValidAccessToken(ctx context.Context, ownerID string) (string, error)
}

// ModelDerivativeAPI resolves a validated model URN to extracted materials.
type ModelDerivativeAPI interface {
	ExtractMaterials(ctx context.Context, accessToken, modelURN string) ([]domain.ExtractedMaterial, error)
}

// MessageQueue hands analysis jobs from the API to the worker.
type MessageQueue interface {
	PublishAnalysisRequested(ctx context.Context, analysisID string) error
	SubscribeAnalysisRequested(ctx context.Context, handler func(context.Context, string) error) error
}
