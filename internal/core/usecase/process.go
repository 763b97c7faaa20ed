package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/greenchainz/carbon-analysis/internal/core/domain"
	"github.com/greenchainz/carbon-analysis/internal/core/ports"
)

// ProcessAnalysisUseCase runs the full analysis pipeline for one queued job:
// token, extraction, matching, aggregation, recommendations, persistence.
type ProcessAnalysisUseCase struct {
	repo        ports.AnalysisRepository
	tokens      ports.TokenProvider
	derivative  ports.ModelDerivativeAPI
	matcher     *BatchMatcher
	recommender *AlternativeRecommender
	logger      *slog.Logger
}

func NewProcessAnalysisUseCase(
	repo ports.AnalysisRepository,
	tokens ports.TokenProvider,
	derivative ports.ModelDerivativeAPI,
	matcher *BatchMatcher,
	recommender *AlternativeRecommender,
	logger *slog.Logger,
) *ProcessAnalysisUseCase {
	if logger == nil {
		logger = slog.Default()
	}
	return &ProcessAnalysisUseCase{
		repo:        repo,
		tokens:      tokens,
		derivative:  derivative,
		matcher:     matcher,
		recommender: recommender,
		logger:      logger,
	}
}

func (uc *ProcessAnalysisUseCase) ProcessByID(ctx context.Context, analysisID string) error {
	job, err := uc.repo.GetByID(ctx, analysisID)
	if err != nil {
		return domain.WrapError(err, "fetch analysis by id", fmt.Errorf("analysis %s", analysisID))
	}
	// Redelivered messages for a finished job are dropped. Completed and
	// failed are terminal.
	if job.Status != domain.StatusProcessing {
		uc.logger.Info("skipping analysis in terminal status",
			"analysis_id", job.ID,
			"status", job.Status,
		)
		return nil
	}

	result, alternatives, err := uc.runPipeline(ctx, job)
	if err != nil {
		uc.logger.Error("analysis pipeline failed",
			"analysis_id", job.ID,
			"model_urn", job.ModelURN,
			"error", err,
		)
		if failErr := uc.repo.Fail(ctx, job.ID, err.Error()); failErr != nil {
			return fmt.Errorf("analysis pipeline: %w; mark failed status: %w", err, failErr)
		}
		return err
	}

	if err := uc.repo.Complete(ctx, job.ID, *result, alternatives, time.Now().UTC()); err != nil {
		return domain.WrapError(err, "persist analysis result", fmt.Errorf("analysis %s", job.ID))
	}
	uc.logger.Info("analysis completed",
		"analysis_id", job.ID,
		"total_carbon_kg", result.Breakdown.TotalKg,
		"materials", len(result.Materials),
		"alternatives", len(alternatives),
	)
	return nil
}

func (uc *ProcessAnalysisUseCase) runPipeline(ctx context.Context, job *domain.AnalysisJob) (*domain.AnalysisResult, []domain.Alternative, error) {
	token, err := uc.tokens.ValidAccessToken(ctx, job.OwnerID)
	if err != nil {
		return nil, nil, domain.WrapError(err, "acquire access token", fmt.Errorf("owner %s", job.OwnerID))
	}

	extracted, err := uc.derivative.ExtractMaterials(ctx, token, job.ModelURN)
	if err != nil {
		return nil, nil, domain.WrapError(err, "extract materials", fmt.Errorf("model %s", job.ModelURN))
	}

	items := make([]BatchItem, 0, len(extracted))
	for _, mat := range extracted {
		items = append(items, BatchItem{Name: mat.Name, Category: mat.Category})
	}
	matches := uc.matcher.MatchAll(ctx, items)

	materials, breakdown := AggregateCarbon(extracted, matches)
	alternatives := uc.recommender.Recommend(ctx, materials, breakdown.TopContributors)

	matched := 0
	for _, line := range materials {
		if line.MatchType != domain.MatchNone {
			matched++
		}
	}
	result := &domain.AnalysisResult{
		Materials: materials,
		Breakdown: breakdown,
		Metadata: domain.AnalysisMetadata{
			ModelURN:                job.ModelURN,
			ModelName:               job.ModelName,
			ExtractedMaterialsCount: len(materials),
			MatchedMaterialsCount:   matched,
			UnmatchedMaterialsCount: len(materials) - matched,
		},
	}
	return result, alternatives, nil
}
