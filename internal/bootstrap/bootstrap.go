package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/greenchainz/carbon-analysis/internal/config"
	"github.com/greenchainz/carbon-analysis/internal/core/ports"
	"github.com/greenchainz/carbon-analysis/internal/core/usecase"
	"github.com/greenchainz/carbon-analysis/internal/infrastructure/aps"
	"github.com/greenchainz/carbon-analysis/internal/infrastructure/derivative"
	"github.com/greenchainz/carbon-analysis/internal/infrastructure/queue/nats"
	"github.com/greenchainz/carbon-analysis/internal/infrastructure/repository/postgres"
	"github.com/greenchainz/carbon-analysis/internal/infrastructure/resilience"
	"github.com/greenchainz/carbon-analysis/internal/observability/logging"
)

type App struct {
	Config config.Config
	Logger *slog.Logger

	Queue   ports.MessageQueue
	Repo    ports.AnalysisRepository
	Catalog ports.ProductCatalog

	SubmitUC  ports.AnalysisSubmitter
	ProcessUC ports.AnalysisProcessor

	closeFn func()
}

func New(ctx context.Context, cfg config.Config, service string) (*App, error) {
	logger := logging.NewJSONLogger(service, cfg.LogLevel)
	slog.SetDefault(logger)

	db, err := postgres.OpenDB(cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	repo := postgres.NewAnalysisRepository(db)
	if err := repo.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensure analysis schema: %w", err)
	}
	catalogRepo := postgres.NewCatalogRepository(db)
	if err := catalogRepo.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensure catalog schema: %w", err)
	}

	executor := resilience.NewExecutor(resilience.DefaultConfig())

	queue, err := nats.NewWithOptions(cfg.NATSURL, cfg.NATSSubject, nats.Options{
		ResilienceExecutor: executor,
	})
	if err != nil {
		return nil, fmt.Errorf("init message queue: %w", err)
	}

	tokens := aps.NewTokenProvider(cfg.APSTokenURL, cfg.APSClientID, cfg.APSClientSecret, cfg.APSScope)
	derivativeClient := derivative.New(
		cfg.DerivativeBaseURL,
		time.Duration(cfg.DerivativeTimeoutSeconds)*time.Second,
		executor,
	)

	matcher := usecase.NewBatchMatcher(catalogRepo, logger, cfg.MatchChunkSize, cfg.MatchThreshold)
	recommender := usecase.NewAlternativeRecommender(catalogRepo, logger)

	submitUC := usecase.NewSubmitAnalysisUseCase(repo, queue)
	processUC := usecase.NewProcessAnalysisUseCase(repo, tokens, derivativeClient, matcher, recommender, logger)

	return &App{
		Config:  cfg,
		Logger:  logger,
		Queue:   queue,
		Repo:    repo,
		Catalog: catalogRepo,

		SubmitUC:  submitUC,
		ProcessUC: processUC,

		closeFn: func() {
			queue.Close()
			_ = db.Close()
		},
	}, nil
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}
