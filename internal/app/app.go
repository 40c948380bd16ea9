package app

import (
	"context"
	"fmt"
	"log/slog"

	"NewsDigest/internal/analysis"
	"NewsDigest/internal/config"
	"NewsDigest/internal/domain"
	"NewsDigest/internal/infrastructure/llm"
	"NewsDigest/internal/infrastructure/scheduler"
	"NewsDigest/internal/infrastructure/slack"
	"NewsDigest/internal/infrastructure/storage"
	"NewsDigest/internal/logging"
	"NewsDigest/internal/usecase"
)

// Application wires configuration to use cases and lifecycle orchestration.
type Application struct {
	cfg        config.Config
	repository *storage.NewsRepository
	scheduler  *usecase.Scheduler
	logger     *slog.Logger
}

// New builds a runnable application instance. The database connection is
// established eagerly: a service that cannot reach its news store has nothing
// to schedule.
func New(cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	repository, err := storage.Open(cfg.Database, cfg.Retry, baseLogger.With("component", "storage"))
	if err != nil {
		return nil, fmt.Errorf("connect news store: %w", err)
	}

	pipeline := usecase.NewPipeline(usecase.PipelineDeps{
		Repository: repository,
		Analyst:    llm.NewClaudeClient(cfg.Claude),
		Notifier:   slack.NewSender(cfg.Slack, cfg.Retry, baseLogger.With("component", "slack")),
		Grouper:    analysis.NewGrouper(cfg.Analysis.SimilarityThreshold),
		Classifier: analysis.NewClassifier(),
		Selector:   analysis.NewSelector(cfg.Analysis.MinTotal, baseLogger.With("component", "selector")),
		Parser:     analysis.NewParser(baseLogger.With("component", "parser")),
		MinCounts:  categoryMinCounts(cfg.Analysis.MinCounts),
		MaxItems:   cfg.Claude.MaxNewsItems,
		Logger:     baseLogger.With("component", "pipeline"),
	})

	driver := scheduler.NewCheckTimeScheduler(cfg.Scheduler.Location(), cfg.Scheduler.RunImmediately)

	return &Application{
		cfg:        cfg,
		repository: repository,
		scheduler:  usecase.NewScheduler(driver, pipeline, baseLogger.With("component", "scheduler")),
		logger:     baseLogger,
	}, nil
}

// Run starts the scheduler and blocks until the context is cancelled.
func (a *Application) Run(ctx context.Context) error {
	if err := a.scheduler.Start(ctx); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}
	a.logger.Info("news analysis service started")

	<-ctx.Done()

	a.logger.Info("shutdown requested")
	if err := a.scheduler.Stop(context.Background()); err != nil {
		return fmt.Errorf("stop scheduler: %w", err)
	}
	if err := a.repository.Close(); err != nil {
		return fmt.Errorf("close news store: %w", err)
	}
	return nil
}

func categoryMinCounts(raw map[string]int) map[domain.Category]int {
	counts := make(map[domain.Category]int, len(raw))
	for name, min := range raw {
		counts[domain.Category(name)] = min
	}
	return counts
}
