package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"NewsDigest/internal/analysis"
	"NewsDigest/internal/domain"
	"NewsDigest/internal/ports"
)

// PipelineDeps wires all driven adapters into the analysis pipeline.
type PipelineDeps struct {
	Repository ports.NewsRepository
	Analyst    ports.MarketAnalyst
	Notifier   ports.Notifier
	Grouper    *analysis.Grouper
	Classifier *analysis.Classifier
	Selector   *analysis.Selector
	Parser     *analysis.Parser
	MinCounts  map[domain.Category]int
	MaxItems   int
	Logger     *slog.Logger
}

// Pipeline implements one full analysis run: load window, cluster, classify,
// select, ask the model, parse, reconcile, deliver. Runs are synchronous and
// single-threaded; the scheduler serializes invocations.
type Pipeline struct {
	repository ports.NewsRepository
	analyst    ports.MarketAnalyst
	notifier   ports.Notifier
	grouper    *analysis.Grouper
	classifier *analysis.Classifier
	selector   *analysis.Selector
	parser     *analysis.Parser
	minCounts  map[domain.Category]int
	maxItems   int
	logger     *slog.Logger
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	maxItems := deps.MaxItems
	if maxItems <= 0 {
		maxItems = 30
	}
	return &Pipeline{
		repository: deps.Repository,
		analyst:    deps.Analyst,
		notifier:   deps.Notifier,
		grouper:    deps.Grouper,
		classifier: deps.Classifier,
		selector:   deps.Selector,
		parser:     deps.Parser,
		minCounts:  deps.MinCounts,
		maxItems:   maxItems,
		logger:     deps.Logger,
	}
}

// Run executes one analysis cycle for the period matching now. A nil outcome
// with nil error means there was nothing to do: either no check time matched
// or the window held no articles. The LLM call is never retried here.
func (p *Pipeline) Run(ctx context.Context, now time.Time) (*domain.AnalysisOutcome, error) {
	period, ok := domain.ResolvePeriod(now)
	if !ok {
		p.info("current time matches no analysis period", "time", now.Format("15:04"))
		return nil, nil
	}

	articles, err := p.repository.GetNewsByPeriod(ctx, now, period)
	if err != nil {
		return nil, fmt.Errorf("load news for period %s: %w", period.Name, err)
	}
	if len(articles) == 0 {
		p.warn("no news found in the collection window", "period", period.Name)
		return nil, nil
	}
	p.info("news loaded", "period", period.Name, "count", len(articles))

	clusters := p.grouper.Group(articles)
	representatives := analysis.Representatives(clusters)
	p.info("headlines clustered", "clusters", len(clusters), "articles", len(articles))

	pool := p.classifier.Categorize(representatives)
	selected := p.selector.Select(pool, p.minCounts, p.maxItems)

	prompt := analysis.BuildPrompt(selected, p.maxItems)
	raw, usage, err := p.analyst.Analyze(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("analyze period %s: %w", period.Name, err)
	}

	originals := make(map[string]domain.Article, len(selected))
	for _, a := range selected {
		originals[a.NewsID] = a
	}

	outcome := &domain.AnalysisOutcome{
		RunID:      uuid.NewString(),
		Date:       now.Format("2006-01-02"),
		Period:     periodLabel(now, period),
		TotalCount: len(articles),
		Usage:      usage,
	}

	result, err := p.parser.Parse(raw, originals)
	if err != nil {
		if errors.Is(err, analysis.ErrMalformedResponse) {
			// Recovered locally: the run ends without deliverable output.
			p.errorLog("model response unusable, skipping delivery", "error", err)
			return outcome, nil
		}
		return nil, fmt.Errorf("parse model response: %w", err)
	}

	outcome.News = result.News
	outcome.MarketAnalysis = result.MarketAnalysis
	outcome.SelectedCount = len(result.News)

	if len(result.News) == 0 {
		p.errorLog("no news item survived reconciliation, skipping delivery", "run_id", outcome.RunID)
		return outcome, nil
	}

	if p.notifier != nil {
		if err := p.notifier.SendSummary(ctx, outcome); err != nil {
			return outcome, fmt.Errorf("deliver summary: %w", err)
		}
	}

	p.info("analysis run complete",
		"run_id", outcome.RunID, "selected", outcome.SelectedCount, "cost_usd", usage.CostUSD)
	return outcome, nil
}

func periodLabel(now time.Time, period domain.Period) string {
	return fmt.Sprintf("%s %s ~ %s", now.Format("2006-01-02"), period.Start, period.End)
}

func (p *Pipeline) info(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Info(msg, args...)
	}
}

func (p *Pipeline) warn(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Warn(msg, args...)
	}
}

func (p *Pipeline) errorLog(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Error(msg, args...)
	}
}
