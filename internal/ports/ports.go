package ports

import (
	"context"
	"time"

	"NewsDigest/internal/domain"
)

// NewsRepository loads raw articles collected into storage by the upstream
// crawler. Collection itself is outside this service.
type NewsRepository interface {
	GetNewsByPeriod(ctx context.Context, date time.Time, period domain.Period) ([]domain.Article, error)
}

// MarketAnalyst performs the one-shot LLM call. The raw text is returned
// unparsed; response repair and reconciliation happen in the analysis layer.
type MarketAnalyst interface {
	Analyze(ctx context.Context, prompt string) (string, domain.Usage, error)
}

// Notifier delivers the formatted digest to its destination channel.
type Notifier interface {
	SendSummary(ctx context.Context, outcome *domain.AnalysisOutcome) error
}

// Scheduler controls when analysis runs execute.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
