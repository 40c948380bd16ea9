package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/lib/pq"

	"NewsDigest/internal/config"
	"NewsDigest/internal/domain"
	"NewsDigest/internal/ports"
)

// NewsRepository reads collected articles from Postgres.
type NewsRepository struct {
	db     *sql.DB
	retry  config.RetryConfig
	logger *slog.Logger
}

var _ ports.NewsRepository = (*NewsRepository)(nil)

// Open connects to the news store and verifies the connection.
func Open(cfg config.DatabaseConfig, retry config.RetryConfig, logger *slog.Logger) (*NewsRepository, error) {
	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	repo := &NewsRepository{db: db, retry: retry, logger: logger}
	if err := repo.pingWithRetry(context.Background()); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return repo, nil
}

// NewNewsRepository wires an existing sql.DB, mainly for tests.
func NewNewsRepository(db *sql.DB, retry config.RetryConfig, logger *slog.Logger) *NewsRepository {
	return &NewsRepository{db: db, retry: retry, logger: logger}
}

// Close releases the connection pool.
func (r *NewsRepository) Close() error {
	if r.db == nil {
		return nil
	}
	return r.db.Close()
}

// GetNewsByPeriod returns articles created inside the period's collection
// window on the given date, ordered by creation time. A window that wraps
// midnight is queried as two sub-ranges unioned: the previous day's tail and
// the current day's head.
func (r *NewsRepository) GetNewsByPeriod(ctx context.Context, date time.Time, period domain.Period) ([]domain.Article, error) {
	if r.db == nil {
		return nil, fmt.Errorf("news repository is not connected")
	}

	day := date.Format("2006-01-02")
	builder := sq.Select("news_id", "title", "section", "link", "pub_time", "create_at").
		From("news").
		OrderBy("create_at").
		PlaceholderFormat(sq.Dollar)

	if period.WrapsMidnight() {
		prevDay := date.AddDate(0, 0, -1).Format("2006-01-02")
		builder = builder.Where(sq.Or{
			sq.And{
				sq.Expr("create_at::date = ?", prevDay),
				sq.Expr("create_at::time >= ?", period.Start),
			},
			sq.And{
				sq.Expr("create_at::date = ?", day),
				sq.Expr("create_at::time <= ?", period.End),
			},
		})
	} else {
		builder = builder.Where(sq.And{
			sq.Expr("create_at::date = ?", day),
			sq.Expr("create_at::time BETWEEN ? AND ?", period.Start, period.End),
		})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var articles []domain.Article
	err = r.withRetry(ctx, func() error {
		rows, qErr := r.db.QueryContext(ctx, query, args...)
		if qErr != nil {
			return fmt.Errorf("query news: %w", qErr)
		}
		defer rows.Close()

		articles = articles[:0]
		for rows.Next() {
			var a domain.Article
			if sErr := rows.Scan(&a.NewsID, &a.Title, &a.Section, &a.Link, &a.PubTime, &a.CreatedAt); sErr != nil {
				return fmt.Errorf("scan news row: %w", sErr)
			}
			articles = append(articles, a)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}

	return articles, nil
}

func (r *NewsRepository) pingWithRetry(ctx context.Context) error {
	return r.withRetry(ctx, func() error {
		return r.db.PingContext(ctx)
	})
}

// withRetry re-attempts transient failures with a linearly growing delay.
func (r *NewsRepository) withRetry(ctx context.Context, op func() error) error {
	maxRetries := r.retry.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 1
	}

	var lastErr error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		lastErr = op()
		if lastErr == nil {
			return nil
		}
		if attempt == maxRetries {
			break
		}

		wait := time.Duration(attempt) * r.retry.Delay()
		if r.logger != nil {
			r.logger.Warn("database operation failed, retrying",
				"attempt", attempt, "max_retries", maxRetries, "wait", wait, "error", lastErr)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}

	return fmt.Errorf("database operation failed after %d attempts: %w", maxRetries, lastErr)
}
