package slack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"NewsDigest/internal/config"
	"NewsDigest/internal/domain"
	"NewsDigest/internal/ports"
)

// Sender delivers digests to a Slack incoming webhook.
type Sender struct {
	webhookURL string
	maxLength  int
	retry      config.RetryConfig
	client     *http.Client
	logger     *slog.Logger
}

var _ ports.Notifier = (*Sender)(nil)

// NewSender registers the webhook endpoint and message limits.
func NewSender(cfg config.SlackConfig, retry config.RetryConfig, logger *slog.Logger) *Sender {
	maxLength := cfg.MaxMessageLength
	if maxLength <= 0 {
		maxLength = 3000
	}
	return &Sender{
		webhookURL: cfg.WebhookURL,
		maxLength:  maxLength,
		retry:      retry,
		client:     &http.Client{Timeout: 10 * time.Second},
		logger:     logger,
	}
}

// SendSummary formats the outcome, splits it under the webhook length limit
// and posts each part as a separate call with link previews disabled.
func (s *Sender) SendSummary(ctx context.Context, outcome *domain.AnalysisOutcome) error {
	if s.webhookURL == "" {
		return fmt.Errorf("slack sender misconfigured: empty webhook url")
	}

	message := FormatSummary(outcome)
	parts := SplitMessage(message, s.maxLength)

	for i, part := range parts {
		if err := s.postWithRetry(ctx, part); err != nil {
			return fmt.Errorf("send part %d/%d: %w", i+1, len(parts), err)
		}
	}

	if s.logger != nil {
		s.logger.Info("slack message delivered", "news", len(outcome.News), "parts", len(parts))
	}
	return nil
}

func (s *Sender) postWithRetry(ctx context.Context, text string) error {
	maxRetries := s.retry.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 1
	}

	var lastErr error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		lastErr = s.post(ctx, text)
		if lastErr == nil {
			return nil
		}
		if attempt == maxRetries {
			break
		}

		if s.logger != nil {
			s.logger.Warn("webhook delivery failed, retrying",
				"attempt", attempt, "error", lastErr)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(s.retry.Delay()):
		}
	}
	return lastErr
}

func (s *Sender) post(ctx context.Context, text string) error {
	body, err := json.Marshal(map[string]any{
		"text":         text,
		"unfurl_links": false,
	})
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("slack webhook error: %s", resp.Status)
	}
	return nil
}
