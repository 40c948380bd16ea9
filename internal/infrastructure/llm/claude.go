package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"NewsDigest/internal/config"
	"NewsDigest/internal/domain"
	"NewsDigest/internal/ports"
)

// ClaudeClient implements ports.MarketAnalyst against the Anthropic
// Messages API.
type ClaudeClient struct {
	client      *anthropic.Client
	model       anthropic.Model
	maxTokens   int64
	inputPer1K  float64
	outputPer1K float64
}

var _ ports.MarketAnalyst = (*ClaudeClient)(nil)

// NewClaudeClient builds a client from configuration.
func NewClaudeClient(cfg config.ClaudeConfig) *ClaudeClient {
	client := anthropic.NewClient(option.WithAPIKey(cfg.APIKey))
	return &ClaudeClient{
		client:      &client,
		model:       anthropic.Model(cfg.Model),
		maxTokens:   int64(cfg.MaxTokens),
		inputPer1K:  cfg.InputPer1K,
		outputPer1K: cfg.OutputPer1K,
	}
}

// Analyze sends the prompt as a single user message and returns the raw
// response text with usage accounting. The call is never retried here: it is
// billable, so the caller decides whether a failed cycle is re-run. Callers
// should bound the call with a context deadline.
func (c *ClaudeClient) Analyze(ctx context.Context, prompt string) (string, domain.Usage, error) {
	started := time.Now()
	resp, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     c.model,
		MaxTokens: c.maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", domain.Usage{}, fmt.Errorf("anthropic API error: %w", err)
	}
	if len(resp.Content) == 0 {
		return "", domain.Usage{}, fmt.Errorf("empty response from anthropic")
	}

	usage := domain.Usage{
		InputTokens:  resp.Usage.InputTokens,
		OutputTokens: resp.Usage.OutputTokens,
		APITime:      time.Since(started),
	}
	usage.CostUSD = c.cost(usage)

	return resp.Content[0].Text, usage, nil
}

// cost applies the linear per-1000-token price model.
func (c *ClaudeClient) cost(u domain.Usage) float64 {
	return float64(u.InputTokens)/1000*c.inputPer1K + float64(u.OutputTokens)/1000*c.outputPer1K
}
