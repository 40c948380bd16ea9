package slack

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"NewsDigest/internal/config"
)

func TestSendSummaryPostsAllParts(t *testing.T) {
	t.Parallel()

	var payloads []map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]any
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("decode payload: %v", err)
		}
		payloads = append(payloads, payload)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	// Force splitting with a tiny limit.
	sender := NewSender(config.SlackConfig{WebhookURL: server.URL, MaxMessageLength: 200}, config.RetryConfig{MaxRetries: 1}, nil)

	if err := sender.SendSummary(context.Background(), sampleOutcome()); err != nil {
		t.Fatalf("SendSummary returned error: %v", err)
	}

	if len(payloads) < 2 {
		t.Fatalf("expected the long digest to be split, got %d calls", len(payloads))
	}

	var combined strings.Builder
	for _, payload := range payloads {
		text, ok := payload["text"].(string)
		if !ok || text == "" {
			t.Fatalf("payload missing text: %#v", payload)
		}
		combined.WriteString(text)

		unfurl, ok := payload["unfurl_links"].(bool)
		if !ok || unfurl {
			t.Fatalf("link previews must be disabled: %#v", payload)
		}
	}

	if !strings.Contains(combined.String(), "Fed cuts rates") {
		t.Fatal("delivered parts lost the headline content")
	}
}

func TestSendSummaryErrorStatus(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no_service", http.StatusGone)
	}))
	defer server.Close()

	sender := NewSender(config.SlackConfig{WebhookURL: server.URL}, config.RetryConfig{MaxRetries: 2}, nil)

	if err := sender.SendSummary(context.Background(), sampleOutcome()); err == nil {
		t.Fatal("expected an error for non-200 webhook status")
	}
}

func TestSendSummaryMisconfigured(t *testing.T) {
	t.Parallel()

	sender := NewSender(config.SlackConfig{}, config.RetryConfig{}, nil)
	if err := sender.SendSummary(context.Background(), sampleOutcome()); err == nil {
		t.Fatal("expected an error when webhook url is empty")
	}
}
