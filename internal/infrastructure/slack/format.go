package slack

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"NewsDigest/internal/domain"
)

// FormatSummary renders the analysis outcome as the Slack message body:
// headlines grouped by source section, the market-impact breakdown, and the
// API usage footer.
func FormatSummary(outcome *domain.AnalysisOutcome) string {
	var b strings.Builder

	fmt.Fprintf(&b, "📰 Top news headlines (%d)\n", len(outcome.News))
	b.WriteString("----------------------------\n")

	for _, section := range sectionOrder(outcome.News) {
		fmt.Fprintf(&b, "\n[%s]\n", section)
		for _, news := range outcome.News {
			if news.Section != section {
				continue
			}
			fmt.Fprintf(&b, "• <%s|%s>\n", news.Link, news.Title)
		}
	}

	if len(outcome.MarketAnalysis) > 0 {
		b.WriteString("\n\n📊 Market impact analysis\n")
		b.WriteString("----------------------------\n")

		for i, topic := range outcome.MarketAnalysis {
			fmt.Fprintf(&b, "\n%d. %s %s\n", i+1, topic.Topic, impactSymbol(topic.Impact))
			fmt.Fprintf(&b, "• Impact: %s (%.1f)\n", topic.Impact, topic.Score)
			fmt.Fprintf(&b, "• Affected: %s\n", strings.Join(topic.AffectedSectors, ", "))
			fmt.Fprintf(&b, "• Duration: %s\n", topic.Duration)
			fmt.Fprintf(&b, "• Analysis: %s\n", topic.Analysis)
		}
	}

	usage := outcome.Usage
	if usage.TotalTokens() > 0 {
		b.WriteString("\n\n⚙️ API usage\n")
		b.WriteString("----------------------------\n")
		fmt.Fprintf(&b, "• Tokens: %d (input: %d, output: %d)\n",
			usage.TotalTokens(), usage.InputTokens, usage.OutputTokens)
		fmt.Fprintf(&b, "• API time: %.1fs\n", usage.APITime.Seconds())
		fmt.Fprintf(&b, "• Cost: $%.4f\n", usage.CostUSD)
	}

	return b.String()
}

// sectionOrder lists distinct sections in first-seen order so grouping is
// stable across runs.
func sectionOrder(news []domain.SelectedNews) []string {
	var order []string
	seen := make(map[string]bool)
	for _, n := range news {
		if !seen[n.Section] {
			seen[n.Section] = true
			order = append(order, n.Section)
		}
	}
	return order
}

func impactSymbol(impact domain.ImpactPolarity) string {
	switch impact {
	case domain.ImpactNegative:
		return "🔴"
	case domain.ImpactPositive:
		return "🟢"
	default:
		return "⚪"
	}
}

// SplitMessage breaks a long message into delivery-sized parts, cutting at
// the nearest newline before the limit so no line is split mid-way.
func SplitMessage(message string, maxLength int) []string {
	if maxLength <= 0 || len(message) <= maxLength {
		return []string{message}
	}

	var parts []string
	for len(message) > maxLength {
		splitIndex := strings.LastIndex(message[:maxLength], "\n")
		if splitIndex <= 0 {
			// No newline to cut at: hard cut, backed up to a rune boundary.
			splitIndex = maxLength
			for splitIndex > 0 && !utf8.RuneStart(message[splitIndex]) {
				splitIndex--
			}
		}
		parts = append(parts, message[:splitIndex])
		message = strings.TrimLeft(message[splitIndex:], "\n")
	}
	if message != "" {
		parts = append(parts, message)
	}
	return parts
}
