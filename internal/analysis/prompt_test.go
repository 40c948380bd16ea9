package analysis

import (
	"strings"
	"testing"

	"NewsDigest/internal/domain"
)

func TestBuildPrompt(t *testing.T) {
	t.Parallel()

	selected := []domain.Article{
		{NewsID: "101", Title: "Fed holds rates steady"},
		{NewsID: "202", Title: "Samsung profit jumps 30%"},
	}

	prompt := BuildPrompt(selected, 30)

	if !strings.Contains(prompt, "- 101|||Fed holds rates steady\n") {
		t.Fatal("prompt is missing the first id|||title line")
	}
	if !strings.Contains(prompt, "- 202|||Samsung profit jumps 30%\n") {
		t.Fatal("prompt is missing the second id|||title line")
	}
	if !strings.Contains(prompt, "select the 30 most important items") {
		t.Fatal("prompt is missing the target count instruction")
	}

	// The schema section is the parser's contract; these keys must be present
	// verbatim.
	for _, key := range []string{
		`"news_list"`, `"news_id"`, `"importance"`, `"reason"`, `"related_count"`,
		`"market_analysis"`, `"topic"`, `"impact"`, `"score"`,
		`"affected_sectors"`, `"duration"`, `"analysis"`,
	} {
		if !strings.Contains(prompt, key) {
			t.Fatalf("prompt schema is missing key %s", key)
		}
	}
}

func TestBuildPromptEmptySelection(t *testing.T) {
	t.Parallel()

	prompt := BuildPrompt(nil, 10)
	if !strings.Contains(prompt, "News list:") {
		t.Fatal("template should render even with no articles")
	}
	if strings.Contains(prompt, "- |||") {
		t.Fatal("no article lines should be rendered for an empty selection")
	}
}
