package analysis

import (
	"fmt"
	"strings"

	"NewsDigest/internal/domain"
)

// idTitleSeparator splits the news ID from the title on each prompt line.
// Assumption: titles never contain this exact triple-pipe sequence. This is
// documented, not validated against input.
const idTitleSeparator = "|||"

// BuildPrompt serializes the selected articles into the analysis request.
// Each article becomes one "id|||title" line inside a fixed instruction
// template; the schema description at the end is what the response parser
// depends on verbatim.
func BuildPrompt(selected []domain.Article, targetCount int) string {
	var lines strings.Builder
	for _, a := range selected {
		fmt.Fprintf(&lines, "- %s%s%s\n", a.NewsID, idTitleSeparator, a.Title)
	}

	return fmt.Sprintf(promptTemplate, targetCount, lines.String())
}

const promptTemplate = `The following is today's list of news headlines. From a stock investor's perspective, select the %d most important items.

Evaluate each item by these criteria:
1. Macro-economic news affecting the whole market (interest rates, exchange rates, policy) comes first
2. News affecting major companies or entire industries comes second
3. The more articles covering similar content, the more important the issue
4. For individual companies, prefer those with large market cap or industry influence
5. Always consider news about major companies (Apple, Amazon, Nvidia, Samsung, SK Hynix, OpenAI)
6. Always include US market news (NYSE, Nasdaq, S&P)
7. Guarantee a minimum of 20 selected articles

When several articles cover the same story, keep only the most essential headline, but give issues with many duplicate articles a higher importance score (1-10).

Important: each line is "news ID|||title"; you must echo the ID from the left of ||| in your response.

News list:
%s
Respond with a single JSON object in exactly this shape:
{
    "news_list": [
        {
            "news_id": "news ID (the number left of |||)",
            "title": "news title (right of |||)",
            "importance": importance score 1-10,
            "reason": "why this matters to investors, mentioning the duplicate article count",
            "related_count": number of similar articles
        }
    ],
    "market_analysis": [
        {
            "topic": "topic label",
            "impact": "Positive | Negative | Neutral",
            "score": signed influence score between -10 and 10,
            "affected_sectors": ["sectors or tickers affected"],
            "duration": "short-term | medium-term | long-term",
            "analysis": "free-text rationale"
        }
    ]
}

market_analysis must contain 3 to 5 entries covering the dominant themes of the selected news.

Example news_list entry:
{
    "news_id": "12345",
    "title": "Fed signals three rate cuts this year, Powell cites easing inflation",
    "importance": 9,
    "reason": "Rate policy moves the entire market; 12 similar articles found",
    "related_count": 12
}
`
