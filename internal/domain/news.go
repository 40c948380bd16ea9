package domain

import "time"

// Article is a core entity describing one news record loaded from storage.
type Article struct {
	NewsID    string
	Title     string
	Section   string
	Link      string
	PubTime   time.Time
	CreatedAt time.Time

	// Derived during processing; zero until attached.
	RelatedCount int
	Category     Category
}

// Category is the closed set of topical buckets used for coverage balancing.
type Category string

const (
	CategoryMarket    Category = "market"
	CategoryCorporate Category = "corporate"
	CategoryPolicy    Category = "policy"
	CategoryOther     Category = "other"
)

// Cluster groups articles judged near-duplicates of one another by title.
// The representative is the member with the longest title: longer headlines
// tend to keep the specifics that shorter rewrites drop.
type Cluster struct {
	ID             string
	Articles       []Article
	Representative Article
}

// Size returns the number of member articles.
func (c Cluster) Size() int {
	return len(c.Articles)
}

// SelectedNews is a reconciled article enriched with the model's ranking.
type SelectedNews struct {
	Article
	Importance int
	Reason     string
}

// ImpactPolarity enumerates the tri-state market impact of a topic.
type ImpactPolarity string

const (
	ImpactPositive ImpactPolarity = "Positive"
	ImpactNegative ImpactPolarity = "Negative"
	ImpactNeutral  ImpactPolarity = "Neutral"
)

// TopicAnalysis is one entry of the model's market-impact breakdown.
type TopicAnalysis struct {
	Topic           string
	Impact          ImpactPolarity
	Score           float64
	AffectedSectors []string
	Duration        string
	Analysis        string
}

// Usage aggregates token, latency and cost accounting for one LLM call.
type Usage struct {
	InputTokens  int64
	OutputTokens int64
	APITime      time.Duration
	CostUSD      float64
}

// TotalTokens sums input and output token counts.
func (u Usage) TotalTokens() int64 {
	return u.InputTokens + u.OutputTokens
}

// AnalysisOutcome is the full result of one analysis run. Produced fresh per
// run; nothing is shared across runs.
type AnalysisOutcome struct {
	RunID          string
	Date           string
	Period         string
	TotalCount     int
	SelectedCount  int
	News           []SelectedNews
	MarketAnalysis []TopicAnalysis
	Usage          Usage
}

// Period describes one collection window and the wall-clock time at which it
// is analyzed. Start/End are "15:04" strings; a window whose Start is later
// than its End wraps midnight and covers the previous day's tail.
type Period struct {
	Name      string
	Start     string
	End       string
	CheckTime string
}

// WrapsMidnight reports whether the window spans the previous day.
func (p Period) WrapsMidnight() bool {
	return p.Start > p.End
}

// AnalysisPeriods lists the collection windows in check order. The morning
// window picks up everything published after the previous afternoon's close.
var AnalysisPeriods = []Period{
	{Name: "MORNING", Start: "14:30", End: "08:00", CheckTime: "08:10"},
	{Name: "AFTERNOON", Start: "08:00", End: "14:30", CheckTime: "14:40"},
}

// ResolvePeriod finds the analysis period whose check time is within five
// minutes of now. Outside every check window there is nothing to analyze.
func ResolvePeriod(now time.Time) (Period, bool) {
	nowMinutes := now.Hour()*60 + now.Minute()
	for _, period := range AnalysisPeriods {
		check, err := time.Parse("15:04", period.CheckTime)
		if err != nil {
			continue
		}
		checkMinutes := check.Hour()*60 + check.Minute()
		diff := nowMinutes - checkMinutes
		if diff < 0 {
			diff = -diff
		}
		if diff <= 5 {
			return period, true
		}
	}
	return Period{}, false
}
