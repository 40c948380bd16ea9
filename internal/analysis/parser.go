package analysis

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"NewsDigest/internal/domain"
)

// ErrMalformedResponse marks model output with no decodable JSON object,
// even after the repair passes.
var ErrMalformedResponse = errors.New("no parsable JSON object in model response")

// Result is the structured outcome of parsing one model response.
type Result struct {
	News           []domain.SelectedNews
	MarketAnalysis []domain.TopicAnalysis
}

// Parser extracts and repairs JSON from free-text model responses and
// reconciles the returned items against the original article records.
// Stateless per call; side-effect-free aside from logging.
type Parser struct {
	logger *slog.Logger
}

// NewParser wires a logger for reconciliation reporting.
func NewParser(logger *slog.Logger) *Parser {
	return &Parser{logger: logger}
}

// rawNewsItem mirrors one news_list entry before reconciliation.
type rawNewsItem struct {
	NewsID       flexString `json:"news_id"`
	Title        string     `json:"title"`
	Importance   int        `json:"importance"`
	Reason       string     `json:"reason"`
	RelatedCount int        `json:"related_count"`
}

type rawTopic struct {
	Topic           string   `json:"topic"`
	Impact          string   `json:"impact"`
	Score           float64  `json:"score"`
	AffectedSectors []string `json:"affected_sectors"`
	Duration        string   `json:"duration"`
	Analysis        string   `json:"analysis"`
}

type rawResponse struct {
	NewsList       []rawNewsItem `json:"news_list"`
	MarketAnalysis []rawTopic    `json:"market_analysis"`
}

// flexString accepts both JSON strings and bare numbers; the model is not
// consistent about quoting identifiers.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	*f = flexString(strings.TrimSpace(string(data)))
	return nil
}

// Parse locates the JSON object inside the raw response, repairs common
// breakage (whitespace runs, Unicode variants, unescaped quotes inside string
// values), decodes it, and reconciles the news list with the originals map.
// It never raises: any input yields either a Result or an explicit error.
func (p *Parser) Parse(raw string, originals map[string]domain.Article) (Result, error) {
	span, ok := extractJSONSpan(raw)
	if !ok {
		return Result{}, fmt.Errorf("%w: no {...} span found", ErrMalformedResponse)
	}

	span = normalizeText(span)

	decoded, err := decodeResponse(escapeQuotesInValues(span, knownStringKeys))
	if err != nil {
		// Aggressive pass: repair every string value, not just known keys.
		decoded, err = decodeResponse(escapeAllStringValues(span))
	}
	if err != nil {
		p.error("model response failed decode after repair passes", "error", err)
		return Result{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	return p.reconcile(decoded, originals), nil
}

// extractJSONSpan cuts the outermost {...} region by first '{' and last '}'.
func extractJSONSpan(raw string) (string, bool) {
	start := strings.Index(raw, "{")
	if start == -1 {
		return "", false
	}
	end := strings.LastIndex(raw, "}")
	if end == -1 || end < start {
		return "", false
	}
	return strings.TrimSpace(raw[start : end+1]), true
}

var (
	whitespaceRuns = regexp.MustCompile(`[ \t\r\f\v]+`)
	asciiReplacer  = strings.NewReplacer(
		"…", "...",
		"&amp;", "&",
		"＆", "&",
		" ", " ",
	)
)

// normalizeText collapses whitespace runs and maps common Unicode
// ellipsis/ampersand variants to their ASCII equivalents.
func normalizeText(s string) string {
	return whitespaceRuns.ReplaceAllString(asciiReplacer.Replace(s), " ")
}

const knownStringKeys = "title|reason|topic|duration|analysis"

// escapeQuotesInValues escapes unescaped double quotes inside the value span
// of the named string keys. The value terminator is taken to be a quote
// followed by a comma, closing brace, or closing bracket, which lets embedded
// quotes mid-sentence survive. Best effort: pathological text can still
// defeat it.
func escapeQuotesInValues(s, keys string) string {
	re := regexp.MustCompile(`(?s)("(?:` + keys + `)"\s*:\s*")(.*?)("\s*[,}\]])`)
	return re.ReplaceAllStringFunc(s, func(match string) string {
		groups := re.FindStringSubmatch(match)
		return groups[1] + escapeInnerQuotes(groups[2]) + groups[3]
	})
}

// escapeAllStringValues is the secondary pass: same repair applied to every
// string value regardless of key.
func escapeAllStringValues(s string) string {
	re := regexp.MustCompile(`(?s)(:\s*")(.*?)("\s*[,}\]])`)
	return re.ReplaceAllStringFunc(s, func(match string) string {
		groups := re.FindStringSubmatch(match)
		return groups[1] + escapeInnerQuotes(groups[2]) + groups[3]
	})
}

func escapeInnerQuotes(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	escaped := false
	for _, r := range s {
		if r == '"' && !escaped {
			b.WriteString(`\"`)
			continue
		}
		escaped = r == '\\' && !escaped
		b.WriteRune(r)
	}
	return b.String()
}

// decodeResponse attempts the strict decode; failures report the offending
// position and surrounding context.
func decodeResponse(s string) (rawResponse, error) {
	var decoded rawResponse
	err := json.Unmarshal([]byte(s), &decoded)
	if err == nil {
		return decoded, nil
	}

	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		line, col := positionOf(s, syntaxErr.Offset)
		return rawResponse{}, fmt.Errorf("%v at line %d column %d near %q",
			err, line, col, contextAround(s, syntaxErr.Offset))
	}
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		line, col := positionOf(s, typeErr.Offset)
		return rawResponse{}, fmt.Errorf("%v at line %d column %d", err, line, col)
	}
	return rawResponse{}, err
}

func positionOf(s string, offset int64) (line, col int) {
	if offset > int64(len(s)) {
		offset = int64(len(s))
	}
	before := s[:offset]
	line = strings.Count(before, "\n") + 1
	if idx := strings.LastIndex(before, "\n"); idx >= 0 {
		col = int(offset) - idx
	} else {
		col = int(offset) + 1
	}
	return line, col
}

func contextAround(s string, offset int64) string {
	const radius = 20
	start := int(offset) - radius
	if start < 0 {
		start = 0
	}
	end := int(offset) + radius
	if end > len(s) {
		end = len(s)
	}
	return s[start:end]
}

// reconcile matches decoded items back to the originals by identifier.
// Unknown and duplicate identifiers are dropped and logged; matched items
// get their link, section, canonical title and publication time restored
// from the original record, which is the only trusted source for them.
func (p *Parser) reconcile(decoded rawResponse, originals map[string]domain.Article) Result {
	var result Result
	usedIDs := make(map[string]bool)

	for _, item := range decoded.NewsList {
		id := string(item.NewsID)
		if id == "" || usedIDs[id] {
			p.info("dropping duplicate or empty news_id", "news_id", id)
			continue
		}
		original, ok := originals[id]
		if !ok {
			p.warn("model returned unknown news_id", "news_id", id)
			continue
		}
		usedIDs[id] = true

		result.News = append(result.News, domain.SelectedNews{
			Article:    original,
			Importance: item.Importance,
			Reason:     item.Reason,
		})
	}

	if len(decoded.NewsList) > 0 && len(result.News) == 0 {
		// Valid outcome but a wasted request; worth an error-level record.
		p.error("no returned news item matched an original record")
	}

	for _, topic := range decoded.MarketAnalysis {
		if topic.Topic == "" || topic.Impact == "" || topic.Analysis == "" {
			p.warn("dropping market_analysis entry with missing required keys", "topic", topic.Topic)
			continue
		}
		result.MarketAnalysis = append(result.MarketAnalysis, domain.TopicAnalysis{
			Topic:           topic.Topic,
			Impact:          normalizeImpact(topic.Impact),
			Score:           topic.Score,
			AffectedSectors: topic.AffectedSectors,
			Duration:        topic.Duration,
			Analysis:        topic.Analysis,
		})
	}

	return result
}

func normalizeImpact(s string) domain.ImpactPolarity {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "positive":
		return domain.ImpactPositive
	case "negative":
		return domain.ImpactNegative
	default:
		return domain.ImpactNeutral
	}
}

func (p *Parser) info(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Info(msg, args...)
	}
}

func (p *Parser) warn(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Warn(msg, args...)
	}
}

func (p *Parser) error(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Error(msg, args...)
	}
}
