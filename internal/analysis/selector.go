package analysis

import (
	"log/slog"
	"sort"

	"NewsDigest/internal/domain"
)

// Selector builds the final bounded article list under per-category coverage
// minimums.
type Selector struct {
	minTotal int
	logger   *slog.Logger
}

// NewSelector wires the absolute selection floor and a logger for shortfall
// reporting.
func NewSelector(minTotal int, logger *slog.Logger) *Selector {
	if minTotal <= 0 {
		minTotal = 10
	}
	return &Selector{minTotal: minTotal, logger: logger}
}

// Select runs the two-phase greedy pick and validates coverage. If the strict
// attempt misses the floor or any category minimum, every minimum is relaxed
// by one (never below 2) and selection runs exactly once more. A still-short
// result is returned as-is with a warning; thin news windows are not an error.
func (s *Selector) Select(pool map[domain.Category][]domain.Article, minCounts map[domain.Category]int, maxItems int) []domain.Article {
	selected := s.selectOnce(pool, minCounts, maxItems)
	if s.validate(selected, minCounts) {
		return selected
	}

	relaxed := make(map[domain.Category]int, len(minCounts))
	for cat, min := range minCounts {
		if min-1 > 2 {
			relaxed[cat] = min - 1
		} else {
			relaxed[cat] = 2
		}
	}

	s.warn("coverage minimums not met, retrying with relaxed constraints")
	selected = s.selectOnce(pool, relaxed, maxItems)
	if !s.validate(selected, relaxed) {
		s.warn("coverage still short after relaxation, proceeding with best effort",
			"selected", len(selected))
	}
	return selected
}

// selectOnce takes each category's minimum first, then fills the remaining
// capacity from the union of leftovers. Both phases order by duplicate count
// first and title length second: heavily-duplicated stories are the ones the
// newsroom kept rewriting.
func (s *Selector) selectOnce(pool map[domain.Category][]domain.Article, minCounts map[domain.Category]int, maxItems int) []domain.Article {
	var selected []domain.Article
	taken := make(map[string]bool)

	for _, cat := range []domain.Category{domain.CategoryMarket, domain.CategoryCorporate, domain.CategoryPolicy, domain.CategoryOther} {
		min := minCounts[cat]
		if min == 0 {
			continue
		}
		candidates := sortByRelevance(pool[cat])
		for _, a := range candidates {
			if len(selected) >= maxItems || min == 0 {
				break
			}
			if taken[a.NewsID] {
				continue
			}
			selected = append(selected, a)
			taken[a.NewsID] = true
			min--
		}
	}

	var rest []domain.Article
	for _, articles := range pool {
		for _, a := range articles {
			if !taken[a.NewsID] {
				rest = append(rest, a)
			}
		}
	}
	for _, a := range sortByRelevance(rest) {
		if len(selected) >= maxItems {
			break
		}
		if taken[a.NewsID] {
			continue
		}
		selected = append(selected, a)
		taken[a.NewsID] = true
	}

	return selected
}

func (s *Selector) validate(selected []domain.Article, minCounts map[domain.Category]int) bool {
	if len(selected) < s.minTotal {
		return false
	}

	perCategory := make(map[domain.Category]int)
	for _, a := range selected {
		perCategory[a.Category]++
	}
	for cat, min := range minCounts {
		if cat == domain.CategoryOther {
			continue
		}
		if perCategory[cat] < min {
			return false
		}
	}
	return true
}

func sortByRelevance(articles []domain.Article) []domain.Article {
	sorted := make([]domain.Article, len(articles))
	copy(sorted, articles)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].RelatedCount != sorted[j].RelatedCount {
			return sorted[i].RelatedCount > sorted[j].RelatedCount
		}
		return len(sorted[i].Title) > len(sorted[j].Title)
	})
	return sorted
}

func (s *Selector) warn(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Warn(msg, args...)
	}
}
