package analysis

import (
	"strings"

	"github.com/google/uuid"

	"NewsDigest/internal/domain"
)

// Grouper clusters near-duplicate headlines so the model sees each story once.
type Grouper struct {
	threshold int
}

// NewGrouper builds a grouper with the given similarity threshold (0-100).
func NewGrouper(threshold int) *Grouper {
	return &Grouper{threshold: threshold}
}

// Group partitions articles into clusters of near-duplicate titles. A single
// pass in input order: each unassigned article opens a cluster and absorbs
// every later unassigned article whose title scores at or above the threshold.
// O(n²) comparisons, fine at daily batch sizes. Every input article lands in
// exactly one cluster. The representative is the member with the longest
// title and carries RelatedCount = cluster size - 1.
func (g *Grouper) Group(articles []domain.Article) []domain.Cluster {
	used := make(map[int]bool, len(articles))
	clusters := make([]domain.Cluster, 0, len(articles))

	for i, article := range articles {
		if used[i] {
			continue
		}
		used[i] = true

		members := []domain.Article{article}
		for j := i + 1; j < len(articles); j++ {
			if used[j] {
				continue
			}
			if TokenSetRatio(article.Title, articles[j].Title) >= g.threshold {
				members = append(members, articles[j])
				used[j] = true
			}
		}

		rep := pickRepresentative(members)
		rep.RelatedCount = len(members) - 1

		clusters = append(clusters, domain.Cluster{
			ID:             uuid.NewString(),
			Articles:       members,
			Representative: rep,
		})
	}

	return clusters
}

// Representatives returns the one article standing for each cluster.
func Representatives(clusters []domain.Cluster) []domain.Article {
	reps := make([]domain.Article, 0, len(clusters))
	for _, c := range clusters {
		reps = append(reps, c.Representative)
	}
	return reps
}

// Longest title wins; rewrites of the same story usually trim detail, so the
// longest variant keeps the most specifics. Ties keep the earlier article.
func pickRepresentative(members []domain.Article) domain.Article {
	rep := members[0]
	for _, m := range members[1:] {
		if len(m.Title) > len(rep.Title) {
			rep = m
		}
	}
	return rep
}

// TokenSetRatio scores lexical similarity of two titles on a 0-100 scale:
// the Jaccard overlap of their lower-cased word sets, insensitive to order
// and repetition.
func TokenSetRatio(a, b string) int {
	setA := tokenSet(a)
	setB := tokenSet(b)
	if len(setA) == 0 || len(setB) == 0 {
		return 0
	}

	var intersection int
	for token := range setA {
		if _, ok := setB[token]; ok {
			intersection++
		}
	}

	union := len(setA) + len(setB) - intersection
	if union == 0 {
		return 0
	}

	return 100 * intersection / union
}

var tokenReplacer = strings.NewReplacer(
	",", " ", ".", " ", ":", " ", ";", " ", "!", " ", "?", " ",
	"(", " ", ")", " ", "'", " ", "\"", " ", "-", " ", "_", " ",
	"[", " ", "]", " ", "…", " ",
)

func tokenSet(s string) map[string]struct{} {
	normalized := strings.ToLower(tokenReplacer.Replace(s))
	fields := strings.Fields(normalized)
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		set[f] = struct{}{}
	}
	return set
}
