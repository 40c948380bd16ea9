package analysis

import (
	"fmt"
	"testing"

	"NewsDigest/internal/domain"
)

func TestGroupClustersNearDuplicates(t *testing.T) {
	t.Parallel()

	articles := []domain.Article{
		{NewsID: "1", Title: "Fed cuts rates"},
		{NewsID: "2", Title: "Fed cuts interest rates"},
		{NewsID: "3", Title: "Tech earnings beat"},
	}

	clusters := NewGrouper(65).Group(articles)

	if len(clusters) != 2 {
		t.Fatalf("expected 2 clusters, got %d", len(clusters))
	}

	first := clusters[0]
	if first.Size() != 2 {
		t.Fatalf("expected first cluster of size 2, got %d", first.Size())
	}
	if first.Representative.RelatedCount != 1 {
		t.Fatalf("expected related_count 1, got %d", first.Representative.RelatedCount)
	}
	// Longest title stands for the cluster.
	if first.Representative.NewsID != "2" {
		t.Fatalf("expected representative news_id 2, got %s", first.Representative.NewsID)
	}

	second := clusters[1]
	if second.Representative.NewsID != "3" || second.Representative.RelatedCount != 0 {
		t.Fatalf("unexpected second cluster representative: %+v", second.Representative)
	}
}

func TestGroupPartitionsInput(t *testing.T) {
	t.Parallel()

	var articles []domain.Article
	for i := 0; i < 20; i++ {
		articles = append(articles, domain.Article{
			NewsID: fmt.Sprintf("%d", i),
			Title:  fmt.Sprintf("story number %d with unique words %d%d", i, i, i),
		})
	}
	// Pairs of duplicates on top.
	articles = append(articles,
		domain.Article{NewsID: "dup-a", Title: "Samsung posts record quarterly profit"},
		domain.Article{NewsID: "dup-b", Title: "Samsung posts record quarterly profit again"},
	)

	clusters := NewGrouper(65).Group(articles)

	seen := make(map[string]int)
	total := 0
	for _, c := range clusters {
		if c.Size() == 0 {
			t.Fatal("empty cluster produced")
		}
		if c.Representative.RelatedCount != c.Size()-1 {
			t.Fatalf("cluster %s: related_count %d != size-1 %d",
				c.ID, c.Representative.RelatedCount, c.Size()-1)
		}
		total += c.Representative.RelatedCount + 1
		for _, a := range c.Articles {
			seen[a.NewsID]++
		}
	}

	if total != len(articles) {
		t.Fatalf("sum of related_count+1 = %d, want %d", total, len(articles))
	}
	for id, count := range seen {
		if count != 1 {
			t.Fatalf("article %s appears in %d clusters", id, count)
		}
	}
}

func TestTokenSetRatio(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		a    string
		b    string
		want int
	}{
		{name: "identical", a: "Fed cuts rates", b: "Fed cuts rates", want: 100},
		{name: "case and order insensitive", a: "Rates Cuts Fed", b: "fed cuts rates", want: 100},
		{name: "partial overlap", a: "Fed cuts rates", b: "Fed cuts interest rates", want: 75},
		{name: "no overlap", a: "Fed cuts rates", b: "Tech earnings beat", want: 0},
		{name: "empty left", a: "", b: "anything", want: 0},
		{name: "both empty", a: "", b: "", want: 0},
		{name: "punctuation stripped", a: "Fed: cuts rates!", b: "fed cuts rates", want: 100},
		{name: "repetition ignored", a: "news news news today", b: "news today", want: 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := TokenSetRatio(tt.a, tt.b); got != tt.want {
				t.Fatalf("TokenSetRatio(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestGroupInclusiveThreshold(t *testing.T) {
	t.Parallel()

	// These score exactly 75; a threshold of 75 must still cluster them.
	articles := []domain.Article{
		{NewsID: "1", Title: "Fed cuts rates"},
		{NewsID: "2", Title: "Fed cuts interest rates"},
	}

	clusters := NewGrouper(75).Group(articles)
	if len(clusters) != 1 {
		t.Fatalf("expected 1 cluster at exact threshold, got %d", len(clusters))
	}
}

func TestGroupEmptyInput(t *testing.T) {
	t.Parallel()

	if clusters := NewGrouper(65).Group(nil); len(clusters) != 0 {
		t.Fatalf("expected no clusters for empty input, got %d", len(clusters))
	}
}
