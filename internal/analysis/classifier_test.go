package analysis

import (
	"testing"

	"NewsDigest/internal/domain"
)

func TestClassify(t *testing.T) {
	t.Parallel()

	classifier := NewClassifier()

	tests := []struct {
		title string
		want  domain.Category
	}{
		{title: "Fed signals rate cut as inflation slows", want: domain.CategoryMarket},
		{title: "Nasdaq closes at record high", want: domain.CategoryMarket},
		{title: "코스피 2600선 회복", want: domain.CategoryMarket},
		{title: "Nvidia earnings crush expectations", want: domain.CategoryCorporate},
		{title: "삼성전자 4분기 실적 발표", want: domain.CategoryCorporate},
		{title: "New tariff on imported steel announced", want: domain.CategoryPolicy},
		{title: "정부, 부동산 규제 완화 검토", want: domain.CategoryPolicy},
		{title: "Local festival draws big crowds", want: domain.CategoryOther},
		{title: "", want: domain.CategoryOther},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			t.Parallel()
			if got := classifier.Classify(tt.title); got != tt.want {
				t.Fatalf("Classify(%q) = %s, want %s", tt.title, got, tt.want)
			}
		})
	}
}

func TestClassifyFirstMatchWins(t *testing.T) {
	t.Parallel()

	// Mentions both the Fed and Nvidia; market rules come first.
	got := NewClassifier().Classify("Nvidia rallies after Fed rate decision")
	if got != domain.CategoryMarket {
		t.Fatalf("expected market priority, got %s", got)
	}
}

func TestClassifyIsDeterministic(t *testing.T) {
	t.Parallel()

	classifier := NewClassifier()
	title := "Samsung wins chip subsidy under new government policy"

	first := classifier.Classify(title)
	for i := 0; i < 10; i++ {
		if got := classifier.Classify(title); got != first {
			t.Fatalf("classification changed between runs: %s then %s", first, got)
		}
	}
}

func TestCategorizeCoversEveryArticle(t *testing.T) {
	t.Parallel()

	articles := []domain.Article{
		{NewsID: "1", Title: "Fed holds rates steady"},
		{NewsID: "2", Title: "Apple unveils new product line"},
		{NewsID: "3", Title: "Parliament passes budget bill"},
		{NewsID: "4", Title: "Weather turns cold this weekend"},
	}

	pool := NewClassifier().Categorize(articles)

	total := 0
	for cat, members := range pool {
		for _, a := range members {
			if a.Category != cat {
				t.Fatalf("article %s carries category %s but sits in pool %s", a.NewsID, a.Category, cat)
			}
		}
		total += len(members)
	}
	if total != len(articles) {
		t.Fatalf("pool holds %d articles, want %d", total, len(articles))
	}
}
