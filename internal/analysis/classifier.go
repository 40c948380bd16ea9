package analysis

import (
	"strings"

	"NewsDigest/internal/domain"
)

// categoryRule pairs a category with the keywords that put a title in it.
// Rules are evaluated top to bottom; the first hit wins, so broader
// market-wide signals outrank company or policy mentions.
type categoryRule struct {
	category domain.Category
	keywords []string
}

var categoryRules = []categoryRule{
	{
		category: domain.CategoryMarket,
		keywords: []string{
			"fed", "fomc", "금리", "rate cut", "rate hike", "interest rate",
			"환율", "exchange rate", "inflation", "물가", "cpi", "gdp",
			"nasdaq", "나스닥", "s&p", "dow", "다우", "kospi", "코스피",
			"kosdaq", "코스닥", "뉴욕증시", "미국 증시", "증시", "국채",
			"treasury", "유가", "oil price", "recession", "경기침체",
		},
	},
	{
		category: domain.CategoryCorporate,
		keywords: []string{
			"실적", "earnings", "매출", "revenue", "영업이익", "인수", "합병",
			"merger", "acquisition", "ipo", "상장", "배당", "dividend",
			"삼성", "samsung", "sk하이닉스", "sk hynix", "애플", "apple",
			"엔비디아", "nvidia", "테슬라", "tesla", "아마존", "amazon",
			"반도체", "semiconductor", "chip", "배터리", "battery",
			"자동차", "조선", "바이오", "공장", "수주",
		},
	},
	{
		category: domain.CategoryPolicy,
		keywords: []string{
			"정부", "government", "규제", "regulation", "법안", "bill",
			"정책", "policy", "국회", "대통령", "tariff", "관세", "제재",
			"sanction", "세금", "tax", "감세", "보조금", "subsidy",
			"백악관", "white house", "금융위", "금감원", "sec",
		},
	},
}

// Classifier assigns each headline to one topical category.
type Classifier struct{}

// NewClassifier builds the keyword classifier.
func NewClassifier() *Classifier {
	return &Classifier{}
}

// Classify lower-cases the title and returns the first category whose keyword
// set matches. No scoring, no ambiguity resolution beyond rule order; titles
// matching nothing fall through to CategoryOther. Deterministic so re-runs
// are reproducible.
func (c *Classifier) Classify(title string) domain.Category {
	lowered := strings.ToLower(title)
	for _, rule := range categoryRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lowered, kw) {
				return rule.category
			}
		}
	}
	return domain.CategoryOther
}

// Categorize maps every article to its category pool.
func (c *Classifier) Categorize(articles []domain.Article) map[domain.Category][]domain.Article {
	pool := make(map[domain.Category][]domain.Article)
	for _, article := range articles {
		article.Category = c.Classify(article.Title)
		pool[article.Category] = append(pool[article.Category], article)
	}
	return pool
}
