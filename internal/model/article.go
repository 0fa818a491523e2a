package model

import (
	"strings"
	"time"
)

// SentimentLabel is the canonical three-way sentiment classification.
// Every classifier backend output is normalized to one of these values
// before it leaves internal/sentiment; callers never see raw scores,
// star ratings, or differently-cased labels.
type SentimentLabel string

const (
	SentimentPositive SentimentLabel = "Positive"
	SentimentNegative SentimentLabel = "Negative"
	SentimentNeutral  SentimentLabel = "Neutral"
)

// Labels returns all canonical labels in tie-break priority order.
func Labels() []SentimentLabel {
	return []SentimentLabel{SentimentPositive, SentimentNegative, SentimentNeutral}
}

// Valid reports whether l is one of the three canonical labels.
func (l SentimentLabel) Valid() bool {
	switch l {
	case SentimentPositive, SentimentNegative, SentimentNeutral:
		return true
	}
	return false
}

// Article is one fetched or synthesized news item about the target company.
// Fields are populated stage by stage: the article source fills the raw
// fields, the summarizer fills Summary and Topics, the classifier fills
// Sentiment and Confidence. Once the pipeline finishes the article is
// never mutated again.
type Article struct {
	ID          string         `json:"id"`
	Title       string         `json:"title"`
	URL         string         `json:"url"`
	SourceName  string         `json:"source_name"`
	PublishedAt time.Time      `json:"published_at"`
	RawText     string         `json:"raw_text,omitempty"`
	Summary     string         `json:"summary"`
	Topics      []string       `json:"topics"`
	Sentiment   SentimentLabel `json:"sentiment"`
	Confidence  float64        `json:"sentiment_confidence"`

	// Synthetic marks articles generated by the deterministic fallback
	// when real retrieval came up short. SummaryFallback and
	// SentimentFallback mark per-article model degradation. The
	// orchestrator folds all three into AnalysisResult.Degraded.
	Synthetic         bool `json:"synthetic,omitempty"`
	SummaryFallback   bool `json:"-"`
	SentimentFallback bool `json:"-"`
}

// TopicSet returns the article's topics as a lookup set.
func (a *Article) TopicSet() map[string]bool {
	set := make(map[string]bool, len(a.Topics))
	for _, t := range a.Topics {
		set[strings.ToLower(t)] = true
	}
	return set
}
