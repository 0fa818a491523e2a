package model

import "time"

// TopicPair records the topic overlap between one unordered pair of
// articles. Pairs with an empty intersection are still recorded: the
// absence of overlap is itself signal. ArticleA < ArticleB always holds
// and all slices are sorted, so pair output is deterministic.
type TopicPair struct {
	ArticleA      int      `json:"article_a"`
	ArticleB      int      `json:"article_b"`
	SharedTopics  []string `json:"shared_topics"`
	UniqueTopicsA []string `json:"unique_topics_a"`
	UniqueTopicsB []string `json:"unique_topics_b"`
}

// ComparativeReport is the cross-article aggregation for one company.
// Built once by the comparative analyzer, read-only afterward.
type ComparativeReport struct {
	CompanyName           string                 `json:"company_name"`
	Articles              []Article              `json:"articles"`
	SentimentDistribution map[SentimentLabel]int `json:"sentiment_distribution"`
	TopicOverlap          []TopicPair            `json:"topic_overlap"`
	OverallSignal         SentimentLabel         `json:"overall_signal"`
	NarrativeText         string                 `json:"narrative_text"`
}

// AudioResult is the spoken rendering of a report's narrative.
// IsFallback marks degraded output: either the narrative could not be
// translated to the target language, or synthesis itself failed and a
// pre-rendered notice clip was substituted.
type AudioResult struct {
	AudioURL     string `json:"audio_url"`
	LanguageCode string `json:"language_code"`
	SourceText   string `json:"source_text"`
	IsFallback   bool   `json:"is_fallback"`
}

// AnalysisResult is the top-level response for one analyze request.
// Degraded is true if any pipeline stage substituted fallback or
// synthetic data, so callers can tell genuine results from
// demonstration ones.
type AnalysisResult struct {
	Report      ComparativeReport `json:"report"`
	Audio       AudioResult       `json:"audio"`
	Degraded    bool              `json:"degraded"`
	GeneratedAt time.Time         `json:"generated_at"`
}
