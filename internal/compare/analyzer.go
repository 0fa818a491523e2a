// Package compare builds the cross-article comparative report: sentiment
// distribution, pairwise topic overlap, the overall signal, and a
// narrative paragraph. The whole stage is pure computation over already
// classified articles, so the same input always yields a byte-identical
// report.
package compare

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rmehta/equinews/internal/model"
)

// Build aggregates classified articles into a comparative report.
func Build(company string, articles []model.Article) model.ComparativeReport {
	report := model.ComparativeReport{
		CompanyName:           company,
		Articles:              articles,
		SentimentDistribution: distribution(articles),
		TopicOverlap:          topicOverlap(articles),
	}
	report.OverallSignal = overallSignal(report.SentimentDistribution)
	report.NarrativeText = narrative(company, articles, report.SentimentDistribution, report.OverallSignal)
	return report
}

func distribution(articles []model.Article) map[model.SentimentLabel]int {
	dist := make(map[model.SentimentLabel]int, 3)
	for _, label := range model.Labels() {
		dist[label] = 0
	}
	for _, a := range articles {
		if a.Sentiment.Valid() {
			dist[a.Sentiment]++
		}
	}
	return dist
}

// topicOverlap records every unordered article pair, including those
// with no shared topics. Indexes refer to positions in the report's
// article slice.
func topicOverlap(articles []model.Article) []model.TopicPair {
	pairs := make([]model.TopicPair, 0, len(articles)*(len(articles)-1)/2)

	for i := 0; i < len(articles); i++ {
		setA := articles[i].TopicSet()
		for j := i + 1; j < len(articles); j++ {
			setB := articles[j].TopicSet()

			pair := model.TopicPair{
				ArticleA:      i,
				ArticleB:      j,
				SharedTopics:  sortedKeys(intersect(setA, setB)),
				UniqueTopicsA: sortedKeys(subtract(setA, setB)),
				UniqueTopicsB: sortedKeys(subtract(setB, setA)),
			}
			pairs = append(pairs, pair)
		}
	}

	return pairs
}

// overallSignal is the majority label; ties resolve Positive, then
// Negative, then Neutral, so a report never flips between runs on equal
// counts. An empty distribution carries no signal and stays Neutral.
func overallSignal(dist map[model.SentimentLabel]int) model.SentimentLabel {
	best := model.SentimentNeutral
	bestCount := 0
	for _, label := range model.Labels() {
		if dist[label] > bestCount {
			best = label
			bestCount = dist[label]
		}
	}
	return best
}

func narrative(company string, articles []model.Article, dist map[model.SentimentLabel]int, signal model.SentimentLabel) string {
	total := len(articles)
	if total == 0 {
		return fmt.Sprintf("No recent news coverage was found for %s.", company)
	}

	pos, neg, neu := dist[model.SentimentPositive], dist[model.SentimentNegative], dist[model.SentimentNeutral]

	if total == 1 {
		return fmt.Sprintf("A single recent article covers %s, with %s sentiment. Overall news signal: %s.",
			company, strings.ToLower(string(signal)), signal)
	}

	var tone string
	switch {
	case pos > 0 && neg == 0:
		tone = fmt.Sprintf("Coverage of %s is favorable: %d of %d articles read positive and none read negative", company, pos, total)
	case neg > 0 && pos == 0:
		tone = fmt.Sprintf("Coverage of %s is unfavorable: %d of %d articles read negative and none read positive", company, neg, total)
	case pos > neg:
		tone = fmt.Sprintf("Coverage of %s leans positive, with %d positive articles against %d negative", company, pos, neg)
	case neg > pos:
		tone = fmt.Sprintf("Coverage of %s leans negative, with %d negative articles against %d positive", company, neg, pos)
	default:
		tone = fmt.Sprintf("Coverage of %s is split, with %d positive and %d negative articles", company, pos, neg)
	}

	parts := []string{tone + "."}
	if neu > 0 {
		parts = append(parts, fmt.Sprintf("%d articles are neutral in tone.", neu))
	}
	if topics := commonTopics(articles, 3); len(topics) > 0 {
		parts = append(parts, fmt.Sprintf("Recurring themes include %s.", strings.Join(topics, ", ")))
	}
	parts = append(parts, fmt.Sprintf("Overall news signal: %s.", signal))

	return strings.Join(parts, " ")
}

// commonTopics returns up to max topics appearing in more than one
// article, most frequent first.
func commonTopics(articles []model.Article, max int) []string {
	counts := make(map[string]int)
	for _, a := range articles {
		for topic := range a.TopicSet() {
			counts[topic]++
		}
	}

	var topics []string
	for topic, n := range counts {
		if n > 1 {
			topics = append(topics, topic)
		}
	}

	sort.Slice(topics, func(i, j int) bool {
		if counts[topics[i]] != counts[topics[j]] {
			return counts[topics[i]] > counts[topics[j]]
		}
		return topics[i] < topics[j]
	})

	if len(topics) > max {
		topics = topics[:max]
	}
	return topics
}

func intersect(a, b map[string]bool) map[string]bool {
	out := make(map[string]bool)
	for k := range a {
		if b[k] {
			out[k] = true
		}
	}
	return out
}

func subtract(a, b map[string]bool) map[string]bool {
	out := make(map[string]bool)
	for k := range a {
		if !b[k] {
			out[k] = true
		}
	}
	return out
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
