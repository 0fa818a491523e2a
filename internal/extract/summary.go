package extract

import (
	"sort"
	"strings"
)

// Summarize produces an extractive summary: sentences are scored by the
// frequency of their non-stopword terms across the whole text, and the
// top maxSentences are returned in their original order. Text already
// within the bounds is returned verbatim, never padded.
func Summarize(text string, maxSentences, maxChars int) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}

	sentences := SplitSentences(text)
	if len(sentences) <= maxSentences && (maxChars <= 0 || len(text) <= maxChars) {
		return text
	}

	freq := termFrequencies(text)

	type scored struct {
		index int
		score float64
	}

	ranked := make([]scored, 0, len(sentences))
	for i, sentence := range sentences {
		tokens := Tokenize(sentence)
		if len(tokens) == 0 {
			continue
		}
		total := 0.0
		for _, tok := range tokens {
			if IsStopWord(tok) {
				continue
			}
			total += float64(freq[tok])
		}
		// Normalize by length so long sentences don't win by bulk.
		ranked = append(ranked, scored{index: i, score: total / float64(len(tokens))})
	}

	sort.SliceStable(ranked, func(a, b int) bool {
		return ranked[a].score > ranked[b].score
	})

	if maxSentences > len(ranked) {
		maxSentences = len(ranked)
	}
	picked := ranked[:maxSentences]
	sort.Slice(picked, func(a, b int) bool {
		return picked[a].index < picked[b].index
	})

	var out []string
	for _, s := range picked {
		out = append(out, sentences[s.index])
	}

	return Clip(strings.Join(out, " "), maxChars)
}

// Clip bounds text to maxChars, cutting at the last sentence boundary
// that fits, or the last word boundary when no sentence fits.
func Clip(text string, maxChars int) string {
	if maxChars <= 0 || len(text) <= maxChars {
		return text
	}

	clipped := text[:maxChars]
	if idx := strings.LastIndexAny(clipped, ".!?"); idx > 0 {
		return strings.TrimSpace(clipped[:idx+1])
	}
	if idx := strings.LastIndex(clipped, " "); idx > 0 {
		return strings.TrimSpace(clipped[:idx])
	}
	return clipped
}

func termFrequencies(text string) map[string]int {
	freq := make(map[string]int)
	for _, tok := range Tokenize(text) {
		if IsStopWord(tok) || len(tok) <= 2 {
			continue
		}
		freq[tok]++
	}
	return freq
}
