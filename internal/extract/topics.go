package extract

import "sort"

// Topics extracts the most salient terms from text: the top max
// non-stopword unigrams and bigrams by frequency, ties broken
// lexicographically so output is deterministic. Bigrams count only when
// both words are content words, which keeps phrases like "supply chain"
// while dropping "of the".
func Topics(text string, max int) []string {
	if max <= 0 {
		return nil
	}

	tokens := Tokenize(text)

	counts := make(map[string]int)
	for i, tok := range tokens {
		if IsStopWord(tok) || len(tok) <= 3 {
			continue
		}
		counts[tok]++

		if i+1 < len(tokens) {
			next := tokens[i+1]
			if !IsStopWord(next) && len(next) > 3 {
				counts[tok+" "+next]++
			}
		}
	}

	// A bigram seen more than once subsumes its parts: "supply chain"
	// twice should not also surface "supply" and "chain".
	for phrase, n := range counts {
		if n < 2 {
			continue
		}
		if idx := indexSpace(phrase); idx > 0 {
			delete(counts, phrase[:idx])
			delete(counts, phrase[idx+1:])
		}
	}

	type entry struct {
		term  string
		count int
	}

	entries := make([]entry, 0, len(counts))
	for term, count := range counts {
		if count >= 2 {
			entries = append(entries, entry{term, count})
		}
	}

	sort.Slice(entries, func(a, b int) bool {
		if entries[a].count != entries[b].count {
			return entries[a].count > entries[b].count
		}
		return entries[a].term < entries[b].term
	})

	if len(entries) > max {
		entries = entries[:max]
	}

	topics := make([]string, 0, len(entries))
	for _, e := range entries {
		topics = append(topics, e.term)
	}
	return topics
}

func indexSpace(s string) int {
	for i := 0; i < len(s); i++ {
		if s[i] == ' ' {
			return i
		}
	}
	return -1
}
