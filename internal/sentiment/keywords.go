package sentiment

import (
	"strings"

	"github.com/rmehta/equinews/internal/extract"
	"github.com/rmehta/equinews/internal/model"
)

// Weighted keyword lexicons for financial news. Weights reflect how
// strongly a term signals direction on its own: "bankruptcy" decides a
// headline, "gain" merely leans it.
var bullishWords = map[string]float64{
	"surge": 1.0, "soar": 1.0, "record": 0.9, "beat": 0.9, "beats": 0.9,
	"rally": 0.9, "upgrade": 0.9, "upgraded": 0.9, "breakthrough": 0.9,
	"profit": 0.8, "profits": 0.8, "growth": 0.8, "strong": 0.7,
	"raised": 0.7, "raises": 0.7, "buyback": 0.7, "outperform": 0.8,
	"gain": 0.6, "gains": 0.6, "rose": 0.6, "rise": 0.6, "jump": 0.7,
	"jumped": 0.7, "expansion": 0.6, "robust": 0.6, "optimistic": 0.6,
	"momentum": 0.5, "improved": 0.5, "improving": 0.5, "exceeded": 0.8,
	"success": 0.6, "successful": 0.6, "milestone": 0.6, "innovative": 0.5,
}

var bearishWords = map[string]float64{
	"bankruptcy": 1.0, "fraud": 1.0, "crash": 1.0, "plunge": 1.0,
	"plunged": 1.0, "scandal": 0.9, "lawsuit": 0.8, "probe": 0.8,
	"investigation": 0.8, "recall": 0.8, "downgrade": 0.9, "downgraded": 0.9,
	"loss": 0.8, "losses": 0.8, "decline": 0.7, "declined": 0.7,
	"miss": 0.7, "missed": 0.7, "misses": 0.7, "weak": 0.7,
	"fell": 0.6, "fall": 0.6, "drop": 0.6, "dropped": 0.6,
	"layoffs": 0.8, "cuts": 0.6, "penalty": 0.7, "penalties": 0.7,
	"fine": 0.6, "fined": 0.7, "warning": 0.6, "scrutiny": 0.6,
	"concern": 0.5, "concerns": 0.5, "pressure": 0.5, "slump": 0.8,
	"disappointing": 0.7, "struggled": 0.6, "struggling": 0.6,
}

// Signal is the outcome of scoring one text against the lexicons.
type Signal struct {
	Label        model.SentimentLabel // empty when undecided
	Matches      int                  // matched term count on the winning side
	WeightShare  float64              // winning side's share of total matched weight
	BullishScore float64
	BearishScore float64
}

// Strong reports whether the signal is decisive enough to stand on its
// own: at least two matched terms, carrying at least seventy percent of
// the matched weight.
func (s Signal) Strong() bool {
	return s.Label != "" && s.Matches >= 2 && s.WeightShare >= 0.70
}

// Score tallies both lexicons over the text's tokens.
func Score(text string) Signal {
	var sig Signal
	bullishMatches, bearishMatches := 0, 0

	for _, token := range extract.Tokenize(strings.ToLower(text)) {
		if w, ok := bullishWords[token]; ok {
			sig.BullishScore += w
			bullishMatches++
		}
		if w, ok := bearishWords[token]; ok {
			sig.BearishScore += w
			bearishMatches++
		}
	}

	total := sig.BullishScore + sig.BearishScore
	if total == 0 {
		return sig
	}

	if sig.BullishScore > sig.BearishScore {
		sig.Label = model.SentimentPositive
		sig.Matches = bullishMatches
		sig.WeightShare = sig.BullishScore / total
	} else if sig.BearishScore > sig.BullishScore {
		sig.Label = model.SentimentNegative
		sig.Matches = bearishMatches
		sig.WeightShare = sig.BearishScore / total
	}

	return sig
}
