// Package sentiment classifies article text as Positive, Negative, or
// Neutral. A model backend produces the base classification; a weighted
// keyword layer runs on top and overrides the model only when its own
// signal is strong. Without a model the keyword layer classifies alone.
package sentiment

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/rmehta/equinews/internal/fallback"
	"github.com/rmehta/equinews/internal/llm"
	"github.com/rmehta/equinews/internal/model"
)

const classifyPrompt = "Classify the sentiment of this financial news text toward the company it covers. " +
	"Respond with exactly one word: Positive, Negative, or Neutral.\n\n%s"

// classification is a label plus the classifier's confidence in it.
type classification struct {
	label      model.SentimentLabel
	confidence float64
}

// Classifier assigns a sentiment label and confidence to articles.
type Classifier struct {
	provider llm.Provider
	log      *logrus.Entry
}

// New creates a classifier. A nil provider is valid: the keyword layer
// then classifies every article alone.
func New(provider llm.Provider, log *logrus.Logger) *Classifier {
	return &Classifier{
		provider: provider,
		log:      log.WithField("component", "sentiment"),
	}
}

// Classify sets the article's sentiment and confidence in place. The
// returned bool reports whether the keyword fallback produced the base
// classification because the model was unavailable.
func (c *Classifier) Classify(ctx context.Context, article *model.Article) (bool, error) {
	text := article.RawText
	if text == "" {
		text = article.Summary
	}
	if strings.TrimSpace(text) == "" {
		return false, fmt.Errorf("classify %s: no text", article.ID)
	}

	signal := Score(article.Title + " " + text)

	var primary fallback.Func[classification]
	if c.provider != nil {
		primary = func(ctx context.Context) (classification, error) {
			return c.modelClassify(ctx, text)
		}
	}

	outcome, err := fallback.Run(ctx, 0, primary, func(_ context.Context) (classification, error) {
		return keywordClassify(signal), nil
	})
	if err != nil {
		return false, fmt.Errorf("classify %s: %w", article.ID, err)
	}

	result := outcome.Value

	// A strong keyword signal outranks a disagreeing model: lexicon hits
	// like "bankruptcy" or "record profit" are more reliable on financial
	// headlines than a generic model's reading.
	if signal.Strong() && signal.Label != result.label {
		c.log.WithFields(logrus.Fields{
			"article": article.ID,
			"model":   result.label,
			"keyword": signal.Label,
		}).Debug("keyword override applied")
		result = keywordClassify(signal)
	}

	article.Sentiment = result.label
	article.Confidence = result.confidence
	article.SentimentFallback = outcome.Degraded && c.provider != nil
	return article.SentimentFallback, nil
}

func (c *Classifier) modelClassify(ctx context.Context, text string) (classification, error) {
	resp, err := c.provider.Complete(ctx, llm.CompletionRequest{
		System:    "You are a precise financial sentiment classifier.",
		Prompt:    fmt.Sprintf(classifyPrompt, text),
		MaxTokens: 10,
	})
	if err != nil {
		return classification{}, err
	}

	label, ok := normalizeLabel(resp.Text)
	if !ok {
		return classification{}, fmt.Errorf("unparseable sentiment %q", resp.Text)
	}

	return classification{label: label, confidence: 0.85}, nil
}

// keywordClassify converts a lexicon signal into a classification. An
// undecided signal is Neutral at coin-flip-plus confidence.
func keywordClassify(sig Signal) classification {
	if sig.Label == "" {
		return classification{label: model.SentimentNeutral, confidence: 0.50}
	}

	confidence := 0.60 + 0.08*float64(sig.Matches)
	if confidence > 0.95 {
		confidence = 0.95
	}
	return classification{label: sig.Label, confidence: confidence}
}

var starPattern = regexp.MustCompile(`([1-5])\s*star`)

// normalizeLabel maps the many shapes model backends answer in (case
// variants, trailing punctuation, star ratings, bare scores) onto the
// canonical labels.
func normalizeLabel(raw string) (model.SentimentLabel, bool) {
	s := strings.ToLower(strings.TrimSpace(raw))
	s = strings.Trim(s, ".!\"'")

	switch {
	case strings.HasPrefix(s, "positive"), strings.HasPrefix(s, "bullish"):
		return model.SentimentPositive, true
	case strings.HasPrefix(s, "negative"), strings.HasPrefix(s, "bearish"):
		return model.SentimentNegative, true
	case strings.HasPrefix(s, "neutral"), strings.HasPrefix(s, "mixed"):
		return model.SentimentNeutral, true
	}

	if m := starPattern.FindStringSubmatch(s); m != nil {
		stars, _ := strconv.Atoi(m[1])
		switch {
		case stars >= 4:
			return model.SentimentPositive, true
		case stars <= 2:
			return model.SentimentNegative, true
		default:
			return model.SentimentNeutral, true
		}
	}

	if score, err := strconv.ParseFloat(s, 64); err == nil && score >= -1 && score <= 1 {
		switch {
		case score > 0.2:
			return model.SentimentPositive, true
		case score < -0.2:
			return model.SentimentNegative, true
		default:
			return model.SentimentNeutral, true
		}
	}

	return "", false
}
