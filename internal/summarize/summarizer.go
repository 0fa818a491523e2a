// Package summarize condenses article text into a bounded summary and a
// topic list. The model path produces the summary when a provider is
// configured and responsive; the extractive scorer carries every request
// the model cannot.
package summarize

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/rmehta/equinews/internal/extract"
	"github.com/rmehta/equinews/internal/fallback"
	"github.com/rmehta/equinews/internal/llm"
	"github.com/rmehta/equinews/internal/model"
)

const systemPrompt = "You are a financial news summarizer. Summarize the article in at most %d sentences, " +
	"keeping concrete facts (figures, names, outcomes) and dropping boilerplate. Respond with the summary only."

// Summarizer fills in Article.Summary and Article.Topics.
type Summarizer struct {
	provider llm.Provider
	cfg      model.SummaryConfig
	log      *logrus.Entry
}

// New creates a summarizer. A nil provider is valid: every summary then
// comes from the extractive path.
func New(provider llm.Provider, cfg *model.Config, log *logrus.Logger) *Summarizer {
	return &Summarizer{
		provider: provider,
		cfg:      cfg.Summary,
		log:      log.WithField("component", "summarize"),
	}
}

// Summarize sets the article's summary and topics in place. The returned
// bool reports whether the extractive fallback produced the summary.
func (s *Summarizer) Summarize(ctx context.Context, article *model.Article) (bool, error) {
	text := strings.TrimSpace(article.RawText)
	if text == "" {
		return false, fmt.Errorf("summarize %s: empty raw text", article.ID)
	}

	// Topics are always extractive; the model only writes prose.
	article.Topics = extract.Topics(text, s.cfg.MaxTopics)

	// Text already inside the summary bounds is kept verbatim.
	if len(text) <= s.cfg.MaxChars && len(extract.SplitSentences(text)) <= s.cfg.MaxSentences {
		article.Summary = text
		return false, nil
	}

	var primary fallback.Func[string]
	if s.provider != nil {
		primary = func(ctx context.Context) (string, error) {
			return s.modelSummary(ctx, text)
		}
	}

	outcome, err := fallback.Run(ctx, 0, primary, func(ctx context.Context) (string, error) {
		return extract.Summarize(text, s.cfg.MaxSentences, s.cfg.MaxChars), nil
	})
	if err != nil {
		return false, fmt.Errorf("summarize %s: %w", article.ID, err)
	}

	if outcome.Degraded && s.provider != nil {
		s.log.WithField("article", article.ID).Debug("model summary failed, using extractive summary")
	}

	article.Summary = outcome.Value
	article.SummaryFallback = outcome.Degraded && s.provider != nil
	return article.SummaryFallback, nil
}

func (s *Summarizer) modelSummary(ctx context.Context, text string) (string, error) {
	resp, err := s.provider.Complete(ctx, llm.CompletionRequest{
		System: fmt.Sprintf(systemPrompt, s.cfg.MaxSentences),
		Prompt: text,
	})
	if err != nil {
		return "", err
	}

	summary := strings.TrimSpace(resp.Text)
	if summary == "" {
		return "", fmt.Errorf("model returned empty summary")
	}

	// The model occasionally ignores the sentence budget; enforce the
	// character bound at a sentence boundary.
	return extract.Clip(summary, s.cfg.MaxChars), nil
}
