// Package pipeline orchestrates one company analysis end to end: fetch
// articles, summarize, classify sentiment, build the comparative report,
// and render the spoken narrative. Stages run strictly in order; each
// absorbs its collaborator failures through a documented fallback, so a
// run fails only on invalid input or an internal defect.
package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/rmehta/equinews/internal/compare"
	"github.com/rmehta/equinews/internal/model"
	"github.com/rmehta/equinews/internal/sentiment"
	"github.com/rmehta/equinews/internal/source"
	"github.com/rmehta/equinews/internal/speech"
	"github.com/rmehta/equinews/internal/summarize"
)

// Stage names used in logs and stage errors.
const (
	StageFetching    = "fetching"
	StageSummarizing = "summarizing"
	StageClassifying = "classifying"
	StageComparing   = "comparing"
	StageRendering   = "rendering"
)

// Pipeline runs the analysis stages for one company at a time. It is
// safe for concurrent use; all per-run state lives on the stack.
type Pipeline struct {
	source     *source.Source
	summarizer *summarize.Summarizer
	classifier *sentiment.Classifier
	renderer   *speech.Renderer
	log        *logrus.Entry
}

// New wires the pipeline from its stage implementations.
func New(src *source.Source, sum *summarize.Summarizer, cls *sentiment.Classifier, ren *speech.Renderer, log *logrus.Logger) *Pipeline {
	return &Pipeline{
		source:     src,
		summarizer: sum,
		classifier: cls,
		renderer:   ren,
		log:        log.WithField("component", "pipeline"),
	}
}

// Analyze runs the full pipeline for the company and returns the
// aggregate result. The Degraded flag is computed here and only here,
// folding in synthetic articles, per-article model fallbacks, and
// speech fallbacks.
func (p *Pipeline) Analyze(ctx context.Context, company string) (*model.AnalysisResult, error) {
	company = strings.TrimSpace(company)
	if company == "" {
		return nil, fmt.Errorf("analyze: %w", model.ErrInvalidInput)
	}

	start := time.Now()
	log := p.log.WithField("company", company)
	degraded := false

	log.WithField("stage", StageFetching).Info("analysis started")
	articles, synthetic, err := p.source.Fetch(ctx, company)
	if err != nil {
		return nil, model.NewStageError(StageFetching, model.CodeOf(err), err)
	}
	degraded = degraded || synthetic

	log.WithFields(logrus.Fields{"stage": StageSummarizing, "articles": len(articles)}).Info("summarizing articles")
	for i := range articles {
		fellBack, err := p.summarizer.Summarize(ctx, &articles[i])
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, model.NewStageError(StageSummarizing, model.CodeInternalError, err)
		}
		degraded = degraded || fellBack
	}

	log.WithField("stage", StageClassifying).Info("classifying sentiment")
	for i := range articles {
		fellBack, err := p.classifier.Classify(ctx, &articles[i])
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, model.NewStageError(StageClassifying, model.CodeInternalError, err)
		}
		degraded = degraded || fellBack
	}

	log.WithField("stage", StageComparing).Info("building comparative report")
	report := compare.Build(company, articles)

	log.WithField("stage", StageRendering).Info("rendering narrative audio")
	audio, err := p.renderer.Render(ctx, report.NarrativeText)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, model.NewStageError(StageRendering, model.CodeInternalError, err)
	}
	degraded = degraded || audio.IsFallback

	log.WithFields(logrus.Fields{
		"signal":   report.OverallSignal,
		"degraded": degraded,
		"elapsed":  time.Since(start).Round(time.Millisecond),
	}).Info("analysis complete")

	return &model.AnalysisResult{
		Report:      report,
		Audio:       audio,
		Degraded:    degraded,
		GeneratedAt: time.Now().UTC(),
	}, nil
}

// Speak renders standalone text to audio without running an analysis.
// It backs the direct text-to-speech endpoint. An empty lang uses the
// configured default.
func (p *Pipeline) Speak(ctx context.Context, text, lang string) (*model.AudioResult, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("speak: %w", model.ErrInvalidInput)
	}

	audio, err := p.renderer.RenderIn(ctx, text, lang)
	if err != nil {
		return nil, model.NewStageError(StageRendering, model.CodeInternalError, err)
	}
	return &audio, nil
}
