// Package speech turns a report narrative into a spoken clip: translate
// the text into the configured language, synthesize it to MP3, and
// persist the clip for serving. Both external calls degrade rather than
// fail: an untranslatable narrative is spoken in its source language,
// and a failed synthesis substitutes a pre-rendered notice clip.
package speech

import (
	"context"
	_ "embed"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/rmehta/equinews/internal/fallback"
	"github.com/rmehta/equinews/internal/model"
)

//go:embed fallback.mp3
var fallbackClip []byte

// Renderer produces the audio result for a narrative.
type Renderer struct {
	translator Translator
	synth      Synthesizer
	store      *Store
	cfg        model.SpeechConfig
	log        *logrus.Entry
}

// NewRenderer wires a renderer from its collaborators. Translator and
// synthesizer may be nil, which forces the respective fallback path.
func NewRenderer(translator Translator, synth Synthesizer, store *Store, cfg model.SpeechConfig, log *logrus.Logger) *Renderer {
	return &Renderer{
		translator: translator,
		synth:      synth,
		store:      store,
		cfg:        cfg,
		log:        log.WithField("component", "speech"),
	}
}

// Render translates and synthesizes the narrative in the configured
// language, returning the stored clip's URL. IsFallback is set when
// either step degraded.
func (r *Renderer) Render(ctx context.Context, narrative string) (model.AudioResult, error) {
	return r.RenderIn(ctx, narrative, r.cfg.Language)
}

// RenderIn is Render with a per-request target language.
func (r *Renderer) RenderIn(ctx context.Context, narrative, targetLang string) (model.AudioResult, error) {
	narrative = strings.TrimSpace(narrative)
	if narrative == "" {
		return model.AudioResult{}, fmt.Errorf("render: empty narrative")
	}
	if targetLang == "" {
		targetLang = r.cfg.Language
	}

	text, lang, translated := r.translate(ctx, narrative, targetLang)

	audio, synthesized := r.synthesize(ctx, text, lang)

	audioURL, err := r.store.Save(audio)
	if err != nil {
		return model.AudioResult{}, fmt.Errorf("render: %w", err)
	}

	return model.AudioResult{
		AudioURL:     audioURL,
		LanguageCode: lang,
		SourceText:   text,
		IsFallback:   !translated || !synthesized,
	}, nil
}

// translate returns the narrative in the target language, or the
// original text when translation is unavailable.
func (r *Renderer) translate(ctx context.Context, narrative, targetLang string) (text, lang string, ok bool) {
	var primary fallback.Func[string]
	if r.translator != nil {
		primary = func(ctx context.Context) (string, error) {
			return r.translator.Translate(ctx, narrative, targetLang)
		}
	}

	outcome, err := fallback.Run(ctx, r.cfg.Timeout, primary, func(_ context.Context) (string, error) {
		return narrative, nil
	})
	if err != nil {
		return narrative, "en", false
	}
	if outcome.Degraded {
		r.log.Warn("translation unavailable, speaking source narrative")
		return narrative, "en", false
	}
	return outcome.Value, targetLang, true
}

// synthesize returns MP3 bytes for the text, or the embedded notice
// clip when synthesis is unavailable.
func (r *Renderer) synthesize(ctx context.Context, text, lang string) (data []byte, ok bool) {
	var primary fallback.Func[[]byte]
	if r.synth != nil {
		primary = func(ctx context.Context) ([]byte, error) {
			return r.synth.Synthesize(ctx, text, lang)
		}
	}

	outcome, err := fallback.Run(ctx, r.cfg.Timeout, primary, func(_ context.Context) ([]byte, error) {
		return fallbackClip, nil
	})
	if err != nil || outcome.Degraded {
		r.log.Warn("synthesis unavailable, substituting notice clip")
		return fallbackClip, false
	}
	return outcome.Value, true
}
