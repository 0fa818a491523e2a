package speech

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rmehta/equinews/internal/util"
)

const translateEndpoint = "https://translate.googleapis.com/translate_a/single"

// Translator converts text into a target language.
type Translator interface {
	Translate(ctx context.Context, text, targetLang string) (string, error)
}

// GoogleTranslator uses the unauthenticated web translation endpoint.
// It is best-effort by design: any failure makes the renderer fall back
// to the untranslated narrative.
type GoogleTranslator struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
}

// NewGoogleTranslator creates a translator with the given HTTP settings.
func NewGoogleTranslator(timeout time.Duration, userAgent, httpProxy, httpsProxy string) *GoogleTranslator {
	return &GoogleTranslator{
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				Proxy: util.NewProxyFunc(httpProxy, httpsProxy),
			},
		},
		baseURL:   translateEndpoint,
		userAgent: userAgent,
	}
}

// Translate translates text into targetLang, auto-detecting the source
// language.
func (t *GoogleTranslator) Translate(ctx context.Context, text, targetLang string) (string, error) {
	params := url.Values{}
	params.Set("client", "gtx")
	params.Set("sl", "auto")
	params.Set("tl", targetLang)
	params.Set("dt", "t")
	params.Set("q", text)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", t.userAgent)

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("translate request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("translate request: status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	translated, err := parseTranslation(body)
	if err != nil {
		return "", err
	}
	if translated == "" {
		return "", fmt.Errorf("empty translation")
	}
	return translated, nil
}

// parseTranslation extracts the translated segments from the endpoint's
// nested-array response: [[["segment", "source", ...], ...], ...].
func parseTranslation(body []byte) (string, error) {
	var outer []json.RawMessage
	if err := json.Unmarshal(body, &outer); err != nil {
		return "", fmt.Errorf("parse response: %w", err)
	}
	if len(outer) == 0 {
		return "", fmt.Errorf("parse response: empty payload")
	}

	var segments [][]json.RawMessage
	if err := json.Unmarshal(outer[0], &segments); err != nil {
		return "", fmt.Errorf("parse segments: %w", err)
	}

	var b strings.Builder
	for _, seg := range segments {
		if len(seg) == 0 {
			continue
		}
		var text string
		if err := json.Unmarshal(seg[0], &text); err != nil {
			continue
		}
		b.WriteString(text)
	}

	return strings.TrimSpace(b.String()), nil
}
