package speech

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"github.com/rmehta/equinews/internal/util"
)

const ttsEndpoint = "https://translate.google.com/translate_tts"

// maxChunkRunes is the per-request text limit of the synthesis endpoint.
// Longer narratives are split at sentence boundaries and the resulting
// MP3 segments concatenated in order.
const maxChunkRunes = 200

// Synthesizer renders text to MP3 audio.
type Synthesizer interface {
	Synthesize(ctx context.Context, text, lang string) ([]byte, error)
}

// GoogleSynthesizer uses the unauthenticated web TTS endpoint.
type GoogleSynthesizer struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
}

// NewGoogleSynthesizer creates a synthesizer with the given HTTP settings.
func NewGoogleSynthesizer(timeout time.Duration, userAgent, httpProxy, httpsProxy string) *GoogleSynthesizer {
	return &GoogleSynthesizer{
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				Proxy: util.NewProxyFunc(httpProxy, httpsProxy),
			},
		},
		baseURL:   ttsEndpoint,
		userAgent: userAgent,
	}
}

// Synthesize renders text in lang to one MP3 stream. Chunks are fetched
// concurrently but concatenated in text order, so the spoken narrative
// stays coherent.
func (s *GoogleSynthesizer) Synthesize(ctx context.Context, text, lang string) ([]byte, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("empty text")
	}

	chunks := chunkText(text, maxChunkRunes)
	segments := make([][]byte, len(chunks))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, chunk := range chunks {
		i, chunk := i, chunk
		g.Go(func() error {
			data, err := s.fetchChunk(gctx, chunk, lang)
			if err != nil {
				return fmt.Errorf("chunk %d: %w", i, err)
			}
			segments[i] = data
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return bytes.Join(segments, nil), nil
}

func (s *GoogleSynthesizer) fetchChunk(ctx context.Context, chunk, lang string) ([]byte, error) {
	params := url.Values{}
	params.Set("ie", "UTF-8")
	params.Set("client", "tw-ob")
	params.Set("tl", lang)
	params.Set("q", chunk)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tts request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tts request: status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("read audio: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("empty audio")
	}
	return data, nil
}

// chunkText splits text into pieces of at most maxRunes runes,
// preferring sentence boundaries, then word boundaries. A single
// overlong word is hard-split rather than dropped.
func chunkText(text string, maxRunes int) []string {
	if utf8.RuneCountInString(text) <= maxRunes {
		return []string{text}
	}

	var chunks []string
	var current strings.Builder
	currentRunes := 0

	flush := func() {
		if chunk := strings.TrimSpace(current.String()); chunk != "" {
			chunks = append(chunks, chunk)
		}
		current.Reset()
		currentRunes = 0
	}

	for _, word := range strings.Fields(text) {
		wordRunes := utf8.RuneCountInString(word)

		if wordRunes > maxRunes {
			flush()
			runes := []rune(word)
			for len(runes) > maxRunes {
				chunks = append(chunks, string(runes[:maxRunes]))
				runes = runes[maxRunes:]
			}
			current.WriteString(string(runes))
			currentRunes = len(runes)
			continue
		}

		sep := 0
		if currentRunes > 0 {
			sep = 1
		}
		if currentRunes+sep+wordRunes > maxRunes {
			flush()
			sep = 0
		}
		if sep == 1 {
			current.WriteByte(' ')
		}
		current.WriteString(word)
		currentRunes += sep + wordRunes

		// Prefer breaking after sentence-ending punctuation once the
		// chunk is reasonably full.
		if currentRunes >= maxRunes/2 && endsSentence(word) {
			flush()
		}
	}
	flush()

	return chunks
}

func endsSentence(word string) bool {
	return strings.HasSuffix(word, ".") || strings.HasSuffix(word, "!") ||
		strings.HasSuffix(word, "?") || strings.HasSuffix(word, "।")
}
