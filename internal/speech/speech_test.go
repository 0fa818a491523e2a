package speech

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/sirupsen/logrus"

	"github.com/rmehta/equinews/internal/model"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

func testStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(t.TempDir(), time.Hour, testLogger())
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	return store
}

type stubTranslator struct {
	out string
	err error
}

func (s *stubTranslator) Translate(_ context.Context, _, _ string) (string, error) {
	return s.out, s.err
}

type stubSynthesizer struct {
	out []byte
	err error
}

func (s *stubSynthesizer) Synthesize(_ context.Context, _, _ string) ([]byte, error) {
	return s.out, s.err
}

func speechConfig() model.SpeechConfig {
	return model.SpeechConfig{Language: "hi", Timeout: time.Second}
}

func TestRenderHappyPath(t *testing.T) {
	r := NewRenderer(
		&stubTranslator{out: "कंपनी की खबरें सकारात्मक हैं।"},
		&stubSynthesizer{out: []byte("mp3-bytes")},
		testStore(t), speechConfig(), testLogger(),
	)

	audio, err := r.Render(context.Background(), "Coverage of Acme is favorable.")
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if audio.IsFallback {
		t.Error("IsFallback = true on the happy path")
	}
	if audio.LanguageCode != "hi" {
		t.Errorf("LanguageCode = %q, want hi", audio.LanguageCode)
	}
	if audio.SourceText != "कंपनी की खबरें सकारात्मक हैं।" {
		t.Errorf("SourceText = %q, want the translated narrative", audio.SourceText)
	}
	if !strings.HasPrefix(audio.AudioURL, "/static/audio/") || !strings.HasSuffix(audio.AudioURL, ".mp3") {
		t.Errorf("AudioURL = %q, want a /static/audio/*.mp3 path", audio.AudioURL)
	}
}

func TestRenderTranslationFailureSpeaksSource(t *testing.T) {
	r := NewRenderer(
		&stubTranslator{err: fmt.Errorf("endpoint blocked")},
		&stubSynthesizer{out: []byte("mp3-bytes")},
		testStore(t), speechConfig(), testLogger(),
	)

	audio, err := r.Render(context.Background(), "Coverage of Acme is favorable.")
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if !audio.IsFallback {
		t.Error("IsFallback = false after a translation failure")
	}
	if audio.LanguageCode != "en" {
		t.Errorf("LanguageCode = %q, want en for untranslated narrative", audio.LanguageCode)
	}
	if audio.SourceText != "Coverage of Acme is favorable." {
		t.Errorf("SourceText = %q, want the original narrative", audio.SourceText)
	}
}

func TestRenderSynthesisFailureUsesNoticeClip(t *testing.T) {
	store := testStore(t)
	r := NewRenderer(
		&stubTranslator{out: "अनुवादित"},
		&stubSynthesizer{err: fmt.Errorf("quota exhausted")},
		store, speechConfig(), testLogger(),
	)

	audio, err := r.Render(context.Background(), "Coverage of Acme is favorable.")
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if !audio.IsFallback {
		t.Error("IsFallback = false after a synthesis failure")
	}

	path, err := store.Open(audio.AudioURL)
	if err != nil {
		t.Fatalf("Open(%q) error = %v", audio.AudioURL, err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read clip: %v", err)
	}
	if len(data) != len(fallbackClip) {
		t.Errorf("stored clip is %d bytes, want the %d-byte notice clip", len(data), len(fallbackClip))
	}
}

func TestRenderEmptyNarrativeFails(t *testing.T) {
	r := NewRenderer(nil, nil, testStore(t), speechConfig(), testLogger())

	if _, err := r.Render(context.Background(), "  "); err == nil {
		t.Error("Render() succeeded on an empty narrative")
	}
}

func TestStoreSaveIsIdempotent(t *testing.T) {
	store := testStore(t)

	first, err := store.Save([]byte("clip"))
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	second, err := store.Save([]byte("clip"))
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if first != second {
		t.Errorf("Save() URLs differ for identical content: %q vs %q", first, second)
	}
}

func TestStoreOpenRejectsTraversal(t *testing.T) {
	store := testStore(t)

	for _, bad := range []string{
		"/static/audio/../secrets.mp3",
		"/etc/passwd",
		"/static/audio/clip.txt",
	} {
		if _, err := store.Open(bad); err == nil {
			t.Errorf("Open(%q) succeeded, want error", bad)
		}
	}
}

func TestStorePruneRemovesExpiredClips(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir, time.Minute, testLogger())
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}

	url, err := store.Save([]byte("old clip"))
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	path := filepath.Join(dir, strings.TrimPrefix(url, "/static/audio/"))
	old := time.Now().Add(-time.Hour)
	if err := os.Chtimes(path, old, old); err != nil {
		t.Fatalf("chtimes: %v", err)
	}

	if removed := store.Prune(); removed != 1 {
		t.Errorf("Prune() = %d, want 1", removed)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("expired clip still on disk after Prune()")
	}
}

func TestChunkText(t *testing.T) {
	t.Run("short text is one chunk", func(t *testing.T) {
		chunks := chunkText("A short narrative.", 200)
		if len(chunks) != 1 || chunks[0] != "A short narrative." {
			t.Errorf("chunkText() = %v, want the text unchanged", chunks)
		}
	})

	t.Run("chunks respect the rune limit", func(t *testing.T) {
		text := strings.Repeat("कंपनी की तिमाही आय उम्मीद से बेहतर रही। ", 20)
		for i, chunk := range chunkText(text, 200) {
			if n := utf8.RuneCountInString(chunk); n > 200 {
				t.Errorf("chunk %d has %d runes, want at most 200", i, n)
			}
		}
	})

	t.Run("no content is lost", func(t *testing.T) {
		text := strings.Repeat("The quarterly report exceeded every projection set by analysts. ", 15)
		joined := strings.Join(chunkText(text, 200), " ")
		if strings.Join(strings.Fields(joined), " ") != strings.Join(strings.Fields(text), " ") {
			t.Error("chunking dropped or reordered words")
		}
	})

	t.Run("overlong word is hard split", func(t *testing.T) {
		chunks := chunkText(strings.Repeat("x", 450), 200)
		total := 0
		for _, c := range chunks {
			if utf8.RuneCountInString(c) > 200 {
				t.Errorf("chunk exceeds limit: %d runes", utf8.RuneCountInString(c))
			}
			total += utf8.RuneCountInString(c)
		}
		if total != 450 {
			t.Errorf("hard split kept %d runes, want 450", total)
		}
	})
}

func TestGoogleTranslatorParsesResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("tl"); got != "hi" {
			t.Errorf("tl = %q, want hi", got)
		}
		fmt.Fprint(w, `[[["नमस्ते ","Hello ",null,null,10],["दुनिया","world",null,null,10]],null,"en"]`)
	}))
	defer server.Close()

	tr := NewGoogleTranslator(time.Second, "test-agent", "", "")
	tr.baseURL = server.URL

	got, err := tr.Translate(context.Background(), "Hello world", "hi")
	if err != nil {
		t.Fatalf("Translate() error = %v", err)
	}
	if got != "नमस्ते दुनिया" {
		t.Errorf("Translate() = %q, want %q", got, "नमस्ते दुनिया")
	}
}

func TestGoogleTranslatorErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "slow down", http.StatusTooManyRequests)
	}))
	defer server.Close()

	tr := NewGoogleTranslator(time.Second, "test-agent", "", "")
	tr.baseURL = server.URL

	if _, err := tr.Translate(context.Background(), "Hello", "hi"); err == nil {
		t.Error("Translate() succeeded on a 429 response")
	}
}

func TestGoogleSynthesizerConcatenatesInOrder(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Echo the first word of each chunk so order is observable.
		q := r.URL.Query().Get("q")
		fmt.Fprintf(w, "[%s]", strings.Fields(q)[0])
	}))
	defer server.Close()

	s := NewGoogleSynthesizer(time.Second, "test-agent", "", "")
	s.baseURL = server.URL

	// Two sentences, each over half the chunk limit, so they land in
	// separate ordered chunks.
	text := "Alpha " + strings.Repeat("filler ", 20) + "ends here. Bravo " + strings.Repeat("filler ", 20) + "ends too."
	data, err := s.Synthesize(context.Background(), text, "hi")
	if err != nil {
		t.Fatalf("Synthesize() error = %v", err)
	}

	out := string(data)
	alpha, bravo := strings.Index(out, "[Alpha]"), strings.Index(out, "[Bravo]")
	if alpha == -1 || bravo == -1 || alpha > bravo {
		t.Errorf("Synthesize() output %q is not in chunk order", out)
	}
}
