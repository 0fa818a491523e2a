package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/rmehta/equinews/internal/model"
	"github.com/rmehta/equinews/internal/pipeline"
	"github.com/rmehta/equinews/internal/sentiment"
	"github.com/rmehta/equinews/internal/source"
	"github.com/rmehta/equinews/internal/speech"
	"github.com/rmehta/equinews/internal/summarize"
)

type stubTranslator struct{}

func (stubTranslator) Translate(_ context.Context, _, _ string) (string, error) {
	return "अनुवादित कथा", nil
}

type stubSynthesizer struct{}

func (stubSynthesizer) Synthesize(_ context.Context, _, _ string) ([]byte, error) {
	return []byte("mp3-bytes"), nil
}

// testServer wires the API over an offline pipeline: no model provider
// and every news source pointing at a closed port.
func testServer(t *testing.T) (*httptest.Server, *model.Config) {
	t.Helper()

	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)

	cfg := model.DefaultConfig()
	cfg.HTTP.Timeout = time.Second
	cfg.Concurrency.RequestsPerSec = 100
	cfg.Sources = []model.SourceConfig{
		{Name: "Dead Feed", Query: "http://127.0.0.1:1/rss?q=%s"},
	}

	store, err := speech.NewStore(t.TempDir(), time.Hour, log)
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}

	p := pipeline.New(
		source.New(cfg, nil, log),
		summarize.New(nil, cfg, log),
		sentiment.New(nil, log),
		speech.NewRenderer(stubTranslator{}, stubSynthesizer{}, store, cfg.Speech, log),
		log,
	)

	server := httptest.NewServer(New(cfg, p, store, log).Routes())
	t.Cleanup(server.Close)
	return server, cfg
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var v T
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return v
}

func TestHealth(t *testing.T) {
	server, _ := testServer(t)

	resp, err := http.Get(server.URL + "/health")
	if err != nil {
		t.Fatalf("GET /health: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	body := decode[map[string]string](t, resp)
	if body["status"] != "ok" {
		t.Errorf(`status = %q, want "ok"`, body["status"])
	}
}

func TestCompanies(t *testing.T) {
	server, cfg := testServer(t)

	resp, err := http.Get(server.URL + "/companies")
	if err != nil {
		t.Fatalf("GET /companies: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	body := decode[companiesResponse](t, resp)
	if len(body.Companies) != len(cfg.Companies) {
		t.Errorf("got %d companies, want %d", len(body.Companies), len(cfg.Companies))
	}
}

func TestAnalyzeEndToEnd(t *testing.T) {
	server, _ := testServer(t)

	resp := postJSON(t, server.URL+"/analyze", map[string]string{"company_name": "Tesla"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	result := decode[model.AnalysisResult](t, resp)
	if result.Report.CompanyName != "Tesla" {
		t.Errorf("CompanyName = %q, want Tesla", result.Report.CompanyName)
	}
	if len(result.Report.Articles) == 0 {
		t.Error("report has no articles")
	}
	if !result.Degraded {
		t.Error("Degraded = false for an offline run")
	}
	if result.Audio.AudioURL == "" {
		t.Error("AudioURL is empty")
	}

	// The issued clip URL must be servable.
	clip, err := http.Get(server.URL + result.Audio.AudioURL)
	if err != nil {
		t.Fatalf("GET clip: %v", err)
	}
	defer clip.Body.Close()
	if clip.StatusCode != http.StatusOK {
		t.Errorf("GET %s status = %d, want 200", result.Audio.AudioURL, clip.StatusCode)
	}
}

func TestAnalyzeValidation(t *testing.T) {
	server, _ := testServer(t)

	tests := []struct {
		name string
		body string
	}{
		{"missing company_name", `{}`},
		{"blank company_name", `{"company_name": "  "}`},
		{"malformed body", `{"company_name": `},
		{"unknown field", `{"company": "Tesla"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Post(server.URL+"/analyze", "application/json", bytes.NewReader([]byte(tt.body)))
			if err != nil {
				t.Fatalf("POST /analyze: %v", err)
			}
			if resp.StatusCode != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", resp.StatusCode)
			}
			body := decode[errorResponse](t, resp)
			if body.Code != model.CodeInvalidInput {
				t.Errorf("code = %q, want invalid_input", body.Code)
			}
		})
	}
}

func TestTTS(t *testing.T) {
	server, _ := testServer(t)

	resp := postJSON(t, server.URL+"/tts", map[string]string{
		"text":     "Coverage of Acme is favorable.",
		"language": "hi",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	audio := decode[model.AudioResult](t, resp)
	if audio.AudioURL == "" {
		t.Error("AudioURL is empty")
	}
	if audio.LanguageCode != "hi" {
		t.Errorf("LanguageCode = %q, want hi", audio.LanguageCode)
	}
}

func TestTTSValidation(t *testing.T) {
	server, _ := testServer(t)

	resp := postJSON(t, server.URL+"/tts", map[string]string{"text": ""})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestStaticAudioTraversalBlocked(t *testing.T) {
	server, _ := testServer(t)

	req, err := http.NewRequest(http.MethodGet, server.URL+"/static/audio/../server.go", nil)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusOK {
		t.Error("path traversal request returned 200")
	}
}

func TestStaticAudioUnknownClip(t *testing.T) {
	server, _ := testServer(t)

	resp, err := http.Get(server.URL + "/static/audio/0000000000000000.mp3")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404 for a clip never issued", resp.StatusCode)
	}
}
