// Package llm abstracts the model backends used by the summarizer and
// sentiment classifier. Providers expose a single narrow completion
// primitive; the calling components own their prompts and parse their
// own outputs, so any backend is swappable without touching pipeline
// logic.
package llm

import (
	"context"
	"time"

	"github.com/rmehta/equinews/internal/model"
)

// Provider is a text-in, text-out model backend.
type Provider interface {
	// Name returns the provider name.
	Name() string

	// Complete generates a completion for the given request.
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)

	// IsAvailable checks if the provider is configured and reachable.
	IsAvailable(ctx context.Context) bool
}

// CompletionRequest is the input for one model call.
type CompletionRequest struct {
	// System primes the model's role (e.g., financial-news summarizer).
	System string

	// Prompt is the user-turn content.
	Prompt string

	// Model overrides the configured model when non-empty.
	Model string

	// MaxTokens limits the response length (0 uses the configured limit).
	MaxTokens int

	// Temperature defaults to a low value for focused, repeatable output.
	Temperature float32
}

// CompletionResponse is the model's output.
type CompletionResponse struct {
	Text       string
	Model      string
	TokensUsed int
}

// Config holds provider configuration.
type Config struct {
	// Provider name: "openai", "anthropic", "ollama", "" (disabled).
	Provider string

	// Model name (provider-specific).
	Model string

	// APIKey for hosted providers.
	APIKey string

	// BaseURL for custom endpoints (e.g., Ollama, OpenAI-compatible proxies).
	BaseURL string

	// Timeout per API request.
	Timeout time.Duration

	// MaxTokens default for response generation.
	MaxTokens int

	// Proxy settings.
	HTTPProxy  string
	HTTPSProxy string
}

// DefaultConfig returns sensible defaults (provider disabled).
func DefaultConfig() Config {
	return Config{
		Timeout:   30 * time.Second,
		MaxTokens: 400,
	}
}

// ConfigFromModel converts the app-level LLM config.
func ConfigFromModel(mc model.LLMConfig) Config {
	cfg := DefaultConfig()
	cfg.Provider = mc.Provider
	cfg.Model = mc.Model
	cfg.APIKey = mc.APIKey
	cfg.BaseURL = mc.BaseURL
	if mc.Timeout > 0 {
		cfg.Timeout = mc.Timeout
	}
	if mc.MaxTokens > 0 {
		cfg.MaxTokens = mc.MaxTokens
	}
	return cfg
}
