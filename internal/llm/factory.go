package llm

import (
	"fmt"
	"strings"
)

// NewProvider creates a model provider from configuration. An empty
// provider name returns (nil, nil): the model path is disabled and the
// deterministic fallbacks carry every request.
func NewProvider(config Config) (Provider, error) {
	switch strings.ToLower(config.Provider) {
	case "openai":
		return NewOpenAIProvider(config)

	case "anthropic", "claude":
		return NewAnthropicProvider(config)

	case "ollama":
		return NewOllamaProvider(config)

	case "":
		return nil, nil

	default:
		return nil, fmt.Errorf("unknown LLM provider: %s (supported: openai, anthropic, ollama)", config.Provider)
	}
}
