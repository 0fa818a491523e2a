package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/rmehta/equinews/internal/cache"
	"github.com/rmehta/equinews/internal/llm"
	"github.com/rmehta/equinews/internal/model"
	"github.com/rmehta/equinews/internal/pipeline"
	"github.com/rmehta/equinews/internal/sentiment"
	"github.com/rmehta/equinews/internal/source"
	"github.com/rmehta/equinews/internal/speech"
	"github.com/rmehta/equinews/internal/summarize"
)

// loadConfig merges defaults, the config file, and EQUINEWS_* env vars.
func loadConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()

	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	// API keys come from the environment when not set in the file.
	if cfg.LLM.APIKey == "" {
		switch cfg.LLM.Provider {
		case "openai":
			cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
		case "anthropic", "claude":
			cfg.LLM.APIKey = os.Getenv("ANTHROPIC_API_KEY")
		case "ollama":
			if baseURL := os.Getenv("OLLAMA_BASE_URL"); baseURL != "" && cfg.LLM.BaseURL == "" {
				cfg.LLM.BaseURL = baseURL
			}
		}
	}

	return cfg, nil
}

// newLogger builds the process logger from config.
func newLogger(cfg *model.Config) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stderr)

	level, err := logrus.ParseLevel(cfg.Logging.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	if verbose {
		level = logrus.DebugLevel
	}
	log.SetLevel(level)

	if cfg.Logging.Format == "json" {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	return log
}

// newFetchCache builds the fetch cache per config: memory-only, or
// memory over disk when a cache directory is set.
func newFetchCache(cfg *model.Config) cache.Cache {
	if !cfg.Cache.Enabled {
		return nil
	}

	if cfg.Cache.Dir == "" {
		return cache.NewMemoryCache(cfg.Cache.TTL, 10*time.Minute)
	}
	return cache.NewLayeredCache(cfg.Cache.TTL, cfg.Cache.Dir, cfg.Cache.TTL)
}

// buildPipeline wires every stage from config. The clip store is
// returned separately because the HTTP server serves its directory.
func buildPipeline(cfg *model.Config, log *logrus.Logger) (*pipeline.Pipeline, *speech.Store, error) {
	llmCfg := llm.ConfigFromModel(cfg.LLM)
	llmCfg.HTTPProxy = cfg.HTTP.HTTPProxy
	llmCfg.HTTPSProxy = cfg.HTTP.HTTPSProxy

	provider, err := llm.NewProvider(llmCfg)
	if err != nil {
		return nil, nil, fmt.Errorf("llm provider: %w", err)
	}
	if provider != nil {
		log.WithField("provider", provider.Name()).Info("model provider configured")
	}

	store, err := speech.NewStore(cfg.Speech.AudioDir, cfg.Speech.MaxClipAge, log)
	if err != nil {
		return nil, nil, err
	}
	store.Prune()

	renderer := speech.NewRenderer(
		speech.NewGoogleTranslator(cfg.Speech.Timeout, cfg.HTTP.UserAgent, cfg.HTTP.HTTPProxy, cfg.HTTP.HTTPSProxy),
		speech.NewGoogleSynthesizer(cfg.Speech.Timeout, cfg.HTTP.UserAgent, cfg.HTTP.HTTPProxy, cfg.HTTP.HTTPSProxy),
		store, cfg.Speech, log,
	)

	p := pipeline.New(
		source.New(cfg, newFetchCache(cfg), log),
		summarize.New(provider, cfg, log),
		sentiment.New(provider, log),
		renderer,
		log,
	)

	return p, store, nil
}
