package model

import "time"

// Config is the process-wide configuration. It is loaded once at startup
// (defaults, then config file, then EQUINEWS_* environment variables,
// then flags) and read-only afterward.
type Config struct {
	Server      ServerConfig      `yaml:"server" mapstructure:"server"`
	HTTP        HTTPConfig        `yaml:"http" mapstructure:"http"`
	Articles    ArticlesConfig    `yaml:"articles" mapstructure:"articles"`
	Sources     []SourceConfig    `yaml:"sources" mapstructure:"sources"`
	Companies   []string          `yaml:"companies" mapstructure:"companies"`
	Summary     SummaryConfig     `yaml:"summary" mapstructure:"summary"`
	LLM         LLMConfig         `yaml:"llm" mapstructure:"llm"`
	Speech      SpeechConfig      `yaml:"speech" mapstructure:"speech"`
	Cache       CacheConfig       `yaml:"cache" mapstructure:"cache"`
	Concurrency ConcurrencyConfig `yaml:"concurrency" mapstructure:"concurrency"`
	Logging     LoggingConfig     `yaml:"logging" mapstructure:"logging"`
}

// ServerConfig holds the HTTP API listener settings.
type ServerConfig struct {
	Host        string   `yaml:"host" mapstructure:"host"`
	Port        int      `yaml:"port" mapstructure:"port"`
	CORSOrigins []string `yaml:"cors_origins" mapstructure:"cors_origins"`
}

// HTTPConfig holds outbound HTTP client settings shared by the feed
// fetcher, page scraper, and speech clients.
type HTTPConfig struct {
	Timeout      time.Duration `yaml:"timeout" mapstructure:"timeout"`
	UserAgent    string        `yaml:"user_agent" mapstructure:"user_agent"`
	MaxBodyBytes int64         `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
	HTTPProxy    string        `yaml:"http_proxy" mapstructure:"http_proxy"`
	HTTPSProxy   string        `yaml:"https_proxy" mapstructure:"https_proxy"`
}

// SourceConfig describes one configured news source. Query is a URL
// template with %s substituted by the encoded company name. Scrape
// enables fetching the linked article page for full text when the feed
// item carries none. RequestsPerSec, when positive, overrides the
// global per-domain rate limit for this source's domain.
type SourceConfig struct {
	Name           string  `yaml:"name" mapstructure:"name"`
	Query          string  `yaml:"query" mapstructure:"query"`
	Scrape         bool    `yaml:"scrape" mapstructure:"scrape"`
	RequestsPerSec float64 `yaml:"requests_per_sec,omitempty" mapstructure:"requests_per_sec"`
}

// ArticlesConfig controls target and minimum article counts.
type ArticlesConfig struct {
	Target  int `yaml:"target" mapstructure:"target"`   // N articles per report
	Minimum int `yaml:"minimum" mapstructure:"minimum"` // below this, synthesize
}

// SummaryConfig bounds summary output.
type SummaryConfig struct {
	MaxSentences int `yaml:"max_sentences" mapstructure:"max_sentences"`
	MaxChars     int `yaml:"max_chars" mapstructure:"max_chars"`
	MaxTopics    int `yaml:"max_topics" mapstructure:"max_topics"`
}

// LLMConfig holds the model backend configuration shared by the
// summarizer and sentiment classifier. An empty Provider disables the
// model path entirely; the extractive and keyword fallbacks then carry
// every request.
type LLMConfig struct {
	Provider  string        `yaml:"provider" mapstructure:"provider"` // "openai", "anthropic", "ollama", ""
	Model     string        `yaml:"model" mapstructure:"model"`
	APIKey    string        `yaml:"api_key" mapstructure:"api_key"`
	BaseURL   string        `yaml:"base_url" mapstructure:"base_url"`
	Timeout   time.Duration `yaml:"timeout" mapstructure:"timeout"`
	MaxTokens int           `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// SpeechConfig holds translation and synthesis settings.
type SpeechConfig struct {
	Language   string        `yaml:"language" mapstructure:"language"` // target language code
	Timeout    time.Duration `yaml:"timeout" mapstructure:"timeout"`
	AudioDir   string        `yaml:"audio_dir" mapstructure:"audio_dir"`
	MaxClipAge time.Duration `yaml:"max_clip_age" mapstructure:"max_clip_age"`
}

// CacheConfig controls the fetch cache.
type CacheConfig struct {
	Enabled bool          `yaml:"enabled" mapstructure:"enabled"`
	TTL     time.Duration `yaml:"ttl" mapstructure:"ttl"`
	Dir     string        `yaml:"dir" mapstructure:"dir"`
}

// ConcurrencyConfig bounds parallel external calls.
type ConcurrencyConfig struct {
	FetchWorkers   int     `yaml:"fetch_workers" mapstructure:"fetch_workers"`
	RequestsPerSec float64 `yaml:"requests_per_sec" mapstructure:"requests_per_sec"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`   // debug, info, warn, error
	Format string `yaml:"format" mapstructure:"format"` // text or json
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8000,
		},
		HTTP: HTTPConfig{
			Timeout:      30 * time.Second,
			UserAgent:    "equinews/0.3 (+https://github.com/rmehta/equinews)",
			MaxBodyBytes: 2_000_000,
		},
		Articles: ArticlesConfig{
			Target:  10,
			Minimum: 1,
		},
		Sources: []SourceConfig{
			{Name: "Google News", Query: "https://news.google.com/rss/search?q=%s&hl=en-IN&gl=IN&ceid=IN:en"},
			{Name: "Bing News", Query: "https://www.bing.com/news/search?q=%s&format=rss"},
			{Name: "Economic Times", Query: "https://economictimes.indiatimes.com/topic/%s/rssfeeds", Scrape: true, RequestsPerSec: 1},
			{Name: "Moneycontrol", Query: "https://www.moneycontrol.com/rss/results.xml?q=%s", Scrape: true, RequestsPerSec: 1},
		},
		Companies: []string{
			"Tesla", "Apple", "Microsoft", "Reliance Industries",
			"Tata Motors", "Infosys", "HDFC Bank", "Adani Green",
		},
		Summary: SummaryConfig{
			MaxSentences: 3,
			MaxChars:     600,
			MaxTopics:    5,
		},
		LLM: LLMConfig{
			Provider:  "",
			Timeout:   30 * time.Second,
			MaxTokens: 400,
		},
		Speech: SpeechConfig{
			Language:   "hi",
			Timeout:    30 * time.Second,
			AudioDir:   "static/audio",
			MaxClipAge: 24 * time.Hour,
		},
		Cache: CacheConfig{
			Enabled: true,
			TTL:     time.Hour,
		},
		Concurrency: ConcurrencyConfig{
			FetchWorkers:   4,
			RequestsPerSec: 2,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}
