package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/peterdokim/news-summary-ai/internal/domain"
)

const (
	configPathEnv         = "NEWS_SUMMARIZER_CONFIG"
	openAIAPIKeyEnv       = "OPENAI_API_KEY"
	googleAPIKeyEnv       = "GOOGLE_API_KEY"
	geminiAPIKeyEnv       = "GEMINI_API_KEY"
	embeddingProviderEnv  = "EMBEDDING_PROVIDER"
	embeddingModelEnv     = "EMBEDDING_MODEL"
	generationProviderEnv = "GENERATION_PROVIDER"
	generationModelEnv    = "GENERATION_MODEL"
	logLevelEnv           = "LOG_LEVEL"
	telegramTokenEnv      = "TELEGRAM_BOT_TOKEN"
	telegramChatIDEnv     = "TELEGRAM_CHAT_ID"
	metricsAddrEnv        = "METRICS_ADDR"
)

// Provider names accepted for embedding and generation.
const (
	ProviderOpenAI = "openai"
	ProviderGoogle = "google"
	ProviderHTTP   = "http"
)

// Config holds every setting the host needs to build and run the pipeline.
type Config struct {
	Logging       LoggingConfig      `yaml:"logging"`
	HTTP          HTTPConfig         `yaml:"http"`
	Search        SearchConfig       `yaml:"search"`
	Extraction    ExtractionConfig   `yaml:"extraction"`
	Embedding     ProviderConfig     `yaml:"embedding"`
	Generation    GenerationConfig   `yaml:"generation"`
	Clustering    ClusteringConfig   `yaml:"clustering"`
	Pipeline      PipelineConfig     `yaml:"pipeline"`
	Notifications NotificationConfig `yaml:"notifications"`
	Metrics       MetricsConfig      `yaml:"metrics"`
}

// LoggingConfig selects slog level and handler format.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// HTTPConfig configures the single outbound client shared by search and article fetches.
type HTTPConfig struct {
	Timeout     time.Duration `yaml:"timeout"`
	UserAgent   string        `yaml:"userAgent"`
	Fingerprint string        `yaml:"fingerprint"`
}

// SearchConfig describes the search surface and how article links are recognised on it.
type SearchConfig struct {
	Endpoint       string   `yaml:"endpoint"`
	Marker         string   `yaml:"marker"`
	MarkerSelector string   `yaml:"markerSelector"`
	ArticleHosts   []string `yaml:"articleHosts"`
}

// ExtractionConfig maps article hosts to extractor strategies.
type ExtractionConfig struct {
	Concurrency int          `yaml:"concurrency"`
	Fallback    string       `yaml:"fallback"`
	Sites       []SiteConfig `yaml:"sites"`
}

// SiteConfig binds a host (and its subdomains) to a named extractor strategy.
type SiteConfig struct {
	Host     string `yaml:"host"`
	Strategy string `yaml:"strategy"`
}

// ProviderConfig selects a model provider and its credentials.
type ProviderConfig struct {
	Provider   string `yaml:"provider"`
	Model      string `yaml:"model"`
	APIKey     string `yaml:"apiKey"`
	BaseURL    string `yaml:"baseUrl"`
	Dimensions int    `yaml:"dimensions"`
}

// GenerationConfig adds summary prompt parameters to the provider selection.
type GenerationConfig struct {
	ProviderConfig `yaml:",inline"`
	MaxSentences   int           `yaml:"maxSentences"`
	MaxTokens      int           `yaml:"maxTokens"`
	Temperature    float64       `yaml:"temperature"`
	MaxRetries     int           `yaml:"maxRetries"`
	RetryBackoff   time.Duration `yaml:"retryBackoff"`
}

// ClusteringConfig tunes k-means.
type ClusteringConfig struct {
	Seed    int64 `yaml:"seed"`
	NInit   int   `yaml:"nInit"`
	MaxIter int   `yaml:"maxIter"`
}

// PipelineConfig holds run defaults used when the caller passes none.
type PipelineConfig struct {
	MaxArticles int `yaml:"maxArticles"`
	Clusters    int `yaml:"clusters"`
}

// NotificationConfig encapsulates outbound digest channels.
type NotificationConfig struct {
	Telegram TelegramConfig `yaml:"telegram"`
}

// TelegramConfig wires all data required to send messages.
type TelegramConfig struct {
	BotToken string `yaml:"botToken"`
	ChatID   string `yaml:"chatId"`
	Endpoint string `yaml:"endpoint"`
}

// Enabled reports whether both token and chat are configured.
func (t TelegramConfig) Enabled() bool {
	return t.BotToken != "" && t.ChatID != ""
}

// MetricsConfig sets the Prometheus listen address; empty disables the server.
type MetricsConfig struct {
	Addr string `yaml:"addr"`
}

// Load reads YAML configuration (if present) over the defaults and applies
// environment overrides. An empty path falls back to NEWS_SUMMARIZER_CONFIG.
func Load(path string) Config {
	cfg := Default()

	if path == "" {
		path = os.Getenv(configPathEnv)
	}
	if path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else if err := yaml.Unmarshal(raw, &cfg); err != nil {
			log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			cfg = Default()
		}
	}

	cfg.applyEnvOverrides()
	cfg.fillZeroes()
	return cfg
}

// Validate reports configuration problems that must stop the process before
// any pipeline stage runs. All failures wrap domain.ErrConfiguration.
func (c Config) Validate() error {
	if err := validateProvider("embedding", c.Embedding); err != nil {
		return err
	}
	if err := validateProvider("generation", c.Generation.ProviderConfig); err != nil {
		return err
	}
	if c.Search.Endpoint == "" {
		return fmt.Errorf("%w: search endpoint is empty", domain.ErrConfiguration)
	}
	if len(c.Search.ArticleHosts) == 0 {
		return fmt.Errorf("%w: no article hosts configured", domain.ErrConfiguration)
	}
	if c.Pipeline.MaxArticles <= 0 || c.Pipeline.Clusters <= 0 {
		return fmt.Errorf("%w: pipeline bounds must be positive", domain.ErrConfiguration)
	}
	return nil
}

func validateProvider(role string, p ProviderConfig) error {
	switch p.Provider {
	case ProviderOpenAI, ProviderGoogle:
		if p.APIKey == "" {
			return fmt.Errorf("%w: missing credential for %s provider %s (set %s)",
				domain.ErrConfiguration, role, p.Provider, credentialEnvHint(p.Provider))
		}
	case ProviderHTTP:
		if p.BaseURL == "" {
			return fmt.Errorf("%w: %s provider http requires baseUrl", domain.ErrConfiguration, role)
		}
	default:
		return fmt.Errorf("%w: unknown %s provider %q", domain.ErrConfiguration, role, p.Provider)
	}
	if p.Model == "" {
		return fmt.Errorf("%w: %s model is empty", domain.ErrConfiguration, role)
	}
	return nil
}

func credentialEnvHint(provider string) string {
	if provider == ProviderGoogle {
		return googleAPIKeyEnv + " or " + geminiAPIKeyEnv
	}
	return openAIAPIKeyEnv
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(logLevelEnv); v != "" {
		c.Logging.Level = v
	}

	if v := os.Getenv(embeddingProviderEnv); v != "" {
		c.Embedding.Provider = strings.ToLower(v)
		c.Embedding.Model = defaultModel("embedding", c.Embedding.Provider, c.Embedding.Model)
	}
	if v := os.Getenv(embeddingModelEnv); v != "" {
		c.Embedding.Model = v
	}
	if v := os.Getenv(generationProviderEnv); v != "" {
		c.Generation.Provider = strings.ToLower(v)
		c.Generation.Model = defaultModel("generation", c.Generation.Provider, c.Generation.Model)
	}
	if v := os.Getenv(generationModelEnv); v != "" {
		c.Generation.Model = v
	}

	if v := credentialFromEnv(c.Embedding.Provider); v != "" {
		c.Embedding.APIKey = v
	}
	if v := credentialFromEnv(c.Generation.Provider); v != "" {
		c.Generation.APIKey = v
	}

	if v := os.Getenv(telegramTokenEnv); v != "" {
		c.Notifications.Telegram.BotToken = v
	}
	if v := os.Getenv(telegramChatIDEnv); v != "" {
		c.Notifications.Telegram.ChatID = v
	}
	if v := os.Getenv(metricsAddrEnv); v != "" {
		c.Metrics.Addr = v
	}
}

func credentialFromEnv(provider string) string {
	switch provider {
	case ProviderOpenAI:
		return os.Getenv(openAIAPIKeyEnv)
	case ProviderGoogle:
		if v := os.Getenv(googleAPIKeyEnv); v != "" {
			return v
		}
		return os.Getenv(geminiAPIKeyEnv)
	default:
		return ""
	}
}

// defaultModel swaps in the provider's default model when the current one
// belongs to the default provider and the provider was changed.
func defaultModel(role, provider, current string) string {
	def := Default()
	defaults := map[string]map[string]string{
		"embedding": {
			ProviderOpenAI: def.Embedding.Model,
			ProviderGoogle: "gemini-embedding-001",
		},
		"generation": {
			ProviderOpenAI: def.Generation.Model,
			ProviderGoogle: "gemini-2.0-flash",
		},
	}
	if current != "" && current != defaults[role][ProviderOpenAI] {
		return current
	}
	if m, ok := defaults[role][provider]; ok {
		return m
	}
	return current
}

func (c *Config) fillZeroes() {
	def := Default()
	if c.HTTP.Timeout <= 0 {
		c.HTTP.Timeout = def.HTTP.Timeout
	}
	if c.HTTP.UserAgent == "" {
		c.HTTP.UserAgent = def.HTTP.UserAgent
	}
	if c.Extraction.Concurrency <= 0 {
		c.Extraction.Concurrency = def.Extraction.Concurrency
	}
	if c.Generation.MaxSentences <= 0 {
		c.Generation.MaxSentences = def.Generation.MaxSentences
	}
	if c.Generation.MaxTokens <= 0 {
		c.Generation.MaxTokens = def.Generation.MaxTokens
	}
}

// Default returns the built-in configuration targeting Naver News and OpenAI.
func Default() Config {
	return Config{
		Logging: LoggingConfig{Level: "info", Format: "text"},
		HTTP: HTTPConfig{
			Timeout: 10 * time.Second,
			UserAgent: "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) " +
				"AppleWebKit/537.36 (KHTML, like Gecko) " +
				"Chrome/143.0.0.0 Safari/537.36",
			Fingerprint: "go",
		},
		Search: SearchConfig{
			Endpoint:       "https://search.naver.com/search.naver?ssc=tab.news.all&where=news&sm=tab_jum",
			Marker:         "네이버뉴스",
			MarkerSelector: "span.sds-comps-text, a",
			ArticleHosts:   []string{"news.naver.com"},
		},
		Extraction: ExtractionConfig{
			Concurrency: 4,
			Fallback:    "readability",
			Sites: []SiteConfig{
				{Host: "news.naver.com", Strategy: "naver"},
			},
		},
		Embedding: ProviderConfig{
			Provider:   ProviderOpenAI,
			Model:      "text-embedding-3-small",
			Dimensions: 1536,
		},
		Generation: GenerationConfig{
			ProviderConfig: ProviderConfig{
				Provider: ProviderOpenAI,
				Model:    "gpt-4o-mini",
			},
			MaxSentences: 3,
			MaxTokens:    300,
			Temperature:  0.2,
			MaxRetries:   0,
			RetryBackoff: time.Second,
		},
		Clustering: ClusteringConfig{Seed: 42, NInit: 10, MaxIter: 300},
		Pipeline:   PipelineConfig{MaxArticles: 5, Clusters: 3},
	}
}

// String renders a redacted one-line view for debug logs.
func (c Config) String() string {
	return "embedding=" + c.Embedding.Provider + "/" + c.Embedding.Model +
		" generation=" + c.Generation.Provider + "/" + c.Generation.Model +
		" concurrency=" + strconv.Itoa(c.Extraction.Concurrency) +
		" timeout=" + c.HTTP.Timeout.String()
}
