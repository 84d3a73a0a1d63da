package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	Port    string `env:"PORT" envDefault:"8090"`
	LogMode string `env:"LOG_MODE" envDefault:"dev"`

	// Completion provider: "openai" speaks the OpenAI-compatible chat API
	// (Groq by default), "anthropic" speaks the Messages API.
	LLMProvider        string        `env:"LLM_PROVIDER" envDefault:"openai"`
	LLMAPIKey          string        `env:"LLM_API_KEY"`
	LLMBaseURL         string        `env:"LLM_BASE_URL" envDefault:"https://api.groq.com/openai/v1"`
	LLMModel           string        `env:"LLM_MODEL" envDefault:"llama3-8b-8192"`
	AnthropicAPIKey    string        `env:"ANTHROPIC_API_KEY"`
	AnthropicModel     string        `env:"ANTHROPIC_MODEL" envDefault:"claude-sonnet-4-5-20250929"`
	LLMTemperature     float64       `env:"LLM_TEMPERATURE" envDefault:"0.5"`
	LLMMaxOutputTokens int           `env:"LLM_MAX_OUTPUT_TOKENS" envDefault:"1024"`
	LLMMaxRetries      int           `env:"LLM_MAX_RETRIES" envDefault:"2"`
	LLMStatsWindow     time.Duration `env:"LLM_STATS_WINDOW" envDefault:"1h"`

	// Chunking and generation budgets.
	ChunkSize        int `env:"CHUNK_SIZE" envDefault:"2400"`
	ChunkOverlap     int `env:"CHUNK_OVERLAP" envDefault:"200"`
	MaxSummaryChunks int `env:"MAX_SUMMARY_CHUNKS" envDefault:"6"`
	SummaryMaxWords  int `env:"SUMMARY_MAX_WORDS" envDefault:"120"`
	BatchSize        int `env:"BATCH_SIZE" envDefault:"6"`
	MaxQuestions     int `env:"MAX_QUESTIONS" envDefault:"50"`

	// Upload limits
	MaxUploadBytes int64 `env:"MAX_UPLOAD_BYTES" envDefault:"20971520"` // 20MB

	// Sessions
	JWTSecret     string        `env:"JWT_SECRET"`
	SessionTTL    time.Duration `env:"SESSION_TTL" envDefault:"8h"`
	SessionStore  string        `env:"SESSION_STORE" envDefault:"memory"`
	RedisAddr     string        `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string        `env:"REDIS_PASSWORD"`
	RedisDB       int           `env:"REDIS_DB" envDefault:"0"`

	// Auth: "static" reads AUTH_USERS (user:password:Role,...), "sqlite"
	// checks bcrypt hashes stored at AUTH_DB_PATH.
	AuthBackend string   `env:"AUTH_BACKEND" envDefault:"static"`
	AuthDBPath  string   `env:"AUTH_DB_PATH" envDefault:"bloomgen.db"`
	AuthUsers   []string `env:"AUTH_USERS" envSeparator:","`

	// Export
	ExportTemplate string `env:"EXPORT_TEMPLATE"`
	OutputDir      string `env:"OUTPUT_DIR" envDefault:"./output"`

	// PDF
	PDFFallbackPdftotext bool `env:"PDF_FALLBACK_PDFTOTEXT" envDefault:"true"`
}

// Load reads an optional .env file and then the process environment.
func Load() (Config, error) {
	_ = godotenv.Load()
	return parse(env.Options{})
}

func parse(opts env.Options) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	if cfg.MaxSummaryChunks <= 0 {
		cfg.MaxSummaryChunks = 6
	}
	if cfg.SummaryMaxWords <= 0 {
		cfg.SummaryMaxWords = 120
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 6
	}
	if cfg.MaxQuestions <= 0 {
		cfg.MaxQuestions = 50
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 20971520
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 8 * time.Hour
	}
	if cfg.LLMMaxRetries < 0 {
		cfg.LLMMaxRetries = 0
	}
	cfg.LLMProvider = strings.ToLower(strings.TrimSpace(cfg.LLMProvider))
	cfg.SessionStore = strings.ToLower(strings.TrimSpace(cfg.SessionStore))
	cfg.AuthBackend = strings.ToLower(strings.TrimSpace(cfg.AuthBackend))

	return cfg, nil
}

// Validate checks everything the HTTP server needs.
func (c Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if err := c.ValidateGeneration(); err != nil {
		return err
	}
	switch c.SessionStore {
	case "memory", "redis":
	default:
		return fmt.Errorf("unknown SESSION_STORE %q", c.SessionStore)
	}
	switch c.AuthBackend {
	case "static", "sqlite":
	default:
		return fmt.Errorf("unknown AUTH_BACKEND %q", c.AuthBackend)
	}
	return nil
}

// ValidateGeneration checks only the completion provider and chunk
// geometry, for the CLI.
func (c Config) ValidateGeneration() error {
	switch c.LLMProvider {
	case "openai":
		if c.LLMAPIKey == "" {
			return errors.New("LLM_API_KEY is required")
		}
	case "anthropic":
		if c.AnthropicAPIKey == "" {
			return errors.New("ANTHROPIC_API_KEY is required")
		}
	default:
		return fmt.Errorf("unknown LLM_PROVIDER %q", c.LLMProvider)
	}
	if c.ChunkSize <= c.ChunkOverlap || c.ChunkOverlap < 0 {
		return fmt.Errorf("CHUNK_SIZE (%d) must be greater than CHUNK_OVERLAP (%d)", c.ChunkSize, c.ChunkOverlap)
	}
	return nil
}
