package config

import (
	"strings"
	"testing"
	"time"

	"github.com/caarlos0/env/v10"
)

func validEnv() map[string]string {
	return map[string]string{
		"JWT_SECRET":  "s3cret",
		"LLM_API_KEY": "gsk-test",
	}
}

func TestParse_Defaults(t *testing.T) {
	cfg, err := parse(env.Options{Environment: validEnv()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.ChunkSize != 2400 || cfg.ChunkOverlap != 200 {
		t.Errorf("expected chunk geometry 2400/200, got %d/%d", cfg.ChunkSize, cfg.ChunkOverlap)
	}
	if cfg.MaxSummaryChunks != 6 {
		t.Errorf("expected 6 summary chunks, got %d", cfg.MaxSummaryChunks)
	}
	if cfg.BatchSize != 6 {
		t.Errorf("expected batch size 6, got %d", cfg.BatchSize)
	}
	if cfg.LLMModel != "llama3-8b-8192" {
		t.Errorf("expected default model, got %q", cfg.LLMModel)
	}
	if cfg.SessionTTL != 8*time.Hour {
		t.Errorf("expected 8h session ttl, got %s", cfg.SessionTTL)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected defaults to validate, got %v", err)
	}
}

func TestParse_Overrides(t *testing.T) {
	e := validEnv()
	e["CHUNK_SIZE"] = "1000"
	e["BATCH_SIZE"] = "4"
	e["LLM_PROVIDER"] = " Anthropic "
	e["ANTHROPIC_API_KEY"] = "sk-ant"
	e["AUTH_USERS"] = "a:pw:Admin,b:pw:Student"

	cfg, err := parse(env.Options{Environment: e})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.ChunkSize != 1000 || cfg.BatchSize != 4 {
		t.Errorf("expected overrides applied, got chunk=%d batch=%d", cfg.ChunkSize, cfg.BatchSize)
	}
	if cfg.LLMProvider != "anthropic" {
		t.Errorf("expected provider normalized, got %q", cfg.LLMProvider)
	}
	if len(cfg.AuthUsers) != 2 {
		t.Errorf("expected 2 auth users, got %v", cfg.AuthUsers)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected valid config, got %v", err)
	}
}

func TestParse_NonPositiveFallbacks(t *testing.T) {
	e := validEnv()
	e["BATCH_SIZE"] = "0"
	e["MAX_SUMMARY_CHUNKS"] = "-1"
	cfg, err := parse(env.Options{Environment: e})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.BatchSize != 6 || cfg.MaxSummaryChunks != 6 {
		t.Errorf("expected fallbacks, got batch=%d chunks=%d", cfg.BatchSize, cfg.MaxSummaryChunks)
	}
}

func TestParse_MalformedNumber(t *testing.T) {
	e := validEnv()
	e["CHUNK_SIZE"] = "lots"
	if _, err := parse(env.Options{Environment: e}); err == nil {
		t.Error("expected error for malformed CHUNK_SIZE")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"missing jwt", func(c *Config) { c.JWTSecret = "" }, "JWT_SECRET"},
		{"missing llm key", func(c *Config) { c.LLMAPIKey = "" }, "LLM_API_KEY"},
		{"anthropic without key", func(c *Config) { c.LLMProvider = "anthropic" }, "ANTHROPIC_API_KEY"},
		{"unknown provider", func(c *Config) { c.LLMProvider = "cohere" }, "LLM_PROVIDER"},
		{"overlap too large", func(c *Config) { c.ChunkOverlap = c.ChunkSize }, "CHUNK_SIZE"},
		{"unknown store", func(c *Config) { c.SessionStore = "memcached" }, "SESSION_STORE"},
		{"unknown auth", func(c *Config) { c.AuthBackend = "ldap" }, "AUTH_BACKEND"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg, err := parse(env.Options{Environment: validEnv()})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			tc.mutate(&cfg)
			err = cfg.Validate()
			if err == nil {
				t.Fatalf("expected error containing %q", tc.wantErr)
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("expected error containing %q, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestValidateGeneration_IgnoresServerSettings(t *testing.T) {
	cfg, err := parse(env.Options{Environment: map[string]string{"LLM_API_KEY": "k", "SESSION_STORE": "memcached"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := cfg.ValidateGeneration(); err != nil {
		t.Errorf("expected generation settings valid without JWT_SECRET, got %v", err)
	}
	if err := cfg.Validate(); err == nil {
		t.Error("expected full validation to fail")
	}
}
