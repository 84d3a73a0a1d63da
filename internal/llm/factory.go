package llm

import (
	"fmt"

	"github.com/dgallion1/bloomgen/internal/config"
	"github.com/dgallion1/bloomgen/internal/logger"
)

// FromConfig builds the configured provider client wrapped with retries and
// latency statistics.
func FromConfig(cfg config.Config, stats *Stats, log *logger.Logger) (Completer, error) {
	var base Completer
	switch cfg.LLMProvider {
	case "openai":
		base = NewOpenAIClient(OpenAIOptions{
			APIKey:      cfg.LLMAPIKey,
			BaseURL:     cfg.LLMBaseURL,
			Model:       cfg.LLMModel,
			Temperature: cfg.LLMTemperature,
			MaxTokens:   cfg.LLMMaxOutputTokens,
		})
	case "anthropic":
		base = NewAnthropicClient(cfg.AnthropicAPIKey, cfg.AnthropicModel, cfg.LLMMaxOutputTokens)
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.LLMProvider)
	}
	var c Completer = &Instrumented{Next: base, Stats: stats}
	if cfg.LLMMaxRetries > 0 {
		c = NewRetrying(c, cfg.LLMMaxRetries, log)
	}
	return c, nil
}
