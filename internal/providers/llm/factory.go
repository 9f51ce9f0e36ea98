package llm

import (
	"context"
	"fmt"

	"github.com/sandevgo/insurebot/internal/config"
	"github.com/sandevgo/insurebot/internal/core"
	"github.com/sandevgo/insurebot/pkg/log"
)

// Provider is what the rest of the app needs from a chat backend.
type Provider interface {
	core.LLM
	core.ModelLister
}

// NewProvider creates the appropriate Provider based on configuration.
func NewProvider(ctx context.Context, cfg *config.LLMConfig) (Provider, error) {
	log.FromCtx(ctx).Info().
		Str("provider", cfg.Provider).
		Str("model", cfg.Model).
		Msg("starting llm provider")

	switch cfg.Provider {
	case config.ProviderGroq:
		return NewGroq(cfg.GroqAPIKey, cfg.Model, cfg.Temperature), nil
	case config.ProviderOpenAI:
		return NewOpenAI(cfg.OpenAIAPIKey, cfg.Model, cfg.Temperature), nil
	case config.ProviderAnthropic:
		return NewAnthropic(cfg.AnthropicAPIKey, cfg.Model, cfg.Temperature), nil
	case config.ProviderOpenRouter:
		return NewOpenRouter(cfg.OpenRouterAPIKey, cfg.Model, cfg.Temperature), nil
	case config.ProviderOllama:
		return NewOllama(cfg.OllamaBaseURL, cfg.OllamaAPIKey, cfg.Model, cfg.Temperature), nil
	case config.ProviderCustom:
		return NewCustomOpenAI(cfg.CustomBaseURL, cfg.CustomAPIKey, cfg.Model, cfg.Temperature), nil
	default:
		return nil, fmt.Errorf("unknown llm provider: %s", cfg.Provider)
	}
}
