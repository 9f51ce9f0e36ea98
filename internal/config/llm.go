package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

const (
	ProviderGroq       = "groq"
	ProviderOpenAI     = "openai"
	ProviderAnthropic  = "anthropic"
	ProviderOpenRouter = "openrouter"
	ProviderOllama     = "ollama"
	ProviderCustom     = "custom"
)

type LLMConfig struct {
	Provider string `env:"LLM_PROVIDER" envDefault:"groq"`
	Model    string `env:"LLM_MODEL" envDefault:"deepseek-r1-distill-llama-70b"`

	Temperature float64 `env:"LLM_TEMPERATURE" envDefault:"0.1"`

	GroqAPIKey       string `env:"GROQ_API_KEY"`
	OpenAIAPIKey     string `env:"OPENAI_API_KEY"`
	AnthropicAPIKey  string `env:"ANTHROPIC_API_KEY"`
	OpenRouterAPIKey string `env:"OPENROUTER_API_KEY"`

	OllamaBaseURL string `env:"OLLAMA_BASE_URL" envDefault:"http://localhost:11434"`
	OllamaAPIKey  string `env:"OLLAMA_API_KEY"`

	CustomBaseURL string `env:"CUSTOM_OPENAI_BASE_URL"`
	CustomAPIKey  string `env:"CUSTOM_OPENAI_API_KEY"`
}

func LoadLLMConfig(opts ...env.Options) (*LLMConfig, error) {
	return load[LLMConfig](opts...)
}

// Validate checks that the secret the selected provider needs is present.
func (c LLMConfig) Validate() error {
	if c.Model == "" {
		return fmt.Errorf("LLM_MODEL is empty")
	}

	var missing string
	switch c.Provider {
	case ProviderGroq:
		if c.GroqAPIKey == "" {
			missing = "GROQ_API_KEY"
		}
	case ProviderOpenAI:
		if c.OpenAIAPIKey == "" {
			missing = "OPENAI_API_KEY"
		}
	case ProviderAnthropic:
		if c.AnthropicAPIKey == "" {
			missing = "ANTHROPIC_API_KEY"
		}
	case ProviderOpenRouter:
		if c.OpenRouterAPIKey == "" {
			missing = "OPENROUTER_API_KEY"
		}
	case ProviderOllama:
		if c.OllamaBaseURL == "" {
			missing = "OLLAMA_BASE_URL"
		}
	case ProviderCustom:
		if c.CustomBaseURL == "" {
			missing = "CUSTOM_OPENAI_BASE_URL"
		}
	default:
		return fmt.Errorf("unknown LLM_PROVIDER %q", c.Provider)
	}

	if missing != "" {
		return fmt.Errorf("%s is required for provider %s", missing, c.Provider)
	}
	return nil
}
