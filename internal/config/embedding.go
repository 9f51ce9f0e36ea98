package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
)

const (
	EmbeddingOpenAI = "openai"
	EmbeddingOllama = "ollama"
)

type EmbeddingConfig struct {
	Provider string `env:"EMBEDDING_PROVIDER" envDefault:"openai"`
	Model    string `env:"EMBEDDING_MODEL" envDefault:"BAAI/bge-base-en-v1.5"`
	// openai: base including the version segment, default http://localhost:8080/v1.
	// ollama: server or API base, default http://localhost:11434/api.
	BaseURL    string `env:"EMBEDDING_BASE_URL"`
	APIKey     string `env:"EMBEDDING_API_KEY"`
	Normalized bool   `env:"EMBEDDING_NORMALIZED" envDefault:"true"`
	Cache      bool   `env:"EMBEDDING_CACHE" envDefault:"true"`
}

func LoadEmbeddingConfig(opts ...env.Options) (*EmbeddingConfig, error) {
	return load[EmbeddingConfig](opts...)
}

func (c EmbeddingConfig) Validate() error {
	switch c.Provider {
	case EmbeddingOpenAI, EmbeddingOllama:
	default:
		return fmt.Errorf("unknown EMBEDDING_PROVIDER %q", c.Provider)
	}
	if c.Model == "" {
		return fmt.Errorf("EMBEDDING_MODEL is empty")
	}
	return nil
}

// Endpoint is the base URL handed to the embedding client. Ollama expects the
// /api prefix, which is added when missing.
func (c EmbeddingConfig) Endpoint() string {
	base := strings.TrimRight(c.BaseURL, "/")
	switch c.Provider {
	case EmbeddingOllama:
		if base == "" {
			base = "http://localhost:11434"
		}
		if !strings.HasSuffix(base, "/api") {
			base += "/api"
		}
		return base
	default:
		if base == "" {
			return "http://localhost:8080/v1"
		}
		return base
	}
}
