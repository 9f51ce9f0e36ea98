package config

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
)

type AppConfig struct {
	RuntimePath string `env:"INSURE_RUNTIME_PATH" envDefault:".insurebot"`

	// Retrieval
	TopK             int           `env:"RETRIEVAL_TOP_K" envDefault:"2"`
	RetrievalTimeout time.Duration `env:"RETRIEVAL_TIMEOUT" envDefault:"15s"`

	// Generation
	LLMTimeout time.Duration `env:"LLM_TIMEOUT" envDefault:"60s"`
	MaxRetries int           `env:"TURN_MAX_RETRIES" envDefault:"2"`

	// Memory
	MemoryTokenLimit int `env:"MEMORY_TOKEN_LIMIT" envDefault:"3000"`

	ArchiveTranscripts bool `env:"ARCHIVE_TRANSCRIPTS" envDefault:"true"`
}

func LoadAppConfig(opts ...env.Options) (*AppConfig, error) {
	return load[AppConfig](opts...)
}

func (c AppConfig) Validate() error {
	switch {
	case c.TopK <= 0:
		return fmt.Errorf("RETRIEVAL_TOP_K must be positive, got %d", c.TopK)
	case c.MemoryTokenLimit <= 0:
		return fmt.Errorf("MEMORY_TOKEN_LIMIT must be positive, got %d", c.MemoryTokenLimit)
	case c.RetrievalTimeout <= 0 || c.LLMTimeout <= 0:
		return fmt.Errorf("timeouts must be positive")
	case c.MaxRetries < 0:
		return fmt.Errorf("TURN_MAX_RETRIES must not be negative")
	}
	return nil
}

func (c AppConfig) GetRuntimePath() string {
	return ResolveRuntimePath(c.RuntimePath)
}

func (c AppConfig) GetDatabasePath() string {
	return filepath.Join(c.GetRuntimePath(), "insurebot.db")
}

func (c AppConfig) GetLogPath() string {
	return filepath.Join(c.GetRuntimePath(), "insure.log")
}

func (c AppConfig) GetSystemPromptPath() string {
	return filepath.Join(c.GetRuntimePath(), "SYSTEM.md")
}
