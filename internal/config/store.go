package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

const (
	StoreChroma = "chroma"
	StoreQdrant = "qdrant"
)

type StoreConfig struct {
	Backend    string `env:"KNOWLEDGE_STORE" envDefault:"chroma"`
	Collection string `env:"KNOWLEDGE_COLLECTION" envDefault:"quickstart"`

	ChromaPath     string `env:"CHROMA_PATH" envDefault:"./chroma-db2"`
	ChromaCompress bool   `env:"CHROMA_COMPRESS" envDefault:"false"`

	QdrantURL    string `env:"QDRANT_URL" envDefault:"http://localhost:6333"`
	QdrantAPIKey string `env:"QDRANT_API_KEY"`
}

func LoadStoreConfig(opts ...env.Options) (*StoreConfig, error) {
	return load[StoreConfig](opts...)
}

func (c StoreConfig) Validate() error {
	if c.Collection == "" {
		return fmt.Errorf("KNOWLEDGE_COLLECTION is empty")
	}
	switch c.Backend {
	case StoreChroma:
		if c.ChromaPath == "" {
			return fmt.Errorf("CHROMA_PATH is empty")
		}
	case StoreQdrant:
		if c.QdrantURL == "" {
			return fmt.Errorf("QDRANT_URL is empty")
		}
	default:
		return fmt.Errorf("unknown KNOWLEDGE_STORE %q", c.Backend)
	}
	return nil
}
