package embedding

import (
	"context"
	"fmt"

	"github.com/philippgille/chromem-go"

	"github.com/sandevgo/insurebot/internal/config"
	"github.com/sandevgo/insurebot/internal/core"
	"github.com/sandevgo/insurebot/pkg/log"
)

// Embedder embeds query text with the same model the knowledge store was built with.
type Embedder struct {
	model string
	fn    chromem.EmbeddingFunc
	cache core.EmbeddingCache
}

// New builds an Embedder for the configured provider. cache may be nil.
func New(ctx context.Context, cfg *config.EmbeddingConfig, cache core.EmbeddingCache) (*Embedder, error) {
	var fn chromem.EmbeddingFunc
	switch cfg.Provider {
	case config.EmbeddingOpenAI:
		normalized := cfg.Normalized
		fn = chromem.NewEmbeddingFuncOpenAICompat(cfg.Endpoint(), cfg.APIKey, cfg.Model, &normalized)
	case config.EmbeddingOllama:
		fn = chromem.NewEmbeddingFuncOllama(cfg.Model, cfg.Endpoint())
	default:
		return nil, fmt.Errorf("unknown embedding provider: %s", cfg.Provider)
	}

	log.FromCtx(ctx).Info().
		Str("provider", cfg.Provider).
		Str("model", cfg.Model).
		Bool("cache", cache != nil).
		Msg("starting embedding provider")

	return NewWithFunc(cfg.Model, fn, cache), nil
}

func NewWithFunc(model string, fn chromem.EmbeddingFunc, cache core.EmbeddingCache) *Embedder {
	return &Embedder{model: model, fn: fn, cache: cache}
}

// Func exposes the embedding function for stores that embed on their own.
func (e *Embedder) Func() chromem.EmbeddingFunc {
	return e.Embed
}

func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	logger := log.FromCtx(ctx)

	if e.cache != nil {
		vec, ok, err := e.cache.GetEmbedding(ctx, e.model, text)
		switch {
		case err != nil:
			logger.Warn().Err(err).Msg("embedding cache read failed")
		case ok:
			logger.Debug().Msg("embedding cache hit")
			return vec, nil
		}
	}

	vec, err := e.fn(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("embed with %s: %w", e.model, err)
	}
	if len(vec) == 0 {
		return nil, fmt.Errorf("embed with %s: empty vector", e.model)
	}

	if e.cache != nil {
		if err := e.cache.PutEmbedding(ctx, e.model, text, vec); err != nil {
			logger.Warn().Err(err).Msg("embedding cache write failed")
		}
	}
	return vec, nil
}
