package core

import "context"

// LLM turns an assembled prompt into a reply text.
type LLM interface {
	Complete(ctx context.Context, prompt []Message) (string, error)
}

// ModelLister is implemented by providers that can enumerate their models.
type ModelLister interface {
	Models(ctx context.Context) ([]Model, error)
}

type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

type Retriever interface {
	Retrieve(ctx context.Context, query string, k int) ([]ScoredChunk, error)
}
