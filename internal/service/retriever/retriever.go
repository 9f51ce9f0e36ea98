package retriever

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/sandevgo/insurebot/internal/core"
	"github.com/sandevgo/insurebot/pkg/conv"
	"github.com/sandevgo/insurebot/pkg/log"
)

// Retriever embeds a query and returns the most similar knowledge chunks.
type Retriever struct {
	embedder core.Embedder
	store    core.KnowledgeStore
}

func New(embedder core.Embedder, store core.KnowledgeStore) *Retriever {
	return &Retriever{embedder: embedder, store: store}
}

// Retrieve returns at most k chunks ordered by descending score.
// Failures are reported as core.ErrEmbedding or core.ErrRetrievalUnavailable.
func (r *Retriever) Retrieve(ctx context.Context, query string, k int) ([]core.ScoredChunk, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("%w: empty query", core.ErrInvalidQuery)
	}
	if k <= 0 {
		return nil, fmt.Errorf("%w: k must be positive, got %d", core.ErrInvalidQuery, k)
	}

	vec, err := r.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrEmbedding, err)
	}

	chunks, err := r.store.Search(ctx, vec, k)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrRetrievalUnavailable, err)
	}

	sort.SliceStable(chunks, func(i, j int) bool {
		return chunks[i].Score > chunks[j].Score
	})
	if len(chunks) > k {
		chunks = chunks[:k]
	}

	for i := range chunks {
		if strings.EqualFold(chunks[i].Metadata["format"], "html") {
			chunks[i].Text = conv.HTMLToText(chunks[i].Text)
		}
	}

	log.FromCtx(ctx).Debug().
		Int("k", k).
		Int("found", len(chunks)).
		Msg("retrieved context")

	return chunks, nil
}
