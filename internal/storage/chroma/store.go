package chroma

import (
	"context"
	"fmt"

	"github.com/philippgille/chromem-go"

	"github.com/sandevgo/insurebot/internal/core"
	"github.com/sandevgo/insurebot/pkg/log"
)

// Store is a read-only view of one chromem collection persisted on disk.
type Store struct {
	db  *chromem.DB
	col *chromem.Collection
}

// Open loads the persisted database at path and gets (or creates) the collection.
// ef is only used if documents are ever added without an embedding.
func Open(ctx context.Context, path, collection string, compress bool, ef chromem.EmbeddingFunc) (*Store, error) {
	db, err := chromem.NewPersistentDB(path, compress)
	if err != nil {
		return nil, fmt.Errorf("open chromem db at %s: %w", path, err)
	}
	return newStore(ctx, db, collection, ef)
}

func newStore(ctx context.Context, db *chromem.DB, collection string, ef chromem.EmbeddingFunc) (*Store, error) {
	col, err := db.GetOrCreateCollection(collection, nil, ef)
	if err != nil {
		return nil, fmt.Errorf("get collection %s: %w", collection, err)
	}

	logger := log.FromCtx(ctx)
	if n := col.Count(); n == 0 {
		logger.Warn().Str("collection", collection).Msg("knowledge collection is empty, answers will have no context")
	} else {
		logger.Info().Str("collection", collection).Int("chunks", n).Msg("knowledge collection loaded")
	}

	return &Store{db: db, col: col}, nil
}

func (s *Store) Search(ctx context.Context, vector []float32, k int) ([]core.ScoredChunk, error) {
	if k <= 0 {
		return nil, fmt.Errorf("%w: k must be positive", core.ErrInvalidQuery)
	}

	// chromem rejects nResults larger than the collection.
	n := min(k, s.col.Count())
	if n == 0 {
		return nil, nil
	}

	res, err := s.col.QueryEmbedding(ctx, vector, n, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("query collection: %w", err)
	}

	chunks := make([]core.ScoredChunk, 0, len(res))
	for _, r := range res {
		chunks = append(chunks, core.ScoredChunk{
			Chunk: core.Chunk{
				ID:        r.ID,
				Text:      r.Content,
				Embedding: r.Embedding,
				Metadata:  r.Metadata,
			},
			Score: r.Similarity,
		})
	}
	return chunks, nil
}

func (s *Store) Count(ctx context.Context) (int, error) {
	return s.col.Count(), nil
}

// Close is a no-op: chromem persists on every write and nothing is written at query time.
func (s *Store) Close() error {
	return nil
}
