package sqlite

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
)

// EmbeddingCacheRepo keeps query embeddings keyed by model and content hash,
// so a repeated question does not hit the embedding endpoint again.
type EmbeddingCacheRepo struct {
	db *sql.DB
}

func NewEmbeddingCacheRepo(db *sql.DB) *EmbeddingCacheRepo {
	return &EmbeddingCacheRepo{db: db}
}

func contentHash(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

func (r *EmbeddingCacheRepo) GetEmbedding(ctx context.Context, model, text string) ([]float32, bool, error) {
	var (
		dims int
		blob []byte
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT dims, vector FROM embedding_cache WHERE model = ? AND content_hash = ?`,
		model, contentHash(text),
	).Scan(&dims, &blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read cached embedding: %w", err)
	}

	vec, err := deserializeVector(blob, dims)
	if err != nil {
		return nil, false, err
	}
	return vec, true, nil
}

func (r *EmbeddingCacheRepo) PutEmbedding(ctx context.Context, model, text string, vector []float32) error {
	blob, err := serializeVector(vector)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO embedding_cache (model, content_hash, dims, vector)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (model, content_hash) DO UPDATE SET dims = excluded.dims, vector = excluded.vector`,
		model, contentHash(text), len(vector), blob,
	)
	if err != nil {
		return fmt.Errorf("failed to cache embedding: %w", err)
	}
	return nil
}
