package core

import (
	"context"
	"time"
)

// KnowledgeStore is a pre-populated, read-only collection of embedded chunks.
type KnowledgeStore interface {
	Search(ctx context.Context, vector []float32, k int) ([]ScoredChunk, error)
	Count(ctx context.Context) (int, error)
	Close() error
}

type EmbeddingCache interface {
	GetEmbedding(ctx context.Context, model, text string) ([]float32, bool, error)
	PutEmbedding(ctx context.Context, model, text string, vector []float32) error
}

// TranscriptArchive stores what the user saw. It is never read back into a session.
type TranscriptArchive interface {
	SaveTranscript(ctx context.Context, sessionID string, transcript []Message) error
}

type ArchivedMessage struct {
	ID        int64     `json:"id"`
	SessionID string    `json:"session_id"`
	Seq       int       `json:"seq"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Notice    bool      `json:"notice"`
	CreatedAt time.Time `json:"created_at"`
}
