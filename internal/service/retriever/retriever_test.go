package retriever

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandevgo/insurebot/internal/core"
)

type mockEmbedder struct {
	embedFunc func(ctx context.Context, text string) ([]float32, error)
	calls     int
}

func (m *mockEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	m.calls++
	if m.embedFunc != nil {
		return m.embedFunc(ctx, text)
	}
	return []float32{1, 0}, nil
}

type mockStore struct {
	searchFunc func(ctx context.Context, vector []float32, k int) ([]core.ScoredChunk, error)
}

func (m *mockStore) Search(ctx context.Context, vector []float32, k int) ([]core.ScoredChunk, error) {
	if m.searchFunc != nil {
		return m.searchFunc(ctx, vector, k)
	}
	return nil, nil
}

func (m *mockStore) Count(ctx context.Context) (int, error) { return 0, nil }
func (m *mockStore) Close() error                           { return nil }

func chunk(id, text string, score float32) core.ScoredChunk {
	return core.ScoredChunk{Chunk: core.Chunk{ID: id, Text: text}, Score: score}
}

func TestRetrieve_OrdersAndLimits(t *testing.T) {
	store := &mockStore{searchFunc: func(ctx context.Context, vector []float32, k int) ([]core.ScoredChunk, error) {
		return []core.ScoredChunk{
			chunk("b", "claims", 0.4),
			chunk("a", "term premium", 0.9),
			chunk("c", "riders", 0.7),
		}, nil
	}}

	res, err := New(&mockEmbedder{}, store).Retrieve(context.Background(), "term premium", 2)
	require.NoError(t, err)
	require.Len(t, res, 2)
	assert.Equal(t, "a", res[0].ID)
	assert.Equal(t, "c", res[1].ID)
}

func TestRetrieve_InvalidInput(t *testing.T) {
	emb := &mockEmbedder{}
	r := New(emb, &mockStore{})

	tests := []struct {
		name  string
		query string
		k     int
	}{
		{"empty", "", 2},
		{"whitespace", " \t\n", 2},
		{"zero k", "premium", 0},
		{"negative k", "premium", -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.Retrieve(context.Background(), tt.query, tt.k)
			require.ErrorIs(t, err, core.ErrInvalidQuery)
		})
	}
	assert.Zero(t, emb.calls)
}

func TestRetrieve_ErrorMapping(t *testing.T) {
	boom := errors.New("boom")

	tests := []struct {
		name     string
		embedder *mockEmbedder
		store    *mockStore
		want     error
		notWant  error
	}{
		{
			name:     "embedding failure",
			embedder: &mockEmbedder{embedFunc: func(ctx context.Context, text string) ([]float32, error) { return nil, boom }},
			store:    &mockStore{},
			want:     core.ErrEmbedding,
			notWant:  core.ErrRetrievalUnavailable,
		},
		{
			name:     "store failure",
			embedder: &mockEmbedder{},
			store: &mockStore{searchFunc: func(ctx context.Context, vector []float32, k int) ([]core.ScoredChunk, error) {
				return nil, boom
			}},
			want:    core.ErrRetrievalUnavailable,
			notWant: core.ErrEmbedding,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.embedder, tt.store).Retrieve(context.Background(), "q", 1)
			require.ErrorIs(t, err, tt.want)
			require.ErrorIs(t, err, boom)
			assert.NotErrorIs(t, err, tt.notWant)
		})
	}
}

func TestRetrieve_EmptyStore(t *testing.T) {
	res, err := New(&mockEmbedder{}, &mockStore{}).Retrieve(context.Background(), "premium", 3)
	require.NoError(t, err)
	assert.Empty(t, res)
}

func TestRetrieve_HTMLChunksFlattened(t *testing.T) {
	store := &mockStore{searchFunc: func(ctx context.Context, vector []float32, k int) ([]core.ScoredChunk, error) {
		c := chunk("h", "<p>Grace period is 30 days.</p>", 0.8)
		c.Metadata = map[string]string{"format": "html"}
		return []core.ScoredChunk{c, chunk("p", "<b>kept</b>", 0.5)}, nil
	}}

	res, err := New(&mockEmbedder{}, store).Retrieve(context.Background(), "grace period", 2)
	require.NoError(t, err)
	assert.Equal(t, "Grace period is 30 days.", res[0].Text)
	assert.Equal(t, "<b>kept</b>", res[1].Text)
}
