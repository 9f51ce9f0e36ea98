package chroma

import (
	"context"
	"testing"

	"github.com/philippgille/chromem-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandevgo/insurebot/internal/core"
)

func seed(t *testing.T, s *Store) {
	t.Helper()
	docs := []chromem.Document{
		{ID: "term", Content: "Term plans pay the sum assured on death.", Embedding: []float32{1, 0, 0}},
		{ID: "endow", Content: "Endowment plans pay on maturity.", Embedding: []float32{0.8, 0.6, 0}, Metadata: map[string]string{"source": "endowment.pdf"}},
		{ID: "claims", Content: "Claims need a death certificate.", Embedding: []float32{0, 0, 1}},
	}
	for _, d := range docs {
		require.NoError(t, s.col.AddDocument(context.Background(), d))
	}
}

func TestStore_Search(t *testing.T) {
	ctx := context.Background()
	s, err := newStore(ctx, chromem.NewDB(), "quickstart", nil)
	require.NoError(t, err)
	seed(t, s)

	res, err := s.Search(ctx, []float32{1, 0, 0}, 2)
	require.NoError(t, err)
	require.Len(t, res, 2)

	assert.Equal(t, "term", res[0].ID)
	assert.Equal(t, "endow", res[1].ID)
	assert.GreaterOrEqual(t, res[0].Score, res[1].Score)
	assert.Equal(t, "endowment.pdf", res[1].Metadata["source"])
}

func TestStore_SearchClampsToCollectionSize(t *testing.T) {
	ctx := context.Background()
	s, err := newStore(ctx, chromem.NewDB(), "quickstart", nil)
	require.NoError(t, err)
	seed(t, s)

	res, err := s.Search(ctx, []float32{0, 0, 1}, 10)
	require.NoError(t, err)
	assert.Len(t, res, 3)
	assert.Equal(t, "claims", res[0].ID)
}

func TestStore_EmptyCollection(t *testing.T) {
	ctx := context.Background()
	s, err := newStore(ctx, chromem.NewDB(), "empty", nil)
	require.NoError(t, err)

	res, err := s.Search(ctx, []float32{1, 0, 0}, 3)
	require.NoError(t, err)
	assert.Empty(t, res)

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestStore_InvalidK(t *testing.T) {
	s, err := newStore(context.Background(), chromem.NewDB(), "quickstart", nil)
	require.NoError(t, err)

	_, err = s.Search(context.Background(), []float32{1, 0, 0}, 0)
	require.ErrorIs(t, err, core.ErrInvalidQuery)
}

func TestOpen_Persistent(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	s, err := Open(ctx, dir, "quickstart", false, nil)
	require.NoError(t, err)
	seed(t, s)
	require.NoError(t, s.Close())

	reopened, err := Open(ctx, dir, "quickstart", false, nil)
	require.NoError(t, err)

	n, err := reopened.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}
