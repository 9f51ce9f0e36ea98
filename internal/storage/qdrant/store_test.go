package qdrant

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandevgo/insurebot/internal/core"
)

func TestStore_Search(t *testing.T) {
	var got struct {
		Vector      []float32 `json:"vector"`
		Limit       int       `json:"limit"`
		WithPayload bool      `json:"with_payload"`
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/collections/quickstart/points/search", r.URL.Path)
		assert.Equal(t, "secret", r.Header.Get("api-key"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		_, _ = w.Write([]byte(`{"result":[
			{"id":7,"score":0.92,"payload":{"text":"Premiums are paid yearly.","source":"lic.pdf","page":3}},
			{"id":"a-uuid","score":0.41,"payload":{"text":"Claims take 30 days."}}
		]}`))
	}))
	defer srv.Close()

	s := NewStore(Config{URL: srv.URL, APIKey: "secret", Collection: "quickstart"})
	res, err := s.Search(context.Background(), []float32{0.1, 0.2}, 2)
	require.NoError(t, err)

	assert.Equal(t, []float32{0.1, 0.2}, got.Vector)
	assert.Equal(t, 2, got.Limit)
	assert.True(t, got.WithPayload)

	require.Len(t, res, 2)
	assert.Equal(t, "7", res[0].ID)
	assert.Equal(t, "Premiums are paid yearly.", res[0].Text)
	assert.Equal(t, map[string]string{"source": "lic.pdf"}, res[0].Metadata)
	assert.InDelta(t, 0.92, res[0].Score, 1e-6)
	assert.Equal(t, "a-uuid", res[1].ID)
}

func TestStore_SearchErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"status":{"error":"Not found: Collection missing"}}`, http.StatusNotFound)
	}))
	defer srv.Close()

	s := NewStore(Config{URL: srv.URL, Collection: "missing"})
	_, err := s.Search(context.Background(), []float32{1}, 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")

	_, err = s.Search(context.Background(), []float32{1}, 0)
	require.ErrorIs(t, err, core.ErrInvalidQuery)
}

func TestStore_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	s := NewStore(Config{URL: url, Collection: "quickstart"})
	_, err := s.Search(context.Background(), []float32{1}, 1)
	require.Error(t, err)
}

func TestStore_Count(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/collections/quickstart/points/count", r.URL.Path)
		_, _ = w.Write([]byte(`{"result":{"count":42}}`))
	}))
	defer srv.Close()

	n, err := NewStore(Config{URL: srv.URL, Collection: "quickstart"}).Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 42, n)
}
