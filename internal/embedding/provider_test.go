package embedding

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schemadrift/schemadrift/internal/errors"
)

func TestNewProviderDisabled(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Enabled = false

	provider, err := NewProvider(cfg)
	require.NoError(t, err)

	assert.False(t, provider.Enabled())
	assert.Equal(t, "disabled", provider.Name())

	_, err = provider.Embed(context.Background(), []string{"text"})
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrTypeRetrieval))
}

func TestNewProviderUnsupported(t *testing.T) {
	_, err := NewProvider(Config{Provider: "cohere", Enabled: true})
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrTypeConfig))
}

func TestOllamaEmbed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/embed", r.URL.Path)

		var req ollamaEmbedRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "nomic-embed-text", req.Model)
		assert.Equal(t, []string{"first", "second"}, req.Input)

		resp := ollamaEmbedResponse{Embeddings: [][]float64{
			{3, 4, 0},
			{0, 0, 2},
		}}
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	defer server.Close()

	provider := NewOllamaProvider(Config{
		Provider:   "ollama",
		Model:      "nomic-embed-text",
		BaseURL:    server.URL,
		Dimensions: 3,
		Enabled:    true,
	})

	vectors, err := provider.Embed(context.Background(), []string{"first", "second"})
	require.NoError(t, err)
	require.Len(t, vectors, 2)

	// {3,4,0} normalizes to {0.6, 0.8, 0}.
	assert.InDelta(t, 0.6, vectors[0][0], 1e-6)
	assert.InDelta(t, 0.8, vectors[0][1], 1e-6)
	assert.InDelta(t, 1.0, vectors[1][2], 1e-6)

	for _, vec := range vectors {
		var sum float64
		for _, v := range vec {
			sum += float64(v) * float64(v)
		}

		assert.InDelta(t, 1.0, math.Sqrt(sum), 1e-6)
	}
}

func TestOllamaEmbedEmptyInput(t *testing.T) {
	provider := NewOllamaProvider(DefaultConfig())

	vectors, err := provider.Embed(context.Background(), nil)
	require.NoError(t, err)
	assert.Nil(t, vectors)
}

func TestOllamaEmbedCountMismatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		resp := ollamaEmbedResponse{Embeddings: [][]float64{{1, 0}}}
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	defer server.Close()

	provider := NewOllamaProvider(Config{Provider: "ollama", BaseURL: server.URL, Enabled: true})

	_, err := provider.Embed(context.Background(), []string{"a", "b"})
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrTypeRetrieval))
}

func TestOllamaEmbedDimensionMismatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		resp := ollamaEmbedResponse{Embeddings: [][]float64{{1, 0}}}
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	defer server.Close()

	provider := NewOllamaProvider(Config{
		Provider:   "ollama",
		BaseURL:    server.URL,
		Dimensions: 768,
		Enabled:    true,
	})

	_, err := provider.Embed(context.Background(), []string{"a"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dimension mismatch")
}

func TestOllamaEmbedBackendError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "model not loaded", http.StatusInternalServerError)
	}))
	defer server.Close()

	provider := NewOllamaProvider(Config{Provider: "ollama", BaseURL: server.URL, Enabled: true})

	_, err := provider.Embed(context.Background(), []string{"a"})
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrTypeRetrieval))
}

func TestNormalizeZeroVector(t *testing.T) {
	vec := []float32{0, 0, 0}
	normalize(vec)
	assert.Equal(t, []float32{0, 0, 0}, vec)
}
