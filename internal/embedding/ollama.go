package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/schemadrift/schemadrift/internal/errors"
)

// OllamaProvider generates embeddings via the Ollama embed API on a local
// host. Vectors are unit-normalized before being returned, so dot products
// over them equal cosine similarity.
type OllamaProvider struct {
	config     Config
	httpClient *http.Client
}

type ollamaEmbedRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type ollamaEmbedResponse struct {
	Embeddings [][]float64 `json:"embeddings"`
	Error      string      `json:"error,omitempty"`
}

// NewOllamaProvider creates an Ollama-backed embedding provider
func NewOllamaProvider(config Config) *OllamaProvider {
	return &OllamaProvider{
		config: config,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// Embed generates one normalized vector per input text
func (p *OllamaProvider) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	reqBody := ollamaEmbedRequest{
		Model: p.config.Model,
		Input: texts,
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrTypeRetrieval, "failed to marshal embed request")
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		p.config.BaseURL+"/api/embed",
		bytes.NewBuffer(jsonBody),
	)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrTypeRetrieval, "failed to create embed request")
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrTypeRetrieval, "failed to reach embedding backend")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrTypeRetrieval, "failed to read embed response")
	}

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Newf(errors.ErrTypeRetrieval,
			"embed request failed with status %d: %.200s", resp.StatusCode, string(body))
	}

	var result ollamaEmbedResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, errors.Wrap(err, errors.ErrTypeRetrieval, "failed to parse embed response")
	}

	if result.Error != "" {
		return nil, errors.Newf(errors.ErrTypeRetrieval, "embedding API error: %s", result.Error)
	}

	if len(result.Embeddings) != len(texts) {
		return nil, errors.Newf(errors.ErrTypeRetrieval,
			"expected %d embeddings, got %d", len(texts), len(result.Embeddings))
	}

	vectors := make([][]float32, len(result.Embeddings))

	for i, emb := range result.Embeddings {
		if p.config.Dimensions > 0 && len(emb) != p.config.Dimensions {
			return nil, errors.Newf(errors.ErrTypeRetrieval,
				"dimension mismatch: expected %d, got %d", p.config.Dimensions, len(emb))
		}

		vec := make([]float32, len(emb))
		for j, v := range emb {
			vec[j] = float32(v)
		}

		normalize(vec)
		vectors[i] = vec
	}

	return vectors, nil
}

// Dimensions returns the dimensionality of vectors produced by this provider
func (p *OllamaProvider) Dimensions() int {
	return p.config.Dimensions
}

// Enabled returns whether the provider is enabled
func (p *OllamaProvider) Enabled() bool {
	return p.config.Enabled
}

// Name returns the provider name for identification
func (p *OllamaProvider) Name() string {
	return fmt.Sprintf("ollama:%s", p.config.Model)
}
