// Package embedding wraps the embedding backend behind a Provider interface.
// Retrieval is a best-effort enhancement: callers must be able to continue
// without embeddings when the backend is unavailable.
package embedding

import (
	"context"
	"math"

	"github.com/schemadrift/schemadrift/internal/errors"
)

// Provider defines the interface for embedding providers
type Provider interface {
	// Embed generates one unit-normalized vector per input text
	Embed(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the dimensionality of vectors produced by this provider
	Dimensions() int

	// Enabled returns whether the provider is enabled and ready to use
	Enabled() bool

	// Name returns the provider name for identification
	Name() string
}

// Config represents embedding provider configuration
type Config struct {
	Provider   string `json:"provider"`   // "ollama" or "disabled"
	Model      string `json:"model"`      // Model name
	BaseURL    string `json:"base_url"`   // Backend host
	Dimensions int    `json:"dimensions"` // Expected embedding dimensions, 0 to skip the check
	Enabled    bool   `json:"enabled"`
}

// DefaultConfig returns default embedding configuration
func DefaultConfig() Config {
	return Config{
		Provider:   "ollama",
		Model:      "nomic-embed-text",
		BaseURL:    "http://localhost:11434",
		Dimensions: 768,
		Enabled:    true,
	}
}

// NewProvider initializes a provider from configuration
func NewProvider(config Config) (Provider, error) {
	if !config.Enabled || config.Provider == "disabled" {
		return &Disabled{}, nil
	}

	switch config.Provider {
	case "ollama":
		return NewOllamaProvider(config), nil
	default:
		return nil, errors.Newf(errors.ErrTypeConfig,
			"unsupported embedding provider: %s", config.Provider)
	}
}

// Disabled is a no-op provider for when embeddings are turned off
type Disabled struct{}

func (p *Disabled) Embed(_ context.Context, _ []string) ([][]float32, error) {
	return nil, errors.New(errors.ErrTypeRetrieval, "embedding provider is disabled")
}

func (p *Disabled) Dimensions() int { return 0 }

func (p *Disabled) Enabled() bool { return false }

func (p *Disabled) Name() string { return "disabled" }

// normalize scales a vector to unit length in place. Zero vectors are left
// untouched so a dot product against them stays zero.
func normalize(vec []float32) {
	var sum float64
	for _, v := range vec {
		sum += float64(v) * float64(v)
	}

	if sum == 0 {
		return
	}

	norm := math.Sqrt(sum)
	for i := range vec {
		vec[i] = float32(float64(vec[i]) / norm)
	}
}
