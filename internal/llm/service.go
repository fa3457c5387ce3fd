package llm

import (
	"context"
	"time"
)

// Service defines the interface for the text-generation backend. The core
// treats it as a black box: prompt in, text out.
type Service interface {
	Generate(ctx context.Context, prompt string, systemInstructions string) (string, error)
	Configure(config Config) error
}

// Config represents text-generation backend configuration
type Config struct {
	Provider string        `json:"provider"` // ollama, remote
	Model    string        `json:"model"`
	BaseURL  string        `json:"base_url,omitempty"` // ollama host
	Endpoint string        `json:"endpoint,omitempty"` // remote endpoint URL
	APIKey   string        `json:"api_key,omitempty"`
	Timeout  time.Duration `json:"timeout,omitempty"`
}

// Provider constants for the supported backends
const (
	ProviderOllama = "ollama"
	ProviderRemote = "remote"
)

const (
	// DefaultTimeout bounds every generation call; past it the call fails
	// rather than hangs.
	DefaultTimeout = 120 * time.Second

	// DefaultOllamaURL is the loopback Ollama host used when none is set.
	DefaultOllamaURL = "http://localhost:11434"

	// DefaultModel is the model used by the Ollama provider when none is set.
	DefaultModel = "llama3.1:8b"
)
