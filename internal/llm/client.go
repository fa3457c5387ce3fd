package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/schemadrift/schemadrift/internal/errors"
)

// Client implements the Service interface with multiple provider support
type Client struct {
	config     Config
	httpClient *http.Client
}

// NewClient creates a new generation client with the given configuration
func NewClient(config Config) *Client {
	if config.Timeout <= 0 {
		config.Timeout = DefaultTimeout
	}

	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
	}
}

// Configure updates the client configuration
func (c *Client) Configure(config Config) error {
	if config.Timeout <= 0 {
		config.Timeout = DefaultTimeout
	}

	switch config.Provider {
	case ProviderOllama:
		if config.BaseURL == "" {
			config.BaseURL = DefaultOllamaURL
		}

		if config.Model == "" {
			config.Model = DefaultModel
		}
	case ProviderRemote:
		if config.Endpoint == "" {
			return errors.New(errors.ErrTypeConfig,
				"endpoint is required for the remote provider")
		}
	default:
		return errors.Newf(errors.ErrTypeConfig, "unsupported provider: %s", config.Provider)
	}

	c.config = config
	c.httpClient.Timeout = config.Timeout

	return nil
}

// Generate sends system and user messages to the configured backend and
// returns the reply text verbatim.
func (c *Client) Generate(
	ctx context.Context,
	prompt string,
	systemInstructions string,
) (string, error) {
	if c.config.Provider == "" {
		return "", errors.New(errors.ErrTypeConfig, "generation client not configured")
	}

	messages := []chatMessage{
		{Role: "system", Content: systemInstructions},
		{Role: "user", Content: prompt},
	}

	switch c.config.Provider {
	case ProviderOllama:
		return c.generateOllama(ctx, messages)
	case ProviderRemote:
		return c.generateRemote(ctx, messages)
	default:
		return "", errors.Newf(errors.ErrTypeConfig, "unsupported provider: %s", c.config.Provider)
	}
}

// chatMessage is the OpenAI-style message shape both backends accept
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Ollama chat API structures
type ollamaRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
}

type ollamaResponse struct {
	Message ollamaMessage `json:"message"`
	Done    bool          `json:"done"`
	Error   string        `json:"error,omitempty"`
}

type ollamaMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// generateOllama handles chat calls against the loopback Ollama API
func (c *Client) generateOllama(ctx context.Context, messages []chatMessage) (string, error) {
	reqBody := ollamaRequest{
		Model:    c.config.Model,
		Messages: messages,
		Stream:   false,
	}

	respBody, err := c.makeRequest(ctx, c.config.BaseURL+"/api/chat", reqBody, "")
	if err != nil {
		return "", err
	}

	// Ollama replies with either a single object or a list of chunks whose
	// message contents concatenate to the full reply.
	trimmed := bytes.TrimLeft(respBody, " \t\r\n")
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var chunks []ollamaResponse
		if err := json.Unmarshal(respBody, &chunks); err != nil {
			return "", errors.Wrap(err, errors.ErrTypeGeneration,
				"failed to parse Ollama response")
		}

		var sb strings.Builder
		for _, chunk := range chunks {
			sb.WriteString(chunk.Message.Content)
		}

		return sb.String(), nil
	}

	var response ollamaResponse
	if err := json.Unmarshal(respBody, &response); err != nil {
		return "", errors.Wrap(err, errors.ErrTypeGeneration, "failed to parse Ollama response")
	}

	if response.Error != "" {
		return "", errors.Newf(errors.ErrTypeGeneration, "Ollama API error: %s", response.Error)
	}

	return response.Message.Content, nil
}

// Remote endpoint structures
type remoteRequest struct {
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
}

type remoteResponse struct {
	Text    string         `json:"text,omitempty"`
	Choices []remoteChoice `json:"choices,omitempty"`
}

type remoteChoice struct {
	Message chatMessage `json:"message"`
}

// generateRemote handles calls to a remote HTTP endpoint with a simple JSON
// contract: either {text: "..."} or an OpenAI-style choices list.
func (c *Client) generateRemote(ctx context.Context, messages []chatMessage) (string, error) {
	reqBody := remoteRequest{
		Messages: messages,
		Stream:   false,
	}

	respBody, err := c.makeRequest(ctx, c.config.Endpoint, reqBody, c.config.APIKey)
	if err != nil {
		return "", err
	}

	var response remoteResponse
	if err := json.Unmarshal(respBody, &response); err != nil {
		return "", errors.Wrap(err, errors.ErrTypeGeneration, "failed to parse remote response")
	}

	if response.Text != "" {
		return response.Text, nil
	}

	if len(response.Choices) > 0 {
		return response.Choices[0].Message.Content, nil
	}

	return "", errors.New(errors.ErrTypeGeneration, "remote response carried no text")
}

// makeRequest makes an HTTP POST to the backend and returns the raw body
func (c *Client) makeRequest(
	ctx context.Context,
	url string,
	reqBody interface{},
	apiKey string,
) ([]byte, error) {
	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrTypeGeneration, "failed to marshal request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrTypeGeneration, "failed to create request")
	}

	req.Header.Set("Content-Type", "application/json")

	if apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrTypeGeneration, "failed to reach backend")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrTypeGeneration, "failed to read response")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, errors.Newf(errors.ErrTypeGeneration,
			"backend request failed with status %d: %s",
			resp.StatusCode, fmt.Sprintf("%.200s", string(body)))
	}

	return body, nil
}
