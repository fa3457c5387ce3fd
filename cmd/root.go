package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"

	"github.com/schemadrift/schemadrift/internal/assistant"
	"github.com/schemadrift/schemadrift/internal/config"
	"github.com/schemadrift/schemadrift/internal/corpus"
	"github.com/schemadrift/schemadrift/internal/embedding"
	"github.com/schemadrift/schemadrift/internal/llm"
	"github.com/schemadrift/schemadrift/internal/logging"
	"github.com/schemadrift/schemadrift/internal/querylog"
)

var rootCmd = &cobra.Command{
	Use:   "schemadrift",
	Short: "Reason about table schema changes with model-drafted explanations and SQL",
	Long: `schemadrift compares two table schema snapshots, reports added, removed,
and type-changed columns, and asks a language model to explain the change and
draft migration SQL. It also answers free-form questions about schema
evolution, augmented by a small local document corpus.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() error {
	ctx := context.Background()

	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}

	return err
}

// runtime bundles the components a command needs, built once per invocation
// from the resolved configuration.
type runtime struct {
	cfg       *config.Config
	assistant *assistant.Assistant
}

func newRuntime() (*runtime, error) {
	secrets, err := config.NewSecretSource(filepath.Join(config.GetConfigDir(), "secrets.json"))
	if err != nil {
		logging.SetupFallbackLogger()
		return nil, err
	}

	cfg, err := config.Load(secrets)
	if err != nil {
		logging.SetupFallbackLogger()
		return nil, err
	}

	if err := logging.Initialize(cfg.Logging); err != nil {
		logging.SetupFallbackLogger()
		logging.Warnf("Falling back to stderr logging: %v", err)
	}

	client := llm.NewClient(llm.Config{})
	if err := client.Configure(llm.Config{
		Provider: cfg.LLM.Provider,
		Model:    cfg.LLM.Model,
		BaseURL:  cfg.LLM.OllamaHost,
		Endpoint: cfg.LLM.Endpoint,
		APIKey:   cfg.LLM.APIKey,
		Timeout:  time.Duration(cfg.LLM.TimeoutSeconds) * time.Second,
	}); err != nil {
		return nil, err
	}

	embedder, err := embedding.NewProvider(embedding.Config{
		Provider:   cfg.Embedding.Provider,
		Model:      cfg.Embedding.Model,
		BaseURL:    cfg.Embedding.Host,
		Dimensions: cfg.Embedding.Dimensions,
		Enabled:    cfg.Embedding.Enabled,
	})
	if err != nil {
		return nil, err
	}

	store := corpus.NewStore(cfg.Corpus.Directory, embedder)

	var log querylog.Logger = querylog.Discard{}
	if cfg.QueryLog.Enabled {
		log = querylog.NewCSVLog(cfg.QueryLog.Path)
	}

	return &runtime{
		cfg:       cfg,
		assistant: assistant.New(client, store, log, cfg.QueryLog.User),
	}, nil
}

// withSpinner runs fn behind a terminal spinner so long generation calls do
// not look like a hang.
func withSpinner(message string, fn func() error) error {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	s.Writer = os.Stderr
	s.Suffix = " " + message
	s.Start()

	defer s.Stop()

	return fn()
}
