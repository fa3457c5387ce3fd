package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/schemadrift/schemadrift/internal/assistant"
	"github.com/schemadrift/schemadrift/internal/config"
	"github.com/schemadrift/schemadrift/internal/errors"
	"github.com/schemadrift/schemadrift/internal/logging"
	"github.com/schemadrift/schemadrift/internal/schema"
)

var (
	diffBaseline  string
	diffCandidate string
	diffData      string
	diffTable     string
	diffOffline   bool
)

var diffCmd = &cobra.Command{
	Use:   "diff",
	Short: "Compare two schema snapshots and draft a migration",
	Long: `Compare a baseline schema against a candidate and report added columns,
removed columns, and type conflicts. The candidate comes either from a second
schema file or is inferred from an uploaded CSV/JSON dataset. Unless --offline
is set, the model is asked to explain the change and draft migration SQL, and
the result is remembered as context for the next "ask" invocation.

Examples:
  schemadrift diff --baseline orders_v1.json --candidate orders_v2.json --table ORDERS
  schemadrift diff --baseline orders_v1.json --data new_orders.csv --table ORDERS
  schemadrift diff --baseline a.json --candidate b.json --offline`,
	RunE: runDiff,
}

func init() {
	diffCmd.Flags().StringVar(&diffBaseline, "baseline", "", "Path to the baseline schema JSON file")
	diffCmd.Flags().StringVar(&diffCandidate, "candidate", "", "Path to the candidate schema JSON file")
	diffCmd.Flags().StringVar(&diffData, "data", "", "Path to a CSV or JSON dataset to infer the candidate schema from")
	diffCmd.Flags().StringVar(&diffTable, "table", "MY_TABLE", "Table name used in generated SQL")
	diffCmd.Flags().BoolVar(&diffOffline, "offline", false, "Only compute the diff, skip model generation")

	rootCmd.AddCommand(diffCmd)
}

func runDiff(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	if diffBaseline == "" {
		return errors.NewValidationError("a baseline schema is required", "baseline")
	}

	baseline, err := loadSchemaFile(diffBaseline)
	if err != nil {
		return err
	}

	candidate, err := resolveCandidate()
	if err != nil {
		return err
	}

	result := schema.Diff(baseline, candidate)
	renderDiff(os.Stdout, result)

	if diffOffline {
		return nil
	}

	rt, err := newRuntime()
	if err != nil {
		return err
	}

	var analysis *assistant.Analysis

	genErr := withSpinner("Drafting explanation and migration SQL...", func() error {
		var err error
		analysis, err = rt.assistant.AnalyzeChanges(ctx, baseline, candidate, diffTable)

		return err
	})

	if analysis != nil {
		if analysis.Explanation != "" {
			fmt.Println("\nExplanation:")
			fmt.Println(analysis.Explanation)
		}

		if analysis.SQL != "" {
			fmt.Println("\nMigration SQL:")
			fmt.Println(analysis.SQL)
		}
	}

	if genErr != nil {
		return genErr
	}

	rememberAnalysis(analysis)

	return nil
}

// resolveCandidate picks the candidate schema from --candidate or infers it
// from the --data upload. Exactly one of the two must be set.
func resolveCandidate() (schema.Schema, error) {
	switch {
	case diffCandidate != "" && diffData != "":
		return nil, errors.NewValidationError(
			"--candidate and --data are mutually exclusive", "candidate")
	case diffCandidate != "":
		return loadSchemaFile(diffCandidate)
	case diffData != "":
		return inferSchemaFromData(diffData)
	default:
		return nil, errors.NewValidationError(
			"a candidate schema (--candidate) or dataset (--data) is required", "candidate")
	}
}

func loadSchemaFile(path string) (schema.Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrTypeFileSystem,
			"failed to read schema file %s", path)
	}

	return schema.Parse(data)
}

func inferSchemaFromData(path string) (schema.Schema, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		f, err := os.Open(path)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrTypeFileSystem,
				"failed to open dataset %s", path)
		}

		defer func() { _ = f.Close() }()

		return schema.InferCSV(f)
	case ".json":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrTypeFileSystem,
				"failed to read dataset %s", path)
		}

		return schema.InferJSON(data)
	default:
		return nil, errors.NewValidationError(
			"dataset must be a .csv or .json file", "data")
	}
}

// rememberAnalysis persists the analysis summary so a following "ask" can use
// it as conversation context. Failure to persist is not fatal.
func rememberAnalysis(analysis *assistant.Analysis) {
	session, err := assistant.LoadSession(config.SessionPath())
	if err != nil {
		logging.Warnf("Starting a fresh session: %v", err)

		session = assistant.NewSession()
	}

	session.Remember(analysis.ContextSummary())

	if err := session.Save(config.SessionPath()); err != nil {
		logging.Warnf("Failed to persist session context: %v", err)
	}
}
