package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/schemadrift/schemadrift/internal/errors"
	"github.com/schemadrift/schemadrift/internal/schema"
)

var (
	sqlBaseline  string
	sqlCandidate string
	sqlData      string
	sqlTable     string
)

var sqlCmd = &cobra.Command{
	Use:   "sql",
	Short: "Draft migration SQL for a schema change",
	Long: `Draft the ALTER statements that migrate the baseline schema to the
candidate, without the prose explanation that "diff" produces.

Examples:
  schemadrift sql --baseline orders_v1.json --candidate orders_v2.json --table ORDERS
  schemadrift sql --baseline orders_v1.json --data new_orders.csv --table ORDERS`,
	RunE: runSQL,
}

func init() {
	sqlCmd.Flags().StringVar(&sqlBaseline, "baseline", "", "Path to the baseline schema JSON file")
	sqlCmd.Flags().StringVar(&sqlCandidate, "candidate", "", "Path to the candidate schema JSON file")
	sqlCmd.Flags().StringVar(&sqlData, "data", "", "Path to a CSV or JSON dataset to infer the candidate schema from")
	sqlCmd.Flags().StringVar(&sqlTable, "table", "MY_TABLE", "Table name used in generated SQL")

	rootCmd.AddCommand(sqlCmd)
}

func runSQL(cmd *cobra.Command, _ []string) error {
	if sqlBaseline == "" {
		return errors.NewValidationError("a baseline schema is required", "baseline")
	}

	baseline, err := loadSchemaFile(sqlBaseline)
	if err != nil {
		return err
	}

	candidate, err := resolveSQLCandidate()
	if err != nil {
		return err
	}

	rt, err := newRuntime()
	if err != nil {
		return err
	}

	var sql string

	genErr := withSpinner("Drafting migration SQL...", func() error {
		var err error
		sql, err = rt.assistant.DraftSQL(cmd.Context(), baseline, candidate, sqlTable)

		return err
	})
	if genErr != nil {
		return genErr
	}

	fmt.Println(sql)

	return nil
}

func resolveSQLCandidate() (schema.Schema, error) {
	switch {
	case sqlCandidate != "" && sqlData != "":
		return nil, errors.NewValidationError(
			"--candidate and --data are mutually exclusive", "candidate")
	case sqlCandidate != "":
		return loadSchemaFile(sqlCandidate)
	case sqlData != "":
		return inferSchemaFromData(sqlData)
	default:
		return nil, errors.NewValidationError(
			"a candidate schema (--candidate) or dataset (--data) is required", "candidate")
	}
}
