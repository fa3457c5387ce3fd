package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/schemadrift/schemadrift/internal/errors"
	"github.com/schemadrift/schemadrift/internal/warehouse"
)

var browseDBPath string

var browseCmd = &cobra.Command{
	Use:   "browse [database [schema [table]]]",
	Short: "Browse live warehouse schemas step by step",
	Long: `Browse the configured warehouse. With no arguments, lists databases; each
additional argument narrows the listing. Naming a table prints its columns
in declared order, ready to use as a diff baseline.

Examples:
  schemadrift browse
  schemadrift browse memory
  schemadrift browse memory analytics
  schemadrift browse memory analytics orders`,
	Args: cobra.MaximumNArgs(3),
	RunE: runBrowse,
}

func init() {
	browseCmd.Flags().StringVar(&browseDBPath, "db-path", "", "DuckDB database file (overrides configuration)")

	rootCmd.AddCommand(browseCmd)
}

func runBrowse(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	rt, err := newRuntime()
	if err != nil {
		return err
	}

	path := browseDBPath
	if path == "" {
		path = rt.cfg.Warehouse.Path
	}

	if path == "" {
		return errors.New(errors.ErrTypeConfig,
			"no warehouse configured; set SCHEMADRIFT_WAREHOUSE_PATH or pass --db-path")
	}

	provider, err := warehouse.NewDuckDBProvider(path)
	if err != nil {
		return errors.NewSchemaSourceError(err, "connection")
	}

	defer func() { _ = provider.Close() }()

	switch len(args) {
	case 0:
		databases, err := provider.ListDatabases(ctx)
		if err != nil {
			return err
		}

		printNames("Databases", databases)
	case 1:
		schemas, err := provider.ListSchemas(ctx, args[0])
		if err != nil {
			return err
		}

		printNames("Schemas in "+args[0], schemas)
	case 2:
		tables, err := provider.ListTables(ctx, args[0], args[1])
		if err != nil {
			return err
		}

		printNames(fmt.Sprintf("Tables in %s.%s", args[0], args[1]), tables)
	case 3:
		columns, err := provider.FetchColumns(ctx, args[0], args[1], args[2])
		if err != nil {
			return err
		}

		if len(columns) == 0 {
			fmt.Printf("Table %s.%s.%s has no columns or does not exist.\n",
				args[0], args[1], args[2])

			return nil
		}

		renderSchema(os.Stdout, columns)
	}

	return nil
}

func printNames(header string, names []string) {
	fmt.Println(header + ":")

	if len(names) == 0 {
		fmt.Println("  (none)")
		return
	}

	for _, name := range names {
		fmt.Println("  " + name)
	}
}
