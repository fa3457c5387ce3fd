package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/schemadrift/schemadrift/internal/errors"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Display the active configuration",
	Long: `Show the resolved configuration after merging the config file and
environment variables. Secrets are never printed.`,
	RunE: runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	rt, err := newRuntime()
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(rt.cfg, "", "  ")
	if err != nil {
		return errors.Wrap(err, errors.ErrTypeInternal, "failed to render configuration")
	}

	fmt.Println(string(data))

	return nil
}
