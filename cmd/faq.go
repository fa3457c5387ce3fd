package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/schemadrift/schemadrift/internal/assistant"
)

var faqCmd = &cobra.Command{
	Use:   "faq",
	Short: "Show frequently asked schema evolution questions",
	RunE: func(_ *cobra.Command, _ []string) error {
		printFAQ(os.Stdout)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(faqCmd)
}

func printFAQ(w io.Writer) {
	for i, question := range assistant.FAQ {
		_, _ = fmt.Fprintf(w, "%d. %s\n", i+1, question)
	}
}
