package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/schemadrift/schemadrift/internal/assistant"
	"github.com/schemadrift/schemadrift/internal/config"
	"github.com/schemadrift/schemadrift/internal/errors"
	"github.com/schemadrift/schemadrift/internal/logging"
)

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Ask a free-form schema evolution question",
	Long: `Ask a question about schema evolution. The answer is grounded in the local
document corpus (when retrieval is available) and in the context remembered
from the most recent "diff" run.

Examples:
  schemadrift ask "How do I safely widen a VARCHAR column?"
  schemadrift ask "Why was a type change reported for order_id?"`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	question := strings.TrimSpace(args[0])
	if question == "" {
		return errors.NewValidationError("question must not be empty", "question")
	}

	rt, err := newRuntime()
	if err != nil {
		return err
	}

	session, err := assistant.LoadSession(config.SessionPath())
	if err != nil {
		logging.Warnf("Ignoring unreadable session: %v", err)

		session = assistant.NewSession()
	}

	var answer string

	genErr := withSpinner("Thinking...", func() error {
		var err error
		answer, err = rt.assistant.Answer(cmd.Context(), question, session.Context)

		return err
	})
	if genErr != nil {
		return genErr
	}

	fmt.Println(answer)

	return nil
}
