package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/schemadrift/schemadrift/internal/assistant"
	"github.com/schemadrift/schemadrift/internal/config"
	"github.com/schemadrift/schemadrift/internal/logging"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Interactive question-and-answer session",
	Long: `Start an interactive session. Each question is answered with corpus
retrieval plus the context remembered from the most recent "diff" run.

Session commands:
  /faq    show frequently asked questions
  /clear  forget the remembered diff context
  /quit   exit the session`,
	RunE: runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, _ []string) error {
	rt, err := newRuntime()
	if err != nil {
		return err
	}

	session, err := assistant.LoadSession(config.SessionPath())
	if err != nil {
		logging.Warnf("Ignoring unreadable session: %v", err)

		session = assistant.NewSession()
	}

	fmt.Println("Ask about schema evolution. /faq for examples, /quit to exit.")

	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print("> ")

		if !scanner.Scan() {
			break
		}

		line := strings.TrimSpace(scanner.Text())

		switch line {
		case "":
			continue
		case "/quit", "/exit":
			return nil
		case "/faq":
			printFAQ(os.Stdout)
			continue
		case "/clear":
			session.Remember("")

			if err := session.Save(config.SessionPath()); err != nil {
				logging.Warnf("Failed to persist session context: %v", err)
			}

			fmt.Println("Context cleared.")

			continue
		}

		var answer string

		genErr := withSpinner("Thinking...", func() error {
			var err error
			answer, err = rt.assistant.Answer(cmd.Context(), line, session.Context)

			return err
		})
		if genErr != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", genErr)
			continue
		}

		fmt.Println(answer)
		fmt.Println()
	}

	return scanner.Err()
}
