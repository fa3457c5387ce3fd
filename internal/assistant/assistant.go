// Package assistant orchestrates retrieval, prompt composition, and
// delegation to the text-generation backend, and runs the diff analysis
// workflow whose output feeds follow-up questions.
package assistant

import (
	"context"
	"fmt"
	"strings"

	"github.com/schemadrift/schemadrift/internal/corpus"
	"github.com/schemadrift/schemadrift/internal/llm"
	"github.com/schemadrift/schemadrift/internal/logging"
	"github.com/schemadrift/schemadrift/internal/prompt"
	"github.com/schemadrift/schemadrift/internal/querylog"
	"github.com/schemadrift/schemadrift/internal/schema"
)

const (
	// RetrievalTopK is how many corpus documents are attached as context.
	RetrievalTopK = 2

	// SnippetMaxLen caps each retrieved snippet, in characters.
	SnippetMaxLen = 1200
)

// Assistant answers free-form questions and analyzes schema changes.
type Assistant struct {
	llm    llm.Service
	corpus *corpus.Store
	log    querylog.Logger
	user   string
}

// New creates an assistant over the given backend, corpus, and query log.
func New(service llm.Service, store *corpus.Store, log querylog.Logger, user string) *Assistant {
	if log == nil {
		log = querylog.Discard{}
	}

	return &Assistant{
		llm:    service,
		corpus: store,
		log:    log,
		user:   user,
	}
}

// Answer runs the retrieval-augmented answering pipeline: retrieve top
// matches for the question, merge them with the optional extra context,
// compose the answer prompt, and delegate to the backend. Retrieval failures
// degrade to an empty context and are never surfaced; backend failures
// propagate to the caller.
func (a *Assistant) Answer(ctx context.Context, question string, extraContext string) (string, error) {
	contextText := extraContext

	snippets := a.retrieve(ctx, question)
	if len(snippets) > 0 {
		if contextText != "" {
			contextText += "\n\n"
		}

		contextText += strings.Join(snippets, "\n\n")
	}

	answer, err := a.llm.Generate(ctx, prompt.Answer(question, contextText), prompt.AnswerSystemInstructions)
	if err != nil {
		return "", err
	}

	if err := a.log.Append(a.user, question, answer); err != nil {
		logging.Warnf("Failed to append query log record: %v", err)
	}

	return answer, nil
}

// retrieve returns labelled, truncated snippets for the top corpus matches.
// Any failure yields no snippets; retrieval is best-effort.
func (a *Assistant) retrieve(ctx context.Context, question string) []string {
	if a.corpus == nil {
		return nil
	}

	matches, err := a.corpus.Query(ctx, question, RetrievalTopK)
	if err != nil {
		logging.Debugf("Retrieval degraded to empty context: %v", err)
		return nil
	}

	snippets := make([]string, 0, len(matches))

	for _, m := range matches {
		text := a.corpus.Text(m.Index)

		// The cap is in characters, not bytes; slicing runes keeps a
		// multi-byte sequence from being split mid-document.
		if runes := []rune(text); len(runes) > SnippetMaxLen {
			text = string(runes[:SnippetMaxLen])
		}

		snippets = append(snippets, fmt.Sprintf("[Doc %d]\n%s", m.Index, text))
	}

	return snippets
}

// Analysis is the result of one diff-and-generate cycle.
type Analysis struct {
	Table       string
	Baseline    schema.Schema
	Candidate   schema.Schema
	Diff        schema.Result
	Explanation string
	SQL         string
}

// ContextSummary renders the analysis as the carryover text made available
// to follow-up questions.
func (an *Analysis) ContextSummary() string {
	return fmt.Sprintf("Existing: %s\nNew: %s\nSQL: %s",
		an.Baseline.Format(), an.Candidate.Format(), an.SQL)
}

// AnalyzeChanges diffs the two snapshots and asks the backend for an
// explanation and migration SQL. The diff itself never fails; if generation
// fails the error carries the diff so the caller can still show it.
func (a *Assistant) AnalyzeChanges(
	ctx context.Context,
	baseline, candidate schema.Schema,
	table string,
) (*Analysis, error) {
	analysis := &Analysis{
		Table:     table,
		Baseline:  baseline,
		Candidate: candidate,
		Diff:      schema.Diff(baseline, candidate),
	}

	explanation, err := a.llm.Generate(
		ctx,
		prompt.Explain(baseline, candidate, table),
		prompt.SystemInstructions,
	)
	if err != nil {
		return analysis, err
	}

	analysis.Explanation = explanation

	sql, err := a.llm.Generate(
		ctx,
		prompt.MigrationSQL(baseline, candidate, table),
		prompt.SystemInstructions,
	)
	if err != nil {
		return analysis, err
	}

	analysis.SQL = sql

	return analysis, nil
}

// DraftSQL asks the backend for migration SQL only, without an explanation.
func (a *Assistant) DraftSQL(
	ctx context.Context,
	baseline, candidate schema.Schema,
	table string,
) (string, error) {
	return a.llm.Generate(
		ctx,
		prompt.MigrationSQL(baseline, candidate, table),
		prompt.SystemInstructions,
	)
}
