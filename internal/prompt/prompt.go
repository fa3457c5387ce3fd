// Package prompt builds the natural-language prompts sent to the
// text-generation backend. Rendering is pure and byte-deterministic: the same
// inputs always produce the same prompt, which stubbed-backend tests and
// reproducible generation depend on.
package prompt

import (
	"fmt"

	"github.com/schemadrift/schemadrift/internal/schema"
)

// SystemInstructions is the fixed system message for diff explanation and
// SQL generation calls.
const SystemInstructions = "You are a Snowflake schema evolution assistant. " +
	"Be concise, precise, and include runnable SQL when asked."

// AnswerSystemInstructions is the fixed system message for free-form Q&A.
const AnswerSystemInstructions = "You answer questions about Snowflake schema evolution. " +
	"Prefer any provided context."

const explainTemplate = `You are an expert Snowflake engineer. Compare the two table schemas and explain the changes clearly and concisely.

Table: %s

Existing schema:
%s

New schema (candidate):
%s

Describe:
1) Added columns (with types)
2) Removed or missing columns and their impact
3) Data type conflicts and safe migration advice
4) Risks (NULLability, backfills, ingestion issues)
Give concise bullet points, and when appropriate, include example Snowflake SQL in a fenced code block.`

const sqlTemplate = `Generate Snowflake SQL to evolve table ` + "`%s`" + ` from the existing schema to match the new schema.
Rules:
- Preserve data: avoid destructive operations by default.
- Add new columns as NULLable unless specified.
- For type conflicts, suggest safe ALTER ... USING CAST or create intermediate columns.
- Output only the SQL inside a fenced markdown code block.

Existing schema:
%s

New schema:
%s`

const answerTemplate = `Context (may be empty):
%s

Question: %s

Answer clearly and concisely. When relevant, include Snowflake SQL.`

// Explain renders the diff-explanation prompt for the given table and
// schema snapshots.
func Explain(baseline, candidate schema.Schema, table string) string {
	return fmt.Sprintf(explainTemplate, table, baseline.Format(), candidate.Format())
}

// MigrationSQL renders the prompt instructing the backend to emit only
// non-destructive migration SQL.
func MigrationSQL(baseline, candidate schema.Schema, table string) string {
	return fmt.Sprintf(sqlTemplate, table, baseline.Format(), candidate.Format())
}

// Answer renders the Q&A prompt. The context block may be empty.
func Answer(question, context string) string {
	return fmt.Sprintf(answerTemplate, context, question)
}
