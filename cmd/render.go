package cmd

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/schemadrift/schemadrift/internal/schema"
)

// renderDiff prints the structural diff as a table, one row per changed
// column, in the diff's deterministic order.
func renderDiff(w io.Writer, result schema.Result) {
	if result.Empty() {
		_, _ = fmt.Fprintln(w, "No structural changes detected.")
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Column", "Change", "Baseline", "Candidate"})

	for _, column := range result.Added {
		t.AppendRow(table.Row{column, "added", "", ""})
	}

	for _, column := range result.Removed {
		t.AppendRow(table.Row{column, "removed", "", ""})
	}

	for _, conflict := range result.Conflicts {
		t.AppendRow(table.Row{conflict.Column, "type change", conflict.Baseline, conflict.Candidate})
	}

	t.Render()
}

// renderSchema prints a schema's columns in declaration-independent sorted
// order.
func renderSchema(w io.Writer, s schema.Schema) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Column", "Type"})

	for _, column := range s.Columns() {
		t.AppendRow(table.Row{column, s[column]})
	}

	t.Render()
}
