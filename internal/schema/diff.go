package schema

import "sort"

// Conflict records a column present in both snapshots with differing type
// labels. Carrying both labels lets prompts and renderers describe the
// conflict without re-reading either schema.
type Conflict struct {
	Column    string    `json:"column"`
	Baseline  TypeLabel `json:"baseline"`
	Candidate TypeLabel `json:"candidate"`
}

// Result is the three-way classification of column changes between a
// baseline and a candidate schema. The three sequences are pairwise disjoint
// by construction and each is sorted ascending by column name, so identical
// inputs always produce byte-identical output.
type Result struct {
	Added     []string   `json:"added"`
	Removed   []string   `json:"removed"`
	Conflicts []Conflict `json:"conflicts"`
}

// Empty reports whether the diff found no changes.
func (r Result) Empty() bool {
	return len(r.Added) == 0 && len(r.Removed) == 0 && len(r.Conflicts) == 0
}

// ConflictColumns returns just the conflicting column names, sorted.
func (r Result) ConflictColumns() []string {
	cols := make([]string, 0, len(r.Conflicts))
	for _, c := range r.Conflicts {
		cols = append(cols, c.Column)
	}

	return cols
}

// Diff compares two schemas as sets of columns. Columns only in the
// candidate are added, columns only in the baseline are removed, and columns
// in both with different labels are conflicts. Empty schemas are valid input
// and diffing a schema against itself yields an empty result.
func Diff(baseline, candidate Schema) Result {
	var result Result

	for col := range candidate {
		if _, ok := baseline[col]; !ok {
			result.Added = append(result.Added, col)
		}
	}

	for col, baseType := range baseline {
		candType, ok := candidate[col]
		if !ok {
			result.Removed = append(result.Removed, col)
			continue
		}

		if baseType != candType {
			result.Conflicts = append(result.Conflicts, Conflict{
				Column:    col,
				Baseline:  baseType,
				Candidate: candType,
			})
		}
	}

	sort.Strings(result.Added)
	sort.Strings(result.Removed)
	sort.Slice(result.Conflicts, func(i, j int) bool {
		return result.Conflicts[i].Column < result.Conflicts[j].Column
	})

	return result
}
