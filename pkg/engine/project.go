package engine

import (
	"remap/pkg/schema"
)

// ProjectResult is the outcome of projecting a table onto a column
// configuration.
type ProjectResult struct {
	Table *schema.Table `json:"table"`
	// Missing lists configured columns absent from the input. They are
	// emitted as null and reported as warnings, not failures.
	Missing []string `json:"missing,omitempty"`
	// Fallback is set when no configuration was supplied and the table was
	// emitted with all columns in their natural order.
	Fallback bool `json:"fallback"`
}

// Project restricts and reorders a table to the configured column list.
// Output column order equals configuration order exactly. An empty or nil
// configuration triggers the all-columns fallback, which the caller must
// surface in the run report.
func Project(tbl *schema.Table, columns []string) *ProjectResult {
	if len(columns) == 0 {
		out := schema.NewTable(tbl.Columns)
		out.Rows = append(out.Rows, tbl.Rows...)
		return &ProjectResult{Table: out, Fallback: true}
	}

	result := &ProjectResult{Table: schema.NewTable(columns)}

	present := make(map[string]bool, len(tbl.Columns))
	for _, c := range tbl.Columns {
		present[c] = true
	}
	for _, c := range columns {
		if !present[c] {
			result.Missing = append(result.Missing, c)
		}
	}

	for _, row := range tbl.Rows {
		out := make(schema.Record, len(columns))
		for _, c := range columns {
			out[c] = row.Get(c) // absent fields read as null
		}
		result.Table.Rows = append(result.Table.Rows, out)
	}

	return result
}
