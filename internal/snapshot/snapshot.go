// Package snapshot turns a Coda document into the in-memory aggregate and
// flattened text block the assistant feeds to the model.
//
// The pipeline has three pieces: Builder walks pages → tables → rows and
// applies the emptiness filter, Format renders the aggregate into one
// deterministic text block, and Cache memoizes the (aggregate, text) pair
// for the life of the process with single-flight rebuild semantics.
package snapshot

import "github.com/sdvincy/coda-assistant/internal/coda"

// Page is one document page that survived aggregation: it holds at least one
// table with at least one surviving row.
type Page struct {
	Name   string  `json:"page_name"`
	Tables []Table `json:"tables"`
}

// Table is one aggregated table. Columns lists the column names present in
// the first surviving row, in the table's column order; Rows hold values
// keyed by column name.
type Table struct {
	Name    string     `json:"table_name"`
	Columns []string   `json:"columns"`
	Rows    []coda.Row `json:"rows"`
}

// Result is one built snapshot: the aggregate and its rendered text always
// travel together.
type Result struct {
	Pages []Page
	Text  string
}

// SkipReason says why a table was left out of the aggregate.
type SkipReason string

const (
	// SkipFault: fetching the table's columns or rows failed.
	SkipFault SkipReason = "fault"
	// SkipEmpty: no row survived the emptiness filter.
	SkipEmpty SkipReason = "empty"
)

// TableResult is the tagged outcome of aggregating one table: either an
// included Table or a skip with its reason. A skipped table never aborts the
// aggregation pass.
type TableResult struct {
	TableID   string
	TableName string
	PageName  string

	// Table is set when the table was included.
	Table *Table

	// Skipped marks an omitted table; Reason says why and Err carries the
	// underlying fault when Reason == SkipFault.
	Skipped bool
	Reason  SkipReason
	Err     error
}

// emptyValue reports whether a cell value counts as empty: absent, the empty
// string, boolean false, or the literal string "False". Everything else,
// including zero and structured values, is content.
func emptyValue(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return x == "" || x == "False"
	case bool:
		return !x
	}
	return false
}

// RowHasContent reports whether at least one value in the row is non-empty.
// Rows failing this are dropped from the aggregate.
func RowHasContent(row coda.Row) bool {
	for _, v := range row {
		if !emptyValue(v) {
			return true
		}
	}
	return false
}

// Totals counts tables and rows across the aggregate.
func Totals(pages []Page) (tables, rows int) {
	for _, page := range pages {
		tables += len(page.Tables)
		for _, table := range page.Tables {
			rows += len(table.Rows)
		}
	}
	return tables, rows
}
