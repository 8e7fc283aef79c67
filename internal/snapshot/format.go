package snapshot

import (
	"fmt"
	"sort"
	"strings"
)

// banner opens every formatted context block.
const banner = "CODA DOCUMENT DATA:\n\n"

// Format renders the aggregate into the plain-text block handed to the
// model. Pure and deterministic: the same aggregate always yields the same
// bytes. Layout per page is a `=== PAGE: name ===` header; per table a
// `TABLE: name` line, a comma-joined column list, then one numbered line per
// row with `column: value` pairs joined by ` | `. Empty values are elided
// from row lines; numbering restarts at 1 for every table.
func Format(pages []Page) string {
	var sb strings.Builder
	sb.WriteString(banner)

	for _, page := range pages {
		fmt.Fprintf(&sb, "=== PAGE: %s ===\n", page.Name)

		for _, table := range page.Tables {
			fmt.Fprintf(&sb, "\nTABLE: %s\n", table.Name)
			fmt.Fprintf(&sb, "Columns: %s\n", strings.Join(table.Columns, ", "))

			for i, row := range table.Rows {
				fmt.Fprintf(&sb, "%d. %s\n", i+1, formatRow(table.Columns, row))
			}

			sb.WriteString("\n")
		}
	}

	return sb.String()
}

// formatRow renders one row as `column: value` pairs. Listed columns come
// first in table order; keys outside the listing follow in sorted order via
// rowExtras. Pairs with empty values are skipped.
func formatRow(columns []string, row map[string]any) string {
	pairs := make([]string, 0, len(row))

	appendPair := func(key string) {
		value, ok := row[key]
		if !ok || emptyValue(value) {
			return
		}
		pairs = append(pairs, fmt.Sprintf("%s: %v", key, value))
	}

	listed := make(map[string]bool, len(columns))
	for _, col := range columns {
		listed[col] = true
		appendPair(col)
	}
	for _, key := range rowExtras(listed, row) {
		appendPair(key)
	}

	return strings.Join(pairs, " | ")
}

// rowExtras returns the row's keys that the column listing misses, sorted.
func rowExtras(listed map[string]bool, row map[string]any) []string {
	var extras []string
	for key := range row {
		if !listed[key] {
			extras = append(extras, key)
		}
	}
	sort.Strings(extras)
	return extras
}
