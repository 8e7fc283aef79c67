package snapshot

import (
	"context"
	"fmt"
	"sort"

	"github.com/sdvincy/coda-assistant/internal/coda"
	"github.com/sdvincy/coda-assistant/internal/log"
)

// Workspace is the read-only slice of the Coda client the builder needs.
// *coda.Client satisfies it; tests substitute a stub.
type Workspace interface {
	Pages(ctx context.Context, docID string) ([]coda.Page, error)
	PageTables(ctx context.Context, docID, pageID string) ([]coda.Table, error)
	Columns(ctx context.Context, docID, tableID string) ([]coda.Column, error)
	Rows(ctx context.Context, docID, tableID string, colmap map[string]string) ([]coda.Row, error)
}

// Report is the outcome of one aggregation pass: the surviving pages plus a
// tagged result for every table visited, in visit order.
type Report struct {
	Pages  []Page
	Tables []TableResult
}

// Builder produces the aggregate for a document.
type Builder struct {
	ws     Workspace
	logger log.Logger
}

// NewBuilder creates a Builder reading from ws.
func NewBuilder(ws Workspace, logger log.Logger) *Builder {
	return &Builder{ws: ws, logger: logger}
}

// Build walks every page and every table of the document and assembles the
// aggregate. Page order and table order follow the upstream listing. A fault
// while fetching one table's columns or rows skips just that table; a fault
// listing pages or a page's tables aborts the pass.
func (b *Builder) Build(ctx context.Context, docID string) (*Report, error) {
	pages, err := b.ws.Pages(ctx, docID)
	if err != nil {
		return nil, fmt.Errorf("listing pages: %w", err)
	}

	report := &Report{}
	for _, page := range pages {
		tables, err := b.ws.PageTables(ctx, docID, page.ID)
		if err != nil {
			return nil, fmt.Errorf("listing tables of page %q: %w", page.Name, err)
		}

		agg := Page{Name: page.Name}
		for _, table := range tables {
			result := b.buildTable(ctx, docID, page.Name, table)
			report.Tables = append(report.Tables, result)

			if result.Skipped {
				continue
			}
			agg.Tables = append(agg.Tables, *result.Table)
		}

		// A page with nothing to show is omitted entirely
		if len(agg.Tables) > 0 {
			report.Pages = append(report.Pages, agg)
		}
	}

	return report, nil
}

// buildTable fetches one table's columns and rows and applies the emptiness
// filter, tagging the outcome.
func (b *Builder) buildTable(ctx context.Context, docID, pageName string, table coda.Table) TableResult {
	result := TableResult{
		TableID:   table.ID,
		TableName: table.Name,
		PageName:  pageName,
	}

	cols, err := b.ws.Columns(ctx, docID, table.ID)
	if err != nil {
		b.logger.Warn("skipping table, column fetch failed",
			"table", table.Name, "page", pageName, "error", err)
		result.Skipped = true
		result.Reason = SkipFault
		result.Err = err
		return result
	}

	rows, err := b.ws.Rows(ctx, docID, table.ID, coda.ColumnNameMap(cols))
	if err != nil {
		b.logger.Warn("skipping table, row fetch failed",
			"table", table.Name, "page", pageName, "error", err)
		result.Skipped = true
		result.Reason = SkipFault
		result.Err = err
		return result
	}

	var kept []coda.Row
	for _, row := range rows {
		if RowHasContent(row) {
			kept = append(kept, row)
		}
	}

	if len(kept) == 0 {
		result.Skipped = true
		result.Reason = SkipEmpty
		return result
	}

	result.Table = &Table{
		Name:    table.Name,
		Columns: tableColumns(cols, kept[0]),
		Rows:    kept,
	}
	return result
}

// tableColumns returns the column names present in the first surviving row.
// Order follows the table's column listing; keys the listing does not cover
// are appended in sorted order so the output stays deterministic.
func tableColumns(cols []coda.Column, first coda.Row) []string {
	names := make([]string, 0, len(first))
	seen := make(map[string]bool, len(first))

	for _, col := range cols {
		if _, ok := first[col.Name]; ok && !seen[col.Name] {
			names = append(names, col.Name)
			seen[col.Name] = true
		}
	}

	var extras []string
	for key := range first {
		if !seen[key] {
			extras = append(extras, key)
		}
	}
	sort.Strings(extras)

	return append(names, extras...)
}
