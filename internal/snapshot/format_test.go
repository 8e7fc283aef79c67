package snapshot

import (
	"strings"
	"testing"

	"github.com/sdvincy/coda-assistant/internal/coda"
)

func playgroundPages() []Page {
	return []Page{
		{
			Name: "P1",
			Tables: []Table{
				{
					Name:    "T1",
					Columns: []string{"Name", "Qty"},
					Rows:    []coda.Row{{"Name": "A", "Qty": float64(1)}},
				},
			},
		},
	}
}

func TestFormatExactLayout(t *testing.T) {
	t.Parallel()

	got := Format(playgroundPages())
	want := "CODA DOCUMENT DATA:\n\n" +
		"=== PAGE: P1 ===\n" +
		"\nTABLE: T1\n" +
		"Columns: Name, Qty\n" +
		"1. Name: A | Qty: 1\n" +
		"\n"

	if got != want {
		t.Errorf("Format() = %q, want %q", got, want)
	}

	if strings.Count(got, "1. Name: A | Qty: 1") != 1 {
		t.Errorf("expected exactly one numbered row line, got %q", got)
	}
}

func TestFormatDeterministic(t *testing.T) {
	t.Parallel()

	pages := []Page{
		{
			Name: "Ops",
			Tables: []Table{
				{
					Name:    "Inventory",
					Columns: []string{"Item", "Count", "Live"},
					Rows: []coda.Row{
						{"Item": "bolt", "Count": float64(12), "Live": true},
						{"Item": "nut", "Count": float64(7), "Live": false},
					},
				},
			},
		},
	}

	first := Format(pages)
	for i := 0; i < 10; i++ {
		if next := Format(pages); next != first {
			t.Fatalf("Format() not deterministic on call %d:\n%q\nvs\n%q", i, first, next)
		}
	}
}

func TestFormatEmptyAggregate(t *testing.T) {
	t.Parallel()

	if got := Format(nil); got != "CODA DOCUMENT DATA:\n\n" {
		t.Errorf("Format(nil) = %q, want banner only", got)
	}
}

func TestFormatNumberingRestartsPerTable(t *testing.T) {
	t.Parallel()

	pages := []Page{
		{
			Name: "P",
			Tables: []Table{
				{
					Name:    "A",
					Columns: []string{"V"},
					Rows:    []coda.Row{{"V": "a1"}, {"V": "a2"}},
				},
				{
					Name:    "B",
					Columns: []string{"V"},
					Rows:    []coda.Row{{"V": "b1"}},
				},
			},
		},
	}

	got := Format(pages)
	for _, line := range []string{"1. V: a1\n", "2. V: a2\n", "1. V: b1\n"} {
		if !strings.Contains(got, line) {
			t.Errorf("missing line %q in %q", line, got)
		}
	}
	if strings.Contains(got, "3. ") {
		t.Errorf("numbering should restart per table, got %q", got)
	}
}

func TestFormatElidesEmptyValues(t *testing.T) {
	t.Parallel()

	pages := []Page{
		{
			Name: "P",
			Tables: []Table{
				{
					Name:    "T",
					Columns: []string{"Name", "Qty", "Done", "Note"},
					Rows: []coda.Row{
						{"Name": "A", "Qty": "", "Done": false, "Note": "False"},
					},
				},
			},
		},
	}

	got := Format(pages)
	if !strings.Contains(got, "1. Name: A\n") {
		t.Errorf("expected the row line to hold only the non-empty pair, got %q", got)
	}
	for _, banned := range []string{"Qty:", "Done:", "Note:"} {
		if strings.Contains(got, banned) {
			t.Errorf("empty value %q leaked into row line: %q", banned, got)
		}
	}
}

func TestFormatRowExtrasSortedAfterColumns(t *testing.T) {
	t.Parallel()

	row := map[string]any{"Name": "A", "z-extra": "zz", "a-extra": "aa"}
	got := formatRow([]string{"Name"}, row)
	want := "Name: A | a-extra: aa | z-extra: zz"
	if got != want {
		t.Errorf("formatRow() = %q, want %q", got, want)
	}
}
