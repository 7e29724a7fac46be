package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/choplin/projectdb/internal/model"
)

const (
	formatTable = "table"
	formatJSON  = "json"
)

func validateFormat(format string) error {
	switch format {
	case formatTable, formatJSON:
		return nil
	default:
		return fmt.Errorf("invalid format: %s (valid values: table, json)", format)
	}
}

func outputJSON(cmd *cobra.Command, v any) error {
	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func getTerminalWidth() int {
	if width, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && width > 0 {
		return width
	}
	return 80
}

// bodyWidth is what is left for the body column once ID, title and published
// have been laid out, never less than 15 cells.
func bodyWidth(termWidth, titleWidth int) int {
	// 4 columns, roughly 3 cells of border and padding each.
	width := termWidth - 4*3 - 4 - titleWidth - 9
	if width < 15 {
		width = 15
	}
	return width
}

// singleLine collapses whitespace so a body fits on one table row.
func singleLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func outputProjectsTable(cmd *cobra.Command, projects []string) {
	t := table.NewWriter()
	t.SetOutputMirror(cmd.OutOrStdout())
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Project"})
	for _, p := range projects {
		t.AppendRow(table.Row{p})
	}
	t.Render()
}

func outputEntriesTable(cmd *cobra.Command, entries []model.Entry) {
	t := table.NewWriter()
	t.SetOutputMirror(cmd.OutOrStdout())
	t.SetStyle(table.StyleLight)

	titleWidth := 5 // "Title"
	for _, e := range entries {
		if w := runewidth.StringWidth(e.Title); w > titleWidth {
			titleWidth = w
		}
	}
	if titleWidth > 40 {
		titleWidth = 40
	}
	width := bodyWidth(getTerminalWidth(), titleWidth)

	t.AppendHeader(table.Row{"ID", "Title", "Body", "Published"})
	for _, e := range entries {
		t.AppendRow(table.Row{
			e.ID,
			runewidth.Truncate(e.Title, titleWidth, "..."),
			runewidth.Truncate(singleLine(e.Body), width, "..."),
			e.Published,
		})
	}
	t.Render()
}

func outputEntry(cmd *cobra.Command, e model.Entry) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "ID:        %d\n", e.ID)
	fmt.Fprintf(out, "Title:     %s\n", e.Title)
	fmt.Fprintf(out, "Published: %t\n", e.Published)
	fmt.Fprintf(out, "\n%s\n", e.Body)
}
