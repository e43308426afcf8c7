package main

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// runTableHeaders matches the column order produced by the history
// listing: row id, relative time, platform, video id, status, detail.
var runTableHeaders = table.Row{"ID", "WHEN", "PLATFORM", "VIDEO", "STATUS", "DETAIL"}

// renderRunTable renders history rows as a terminal table. The ID column
// is right-aligned; the detail column is capped so a long error message
// or output path cannot stretch the table past a usable width.
func renderRunTable(rows [][]string) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(runTableHeaders)

	for _, row := range rows {
		r := make(table.Row, len(row))
		for i, cell := range row {
			r[i] = cell
		}
		tw.AppendRow(r)
	}

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight, AlignHeader: text.AlignLeft},
		{Number: len(runTableHeaders), WidthMax: 60},
	})

	return tw.Render()
}
