package main

import (
	"github.com/jedib0t/go-pretty/v6/table"
)

// renderTable draws a rounded table. Every column this CLI prints is
// left-aligned text, so there is no per-column configuration; rows shorter
// than the header are padded so ragged input cannot shift columns.
func renderTable(headers []string, rows [][]string) string {
	if len(headers) == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, len(headers))
		for i := range headers {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}

	return tw.Render()
}
