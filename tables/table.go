package tables

import (
	"fmt"
	"strings"
)

// Table represents a reconstructed table as a rectangular grid of cell text.
// Every row has the same length; empty strings mark cells no token mapped to.
type Table struct {
	Rows [][]string
}

// RowCount returns the number of rows.
func (t *Table) RowCount() int {
	return len(t.Rows)
}

// ColCount returns the number of columns in the first row.
func (t *Table) ColCount() int {
	if len(t.Rows) == 0 {
		return 0
	}
	return len(t.Rows[0])
}

// Headers returns generated column names (Col1..ColN). Scanned tables carry
// no reliable header row, so output artifacts use synthetic names.
func (t *Table) Headers() []string {
	headers := make([]string, t.ColCount())
	for i := range headers {
		headers[i] = fmt.Sprintf("Col%d", i+1)
	}
	return headers
}

// GetText returns the table as tab-separated lines.
func (t *Table) GetText() string {
	var sb strings.Builder
	for _, row := range t.Rows {
		for j, cell := range row {
			sb.WriteString(cell)
			if j < len(row)-1 {
				sb.WriteString("\t")
			}
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// ToCSV converts the table to CSV format, with a Col1..ColN header row.
func (t *Table) ToCSV() string {
	var sb strings.Builder
	writeCSVRow(&sb, t.Headers())
	for _, row := range t.Rows {
		writeCSVRow(&sb, row)
	}
	return sb.String()
}

func writeCSVRow(sb *strings.Builder, row []string) {
	for j, cell := range row {
		// Escape quotes and wrap in quotes if necessary
		if strings.Contains(cell, ",") || strings.Contains(cell, "\"") || strings.Contains(cell, "\n") {
			cell = "\"" + strings.ReplaceAll(cell, "\"", "\"\"") + "\""
		}
		sb.WriteString(cell)
		if j < len(row)-1 {
			sb.WriteString(",")
		}
	}
	sb.WriteString("\n")
}

// ToMarkdown converts the table to markdown format, with a Col1..ColN
// header row.
func (t *Table) ToMarkdown() string {
	if len(t.Rows) == 0 {
		return ""
	}

	var sb strings.Builder

	headers := t.Headers()
	for j, h := range headers {
		sb.WriteString("| ")
		sb.WriteString(h)
		sb.WriteString(" ")
		if j == len(headers)-1 {
			sb.WriteString("|")
		}
	}
	sb.WriteString("\n")

	for j := range headers {
		sb.WriteString("|---")
		if j == len(headers)-1 {
			sb.WriteString("|")
		}
	}
	sb.WriteString("\n")

	for _, row := range t.Rows {
		for j, cell := range row {
			sb.WriteString("| ")
			sb.WriteString(strings.ReplaceAll(cell, "\n", " "))
			sb.WriteString(" ")
			if j == len(row)-1 {
				sb.WriteString("|")
			}
		}
		sb.WriteString("\n")
	}

	return sb.String()
}
