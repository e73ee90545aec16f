package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Column defines a table column.
type Column struct {
	Title string
	Width int
}

// Row is a slice of cell values.
type Row []string

// Table renders a lipgloss-styled table.
type Table struct {
	Columns []Column
	Rows    []Row
}

// NewTable creates a new table.
func NewTable(cols []Column) *Table {
	return &Table{Columns: cols}
}

// AddRow appends a row.
func (t *Table) AddRow(r Row) {
	t.Rows = append(t.Rows, r)
}

// Render returns the full table as a string. Cells are padded with
// fmt.Sprintf rather than lipgloss Width, which wraps content that is
// longer than the column.
func (t *Table) Render() string {
	var sb strings.Builder

	headerStyle := lipgloss.NewStyle().Foreground(ColorHighlight).Bold(true)
	cellStyle := lipgloss.NewStyle().Foreground(ColorValue)
	dimStyle := lipgloss.NewStyle().Foreground(ColorMeta)

	pad := func(s string, width int) string {
		if len(s) > width {
			if width <= 1 {
				return s[:width]
			}
			return s[:width-1] + "…"
		}
		return fmt.Sprintf("%-*s", width, s)
	}

	var headers []string
	for _, col := range t.Columns {
		headers = append(headers, headerStyle.Render(pad(col.Title, col.Width)))
	}
	sb.WriteString(strings.Join(headers, " "))
	sb.WriteString("\n")

	var divParts []string
	for _, col := range t.Columns {
		divParts = append(divParts, dimStyle.Render(strings.Repeat("-", col.Width)))
	}
	sb.WriteString(strings.Join(divParts, " "))
	sb.WriteString("\n")

	for _, row := range t.Rows {
		var cells []string
		for j, col := range t.Columns {
			val := ""
			if j < len(row) {
				val = row[j]
			}
			cells = append(cells, cellStyle.Render(pad(val, col.Width)))
		}
		sb.WriteString(strings.Join(cells, " "))
		sb.WriteString("\n")
	}

	return sb.String()
}

// ParamType is one row of the inferred-parameter diagnostics.
type ParamType struct {
	Raw  string
	Type string
}

// ParamTypesTable renders the inferred type of every parameter.
func ParamTypesTable(params []ParamType) string {
	if len(params) == 0 {
		return Meta("no parameters") + "\n"
	}
	width := len("Value")
	for _, p := range params {
		if n := len(strconv.Quote(p.Raw)); n > width {
			width = n
		}
	}
	if width > 68 {
		width = 68
	}
	tbl := NewTable([]Column{{Title: "#", Width: 3}, {Title: "Value", Width: width}, {Title: "Type", Width: 14}})
	for i, p := range params {
		tbl.AddRow(Row{strconv.Itoa(i), strconv.Quote(p.Raw), p.Type})
	}
	return tbl.Render()
}

// KeyValueBlock renders a set of key-value pairs in a bordered box.
func KeyValueBlock(title string, pairs [][2]string) string {
	var sb strings.Builder
	if title != "" {
		sb.WriteString(StyleTitle.Render(title))
		sb.WriteString("\n")
	}
	for _, p := range pairs {
		key := StyleMeta.Render(fmt.Sprintf("%-14s", p[0]+":"))
		val := StyleValue.Render(p[1])
		sb.WriteString("  " + key + " " + val + "\n")
	}
	return StyleBorder.Render(sb.String())
}
