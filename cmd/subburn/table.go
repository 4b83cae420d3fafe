package main

import (
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"
)

type columnAlignment int

const (
	alignLeft columnAlignment = iota
	alignRight
)

// renderTable renders rows as a rounded table on terminals and as plain
// aligned columns when output is redirected. Both paths honor the per-column
// alignment, so numeric columns line up either way.
func renderTable(headers []string, rows [][]string, aligns []columnAlignment) string {
	if len(headers) == 0 {
		return ""
	}
	if stdoutIsTerminal() {
		return renderPretty(headers, rows, aligns)
	}
	return renderPlain(headers, rows, aligns)
}

// renderPlain lays the table out with two-space column gaps and no borders,
// keeping redirected output grep- and diff-friendly.
func renderPlain(headers []string, rows [][]string, aligns []columnAlignment) string {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	formatLine := func(cells []string) string {
		var line strings.Builder
		for i := range widths {
			cell := ""
			if i < len(cells) {
				cell = cells[i]
			}
			pad := strings.Repeat(" ", widths[i]-len(cell))
			if i > 0 {
				line.WriteString("  ")
			}
			if columnAlign(aligns, i) == alignRight {
				line.WriteString(pad)
				line.WriteString(cell)
			} else {
				line.WriteString(cell)
				line.WriteString(pad)
			}
		}
		return strings.TrimRight(line.String(), " ")
	}

	var b strings.Builder
	b.WriteString(formatLine(headers))
	for _, row := range rows {
		b.WriteString("\n")
		b.WriteString(formatLine(row))
	}
	return b.String()
}

func renderPretty(headers []string, rows [][]string, aligns []columnAlignment) string {
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

	configs := make([]table.ColumnConfig, len(headers))
	for i := range headers {
		align := text.AlignLeft
		if columnAlign(aligns, i) == alignRight {
			align = text.AlignRight
		}
		configs[i] = table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
		}
	}
	tw.SetColumnConfigs(configs)

	return tw.Render()
}

func columnAlign(aligns []columnAlignment, i int) columnAlignment {
	if i < len(aligns) {
		return aligns[i]
	}
	return alignLeft
}

func stdoutIsTerminal() bool {
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
