package engine

import (
	"fmt"
	"strings"
)

// ExportMarkdown renders the engine's Markdown view of the document: title
// heading, per-page sections, and pipe tables for detected grids.
func (d *Document) ExportMarkdown() string {
	var b strings.Builder

	if d.Title != "" {
		fmt.Fprintf(&b, "# %s\n\n", d.Title)
	}

	for _, s := range d.Sections {
		if s.Title != "" {
			level := s.Level
			if level < 1 {
				level = 2
			}
			if level > 6 {
				level = 6
			}
			fmt.Fprintf(&b, "%s %s\n\n", strings.Repeat("#", level), s.Title)
		}
		if s.Text != "" {
			b.WriteString(s.Text)
			b.WriteString("\n\n")
		}
	}

	for i, t := range d.Tables {
		fmt.Fprintf(&b, "### Table %d (page %d)\n\n", i+1, t.Page)
		b.WriteString(markdownTable(t.Rows))
		b.WriteByte('\n')
	}

	return strings.TrimRight(b.String(), "\n") + "\n"
}

// markdownTable renders a grid as a GitHub-style pipe table, treating the
// first row as the header.
func markdownTable(rows [][]string) string {
	if len(rows) == 0 {
		return ""
	}
	var b strings.Builder

	writeRow := func(cells []string) {
		b.WriteByte('|')
		for _, c := range cells {
			b.WriteByte(' ')
			b.WriteString(strings.ReplaceAll(c, "|", "\\|"))
			b.WriteString(" |")
		}
		b.WriteByte('\n')
	}

	writeRow(rows[0])
	b.WriteByte('|')
	for range rows[0] {
		b.WriteString(" --- |")
	}
	b.WriteByte('\n')
	for _, row := range rows[1:] {
		writeRow(row)
	}

	return b.String()
}
