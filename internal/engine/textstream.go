package engine

import (
	"bytes"
	"regexp"
	"strings"
	"unicode"
)

// pdfLiteralRe matches PDF string literals in parentheses: (text here)
var pdfLiteralRe = regexp.MustCompile(`\(([^)]*)\)`)

// textFromContentStream parses PDF content-stream text operators. Unlike a
// full layout engine it only tracks show-text and line-move operators, which
// is enough to recover reading order for most text-layer PDFs.
func textFromContentStream(data []byte) string {
	var sb strings.Builder

	for _, line := range bytes.Split(data, []byte{'\n'}) {
		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			continue
		}

		switch {
		// Tj / TJ show-text operators: (text) Tj, [(a) -100 (b)] TJ
		case bytes.HasSuffix(line, []byte("Tj")), bytes.HasSuffix(line, []byte("TJ")):
			for _, m := range pdfLiteralRe.FindAllSubmatch(line, -1) {
				sb.WriteString(decodeLiteral(m[1]))
			}

		// ' operator: move to next line and show text.
		case bytes.HasSuffix(line, []byte("'")) && bytes.Contains(line, []byte("(")):
			for _, m := range pdfLiteralRe.FindAllSubmatch(line, -1) {
				if text := decodeLiteral(m[1]); text != "" {
					sb.WriteByte('\n')
					sb.WriteString(text)
				}
			}

		// Td/TD line positioning: treat as a line break.
		case bytes.HasSuffix(line, []byte("Td")), bytes.HasSuffix(line, []byte("TD")):
			sb.WriteByte('\n')

		// T*: move to start of next line.
		case bytes.Equal(line, []byte("T*")):
			sb.WriteByte('\n')
		}
	}

	return normalizeText(sb.String())
}

// decodeLiteral handles PDF string escape sequences, including octal escapes.
func decodeLiteral(raw []byte) string {
	var sb strings.Builder
	for i := 0; i < len(raw); i++ {
		if raw[i] != '\\' || i+1 >= len(raw) {
			sb.WriteByte(raw[i])
			continue
		}
		i++
		switch raw[i] {
		case 'n':
			sb.WriteByte('\n')
		case 'r':
			sb.WriteByte('\r')
		case 't':
			sb.WriteByte('\t')
		case '\\', '(', ')':
			sb.WriteByte(raw[i])
		default:
			if raw[i] >= '0' && raw[i] <= '7' {
				val := int(raw[i] - '0')
				for n := 0; n < 2 && i+1 < len(raw) && raw[i+1] >= '0' && raw[i+1] <= '7'; n++ {
					i++
					val = val*8 + int(raw[i]-'0')
				}
				sb.WriteByte(byte(val))
			} else {
				sb.WriteByte(raw[i])
			}
		}
	}
	return sb.String()
}

// normalizeText collapses runs of spaces within lines and drops empty lines,
// preserving line breaks so downstream table detection can see row structure.
func normalizeText(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	var out []string
	for _, line := range strings.Split(text, "\n") {
		var sb strings.Builder
		spaces := 0
		for _, r := range line {
			if r == '\t' {
				// Tabs separate cells; keep them intact.
				sb.WriteRune('\t')
				spaces = 0
				continue
			}
			if unicode.IsSpace(r) {
				spaces++
				continue
			}
			if !unicode.IsPrint(r) {
				continue
			}
			if spaces > 0 && sb.Len() > 0 {
				if spaces >= 2 {
					// Preserve wide gaps as column separators.
					sb.WriteString("  ")
				} else {
					sb.WriteByte(' ')
				}
			}
			spaces = 0
			sb.WriteRune(r)
		}
		if s := strings.TrimSpace(sb.String()); s != "" {
			out = append(out, sb.String())
		}
	}
	return strings.Join(out, "\n")
}

// printableRatio reports the fraction of printable, non-space runes.
func printableRatio(text string) float64 {
	if text == "" {
		return 0
	}
	total, printable := 0, 0
	for _, r := range text {
		if unicode.IsSpace(r) {
			continue
		}
		total++
		if unicode.IsPrint(r) {
			printable++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(printable) / float64(total)
}

// cellSplitRe splits a line into cells on tabs or runs of 2+ spaces.
var cellSplitRe = regexp.MustCompile(`\t+| {2,}`)

// detectTableGrids finds runs of consecutive lines that split into the same
// number of cells (>= 2), treating each run of 2+ such lines as one table.
func detectTableGrids(pageText string) [][][]string {
	var grids [][][]string
	var current [][]string
	currentCols := 0

	flush := func() {
		if len(current) >= 2 {
			grids = append(grids, current)
		}
		current = nil
		currentCols = 0
	}

	for _, line := range strings.Split(pageText, "\n") {
		cells := splitCells(line)
		if len(cells) < 2 {
			flush()
			continue
		}
		if currentCols != 0 && len(cells) != currentCols {
			flush()
		}
		currentCols = len(cells)
		current = append(current, cells)
	}
	flush()

	return grids
}

func splitCells(line string) []string {
	var cells []string
	for _, c := range cellSplitRe.Split(line, -1) {
		c = strings.TrimSpace(c)
		if c != "" {
			cells = append(cells, c)
		}
	}
	return cells
}
