package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTextFromContentStream_TjOperator(t *testing.T) {
	stream := []byte("BT\n/F1 12 Tf\n(Hello World) Tj\nET\n")
	assert.Equal(t, "Hello World", textFromContentStream(stream))
}

func TestTextFromContentStream_TJArray(t *testing.T) {
	stream := []byte("[(Hel) -20 (lo)] TJ\n")
	assert.Equal(t, "Hello", textFromContentStream(stream))
}

func TestTextFromContentStream_LineBreaks(t *testing.T) {
	stream := []byte("(first) Tj\n0 -14 Td\n(second) Tj\nT*\n(third) Tj\n")
	got := textFromContentStream(stream)
	assert.Equal(t, "first\nsecond\nthird", got)
}

func TestTextFromContentStream_QuoteOperator(t *testing.T) {
	stream := []byte("(line one) Tj\n(line two) '\n")
	assert.Equal(t, "line one\nline two", textFromContentStream(stream))
}

func TestDecodeLiteral_Escapes(t *testing.T) {
	assert.Equal(t, "a(b)c", decodeLiteral([]byte(`a\(b\)c`)))
	assert.Equal(t, "tab\there", decodeLiteral([]byte(`tab\there`)))
	// Octal escape \040 is a space.
	assert.Equal(t, "a b", decodeLiteral([]byte(`a\040b`)))
	assert.Equal(t, `back\slash`, decodeLiteral([]byte(`back\\slash`)))
}

func TestNormalizeText_CollapsesIntraLineSpaces(t *testing.T) {
	got := normalizeText("a    b\n\n\nc d\n")
	assert.Equal(t, "a  b\nc d", got)
}

func TestPrintableRatio(t *testing.T) {
	assert.InDelta(t, 1.0, printableRatio("clean text"), 0.001)
	assert.Equal(t, 0.0, printableRatio(""))
}

func TestDetectTableGrids(t *testing.T) {
	page := "Intro paragraph\nName  Qty  Price\nWidget  2  3.50\nGadget  1  9.99\nClosing line"
	grids := detectTableGrids(page)
	assert.Len(t, grids, 1)
	assert.Equal(t, [][]string{
		{"Name", "Qty", "Price"},
		{"Widget", "2", "3.50"},
		{"Gadget", "1", "9.99"},
	}, grids[0])
}

func TestDetectTableGrids_IgnoresSingleRow(t *testing.T) {
	page := "only  one  row\nplain text follows"
	assert.Empty(t, detectTableGrids(page))
}

func TestDetectTableGrids_SplitsOnColumnChange(t *testing.T) {
	page := "a  b\nc  d\ne  f  g\nh  i  j"
	grids := detectTableGrids(page)
	assert.Len(t, grids, 2)
	assert.Len(t, grids[0], 2)
	assert.Len(t, grids[1], 2)
}

func TestSplitCells_Tabs(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, splitCells("a\tb\tc"))
}
