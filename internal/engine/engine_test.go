package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPDFConverter_OCRRequiresEngine(t *testing.T) {
	_, err := NewPDFConverter(Options{EnableOCR: true}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no OCR engine")
}

func TestNewPDFConverter_Base(t *testing.T) {
	c, err := NewPDFConverter(Options{TableStructure: true}, nil)
	require.NoError(t, err)
	assert.NotNil(t, c)
}

func TestDocumentRawText(t *testing.T) {
	doc := &Document{
		Sections: []Section{
			{Title: "Heading", Text: "body one", Page: 1},
			{Text: "body two", Page: 2},
		},
	}
	assert.Equal(t, "Heading\nbody one\nbody two", doc.RawText())
}

func TestExportMarkdown_TitleAndSections(t *testing.T) {
	doc := &Document{
		Title: "Annual Report",
		Sections: []Section{
			{Title: "Overview", Level: 2, Text: "Things went well.", Page: 1},
			{Text: "More detail.", Page: 2},
		},
	}
	md := doc.ExportMarkdown()
	assert.Contains(t, md, "# Annual Report")
	assert.Contains(t, md, "## Overview")
	assert.Contains(t, md, "Things went well.")
	assert.Contains(t, md, "More detail.")
}

func TestExportMarkdown_Tables(t *testing.T) {
	doc := &Document{
		Title: "T",
		Tables: []TableGrid{
			{Page: 3, Rows: [][]string{{"h1", "h2"}, {"a", "b"}}},
		},
	}
	md := doc.ExportMarkdown()
	assert.Contains(t, md, "### Table 1 (page 3)")
	assert.Contains(t, md, "| h1 | h2 |")
	assert.Contains(t, md, "| --- | --- |")
	assert.Contains(t, md, "| a | b |")
}

func TestMarkdownTable_EscapesPipes(t *testing.T) {
	out := markdownTable([][]string{{"a|b"}, {"c"}})
	assert.Contains(t, out, `a\|b`)
}

func TestNormalizeImageFormat(t *testing.T) {
	assert.Equal(t, "jpg", normalizeImageFormat("JPEG"))
	assert.Equal(t, "tiff", normalizeImageFormat("tif"))
	assert.Equal(t, "png", normalizeImageFormat(""))
	assert.Equal(t, "webp", normalizeImageFormat("WEBP"))
}

func TestFirstLine(t *testing.T) {
	assert.Equal(t, "Title line", firstLine("\n  \nTitle line\nrest"))
	assert.Equal(t, "", firstLine("   \n  "))
}
