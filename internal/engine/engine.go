// Package engine adapts external document-conversion libraries behind a
// stable Converter interface. The processor never touches pdfcpu or the OCR
// client directly; everything it needs crosses this boundary as a Document.
package engine

import (
	"context"
	"strings"
)

// Version identifies the conversion backend, recorded in processing stats.
const Version = "pdfcpu-0.11"

// Options configures a converter pipeline. A converter is built for one
// options value and never reconfigured; callers wanting a different mode
// construct a new converter.
type Options struct {
	EnableOCR      bool
	OCRLanguages   []string
	TableStructure bool
	PageImages     bool
	OCRDPI         int
}

// Converter parses a source document into a structured Document.
type Converter interface {
	Convert(ctx context.Context, path string) (*Document, error)
}

// Section is a structural unit of a converted document.
type Section struct {
	Title string
	Level int // heading level 1-6, 0 for body
	Text  string
	Page  int
}

// TableGrid is a detected table as a grid of cell strings.
type TableGrid struct {
	Page int
	Rows [][]string
}

// ImageAsset is an embedded image extracted from the source document.
type ImageAsset struct {
	Page   int
	Name   string
	Format string // png, jpg, tiff
	Data   []byte
}

// Document is the engine's view of a converted file.
type Document struct {
	Path       string
	Title      string
	PageCount  int
	Sections   []Section
	Tables     []TableGrid
	Images     []ImageAsset
	OCRApplied bool

	// Extraction quality signals.
	CharsPerPage   float64
	PrintableRatio float64
}

// RawText returns the concatenated text of all sections.
func (d *Document) RawText() string {
	var sb strings.Builder
	for i, s := range d.Sections {
		if i > 0 {
			sb.WriteByte('\n')
		}
		if s.Title != "" {
			sb.WriteString(s.Title)
			sb.WriteByte('\n')
		}
		sb.WriteString(s.Text)
	}
	return sb.String()
}
