// Package ocr provides text recognition engines for scanned document content.
package ocr

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/docproc/internal/config"
)

// Input is a single encoded image submitted for recognition.
type Input struct {
	// ID is an optional caller-provided identifier echoed back in the Result.
	ID string
	// Image is the encoded image payload (PNG, JPEG or TIFF bytes).
	Image []byte
	// Page is the 1-based source page the image came from.
	Page int
	// Languages is a list of language hints (e.g. "eng", "rus") used to select
	// trained data.
	Languages []string
	// DPI carries the effective dots-per-inch; zero means unknown.
	DPI int
}

// Result captures recognition output for a single input.
type Result struct {
	InputID    string
	PlainText  string
	Confidence float64
}

// Engine recognizes text in images.
type Engine interface {
	Name() string
	Recognize(ctx context.Context, in Input) (Result, error)
}

// NewEngine creates an Engine based on config.
func NewEngine(cfg config.OCRConfig) (Engine, error) {
	switch cfg.Provider {
	case "tesseract", "":
		return NewTesseract(cfg.DPI), nil
	case "local":
		return NewPdfToText(cfg.PdfToTextPath), nil
	default:
		return nil, eris.Errorf("ocr: unknown provider %q", cfg.Provider)
	}
}
