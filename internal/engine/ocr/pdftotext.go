package ocr

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
)

// PdfToText extracts text using the pdftotext CLI tool. It cannot recognize
// raster content, so it only serves documents with embedded text layers.
type PdfToText struct {
	binPath string
}

// NewPdfToText creates a PdfToText engine. If binPath is empty, "pdftotext" is used.
func NewPdfToText(binPath string) *PdfToText {
	if binPath == "" {
		binPath = "pdftotext"
	}
	return &PdfToText{binPath: binPath}
}

func (p *PdfToText) Name() string { return "pdftotext" }

// Recognize writes the input payload to a temp file and runs pdftotext -layout
// on it, returning stdout.
func (p *PdfToText) Recognize(ctx context.Context, in Input) (Result, error) {
	tmp, err := os.CreateTemp("", "docproc-ocr-*.pdf")
	if err != nil {
		return Result{}, eris.Wrap(err, "ocr: create temp file")
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(in.Image); err != nil {
		tmp.Close()
		return Result{}, eris.Wrap(err, "ocr: write temp file")
	}
	if err := tmp.Close(); err != nil {
		return Result{}, eris.Wrap(err, "ocr: close temp file")
	}

	cmd := exec.CommandContext(ctx, p.binPath, "-layout", tmp.Name(), "-")

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return Result{}, eris.Wrapf(err, "ocr: pdftotext failed for %s: %s", filepath.Base(tmp.Name()), stderr.String())
	}

	return Result{InputID: in.ID, PlainText: strings.TrimSpace(stdout.String())}, nil
}
