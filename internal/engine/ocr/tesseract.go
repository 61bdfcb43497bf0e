package ocr

import (
	"context"
	"fmt"
	"strings"

	"github.com/otiai10/gosseract/v2"
	"github.com/rotisserie/eris"
)

// Tesseract recognizes text using the gosseract client.
type Tesseract struct {
	dpi           int
	clientFactory func() *gosseract.Client
}

// NewTesseract creates a Tesseract-backed OCR engine.
func NewTesseract(dpi int) *Tesseract {
	return &Tesseract{dpi: dpi, clientFactory: gosseract.NewClient}
}

func (t *Tesseract) Name() string { return "tesseract" }

// Recognize performs OCR on a single image input. A fresh client is created
// per call; gosseract clients are not safe for concurrent use.
func (t *Tesseract) Recognize(ctx context.Context, in Input) (Result, error) {
	select {
	case <-ctx.Done():
		return Result{}, ctx.Err()
	default:
	}

	c := t.clientFactory()
	defer c.Close()

	if err := c.SetImageFromBytes(in.Image); err != nil {
		return Result{}, eris.Wrapf(err, "ocr: set image %s", in.ID)
	}
	if len(in.Languages) > 0 {
		if err := c.SetLanguage(in.Languages...); err != nil {
			return Result{}, eris.Wrapf(err, "ocr: set languages %s", strings.Join(in.Languages, ","))
		}
	}
	dpi := in.DPI
	if dpi == 0 {
		dpi = t.dpi
	}
	if dpi > 0 {
		if err := c.SetVariable(gosseract.SettableVariable("user_defined_dpi"), fmt.Sprint(dpi)); err != nil {
			return Result{}, eris.Wrap(err, "ocr: set dpi")
		}
	}

	text, err := c.Text()
	if err != nil {
		return Result{}, eris.Wrapf(err, "ocr: recognize %s", in.ID)
	}

	res := Result{InputID: in.ID, PlainText: strings.TrimSpace(text)}

	// Mean line confidence, best effort.
	if boxes, boxErr := c.GetBoundingBoxes(gosseract.RIL_TEXTLINE); boxErr == nil && len(boxes) > 0 {
		var sum float64
		for _, b := range boxes {
			sum += b.Confidence
		}
		res.Confidence = sum / float64(len(boxes)) / 100.0
	}

	return res, nil
}
