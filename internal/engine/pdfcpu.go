package engine

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	pdfmodel "github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/docproc/internal/engine/ocr"
)

// PDFConverter converts PDF files using pdfcpu, with optional OCR for pages
// that carry no extractable text layer.
type PDFConverter struct {
	opts Options
	ocr  ocr.Engine
}

// NewPDFConverter builds a converter for the given pipeline options. An OCR
// engine is required when opts.EnableOCR is set.
func NewPDFConverter(opts Options, ocrEngine ocr.Engine) (*PDFConverter, error) {
	if opts.EnableOCR && ocrEngine == nil {
		return nil, eris.New("engine: OCR enabled but no OCR engine supplied")
	}
	return &PDFConverter{opts: opts, ocr: ocrEngine}, nil
}

// Convert parses the PDF at path into a Document. Conversion is a single
// blocking pass over all pages; ctx cancels between pages.
func (c *PDFConverter) Convert(ctx context.Context, path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "engine: open %s", path)
	}
	defer f.Close()

	conf := pdfmodel.NewDefaultConfiguration()
	pdfCtx, err := api.ReadValidateAndOptimize(f, conf)
	if err != nil {
		return nil, eris.Wrapf(err, "engine: pdfcpu read %s", path)
	}

	doc := &Document{
		Path:      path,
		PageCount: pdfCtx.PageCount,
	}

	totalChars := 0
	for pageNr := 1; pageNr <= pdfCtx.PageCount; pageNr++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		pageText := pageContentText(pdfCtx, pageNr)
		assets := c.pageImages(pdfCtx, pageNr)

		// A page with images but no text layer is a scan candidate.
		if pageText == "" && c.opts.EnableOCR && len(assets) > 0 {
			recognized, ocrErr := c.recognizePage(ctx, pageNr, assets)
			if ocrErr != nil {
				zap.L().Warn("engine: page OCR failed",
					zap.String("path", path),
					zap.Int("page", pageNr),
					zap.Error(ocrErr),
				)
			} else if recognized != "" {
				pageText = recognized
				doc.OCRApplied = true
			}
		}

		if c.opts.PageImages {
			doc.Images = append(doc.Images, assets...)
		}

		if pageText == "" {
			continue
		}
		totalChars += len([]rune(pageText))

		if doc.Title == "" {
			doc.Title = firstLine(pageText)
		}

		if c.opts.TableStructure {
			for _, rows := range detectTableGrids(pageText) {
				doc.Tables = append(doc.Tables, TableGrid{Page: pageNr, Rows: rows})
			}
		}

		doc.Sections = append(doc.Sections, Section{
			Text: pageText,
			Page: pageNr,
		})
	}

	if len(doc.Sections) == 0 && len(doc.Images) == 0 {
		return nil, eris.Errorf("engine: no extractable content in %s", path)
	}

	if doc.Title == "" {
		doc.Title = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	if doc.PageCount > 0 {
		doc.CharsPerPage = float64(totalChars) / float64(doc.PageCount)
	}
	doc.PrintableRatio = printableRatio(doc.RawText())

	return doc, nil
}

// pageContentText extracts the native text layer of a single page.
func pageContentText(pdfCtx *pdfmodel.Context, pageNr int) string {
	r, err := pdfcpu.ExtractPageContent(pdfCtx, pageNr)
	if err != nil {
		return ""
	}
	data, err := io.ReadAll(r)
	if err != nil || len(data) == 0 {
		return ""
	}
	return textFromContentStream(data)
}

// pageImages extracts embedded image XObjects for a page. Extraction errors
// are swallowed; image recovery is best effort.
func (c *PDFConverter) pageImages(pdfCtx *pdfmodel.Context, pageNr int) []ImageAsset {
	if !c.opts.PageImages && !c.opts.EnableOCR {
		return nil
	}
	if len(pdfcpu.ImageObjNrs(pdfCtx, pageNr)) == 0 {
		return nil
	}

	imgs, err := pdfcpu.ExtractPageImages(pdfCtx, pageNr, false)
	if err != nil {
		return nil
	}

	var assets []ImageAsset
	for objNr, img := range imgs {
		data, err := io.ReadAll(img)
		if err != nil || len(data) == 0 {
			continue
		}
		name := img.Name
		if name == "" {
			name = fmt.Sprintf("obj_%d", objNr)
		}
		assets = append(assets, ImageAsset{
			Page:   pageNr,
			Name:   name,
			Format: normalizeImageFormat(img.FileType),
			Data:   data,
		})
	}
	return assets
}

// recognizePage runs OCR over a page's image assets and joins the results.
func (c *PDFConverter) recognizePage(ctx context.Context, pageNr int, assets []ImageAsset) (string, error) {
	var parts []string
	for _, asset := range assets {
		res, err := c.ocr.Recognize(ctx, ocr.Input{
			ID:        fmt.Sprintf("page-%d-%s", pageNr, asset.Name),
			Image:     asset.Data,
			Page:      pageNr,
			Languages: c.opts.OCRLanguages,
			DPI:       c.opts.OCRDPI,
		})
		if err != nil {
			return "", err
		}
		if res.PlainText != "" {
			parts = append(parts, res.PlainText)
		}
	}
	return strings.Join(parts, "\n"), nil
}

func normalizeImageFormat(fileType string) string {
	switch strings.ToLower(fileType) {
	case "jpg", "jpeg":
		return "jpg"
	case "tif", "tiff":
		return "tiff"
	case "":
		return "png"
	default:
		return strings.ToLower(fileType)
	}
}

func firstLine(text string) string {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			if len(line) > 200 {
				line = line[:200]
			}
			return line
		}
	}
	return ""
}
