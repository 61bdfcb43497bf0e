package processor

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/docproc/internal/engine"
	"github.com/sells-group/docproc/internal/model"
)

// mapDocument is the single boundary between the engine's document type and
// the normalized output record. Optional engine fields map to explicit
// zero-value fallbacks here and nowhere else.
func (p *Processor) mapDocument(doc *engine.Document, req Request) (*model.DocumentStructure, error) {
	title := doc.Title
	if title == "" {
		title = strings.TrimSuffix(filepath.Base(req.FilePath), filepath.Ext(req.FilePath))
	}

	markdown := doc.ExportMarkdown()
	rawText := doc.RawText()
	if rawText == "" {
		rawText = markdown
	}

	sections := make([]model.Section, 0, len(doc.Sections))
	for i, s := range doc.Sections {
		sec := model.Section{
			ID:      i,
			Title:   s.Title,
			Content: s.Text,
			Level:   s.Level,
			Page:    s.Page,
		}
		if sec.Title == "" {
			sec.Title = fmt.Sprintf("Section %d", i+1)
		}
		if sec.Level == 0 {
			sec.Level = 1
		}
		if sec.Page == 0 {
			sec.Page = 1
		}
		sections = append(sections, sec)
	}

	tables, err := p.writeTableArtifacts(doc.Tables, req.OutputDir)
	if err != nil {
		return nil, err
	}

	images, err := p.writeImageArtifacts(doc.Images, req.OutputDir)
	if err != nil {
		return nil, err
	}

	var chunkCount int
	if p.chunk != nil {
		chunkCount = len(p.chunk.ChunkSections(sections))
	}

	structure := &model.DocumentStructure{
		Title:           title,
		Authors:         []string{},
		Sections:        sections,
		Tables:          tables,
		Images:          images,
		Formulas:        []string{},
		RawText:         rawText,
		MarkdownContent: markdown,
		Metadata: map[string]any{
			"original_file":     req.FilePath,
			"total_pages":       max(doc.PageCount, 1),
			"sections_count":    len(sections),
			"tables_count":      len(tables),
			"images_count":      len(images),
			"chunks_count":      chunkCount,
			"has_ocr_content":   doc.OCRApplied,
			"extraction_method": engine.Version,
			"content_length":    len(rawText),
			"chars_per_page":    doc.CharsPerPage,
			"printable_ratio":   doc.PrintableRatio,
		},
	}

	zap.L().Info("document structure extracted",
		zap.Int("sections", len(sections)),
		zap.Int("tables", len(tables)),
		zap.Int("images", len(images)),
		zap.Int("chunks", chunkCount),
	)
	return structure, nil
}

// writeTableArtifacts serializes each table grid to a JSON side file (and an
// XLSX workbook) in the output directory, referencing paths in the record.
func (p *Processor) writeTableArtifacts(grids []engine.TableGrid, outputDir string) ([]model.Table, error) {
	tables := make([]model.Table, 0, len(grids))
	for i, g := range grids {
		table := model.Table{
			ID:      i,
			Page:    g.Page,
			Content: tableContent(g),
		}

		if outputDir != "" {
			jsonPath := filepath.Join(outputDir, fmt.Sprintf("table_%d.json", i))
			data, err := json.MarshalIndent(table, "", "  ")
			if err != nil {
				return nil, eris.Wrapf(err, "processor: marshal table %d", i)
			}
			if err := os.WriteFile(jsonPath, data, 0o644); err != nil {
				return nil, eris.Wrapf(err, "processor: write %s", jsonPath)
			}
			table.FilePath = jsonPath

			xlsxPath := filepath.Join(outputDir, fmt.Sprintf("table_%d.xlsx", i))
			if err := writeTableXLSX(xlsxPath, g.Rows); err != nil {
				return nil, err
			}
			table.XLSXPath = xlsxPath
		}

		tables = append(tables, table)
	}
	return tables, nil
}

// tableContent maps a grid to the serializable table content, falling back to
// a string representation when the grid is empty.
func tableContent(g engine.TableGrid) model.TableContent {
	if len(g.Rows) == 0 {
		return model.TableContent{
			Type:     "table",
			Fallback: fmt.Sprintf("empty table on page %d", g.Page),
		}
	}
	cols := 0
	for _, row := range g.Rows {
		if len(row) > cols {
			cols = len(row)
		}
	}
	return model.TableContent{
		Type:    "table",
		Data:    g.Rows,
		Rows:    len(g.Rows),
		Columns: cols,
	}
}

// writeImageArtifacts saves each extracted image to the output directory.
func (p *Processor) writeImageArtifacts(assets []engine.ImageAsset, outputDir string) ([]model.Image, error) {
	images := make([]model.Image, 0, len(assets))
	for i, a := range assets {
		img := model.Image{
			ID:     i,
			Page:   a.Page,
			Format: a.Format,
		}

		if outputDir != "" && len(a.Data) > 0 {
			path := filepath.Join(outputDir, fmt.Sprintf("image_%d.%s", i, a.Format))
			if err := os.WriteFile(path, a.Data, 0o644); err != nil {
				return nil, eris.Wrapf(err, "processor: write %s", path)
			}
			img.FilePath = path
		}

		images = append(images, img)
	}
	return images, nil
}
