package model

import "time"

// Section is a structural unit of a processed document.
type Section struct {
	ID      int    `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`
	Level   int    `json:"level"` // heading level 1-6, 0 for body
	Page    int    `json:"page"`
}

// TableContent holds the extracted grid of a table.
type TableContent struct {
	Type    string     `json:"type"`
	Data    [][]string `json:"data,omitempty"`
	Rows    int        `json:"rows"`
	Columns int        `json:"columns"`
	// Fallback holds a string representation when the grid could not be
	// recovered from the engine output.
	Fallback string `json:"fallback,omitempty"`
}

// Table references one extracted table and its artifact files.
type Table struct {
	ID       int          `json:"id"`
	Page     int          `json:"page"`
	Content  TableContent `json:"content"`
	FilePath string       `json:"file_path,omitempty"`
	XLSXPath string       `json:"xlsx_path,omitempty"`
}

// Image references one extracted image and its artifact file.
type Image struct {
	ID       int    `json:"id"`
	Page     int    `json:"page"`
	Format   string `json:"format"`
	FilePath string `json:"file_path,omitempty"`
}

// ProcessingStats records how a single processing call went.
type ProcessingStats struct {
	ProcessingTimeSeconds float64   `json:"processing_time_seconds"`
	FileSizeBytes         int64     `json:"file_size_bytes"`
	OCRUsed               bool      `json:"ocr_used"`
	OCRLanguages          []string  `json:"ocr_languages,omitempty"`
	EngineVersion         string    `json:"engine_version"`
	Timestamp             time.Time `json:"timestamp"`
}

// DocumentStructure is the normalized output record of a processing call.
// It is built once per call and not mutated afterwards.
type DocumentStructure struct {
	Title           string          `json:"title"`
	Authors         []string        `json:"authors"`
	Sections        []Section       `json:"sections"`
	Tables          []Table         `json:"tables"`
	Images          []Image         `json:"images"`
	Formulas        []string        `json:"formulas"`
	RawText         string          `json:"raw_text"`
	MarkdownContent string          `json:"markdown_content"`
	Metadata        map[string]any  `json:"metadata"`
	ProcessingStats ProcessingStats `json:"processing_stats"`
}

// ContentLength returns the metadata content_length value, 0 when unset.
func (d *DocumentStructure) ContentLength() int {
	if d.Metadata == nil {
		return 0
	}
	if n, ok := d.Metadata["content_length"].(int); ok {
		return n
	}
	return 0
}
