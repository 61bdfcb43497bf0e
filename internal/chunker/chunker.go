// Package chunker splits processed document text into bounded-size pieces
// for downstream consumption (embedding, indexing).
package chunker

import (
	"strings"

	"github.com/sells-group/docproc/internal/config"
	"github.com/sells-group/docproc/internal/model"
)

const (
	defaultMaxTokens     = 1024
	defaultOverlapTokens = 128
)

// Chunker packs document sections into chunks bounded by a token budget,
// carrying an overlap window between adjacent chunks. Tokens are
// whitespace-delimited words; the budget contract matches the upstream
// hybrid-chunking defaults (1024 max, 128 overlap).
type Chunker struct {
	maxTokens     int
	overlapTokens int
}

// New creates a Chunker from config, applying defaults for unset values.
func New(cfg config.ChunkerConfig) *Chunker {
	c := &Chunker{
		maxTokens:     cfg.MaxTokens,
		overlapTokens: cfg.OverlapTokens,
	}
	if c.maxTokens <= 0 {
		c.maxTokens = defaultMaxTokens
	}
	if c.overlapTokens < 0 || c.overlapTokens >= c.maxTokens {
		c.overlapTokens = defaultOverlapTokens
		if c.overlapTokens >= c.maxTokens {
			c.overlapTokens = c.maxTokens / 8
		}
	}
	return c
}

// Chunk splits a document structure into ordered chunks.
func (c *Chunker) Chunk(structure *model.DocumentStructure) []model.Chunk {
	return c.ChunkSections(structure.Sections)
}

// ChunkSections chunks section-by-section so chunks never merge content
// across heading boundaries. Sections larger than the budget are split with
// overlap carried between adjacent chunks.
func (c *Chunker) ChunkSections(sections []model.Section) []model.Chunk {
	var chunks []model.Chunk
	for _, sec := range sections {
		words := strings.Fields(sec.Content)
		if len(words) == 0 {
			continue
		}

		step := c.maxTokens - c.overlapTokens
		for start := 0; start < len(words); start += step {
			end := start + c.maxTokens
			if end > len(words) {
				end = len(words)
			}
			chunks = append(chunks, model.Chunk{
				Index:      len(chunks),
				Text:       strings.Join(words[start:end], " "),
				TokenCount: end - start,
				Section:    sec.Title,
				PageStart:  sec.Page,
				PageEnd:    sec.Page,
			})
			if end == len(words) {
				break
			}
		}
	}
	return chunks
}

// MaxTokens returns the configured chunk budget.
func (c *Chunker) MaxTokens() int { return c.maxTokens }

// OverlapTokens returns the configured overlap window.
func (c *Chunker) OverlapTokens() int { return c.overlapTokens }
