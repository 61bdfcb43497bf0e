package chunker

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/docproc/internal/model"
)

// ChunkMeta describes a single chunk file within a manifest.
type ChunkMeta struct {
	Index      int    `json:"index"`
	FileName   string `json:"file_name"`
	TokenCount int    `json:"token_count"`
	Section    string `json:"section,omitempty"`
}

// Manifest describes a chunked document.
type Manifest struct {
	SourceTitle   string      `json:"source_title"`
	TotalChunks   int         `json:"total_chunks"`
	MaxTokens     int         `json:"max_tokens"`
	OverlapTokens int         `json:"overlap_tokens"`
	Chunks        []ChunkMeta `json:"chunks"`
	CreatedAt     string      `json:"created_at"`
}

// WriteChunks writes one text file per chunk plus a chunks_manifest.json
// into outDir.
func (c *Chunker) WriteChunks(outDir, sourceTitle string, chunks []model.Chunk) (*Manifest, error) {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, eris.Wrapf(err, "chunker: create output dir %s", outDir)
	}

	manifest := &Manifest{
		SourceTitle:   sourceTitle,
		TotalChunks:   len(chunks),
		MaxTokens:     c.maxTokens,
		OverlapTokens: c.overlapTokens,
		Chunks:        make([]ChunkMeta, 0, len(chunks)),
		CreatedAt:     time.Now().UTC().Format(time.RFC3339),
	}

	for _, ch := range chunks {
		fileName := fmt.Sprintf("chunk_%05d.txt", ch.Index)
		if err := os.WriteFile(filepath.Join(outDir, fileName), []byte(ch.Text), 0o644); err != nil {
			return nil, eris.Wrapf(err, "chunker: write chunk %d", ch.Index)
		}
		manifest.Chunks = append(manifest.Chunks, ChunkMeta{
			Index:      ch.Index,
			FileName:   fileName,
			TokenCount: ch.TokenCount,
			Section:    ch.Section,
		})
	}

	data, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return nil, eris.Wrap(err, "chunker: marshal manifest")
	}
	manifestPath := filepath.Join(outDir, "chunks_manifest.json")
	if err := os.WriteFile(manifestPath, data, 0o644); err != nil {
		return nil, eris.Wrapf(err, "chunker: write %s", manifestPath)
	}

	return manifest, nil
}
