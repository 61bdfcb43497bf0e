package model

import "time"

// RunStatus represents the current state of a processing run.
type RunStatus string

const (
	RunStatusQueued     RunStatus = "queued"
	RunStatusConverting RunStatus = "converting"
	RunStatusComplete   RunStatus = "complete"
	RunStatusFailed     RunStatus = "failed"
)

// Run represents a single processing run for a document.
type Run struct {
	ID        string           `json:"id"`
	FilePath  string           `json:"file_path"`
	OutputDir string           `json:"output_dir"`
	OCRUsed   bool             `json:"ocr_used"`
	Status    RunStatus        `json:"status"`
	Stats     *ProcessingStats `json:"stats,omitempty"`
	Error     string           `json:"error,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}
