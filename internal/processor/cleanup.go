package processor

import (
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// keepExtensions are artifact types preserved by cleanup when keepMainFiles
// is set.
var keepExtensions = map[string]bool{
	".md":   true,
	".json": true,
}

// CleanupTempFiles removes files from dir, keeping .md and .json artifacts
// when keepMainFiles is set. Best effort: failures are logged, never returned.
func (p *Processor) CleanupTempFiles(dir string, keepMainFiles bool) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		zap.L().Warn("cleanup: read dir failed", zap.String("dir", dir), zap.Error(err))
		return
	}

	removed := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if keepMainFiles && keepExtensions[strings.ToLower(filepath.Ext(entry.Name()))] {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := os.Remove(path); err != nil {
			zap.L().Warn("cleanup: remove failed", zap.String("path", path), zap.Error(err))
			continue
		}
		removed++
	}

	zap.L().Info("temp files cleaned", zap.String("dir", dir), zap.Int("removed", removed))
}
