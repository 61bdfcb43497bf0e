package main

import (
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"sync/atomic"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/docproc/internal/processor"
)

var (
	batchDir     string
	batchOut     string
	batchOCR     bool
	batchLimit   int
	batchWorkers int
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Convert every document in a directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		files, err := collectDocuments(batchDir)
		if err != nil {
			return err
		}
		if batchLimit > 0 && len(files) > batchLimit {
			files = files[:batchLimit]
		}
		if len(files) == 0 {
			zap.L().Info("no documents found", zap.String("dir", batchDir))
			return nil
		}

		workers := batchWorkers
		if workers <= 0 {
			workers = cfg.Processor.MaxWorkers
		}

		zap.L().Info("processing batch",
			zap.Int("files", len(files)),
			zap.Int("workers", workers),
		)

		var succeeded, failed atomic.Int64

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(workers)
		for _, file := range files {
			g.Go(func() error {
				outDir := ""
				if batchOut != "" {
					outDir = filepath.Join(batchOut, stemOf(file))
				}
				_, err := runOne(gctx, env, processor.Request{
					FilePath:  file,
					OutputDir: outDir,
					UseOCR:    batchOCR,
				})
				if err != nil {
					failed.Add(1)
					zap.L().Error("batch file failed", zap.String("file", file), zap.Error(err))
					return nil // keep going, failures are recorded per run
				}
				succeeded.Add(1)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return eris.Wrap(err, "batch")
		}

		zap.L().Info("batch complete",
			zap.Int64("succeeded", succeeded.Load()),
			zap.Int64("failed", failed.Load()),
		)
		return nil
	},
}

func init() {
	batchCmd.Flags().StringVar(&batchDir, "dir", "", "directory of documents to convert (required)")
	batchCmd.Flags().StringVar(&batchOut, "output", "", "root output directory (default per-file under temp_dir)")
	batchCmd.Flags().BoolVar(&batchOCR, "ocr", false, "force OCR for scanned pages")
	batchCmd.Flags().IntVar(&batchLimit, "limit", 0, "max number of files to process (0 = all)")
	batchCmd.Flags().IntVar(&batchWorkers, "workers", 0, "concurrent conversions (default from config)")
	_ = batchCmd.MarkFlagRequired("dir")
	rootCmd.AddCommand(batchCmd)
}

// collectDocuments returns the PDF files directly under dir, sorted.
func collectDocuments(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, eris.Wrapf(err, "read dir %s", dir)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(e.Name()), ".pdf") {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}

func stemOf(path string) string {
	base := filepath.Base(path)
	return base[:len(base)-len(filepath.Ext(base))]
}
