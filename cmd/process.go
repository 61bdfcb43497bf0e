package main

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/docproc/internal/model"
	"github.com/sells-group/docproc/internal/processor"
)

var (
	processFile     string
	processOut      string
	processOCR      bool
	processLangs    []string
	processMarkdown bool
	processCleanup  bool
)

var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Convert a single document",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		structure, err := runOne(ctx, env, processor.Request{
			FilePath:     processFile,
			OutputDir:    processOut,
			UseOCR:       processOCR,
			OCRLanguages: processLangs,
		})
		if err != nil {
			return err
		}

		if processMarkdown {
			mdPath := filepath.Join(outputDirFor(processFile, processOut), "document.md")
			if _, err := env.Processor.ExportMarkdown(structure, mdPath); err != nil {
				return err
			}
		}
		if processCleanup {
			env.Processor.CleanupTempFiles(outputDirFor(processFile, processOut), true)
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(structure)
	},
}

func init() {
	processCmd.Flags().StringVar(&processFile, "file", "", "path to the document (required)")
	processCmd.Flags().StringVar(&processOut, "output", "", "output directory (default <temp_dir>/<file stem>)")
	processCmd.Flags().BoolVar(&processOCR, "ocr", false, "force OCR for scanned pages")
	processCmd.Flags().StringSliceVar(&processLangs, "langs", nil, "OCR languages (default from config)")
	processCmd.Flags().BoolVar(&processMarkdown, "markdown", false, "also write document.md to the output directory")
	processCmd.Flags().BoolVar(&processCleanup, "cleanup", false, "remove intermediate files, keeping .md and .json")
	_ = processCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(processCmd)
}

// outputDirFor mirrors the processor's default output directory choice so
// follow-up steps (markdown, cleanup) target the right place.
func outputDirFor(filePath, outputDir string) string {
	if outputDir != "" {
		return outputDir
	}
	stem := filepath.Base(filePath)
	stem = stem[:len(stem)-len(filepath.Ext(stem))]
	return filepath.Join(cfg.Processor.TempDir, stem)
}

// runOne records a run, converts the file, writes document.json, and marks
// the run complete or failed.
func runOne(ctx context.Context, env *procEnv, req processor.Request) (*model.DocumentStructure, error) {
	if req.OutputDir == "" {
		req.OutputDir = outputDirFor(req.FilePath, "")
	}

	run, err := env.Store.CreateRun(ctx, req.FilePath, req.OutputDir, req.UseOCR)
	if err != nil {
		return nil, err
	}
	if err := env.Store.UpdateRunStatus(ctx, run.ID, model.RunStatusConverting); err != nil {
		return nil, err
	}

	structure, procErr := env.Processor.Process(ctx, req)

	var stats *model.ProcessingStats
	if structure != nil {
		stats = &structure.ProcessingStats
	}
	if err := env.Store.CompleteRun(ctx, run.ID, stats, procErr); err != nil {
		zap.L().Warn("record run outcome failed", zap.String("run_id", run.ID), zap.Error(err))
	}
	if procErr != nil {
		return nil, procErr
	}

	if err := writeStructureJSON(structure, req.OutputDir); err != nil {
		return nil, err
	}

	zap.L().Info("document processed",
		zap.String("file", req.FilePath),
		zap.String("run_id", run.ID),
		zap.Int("sections", len(structure.Sections)),
		zap.Int("tables", len(structure.Tables)),
		zap.Bool("ocr_used", structure.ProcessingStats.OCRUsed),
	)
	return structure, nil
}

// writeStructureJSON persists the full structure next to the other artifacts.
func writeStructureJSON(structure *model.DocumentStructure, outputDir string) error {
	b, err := json.MarshalIndent(structure, "", "  ")
	if err != nil {
		return eris.Wrap(err, "marshal structure")
	}
	path := filepath.Join(outputDir, "document.json")
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return eris.Wrapf(err, "write %s", path)
	}
	return nil
}

// readStructureJSON loads a structure written by a previous process run.
func readStructureJSON(path string) (*model.DocumentStructure, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "read %s", path)
	}
	var structure model.DocumentStructure
	if err := json.Unmarshal(b, &structure); err != nil {
		return nil, eris.Wrapf(err, "parse %s", path)
	}
	return &structure, nil
}
