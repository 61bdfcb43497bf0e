package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/docproc/internal/model"
	"github.com/sells-group/docproc/internal/processor"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start HTTP server for conversion requests",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: newRouter(ctx, env),
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			_ = srv.Shutdown(context.Background())
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}

// newRouter builds the HTTP routes. The context bounds the lifetime of
// conversions accepted by the intake endpoint.
func newRouter(ctx context.Context, env *procEnv) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedMethods: []string{"GET", "POST"},
		AllowedHeaders: []string{"Content-Type"},
	}))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Post("/v1/process", func(w http.ResponseWriter, req *http.Request) {
		var body struct {
			FilePath  string   `json:"file_path"`
			OutputDir string   `json:"output_dir"`
			UseOCR    bool     `json:"use_ocr"`
			Languages []string `json:"languages"`
		}
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
			return
		}
		if body.FilePath == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "file_path is required"})
			return
		}

		outputDir := body.OutputDir
		if outputDir == "" {
			outputDir = outputDirFor(body.FilePath, "")
		}

		run, err := env.Store.CreateRun(req.Context(), body.FilePath, outputDir, body.UseOCR)
		if err != nil {
			zap.L().Error("create run failed", zap.Error(err))
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "create run failed"})
			return
		}

		// Conversion proceeds asynchronously; poll the run for the outcome.
		go func() {
			if err := env.Store.UpdateRunStatus(ctx, run.ID, model.RunStatusConverting); err != nil {
				zap.L().Warn("update run status failed", zap.String("run_id", run.ID), zap.Error(err))
			}

			structure, procErr := env.Processor.Process(ctx, processor.Request{
				FilePath:     body.FilePath,
				OutputDir:    outputDir,
				UseOCR:       body.UseOCR,
				OCRLanguages: body.Languages,
			})

			if procErr == nil {
				if err := writeStructureJSON(structure, outputDir); err != nil {
					procErr = err
				}
			}

			var stats *model.ProcessingStats
			if structure != nil {
				stats = &structure.ProcessingStats
			}
			if err := env.Store.CompleteRun(ctx, run.ID, stats, procErr); err != nil {
				zap.L().Warn("record run outcome failed", zap.String("run_id", run.ID), zap.Error(err))
			}

			if procErr != nil {
				zap.L().Error("async conversion failed", zap.String("file", body.FilePath), zap.Error(procErr))
				return
			}
			zap.L().Info("async conversion complete",
				zap.String("file", body.FilePath),
				zap.String("run_id", run.ID),
			)
		}()

		writeJSON(w, http.StatusAccepted, map[string]string{
			"status": "accepted",
			"run_id": run.ID,
			"file":   body.FilePath,
		})
	})

	r.Get("/v1/runs/{id}", func(w http.ResponseWriter, req *http.Request) {
		run, err := env.Store.GetRun(req.Context(), chi.URLParam(req, "id"))
		if err != nil {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "run not found"})
			return
		}
		writeJSON(w, http.StatusOK, run)
	})

	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
