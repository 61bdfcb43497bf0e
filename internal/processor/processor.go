// Package processor orchestrates document conversion: it validates input,
// owns converter handles per OCR mode, delegates to the conversion engine,
// and repackages engine output into the normalized DocumentStructure.
package processor

import (
	"context"
	"os"
	"sync"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/docproc/internal/chunker"
	"github.com/sells-group/docproc/internal/config"
	"github.com/sells-group/docproc/internal/engine"
	"github.com/sells-group/docproc/internal/engine/ocr"
	"github.com/sells-group/docproc/internal/model"
)

// Validation sentinels. Wrapped errors remain matchable with errors.Is.
var (
	ErrNotFound     = eris.New("processor: input file not found")
	ErrFileTooLarge = eris.New("processor: input file exceeds size limit")
)

// Mode identifies a converter pipeline configuration.
type Mode string

const (
	ModeBase Mode = "base"
	ModeOCR  Mode = "ocr"
)

// converterFactory builds a converter for pipeline options; swapped in tests.
type converterFactory func(opts engine.Options, ocrEngine ocr.Engine) (engine.Converter, error)

// Request describes one processing call. OCR mode is per call; the processor
// holds no mutable mode state.
type Request struct {
	FilePath     string
	OutputDir    string
	UseOCR       bool
	OCRLanguages []string
}

// Processor converts documents into DocumentStructure records. Converter
// handles are built lazily, once per mode, and cached; concurrent calls with
// different OCR modes are safe.
type Processor struct {
	cfg    config.ProcessorConfig
	ocrCfg config.OCRConfig
	chunk  *chunker.Chunker

	factory converterFactory

	mu      sync.Mutex
	handles map[Mode]engine.Converter
	inits   map[Mode]int
}

// New creates a Processor, ensures its cache/temp directories exist, and
// eagerly builds the base (non-OCR) converter handle.
func New(cfg *config.Config) (*Processor, error) {
	for _, dir := range []string{cfg.Processor.CacheDir, cfg.Processor.TempDir} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, eris.Wrapf(err, "processor: create dir %s", dir)
		}
	}

	p := &Processor{
		cfg:    cfg.Processor,
		ocrCfg: cfg.OCR,
		chunk:  chunker.New(cfg.Chunker),
		factory: func(opts engine.Options, ocrEngine ocr.Engine) (engine.Converter, error) {
			return engine.NewPDFConverter(opts, ocrEngine)
		},
		handles: make(map[Mode]engine.Converter),
		inits:   make(map[Mode]int),
	}

	if _, err := p.converterFor(false, nil); err != nil {
		return nil, err
	}

	zap.L().Info("processor initialized",
		zap.Bool("ocr_by_default", cfg.Processor.EnableOCRByDefault),
		zap.String("ocr_provider", cfg.OCR.Provider),
	)
	return p, nil
}

// Process converts one file and returns its normalized structure. Validation
// failures surface before any engine work; all other failures are logged and
// propagated, never swallowed.
func (p *Processor) Process(ctx context.Context, req Request) (*model.DocumentStructure, error) {
	start := time.Now()
	log := zap.L().With(
		zap.String("file", req.FilePath),
		zap.Bool("ocr", req.UseOCR),
	)
	log.Info("processing document", zap.Strings("ocr_languages", req.OCRLanguages))

	info, err := os.Stat(req.FilePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, eris.Wrapf(ErrNotFound, "%s", req.FilePath)
		}
		return nil, eris.Wrapf(err, "processor: stat %s", req.FilePath)
	}
	if maxSize := p.cfg.MaxFileSizeBytes(); maxSize > 0 && info.Size() > maxSize {
		return nil, eris.Wrapf(ErrFileTooLarge, "%d bytes (max %d)", info.Size(), maxSize)
	}

	langs := req.OCRLanguages
	if len(langs) == 0 {
		langs = p.cfg.OCRLanguages
	}

	conv, err := p.converterFor(req.UseOCR, langs)
	if err != nil {
		log.Error("converter initialization failed", zap.Error(err))
		return nil, err
	}

	if req.OutputDir != "" {
		if err := os.MkdirAll(req.OutputDir, 0o755); err != nil {
			return nil, eris.Wrapf(err, "processor: create output dir %s", req.OutputDir)
		}
	}

	if timeout := p.cfg.ProcessingTimeout(); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	doc, err := conv.Convert(ctx, req.FilePath)
	if err != nil {
		log.Error("conversion failed", zap.Error(err))
		return nil, eris.Wrapf(err, "processor: convert %s", req.FilePath)
	}

	structure, err := p.mapDocument(doc, req)
	if err != nil {
		log.Error("structure extraction failed", zap.Error(err))
		return nil, err
	}

	elapsed := time.Since(start)
	structure.ProcessingStats = model.ProcessingStats{
		ProcessingTimeSeconds: elapsed.Seconds(),
		FileSizeBytes:         info.Size(),
		OCRUsed:               req.UseOCR,
		EngineVersion:         engine.Version,
		Timestamp:             time.Now().UTC(),
	}
	if req.UseOCR {
		structure.ProcessingStats.OCRLanguages = langs
	}

	log.Info("document processed",
		zap.Duration("elapsed", elapsed),
		zap.Int("sections", len(structure.Sections)),
		zap.Int("tables", len(structure.Tables)),
		zap.Int("images", len(structure.Images)),
	)
	return structure, nil
}

// converterFor returns the cached handle for the requested mode, building it
// on first use. A failed OCR-handle build guarantees the base handle exists
// before the error propagates, so callers can retry without OCR.
func (p *Processor) converterFor(useOCR bool, langs []string) (engine.Converter, error) {
	mode := ModeBase
	if useOCR {
		mode = ModeOCR
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if h, ok := p.handles[mode]; ok {
		return h, nil
	}

	h, err := p.buildLocked(mode, langs)
	if err != nil {
		if mode == ModeOCR {
			// Fall back to the base handle, then surface the failure.
			if _, ok := p.handles[ModeBase]; !ok {
				if base, baseErr := p.buildLocked(ModeBase, nil); baseErr == nil {
					p.handles[ModeBase] = base
					p.inits[ModeBase]++
				}
			}
			zap.L().Error("OCR converter initialization failed, base handle retained", zap.Error(err))
		}
		return nil, eris.Wrapf(err, "processor: initialize %s converter", mode)
	}

	p.handles[mode] = h
	p.inits[mode]++
	zap.L().Info("converter initialized", zap.String("mode", string(mode)))
	return h, nil
}

// buildLocked constructs a converter for mode. Caller holds p.mu.
func (p *Processor) buildLocked(mode Mode, langs []string) (engine.Converter, error) {
	opts := engine.Options{
		EnableOCR:      mode == ModeOCR,
		OCRLanguages:   langs,
		TableStructure: p.cfg.ExtractTables,
		PageImages:     p.cfg.ExtractImages,
		OCRDPI:         p.ocrCfg.DPI,
	}

	var ocrEngine ocr.Engine
	if mode == ModeOCR {
		var err error
		ocrEngine, err = ocr.NewEngine(p.ocrCfg)
		if err != nil {
			return nil, err
		}
	}

	return p.factory(opts, ocrEngine)
}

// Stats is a point-in-time snapshot of processor state.
type Stats struct {
	HandleInits      map[Mode]int           `json:"handle_inits"`
	ChunkerAvailable bool                   `json:"chunker_available"`
	OCRProvider      string                 `json:"ocr_provider"`
	Config           config.ProcessorConfig `json:"config"`
}

// Stats reports converter handle initialization counts and configuration.
func (p *Processor) Stats() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()

	inits := make(map[Mode]int, len(p.inits))
	for k, v := range p.inits {
		inits[k] = v
	}
	return Stats{
		HandleInits:      inits,
		ChunkerAvailable: p.chunk != nil,
		OCRProvider:      p.ocrCfg.Provider,
		Config:           p.cfg,
	}
}

// Chunker returns the processor's chunker.
func (p *Processor) Chunker() *chunker.Chunker {
	return p.chunk
}
