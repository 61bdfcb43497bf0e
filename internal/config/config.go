package config

import (
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Processor ProcessorConfig `yaml:"processor" mapstructure:"processor"`
	OCR       OCRConfig       `yaml:"ocr" mapstructure:"ocr"`
	Chunker   ChunkerConfig   `yaml:"chunker" mapstructure:"chunker"`
	Store     StoreConfig     `yaml:"store" mapstructure:"store"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// ProcessorConfig configures document conversion.
type ProcessorConfig struct {
	ModelPath string `yaml:"model_path" mapstructure:"model_path"`
	CacheDir  string `yaml:"cache_dir" mapstructure:"cache_dir"`
	TempDir   string `yaml:"temp_dir" mapstructure:"temp_dir"`

	UseGPU             bool `yaml:"use_gpu" mapstructure:"use_gpu"`
	MaxWorkers         int  `yaml:"max_workers" mapstructure:"max_workers"`
	EnableOCRByDefault bool `yaml:"enable_ocr_by_default" mapstructure:"enable_ocr_by_default"`

	OCRLanguages           []string `yaml:"ocr_languages" mapstructure:"ocr_languages"`
	OCRConfidenceThreshold float64  `yaml:"ocr_confidence_threshold" mapstructure:"ocr_confidence_threshold"`

	ExtractTables   bool `yaml:"extract_tables" mapstructure:"extract_tables"`
	ExtractImages   bool `yaml:"extract_images" mapstructure:"extract_images"`
	ExtractFormulas bool `yaml:"extract_formulas" mapstructure:"extract_formulas"`
	PreserveLayout  bool `yaml:"preserve_layout" mapstructure:"preserve_layout"`

	ProcessingTimeoutMinutes int `yaml:"processing_timeout_minutes" mapstructure:"processing_timeout_minutes"`
	MaxFileSizeMB            int `yaml:"max_file_size_mb" mapstructure:"max_file_size_mb"`
}

// ProcessingTimeout returns the conversion deadline as a duration.
func (c ProcessorConfig) ProcessingTimeout() time.Duration {
	return time.Duration(c.ProcessingTimeoutMinutes) * time.Minute
}

// MaxFileSizeBytes returns the input file size ceiling in bytes.
func (c ProcessorConfig) MaxFileSizeBytes() int64 {
	return int64(c.MaxFileSizeMB) * 1024 * 1024
}

// OCRConfig configures the OCR engine provider.
type OCRConfig struct {
	Provider      string `yaml:"provider" mapstructure:"provider"`
	PdfToTextPath string `yaml:"pdftotext_path" mapstructure:"pdftotext_path"`
	DPI           int    `yaml:"dpi" mapstructure:"dpi"`
}

// ChunkerConfig configures text chunking.
type ChunkerConfig struct {
	MaxTokens     int `yaml:"max_tokens" mapstructure:"max_tokens"`
	OverlapTokens int `yaml:"overlap_tokens" mapstructure:"overlap_tokens"`
}

// StoreConfig configures the run-history database backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// ServerConfig configures the intake server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("DOCPROC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("processor.model_path", "/mnt/storage/models/docproc")
	v.SetDefault("processor.cache_dir", "/mnt/storage/models/docproc")
	v.SetDefault("processor.temp_dir", "/tmp/docproc")
	v.SetDefault("processor.use_gpu", true)
	v.SetDefault("processor.max_workers", 4)
	v.SetDefault("processor.enable_ocr_by_default", false)
	v.SetDefault("processor.ocr_languages", []string{"eng", "rus", "chi_sim"})
	v.SetDefault("processor.ocr_confidence_threshold", 0.8)
	v.SetDefault("processor.extract_tables", true)
	v.SetDefault("processor.extract_images", true)
	v.SetDefault("processor.extract_formulas", true)
	v.SetDefault("processor.preserve_layout", true)
	v.SetDefault("processor.processing_timeout_minutes", 60)
	v.SetDefault("processor.max_file_size_mb", 500)
	v.SetDefault("ocr.provider", "tesseract")
	v.SetDefault("ocr.pdftotext_path", "pdftotext")
	v.SetDefault("ocr.dpi", 300)
	v.SetDefault("chunker.max_tokens", 1024)
	v.SetDefault("chunker.overlap_tokens", 128)
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "docproc.db")
	v.SetDefault("server.port", 8080)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
