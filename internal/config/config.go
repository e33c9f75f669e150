package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/dgallion1/orgview/internal/org"
	"github.com/dgallion1/orgview/internal/render"
)

type Config struct {
	Port string

	// Auth
	APIKey string

	// Worker pool
	WorkerCount  int
	MaxQueueSize int

	// Upload limits
	MaxUploadBytes int64

	// Job state
	JobTTL time.Duration

	// PDF
	PDFFallbackPdftotext bool

	// Rendering defaults
	OrgOptions        string // key:value pairs in #+options: syntax
	HTMLClassPrefix   string
	HTMLIDPrefix      string
	ExportLineNumbers bool
	TranslateArrows   bool
	SanitizeRawHTML   bool
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8090"),

		APIKey: os.Getenv("ORGVIEW_API_KEY"),

		WorkerCount:  envInt("WORKER_COUNT", 4),
		MaxQueueSize: envInt("MAX_QUEUE_SIZE", 100),

		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 10485760), // 10MB

		JobTTL: envDuration("JOB_TTL", 1*time.Hour),

		PDFFallbackPdftotext: envBool("PDF_FALLBACK_PDFTOTEXT", true),

		OrgOptions:        os.Getenv("ORG_OPTIONS"),
		HTMLClassPrefix:   os.Getenv("HTML_CLASS_PREFIX"),
		HTMLIDPrefix:      os.Getenv("HTML_ID_PREFIX"),
		ExportLineNumbers: envBool("EXPORT_LINE_NUMBERS", false),
		TranslateArrows:   envBool("TRANSLATE_ARROWS", false),
		SanitizeRawHTML:   envBool("SANITIZE_RAW_HTML", true),
	}

	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 4
	}
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = 100
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 10485760
	}
	if cfg.JobTTL <= 0 {
		cfg.JobTTL = 1 * time.Hour
	}

	return cfg
}

func (c Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("ORGVIEW_API_KEY is required")
	}
	if _, err := c.ParseOptions(); err != nil {
		return fmt.Errorf("ORG_OPTIONS: %w", err)
	}
	return nil
}

// ParseOptions returns the default document options with ORG_OPTIONS
// applied.
func (c Config) ParseOptions() (org.Options, error) {
	opts := org.DefaultOptions()
	if c.OrgOptions == "" {
		return opts, nil
	}
	if err := opts.ParseOptionPairs(c.OrgOptions); err != nil {
		return org.Options{}, err
	}
	return opts, nil
}

// ExportOptions returns the server-wide render settings.
func (c Config) ExportOptions() render.ExportOptions {
	e := render.DefaultExportOptions()
	e.HTMLClassPrefix = c.HTMLClassPrefix
	e.HTMLIDPrefix = c.HTMLIDPrefix
	e.ExportFromLineNumber = c.ExportLineNumbers
	e.TranslateSymbolArrow = c.TranslateArrows
	e.SanitizeRawHTML = c.SanitizeRawHTML
	return e
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
