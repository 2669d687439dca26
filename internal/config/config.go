package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DefaultPort           = "3000"
	DefaultCompileURL     = "https://latexonline.cc/compile"
	DefaultStorageDir     = "storage"
	DefaultUploadMaxBytes = 10 << 20
)

// Config holds the server configuration read from the environment.
type Config struct {
	Port            string
	CompileURL      string
	CompileTimeout  time.Duration // zero disables the timeout
	StorageDir      string
	PersistCompiled bool
	DatabaseURL     string // empty keeps sessions in memory
	DocxExtraction  bool
	UploadMaxBytes  int
	LogLevel        slog.Level
}

// GetEnv reads an environment variable or returns fallback when unset.
func GetEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	cfg := &Config{
		Port:        GetEnv("PORT", DefaultPort),
		CompileURL:  GetEnv("LATEX_COMPILE_URL", DefaultCompileURL),
		StorageDir:  GetEnv("PDF_STORAGE_DIR", DefaultStorageDir),
		DatabaseURL: GetEnv("SESSIONS_DATABASE_URL", ""),
	}
	if cfg.Port == "" {
		cfg.Port = DefaultPort
	}
	if cfg.CompileURL == "" {
		return nil, fmt.Errorf("LATEX_COMPILE_URL must not be empty")
	}

	var err error
	if cfg.CompileTimeout, err = parseDuration("LATEX_COMPILE_TIMEOUT"); err != nil {
		return nil, err
	}
	if cfg.PersistCompiled, err = parseBool("PDF_PERSIST", false); err != nil {
		return nil, err
	}
	if cfg.DocxExtraction, err = parseBool("DOCX_EXTRACTION", true); err != nil {
		return nil, err
	}
	if cfg.UploadMaxBytes, err = parseInt("UPLOAD_MAX_BYTES", DefaultUploadMaxBytes); err != nil {
		return nil, err
	}
	if cfg.LogLevel, err = parseLevel(GetEnv("LOG_LEVEL", "info")); err != nil {
		return nil, err
	}
	return cfg, nil
}

func parseDuration(key string) (time.Duration, error) {
	v := GetEnv(key, "")
	if v == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("%s: negative duration %s", key, v)
	}
	return d, nil
}

func parseBool(key string, fallback bool) (bool, error) {
	v := GetEnv(key, "")
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return b, nil
}

func parseInt(key string, fallback int) (int, error) {
	v := GetEnv(key, "")
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	if n <= 0 {
		return 0, fmt.Errorf("%s: must be positive, got %d", key, n)
	}
	return n, nil
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("LOG_LEVEL: unknown level %q", s)
	}
}
