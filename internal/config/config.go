// Package config reads the environment-driven settings shared by the cvbind
// packages.
//
// Settings are read from the process environment:
//
//	CVBIND_LOG_LEVEL=debug|info|warn|error   Logger level (default warn)
//	CVBIND_TRACE_LIFECYCLE=1                 Log every native acquire/release
//	CVBIND_TESSDATA_PREFIX=/path/to/tessdata Tesseract language data directory
package config

import (
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
)

// Environment variable names.
const (
	EnvLogLevel       = "CVBIND_LOG_LEVEL"
	EnvTraceLifecycle = "CVBIND_TRACE_LIFECYCLE"
	EnvTessdataPrefix = "CVBIND_TESSDATA_PREFIX"
)

// Config holds the resolved settings.
type Config struct {
	// LogLevel is the minimum level emitted by loggers built with NewLogger.
	LogLevel slog.Level

	// TraceLifecycle enables debug records for every native object acquire
	// and release. Off by default since it is very chatty.
	TraceLifecycle bool

	// TessdataPrefix is the directory holding Tesseract's traineddata
	// files. Empty means Tesseract's own default.
	TessdataPrefix string
}

// Load reads the configuration from the environment.
func Load() Config {
	return FromLookup(os.LookupEnv)
}

// FromLookup builds a Config using the given lookup function in place of
// os.LookupEnv.
func FromLookup(lookup func(string) (string, bool)) Config {
	cfg := Config{LogLevel: slog.LevelWarn}

	if v, ok := lookup(EnvLogLevel); ok {
		cfg.LogLevel = ParseLevel(v, slog.LevelWarn)
	}
	if v, ok := lookup(EnvTraceLifecycle); ok {
		if b, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
			cfg.TraceLifecycle = b
		}
	}
	if v, ok := lookup(EnvTessdataPrefix); ok {
		cfg.TessdataPrefix = strings.TrimSpace(v)
	}
	return cfg
}

// ParseLevel maps a level name to a slog.Level, returning def for unknown
// names.
func ParseLevel(name string, def slog.Level) slog.Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return def
}

// NewLogger returns a text logger writing to w at the configured level.
func (c Config) NewLogger(w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: c.LogLevel}))
}
