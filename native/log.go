package native

import (
	"log/slog"
	"os"
	"sync/atomic"

	"github.com/ironsheep/cvbind/internal/config"
)

var (
	logger         atomic.Pointer[slog.Logger]
	traceLifecycle atomic.Bool
)

func init() {
	cfg := config.Load()
	logger.Store(cfg.NewLogger(os.Stderr))
	traceLifecycle.Store(cfg.TraceLifecycle)
}

// SetLogger replaces the logger used by the native layer. Passing nil
// restores a logger built from the environment.
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = config.Load().NewLogger(os.Stderr)
	}
	logger.Store(l)
}

// SetTraceLifecycle toggles debug records for every acquire and release.
func SetTraceLifecycle(on bool) {
	traceLifecycle.Store(on)
}

// Logger returns the logger used by the native layer.
func Logger() *slog.Logger {
	return logger.Load()
}
