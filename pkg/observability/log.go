package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks implements every hook interface by writing debug-level log
// records. Errors and unconverged solves are logged at warn level.
type LogHooks struct {
	Logger *log.Logger
}

// NewLogHooks returns hooks that log to l.
func NewLogHooks(l *log.Logger) *LogHooks {
	return &LogHooks{Logger: l.WithPrefix("hooks")}
}

// Install registers h for pipeline, cache and HTTP events.
func (h *LogHooks) Install() {
	SetPipelineHooks(h)
	SetCacheHooks(h)
	SetHTTPHooks(h)
}

func (h *LogHooks) OnLayoutStart(_ context.Context, mode string, circleCount int) {
	h.Logger.Debug("layout start", "mode", mode, "circles", circleCount)
}

func (h *LogHooks) OnLayoutComplete(_ context.Context, mode string, duration time.Duration, err error) {
	if err != nil {
		h.Logger.Warn("layout failed", "mode", mode, "duration", duration, "error", err)
		return
	}
	h.Logger.Debug("layout complete", "mode", mode, "duration", duration)
}

func (h *LogHooks) OnSolve(_ context.Context, region string, circleCount, iterations int, converged bool) {
	if !converged {
		h.Logger.Warn("solve left overlap", "region", region, "circles", circleCount, "iterations", iterations)
		return
	}
	h.Logger.Debug("solve", "region", region, "circles", circleCount, "iterations", iterations)
}

func (h *LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.Logger.Debug("cache hit", "type", keyType)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.Logger.Debug("cache miss", "type", keyType)
}

func (h *LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.Logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h *LogHooks) OnRequest(_ context.Context, method, host, path string) {
	h.Logger.Debug("request", "method", method, "host", host, "path", path)
}

func (h *LogHooks) OnResponse(_ context.Context, method, host, path string, statusCode int, duration time.Duration) {
	h.Logger.Debug("response", "method", method, "path", path, "status", statusCode, "duration", duration)
}

func (h *LogHooks) OnError(_ context.Context, method, host, path string, err error) {
	h.Logger.Warn("request failed", "method", method, "host", host, "path", path, "error", err)
}
