package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a new logger with timestamp formatting.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress logs completion of an operation with its elapsed time.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg with the elapsed time, e.g. "Laid out 12 scenes (41ms)".
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

// =============================================================================
// Pipeline Hooks
// =============================================================================

// logHooks reports layout, cache and generator events at debug level.
// Failures are logged at warn so they show without --verbose.
type logHooks struct {
	logger *log.Logger
}

func (h *logHooks) OnLayoutStart(_ context.Context, engine string, scenes int) {
	h.logger.Debug("layout start", "engine", engine, "scenes", scenes)
}

func (h *logHooks) OnLayoutComplete(_ context.Context, engine, source string, d time.Duration, err error) {
	if err != nil {
		h.logger.Warn("layout engine error", "engine", engine, "source", source, "err", err)
		return
	}
	h.logger.Debug("layout done", "engine", engine, "source", source, "duration", d.Round(time.Millisecond))
}

func (h *logHooks) OnBuildComplete(_ context.Context, cards, edges int, d time.Duration, err error) {
	if err != nil {
		h.logger.Warn("canvas build failed", "err", err)
		return
	}
	h.logger.Debug("canvas built", "cards", cards, "edges", edges, "duration", d.Round(time.Millisecond))
}

func (h *logHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h *logHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h *logHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h *logHooks) OnGenerateStart(_ context.Context, model string) {
	h.logger.Debug("generating story", "model", model)
}

func (h *logHooks) OnGenerateComplete(_ context.Context, model string, scenes int, d time.Duration, err error) {
	if err != nil {
		h.logger.Warn("generation failed", "model", model, "err", err)
		return
	}
	h.logger.Debug("story generated", "model", model, "scenes", scenes, "duration", d.Round(time.Millisecond))
}
