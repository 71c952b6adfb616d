package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/cloudwego/hertz/pkg/common/hlog"
)

// HertzSlogAdapter routes Hertz framework logs through slog.
type HertzSlogAdapter struct {
	logger *slog.Logger
}

// NewHertzSlogAdapter creates a Hertz logger backed by the given slog.Logger.
func NewHertzSlogAdapter(logger *slog.Logger) *HertzSlogAdapter {
	return &HertzSlogAdapter{logger: logger}
}

func (h *HertzSlogAdapter) log(ctx context.Context, level slog.Level, msg string) {
	if ctx == nil {
		ctx = context.Background()
	}
	h.logger.Log(ctx, level, msg)
}

func sprint(v ...interface{}) string {
	if len(v) == 1 {
		if s, ok := v[0].(string); ok {
			return s
		}
	}
	return fmt.Sprint(v...)
}

func (h *HertzSlogAdapter) Trace(v ...interface{})  { h.log(nil, slog.LevelDebug, sprint(v...)) }
func (h *HertzSlogAdapter) Debug(v ...interface{})  { h.log(nil, slog.LevelDebug, sprint(v...)) }
func (h *HertzSlogAdapter) Info(v ...interface{})   { h.log(nil, slog.LevelInfo, sprint(v...)) }
func (h *HertzSlogAdapter) Notice(v ...interface{}) { h.log(nil, slog.LevelInfo, sprint(v...)) }
func (h *HertzSlogAdapter) Warn(v ...interface{})   { h.log(nil, slog.LevelWarn, sprint(v...)) }
func (h *HertzSlogAdapter) Error(v ...interface{})  { h.log(nil, slog.LevelError, sprint(v...)) }
func (h *HertzSlogAdapter) Fatal(v ...interface{})  { h.log(nil, slog.LevelError, sprint(v...)) }

func (h *HertzSlogAdapter) Tracef(format string, v ...interface{}) {
	h.log(nil, slog.LevelDebug, fmt.Sprintf(format, v...))
}
func (h *HertzSlogAdapter) Debugf(format string, v ...interface{}) {
	h.log(nil, slog.LevelDebug, fmt.Sprintf(format, v...))
}
func (h *HertzSlogAdapter) Infof(format string, v ...interface{}) {
	h.log(nil, slog.LevelInfo, fmt.Sprintf(format, v...))
}
func (h *HertzSlogAdapter) Noticef(format string, v ...interface{}) {
	h.log(nil, slog.LevelInfo, fmt.Sprintf(format, v...))
}
func (h *HertzSlogAdapter) Warnf(format string, v ...interface{}) {
	h.log(nil, slog.LevelWarn, fmt.Sprintf(format, v...))
}
func (h *HertzSlogAdapter) Errorf(format string, v ...interface{}) {
	h.log(nil, slog.LevelError, fmt.Sprintf(format, v...))
}
func (h *HertzSlogAdapter) Fatalf(format string, v ...interface{}) {
	h.log(nil, slog.LevelError, fmt.Sprintf(format, v...))
}

func (h *HertzSlogAdapter) CtxTracef(ctx context.Context, format string, v ...interface{}) {
	h.log(ctx, slog.LevelDebug, fmt.Sprintf(format, v...))
}
func (h *HertzSlogAdapter) CtxDebugf(ctx context.Context, format string, v ...interface{}) {
	h.log(ctx, slog.LevelDebug, fmt.Sprintf(format, v...))
}
func (h *HertzSlogAdapter) CtxInfof(ctx context.Context, format string, v ...interface{}) {
	h.log(ctx, slog.LevelInfo, fmt.Sprintf(format, v...))
}
func (h *HertzSlogAdapter) CtxNoticef(ctx context.Context, format string, v ...interface{}) {
	h.log(ctx, slog.LevelInfo, fmt.Sprintf(format, v...))
}
func (h *HertzSlogAdapter) CtxWarnf(ctx context.Context, format string, v ...interface{}) {
	h.log(ctx, slog.LevelWarn, fmt.Sprintf(format, v...))
}
func (h *HertzSlogAdapter) CtxErrorf(ctx context.Context, format string, v ...interface{}) {
	h.log(ctx, slog.LevelError, fmt.Sprintf(format, v...))
}
func (h *HertzSlogAdapter) CtxFatalf(ctx context.Context, format string, v ...interface{}) {
	h.log(ctx, slog.LevelError, fmt.Sprintf(format, v...))
}

// SetLevel is a no-op; the slog handler owns level filtering.
func (h *HertzSlogAdapter) SetLevel(level hlog.Level) {}

// SetOutput is a no-op; the slog handler owns the output writer.
func (h *HertzSlogAdapter) SetOutput(writer io.Writer) {}
