package logger

import (
	"log/slog"

	"bridge_router/internal/app/port"

	"go.uber.org/zap"
	"go.uber.org/zap/exp/zapslog"
)

// slogAdapter implements port.Logger on top of the package level functions.
type slogAdapter struct{}

// NewSlogAdapter returns a port.Logger writing to the process logger.
func NewSlogAdapter() port.Logger {
	return &slogAdapter{}
}

func (a *slogAdapter) Info(msg string, args ...any)  { Info(msg, args...) }
func (a *slogAdapter) Debug(msg string, args ...any) { Debug(msg, args...) }
func (a *slogAdapter) Warn(msg string, args ...any)  { Warn(msg, args...) }
func (a *slogAdapter) Error(msg string, args ...any) { Error(msg, args...) }

// zapAdapter implements port.Logger over a specific zap logger.
// Tests hand it a zaptest logger.
type zapAdapter struct {
	l *slog.Logger
}

// NewZapAdapter wraps zl as a port.Logger.
func NewZapAdapter(zl *zap.Logger) port.Logger {
	return &zapAdapter{l: slog.New(zapslog.NewHandler(zl.Core()))}
}

func (a *zapAdapter) Info(msg string, args ...any)  { a.l.Info(msg, args...) }
func (a *zapAdapter) Debug(msg string, args ...any) { a.l.Debug(msg, args...) }
func (a *zapAdapter) Warn(msg string, args ...any)  { a.l.Warn(msg, args...) }
func (a *zapAdapter) Error(msg string, args ...any) { a.l.Error(msg, args...) }
