package soaprouter

import (
	"log/slog"
	"os"
)

// slogLogger implements Logger on top of log/slog, the same way the
// ambient logging in the example corpus's web framework is built.
type slogLogger struct {
	logger    *slog.Logger
	requestID string
}

// NewLogger creates a Logger backed by the given slog.Logger. A nil
// logger falls back to a text handler on stderr.
func NewLogger(logger *slog.Logger) Logger {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, nil))
	}
	return &slogLogger{logger: logger}
}

func (l *slogLogger) attrs(fields []any) []any {
	if l.requestID == "" {
		return fields
	}
	return append([]any{"request_id", l.requestID}, fields...)
}

func (l *slogLogger) Debug(msg string, fields ...any) { l.logger.Debug(msg, l.attrs(fields)...) }
func (l *slogLogger) Info(msg string, fields ...any)  { l.logger.Info(msg, l.attrs(fields)...) }
func (l *slogLogger) Warn(msg string, fields ...any)  { l.logger.Warn(msg, l.attrs(fields)...) }
func (l *slogLogger) Error(msg string, fields ...any) { l.logger.Error(msg, l.attrs(fields)...) }

// WithRequestID returns a derived Logger that stamps every subsequent
// call with the given request/dispatch identifier.
func (l *slogLogger) WithRequestID(requestID string) Logger {
	return &slogLogger{logger: l.logger, requestID: requestID}
}
