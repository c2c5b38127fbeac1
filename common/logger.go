package common

import "io"

type Logger interface {
	Trace(msg string)
	Tracef(format string, args ...any)
	Debug(msg string)
	Debugf(format string, args ...any)
	Info(msg string)
	Infof(format string, args ...any)
	Warn(msg string)
	Warnf(format string, args ...any)
	Error(msg string)
	Errorf(format string, args ...any)
	WithField(key string, value any) Logger
	WithFields(fields map[string]any) Logger

	// HttpLoggingHandler returns the writer used for plain-text HTTP access logs, or nil if
	// access logs are handled as structured records instead.
	HttpLoggingHandler() io.Writer
}
