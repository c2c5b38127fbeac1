package logging

import (
	"fmt"
	"io"
	"time"

	"github.com/peteraglen/unit-monitoring/common"
	"github.com/rs/zerolog"
)

// Logger implements common.Logger with zerolog.
type Logger struct {
	logger     zerolog.Logger
	httpWriter io.Writer
}

// New creates a Logger writing to out. With jsonFormat, records are written as JSON lines and HTTP access
// logs are expected to be structured as well (HttpLoggingHandler returns nil). Without it, records are
// written in console format and HTTP access logs go directly to out.
//
// An unknown level falls back to info. Records are also subject to the zerolog global level, which
// defaults to debug; callers that want trace records must lower it once at startup.
func New(out io.Writer, level string, jsonFormat bool) *Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	var (
		writer     io.Writer
		httpWriter io.Writer
	)

	if jsonFormat {
		writer = out
	} else {
		writer = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339, NoColor: true}
		httpWriter = out
	}

	return &Logger{
		logger:     zerolog.New(writer).Level(lvl).With().Timestamp().Logger(),
		httpWriter: httpWriter,
	}
}

func (l *Logger) Trace(msg string) {
	l.logger.Trace().Msg(msg)
}

func (l *Logger) Tracef(format string, args ...any) {
	l.logger.Trace().Msg(fmt.Sprintf(format, args...))
}

func (l *Logger) Debug(msg string) {
	l.logger.Debug().Msg(msg)
}

func (l *Logger) Debugf(format string, args ...any) {
	l.logger.Debug().Msg(fmt.Sprintf(format, args...))
}

func (l *Logger) Info(msg string) {
	l.logger.Info().Msg(msg)
}

func (l *Logger) Infof(format string, args ...any) {
	l.logger.Info().Msg(fmt.Sprintf(format, args...))
}

func (l *Logger) Warn(msg string) {
	l.logger.Warn().Msg(msg)
}

func (l *Logger) Warnf(format string, args ...any) {
	l.logger.Warn().Msg(fmt.Sprintf(format, args...))
}

func (l *Logger) Error(msg string) {
	l.logger.Error().Msg(msg)
}

func (l *Logger) Errorf(format string, args ...any) {
	l.logger.Error().Msg(fmt.Sprintf(format, args...))
}

func (l *Logger) WithField(key string, value any) common.Logger {
	return &Logger{
		logger:     l.logger.With().Interface(key, value).Logger(),
		httpWriter: l.httpWriter,
	}
}

func (l *Logger) WithFields(fields map[string]any) common.Logger {
	return &Logger{
		logger:     l.logger.With().Fields(fields).Logger(),
		httpWriter: l.httpWriter,
	}
}

func (l *Logger) HttpLoggingHandler() io.Writer {
	return l.httpWriter
}
