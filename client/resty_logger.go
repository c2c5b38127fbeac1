package client

// Logger is the logging interface used by the client. It is satisfied by common.Logger.
type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Errorf(format string, args ...any)
}

type restyLogger struct {
	logger Logger
}

func (l *restyLogger) Debugf(format string, args ...any) {
	l.logger.Debugf(format, args...)
}

func (l *restyLogger) Warnf(format string, args ...any) {
	l.logger.Infof(format, args...)
}

// Errorf is called by resty for every failed attempt, including the ones that are retried. The caller
// decides what is an error.
func (l *restyLogger) Errorf(format string, args ...any) {
	l.logger.Infof(format, args...)
}

type noopLogger struct{}

func (noopLogger) Debugf(string, ...any) {}
func (noopLogger) Infof(string, ...any)  {}
func (noopLogger) Errorf(string, ...any) {}
