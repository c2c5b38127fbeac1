package restapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/peteraglen/unit-monitoring/common"
	"github.com/peteraglen/unit-monitoring/config"
	"github.com/peteraglen/unit-monitoring/metrics"
	"github.com/stretchr/testify/mock"
)

// --- Logger ---

type logEntry struct {
	level  string
	msg    string
	fields map[string]any
}

type logSink struct {
	lock    sync.Mutex
	entries []logEntry
}

func (s *logSink) add(level, msg string, fields map[string]any) {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.entries = append(s.entries, logEntry{level: level, msg: msg, fields: fields})
}

func (s *logSink) all() []logEntry {
	s.lock.Lock()
	defer s.lock.Unlock()

	return append([]logEntry(nil), s.entries...)
}

// find returns all entries whose message contains text.
func (s *logSink) find(text string) []logEntry {
	var found []logEntry

	for _, e := range s.all() {
		if strings.Contains(e.msg, text) {
			found = append(found, e)
		}
	}

	return found
}

// recordingLogger implements common.Logger, recording every entry in a shared sink.
type recordingLogger struct {
	sink       *logSink
	fields     map[string]any
	httpWriter io.Writer
}

func (l *recordingLogger) log(level, msg string) {
	fields := make(map[string]any, len(l.fields))
	for k, v := range l.fields {
		fields[k] = v
	}

	l.sink.add(level, msg, fields)
}

func (l *recordingLogger) Trace(msg string)                  { l.log("trace", msg) }
func (l *recordingLogger) Tracef(format string, args ...any) { l.log("trace", fmt.Sprintf(format, args...)) }
func (l *recordingLogger) Debug(msg string)                  { l.log("debug", msg) }
func (l *recordingLogger) Debugf(format string, args ...any) { l.log("debug", fmt.Sprintf(format, args...)) }
func (l *recordingLogger) Info(msg string)                   { l.log("info", msg) }
func (l *recordingLogger) Infof(format string, args ...any)  { l.log("info", fmt.Sprintf(format, args...)) }
func (l *recordingLogger) Warn(msg string)                   { l.log("warn", msg) }
func (l *recordingLogger) Warnf(format string, args ...any)  { l.log("warn", fmt.Sprintf(format, args...)) }
func (l *recordingLogger) Error(msg string)                  { l.log("error", msg) }
func (l *recordingLogger) Errorf(format string, args ...any) { l.log("error", fmt.Sprintf(format, args...)) }
func (l *recordingLogger) HttpLoggingHandler() io.Writer     { return l.httpWriter }

func (l *recordingLogger) WithField(key string, value any) common.Logger {
	return l.WithFields(map[string]any{key: value})
}

func (l *recordingLogger) WithFields(fields map[string]any) common.Logger {
	merged := make(map[string]any, len(l.fields)+len(fields))

	for k, v := range l.fields {
		merged[k] = v
	}

	for k, v := range fields {
		merged[k] = v
	}

	return &recordingLogger{sink: l.sink, fields: merged, httpWriter: l.httpWriter}
}

// --- Notifier ---

type mockAlertNotifier struct {
	mock.Mock
}

func (m *mockAlertNotifier) Notify(ctx context.Context, alert *ReceivedAlert) error {
	args := m.Called(ctx, alert)
	return args.Error(0)
}

// --- Server ---

type testServer struct {
	server  *Server
	logs    *logSink
	metrics *metrics.PrometheusMetrics
	handler http.Handler
}

func newTestServer(t *testing.T, modify func(cfg *config.APIConfig)) *testServer {
	t.Helper()

	cfg := config.NewDefaultAPIConfig()

	if modify != nil {
		modify(cfg)
	}

	sink := &logSink{}
	m := metrics.NewWithRegistry(nil)
	server := New(&recordingLogger{sink: sink}, m, cfg).WithMetricsHandler(m.Handler())

	return &testServer{
		server:  server,
		logs:    sink,
		metrics: m,
		handler: server.Handler(),
	}
}

func (ts *testServer) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)

	return rec
}

func (ts *testServer) requests() float64 {
	return ts.metrics.CounterValue(requestsMetric, sampleLabel)
}

func (ts *testServer) errors() float64 {
	return ts.metrics.CounterValue(errorsMetric, sampleLabel)
}

func (ts *testServer) alertsReceived(severity Severity, status AlertStatus) float64 {
	return ts.metrics.CounterValue(alertsReceivedMetric, severity.label(), string(status))
}

func newRequest(method, path string) *http.Request {
	return httptest.NewRequest(method, path, nil)
}

func newRecorder() *httptest.ResponseRecorder {
	return httptest.NewRecorder()
}

func httpGet(t *testing.T, handler http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, newRequest(http.MethodGet, path))

	return rec
}

func newSyscallError(syscall, msg string) error {
	return os.NewSyscallError(syscall, errors.New(msg))
}
