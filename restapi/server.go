package restapi

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/peteraglen/unit-monitoring/common"
	"github.com/peteraglen/unit-monitoring/config"
	"github.com/peteraglen/unit-monitoring/internal"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

const (
	httpRequestMetric    = "http_server_request_duration_seconds"
	requestsMetric       = "app_requests_total"
	errorsMetric         = "app_errors_total"
	responseTimeMetric   = "app_response_time_seconds"
	alertsReceivedMetric = "alerts_received_total"

	// sampleLabel is the value of the type/endpoint label on the sample endpoint metrics.
	sampleLabel = "sample"
)

type Server struct {
	cfg                *config.APIConfig
	logger             common.Logger
	metrics            common.Metrics
	metricsHandler     http.Handler
	notifier           AlertNotifier
	limitersBySeverity map[Severity]*rate.Limiter
	limitersLock       *sync.Mutex
	intn               func(n int) int
	defaultPretty      bool
}

// New creates a Server and registers its metrics. A nil metrics registry disables metrics, and a nil
// config means NewDefaultAPIConfig.
func New(logger common.Logger, metrics common.Metrics, cfg *config.APIConfig) *Server {
	if metrics == nil {
		metrics = &internal.NoopMetrics{}
	}

	if cfg == nil {
		cfg = config.NewDefaultAPIConfig()
	}

	s := &Server{
		cfg:                cfg,
		logger:             logger,
		metrics:            metrics,
		notifier:           newLogOnlyNotifier(logger),
		limitersBySeverity: make(map[Severity]*rate.Limiter),
		limitersLock:       &sync.Mutex{},
		intn:               rand.IntN,
		defaultPretty:      cfg.Verbose,
	}

	s.registerMetrics()

	return s
}

// WithAlertNotifier replaces the default log-only notifier. The notifier is called once for every accepted alert.
func (s *Server) WithAlertNotifier(notifier AlertNotifier) *Server {
	if notifier != nil {
		s.notifier = notifier
	}

	return s
}

// WithMetricsHandler exposes the given handler on the configured metrics path, typically the
// Prometheus exposition of the registry passed to New.
func (s *Server) WithMetricsHandler(handler http.Handler) *Server {
	s.metricsHandler = handler
	return s
}

// Run starts the HTTP server and handles incoming requests.
// This method blocks until the context is cancelled, or a server error occurs.
func (s *Server) Run(ctx context.Context) error {
	s.logger.Info("API server started")
	defer s.logger.Info("API server exited")

	if err := s.cfg.Validate(); err != nil {
		return fmt.Errorf("failed to validate API configuration: %w", err)
	}

	// Calculate timeouts for the HTTP server and handler middleware.
	readHeaderTimeout := 5 * time.Second
	handlerTimeout := s.getHandlerTimeout()
	timeoutWiggleRoom := time.Second

	srv := &http.Server{
		Addr:              ":" + s.cfg.RestPort,
		Handler:           s.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
		ReadTimeout:       readHeaderTimeout + handlerTimeout + timeoutWiggleRoom,
		WriteTimeout:      handlerTimeout + timeoutWiggleRoom,
		IdleTimeout:       60 * time.Second,
	}

	s.logger.
		WithField("read_header_timeout", fmt.Sprintf("%v", srv.ReadHeaderTimeout)).
		WithField("read_timeout", fmt.Sprintf("%v", srv.ReadTimeout)).
		WithField("handler_timeout", fmt.Sprintf("%v", handlerTimeout)).
		WithField("write_timeout", fmt.Sprintf("%v", srv.WriteTimeout)).
		WithField("idle_timeout", fmt.Sprintf("%v", srv.IdleTimeout)).
		WithField("port", s.cfg.RestPort).
		Info("Starting API listener")

	errg, ctx := errgroup.WithContext(ctx)

	errg.Go(func() error {
		return srv.ListenAndServe()
	})

	errg.Go(func() error {
		<-ctx.Done()

		if err := srv.Close(); err != nil {
			s.logger.Errorf("Failed to close http server: %s", err)
		}

		return ctx.Err()
	})

	if err := errg.Wait(); err != nil {
		if errors.Is(err, http.ErrServerClosed) || common.IsCtxCanceledErr(err) {
			return nil
		}

		return err
	}

	return nil
}

// Handler builds the complete HTTP handler: the route table, the metrics endpoint and all middleware.
func (s *Server) Handler() http.Handler {
	router := mux.NewRouter()

	// The router only runs its middleware for matched routes, so these are measured separately.
	router.NotFoundHandler = s.metricsMiddleware(http.HandlerFunc(s.notFound))
	router.MethodNotAllowedHandler = s.metricsMiddleware(http.HandlerFunc(s.methodNotAllowed))

	// Recovery runs inside the metrics middleware, so that requests that panic are still measured.
	router.Use(s.metricsMiddleware, s.recoveryMiddleware)

	for _, r := range s.routes() {
		router.HandleFunc(r.path, r.handler).Methods(r.method)
	}

	if s.metricsHandler != nil {
		router.Handle(s.cfg.MetricsPath, s.metricsHandler).Methods(http.MethodGet)
	}

	var handler http.Handler

	// Plain text access logs if the logger provides a writer for them, structured records otherwise.
	if loggingHandler := s.logger.HttpLoggingHandler(); loggingHandler != nil {
		handler = handlers.LoggingHandler(loggingHandler, router)
	} else {
		handler = s.jsonLogMiddleware(router)
	}

	if s.cfg.TrustProxyHeaders {
		handler = handlers.ProxyHeaders(handler)
	}

	return withTimeout(handler, s.getHandlerTimeout())
}

func (s *Server) registerMetrics() {
	s.metrics.RegisterCounter(requestsMetric, "Total number of requests", "type")
	s.metrics.RegisterCounter(errorsMetric, "Total number of errors", "type")
	s.metrics.RegisterCounter(alertsReceivedMetric, "Total number of accepted alert notifications", "severity", "status")

	s.metrics.RegisterHistogram(responseTimeMetric, "Response time of the timed sample endpoints in seconds",
		[]float64{.1, .25, .5, .75, 1, 1.5, 2, 3, 5}, "endpoint")

	s.metrics.RegisterHistogram(httpRequestMetric, "The duration of incoming HTTP server requests in seconds",
		[]float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}, "path", "method", "status")

	// The sample series are exposed at zero from startup.
	s.metrics.AddToCounter(requestsMetric, 0, sampleLabel)
	s.metrics.AddToCounter(errorsMetric, 0, sampleLabel)
	s.metrics.InitHistogram(responseTimeMetric, sampleLabel)
}

// getHandlerTimeout calculates the timeout for request handlers. It covers the longest simulated delay and
// the longest rate limit wait, plus a small buffer. The timeout is never less than 30 seconds.
func (s *Server) getHandlerTimeout() time.Duration {
	timeout := 30 * time.Second

	if s.cfg.SlowEndpoint != nil {
		timeout = max(timeout, s.cfg.SlowEndpoint.MaxDelay+5*time.Second)
	}

	if s.cfg.RateLimitPerSeverity != nil {
		timeout = max(timeout, s.cfg.RateLimitPerSeverity.MaxRequestWaitTime+5*time.Second)
	}

	return timeout
}
