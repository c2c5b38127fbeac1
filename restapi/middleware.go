package restapi

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"runtime/debug"
	"strconv"
	"strings"

	"github.com/felixge/httpsnoop"
	"github.com/gorilla/mux"
)

// metricsMiddleware records HTTP request durations and status codes, labelled with the route path template.
func (s *Server) metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(resp http.ResponseWriter, req *http.Request) {
		m := httpsnoop.CaptureMetrics(next, resp, req)

		path := "unmatched"

		if route := mux.CurrentRoute(req); route != nil {
			if tpl, err := route.GetPathTemplate(); err == nil {
				path = tpl
			}
		}

		s.metrics.Observe(httpRequestMetric, m.Duration.Seconds(), path, req.Method, strconv.Itoa(m.Code))
	})
}

// jsonLogMiddleware logs HTTP requests as structured records.
// Responses with status codes 500 and above are logged as errors, all others as info.
func (s *Server) jsonLogMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(resp http.ResponseWriter, req *http.Request) {
		m := httpsnoop.CaptureMetrics(next, resp, req)

		path := req.URL.Path

		if raw := req.URL.RawQuery; raw != "" {
			path = path + "?" + raw
		}

		logger := s.logger.
			WithField("client_ip", clientIP(req)).
			WithField("duration", m.Duration.String()).
			WithField("method", req.Method).
			WithField("path", path).
			WithField("status", m.Code)

		if m.Code >= 500 {
			logger.Error("Request")
		} else {
			logger.Info("Request")
		}
	})
}

// recoveryMiddleware recovers from any panics and writes a 500 if there was one.
func (s *Server) recoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(resp http.ResponseWriter, req *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}

			// The server itself handles this one, by aborting the response.
			if rec == http.ErrAbortHandler { //nolint:errorlint
				panic(rec)
			}

			// A broken connection does not warrant a stack trace, and nothing can be written to it.
			if isBrokenPipe(rec) {
				s.logger.WithField("error", fmt.Sprint(rec)).Error("Connection error")
				return
			}

			s.logger.
				WithField("error", fmt.Sprint(rec)).
				WithField("stack", string(debug.Stack())).
				Error("Panic recovered")

			s.writeJSON(resp, req, http.StatusInternalServerError, errorResponse{
				Error:     "Internal server error",
				Timestamp: timestamp(),
			})
		}()

		next.ServeHTTP(resp, req)
	})
}

func isBrokenPipe(rec any) bool {
	ne, ok := rec.(*net.OpError)
	if !ok {
		return false
	}

	var se *os.SyscallError

	if !errors.As(ne, &se) {
		return false
	}

	seStr := strings.ToLower(se.Error())

	return strings.Contains(seStr, "broken pipe") || strings.Contains(seStr, "connection reset by peer")
}

// clientIP returns the host part of the remote address. ProxyHeaders has already replaced it with the
// forwarded address, if any.
func clientIP(req *http.Request) string {
	host, _, err := net.SplitHostPort(req.RemoteAddr)
	if err != nil {
		return req.RemoteAddr
	}

	return host
}
