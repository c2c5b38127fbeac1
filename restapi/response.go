package restapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

type errorResponse struct {
	Error     string `json:"error"`
	Timestamp string `json:"timestamp"`
}

// withTimeout answers requests that exceed timeout with a 503 JSON error body.
func withTimeout(next http.Handler, timeout time.Duration) http.Handler {
	return http.HandlerFunc(func(resp http.ResponseWriter, req *http.Request) {
		// Handlers that set their own content type replace this one.
		resp.Header().Set("Content-Type", "application/json")

		http.TimeoutHandler(next, timeout, timeoutResponseBody()).ServeHTTP(resp, req)
	})
}

func timeoutResponseBody() string {
	data, err := json.Marshal(errorResponse{Error: "Request timeout", Timestamp: timestamp()})
	if err != nil {
		return `{"error":"Request timeout"}`
	}

	return string(data)
}

// timestamp returns the current time in ISO-8601 format.
func timestamp() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

func (s *Server) writeJSON(resp http.ResponseWriter, req *http.Request, statusCode int, body any) {
	var (
		data []byte
		err  error
	)

	if s.pretty(req) {
		data, err = json.MarshalIndent(body, "", "  ")
	} else {
		data, err = json.Marshal(body)
	}

	if err != nil {
		s.logger.Errorf("Failed to marshal response: %s", err)
		statusCode = http.StatusInternalServerError
		data = []byte(`{"error":"Internal server error"}`)
	}

	resp.Header().Set("Content-Type", "application/json")
	resp.WriteHeader(statusCode)

	if _, err := resp.Write(data); err != nil {
		s.logger.Errorf("Failed to write response: %s", err)
	}
}

// writeErrorResponse writes err as a JSON error body. Client errors are logged at info level, server errors
// at error level.
func (s *Server) writeErrorResponse(resp http.ResponseWriter, req *http.Request, err error, statusCode int) {
	errText := err.Error()

	if len(errText) > 1 {
		errText = strings.ToUpper(string(errText[0])) + errText[1:]
	}

	if statusCode < 500 {
		s.logger.WithField("error", errText).WithField("status", statusCode).Info("Request failed")
	} else {
		s.logger.WithField("error", errText).WithField("status", statusCode).Error("Request failed")
	}

	s.writeJSON(resp, req, statusCode, errorResponse{
		Error:     errText,
		Timestamp: timestamp(),
	})
}

// readPostBody reads the request body, limited to the configured size. On failure it also returns the
// status code to answer with.
func (s *Server) readPostBody(resp http.ResponseWriter, req *http.Request) ([]byte, int, error) {
	body, err := io.ReadAll(http.MaxBytesReader(resp, req.Body, s.cfg.MaxRequestBodyBytes))
	if err != nil {
		var maxBytesErr *http.MaxBytesError

		if errors.As(err, &maxBytesErr) {
			return nil, http.StatusRequestEntityTooLarge, fmt.Errorf("POST body exceeds %d bytes", maxBytesErr.Limit)
		}

		return nil, http.StatusInternalServerError, fmt.Errorf("failed to read POST body: %w", err)
	}

	if len(bytes.TrimSpace(body)) == 0 {
		return nil, http.StatusBadRequest, errors.New("missing POST body")
	}

	return body, 0, nil
}

func (s *Server) pretty(req *http.Request) bool {
	switch req.URL.Query().Get("pretty") {
	case "true":
		return true
	case "false":
		return false
	default:
		return s.defaultPretty
	}
}

func (s *Server) debugLogRequest(req *http.Request, body []byte) {
	s.logger.WithField("body", string(body)).Debugf("%s %s", req.Method, req.URL.Path)
}

func (s *Server) notFound(resp http.ResponseWriter, req *http.Request) {
	s.writeErrorResponse(resp, req, fmt.Errorf("no route for %s %s", req.Method, req.URL.Path), http.StatusNotFound)
}

func (s *Server) methodNotAllowed(resp http.ResponseWriter, req *http.Request) {
	s.writeErrorResponse(resp, req, fmt.Errorf("method %s not allowed for %s", req.Method, req.URL.Path), http.StatusMethodNotAllowed)
}
