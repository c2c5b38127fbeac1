package restapi

import (
	"net/http"
	"strconv"
)

func (s *Server) ping(resp http.ResponseWriter, req *http.Request) {
	// In verbose mode, support a "panic" query parameter to trigger a panic for testing the recovery middleware.
	if s.cfg.Verbose && req.URL.Query().Get("panic") == "true" {
		panic("ping pong panic")
	}

	statusCode := http.StatusOK

	// Optionally set status code as requested via the "status" query parameter.
	if status := req.URL.Query().Get("status"); status != "" {
		if code, err := strconv.Atoi(status); err == nil && code >= 100 && code <= 599 {
			statusCode = code
		}
	}

	resp.Header().Set("Content-Type", "text/plain")
	resp.WriteHeader(statusCode)

	if _, err := resp.Write([]byte("pong")); err != nil {
		s.logger.Errorf("Failed to write ping response: %s", err)
	}
}
