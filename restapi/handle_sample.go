package restapi

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

type helloResponse struct {
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
	Status    string `json:"status"`
}

type slowResponse struct {
	Message   string `json:"message"`
	DelayMS   int    `json:"delay_ms"`
	Timestamp string `json:"timestamp"`
}

type messageResponse struct {
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

func (s *Server) hello(resp http.ResponseWriter, req *http.Request) {
	s.countRequest()

	s.logger.Info("Hello endpoint called")

	s.writeJSON(resp, req, http.StatusOK, helloResponse{
		Message:   "Hello from Unit Monitoring!",
		Timestamp: timestamp(),
		Status:    "OK",
	})
}

// slow waits for a random delay before answering. The whole call is timed, and a request that is
// cancelled while waiting is answered with a server error.
func (s *Server) slow(resp http.ResponseWriter, req *http.Request) {
	s.countRequest()

	timer := startTimer(s.metrics, responseTimeMetric, sampleLabel)
	defer timer.Stop()

	delayMS := s.randomDelayMillis()

	s.logger.WithField("delay_ms", delayMS).Infof("Slow endpoint called, delay: %dms", delayMS)

	if err := sleepContext(req.Context(), time.Duration(delayMS)*time.Millisecond); err != nil {
		s.logger.WithField("error", err.Error()).Error("Slow endpoint interrupted")
		s.writeSimulatedError(resp, req, "Slow response interrupted")

		return
	}

	s.writeJSON(resp, req, http.StatusOK, slowResponse{
		Message:   "Slow response completed",
		DelayMS:   delayMS,
		Timestamp: timestamp(),
	})
}

func (s *Server) simulatedError(resp http.ResponseWriter, req *http.Request) {
	s.countRequest()

	s.logger.Error("Error endpoint called - simulating error")

	s.writeSimulatedError(resp, req, "Simulated error")
}

// random fails with a probability of RandomErrorPercent, using a fresh draw per call.
func (s *Server) random(resp http.ResponseWriter, req *http.Request) {
	s.countRequest()

	if s.intn(100) < s.cfg.RandomErrorPercent {
		s.logger.Warn("Random endpoint - error occurred")
		s.writeSimulatedError(resp, req, "Random error occurred")

		return
	}

	s.logger.Info("Random endpoint - success")

	s.writeJSON(resp, req, http.StatusOK, messageResponse{
		Message:   "Random success",
		Timestamp: timestamp(),
	})
}

// logs writes one record per level, from trace to error.
func (s *Server) logs(resp http.ResponseWriter, req *http.Request) {
	s.countRequest()

	s.logger.Trace("This is a TRACE log")
	s.logger.Debug("This is a DEBUG log")
	s.logger.Info("This is an INFO log")
	s.logger.Warn("This is a WARN log")
	s.logger.Error("This is an ERROR log")

	s.writeJSON(resp, req, http.StatusOK, messageResponse{
		Message:   "Various log levels generated",
		Timestamp: timestamp(),
	})
}

// testPost echoes a JSON object. It does not count as a sample request.
func (s *Server) testPost(resp http.ResponseWriter, req *http.Request) {
	body, statusCode, err := s.readPostBody(resp, req)
	if err != nil {
		s.writeErrorResponse(resp, req, err, statusCode)
		return
	}

	obj, err := parseJSONObject(body)
	if err != nil {
		err = fmt.Errorf("failed to parse POST body: %w", err)
		s.writeErrorResponse(resp, req, err, http.StatusBadRequest)
		return
	}

	s.writeJSON(resp, req, http.StatusOK, obj)
}

func (s *Server) countRequest() {
	s.metrics.AddToCounter(requestsMetric, 1, sampleLabel)
}

// writeSimulatedError counts an error and answers with a 500.
func (s *Server) writeSimulatedError(resp http.ResponseWriter, req *http.Request, msg string) {
	s.metrics.AddToCounter(errorsMetric, 1, sampleLabel)

	s.writeJSON(resp, req, http.StatusInternalServerError, errorResponse{
		Error:     msg,
		Timestamp: timestamp(),
	})
}

// randomDelayMillis draws a delay uniformly from the configured [min, max) range.
func (s *Server) randomDelayMillis() int {
	minDelay, maxDelay := s.cfg.SlowEndpoint.DelayRangeMillis()
	return minDelay + s.intn(maxDelay-minDelay)
}

// sleepContext blocks for d, or until ctx is done, in which case the context error is returned.
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
