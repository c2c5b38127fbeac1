package restapi

import "net/http"

type metricsInfoResponse struct {
	TotalRequests float64 `json:"total_requests"`
	TotalErrors   float64 `json:"total_errors"`
	ErrorRate     float64 `json:"error_rate"`
	Timestamp     string  `json:"timestamp"`
}

// metricsInfo reports the sample counters and the error rate derived from them. The two counters are read
// one after the other, so under concurrent traffic the snapshot is only approximately consistent.
func (s *Server) metricsInfo(resp http.ResponseWriter, req *http.Request) {
	requests := s.metrics.CounterValue(requestsMetric, sampleLabel)
	errs := s.metrics.CounterValue(errorsMetric, sampleLabel)

	s.writeJSON(resp, req, http.StatusOK, metricsInfoResponse{
		TotalRequests: requests,
		TotalErrors:   errs,
		ErrorRate:     errorRate(requests, errs),
		Timestamp:     timestamp(),
	})
}

// errorRate returns errors as a percentage of requests, or 0 when there are no requests.
func errorRate(requests, errs float64) float64 {
	if requests <= 0 {
		return 0
	}

	return errs / requests * 100
}
