package restapi

import "net/http"

type route struct {
	method  string
	path    string
	handler http.HandlerFunc
}

// routes is the complete route table of the API, excluding the metrics endpoint.
func (s *Server) routes() []route {
	return []route{
		// Alert webhooks. The severity is given by the endpoint, never by the payload.
		{http.MethodPost, "/webhook/alerts", s.alertWebhookHandler(SeverityDefault)},
		{http.MethodPost, "/webhook/alerts/critical", s.alertWebhookHandler(SeverityCritical)},
		{http.MethodPost, "/webhook/alerts/warning", s.alertWebhookHandler(SeverityWarning)},

		// Sample endpoints for exercising the metrics and log pipelines.
		{http.MethodGet, "/api/hello", s.hello},
		{http.MethodGet, "/api/slow", s.slow},
		{http.MethodGet, "/api/error", s.simulatedError},
		{http.MethodGet, "/api/random", s.random},
		{http.MethodGet, "/api/logs", s.logs},
		{http.MethodGet, "/api/metrics-info", s.metricsInfo},
		{http.MethodPost, "/api/test-post", s.testPost},

		// Ping
		{http.MethodGet, "/ping", s.ping},
	}
}
