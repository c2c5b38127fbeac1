package restapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/segmentio/ksuid"
)

type alertAck struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

func (s *Server) alertWebhookHandler(severity Severity) http.HandlerFunc {
	return func(resp http.ResponseWriter, req *http.Request) {
		s.handleAlertWebhook(resp, req, severity)
	}
}

// handleAlertWebhook accepts a single alert notification. Malformed bodies are rejected before anything is
// logged or counted.
func (s *Server) handleAlertWebhook(resp http.ResponseWriter, req *http.Request, severity Severity) {
	body, statusCode, err := s.readPostBody(resp, req)
	if err != nil {
		s.writeErrorResponse(resp, req, err, statusCode)
		return
	}

	payload, err := parseAlertPayload(body)
	if err != nil {
		err = fmt.Errorf("failed to parse POST body: %w", err)
		s.writeErrorResponse(resp, req, err, http.StatusBadRequest)
		return
	}

	s.debugLogRequest(req, body)

	if err := s.waitForRateLimit(req.Context(), severity); err != nil {
		if errors.Is(err, ErrRateLimit) {
			err = fmt.Errorf("%w for %s alerts", err, severity.label())
			s.writeErrorResponse(resp, req, err, http.StatusTooManyRequests)
		} else {
			s.writeErrorResponse(resp, req, err, http.StatusServiceUnavailable)
		}

		return
	}

	alert := &ReceivedAlert{
		ID:         ksuid.New().String(),
		Severity:   severity,
		Status:     payload.Status(),
		ReceivedAt: time.Now().UTC(),
		Payload:    payload,
	}

	s.ingestAlert(req.Context(), alert, body)

	s.writeJSON(resp, req, http.StatusOK, alertAck{
		Status:    severity.AckStatus(),
		Timestamp: timestamp(),
	})
}

// ingestAlert logs the alert at the level of its severity, classifies it as firing or resolved and
// hands it to the notifier.
func (s *Server) ingestAlert(ctx context.Context, alert *ReceivedAlert, rawBody []byte) {
	logger := s.logger.
		WithField("alert_id", alert.ID).
		WithField("severity", string(alert.Severity))

	fields := map[string]any{
		"received_at": alert.ReceivedAt.Format(time.RFC3339Nano),
		"payload":     json.RawMessage(rawBody),
	}

	if webhook, ok := parseAlertmanagerWebhook(rawBody); ok {
		for k, v := range webhook.summaryFields() {
			fields[k] = v
		}
	}

	alert.Severity.log(logger.WithFields(fields), receivedMessage(alert.Severity))

	logger.Infof("Processing %s alert", alert.Severity)

	if alert.Status == AlertResolved {
		logger.Info("Alert has been resolved")
	} else {
		logger.Info("Alert is firing")
	}

	s.metrics.AddToCounter(alertsReceivedMetric, 1, alert.Severity.label(), string(alert.Status))

	if err := s.notifier.Notify(ctx, alert); err != nil {
		logger.Errorf("Failed to notify about alert: %s", err)
	}
}

func receivedMessage(severity Severity) string {
	if severity == SeverityDefault {
		return "Alert received"
	}

	return fmt.Sprintf("%s alert received", severity)
}
