package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Severity selects the webhook an alert is posted to.
type Severity string

const (
	SeverityDefault  Severity = "default"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// ParseSeverity parses a severity name, case insensitively. The empty string means SeverityDefault.
func ParseSeverity(s string) (Severity, error) {
	switch Severity(strings.ToLower(strings.TrimSpace(s))) {
	case "", SeverityDefault:
		return SeverityDefault, nil
	case SeverityWarning:
		return SeverityWarning, nil
	case SeverityCritical:
		return SeverityCritical, nil
	default:
		return "", fmt.Errorf("unknown severity %q, expected one of default, warning, critical", s)
	}
}

// WebhookPath returns the path of the webhook for the severity.
func (s Severity) WebhookPath() string {
	switch s {
	case SeverityCritical:
		return "/webhook/alerts/critical"
	case SeverityWarning:
		return "/webhook/alerts/warning"
	default:
		return "/webhook/alerts"
	}
}

// Ack is the acknowledgement returned for an accepted alert.
type Ack struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

// StatusError is returned when the API answers with a non-2xx status code, after any retries.
type StatusError struct {
	Path       string
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("POST %s failed with status code %d: %s", e.Path, e.StatusCode, e.Message)
}

// AlertClient posts alerts to the webhooks of a unit-monitoring API.
type AlertClient struct {
	restClient *restClient
}

// Connect creates an AlertClient for the API at baseURL and pings it, unless WithoutPing is given.
// A nil logger discards all client logs.
func Connect(ctx context.Context, baseURL string, logger Logger, opts ...Option) (*AlertClient, error) {
	o := newClientOptions()

	for _, opt := range opts {
		opt(o)
	}

	rc, err := newRestClient(baseURL, logger, o)
	if err != nil {
		return nil, fmt.Errorf("failed to create rest client: %w", err)
	}

	if !o.skipPing {
		if err := rc.ping(ctx); err != nil {
			return nil, fmt.Errorf("failed to ping alerts API: %w", err)
		}
	}

	return &AlertClient{restClient: rc}, nil
}

// SendAlert posts payload as JSON to the webhook of the given severity. The payload must marshal to a
// JSON object.
func (c *AlertClient) SendAlert(ctx context.Context, severity Severity, payload any) (*Ack, error) {
	if payload == nil {
		return nil, errors.New("alert payload cannot be nil")
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal alert payload: %w", err)
	}

	return c.SendRawAlert(ctx, severity, body)
}

// SendRawAlert posts an already encoded JSON object to the webhook of the given severity.
func (c *AlertClient) SendRawAlert(ctx context.Context, severity Severity, body []byte) (*Ack, error) {
	if c == nil || c.restClient == nil {
		return nil, errors.New("alert client is not connected")
	}

	trimmed := strings.TrimSpace(string(body))

	if !strings.HasPrefix(trimmed, "{") || !json.Valid([]byte(trimmed)) {
		return nil, errors.New("alert payload must be a JSON object")
	}

	ack := &Ack{}

	if err := c.restClient.postJSON(ctx, severity.WebhookPath(), []byte(trimmed), ack); err != nil {
		return nil, err
	}

	return ack, nil
}
