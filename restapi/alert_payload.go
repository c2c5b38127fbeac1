package restapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// AlertStatus is the state of an alert, as reported by the sender.
type AlertStatus string

const (
	AlertFiring   AlertStatus = "firing"
	AlertResolved AlertStatus = "resolved"
)

// AlertPayload is the body of an alert webhook. Apart from the optional status field the content is opaque.
type AlertPayload map[string]any

// Status interprets the status field. Only the exact string "resolved" means resolved; anything else,
// including a missing or non-string value, means firing.
func (p AlertPayload) Status() AlertStatus {
	if status, ok := p["status"].(string); ok && status == string(AlertResolved) {
		return AlertResolved
	}

	return AlertFiring
}

// parseJSONObject decodes body, which must be a single JSON object.
func parseJSONObject(body []byte) (map[string]any, error) {
	var obj map[string]any

	if err := json.Unmarshal(body, &obj); err != nil {
		var typeErr *json.UnmarshalTypeError

		if errors.As(err, &typeErr) {
			return nil, fmt.Errorf("body must be a JSON object, got %s", typeErr.Value)
		}

		return nil, fmt.Errorf("invalid JSON: %w", err)
	}

	if obj == nil {
		return nil, errors.New("body must be a JSON object, got null")
	}

	return obj, nil
}

func parseAlertPayload(body []byte) (AlertPayload, error) {
	obj, err := parseJSONObject(body)
	if err != nil {
		return nil, err
	}

	return AlertPayload(obj), nil
}

// AlertmanagerWebhook is the notification format of the Prometheus Alertmanager webhook receiver.
// It is only used to enrich log records; alerts in other formats are accepted as well.
type AlertmanagerWebhook struct {
	Version           string               `json:"version,omitempty"`
	GroupKey          string               `json:"groupKey,omitempty"`
	TruncatedAlerts   int                  `json:"truncatedAlerts,omitempty"`
	Status            string               `json:"status,omitempty"`
	Receiver          string               `json:"receiver,omitempty"`
	GroupLabels       map[string]string    `json:"groupLabels,omitempty"`
	CommonLabels      map[string]string    `json:"commonLabels,omitempty"`
	CommonAnnotations map[string]string    `json:"commonAnnotations,omitempty"`
	ExternalURL       string               `json:"externalURL,omitempty"` //nolint:tagliatelle
	Alerts            []*AlertmanagerAlert `json:"alerts,omitempty"`
}

type AlertmanagerAlert struct {
	Status       string            `json:"status,omitempty"`
	Labels       map[string]string `json:"labels,omitempty"`
	Annotations  map[string]string `json:"annotations,omitempty"`
	StartsAt     time.Time         `json:"startsAt,omitempty"`
	EndsAt       time.Time         `json:"endsAt,omitempty"`
	GeneratorURL string            `json:"generatorURL,omitempty"` //nolint:tagliatelle
	Fingerprint  string            `json:"fingerprint,omitempty"`
}

// parseAlertmanagerWebhook decodes body as an Alertmanager notification. It returns false if the body
// does not decode, or carries neither a group key nor any alerts.
func parseAlertmanagerWebhook(body []byte) (*AlertmanagerWebhook, bool) {
	var webhook AlertmanagerWebhook

	if err := json.Unmarshal(body, &webhook); err != nil {
		return nil, false
	}

	if webhook.GroupKey == "" && len(webhook.Alerts) == 0 {
		return nil, false
	}

	return &webhook, true
}

// summaryFields returns the log fields describing the notification.
func (w *AlertmanagerWebhook) summaryFields() map[string]any {
	fields := map[string]any{
		"group_key":   w.GroupKey,
		"receiver":    w.Receiver,
		"alert_count": len(w.Alerts),
	}

	if alertName, ok := w.CommonLabels["alertname"]; ok {
		fields["alertname"] = alertName
	}

	return fields
}
