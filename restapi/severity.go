package restapi

import (
	"strings"

	"github.com/peteraglen/unit-monitoring/common"
)

// Severity is the urgency of an alert. It is determined by the webhook endpoint that received the alert.
type Severity string

const (
	SeverityDefault  Severity = "DEFAULT"
	SeverityWarning  Severity = "WARNING"
	SeverityCritical Severity = "CRITICAL"
)

// AckStatus returns the status literal of the acknowledgement sent back to the alert sender.
func (s Severity) AckStatus() string {
	switch s {
	case SeverityCritical:
		return "critical_received"
	case SeverityWarning:
		return "warning_received"
	default:
		return "received"
	}
}

// log writes msg at the level matching the severity: error for critical, warn for warning and info otherwise.
func (s Severity) log(logger common.Logger, msg string) {
	switch s {
	case SeverityCritical:
		logger.Error(msg)
	case SeverityWarning:
		logger.Warn(msg)
	default:
		logger.Info(msg)
	}
}

func (s Severity) label() string {
	return strings.ToLower(string(s))
}
