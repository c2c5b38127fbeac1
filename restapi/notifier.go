package restapi

import (
	"context"
	"time"

	"github.com/peteraglen/unit-monitoring/common"
)

// ReceivedAlert is an alert accepted by one of the webhook endpoints.
type ReceivedAlert struct {
	ID         string
	Severity   Severity
	Status     AlertStatus
	ReceivedAt time.Time
	Payload    AlertPayload
}

// AlertNotifier delivers accepted alerts to a notification channel, such as Slack, email, SMS, a paging
// service or a persistent store. Errors are logged by the caller and never reach the alert sender.
type AlertNotifier interface {
	Notify(ctx context.Context, alert *ReceivedAlert) error
}

// logOnlyNotifier is the default AlertNotifier. It delivers nothing.
type logOnlyNotifier struct {
	logger common.Logger
}

func newLogOnlyNotifier(logger common.Logger) *logOnlyNotifier {
	return &logOnlyNotifier{logger: logger}
}

func (n *logOnlyNotifier) Notify(_ context.Context, alert *ReceivedAlert) error {
	n.logger.
		WithField("alert_id", alert.ID).
		WithField("severity", string(alert.Severity)).
		Debug("No notification channel configured, alert was only logged")

	return nil
}
