// Package notify delivers run summaries to the operator.
//
//go:generate mockgen -package mocknotify -source=interface.go -destination=mock/mocknotify.go *
package notify

import "context"

// Severity grades a notification.
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// Sink accepts notifications. Delivery is best-effort: implementations log
// failures and never report them to the caller.
type Sink interface {
	Send(ctx context.Context, title, body string, severity Severity)
}
