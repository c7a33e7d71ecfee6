// Package push covers both directions of the push boundary:
// registering the client's push token on the profile row, and
// receiving inbound push messages which are surfaced as local
// notifications.
package push

import "go.uber.org/zap"

// Notifier surfaces a local notification. OrderID may be empty when
// the notification is not about a specific order.
type Notifier interface {
	Notify(title, body, orderID string)
}

// LogNotifier renders notifications to the log. Headless stand-in for
// a platform notification surface.
type LogNotifier struct {
	logger *zap.Logger
}

func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Notify(title, body, orderID string) {
	fields := []zap.Field{
		zap.String("title", title),
		zap.String("body", body),
	}
	if orderID != "" {
		fields = append(fields, zap.String("order_id", orderID))
	}
	n.logger.Info("Local notification", fields...)
}
