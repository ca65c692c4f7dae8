// Package notify is the single notification surface for booking outcomes
// and daemon alerts. One interface replaces the old mix of blocking dialogs
// and inline banners, so presentation is consistent and testable.
package notify

import (
	"fmt"
	"log/slog"

	"hostelbook-client/internal/logger"
)

// Notifier receives user-facing events. Implementations decide presentation
// (log line, email, test collector).
type Notifier interface {
	Successf(format string, args ...any)
	Errorf(format string, args ...any)
	Infof(format string, args ...any)
}

// Log emits notifications as structured log lines.
type Log struct {
	logger *slog.Logger
}

// NewLog returns a log-backed notifier.
func NewLog() *Log {
	return &Log{logger: logger.With("component", "notify")}
}

func (n *Log) Successf(format string, args ...any) {
	n.logger.Info("notification", "kind", "success", "message", fmt.Sprintf(format, args...))
}

func (n *Log) Errorf(format string, args ...any) {
	n.logger.Error("notification", "kind", "error", "message", fmt.Sprintf(format, args...))
}

func (n *Log) Infof(format string, args ...any) {
	n.logger.Info("notification", "kind", "info", "message", fmt.Sprintf(format, args...))
}

// Multi fans notifications out to several notifiers.
type Multi []Notifier

func (m Multi) Successf(format string, args ...any) {
	for _, n := range m {
		n.Successf(format, args...)
	}
}

func (m Multi) Errorf(format string, args ...any) {
	for _, n := range m {
		n.Errorf(format, args...)
	}
}

func (m Multi) Infof(format string, args ...any) {
	for _, n := range m {
		n.Infof(format, args...)
	}
}
