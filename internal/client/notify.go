package client

import "log/slog"

// Notifier surfaces short user-facing messages.
type Notifier interface {
	Success(message string)
	Error(message string)
}

// Clipboard is the host clipboard. WriteText fails when it is unavailable.
type Clipboard interface {
	WriteText(text string) error
}

// LogNotifier writes notifications to the default logger.
type LogNotifier struct{}

func (LogNotifier) Success(message string) {
	slog.Info("notification", "kind", "success", "message", message)
}

func (LogNotifier) Error(message string) {
	slog.Warn("notification", "kind", "error", "message", message)
}
