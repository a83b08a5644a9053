package utils

import (
	"log/slog"

	"github.com/getsentry/sentry-go"
	"github.com/pkg/errors"
)

// Alert reports err to error tracking and logs it. Without a configured DSN
// the event id is nil and only the log line remains.
func Alert(message string, err error) {
	evID := sentry.CurrentHub().CaptureException(errors.Wrap(err, message))
	slog.Error("critical error encountered", "msg", message, "err", err, "event", evID)
}

// RecoverAndAlert reports a recovered panic value.
func RecoverAndAlert(message string, recovered any) {
	evID := sentry.CurrentHub().Recover(recovered)
	slog.Error("panic recovered", "msg", message, "panic", recovered, "event", evID)
}
