package utils

import (
	"github.com/getsentry/sentry-go"
	"github.com/samgozman/fin-pulse/pkg/errlvl"
)

type sentryHub interface {
	CaptureException(exception error) *sentry.EventID
	WithScope(callback func(scope *sentry.Scope))
}

// CaptureSentryException captures err in the hub under the given name.
// Sentry reports the Go type of the error (*errors.joinError, *fmt.wrapError) as the exception type,
// so the name replaces the top element of the stack and the event level follows the errlvl level.
func CaptureSentryException(name string, hub sentryHub, err error) {
	lvl := sentryLevel(err)
	hub.WithScope(func(scope *sentry.Scope) {
		scope.AddEventProcessor(func(e *sentry.Event, hint *sentry.EventHint) *sentry.Event {
			if len(e.Exception) > 0 {
				e.Exception[len(e.Exception)-1].Type = name
			}
			e.Level = lvl
			return e
		})
		hub.CaptureException(err)
	})
}

// sentryLevel returns the Sentry level for the given error.
func sentryLevel(err error) sentry.Level {
	switch errlvl.Of(err) {
	case errlvl.FATAL:
		return sentry.LevelFatal
	case errlvl.WARN:
		return sentry.LevelWarning
	case errlvl.INFO:
		return sentry.LevelInfo
	case errlvl.DEBUG:
		return sentry.LevelDebug
	default:
		return sentry.LevelError
	}
}
