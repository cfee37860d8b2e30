package errlvl

import (
	"errors"
	"fmt"
)

// Lvl is the severity of an error.
type Lvl uint8

const (
	DEBUG Lvl = iota + 1
	INFO
	WARN
	ERROR
	FATAL
)

// ErrorLevel is a sentinel that marks the severity of an error chain.
//
// Every package error type wraps its cause with one of these, so the job layer can decide
// how loud a failure is without knowing where it came from.
type ErrorLevel error

var (
	ErrDebug ErrorLevel = errors.New("[DEBUG]")
	ErrInfo  ErrorLevel = errors.New("[INFO]")
	ErrWarn  ErrorLevel = errors.New("[WARN]")
	ErrError ErrorLevel = errors.New("[ERROR]")
	ErrFatal ErrorLevel = errors.New("[FATAL]")
)

// Wrap wraps the given error with the given level. Errors that already carry a level are returned as is.
func Wrap(err error, level Lvl) error {
	if hasLevel(err) {
		return err
	}

	return fmt.Errorf("%w %w", sentinel(level), err)
}

// Of returns the level carried by err. Errors without a level are treated as ERROR, nil as DEBUG.
func Of(err error) Lvl {
	switch {
	case err == nil:
		return DEBUG
	case errors.Is(err, ErrFatal):
		return FATAL
	case errors.Is(err, ErrError):
		return ERROR
	case errors.Is(err, ErrWarn):
		return WARN
	case errors.Is(err, ErrInfo):
		return INFO
	case errors.Is(err, ErrDebug):
		return DEBUG
	default:
		return ERROR
	}
}

func sentinel(level Lvl) ErrorLevel {
	switch level {
	case DEBUG:
		return ErrDebug
	case INFO:
		return ErrInfo
	case WARN:
		return ErrWarn
	case FATAL:
		return ErrFatal
	default:
		return ErrError
	}
}

// hasLevel checks if the given error has a level set already.
func hasLevel(err error) bool {
	return errors.Is(err, ErrDebug) || errors.Is(err, ErrInfo) || errors.Is(err, ErrWarn) || errors.Is(err, ErrError) || errors.Is(err, ErrFatal)
}
