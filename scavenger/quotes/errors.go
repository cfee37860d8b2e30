package quotes

import (
	"errors"
	"fmt"

	"github.com/samgozman/fin-pulse/pkg/errlvl"
)

var (
	errUnknownMetric  = errors.New("unknown metric")
	errRequest        = errors.New("failed to request quote source")
	errStatus         = errors.New("unexpected status code")
	errDecode         = errors.New("failed to decode quote response")
	errEmptyResult    = errors.New("empty result array")
	errMissingField   = errors.New("quote field is missing")
	errNonPositive    = errors.New("quote value is not positive")
	errPanicFetchSoft = errors.New("panic in Fetcher.FetchOrUnavailable")
)

// Error is the error type for the quote Fetcher.
type Error struct {
	level  errlvl.Lvl // severity level of the error
	errs   []error    // generic error + the real error
	metric Metric
}

func (e *Error) Error() string {
	return e.getWrappedError().Error()
}

func (e *Error) Unwrap() error {
	return e.getWrappedError()
}

// WithMetric sets the metric that failed.
func (e *Error) WithMetric(m Metric) *Error {
	e.metric = m
	return e
}

func (e *Error) getWrappedError() error {
	err := errors.Join(e.errs...)

	if e.metric != "" {
		return errlvl.Wrap(fmt.Errorf("metric %s: %w", e.metric, err), e.level)
	}

	return errlvl.Wrap(err, e.level)
}

func newError(lvl errlvl.Lvl, errs ...error) *Error {
	return &Error{
		level: lvl,
		errs:  errs,
	}
}
