package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrAuth means the session is invalid or expired; only an external
	// re-authentication recovers it.
	ErrAuth = errors.New("authentication failed")
	// ErrRateLimited means the upstream is throttling us.
	ErrRateLimited = errors.New("rate limit exceeded")
	// ErrTransient covers timeouts, connection failures and other
	// upstream conditions that a later retry may clear.
	ErrTransient = errors.New("transient upstream failure")
	// ErrMapping indicates a payload shape violation.
	ErrMapping = errors.New("malformed payload")
)

// ErrorKind is the stable label form of the error taxonomy, used in
// health reporting and telemetry.
type ErrorKind string

const (
	KindNone        ErrorKind = ""
	KindAuth        ErrorKind = "auth"
	KindRateLimited ErrorKind = "rate_limited"
	KindTransient   ErrorKind = "network"
	KindMapping     ErrorKind = "mapping"
)

// Kind classifies err against the taxonomy sentinels. Unrecognized errors
// count as transient: the scheduler retries them at the normal interval.
func Kind(err error) ErrorKind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrAuth):
		return KindAuth
	case errors.Is(err, ErrRateLimited):
		return KindRateLimited
	case errors.Is(err, ErrMapping):
		return KindMapping
	default:
		return KindTransient
	}
}

// EntityError is a MappingError scoped to a single upstream entity. The
// mapper collects these instead of aborting, so one bad record never costs
// the samples of its siblings.
type EntityError struct {
	Category string
	EntityID string
	Reason   string
}

func (e *EntityError) Error() string {
	return fmt.Sprintf("%s %q: %s", e.Category, e.EntityID, e.Reason)
}

func (e *EntityError) Unwrap() error { return ErrMapping }
