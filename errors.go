package smartbroker

import (
	"errors"
	"fmt"
)

// The portal fails in exactly three ways, and callers react differently to
// each: connection failures are retryable, authentication failures need new
// credentials, parse failures mean the page layout changed and the whole
// refresh cycle must be discarded. No component downgrades one kind into
// another.

// ConnectionError reports a transport-level failure: a request that never
// completed, or a response with a client or server error status.
type ConnectionError struct {
	Op     string // operation that failed, e.g. "login"
	Status string // HTTP status line when the server answered, empty otherwise
	Err    error  // underlying transport error, possibly nil
}

func (e *ConnectionError) Error() string {
	switch {
	case e.Err != nil:
		return fmt.Sprintf("smartbroker: %s: %v", e.Op, e.Err)
	case e.Status != "":
		return fmt.Sprintf("smartbroker: %s: portal answered %s", e.Op, e.Status)
	default:
		return fmt.Sprintf("smartbroker: %s: connection failed", e.Op)
	}
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// AuthError reports that the portal rejected the credentials. Retrying with
// the same credentials is pointless.
type AuthError struct {
	Detail string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("smartbroker: authentication rejected: %s", e.Detail)
}

// ParseError reports that a page no longer matches the expected shape: a
// missing table, a wrong header, or an unparseable numeric field. Stale or
// zeroed figures must never be reported as real, so this is fatal for the
// current refresh cycle.
type ParseError struct {
	Page   string // page being parsed, e.g. "account overview"
	Detail string
	Err    error // underlying cause, possibly nil
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("smartbroker: parsing %s: %s: %v", e.Page, e.Detail, e.Err)
	}
	return fmt.Sprintf("smartbroker: parsing %s: %s", e.Page, e.Detail)
}

func (e *ParseError) Unwrap() error { return e.Err }

// IsConnectionError reports whether err is (or wraps) a ConnectionError.
func IsConnectionError(err error) bool {
	var ce *ConnectionError
	return errors.As(err, &ce)
}

// IsAuthError reports whether err is (or wraps) an AuthError.
func IsAuthError(err error) bool {
	var ae *AuthError
	return errors.As(err, &ae)
}

// IsParseError reports whether err is (or wraps) a ParseError.
func IsParseError(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}
