package oracle

import (
	"errors"
	"fmt"
)

// Kind classifies a text generation failure.
type Kind string

const (
	KindNoAPIKey        Kind = "no_api_key"
	KindNetwork         Kind = "network"
	KindRateLimit       Kind = "rate_limit"
	KindTimeout         Kind = "timeout"
	KindInvalidResponse Kind = "invalid_response"
)

// Error is the only error type returned by a Generator.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return "oracle: " + string(e.Kind)
	}
	return fmt.Sprintf("oracle: %s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error of the same kind, so the sentinels below work with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// Sentinels for errors.Is.
var (
	ErrNoAPIKey        = &Error{Kind: KindNoAPIKey}
	ErrNetwork         = &Error{Kind: KindNetwork}
	ErrRateLimit       = &Error{Kind: KindRateLimit}
	ErrTimeout         = &Error{Kind: KindTimeout}
	ErrInvalidResponse = &Error{Kind: KindInvalidResponse}
)

func newError(kind Kind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}

// IsMissingKey reports whether err means no API key is configured locally.
// A key rejected by the server (HTTP 401) carries its cause and does not match.
func IsMissingKey(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == KindNoAPIKey && e.Err == nil
}
