package domain

import (
	"errors"
	"fmt"
)

var (
	ErrConfig         = errors.New("invalid configuration")
	ErrConfigNotFound = fmt.Errorf("%w: config file not found", ErrConfig)
	ErrConfigParse    = fmt.Errorf("%w: config parse failed", ErrConfig)
	ErrRequired       = fmt.Errorf("%w: required field missing", ErrConfig)

	ErrIPResolution = errors.New("IP resolution failed")

	ErrRecordFetch    = errors.New("DNS record fetch failed")
	ErrRecordFormat   = errors.New("malformed DNS record from provider")
	ErrRecordMutation = errors.New("DNS record mutation failed")
	ErrAPIResponse    = errors.New("registrar API returned an error")

	ErrRunLocked = errors.New("another run holds the lock")
)

func RequiredField(field string) error {
	return fmt.Errorf("%w: %s", ErrRequired, field)
}

func ConfigError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrConfig, fmt.Sprintf(format, args...))
}

func WrapEntity(entity, name string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s[%s]: %w", entity, name, err)
}

// OpError ties a failed registrar or lookup operation to the error class it
// belongs to, so callers can test with errors.Is against either the class or
// the underlying cause.
type OpError struct {
	Op    string
	Kind  error
	Cause error
}

func (e *OpError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %v: %v", e.Op, e.Kind, e.Cause)
}

func (e *OpError) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Cause}
}

func NewOpError(op string, kind, cause error) error {
	return &OpError{Op: op, Kind: kind, Cause: cause}
}

// IsFatal reports whether err must stop a reconciliation run.
func IsFatal(err error) bool {
	return errors.Is(err, ErrRecordFetch) || errors.Is(err, ErrRecordFormat)
}
