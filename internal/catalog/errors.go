package catalog

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedInput marks a record that cannot take part in linkage.
	ErrMalformedInput = errors.New("malformed input")
	// ErrUnparsableField marks a field value that is present but unusable.
	ErrUnparsableField = errors.New("unparsable field")
	// ErrConfiguration marks invalid linkage settings.
	ErrConfiguration = errors.New("configuration error")
)

// ErrorClassifier lets errors declare a coarse classification for reporting.
type ErrorClassifier interface {
	ErrorKind() string
}

// RecordError describes a record excluded from linkage.
type RecordError struct {
	Source Source
	Origin string
	Reason string
}

func (e *RecordError) Error() string {
	if e.Origin == "" {
		return fmt.Sprintf("%s: source %s record: %s", ErrMalformedInput, e.Source, e.Reason)
	}
	return fmt.Sprintf("%s: source %s record %s: %s", ErrMalformedInput, e.Source, e.Origin, e.Reason)
}

func (e *RecordError) Unwrap() error { return ErrMalformedInput }

func (e *RecordError) ErrorKind() string { return "validation" }

// FieldIssue records a field value that was dropped because it could not be used.
type FieldIssue struct {
	Source Source `json:"source"`
	Origin string `json:"origin,omitempty"`
	Field  string `json:"field"`
	Value  string `json:"value,omitempty"`
	Reason string `json:"reason"`
}

// Err returns the issue as an error wrapping ErrUnparsableField.
func (i FieldIssue) Err() error {
	if i.Value == "" {
		return fmt.Errorf("%w: %s: %s", ErrUnparsableField, i.Field, i.Reason)
	}
	return fmt.Errorf("%w: %s=%q: %s", ErrUnparsableField, i.Field, i.Value, i.Reason)
}

// ConfigError reports an invalid setting by its configuration key.
type ConfigError struct {
	Key     string
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s %s", e.Key, e.Message)
}

func (e *ConfigError) Unwrap() error { return ErrConfiguration }

func (e *ConfigError) ErrorKind() string { return "configuration" }

// NewConfigError builds a ConfigError with a formatted message.
func NewConfigError(key, format string, args ...any) error {
	return &ConfigError{Key: key, Message: fmt.Sprintf(format, args...)}
}

// CheckUnit returns a ConfigError for key unless v is a number in [0, 1].
// NaN and infinities are rejected.
func CheckUnit(key string, v float64) error {
	if !(v >= 0 && v <= 1) {
		return NewConfigError(key, "must be between 0 and 1 (got %v)", v)
	}
	return nil
}

// Kind returns the classification of err, or "internal" when it carries none.
func Kind(err error) string {
	var classifier ErrorClassifier
	if errors.As(err, &classifier) {
		return classifier.ErrorKind()
	}
	return "internal"
}
