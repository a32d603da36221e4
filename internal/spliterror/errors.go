// Package spliterror defines the error types returned by the split engine.
package spliterror

import (
	"errors"
	"fmt"
)

// Sentinels matched with errors.Is.
var (
	ErrConfiguration = errors.New("configuration error")
	ErrValidation    = errors.New("validation error")
	ErrPayload       = errors.New("payload error")
)

// ConfigurationError reports settings that make a calculation impossible:
// an unparseable pattern, an unknown column or ratios not adding up to 100.
type ConfigurationError struct {
	Setting string
	Value   string
	Reason  string
	Err     error
}

func (e *ConfigurationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid setting %s='%s': %s: %v", e.Setting, e.Value, e.Reason, e.Err)
	}
	return fmt.Sprintf("invalid setting %s='%s': %s", e.Setting, e.Value, e.Reason)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// Is makes every ConfigurationError match ErrConfiguration.
func (e *ConfigurationError) Is(target error) bool {
	return target == ErrConfiguration
}

// ValidationError describes a malformed record.
type ValidationError struct {
	RecordID string
	Field    string
	Reason   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("record %s: field %s: %s", e.RecordID, e.Field, e.Reason)
}

// Is makes every ValidationError match ErrValidation.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// PayloadError represents a request document that could not be decoded.
type PayloadError struct {
	Source string
	Err    error
}

func (e *PayloadError) Error() string {
	return fmt.Sprintf("invalid payload %s: %v", e.Source, e.Err)
}

func (e *PayloadError) Unwrap() error {
	return e.Err
}

// Is makes every PayloadError match ErrPayload.
func (e *PayloadError) Is(target error) bool {
	return target == ErrPayload
}
