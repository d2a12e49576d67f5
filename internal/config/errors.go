package config

import (
	"errors"
	"fmt"

	"github.com/dshills/keycalc/internal/config/loader"
)

// Errors returned by configuration operations.
var (
	// ErrSettingNotFound indicates the setting path doesn't exist.
	ErrSettingNotFound = errors.New("setting not found")

	// ErrTypeMismatch indicates the value type doesn't match the expected type.
	ErrTypeMismatch = errors.New("type mismatch")

	// ErrValidationFailed indicates a setting holds an unusable value.
	ErrValidationFailed = errors.New("validation failed")

	// ErrNoConfigFile indicates Watch was called without a config file path.
	ErrNoConfigFile = errors.New("no config file to watch")
)

// ParseError represents an error while parsing a configuration file.
type ParseError = loader.ParseError

// TypeError describes a setting whose value has the wrong type.
type TypeError struct {
	Path     string
	Expected string
	Actual   string
}

// Error implements the error interface.
func (e *TypeError) Error() string {
	return fmt.Sprintf("%s: expected %s, got %s", e.Path, e.Expected, e.Actual)
}

// Unwrap allows errors.Is(err, ErrTypeMismatch).
func (e *TypeError) Unwrap() error {
	return ErrTypeMismatch
}

// ValidationError describes a setting with an out-of-range value.
type ValidationError struct {
	// Path is the setting path that failed validation.
	Path string
	// Message describes the validation error.
	Message string
	// Value is the invalid value.
	Value any
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (value: %v)", e.Path, e.Message, e.Value)
}

// Unwrap allows errors.Is(err, ErrValidationFailed).
func (e *ValidationError) Unwrap() error {
	return ErrValidationFailed
}
