package config

import (
	"errors"
	"fmt"
)

var (
	// ErrKeyNotFound is returned by Get for keys that were never set.
	ErrKeyNotFound = errors.New("config key not found")
	// ErrUnsupportedFormat matches every *UnsupportedFormatError.
	ErrUnsupportedFormat = errors.New("unsupported config format")
	// ErrInvalidValue matches every *InvalidValueError.
	ErrInvalidValue = errors.New("invalid config value")
)

// UnsupportedFormatError reports a document whose name has no recognised
// suffix.
type UnsupportedFormatError struct {
	Name string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("couldn't load configuration file: %s", e.Name)
}

func (e *UnsupportedFormatError) Is(target error) bool { return target == ErrUnsupportedFormat }

// InvalidValueError reports a value that cannot be stored under a
// recognised key.
type InvalidValueError struct {
	Key   string
	Value any
	Err   error
}

func (e *InvalidValueError) Error() string {
	return fmt.Sprintf("invalid value %v for %s: %v", e.Value, e.Key, e.Err)
}

func (e *InvalidValueError) Unwrap() error { return e.Err }

func (e *InvalidValueError) Is(target error) bool { return target == ErrInvalidValue }
