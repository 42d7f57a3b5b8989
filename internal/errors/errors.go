// Package errors provides custom error types for domain-specific errors.
package errors

import (
	"errors"
	"fmt"
)

// Standard sentinel errors
var (
	ErrUnknownFormat  = errors.New("unrecognized export format")
	ErrNoRecords      = errors.New("no records found")
	ErrNotOptionTrade = errors.New("not an option trade")
	ErrConfigInvalid  = errors.New("invalid configuration")
	ErrDatabaseError  = errors.New("database error")
	ErrTradeNotFound  = errors.New("trade not found")
)

// ParseError represents a row-level normalization failure. Rows that fail
// to parse are skipped with a warning, never fatal for the batch.
type ParseError struct {
	Broker string
	Field  string
	Value  string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parse error [%s] %s=%q: %v", e.Broker, e.Field, e.Value, e.Err)
	}
	return fmt.Sprintf("parse error [%s] %s=%q", e.Broker, e.Field, e.Value)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// NewParseError creates a new ParseError.
func NewParseError(broker, field, value string, err error) *ParseError {
	return &ParseError{
		Broker: broker,
		Field:  field,
		Value:  value,
		Err:    err,
	}
}

// StoreError represents a persistence failure.
type StoreError struct {
	Operation string
	Err       error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store error [%s]: %v", e.Operation, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError creates a new StoreError.
func NewStoreError(operation string, err error) *StoreError {
	return &StoreError{
		Operation: operation,
		Err:       err,
	}
}

// IngestError represents a file-level ingestion failure.
type IngestError struct {
	Path    string
	Message string
	Err     error
}

func (e *IngestError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("ingest error [%s]: %s: %v", e.Path, e.Message, e.Err)
	}
	return fmt.Sprintf("ingest error [%s]: %s", e.Path, e.Message)
}

func (e *IngestError) Unwrap() error {
	return e.Err
}

// NewIngestError creates a new IngestError.
func NewIngestError(path, message string, err error) *IngestError {
	return &IngestError{
		Path:    path,
		Message: message,
		Err:     err,
	}
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with formatted context.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
