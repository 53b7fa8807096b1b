// Package domain contains business logic types and errors.
// Domain errors represent ingestion-level failures, NOT HTTP errors.
// They are infrastructure-agnostic and can be mapped to HTTP/gRPC/etc by adapters.
package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for use with errors.Is().
var (
	// ErrUnsupportedFormat indicates the path's extension matches no registered format.
	ErrUnsupportedFormat = errors.New("unsupported format")

	// ErrMalformedRecord indicates a row, line, or paragraph did not decompose
	// into exactly a body and an author per the format's splitting rule.
	ErrMalformedRecord = errors.New("malformed record")

	// ErrExtractionFailed indicates the external text-extraction step could not
	// run or returned a non-zero status.
	ErrExtractionFailed = errors.New("extraction failed")

	// ErrIO indicates the source file could not be opened or read.
	ErrIO = errors.New("io failure")

	// ErrNotFound indicates the requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrValidation indicates request validation failed.
	ErrValidation = errors.New("validation failed")

	// ErrUnavailable indicates a required dependency is unavailable.
	ErrUnavailable = errors.New("unavailable")
)

// UnsupportedFormatError provides context for unsupported-format errors.
type UnsupportedFormatError struct {
	Path      string
	Extension string
}

// Error implements the error interface.
func (e *UnsupportedFormatError) Error() string {
	if e.Extension != "" {
		return fmt.Sprintf("unsupported format %q for %q", e.Extension, e.Path)
	}

	return fmt.Sprintf("unsupported format for %q", e.Path)
}

// Unwrap returns the sentinel error for errors.Is() support.
func (e *UnsupportedFormatError) Unwrap() error {
	return ErrUnsupportedFormat
}

// NewUnsupportedFormatError creates an unsupported-format error with context.
func NewUnsupportedFormatError(path, extension string) error {
	return &UnsupportedFormatError{Path: path, Extension: extension}
}

// MalformedRecordError provides context for malformed-record errors.
// Line is the 1-based row, line, or paragraph number when known; zero means
// the position could not be determined.
type MalformedRecordError struct {
	Path   string
	Line   int
	Reason string
}

// Error implements the error interface.
func (e *MalformedRecordError) Error() string {
	switch {
	case e.Path != "" && e.Line > 0:
		return fmt.Sprintf("malformed record in %q at line %d: %s", e.Path, e.Line, e.Reason)
	case e.Path != "":
		return fmt.Sprintf("malformed record in %q: %s", e.Path, e.Reason)
	default:
		return "malformed record: " + e.Reason
	}
}

// Unwrap returns the sentinel error for errors.Is() support.
func (e *MalformedRecordError) Unwrap() error {
	return ErrMalformedRecord
}

// NewMalformedRecordError creates a malformed-record error with context.
func NewMalformedRecordError(path string, line int, reason string) error {
	return &MalformedRecordError{Path: path, Line: line, Reason: reason}
}

// ExtractionFailedError provides context for extraction failures.
type ExtractionFailedError struct {
	Tool   string
	Reason string
}

// Error implements the error interface.
func (e *ExtractionFailedError) Error() string {
	if e.Tool != "" {
		return fmt.Sprintf("text extraction via %q failed: %s", e.Tool, e.Reason)
	}

	return "text extraction failed: " + e.Reason
}

// Unwrap returns the sentinel error for errors.Is() support.
func (e *ExtractionFailedError) Unwrap() error {
	return ErrExtractionFailed
}

// NewExtractionFailedError creates an extraction-failed error with context.
func NewExtractionFailedError(tool, reason string) error {
	return &ExtractionFailedError{Tool: tool, Reason: reason}
}

// IOError provides context for filesystem failures.
type IOError struct {
	Op   string
	Path string
	Err  error
}

// Error implements the error interface.
func (e *IOError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s %q: %v", e.Op, e.Path, e.Err)
	}

	return fmt.Sprintf("%s %q failed", e.Op, e.Path)
}

// Unwrap returns the sentinel and the underlying cause so both
// errors.Is(err, ErrIO) and errors.Is(err, fs.ErrNotExist) work.
func (e *IOError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrIO}
	}

	return []error{ErrIO, e.Err}
}

// NewIOError creates an IO error wrapping the underlying cause.
func NewIOError(op, path string, err error) error {
	return &IOError{Op: op, Path: path, Err: err}
}

// NotFoundError provides context for not found errors.
type NotFoundError struct {
	Entity string
	ID     string
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("%s with id %q not found", e.Entity, e.ID)
	}

	return e.Entity + " not found"
}

// Unwrap returns the sentinel error for errors.Is() support.
func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// NewNotFoundError creates a not found error with context.
func NewNotFoundError(entity, id string) error {
	return &NotFoundError{Entity: entity, ID: id}
}

// ValidationError provides context for validation errors.
type ValidationError struct {
	Field   string
	Message string
	Value   any
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Message)
	}

	return "validation failed: " + e.Message
}

// Unwrap returns the sentinel error for errors.Is() support.
func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// NewValidationError creates a validation error with context.
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// UnavailableError provides context for unavailable errors.
type UnavailableError struct {
	Service string
	Reason  string
}

// Error implements the error interface.
func (e *UnavailableError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("service %q unavailable: %s", e.Service, e.Reason)
	}

	return fmt.Sprintf("service %q unavailable", e.Service)
}

// Unwrap returns the sentinel error for errors.Is() support.
func (e *UnavailableError) Unwrap() error {
	return ErrUnavailable
}

// NewUnavailableError creates an unavailable error with context.
func NewUnavailableError(service, reason string) error {
	return &UnavailableError{Service: service, Reason: reason}
}

// IsUnsupportedFormat checks if an error is an unsupported-format error.
func IsUnsupportedFormat(err error) bool {
	return errors.Is(err, ErrUnsupportedFormat)
}

// IsMalformedRecord checks if an error is a malformed-record error.
func IsMalformedRecord(err error) bool {
	return errors.Is(err, ErrMalformedRecord)
}

// IsExtractionFailed checks if an error is an extraction-failed error.
func IsExtractionFailed(err error) bool {
	return errors.Is(err, ErrExtractionFailed)
}

// IsIO checks if an error is an IO failure.
func IsIO(err error) bool {
	return errors.Is(err, ErrIO)
}

// IsNotFound checks if an error is a not found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidation checks if an error is a validation error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

// IsUnavailable checks if an error is an unavailable error.
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrUnavailable)
}
