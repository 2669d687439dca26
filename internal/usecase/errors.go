package usecase

import (
	"errors"
	"fmt"
)

// Sentinel errors. Their messages are the ones surfaced to HTTP clients.
var (
	ErrLatexRequired     = errors.New("LaTeX content is required")
	ErrUpstreamCompile   = errors.New("Failed to compile LaTeX")
	ErrInternal          = errors.New("Internal server error")
	ErrUnsupportedFormat = errors.New("unsupported file type")
	ErrExtraction        = errors.New("Failed to extract text")
	ErrSessionNotFound   = errors.New("session not found")
)

// CompileError is the failure side of a compile. Kind is one of
// ErrLatexRequired, ErrUpstreamCompile or ErrInternal.
type CompileError struct {
	Kind       error
	StatusCode int    // upstream status, set for ErrUpstreamCompile
	detail     string // raw upstream body or underlying error message
	Err        error
}

// Message returns the generic message for the error kind.
func (e *CompileError) Message() string { return e.Kind.Error() }

// Detail returns the raw upstream body or the underlying error message.
func (e *CompileError) Detail() string { return e.detail }

func (e *CompileError) Error() string {
	switch {
	case e.StatusCode != 0:
		return fmt.Sprintf("%s: upstream status %d: %s", e.Kind, e.StatusCode, e.detail)
	case e.detail != "":
		return fmt.Sprintf("%s: %s", e.Kind, e.detail)
	default:
		return e.Kind.Error()
	}
}

func (e *CompileError) Unwrap() []error {
	if e.Err != nil {
		return []error{e.Kind, e.Err}
	}
	return []error{e.Kind}
}

// UnsupportedFormatError is returned when an upload is neither PDF, DOCX nor
// plain text.
type UnsupportedFormatError struct {
	MimeType string
}

func (e *UnsupportedFormatError) Error() string {
	mt := e.MimeType
	if mt == "" {
		mt = "unknown"
	}
	return "Unsupported file type: " + mt
}

func (e *UnsupportedFormatError) Unwrap() error { return ErrUnsupportedFormat }

// ExtractionError is returned when a format's parser fails.
type ExtractionError struct {
	Format Format
	Err    error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extract %s: %v", e.Format, e.Err)
}

// Detail returns the original parser error message.
func (e *ExtractionError) Detail() string { return e.Err.Error() }

func (e *ExtractionError) Unwrap() []error { return []error{ErrExtraction, e.Err} }
