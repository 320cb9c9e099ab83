package zipdoc

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidArgument is matched by every nil or empty argument error.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrReadIntegrity is matched when an archive entry yields fewer bytes than it declares.
	ErrReadIntegrity = errors.New("archive entry read integrity failure")
	// ErrEntryNotFound is returned when reading an entry path the document does not hold.
	ErrEntryNotFound = errors.New("entry not found")
	// ErrNotSupported is returned by Compile on templates and rendered documents.
	ErrNotSupported = errors.New("operation not supported")
	// ErrEntryTooLarge is returned when an entry declares more bytes than MaxEntrySize.
	ErrEntryTooLarge = errors.New("entry too large to be read into memory")
	// ErrWriterClosed is returned by writes on a closed EntryWriter.
	ErrWriterClosed = errors.New("entry writer is closed")
)

// ArgumentError reports a nil or empty argument
type ArgumentError struct {
	Name    string
	Message string
}

func (e *ArgumentError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("invalid argument '%s': %s", e.Name, e.Message)
	}
	return fmt.Sprintf("invalid argument '%s'", e.Name)
}

// Is makes errors.Is(err, ErrInvalidArgument) hold for every ArgumentError.
func (e *ArgumentError) Is(target error) bool {
	return target == ErrInvalidArgument
}

// NewArgumentError creates a new argument error
func NewArgumentError(name, message string) error {
	return &ArgumentError{
		Name:    name,
		Message: message,
	}
}

// ReadIntegrityError reports a truncated archive entry
type ReadIntegrityError struct {
	Path     string
	Declared uint64
	Read     uint64
	Cause    error
}

func (e *ReadIntegrityError) Error() string {
	msg := fmt.Sprintf("failed to read zip entry '%s': read %d of %d declared bytes", e.Path, e.Read, e.Declared)
	if e.Cause != nil {
		return msg + ": " + e.Cause.Error()
	}
	return msg
}

func (e *ReadIntegrityError) Unwrap() error {
	return e.Cause
}

// Is makes errors.Is(err, ErrReadIntegrity) hold for every ReadIntegrityError.
func (e *ReadIntegrityError) Is(target error) bool {
	return target == ErrReadIntegrity
}

// DocumentError represents an error during document operations
type DocumentError struct {
	Operation string
	Path      string
	Cause     error
}

func (e *DocumentError) Error() string {
	if e.Path != "" && e.Cause != nil {
		return fmt.Sprintf("document error during %s of '%s': %v", e.Operation, e.Path, e.Cause)
	} else if e.Path != "" {
		return fmt.Sprintf("document error during %s of '%s'", e.Operation, e.Path)
	} else if e.Cause != nil {
		return fmt.Sprintf("document error during %s: %v", e.Operation, e.Cause)
	}
	return fmt.Sprintf("document error during %s", e.Operation)
}

func (e *DocumentError) Unwrap() error {
	return e.Cause
}

// NewDocumentError creates a new document error
func NewDocumentError(operation, path string, cause error) error {
	return &DocumentError{
		Operation: operation,
		Path:      path,
		Cause:     cause,
	}
}

// ContextError adds context to an existing error
type ContextError struct {
	Operation string
	Context   map[string]interface{}
	Cause     error
}

func (e *ContextError) Error() string {
	var contextParts []string
	for k, v := range e.Context {
		contextParts = append(contextParts, fmt.Sprintf("%s=%v", k, v))
	}

	if len(contextParts) > 0 {
		return fmt.Sprintf("%s [%s]: %v", e.Operation, strings.Join(contextParts, ", "), e.Cause)
	}
	return fmt.Sprintf("%s: %v", e.Operation, e.Cause)
}

func (e *ContextError) Unwrap() error {
	return e.Cause
}

// WithContext wraps an error with additional context
func WithContext(err error, operation string, context map[string]interface{}) error {
	if err == nil {
		return nil
	}
	return &ContextError{
		Operation: operation,
		Context:   context,
		Cause:     err,
	}
}

// IsArgumentError checks if an error is an argument error
func IsArgumentError(err error) bool {
	return errors.Is(err, ErrInvalidArgument)
}

// IsReadIntegrityError checks if an error is a truncated entry error
func IsReadIntegrityError(err error) bool {
	return errors.Is(err, ErrReadIntegrity)
}

// IsNotFound checks if an error is an entry lookup error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrEntryNotFound)
}

// IsNotSupported checks if an error is an unsupported operation error
func IsNotSupported(err error) bool {
	return errors.Is(err, ErrNotSupported)
}

// IsDocumentError checks if an error is a document error
func IsDocumentError(err error) bool {
	var de *DocumentError
	return errors.As(err, &de)
}
