package domain

import "fmt"

// DomainError represents a domain-specific error
type DomainError struct {
	Code    string
	Message string
	Err     error
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError creates a new DomainError
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     nil,
	}
}

// NewDomainErrorWithCause creates a new DomainError with an underlying cause
func NewDomainErrorWithCause(code, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common domain error codes
const (
	ErrCodeValidation    = "VALIDATION_ERROR"
	ErrCodeNotFound      = "NOT_FOUND"
	ErrCodeFetch         = "FETCH_ERROR"
	ErrCodeFormat        = "FORMAT_ERROR"
	ErrCodeEmbedding     = "EMBEDDING_ERROR"
	ErrCodeInternalError = "INTERNAL_ERROR"
)

// Validation errors
var (
	ErrInvalidSourceType    = NewDomainError(ErrCodeValidation, "invalid source type")
	ErrInvalidJobStatus     = NewDomainError(ErrCodeValidation, "invalid job status")
	ErrMissingRequiredField = NewDomainError(ErrCodeValidation, "missing required field")
)

// Not found errors
var (
	ErrImportJobNotFound       = NewDomainError(ErrCodeNotFound, "import job not found")
	ErrKnowledgeSourceNotFound = NewDomainError(ErrCodeNotFound, "knowledge source not found")
	ErrKnowledgeRecordNotFound = NewDomainError(ErrCodeNotFound, "knowledge record not found")
)

// NewFetchError wraps a failure to retrieve a source location.
func NewFetchError(location string, err error) *DomainError {
	return NewDomainErrorWithCause(ErrCodeFetch, fmt.Sprintf("failed to fetch %s", location), err)
}

// NewFormatError wraps a payload that cannot be parsed as the declared source shape.
func NewFormatError(message string, err error) *DomainError {
	return NewDomainErrorWithCause(ErrCodeFormat, message, err)
}

// NewEmbeddingError wraps a non-success response from the embedding service.
func NewEmbeddingError(err error) *DomainError {
	return NewDomainErrorWithCause(ErrCodeEmbedding, "embedding service request failed", err)
}
