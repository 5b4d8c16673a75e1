package iamaudit

import (
	"errors"
	"fmt"
)

// ErrorCategory categorizes errors for handling and reporting.
type ErrorCategory string

const (
	// ErrCategoryConfiguration indicates malformed input or configuration.
	// It is fatal to the run and never turned into an Issue.
	ErrCategoryConfiguration ErrorCategory = "configuration"
	// ErrCategoryUnsupportedProvider indicates an unknown provider tag.
	ErrCategoryUnsupportedProvider ErrorCategory = "unsupported_provider"
	// ErrCategoryFetch indicates a provider failed to return user records.
	ErrCategoryFetch ErrorCategory = "fetch"
	// ErrCategoryRender indicates report rendering failed.
	ErrCategoryRender ErrorCategory = "render"
	// ErrCategoryStorage indicates the report could not be written.
	ErrCategoryStorage ErrorCategory = "storage"
	// ErrCategoryInternal indicates an internal error.
	ErrCategoryInternal ErrorCategory = "internal"
)

// AuditError is a structured error with category and context.
type AuditError struct {
	// Category classifies the error type.
	Category ErrorCategory

	// Message is a human-readable error message.
	Message string

	// Provider is the identity provider where the error occurred.
	Provider ProviderName

	// Operation is the operation that failed.
	Operation string

	// UserID is the user record involved, if any.
	UserID string

	// Cause is the underlying error.
	Cause error
}

// Error implements the error interface.
func (e *AuditError) Error() string {
	msg := fmt.Sprintf("[%s] %s", e.Category, e.Message)
	if e.Provider != "" {
		msg = fmt.Sprintf("[%s:%s] %s", e.Provider, e.Category, e.Message)
	}
	if e.UserID != "" {
		msg = fmt.Sprintf("%s (user %s)", msg, e.UserID)
	}
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

// Unwrap returns the underlying error.
func (e *AuditError) Unwrap() error {
	return e.Cause
}

// Is checks if the target error matches this error's category.
func (e *AuditError) Is(target error) bool {
	var aErr *AuditError
	if errors.As(target, &aErr) {
		return e.Category == aErr.Category
	}
	return false
}

// NewError creates a new AuditError.
func NewError(category ErrorCategory, message string) *AuditError {
	return &AuditError{
		Category: category,
		Message:  message,
	}
}

// WithProvider sets the provider.
func (e *AuditError) WithProvider(p ProviderName) *AuditError {
	e.Provider = p
	return e
}

// WithOperation sets the operation.
func (e *AuditError) WithOperation(op string) *AuditError {
	e.Operation = op
	return e
}

// WithUser sets the user record identifier.
func (e *AuditError) WithUser(id string) *AuditError {
	e.UserID = id
	return e
}

// WithCause sets the underlying error.
func (e *AuditError) WithCause(err error) *AuditError {
	e.Cause = err
	return e
}

// ErrConfiguration creates a configuration error.
func ErrConfiguration(message string) *AuditError {
	return NewError(ErrCategoryConfiguration, message)
}

// ErrUnsupportedProvider creates an unsupported provider error.
func ErrUnsupportedProvider(name ProviderName) *AuditError {
	return NewError(ErrCategoryUnsupportedProvider,
		fmt.Sprintf("provider '%s' is not supported in this version", name)).
		WithProvider(name)
}

// ErrFetch creates a fetch error.
func ErrFetch(message string) *AuditError {
	return NewError(ErrCategoryFetch, message)
}

// ErrRender creates a render error.
func ErrRender(message string) *AuditError {
	return NewError(ErrCategoryRender, message)
}

// ErrStorage creates a storage error.
func ErrStorage(message string) *AuditError {
	return NewError(ErrCategoryStorage, message)
}

// ErrInternal creates an internal error.
func ErrInternal(message string) *AuditError {
	return NewError(ErrCategoryInternal, message)
}

// IsCategory checks if an error is of a specific category.
func IsCategory(err error, category ErrorCategory) bool {
	var aErr *AuditError
	if errors.As(err, &aErr) {
		return aErr.Category == category
	}
	return false
}

// IsConfigurationError reports whether err is a ConfigurationError.
func IsConfigurationError(err error) bool {
	return IsCategory(err, ErrCategoryConfiguration)
}

// GetErrorProvider extracts the provider from an error.
func GetErrorProvider(err error) ProviderName {
	var aErr *AuditError
	if errors.As(err, &aErr) {
		return aErr.Provider
	}
	return ""
}
