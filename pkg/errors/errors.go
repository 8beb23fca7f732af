package errors

import "fmt"

type baseError struct {
	message string
}

func (e *baseError) Error() string {
	return e.message
}

// ValidationError represents a validation error (HTTP 400)
type ValidationError struct {
	baseError
}

func NewValidationError(message string) *ValidationError {
	return &ValidationError{baseError{message: message}}
}

func NewValidationErrorf(format string, args ...interface{}) *ValidationError {
	return &ValidationError{baseError{message: fmt.Sprintf(format, args...)}}
}

// NotFoundError represents a not found error (HTTP 404)
type NotFoundError struct {
	baseError
}

func NewNotFoundError(message string) *NotFoundError {
	return &NotFoundError{baseError{message: message}}
}

func NewNotFoundErrorf(format string, args ...interface{}) *NotFoundError {
	return &NotFoundError{baseError{message: fmt.Sprintf(format, args...)}}
}

// ConflictError represents a conflict error (HTTP 409)
type ConflictError struct {
	baseError
}

func NewConflictError(message string) *ConflictError {
	return &ConflictError{baseError{message: message}}
}

func NewConflictErrorf(format string, args ...interface{}) *ConflictError {
	return &ConflictError{baseError{message: fmt.Sprintf(format, args...)}}
}

// InternalError represents an internal server error (HTTP 500)
type InternalError struct {
	baseError
}

func NewInternalError(message string) *InternalError {
	return &InternalError{baseError{message: message}}
}

func NewInternalErrorf(format string, args ...interface{}) *InternalError {
	return &InternalError{baseError{message: fmt.Sprintf(format, args...)}}
}

// ServiceUnavailableError represents a service unavailable error (HTTP 503)
type ServiceUnavailableError struct {
	baseError
}

func NewServiceUnavailableError(message string) *ServiceUnavailableError {
	return &ServiceUnavailableError{baseError{message: message}}
}

func NewServiceUnavailableErrorf(format string, args ...interface{}) *ServiceUnavailableError {
	return &ServiceUnavailableError{baseError{message: fmt.Sprintf(format, args...)}}
}

// CredentialInvalidError means the session is absent, expired or not active.
// It sends the connection down the fresh-login path.
type CredentialInvalidError struct {
	baseError
}

func NewCredentialInvalidError(message string) *CredentialInvalidError {
	return &CredentialInvalidError{baseError{message: message}}
}

func NewCredentialInvalidErrorf(format string, args ...interface{}) *CredentialInvalidError {
	return &CredentialInvalidError{baseError{message: fmt.Sprintf(format, args...)}}
}

// CredentialRejectedError means the chat network refused the credential.
type CredentialRejectedError struct {
	baseError
}

func NewCredentialRejectedError(message string) *CredentialRejectedError {
	return &CredentialRejectedError{baseError{message: message}}
}

func NewCredentialRejectedErrorf(format string, args ...interface{}) *CredentialRejectedError {
	return &CredentialRejectedError{baseError{message: fmt.Sprintf(format, args...)}}
}

// TransientNetworkError covers timeouts, refused and closed connections.
type TransientNetworkError struct {
	baseError
}

func NewTransientNetworkError(message string) *TransientNetworkError {
	return &TransientNetworkError{baseError{message: message}}
}

func NewTransientNetworkErrorf(format string, args ...interface{}) *TransientNetworkError {
	return &TransientNetworkError{baseError{message: fmt.Sprintf(format, args...)}}
}

// RemoteApplicationError carries a structured error returned by a remote
// service. Its message is shown to the end user as is.
type RemoteApplicationError struct {
	baseError
}

func NewRemoteApplicationError(message string) *RemoteApplicationError {
	return &RemoteApplicationError{baseError{message: message}}
}

func NewRemoteApplicationErrorf(format string, args ...interface{}) *RemoteApplicationError {
	return &RemoteApplicationError{baseError{message: fmt.Sprintf(format, args...)}}
}

// LocalIOError represents a filesystem or store failure.
type LocalIOError struct {
	baseError
}

func NewLocalIOError(message string) *LocalIOError {
	return &LocalIOError{baseError{message: message}}
}

func NewLocalIOErrorf(format string, args ...interface{}) *LocalIOError {
	return &LocalIOError{baseError{message: fmt.Sprintf(format, args...)}}
}
