package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Domain errors
var (
	ErrNotFound           = errors.New("resource not found")
	ErrAlreadyExists      = errors.New("resource already exists")
	ErrInvalidInput       = errors.New("invalid input")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrWeakCredential     = errors.New("password must be at least 6 characters long")
	ErrSelfConnection     = errors.New("cannot connect with yourself")
	ErrRoleViolation      = errors.New("connection not allowed for these roles")
	ErrAlreadyConnected   = errors.New("already connected")
	ErrNotParticipant     = errors.New("user is not a participant")
	ErrInvalidUpload      = errors.New("invalid upload")
	ErrInvalidSignature   = errors.New("invalid signature")
	ErrInvalidExternalRef = errors.New("invalid external reference")
	ErrExternalService    = errors.New("external service error")
	ErrAccountNotLinked   = errors.New("payment account not connected")

	// ErrRoleNotConfigured means the reference tables were never seeded.
	ErrRoleNotConfigured = fmt.Errorf("role not configured: %w", ErrNotFound)
)

// Kind is the coarse error category exposed to clients
type Kind string

const (
	KindValidation   Kind = "ValidationError"
	KindUnauthorized Kind = "Unauthorized"
	KindNotFound     Kind = "NotFound"
	KindConflict     Kind = "Conflict"
	KindExternal     Kind = "ExternalServiceError"
	KindInternal     Kind = "InternalError"
)

// Error codes
const (
	CodeInvalidInput       = "INVALID_INPUT"
	CodeMissingFields      = "MISSING_FIELDS"
	CodeWeakCredential     = "WEAK_CREDENTIAL"
	CodeSelfConnection     = "SELF_CONNECTION"
	CodeInvalidUpload      = "INVALID_UPLOAD"
	CodeInvalidExternalRef = "INVALID_EXTERNAL_REF"
	CodeAccountNotLinked   = "PAYMENT_ACCOUNT_NOT_CONNECTED"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeInvalidSignature   = "INVALID_SIGNATURE"
	CodeForbidden          = "FORBIDDEN"
	CodeRoleViolation      = "ROLE_VIOLATION"
	CodeNotParticipant     = "NOT_PARTICIPANT"
	CodeNotFound           = "NOT_FOUND"
	CodeRoleNotConfigured  = "ROLE_NOT_CONFIGURED"
	CodeConflict           = "CONFLICT"
	CodeDuplicateIdentity  = "DUPLICATE_IDENTITY"
	CodeAlreadyConnected   = "ALREADY_CONNECTED"
	CodeExternalService    = "EXTERNAL_SERVICE_ERROR"
	CodeInternalError      = "INTERNAL_ERROR"
)

// AppError represents application error with HTTP status
type AppError struct {
	Status  int      `json:"-"`
	Kind    Kind     `json:"kind"`
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Fields  []string `json:"fields,omitempty"`
	Err     error    `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// WithFields attaches the offending field names
func (e *AppError) WithFields(fields ...string) *AppError {
	e.Fields = append(e.Fields, fields...)
	return e
}

// NewAppError creates a new app error; the kind follows from the status
func NewAppError(status int, code, message string, err error) *AppError {
	return &AppError{
		Status:  status,
		Kind:    kindForStatus(status),
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func kindForStatus(status int) Kind {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return KindUnauthorized
	case status == http.StatusNotFound:
		return KindNotFound
	case status == http.StatusConflict:
		return KindConflict
	case status == http.StatusBadGateway || status == http.StatusGatewayTimeout:
		return KindExternal
	case status >= 400 && status < 500:
		return KindValidation
	default:
		return KindInternal
	}
}

// Common error constructors
func Validation(message string) *AppError {
	return NewAppError(http.StatusBadRequest, CodeInvalidInput, message, ErrInvalidInput)
}

func MissingFields(fields ...string) *AppError {
	return NewAppError(http.StatusBadRequest, CodeMissingFields, "All fields are required", ErrInvalidInput).WithFields(fields...)
}

func NotFound(message string) *AppError {
	return NewAppError(http.StatusNotFound, CodeNotFound, message, ErrNotFound)
}

func Unauthorized(message string) *AppError {
	return NewAppError(http.StatusUnauthorized, CodeUnauthorized, message, ErrUnauthorized)
}

func Forbidden(message string) *AppError {
	return NewAppError(http.StatusForbidden, CodeForbidden, message, ErrForbidden)
}

func Conflict(message string) *AppError {
	return NewAppError(http.StatusConflict, CodeConflict, message, ErrAlreadyExists)
}

func External(err error) *AppError {
	return NewAppError(http.StatusBadGateway, CodeExternalService, "external service unavailable", fmt.Errorf("%w: %w", ErrExternalService, err))
}

func InternalError(err error) *AppError {
	return NewAppError(http.StatusInternalServerError, CodeInternalError, "internal server error", err)
}

type mapping struct {
	target error
	build  func(err error) *AppError
}

// checked in order: wrapped sentinels must precede the ones they wrap
var mappings = []mapping{
	{ErrRoleNotConfigured, func(err error) *AppError {
		return &AppError{Status: http.StatusInternalServerError, Kind: KindNotFound, Code: CodeRoleNotConfigured, Message: "reference data missing: role not configured", Err: err}
	}},
	{ErrWeakCredential, func(err error) *AppError {
		return NewAppError(http.StatusBadRequest, CodeWeakCredential, ErrWeakCredential.Error(), err)
	}},
	{ErrSelfConnection, func(err error) *AppError {
		return NewAppError(http.StatusBadRequest, CodeSelfConnection, ErrSelfConnection.Error(), err)
	}},
	{ErrInvalidUpload, func(err error) *AppError {
		return NewAppError(http.StatusBadRequest, CodeInvalidUpload, err.Error(), err)
	}},
	{ErrInvalidExternalRef, func(err error) *AppError {
		return NewAppError(http.StatusBadRequest, CodeInvalidExternalRef, err.Error(), err)
	}},
	{ErrAccountNotLinked, func(err error) *AppError {
		return NewAppError(http.StatusBadRequest, CodeAccountNotLinked, ErrAccountNotLinked.Error(), err)
	}},
	{ErrInvalidInput, func(err error) *AppError {
		return NewAppError(http.StatusBadRequest, CodeInvalidInput, err.Error(), err)
	}},
	{ErrInvalidCredentials, func(err error) *AppError {
		return NewAppError(http.StatusUnauthorized, CodeInvalidCredentials, "Invalid email or password", err)
	}},
	{ErrInvalidSignature, func(err error) *AppError {
		return NewAppError(http.StatusUnauthorized, CodeInvalidSignature, ErrInvalidSignature.Error(), err)
	}},
	{ErrUnauthorized, func(err error) *AppError {
		return NewAppError(http.StatusUnauthorized, CodeUnauthorized, ErrUnauthorized.Error(), err)
	}},
	{ErrRoleViolation, func(err error) *AppError {
		return NewAppError(http.StatusForbidden, CodeRoleViolation, err.Error(), err)
	}},
	{ErrNotParticipant, func(err error) *AppError {
		return NewAppError(http.StatusForbidden, CodeNotParticipant, ErrNotParticipant.Error(), err)
	}},
	{ErrForbidden, func(err error) *AppError {
		return NewAppError(http.StatusForbidden, CodeForbidden, ErrForbidden.Error(), err)
	}},
	{ErrNotFound, func(err error) *AppError {
		return NewAppError(http.StatusNotFound, CodeNotFound, err.Error(), err)
	}},
	{ErrAlreadyConnected, func(err error) *AppError {
		return NewAppError(http.StatusConflict, CodeAlreadyConnected, ErrAlreadyConnected.Error(), err)
	}},
	{ErrAlreadyExists, func(err error) *AppError {
		return NewAppError(http.StatusConflict, CodeConflict, err.Error(), err)
	}},
	{ErrExternalService, func(err error) *AppError {
		return NewAppError(http.StatusBadGateway, CodeExternalService, "external service unavailable", err)
	}},
}

// FromError translates any error into an AppError. Unknown errors become internal errors.
func FromError(err error) *AppError {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	for _, m := range mappings {
		if errors.Is(err, m.target) {
			return m.build(err)
		}
	}
	return InternalError(err)
}
