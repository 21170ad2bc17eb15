package internal

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

type ErrorType string

const (
	ErrorTypeValidation   ErrorType = "VALIDATION_ERROR"
	ErrorTypeNotFound     ErrorType = "NOT_FOUND"
	ErrorTypeUnauthorized ErrorType = "UNAUTHORIZED"
	ErrorTypeForbidden    ErrorType = "FORBIDDEN"
	ErrorTypeConflict     ErrorType = "CONFLICT"
	ErrorTypeInternal     ErrorType = "INTERNAL_ERROR"
)

type ErrorCode string

const (
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	ErrCodeInvalidStatus    ErrorCode = "INVALID_STATUS"
	ErrCodeInvalidRole      ErrorCode = "INVALID_ROLE"
	ErrCodeInvalidID        ErrorCode = "INVALID_ID"

	ErrCodeUserNotFound        ErrorCode = "USER_NOT_FOUND"
	ErrCodeCategoryNotFound    ErrorCode = "CATEGORY_NOT_FOUND"
	ErrCodeJobNotFound         ErrorCode = "JOB_NOT_FOUND"
	ErrCodeApplicationNotFound ErrorCode = "APPLICATION_NOT_FOUND"
	ErrCodeTagNotFound         ErrorCode = "TAG_NOT_FOUND"

	ErrCodeUnauthorized       ErrorCode = "UNAUTHORIZED"
	ErrCodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	ErrCodeUserInactive       ErrorCode = "USER_INACTIVE"
	ErrCodeForbidden          ErrorCode = "FORBIDDEN"
	ErrCodeSuperAdminOnly     ErrorCode = "SUPER_ADMIN_ONLY"
	ErrCodeNotOwner           ErrorCode = "NOT_OWNER"
	ErrCodeSelfDeactivation   ErrorCode = "SELF_DEACTIVATION"

	ErrCodeConflict             ErrorCode = "CONFLICT"
	ErrCodeUsernameTaken        ErrorCode = "USERNAME_TAKEN"
	ErrCodeEmailTaken           ErrorCode = "EMAIL_TAKEN"
	ErrCodeCategoryExists       ErrorCode = "CATEGORY_EXISTS"
	ErrCodeDuplicateApplication ErrorCode = "DUPLICATE_APPLICATION"
	ErrCodeInvalidTransition    ErrorCode = "INVALID_STATUS_TRANSITION"
	ErrCodeJobNotOpen           ErrorCode = "JOB_NOT_OPEN"

	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

type AppError struct {
	Type       ErrorType   `json:"type"`
	Code       ErrorCode   `json:"code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
	StatusCode int         `json:"-"`
	Cause      error       `json:"-"`
}

func (e *AppError) Error() string {
	if e.Details != nil {
		if validationErrors, ok := e.Details.(ValidationErrors); ok && len(validationErrors.Errors) > 0 {
			return validationErrors.Errors[0].Message
		}
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) GetDetailedMessage() string {
	if validationErrors, ok := e.Details.(ValidationErrors); ok && len(validationErrors.Errors) > 0 {
		messages := make([]string, len(validationErrors.Errors))
		for i, err := range validationErrors.Errors {
			messages[i] = err.Message
		}
		return strings.Join(messages, "; ")
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithCause returns a copy so that the package-level sentinel errors are never mutated.
func (e *AppError) WithCause(cause error) *AppError {
	cp := *e
	cp.Cause = cause
	return &cp
}

func (e *AppError) WithDetails(details interface{}) *AppError {
	cp := *e
	cp.Details = details
	return &cp
}

// Is matches on type and code so wrapped copies still compare equal to sentinels.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Type == t.Type && e.Code == t.Code
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func NewValidationError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusBadRequest,
	}
}

func NewValidationFieldError(field, message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       ErrCodeValidationFailed,
		Message:    "Validation failed",
		StatusCode: http.StatusBadRequest,
		Details: ValidationErrors{
			Errors: []ValidationError{
				{Field: field, Message: message, Code: string(code)},
			},
		},
	}
}

func NewNotFoundError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeNotFound,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusNotFound,
	}
}

func NewUnauthorizedError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeUnauthorized,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusUnauthorized,
	}
}

func NewForbiddenError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeForbidden,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusForbidden,
	}
}

func NewInternalError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeInternal,
		Code:       ErrCodeInternal,
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Cause:      cause,
	}
}

func NewConflictError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeConflict,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusConflict,
	}
}

var (
	ErrUnauthorized         = NewUnauthorizedError("Unauthorized", ErrCodeUnauthorized)
	ErrInvalidCredentials   = NewUnauthorizedError("Invalid credentials", ErrCodeInvalidCredentials)
	ErrUserInactive         = NewForbiddenError("Account disabled", ErrCodeUserInactive)
	ErrForbidden            = NewForbiddenError("Forbidden", ErrCodeForbidden)
	ErrSuperAdminOnly       = NewForbiddenError("Only a super admin may change protected fields of this account", ErrCodeSuperAdminOnly)
	ErrNotOwner             = NewForbiddenError("You do not have access to this resource", ErrCodeNotOwner)
	ErrCannotDeactivateSelf = NewForbiddenError("You cannot deactivate your own account", ErrCodeSelfDeactivation)

	ErrUserNotFound        = NewNotFoundError("User not found", ErrCodeUserNotFound)
	ErrCategoryNotFound    = NewNotFoundError("Category not found", ErrCodeCategoryNotFound)
	ErrJobNotFound         = NewNotFoundError("Job not found", ErrCodeJobNotFound)
	ErrApplicationNotFound = NewNotFoundError("Application not found", ErrCodeApplicationNotFound)
	ErrTagNotFound         = NewNotFoundError("Tag not found", ErrCodeTagNotFound)

	ErrConflict             = NewConflictError("Resource already exists", ErrCodeConflict)
	ErrUsernameTaken        = NewConflictError("Username already exists", ErrCodeUsernameTaken)
	ErrEmailTaken           = NewConflictError("Email already exists", ErrCodeEmailTaken)
	ErrCategoryExists       = NewConflictError("Category already exists", ErrCodeCategoryExists)
	ErrDuplicateApplication = NewConflictError("You have already applied for this job", ErrCodeDuplicateApplication)
	ErrInvalidTransition    = NewValidationError("Invalid status transition", ErrCodeInvalidTransition)
	ErrJobNotOpen           = NewValidationError("This job is not accepting applications", ErrCodeJobNotOpen)
)

func IsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

func (e *AppError) ToHTTPResponse() (int, interface{}) {
	return e.StatusCode, e
}

// MarshalJSON renders the client-facing body: message and code always,
// the validation error list when present.
func (e *AppError) MarshalJSON() ([]byte, error) {
	body := struct {
		Code    ErrorCode         `json:"code"`
		Message string            `json:"message"`
		Errors  []ValidationError `json:"errors,omitempty"`
	}{
		Code:    e.Code,
		Message: e.Message,
	}
	if v, ok := e.Details.(ValidationErrors); ok {
		body.Errors = v.Errors
	}
	return json.Marshal(body)
}
