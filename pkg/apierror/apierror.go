package apierror

import (
	"errors"
	"fmt"
	"net/http"
)

const (
	CodeForbidden      = "FORBIDDEN"
	CodeNotFound       = "NOT_FOUND"
	CodeInvalidInput   = "INVALID_INPUT"
	CodeInvalidPath    = "INVALID_PATH"
	CodeInvalidTable   = "INVALID_TABLE"
	CodeCommandFailed  = "COMMAND_FAILED"
	CodeInternalError  = "INTERNAL_ERROR"
	CodeUnsupportedFmt = "UNSUPPORTED_TYPE"
)

type APIError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	Details    string `json:"details,omitempty"`
	HTTPStatus int    `json:"-"`
	cause      error
}

func (e *APIError) Error() string {
	if e == nil {
		return ""
	}

	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
	}

	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap exposes the underlying failure for logging; it is never rendered to clients.
func (e *APIError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

func New(code string, message string, details string, status int) *APIError {
	return &APIError{Code: code, Message: message, Details: details, HTTPStatus: status}
}

// Wrap attaches cause to a new APIError.
func Wrap(cause error, code string, message string, status int) *APIError {
	return &APIError{Code: code, Message: message, HTTPStatus: status, cause: cause}
}

func Forbidden(message string, details string) *APIError {
	return New(CodeForbidden, message, details, http.StatusForbidden)
}

func NotFound(message string, details string) *APIError {
	return New(CodeNotFound, message, details, http.StatusNotFound)
}

func InvalidInput(message string, details string) *APIError {
	return New(CodeInvalidInput, message, details, http.StatusBadRequest)
}

// CommandFailed hides cause behind a generic message.
func CommandFailed(message string, cause error) *APIError {
	return Wrap(cause, CodeCommandFailed, message, http.StatusInternalServerError)
}

// HasCode reports whether err is an APIError carrying code.
func HasCode(err error, code string) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code == code
	}
	return false
}
