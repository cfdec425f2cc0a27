package errors

import (
	"errors"
	"fmt"
	"net/http"
)

type Code string

const (
	CodeInvalidArgument  Code = "INVALID_ARGUMENT"
	CodeUnauthenticated  Code = "UNAUTHENTICATED"
	CodePermissionDenied Code = "PERMISSION_DENIED"
	CodeNotFound         Code = "NOT_FOUND"
	CodeAlreadyExists    Code = "ALREADY_EXISTS"
	CodeConflict         Code = "CONFLICT"
	CodeInternal         Code = "INTERNAL"
	CodeDeadlineExceeded Code = "DEADLINE_EXCEEDED"
	CodeCanceled         Code = "CANCELED"
)

// AppError is the error shape every service returns to the transport layer.
type AppError struct {
	Code    Code
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error { return e.Cause }

// HTTPStatus returns the status code for the error category.
func (e *AppError) HTTPStatus() int {
	switch e.Code {
	case CodeInvalidArgument:
		return http.StatusBadRequest
	case CodeUnauthenticated:
		return http.StatusUnauthorized
	case CodePermissionDenied:
		return http.StatusForbidden
	case CodeNotFound:
		return http.StatusNotFound
	case CodeAlreadyExists, CodeConflict:
		return http.StatusConflict
	case CodeDeadlineExceeded:
		return http.StatusGatewayTimeout
	case CodeCanceled:
		return 499
	default:
		return http.StatusInternalServerError
	}
}

func New(code Code, msg string) *AppError {
	return &AppError{Code: code, Message: msg}
}

func Wrap(code Code, msg string, cause error) *AppError {
	return &AppError{Code: code, Message: msg, Cause: cause}
}

// InvalidArgument is used for missing or malformed input.
func InvalidArgument(msg string) *AppError { return New(CodeInvalidArgument, msg) }

func Unauthenticated(msg string) *AppError { return New(CodeUnauthenticated, msg) }

func Forbidden(msg string) *AppError { return New(CodePermissionDenied, msg) }

func NotFound(msg string) *AppError { return New(CodeNotFound, msg) }

// AlreadyExists is used for duplicate creation attempts.
func AlreadyExists(msg string) *AppError { return New(CodeAlreadyExists, msg) }

// Conflict is used for state conflicts such as acting on an already resolved record.
func Conflict(msg string) *AppError { return New(CodeConflict, msg) }

func Internal(msg string) *AppError { return New(CodeInternal, msg) }

// CodeOf returns the code carried by err, or CodeInternal.
func CodeOf(err error) Code {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeInternal
}
