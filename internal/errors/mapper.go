package errors

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// Map converts repo/infra errors into AppErrors.
// Errors that already are AppErrors pass through untouched.
func Map(err error) *AppError {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return NotFound("record not found")

	case errors.Is(err, gorm.ErrDuplicatedKey):
		return AlreadyExists("record already exists")

	case errors.Is(err, context.DeadlineExceeded):
		return New(CodeDeadlineExceeded, "request timed out")

	case errors.Is(err, context.Canceled):
		return New(CodeCanceled, "request was canceled")

	default:
		// unexpected: surface the raw message
		return Wrap(CodeInternal, err.Error(), err)
	}
}
