package errors

import (
	stderrors "errors"
	"fmt"
)

const (
	ErrCodeInternal    = "INTERNAL_ERROR"
	ErrCodeInvalidReq  = "INVALID_REQUEST"
	ErrCodeGeminiAPI   = "GEMINI_API_ERROR"
	ErrCodeDeckRender  = "PPT_RENDER_ERROR"
	ErrCodeStorage     = "STORAGE_ERROR"
	ErrCodeRateLimited = "RATE_LIMITED"
	ErrCodeNotFound    = "NOT_FOUND"
)

type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func New(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

func Wrap(err error, code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   err,
	}
}

// Code returns the code of the first AppError in err's chain, or
// ErrCodeInternal when there is none.
func Code(err error) string {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code
	}
	return ErrCodeInternal
}

// PublicMessage returns the message of the first AppError in err's chain
// without its cause, so it is safe to show to clients.
func PublicMessage(err error) string {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Message
	}
	return "internal error"
}

func Is(err error, code string) bool {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}
