package errors

import (
	"errors"
	"fmt"
)

// Error is an HTTP-aware fault: it declares the status it should be
// answered with, a message that is safe to show the caller and, optionally,
// a registered Reason.
type Error struct {
	Code    Code                   `json:"code"`
	Status  int                    `json:"status,omitempty"`
	Reason  Reason                 `json:"reason,omitempty"`
	Message string                 `json:"message"`
	Cause   error                  `json:"-"`
	Meta    map[string]interface{} `json:"meta,omitempty"`
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the wrapped error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches errors of the same code, and of the same reason when both
// sides carry one.
func (e *Error) Is(target error) bool {
	var targetErr *Error
	if !errors.As(target, &targetErr) {
		return false
	}
	if e.Reason != "" && targetErr.Reason != "" {
		return e.Reason == targetErr.Reason
	}
	return e.Code == targetErr.Code
}

// HTTPStatus returns the declared status. Zero means the error declares
// none and classification must look further down the chain.
func (e *Error) HTTPStatus() int {
	if e.Status != 0 {
		return e.Status
	}
	switch e.Code {
	case CodeUnknown, CodeOK, "":
		return 0
	}
	return e.Code.HTTPStatus()
}

// PublicMessage returns the message shown to callers.
func (e *Error) PublicMessage() string {
	return e.Message
}

// ErrorCode returns the registered reason, if any.
func (e *Error) ErrorCode() string {
	return string(e.Reason)
}

// WithReason attaches a registered reason to the error
func (e *Error) WithReason(reason Reason) *Error {
	e.Reason = reason
	return e
}

// WithCause records the underlying error for logging
func (e *Error) WithCause(cause error) *Error {
	e.Cause = cause
	return e
}

// WithMeta adds metadata to the error
func (e *Error) WithMeta(key string, value interface{}) *Error {
	if e.Meta == nil {
		e.Meta = make(map[string]interface{})
	}
	e.Meta[key] = value
	return e
}

// New creates a new error with the given code and message
func New(code Code, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

// Newf creates a new error with a formatted message
func Newf(code Code, format string, args ...interface{}) *Error {
	return New(code, fmt.Sprintf(format, args...))
}

// NewWithStatus creates an error declaring an explicit HTTP status
func NewWithStatus(status int, message string) *Error {
	return &Error{
		Code:    codeForStatus(status),
		Status:  status,
		Message: message,
	}
}

// Wrap wraps an existing error, preserving its code, status and reason if
// it is an Error. Foreign causes produce a CodeUnknown error, which leaves
// classification to whatever the cause is.
func Wrap(err error, message string) *Error {
	if err == nil {
		return nil
	}

	var existingErr *Error
	if errors.As(err, &existingErr) {
		return &Error{
			Code:    existingErr.Code,
			Status:  existingErr.Status,
			Reason:  existingErr.Reason,
			Message: message,
			Cause:   err,
			Meta:    existingErr.Meta,
		}
	}

	return &Error{
		Code:    CodeUnknown,
		Message: message,
		Cause:   err,
	}
}

// Wrapf wraps an error with a formatted message
func Wrapf(err error, format string, args ...interface{}) *Error {
	return Wrap(err, fmt.Sprintf(format, args...))
}

// NotFound creates a not found error
func NotFound(message string) *Error {
	return New(CodeNotFound, message)
}

// NotFoundf creates a not found error with formatted message
func NotFoundf(format string, args ...interface{}) *Error {
	return Newf(CodeNotFound, format, args...)
}

// InvalidArgument creates an invalid argument error
func InvalidArgument(message string) *Error {
	return New(CodeInvalidArgument, message)
}

// AlreadyExists creates an already exists error
func AlreadyExists(message string) *Error {
	return New(CodeAlreadyExists, message)
}

// AlreadyExistsf creates an already exists error with formatted message
func AlreadyExistsf(format string, args ...interface{}) *Error {
	return Newf(CodeAlreadyExists, format, args...)
}

// Internal creates an internal error
func Internal(message string) *Error {
	return New(CodeInternal, message)
}

// Internalf creates an internal error with formatted message
func Internalf(format string, args ...interface{}) *Error {
	return Newf(CodeInternal, format, args...)
}

