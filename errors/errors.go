package errors

import (
	goerrors "errors"
	"fmt"
	"strconv"
	"strings"
)

// Error is a failure carrying a numeric code. For transfer failures the code
// is one of the negative Code constants and Message is the human readable
// description that ends up in a response body.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	cause   error
}

// Error renders code, message and cause, e.g.
// "code=-7, message=couldn't connect to server, cause=dial tcp ...".
func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString("code=")
	b.WriteString(strconv.Itoa(e.Code))
	b.WriteString(", message=")
	b.WriteString(e.Message)
	if e.cause != nil {
		b.WriteString(", cause=")
		b.WriteString(e.cause.Error())
	}
	return b.String()
}

// Describe returns the message followed by the cause, if any. It omits the
// code and is meant for end users.
func (e *Error) Describe() string {
	if e.cause == nil {
		return e.Message
	}
	return e.Message + ": " + e.cause.Error()
}

// Unwrap returns the cause of the error.
func (e *Error) Unwrap() error {
	return e.cause
}

// WithCause returns a copy of e wrapping cause.
func (e *Error) WithCause(cause error) *Error {
	if cause == nil {
		return e
	}
	return &Error{Code: e.Code, Message: e.Message, cause: cause}
}

// Is reports whether err is an *Error with the same code and message.
func (e *Error) Is(err error) bool {
	var ce *Error
	if goerrors.As(err, &ce) {
		return e.Code == ce.Code && e.Message == ce.Message
	}
	return false
}

// New creates an error with the given code and formatted message.
func New(code int, format string, args ...any) *Error {
	message := format
	if len(args) > 0 {
		message = fmt.Sprintf(format, args...)
	}
	return &Error{Code: code, Message: message}
}

// Wrap wraps err with a code and message. It returns nil if err is nil.
func Wrap(err error, code int, format string, args ...any) *Error {
	if err == nil {
		return nil
	}
	return New(code, format, args...).WithCause(err)
}

// FromError converts err to *Error. Errors that do not already carry a code
// get CodeUnknown.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var ce *Error
	if goerrors.As(err, &ce) {
		return ce
	}
	return Wrap(err, CodeUnknown, "unknown error")
}

// Code returns the code carried by err, or CodeUnknown.
func Code(err error) int {
	var ce *Error
	if goerrors.As(err, &ce) {
		return ce.Code
	}
	return CodeUnknown
}

// The package shadows the standard library, so the usual helpers are
// re-exported here.

func Is(err, target error) bool { return goerrors.Is(err, target) }
func As(err error, target any) bool { return goerrors.As(err, target) }
func Unwrap(err error) error { return goerrors.Unwrap(err) }
func Join(errs ...error) error { return goerrors.Join(errs...) }
func Sentinel(text string) error { return goerrors.New(text) }
