// Package errors provides the coded error type returned by feishukit
package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
)

// Error represents a feishukit error with structured information
type Error struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Operation string                 `json:"operation,omitempty"`
	Path      string                 `json:"path,omitempty"`
	APICode   int                    `json:"api_code,omitempty"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`

	Cause error `json:"-"`
}

// Error implements the error interface
func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Message)
	if e.Operation != "" {
		msg = fmt.Sprintf("%s (operation: %s)", msg, e.Operation)
	}
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

// Unwrap returns the underlying cause error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches another *Error by code
func (e *Error) Is(target error) bool {
	if targetErr, ok := target.(*Error); ok {
		return e.Code == targetErr.Code
	}
	return false
}

// MarshalJSON implements json.Marshaler
func (e *Error) MarshalJSON() ([]byte, error) {
	type Alias Error
	var cause string
	if e.Cause != nil {
		cause = e.Cause.Error()
	}
	return json.Marshal(&struct {
		*Alias
		CauseMessage string `json:"cause_message,omitempty"`
	}{
		Alias:        (*Alias)(e),
		CauseMessage: cause,
	})
}

// WithCause adds a cause error
func (e *Error) WithCause(cause error) *Error {
	c := e.clone()
	c.Cause = cause
	return c
}

// WithOperation records the façade operation that failed
func (e *Error) WithOperation(op string) *Error {
	c := e.clone()
	c.Operation = op
	return c
}

// WithPath records the API path of the failed exchange
func (e *Error) WithPath(path string) *Error {
	c := e.clone()
	c.Path = path
	return c
}

// WithAPICode records the envelope code returned by the platform
func (e *Error) WithAPICode(code int) *Error {
	c := e.clone()
	c.APICode = code
	return c
}

// WithMetadata adds metadata
func (e *Error) WithMetadata(key string, value interface{}) *Error {
	c := e.clone()
	c.Metadata = make(map[string]interface{}, len(e.Metadata)+1)
	for k, v := range e.Metadata {
		c.Metadata[k] = v
	}
	c.Metadata[key] = value
	return c
}

// clone returns a shallow copy so builders never modify shared values such
// as the sentinels below.
func (e *Error) clone() *Error {
	c := *e
	return &c
}

// New creates a new Error
func New(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Newf creates a new Error with formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *Error {
	return New(code, fmt.Sprintf(format, args...))
}

// Wrap wraps an existing error
func Wrap(err error, code ErrorCode, message string) *Error {
	return New(code, message).WithCause(err)
}

// Wrapf wraps an existing error with formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *Error {
	return Wrap(err, code, fmt.Sprintf(format, args...))
}

// Sentinels usable with errors.Is; matching is by code only. Builders
// called on a sentinel return a copy and leave the sentinel unchanged.
var (
	ErrTransportFailed = New(ErrTransport, "transport failed")
	ErrMalformed       = New(ErrMalformedEnvelope, "malformed envelope")
	ErrUnresolved      = New(ErrUnresolvedUsers, "unresolved users")
	ErrInvalid         = New(ErrInvalidArgument, "invalid argument")
)

// GetErrorCode extracts the error code from an error chain
func GetErrorCode(err error) ErrorCode {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Code
	}
	return ErrInternal
}

// IsTransportError reports whether err came from the HTTP collaborator
func IsTransportError(err error) bool {
	return stderrors.Is(err, ErrTransportFailed)
}

// IsMalformed reports whether err is a structural response failure
func IsMalformed(err error) bool {
	return stderrors.Is(err, ErrMalformed)
}

// IsConfigError checks if error is a configuration error
func IsConfigError(err error) bool {
	var e *Error
	if stderrors.As(err, &e) {
		return GetCategory(e.Code) == "configuration"
	}
	return false
}

// AsError returns the first *Error in err's chain.
func AsError(err error) (*Error, bool) {
	var e *Error
	ok := stderrors.As(err, &e)
	return e, ok
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}
