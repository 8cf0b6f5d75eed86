package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorType classifies the failures a crawl run can hit
type ErrorType string

const (
	ErrorTypeScraping ErrorType = "scraping"
	ErrorTypeNetwork  ErrorType = "network"
	ErrorTypeConfig   ErrorType = "config"
	ErrorTypeState    ErrorType = "state"
	ErrorTypeDelivery ErrorType = "delivery"
)

// Error represents a crawl error with type information
type Error struct {
	Type    ErrorType
	Message string
	Code    int
}

func (e *Error) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("%s error (code %d): %s", e.Type, e.Code, e.Message)
	}
	return fmt.Sprintf("%s error: %s", e.Type, e.Message)
}

// New creates a typed error
func New(errorType ErrorType, message string) *Error {
	return &Error{Type: errorType, Message: message}
}

// Newf creates a typed error with a formatted message
func Newf(errorType ErrorType, format string, args ...interface{}) *Error {
	return &Error{Type: errorType, Message: fmt.Sprintf(format, args...)}
}

// WithCode creates a typed error carrying an HTTP status code
func WithCode(errorType ErrorType, code int, message string) *Error {
	return &Error{Type: errorType, Message: message, Code: code}
}

// IsDelivery reports whether err is a notification delivery failure.
// Delivery failures are absorbed at the run level: the run checkpoints
// the progress made so far and still exits successfully.
func IsDelivery(err error) bool {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Type == ErrorTypeDelivery
	}
	return false
}

// IsFatal reports whether err aborts the whole run without any cursor
// persistence. Everything except a delivery failure is fatal.
func IsFatal(err error) bool {
	return err != nil && !IsDelivery(err)
}
