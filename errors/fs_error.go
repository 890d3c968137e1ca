package errors

import "fmt"

// fsError is the concrete implementation of FSError.
// It is private to enforce construction through package functions.
type fsError struct {
	code    ErrorCode
	class   ErrorClass
	message string
	context map[string]interface{}
	cause   error
}

// Error returns the string representation of the error.
// Format: "[CODE] message" or "[CODE] message: cause" if cause is present.
func (e *fsError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.code, e.message, e.cause)
	}
	return fmt.Sprintf("[%s] %s", e.code, e.message)
}

// Code returns the error code.
func (e *fsError) Code() ErrorCode {
	return e.code
}

// Class returns the class the error code belongs to.
func (e *fsError) Class() ErrorClass {
	return e.class
}

// Message returns the error message.
func (e *fsError) Message() string {
	return e.message
}

// Context returns a defensive copy of the context map.
// Returns nil if no context has been attached (maintains immutability).
func (e *fsError) Context() map[string]interface{} {
	if e.context == nil {
		return nil
	}
	ctx := make(map[string]interface{}, len(e.context))
	for k, v := range e.context {
		ctx[k] = v
	}
	return ctx
}

// Unwrap returns the wrapped error for standard library compatibility.
func (e *fsError) Unwrap() error {
	return e.cause
}
