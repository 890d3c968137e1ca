package errors

// FSError extends the standard error interface with structured information
// for consistent error handling across backends.
//
// FSError provides error codes for identification, class grouping for
// coarse-grained branching, contextual metadata, and compatibility with
// standard library error handling (errors.Is, errors.As, errors.Unwrap).
type FSError interface {
	error

	// Code returns the error code identifying the kind of error.
	Code() ErrorCode

	// Class returns the class the error code belongs to.
	Class() ErrorClass

	// Message returns the human-readable error message.
	Message() string

	// Context returns attached metadata as a read-only map.
	// Returns nil if no context has been attached.
	Context() map[string]interface{}

	// Unwrap returns the wrapped error for errors.Is and errors.As compatibility.
	// Returns nil if this error does not wrap another error.
	Unwrap() error
}
