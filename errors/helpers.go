package errors

import (
	stderrors "errors"
)

// Is reports whether any error in err's chain matches target.
// This is a convenience wrapper around the standard library errors.Is.
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
// This is a convenience wrapper around the standard library errors.As.
func As(err error, target interface{}) bool {
	return stderrors.As(err, target)
}

// GetCode extracts the ErrorCode from an error.
// Returns CodeUnknown if the error is nil or not an FSError.
//
// This function handles the error chain and will extract the code from
// the outermost FSError in the chain.
//
// Example:
//
//	if errors.GetCode(err) == errors.CodeFileNotFound {
//	    // Handle missing file
//	}
func GetCode(err error) ErrorCode {
	if err == nil {
		return CodeUnknown
	}

	if fsErr, ok := asFSError(err); ok {
		return fsErr.Code()
	}

	return CodeUnknown
}

// GetClass extracts the ErrorClass from an error.
// Returns ClassUnknown if the error is nil or not an FSError.
func GetClass(err error) ErrorClass {
	if err == nil {
		return ClassUnknown
	}

	if fsErr, ok := asFSError(err); ok {
		return fsErr.Class()
	}

	return ClassUnknown
}

// IsNotFound reports whether the error indicates a missing file or directory.
func IsNotFound(err error) bool {
	return GetClass(err) == ClassNotFound
}

// IsUnsupported reports whether the error is the unsupported-operation sentinel.
func IsUnsupported(err error) bool {
	return GetCode(err) == CodeUnsupportedOperation
}
