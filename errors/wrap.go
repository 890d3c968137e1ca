package errors

import (
	"errors"
	"fmt"
)

// Wrap wraps an error with additional context while preserving the original error.
// The wrapped error is accessible via Unwrap() and compatible with errors.Is and errors.As.
//
// Returns nil if err is nil.
//
// Example:
//
//	data, err := backend.Read(ctx, path)
//	if err != nil {
//	    return errors.Wrap(err, errors.CodeAdapter, "read failed")
//	}
func Wrap(err error, code ErrorCode, message string) FSError {
	if err == nil {
		return nil
	}

	return &fsError{
		code:    code,
		class:   classOf(code),
		message: message,
		context: nil,
		cause:   err,
	}
}

// Wrapf wraps an error with a formatted message while preserving the original error.
//
// Returns nil if err is nil.
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) FSError {
	if err == nil {
		return nil
	}

	return Wrap(err, code, fmt.Sprintf(format, args...))
}

// WrapWithContext wraps an error and attaches context metadata in a single operation.
// The context map is copied to prevent external mutation.
//
// Returns nil if err is nil.
//
// Example:
//
//	if err := dst.Write(ctx, path, data, opts); err != nil {
//	    return errors.WrapWithContext(err, errors.CodeAdapter, "copy failed", map[string]interface{}{
//	        "backend": dst.Type(),
//	        "side":    "destination",
//	    })
//	}
func WrapWithContext(err error, code ErrorCode, message string, ctx map[string]interface{}) FSError {
	if err == nil {
		return nil
	}

	var contextCopy map[string]interface{}
	if ctx != nil {
		contextCopy = make(map[string]interface{}, len(ctx))
		for k, v := range ctx {
			contextCopy[k] = v
		}
	}

	return &fsError{
		code:    code,
		class:   classOf(code),
		message: message,
		context: contextCopy,
		cause:   err,
	}
}

// asFSError extracts the first FSError in the chain, or reports false.
func asFSError(err error) (FSError, bool) {
	var fsErr FSError
	if errors.As(err, &fsErr) {
		return fsErr, true
	}
	return nil, false
}
