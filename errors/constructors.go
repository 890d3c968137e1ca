package errors

import "fmt"

// New creates a new FSError with the given code and message.
// The class is derived from the code.
//
// Example:
//
//	err := errors.New(errors.CodeAdapter, "bucket listing failed")
func New(code ErrorCode, message string) FSError {
	return &fsError{
		code:    code,
		class:   classOf(code),
		message: message,
		context: nil,
		cause:   nil,
	}
}

// Newf creates a new FSError with a formatted message.
//
// Example:
//
//	err := errors.Newf(errors.CodeInvalidPath, "path too long: %d characters", len(path))
func Newf(code ErrorCode, format string, args ...interface{}) FSError {
	return &fsError{
		code:    code,
		class:   classOf(code),
		message: fmt.Sprintf(format, args...),
		context: nil,
		cause:   nil,
	}
}

// newWithContext builds an error with its canonical context keys attached.
func newWithContext(code ErrorCode, message string, ctx map[string]interface{}) FSError {
	return &fsError{
		code:    code,
		class:   classOf(code),
		message: message,
		context: ctx,
		cause:   nil,
	}
}

// FileNotFound reports that the named file does not exist.
func FileNotFound(path string) FSError {
	return newWithContext(CodeFileNotFound,
		fmt.Sprintf("file not found: %s", path),
		map[string]interface{}{"path": path})
}

// DirectoryNotFound reports that the named directory does not exist.
func DirectoryNotFound(path string) FSError {
	return newWithContext(CodeDirectoryNotFound,
		fmt.Sprintf("directory not found: %s", path),
		map[string]interface{}{"path": path})
}

// DirectoryNotEmpty reports that a non-recursive delete hit a directory
// that still has children.
func DirectoryNotEmpty(path string) FSError {
	return newWithContext(CodeDirectoryNotEmpty,
		fmt.Sprintf("directory not empty: %s", path),
		map[string]interface{}{"path": path})
}

// InvalidPath reports that a path failed validation for the stated reason.
func InvalidPath(path, reason string) FSError {
	return newWithContext(CodeInvalidPath,
		fmt.Sprintf("invalid path %q: %s", path, reason),
		map[string]interface{}{"path": path, "reason": reason})
}

// PermissionDenied reports that the backend refused the given operation.
func PermissionDenied(path, operation string) FSError {
	return newWithContext(CodePermissionDenied,
		fmt.Sprintf("permission denied for %s on %s", operation, path),
		map[string]interface{}{"path": path, "operation": operation})
}

// UnsupportedOperation is the single sentinel for a backend lacking an
// operation. It is produced by the capability registry, never inferred from a
// backend's error payload.
func UnsupportedOperation(operation, backend string) FSError {
	return newWithContext(CodeUnsupportedOperation,
		fmt.Sprintf("operation %q is not supported by the %s backend", operation, backend),
		map[string]interface{}{"operation": operation, "backend": backend})
}

// AdapterError wraps a backend failure that is not one of the more specific
// kinds, preserving the original error in the chain.
func AdapterError(backend string, cause error) FSError {
	return &fsError{
		code:    CodeAdapter,
		class:   classOf(CodeAdapter),
		message: fmt.Sprintf("%s backend error", backend),
		context: map[string]interface{}{"backend": backend},
		cause:   cause,
	}
}

// PathTraversal reports a path whose ".." segments escape the backend root.
func PathTraversal(path string) FSError {
	return newWithContext(CodePathTraversal,
		fmt.Sprintf("path traversal detected in %q", path),
		map[string]interface{}{"path": path})
}

// AbsolutePath reports a path that begins with a separator.
func AbsolutePath(path string) FSError {
	return newWithContext(CodeAbsolutePath,
		fmt.Sprintf("absolute paths are not allowed: %q", path),
		map[string]interface{}{"path": path})
}

// NotDirectory reports that a directory-only operation was given a file path.
func NotDirectory(path string) FSError {
	return newWithContext(CodeNotDirectory,
		fmt.Sprintf("not a directory: %s", path),
		map[string]interface{}{"path": path})
}

// Unknown wraps an unclassified failure, preserving it for diagnostics.
func Unknown(cause error) FSError {
	message := "unknown error"
	if cause != nil {
		message = cause.Error()
	}
	return &fsError{
		code:    CodeUnknown,
		class:   classOf(CodeUnknown),
		message: message,
		context: nil,
		cause:   cause,
	}
}
