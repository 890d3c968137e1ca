// Package errors provides the typed error taxonomy for the vfs dispatch layer.
// It extends Go's standard error handling with structured error codes, class
// grouping, context preservation, and API serialization capabilities.
//
// Every failure crossing the dispatch boundary is expressed as one of eleven
// error codes grouped into five classes. Backend failures that are not already
// typed are upgraded exactly once, by Convert.
package errors

// ErrorCode represents a specific error condition.
// Error codes are string-based for debuggability and natural JSON serialization.
type ErrorCode string

const (
	// Not-found errors.

	// CodeFileNotFound indicates a requested file does not exist.
	CodeFileNotFound ErrorCode = "FILE_NOT_FOUND"

	// CodeDirectoryNotFound indicates a requested directory does not exist.
	CodeDirectoryNotFound ErrorCode = "DIRECTORY_NOT_FOUND"

	// Validation errors.

	// CodeDirectoryNotEmpty indicates a non-recursive delete hit a directory with children.
	CodeDirectoryNotEmpty ErrorCode = "DIRECTORY_NOT_EMPTY"

	// CodeInvalidPath indicates a path that failed validation for a stated reason.
	CodeInvalidPath ErrorCode = "INVALID_PATH"

	// CodePathTraversal indicates a path whose ".." segments escape the backend root.
	CodePathTraversal ErrorCode = "PATH_TRAVERSAL"

	// CodeAbsolutePath indicates a path that begins with a separator.
	CodeAbsolutePath ErrorCode = "ABSOLUTE_PATH"

	// CodeNotDirectory indicates a directory-only operation was given a file path.
	CodeNotDirectory ErrorCode = "NOT_DIRECTORY"

	// Permission errors.

	// CodePermissionDenied indicates the backend refused the operation on the path.
	CodePermissionDenied ErrorCode = "PERMISSION_DENIED"

	// Adapter errors.

	// CodeUnsupportedOperation indicates the backend does not implement or allow the operation.
	CodeUnsupportedOperation ErrorCode = "UNSUPPORTED_OPERATION"

	// CodeAdapter indicates a backend failed while carrying out an operation.
	CodeAdapter ErrorCode = "ADAPTER_ERROR"

	// Generic errors.

	// CodeUnknown indicates an unclassified failure; the original error is preserved in the chain.
	CodeUnknown ErrorCode = "UNKNOWN"
)
