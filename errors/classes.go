package errors

// ErrorClass groups error codes into the five families callers branch on.
// The class is a property of the code; it is never set independently.
type ErrorClass string

const (
	// ClassInvalid covers caller mistakes: malformed paths, traversal attempts,
	// directory misuse.
	ClassInvalid ErrorClass = "INVALID"

	// ClassNotFound covers missing files and directories.
	ClassNotFound ErrorClass = "NOT_FOUND"

	// ClassForbidden covers permission refusals.
	ClassForbidden ErrorClass = "FORBIDDEN"

	// ClassAdapter covers backend-side failures and capability gaps.
	ClassAdapter ErrorClass = "ADAPTER"

	// ClassUnknown covers failures that could not be classified.
	ClassUnknown ErrorClass = "UNKNOWN"
)

// classByCode maps every error code to its class.
var classByCode = map[ErrorCode]ErrorClass{
	CodeFileNotFound:      ClassNotFound,
	CodeDirectoryNotFound: ClassNotFound,

	CodeDirectoryNotEmpty: ClassInvalid,
	CodeInvalidPath:       ClassInvalid,
	CodePathTraversal:     ClassInvalid,
	CodeAbsolutePath:      ClassInvalid,
	CodeNotDirectory:      ClassInvalid,

	CodePermissionDenied: ClassForbidden,

	CodeUnsupportedOperation: ClassAdapter,
	CodeAdapter:              ClassAdapter,

	CodeUnknown: ClassUnknown,
}

// classOf returns the class for an error code.
// Unregistered codes fall back to ClassUnknown.
func classOf(code ErrorCode) ErrorClass {
	if class, ok := classByCode[code]; ok {
		return class
	}
	return ClassUnknown
}
