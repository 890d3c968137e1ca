package errors

import (
	"encoding/json"
)

// ErrorResponse represents the JSON structure for error responses.
// It provides a flat, serializable representation of errors without exposing
// internal error chains or sensitive information.
//
// The wrapped error chain is intentionally excluded to prevent information
// leakage while still providing useful debugging context through the Code,
// Message, and Context fields.
type ErrorResponse struct {
	// Code is the error code identifying the kind of error.
	Code string `json:"code"`

	// Message is the human-readable error message.
	Message string `json:"message"`

	// Class is the class the error code belongs to.
	Class string `json:"class"`

	// Context contains optional metadata about the error.
	// Omitted from JSON if empty.
	Context map[string]interface{} `json:"context,omitempty"`
}

// ToJSON converts any error to an ErrorResponse suitable for JSON serialization.
// Returns nil if err is nil.
//
// For FSError instances, extracts code, message, class, and context.
// For standard errors, uses CodeUnknown, ClassUnknown, and the error message.
//
// The wrapped error chain is intentionally excluded: chains may contain
// internal implementation details, file paths, or other sensitive information.
func ToJSON(err error) *ErrorResponse {
	if err == nil {
		return nil
	}

	message := err.Error()
	var context map[string]interface{}

	if fsErr, ok := asFSError(err); ok {
		message = fsErr.Message()
		context = fsErr.Context()
	}

	return &ErrorResponse{
		Code:    string(GetCode(err)),
		Message: message,
		Class:   string(GetClass(err)),
		Context: context,
	}
}

// MarshalJSON implements json.Marshaler for fsError.
// This allows FSError instances to be marshaled directly using json.Marshal
// without needing to call ToJSON explicitly.
func (e *fsError) MarshalJSON() ([]byte, error) {
	response := &ErrorResponse{
		Code:    string(e.code),
		Message: e.message,
		Class:   string(e.class),
		Context: e.context,
	}
	data, err := json.Marshal(response)
	if err != nil {
		return nil, &fsError{
			code:    CodeUnknown,
			class:   ClassUnknown,
			message: "failed to marshal error response",
			cause:   err,
		}
	}
	return data, nil
}
