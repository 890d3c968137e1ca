package errors

// WithContext adds a single context field to an error.
// Returns a new FSError with the context field added.
// Existing context fields are preserved.
//
// If err is not an FSError, it is converted to one with CodeUnknown.
// Returns nil if err is nil.
//
// Example:
//
//	err := errors.AdapterError("minio", cause)
//	err = errors.WithContext(err, "side", "source")
func WithContext(err error, key string, value interface{}) FSError {
	if err == nil {
		return nil
	}

	fsErr, ok := asFSError(err)
	if !ok {
		fsErr = Unknown(err)
	}

	newContext := make(map[string]interface{})
	if existing := fsErr.Context(); existing != nil {
		for k, v := range existing {
			newContext[k] = v
		}
	}
	newContext[key] = value

	return &fsError{
		code:    fsErr.Code(),
		class:   fsErr.Class(),
		message: fsErr.Message(),
		context: newContext,
		cause:   fsErr.Unwrap(),
	}
}

// WithContextMap adds multiple context fields to an error.
// Returns a new FSError with the context fields merged.
// Existing context fields are preserved; new fields override existing ones with the same key.
//
// If err is not an FSError, it is converted to one with CodeUnknown.
// Returns nil if err is nil.
func WithContextMap(err error, ctx map[string]interface{}) FSError {
	if err == nil {
		return nil
	}

	fsErr, ok := asFSError(err)
	if !ok {
		fsErr = Unknown(err)
	}

	newContext := make(map[string]interface{})
	if existing := fsErr.Context(); existing != nil {
		for k, v := range existing {
			newContext[k] = v
		}
	}
	for k, v := range ctx {
		newContext[k] = v
	}

	return &fsError{
		code:    fsErr.Code(),
		class:   fsErr.Class(),
		message: fsErr.Message(),
		context: newContext,
		cause:   fsErr.Unwrap(),
	}
}
