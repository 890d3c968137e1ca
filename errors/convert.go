package errors

import (
	"errors"
	"io/fs"
)

// Convert upgrades an arbitrary backend failure into an FSError.
//
// Convert is idempotent: an error that already carries an FSError in its
// chain is returned as that FSError, unchanged. Well-known io/fs sentinels
// are mapped to their taxonomy kinds; anything else becomes CodeUnknown with
// the original error preserved in the chain for diagnostics.
//
// Convert is the only place an untyped failure is upgraded. Backends are
// expected to return typed errors directly where the failure kind is already
// known to them.
func Convert(err error) FSError {
	if err == nil {
		return nil
	}

	if fsErr, ok := asFSError(err); ok {
		return fsErr
	}

	// A fs.PathError identifies the path the failure is about.
	path := ""
	var pathErr *fs.PathError
	if errors.As(err, &pathErr) {
		path = pathErr.Path
	}

	switch {
	case errors.Is(err, fs.ErrNotExist):
		return withCause(FileNotFound(path), err)
	case errors.Is(err, fs.ErrPermission):
		op := "access"
		if pathErr != nil {
			op = pathErr.Op
		}
		return withCause(PermissionDenied(path, op), err)
	}

	return Unknown(err)
}

// withCause attaches the original error to a constructed FSError so the
// full chain stays reachable via errors.Is and errors.As.
func withCause(fsErr FSError, cause error) FSError {
	e, ok := fsErr.(*fsError)
	if !ok {
		return fsErr
	}
	return &fsError{
		code:    e.code,
		class:   e.class,
		message: e.message,
		context: e.context,
		cause:   cause,
	}
}
