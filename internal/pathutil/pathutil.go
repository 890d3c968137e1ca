// Package pathutil provides path normalization and validation for
// backend-opaque relative paths.
package pathutil

import (
	"errors"
	"strings"
)

// Root is the normalized form of the backend root ("" and "." both map here).
const Root = "."

var (
	// ErrAbsolute is returned for paths that begin with a separator.
	ErrAbsolute = errors.New("absolute path")

	// ErrTraversal is returned when ".." segments escape the root.
	ErrTraversal = errors.New("path traversal")
)

// Normalize validates a caller-supplied path and reduces it to a safe
// relative form: backslashes become forward slashes, repeated separators
// collapse, "." segments drop, and ".." segments resolve against earlier
// segments. A trailing separator in the input is preserved as a
// directory-intent marker.
//
// Returns ErrAbsolute for paths starting with a separator and ErrTraversal
// for paths whose ".." segments would escape the root. Empty input and "."
// normalize to Root.
func Normalize(raw string) (string, error) {
	p := strings.ReplaceAll(raw, "\\", "/")
	if strings.HasPrefix(p, "/") {
		return "", ErrAbsolute
	}

	trailing := strings.HasSuffix(p, "/")

	var stack []string
	for _, seg := range strings.Split(p, "/") {
		switch seg {
		case "", ".":
		case "..":
			if len(stack) == 0 {
				return "", ErrTraversal
			}
			stack = stack[:len(stack)-1]
		default:
			stack = append(stack, seg)
		}
	}

	if len(stack) == 0 {
		return Root, nil
	}

	out := strings.Join(stack, "/")
	if trailing {
		out += "/"
	}
	return out, nil
}

// EnsureDirectory marks directory intent on an already-normalized path by
// appending a trailing separator when one is missing. The root is returned
// unchanged.
func EnsureDirectory(p string) string {
	if p == Root || strings.HasSuffix(p, "/") {
		return p
	}
	return p + "/"
}

// TrimDirectory removes the directory-intent marker so the path can be used
// as a plain key or filename.
func TrimDirectory(p string) string {
	if p == Root {
		return p
	}
	return strings.TrimSuffix(p, "/")
}

// Join appends a child name to an already-normalized directory path.
func Join(dir, name string) string {
	dir = TrimDirectory(dir)
	if IsRoot(dir) {
		return name
	}
	return dir + "/" + name
}

// IsRoot reports whether the normalized path names the backend root.
func IsRoot(p string) bool {
	return p == Root || p == "" || p == "./"
}
