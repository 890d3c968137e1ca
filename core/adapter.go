package core

import (
	"context"
	"io"
	"time"
)

// Adapter is the protocol every backend must implement. The dispatch layer
// is a pure consumer of this surface: paths arrive already normalized, and
// adapter errors are upgraded into the typed taxonomy on the way out.
//
// Adapters should return typed errors directly where the failure kind is
// already known to them (a missing key is a FileNotFound, not a generic
// string); only genuinely unclassifiable failures should surface raw.
type Adapter interface {
	// Type returns the backend type identifier (e.g. "local", "minio").
	Type() string

	// UnsupportedOperations returns operations this backend intentionally
	// disables even though it may structurally implement them. Used as the
	// first stage of the capability check.
	UnsupportedOperations() []Operation

	// Write stores data at path, creating parent directories as needed.
	Write(ctx context.Context, path string, data []byte, opts WriteOptions) error

	// Read returns the full contents of the file at path.
	Read(ctx context.Context, path string) ([]byte, error)

	// Delete removes the file at path.
	Delete(ctx context.Context, path string) error

	// Move renames src to dst.
	Move(ctx context.Context, src, dst string, opts WriteOptions) error

	// Copy duplicates src to dst within this filesystem.
	Copy(ctx context.Context, src, dst string, opts WriteOptions) error

	// FileExists reports whether a file exists at path.
	FileExists(ctx context.Context, path string) (bool, error)

	// ListContents returns the immediate children of the directory at path.
	ListContents(ctx context.Context, path string) ([]Stat, error)

	// CreateDirectory creates the directory at path and any missing parents.
	CreateDirectory(ctx context.Context, path string, opts WriteOptions) error

	// DeleteDirectory removes the directory at path. When recursive is
	// false, a directory with children fails with DirectoryNotEmpty.
	DeleteDirectory(ctx context.Context, path string, recursive bool) error

	// Clear removes everything under the backend root.
	Clear(ctx context.Context) error
}

// Optional adapter capabilities (checked structurally by Supports):
//
//   - StreamReader / StreamWriter: chunked transfer without buffering
//   - Statter, Accessor, Appender, Truncater, TimeSetter
//   - VisibilityFS: portable two-state permissions
//   - CrossCopier: native same-type, cross-config copy
//   - Versioner: commit / revisions / read-revision / rollback
//   - Equaler: structural config identity for the copy fast path

// StreamReader is implemented by backends that can serve reads as a stream.
type StreamReader interface {
	// ReadStream opens the file at path for sequential reading. chunkSize is
	// advisory; backends that fetch in ranges should use it as the fetch
	// granularity.
	ReadStream(ctx context.Context, path string, chunkSize int) (io.ReadCloser, error)
}

// StreamWriter is implemented by backends that can consume writes as a stream.
type StreamWriter interface {
	// WriteStream stores the contents of r at path. The reader is consumed
	// in backend-chosen chunks; it is never buffered whole.
	WriteStream(ctx context.Context, path string, r io.Reader, opts WriteOptions) error
}

// Statter is implemented by backends that can report entry metadata.
type Statter interface {
	Stat(ctx context.Context, path string) (Stat, error)
}

// Accessor is implemented by backends that can check access modes without
// performing I/O on the entry.
type Accessor interface {
	Access(ctx context.Context, path string, mode AccessMode) error
}

// Appender is implemented by backends that can extend an existing file.
// A missing file is created.
type Appender interface {
	Append(ctx context.Context, path string, data []byte) error
}

// Truncater is implemented by backends that can change a file's size in place.
type Truncater interface {
	Truncate(ctx context.Context, path string, size int64) error
}

// TimeSetter is implemented by backends that can set access and modification
// times.
type TimeSetter interface {
	Chtimes(ctx context.Context, path string, atime, mtime time.Time) error
}

// VisibilityFS is implemented by backends with a visibility concept.
type VisibilityFS interface {
	SetVisibility(ctx context.Context, path string, v Visibility) error
	Visibility(ctx context.Context, path string) (Visibility, error)
}

// CrossCopier is implemented by backends that can copy to another instance
// of the same backend type without moving bytes through this process
// (e.g. a server-side copy between two buckets).
type CrossCopier interface {
	// CopyAcross copies srcPath on this backend to dstPath on dst, which is
	// guaranteed by the caller to have the same Type. Backends return the
	// unsupported-operation sentinel when the particular pair cannot be
	// served natively; the copy engine then falls back to spooling.
	CopyAcross(ctx context.Context, srcPath string, dst Adapter, dstPath string, opts WriteOptions) error
}

// Versioner is implemented by versioning-capable backends. Revisions are
// returned in the backend's natural shape and order; the dispatch layer
// normalizes ordering and applies limit/since/until filtering.
type Versioner interface {
	// Commit records the current backend state and returns the new
	// revision's identifier.
	Commit(ctx context.Context, message string, opts CommitOptions) (string, error)

	// Revisions lists the revisions that touched path; the backend root
	// when path is the root marker.
	Revisions(ctx context.Context, path string, opts RevisionOptions) ([]Revision, error)

	// ReadRevision returns the contents of path as of the given revision.
	ReadRevision(ctx context.Context, path, sha string) ([]byte, error)

	// Rollback restores the entire backend state to the given revision.
	// Path-scoped rollback is handled centrally by the dispatch layer and
	// never reaches the backend.
	Rollback(ctx context.Context, sha string, opts RollbackOptions) error
}

// Equaler is implemented by backends whose configuration can be compared
// structurally. The copy engine uses it to detect the identical-filesystem
// fast path when two distinct adapter values point at the same storage.
type Equaler interface {
	Equal(other Adapter) bool
}
