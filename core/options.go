package core

import "time"

// WriteOptions is the configuration bag accepted by write-affecting calls.
// The zero value asks for backend defaults throughout.
type WriteOptions struct {
	// Visibility applies to the written file. Empty means backend default.
	Visibility Visibility

	// DirectoryVisibility applies to auto-created parent directories.
	DirectoryVisibility Visibility

	// ChunkSize sets the streaming/copy granularity in bytes.
	// Zero means the facade default.
	ChunkSize int
}

// ReadOptions configures streaming reads.
type ReadOptions struct {
	// ChunkSize sets the read granularity in bytes. Zero means the facade
	// default.
	ChunkSize int
}

// CommitOptions configures commit creation on versioning backends.
type CommitOptions struct {
	// AuthorName identifies the commit author. Backends may fall back to a
	// configured default when empty.
	AuthorName string

	// AuthorEmail identifies the commit author's address.
	AuthorEmail string
}

// RevisionOptions filters revision listings. Filtering is applied uniformly
// by the dispatch layer; backends return their natural, unfiltered order.
type RevisionOptions struct {
	// Limit caps the number of revisions returned. Zero means no cap.
	Limit int

	// Since excludes revisions at or before this instant when non-zero.
	Since time.Time

	// Until excludes revisions after this instant when non-zero.
	Until time.Time
}

// RollbackOptions configures rollback scope.
type RollbackOptions struct {
	// Path restricts the rollback to a single path when non-empty: the
	// path's content at the target revision is read and written back through
	// the ordinary write path. When empty the entire backend state is
	// restored.
	Path string
}

// AccessMode is a bitmask of checks performed by Access.
type AccessMode int

const (
	// AccessExist checks bare existence.
	AccessExist AccessMode = 1 << iota

	// AccessRead checks readability.
	AccessRead

	// AccessWrite checks writability.
	AccessWrite
)
