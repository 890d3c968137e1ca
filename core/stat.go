package core

import (
	"io/fs"
	"time"
)

// Stat describes a single entry returned by Stat or ListContents.
// It is a value object produced only by backends; the dispatch layer treats
// it as opaque payload.
type Stat struct {
	// Name is the entry's path relative to the backend root.
	Name string

	// Size is the entry size in bytes. Zero for directories on backends
	// without a native directory size.
	Size int64

	// ModTime is the last modification time. Zero when the backend does not
	// track one.
	ModTime time.Time

	// Visibility is the entry's portable visibility state.
	Visibility Visibility

	// Dir marks the entry as a directory.
	Dir bool
}

// IsDir reports whether the entry is a directory.
func (s Stat) IsDir() bool {
	return s.Dir
}

// StatFromFileInfo converts stdlib file metadata into a Stat, deriving
// visibility from the group/other read bits.
func StatFromFileInfo(name string, info fs.FileInfo) Stat {
	vis := VisibilityPrivate
	if info.Mode().Perm()&0o044 != 0 {
		vis = VisibilityPublic
	}
	return Stat{
		Name:       name,
		Size:       info.Size(),
		ModTime:    info.ModTime(),
		Visibility: vis,
		Dir:        info.IsDir(),
	}
}
