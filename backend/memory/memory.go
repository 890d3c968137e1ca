// Package memory adapts go-billy's memfs for tests and scratch storage.
// Because in-memory files carry no usable permission bits, visibility lives
// in a side table that tracks writes, moves, and deletes.
package memory

import (
	"context"
	"io"
	"os"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"

	"github.com/jmgilman/go/vfs/core"
	vfserrors "github.com/jmgilman/go/vfs/errors"
	"github.com/jmgilman/go/vfs/internal/billyfs"
	"github.com/jmgilman/go/vfs/internal/pathutil"
)

// Type identifies this backend.
const Type = "memory"

// Adapter serves files from an in-memory filesystem. Two Adapter values
// never address the same storage unless they share the same billy
// filesystem, so identity is plain pointer equality and the adapter does
// not implement structural comparison.
type Adapter struct {
	billyfs.Common
	visibility *VisibilityStore
}

// Option configures adapter creation.
type Option func(*Adapter)

// WithVisibilityStore shares an existing visibility store instead of
// creating a private one.
func WithVisibilityStore(store *VisibilityStore) Option {
	return func(a *Adapter) {
		a.visibility = store
	}
}

// WithBilly serves an existing billy filesystem instead of a fresh memfs.
// Useful when the same tree is also handed to go-git.
func WithBilly(bfs billy.Filesystem) Option {
	return func(a *Adapter) {
		a.Bfs = bfs
	}
}

// New creates an empty in-memory adapter.
func New(opts ...Option) *Adapter {
	a := &Adapter{
		Common:     billyfs.Common{Bfs: memfs.New()},
		visibility: NewVisibilityStore(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Type returns the backend type identifier.
func (a *Adapter) Type() string {
	return Type
}

// UnsupportedOperations returns nothing; everything structurally present is
// allowed.
func (a *Adapter) UnsupportedOperations() []core.Operation {
	return nil
}

// Write stores data at path and records its visibility.
func (a *Adapter) Write(ctx context.Context, path string, data []byte, opts core.WriteOptions) error {
	if err := a.WriteFile(path, data, 0o644, 0o755); err != nil {
		return err
	}
	a.recordVisibility(path, opts)
	return nil
}

// Read returns the full contents of the file at path.
func (a *Adapter) Read(ctx context.Context, path string) ([]byte, error) {
	return a.ReadFile(path)
}

// ReadStream opens the file at path for sequential reading.
func (a *Adapter) ReadStream(ctx context.Context, path string, chunkSize int) (io.ReadCloser, error) {
	return a.OpenRead(path)
}

// WriteStream stores the contents of r at path.
func (a *Adapter) WriteStream(ctx context.Context, path string, r io.Reader, opts core.WriteOptions) error {
	if err := a.WriteStreamFile(path, r, 0o644, 0o755, opts.ChunkSize); err != nil {
		return err
	}
	a.recordVisibility(path, opts)
	return nil
}

// Delete removes the file at path and its visibility entry.
func (a *Adapter) Delete(ctx context.Context, path string) error {
	if err := a.RemoveFile(path); err != nil {
		return err
	}
	a.visibility.Delete(pathutil.TrimDirectory(path))
	return nil
}

// Move renames src to dst, carrying the visibility entry along.
func (a *Adapter) Move(ctx context.Context, src, dst string, opts core.WriteOptions) error {
	if err := a.Rename(src, dst, 0o755); err != nil {
		return err
	}
	a.visibility.Move(pathutil.TrimDirectory(src), pathutil.TrimDirectory(dst))
	return nil
}

// Copy duplicates src to dst. The copy resolves src's visibility unless the
// options override it.
func (a *Adapter) Copy(ctx context.Context, src, dst string, opts core.WriteOptions) error {
	info, err := a.StatEntry(src)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return vfserrors.InvalidPath(pathutil.TrimDirectory(src), "path is a directory, not a file")
	}
	r, err := a.OpenRead(src)
	if err != nil {
		return err
	}
	defer func() { _ = r.Close() }()
	if err := a.WriteStreamFile(dst, r, 0o644, 0o755, opts.ChunkSize); err != nil {
		return err
	}
	v := opts.Visibility
	if !v.IsValid() {
		v = a.visibility.Resolve(pathutil.TrimDirectory(src))
	}
	a.visibility.Set(pathutil.TrimDirectory(dst), v)
	return nil
}

// FileExists reports whether a regular file exists at path.
func (a *Adapter) FileExists(ctx context.Context, path string) (bool, error) {
	info, err := a.StatEntry(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return !info.IsDir(), nil
}

// ListContents returns the immediate children of the directory at path,
// with visibility resolved through the side table.
func (a *Adapter) ListContents(ctx context.Context, path string) ([]core.Stat, error) {
	infos, err := a.List(path)
	if err != nil {
		return nil, err
	}
	stats := make([]core.Stat, len(infos))
	for i, info := range infos {
		child := pathutil.Join(path, info.Name())
		stat := core.StatFromFileInfo(child, info)
		stat.Visibility = a.visibility.Resolve(child)
		stats[i] = stat
	}
	return stats, nil
}

// CreateDirectory creates the directory at path and any missing parents.
func (a *Adapter) CreateDirectory(ctx context.Context, path string, opts core.WriteOptions) error {
	if err := a.MkdirAll(path, 0o755); err != nil {
		return err
	}
	if opts.DirectoryVisibility.IsValid() {
		a.visibility.Set(pathutil.TrimDirectory(path), opts.DirectoryVisibility)
	}
	return nil
}

// DeleteDirectory removes the directory at path and its visibility entries.
func (a *Adapter) DeleteDirectory(ctx context.Context, path string, recursive bool) error {
	if err := a.RemoveDir(path, recursive); err != nil {
		return err
	}
	a.visibility.Delete(pathutil.TrimDirectory(path))
	return nil
}

// Clear removes everything under the root and resets the side table.
func (a *Adapter) Clear(ctx context.Context) error {
	if err := a.Common.Clear(); err != nil {
		return err
	}
	a.visibility.Clear()
	return nil
}

// Stat returns metadata for the entry at path with resolved visibility.
func (a *Adapter) Stat(ctx context.Context, path string) (core.Stat, error) {
	info, err := a.StatEntry(path)
	if err != nil {
		return core.Stat{}, err
	}
	p := pathutil.TrimDirectory(path)
	stat := core.StatFromFileInfo(p, info)
	stat.Visibility = a.visibility.Resolve(p)
	return stat, nil
}

// Access verifies existence; in-memory entries are always readable and
// writable by their owner.
func (a *Adapter) Access(ctx context.Context, path string, mode core.AccessMode) error {
	_, err := a.StatEntry(path)
	return err
}

// Append extends the file at path. Memfs handles of the same file do not
// share offsets reliably under O_APPEND, so this reads and rewrites.
func (a *Adapter) Append(ctx context.Context, path string, data []byte) error {
	existing, err := a.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return a.WriteFile(path, append(existing, data...), 0o644, 0o755)
}

// Truncate resizes the file at path in place.
func (a *Adapter) Truncate(ctx context.Context, path string, size int64) error {
	return a.TruncateFile(path, size)
}

// SetVisibility records an explicit visibility for the entry at path.
func (a *Adapter) SetVisibility(ctx context.Context, path string, v core.Visibility) error {
	p := pathutil.TrimDirectory(path)
	if _, err := a.StatEntry(p); err != nil {
		return err
	}
	a.visibility.Set(p, v)
	return nil
}

// Visibility resolves the entry's visibility through the side table.
func (a *Adapter) Visibility(ctx context.Context, path string) (core.Visibility, error) {
	p := pathutil.TrimDirectory(path)
	if _, err := a.StatEntry(p); err != nil {
		return "", err
	}
	return a.visibility.Resolve(p), nil
}

func (a *Adapter) recordVisibility(path string, opts core.WriteOptions) {
	if opts.Visibility.IsValid() {
		a.visibility.Set(pathutil.TrimDirectory(path), opts.Visibility)
	}
}

// Compile-time capability checks. TimeSetter is deliberately absent: memfs
// does not track modification times per entry.
var (
	_ core.Adapter      = (*Adapter)(nil)
	_ core.StreamReader = (*Adapter)(nil)
	_ core.StreamWriter = (*Adapter)(nil)
	_ core.Statter      = (*Adapter)(nil)
	_ core.Accessor     = (*Adapter)(nil)
	_ core.Appender     = (*Adapter)(nil)
	_ core.Truncater    = (*Adapter)(nil)
	_ core.VisibilityFS = (*Adapter)(nil)
)
