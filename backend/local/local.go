// Package local adapts a directory on the local disk. It is built on
// go-billy's osfs so the same filesystem value can be handed to go-git.
// Visibility maps onto the owner/other read bits of the file mode.
package local

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"

	"github.com/jmgilman/go/vfs/core"
	vfserrors "github.com/jmgilman/go/vfs/errors"
	"github.com/jmgilman/go/vfs/internal/billyfs"
	"github.com/jmgilman/go/vfs/internal/pathutil"
)

// Type identifies this backend.
const Type = "local"

// Adapter serves files from a root directory on the local disk.
type Adapter struct {
	billyfs.Common
	root string
}

// New creates an adapter rooted at the given directory. The directory is
// created when missing.
func New(root string) (*Adapter, error) {
	if root == "" {
		return nil, vfserrors.InvalidPath(root, "root directory must not be empty")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, vfserrors.AdapterError(Type, err)
	}
	return &Adapter{
		Common: billyfs.Common{Bfs: osfs.New(root)},
		root:   root,
	}, nil
}

// Root returns the configured root directory.
func (a *Adapter) Root() string {
	return a.root
}

// Billy returns the underlying billy filesystem for go-git integration.
func (a *Adapter) Billy() billy.Filesystem {
	return a.Bfs
}

// Type returns the backend type identifier.
func (a *Adapter) Type() string {
	return Type
}

// UnsupportedOperations returns nothing; the full surface is available.
func (a *Adapter) UnsupportedOperations() []core.Operation {
	return nil
}

// Write stores data at path with a mode derived from the visibility.
func (a *Adapter) Write(ctx context.Context, path string, data []byte, opts core.WriteOptions) error {
	return a.WriteFile(path, data, fileMode(opts.Visibility), dirMode(opts.DirectoryVisibility))
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
	return a.WriteStreamFile(path, r, fileMode(opts.Visibility), dirMode(opts.DirectoryVisibility), opts.ChunkSize)
}

// Delete removes the file at path.
func (a *Adapter) Delete(ctx context.Context, path string) error {
	return a.RemoveFile(path)
}

// Move renames src to dst, creating dst's parents first.
func (a *Adapter) Move(ctx context.Context, src, dst string, opts core.WriteOptions) error {
	return a.Rename(src, dst, dirMode(opts.DirectoryVisibility))
}

// Copy duplicates src to dst, carrying over src's mode.
func (a *Adapter) Copy(ctx context.Context, src, dst string, opts core.WriteOptions) error {
	info, err := a.StatEntry(src)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return vfserrors.InvalidPath(src, "path is a directory, not a file")
	}
	r, err := a.OpenRead(src)
	if err != nil {
		return err
	}
	defer func() { _ = r.Close() }()
	perm := info.Mode().Perm()
	if opts.Visibility.IsValid() {
		perm = fileMode(opts.Visibility)
	}
	return a.WriteStreamFile(dst, r, perm, dirMode(opts.DirectoryVisibility), opts.ChunkSize)
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

// ListContents returns the immediate children of the directory at path.
func (a *Adapter) ListContents(ctx context.Context, path string) ([]core.Stat, error) {
	infos, err := a.List(path)
	if err != nil {
		return nil, err
	}
	stats := make([]core.Stat, len(infos))
	for i, info := range infos {
		stats[i] = core.StatFromFileInfo(pathutil.Join(path, info.Name()), info)
	}
	return stats, nil
}

// CreateDirectory creates the directory at path and any missing parents.
func (a *Adapter) CreateDirectory(ctx context.Context, path string, opts core.WriteOptions) error {
	return a.MkdirAll(path, dirMode(opts.DirectoryVisibility))
}

// DeleteDirectory removes the directory at path.
func (a *Adapter) DeleteDirectory(ctx context.Context, path string, recursive bool) error {
	return a.RemoveDir(path, recursive)
}

// Clear removes every entry under the root directory.
func (a *Adapter) Clear(ctx context.Context) error {
	return a.Common.Clear()
}

// Stat returns metadata for the entry at path.
func (a *Adapter) Stat(ctx context.Context, path string) (core.Stat, error) {
	info, err := a.StatEntry(path)
	if err != nil {
		return core.Stat{}, err
	}
	return core.StatFromFileInfo(pathutil.TrimDirectory(path), info), nil
}

// Access verifies the requested access modes against the entry's mode bits.
func (a *Adapter) Access(ctx context.Context, path string, mode core.AccessMode) error {
	info, err := a.StatEntry(path)
	if err != nil {
		return err
	}
	perm := info.Mode().Perm()
	if mode&core.AccessRead != 0 && perm&0o400 == 0 {
		return vfserrors.PermissionDenied(pathutil.TrimDirectory(path), "read")
	}
	if mode&core.AccessWrite != 0 && perm&0o200 == 0 {
		return vfserrors.PermissionDenied(pathutil.TrimDirectory(path), "write")
	}
	return nil
}

// Append extends the file at path, creating it when missing.
func (a *Adapter) Append(ctx context.Context, path string, data []byte) error {
	p := pathutil.TrimDirectory(path)
	f, err := a.Bfs.OpenFile(p, os.O_WRONLY|os.O_CREATE|os.O_APPEND, fileMode(""))
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()
	_, err = f.Write(data)
	return err
}

// Truncate resizes the file at path in place.
func (a *Adapter) Truncate(ctx context.Context, path string, size int64) error {
	return a.TruncateFile(path, size)
}

// Chtimes sets access and modification times on the entry at path.
func (a *Adapter) Chtimes(ctx context.Context, path string, atime, mtime time.Time) error {
	ch, ok := a.Bfs.(billy.Change)
	if !ok {
		return vfserrors.UnsupportedOperation(string(core.OpUtime), Type)
	}
	return ch.Chtimes(pathutil.TrimDirectory(path), atime, mtime)
}

// SetVisibility rewrites the entry's mode bits to match the visibility.
func (a *Adapter) SetVisibility(ctx context.Context, path string, v core.Visibility) error {
	ch, ok := a.Bfs.(billy.Change)
	if !ok {
		return vfserrors.UnsupportedOperation(string(core.OpSetVisibility), Type)
	}
	p := pathutil.TrimDirectory(path)
	info, err := a.StatEntry(p)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return ch.Chmod(p, dirMode(v))
	}
	return ch.Chmod(p, fileMode(v))
}

// Visibility derives the entry's visibility from its mode bits.
func (a *Adapter) Visibility(ctx context.Context, path string) (core.Visibility, error) {
	info, err := a.StatEntry(path)
	if err != nil {
		return "", err
	}
	if info.Mode().Perm()&0o044 != 0 {
		return core.VisibilityPublic, nil
	}
	return core.VisibilityPrivate, nil
}

// Equal reports whether other is a local adapter over the same root.
func (a *Adapter) Equal(other core.Adapter) bool {
	o, ok := other.(*Adapter)
	return ok && o.root == a.root
}

func fileMode(v core.Visibility) os.FileMode {
	if v == core.VisibilityPrivate {
		return 0o600
	}
	return 0o644
}

func dirMode(v core.Visibility) os.FileMode {
	if v == core.VisibilityPrivate {
		return 0o700
	}
	return 0o755
}

// Compile-time capability checks.
var (
	_ core.Adapter      = (*Adapter)(nil)
	_ core.StreamReader = (*Adapter)(nil)
	_ core.StreamWriter = (*Adapter)(nil)
	_ core.Statter      = (*Adapter)(nil)
	_ core.Accessor     = (*Adapter)(nil)
	_ core.Appender     = (*Adapter)(nil)
	_ core.Truncater    = (*Adapter)(nil)
	_ core.TimeSetter   = (*Adapter)(nil)
	_ core.VisibilityFS = (*Adapter)(nil)
	_ core.Equaler      = (*Adapter)(nil)
)
