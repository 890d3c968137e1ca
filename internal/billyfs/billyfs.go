// Package billyfs implements the filesystem operations shared by the
// billy-backed adapters (local disk and in-memory). Backends embed Common
// and layer their own visibility and identity semantics on top.
package billyfs

import (
	"io"
	"os"
	"path"

	"github.com/go-git/go-billy/v5"

	vfserrors "github.com/jmgilman/go/vfs/errors"
	"github.com/jmgilman/go/vfs/internal/pathutil"
)

// Common holds a billy.Filesystem and implements the operations whose
// behavior is identical across billy backends. Paths arrive normalized and
// may carry a trailing separator as a directory marker, which billy does
// not understand, so every entry point trims it first.
type Common struct {
	Bfs billy.Filesystem
}

// WriteFile stores data at p with the given mode, creating parents first.
func (c *Common) WriteFile(p string, data []byte, perm os.FileMode, dirPerm os.FileMode) error {
	p = pathutil.TrimDirectory(p)
	if err := c.mkParents(p, dirPerm); err != nil {
		return err
	}
	f, err := c.Bfs.OpenFile(p, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()
	_, err = f.Write(data)
	return err
}

// WriteStreamFile stores the contents of r at p, copying through a bounded
// buffer.
func (c *Common) WriteStreamFile(p string, r io.Reader, perm os.FileMode, dirPerm os.FileMode, chunk int) error {
	p = pathutil.TrimDirectory(p)
	if err := c.mkParents(p, dirPerm); err != nil {
		return err
	}
	f, err := c.Bfs.OpenFile(p, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()
	if chunk <= 0 {
		chunk = 32 * 1024
	}
	_, err = io.CopyBuffer(f, r, make([]byte, chunk))
	return err
}

// ReadFile returns the full contents of the file at p.
func (c *Common) ReadFile(p string) ([]byte, error) {
	p = pathutil.TrimDirectory(p)
	f, err := c.Bfs.Open(p)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return io.ReadAll(f)
}

// OpenRead opens the file at p for sequential reading.
func (c *Common) OpenRead(p string) (io.ReadCloser, error) {
	return c.Bfs.Open(pathutil.TrimDirectory(p))
}

// RemoveFile deletes the file at p. Directories are rejected.
func (c *Common) RemoveFile(p string) error {
	p = pathutil.TrimDirectory(p)
	info, err := c.Bfs.Stat(p)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return vfserrors.InvalidPath(p, "path is a directory, not a file")
	}
	return c.Bfs.Remove(p)
}

// Rename moves old to new, creating new's parents first.
func (c *Common) Rename(oldp, newp string, dirPerm os.FileMode) error {
	oldp = pathutil.TrimDirectory(oldp)
	newp = pathutil.TrimDirectory(newp)
	if err := c.mkParents(newp, dirPerm); err != nil {
		return err
	}
	return c.Bfs.Rename(oldp, newp)
}

// Exists reports whether an entry exists at p.
func (c *Common) Exists(p string) (bool, error) {
	_, err := c.Bfs.Stat(pathutil.TrimDirectory(p))
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

// List returns the immediate children of the directory at p.
func (c *Common) List(p string) ([]os.FileInfo, error) {
	p = pathutil.TrimDirectory(p)
	if !pathutil.IsRoot(p) {
		info, err := c.Bfs.Stat(p)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, vfserrors.DirectoryNotFound(p)
			}
			return nil, err
		}
		if !info.IsDir() {
			return nil, vfserrors.NotDirectory(p)
		}
	}
	return c.Bfs.ReadDir(p)
}

// MkdirAll creates the directory at p and any missing parents.
func (c *Common) MkdirAll(p string, perm os.FileMode) error {
	p = pathutil.TrimDirectory(p)
	if pathutil.IsRoot(p) {
		return nil
	}
	return c.Bfs.MkdirAll(p, perm)
}

// RemoveDir deletes the directory at p. A non-empty directory fails with
// DirectoryNotEmpty unless recursive is set.
func (c *Common) RemoveDir(p string, recursive bool) error {
	p = pathutil.TrimDirectory(p)
	info, err := c.Bfs.Stat(p)
	if err != nil {
		if os.IsNotExist(err) {
			return vfserrors.DirectoryNotFound(p)
		}
		return err
	}
	if !info.IsDir() {
		return vfserrors.NotDirectory(p)
	}
	if recursive {
		return c.removeAll(p)
	}
	entries, err := c.Bfs.ReadDir(p)
	if err != nil {
		return err
	}
	if len(entries) > 0 {
		return vfserrors.DirectoryNotEmpty(p)
	}
	return c.Bfs.Remove(p)
}

// Clear removes every entry under the root, leaving the root itself.
func (c *Common) Clear() error {
	entries, err := c.Bfs.ReadDir(pathutil.Root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	for _, entry := range entries {
		if err := c.removeAll(entry.Name()); err != nil {
			return err
		}
	}
	return nil
}

// RemoveTree deletes the entry at p and any children, ignoring a missing
// entry.
func (c *Common) RemoveTree(p string) error {
	return c.removeAll(pathutil.TrimDirectory(p))
}

// StatEntry returns billy metadata for the entry at p.
func (c *Common) StatEntry(p string) (os.FileInfo, error) {
	return c.Bfs.Stat(pathutil.TrimDirectory(p))
}

// TruncateFile resizes the file at p in place.
func (c *Common) TruncateFile(p string, size int64) error {
	p = pathutil.TrimDirectory(p)
	f, err := c.Bfs.OpenFile(p, os.O_WRONLY, 0)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()
	return f.Truncate(size)
}

// mkParents creates the parent directories of p.
func (c *Common) mkParents(p string, perm os.FileMode) error {
	dir := path.Dir(p)
	if dir == "." || dir == "/" {
		return nil
	}
	if perm == 0 {
		perm = 0o755
	}
	return c.Bfs.MkdirAll(dir, perm)
}

// removeAll deletes p and any children. Billy has no native RemoveAll.
func (c *Common) removeAll(p string) error {
	info, err := c.Bfs.Stat(p)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if !info.IsDir() {
		return c.Bfs.Remove(p)
	}
	entries, err := c.Bfs.ReadDir(p)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if err := c.removeAll(path.Join(p, entry.Name())); err != nil {
			return err
		}
	}
	return c.Bfs.Remove(p)
}
