// Package shellfs adapts a directory tree reached through POSIX shell
// commands. It is meant for hosts where only command execution is available
// (a remote shell, a restricted container), with an optional command prefix
// such as "ssh host" to route every call through another binary.
//
// The adapter deliberately supports append but not streaming, so large
// transfers into it degrade to chunked appends.
package shellfs

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/jmgilman/go/vfs/core"
	vfserrors "github.com/jmgilman/go/vfs/errors"
	"github.com/jmgilman/go/vfs/internal/execx"
	"github.com/jmgilman/go/vfs/internal/pathutil"
)

// Type identifies this backend.
const Type = "shell"

// statFormat is the find -printf format used for listings: name, size,
// mtime epoch, entry type, and octal mode, tab separated.
const statFormat = "%f\t%s\t%T@\t%y\t%m\n"

// Config holds adapter settings.
type Config struct {
	// Root is the directory all paths resolve under. Required.
	Root string

	// Prefix is prepended to every command, e.g. {"ssh", "host"}.
	Prefix []string

	// Runner executes commands. Default: a plain local runner.
	Runner execx.Runner
}

// Adapter serves files by running shell commands.
type Adapter struct {
	runner execx.Runner
	root   string
	prefix []string
}

// New creates a shell-backed adapter and ensures the root exists.
func New(cfg Config) (*Adapter, error) {
	if cfg.Root == "" {
		return nil, vfserrors.InvalidPath(cfg.Root, "root directory must not be empty")
	}
	runner := cfg.Runner
	if runner == nil {
		runner = execx.New()
	}
	if len(cfg.Prefix) > 0 {
		runner = execx.NewWrapper(runner, cfg.Prefix...)
	}
	a := &Adapter{runner: runner, root: cfg.Root, prefix: cfg.Prefix}
	if _, err := a.run(context.Background(), "mkdir", "-p", cfg.Root); err != nil {
		return nil, err
	}
	return a, nil
}

// Type returns the backend type identifier.
func (a *Adapter) Type() string {
	return Type
}

// UnsupportedOperations returns nothing; streaming is structurally absent
// rather than disabled.
func (a *Adapter) UnsupportedOperations() []core.Operation {
	return nil
}

// abs resolves a normalized path under the root.
func (a *Adapter) abs(p string) string {
	p = pathutil.TrimDirectory(p)
	if pathutil.IsRoot(p) {
		return a.root
	}
	return path.Join(a.root, p)
}

func (a *Adapter) run(ctx context.Context, args ...string) (*execx.Result, error) {
	result, err := a.runner.Run(ctx, args...)
	if err != nil {
		adapterErr := vfserrors.AdapterError(Type, err)
		if result != nil && result.Stderr != "" {
			return result, vfserrors.WithContext(adapterErr, "stderr", strings.TrimSpace(result.Stderr))
		}
		return result, adapterErr
	}
	return result, nil
}

// test runs test(1) with the given flag and reports whether it passed.
func (a *Adapter) test(ctx context.Context, flag, p string) (bool, error) {
	result, err := a.runner.Run(ctx, "test", flag, a.abs(p))
	if err == nil {
		return true, nil
	}
	if result != nil && result.ExitCode == 1 {
		return false, nil
	}
	return false, vfserrors.AdapterError(Type, err)
}

func (a *Adapter) requireFile(ctx context.Context, p string) error {
	isFile, err := a.test(ctx, "-f", p)
	if err != nil {
		return err
	}
	if isFile {
		return nil
	}
	isDir, err := a.test(ctx, "-d", p)
	if err != nil {
		return err
	}
	if isDir {
		return vfserrors.InvalidPath(pathutil.TrimDirectory(p), "path is a directory, not a file")
	}
	return vfserrors.FileNotFound(pathutil.TrimDirectory(p))
}

// Write stores data at path via tee, creating parents first.
func (a *Adapter) Write(ctx context.Context, path string, data []byte, opts core.WriteOptions) error {
	if err := a.mkParents(ctx, path); err != nil {
		return err
	}
	_, err := a.runWithStdin(ctx, data, "tee", a.abs(path))
	return err
}

// Read returns the full contents of the file at path.
func (a *Adapter) Read(ctx context.Context, path string) ([]byte, error) {
	if err := a.requireFile(ctx, path); err != nil {
		return nil, err
	}
	result, err := a.run(ctx, "cat", a.abs(path))
	if err != nil {
		return nil, err
	}
	return []byte(result.Stdout), nil
}

// Delete removes the file at path.
func (a *Adapter) Delete(ctx context.Context, path string) error {
	if err := a.requireFile(ctx, path); err != nil {
		return err
	}
	_, err := a.run(ctx, "rm", "--", a.abs(path))
	return err
}

// Move renames src to dst, creating dst's parents first.
func (a *Adapter) Move(ctx context.Context, src, dst string, opts core.WriteOptions) error {
	if err := a.mkParents(ctx, dst); err != nil {
		return err
	}
	_, err := a.run(ctx, "mv", "--", a.abs(src), a.abs(dst))
	return err
}

// Copy duplicates src to dst.
func (a *Adapter) Copy(ctx context.Context, src, dst string, opts core.WriteOptions) error {
	if err := a.requireFile(ctx, src); err != nil {
		return err
	}
	if err := a.mkParents(ctx, dst); err != nil {
		return err
	}
	_, err := a.run(ctx, "cp", "--", a.abs(src), a.abs(dst))
	return err
}

// FileExists reports whether a regular file exists at path.
func (a *Adapter) FileExists(ctx context.Context, path string) (bool, error) {
	return a.test(ctx, "-f", path)
}

// ListContents returns the immediate children of the directory at path.
func (a *Adapter) ListContents(ctx context.Context, path string) ([]core.Stat, error) {
	if err := a.requireDir(ctx, path); err != nil {
		return nil, err
	}
	result, err := a.run(ctx, "find", a.abs(path), "-mindepth", "1", "-maxdepth", "1", "-printf", statFormat)
	if err != nil {
		return nil, err
	}

	var stats []core.Stat
	for _, line := range strings.Split(strings.TrimSuffix(result.Stdout, "\n"), "\n") {
		if line == "" {
			continue
		}
		stat, err := parseStatLine(path, line)
		if err != nil {
			return nil, err
		}
		stats = append(stats, stat)
	}
	return stats, nil
}

// CreateDirectory creates the directory at path and any missing parents.
func (a *Adapter) CreateDirectory(ctx context.Context, path string, opts core.WriteOptions) error {
	_, err := a.run(ctx, "mkdir", "-p", a.abs(path))
	return err
}

// DeleteDirectory removes the directory at path. rmdir surfaces non-empty
// directories; rm -rf handles the recursive case.
func (a *Adapter) DeleteDirectory(ctx context.Context, path string, recursive bool) error {
	if err := a.requireDir(ctx, path); err != nil {
		return err
	}
	if recursive {
		_, err := a.run(ctx, "rm", "-rf", "--", a.abs(path))
		return err
	}
	result, err := a.runner.Run(ctx, "rmdir", "--", a.abs(path))
	if err != nil {
		if result != nil && strings.Contains(result.Stderr, "not empty") {
			return vfserrors.DirectoryNotEmpty(pathutil.TrimDirectory(path))
		}
		return vfserrors.AdapterError(Type, err)
	}
	return nil
}

// Clear removes every entry under the root.
func (a *Adapter) Clear(ctx context.Context) error {
	_, err := a.run(ctx, "find", a.root, "-mindepth", "1", "-delete")
	return err
}

// Stat returns metadata for the entry at path.
func (a *Adapter) Stat(ctx context.Context, path string) (core.Stat, error) {
	exists, err := a.test(ctx, "-e", path)
	if err != nil {
		return core.Stat{}, err
	}
	if !exists {
		return core.Stat{}, vfserrors.FileNotFound(pathutil.TrimDirectory(path))
	}
	result, err := a.run(ctx, "find", a.abs(path), "-maxdepth", "0", "-printf", statFormat)
	if err != nil {
		return core.Stat{}, err
	}
	line := strings.TrimSuffix(result.Stdout, "\n")
	stat, err := parseStatLine(path, line)
	if err != nil {
		return core.Stat{}, err
	}
	stat.Name = pathutil.TrimDirectory(path)
	return stat, nil
}

// Access verifies the requested modes with test(1).
func (a *Adapter) Access(ctx context.Context, path string, mode core.AccessMode) error {
	exists, err := a.test(ctx, "-e", path)
	if err != nil {
		return err
	}
	if !exists {
		return vfserrors.FileNotFound(pathutil.TrimDirectory(path))
	}
	if mode&core.AccessRead != 0 {
		readable, err := a.test(ctx, "-r", path)
		if err != nil {
			return err
		}
		if !readable {
			return vfserrors.PermissionDenied(pathutil.TrimDirectory(path), "read")
		}
	}
	if mode&core.AccessWrite != 0 {
		writable, err := a.test(ctx, "-w", path)
		if err != nil {
			return err
		}
		if !writable {
			return vfserrors.PermissionDenied(pathutil.TrimDirectory(path), "write")
		}
	}
	return nil
}

// Append extends the file at path via tee -a, creating it when missing.
func (a *Adapter) Append(ctx context.Context, path string, data []byte) error {
	if err := a.mkParents(ctx, path); err != nil {
		return err
	}
	_, err := a.runWithStdin(ctx, data, "tee", "-a", a.abs(path))
	return err
}

// Truncate resizes the file at path in place.
func (a *Adapter) Truncate(ctx context.Context, path string, size int64) error {
	if err := a.requireFile(ctx, path); err != nil {
		return err
	}
	_, err := a.run(ctx, "truncate", "-s", strconv.FormatInt(size, 10), a.abs(path))
	return err
}

// Chtimes sets access and modification times via touch.
func (a *Adapter) Chtimes(ctx context.Context, path string, atime, mtime time.Time) error {
	if _, err := a.run(ctx, "touch", "-c", "-a", "-d", atime.Format(time.RFC3339), a.abs(path)); err != nil {
		return err
	}
	_, err := a.run(ctx, "touch", "-c", "-m", "-d", mtime.Format(time.RFC3339), a.abs(path))
	return err
}

// SetVisibility rewrites the entry's mode bits via chmod.
func (a *Adapter) SetVisibility(ctx context.Context, path string, v core.Visibility) error {
	isDir, err := a.test(ctx, "-d", path)
	if err != nil {
		return err
	}
	mode := "644"
	if v == core.VisibilityPrivate {
		mode = "600"
	}
	if isDir {
		mode = "755"
		if v == core.VisibilityPrivate {
			mode = "700"
		}
	}
	_, err = a.run(ctx, "chmod", mode, a.abs(path))
	return err
}

// Visibility derives the entry's visibility from its mode bits.
func (a *Adapter) Visibility(ctx context.Context, path string) (core.Visibility, error) {
	stat, err := a.Stat(ctx, path)
	if err != nil {
		return "", err
	}
	return stat.Visibility, nil
}

// Equal reports whether other runs against the same root through the same
// command prefix.
func (a *Adapter) Equal(other core.Adapter) bool {
	o, ok := other.(*Adapter)
	return ok && o.root == a.root && strings.Join(o.prefix, "\x00") == strings.Join(a.prefix, "\x00")
}

func (a *Adapter) requireDir(ctx context.Context, p string) error {
	isDir, err := a.test(ctx, "-d", p)
	if err != nil {
		return err
	}
	if isDir {
		return nil
	}
	exists, err := a.test(ctx, "-e", p)
	if err != nil {
		return err
	}
	if exists {
		return vfserrors.NotDirectory(pathutil.TrimDirectory(p))
	}
	return vfserrors.DirectoryNotFound(pathutil.TrimDirectory(p))
}

func (a *Adapter) mkParents(ctx context.Context, p string) error {
	dir := path.Dir(a.abs(p))
	if dir == "." || dir == "/" {
		return nil
	}
	_, err := a.run(ctx, "mkdir", "-p", dir)
	return err
}

func (a *Adapter) runWithStdin(ctx context.Context, data []byte, args ...string) (*execx.Result, error) {
	// WithStdin mutates runner state, so each call gets a private clone;
	// the adapter must stay safe for unsynchronized concurrent use.
	result, err := a.runner.Clone().WithStdin(bytes.NewReader(data)).Run(ctx, args...)
	if err != nil {
		return result, vfserrors.AdapterError(Type, err)
	}
	return result, nil
}

// parseStatLine decodes one find -printf line into a Stat.
func parseStatLine(dir, line string) (core.Stat, error) {
	fields := strings.Split(line, "\t")
	if len(fields) != 5 {
		return core.Stat{}, vfserrors.AdapterError(Type, fmt.Errorf("malformed stat line %q", line))
	}
	size, err := strconv.ParseInt(fields[1], 10, 64)
	if err != nil {
		return core.Stat{}, vfserrors.AdapterError(Type, fmt.Errorf("malformed size in %q", line))
	}
	epoch, err := strconv.ParseFloat(fields[2], 64)
	if err != nil {
		return core.Stat{}, vfserrors.AdapterError(Type, fmt.Errorf("malformed mtime in %q", line))
	}
	mode, err := strconv.ParseUint(fields[4], 8, 32)
	if err != nil {
		return core.Stat{}, vfserrors.AdapterError(Type, fmt.Errorf("malformed mode in %q", line))
	}

	visibility := core.VisibilityPrivate
	if mode&0o044 != 0 {
		visibility = core.VisibilityPublic
	}
	return core.Stat{
		Name:       pathutil.Join(dir, fields[0]),
		Size:       size,
		ModTime:    time.Unix(int64(epoch), 0),
		Visibility: visibility,
		Dir:        fields[3] == "d",
	}, nil
}

// Compile-time capability checks. Streaming is structurally absent, which
// routes bulk transfers into the adapter through append.
var (
	_ core.Adapter      = (*Adapter)(nil)
	_ core.Statter      = (*Adapter)(nil)
	_ core.Accessor     = (*Adapter)(nil)
	_ core.Appender     = (*Adapter)(nil)
	_ core.Truncater    = (*Adapter)(nil)
	_ core.TimeSetter   = (*Adapter)(nil)
	_ core.VisibilityFS = (*Adapter)(nil)
	_ core.Equaler      = (*Adapter)(nil)
)
