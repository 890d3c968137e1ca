package vfs

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/jmgilman/go/vfs/core"
	vfserrors "github.com/jmgilman/go/vfs/errors"
	"github.com/jmgilman/go/vfs/internal/pathutil"
)

// FS is the dispatch facade over a single configured backend. It is
// immutable after construction and safe for unsynchronized concurrent use;
// per-call concurrency is the host's concern, the facade imposes no
// ordering or locking of its own.
type FS struct {
	adapter   core.Adapter
	logger    *slog.Logger
	chunkSize int
	tempDir   string
}

// New wraps a backend adapter in the dispatch facade.
func New(adapter core.Adapter, opts ...Option) *FS {
	f := &FS{
		adapter:   adapter,
		logger:    noopLogger(),
		chunkSize: DefaultChunkSize,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Adapter returns the underlying backend adapter. This is an escape hatch
// for callers that need backend-specific surface outside the protocol.
func (f *FS) Adapter() core.Adapter {
	return f.adapter
}

// Supports reports whether the backend can carry out the operation. Callers
// branch on this rather than pattern-matching error payloads.
func (f *FS) Supports(op core.Operation) bool {
	return core.Supports(f.adapter, op)
}

// normalize validates a caller path, mapping normalization failures to
// their taxonomy kinds. Backends never see un-normalized input.
func (f *FS) normalize(raw string) (string, error) {
	p, err := pathutil.Normalize(raw)
	if err != nil {
		switch {
		case errors.Is(err, pathutil.ErrAbsolute):
			return "", vfserrors.AbsolutePath(raw)
		case errors.Is(err, pathutil.ErrTraversal):
			return "", vfserrors.PathTraversal(raw)
		}
		return "", vfserrors.InvalidPath(raw, err.Error())
	}
	return p, nil
}

// require is the capability gate every operation passes before the backend
// is touched. On refusal the backend is never invoked.
func (f *FS) require(op core.Operation) error {
	if !core.Supports(f.adapter, op) {
		return vfserrors.UnsupportedOperation(string(op), f.adapter.Type())
	}
	return nil
}

// fail converts a backend failure exactly once and logs it.
func (f *FS) fail(ctx context.Context, op core.Operation, path string, err error) error {
	converted := vfserrors.Convert(err)
	f.logger.ErrorContext(ctx, "operation failed",
		"backend", f.adapter.Type(),
		"op", string(op),
		"path", path,
		"error", converted,
	)
	return converted
}

func (f *FS) done(ctx context.Context, op core.Operation, path string) {
	f.logger.DebugContext(ctx, "operation completed",
		"backend", f.adapter.Type(),
		"op", string(op),
		"path", path,
	)
}

// Write stores data at path, creating parent directories as needed.
func (f *FS) Write(ctx context.Context, path string, data []byte, opts core.WriteOptions) error {
	p, err := f.normalize(path)
	if err != nil {
		return err
	}
	if err := f.require(core.OpWrite); err != nil {
		return err
	}
	if err := f.adapter.Write(ctx, p, data, opts); err != nil {
		return f.fail(ctx, core.OpWrite, p, err)
	}
	f.done(ctx, core.OpWrite, p)
	return nil
}

// Read returns the full contents of the file at path.
func (f *FS) Read(ctx context.Context, path string) ([]byte, error) {
	p, err := f.normalize(path)
	if err != nil {
		return nil, err
	}
	if err := f.require(core.OpRead); err != nil {
		return nil, err
	}
	data, err := f.adapter.Read(ctx, p)
	if err != nil {
		return nil, f.fail(ctx, core.OpRead, p, err)
	}
	f.done(ctx, core.OpRead, p)
	return data, nil
}

// ReadStream opens the file at path for sequential reading. The caller must
// close the returned reader.
func (f *FS) ReadStream(ctx context.Context, path string, opts core.ReadOptions) (io.ReadCloser, error) {
	p, err := f.normalize(path)
	if err != nil {
		return nil, err
	}
	if err := f.require(core.OpReadStream); err != nil {
		return nil, err
	}
	r, err := f.adapter.(core.StreamReader).ReadStream(ctx, p, f.readChunkSize(opts))
	if err != nil {
		return nil, f.fail(ctx, core.OpReadStream, p, err)
	}
	f.done(ctx, core.OpReadStream, p)
	return r, nil
}

// WriteStream stores the contents of r at path without buffering it whole.
func (f *FS) WriteStream(ctx context.Context, path string, r io.Reader, opts core.WriteOptions) error {
	p, err := f.normalize(path)
	if err != nil {
		return err
	}
	if err := f.require(core.OpWriteStream); err != nil {
		return err
	}
	if err := f.adapter.(core.StreamWriter).WriteStream(ctx, p, r, opts); err != nil {
		return f.fail(ctx, core.OpWriteStream, p, err)
	}
	f.done(ctx, core.OpWriteStream, p)
	return nil
}

// Delete removes the file at path.
func (f *FS) Delete(ctx context.Context, path string) error {
	p, err := f.normalize(path)
	if err != nil {
		return err
	}
	if err := f.require(core.OpDelete); err != nil {
		return err
	}
	if err := f.adapter.Delete(ctx, p); err != nil {
		return f.fail(ctx, core.OpDelete, p, err)
	}
	f.done(ctx, core.OpDelete, p)
	return nil
}

// Move renames src to dst within the filesystem.
func (f *FS) Move(ctx context.Context, src, dst string, opts core.WriteOptions) error {
	sp, err := f.normalize(src)
	if err != nil {
		return err
	}
	dp, err := f.normalize(dst)
	if err != nil {
		return err
	}
	if err := f.require(core.OpMove); err != nil {
		return err
	}
	if err := f.adapter.Move(ctx, sp, dp, opts); err != nil {
		return f.fail(ctx, core.OpMove, sp, err)
	}
	f.done(ctx, core.OpMove, sp)
	return nil
}

// Copy duplicates src to dst within the filesystem.
func (f *FS) Copy(ctx context.Context, src, dst string, opts core.WriteOptions) error {
	sp, err := f.normalize(src)
	if err != nil {
		return err
	}
	dp, err := f.normalize(dst)
	if err != nil {
		return err
	}
	if err := f.require(core.OpCopy); err != nil {
		return err
	}
	if err := f.adapter.Copy(ctx, sp, dp, opts); err != nil {
		return f.fail(ctx, core.OpCopy, sp, err)
	}
	f.done(ctx, core.OpCopy, sp)
	return nil
}

// FileExists reports whether a file exists at path.
func (f *FS) FileExists(ctx context.Context, path string) (bool, error) {
	p, err := f.normalize(path)
	if err != nil {
		return false, err
	}
	if err := f.require(core.OpFileExists); err != nil {
		return false, err
	}
	exists, err := f.adapter.FileExists(ctx, p)
	if err != nil {
		return false, f.fail(ctx, core.OpFileExists, p, err)
	}
	return exists, nil
}

// ListContents returns the immediate children of the directory at path.
func (f *FS) ListContents(ctx context.Context, path string) ([]core.Stat, error) {
	p, err := f.normalize(path)
	if err != nil {
		return nil, err
	}
	if err := f.require(core.OpListContents); err != nil {
		return nil, err
	}
	entries, err := f.adapter.ListContents(ctx, p)
	if err != nil {
		return nil, f.fail(ctx, core.OpListContents, p, err)
	}
	f.done(ctx, core.OpListContents, p)
	return entries, nil
}

// CreateDirectory creates the directory at path and any missing parents.
// Directory intent is enforced before the backend is called.
func (f *FS) CreateDirectory(ctx context.Context, path string, opts core.WriteOptions) error {
	p, err := f.normalize(path)
	if err != nil {
		return err
	}
	p = pathutil.EnsureDirectory(p)
	if err := f.require(core.OpCreateDirectory); err != nil {
		return err
	}
	if err := f.adapter.CreateDirectory(ctx, p, opts); err != nil {
		return f.fail(ctx, core.OpCreateDirectory, p, err)
	}
	f.done(ctx, core.OpCreateDirectory, p)
	return nil
}

// DeleteDirectory removes the directory at path. With recursive false a
// directory that still has children fails with DirectoryNotEmpty.
func (f *FS) DeleteDirectory(ctx context.Context, path string, recursive bool) error {
	p, err := f.normalize(path)
	if err != nil {
		return err
	}
	p = pathutil.EnsureDirectory(p)
	if err := f.require(core.OpDeleteDirectory); err != nil {
		return err
	}
	if err := f.adapter.DeleteDirectory(ctx, p, recursive); err != nil {
		return f.fail(ctx, core.OpDeleteDirectory, p, err)
	}
	f.done(ctx, core.OpDeleteDirectory, p)
	return nil
}

// Clear removes everything under the backend root.
func (f *FS) Clear(ctx context.Context) error {
	if err := f.require(core.OpClear); err != nil {
		return err
	}
	if err := f.adapter.Clear(ctx); err != nil {
		return f.fail(ctx, core.OpClear, pathutil.Root, err)
	}
	f.done(ctx, core.OpClear, pathutil.Root)
	return nil
}

// SetVisibility changes the portable visibility state of the entry at path.
func (f *FS) SetVisibility(ctx context.Context, path string, v core.Visibility) error {
	p, err := f.normalize(path)
	if err != nil {
		return err
	}
	if !v.IsValid() {
		return vfserrors.WithContext(
			vfserrors.Newf(vfserrors.CodeInvalidPath, "invalid visibility %q", v),
			"visibility", string(v))
	}
	if err := f.require(core.OpSetVisibility); err != nil {
		return err
	}
	if err := f.adapter.(core.VisibilityFS).SetVisibility(ctx, p, v); err != nil {
		return f.fail(ctx, core.OpSetVisibility, p, err)
	}
	f.done(ctx, core.OpSetVisibility, p)
	return nil
}

// Visibility returns the portable visibility state of the entry at path.
func (f *FS) Visibility(ctx context.Context, path string) (core.Visibility, error) {
	p, err := f.normalize(path)
	if err != nil {
		return "", err
	}
	if err := f.require(core.OpVisibility); err != nil {
		return "", err
	}
	v, err := f.adapter.(core.VisibilityFS).Visibility(ctx, p)
	if err != nil {
		return "", f.fail(ctx, core.OpVisibility, p, err)
	}
	return v, nil
}

// Stat returns metadata for the entry at path.
func (f *FS) Stat(ctx context.Context, path string) (core.Stat, error) {
	p, err := f.normalize(path)
	if err != nil {
		return core.Stat{}, err
	}
	if err := f.require(core.OpStat); err != nil {
		return core.Stat{}, err
	}
	info, err := f.adapter.(core.Statter).Stat(ctx, p)
	if err != nil {
		return core.Stat{}, f.fail(ctx, core.OpStat, p, err)
	}
	return info, nil
}

// Access checks the given access modes on the entry at path.
func (f *FS) Access(ctx context.Context, path string, mode core.AccessMode) error {
	p, err := f.normalize(path)
	if err != nil {
		return err
	}
	if err := f.require(core.OpAccess); err != nil {
		return err
	}
	if err := f.adapter.(core.Accessor).Access(ctx, p, mode); err != nil {
		return f.fail(ctx, core.OpAccess, p, err)
	}
	return nil
}

// Append extends the file at path, creating it when missing.
func (f *FS) Append(ctx context.Context, path string, data []byte) error {
	p, err := f.normalize(path)
	if err != nil {
		return err
	}
	if err := f.require(core.OpAppend); err != nil {
		return err
	}
	if err := f.adapter.(core.Appender).Append(ctx, p, data); err != nil {
		return f.fail(ctx, core.OpAppend, p, err)
	}
	f.done(ctx, core.OpAppend, p)
	return nil
}

// Truncate changes the size of the file at path.
func (f *FS) Truncate(ctx context.Context, path string, size int64) error {
	p, err := f.normalize(path)
	if err != nil {
		return err
	}
	if err := f.require(core.OpTruncate); err != nil {
		return err
	}
	if err := f.adapter.(core.Truncater).Truncate(ctx, p, size); err != nil {
		return f.fail(ctx, core.OpTruncate, p, err)
	}
	f.done(ctx, core.OpTruncate, p)
	return nil
}

// Chtimes sets access and modification times on the entry at path.
func (f *FS) Chtimes(ctx context.Context, path string, atime, mtime time.Time) error {
	p, err := f.normalize(path)
	if err != nil {
		return err
	}
	if err := f.require(core.OpUtime); err != nil {
		return err
	}
	if err := f.adapter.(core.TimeSetter).Chtimes(ctx, p, atime, mtime); err != nil {
		return f.fail(ctx, core.OpUtime, p, err)
	}
	f.done(ctx, core.OpUtime, p)
	return nil
}

// effectiveChunkSize resolves the chunk size for a call: per-call option,
// then facade default.
func (f *FS) effectiveChunkSize(opts core.WriteOptions) int {
	if opts.ChunkSize > 0 {
		return opts.ChunkSize
	}
	return f.chunkSize
}

// readChunkSize is effectiveChunkSize for the read-side options bag.
func (f *FS) readChunkSize(opts core.ReadOptions) int {
	if opts.ChunkSize > 0 {
		return opts.ChunkSize
	}
	return f.chunkSize
}
