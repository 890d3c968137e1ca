package vfs

import (
	"context"
	"io"
	"os"

	"github.com/jmgilman/go/vfs/core"
	vfserrors "github.com/jmgilman/go/vfs/errors"
)

// CopyBetween moves one object between two filesystem facades with bounded
// memory. The transfer strategy is a ladder, evaluated in order:
//
//  1. Identical filesystem (same adapter, or same type with structurally
//     equal config): delegate to the ordinary same-filesystem copy.
//  2. Same backend type with native cross-config copy: let the backend copy
//     server-side without moving bytes through this process. A backend that
//     refuses the specific pair with the unsupported-operation sentinel
//     falls through to step 3.
//  3. Generic fallback for any backend combination: spool through a
//     temporary file, streaming on whichever sides support it and degrading
//     to append-chunks or a single whole-object write on the destination.
//
// Both paths are validated before any transfer begins; either side failing
// normalization aborts without touching either backend. Peak memory is
// bounded by the chunk size regardless of object size. Untyped failures are
// tagged with the side ("source" or "destination") that produced them.
func CopyBetween(ctx context.Context, src *FS, srcPath string, dst *FS, dstPath string, opts core.WriteOptions) error {
	sp, err := src.normalize(srcPath)
	if err != nil {
		return err
	}
	dp, err := dst.normalize(dstPath)
	if err != nil {
		return err
	}

	// Step 1: identical filesystem.
	if sameFilesystem(src.adapter, dst.adapter) {
		src.logger.DebugContext(ctx, "copy between",
			"step", "same-filesystem", "src", sp, "dst", dp)
		return src.Copy(ctx, sp, dp, opts)
	}

	// Step 2: native cross-config copy within one backend type.
	if src.adapter.Type() == dst.adapter.Type() && core.Supports(src.adapter, core.OpCopyBetween) {
		src.logger.DebugContext(ctx, "copy between",
			"step", "native-cross-config", "src", sp, "dst", dp)
		err := src.adapter.(core.CrossCopier).CopyAcross(ctx, sp, dst.adapter, dp, opts)
		if err == nil {
			return nil
		}
		// Defensive double-check: a backend may pass the capability check
		// yet refuse this particular pair. Anything else is a real failure.
		if !vfserrors.IsUnsupported(err) {
			return sideError(err, src.adapter.Type(), "source")
		}
	}

	src.logger.DebugContext(ctx, "copy between",
		"step", "spool", "src", sp, "dst", dp)
	return spoolCopy(ctx, src, sp, dst, dp, opts)
}

// spoolCopy is the generic fallback: source bytes land in a private
// temporary file and are drained into the destination in fixed-size chunks.
// The spool is released on every exit path.
func spoolCopy(ctx context.Context, src *FS, srcPath string, dst *FS, dstPath string, opts core.WriteOptions) (err error) {
	chunk := src.effectiveChunkSize(opts)

	spool, err := os.CreateTemp(src.tempDir, "vfs-copy-*")
	if err != nil {
		return vfserrors.Wrap(err, vfserrors.CodeUnknown, "failed to create copy spool")
	}
	defer func() {
		_ = spool.Close()
		_ = os.Remove(spool.Name())
	}()

	if err := fillSpool(ctx, src, srcPath, spool, chunk); err != nil {
		return err
	}
	if _, err := spool.Seek(0, io.SeekStart); err != nil {
		return vfserrors.Wrap(err, vfserrors.CodeUnknown, "failed to rewind copy spool")
	}
	return drainSpool(ctx, dst, dstPath, spool, chunk, opts)
}

// fillSpool streams the source object into the spool when the source can
// stream; otherwise it reads the object once and writes it in one pass.
func fillSpool(ctx context.Context, src *FS, path string, spool *os.File, chunk int) error {
	if core.Supports(src.adapter, core.OpReadStream) {
		r, err := src.adapter.(core.StreamReader).ReadStream(ctx, path, chunk)
		if err != nil {
			return sideError(err, src.adapter.Type(), "source")
		}
		defer func() { _ = r.Close() }()

		if _, err := io.CopyBuffer(spool, r, make([]byte, chunk)); err != nil {
			return sideError(err, src.adapter.Type(), "source")
		}
		return nil
	}

	data, err := src.adapter.Read(ctx, path)
	if err != nil {
		return sideError(err, src.adapter.Type(), "source")
	}
	if _, err := spool.Write(data); err != nil {
		return vfserrors.Wrap(err, vfserrors.CodeUnknown, "failed to write copy spool")
	}
	return nil
}

// drainSpool moves the spool into the destination: streamed when the
// destination can stream, appended in fixed-size chunks when it can append,
// and as one whole-object write as the last resort.
func drainSpool(ctx context.Context, dst *FS, path string, spool *os.File, chunk int, opts core.WriteOptions) error {
	if core.Supports(dst.adapter, core.OpWriteStream) {
		if err := dst.adapter.(core.StreamWriter).WriteStream(ctx, path, spool, opts); err != nil {
			return sideError(err, dst.adapter.Type(), "destination")
		}
		return nil
	}

	if core.Supports(dst.adapter, core.OpAppend) {
		// Start from an empty object so stale content never survives.
		if err := dst.adapter.Write(ctx, path, nil, opts); err != nil {
			return sideError(err, dst.adapter.Type(), "destination")
		}
		appender := dst.adapter.(core.Appender)
		buf := make([]byte, chunk)
		for {
			n, readErr := spool.Read(buf)
			if n > 0 {
				if err := appender.Append(ctx, path, buf[:n]); err != nil {
					return sideError(err, dst.adapter.Type(), "destination")
				}
			}
			if readErr == io.EOF {
				return nil
			}
			if readErr != nil {
				return vfserrors.Wrap(readErr, vfserrors.CodeUnknown, "failed to read copy spool")
			}
		}
	}

	data, err := io.ReadAll(spool)
	if err != nil {
		return vfserrors.Wrap(err, vfserrors.CodeUnknown, "failed to read copy spool")
	}
	if err := dst.adapter.Write(ctx, path, data, opts); err != nil {
		return sideError(err, dst.adapter.Type(), "destination")
	}
	return nil
}

// sameFilesystem reports whether two adapters address the same storage:
// the same adapter value, or the same backend type with structurally equal
// configuration.
func sameFilesystem(a, b core.Adapter) bool {
	if a == b {
		return true
	}
	if a.Type() != b.Type() {
		return false
	}
	eq, ok := a.(core.Equaler)
	return ok && eq.Equal(b)
}

// sideError attributes an untyped failure to the side that produced it.
// Already-typed errors pass through unchanged so callers keep their kind.
func sideError(err error, backend, side string) error {
	var fsErr vfserrors.FSError
	if vfserrors.As(err, &fsErr) {
		return fsErr
	}
	return vfserrors.WithContext(vfserrors.AdapterError(backend, err), "side", side)
}
