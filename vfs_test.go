package vfs

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmgilman/go/vfs/core"
	vfserrors "github.com/jmgilman/go/vfs/errors"
)

func TestPathValidation_RejectsBeforeBackend(t *testing.T) {
	tests := []struct {
		name string
		path string
		code vfserrors.ErrorCode
	}{
		{"absolute", "/etc/passwd", vfserrors.CodeAbsolutePath},
		{"absolute backslash", "\\windows\\system32", vfserrors.CodeAbsolutePath},
		{"traversal", "../secret.txt", vfserrors.CodePathTraversal},
		{"traversal escaping root", "a/../../secret.txt", vfserrors.CodePathTraversal},
	}

	ctx := context.Background()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := newFake("fake")
			filesystem := New(fake)

			err := filesystem.Write(ctx, tt.path, []byte("data"), core.WriteOptions{})
			assert.Equal(t, tt.code, vfserrors.GetCode(err))

			_, err = filesystem.Read(ctx, tt.path)
			assert.Equal(t, tt.code, vfserrors.GetCode(err))

			err = filesystem.Delete(ctx, tt.path)
			assert.Equal(t, tt.code, vfserrors.GetCode(err))

			assert.Empty(t, fake.calls, "backend must never see an invalid path")
		})
	}
}

func TestPathValidation_MoveChecksBothSides(t *testing.T) {
	ctx := context.Background()
	fake := newFake("fake")
	fake.files["src.txt"] = []byte("data")
	filesystem := New(fake)

	err := filesystem.Move(ctx, "src.txt", "../escape.txt", core.WriteOptions{})
	assert.Equal(t, vfserrors.CodePathTraversal, vfserrors.GetCode(err))
	assert.Empty(t, fake.calls)
}

func TestPathNormalization_BackendSeesCanonicalForm(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"dir\\file.txt", "dir/file.txt"},
		{"./a//b.txt", "a/b.txt"},
		{"a/../b.txt", "b.txt"},
	}

	ctx := context.Background()
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			fake := newFake("fake")
			filesystem := New(fake)

			require.NoError(t, filesystem.Write(ctx, tt.raw, []byte("data"), core.WriteOptions{}))
			require.Len(t, fake.calls, 1)
			assert.Equal(t, tt.want, fake.calls[0].Path)
		})
	}
}

func TestCapabilityGate_StructurallyMissing(t *testing.T) {
	ctx := context.Background()
	fake := newFake("fake")
	filesystem := New(fake)

	_, err := filesystem.Stat(ctx, "file.txt")
	assert.Equal(t, vfserrors.CodeUnsupportedOperation, vfserrors.GetCode(err))

	_, err = filesystem.ReadStream(ctx, "file.txt", core.ReadOptions{})
	assert.Equal(t, vfserrors.CodeUnsupportedOperation, vfserrors.GetCode(err))

	err = filesystem.Append(ctx, "file.txt", []byte("x"))
	assert.Equal(t, vfserrors.CodeUnsupportedOperation, vfserrors.GetCode(err))

	err = filesystem.Truncate(ctx, "file.txt", 0)
	assert.Equal(t, vfserrors.CodeUnsupportedOperation, vfserrors.GetCode(err))

	err = filesystem.Chtimes(ctx, "file.txt", time.Now(), time.Now())
	assert.Equal(t, vfserrors.CodeUnsupportedOperation, vfserrors.GetCode(err))

	err = filesystem.SetVisibility(ctx, "file.txt", core.VisibilityPublic)
	assert.Equal(t, vfserrors.CodeUnsupportedOperation, vfserrors.GetCode(err))

	err = filesystem.Access(ctx, "file.txt", core.AccessRead)
	assert.Equal(t, vfserrors.CodeUnsupportedOperation, vfserrors.GetCode(err))

	assert.Empty(t, fake.calls, "unsupported operations must never reach the backend")
}

func TestCapabilityGate_DeclaredUnsupportedWins(t *testing.T) {
	ctx := context.Background()
	fake := newStreamFake("fake")
	fake.unsupported = []core.Operation{core.OpReadStream}
	fake.files["file.txt"] = []byte("data")
	filesystem := New(fake)

	// Structurally present but disabled by policy.
	assert.False(t, filesystem.Supports(core.OpReadStream))
	_, err := filesystem.ReadStream(ctx, "file.txt", core.ReadOptions{})
	assert.Equal(t, vfserrors.CodeUnsupportedOperation, vfserrors.GetCode(err))
	assert.Empty(t, fake.calls)

	// Sibling capability from the same interface stays live.
	assert.True(t, filesystem.Supports(core.OpWriteStream))
}

func TestSupports_RequiredOperationsAlwaysTrue(t *testing.T) {
	filesystem := New(newFake("fake"))

	for _, op := range []core.Operation{
		core.OpWrite, core.OpRead, core.OpDelete, core.OpMove, core.OpCopy,
		core.OpFileExists, core.OpListContents, core.OpCreateDirectory,
		core.OpDeleteDirectory, core.OpClear,
	} {
		assert.True(t, filesystem.Supports(op), "required op %s", op)
	}
	for _, op := range []core.Operation{
		core.OpReadStream, core.OpStat, core.OpAppend, core.OpCommit,
	} {
		assert.False(t, filesystem.Supports(op), "optional op %s", op)
	}
}

func TestSetVisibility_RejectsInvalidValue(t *testing.T) {
	ctx := context.Background()
	fake := newFake("fake")
	filesystem := New(fake)

	err := filesystem.SetVisibility(ctx, "file.txt", core.Visibility("banana"))
	assert.Equal(t, vfserrors.CodeInvalidPath, vfserrors.GetCode(err))
	assert.Empty(t, fake.calls)

	// The context names the offending field, not a path.
	var fsErr vfserrors.FSError
	require.True(t, vfserrors.As(err, &fsErr))
	assert.Equal(t, "banana", fsErr.Context()["visibility"])
	assert.NotContains(t, fsErr.Context(), "path")
}

func TestErrors_TypedBackendErrorPassesThroughOnce(t *testing.T) {
	ctx := context.Background()
	fake := newFake("fake")
	original := vfserrors.PermissionDenied("file.txt", "read")
	fake.errs[core.OpRead] = original
	filesystem := New(fake)

	_, err := filesystem.Read(ctx, "file.txt")
	require.Error(t, err)
	assert.Equal(t, vfserrors.CodePermissionDenied, vfserrors.GetCode(err))
	// Convert is idempotent: the backend's typed error comes back as-is.
	assert.Equal(t, original, err)
}

func TestErrors_UntypedBackendErrorConverted(t *testing.T) {
	ctx := context.Background()
	fake := newFake("fake")
	cause := errors.New("connection reset")
	fake.errs[core.OpRead] = cause
	filesystem := New(fake)

	_, err := filesystem.Read(ctx, "file.txt")
	require.Error(t, err)
	assert.Equal(t, vfserrors.CodeUnknown, vfserrors.GetCode(err))
	assert.ErrorIs(t, err, cause)
}

func TestErrors_StdlibSentinelsMapped(t *testing.T) {
	ctx := context.Background()
	fake := newFake("fake")
	fake.errs[core.OpRead] = &fs.PathError{Op: "open", Path: "file.txt", Err: fs.ErrNotExist}
	filesystem := New(fake)

	_, err := filesystem.Read(ctx, "file.txt")
	require.Error(t, err)
	assert.True(t, vfserrors.IsNotFound(err))
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestLogger_FailuresAreLogged(t *testing.T) {
	ctx := context.Background()
	fake := newFake("loud")
	fake.errs[core.OpDelete] = errors.New("boom")

	var buf bytes.Buffer
	filesystem := New(fake, WithLogger(slog.New(slog.NewTextHandler(&buf, nil))))

	err := filesystem.Delete(ctx, "file.txt")
	require.Error(t, err)
	assert.Contains(t, buf.String(), "operation failed")
	assert.Contains(t, buf.String(), "backend=loud")
	assert.Contains(t, buf.String(), "op=delete")
}

func TestDirectoryIntent_MarkerAppliedBeforeBackend(t *testing.T) {
	ctx := context.Background()
	fake := newFake("fake")
	filesystem := New(fake)

	require.NoError(t, filesystem.CreateDirectory(ctx, "nested/dir", core.WriteOptions{}))
	require.NoError(t, filesystem.DeleteDirectory(ctx, "nested/dir", true))

	require.Len(t, fake.calls, 2)
	assert.Equal(t, "nested/dir/", fake.calls[0].Path)
	assert.Equal(t, "nested/dir/", fake.calls[1].Path)
}

func TestChunkSize_Resolution(t *testing.T) {
	fake := newFake("fake")

	filesystem := New(fake)
	assert.Equal(t, DefaultChunkSize, filesystem.effectiveChunkSize(core.WriteOptions{}))

	filesystem = New(fake, WithChunkSize(4096))
	assert.Equal(t, 4096, filesystem.effectiveChunkSize(core.WriteOptions{}))
	assert.Equal(t, 16, filesystem.effectiveChunkSize(core.WriteOptions{ChunkSize: 16}))
	assert.Equal(t, 4096, filesystem.readChunkSize(core.ReadOptions{}))
	assert.Equal(t, 16, filesystem.readChunkSize(core.ReadOptions{ChunkSize: 16}))
}

func TestReadStream_PassesResolvedChunkSize(t *testing.T) {
	ctx := context.Background()
	fake := newStreamFake("fake")
	fake.files["file.txt"] = []byte("data")
	filesystem := New(fake, WithChunkSize(4096))

	r, err := filesystem.ReadStream(ctx, "file.txt", core.ReadOptions{})
	require.NoError(t, err)
	require.NoError(t, r.Close())
	assert.Equal(t, 4096, fake.lastChunk)

	r, err = filesystem.ReadStream(ctx, "file.txt", core.ReadOptions{ChunkSize: 7})
	require.NoError(t, err)
	require.NoError(t, r.Close())
	assert.Equal(t, 7, fake.lastChunk)
}

func TestAdapter_EscapeHatch(t *testing.T) {
	fake := newFake("fake")
	filesystem := New(fake)
	assert.Same(t, fake, filesystem.Adapter())
}
