package vfstest

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	vfs "github.com/jmgilman/go/vfs"
	"github.com/jmgilman/go/vfs/core"
	vfserrors "github.com/jmgilman/go/vfs/errors"
)

// testCapabilities exercises optional operations when the adapter supports
// them and verifies the typed refusal when it does not.
func testCapabilities(t *testing.T, fs *vfs.FS, config Config) {
	ctx := context.Background()

	t.Run("Streams", func(t *testing.T) {
		if !fs.Supports(core.OpReadStream) || !fs.Supports(core.OpWriteStream) {
			t.Skip("streaming not supported")
		}
		payload := strings.Repeat("stream-chunk-", 1024)
		if err := fs.WriteStream(ctx, "streamed.txt", strings.NewReader(payload), writeOpts()); err != nil {
			t.Fatalf("WriteStream: %v", err)
		}
		r, err := fs.ReadStream(ctx, "streamed.txt", core.ReadOptions{})
		if err != nil {
			t.Fatalf("ReadStream: %v", err)
		}
		defer func() { _ = r.Close() }()
		data, err := io.ReadAll(r)
		if err != nil {
			t.Fatalf("ReadAll: %v", err)
		}
		if string(data) != payload {
			t.Fatalf("ReadStream: round trip mismatch (%d bytes vs %d)", len(data), len(payload))
		}
	})

	t.Run("Append", func(t *testing.T) {
		if !fs.Supports(core.OpAppend) {
			assertUnsupported(t, fs.Append(ctx, "appended.txt", []byte("x")))
			return
		}
		if err := fs.Append(ctx, "appended.txt", []byte("first-")); err != nil {
			t.Fatalf("Append (create): %v", err)
		}
		if err := fs.Append(ctx, "appended.txt", []byte("second")); err != nil {
			t.Fatalf("Append (extend): %v", err)
		}
		data, err := fs.Read(ctx, "appended.txt")
		if err != nil {
			t.Fatalf("Read: %v", err)
		}
		if string(data) != "first-second" {
			t.Fatalf("Read after append: got %q, want %q", data, "first-second")
		}
	})

	t.Run("Truncate", func(t *testing.T) {
		if !fs.Supports(core.OpTruncate) {
			assertUnsupported(t, fs.Truncate(ctx, "any.txt", 0))
			return
		}
		if err := fs.Write(ctx, "trunc.txt", []byte("0123456789"), writeOpts()); err != nil {
			t.Fatalf("Write: %v", err)
		}
		if err := fs.Truncate(ctx, "trunc.txt", 4); err != nil {
			t.Fatalf("Truncate: %v", err)
		}
		data, err := fs.Read(ctx, "trunc.txt")
		if err != nil {
			t.Fatalf("Read: %v", err)
		}
		if !bytes.Equal(data, []byte("0123")) {
			t.Fatalf("Read after truncate: got %q, want %q", data, "0123")
		}
	})

	t.Run("Chtimes", func(t *testing.T) {
		if !fs.Supports(core.OpUtime) {
			assertUnsupported(t, fs.Chtimes(ctx, "any.txt", time.Now(), time.Now()))
			return
		}
		if !fs.Supports(core.OpStat) {
			t.Skip("no stat to read the time back")
		}
		if err := fs.Write(ctx, "times.txt", []byte("x"), writeOpts()); err != nil {
			t.Fatalf("Write: %v", err)
		}
		mtime := time.Date(2024, 6, 15, 10, 30, 0, 0, time.UTC)
		if err := fs.Chtimes(ctx, "times.txt", mtime, mtime); err != nil {
			t.Fatalf("Chtimes: %v", err)
		}
		stat, err := fs.Stat(ctx, "times.txt")
		if err != nil {
			t.Fatalf("Stat: %v", err)
		}
		if !stat.ModTime.Truncate(time.Second).Equal(mtime) {
			t.Fatalf("Stat after Chtimes: got mtime %v, want %v", stat.ModTime, mtime)
		}
	})

	t.Run("Visibility", func(t *testing.T) {
		if !fs.Supports(core.OpSetVisibility) || !fs.Supports(core.OpVisibility) {
			assertUnsupported(t, fs.SetVisibility(ctx, "any.txt", core.VisibilityPrivate))
			return
		}
		if err := fs.Write(ctx, "vis.txt", []byte("x"), core.WriteOptions{Visibility: core.VisibilityPrivate}); err != nil {
			t.Fatalf("Write: %v", err)
		}
		v, err := fs.Visibility(ctx, "vis.txt")
		if err != nil {
			t.Fatalf("Visibility: %v", err)
		}
		if v != core.VisibilityPrivate {
			t.Fatalf("Visibility after private write: got %s, want %s", v, core.VisibilityPrivate)
		}
		if err := fs.SetVisibility(ctx, "vis.txt", core.VisibilityPublic); err != nil {
			t.Fatalf("SetVisibility: %v", err)
		}
		v, err = fs.Visibility(ctx, "vis.txt")
		if err != nil {
			t.Fatalf("Visibility: %v", err)
		}
		if v != core.VisibilityPublic {
			t.Fatalf("Visibility after flip: got %s, want %s", v, core.VisibilityPublic)
		}
	})

	t.Run("Stat", func(t *testing.T) {
		if !fs.Supports(core.OpStat) {
			_, err := fs.Stat(ctx, "any.txt")
			assertUnsupported(t, err)
			return
		}
		if err := fs.Write(ctx, "stat.txt", []byte("12345"), writeOpts()); err != nil {
			t.Fatalf("Write: %v", err)
		}
		stat, err := fs.Stat(ctx, "stat.txt")
		if err != nil {
			t.Fatalf("Stat: %v", err)
		}
		if stat.Size != 5 {
			t.Fatalf("Stat: got size %d, want 5", stat.Size)
		}
		if stat.IsDir() {
			t.Fatal("Stat: file reported as directory")
		}
	})

	t.Run("Access", func(t *testing.T) {
		if !fs.Supports(core.OpAccess) {
			assertUnsupported(t, fs.Access(ctx, "any.txt", core.AccessExist))
			return
		}
		if err := fs.Write(ctx, "access.txt", []byte("x"), writeOpts()); err != nil {
			t.Fatalf("Write: %v", err)
		}
		if err := fs.Access(ctx, "access.txt", core.AccessExist|core.AccessRead); err != nil {
			t.Fatalf("Access: %v", err)
		}
	})
}

func assertUnsupported(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("unsupported operation succeeded")
	}
	if code := vfserrors.GetCode(err); code != vfserrors.CodeUnsupportedOperation {
		t.Fatalf("unsupported operation: got code %s, want %s", code, vfserrors.CodeUnsupportedOperation)
	}
}
