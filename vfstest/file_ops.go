package vfstest

import (
	"bytes"
	"context"
	"testing"

	vfs "github.com/jmgilman/go/vfs"
	"github.com/jmgilman/go/vfs/core"
	vfserrors "github.com/jmgilman/go/vfs/errors"
)

// testFiles exercises the required file operations: write, read, exists,
// delete, move, and copy.
func testFiles(t *testing.T, fs *vfs.FS, config Config) {
	ctx := context.Background()

	t.Run("RoundTrip", func(t *testing.T) {
		if err := fs.Write(ctx, "round.txt", []byte("payload"), writeOpts()); err != nil {
			t.Fatalf("Write: %v", err)
		}
		exists, err := fs.FileExists(ctx, "round.txt")
		if err != nil {
			t.Fatalf("FileExists: %v", err)
		}
		if !exists {
			t.Fatal("FileExists: written file reported missing")
		}
		data, err := fs.Read(ctx, "round.txt")
		if err != nil {
			t.Fatalf("Read: %v", err)
		}
		if !bytes.Equal(data, []byte("payload")) {
			t.Fatalf("Read: got %q, want %q", data, "payload")
		}
	})

	t.Run("Overwrite", func(t *testing.T) {
		if err := fs.Write(ctx, "over.txt", []byte("first"), writeOpts()); err != nil {
			t.Fatalf("Write: %v", err)
		}
		if err := fs.Write(ctx, "over.txt", []byte("second"), writeOpts()); err != nil {
			t.Fatalf("Write (overwrite): %v", err)
		}
		data, err := fs.Read(ctx, "over.txt")
		if err != nil {
			t.Fatalf("Read: %v", err)
		}
		if string(data) != "second" {
			t.Fatalf("Read after overwrite: got %q, want %q", data, "second")
		}
	})

	t.Run("ImplicitParents", func(t *testing.T) {
		if err := fs.Write(ctx, "deep/nested/file.txt", []byte("x"), writeOpts()); err != nil {
			t.Fatalf("Write into missing parents: %v", err)
		}
		data, err := fs.Read(ctx, "deep/nested/file.txt")
		if err != nil {
			t.Fatalf("Read: %v", err)
		}
		if string(data) != "x" {
			t.Fatalf("Read: got %q, want %q", data, "x")
		}
	})

	t.Run("ReadMissing", func(t *testing.T) {
		_, err := fs.Read(ctx, "no-such-file.txt")
		if err == nil {
			t.Fatal("Read of missing file succeeded")
		}
		if !vfserrors.IsNotFound(err) {
			t.Fatalf("Read of missing file: got code %s, want a not-found class", vfserrors.GetCode(err))
		}
	})

	t.Run("Delete", func(t *testing.T) {
		if err := fs.Write(ctx, "doomed.txt", []byte("x"), writeOpts()); err != nil {
			t.Fatalf("Write: %v", err)
		}
		if err := fs.Delete(ctx, "doomed.txt"); err != nil {
			t.Fatalf("Delete: %v", err)
		}
		exists, err := fs.FileExists(ctx, "doomed.txt")
		if err != nil {
			t.Fatalf("FileExists: %v", err)
		}
		if exists {
			t.Fatal("FileExists: deleted file still reported present")
		}
	})

	t.Run("DeleteMissing", func(t *testing.T) {
		err := fs.Delete(ctx, "never-existed.txt")
		if err == nil {
			t.Fatal("Delete of missing file succeeded")
		}
		if !vfserrors.IsNotFound(err) {
			t.Fatalf("Delete of missing file: got code %s, want a not-found class", vfserrors.GetCode(err))
		}
	})

	t.Run("Move", func(t *testing.T) {
		if err := fs.Write(ctx, "move-src.txt", []byte("moving"), writeOpts()); err != nil {
			t.Fatalf("Write: %v", err)
		}
		if err := fs.Move(ctx, "move-src.txt", "moved/dst.txt", writeOpts()); err != nil {
			t.Fatalf("Move: %v", err)
		}
		exists, err := fs.FileExists(ctx, "move-src.txt")
		if err != nil {
			t.Fatalf("FileExists: %v", err)
		}
		if exists {
			t.Fatal("Move: source still present")
		}
		data, err := fs.Read(ctx, "moved/dst.txt")
		if err != nil {
			t.Fatalf("Read: %v", err)
		}
		if string(data) != "moving" {
			t.Fatalf("Read after move: got %q, want %q", data, "moving")
		}
	})

	t.Run("Copy", func(t *testing.T) {
		if err := fs.Write(ctx, "copy-src.txt", []byte("copied"), writeOpts()); err != nil {
			t.Fatalf("Write: %v", err)
		}
		if err := fs.Copy(ctx, "copy-src.txt", "copy-dst.txt", writeOpts()); err != nil {
			t.Fatalf("Copy: %v", err)
		}
		for _, path := range []string{"copy-src.txt", "copy-dst.txt"} {
			data, err := fs.Read(ctx, path)
			if err != nil {
				t.Fatalf("Read(%s): %v", path, err)
			}
			if string(data) != "copied" {
				t.Fatalf("Read(%s): got %q, want %q", path, data, "copied")
			}
		}
	})

	t.Run("Clear", func(t *testing.T) {
		if err := fs.Write(ctx, "clear/a.txt", []byte("a"), writeOpts()); err != nil {
			t.Fatalf("Write: %v", err)
		}
		if err := fs.Clear(ctx); err != nil {
			t.Fatalf("Clear: %v", err)
		}
		exists, err := fs.FileExists(ctx, "clear/a.txt")
		if err != nil {
			t.Fatalf("FileExists: %v", err)
		}
		if exists {
			t.Fatal("Clear: file survived")
		}
	})
}

func writeOpts() core.WriteOptions {
	return core.WriteOptions{}
}
