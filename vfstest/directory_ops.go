package vfstest

import (
	"context"
	"testing"

	vfs "github.com/jmgilman/go/vfs"
	"github.com/jmgilman/go/vfs/core"
	vfserrors "github.com/jmgilman/go/vfs/errors"
)

// testDirectories exercises directory creation, listing, and deletion.
func testDirectories(t *testing.T, fs *vfs.FS, config Config) {
	ctx := context.Background()

	t.Run("CreateAndList", func(t *testing.T) {
		if err := fs.CreateDirectory(ctx, "docs", writeOpts()); err != nil {
			t.Fatalf("CreateDirectory: %v", err)
		}
		if err := fs.Write(ctx, "docs/a.txt", []byte("a"), writeOpts()); err != nil {
			t.Fatalf("Write: %v", err)
		}
		if err := fs.Write(ctx, "docs/b.txt", []byte("b"), writeOpts()); err != nil {
			t.Fatalf("Write: %v", err)
		}

		entries, err := fs.ListContents(ctx, "docs")
		if err != nil {
			t.Fatalf("ListContents: %v", err)
		}
		names := make(map[string]core.Stat, len(entries))
		for _, entry := range entries {
			names[entry.Name] = entry
		}
		for _, want := range []string{"docs/a.txt", "docs/b.txt"} {
			entry, ok := names[want]
			if !ok {
				t.Fatalf("ListContents: entry %s missing from %v", want, entries)
			}
			if entry.IsDir() {
				t.Fatalf("ListContents: %s reported as directory", want)
			}
		}
	})

	t.Run("ListMissing", func(t *testing.T) {
		_, err := fs.ListContents(ctx, "no-such-dir")
		if err == nil {
			t.Fatal("ListContents of missing directory succeeded")
		}
		if !vfserrors.IsNotFound(err) {
			t.Fatalf("ListContents of missing directory: got code %s, want a not-found class", vfserrors.GetCode(err))
		}
	})

	t.Run("DeleteEmpty", func(t *testing.T) {
		if err := fs.CreateDirectory(ctx, "empty-dir", writeOpts()); err != nil {
			t.Fatalf("CreateDirectory: %v", err)
		}
		if err := fs.DeleteDirectory(ctx, "empty-dir", false); err != nil {
			t.Fatalf("DeleteDirectory: %v", err)
		}
	})

	t.Run("DeleteNonEmpty", func(t *testing.T) {
		if err := fs.Write(ctx, "full-dir/file.txt", []byte("x"), writeOpts()); err != nil {
			t.Fatalf("Write: %v", err)
		}
		err := fs.DeleteDirectory(ctx, "full-dir", false)
		if err == nil {
			t.Fatal("DeleteDirectory of non-empty directory succeeded without recursion")
		}
		if code := vfserrors.GetCode(err); code != vfserrors.CodeDirectoryNotEmpty {
			t.Fatalf("DeleteDirectory: got code %s, want %s", code, vfserrors.CodeDirectoryNotEmpty)
		}

		if err := fs.DeleteDirectory(ctx, "full-dir", true); err != nil {
			t.Fatalf("DeleteDirectory (recursive): %v", err)
		}
		exists, err := fs.FileExists(ctx, "full-dir/file.txt")
		if err != nil {
			t.Fatalf("FileExists: %v", err)
		}
		if exists {
			t.Fatal("DeleteDirectory (recursive): contents survived")
		}
	})

	t.Run("ListNested", func(t *testing.T) {
		if config.VirtualDirectories {
			t.Skip("virtual directories do not guarantee empty-directory listings")
		}
		if err := fs.CreateDirectory(ctx, "outer/inner", writeOpts()); err != nil {
			t.Fatalf("CreateDirectory: %v", err)
		}
		entries, err := fs.ListContents(ctx, "outer")
		if err != nil {
			t.Fatalf("ListContents: %v", err)
		}
		if len(entries) != 1 || !entries[0].IsDir() {
			t.Fatalf("ListContents: got %v, want a single directory entry", entries)
		}
	})
}

// testPathValidation verifies paths are rejected before any backend I/O.
func testPathValidation(t *testing.T, fs *vfs.FS, config Config) {
	ctx := context.Background()

	t.Run("Absolute", func(t *testing.T) {
		err := fs.Write(ctx, "/etc/passwd", []byte("x"), writeOpts())
		if code := vfserrors.GetCode(err); code != vfserrors.CodeAbsolutePath {
			t.Fatalf("Write with absolute path: got code %s, want %s", code, vfserrors.CodeAbsolutePath)
		}
	})

	t.Run("Traversal", func(t *testing.T) {
		_, err := fs.Read(ctx, "../outside.txt")
		if code := vfserrors.GetCode(err); code != vfserrors.CodePathTraversal {
			t.Fatalf("Read with traversal path: got code %s, want %s", code, vfserrors.CodePathTraversal)
		}
	})

	t.Run("InternalDotDot", func(t *testing.T) {
		// "a/../b.txt" resolves inside the root and must be accepted.
		if err := fs.Write(ctx, "a/../resolved.txt", []byte("x"), writeOpts()); err != nil {
			t.Fatalf("Write with internal ..: %v", err)
		}
		data, err := fs.Read(ctx, "resolved.txt")
		if err != nil {
			t.Fatalf("Read at resolved path: %v", err)
		}
		if string(data) != "x" {
			t.Fatalf("Read: got %q, want %q", data, "x")
		}
	})

	t.Run("Backslashes", func(t *testing.T) {
		if err := fs.Write(ctx, "win\\style.txt", []byte("x"), writeOpts()); err != nil {
			t.Fatalf("Write with backslash separator: %v", err)
		}
		data, err := fs.Read(ctx, "win/style.txt")
		if err != nil {
			t.Fatalf("Read at slash-normalized path: %v", err)
		}
		if string(data) != "x" {
			t.Fatalf("Read: got %q, want %q", data, "x")
		}
	})
}
