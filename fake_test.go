package vfs

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/jmgilman/go/vfs/core"
	vfserrors "github.com/jmgilman/go/vfs/errors"
)

// fakeCall records one invocation that reached a fake backend.
type fakeCall struct {
	Op   core.Operation
	Path string
}

// fakeAdapter is a minimal in-memory backend that records every call
// reaching it, so tests can assert exactly what the dispatch layer let
// through. Optional capabilities are layered on by embedding.
type fakeAdapter struct {
	typ         string
	unsupported []core.Operation
	files       map[string][]byte
	calls       []fakeCall
	errs        map[core.Operation]error
}

func newFake(typ string) *fakeAdapter {
	return &fakeAdapter{
		typ:   typ,
		files: map[string][]byte{},
		errs:  map[core.Operation]error{},
	}
}

func (f *fakeAdapter) record(op core.Operation, path string) error {
	f.calls = append(f.calls, fakeCall{Op: op, Path: path})
	return f.errs[op]
}

// saw reports whether any recorded call used the given operation.
func (f *fakeAdapter) saw(op core.Operation) bool {
	for _, c := range f.calls {
		if c.Op == op {
			return true
		}
	}
	return false
}

func (f *fakeAdapter) Type() string { return f.typ }

func (f *fakeAdapter) UnsupportedOperations() []core.Operation { return f.unsupported }

func (f *fakeAdapter) Write(ctx context.Context, path string, data []byte, opts core.WriteOptions) error {
	if err := f.record(core.OpWrite, path); err != nil {
		return err
	}
	f.files[path] = append([]byte(nil), data...)
	return nil
}

func (f *fakeAdapter) Read(ctx context.Context, path string) ([]byte, error) {
	if err := f.record(core.OpRead, path); err != nil {
		return nil, err
	}
	data, ok := f.files[path]
	if !ok {
		return nil, vfserrors.FileNotFound(path)
	}
	return append([]byte(nil), data...), nil
}

func (f *fakeAdapter) Delete(ctx context.Context, path string) error {
	if err := f.record(core.OpDelete, path); err != nil {
		return err
	}
	if _, ok := f.files[path]; !ok {
		return vfserrors.FileNotFound(path)
	}
	delete(f.files, path)
	return nil
}

func (f *fakeAdapter) Move(ctx context.Context, src, dst string, opts core.WriteOptions) error {
	if err := f.record(core.OpMove, src); err != nil {
		return err
	}
	data, ok := f.files[src]
	if !ok {
		return vfserrors.FileNotFound(src)
	}
	delete(f.files, src)
	f.files[dst] = data
	return nil
}

func (f *fakeAdapter) Copy(ctx context.Context, src, dst string, opts core.WriteOptions) error {
	if err := f.record(core.OpCopy, src); err != nil {
		return err
	}
	data, ok := f.files[src]
	if !ok {
		return vfserrors.FileNotFound(src)
	}
	f.files[dst] = append([]byte(nil), data...)
	return nil
}

func (f *fakeAdapter) FileExists(ctx context.Context, path string) (bool, error) {
	if err := f.record(core.OpFileExists, path); err != nil {
		return false, err
	}
	_, ok := f.files[path]
	return ok, nil
}

func (f *fakeAdapter) ListContents(ctx context.Context, path string) ([]core.Stat, error) {
	if err := f.record(core.OpListContents, path); err != nil {
		return nil, err
	}
	prefix := ""
	if path != "." && path != "" {
		prefix = strings.TrimSuffix(path, "/") + "/"
	}
	var entries []core.Stat
	for name, data := range f.files {
		rest := strings.TrimPrefix(name, prefix)
		if rest == name && prefix != "" {
			continue
		}
		if strings.Contains(rest, "/") {
			continue
		}
		entries = append(entries, core.Stat{Name: name, Size: int64(len(data))})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries, nil
}

func (f *fakeAdapter) CreateDirectory(ctx context.Context, path string, opts core.WriteOptions) error {
	return f.record(core.OpCreateDirectory, path)
}

func (f *fakeAdapter) DeleteDirectory(ctx context.Context, path string, recursive bool) error {
	return f.record(core.OpDeleteDirectory, path)
}

func (f *fakeAdapter) Clear(ctx context.Context) error {
	if err := f.record(core.OpClear, "."); err != nil {
		return err
	}
	f.files = map[string][]byte{}
	return nil
}

// streamFake adds streaming reads and writes and records the chunk size the
// dispatch layer resolved for the call.
type streamFake struct {
	*fakeAdapter
	lastChunk int
}

func newStreamFake(typ string) *streamFake {
	return &streamFake{fakeAdapter: newFake(typ)}
}

func (f *streamFake) ReadStream(ctx context.Context, path string, chunkSize int) (io.ReadCloser, error) {
	f.lastChunk = chunkSize
	if err := f.record(core.OpReadStream, path); err != nil {
		return nil, err
	}
	data, ok := f.files[path]
	if !ok {
		return nil, vfserrors.FileNotFound(path)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (f *streamFake) WriteStream(ctx context.Context, path string, r io.Reader, opts core.WriteOptions) error {
	if err := f.record(core.OpWriteStream, path); err != nil {
		return err
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	f.files[path] = data
	return nil
}

// appendFake extends files in place but cannot stream, forcing the copy
// engine onto its append-chunks drain path. Each append is kept verbatim so
// tests can assert the chunking.
type appendFake struct {
	*fakeAdapter
	appends [][]byte
}

func newAppendFake(typ string) *appendFake {
	return &appendFake{fakeAdapter: newFake(typ)}
}

func (f *appendFake) Append(ctx context.Context, path string, data []byte) error {
	if err := f.record(core.OpAppend, path); err != nil {
		return err
	}
	chunk := append([]byte(nil), data...)
	f.appends = append(f.appends, chunk)
	f.files[path] = append(f.files[path], chunk...)
	return nil
}

// crossFake models an object-store style backend: streaming plus native
// cross-config copy between instances of the same type, with structural
// identity keyed on the bucket name.
type crossFake struct {
	*streamFake
	bucket      string
	acrossErr   error
	acrossCalls int
}

func newCrossFake(typ, bucket string) *crossFake {
	return &crossFake{streamFake: newStreamFake(typ), bucket: bucket}
}

func (f *crossFake) CopyAcross(ctx context.Context, srcPath string, dst core.Adapter, dstPath string, opts core.WriteOptions) error {
	f.acrossCalls++
	if f.acrossErr != nil {
		return f.acrossErr
	}
	other, ok := dst.(*crossFake)
	if !ok {
		return vfserrors.UnsupportedOperation(string(core.OpCopyBetween), f.typ)
	}
	data, found := f.files[srcPath]
	if !found {
		return vfserrors.FileNotFound(srcPath)
	}
	other.files[dstPath] = append([]byte(nil), data...)
	return nil
}

func (f *crossFake) Equal(other core.Adapter) bool {
	o, ok := other.(*crossFake)
	return ok && o.bucket == f.bucket
}

// versionFake snapshots the file map on every commit so revisions can be
// read back and rolled back to. Revisions are returned oldest first, the
// opposite of the order callers are promised, to prove the dispatch layer
// normalizes ordering itself.
type versionFake struct {
	*fakeAdapter
	revisions []core.Revision
	snapshots map[string]map[string][]byte
	rollbacks []string
}

func newVersionFake(typ string) *versionFake {
	return &versionFake{
		fakeAdapter: newFake(typ),
		snapshots:   map[string]map[string][]byte{},
	}
}

// commitAt snapshots current state under a revision with a fixed timestamp,
// letting tests control the time axis.
func (f *versionFake) commitAt(message string, ts time.Time) string {
	sha := fmt.Sprintf("rev-%d", len(f.revisions)+1)
	snap := map[string][]byte{}
	for name, data := range f.files {
		snap[name] = append([]byte(nil), data...)
	}
	f.snapshots[sha] = snap
	f.revisions = append(f.revisions, core.Revision{
		SHA:       sha,
		Message:   message,
		Timestamp: ts,
	})
	return sha
}

func (f *versionFake) Commit(ctx context.Context, message string, opts core.CommitOptions) (string, error) {
	if err := f.record(core.OpCommit, "."); err != nil {
		return "", err
	}
	return f.commitAt(message, time.Now()), nil
}

func (f *versionFake) Revisions(ctx context.Context, path string, opts core.RevisionOptions) ([]core.Revision, error) {
	if err := f.record(core.OpRevisions, path); err != nil {
		return nil, err
	}
	if path == "." {
		return append([]core.Revision(nil), f.revisions...), nil
	}
	var touched []core.Revision
	for _, rev := range f.revisions {
		if _, ok := f.snapshots[rev.SHA][path]; ok {
			touched = append(touched, rev)
		}
	}
	return touched, nil
}

func (f *versionFake) ReadRevision(ctx context.Context, path, sha string) ([]byte, error) {
	if err := f.record(core.OpReadRevision, path); err != nil {
		return nil, err
	}
	snap, ok := f.snapshots[sha]
	if !ok {
		return nil, vfserrors.Newf(vfserrors.CodeFileNotFound, "revision not found: %s", sha)
	}
	data, ok := snap[path]
	if !ok {
		return nil, vfserrors.FileNotFound(path)
	}
	return append([]byte(nil), data...), nil
}

func (f *versionFake) Rollback(ctx context.Context, sha string, opts core.RollbackOptions) error {
	if err := f.record(core.OpRollback, "."); err != nil {
		return err
	}
	snap, ok := f.snapshots[sha]
	if !ok {
		return vfserrors.Newf(vfserrors.CodeFileNotFound, "revision not found: %s", sha)
	}
	restored := map[string][]byte{}
	for name, data := range snap {
		restored[name] = append([]byte(nil), data...)
	}
	f.files = restored
	return nil
}

var (
	_ core.Adapter      = (*fakeAdapter)(nil)
	_ core.StreamReader = (*streamFake)(nil)
	_ core.StreamWriter = (*streamFake)(nil)
	_ core.Appender     = (*appendFake)(nil)
	_ core.CrossCopier  = (*crossFake)(nil)
	_ core.Equaler      = (*crossFake)(nil)
	_ core.Versioner    = (*versionFake)(nil)
)
