package vfs

import (
	"context"
	"sort"

	"github.com/jmgilman/go/vfs/core"
	vfserrors "github.com/jmgilman/go/vfs/errors"
	"github.com/jmgilman/go/vfs/internal/pathutil"
)

// versioner resolves the backend's versioning implementation for the given
// operation. Resolution goes through the capability registry, so a backend
// that binds the Versioner interface but disables an operation by policy is
// refused here, before the backend is touched.
func (f *FS) versioner(op core.Operation) (core.Versioner, error) {
	if !core.Supports(f.adapter, op) {
		return nil, vfserrors.UnsupportedOperation(string(op), f.adapter.Type())
	}
	return f.adapter.(core.Versioner), nil
}

// Commit records the current backend state and returns the new revision's
// identifier.
func (f *FS) Commit(ctx context.Context, message string, opts core.CommitOptions) (string, error) {
	v, err := f.versioner(core.OpCommit)
	if err != nil {
		return "", err
	}
	sha, err := v.Commit(ctx, message, opts)
	if err != nil {
		return "", f.fail(ctx, core.OpCommit, pathutil.Root, err)
	}
	f.done(ctx, core.OpCommit, pathutil.Root)
	return sha, nil
}

// Revisions lists the revisions that touched path, most recent first.
// Limit, since and until filtering is applied here, uniformly across
// backends, after the backend returns its natural records.
func (f *FS) Revisions(ctx context.Context, path string, opts core.RevisionOptions) ([]core.Revision, error) {
	p, err := f.normalize(path)
	if err != nil {
		return nil, err
	}
	v, err := f.versioner(core.OpRevisions)
	if err != nil {
		return nil, err
	}
	revisions, err := v.Revisions(ctx, p, opts)
	if err != nil {
		return nil, f.fail(ctx, core.OpRevisions, p, err)
	}
	f.done(ctx, core.OpRevisions, p)
	return filterRevisions(revisions, opts), nil
}

// ReadRevision returns the contents of path as of the given revision.
func (f *FS) ReadRevision(ctx context.Context, path, sha string) ([]byte, error) {
	p, err := f.normalize(path)
	if err != nil {
		return nil, err
	}
	v, err := f.versioner(core.OpReadRevision)
	if err != nil {
		return nil, err
	}
	data, err := v.ReadRevision(ctx, p, sha)
	if err != nil {
		return nil, f.fail(ctx, core.OpReadRevision, p, err)
	}
	f.done(ctx, core.OpReadRevision, p)
	return data, nil
}

// Rollback restores state to the given revision. With a Path option only the
// named path is restored: its content at the revision is read and written
// back through the ordinary write path, so backends never need native
// path-scoped rollback. Without one the entire backend state is restored.
func (f *FS) Rollback(ctx context.Context, sha string, opts core.RollbackOptions) error {
	if opts.Path != "" {
		p, err := f.normalize(opts.Path)
		if err != nil {
			return err
		}
		v, err := f.versioner(core.OpReadRevision)
		if err != nil {
			return err
		}
		if err := f.require(core.OpRollback); err != nil {
			return err
		}
		data, err := v.ReadRevision(ctx, p, sha)
		if err != nil {
			return f.fail(ctx, core.OpRollback, p, err)
		}
		return f.Write(ctx, p, data, core.WriteOptions{})
	}

	v, err := f.versioner(core.OpRollback)
	if err != nil {
		return err
	}
	if err := v.Rollback(ctx, sha, opts); err != nil {
		return f.fail(ctx, core.OpRollback, pathutil.Root, err)
	}
	f.done(ctx, core.OpRollback, pathutil.Root)
	return nil
}

// filterRevisions normalizes ordering to most-recent-first and applies the
// uniform limit/since/until semantics.
func filterRevisions(revisions []core.Revision, opts core.RevisionOptions) []core.Revision {
	sorted := make([]core.Revision, len(revisions))
	copy(sorted, revisions)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.After(sorted[j].Timestamp)
	})

	filtered := sorted[:0]
	for _, rev := range sorted {
		if !opts.Since.IsZero() && !rev.Timestamp.After(opts.Since) {
			continue
		}
		if !opts.Until.IsZero() && rev.Timestamp.After(opts.Until) {
			continue
		}
		filtered = append(filtered, rev)
	}

	if opts.Limit > 0 && len(filtered) > opts.Limit {
		filtered = filtered[:opts.Limit]
	}
	return filtered
}
