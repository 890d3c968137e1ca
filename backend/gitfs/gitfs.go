// Package gitfs adapts a git worktree and exposes the repository's history
// as revisions. File operations run against the worktree filesystem; Commit
// snapshots the entire worktree, Revisions walks the log, and Rollback hard
// resets to a prior commit.
package gitfs

import (
	"context"
	"errors"
	"io"
	"os"
	"strings"
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/cache"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/storage/filesystem"

	"github.com/jmgilman/go/vfs/core"
	vfserrors "github.com/jmgilman/go/vfs/errors"
	"github.com/jmgilman/go/vfs/internal/billyfs"
	"github.com/jmgilman/go/vfs/internal/pathutil"
)

// Type identifies this backend.
const Type = "git"

// Adapter serves files from a git worktree.
type Adapter struct {
	billyfs.Common
	repo          *gogit.Repository
	defaultAuthor string
	defaultEmail  string
}

type settings struct {
	fs     billy.Filesystem
	author string
	email  string
}

// Option configures adapter creation.
type Option func(*settings)

// WithBilly uses the given filesystem as the worktree root instead of the
// local disk. Pass a memfs for tests.
func WithBilly(fs billy.Filesystem) Option {
	return func(s *settings) {
		s.fs = fs
	}
}

// WithAuthor sets the default commit author used when a commit carries none.
func WithAuthor(name, email string) Option {
	return func(s *settings) {
		s.author = name
		s.email = email
	}
}

// New opens the repository rooted at path, initializing a fresh one when
// none exists. The repository storage lives in ".git" beside the worktree.
func New(path string, opts ...Option) (*Adapter, error) {
	s := settings{author: "vfs", email: "vfs@localhost"}
	for _, opt := range opts {
		opt(&s)
	}

	wt := s.fs
	if wt == nil {
		if path == "" {
			return nil, vfserrors.InvalidPath(path, "worktree directory must not be empty")
		}
		if err := os.MkdirAll(path, 0o755); err != nil {
			return nil, vfserrors.AdapterError(Type, err)
		}
		wt = osfs.New(path)
	}

	dotGit, err := wt.Chroot(".git")
	if err != nil {
		return nil, vfserrors.AdapterError(Type, err)
	}
	storage := filesystem.NewStorage(dotGit, cache.NewObjectLRUDefault())

	repo, err := gogit.Open(storage, wt)
	if errors.Is(err, gogit.ErrRepositoryNotExists) {
		repo, err = gogit.Init(storage, wt)
	}
	if err != nil {
		return nil, vfserrors.AdapterError(Type, err)
	}

	return &Adapter{
		Common:        billyfs.Common{Bfs: wt},
		repo:          repo,
		defaultAuthor: s.author,
		defaultEmail:  s.email,
	}, nil
}

// Repository returns the underlying go-git repository.
func (a *Adapter) Repository() *gogit.Repository {
	return a.repo
}

// Type returns the backend type identifier.
func (a *Adapter) Type() string {
	return Type
}

// UnsupportedOperations returns nothing; what the worktree cannot do is
// structurally absent.
func (a *Adapter) UnsupportedOperations() []core.Operation {
	return nil
}

// guard rejects paths that address the repository's own storage.
func guard(p string) error {
	t := pathutil.TrimDirectory(p)
	if t == ".git" || strings.HasPrefix(t, ".git/") {
		return vfserrors.InvalidPath(t, "repository metadata is not addressable")
	}
	return nil
}

// Write stores data at path in the worktree.
func (a *Adapter) Write(ctx context.Context, path string, data []byte, opts core.WriteOptions) error {
	if err := guard(path); err != nil {
		return err
	}
	return a.WriteFile(path, data, 0o644, 0o755)
}

// Read returns the full contents of the file at path.
func (a *Adapter) Read(ctx context.Context, path string) ([]byte, error) {
	if err := guard(path); err != nil {
		return nil, err
	}
	return a.ReadFile(path)
}

// ReadStream opens the file at path for sequential reading.
func (a *Adapter) ReadStream(ctx context.Context, path string, chunkSize int) (io.ReadCloser, error) {
	if err := guard(path); err != nil {
		return nil, err
	}
	return a.OpenRead(path)
}

// WriteStream stores the contents of r at path.
func (a *Adapter) WriteStream(ctx context.Context, path string, r io.Reader, opts core.WriteOptions) error {
	if err := guard(path); err != nil {
		return err
	}
	return a.WriteStreamFile(path, r, 0o644, 0o755, opts.ChunkSize)
}

// Delete removes the file at path from the worktree.
func (a *Adapter) Delete(ctx context.Context, path string) error {
	if err := guard(path); err != nil {
		return err
	}
	return a.RemoveFile(path)
}

// Move renames src to dst within the worktree.
func (a *Adapter) Move(ctx context.Context, src, dst string, opts core.WriteOptions) error {
	if err := guard(src); err != nil {
		return err
	}
	if err := guard(dst); err != nil {
		return err
	}
	return a.Rename(src, dst, 0o755)
}

// Copy duplicates src to dst within the worktree.
func (a *Adapter) Copy(ctx context.Context, src, dst string, opts core.WriteOptions) error {
	if err := guard(src); err != nil {
		return err
	}
	if err := guard(dst); err != nil {
		return err
	}
	info, err := a.StatEntry(src)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return vfserrors.InvalidPath(pathutil.TrimDirectory(src), "path is a directory, not a file")
	}
	r, err := a.OpenRead(src)
	if err != nil {
		return err
	}
	defer func() { _ = r.Close() }()
	return a.WriteStreamFile(dst, r, 0o644, 0o755, opts.ChunkSize)
}

// FileExists reports whether a regular file exists at path.
func (a *Adapter) FileExists(ctx context.Context, path string) (bool, error) {
	if err := guard(path); err != nil {
		return false, err
	}
	info, err := a.StatEntry(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return !info.IsDir(), nil
}

// ListContents returns the immediate children of the directory at path,
// hiding the repository storage at the root.
func (a *Adapter) ListContents(ctx context.Context, path string) ([]core.Stat, error) {
	if err := guard(path); err != nil {
		return nil, err
	}
	infos, err := a.List(path)
	if err != nil {
		return nil, err
	}
	atRoot := pathutil.IsRoot(pathutil.TrimDirectory(path))
	stats := make([]core.Stat, 0, len(infos))
	for _, info := range infos {
		if atRoot && info.Name() == ".git" {
			continue
		}
		stats = append(stats, core.StatFromFileInfo(pathutil.Join(path, info.Name()), info))
	}
	return stats, nil
}

// CreateDirectory creates the directory at path in the worktree. Git does
// not track empty directories, but the worktree filesystem does.
func (a *Adapter) CreateDirectory(ctx context.Context, path string, opts core.WriteOptions) error {
	if err := guard(path); err != nil {
		return err
	}
	return a.MkdirAll(path, 0o755)
}

// DeleteDirectory removes the directory at path from the worktree.
func (a *Adapter) DeleteDirectory(ctx context.Context, path string, recursive bool) error {
	if err := guard(path); err != nil {
		return err
	}
	return a.RemoveDir(path, recursive)
}

// Clear removes every worktree entry while leaving the repository storage
// untouched.
func (a *Adapter) Clear(ctx context.Context) error {
	entries, err := a.Bfs.ReadDir(pathutil.Root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	for _, entry := range entries {
		if entry.Name() == ".git" {
			continue
		}
		if err := a.RemoveTree(entry.Name()); err != nil {
			return err
		}
	}
	return nil
}

// Stat returns metadata for the worktree entry at path.
func (a *Adapter) Stat(ctx context.Context, path string) (core.Stat, error) {
	if err := guard(path); err != nil {
		return core.Stat{}, err
	}
	info, err := a.StatEntry(path)
	if err != nil {
		return core.Stat{}, err
	}
	return core.StatFromFileInfo(pathutil.TrimDirectory(path), info), nil
}

// Append extends the file at path. The worktree may be in-memory, where
// append handles are unreliable, so this reads and rewrites.
func (a *Adapter) Append(ctx context.Context, path string, data []byte) error {
	if err := guard(path); err != nil {
		return err
	}
	existing, err := a.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return a.WriteFile(path, append(existing, data...), 0o644, 0o755)
}

// Truncate resizes the file at path in place.
func (a *Adapter) Truncate(ctx context.Context, path string, size int64) error {
	if err := guard(path); err != nil {
		return err
	}
	return a.TruncateFile(path, size)
}

// Commit stages the entire worktree and records a commit, returning its
// hash. A clean worktree still commits so snapshots can be taken at will.
func (a *Adapter) Commit(ctx context.Context, message string, opts core.CommitOptions) (string, error) {
	wt, err := a.repo.Worktree()
	if err != nil {
		return "", vfserrors.AdapterError(Type, err)
	}
	if err := wt.AddWithOptions(&gogit.AddOptions{All: true}); err != nil {
		return "", vfserrors.AdapterError(Type, err)
	}

	author := opts.AuthorName
	email := opts.AuthorEmail
	if author == "" {
		author = a.defaultAuthor
	}
	if email == "" {
		email = a.defaultEmail
	}

	hash, err := wt.Commit(message, &gogit.CommitOptions{
		Author: &object.Signature{
			Name:  author,
			Email: email,
			When:  time.Now(),
		},
		AllowEmptyCommits: true,
	})
	if err != nil {
		return "", vfserrors.AdapterError(Type, err)
	}
	return hash.String(), nil
}

// Revisions walks the log for the given path, the whole repository when
// path names the root. Order and filtering are left to the caller.
func (a *Adapter) Revisions(ctx context.Context, path string, opts core.RevisionOptions) ([]core.Revision, error) {
	logOpts := &gogit.LogOptions{}
	p := pathutil.TrimDirectory(path)
	if !pathutil.IsRoot(p) {
		if err := guard(p); err != nil {
			return nil, err
		}
		logOpts.FileName = &p
	}

	iter, err := a.repo.Log(logOpts)
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			// No commits yet.
			return nil, nil
		}
		return nil, vfserrors.AdapterError(Type, err)
	}
	defer iter.Close()

	var revisions []core.Revision
	err = iter.ForEach(func(c *object.Commit) error {
		revisions = append(revisions, core.Revision{
			SHA:         c.Hash.String(),
			AuthorName:  c.Author.Name,
			AuthorEmail: c.Author.Email,
			Message:     c.Message,
			Timestamp:   c.Author.When,
		})
		return nil
	})
	if err != nil {
		return nil, vfserrors.AdapterError(Type, err)
	}
	return revisions, nil
}

// ReadRevision returns the contents of path as of the given commit.
func (a *Adapter) ReadRevision(ctx context.Context, path, sha string) ([]byte, error) {
	p := pathutil.TrimDirectory(path)
	if err := guard(p); err != nil {
		return nil, err
	}
	commit, err := a.repo.CommitObject(plumbing.NewHash(sha))
	if err != nil {
		return nil, vfserrors.WrapWithContext(err, vfserrors.CodeFileNotFound,
			"revision not found", map[string]interface{}{"sha": sha})
	}
	file, err := commit.File(p)
	if err != nil {
		if errors.Is(err, object.ErrFileNotFound) {
			return nil, vfserrors.FileNotFound(p)
		}
		return nil, vfserrors.AdapterError(Type, err)
	}
	contents, err := file.Contents()
	if err != nil {
		return nil, vfserrors.AdapterError(Type, err)
	}
	return []byte(contents), nil
}

// Rollback hard resets the worktree to the given commit.
func (a *Adapter) Rollback(ctx context.Context, sha string, opts core.RollbackOptions) error {
	wt, err := a.repo.Worktree()
	if err != nil {
		return vfserrors.AdapterError(Type, err)
	}
	commit, err := a.repo.CommitObject(plumbing.NewHash(sha))
	if err != nil {
		return vfserrors.WrapWithContext(err, vfserrors.CodeFileNotFound,
			"revision not found", map[string]interface{}{"sha": sha})
	}
	if err := wt.Reset(&gogit.ResetOptions{Commit: commit.Hash, Mode: gogit.HardReset}); err != nil {
		return vfserrors.AdapterError(Type, err)
	}
	return nil
}

// Compile-time capability checks. Visibility, timestamps, and access checks
// have no git-native expression and stay structurally absent.
var (
	_ core.Adapter      = (*Adapter)(nil)
	_ core.StreamReader = (*Adapter)(nil)
	_ core.StreamWriter = (*Adapter)(nil)
	_ core.Statter      = (*Adapter)(nil)
	_ core.Appender     = (*Adapter)(nil)
	_ core.Truncater    = (*Adapter)(nil)
	_ core.Versioner    = (*Adapter)(nil)
)
