package githubfs

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"

	"github.com/google/go-github/v67/github"

	"github.com/jmgilman/go/vfs/core"
	vfserrors "github.com/jmgilman/go/vfs/errors"
	"github.com/jmgilman/go/vfs/internal/pathutil"
)

// Type identifies this backend.
const Type = "github"

// keepFile is the placeholder committed for otherwise-empty directories,
// since git does not track them.
const keepFile = ".gitkeep"

// Adapter serves files from one branch of a GitHub repository.
type Adapter struct {
	client *github.Client
	owner  string
	repo   string
	branch string
}

// New creates a repository-backed adapter.
func New(cfg Config) (*Adapter, error) {
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	client := cfg.Client
	if client == nil {
		client = github.NewClient(nil).WithAuthToken(cfg.Token)
	}

	branch := cfg.Branch
	if branch == "" {
		branch = "main"
	}

	return &Adapter{
		client: client,
		owner:  cfg.Owner,
		repo:   cfg.Repo,
		branch: branch,
	}, nil
}

// Type returns the backend type identifier.
func (a *Adapter) Type() string {
	return Type
}

// UnsupportedOperations declares commit disabled: every write already
// commits on its own, so an explicit snapshot has nothing to record.
func (a *Adapter) UnsupportedOperations() []core.Operation {
	return []core.Operation{core.OpCommit}
}

func (a *Adapter) getOpts() *github.RepositoryContentGetOptions {
	return &github.RepositoryContentGetOptions{Ref: a.branch}
}

// fileSHA returns the blob SHA for path, or empty when the file is absent.
func (a *Adapter) fileSHA(ctx context.Context, path string) (string, error) {
	content, _, _, err := a.client.Repositories.GetContents(ctx, a.owner, a.repo, path, a.getOpts())
	if err != nil {
		if isStatus(err, http.StatusNotFound) {
			return "", nil
		}
		return "", translate(path, err)
	}
	if content == nil {
		// Path resolves to a directory.
		return "", vfserrors.InvalidPath(path, "path is a directory, not a file")
	}
	return content.GetSHA(), nil
}

// Write stores data at path, creating or updating the file in one commit.
func (a *Adapter) Write(ctx context.Context, path string, data []byte, opts core.WriteOptions) error {
	p := pathutil.TrimDirectory(path)
	sha, err := a.fileSHA(ctx, p)
	if err != nil {
		return err
	}

	fileOpts := &github.RepositoryContentFileOptions{
		Message: github.String("Update " + p),
		Content: data,
		Branch:  github.String(a.branch),
	}
	if sha == "" {
		fileOpts.Message = github.String("Add " + p)
		_, _, err = a.client.Repositories.CreateFile(ctx, a.owner, a.repo, p, fileOpts)
	} else {
		fileOpts.SHA = github.String(sha)
		_, _, err = a.client.Repositories.UpdateFile(ctx, a.owner, a.repo, p, fileOpts)
	}
	return translate(p, err)
}

// Read returns the full contents of the file at path.
func (a *Adapter) Read(ctx context.Context, path string) ([]byte, error) {
	return a.readAt(ctx, pathutil.TrimDirectory(path), a.branch)
}

func (a *Adapter) readAt(ctx context.Context, path, ref string) ([]byte, error) {
	content, _, _, err := a.client.Repositories.GetContents(ctx, a.owner, a.repo, path,
		&github.RepositoryContentGetOptions{Ref: ref})
	if err != nil {
		return nil, translate(path, err)
	}
	if content == nil {
		return nil, vfserrors.InvalidPath(path, "path is a directory, not a file")
	}
	decoded, err := content.GetContent()
	if err != nil {
		return nil, vfserrors.AdapterError(Type, err)
	}
	return []byte(decoded), nil
}

// Delete removes the file at path in one commit.
func (a *Adapter) Delete(ctx context.Context, path string) error {
	p := pathutil.TrimDirectory(path)
	sha, err := a.fileSHA(ctx, p)
	if err != nil {
		return err
	}
	if sha == "" {
		return vfserrors.FileNotFound(p)
	}
	_, _, err = a.client.Repositories.DeleteFile(ctx, a.owner, a.repo, p, &github.RepositoryContentFileOptions{
		Message: github.String("Delete " + p),
		SHA:     github.String(sha),
		Branch:  github.String(a.branch),
	})
	return translate(p, err)
}

// Move copies src to dst and removes the original. The contents API has no
// rename, so this lands as two commits.
func (a *Adapter) Move(ctx context.Context, src, dst string, opts core.WriteOptions) error {
	if err := a.Copy(ctx, src, dst, opts); err != nil {
		return err
	}
	return a.Delete(ctx, src)
}

// Copy duplicates src to dst.
func (a *Adapter) Copy(ctx context.Context, src, dst string, opts core.WriteOptions) error {
	data, err := a.Read(ctx, src)
	if err != nil {
		return err
	}
	return a.Write(ctx, dst, data, opts)
}

// FileExists reports whether a file exists at path.
func (a *Adapter) FileExists(ctx context.Context, path string) (bool, error) {
	content, _, _, err := a.client.Repositories.GetContents(ctx, a.owner, a.repo,
		pathutil.TrimDirectory(path), a.getOpts())
	if err != nil {
		if isStatus(err, http.StatusNotFound) {
			return false, nil
		}
		return false, translate(path, err)
	}
	return content != nil, nil
}

// ListContents returns the immediate children of the directory at path.
// Directory placeholders are hidden from listings.
func (a *Adapter) ListContents(ctx context.Context, path string) ([]core.Stat, error) {
	p := pathutil.TrimDirectory(path)
	listPath := p
	if pathutil.IsRoot(p) {
		listPath = ""
	}
	content, entries, _, err := a.client.Repositories.GetContents(ctx, a.owner, a.repo, listPath, a.getOpts())
	if err != nil {
		if isStatus(err, http.StatusNotFound) {
			return nil, vfserrors.DirectoryNotFound(p)
		}
		return nil, translate(p, err)
	}
	if content != nil {
		return nil, vfserrors.NotDirectory(p)
	}

	stats := make([]core.Stat, 0, len(entries))
	for _, entry := range entries {
		if entry.GetName() == keepFile {
			continue
		}
		stats = append(stats, core.Stat{
			Name:       entry.GetPath(),
			Size:       int64(entry.GetSize()),
			Visibility: core.VisibilityPublic,
			Dir:        entry.GetType() == "dir",
		})
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].Name < stats[j].Name })
	return stats, nil
}

// CreateDirectory commits a placeholder file so the directory exists.
func (a *Adapter) CreateDirectory(ctx context.Context, path string, opts core.WriteOptions) error {
	p := pathutil.TrimDirectory(path)
	if pathutil.IsRoot(p) {
		return nil
	}
	return a.Write(ctx, p+"/"+keepFile, nil, core.WriteOptions{})
}

// DeleteDirectory removes the directory at path. Without recursion, only a
// directory holding nothing but its placeholder can be removed.
func (a *Adapter) DeleteDirectory(ctx context.Context, path string, recursive bool) error {
	p := pathutil.TrimDirectory(path)
	_, entries, _, err := a.client.Repositories.GetContents(ctx, a.owner, a.repo, p, a.getOpts())
	if err != nil {
		if isStatus(err, http.StatusNotFound) {
			return vfserrors.DirectoryNotFound(p)
		}
		return translate(p, err)
	}

	if !recursive {
		for _, entry := range entries {
			if entry.GetName() != keepFile {
				return vfserrors.DirectoryNotEmpty(p)
			}
		}
	}
	return a.deleteTree(ctx, entries)
}

// Clear removes every file on the branch.
func (a *Adapter) Clear(ctx context.Context) error {
	_, entries, _, err := a.client.Repositories.GetContents(ctx, a.owner, a.repo, "", a.getOpts())
	if err != nil {
		if isStatus(err, http.StatusNotFound) {
			return nil
		}
		return translate(pathutil.Root, err)
	}
	return a.deleteTree(ctx, entries)
}

// deleteTree removes entries depth-first, one commit per file.
func (a *Adapter) deleteTree(ctx context.Context, entries []*github.RepositoryContent) error {
	for _, entry := range entries {
		if entry.GetType() == "dir" {
			_, children, _, err := a.client.Repositories.GetContents(ctx, a.owner, a.repo, entry.GetPath(), a.getOpts())
			if err != nil {
				return translate(entry.GetPath(), err)
			}
			if err := a.deleteTree(ctx, children); err != nil {
				return err
			}
			continue
		}
		if err := a.Delete(ctx, entry.GetPath()); err != nil {
			return err
		}
	}
	return nil
}

// Stat returns metadata for the entry at path.
func (a *Adapter) Stat(ctx context.Context, path string) (core.Stat, error) {
	p := pathutil.TrimDirectory(path)
	content, _, _, err := a.client.Repositories.GetContents(ctx, a.owner, a.repo, p, a.getOpts())
	if err != nil {
		return core.Stat{}, translate(p, err)
	}
	if content == nil {
		return core.Stat{Name: p, Visibility: core.VisibilityPublic, Dir: true}, nil
	}
	return core.Stat{
		Name:       p,
		Size:       int64(content.GetSize()),
		Visibility: core.VisibilityPublic,
		Dir:        false,
	}, nil
}

// Commit is structurally present to satisfy the versioning surface but is
// declared unsupported: every write is already its own commit.
func (a *Adapter) Commit(ctx context.Context, message string, opts core.CommitOptions) (string, error) {
	return "", vfserrors.UnsupportedOperation(string(core.OpCommit), Type)
}

// Revisions lists the commits that touched path on the branch.
func (a *Adapter) Revisions(ctx context.Context, path string, opts core.RevisionOptions) ([]core.Revision, error) {
	listOpts := &github.CommitsListOptions{SHA: a.branch}
	p := pathutil.TrimDirectory(path)
	if !pathutil.IsRoot(p) {
		listOpts.Path = p
	}

	commits, _, err := a.client.Repositories.ListCommits(ctx, a.owner, a.repo, listOpts)
	if err != nil {
		return nil, translate(p, err)
	}

	revisions := make([]core.Revision, 0, len(commits))
	for _, c := range commits {
		revisions = append(revisions, core.Revision{
			SHA:         c.GetSHA(),
			AuthorName:  c.GetCommit().GetAuthor().GetName(),
			AuthorEmail: c.GetCommit().GetAuthor().GetEmail(),
			Message:     c.GetCommit().GetMessage(),
			Timestamp:   c.GetCommit().GetAuthor().GetDate().Time,
		})
	}
	return revisions, nil
}

// ReadRevision returns the contents of path as of the given commit.
func (a *Adapter) ReadRevision(ctx context.Context, path, sha string) ([]byte, error) {
	return a.readAt(ctx, pathutil.TrimDirectory(path), sha)
}

// Rollback force-moves the branch reference to the given commit.
func (a *Adapter) Rollback(ctx context.Context, sha string, opts core.RollbackOptions) error {
	ref := &github.Reference{
		Ref:    github.String("refs/heads/" + a.branch),
		Object: &github.GitObject{SHA: github.String(sha)},
	}
	_, _, err := a.client.Git.UpdateRef(ctx, a.owner, a.repo, ref, true)
	return translate(pathutil.Root, err)
}

// Equal reports whether other addresses the same repository and branch.
func (a *Adapter) Equal(other core.Adapter) bool {
	o, ok := other.(*Adapter)
	return ok && o.owner == a.owner && o.repo == a.repo && o.branch == a.branch
}

// isStatus reports whether err is a GitHub API error with the given status.
func isStatus(err error, status int) bool {
	var ghErr *github.ErrorResponse
	return errors.As(err, &ghErr) && ghErr.Response != nil && ghErr.Response.StatusCode == status
}

// translate upgrades API failures into the typed taxonomy.
func translate(path string, err error) error {
	if err == nil {
		return nil
	}
	p := pathutil.TrimDirectory(path)
	if isStatus(err, http.StatusNotFound) {
		return vfserrors.WrapWithContext(err, vfserrors.CodeFileNotFound,
			"file not found", map[string]interface{}{"path": p})
	}
	if isStatus(err, http.StatusForbidden) || isStatus(err, http.StatusUnauthorized) {
		return vfserrors.WrapWithContext(err, vfserrors.CodePermissionDenied,
			"permission denied", map[string]interface{}{"path": p})
	}
	return vfserrors.AdapterError(Type, err)
}

// Compile-time capability checks. Streaming, append, truncate, visibility,
// and timestamps have no contents-API equivalent and stay structurally
// absent.
var (
	_ core.Adapter   = (*Adapter)(nil)
	_ core.Statter   = (*Adapter)(nil)
	_ core.Versioner = (*Adapter)(nil)
	_ core.Equaler   = (*Adapter)(nil)
)
