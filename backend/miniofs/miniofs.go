package miniofs

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"golang.org/x/sync/errgroup"

	"github.com/jmgilman/go/vfs/core"
	vfserrors "github.com/jmgilman/go/vfs/errors"
	"github.com/jmgilman/go/vfs/internal/pathutil"
)

// Type identifies this backend.
const Type = "minio"

// visibilityMetaKey is the user-metadata key holding an object's visibility.
const visibilityMetaKey = "Visibility"

// Adapter serves files from an S3-compatible bucket.
type Adapter struct {
	client            *minio.Client
	bucket            string
	prefix            string
	deleteConcurrency int
}

// New creates a bucket-backed adapter.
func New(cfg Config) (*Adapter, error) {
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	client := cfg.Client
	if client == nil {
		var err error
		client, err = minio.New(cfg.Endpoint, &minio.Options{
			Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
			Secure: cfg.UseSSL,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create minio client: %w", err)
		}
	}

	deleteConcurrency := cfg.MaxDeleteConcurrency
	if deleteConcurrency == 0 {
		deleteConcurrency = 10
	}

	return &Adapter{
		client:            client,
		bucket:            cfg.Bucket,
		prefix:            strings.Trim(strings.ReplaceAll(cfg.Prefix, "\\", "/"), "/"),
		deleteConcurrency: deleteConcurrency,
	}, nil
}

// Type returns the backend type identifier.
func (a *Adapter) Type() string {
	return Type
}

// UnsupportedOperations returns nothing; append, truncate, chtimes, and
// access checks are structurally absent rather than disabled.
func (a *Adapter) UnsupportedOperations() []core.Operation {
	return nil
}

// key maps a normalized path to its object key under the prefix.
func (a *Adapter) key(p string) string {
	p = pathutil.TrimDirectory(p)
	if pathutil.IsRoot(p) {
		return a.prefix
	}
	if a.prefix == "" {
		return p
	}
	return a.prefix + "/" + p
}

// dirKey maps a normalized path to its directory marker key.
func (a *Adapter) dirKey(p string) string {
	k := a.key(p)
	if k == "" {
		return ""
	}
	return k + "/"
}

// Write stores data at path, with visibility recorded as user metadata.
func (a *Adapter) Write(ctx context.Context, path string, data []byte, opts core.WriteOptions) error {
	_, err := a.client.PutObject(ctx, a.bucket, a.key(path), bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{UserMetadata: visibilityMeta(opts.Visibility)})
	return translate(path, err)
}

// Read returns the full contents of the object at path.
func (a *Adapter) Read(ctx context.Context, path string) ([]byte, error) {
	obj, err := a.client.GetObject(ctx, a.bucket, a.key(path), minio.GetObjectOptions{})
	if err != nil {
		return nil, translate(path, err)
	}
	defer func() { _ = obj.Close() }()
	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, translate(path, err)
	}
	return data, nil
}

// ReadStream opens the object at path for sequential reading. The object's
// existence is verified before the stream is handed out so a missing key
// fails eagerly.
func (a *Adapter) ReadStream(ctx context.Context, path string, chunkSize int) (io.ReadCloser, error) {
	if _, err := a.client.StatObject(ctx, a.bucket, a.key(path), minio.StatObjectOptions{}); err != nil {
		return nil, translate(path, err)
	}
	obj, err := a.client.GetObject(ctx, a.bucket, a.key(path), minio.GetObjectOptions{})
	if err != nil {
		return nil, translate(path, err)
	}
	return obj, nil
}

// WriteStream uploads the contents of r to path. The unknown size makes the
// SDK fall back to multipart upload.
func (a *Adapter) WriteStream(ctx context.Context, path string, r io.Reader, opts core.WriteOptions) error {
	_, err := a.client.PutObject(ctx, a.bucket, a.key(path), r, -1,
		minio.PutObjectOptions{UserMetadata: visibilityMeta(opts.Visibility)})
	return translate(path, err)
}

// Delete removes the object at path. A missing object is a typed failure,
// which requires a stat beforehand since S3 removals are idempotent.
func (a *Adapter) Delete(ctx context.Context, path string) error {
	if _, err := a.client.StatObject(ctx, a.bucket, a.key(path), minio.StatObjectOptions{}); err != nil {
		return translate(path, err)
	}
	return translate(path, a.client.RemoveObject(ctx, a.bucket, a.key(path), minio.RemoveObjectOptions{}))
}

// Move copies src to dst server-side and removes the original.
func (a *Adapter) Move(ctx context.Context, src, dst string, opts core.WriteOptions) error {
	if err := a.Copy(ctx, src, dst, opts); err != nil {
		return err
	}
	return translate(src, a.client.RemoveObject(ctx, a.bucket, a.key(src), minio.RemoveObjectOptions{}))
}

// Copy duplicates src to dst server-side, carrying metadata along.
func (a *Adapter) Copy(ctx context.Context, src, dst string, opts core.WriteOptions) error {
	dstOpts := minio.CopyDestOptions{Bucket: a.bucket, Object: a.key(dst)}
	if opts.Visibility.IsValid() {
		dstOpts.ReplaceMetadata = true
		dstOpts.UserMetadata = visibilityMeta(opts.Visibility)
	}
	_, err := a.client.CopyObject(ctx, dstOpts, minio.CopySrcOptions{Bucket: a.bucket, Object: a.key(src)})
	return translate(src, err)
}

// FileExists reports whether an object exists at path.
func (a *Adapter) FileExists(ctx context.Context, path string) (bool, error) {
	_, err := a.client.StatObject(ctx, a.bucket, a.key(path), minio.StatObjectOptions{})
	if err == nil {
		return true, nil
	}
	if minio.ToErrorResponse(err).Code == "NoSuchKey" {
		return false, nil
	}
	return false, translate(path, err)
}

// ListContents returns the immediate children of the directory at path.
// Directories are virtual: they exist as zero-byte marker objects or simply
// as common prefixes of deeper keys.
func (a *Adapter) ListContents(ctx context.Context, path string) ([]core.Stat, error) {
	prefix := a.dirKey(path)

	var stats []core.Stat
	for object := range a.client.ListObjects(ctx, a.bucket, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: false,
	}) {
		if object.Err != nil {
			return nil, translate(path, object.Err)
		}
		if object.Key == prefix {
			continue
		}
		name := strings.TrimPrefix(object.Key, prefix)
		dir := strings.HasSuffix(name, "/")
		name = strings.TrimSuffix(name, "/")
		if name == "" {
			continue
		}
		stats = append(stats, core.Stat{
			Name:       pathutil.Join(path, name),
			Size:       object.Size,
			ModTime:    object.LastModified,
			Visibility: core.VisibilityPublic,
			Dir:        dir,
		})
	}

	if len(stats) == 0 && !pathutil.IsRoot(pathutil.TrimDirectory(path)) {
		if _, err := a.client.StatObject(ctx, a.bucket, prefix, minio.StatObjectOptions{}); err != nil {
			if minio.ToErrorResponse(err).Code == "NoSuchKey" {
				return nil, vfserrors.DirectoryNotFound(pathutil.TrimDirectory(path))
			}
			return nil, translate(path, err)
		}
	}

	sort.Slice(stats, func(i, j int) bool { return stats[i].Name < stats[j].Name })
	return stats, nil
}

// CreateDirectory stores a zero-byte marker object for the directory.
func (a *Adapter) CreateDirectory(ctx context.Context, path string, opts core.WriteOptions) error {
	_, err := a.client.PutObject(ctx, a.bucket, a.dirKey(path), bytes.NewReader(nil), 0,
		minio.PutObjectOptions{UserMetadata: visibilityMeta(opts.DirectoryVisibility)})
	return translate(path, err)
}

// DeleteDirectory removes the directory marker and, when recursive, every
// object beneath it through the batch removal API.
func (a *Adapter) DeleteDirectory(ctx context.Context, path string, recursive bool) error {
	prefix := a.dirKey(path)

	if !recursive {
		empty := true
		for object := range a.client.ListObjects(ctx, a.bucket, minio.ListObjectsOptions{
			Prefix:    prefix,
			Recursive: false,
		}) {
			if object.Err != nil {
				return translate(path, object.Err)
			}
			if object.Key != prefix {
				empty = false
				break
			}
		}
		if !empty {
			return vfserrors.DirectoryNotEmpty(pathutil.TrimDirectory(path))
		}
		return translate(path, a.client.RemoveObject(ctx, a.bucket, prefix, minio.RemoveObjectOptions{}))
	}

	objectsCh := make(chan minio.ObjectInfo, 100)
	var listErr error
	go func() {
		defer close(objectsCh)
		for object := range a.client.ListObjects(ctx, a.bucket, minio.ListObjectsOptions{
			Prefix:    prefix,
			Recursive: true,
		}) {
			if object.Err != nil {
				listErr = object.Err
				return
			}
			objectsCh <- object
		}
	}()

	for err := range a.client.RemoveObjects(ctx, a.bucket, objectsCh, minio.RemoveObjectsOptions{}) {
		if err.Err != nil {
			return translate(path, err.Err)
		}
	}
	if listErr != nil {
		return translate(path, listErr)
	}
	return nil
}

// Clear removes every object under the prefix with bounded parallelism.
func (a *Adapter) Clear(ctx context.Context) error {
	prefix := ""
	if a.prefix != "" {
		prefix = a.prefix + "/"
	}

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(a.deleteConcurrency)

	var listErr error
	for object := range a.client.ListObjects(egCtx, a.bucket, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
	}) {
		if object.Err != nil {
			listErr = object.Err
			break
		}
		key := object.Key
		eg.Go(func() error {
			return a.client.RemoveObject(egCtx, a.bucket, key, minio.RemoveObjectOptions{})
		})
	}

	// In-flight removals must drain before the method returns, even when
	// the listing fails partway.
	waitErr := eg.Wait()
	if listErr != nil {
		return translate(pathutil.Root, listErr)
	}
	return translate(pathutil.Root, waitErr)
}

// Stat returns metadata for the object at path, falling back to the
// directory marker when no file object exists.
func (a *Adapter) Stat(ctx context.Context, path string) (core.Stat, error) {
	p := pathutil.TrimDirectory(path)
	info, err := a.client.StatObject(ctx, a.bucket, a.key(p), minio.StatObjectOptions{})
	if err == nil {
		return core.Stat{
			Name:       p,
			Size:       info.Size,
			ModTime:    info.LastModified,
			Visibility: visibilityFromMeta(info.UserMetadata),
			Dir:        false,
		}, nil
	}
	if minio.ToErrorResponse(err).Code != "NoSuchKey" {
		return core.Stat{}, translate(path, err)
	}

	dirInfo, dirErr := a.client.StatObject(ctx, a.bucket, a.dirKey(p), minio.StatObjectOptions{})
	if dirErr != nil {
		return core.Stat{}, translate(path, err)
	}
	return core.Stat{
		Name:       p,
		ModTime:    dirInfo.LastModified,
		Visibility: visibilityFromMeta(dirInfo.UserMetadata),
		Dir:        true,
	}, nil
}

// SetVisibility rewrites the object's user metadata in place through a
// server-side self-copy.
func (a *Adapter) SetVisibility(ctx context.Context, path string, v core.Visibility) error {
	key := a.key(path)
	_, err := a.client.CopyObject(ctx,
		minio.CopyDestOptions{
			Bucket:          a.bucket,
			Object:          key,
			ReplaceMetadata: true,
			UserMetadata:    visibilityMeta(v),
		},
		minio.CopySrcOptions{Bucket: a.bucket, Object: key})
	return translate(path, err)
}

// Visibility reads the object's recorded visibility, defaulting to public.
func (a *Adapter) Visibility(ctx context.Context, path string) (core.Visibility, error) {
	info, err := a.client.StatObject(ctx, a.bucket, a.key(path), minio.StatObjectOptions{})
	if err != nil {
		return "", translate(path, err)
	}
	return visibilityFromMeta(info.UserMetadata), nil
}

// CopyAcross copies an object to another bucket adapter server-side. Only
// adapters on the same endpoint can be served; other pairs report the
// unsupported-operation sentinel so the caller falls back to spooling.
func (a *Adapter) CopyAcross(ctx context.Context, srcPath string, dst core.Adapter, dstPath string, opts core.WriteOptions) error {
	o, ok := dst.(*Adapter)
	if !ok || o.client.EndpointURL().String() != a.client.EndpointURL().String() {
		return vfserrors.UnsupportedOperation(string(core.OpCopyBetween), Type)
	}
	dstOpts := minio.CopyDestOptions{Bucket: o.bucket, Object: o.key(dstPath)}
	if opts.Visibility.IsValid() {
		dstOpts.ReplaceMetadata = true
		dstOpts.UserMetadata = visibilityMeta(opts.Visibility)
	}
	_, err := a.client.CopyObject(ctx, dstOpts, minio.CopySrcOptions{Bucket: a.bucket, Object: a.key(srcPath)})
	return translate(srcPath, err)
}

// Equal reports whether other addresses the same endpoint, bucket, and
// prefix.
func (a *Adapter) Equal(other core.Adapter) bool {
	o, ok := other.(*Adapter)
	return ok &&
		o.client.EndpointURL().String() == a.client.EndpointURL().String() &&
		o.bucket == a.bucket &&
		o.prefix == a.prefix
}

// translate upgrades SDK failures into the typed taxonomy.
func translate(path string, err error) error {
	if err == nil {
		return nil
	}
	p := pathutil.TrimDirectory(path)
	resp := minio.ToErrorResponse(err)
	switch resp.Code {
	case "NoSuchKey", "NoSuchBucket":
		return vfserrors.WrapWithContext(err, vfserrors.CodeFileNotFound,
			"file not found", map[string]interface{}{"path": p})
	case "AccessDenied":
		return vfserrors.WrapWithContext(err, vfserrors.CodePermissionDenied,
			"permission denied", map[string]interface{}{"path": p})
	}
	return vfserrors.AdapterError(Type, err)
}

func visibilityMeta(v core.Visibility) map[string]string {
	if !v.IsValid() {
		return nil
	}
	return map[string]string{visibilityMetaKey: string(v)}
}

func visibilityFromMeta(meta map[string]string) core.Visibility {
	for _, key := range []string{visibilityMetaKey, strings.ToLower(visibilityMetaKey)} {
		if v := core.Visibility(meta[key]); v.IsValid() {
			return v
		}
	}
	return core.VisibilityPublic
}

// Compile-time capability checks. Append, truncate, chtimes, and access
// checks have no object-store equivalent and stay structurally absent.
var (
	_ core.Adapter      = (*Adapter)(nil)
	_ core.StreamReader = (*Adapter)(nil)
	_ core.StreamWriter = (*Adapter)(nil)
	_ core.Statter      = (*Adapter)(nil)
	_ core.VisibilityFS = (*Adapter)(nil)
	_ core.CrossCopier  = (*Adapter)(nil)
	_ core.Equaler      = (*Adapter)(nil)
)
