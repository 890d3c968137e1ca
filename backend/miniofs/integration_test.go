package miniofs_test

import (
	"context"
	"fmt"
	"os"
	"sync/atomic"
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	vfs "github.com/jmgilman/go/vfs"
	"github.com/jmgilman/go/vfs/backend/miniofs"
	"github.com/jmgilman/go/vfs/core"
	"github.com/jmgilman/go/vfs/vfstest"
)

var bucketSeq atomic.Int64

// integrationConfig returns connection settings from the environment, or
// skips when no server is configured. Run a local server with:
//
//	docker run -p 9000:9000 minio/minio server /data
//	MINIO_ENDPOINT=localhost:9000 go test ./backend/miniofs/...
func integrationConfig(t *testing.T) miniofs.Config {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	endpoint := os.Getenv("MINIO_ENDPOINT")
	if endpoint == "" {
		t.Skip("MINIO_ENDPOINT not set")
	}
	accessKey := os.Getenv("MINIO_ACCESS_KEY")
	if accessKey == "" {
		accessKey = "minioadmin"
	}
	secretKey := os.Getenv("MINIO_SECRET_KEY")
	if secretKey == "" {
		secretKey = "minioadmin"
	}
	return miniofs.Config{
		Endpoint:  endpoint,
		AccessKey: accessKey,
		SecretKey: secretKey,
	}
}

func newIntegrationAdapter(t *testing.T) *miniofs.Adapter {
	t.Helper()
	cfg := integrationConfig(t)

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds: credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
	})
	require.NoError(t, err)

	ctx := context.Background()
	bucket := fmt.Sprintf("vfs-test-%d-%d", os.Getpid(), bucketSeq.Add(1))
	require.NoError(t, client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}))
	t.Cleanup(func() {
		_ = client.RemoveBucketWithOptions(ctx, bucket, minio.RemoveBucketOptions{ForceDelete: true})
	})

	cfg.Bucket = bucket
	cfg.Client = client
	adapter, err := miniofs.New(cfg)
	require.NoError(t, err)
	return adapter
}

func TestIntegration_Conformance(t *testing.T) {
	newIntegrationAdapter(t) // skip early when unavailable
	vfstest.TestAdapterWithConfig(t, func() *vfs.FS {
		return vfs.New(newIntegrationAdapter(t))
	}, vfstest.ObjectStoreConfig())
}

func TestIntegration_VisibilityMetadata(t *testing.T) {
	adapter := newIntegrationAdapter(t)
	ctx := context.Background()

	require.NoError(t, adapter.Write(ctx, "vis.txt", []byte("x"), core.WriteOptions{
		Visibility: core.VisibilityPrivate,
	}))

	v, err := adapter.Visibility(ctx, "vis.txt")
	require.NoError(t, err)
	assert.Equal(t, core.VisibilityPrivate, v)

	require.NoError(t, adapter.SetVisibility(ctx, "vis.txt", core.VisibilityPublic))
	v, err = adapter.Visibility(ctx, "vis.txt")
	require.NoError(t, err)
	assert.Equal(t, core.VisibilityPublic, v)
}

func TestIntegration_CopyAcrossBuckets(t *testing.T) {
	src := newIntegrationAdapter(t)
	dst := newIntegrationAdapter(t)
	ctx := context.Background()

	require.NoError(t, src.Write(ctx, "cross.txt", []byte("payload"), core.WriteOptions{}))
	require.NoError(t, src.CopyAcross(ctx, "cross.txt", dst, "landed.txt", core.WriteOptions{}))

	data, err := dst.Read(ctx, "landed.txt")
	require.NoError(t, err)
	assert.Equal(t, "payload", string(data))
}
