package miniofs

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmgilman/go/vfs/core"
	vfserrors "github.com/jmgilman/go/vfs/errors"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{
			name:    "missing bucket",
			cfg:     Config{Endpoint: "localhost:9000", AccessKey: "a", SecretKey: "s"},
			wantErr: "bucket is required",
		},
		{
			name:    "missing endpoint",
			cfg:     Config{Bucket: "b", AccessKey: "a", SecretKey: "s"},
			wantErr: "endpoint is required",
		},
		{
			name:    "missing access key",
			cfg:     Config{Bucket: "b", Endpoint: "localhost:9000", SecretKey: "s"},
			wantErr: "access key is required",
		},
		{
			name:    "missing secret key",
			cfg:     Config{Bucket: "b", Endpoint: "localhost:9000", AccessKey: "a"},
			wantErr: "secret key is required",
		},
		{
			name: "full credentials",
			cfg:  Config{Bucket: "b", Endpoint: "localhost:9000", AccessKey: "a", SecretKey: "s"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestAdapter_KeyMapping(t *testing.T) {
	adapter, err := New(Config{
		Endpoint:  "localhost:9000",
		Bucket:    "bucket",
		AccessKey: "a",
		SecretKey: "s",
		Prefix:    "tenant/42/",
	})
	require.NoError(t, err)

	assert.Equal(t, "tenant/42", adapter.key("."))
	assert.Equal(t, "tenant/42/file.txt", adapter.key("file.txt"))
	assert.Equal(t, "tenant/42/dir/file.txt", adapter.key("dir/file.txt"))
	assert.Equal(t, "tenant/42/dir/", adapter.dirKey("dir"))
}

func TestAdapter_KeyMappingNoPrefix(t *testing.T) {
	adapter, err := New(Config{
		Endpoint:  "localhost:9000",
		Bucket:    "bucket",
		AccessKey: "a",
		SecretKey: "s",
	})
	require.NoError(t, err)

	assert.Equal(t, "", adapter.key("."))
	assert.Equal(t, "file.txt", adapter.key("file.txt"))
}

func TestAdapter_CapabilityShape(t *testing.T) {
	adapter, err := New(Config{
		Endpoint:  "localhost:9000",
		Bucket:    "bucket",
		AccessKey: "a",
		SecretKey: "s",
	})
	require.NoError(t, err)

	assert.True(t, core.Supports(adapter, core.OpReadStream))
	assert.True(t, core.Supports(adapter, core.OpWriteStream))
	assert.True(t, core.Supports(adapter, core.OpCopyBetween))
	assert.True(t, core.Supports(adapter, core.OpSetVisibility))
	assert.False(t, core.Supports(adapter, core.OpAppend))
	assert.False(t, core.Supports(adapter, core.OpTruncate))
	assert.False(t, core.Supports(adapter, core.OpUtime))
	assert.False(t, core.Supports(adapter, core.OpCommit))
}

func TestAdapter_Equal(t *testing.T) {
	mk := func(bucket, prefix string) *Adapter {
		adapter, err := New(Config{
			Endpoint:  "localhost:9000",
			Bucket:    bucket,
			AccessKey: "a",
			SecretKey: "s",
			Prefix:    prefix,
		})
		require.NoError(t, err)
		return adapter
	}

	assert.True(t, mk("b", "p").Equal(mk("b", "p")))
	assert.False(t, mk("b", "p").Equal(mk("b", "other")))
	assert.False(t, mk("b", "p").Equal(mk("other", "p")))
}

// stubS3 serves one valid listing page, fails the second page, and counts
// completed object deletions.
type stubS3 struct {
	deletes atomic.Int32
}

func (s *stubS3) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodDelete:
			time.Sleep(50 * time.Millisecond)
			s.deletes.Add(1)
			w.WriteHeader(http.StatusNoContent)
		case r.URL.Query().Get("continuation-token") != "":
			w.WriteHeader(http.StatusForbidden)
			_, _ = io.WriteString(w, `<?xml version="1.0" encoding="UTF-8"?>
<Error><Code>AccessDenied</Code><Message>denied</Message><Resource>/clear-bucket</Resource><RequestId>1</RequestId></Error>`)
		default:
			w.Header().Set("Content-Type", "application/xml")
			_, _ = io.WriteString(w, `<?xml version="1.0" encoding="UTF-8"?>
<ListBucketResult xmlns="http://s3.amazonaws.com/doc/2006-03-01/">
  <Name>clear-bucket</Name>
  <Prefix></Prefix>
  <KeyCount>2</KeyCount>
  <MaxKeys>1000</MaxKeys>
  <IsTruncated>true</IsTruncated>
  <NextContinuationToken>next</NextContinuationToken>
  <Contents><Key>a.txt</Key><Size>1</Size><ETag>"e1"</ETag><LastModified>2024-01-01T00:00:00.000Z</LastModified></Contents>
  <Contents><Key>b.txt</Key><Size>1</Size><ETag>"e2"</ETag><LastModified>2024-01-01T00:00:00.000Z</LastModified></Contents>
</ListBucketResult>`)
		}
	})
}

func TestClear_DrainsRemovalsOnListingFailure(t *testing.T) {
	stub := &stubS3{}
	server := httptest.NewServer(stub.handler())
	defer server.Close()

	client, err := minio.New(strings.TrimPrefix(server.URL, "http://"), &minio.Options{
		Creds:  credentials.NewStaticV4("access", "secret", ""),
		Region: "us-east-1",
	})
	require.NoError(t, err)

	adapter, err := New(Config{Bucket: "clear-bucket", Client: client})
	require.NoError(t, err)

	err = adapter.Clear(context.Background())
	require.Error(t, err)
	assert.Equal(t, vfserrors.CodePermissionDenied, vfserrors.GetCode(err))

	// Removals started before the listing failed must have finished by the
	// time Clear returns.
	assert.Equal(t, int32(2), stub.deletes.Load())
}
