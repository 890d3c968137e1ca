package githubfs

import (
	"context"
	"testing"

	"github.com/google/go-github/v67/github"
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
			name:    "missing owner",
			cfg:     Config{Repo: "r", Token: "t"},
			wantErr: "owner is required",
		},
		{
			name:    "missing repo",
			cfg:     Config{Owner: "o", Token: "t"},
			wantErr: "repo is required",
		},
		{
			name:    "missing credentials",
			cfg:     Config{Owner: "o", Repo: "r"},
			wantErr: "either token or client",
		},
		{
			name: "token auth",
			cfg:  Config{Owner: "o", Repo: "r", Token: "t"},
		},
		{
			name: "client auth",
			cfg:  Config{Owner: "o", Repo: "r", Client: github.NewClient(nil)},
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

func TestNew_DefaultBranch(t *testing.T) {
	adapter, err := New(Config{Owner: "o", Repo: "r", Token: "t"})
	require.NoError(t, err)
	assert.Equal(t, "main", adapter.branch)

	adapter, err = New(Config{Owner: "o", Repo: "r", Token: "t", Branch: "develop"})
	require.NoError(t, err)
	assert.Equal(t, "develop", adapter.branch)
}

func TestAdapter_CommitDeclaredUnsupported(t *testing.T) {
	adapter, err := New(Config{Owner: "o", Repo: "r", Token: "t"})
	require.NoError(t, err)

	// Structurally a Versioner, but the policy set disables commit: the
	// adapter auto-commits on every write.
	var _ core.Versioner = adapter
	assert.False(t, core.Supports(adapter, core.OpCommit))
	assert.True(t, core.Supports(adapter, core.OpRevisions))
	assert.True(t, core.Supports(adapter, core.OpReadRevision))
	assert.True(t, core.Supports(adapter, core.OpRollback))

	_, err = adapter.Commit(context.Background(), "msg", core.CommitOptions{})
	require.Error(t, err)
	assert.Equal(t, vfserrors.CodeUnsupportedOperation, vfserrors.GetCode(err))
}

func TestAdapter_CapabilityShape(t *testing.T) {
	adapter, err := New(Config{Owner: "o", Repo: "r", Token: "t"})
	require.NoError(t, err)

	assert.True(t, core.Supports(adapter, core.OpStat))
	assert.False(t, core.Supports(adapter, core.OpReadStream))
	assert.False(t, core.Supports(adapter, core.OpWriteStream))
	assert.False(t, core.Supports(adapter, core.OpAppend))
	assert.False(t, core.Supports(adapter, core.OpSetVisibility))
}

func TestAdapter_Equal(t *testing.T) {
	mk := func(owner, repo, branch string) *Adapter {
		adapter, err := New(Config{Owner: owner, Repo: repo, Branch: branch, Token: "t"})
		require.NoError(t, err)
		return adapter
	}

	assert.True(t, mk("o", "r", "main").Equal(mk("o", "r", "main")))
	assert.False(t, mk("o", "r", "main").Equal(mk("o", "r", "develop")))
	assert.False(t, mk("o", "r", "main").Equal(mk("o", "other", "main")))
}
