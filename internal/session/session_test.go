package session

import (
	"context"
	"testing"
	"time"

	"example.com/blackstars/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T) Manager {
	t.Helper()
	store, err := NewMemStore(time.Hour)
	require.NoError(t, err)
	return NewManager(store)
}

func TestEstablishThenResolve(t *testing.T) {
	ctx := context.Background()
	mgr := newTestManager(t)
	identity := api.Identity{ID: "7", Username: "alice"}

	sid, err := mgr.Establish(ctx, identity)
	require.NoError(t, err)
	require.NotEmpty(t, sid)

	got, err := mgr.Resolve(ctx, sid)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, identity, *got)
}

func TestResolveUnknownToken(t *testing.T) {
	ctx := context.Background()
	mgr := newTestManager(t)

	got, err := mgr.Resolve(ctx, "no-such-token")
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = mgr.Resolve(ctx, "")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRevokeIsIdempotent(t *testing.T) {
	ctx := context.Background()
	mgr := newTestManager(t)

	sid, err := mgr.Establish(ctx, api.Identity{ID: "7", Username: "alice"})
	require.NoError(t, err)

	require.NoError(t, mgr.Revoke(ctx, sid))

	// revoked token behaves like an unknown one
	got, err := mgr.Resolve(ctx, sid)
	require.NoError(t, err)
	assert.Nil(t, got)

	// a second revoke still succeeds
	require.NoError(t, mgr.Revoke(ctx, sid))
	require.NoError(t, mgr.Revoke(ctx, "never-existed"))
}

func TestDistinctTokensPerEstablish(t *testing.T) {
	ctx := context.Background()
	mgr := newTestManager(t)
	identity := api.Identity{ID: "7", Username: "alice"}

	first, err := mgr.Establish(ctx, identity)
	require.NoError(t, err)
	second, err := mgr.Establish(ctx, identity)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}
