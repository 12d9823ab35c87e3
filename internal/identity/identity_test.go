// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package identity_test

import (
	"context"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/rickdex/internal/identity"
	"github.com/taibuivan/rickdex/internal/platform/clock"
)

func openStore(t *testing.T) (*identity.SQLiteStore, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "state", "rickdex.db")
	store, err := identity.OpenSQLite(context.Background(), path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	return store, path
}

/*
TestSQLiteStore_GetSetDelete covers the key-value round trip.
*/
func TestSQLiteStore_GetSetDelete(t *testing.T) {
	store, _ := openStore(t)
	ctx := context.Background()

	_, ok, err := store.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Set(ctx, "k", "v1"))
	require.NoError(t, store.Set(ctx, "k", "v2"))

	value, ok, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v2", value)

	require.NoError(t, store.Delete(ctx, "k"))
	require.NoError(t, store.Delete(ctx, "k"))

	_, ok, err = store.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

/*
TestProvider_UserID verifies the identifier format and persistence.
*/
func TestProvider_UserID(t *testing.T) {
	store, path := openStore(t)
	ctx := context.Background()
	fake := clock.Fake(time.UnixMilli(1700000000123))

	provider := identity.NewProvider(store, fake)

	first, err := provider.UserID(ctx)
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^user_1700000000123_[0-9a-z]{7}$`), first)

	// Stable within a process, even after time moves
	fake.Advance(time.Hour)
	second, err := provider.UserID(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	// Stable across reopen of the same file
	require.NoError(t, store.Close())
	reopened, err := identity.OpenSQLite(ctx, path)
	require.NoError(t, err)
	defer reopened.Close()

	third, err := identity.NewProvider(reopened, clock.Real()).UserID(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, third)
}

/*
TestSession_Lifecycle covers load, set, logout and the stored flag.
*/
func TestSession_Lifecycle(t *testing.T) {
	store, _ := openStore(t)
	ctx := context.Background()
	session := identity.NewSession(store)

	state, err := session.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, identity.SessionState{}, state)

	stored, err := session.Stored(ctx)
	require.NoError(t, err)
	assert.False(t, stored)

	state, err = session.SetUserID(ctx, "user_1_abcdefg")
	require.NoError(t, err)
	assert.True(t, state.IsAuthenticated)

	loaded, err := session.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, identity.SessionState{UserID: "user_1_abcdefg", IsAuthenticated: true}, loaded)

	raw, ok, err := store.Get(ctx, identity.KeySession)
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `{"state":{"userId":"user_1_abcdefg","isAuthenticated":true},"version":0}`, raw)

	require.NoError(t, session.Logout(ctx))
	loaded, err = session.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, identity.SessionState{}, loaded)

	// A logged-out session is still a stored one
	stored, err = session.Stored(ctx)
	require.NoError(t, err)
	assert.True(t, stored)

	// An empty id is stored but not authenticated
	state, err = session.SetUserID(ctx, "")
	require.NoError(t, err)
	assert.False(t, state.IsAuthenticated)
}
