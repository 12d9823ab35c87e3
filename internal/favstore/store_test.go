// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package favstore_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/rickdex/internal/apiclient"
	"github.com/taibuivan/rickdex/internal/character"
	"github.com/taibuivan/rickdex/internal/favorite"
	"github.com/taibuivan/rickdex/internal/favstore"
	"github.com/taibuivan/rickdex/pkg/pagination"
)

var _ favstore.Remote = (*apiclient.Client)(nil)

// fakeRemote answers with scripted functions and counts calls.
type fakeRemote struct {
	mu    sync.Mutex
	calls map[string]int

	list   func(userID string, page, limit int, search string) (*favorite.ListResult, error)
	create func(input favorite.CreateInput) (*favorite.Favorite, error)
	delete func(id, userID string) error
	check  func(userID string, characterID int) (*favorite.Membership, error)
}

func (f *fakeRemote) count(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.calls == nil {
		f.calls = make(map[string]int)
	}
	f.calls[name]++
}

func (f *fakeRemote) Calls(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeRemote) ListFavorites(_ context.Context, userID string, page, limit int, search string) (*favorite.ListResult, error) {
	f.count("list")
	return f.list(userID, page, limit, search)
}

func (f *fakeRemote) CreateFavorite(_ context.Context, input favorite.CreateInput) (*favorite.Favorite, error) {
	f.count("create")
	return f.create(input)
}

func (f *fakeRemote) DeleteFavorite(_ context.Context, id, userID string) error {
	f.count("delete")
	return f.delete(id, userID)
}

func (f *fakeRemote) CheckFavorite(_ context.Context, userID string, characterID int) (*favorite.Membership, error) {
	f.count("check")
	return f.check(userID, characterID)
}

func newStore(remote *fakeRemote) *favstore.Store {
	return favstore.New(remote, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func rick() character.Character {
	return character.Character{ID: 1, Name: "Rick Sanchez", Status: character.StatusAlive, Species: "Human"}
}

func record(id string, characterID int) favorite.Favorite {
	return favorite.Favorite{ID: id, UserID: "user-1", CharacterID: characterID, Character: character.Character{ID: characterID, Name: "c"}}
}

func created(id string) func(favorite.CreateInput) (*favorite.Favorite, error) {
	return func(input favorite.CreateInput) (*favorite.Favorite, error) {
		out := favorite.Favorite{ID: id, UserID: input.UserID, CharacterID: input.CharacterID, Character: *input.Character}
		return &out, nil
	}
}

/*
TestNew_EmptyState verifies the initial snapshot.
*/
func TestNew_EmptyState(t *testing.T) {
	snapshot := newStore(&fakeRemote{}).Snapshot()

	assert.Empty(t, snapshot.Favorites)
	assert.Empty(t, snapshot.FavoriteIDs)
	assert.False(t, snapshot.Loading)
	assert.Empty(t, snapshot.Error)
	assert.Equal(t, pagination.Meta{Total: 0, Page: 1, Limit: 20, Pages: 0}, snapshot.Pagination)
}

/*
TestAddFavorite covers the success and failure paths.
*/
func TestAddFavorite(t *testing.T) {
	t.Run("success_prepends_and_counts", func(t *testing.T) {
		remote := &fakeRemote{create: created("fav-123")}
		store := newStore(remote)
		store.SetFavorites([]favorite.Favorite{record("fav-old", 2)})

		result := store.AddFavorite(context.Background(), favstore.AddParams{UserID: "user-1", Character: rick()})

		require.True(t, result.Success)
		require.NotNil(t, result.Favorite)
		assert.Equal(t, "fav-123", result.Favorite.ID)

		snapshot := store.Snapshot()
		assert.Equal(t, "fav-123", snapshot.Favorites[0].ID)
		assert.Len(t, snapshot.Favorites, 2)
		assert.True(t, store.IsFavorited(1))
		assert.Equal(t, 1, snapshot.Pagination.Total)
	})

	t.Run("failure_leaves_state", func(t *testing.T) {
		remote := &fakeRemote{create: func(favorite.CreateInput) (*favorite.Favorite, error) {
			return nil, &apiclient.Error{StatusCode: 409, Message: favorite.MessageDuplicate}
		}}
		store := newStore(remote)

		result := store.AddFavorite(context.Background(), favstore.AddParams{UserID: "user-1", Character: rick()})

		assert.False(t, result.Success)
		assert.Equal(t, favorite.MessageDuplicate, result.Error)
		assert.False(t, store.IsFavorited(1))
		assert.Zero(t, store.Snapshot().Pagination.Total)
	})
}

/*
TestRemoveFavorite covers the success and failure paths.
*/
func TestRemoveFavorite(t *testing.T) {
	t.Run("success_drops_record", func(t *testing.T) {
		remote := &fakeRemote{create: created("fav-123"), delete: func(string, string) error { return nil }}
		store := newStore(remote)
		store.AddFavorite(context.Background(), favstore.AddParams{UserID: "user-1", Character: rick()})

		result := store.RemoveFavorite(context.Background(), "fav-123", "user-1")

		assert.True(t, result.Success)
		assert.False(t, store.IsFavorited(1))
		assert.Empty(t, store.Snapshot().Favorites)
		assert.Zero(t, store.Snapshot().Pagination.Total)
	})

	t.Run("total_floors_at_zero", func(t *testing.T) {
		remote := &fakeRemote{delete: func(string, string) error { return nil }}
		store := newStore(remote)

		result := store.RemoveFavorite(context.Background(), "unknown", "user-1")

		assert.True(t, result.Success)
		assert.Zero(t, store.Snapshot().Pagination.Total)
	})

	t.Run("failure_keeps_record", func(t *testing.T) {
		remote := &fakeRemote{delete: func(string, string) error {
			return &apiclient.Error{StatusCode: 404, Message: favorite.MessageDeleteMissing}
		}}
		store := newStore(remote)
		store.SetFavorites([]favorite.Favorite{record("fav-123", 1)})

		result := store.RemoveFavorite(context.Background(), "fav-123", "user-2")

		assert.False(t, result.Success)
		assert.Equal(t, favorite.MessageDeleteMissing, result.Error)
		assert.True(t, store.IsFavorited(1))
	})

	t.Run("empty_error_falls_back", func(t *testing.T) {
		remote := &fakeRemote{delete: func(string, string) error { return errors.New("") }}
		result := newStore(remote).RemoveFavorite(context.Background(), "fav-123", "user-1")
		assert.Equal(t, favstore.MessageUnknown, result.Error)
	})
}

/*
TestToggleFavorite verifies the add/remove switch and the missing-record guard.
*/
func TestToggleFavorite(t *testing.T) {
	remote := &fakeRemote{create: created("fav-123"), delete: func(string, string) error { return nil }}
	store := newStore(remote)
	ctx := context.Background()

	// 1. Not a member: adds
	result := store.ToggleFavorite(ctx, "user-1", rick())
	require.NotNil(t, result)
	assert.True(t, result.Success)
	assert.True(t, store.IsFavorited(1))

	// 2. Member: removes
	result = store.ToggleFavorite(ctx, "user-1", rick())
	require.NotNil(t, result)
	assert.True(t, result.Success)
	assert.False(t, store.IsFavorited(1))
	assert.Equal(t, 1, remote.Calls("delete"))

	// 3. Member known only through a check: nothing to remove
	remote.check = func(string, int) (*favorite.Membership, error) {
		return &favorite.Membership{IsFavorited: true}, nil
	}
	require.True(t, store.CheckFavorite(ctx, "user-1", 1))
	assert.Nil(t, store.ToggleFavorite(ctx, "user-1", rick()))
	assert.Equal(t, 1, remote.Calls("delete"))
}

/*
TestFetchFavorites verifies the full overwrite and soft failure.
*/
func TestFetchFavorites(t *testing.T) {
	var gotPage, gotLimit int
	remote := &fakeRemote{list: func(_ string, page, limit int, _ string) (*favorite.ListResult, error) {
		gotPage, gotLimit = page, limit
		return &favorite.ListResult{
			Favorites:  []favorite.Favorite{record("fav-2", 2), record("fav-3", 3)},
			Pagination: pagination.NewMeta(1, 20, 2),
		}, nil
	}}
	store := newStore(remote)
	store.SetFavorites([]favorite.Favorite{record("fav-1", 1)})

	store.FetchFavorites(context.Background(), "user-1", 0, 0, "")

	assert.Equal(t, 1, gotPage)
	assert.Equal(t, 20, gotLimit)

	snapshot := store.Snapshot()
	assert.Equal(t, []int{2, 3}, snapshot.FavoriteIDs)
	assert.False(t, store.IsFavorited(1))
	assert.Equal(t, 2, snapshot.Pagination.Total)
	assert.False(t, snapshot.Loading)

	// Failure is recorded, not returned
	remote.list = func(string, int, int, string) (*favorite.ListResult, error) {
		return nil, errors.New("connection refused")
	}
	store.FetchFavorites(context.Background(), "user-1", 1, 20, "")

	snapshot = store.Snapshot()
	assert.Equal(t, "connection refused", snapshot.Error)
	assert.Len(t, snapshot.Favorites, 2)

	store.ClearError()
	assert.Empty(t, store.Snapshot().Error)
}

/*
TestFetchFavorites_DiscardsStaleResponse verifies an older fetch cannot
overwrite a newer one.
*/
func TestFetchFavorites_DiscardsStaleResponse(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})

	remote := &fakeRemote{list: func(_ string, page, _ int, _ string) (*favorite.ListResult, error) {
		if page == 1 {
			close(entered)
			<-release
			return &favorite.ListResult{Favorites: []favorite.Favorite{record("old", 1)}, Pagination: pagination.NewMeta(1, 20, 1)}, nil
		}
		return &favorite.ListResult{Favorites: []favorite.Favorite{record("new", 9)}, Pagination: pagination.NewMeta(2, 20, 21)}, nil
	}}
	store := newStore(remote)

	done := make(chan struct{})
	go func() {
		defer close(done)
		store.FetchFavorites(context.Background(), "user-1", 1, 20, "")
	}()

	<-entered
	store.FetchFavorites(context.Background(), "user-1", 2, 20, "")
	close(release)
	<-done

	snapshot := store.Snapshot()
	require.Len(t, snapshot.Favorites, 1)
	assert.Equal(t, "new", snapshot.Favorites[0].ID)
	assert.Equal(t, 2, snapshot.Pagination.Page)
	assert.False(t, snapshot.Loading)
}

/*
TestAddFavorite_SupersededResponse verifies two rapid adds of the same
character keep the later-issued outcome.
*/
func TestAddFavorite_SupersededResponse(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})

	var mu sync.Mutex
	calls := 0

	remote := &fakeRemote{create: func(input favorite.CreateInput) (*favorite.Favorite, error) {
		mu.Lock()
		calls++
		first := calls == 1
		mu.Unlock()

		id := "second"
		if first {
			close(entered)
			<-release
			id = "first"
		}
		out := favorite.Favorite{ID: id, UserID: input.UserID, CharacterID: input.CharacterID}
		return &out, nil
	}}
	store := newStore(remote)

	done := make(chan favstore.Result, 1)
	go func() {
		done <- store.AddFavorite(context.Background(), favstore.AddParams{UserID: "user-1", Character: rick()})
	}()

	<-entered
	second := store.AddFavorite(context.Background(), favstore.AddParams{UserID: "user-1", Character: rick()})
	close(release)
	first := <-done

	assert.True(t, first.Success)
	assert.True(t, second.Success)

	snapshot := store.Snapshot()
	require.Len(t, snapshot.Favorites, 1)
	assert.Equal(t, "second", snapshot.Favorites[0].ID)
	assert.Equal(t, 1, snapshot.Pagination.Total)
}

/*
TestCheckFavorite verifies merge-on-positive and soft failure.
*/
func TestCheckFavorite(t *testing.T) {
	tests := []struct {
		name   string
		answer *favorite.Membership
		err    error
		want   bool
	}{
		{"positive", &favorite.Membership{IsFavorited: true}, nil, true},
		{"negative", &favorite.Membership{IsFavorited: false}, nil, false},
		{"transport_failure", nil, errors.New("timeout"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			remote := &fakeRemote{check: func(string, int) (*favorite.Membership, error) { return tt.answer, tt.err }}
			store := newStore(remote)
			store.SetFavorites([]favorite.Favorite{record("fav-2", 2)})

			assert.Equal(t, tt.want, store.CheckFavorite(context.Background(), "user-1", 7))
			assert.Equal(t, tt.want, store.IsFavorited(7))

			// Merge, not overwrite
			assert.True(t, store.IsFavorited(2))
		})
	}
}

/*
TestClear resets list, membership and pagination.
*/
func TestClear(t *testing.T) {
	store := newStore(&fakeRemote{create: created("fav-1")})
	store.AddFavorite(context.Background(), favstore.AddParams{UserID: "user-1", Character: rick()})

	store.Clear()

	snapshot := store.Snapshot()
	assert.Empty(t, snapshot.Favorites)
	assert.Empty(t, snapshot.FavoriteIDs)
	assert.Equal(t, pagination.Meta{Page: 1, Limit: 20}, snapshot.Pagination)
}
