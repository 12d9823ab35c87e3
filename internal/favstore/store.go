// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package favstore keeps a local mirror of one user's favorites.

The mirror is updated only after the server confirms a change, so there is
never anything to roll back. Membership questions are answered from memory.

Ordering:

  - Mutations are numbered per character when issued. A response is applied
    only if no later mutation for the same character was applied first.
  - Fetches are numbered globally. A fetch that resolves after a newer one
    has already been applied is discarded.
*/
package favstore

import (
	"context"
	"log/slog"
	"maps"
	"slices"
	"sync"

	"github.com/taibuivan/rickdex/internal/character"
	"github.com/taibuivan/rickdex/internal/favorite"
	"github.com/taibuivan/rickdex/pkg/pagination"
)

// MessageUnknown is reported when a failure carries no message.
const MessageUnknown = "Unknown error"

// Remote is the favorites API the store mirrors.
type Remote interface {
	ListFavorites(context context.Context, userID string, page, limit int, search string) (*favorite.ListResult, error)
	CreateFavorite(context context.Context, input favorite.CreateInput) (*favorite.Favorite, error)
	DeleteFavorite(context context.Context, id, userID string) error
	CheckFavorite(context context.Context, userID string, characterID int) (*favorite.Membership, error)
}

// AddParams identifies the character a user wants to favorite.
type AddParams struct {
	UserID    string
	Character character.Character
}

// Result reports the outcome of a mutation. Failures never surface as errors.
type Result struct {
	Success  bool
	Error    string
	Favorite *favorite.Favorite
}

// Snapshot is a copy of the store state.
type Snapshot struct {
	Favorites   []favorite.Favorite
	FavoriteIDs []int
	Loading     bool
	Error       string
	Pagination  pagination.Meta
}

// Store is safe for concurrent use.
type Store struct {
	remote Remote
	logger *slog.Logger

	mu         sync.Mutex
	favorites  []favorite.Favorite
	members    map[int]struct{}
	loading    bool
	lastError  string
	pagination pagination.Meta

	// per-character mutation sequence
	issued  map[int]uint64
	applied map[int]uint64

	fetchIssued  uint64
	fetchApplied uint64
}

// New returns an empty store backed by remote.
func New(remote Remote, logger *slog.Logger) *Store {
	return &Store{
		remote:     remote,
		logger:     logger,
		favorites:  []favorite.Favorite{},
		members:    make(map[int]struct{}),
		pagination: initialPagination(),
		issued:     make(map[int]uint64),
		applied:    make(map[int]uint64),
	}
}

func initialPagination() pagination.Meta {
	return pagination.Meta{Page: pagination.DefaultPage, Limit: pagination.DefaultLimit}
}

// # Mutations

/*
AddFavorite creates a favorite on the server and mirrors it locally.

Parameters:
  - context: context.Context
  - params: AddParams

Returns:
  - Result: Success with the created record, or the server's message
*/
func (store *Store) AddFavorite(context context.Context, params AddParams) Result {
	characterID := params.Character.ID
	seq := store.begin(characterID)

	item := params.Character
	record, err := store.remote.CreateFavorite(context, favorite.CreateInput{
		UserID:      params.UserID,
		CharacterID: characterID,
		Character:   &item,
	})
	if err != nil {
		return Result{Error: message(err)}
	}

	store.mu.Lock()
	defer store.mu.Unlock()

	if !store.commit(characterID, seq) {
		store.logger.DebugContext(context, "favorite_response_superseded",
			slog.String("op", "add"), slog.Int("character_id", characterID))
		return Result{Success: true, Favorite: record}
	}

	// A fetch that resolved in the meantime may already hold the record.
	if !slices.ContainsFunc(store.favorites, func(f favorite.Favorite) bool { return f.ID == record.ID }) {
		store.favorites = append([]favorite.Favorite{*record}, store.favorites...)
		store.pagination.Total++
	}
	store.members[record.CharacterID] = struct{}{}

	return Result{Success: true, Favorite: record}
}

/*
RemoveFavorite deletes a favorite on the server and drops it locally.

Parameters:
  - context: context.Context
  - favoriteID: string
  - userID: string

Returns:
  - Result: Success, or the server's message
*/
func (store *Store) RemoveFavorite(context context.Context, favoriteID, userID string) Result {
	store.mu.Lock()
	characterID, known := store.characterOf(favoriteID)
	store.mu.Unlock()

	var seq uint64
	if known {
		seq = store.begin(characterID)
	}

	if err := store.remote.DeleteFavorite(context, favoriteID, userID); err != nil {
		return Result{Error: message(err)}
	}

	store.mu.Lock()
	defer store.mu.Unlock()

	if known && !store.commit(characterID, seq) {
		store.logger.DebugContext(context, "favorite_response_superseded",
			slog.String("op", "remove"), slog.Int("character_id", characterID))
		return Result{Success: true}
	}

	store.favorites = slices.DeleteFunc(store.favorites, func(f favorite.Favorite) bool { return f.ID == favoriteID })
	if known {
		delete(store.members, characterID)
	}
	store.pagination.Total = max(0, store.pagination.Total-1)

	return Result{Success: true}
}

/*
ToggleFavorite removes the character when it is a member and adds it otherwise.

Returns:
  - *Result: nil when the character is a member but no local record backs it
*/
func (store *Store) ToggleFavorite(context context.Context, userID string, item character.Character) *Result {
	store.mu.Lock()
	_, member := store.members[item.ID]
	var favoriteID string
	if member {
		for _, record := range store.favorites {
			if record.CharacterID == item.ID {
				favoriteID = record.ID
				break
			}
		}
	}
	store.mu.Unlock()

	var result Result
	switch {
	case member && favoriteID == "":
		store.logger.WarnContext(context, "favorite_toggle_without_record", slog.Int("character_id", item.ID))
		return nil
	case member:
		result = store.RemoveFavorite(context, favoriteID, userID)
	default:
		result = store.AddFavorite(context, AddParams{UserID: userID, Character: item})
	}
	return &result
}

// # Reads

// IsFavorited reports local membership. It never performs I/O.
func (store *Store) IsFavorited(characterID int) bool {
	store.mu.Lock()
	defer store.mu.Unlock()

	_, ok := store.members[characterID]
	return ok
}

/*
FetchFavorites replaces the mirror with one page from the server.

Failures are recorded in the store error and never returned. Page and limit
fall back to 1 and 20.
*/
func (store *Store) FetchFavorites(context context.Context, userID string, page, limit int, search string) {
	paging := pagination.Params{Page: page, Limit: limit}.Normalize()

	store.mu.Lock()
	store.fetchIssued++
	seq := store.fetchIssued
	store.loading = true
	store.lastError = ""
	store.mu.Unlock()

	result, err := store.remote.ListFavorites(context, userID, paging.Page, paging.Limit, search)

	store.mu.Lock()
	defer store.mu.Unlock()

	if seq == store.fetchIssued {
		store.loading = false
	}

	if seq <= store.fetchApplied {
		store.logger.DebugContext(context, "favorites_fetch_superseded", slog.Uint64("seq", seq))
		return
	}
	store.fetchApplied = seq

	if err != nil {
		store.lastError = message(err)
		store.logger.WarnContext(context, "favorites_fetch_failed", slog.String("error", store.lastError))
		return
	}

	store.replace(result.Favorites)
	store.pagination = result.Pagination
}

/*
CheckFavorite asks the server about one character and merges a positive
answer into the membership set.

Returns:
  - bool: false on a negative answer and on any failure
*/
func (store *Store) CheckFavorite(context context.Context, userID string, characterID int) bool {
	store.mu.Lock()
	before := store.applied[characterID]
	store.mu.Unlock()

	membership, err := store.remote.CheckFavorite(context, userID, characterID)
	if err != nil {
		store.logger.DebugContext(context, "favorite_check_failed",
			slog.Int("character_id", characterID), slog.String("error", err.Error()))
		return false
	}
	if !membership.IsFavorited {
		return false
	}

	store.mu.Lock()
	defer store.mu.Unlock()

	// A mutation on this character resolved while the check was in flight.
	if store.applied[characterID] != before {
		return true
	}
	store.members[characterID] = struct{}{}
	return true
}

// Snapshot returns a copy of the current state.
func (store *Store) Snapshot() Snapshot {
	store.mu.Lock()
	defer store.mu.Unlock()

	return Snapshot{
		Favorites:   slices.Clone(store.favorites),
		FavoriteIDs: slices.Sorted(maps.Keys(store.members)),
		Loading:     store.loading,
		Error:       store.lastError,
		Pagination:  store.pagination,
	}
}

// # Direct State

// ClearError forgets the last fetch error.
func (store *Store) ClearError() {
	store.mu.Lock()
	defer store.mu.Unlock()
	store.lastError = ""
}

// Clear empties the mirror and resets pagination.
func (store *Store) Clear() {
	store.mu.Lock()
	defer store.mu.Unlock()

	store.replace(nil)
	store.pagination = initialPagination()
}

// SetFavorites overwrites the list and membership set. Pagination is kept.
func (store *Store) SetFavorites(favorites []favorite.Favorite) {
	store.mu.Lock()
	defer store.mu.Unlock()
	store.replace(favorites)
}

// # Helpers

// replace must be called with mu held.
func (store *Store) replace(favorites []favorite.Favorite) {
	store.favorites = append([]favorite.Favorite{}, favorites...)
	store.members = make(map[int]struct{}, len(favorites))
	for _, record := range favorites {
		store.members[record.CharacterID] = struct{}{}
	}
}

// characterOf must be called with mu held.
func (store *Store) characterOf(favoriteID string) (int, bool) {
	for _, record := range store.favorites {
		if record.ID == favoriteID {
			return record.CharacterID, true
		}
	}
	return 0, false
}

func (store *Store) begin(characterID int) uint64 {
	store.mu.Lock()
	defer store.mu.Unlock()

	store.issued[characterID]++
	return store.issued[characterID]
}

// commit must be called with mu held.
func (store *Store) commit(characterID int, seq uint64) bool {
	if seq <= store.applied[characterID] {
		return false
	}
	store.applied[characterID] = seq
	return true
}

func message(err error) string {
	if err == nil || err.Error() == "" {
		return MessageUnknown
	}
	return err.Error()
}
