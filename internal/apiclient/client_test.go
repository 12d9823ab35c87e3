// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package apiclient_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/rickdex/internal/apiclient"
	"github.com/taibuivan/rickdex/internal/character"
	"github.com/taibuivan/rickdex/internal/favorite"
)

// route is a scripted response for one method+path.
type route struct {
	status int
	body   string
}

// recorder collects request lines and bodies seen by the fake server.
type recorder struct {
	mu      sync.Mutex
	entries []string
}

func (r *recorder) add(entry string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, entry)
}

func (r *recorder) all() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.entries...)
}

func newServer(t *testing.T, routes map[string]route, seen *recorder) *apiclient.Client {
	t.Helper()

	if seen == nil {
		seen = &recorder{}
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen.add(r.Method + " " + r.URL.RequestURI())

		scripted, ok := routes[r.Method+" "+r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusTeapot)
			return
		}

		if body, _ := io.ReadAll(r.Body); len(body) > 0 {
			seen.add(string(body))
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(scripted.status)
		_, _ = io.WriteString(w, scripted.body)
	}))
	t.Cleanup(server.Close)

	return apiclient.New(server.URL+"/api", server.Client())
}

const favoriteJSON = `{"_id":"0190a1b2-0000-7000-8000-000000000001","userId":"u1","characterId":42,"character":{"id":42,"name":"Rick Sanchez"},"createdAt":"2026-01-01T00:00:00Z","updatedAt":"2026-01-01T00:00:00Z"}`

/*
TestListCharacters_NotFoundCarriesEmptyPage verifies the 404 contract.
*/
func TestListCharacters_NotFoundCarriesEmptyPage(t *testing.T) {
	seen := &recorder{}
	client := newServer(t, map[string]route{
		"GET /api/characters": {http.StatusNotFound, `{"error":"No characters found with the given criteria.","code":"NOT_FOUND","results":[],"info":{"count":0,"pages":0,"next":null,"prev":null}}`},
	}, seen)

	listing, err := client.ListCharacters(context.Background(), 2, character.Filters{Name: "zzz"})
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, apiclient.StatusOf(err))
	assert.Equal(t, "No characters found with the given criteria.", err.Error())
	require.NotNil(t, listing)
	assert.Empty(t, listing.Results)
	assert.Equal(t, []string{"GET /api/characters?name=zzz&page=2"}, seen.all())
}

/*
TestListCharacters_RejectsInvalidPayload verifies boundary validation.
*/
func TestListCharacters_RejectsInvalidPayload(t *testing.T) {
	client := newServer(t, map[string]route{
		"GET /api/characters": {http.StatusOK, `{"info":{"count":1,"pages":1},"results":[{"id":0,"name":""}]}`},
	}, nil)

	_, err := client.ListCharacters(context.Background(), 1, character.Filters{})
	require.Error(t, err)
	assert.Equal(t, 0, apiclient.StatusOf(err))
}

/*
TestFavorites_RoundTrip covers create, check, list and delete requests.
*/
func TestFavorites_RoundTrip(t *testing.T) {
	const favoriteID = "0190a1b2-0000-7000-8000-000000000001"
	listJSON := `{"favorites":[` + favoriteJSON + `],"pagination":{"total":1,"page":1,"limit":20,"pages":1}}`

	seen := &recorder{}
	client := newServer(t, map[string]route{
		"POST /api/favorites":                 {http.StatusCreated, favoriteJSON},
		"GET /api/favorites":                  {http.StatusOK, listJSON},
		"GET /api/favorites/by-character/42":  {http.StatusOK, `{"isFavorited":true,"favorite":` + favoriteJSON + `}`},
		"DELETE /api/favorites/" + favoriteID: {http.StatusOK, `{"message":"Favorite removed successfully"}`},
	}, seen)

	ctx := context.Background()

	// 1. Create sends the full body and decodes the legacy id
	record, err := client.CreateFavorite(ctx, favorite.CreateInput{UserID: "u1", CharacterID: 42, Character: &character.Character{ID: 42, Name: "Rick Sanchez"}})
	require.NoError(t, err)
	assert.Equal(t, favoriteID, record.ID)

	var sent map[string]any
	require.NoError(t, json.Unmarshal([]byte(seen.all()[1]), &sent))
	assert.Equal(t, "u1", sent["userId"])
	assert.Equal(t, float64(42), sent["characterId"])

	// 2. List
	result, err := client.ListFavorites(ctx, "u1", 1, 20, "rick")
	require.NoError(t, err)
	require.Len(t, result.Favorites, 1)
	assert.Equal(t, 1, result.Pagination.Pages)
	assert.Contains(t, seen.all(), "GET /api/favorites?limit=20&page=1&search=rick&userId=u1")

	// 3. Check
	membership, err := client.CheckFavorite(ctx, "u1", 42)
	require.NoError(t, err)
	assert.True(t, membership.IsFavorited)

	// 4. Delete
	require.NoError(t, client.DeleteFavorite(ctx, record.ID, "u1"))
	assert.Contains(t, seen.all(), "DELETE /api/favorites/"+favoriteID+"?userId=u1")
}

/*
TestErrors_CarryServerMessage verifies error decoding.
*/
func TestErrors_CarryServerMessage(t *testing.T) {
	client := newServer(t, map[string]route{
		"POST /api/favorites": {http.StatusConflict, `{"error":"Character already in favorites","code":"CONFLICT"}`},
	}, nil)

	_, err := client.CreateFavorite(context.Background(), favorite.CreateInput{UserID: "u1", CharacterID: 1, Character: &character.Character{ID: 1, Name: "Rick"}})

	var apiErr *apiclient.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusConflict, apiErr.StatusCode)
	assert.Equal(t, "CONFLICT", apiErr.Code)
	assert.Equal(t, "Character already in favorites", apiErr.Error())
}
