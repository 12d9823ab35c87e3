// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/rickdex/internal/api"
	"github.com/taibuivan/rickdex/internal/character"
	"github.com/taibuivan/rickdex/internal/favorite"
)

type settings struct{}

func (settings) Port() string             { return "0" }
func (settings) IsDevelopment() bool      { return true }
func (settings) OriginSuffixes() []string { return nil }

type emptyReader struct{}

func (emptyReader) ListCharacters(context.Context, int, character.Filters) (*character.Page, error) {
	return nil, character.ErrNotFound
}

func (emptyReader) GetCharacter(context.Context, int) (*character.Character, error) {
	return nil, character.ErrNotFound
}

func newTestServer(t *testing.T, deps api.HealthDependencies) http.Handler {
	t.Helper()

	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	liveness, readiness := api.NewHealthHandlers(deps, logger)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	server := api.NewServer(ctx, settings{}, logger, api.Handlers{
		Liveness:   liveness,
		Readiness:  readiness,
		Characters: character.NewHandler(emptyReader{}),
		Favorites:  favorite.NewHandler(favorite.NewService(nil, nil, logger)),
	})
	return server.Handler()
}

func get(t *testing.T, handler http.Handler, path string) (int, map[string]any) {
	t.Helper()

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, path, nil))

	var body map[string]any
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	return recorder.Code, body
}

/*
TestServer_Routes verifies the /api mounts and the probes.
*/
func TestServer_Routes(t *testing.T) {
	handler := newTestServer(t, api.HealthDependencies{})

	status, body := get(t, handler, "/health")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", body["status"])

	status, body = get(t, handler, "/api/characters?name=nobody")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "No characters found with the given criteria.", body["error"])

	status, body = get(t, handler, "/api/characters/abc")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Invalid character ID", body["error"])

	status, body = get(t, handler, "/api/favorites")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "userId is required", body["error"])
}

/*
TestReadiness reports degraded when a dependency fails.
*/
func TestReadiness(t *testing.T) {
	healthy := func(context.Context) error { return nil }
	broken := func(context.Context) error { return errors.New("connection refused") }

	status, body := get(t, newTestServer(t, api.HealthDependencies{CheckDatabase: healthy}), "/ready")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ready", body["status"])
	assert.Len(t, body["checks"], 1)

	status, body = get(t, newTestServer(t, api.HealthDependencies{CheckDatabase: healthy, CheckCache: broken}), "/ready")
	assert.Equal(t, http.StatusServiceUnavailable, status)
	assert.Equal(t, "degraded", body["status"])
	assert.Len(t, body["checks"], 2)
}
