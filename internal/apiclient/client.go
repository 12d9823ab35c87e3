// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package apiclient is a typed client for the rickdex HTTP API.
//
// Every response is decoded into the server's own contract types and checked
// before it is returned. A non-2xx response becomes an [*Error] carrying the
// server's message.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/taibuivan/rickdex/internal/character"
	"github.com/taibuivan/rickdex/internal/favorite"
)

const (
	defaultTimeout  = 15 * time.Second
	maxPayloadBytes = 4 << 20
)

// Error is a non-2xx answer from the server.
type Error struct {
	StatusCode int
	Code       string
	Message    string
}

// Error returns the server's message so it can be shown to the user as is.
func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("request failed with status %d", e.StatusCode)
	}
	return e.Message
}

// StatusOf returns the HTTP status of an [*Error], or 0 for any other error.
func StatusOf(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// Client calls the rickdex API.
type Client struct {
	baseURL string
	http    *http.Client
}

// New builds a Client for baseURL (for example http://localhost:8080/api).
// A nil httpClient uses a client with a 15s timeout.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: httpClient}
}

// # Characters

// ListCharacters fetches one page of characters. On a 404 the empty listing
// carried by the response is returned together with the *Error.
func (client *Client) ListCharacters(context context.Context, page int, filters character.Filters) (*character.Page, error) {
	query := filters.Values()
	query.Set("page", strconv.Itoa(page))

	var listing character.Page
	status, err := client.do(context, http.MethodGet, "/characters?"+query.Encode(), nil, &listing)
	if err != nil {
		if status == http.StatusNotFound {
			return character.EmptyPage(), err
		}
		return nil, err
	}

	for index := range listing.Results {
		if err := listing.Results[index].Validate(); err != nil {
			return nil, invalidPayload(err)
		}
	}
	if listing.Results == nil {
		listing.Results = []character.Character{}
	}
	return &listing, nil
}

// GetCharacter fetches a single character.
func (client *Client) GetCharacter(context context.Context, id int) (*character.Character, error) {
	var item character.Character
	if _, err := client.do(context, http.MethodGet, "/characters/"+strconv.Itoa(id), nil, &item); err != nil {
		return nil, err
	}
	if err := item.Validate(); err != nil {
		return nil, invalidPayload(err)
	}
	return &item, nil
}

// # Favorites

// ListFavorites fetches one page of a user's favorites.
func (client *Client) ListFavorites(context context.Context, userID string, page, limit int, search string) (*favorite.ListResult, error) {
	query := url.Values{}
	query.Set("userId", userID)
	query.Set("page", strconv.Itoa(page))
	query.Set("limit", strconv.Itoa(limit))
	if search != "" {
		query.Set("search", search)
	}

	var result favorite.ListResult
	if _, err := client.do(context, http.MethodGet, "/favorites?"+query.Encode(), nil, &result); err != nil {
		return nil, err
	}

	for index := range result.Favorites {
		if err := checkFavorite(&result.Favorites[index]); err != nil {
			return nil, err
		}
	}
	if result.Favorites == nil {
		result.Favorites = []favorite.Favorite{}
	}
	return &result, nil
}

// CreateFavorite stores a new favorite.
func (client *Client) CreateFavorite(context context.Context, input favorite.CreateInput) (*favorite.Favorite, error) {
	var record favorite.Favorite
	if _, err := client.do(context, http.MethodPost, "/favorites", input, &record); err != nil {
		return nil, err
	}
	if err := checkFavorite(&record); err != nil {
		return nil, err
	}
	return &record, nil
}

// DeleteFavorite removes a favorite owned by userID.
func (client *Client) DeleteFavorite(context context.Context, id, userID string) error {
	path := "/favorites/" + url.PathEscape(id) + "?userId=" + url.QueryEscape(userID)
	_, err := client.do(context, http.MethodDelete, path, nil, nil)
	return err
}

// CheckFavorite asks whether userID has favorited characterID.
func (client *Client) CheckFavorite(context context.Context, userID string, characterID int) (*favorite.Membership, error) {
	path := "/favorites/by-character/" + strconv.Itoa(characterID) + "?userId=" + url.QueryEscape(userID)

	var membership favorite.Membership
	if _, err := client.do(context, http.MethodGet, path, nil, &membership); err != nil {
		return nil, err
	}
	if membership.IsFavorited && membership.Favorite != nil {
		if err := checkFavorite(membership.Favorite); err != nil {
			return nil, err
		}
	}
	return &membership, nil
}

// # Transport

type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// do performs the request and decodes a 2xx body into out (when non-nil).
// It returns the HTTP status, or 0 when no response was received.
func (client *Client) do(context context.Context, method, path string, in, out any) (int, error) {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return 0, fmt.Errorf("apiclient: encode request: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	request, err := http.NewRequestWithContext(context, method, client.baseURL+path, body)
	if err != nil {
		return 0, fmt.Errorf("apiclient: build request: %w", err)
	}
	request.Header.Set("Accept", "application/json")
	if in != nil {
		request.Header.Set("Content-Type", "application/json")
	}

	response, err := client.http.Do(request)
	if err != nil {
		return 0, fmt.Errorf("apiclient: %s %s: %w", method, path, err)
	}
	defer response.Body.Close()

	reader := io.LimitReader(response.Body, maxPayloadBytes)

	if response.StatusCode < 200 || response.StatusCode > 299 {
		var failure errorBody
		_ = json.NewDecoder(reader).Decode(&failure)
		return response.StatusCode, &Error{StatusCode: response.StatusCode, Code: failure.Code, Message: failure.Error}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, reader)
		return response.StatusCode, nil
	}

	if err := json.NewDecoder(reader).Decode(out); err != nil {
		return response.StatusCode, invalidPayload(err)
	}
	return response.StatusCode, nil
}

func checkFavorite(record *favorite.Favorite) error {
	switch {
	case record.ID == "":
		return invalidPayload(errors.New("favorite without id"))
	case record.CharacterID == 0:
		return invalidPayload(errors.New("favorite without characterId"))
	}
	return nil
}

func invalidPayload(err error) error {
	return fmt.Errorf("apiclient: invalid response payload: %w", err)
}
