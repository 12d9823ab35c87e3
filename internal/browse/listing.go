// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package browse

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"slices"
	"strings"
	"sync"

	"github.com/taibuivan/rickdex/internal/apiclient"
	"github.com/taibuivan/rickdex/internal/character"
	"github.com/taibuivan/rickdex/pkg/fold"
)

const (
	// MessageRateLimited is shown when a 429 carries no message.
	MessageRateLimited = "Too many requests. Please wait a moment."

	// MessageUnknown is shown when a failure carries no message.
	MessageUnknown = "Unknown error"
)

// Reader fetches character listings. [*apiclient.Client] implements it.
type Reader interface {
	ListCharacters(context context.Context, page int, filters character.Filters) (*character.Page, error)
}

// State is a copy of the listing state.
type State struct {
	Characters  []character.Character
	Info        *character.ListInfo
	Page        int
	Search      string
	Loading     bool
	Error       string
	RateLimited bool
}

// Listing loads pages of characters and tracks what to show.
type Listing struct {
	reader Reader
	logger *slog.Logger

	mu      sync.Mutex
	state   State
	issued  uint64
	applied uint64
}

// NewListing starts a listing on initialPage (1 when below 1).
func NewListing(reader Reader, logger *slog.Logger, initialPage int) *Listing {
	return &Listing{
		reader: reader,
		logger: logger,
		state:  State{Page: max(1, initialPage), Characters: []character.Character{}},
	}
}

// State returns a copy of the current state.
func (listing *Listing) State() State {
	listing.mu.Lock()
	defer listing.mu.Unlock()

	snapshot := listing.state
	snapshot.Characters = slices.Clone(listing.state.Characters)
	if listing.state.Info != nil {
		info := *listing.state.Info
		snapshot.Info = &info
	}
	return snapshot
}

/*
Load fetches the current page with the current search.

A 429 sets the rate-limited flag and the server's message. A 404 is an empty
result, not an error. Any other failure clears the results and records the
message. A response that resolves after a newer Load has been applied is
discarded.
*/
func (listing *Listing) Load(context context.Context) {
	listing.mu.Lock()
	listing.issued++
	seq := listing.issued
	page, search := listing.state.Page, listing.state.Search
	listing.state.Loading = true
	listing.state.Error = ""
	listing.mu.Unlock()

	result, err := listing.reader.ListCharacters(context, page, character.Filters{Name: search})

	listing.mu.Lock()
	defer listing.mu.Unlock()

	if seq == listing.issued {
		listing.state.Loading = false
	}
	if seq <= listing.applied {
		listing.logger.DebugContext(context, "listing_response_superseded", slog.Int("page", page))
		return
	}
	listing.applied = seq

	switch status := apiclient.StatusOf(err); {
	case err == nil:
		listing.state.RateLimited = false
		listing.show(result)

	case status == http.StatusNotFound:
		listing.state.RateLimited = false
		if result == nil {
			result = character.EmptyPage()
		}
		listing.show(result)

	case status == http.StatusTooManyRequests:
		listing.state.RateLimited = true
		listing.state.Error = messageOr(err, MessageRateLimited)
		listing.clear()

	default:
		listing.state.Error = messageOr(err, MessageUnknown)
		listing.clear()
		listing.logger.WarnContext(context, "listing_load_failed", slog.Int("page", page), slog.String("error", err.Error()))
	}
}

// Retry clears the rate-limited flag and loads again.
func (listing *Listing) Retry(context context.Context) {
	listing.mu.Lock()
	listing.state.RateLimited = false
	listing.mu.Unlock()

	listing.Load(context)
}

// NextPage moves forward when the listing has a next page.
func (listing *Listing) NextPage(context context.Context) bool {
	return listing.move(context, func(state *State) bool {
		if state.Info == nil || state.Info.Next == nil {
			return false
		}
		state.Page++
		return true
	})
}

// PrevPage moves back when the listing has a previous page.
func (listing *Listing) PrevPage(context context.Context) bool {
	return listing.move(context, func(state *State) bool {
		if state.Info == nil || state.Info.Prev == nil {
			return false
		}
		state.Page--
		return true
	})
}

// GoToPage jumps to page 1 at any time, or to any page within the known range.
func (listing *Listing) GoToPage(context context.Context, page int) bool {
	return listing.move(context, func(state *State) bool {
		if page != 1 && (state.Info == nil || page < 1 || page > state.Info.Pages) {
			return false
		}
		state.Page = page
		return true
	})
}

// SetSearch changes the name filter. A changed query goes back to page 1,
// clears the rate-limited flag and loads.
func (listing *Listing) SetSearch(context context.Context, query string) bool {
	query = strings.TrimSpace(query)

	return listing.move(context, func(state *State) bool {
		if fold.Equal(query, state.Search) {
			return false
		}
		state.Search = query
		state.Page = 1
		state.RateLimited = false
		return true
	})
}

func (listing *Listing) move(context context.Context, apply func(*State) bool) bool {
	listing.mu.Lock()
	moved := apply(&listing.state)
	listing.mu.Unlock()

	if moved {
		listing.Load(context)
	}
	return moved
}

// show must be called with mu held.
func (listing *Listing) show(result *character.Page) {
	info := result.Info
	listing.state.Info = &info
	listing.state.Characters = append([]character.Character{}, result.Results...)
}

// clear must be called with mu held.
func (listing *Listing) clear() {
	listing.state.Info = nil
	listing.state.Characters = []character.Character{}
}

func messageOr(err error, fallback string) string {
	var apiErr *apiclient.Error
	if errors.As(err, &apiErr) && apiErr.Message == "" {
		return fallback
	}
	if message := err.Error(); message != "" {
		return message
	}
	return fallback
}
