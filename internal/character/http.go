// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package character

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/rickdex/internal/platform/apperr"
	requestutil "github.com/taibuivan/rickdex/internal/platform/request"
	"github.com/taibuivan/rickdex/internal/platform/respond"
)

// Client-facing messages of the characters proxy.
const (
	MessageRateLimited  = "Too many requests. Please wait a moment before trying again."
	MessageNoResults    = "No characters found with the given criteria."
	MessageListFailed   = "Failed to fetch characters from Rick and Morty API"
	MessageInvalidID    = "Invalid character ID"
	MessageDetailFailed = "Failed to fetch character from Rick and Morty API"
)

// Reader is the read side of the upstream source consumed by [Handler].
type Reader interface {
	ListCharacters(context context.Context, page int, filters Filters) (*Page, error)
	GetCharacter(context context.Context, id int) (*Character, error)
}

// NoResultsBody is the 404 body of an empty listing. It carries the empty
// listing shape next to the error so clients can render it directly.
type NoResultsBody struct {
	Error   string      `json:"error"`
	Code    string      `json:"code"`
	Results []Character `json:"results"`
	Info    ListInfo    `json:"info"`
}

// Handler proxies character reads to the upstream source.
type Handler struct {
	reader Reader
}

// NewHandler constructs a new character HTTP handler.
func NewHandler(reader Reader) *Handler {
	return &Handler{reader: reader}
}

// Routes returns the chi router for the characters proxy.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.listCharacters)
	router.Get("/{id}", handler.getCharacter)

	return router
}

// # Handlers

func (handler *Handler) listCharacters(writer http.ResponseWriter, request *http.Request) {
	page := 1
	if raw := requestutil.Query(request, "page"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			page = parsed
		}
	}

	listing, err := handler.reader.ListCharacters(request.Context(), page, FiltersFromQuery(request.URL.Query()))
	if err != nil {
		switch {
		case IsRateLimited(err):
			respond.Error(writer, request, apperr.RateLimited(MessageRateLimited))
		case IsNotFound(err):
			respond.JSON(writer, http.StatusNotFound, NoResultsBody{
				Error:   MessageNoResults,
				Code:    apperr.CodeNotFound,
				Results: []Character{},
				Info:    ListInfo{},
			})
		default:
			respond.Error(writer, request, apperr.Upstream(MessageListFailed, err))
		}
		return
	}

	respond.OK(writer, listing)
}

func (handler *Handler) getCharacter(writer http.ResponseWriter, request *http.Request) {
	characterID, err := requestutil.IntParam(request, "id", MessageInvalidID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	// Every upstream failure, throttling and unknown ids included, is a 500.
	item, err := handler.reader.GetCharacter(request.Context(), characterID)
	if err != nil {
		respond.Error(writer, request, apperr.Upstream(MessageDetailFailed, err))
		return
	}

	respond.OK(writer, item)
}
