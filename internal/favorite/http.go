// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package favorite

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/rickdex/internal/platform/ctxutil"
	requestutil "github.com/taibuivan/rickdex/internal/platform/request"
	"github.com/taibuivan/rickdex/internal/platform/respond"
	"github.com/taibuivan/rickdex/pkg/pagination"
)

// Handler exposes the favorites resource over HTTP.
type Handler struct {
	service *Service
}

// NewHandler constructs a new favorites HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the chi router for /favorites.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.listFavorites)
	router.Post("/", handler.createFavorite)
	router.Get("/by-character/{characterId}", handler.checkFavorite)
	router.Delete("/{id}", handler.deleteFavorite)

	return router
}

// # Handlers

func (handler *Handler) listFavorites(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredQuery(request, FieldUserID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	request = scoped(request, userID)

	paging := pagination.FromRequest(request)

	result, err := handler.service.List(request.Context(), ListParams{
		UserID: userID,
		Page:   paging.Page,
		Limit:  paging.Limit,
		Search: requestutil.Query(request, FieldSearch),
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, result)
}

func (handler *Handler) createFavorite(writer http.ResponseWriter, request *http.Request) {
	var input CreateInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}
	request = scoped(request, input.UserID)

	record, err := handler.service.Create(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, record)
}

func (handler *Handler) deleteFavorite(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredQuery(request, FieldUserID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	request = scoped(request, userID)

	if err := handler.service.Delete(request.Context(), requestutil.Param(request, "id"), userID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Message(writer, MessageDeleted)
}

func (handler *Handler) checkFavorite(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredQuery(request, FieldUserID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	request = scoped(request, userID)

	characterID, err := requestutil.IntParam(request, "characterId", MessageInvalidID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	membership, err := handler.service.Check(request.Context(), userID, characterID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, membership)
}

// scoped tags the request logger with the caller's user id.
func scoped(request *http.Request, userID string) *http.Request {
	if userID == "" {
		return request
	}
	return request.WithContext(ctxutil.WithLogAttrs(request.Context(), slog.String("user_id", userID)))
}
