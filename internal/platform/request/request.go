// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package request provides utilities for extracting data from HTTP requests.

It abstracts away the underlying router's parameter extraction and common
body decoding patterns, ensuring consistent error handling and type safety.
*/
package requestutil

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/rickdex/internal/platform/apperr"
	"github.com/taibuivan/rickdex/internal/platform/validate"
)

// maxBodyBytes bounds JSON request bodies. A full character payload is a few KB.
const maxBodyBytes = 1 << 20

/*
DecodeJSON reads the request body and decodes it into the target structure.

Parameters:
  - request: *http.Request
  - target: any (Pointer to the destination struct)

Returns:
  - error: validate.ErrInvalidJSON if decoding fails, otherwise nil
*/
func DecodeJSON(request *http.Request, target any) error {
	decoder := json.NewDecoder(http.MaxBytesReader(nil, request.Body, maxBodyBytes))
	if err := decoder.Decode(target); err != nil {
		return validate.ErrInvalidJSON
	}
	return nil
}

/*
Param retrieves a named URL parameter from the request.
*/
func Param(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

/*
IntParam retrieves a named URL parameter and parses it as a base-10 integer.

Returns:
  - int: Parsed value
  - error: apperr.ValidationError carrying message when the segment is not numeric
*/
func IntParam(request *http.Request, name, message string) (int, error) {
	value, err := strconv.Atoi(chi.URLParam(request, name))
	if err != nil {
		return 0, apperr.ValidationError(message)
	}
	return value, nil
}

/*
Query returns the trimmed value of a query-string parameter.
*/
func Query(request *http.Request, name string) string {
	return strings.TrimSpace(request.URL.Query().Get(name))
}

/*
RequiredQuery returns a query-string parameter or a MissingParameter error
naming it ("<name> is required").
*/
func RequiredQuery(request *http.Request, name string) (string, error) {
	value := Query(request, name)
	if value == "" {
		return "", apperr.MissingParameter(name + " is required")
	}
	return value, nil
}
