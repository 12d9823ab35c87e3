// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package dberr_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/rickdex/internal/platform/apperr"
	"github.com/taibuivan/rickdex/internal/platform/dberr"
)

/*
TestWrap_Mapping verifies the classification of raw driver errors.
*/
func TestWrap_Mapping(t *testing.T) {
	uniqueViolation := &pgconn.PgError{Code: "23505", ConstraintName: "favorites_user_character_key"}

	tests := []struct {
		name   string
		err    error
		code   string
		status int
	}{
		{"no_rows", pgx.ErrNoRows, apperr.CodeNotFound, http.StatusNotFound},
		{"unique_violation", uniqueViolation, apperr.CodeConflict, http.StatusConflict},
		{"wrapped_unique_violation", fmt.Errorf("insert: %w", uniqueViolation), apperr.CodeConflict, http.StatusConflict},
		{"other", errors.New("connection reset"), apperr.CodeInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := dberr.Wrap(tt.err, "test_action")

			ae := apperr.As(wrapped)
			require.NotNil(t, ae)
			assert.Equal(t, tt.code, ae.Code)
			assert.Equal(t, tt.status, ae.HTTPStatus)
		})
	}
}

/*
TestWrap_Passthrough verifies nil and already-classified errors are untouched.
*/
func TestWrap_Passthrough(t *testing.T) {
	assert.NoError(t, dberr.Wrap(nil, "noop"))

	original := apperr.Conflict("Character already in favorites")
	assert.Same(t, original, dberr.Wrap(original, "noop"))
}

/*
TestConstraintName extracts the constraint from a PostgreSQL error.
*/
func TestConstraintName(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", &pgconn.PgError{Code: "23505", ConstraintName: "users_pkey"})

	assert.Equal(t, "users_pkey", dberr.ConstraintName(err))
	assert.Empty(t, dberr.ConstraintName(errors.New("plain")))
	assert.True(t, dberr.IsUniqueViolation(err))
}
