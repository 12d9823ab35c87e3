// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package user

import (
	"context"
	"log/slog"
	"strings"

	"github.com/taibuivan/rickdex/internal/platform/apperr"
)

// Service manages user anchors.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService constructs a new user service.
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

/*
Ensure creates the anchor for userID or refreshes it.

Parameters:
  - context: context.Context
  - userID: string (opaque client identifier)

Returns:
  - error: MissingParameter for an empty identifier, or a wrapped storage error
*/
func (service *Service) Ensure(context context.Context, userID string) error {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return apperr.MissingParameter("userId is required")
	}

	anchor, err := service.repo.Upsert(context, userID, Username(userID))
	if err != nil {
		return err
	}

	if anchor.CreatedAt.Equal(anchor.UpdatedAt) {
		service.logger.InfoContext(context, "user_anchor_created", slog.String("user_id", userID))
	}
	return nil
}
