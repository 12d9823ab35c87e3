// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package favorite

import (
	"context"
	"log/slog"
	"strings"

	"github.com/taibuivan/rickdex/internal/platform/apperr"
	"github.com/taibuivan/rickdex/internal/platform/validate"
	"github.com/taibuivan/rickdex/pkg/fold"
	"github.com/taibuivan/rickdex/pkg/pagination"
	"github.com/taibuivan/rickdex/pkg/uuid"
)

// Service implements the favorites use cases.
type Service struct {
	repo   Repository
	users  UserAnchor
	logger *slog.Logger
}

// NewService constructs a new favorites service.
func NewService(repo Repository, users UserAnchor, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		users:  users,
		logger: logger,
	}
}

/*
List returns one page of a user's favorites.

Parameters:
  - context: context.Context
  - params: ListParams (page defaults to 1, limit to 20 and is capped at 100)

Returns:
  - *ListResult: Favorites most recent first, with pagination metadata
  - error: MissingParameter when UserID is empty, Validation when Search is too long
*/
func (service *Service) List(context context.Context, params ListParams) (*ListResult, error) {
	userID := strings.TrimSpace(params.UserID)
	if userID == "" {
		return nil, apperr.MissingParameter(MessageUserRequired)
	}

	if err := (&validate.Validator{}).MaxLen(FieldSearch, params.Search, MaxSearchLength).Err(); err != nil {
		return nil, err
	}

	paging := pagination.Params{Page: params.Page, Limit: params.Limit}.Normalize()

	if err := service.users.Ensure(context, userID); err != nil {
		return nil, err
	}

	favorites, total, err := service.repo.List(context, userID, fold.Normalize(params.Search), paging.Limit, paging.Offset())
	if err != nil {
		return nil, err
	}
	if favorites == nil {
		favorites = []Favorite{}
	}

	return &ListResult{
		Favorites:  favorites,
		Pagination: pagination.NewMeta(paging.Page, paging.Limit, total),
	}, nil
}

/*
Create favorites a character for a user.

Parameters:
  - context: context.Context
  - input: CreateInput (all three fields are required)

Returns:
  - *Favorite: The stored record
  - error: MissingParameter, or Conflict when the pair already exists
*/
func (service *Service) Create(context context.Context, input CreateInput) (*Favorite, error) {
	input.UserID = strings.TrimSpace(input.UserID)

	validator := &validate.Validator{}
	validator.
		Required(FieldUserID, input.UserID).
		RequiredInt(FieldCharacterID, input.CharacterID).
		Custom(FieldCharacter, input.Character.Validate() != nil, "This field is required")

	if err := validator.MissingErr(MessageCreateRequired); err != nil {
		return nil, err
	}

	if err := service.users.Ensure(context, input.UserID); err != nil {
		return nil, err
	}

	// 1. Pre-check the (user, character) pair
	existing, err := service.repo.FindByCharacter(context, input.UserID, input.CharacterID)
	if err != nil && !apperr.HasCode(err, apperr.CodeNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, apperr.Conflict(MessageDuplicate)
	}

	// 2. Insert; a concurrent duplicate surfaces as a unique violation
	record := &Favorite{
		ID:          uuid.New(),
		UserID:      input.UserID,
		CharacterID: input.CharacterID,
		Character:   *input.Character,
	}

	if err := service.repo.Create(context, record); err != nil {
		if conflict := apperr.As(err); conflict != nil && conflict.Code == apperr.CodeConflict {
			return nil, conflict.WithMessage(MessageDuplicate)
		}
		return nil, err
	}

	service.logger.InfoContext(context, "favorite_created",
		slog.String("favorite_id", record.ID),
		slog.String("user_id", record.UserID),
		slog.Int("character_id", record.CharacterID),
	)
	return record, nil
}

/*
Delete removes a favorite owned by userID.

Returns:
  - error: MissingParameter when userID is empty, NotFound when no record
    matches both id and owner
*/
func (service *Service) Delete(context context.Context, id, userID string) error {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return apperr.MissingParameter(MessageUserRequired)
	}

	// Ids are UUIDs; anything else cannot match a record.
	if !uuid.Valid(id) {
		return apperr.NotFound(MessageDeleteMissing)
	}

	deleted, err := service.repo.Delete(context, id, userID)
	if err != nil {
		return err
	}
	if !deleted {
		return apperr.NotFound(MessageDeleteMissing)
	}

	service.logger.InfoContext(context, "favorite_deleted",
		slog.String("favorite_id", id),
		slog.String("user_id", userID),
	)
	return nil
}

/*
Check reports whether userID has favorited characterID.

Returns:
  - *Membership: IsFavorited and the record, or false and nil
  - error: MissingParameter when userID is empty
*/
func (service *Service) Check(context context.Context, userID string, characterID int) (*Membership, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, apperr.MissingParameter(MessageUserRequired)
	}

	record, err := service.repo.FindByCharacter(context, userID, characterID)
	if err != nil {
		if apperr.HasCode(err, apperr.CodeNotFound) {
			return &Membership{}, nil
		}
		return nil, err
	}

	return &Membership{IsFavorited: true, Favorite: record}, nil
}
