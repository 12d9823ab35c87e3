// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package favorite implements the per-user favorites resource.
//
// A favorite pins one upstream character to one anonymous user and keeps a
// copy of the character payload, so listings never call the upstream source.
// A user can favorite a given character at most once.
package favorite

import (
	"encoding/json"
	"time"

	"github.com/taibuivan/rickdex/internal/character"
	"github.com/taibuivan/rickdex/pkg/pagination"
)

// Favorite is a persisted favorite record. It is never updated in place.
type Favorite struct {
	ID          string              `json:"id"`
	UserID      string              `json:"userId"`
	CharacterID int                 `json:"characterId"`
	Character   character.Character `json:"character"`
	CreatedAt   time.Time           `json:"createdAt"`
	UpdatedAt   time.Time           `json:"updatedAt"`
}

type favoriteAlias Favorite

// MarshalJSON writes the id under both "id" and "_id".
func (f Favorite) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		favoriteAlias
		LegacyID string `json:"_id"`
	}{favoriteAlias(f), f.ID})
}

// UnmarshalJSON accepts the id under either "id" or "_id".
func (f *Favorite) UnmarshalJSON(data []byte) error {
	var wire struct {
		favoriteAlias
		LegacyID string `json:"_id"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}

	*f = Favorite(wire.favoriteAlias)
	if f.ID == "" {
		f.ID = wire.LegacyID
	}
	return nil
}

// ListParams selects one page of a user's favorites.
type ListParams struct {
	UserID string
	Page   int
	Limit  int

	// Search is a case-insensitive substring of the character name.
	Search string
}

// ListResult is one page of favorites, most recent first.
type ListResult struct {
	Favorites  []Favorite      `json:"favorites"`
	Pagination pagination.Meta `json:"pagination"`
}

// CreateInput is the body of a create request.
type CreateInput struct {
	UserID      string               `json:"userId"`
	CharacterID int                  `json:"characterId"`
	Character   *character.Character `json:"character"`
}

// Membership answers whether a user has favorited a character.
type Membership struct {
	IsFavorited bool      `json:"isFavorited"`
	Favorite    *Favorite `json:"favorite"`
}

// # Messages

const (
	MessageUserRequired   = "userId is required"
	MessageCreateRequired = "userId, characterId, and character are required"
	MessageDuplicate      = "Character already in favorites"
	MessageDeleteMissing  = "Favorite not found or you don't have permission to delete it"
	MessageDeleted        = "Favorite removed successfully"
	MessageInvalidID      = "Invalid character ID"
)

// MaxSearchLength bounds the name filter of a favorites listing.
const MaxSearchLength = 100

// # Field Names

const (
	FieldUserID      = "userId"
	FieldCharacterID = "characterId"
	FieldCharacter   = "character"
	FieldSearch      = "search"
)
