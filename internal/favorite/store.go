// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package favorite

import "context"

// Repository persists favorites.
type Repository interface {
	// List returns one page of a user's favorites, most recent first, and the
	// total number of matches. An empty search matches everything.
	List(context context.Context, userID, search string, limit, offset int) ([]Favorite, int, error)

	// FindByCharacter returns the user's favorite for characterID, or a
	// NOT_FOUND AppError.
	FindByCharacter(context context.Context, userID string, characterID int) (*Favorite, error)

	// Create inserts the record and fills its timestamps. A duplicate
	// (user, character) pair yields a CONFLICT AppError.
	Create(context context.Context, favorite *Favorite) error

	// Delete removes the record only when both id and owner match.
	Delete(context context.Context, id, userID string) (bool, error)
}

// UserAnchor creates or refreshes the owner of a favorites list.
type UserAnchor interface {
	Ensure(context context.Context, userID string) error
}
