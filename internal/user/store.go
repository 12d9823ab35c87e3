// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package user

import "context"

// Repository persists user anchors.
type Repository interface {
	// Upsert inserts the anchor or refreshes its updatedAt.
	Upsert(context context.Context, userID, username string) (*User, error)
}
