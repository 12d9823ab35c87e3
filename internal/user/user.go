// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package user keeps the anonymous user anchors that favorites hang off.
//
// A user row is created the first time an identifier lists or creates
// favorites and is touched on every later call. There is no sign-up and no
// credential: the identifier is generated on the client.
package user

import (
	"time"

	"github.com/taibuivan/rickdex/internal/platform/constants"
)

// User is an anonymous anchor keyed by the client-generated identifier.
type User struct {
	UserID    string    `json:"userId"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Username derives the display name of an identifier.
func Username(userID string) string {
	return constants.UsernamePrefix + userID
}
