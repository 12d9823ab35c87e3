package schema

// FavoriteTable represents the 'favorites' table
type FavoriteTable struct {
	Table       string
	ID          string
	UserID      string
	CharacterID string
	Character   string
	CreatedAt   string
	UpdatedAt   string

	// UniqueUserCharacter is the constraint guarding (userid, characterid).
	UniqueUserCharacter string
}

// Favorite is the schema definition for favorites
var Favorite = FavoriteTable{
	Table:               "favorites",
	ID:                  "id",
	UserID:              "userid",
	CharacterID:         "characterid",
	Character:           "character",
	CreatedAt:           "createdat",
	UpdatedAt:           "updatedat",
	UniqueUserCharacter: "favorites_user_character_key",
}

// Columns returns all standard column names
func (t FavoriteTable) Columns() []string {
	return []string{t.ID, t.UserID, t.CharacterID, t.Character, t.CreatedAt, t.UpdatedAt}
}
