package schema

// UserTable represents the 'users' anchor table
type UserTable struct {
	Table     string
	UserID    string
	Username  string
	CreatedAt string
	UpdatedAt string
}

// User is the schema definition for users
var User = UserTable{
	Table:     "users",
	UserID:    "userid",
	Username:  "username",
	CreatedAt: "createdat",
	UpdatedAt: "updatedat",
}

// Columns returns all standard column names
func (t UserTable) Columns() []string {
	return []string{t.UserID, t.Username, t.CreatedAt, t.UpdatedAt}
}
