// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package user

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/rickdex/internal/platform/database/schema"
	"github.com/taibuivan/rickdex/internal/platform/dberr"
)

// PostgresRepository implements [Repository] over the users table.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository constructs a new repository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Upsert implements [Repository].
func (repository *PostgresRepository) Upsert(context context.Context, userID, username string) (*User, error) {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s)
		VALUES ($1, $2, NOW(), NOW())
		ON CONFLICT (%s) DO UPDATE SET %s = EXCLUDED.%s, %s = NOW()
		RETURNING %s, %s, %s, %s
	`,
		schema.User.Table, schema.User.UserID, schema.User.Username, schema.User.CreatedAt, schema.User.UpdatedAt,
		schema.User.UserID, schema.User.Username, schema.User.Username, schema.User.UpdatedAt,
		schema.User.UserID, schema.User.Username, schema.User.CreatedAt, schema.User.UpdatedAt,
	)

	anchor := &User{}
	err := repository.db.QueryRow(context, query, userID, username).Scan(
		&anchor.UserID, &anchor.Username, &anchor.CreatedAt, &anchor.UpdatedAt,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "upsert_user")
	}

	return anchor, nil
}
