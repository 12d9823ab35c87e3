// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package favorite

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/rickdex/internal/platform/apperr"
	"github.com/taibuivan/rickdex/internal/platform/database/schema"
	"github.com/taibuivan/rickdex/internal/platform/dberr"
)

// PostgresRepository implements [Repository] over the favorites table.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository constructs a new repository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

var selectColumns = strings.Join(schema.Favorite.Columns(), ", ")

// List implements [Repository].
func (repository *PostgresRepository) List(context context.Context, userID, search string, limit, offset int) ([]Favorite, int, error) {
	where, args := listFilter(userID, search)

	countQuery := fmt.Sprintf(`SELECT count(*) FROM %s WHERE %s`, schema.Favorite.Table, where)

	var total int
	if err := repository.db.QueryRow(context, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "count_favorites")
	}

	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s ORDER BY %s DESC, %s DESC LIMIT $%s OFFSET $%s`,
		selectColumns, schema.Favorite.Table, where,
		schema.Favorite.CreatedAt, schema.Favorite.ID,
		itos(len(args)+1), itos(len(args)+2),
	)
	args = append(args, limit, offset)

	rows, err := repository.db.Query(context, query, args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_favorites")
	}
	defer rows.Close()

	favorites := make([]Favorite, 0, limit)
	for rows.Next() {
		record, err := scanFavorite(rows)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "scan_favorite")
		}
		favorites = append(favorites, *record)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "list_favorites")
	}

	return favorites, total, nil
}

// FindByCharacter implements [Repository].
func (repository *PostgresRepository) FindByCharacter(context context.Context, userID string, characterID int) (*Favorite, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 AND %s = $2`,
		selectColumns, schema.Favorite.Table, schema.Favorite.UserID, schema.Favorite.CharacterID,
	)

	record, err := scanFavorite(repository.db.QueryRow(context, query, userID, characterID))
	if err != nil {
		return nil, dberr.Wrap(err, "find_favorite")
	}
	return record, nil
}

// Create implements [Repository].
func (repository *PostgresRepository) Create(context context.Context, favorite *Favorite) error {
	payload, err := json.Marshal(favorite.Character)
	if err != nil {
		return apperr.Internal(fmt.Errorf("encode character: %w", err))
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		RETURNING %s, %s
	`,
		schema.Favorite.Table, schema.Favorite.ID, schema.Favorite.UserID, schema.Favorite.CharacterID,
		schema.Favorite.Character, schema.Favorite.CreatedAt, schema.Favorite.UpdatedAt,
		schema.Favorite.CreatedAt, schema.Favorite.UpdatedAt,
	)

	err = repository.db.QueryRow(context, query, favorite.ID, favorite.UserID, favorite.CharacterID, payload).
		Scan(&favorite.CreatedAt, &favorite.UpdatedAt)
	return dberr.Wrap(err, "create_favorite")
}

// Delete implements [Repository].
func (repository *PostgresRepository) Delete(context context.Context, id, userID string) (bool, error) {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1 AND %s = $2`,
		schema.Favorite.Table, schema.Favorite.ID, schema.Favorite.UserID,
	)

	cmd, err := repository.db.Exec(context, query, id, userID)
	if err != nil {
		return false, dberr.Wrap(err, "delete_favorite")
	}
	return cmd.RowsAffected() > 0, nil
}

// # Helpers

func scanFavorite(row pgx.Row) (*Favorite, error) {
	var (
		record  Favorite
		payload []byte
	)
	if err := row.Scan(&record.ID, &record.UserID, &record.CharacterID, &payload, &record.CreatedAt, &record.UpdatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(payload, &record.Character); err != nil {
		return nil, fmt.Errorf("decode character: %w", err)
	}
	return &record, nil
}

// listFilter scopes a listing to userID and, when search is set, to a
// case-insensitive literal substring of the stored character name.
func listFilter(userID, search string) (string, []any) {
	where := fmt.Sprintf("%s = $1", schema.Favorite.UserID)
	args := []any{userID}

	if search != "" {
		where += fmt.Sprintf(` AND %s->>'name' ILIKE $2 ESCAPE '\'`, schema.Favorite.Character)
		args = append(args, "%"+escapeLike(search)+"%")
	}
	return where, args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike neutralizes LIKE wildcards so the search is a literal substring.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func itos(i int) string {
	return strconv.Itoa(i)
}
