// Queries from queries/draws.sql.

package gen

import (
	"context"
	"time"
)

const createDraw = `-- name: CreateDraw :exec
INSERT INTO draws (id, user_id, ciphertext, played, win, round, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
`

type CreateDrawParams struct {
	ID         string
	UserID     string
	Ciphertext []byte
	Played     bool
	Win        bool
	Round      int64
	CreatedAt  time.Time
}

func (q *Queries) CreateDraw(ctx context.Context, arg CreateDrawParams) error {
	_, err := q.db.ExecContext(ctx, createDraw,
		arg.ID,
		arg.UserID,
		arg.Ciphertext,
		arg.Played,
		arg.Win,
		arg.Round,
		arg.CreatedAt,
	)
	return err
}

const deletePlayedDraws = `-- name: DeletePlayedDraws :execrows
DELETE FROM draws WHERE user_id = ? AND played = 1
`

func (q *Queries) DeletePlayedDraws(ctx context.Context, userID string) (int64, error) {
	result, err := q.db.ExecContext(ctx, deletePlayedDraws, userID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const getDrawByID = `-- name: GetDrawByID :one
SELECT id, user_id, ciphertext, played, win, round, created_at FROM draws WHERE id = ?
`

func (q *Queries) GetDrawByID(ctx context.Context, id string) (Draw, error) {
	row := q.db.QueryRowContext(ctx, getDrawByID, id)
	var i Draw
	err := row.Scan(
		&i.ID,
		&i.UserID,
		&i.Ciphertext,
		&i.Played,
		&i.Win,
		&i.Round,
		&i.CreatedAt,
	)
	return i, err
}

const listDrawsByUser = `-- name: ListDrawsByUser :many
SELECT id, user_id, ciphertext, played, win, round, created_at FROM draws
WHERE user_id = ? AND played = ?
ORDER BY id DESC
`

type ListDrawsByUserParams struct {
	UserID string
	Played bool
}

func (q *Queries) ListDrawsByUser(ctx context.Context, arg ListDrawsByUserParams) ([]Draw, error) {
	rows, err := q.db.QueryContext(ctx, listDrawsByUser, arg.UserID, arg.Played)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Draw
	for rows.Next() {
		var i Draw
		if err := rows.Scan(
			&i.ID,
			&i.UserID,
			&i.Ciphertext,
			&i.Played,
			&i.Win,
			&i.Round,
			&i.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const markDrawPlayed = `-- name: MarkDrawPlayed :execrows
UPDATE draws
SET played = 1, win = ?, round = ?
WHERE id = ? AND played = 0
`

type MarkDrawPlayedParams struct {
	Win   bool
	Round int64
	ID    string
}

func (q *Queries) MarkDrawPlayed(ctx context.Context, arg MarkDrawPlayedParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, markDrawPlayed, arg.Win, arg.Round, arg.ID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
