// Queries from queries/users.sql.

package gen

import (
	"context"
	"time"
)

const countUsersByRole = `-- name: CountUsersByRole :one
SELECT COUNT(*) FROM users WHERE role = ?
`

func (q *Queries) CountUsersByRole(ctx context.Context, role string) (int64, error) {
	row := q.db.QueryRowContext(ctx, countUsersByRole, role)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const createUser = `-- name: CreateUser :exec
INSERT INTO users (
    id, email, firstname, lastname, phone, password_hash, totp_secret, draw_key, role, created_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

type CreateUserParams struct {
	ID           string
	Email        string
	Firstname    string
	Lastname     string
	Phone        string
	PasswordHash string
	TotpSecret   string
	DrawKey      []byte
	Role         string
	CreatedAt    time.Time
}

func (q *Queries) CreateUser(ctx context.Context, arg CreateUserParams) error {
	_, err := q.db.ExecContext(ctx, createUser,
		arg.ID,
		arg.Email,
		arg.Firstname,
		arg.Lastname,
		arg.Phone,
		arg.PasswordHash,
		arg.TotpSecret,
		arg.DrawKey,
		arg.Role,
		arg.CreatedAt,
	)
	return err
}

const getUserByEmail = `-- name: GetUserByEmail :one
SELECT id, email, firstname, lastname, phone, password_hash, totp_secret, draw_key, role, last_logged_in, current_logged_in, created_at FROM users WHERE email = ? COLLATE NOCASE
`

func (q *Queries) GetUserByEmail(ctx context.Context, email string) (User, error) {
	row := q.db.QueryRowContext(ctx, getUserByEmail, email)
	var i User
	err := row.Scan(
		&i.ID,
		&i.Email,
		&i.Firstname,
		&i.Lastname,
		&i.Phone,
		&i.PasswordHash,
		&i.TotpSecret,
		&i.DrawKey,
		&i.Role,
		&i.LastLoggedIn,
		&i.CurrentLoggedIn,
		&i.CreatedAt,
	)
	return i, err
}

const getUserByID = `-- name: GetUserByID :one
SELECT id, email, firstname, lastname, phone, password_hash, totp_secret, draw_key, role, last_logged_in, current_logged_in, created_at FROM users WHERE id = ?
`

func (q *Queries) GetUserByID(ctx context.Context, id string) (User, error) {
	row := q.db.QueryRowContext(ctx, getUserByID, id)
	var i User
	err := row.Scan(
		&i.ID,
		&i.Email,
		&i.Firstname,
		&i.Lastname,
		&i.Phone,
		&i.PasswordHash,
		&i.TotpSecret,
		&i.DrawKey,
		&i.Role,
		&i.LastLoggedIn,
		&i.CurrentLoggedIn,
		&i.CreatedAt,
	)
	return i, err
}

const recordUserLogin = `-- name: RecordUserLogin :execrows
UPDATE users
SET last_logged_in = current_logged_in,
    current_logged_in = ?
WHERE id = ?
`

type RecordUserLoginParams struct {
	CurrentLoggedIn time.Time
	ID              string
}

func (q *Queries) RecordUserLogin(ctx context.Context, arg RecordUserLoginParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, recordUserLogin, arg.CurrentLoggedIn, arg.ID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
