// Queries from queries/sessions.sql.

package gen

import (
	"context"
	"database/sql"
	"time"
)

const bindSession = `-- name: BindSession :execrows
UPDATE sessions
SET user_id = ?, role = ?, failed_attempts = ?
WHERE id = ? AND revoked = 0
`

type BindSessionParams struct {
	UserID         sql.NullString
	Role           sql.NullString
	FailedAttempts int64
	ID             string
}

func (q *Queries) BindSession(ctx context.Context, arg BindSessionParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, bindSession,
		arg.UserID,
		arg.Role,
		arg.FailedAttempts,
		arg.ID,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const claimSessionAttempt = `-- name: ClaimSessionAttempt :one
UPDATE sessions
SET failed_attempts = failed_attempts + 1
WHERE id = ? AND revoked = 0 AND failed_attempts < ?
RETURNING failed_attempts
`

type ClaimSessionAttemptParams struct {
	ID             string
	FailedAttempts int64
}

func (q *Queries) ClaimSessionAttempt(ctx context.Context, arg ClaimSessionAttemptParams) (int64, error) {
	row := q.db.QueryRowContext(ctx, claimSessionAttempt, arg.ID, arg.FailedAttempts)
	var failed_attempts int64
	err := row.Scan(&failed_attempts)
	return failed_attempts, err
}

const createSession = `-- name: CreateSession :exec
INSERT INTO sessions (id, token_hash, failed_attempts, created_at, expires_at)
VALUES (?, ?, ?, ?, ?)
`

type CreateSessionParams struct {
	ID             string
	TokenHash      string
	FailedAttempts int64
	CreatedAt      time.Time
	ExpiresAt      time.Time
}

func (q *Queries) CreateSession(ctx context.Context, arg CreateSessionParams) error {
	_, err := q.db.ExecContext(ctx, createSession,
		arg.ID,
		arg.TokenHash,
		arg.FailedAttempts,
		arg.CreatedAt,
		arg.ExpiresAt,
	)
	return err
}

const deleteExpiredSessions = `-- name: DeleteExpiredSessions :execrows
DELETE FROM sessions WHERE expires_at < ?
`

func (q *Queries) DeleteExpiredSessions(ctx context.Context, expiresAt time.Time) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteExpiredSessions, expiresAt)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const getSessionByTokenHash = `-- name: GetSessionByTokenHash :one
SELECT id, token_hash, failed_attempts, user_id, role, created_at, expires_at, revoked FROM sessions WHERE token_hash = ?
`

func (q *Queries) GetSessionByTokenHash(ctx context.Context, tokenHash string) (Session, error) {
	row := q.db.QueryRowContext(ctx, getSessionByTokenHash, tokenHash)
	var i Session
	err := row.Scan(
		&i.ID,
		&i.TokenHash,
		&i.FailedAttempts,
		&i.UserID,
		&i.Role,
		&i.CreatedAt,
		&i.ExpiresAt,
		&i.Revoked,
	)
	return i, err
}

const revokeSession = `-- name: RevokeSession :exec
UPDATE sessions SET revoked = 1 WHERE id = ?
`

func (q *Queries) RevokeSession(ctx context.Context, id string) error {
	_, err := q.db.ExecContext(ctx, revokeSession, id)
	return err
}
