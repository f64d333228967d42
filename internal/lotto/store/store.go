package store

import (
	"context"
	"errors"
	"time"

	"github.com/aussiebroadwan/lotto/internal/lotto/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Sub-repositories hang off it so a
// Tx-scoped Store can hand out the same repos bound to the transaction, and
// so nobody can start a transaction inside a transaction.
type Store interface {
	Users() Users
	Draws() Draws
	Sessions() Sessions

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx runs fn in a transaction: committed when fn returns nil, rolled
	// back otherwise.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByEmail matches case-insensitively.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// CreateUser inserts a new user. A taken email yields ErrAlreadyExists.
	CreateUser(ctx context.Context, u domain.User) error

	// RecordLogin shifts current_logged_in into last_logged_in and sets
	// current_logged_in to at, in a single statement.
	RecordLogin(ctx context.Context, userID string, at time.Time) error

	// CountUsersByRole is used by bootstrap to see whether an admin exists.
	CountUsersByRole(ctx context.Context, role domain.Role) (int64, error)
}

type Draws interface {
	CreateDraw(ctx context.Context, d domain.Draw) error

	GetDrawByID(ctx context.Context, id string) (domain.Draw, error)

	// ListDrawsByUser returns the user's draws with the given played flag,
	// newest first (id DESC).
	ListDrawsByUser(ctx context.Context, userID string, played bool) ([]domain.Draw, error)

	// DeletePlayedDraws removes the user's played draws and returns how many
	// rows went.
	DeletePlayedDraws(ctx context.Context, userID string) (int64, error)

	// MarkDrawPlayed sets played, win and round on an unplayed draw. It
	// returns 0 when the draw does not exist or was already played.
	MarkDrawPlayed(ctx context.Context, id string, round int, win bool) (int64, error)
}

type Sessions interface {
	CreateSession(ctx context.Context, s domain.LoginSession) error

	// GetSessionByTokenHash returns a session regardless of expiry or
	// revocation; callers decide what is still usable.
	GetSessionByTokenHash(ctx context.Context, tokenHash string) (domain.LoginSession, error)

	// ClaimSessionAttempt atomically counts one login attempt against a live
	// session and returns the new count. A session already at limit (or
	// revoked) is left untouched and yields ErrNotFound.
	ClaimSessionAttempt(ctx context.Context, id string, limit int) (int, error)

	// BindSession attaches an authenticated user to the session.
	BindSession(ctx context.Context, id string, userID string, role domain.Role, failedAttempts int) error

	RevokeSession(ctx context.Context, id string) error

	// DeleteExpiredSessions removes sessions that expired before now.
	DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error)
}
