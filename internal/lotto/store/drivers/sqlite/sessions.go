package sqlite

import (
	"context"
	"time"

	"github.com/aussiebroadwan/lotto/internal/lotto/domain"
	"github.com/aussiebroadwan/lotto/internal/lotto/store"
	"github.com/aussiebroadwan/lotto/internal/lotto/store/drivers/sqlite/gen"
)

type sessionsRepo struct {
	q *gen.Queries
}

func (r *sessionsRepo) CreateSession(ctx context.Context, s domain.LoginSession) error {
	createdAt := s.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	err := r.q.CreateSession(ctx, gen.CreateSessionParams{
		ID:             s.ID,
		TokenHash:      s.TokenHash,
		FailedAttempts: int64(s.FailedAttempts),
		CreatedAt:      createdAt.UTC(),
		ExpiresAt:      s.ExpiresAt.UTC(),
	})
	return mapConstraint(err)
}

func (r *sessionsRepo) GetSessionByTokenHash(ctx context.Context, tokenHash string) (domain.LoginSession, error) {
	row, err := r.q.GetSessionByTokenHash(ctx, tokenHash)
	if err != nil {
		return domain.LoginSession{}, mapNotFound(err)
	}
	return mapSession(row), nil
}

func (r *sessionsRepo) ClaimSessionAttempt(ctx context.Context, id string, limit int) (int, error) {
	n, err := r.q.ClaimSessionAttempt(ctx, gen.ClaimSessionAttemptParams{
		ID:             id,
		FailedAttempts: int64(limit),
	})
	if err != nil {
		return 0, mapNotFound(err)
	}
	return int(n), nil
}

func (r *sessionsRepo) BindSession(ctx context.Context, id string, userID string, role domain.Role, failedAttempts int) error {
	n, err := r.q.BindSession(ctx, gen.BindSessionParams{
		UserID:         mapStringNull(userID),
		Role:           mapStringNull(string(role)),
		FailedAttempts: int64(failedAttempts),
		ID:             id,
	})
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *sessionsRepo) RevokeSession(ctx context.Context, id string) error {
	return r.q.RevokeSession(ctx, id)
}

func (r *sessionsRepo) DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error) {
	return r.q.DeleteExpiredSessions(ctx, now.UTC())
}
