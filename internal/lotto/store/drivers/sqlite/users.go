package sqlite

import (
	"context"
	"strings"
	"time"

	"github.com/aussiebroadwan/lotto/internal/lotto/domain"
	"github.com/aussiebroadwan/lotto/internal/lotto/store"
	"github.com/aussiebroadwan/lotto/internal/lotto/store/drivers/sqlite/gen"
)

type usersRepo struct {
	q *gen.Queries
}

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	row, err := r.q.GetUserByID(ctx, id)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return mapUser(row), nil
}

func (r *usersRepo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	row, err := r.q.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return mapUser(row), nil
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	createdAt := u.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	err := r.q.CreateUser(ctx, gen.CreateUserParams{
		ID:           u.ID,
		Email:        strings.ToLower(strings.TrimSpace(u.Email)),
		Firstname:    u.Firstname,
		Lastname:     u.Lastname,
		Phone:        u.Phone,
		PasswordHash: u.PasswordHash,
		TotpSecret:   u.TOTPSecret,
		DrawKey:      u.DrawKey,
		Role:         string(u.Role),
		CreatedAt:    createdAt.UTC(),
	})
	return mapConstraint(err)
}

func (r *usersRepo) RecordLogin(ctx context.Context, userID string, at time.Time) error {
	n, err := r.q.RecordUserLogin(ctx, gen.RecordUserLoginParams{
		CurrentLoggedIn: at.UTC(),
		ID:              userID,
	})
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *usersRepo) CountUsersByRole(ctx context.Context, role domain.Role) (int64, error) {
	return r.q.CountUsersByRole(ctx, string(role))
}
