package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/aussiebroadwan/lotto/internal/lotto/domain"
	"github.com/aussiebroadwan/lotto/internal/lotto/store"
)

type UserService struct {
	Store store.Store
}

// Account returns the read model of the caller's own user record.
func (s *UserService) Account(ctx context.Context, userID string) (domain.Account, error) {
	u, err := s.Store.Users().GetUserByID(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Account{}, ErrUnauthenticated
	}
	if err != nil {
		return domain.Account{}, fmt.Errorf("%w: load user: %w", ErrTransaction, err)
	}
	return u.Account(), nil
}
