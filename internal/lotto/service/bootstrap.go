package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aussiebroadwan/lotto/internal/lotto/domain"
	"github.com/aussiebroadwan/lotto/pkg/slogx"
)

var (
	ErrBootstrapAlready      = errors.New("system already bootstrapped")
	ErrBootstrapUnauthorized = errors.New("unauthorized bootstrap attempt")
	ErrBootstrapDisabled     = errors.New("bootstrap disabled")
)

// BootstrapService creates the first admin. It only works while no admin
// exists and the caller presents the configured token.
type BootstrapService struct {
	Registration *RegistrationService
	Token        string // Pre-configured bootstrap token
}

func (s *BootstrapService) IsBootstrapped(ctx context.Context) (bool, error) {
	n, err := s.Registration.Store.Users().CountUsersByRole(ctx, domain.RoleAdmin)
	if err != nil {
		return false, fmt.Errorf("%w: count admins: %w", ErrTransaction, err)
	}
	return n > 0, nil
}

func (s *BootstrapService) Bootstrap(ctx context.Context, token string, req RegisterRequest) (Registration, error) {
	l := slogx.FromContext(ctx)

	if s.Token == "" {
		return Registration{}, ErrBootstrapDisabled
	}
	if subtle.ConstantTimeCompare([]byte(token), []byte(s.Token)) != 1 {
		l.Warn("unauthorized bootstrap attempt")
		return Registration{}, ErrBootstrapUnauthorized
	}

	bootstrapped, err := s.IsBootstrapped(ctx)
	if err != nil {
		return Registration{}, err
	}
	if bootstrapped {
		l.Warn("attempted bootstrap on already-bootstrapped system")
		return Registration{}, ErrBootstrapAlready
	}

	reg, err := s.Registration.create(ctx, req, domain.RoleAdmin)
	if err != nil {
		return Registration{}, err
	}

	l.Info("successfully bootstrapped system", slog.String("admin_user_id", reg.Account.ID))
	return reg, nil
}
