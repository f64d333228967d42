package service

import (
	"context"
	"encoding/base32"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aussiebroadwan/lotto/internal/lotto/audit"
	"github.com/aussiebroadwan/lotto/internal/lotto/domain"
	"github.com/aussiebroadwan/lotto/internal/lotto/store"
	"github.com/aussiebroadwan/lotto/internal/lotto/validate"
	"github.com/aussiebroadwan/lotto/pkg/cryptox"
	"github.com/aussiebroadwan/lotto/pkg/idx"
	"github.com/aussiebroadwan/lotto/pkg/slogx"
	"github.com/pquerna/otp/totp"
)

const DefaultIssuer = "lotto"

type RegisterRequest struct {
	Email           string `json:"email" validate:"required,email"`
	Firstname       string `json:"firstname" validate:"required,max=64,nospecial"`
	Lastname        string `json:"lastname" validate:"required,max=64,nospecial"`
	Phone           string `json:"phone" validate:"required,phone"`
	Password        string `json:"password" validate:"required,password"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=Password"`
	PinKey          string `json:"pin_key" validate:"required,pinkey"`
}

// Registration is what a new user gets back: their account and the
// otpauth:// URI for enrolling the pin key in an authenticator app.
type Registration struct {
	Account         domain.Account `json:"account"`
	ProvisioningURI string         `json:"provisioning_uri"`
}

type RegistrationService struct {
	Store     store.Store
	Audit     *audit.Logger
	Validator *validate.Validator
	Issuer    string
	Now       func() time.Time
}

// Register creates a user with the user role.
func (s *RegistrationService) Register(ctx context.Context, req RegisterRequest) (Registration, error) {
	return s.create(ctx, req, domain.RoleUser)
}

func (s *RegistrationService) create(ctx context.Context, req RegisterRequest, role domain.Role) (Registration, error) {
	l := slogx.FromContext(ctx)

	if s.Validator != nil {
		if err := s.Validator.Struct(req); err != nil {
			return Registration{}, err
		}
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	secret := strings.ToUpper(req.PinKey)

	passHash, err := cryptox.HashPassword(req.Password)
	if err != nil {
		l.Error("failed to hash password", slog.Any("error", err))
		return Registration{}, fmt.Errorf("hash password: %w", err)
	}

	drawKey, err := cryptox.GenerateKey()
	if err != nil {
		return Registration{}, fmt.Errorf("generate draw key: %w", err)
	}
	wrapped, err := cryptox.WrapKey(drawKey)
	if err != nil {
		return Registration{}, fmt.Errorf("wrap draw key: %w", err)
	}

	uri, err := s.provisioningURI(email, secret)
	if err != nil {
		return Registration{}, err
	}

	u := domain.User{
		ID:           idx.New().String(),
		Email:        email,
		Firstname:    strings.TrimSpace(req.Firstname),
		Lastname:     strings.TrimSpace(req.Lastname),
		Phone:        req.Phone,
		PasswordHash: passHash,
		TOTPSecret:   secret,
		DrawKey:      wrapped,
		Role:         role,
		CreatedAt:    nowFrom(s.Now),
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Users().CreateUser(ctx, u); err != nil {
			if errors.Is(err, store.ErrAlreadyExists) {
				return ErrDuplicateEmail
			}
			return fmt.Errorf("%w: create user: %w", ErrTransaction, err)
		}
		if err := s.Audit.Record(ctx, audit.Event{Kind: audit.KindUserRegistration, Email: email}); err != nil {
			return fmt.Errorf("%w: %w", ErrTransaction, err)
		}
		return nil
	})
	if err != nil {
		return Registration{}, err
	}

	l.Info("user registered", slog.String("user_id", u.ID), slog.String("role", string(role)))
	return Registration{Account: u.Account(), ProvisioningURI: uri}, nil
}

// provisioningURI renders the otpauth:// key for secret with the same
// parameters login verifies against.
func (s *RegistrationService) provisioningURI(email, secret string) (string, error) {
	raw, err := base32.StdEncoding.WithPadding(base32.NoPadding).DecodeString(secret)
	if err != nil {
		return "", fmt.Errorf("decode pin key: %w", err)
	}

	issuer := s.Issuer
	if issuer == "" {
		issuer = DefaultIssuer
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      issuer,
		AccountName: email,
		Period:      totpPeriod,
		Digits:      totpDigits,
		Algorithm:   totpAlgo,
		Secret:      raw,
	})
	if err != nil {
		return "", fmt.Errorf("build provisioning uri: %w", err)
	}
	return key.URL(), nil
}
