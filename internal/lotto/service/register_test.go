package service_test

import (
	"context"
	"errors"
	"net/url"
	"testing"

	"github.com/aussiebroadwan/lotto/internal/lotto/domain"
	"github.com/aussiebroadwan/lotto/internal/lotto/service"
	"github.com/aussiebroadwan/lotto/internal/lotto/validate"
	"github.com/stretchr/testify/require"
)

func TestRegister(t *testing.T) {
	ctx := context.Background()
	e := newTestEnv(t)

	reg, err := e.register.Register(ctx, registerRequest("Ada@Example.com"))
	require.NoError(t, err)
	require.Equal(t, "ada@example.com", reg.Account.Email)
	require.Equal(t, domain.RoleUser, reg.Account.Role)
	require.Nil(t, reg.Account.LastLoggedIn)

	u, err := url.Parse(reg.ProvisioningURI)
	require.NoError(t, err)
	require.Equal(t, "otpauth", u.Scheme)
	require.Equal(t, "totp", u.Host)
	require.Equal(t, testSecret, u.Query().Get("secret"))
	require.Equal(t, service.DefaultIssuer, u.Query().Get("issuer"))

	stored, err := e.store.Users().GetUserByID(ctx, reg.Account.ID)
	require.NoError(t, err)
	require.NotContains(t, stored.PasswordHash, testPassword)
	require.Equal(t, testSecret, stored.TOTPSecret)
	require.NotEmpty(t, stored.DrawKey)

	require.Equal(t, []string{"USER_REGISTRATION"}, e.auditKinds())
	require.Contains(t, e.auditOut.String(), "SECURITY - USER_REGISTRATION [ada@example.com]")
}

func TestRegister_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	e := newTestEnv(t)
	e.mustRegister(t, "a@x.com")

	_, err := e.register.Register(ctx, registerRequest("A@X.COM"))
	require.ErrorIs(t, err, service.ErrDuplicateEmail)
	require.Equal(t, []string{"USER_REGISTRATION"}, e.auditKinds())
}

func TestRegister_LowercasePinKeyIsNormalised(t *testing.T) {
	ctx := context.Background()
	e := newTestEnv(t)

	req := registerRequest("a@x.com")
	req.PinKey = "jbswy3dpehpk3pxpjbswy3dpehpk3pxp"
	reg, err := e.register.Register(ctx, req)
	require.NoError(t, err)

	stored, err := e.store.Users().GetUserByID(ctx, reg.Account.ID)
	require.NoError(t, err)
	require.Equal(t, testSecret, stored.TOTPSecret)
}

func TestRegister_Validation(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*service.RegisterRequest)
		field  string
	}{
		{"bad email", func(r *service.RegisterRequest) { r.Email = "not-an-email" }, "email"},
		{"special char in firstname", func(r *service.RegisterRequest) { r.Firstname = "Ad@" }, "firstname"},
		{"special char in lastname", func(r *service.RegisterRequest) { r.Lastname = "Love<lace>" }, "lastname"},
		{"bad phone", func(r *service.RegisterRequest) { r.Phone = "0123456789" }, "phone"},
		{"weak password", func(r *service.RegisterRequest) { r.Password, r.ConfirmPassword = "password", "password" }, "password"},
		{"confirm mismatch", func(r *service.RegisterRequest) { r.ConfirmPassword = "Passw0rd?" }, "confirm_password"},
		{"short pin key", func(r *service.RegisterRequest) { r.PinKey = "JBSWY3DPEHPK3PXP" }, "pin_key"},
		{"pin key with special char", func(r *service.RegisterRequest) { r.PinKey = "JBSWY3DPEHPK3PXPJBSWY3DPEHPK3PX!" }, "pin_key"},
	}

	e := newTestEnv(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := registerRequest("a@x.com")
			tt.modify(&req)

			_, err := e.register.Register(context.Background(), req)
			var verrs validate.Errors
			require.True(t, errors.As(err, &verrs), "got %v", err)
			require.Contains(t, verrs, tt.field)
		})
	}
	require.Empty(t, e.auditKinds())
}

func TestUserAccount(t *testing.T) {
	ctx := context.Background()
	e := newTestEnv(t)
	acct := e.mustRegister(t, "a@x.com")

	got, err := e.users.Account(ctx, acct.ID)
	require.NoError(t, err)
	require.Equal(t, acct.ID, got.ID)
	require.Equal(t, "Ada", got.Firstname)
	require.Equal(t, "0123-456-7890", got.Phone)

	_, err = e.users.Account(ctx, "01JNOSUCHUSER0000000000000")
	require.ErrorIs(t, err, service.ErrUnauthenticated)
}

func TestBootstrap(t *testing.T) {
	ctx := context.Background()
	e := newTestEnv(t)

	disabled := &service.BootstrapService{Registration: e.register}
	_, err := disabled.Bootstrap(ctx, "", registerRequest("root@x.com"))
	require.ErrorIs(t, err, service.ErrBootstrapDisabled)

	b := &service.BootstrapService{Registration: e.register, Token: "s3cret-bootstrap"}

	_, err = b.Bootstrap(ctx, "guess", registerRequest("root@x.com"))
	require.ErrorIs(t, err, service.ErrBootstrapUnauthorized)

	ok, err := b.IsBootstrapped(ctx)
	require.NoError(t, err)
	require.False(t, ok)

	reg, err := b.Bootstrap(ctx, "s3cret-bootstrap", registerRequest("root@x.com"))
	require.NoError(t, err)
	require.Equal(t, domain.RoleAdmin, reg.Account.Role)

	ok, err = b.IsBootstrapped(ctx)
	require.NoError(t, err)
	require.True(t, ok)

	_, err = b.Bootstrap(ctx, "s3cret-bootstrap", registerRequest("other@x.com"))
	require.ErrorIs(t, err, service.ErrBootstrapAlready)

	res, err := e.sessions.Login(ctx, "", service.LoginRequest{Email: "root@x.com", Password: testPassword, OTP: e.code(t)})
	require.NoError(t, err)
	require.Equal(t, domain.RoleAdmin, res.Principal.Role)
	require.Equal(t, "admin", res.Principal.Role.Landing())
}
