package service_test

import (
	"context"
	"testing"

	"github.com/aussiebroadwan/lotto/internal/lotto/audit"
	"github.com/aussiebroadwan/lotto/internal/lotto/domain"
	"github.com/aussiebroadwan/lotto/internal/lotto/service"
	"github.com/stretchr/testify/require"
)

func TestAuthorize(t *testing.T) {
	admins := domain.Roles(domain.RoleAdmin)

	tests := []struct {
		name      string
		principal *domain.Principal
		wantErr   error
		wantRun   bool
		wantAudit string
	}{
		{
			name:      "user denied for admin operation",
			principal: &domain.Principal{UserID: "u1", Email: "u@x.com", Role: domain.RoleUser},
			wantErr:   service.ErrForbidden,
			wantAudit: "SECURITY - UNAUTHORIZED_ACCESS [u1, u@x.com, user, 198.51.100.7]",
		},
		{
			name:      "admin runs admin operation",
			principal: &domain.Principal{UserID: "a1", Email: "admin@x.com", Role: domain.RoleAdmin},
			wantRun:   true,
		},
		{
			name:    "anonymous caller is unauthenticated and not audited",
			wantErr: service.ErrUnauthenticated,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			out := &syncBuffer{}
			g := &service.Guard{Audit: audit.New(out)}
			ctx := audit.WithRemoteAddr(context.Background(), "198.51.100.7")

			ran := false
			got, err := service.Authorize(ctx, g, tt.principal, admins, func(context.Context) (int, error) {
				ran = true
				return 42, nil
			})

			require.Equal(t, tt.wantRun, ran)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				require.Zero(t, got)
			} else {
				require.NoError(t, err)
				require.Equal(t, 42, got)
			}

			if tt.wantAudit == "" {
				require.Empty(t, out.Lines())
			} else {
				require.Len(t, out.Lines(), 1)
				require.Contains(t, out.Lines()[0], tt.wantAudit)
			}
		})
	}
}

func TestAuthorize_ReturnsOperationErrorUnchanged(t *testing.T) {
	g := &service.Guard{Audit: audit.Discard()}
	p := &domain.Principal{UserID: "u1", Role: domain.RoleUser}

	_, err := service.Authorize(context.Background(), g, p, domain.Roles(domain.RoleUser), func(context.Context) (string, error) {
		return "", service.ErrDrawNotFound
	})
	require.Equal(t, service.ErrDrawNotFound, err)
}
