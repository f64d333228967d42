package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aussiebroadwan/lotto/internal/lotto/audit"
	"github.com/aussiebroadwan/lotto/internal/lotto/domain"
	"github.com/aussiebroadwan/lotto/internal/lotto/metrics"
	"github.com/aussiebroadwan/lotto/pkg/slogx"
)

// Guard decides whether a principal may run a role-restricted operation and
// audits every refusal of an authenticated caller.
type Guard struct {
	Audit   *audit.Logger
	Metrics *metrics.Metrics
}

// Check returns nil when p holds one of roles. An anonymous caller gets
// ErrUnauthenticated without an audit event; an authenticated caller with
// the wrong role is audited and gets ErrForbidden.
func (g *Guard) Check(ctx context.Context, p *domain.Principal, roles domain.RoleSet) error {
	if p == nil {
		return ErrUnauthenticated
	}
	if roles.Contains(p.Role) {
		return nil
	}

	g.Metrics.AccessDenied(string(p.Role))
	slogx.FromContext(ctx).Warn("access denied",
		slog.String("user_id", p.UserID),
		slog.String("role", string(p.Role)),
	)

	err := g.Audit.Record(ctx, audit.Event{
		Kind:   audit.KindUnauthorizedAccess,
		UserID: p.UserID,
		Email:  p.Email,
		Role:   string(p.Role),
	})
	if err != nil {
		return fmt.Errorf("%w (audit: %w)", ErrForbidden, err)
	}
	return ErrForbidden
}

// Authorize runs op only when p holds one of roles, and returns op's result
// unchanged.
func Authorize[T any](ctx context.Context, g *Guard, p *domain.Principal, roles domain.RoleSet, op func(context.Context) (T, error)) (T, error) {
	if err := g.Check(ctx, p, roles); err != nil {
		var zero T
		return zero, err
	}
	return op(ctx)
}
