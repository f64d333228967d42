package http

import (
	"context"
	"net/http"

	"github.com/aussiebroadwan/lotto/internal/lotto/domain"
	"github.com/aussiebroadwan/lotto/internal/lotto/service"
	"github.com/aussiebroadwan/lotto/pkg/httpx"
)

var anyRole = domain.Roles(domain.RoleUser, domain.RoleAdmin)

type AccountHandler struct {
	Guard       *service.Guard
	UserService *service.UserService
}

func (h *AccountHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	p := PrincipalFromContext(ctx)

	acct, err := service.Authorize(ctx, h.Guard, p, anyRole, func(ctx context.Context) (domain.Account, error) {
		return h.UserService.Account(ctx, p.UserID)
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, accountResponse(acct))
}
