package http

import (
	"context"
	"net/http"

	"github.com/aussiebroadwan/lotto/internal/lotto/domain"
	"github.com/aussiebroadwan/lotto/internal/lotto/service"
	"github.com/aussiebroadwan/lotto/pkg/httpx"
	"github.com/aussiebroadwan/lotto/pkg/lottosdk"
)

var (
	playerRoles = domain.Roles(domain.RoleUser)
	adminRoles  = domain.Roles(domain.RoleAdmin)
)

// DrawsHandler serves the caller's own draws. Every operation goes through
// the guard and is scoped to the principal's user id.
type DrawsHandler struct {
	Guard       *service.Guard
	DrawService *service.DrawService
}

// HandleSubmit checks the caller before reading the body.
func (h *DrawsHandler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	p := PrincipalFromContext(ctx)
	if err := h.Guard.Check(ctx, p, playerRoles); err != nil {
		writeServiceError(w, r, err)
		return
	}

	var req lottosdk.SubmitDrawRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeBadJSON(w)
		return
	}

	d, err := h.DrawService.Submit(ctx, p.UserID, req.Numbers)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, lottosdk.SubmitDrawResponse{ID: d.ID})
}

func (h *DrawsHandler) HandleListUnplayed(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, h.DrawService.ListUnplayed)
}

func (h *DrawsHandler) HandleListPlayed(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, h.DrawService.ListPlayed)
}

func (h *DrawsHandler) list(w http.ResponseWriter, r *http.Request, fn func(context.Context, string) (service.DrawListing, error)) {
	ctx := r.Context()
	p := PrincipalFromContext(ctx)

	listing, err := service.Authorize(ctx, h.Guard, p, playerRoles, func(ctx context.Context) (service.DrawListing, error) {
		return fn(ctx, p.UserID)
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, drawListResponse(listing))
}

func (h *DrawsHandler) HandleClearPlayed(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	p := PrincipalFromContext(ctx)

	n, err := service.Authorize(ctx, h.Guard, p, playerRoles, func(ctx context.Context) (int64, error) {
		return h.DrawService.ClearPlayed(ctx, p.UserID)
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, lottosdk.ClearPlayedResponse{Deleted: n})
}

// ResolveDrawHandler is the admin hook for the external round resolver.
type ResolveDrawHandler struct {
	Guard       *service.Guard
	DrawService *service.DrawService
}

func (h *ResolveDrawHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := h.Guard.Check(ctx, PrincipalFromContext(ctx), adminRoles); err != nil {
		writeServiceError(w, r, err)
		return
	}

	var req lottosdk.ResolveDrawRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeBadJSON(w)
		return
	}

	d, err := h.DrawService.Resolve(ctx, r.PathValue("id"), req.Round, req.Win)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	// The resolver never sees the numbers.
	httpx.WriteJSON(w, http.StatusOK, lottosdk.DrawResponse{
		ID:     d.ID,
		Played: d.Played,
		Win:    d.Win,
		Round:  d.Round,
		Status: string(domain.DrawStatusOK),
	})
}
