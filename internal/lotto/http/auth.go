package http

import (
	"net/http"

	"github.com/aussiebroadwan/lotto/internal/lotto/service"
	"github.com/aussiebroadwan/lotto/pkg/httpx"
	"github.com/aussiebroadwan/lotto/pkg/lottosdk"
)

type RegisterHandler struct {
	RegistrationService *service.RegistrationService
}

func (h *RegisterHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req lottosdk.RegisterRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeBadJSON(w)
		return
	}

	reg, err := h.RegistrationService.Register(r.Context(), registerRequest(req))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, registerResponse(reg))
}

// LoginHandler runs one login attempt against the caller's login session.
// Every response carries the session token, so the client keeps counting
// against the same session.
type LoginHandler struct {
	SessionService *service.SessionService
	CookieSecure   bool
}

func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req lottosdk.LoginRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeBadJSON(w)
		return
	}

	res, err := h.SessionService.Login(r.Context(), sessionTokenFromContext(r.Context()), service.LoginRequest{
		Email:    req.Email,
		Password: req.Password,
		OTP:      req.OTP,
	})
	if res.Token != "" {
		w.Header().Set(lottosdk.SessionHeader, res.Token)
		setSessionCookie(w, res.Token, res.Session.ExpiresAt, h.CookieSecure)
	}
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	if res.Outcome != service.OutcomeSucceeded {
		status, code, desc := errorStatus(res.Err())
		remaining := res.RemainingAttempts
		httpx.WriteJSON(w, status, lottosdk.ErrorResponse{
			Error:             code,
			ErrorDescription:  desc,
			RemainingAttempts: &remaining,
		})
		return
	}

	p := res.Principal
	httpx.WriteJSON(w, http.StatusOK, lottosdk.LoginResponse{
		Outcome:      string(res.Outcome),
		UserID:       p.UserID,
		Email:        p.Email,
		Role:         string(p.Role),
		Landing:      p.Role.Landing(),
		SessionToken: res.Token,
	})
}

type LogoutHandler struct {
	SessionService *service.SessionService
	CookieSecure   bool
}

func (h *LogoutHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := h.SessionService.Logout(ctx, sessionTokenFromContext(ctx), PrincipalFromContext(ctx)); err != nil {
		writeServiceError(w, r, err)
		return
	}
	clearSessionCookie(w, h.CookieSecure)
	w.WriteHeader(http.StatusNoContent)
}
