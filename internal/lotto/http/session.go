package http

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/aussiebroadwan/lotto/internal/lotto/audit"
	"github.com/aussiebroadwan/lotto/internal/lotto/domain"
	"github.com/aussiebroadwan/lotto/internal/lotto/service"
	"github.com/aussiebroadwan/lotto/pkg/httpx"
	"github.com/aussiebroadwan/lotto/pkg/lottosdk"
	"github.com/aussiebroadwan/lotto/pkg/slogx"
)

type ctxKey int

const (
	ctxKeyPrincipal ctxKey = iota
	ctxKeySessionToken
)

// PrincipalFromContext returns the authenticated caller, or nil.
func PrincipalFromContext(ctx context.Context) *domain.Principal {
	p, _ := ctx.Value(ctxKeyPrincipal).(*domain.Principal)
	return p
}

func sessionTokenFromContext(ctx context.Context) string {
	t, _ := ctx.Value(ctxKeySessionToken).(string)
	return t
}

// sessionToken reads the token from "Authorization: Session <token>" or,
// failing that, the session cookie.
func sessionToken(r *http.Request) string {
	if auth := r.Header.Get("Authorization"); auth != "" {
		scheme, token, ok := strings.Cut(auth, " ")
		if ok && strings.EqualFold(scheme, "Session") {
			return strings.TrimSpace(token)
		}
		return ""
	}
	if c, err := r.Cookie(lottosdk.SessionCookie); err == nil {
		return c.Value
	}
	return ""
}

// sessionMiddleware records the remote address for auditing and resolves the
// caller's session. An invalid session is treated as no session; the guard
// decides later whether the route needs one.
func (r *Router) sessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		ctx := audit.WithRemoteAddr(req.Context(), httpx.ClientIP(req))

		if token := sessionToken(req); token != "" && r.SessionService != nil {
			p, err := r.SessionService.Principal(ctx, token)
			switch {
			case err == nil:
				ctx = context.WithValue(ctx, ctxKeySessionToken, token)
				if p != nil {
					ctx = context.WithValue(ctx, ctxKeyPrincipal, p)
					ctx = httpx.WithUserID(ctx, p.UserID)
					ctx = slogx.WithUserID(ctx, p.UserID)
				}
			case errors.Is(err, service.ErrSessionInvalid):
				slogx.FromContext(ctx).Debug("ignoring invalid session")
			default:
				writeServiceError(w, req.WithContext(ctx), err)
				return
			}
		}

		next.ServeHTTP(w, req.WithContext(ctx))
	})
}

func setSessionCookie(w http.ResponseWriter, token string, expires time.Time, secure bool) {
	c := &http.Cookie{
		Name:     lottosdk.SessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
	}
	if !expires.IsZero() {
		c.Expires = expires
	}
	http.SetCookie(w, c)
}

func clearSessionCookie(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     lottosdk.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
	})
}
