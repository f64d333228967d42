package http

import (
	"net/http"

	"github.com/aussiebroadwan/lotto/internal/lotto/service"
	"github.com/aussiebroadwan/lotto/pkg/httpx"
	"github.com/aussiebroadwan/lotto/pkg/lottosdk"
	"github.com/aussiebroadwan/lotto/pkg/slogx"
)

type BootstrapHandler struct {
	BootstrapService *service.BootstrapService
}

// ServeHTTP creates the first admin. It is only available while a bootstrap
// token is configured and no admin exists.
func (h *BootstrapHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	l := slogx.FromContext(r.Context())
	l.Info("Starting to bootstrap")

	// 1. Check if enabled
	if h.BootstrapService == nil || h.BootstrapService.Token == "" {
		writeServiceError(w, r, service.ErrBootstrapDisabled)
		return
	}

	// 2. Require bootstrap token header
	token := r.Header.Get(lottosdk.BootstrapHeader)
	if token == "" {
		writeServiceError(w, r, service.ErrBootstrapUnauthorized)
		return
	}

	// 3. Parse request body
	var req lottosdk.RegisterRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeBadJSON(w)
		return
	}

	// 4. Perform bootstrap
	reg, err := h.BootstrapService.Bootstrap(r.Context(), token, registerRequest(req))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, registerResponse(reg))
}
