package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/aussiebroadwan/lotto/internal/lotto/service"
	"github.com/aussiebroadwan/lotto/internal/lotto/validate"
	"github.com/aussiebroadwan/lotto/pkg/httpx"
	"github.com/aussiebroadwan/lotto/pkg/lottosdk"
	"github.com/aussiebroadwan/lotto/pkg/slogx"
)

// errorStatus maps a service error to its status and public code. Raw error
// text never leaves the service; descriptions are fixed strings.
func errorStatus(err error) (int, string, string) {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized, lottosdk.ErrorCodeInvalidCredentials, "Invalid email or password"
	case errors.Is(err, service.ErrInvalidSecondFactor):
		return http.StatusUnauthorized, lottosdk.ErrorCodeInvalidSecondFactor, "Invalid one-time password"
	case errors.Is(err, service.ErrLockedOut):
		return http.StatusLocked, lottosdk.ErrorCodeLockedOut, "Too many failed login attempts"
	case errors.Is(err, service.ErrUnauthenticated),
		errors.Is(err, service.ErrSessionInvalid),
		errors.Is(err, service.ErrBootstrapUnauthorized):
		return http.StatusUnauthorized, lottosdk.ErrorCodeUnauthenticated, "Authentication required"
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden, lottosdk.ErrorCodeForbidden, "You do not have access to this resource"
	case errors.Is(err, service.ErrDuplicateEmail):
		return http.StatusConflict, lottosdk.ErrorCodeConflict, "Email address already registered"
	case errors.Is(err, service.ErrDrawAlreadyPlayed):
		return http.StatusConflict, lottosdk.ErrorCodeConflict, "Draw already played"
	case errors.Is(err, service.ErrBootstrapAlready):
		return http.StatusConflict, lottosdk.ErrorCodeConflict, "System has already been bootstrapped"
	case errors.Is(err, service.ErrDrawNotFound):
		return http.StatusNotFound, lottosdk.ErrorCodeNotFound, "Draw not found"
	case errors.Is(err, service.ErrBootstrapDisabled):
		return http.StatusNotFound, lottosdk.ErrorCodeNotFound, "Bootstrap endpoint is not enabled"
	case errors.Is(err, service.ErrTransaction):
		return http.StatusServiceUnavailable, lottosdk.ErrorCodeRetryable, "Temporary failure, please retry"
	default:
		return http.StatusInternalServerError, lottosdk.ErrorCodeServerError, "An internal error occurred"
	}
}

// writeServiceError renders err. Validation errors carry their fields.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var verrs validate.Errors
	if errors.As(err, &verrs) {
		httpx.WriteJSON(w, http.StatusBadRequest, lottosdk.ErrorResponse{
			Error:            lottosdk.ErrorCodeValidation,
			ErrorDescription: "validation failed for some fields",
			Fields:           verrs,
		})
		return
	}

	status, code, desc := errorStatus(err)
	if status >= http.StatusInternalServerError {
		slogx.FromContext(r.Context()).Error("request failed", slog.Any("error", err))
	}
	httpx.WriteJSON(w, status, lottosdk.ErrorResponse{Error: code, ErrorDescription: desc})
}

// writeBadJSON reports an undecodable request body.
func writeBadJSON(w http.ResponseWriter) {
	httpx.WriteJSON(w, http.StatusBadRequest, lottosdk.ErrorResponse{
		Error:            lottosdk.ErrorCodeValidation,
		ErrorDescription: "Request body must be valid JSON",
	})
}
