package lottosdk

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// Error codes. This is the complete set the service returns.
const (
	ErrorCodeInvalidCredentials  = "invalid_credentials"
	ErrorCodeInvalidSecondFactor = "invalid_second_factor"
	ErrorCodeLockedOut           = "locked_out"
	ErrorCodeUnauthenticated     = "unauthenticated"
	ErrorCodeForbidden           = "forbidden"
	ErrorCodeValidation          = "validation_error"
	ErrorCodeNotFound            = "not_found"
	ErrorCodeConflict            = "conflict"
	ErrorCodeRetryable           = "retryable"
	ErrorCodeRateLimited         = "rate_limit_exceeded"
	ErrorCodeServerError         = "server_error"
)

// APIError is a non-2xx response from the service.
type APIError struct {
	StatusCode        int
	Code              string
	Description       string
	Fields            map[string]string
	RemainingAttempts *int
}

func (e *APIError) Error() string {
	if e.Description == "" {
		return e.Code
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Description)
}

// Is matches on the error code, so errors.Is(err, ErrLockedOut) works for
// any response carrying that code.
func (e *APIError) Is(target error) bool {
	t, ok := target.(*APIError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

var (
	ErrInvalidCredentials  = &APIError{StatusCode: http.StatusUnauthorized, Code: ErrorCodeInvalidCredentials}
	ErrInvalidSecondFactor = &APIError{StatusCode: http.StatusUnauthorized, Code: ErrorCodeInvalidSecondFactor}
	ErrLockedOut           = &APIError{StatusCode: http.StatusLocked, Code: ErrorCodeLockedOut}
	ErrUnauthenticated     = &APIError{StatusCode: http.StatusUnauthorized, Code: ErrorCodeUnauthenticated}
	ErrForbidden           = &APIError{StatusCode: http.StatusForbidden, Code: ErrorCodeForbidden}
	ErrValidation          = &APIError{StatusCode: http.StatusBadRequest, Code: ErrorCodeValidation}
	ErrNotFound            = &APIError{StatusCode: http.StatusNotFound, Code: ErrorCodeNotFound}
	ErrConflict            = &APIError{StatusCode: http.StatusConflict, Code: ErrorCodeConflict}
	ErrRetryable           = &APIError{StatusCode: http.StatusServiceUnavailable, Code: ErrorCodeRetryable}
	ErrRateLimited         = &APIError{StatusCode: http.StatusTooManyRequests, Code: ErrorCodeRateLimited}
	ErrServerError         = &APIError{StatusCode: http.StatusInternalServerError, Code: ErrorCodeServerError}
)

// parseErrorResponse turns a non-2xx response body into an *APIError.
func parseErrorResponse(resp *http.Response, body []byte) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	var errResp ErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error != "" {
		return &APIError{
			StatusCode:        resp.StatusCode,
			Code:              errResp.Error,
			Description:       errResp.ErrorDescription,
			Fields:            errResp.Fields,
			RemainingAttempts: errResp.RemainingAttempts,
		}
	}

	return &APIError{
		StatusCode:  resp.StatusCode,
		Code:        ErrorCodeServerError,
		Description: fmt.Sprintf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode)),
	}
}
