package lottosdk

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseErrorResponse(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   error
		check  func(t *testing.T, e *APIError)
	}{
		{
			name:   "login failure carries remaining attempts",
			status: http.StatusUnauthorized,
			body:   `{"error":"invalid_credentials","error_description":"invalid email or password","remaining_attempts":1}`,
			want:   ErrInvalidCredentials,
			check: func(t *testing.T, e *APIError) {
				require.NotNil(t, e.RemainingAttempts)
				require.Equal(t, 1, *e.RemainingAttempts)
			},
		},
		{
			name:   "validation fields",
			status: http.StatusBadRequest,
			body:   `{"error":"validation_error","fields":{"phone":"must look like 0123-456-7890"}}`,
			want:   ErrValidation,
			check: func(t *testing.T, e *APIError) {
				require.Contains(t, e.Fields, "phone")
			},
		},
		{
			name:   "non-json body",
			status: http.StatusBadGateway,
			body:   `<html>bad gateway</html>`,
			want:   ErrServerError,
			check: func(t *testing.T, e *APIError) {
				require.Equal(t, http.StatusBadGateway, e.StatusCode)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := parseErrorResponse(&http.Response{StatusCode: tt.status}, []byte(tt.body))
			require.ErrorIs(t, err, tt.want)

			var apiErr *APIError
			require.True(t, errors.As(err, &apiErr))
			tt.check(t, apiErr)
		})
	}
}

func TestParseErrorResponse_Success(t *testing.T) {
	require.NoError(t, parseErrorResponse(&http.Response{StatusCode: http.StatusOK}, nil))
}

func TestAPIErrorIsMatchesCodeOnly(t *testing.T) {
	err := &APIError{StatusCode: http.StatusLocked, Code: ErrorCodeLockedOut, Description: "too many failed login attempts"}
	require.ErrorIs(t, err, ErrLockedOut)
	require.NotErrorIs(t, err, ErrInvalidCredentials)
	require.Equal(t, "locked_out: too many failed login attempts", err.Error())
}
