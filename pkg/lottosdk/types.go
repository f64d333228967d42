package lottosdk

import "time"

// SessionHeader carries the login session token on login responses.
const SessionHeader = "X-Session-Token"

// SessionCookie is the cookie the server sets for browser clients.
const SessionCookie = "lotto_session"

// ErrorResponse is the JSON body of every error response.
type ErrorResponse struct {
	Error            string            `json:"error"`
	ErrorDescription string            `json:"error_description,omitempty"`
	Fields           map[string]string `json:"fields,omitempty"`

	// Set on failed logins.
	RemainingAttempts *int `json:"remaining_attempts,omitempty"`
}

// ============================================================================
// Registration
// ============================================================================

type RegisterRequest struct {
	Email           string `json:"email"`
	Firstname       string `json:"firstname"`
	Lastname        string `json:"lastname"`
	Phone           string `json:"phone"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`

	// PinKey is the 32 character base32 TOTP secret.
	PinKey string `json:"pin_key"`
}

type AccountResponse struct {
	ID              string     `json:"id"`
	Email           string     `json:"email"`
	Firstname       string     `json:"firstname"`
	Lastname        string     `json:"lastname"`
	Phone           string     `json:"phone"`
	Role            string     `json:"role"`
	LastLoggedIn    *time.Time `json:"last_logged_in,omitempty"`
	CurrentLoggedIn *time.Time `json:"current_logged_in,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

type RegisterResponse struct {
	Account AccountResponse `json:"account"`

	// ProvisioningURI is an otpauth:// URI for authenticator apps.
	ProvisioningURI string `json:"provisioning_uri"`
}

// ============================================================================
// Login
// ============================================================================

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	OTP      string `json:"otp"`
}

type LoginResponse struct {
	Outcome string `json:"outcome"`
	UserID  string `json:"user_id"`
	Email   string `json:"email"`
	Role    string `json:"role"`

	// Landing is where a UI should go next: "profile" or "admin".
	Landing string `json:"landing"`

	SessionToken string `json:"session_token"`
}

// ============================================================================
// Draws
// ============================================================================

type SubmitDrawRequest struct {
	Numbers []int `json:"numbers"`
}

type SubmitDrawResponse struct {
	ID string `json:"id"`
}

type DrawResponse struct {
	ID      string `json:"id"`
	Numbers []int  `json:"numbers,omitempty"`
	Played  bool   `json:"played"`
	Win     bool   `json:"win"`
	Round   int    `json:"round"`

	// Status is "ok" or "undecryptable".
	Status string `json:"status"`
}

type DrawListResponse struct {
	Draws []DrawResponse `json:"draws"`
	Empty bool           `json:"empty"`
}

type ClearPlayedResponse struct {
	Deleted int64 `json:"deleted"`
}

type ResolveDrawRequest struct {
	Round int  `json:"round"`
	Win   bool `json:"win"`
}

// ============================================================================
// Health
// ============================================================================

type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

type HealthChecks struct {
	Database string `json:"database"`
}
