package lottosdk

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"
)

// SDKClient is a client for the lotto service. It provides the public
// operations and creates authenticated Sessions.
type SDKClient struct {
	BaseURL    string
	HTTPClient *http.Client

	mu           sync.Mutex
	loginSession string // token of the pending login session
}

// NewSDKClient creates a new lotto service client.
func NewSDKClient(baseURL string) *SDKClient {
	return &SDKClient{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Register creates a new user account.
func (c *SDKClient) Register(ctx context.Context, req RegisterRequest) (*RegisterResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/v1/register", req, "")
	if err != nil {
		return nil, err
	}

	var out RegisterResponse
	if err := decodeJSON(resp, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}

// Bootstrap creates the first admin account using the server's bootstrap token.
func (c *SDKClient) Bootstrap(ctx context.Context, token string, req RegisterRequest) (*RegisterResponse, error) {
	httpReq, err := c.newBootstrapRequest(ctx, token, req)
	if err != nil {
		return nil, err
	}
	resp, err := c.HTTPClient.Do(httpReq)
	if err != nil {
		return nil, err
	}

	var out RegisterResponse
	if err := decodeJSON(resp, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}

// Login authenticates with a password and a one-time code. Failed attempts
// are counted against this client's pending login session; see the package
// documentation.
func (c *SDKClient) Login(ctx context.Context, email, password, otp string) (*Session, error) {
	c.mu.Lock()
	pending := c.loginSession
	c.mu.Unlock()

	resp, err := c.doRequest(ctx, http.MethodPost, "/v1/login", LoginRequest{
		Email:    email,
		Password: password,
		OTP:      otp,
	}, pending)
	if err != nil {
		return nil, err
	}

	if token := resp.Header.Get(SessionHeader); token != "" {
		c.mu.Lock()
		c.loginSession = token
		c.mu.Unlock()
	}

	var out LoginResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}

	c.ResetLogin()
	return &Session{client: c, token: out.SessionToken, login: out}, nil
}

// ResetLogin forgets the pending login session.
func (c *SDKClient) ResetLogin() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.loginSession = ""
}

// NewSessionFromToken wraps an existing session token.
func (c *SDKClient) NewSessionFromToken(token string) *Session {
	return &Session{client: c, token: token}
}
