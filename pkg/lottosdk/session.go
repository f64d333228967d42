package lottosdk

import (
	"context"
	"net/http"
	"net/url"
)

// Session performs requests as a logged in user.
type Session struct {
	client *SDKClient
	token  string
	login  LoginResponse
}

// Token returns the session token.
func (s *Session) Token() string { return s.token }

// Login returns the login response the session was created from. It is
// zero for sessions made with NewSessionFromToken.
func (s *Session) Login() LoginResponse { return s.login }

func (s *Session) Account(ctx context.Context) (*AccountResponse, error) {
	resp, err := s.client.doRequest(ctx, http.MethodGet, "/v1/account", nil, s.token)
	if err != nil {
		return nil, err
	}

	var out AccountResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// SubmitDraw stores a new selection of six numbers.
func (s *Session) SubmitDraw(ctx context.Context, numbers []int) (*SubmitDrawResponse, error) {
	resp, err := s.client.doRequest(ctx, http.MethodPost, "/v1/draws", SubmitDrawRequest{Numbers: numbers}, s.token)
	if err != nil {
		return nil, err
	}

	var out SubmitDrawResponse
	if err := decodeJSON(resp, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Session) UnplayedDraws(ctx context.Context) (*DrawListResponse, error) {
	return s.listDraws(ctx, "/v1/draws/unplayed")
}

func (s *Session) PlayedDraws(ctx context.Context) (*DrawListResponse, error) {
	return s.listDraws(ctx, "/v1/draws/played")
}

func (s *Session) listDraws(ctx context.Context, path string) (*DrawListResponse, error) {
	resp, err := s.client.doRequest(ctx, http.MethodGet, path, nil, s.token)
	if err != nil {
		return nil, err
	}

	var out DrawListResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// ClearPlayed deletes every played draw of the user.
func (s *Session) ClearPlayed(ctx context.Context) (int64, error) {
	resp, err := s.client.doRequest(ctx, http.MethodDelete, "/v1/draws/played", nil, s.token)
	if err != nil {
		return 0, err
	}

	var out ClearPlayedResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return 0, err
	}
	return out.Deleted, nil
}

// ResolveDraw records a round result against a draw. Admin only.
func (s *Session) ResolveDraw(ctx context.Context, drawID string, round int, win bool) (*DrawResponse, error) {
	path := "/v1/admin/draws/" + url.PathEscape(drawID) + "/resolve"
	resp, err := s.client.doRequest(ctx, http.MethodPost, path, ResolveDrawRequest{Round: round, Win: win}, s.token)
	if err != nil {
		return nil, err
	}

	var out DrawResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// Logout ends the session on the server.
func (s *Session) Logout(ctx context.Context) error {
	resp, err := s.client.doRequest(ctx, http.MethodPost, "/v1/logout", nil, s.token)
	if err != nil {
		return err
	}
	return checkStatusNoContent(resp)
}
