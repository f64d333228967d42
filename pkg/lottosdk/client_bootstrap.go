package lottosdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// BootstrapHeader carries the bootstrap token.
const BootstrapHeader = "X-Bootstrap-Token"

func (c *SDKClient) newBootstrapRequest(ctx context.Context, token string, body RegisterRequest) (*http.Request, error) {
	buf, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url("/v1/bootstrap"), bytes.NewReader(buf))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(BootstrapHeader, token)
	return req, nil
}
