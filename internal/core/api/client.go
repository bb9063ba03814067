// Package api is the HTTP client for the AiDB backend. Every call takes
// the bearer token explicitly; the auth guard is responsible for supplying
// it. Non-2xx responses are converted to human-readable errors at this
// boundary and never retried.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/aidb-dev/aidb-cli/internal/core/models"
)

// envelope is the response shape of all tier-aware endpoints.
type envelope[T any] struct {
	Meta models.Metadata `json:"meta"`
	Data T               `json:"data"`
}

type Client struct {
	httpClient *http.Client
	baseURL    string
}

func New(baseURL string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

// do issues a request and returns the raw response body. A transport
// failure (no response at all) maps to MsgNetworkError; a non-2xx status
// maps through httpError with the given overrides.
func (c *Client) do(ctx context.Context, method, path, token string, body io.Reader, contentType string, overrides map[int]string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &Error{Message: MsgNetworkError}
	}
	defer func() { _ = resp.Body.Close() }()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Message: MsgNetworkError}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, httpError(resp.StatusCode, payload, overrides)
	}
	return payload, nil
}

// doJSON issues a JSON request and decodes the standard envelope.
func doJSON[T any](c *Client, ctx context.Context, method, path, token string, in any, overrides map[int]string) (T, *models.Tier, error) {
	var zero T

	var body io.Reader
	contentType := ""
	if in != nil {
		buf := &bytes.Buffer{}
		if err := json.NewEncoder(buf).Encode(in); err != nil {
			return zero, nil, fmt.Errorf("encode request: %w", err)
		}
		body = buf
		contentType = "application/json"
	}

	payload, err := c.do(ctx, method, path, token, body, contentType, overrides)
	if err != nil {
		return zero, nil, err
	}
	if len(payload) == 0 {
		return zero, nil, nil
	}

	var env envelope[T]
	if err := json.Unmarshal(payload, &env); err != nil {
		return zero, nil, &Error{Message: MsgUnexpected}
	}
	return env.Data, env.Meta.Tier, nil
}
