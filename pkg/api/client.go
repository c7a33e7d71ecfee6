// Package api is the remote access facade for the hosted backend. It
// wraps the row-CRUD (PostgREST) and auth REST bases, injecting the
// apikey, bearer and return-representation headers on every call.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/example/quickbite/pkg/config"
	"go.uber.org/zap"
)

// TokenSource yields the current session bearer token, or "" when no
// session is active. The session manager satisfies it.
type TokenSource interface {
	Token() string
}

type Client struct {
	httpClient *http.Client
	restBase   string
	authBase   string
	anonKey    string
	tokens     TokenSource
	logger     *zap.Logger
}

func NewClient(cfg *config.SupabaseConfig, tokens TokenSource, logger *zap.Logger) (*Client, error) {
	if cfg.ProjectURL == "" {
		return nil, fmt.Errorf("project URL is required")
	}
	if cfg.AnonKey == "" {
		return nil, fmt.Errorf("anon key is required")
	}
	trimmed := strings.TrimRight(cfg.ProjectURL, "/")

	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		restBase: trimmed + "/rest/v1",
		authBase: trimmed + "/auth/v1",
		anonKey:  cfg.AnonKey,
		tokens:   tokens,
		logger:   logger,
	}, nil
}

// bearerToken is the session token when one is present, else the anon
// key. Every outbound call authenticates one way or the other.
func (c *Client) bearerToken() string {
	if c.tokens != nil {
		if t := c.tokens.Token(); t != "" {
			return t
		}
	}
	return c.anonKey
}

// do issues a request against a fully formed URL, decoding a 2xx JSON
// response into out (when non-nil). Non-2xx responses surface as
// *Error with the status and body; transport failures are wrapped.
func (c *Client) do(ctx context.Context, method, rawURL string, body interface{}, out interface{}, extra map[string]string) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	req.Header.Set("apikey", c.anonKey)
	req.Header.Set("Authorization", "Bearer "+c.bearerToken())
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range extra {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Warn("Backend returned error",
			zap.String("method", method),
			zap.String("url", rawURL),
			zap.Int("status", resp.StatusCode))
		return &Error{Status: resp.StatusCode, Body: string(data)}
	}

	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}
