package authsdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client is a minimal HTTP client for the auth service.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client for the service at baseURL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// Login exchanges credentials for an access/refresh token pair.
func (c *Client) Login(ctx context.Context, username, password string) (*TokenPairResponse, error) {
	var pair TokenPairResponse
	err := c.do(ctx, http.MethodPost, "/auth/login", "", LoginRequest{
		Username: username,
		Password: password,
	}, &pair)
	if err != nil {
		return nil, err
	}
	return &pair, nil
}

// Refresh rotates a refresh token, returning a brand-new pair. The old
// refresh token is unusable afterwards.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (*TokenPairResponse, error) {
	var pair TokenPairResponse
	if err := c.do(ctx, http.MethodPost, "/auth/refresh-token", refreshToken, nil, &pair); err != nil {
		return nil, err
	}
	return &pair, nil
}

// Whoami resolves the identity behind an access token.
func (c *Client) Whoami(ctx context.Context, accessToken string) (*WhoamiResponse, error) {
	var who WhoamiResponse
	if err := c.do(ctx, http.MethodGet, "/auth/whoami", accessToken, nil, &who); err != nil {
		return nil, err
	}
	return &who, nil
}

// Logout revokes the caller's refresh token session.
func (c *Client) Logout(ctx context.Context, accessToken string) error {
	return c.do(ctx, http.MethodPost, "/auth/logout", accessToken, nil, nil)
}

// Sessions lists live refresh sessions. Requires the admin role.
func (c *Client) Sessions(ctx context.Context, accessToken string) (*SessionsResponse, error) {
	var sessions SessionsResponse
	if err := c.do(ctx, http.MethodGet, "/auth/sessions", accessToken, nil, &sessions); err != nil {
		return nil, err
	}
	return &sessions, nil
}

func (c *Client) do(ctx context.Context, method, path, bearer string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("authsdk: encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("authsdk: build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("authsdk: %s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("authsdk: read response: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return parseError(resp.StatusCode, raw)
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("authsdk: decode response: %w", err)
		}
	}
	return nil
}

// parseError turns an error response body into an *APIError, falling back to
// a generic one when the body isn't the expected shape.
func parseError(status int, raw []byte) error {
	var body ErrorResponse
	if err := json.Unmarshal(raw, &body); err == nil && body.Code != "" {
		return &APIError{StatusCode: status, Code: body.Code, Description: body.Description}
	}
	return &APIError{
		StatusCode:  status,
		Code:        ErrorCodeServerError,
		Description: fmt.Sprintf("unexpected response (status %d)", status),
	}
}
