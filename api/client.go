// Copyright 2026 The Altrium Authors
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/altrium-foundation/altrium/lib/identity"
	"github.com/altrium-foundation/altrium/lib/netutil"
)

// DefaultBaseURL is the versioned API root of a local development
// server.
const DefaultBaseURL = "http://localhost:8000/api/v1"

// ClientConfig holds configuration for creating a Client.
type ClientConfig struct {
	// BaseURL is the versioned API root (e.g.,
	// "https://altrium.example.edu/api/v1"). Defaults to
	// DefaultBaseURL when empty.
	BaseURL string
	// HTTPClient is used for all requests. If nil, http.DefaultClient
	// is used.
	HTTPClient *http.Client
	// Logger is used for structured logging. If nil, slog.Default()
	// is used.
	Logger *slog.Logger
}

// Client is an unauthenticated Altrium API client. It holds the base
// URL and HTTP transport, shared across Sessions, and exposes the
// operations that work without a bearer token: login, register, and
// token refresh.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a new unauthenticated Altrium client.
func NewClient(config ClientConfig) (*Client, error) {
	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	// The string form (trailing slash stripped) is stored and request
	// URLs are built by direct concatenation, avoiding the
	// re-encoding pitfalls of url.URL.String().
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("api: invalid base URL %q: %w", baseURL, err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("api: base URL %q must be absolute", baseURL)
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

// Login exchanges credentials for a token pair. A 401 means invalid
// credentials (IsAuth).
func (c *Client) Login(ctx context.Context, email, password string) (TokenPair, error) {
	body, err := c.doRequest(ctx, http.MethodPost, "/auth/login", "", loginRequest{
		Email:    email,
		Password: password,
	})
	if err != nil {
		return TokenPair{}, fmt.Errorf("api: login failed: %w", err)
	}

	var pair TokenPair
	if err := json.Unmarshal(body, &pair); err != nil {
		return TokenPair{}, fmt.Errorf("api: failed to parse login response: %w", err)
	}
	if pair.Empty() {
		return TokenPair{}, fmt.Errorf("api: login response missing access token")
	}
	return pair, nil
}

// Register creates a new account. Validation failures (duplicate email,
// bad input) surface as IsValidation errors with no side effects; the
// caller typically continues with Login on success.
func (c *Client) Register(ctx context.Context, request RegisterRequest) (identity.User, error) {
	if !request.Role.Valid() {
		return identity.User{}, fmt.Errorf("api: register: invalid role %q", request.Role)
	}
	body, err := c.doRequest(ctx, http.MethodPost, "/auth/register", "", request)
	if err != nil {
		return identity.User{}, fmt.Errorf("api: register failed: %w", err)
	}

	var user identity.User
	if err := json.Unmarshal(body, &user); err != nil {
		return identity.User{}, fmt.Errorf("api: failed to parse register response: %w", err)
	}
	return user, nil
}

// Refresh exchanges a refresh token for a new token pair. A 401 means
// the refresh token is invalid or expired — fatal for the session.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (TokenPair, error) {
	body, err := c.doRequest(ctx, http.MethodPost, "/auth/refresh", "", refreshRequest{
		RefreshToken: refreshToken,
	})
	if err != nil {
		return TokenPair{}, fmt.Errorf("api: token refresh failed: %w", err)
	}

	var pair TokenPair
	if err := json.Unmarshal(body, &pair); err != nil {
		return TokenPair{}, fmt.Errorf("api: failed to parse refresh response: %w", err)
	}
	if pair.Empty() {
		return TokenPair{}, fmt.Errorf("api: refresh response missing access token")
	}
	return pair, nil
}

// CloseIdleConnections closes idle HTTP connections in the underlying
// transport's connection pool.
func (c *Client) CloseIdleConnections() {
	c.httpClient.CloseIdleConnections()
}

// doRequest performs an HTTP request against the API root and returns
// the response body. On 2xx, returns the body. On 4xx/5xx, returns a
// *Error parsed from the server's {"detail": ...} error shape.
// accessToken may be empty for unauthenticated endpoints — the request
// then proceeds without an Authorization header and the server decides.
func (c *Client) doRequest(ctx context.Context, method, path, accessToken string, requestBody any, query ...url.Values) ([]byte, error) {
	requestURL := c.baseURL + path
	if len(query) > 0 && query[0] != nil {
		requestURL += "?" + query[0].Encode()
	}

	var bodyReader io.Reader
	if requestBody != nil {
		encoded, err := json.Marshal(requestBody)
		if err != nil {
			return nil, fmt.Errorf("api: failed to encode request body: %w", err)
		}
		bodyReader = bytes.NewReader(encoded)
	}

	request, err := http.NewRequestWithContext(ctx, method, requestURL, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("api: failed to create request: %w", err)
	}

	if requestBody != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	if accessToken != "" {
		request.Header.Set("Authorization", "Bearer "+accessToken)
	}

	response, err := c.httpClient.Do(request)
	if err != nil {
		return nil, fmt.Errorf("api: request to %s %s failed: %w", method, path, err)
	}
	defer response.Body.Close()

	responseBody, err := netutil.ReadResponse(response.Body)
	if err != nil {
		return nil, fmt.Errorf("api: failed to read response body: %w", err)
	}

	if response.StatusCode >= 200 && response.StatusCode < 300 {
		return responseBody, nil
	}

	c.logger.Debug("api request failed",
		"method", method,
		"path", path,
		"status", response.StatusCode,
	)
	return responseBody, errorFromResponse(response.StatusCode, responseBody)
}
