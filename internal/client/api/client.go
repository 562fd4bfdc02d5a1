// Package api implements the HTTP client for the bank server. The session
// cookie set at login lives in the client's cookie jar and is sent back
// automatically on subsequent calls, so callers never handle the token.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"

	"github.com/kodbank/kodbank/internal/common"
)

// ErrUnavailable indicates the server could not be reached at all, as opposed
// to the server rejecting the request.
var ErrUnavailable = errors.New("server unavailable")

type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, timeout time.Duration) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Jar: jar, Timeout: timeout},
	}, nil
}

type serverMessage struct {
	Message string `json:"message"`
}

// do performs one JSON round trip. A transport-level failure maps to
// ErrUnavailable; HTTP error statuses map to the common sentinel errors with
// the server's message attached.
func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	var reqBody io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode >= http.StatusBadRequest {
		var msg serverMessage
		_ = json.Unmarshal(raw, &msg)
		return fmt.Errorf("%w: %s", sentinelFor(resp.StatusCode), msg.Message)
	}

	if out != nil {
		return json.Unmarshal(raw, out)
	}
	return nil
}

func sentinelFor(status int) error {
	switch status {
	case http.StatusBadRequest:
		return common.ErrorValidation
	case http.StatusUnauthorized:
		return common.ErrorUnauthorized
	case http.StatusForbidden:
		return common.ErrInvalidToken
	case http.StatusConflict:
		return common.ErrorAlreadyExists
	case http.StatusNotFound:
		return common.ErrorNotFound
	default:
		return common.ErrorInternal
	}
}

type registerRequest struct {
	Identity int64   `json:"identity"`
	Username string  `json:"username"`
	Email    string  `json:"email"`
	Secret   string  `json:"secret"`
	Phone    *string `json:"phone,omitempty"`
}

type loginRequest struct {
	Username string `json:"username"`
	Secret   string `json:"secret"`
}

type balanceResponse struct {
	Balance int64 `json:"balance"`
}

// Register creates a new account. The password is converted to string only
// for the request body; the caller owns wiping the byte slice.
func (c *Client) Register(ctx context.Context, id int64, username, email string, password []byte, phone *string) error {
	body := registerRequest{
		Identity: id,
		Username: username,
		Email:    email,
		Secret:   string(password),
		Phone:    phone,
	}
	return c.do(ctx, http.MethodPost, "/register", body, nil)
}

// Login authenticates and stores the session cookie in the jar.
func (c *Client) Login(ctx context.Context, username string, password []byte) error {
	body := loginRequest{Username: username, Secret: string(password)}
	return c.do(ctx, http.MethodPost, "/login", body, nil)
}

// Balance returns the current balance of the logged-in user.
func (c *Client) Balance(ctx context.Context) (int64, error) {
	var out balanceResponse
	if err := c.do(ctx, http.MethodGet, "/balance", nil, &out); err != nil {
		return 0, err
	}
	return out.Balance, nil
}

// Logout ends the session. The server clears the cookie and revokes the
// token; the jar picks up the expired cookie from the response.
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/logout", nil, nil)
}

// Ping probes server reachability.
func (c *Client) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/ping", nil, nil)
}
