// ABOUTME: Admin login and logout against the BrandsInfo API
// ABOUTME: A successful login populates the session store with both tokens

package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// LoginPath is the admin login endpoint
const LoginPath = "badmin/login/"

// ErrMissingCredentials is returned by Login before any request is sent
var ErrMissingCredentials = errors.New("username and password are required")

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse is the body returned by the login endpoint.
// The API calls the access token "sessionid".
type LoginResponse struct {
	SessionID    string `json:"sessionid"`
	RefreshToken string `json:"refresh_token"`
}

// Login authenticates an admin and stores the returned tokens in the session
func (c *Client) Login(ctx context.Context, username, password string) error {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return ErrMissingCredentials
	}

	req := NewRequest(http.MethodPost, LoginPath).WithJSON(loginRequest{
		Username: username,
		Password: password,
	})
	req.Anonymous = true

	var resp LoginResponse
	if err := c.Do(ctx, req, &resp); err != nil {
		if IsUnauthorized(err) {
			return ErrInvalidCredentials
		}
		return fmt.Errorf("login failed: %w", err)
	}
	if resp.SessionID == "" {
		return fmt.Errorf("login failed: response has no access token")
	}

	if err := c.session.Login(username, resp.SessionID, resp.RefreshToken); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	c.setState(StateNormal)
	c.logger.Info("client.login", zap.String("username", username))
	return nil
}

// Logout forgets the stored session
func (c *Client) Logout() error {
	if err := c.session.Clear(); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	c.logger.Info("client.logout")
	return nil
}
