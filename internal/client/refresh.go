// ABOUTME: Refresh interceptor that recovers a 401 by exchanging the refresh token
// ABOUTME: Replays the original request once; unrecoverable failures expire the session

package client

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// RefreshPath is the token refresh endpoint
const RefreshPath = "/api/token/refresh/"

// State is the refresh interceptor state
type State int

const (
	StateNormal State = iota
	StateRefreshing
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateNormal:
		return "normal"
	case StateRefreshing:
		return "refreshing"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

type refreshRequest struct {
	Refresh string `json:"refresh"`
}

type refreshResponse struct {
	Access string `json:"access"`
}

// handleUnauthorized runs for a 401 on an authenticated request.
// A request that was already replayed is never refreshed again.
func (c *Client) handleUnauthorized(ctx context.Context, req Request, unauthorized *HTTPError, out any) error {
	if req.Retried() {
		c.logger.Warn("client.unauthorized_after_refresh",
			zap.String("method", req.Method),
			zap.String("path", req.Path),
			zap.Int("retries", req.Retries))
		return unauthorized
	}

	c.setState(StateRefreshing)

	access, err := c.refreshAccessToken(ctx)
	if err != nil && ctx.Err() != nil {
		// the caller gave up; the refresh token may still be good
		c.setState(StateNormal)
		c.logger.Debug("client.refresh_abandoned",
			zap.String("path", req.Path),
			zap.Error(err))
		return err
	}
	if err != nil {
		c.setState(StateFailed)
		c.logger.Warn("client.refresh_failed",
			zap.String("path", req.Path),
			zap.Error(err))

		if expireErr := c.session.Expire(err); expireErr != nil {
			c.logger.Warn("client.session_clear_failed", zap.Error(expireErr))
		}
		return fmt.Errorf("%w: %w (%w)", ErrSessionExpired, err, unauthorized)
	}

	c.setState(StateNormal)
	c.logger.Debug("client.replay",
		zap.String("method", req.Method),
		zap.String("path", req.Path))

	return c.Do(ctx, req.WithRetry().WithBearer(access), out)
}

// refreshAccessToken obtains a new access token for the held refresh token
func (c *Client) refreshAccessToken(ctx context.Context) (string, error) {
	refresh := c.session.Snapshot().RefreshToken
	if refresh == "" {
		return "", ErrNoRefreshToken
	}

	if !c.coalesce {
		return c.exchangeRefreshToken(ctx, refresh)
	}

	// The shared exchange outlives any one waiter's context
	ch := c.refreshGroup.DoChan(refresh, func() (interface{}, error) {
		exchangeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.timeout())
		defer cancel()
		return c.exchangeRefreshToken(exchangeCtx, refresh)
	})
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("request canceled: %w", ctx.Err())
	case res := <-ch:
		if res.Shared {
			c.logger.Debug("client.refresh_shared")
		}
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	}
}

func (c *Client) timeout() time.Duration {
	if c.httpClient.Timeout > 0 {
		return c.httpClient.Timeout
	}
	return DefaultTimeout
}

// exchangeRefreshToken calls the refresh endpoint without authentication and
// stores the returned access token.
func (c *Client) exchangeRefreshToken(ctx context.Context, refresh string) (string, error) {
	c.logger.Debug("client.refresh_started")

	req := NewRequest(http.MethodPost, RefreshPath).WithJSON(refreshRequest{Refresh: refresh})
	req.Anonymous = true

	status, body, err := c.send(ctx, req)
	if err != nil {
		return "", fmt.Errorf("refresh access token: %w", err)
	}
	if status < 200 || status > 299 {
		return "", fmt.Errorf("refresh access token: %w", newHTTPError(req, status, body))
	}

	var resp refreshResponse
	if err := decodeBody(body, &resp); err != nil {
		return "", fmt.Errorf("refresh access token: %w", err)
	}
	if resp.Access == "" {
		return "", fmt.Errorf("refresh access token: response has no access token")
	}

	if err := c.session.SetAccessToken(resp.Access); err != nil {
		// The new token is live in memory; only persistence failed
		c.logger.Warn("client.session_save_failed", zap.Error(err))
	}

	c.logger.Debug("client.refresh_succeeded")
	return resp.Access, nil
}

// State reports the interceptor state of the most recent refresh
func (c *Client) State() State {
	return State(c.state.Load())
}

func (c *Client) setState(s State) {
	c.state.Store(int32(s))
	if c.onStateChange != nil {
		c.onStateChange(s)
	}
}
