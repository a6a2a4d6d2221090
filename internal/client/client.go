// ABOUTME: HTTP client for the BrandsInfo admin API
// ABOUTME: Binds requests to a session store and refreshes the access token on 401

package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/NikhilRakesh/Bi-Admin/internal/session"
)

// DefaultTimeout bounds a single HTTP exchange
const DefaultTimeout = 30 * time.Second

// Client is the API client for the BrandsInfo backend
type Client struct {
	baseURL    string
	session    *session.Store
	httpClient *http.Client
	logger     *zap.Logger
	userAgent  string

	coalesce     bool
	refreshGroup singleflight.Group
	state        atomic.Int32

	onStateChange func(State)
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeout sets the per-request timeout
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithLogger sets the logger used for request and refresh events
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithUserAgent sets the User-Agent header
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithCoalescedRefresh makes concurrent 401s that share a refresh token
// wait on a single refresh exchange instead of each running their own.
func WithCoalescedRefresh() Option {
	return func(c *Client) {
		c.coalesce = true
	}
}

// WithStateHook is called on every refresh state transition
func WithStateHook(fn func(State)) Option {
	return func(c *Client) {
		c.onStateChange = fn
	}
}

// New creates a client for baseURL bound to the given session.
// Nothing is sent at construction time.
func New(baseURL string, sess *session.Store, opts ...Option) *Client {
	if sess == nil {
		sess = session.New("")
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		session: sess,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		logger:    zap.NewNop(),
		userAgent: "bi-admin",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the API base URL
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Session returns the session store the client reads tokens from
func (c *Client) Session() *session.Store {
	return c.session
}

// EnsureAuthenticated returns ErrNotLoggedIn when no session is stored
func (c *Client) EnsureAuthenticated() error {
	if !c.session.Snapshot().Authenticated {
		return ErrNotLoggedIn
	}
	return nil
}

// Get issues a GET and decodes the JSON response into out
func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	return c.Do(ctx, NewRequest(http.MethodGet, path).WithQuery(query), out)
}

// Post issues a POST with a JSON body
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, NewRequest(http.MethodPost, path).WithJSON(body), out)
}

// Patch issues a PATCH with a JSON body
func (c *Client) Patch(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, NewRequest(http.MethodPatch, path).WithJSON(body), out)
}

// PostMultipart issues a POST with a multipart/form-data body
func (c *Client) PostMultipart(ctx context.Context, path string, form *MultipartForm, out any) error {
	return c.Do(ctx, NewRequest(http.MethodPost, path).WithForm(form), out)
}

// PatchMultipart issues a PATCH with a multipart/form-data body
func (c *Client) PatchMultipart(ctx context.Context, path string, form *MultipartForm, out any) error {
	return c.Do(ctx, NewRequest(http.MethodPatch, path).WithForm(form), out)
}

// Delete issues a DELETE
func (c *Client) Delete(ctx context.Context, path string, out any) error {
	return c.Do(ctx, NewRequest(http.MethodDelete, path), out)
}

// Do sends req, handling a 401 through the refresh interceptor, and decodes
// a successful response body into out (out may be nil).
func (c *Client) Do(ctx context.Context, req Request, out any) error {
	status, body, err := c.send(ctx, req)
	if err != nil {
		return err
	}

	if status == http.StatusUnauthorized && !req.Anonymous {
		return c.handleUnauthorized(ctx, req, newHTTPError(req, status, body), out)
	}

	if status < 200 || status > 299 {
		httpErr := newHTTPError(req, status, body)
		c.logger.Debug("client.request_failed",
			zap.String("method", req.Method),
			zap.String("path", req.Path),
			zap.Int("status", status),
			zap.String("message", httpErr.Message))
		return httpErr
	}

	return decodeBody(body, out)
}

// send performs one HTTP exchange and returns status and body
func (c *Client) send(ctx context.Context, req Request) (int, []byte, error) {
	token := c.session.Snapshot().AccessToken
	httpReq, err := req.build(c.baseURL, token, c.userAgent)
	if err != nil {
		return 0, nil, err
	}
	httpReq = httpReq.WithContext(ctx)

	requestID := uuid.NewString()
	httpReq.Header.Set("X-Request-ID", requestID)

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.logger.Warn("client.http_failed",
			zap.String("request_id", requestID),
			zap.String("method", req.Method),
			zap.String("path", req.Path),
			zap.Error(err))
		return 0, nil, c.handleRequestError(ctx, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to read response: %w", err)
	}

	c.logger.Debug("client.http_done",
		zap.String("request_id", requestID),
		zap.String("method", req.Method),
		zap.String("path", req.Path),
		zap.Int("status", resp.StatusCode),
		zap.Int("retries", req.Retries),
		zap.Duration("elapsed", time.Since(start)))

	return resp.StatusCode, body, nil
}

// handleRequestError converts context errors to user-friendly messages
func (c *Client) handleRequestError(ctx context.Context, err error) error {
	if errors.Is(ctx.Err(), context.Canceled) {
		return fmt.Errorf("request canceled: %w", ctx.Err())
	}
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("request timed out: %w", ctx.Err())
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Timeout() {
		return fmt.Errorf("request timed out: %w", err)
	}
	return fmt.Errorf("cannot connect to API at %s: %w", c.baseURL, err)
}

func decodeBody(body []byte, out any) error {
	if out == nil || len(body) == 0 {
		return nil
	}
	if raw, ok := out.(*json.RawMessage); ok {
		*raw = append((*raw)[:0], body...)
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("invalid response from API: %w", err)
	}
	return nil
}
