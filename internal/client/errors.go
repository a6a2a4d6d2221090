// ABOUTME: Error types returned by the BrandsInfo API client
// ABOUTME: HTTPError carries status and message; sentinels cover session outcomes

package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

var (
	// ErrSessionExpired means the refresh exchange failed and the session was cleared
	ErrSessionExpired = errors.New("session expired, please log in again")

	// ErrNotLoggedIn means there are no stored credentials
	ErrNotLoggedIn = errors.New("not logged in, run 'bi-admin login' first")

	// ErrInvalidCredentials is returned by Login on HTTP 401
	ErrInvalidCredentials = errors.New("username or password is incorrect")

	// ErrNoRefreshToken means a 401 arrived but no refresh token is held
	ErrNoRefreshToken = errors.New("no refresh token found")
)

// HTTPError is a non-2xx API response
type HTTPError struct {
	StatusCode int
	Method     string
	Path       string
	Message    string
	Body       []byte
}

func (e *HTTPError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s %s: backend returned status %d", e.Method, e.Path, e.StatusCode)
}

// ErrorResponse is the error body shape used by the API.
// Django REST views answer with "detail"; some custom views use "error" or "message".
type ErrorResponse struct {
	Detail  string `json:"detail"`
	Error   string `json:"error"`
	Message string `json:"message"`
}

func newHTTPError(req Request, status int, body []byte) *HTTPError {
	return &HTTPError{
		StatusCode: status,
		Method:     req.Method,
		Path:       req.Path,
		Message:    errorMessage(body),
		Body:       body,
	}
}

// errorMessage extracts a human-readable message from an error body
func errorMessage(body []byte) string {
	var errResp ErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil {
		switch {
		case errResp.Detail != "":
			return errResp.Detail
		case errResp.Error != "":
			return errResp.Error
		case errResp.Message != "":
			return errResp.Message
		}
	}

	// Field validation errors come back as {"field": ["msg", ...]}
	var fieldErrs map[string][]string
	if err := json.Unmarshal(body, &fieldErrs); err == nil && len(fieldErrs) > 0 {
		parts := make([]string, 0, len(fieldErrs))
		for field, msgs := range fieldErrs {
			parts = append(parts, field+": "+strings.Join(msgs, ", "))
		}
		sort.Strings(parts)
		return strings.Join(parts, "; ")
	}

	return ""
}

// StatusCode returns the HTTP status carried by err, or 0
func StatusCode(err error) int {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode
	}
	return 0
}

// IsUnauthorized reports whether err is an HTTP 401
func IsUnauthorized(err error) bool {
	return StatusCode(err) == http.StatusUnauthorized
}
