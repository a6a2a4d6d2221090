// ABOUTME: Tests for the BrandsInfo API client core
// ABOUTME: Uses httptest to mock the API; covers requests, errors, and login

package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NikhilRakesh/Bi-Admin/internal/session"
)

func newServer(t *testing.T, handler http.Handler) string {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return server.URL
}

// newTestClient returns a client for handler with a memory session holding A1/R1
func newTestClient(t *testing.T, handler http.Handler, opts ...Option) (*Client, *session.Store) {
	t.Helper()
	sess := session.New("")
	require.NoError(t, sess.Login("staff", "A1", "R1"))
	return New(newServer(t, handler), sess, opts...), sess
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func TestNew_SendsNothing(t *testing.T) {
	called := false
	_, _ = newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	assert.False(t, called)
}

func TestDo_SetsHeaders(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer A1", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		assert.Equal(t, "bi-admin-test", r.Header.Get("User-Agent"))
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))
		writeJSON(w, http.StatusOK, map[string]string{"ok": "yes"})
	}), WithUserAgent("bi-admin-test"))

	var out map[string]string
	require.NoError(t, c.Get(context.Background(), "badmin/dash/", nil, &out))
	assert.Equal(t, "yes", out["ok"])
}

func TestDo_EmptyTokenSendsEmptyBearer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// trailing whitespace is trimmed by the server's header parser
		assert.Equal(t, "Bearer", strings.TrimSpace(r.Header.Get("Authorization")))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	c := New(server.URL, nil)
	require.NoError(t, c.Get(context.Background(), "x/", nil, nil))
}

func TestDo_QueryAndPathJoin(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/users/search_users/", r.URL.Path)
		assert.Equal(t, "ravi kumar", r.URL.Query().Get("q"))
		w.WriteHeader(http.StatusOK)
	}))

	err := c.Get(context.Background(), "/users/search_users/", url.Values{"q": {"ravi kumar"}}, nil)
	require.NoError(t, err)
}

func TestDo_NonUnauthorizedErrorsPassThrough(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		message string
	}{
		{"detail", http.StatusForbidden, `{"detail":"You do not have permission"}`, "You do not have permission"},
		{"error", http.StatusBadRequest, `{"error":"bad gid"}`, "bad gid"},
		{"message", http.StatusInternalServerError, `{"message":"boom"}`, "boom"},
		{"field errors", http.StatusBadRequest, `{"phone":["already exists"],"name":["too long","blank"]}`, "name: too long, blank; phone: already exists"},
		{"no body", http.StatusNotFound, ``, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			refreshes := 0
			c, sess := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path == RefreshPath {
					refreshes++
				}
				w.WriteHeader(tt.status)
				io.WriteString(w, tt.body)
			}))

			err := c.Get(context.Background(), "badmin/dash/", nil, nil)
			require.Error(t, err)

			var httpErr *HTTPError
			require.True(t, errors.As(err, &httpErr))
			assert.Equal(t, tt.status, httpErr.StatusCode)
			assert.Equal(t, tt.message, httpErr.Message)
			assert.Equal(t, 0, refreshes)
			assert.True(t, sess.Snapshot().Authenticated, "non-401 errors must not touch the session")
		})
	}
}

func TestHTTPError_Error(t *testing.T) {
	e := &HTTPError{StatusCode: 404, Method: "GET", Path: "badmin/x/", Message: "Not found."}
	assert.Equal(t, "GET badmin/x/: 404 Not found.", e.Error())

	e.Message = ""
	assert.Equal(t, "GET badmin/x/: backend returned status 404", e.Error())
}

func TestDo_InvalidJSON(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "<html>")
	}))

	var out map[string]any
	err := c.Get(context.Background(), "badmin/dash/", nil, &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid response from API")
}

func TestDo_RawMessage(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"a":1}`)
	}))

	var raw json.RawMessage
	require.NoError(t, c.Get(context.Background(), "x/", nil, &raw))
	assert.JSONEq(t, `{"a":1}`, string(raw))
}

func TestDo_ConnectionError(t *testing.T) {
	c := New("http://127.0.0.1:1", nil)
	err := c.Get(context.Background(), "badmin/dash/", nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot connect to API at http://127.0.0.1:1")
}

func TestDo_ContextCancellation(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(100 * time.Millisecond)
	}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := c.Get(ctx, "badmin/dash/", nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "request canceled")
}

func TestDo_ContextTimeout(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(100 * time.Millisecond)
	}))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err := c.Get(ctx, "badmin/dash/", nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "request timed out")
}

func TestRequest_IsImmutable(t *testing.T) {
	base := NewRequest(http.MethodGet, "badmin/dash/").WithHeader("X-A", "1")

	retried := base.WithRetry()
	assert.Equal(t, 0, base.Retries)
	assert.False(t, base.Retried())
	assert.Equal(t, 1, retried.Retries)
	assert.True(t, retried.Retried())

	changed := base.WithHeader("X-A", "2")
	assert.Equal(t, "1", base.Header.Get("X-A"))
	assert.Equal(t, "2", changed.Header.Get("X-A"))

	q := url.Values{"q": {"a"}}
	withQuery := base.WithQuery(q)
	q.Set("q", "b")
	assert.Equal(t, "a", withQuery.Query.Get("q"))

	pinned := base.WithBearer("A2")
	httpReq, err := pinned.build("http://x.test", "A1", "")
	require.NoError(t, err)
	assert.Equal(t, "Bearer A2", httpReq.Header.Get("Authorization"))

	httpReq, err = base.build("http://x.test", "A1", "")
	require.NoError(t, err)
	assert.Equal(t, "Bearer A1", httpReq.Header.Get("Authorization"))
}

func TestJoinURL(t *testing.T) {
	tests := []struct {
		base, path, want string
		query            url.Values
	}{
		{"https://api.brandsinfo.in", "badmin/dash/", "https://api.brandsinfo.in/badmin/dash/", nil},
		{"https://api.brandsinfo.in/", "/badmin/dash/", "https://api.brandsinfo.in/badmin/dash/", nil},
		{"http://localhost:8000/api", "badmin/get_dcats/", "http://localhost:8000/api/badmin/get_dcats/?gid=4", url.Values{"gid": {"4"}}},
		{"http://localhost:8000", "badmin/get_users/?page=2", "http://localhost:8000/badmin/get_users/?page=2", nil},
	}
	for _, tt := range tests {
		got, err := joinURL(tt.base, tt.path, tt.query)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestLogin_PopulatesSession(t *testing.T) {
	var gotAuth []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = append(gotAuth, r.Header.Get("Authorization"))
		switch r.URL.Path {
		case "/" + LoginPath:
			var body map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "staff", body["username"])
			assert.Equal(t, "secret", body["password"])
			writeJSON(w, http.StatusOK, LoginResponse{SessionID: "A1", RefreshToken: "R1"})
		default:
			writeJSON(w, http.StatusOK, map[string]any{"data": map[string]int{"total_users": 3}})
		}
	}))
	defer server.Close()

	sess := session.New("")
	c := New(server.URL, sess)
	require.ErrorIs(t, c.EnsureAuthenticated(), ErrNotLoggedIn)

	require.NoError(t, c.Login(context.Background(), " staff ", "secret"))

	creds := sess.Snapshot()
	assert.True(t, creds.Authenticated)
	assert.Equal(t, "A1", creds.AccessToken)
	assert.Equal(t, "R1", creds.RefreshToken)
	assert.Equal(t, "staff", creds.Username)
	require.NoError(t, c.EnsureAuthenticated())

	_, err := c.Dashboard(context.Background())
	require.NoError(t, err)
	require.Len(t, gotAuth, 2)
	assert.Empty(t, gotAuth[0], "login must not send a bearer token")
	assert.Equal(t, "Bearer A1", gotAuth[1])
}

func TestLogin_InvalidCredentials(t *testing.T) {
	refreshes := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == RefreshPath {
			refreshes++
		}
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Detail: "Invalid credentials"})
	}))
	defer server.Close()

	sess := session.New("")
	c := New(server.URL, sess)

	err := c.Login(context.Background(), "staff", "wrong")
	require.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Equal(t, 0, refreshes)
	assert.False(t, sess.Snapshot().Authenticated)
}

func TestLogin_RequiresCredentials(t *testing.T) {
	c := New("http://127.0.0.1:1", nil)
	assert.ErrorIs(t, c.Login(context.Background(), "", "secret"), ErrMissingCredentials)
	assert.ErrorIs(t, c.Login(context.Background(), "staff", ""), ErrMissingCredentials)
	assert.EqualError(t, ErrMissingCredentials, "username and password are required")
}

func TestLogin_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "down"})
	}))
	defer server.Close()

	err := New(server.URL, nil).Login(context.Background(), "staff", "secret")
	require.Error(t, err)
	assert.Equal(t, http.StatusInternalServerError, StatusCode(err))
	assert.True(t, strings.HasPrefix(err.Error(), "login failed"))
}

func TestLogout_ClearsSession(t *testing.T) {
	c, sess := newTestClient(t, http.NotFoundHandler())

	require.NoError(t, c.Logout())

	assert.Equal(t, session.Credentials{}, sess.Snapshot())
	assert.ErrorIs(t, c.EnsureAuthenticated(), ErrNotLoggedIn)
}
