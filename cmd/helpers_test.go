// ABOUTME: Shared fixtures for command tests
// ABOUTME: A fake BrandsInfo API plus viper wiring that points commands at it

package cmd

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"

	"github.com/NikhilRakesh/Bi-Admin/internal/config"
	"github.com/NikhilRakesh/Bi-Admin/internal/session"
)

// fakeAPI routes by exact path and counts every request it sees
type fakeAPI struct {
	URL string

	mu     sync.Mutex
	routes map[string]http.HandlerFunc
	hits   map[string]int
	last   *http.Request
	body   []byte
}

func newFakeAPI(t *testing.T) *fakeAPI {
	t.Helper()
	f := &fakeAPI{
		routes: make(map[string]http.HandlerFunc),
		hits:   make(map[string]int),
	}
	server := httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(server.Close)
	f.URL = server.URL
	return f
}

func (f *fakeAPI) serve(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	r.Body = io.NopCloser(bytes.NewReader(body))

	f.mu.Lock()
	f.hits[r.URL.Path]++
	f.last = r
	f.body = body
	h, ok := f.routes[r.URL.Path]
	f.mu.Unlock()

	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Not found."})
		return
	}
	h(w, r)
}

func (f *fakeAPI) handle(path string, h http.HandlerFunc) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.routes[path] = h
}

// reply answers path with a fixed status and raw JSON body
func (f *fakeAPI) reply(path string, status int, body string) {
	f.handle(path, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		io.WriteString(w, body)
	})
}

func (f *fakeAPI) count(path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.hits[path]
}

func (f *fakeAPI) lastRequest() (*http.Request, []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.last, f.body
}

// lastJSON decodes the body of the most recent request
func (f *fakeAPI) lastJSON(t *testing.T) map[string]any {
	t.Helper()
	_, body := f.lastRequest()
	var out map[string]any
	require.NoError(t, json.Unmarshal(body, &out))
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// useAPI points the commands at f with a session file in a temp dir.
// A non-empty access token stores a logged-in session for "staff".
func useAPI(t *testing.T, f *fakeAPI, access, refresh string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), session.FileName)

	viper.Reset()
	t.Cleanup(viper.Reset)
	viper.Set(config.KeyAPIURL, f.URL)
	viper.Set(config.KeySessionFile, path)

	if access != "" {
		require.NoError(t, session.New(path).Login("staff", access, refresh))
	}
	return path
}

// storedSession reads the session file back
func storedSession(t *testing.T, path string) session.Credentials {
	t.Helper()
	s := session.New(path)
	require.NoError(t, s.Load())
	return s.Snapshot()
}

func jsonOutput(t *testing.T) {
	t.Helper()
	viper.Set(config.KeyJSON, true)
}
