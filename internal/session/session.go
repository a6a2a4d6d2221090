// ABOUTME: Session credentials store shared by the API client, CLI, and TUI
// ABOUTME: Holds the token pair and persists it as JSON in the user config directory

package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// FileName is the session file name inside the config directory
const FileName = "session.json"

// Credentials is the persisted login state
type Credentials struct {
	AccessToken   string    `json:"access_token"`
	RefreshToken  string    `json:"refresh_token"`
	Authenticated bool      `json:"is_authenticated"`
	Username      string    `json:"username,omitempty"`
	UpdatedAt     time.Time `json:"updated_at,omitempty"`
}

// HasRefreshToken reports whether a refresh exchange is possible
func (c Credentials) HasRefreshToken() bool {
	return c.RefreshToken != ""
}

// Store guards the current credentials. All mutation goes through Update,
// which writes the result to disk when the store has a path.
type Store struct {
	path string

	// writeMu orders a state change together with its file write.
	// Lock order: writeMu before mu.
	writeMu sync.Mutex

	mu    sync.RWMutex
	creds Credentials

	listenersMu sync.Mutex
	listeners   []func(error)
}

// New creates a store backed by the file at path.
// An empty path keeps the session in memory only.
func New(path string) *Store {
	return &Store{path: path}
}

// Path returns the backing file path ("" for memory-only stores)
func (s *Store) Path() string {
	return s.path
}

// Load reads the session file. A missing or unreadable file yields an
// empty session rather than an error, so a corrupt file never locks the
// user out of logging in again.
func (s *Store) Load() error {
	if s.path == "" {
		return nil
	}

	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		s.set(Credentials{})
		return nil
	}
	if err != nil {
		return fmt.Errorf("read session file: %w", err)
	}

	var creds Credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		s.set(Credentials{})
		return nil
	}

	s.set(creds)
	return nil
}

// Snapshot returns a copy of the current credentials
func (s *Store) Snapshot() Credentials {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.creds
}

// Update applies fn to a copy of the credentials, stores the result, and
// persists it. The in-memory value is updated even when the write fails.
func (s *Store) Update(fn func(*Credentials)) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	next := s.creds
	fn(&next)
	next.UpdatedAt = time.Now().UTC()
	s.creds = next
	s.mu.Unlock()

	return s.save(next)
}

// Login records a fresh token pair for username
func (s *Store) Login(username, accessToken, refreshToken string) error {
	return s.Update(func(c *Credentials) {
		c.Username = username
		c.AccessToken = accessToken
		c.RefreshToken = refreshToken
		c.Authenticated = true
	})
}

// SetAccessToken replaces the access token after a refresh exchange
func (s *Store) SetAccessToken(token string) error {
	return s.Update(func(c *Credentials) {
		c.AccessToken = token
	})
}

// Clear drops the credentials and removes the session file
func (s *Store) Clear() error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.set(Credentials{})

	if s.path == "" {
		return nil
	}
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove session file: %w", err)
	}
	return nil
}

// Expire clears the session and notifies OnExpired subscribers with reason
func (s *Store) Expire(reason error) error {
	err := s.Clear()

	s.listenersMu.Lock()
	listeners := append([]func(error){}, s.listeners...)
	s.listenersMu.Unlock()

	for _, fn := range listeners {
		fn(reason)
	}
	return err
}

// OnExpired registers fn to be called whenever the session is expired
func (s *Store) OnExpired(fn func(error)) {
	s.listenersMu.Lock()
	defer s.listenersMu.Unlock()
	s.listeners = append(s.listeners, fn)
}

func (s *Store) set(creds Credentials) {
	s.mu.Lock()
	s.creds = creds
	s.mu.Unlock()
}

// save writes creds atomically via a temp file in the same directory
func (s *Store) save(creds Credentials) error {
	if s.path == "" {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}

	data, err := json.MarshalIndent(creds, "", "  ")
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".session-*.json")
	if err != nil {
		return fmt.Errorf("write session file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write session file: %w", err)
	}
	if err := tmp.Chmod(0600); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write session file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write session file: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write session file: %w", err)
	}
	return nil
}
