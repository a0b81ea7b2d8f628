// Package session persists the access token between runs and gates routes
// on whether one is present.
package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/afero"
)

// MaxAge matches the lifetime of the token cookie issued at login.
const MaxAge = 30 * 24 * time.Hour

type Session struct {
	Token    string    `toml:"token"`
	Username string    `toml:"username"`
	IssuedAt time.Time `toml:"issued_at"`
}

// Authenticated reports whether s holds a token that has not expired at now.
func (s *Session) Authenticated(now time.Time) bool {
	if s == nil || strings.TrimSpace(s.Token) == "" {
		return false
	}
	if s.IssuedAt.IsZero() {
		return true
	}
	return now.Before(s.IssuedAt.Add(MaxAge))
}

type Store struct {
	fs   afero.Fs
	path string
	now  func() time.Time
}

func NewStore(fs afero.Fs, path string) *Store {
	return &Store{fs: fs, path: path, now: time.Now}
}

// NewOsStore stores the session on the real filesystem.
func NewOsStore(path string) *Store {
	return NewStore(afero.NewOsFs(), path)
}

func (s *Store) Path() string { return s.path }

// Load returns the stored session. A missing or expired session yields an
// empty, unauthenticated Session and no error.
func (s *Store) Load() (*Session, error) {
	raw, err := afero.ReadFile(s.fs, s.path)
	if errors.Is(err, os.ErrNotExist) {
		return &Session{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session: %w", err)
	}
	sess := &Session{}
	if err := toml.Unmarshal(raw, sess); err != nil {
		return nil, fmt.Errorf("failed to parse session %s: %w", s.path, err)
	}
	if !sess.Authenticated(s.now()) {
		return &Session{}, nil
	}
	return sess, nil
}

func (s *Store) Save(token, username string) (*Session, error) {
	sess := &Session{Token: token, Username: username, IssuedAt: s.now().UTC().Truncate(time.Second)}
	raw, err := toml.Marshal(sess)
	if err != nil {
		return nil, err
	}
	if err := s.fs.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return nil, fmt.Errorf("failed to create session directory: %w", err)
	}
	if err := afero.WriteFile(s.fs, s.path, raw, 0o600); err != nil {
		return nil, fmt.Errorf("failed to write session: %w", err)
	}
	return sess, nil
}

// Clear removes the stored session. Clearing an absent session is not an error.
func (s *Store) Clear() error {
	err := s.fs.Remove(s.path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
