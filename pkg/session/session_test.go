package session

import (
	"os"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGate(t *testing.T) {
	tests := []struct {
		route    string
		authed   bool
		redirect string
		allowed  bool
	}{
		{"/", false, "/login", false},
		{"/history", false, "/login", false},
		{"/read/c1", false, "/login", false},
		{"/login", false, "", true},
		{"/static/logo.png", false, "", true},
		{"/favicon.ico", false, "", true},
		{"/login", true, "/", false},
		{"/", true, "", true},
		{"/manga/solo", true, "", true},
	}

	for _, tt := range tests {
		redirect, allowed := Gate(tt.route, tt.authed)
		assert.Equal(t, tt.redirect, redirect, tt.route)
		assert.Equal(t, tt.allowed, allowed, tt.route)
	}
}

func TestStoreRoundTrip(t *testing.T) {
	fs := afero.NewMemMapFs()
	store := NewStore(fs, "/home/u/.config/mangas-reader/session.toml")

	sess, err := store.Load()
	require.NoError(t, err)
	assert.False(t, sess.Authenticated(time.Now()))

	_, err = store.Save("tok", "admin")
	require.NoError(t, err)

	info, err := fs.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	sess, err = store.Load()
	require.NoError(t, err)
	assert.Equal(t, "tok", sess.Token)
	assert.Equal(t, "admin", sess.Username)
	assert.True(t, sess.Authenticated(time.Now()))

	require.NoError(t, store.Clear())
	require.NoError(t, store.Clear())
	sess, err = store.Load()
	require.NoError(t, err)
	assert.Empty(t, sess.Token)
}

func TestStoreExpiry(t *testing.T) {
	store := NewStore(afero.NewMemMapFs(), "/session.toml")
	issued := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return issued }
	_, err := store.Save("tok", "admin")
	require.NoError(t, err)

	store.now = func() time.Time { return issued.Add(MaxAge - time.Minute) }
	sess, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "tok", sess.Token)

	store.now = func() time.Time { return issued.Add(MaxAge + time.Minute) }
	sess, err = store.Load()
	require.NoError(t, err)
	assert.Empty(t, sess.Token)
}

func TestStoreCorrupt(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/session.toml", []byte("token = "), 0o600))

	_, err := NewStore(fs, "/session.toml").Load()
	assert.Error(t, err)
}
