package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Chdir(t.TempDir())

	cfg, err := Load(viper.New(), "")
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8000", cfg.APIURL)
	assert.Equal(t, "up-manga", cfg.Source)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 720, cfg.PageWidth)
	assert.Equal(t, 4, cfg.ImageConcurrency)
	assert.Equal(t, "session.toml", filepath.Base(cfg.SessionFile))
	assert.Empty(t, cfg.File)
}

func TestLoadFileAndEnv(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	dir := t.TempDir()
	path := filepath.Join(dir, "reader.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
api_url = "http://manga.lan:9000"
source = "reapertrans"
request_timeout = "5s"
page_width = 600
`), 0o644))

	t.Setenv("MREADER_SOURCE", "slow-manga")

	cfg, err := Load(viper.New(), path)
	require.NoError(t, err)

	assert.Equal(t, "http://manga.lan:9000", cfg.APIURL)
	assert.Equal(t, "slow-manga", cfg.Source, "environment overrides file")
	assert.Equal(t, 5*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 600, cfg.PageWidth)
	assert.Equal(t, path, cfg.File)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(viper.New(), filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	base := Config{APIURL: "http://x", PageWidth: 1, RowHeight: 1, ImageConcurrency: 1, RequestTimeout: time.Second}

	cfg := base
	assert.NoError(t, cfg.Validate())

	cfg = base
	cfg.APIURL = "ftp://x"
	assert.Error(t, cfg.Validate())

	cfg = base
	cfg.APIURL = ""
	assert.Error(t, cfg.Validate())

	cfg = base
	cfg.PageWidth = 0
	assert.Error(t, cfg.Validate())

	cfg = base
	cfg.ImageConcurrency = 0
	cfg.RequestTimeout = 0
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 1, cfg.ImageConcurrency)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
}
