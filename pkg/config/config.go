// Package config resolves reader settings from flags, environment and an
// optional config file. The resulting Config is passed explicitly to every
// component; nothing reads viper after Load returns.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

const (
	EnvPrefix  = "MREADER"
	configName = ".mangas-reader"
	appDirName = "mangas-reader"
)

type Config struct {
	APIURL           string        `mapstructure:"api_url"`
	Source           string        `mapstructure:"source"`
	LogFile          string        `mapstructure:"log_file"`
	LogLevel         string        `mapstructure:"log_level"`
	SessionFile      string        `mapstructure:"session_file"`
	RequestTimeout   time.Duration `mapstructure:"request_timeout"`
	PageWidth        int           `mapstructure:"page_width"`
	RowHeight        int           `mapstructure:"row_height"`
	ImageConcurrency int           `mapstructure:"image_concurrency"`
	ImageRate        float64       `mapstructure:"image_rate"`

	// File is the config file that was read, empty when none was found.
	File string `mapstructure:"-"`
}

// AppDir returns ~/.config/mangas-reader.
func AppDir() (string, error) {
	home, err := homedir.Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appDirName), nil
}

// SetDefaults registers every key with its default value.
func SetDefaults(v *viper.Viper) {
	dir, err := AppDir()
	if err != nil {
		dir = "."
	}
	v.SetDefault("api_url", "http://localhost:8000")
	v.SetDefault("source", "up-manga")
	v.SetDefault("log_file", filepath.Join(dir, "reader.log"))
	v.SetDefault("log_level", "info")
	v.SetDefault("session_file", filepath.Join(dir, "session.toml"))
	v.SetDefault("request_timeout", 30*time.Second)
	v.SetDefault("page_width", 720)
	v.SetDefault("row_height", 24)
	v.SetDefault("image_concurrency", 4)
	v.SetDefault("image_rate", 8.0)
}

// Load reads cfgFile (or searches the default locations when empty), applies
// MREADER_* environment overrides and returns the validated Config.
func Load(v *viper.Viper, cfgFile string) (*Config, error) {
	SetDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName(configName)
		v.AddConfigPath(".")
		if home, err := homedir.Dir(); err == nil {
			v.AddConfigPath(home)
		}
		if dir, err := AppDir(); err == nil {
			v.AddConfigPath(dir)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || cfgFile != "" {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.File = v.ConfigFileUsed()

	var err error
	if cfg.LogFile, err = homedir.Expand(cfg.LogFile); err != nil {
		return nil, err
	}
	if cfg.SessionFile, err = homedir.Expand(cfg.SessionFile); err != nil {
		return nil, err
	}
	return cfg, cfg.Validate()
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.APIURL) == "" {
		return errors.New("api_url must not be empty")
	}
	if !strings.HasPrefix(c.APIURL, "http://") && !strings.HasPrefix(c.APIURL, "https://") {
		return fmt.Errorf("api_url %q must be an http(s) URL", c.APIURL)
	}
	if c.PageWidth <= 0 {
		return fmt.Errorf("page_width must be positive, got %d", c.PageWidth)
	}
	if c.RowHeight <= 0 {
		return fmt.Errorf("row_height must be positive, got %d", c.RowHeight)
	}
	if c.ImageConcurrency <= 0 {
		c.ImageConcurrency = 1
	}
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = 30 * time.Second
	}
	return nil
}
