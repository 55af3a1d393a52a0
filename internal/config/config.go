// Package config loads settings of the postmark command.
//
// Settings come from a YAML file, then environment variables override
// them, then command line flags override both.
package config

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/starius/postmark"
	"gopkg.in/yaml.v3"
)

const (
	EnvServerToken  = "POSTMARK_SERVER_TOKEN"
	EnvAccountToken = "POSTMARK_ACCOUNT_TOKEN"
	EnvBaseURL      = "POSTMARK_BASE_URL"
	EnvConfig       = "POSTMARK_CONFIG"
)

const DefaultTimeout = 30 * time.Second

type Config struct {
	// Token of a server, used by email and message streams commands
	ServerToken string `yaml:"server_token"`
	// Token of the account, used by servers commands
	AccountToken string `yaml:"account_token"`
	// API address, https://api.postmarkapp.com by default
	BaseURL string `yaml:"base_url"`
	UserAgent string `yaml:"user_agent"`
	// Timeout of one API call
	Timeout time.Duration `yaml:"timeout"`
	// Message stream used by `email send` if not set by flag
	MessageStream string `yaml:"message_stream"`
	// Log level (debug, info, warn, error)
	LogLevel string `yaml:"log_level"`
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		BaseURL:  postmark.DefaultBaseURL,
		Timeout:  DefaultTimeout,
		LogLevel: "info",
	}
}

// DefaultPath returns the path of the configuration file used if the path
// is not set explicitly: $POSTMARK_CONFIG or postmark/config.yaml in user
// config directory.
func DefaultPath() string {
	if path := os.Getenv(EnvConfig); path != "" {
		return path
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "postmark", "config.yaml")
}

// Read loads a YAML configuration file on top of defaults. If the file
// does not exist and mustExist is false, defaults are returned.
func Read(path string, mustExist bool) (*Config, error) {
	c := Default()
	if path == "" {
		return c, nil
	}

	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) && !mustExist {
		return c, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if err := Decode(f, c); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return c, nil
}

// Decode reads YAML from r into c. Keys absent in YAML keep values of c.
func Decode(r io.Reader, c *Config) error {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return c.validate()
}

// ApplyEnv overrides fields from environment variables which are set.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := getenv(EnvServerToken); v != "" {
		c.ServerToken = v
	}
	if v := getenv(EnvAccountToken); v != "" {
		c.AccountToken = v
	}
	if v := getenv(EnvBaseURL); v != "" {
		c.BaseURL = v
	}
}

func (c *Config) validate() error {
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative, got %s", c.Timeout)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level parses LogLevel.
func (c *Config) Level() (zerolog.Level, error) {
	if c.LogLevel == "" {
		return zerolog.InfoLevel, nil
	}
	level, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("bad log level %q: %w", c.LogLevel, err)
	}
	return level, nil
}

// HTTPClient returns the HTTP client with the configured timeout.
func (c *Config) HTTPClient() *http.Client {
	return &http.Client{
		Timeout: c.Timeout,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

// Options returns options of postmark.NewClient. The HTTP client is set
// by the caller with postmark.CustomClient.
func (c *Config) Options(logger zerolog.Logger) []postmark.Option {
	opts := []postmark.Option{
		postmark.Logger(logger),
		postmark.ServerToken(c.ServerToken),
		postmark.AccountToken(c.AccountToken),
	}
	if c.UserAgent != "" {
		opts = append(opts, postmark.UserAgent(c.UserAgent))
	}
	return opts
}
