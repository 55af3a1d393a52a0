package config

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/starius/postmark"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRead(t *testing.T) {
	cases := []struct {
		path     string
		expected *Config
	}{
		{
			path:     "empty.yaml",
			expected: Default(),
		},
		{
			path: "sample.yaml",
			expected: &Config{
				ServerToken:   "file-server-token",
				AccountToken:  "file-account-token",
				BaseURL:       "http://localhost:8080",
				UserAgent:     "mailer/1.0",
				Timeout:       5 * time.Second,
				MessageStream: "broadcast",
				LogLevel:      "warn",
			},
		},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.path, func(t *testing.T) {
			c, err := Read(filepath.Join("testdata", tc.path), true)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, c)
		})
	}
}

func TestReadErrors(t *testing.T) {
	_, err := Read(filepath.Join("testdata", "unknown.yaml"), true)
	require.ErrorContains(t, err, "servertoken")

	_, err = Read(filepath.Join("testdata", "badlevel.yaml"), true)
	require.ErrorContains(t, err, "loud")

	_, err = Read(filepath.Join("testdata", "missing.yaml"), true)
	require.Error(t, err)

	c, err := Read(filepath.Join("testdata", "missing.yaml"), false)
	require.NoError(t, err)
	assert.Equal(t, Default(), c)

	c, err = Read("", true)
	require.NoError(t, err)
	assert.Equal(t, Default(), c)
}

func TestDecode(t *testing.T) {
	c := Default()
	require.NoError(t, Decode(strings.NewReader("timeout: 1m\n"), c))
	assert.Equal(t, time.Minute, c.Timeout)
	assert.Equal(t, postmark.DefaultBaseURL, c.BaseURL)

	require.Error(t, Decode(strings.NewReader("timeout: -1s\n"), Default()))
	require.Error(t, Decode(strings.NewReader("timeout: [1]\n"), Default()))
}

func TestApplyEnv(t *testing.T) {
	c, err := Read(filepath.Join("testdata", "sample.yaml"), true)
	require.NoError(t, err)

	env := map[string]string{
		EnvServerToken: "env-server-token",
		EnvBaseURL:     "http://127.0.0.1:9000",
	}
	c.ApplyEnv(func(key string) string {
		return env[key]
	})
	assert.Equal(t, "env-server-token", c.ServerToken)
	assert.Equal(t, "file-account-token", c.AccountToken)
	assert.Equal(t, "http://127.0.0.1:9000", c.BaseURL)
}

func TestLevel(t *testing.T) {
	c := Default()
	level, err := c.Level()
	require.NoError(t, err)
	assert.Equal(t, zerolog.InfoLevel, level)

	c.LogLevel = "debug"
	level, err = c.Level()
	require.NoError(t, err)
	assert.Equal(t, zerolog.DebugLevel, level)

	c.LogLevel = ""
	level, err = c.Level()
	require.NoError(t, err)
	assert.Equal(t, zerolog.InfoLevel, level)
}

func TestOptions(t *testing.T) {
	c := Default()
	assert.Len(t, c.Options(zerolog.Nop()), 3)
	c.UserAgent = "mailer/1.0"
	assert.Len(t, c.Options(zerolog.Nop()), 4)

	client := c.HTTPClient()
	assert.Equal(t, DefaultTimeout, client.Timeout)
}
