package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_FromYAMLAndEnvOverride(t *testing.T) {
	tmp := t.TempDir()
	cfgFile := filepath.Join(tmp, "config.yaml")

	yaml := `
poll:
  interval: 30s

http:
  timeout: 5s

pipelines:
  path: /tmp/pipelines.json
`
	require.NoError(t, os.WriteFile(cfgFile, []byte(yaml), 0o644))

	t.Setenv("CCWATCH_INTERVAL", "45s")

	c, err := Load(cfgFile)
	require.NoError(t, err)

	assert.Equal(t, 45*time.Second, c.Poll.Interval) // env wins
	assert.Equal(t, 5*time.Second, c.HTTP.Timeout)
	assert.Equal(t, "/tmp/pipelines.json", c.Pipelines.Path)
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 10*time.Second, c.Poll.Interval)
	assert.Equal(t, "https://api.github.com", c.GitHub.APIBaseURL)
	assert.NotEmpty(t, c.Pipelines.Path)
}

func TestLoad_InvalidYAMLIsAnError(t *testing.T) {
	tmp := t.TempDir()
	cfgFile := filepath.Join(tmp, "config.yaml")
	require.NoError(t, os.WriteFile(cfgFile, []byte("poll: [not a map"), 0o644))

	_, err := Load(cfgFile)
	assert.Error(t, err)
}

func TestLoad_NonPositiveIntervalFallsBack(t *testing.T) {
	tmp := t.TempDir()
	cfgFile := filepath.Join(tmp, "config.yaml")
	require.NoError(t, os.WriteFile(cfgFile, []byte("poll:\n  interval: -5s\n"), 0o644))

	c, err := Load(cfgFile)
	require.NoError(t, err)
	assert.Equal(t, 10*time.Second, c.Poll.Interval)
}
