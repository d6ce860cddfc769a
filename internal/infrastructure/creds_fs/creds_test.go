package creds_fs

import (
	"path/filepath"
	"testing"

	"github.com/ccwatch/ccwatch/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCredential_MissingEverywhere(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "credentials.yaml"))

	_, ok := s.Credential("github")
	assert.False(t, ok)
}

func TestSaveAndCredential(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "credentials.yaml"))

	require.NoError(t, s.Save("github", domain.Credential{Secret: "tok123"}))
	require.NoError(t, s.Save("cctray", domain.Credential{User: "alice", Secret: "s3cret"}))

	gh, ok := s.Credential("github")
	require.True(t, ok)
	assert.Equal(t, "tok123", gh.Secret)

	cc, ok := s.Credential("cctray")
	require.True(t, ok)
	assert.Equal(t, "alice", cc.User)
	assert.Equal(t, "s3cret", cc.Secret)
}

func TestCredential_EnvWinsOverFile(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "credentials.yaml"))
	require.NoError(t, s.Save("github", domain.Credential{Secret: "from-file"}))

	t.Setenv("GITHUB_TOKEN", "from-env")

	c, ok := s.Credential("github")
	require.True(t, ok)
	assert.Equal(t, "from-env", c.Secret)
}

func TestCredential_CCTrayFromEnvNeedsBothVars(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "credentials.yaml"))
	t.Setenv("CCTRAY_USER", "alice")

	_, ok := s.Credential("cctray")
	assert.False(t, ok)
}
