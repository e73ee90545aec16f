package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mohsinsiddi/crunner/internal/config"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// isolateHome points HOME at an empty directory so a developer's own
// ~/.crunner/config.yaml never leaks into a test.
func isolateHome(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
}

func TestLoadDefaultConfig(t *testing.T) {
	isolateHome(t)
	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, "fastest", cfg.RPCAlgorithm)
	assert.Equal(t, uint64(20), cfg.BlockConfirmations)
	assert.Equal(t, 2*time.Second, cfg.PollInterval)
	assert.Empty(t, cfg.KeyringRef)
	assert.Empty(t, cfg.SetterSecretKey)
	assert.Empty(t, cfg.GetRPCs("bsc"))
	assert.Empty(t, cfg.Path())
}

func TestLoadFromDefaultLocation(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	dir := filepath.Join(home, ".crunner")
	require.NoError(t, os.MkdirAll(dir, 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("block_confirmations: 5\n"), 0o600))

	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, uint64(5), cfg.BlockConfirmations)
	assert.Equal(t, filepath.Join(dir, "config.yaml"), cfg.Path())
}

func TestLoadExplicitFile(t *testing.T) {
	isolateHome(t)
	path := writeConfig(t, `
rpc_algorithm: failover
block_confirmations: 3
poll_interval: 500ms
keyring_ref: crunner.setter
custom_rpcs:
  bsc:
    - https://bsc.example.org
    - https://bsc2.example.org
`)
	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "failover", cfg.RPCAlgorithm)
	assert.Equal(t, uint64(3), cfg.BlockConfirmations)
	assert.Equal(t, 500*time.Millisecond, cfg.PollInterval)
	assert.Equal(t, "crunner.setter", cfg.KeyringRef)
	assert.Equal(t, []string{"https://bsc.example.org", "https://bsc2.example.org"}, cfg.GetRPCs("BSC"))
	assert.Equal(t, path, cfg.Path())
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading config")
}

func TestLoadEnvOverrides(t *testing.T) {
	isolateHome(t)
	t.Setenv("CRUNNER_SETTER_SECRETKEY", "0xabc")
	t.Setenv("CRUNNER_BLOCK_CONFIRMATIONS", "7")
	t.Setenv("CRUNNER_RPC_ALGORITHM", "failover")

	path := writeConfig(t, "block_confirmations: 3\n")
	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "0xabc", cfg.SetterSecretKey)
	assert.Equal(t, uint64(7), cfg.BlockConfirmations, "env must win over file")
	assert.Equal(t, "failover", cfg.RPCAlgorithm)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	isolateHome(t)
	tests := []struct {
		name    string
		content string
		errLike string
	}{
		{"bad algorithm", "rpc_algorithm: round-robin\n", "rpc_algorithm"},
		{"zero poll interval", "poll_interval: 0s\n", "poll_interval"},
		{"malformed yaml", "rpc_algorithm: [\n", "reading config"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.Load(writeConfig(t, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errLike)
		})
	}
}
