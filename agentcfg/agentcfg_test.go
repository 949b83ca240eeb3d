package agentcfg

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileYieldsDefaults(t *testing.T) {
	assert := require.New(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "nonexistent.json"))
	assert.NoError(err)
	assert.Equal("http://localhost:5000", cfg.APIBase)
	assert.Equal(1000, cfg.QueueMax)
	assert.True(cfg.EnableMdns)
	assert.False(cfg.EnableDhcpLease)
}

func TestLoadFillsOnlyMissingKeys(t *testing.T) {
	assert := require.New(t)

	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"apiBase":"https://collector.example","queueMax":50}`), 0o644))

	cfg, err := Load(path)
	assert.NoError(err)
	assert.Equal("https://collector.example", cfg.APIBase)
	assert.Equal(50, cfg.QueueMax)
	// untouched keys still carry their defaults
	assert.Equal(30, cfg.IntervalSeconds)
	assert.Equal(8787, cfg.StatusPort)
}

func TestSaveRewritesAtomically(t *testing.T) {
	assert := require.New(t)

	path := filepath.Join(t.TempDir(), "config.json")
	cfg, err := Load(path)
	assert.NoError(err)

	cfg.Token = "abc123"
	assert.NoError(cfg.Save())

	// .tmp must not be left behind
	_, statErr := os.Stat(path + ".tmp")
	assert.True(os.IsNotExist(statErr))

	reloaded, err := Load(path)
	assert.NoError(err)
	assert.Equal("abc123", reloaded.Token)
}
