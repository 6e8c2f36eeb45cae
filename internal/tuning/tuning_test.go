package tuning

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	tun, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), tun)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tuning.yaml")
	raw := "seed: 42\napi_port: 9999\nsnapshot_path: /tmp/x.save\n"
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o644))

	tun, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, int64(42), tun.Seed)
	assert.Equal(t, 9999, tun.APIPort)
	assert.Equal(t, "/tmp/x.save", tun.SnapshotPath)

	// Untouched keys keep their defaults.
	assert.Equal(t, Default().TickIntervalMs, tun.TickIntervalMs)
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tuning.yaml")
	require.NoError(t, os.WriteFile(path, []byte("seed: [oops"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}
