package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"remap/pkg/engine"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "csv/input", cfg.InputDir)
	assert.Equal(t, "csv/output", cfg.OutputDir)
	assert.Equal(t, "config", cfg.ColumnConfigDir)
	assert.Equal(t, "null", cfg.OrphanPolicy)

	policy, err := cfg.Policy()
	require.NoError(t, err)
	assert.Equal(t, engine.NullOnOrphan, policy)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "remap.yaml")
	doc := `input_dir: /data/in
output_dir: /data/out
orphan_policy: drop
workers: 8
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/data/in", cfg.InputDir)
	assert.Equal(t, "/data/out", cfg.OutputDir)
	assert.Equal(t, 8, cfg.Workers)

	policy, err := cfg.Policy()
	require.NoError(t, err)
	assert.Equal(t, engine.DropOnOrphan, policy)
}

func TestEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "remap.yaml")
	require.NoError(t, os.WriteFile(path, []byte("orphan_policy: null\n"), 0o644))
	t.Setenv("REMAP_ORPHAN_POLICY", "strict")

	cfg, err := Load(path)
	require.NoError(t, err)

	policy, err := cfg.Policy()
	require.NoError(t, err)
	assert.Equal(t, engine.Strict, policy)
}

func TestLoadRejectsUnknownPolicy(t *testing.T) {
	t.Setenv("REMAP_ORPHAN_POLICY", "panic")

	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "orphan policy")
}
