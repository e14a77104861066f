package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigExplicit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tagcheck.toml")
	require.NoError(t, os.WriteFile(path, []byte("abstol = 1.0e-6\ndb = \"/var/lib/tagcheck.db\"\n"), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 1.0e-6, cfg.AbsTol)
	assert.Equal(t, "/var/lib/tagcheck.db", cfg.DB)
}

func TestLoadConfigExplicitMissingIsError(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}

func TestLoadConfigDefaultMissingIsZero(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, Config{}, cfg)
}

func TestLoadConfigBadTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tagcheck.toml")
	require.NoError(t, os.WriteFile(path, []byte("abstol = [not toml"), 0o644))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestDBPathPrecedence(t *testing.T) {
	cfg := Config{DB: "from-config.db"}

	assert.Equal(t, "from-flag.db", cfg.DBPath("from-flag.db"))
	assert.Equal(t, "from-config.db", cfg.DBPath(""))
	assert.Equal(t, defaultDBPath, Config{}.DBPath(""))
}

func TestTolerancePrecedence(t *testing.T) {
	cfg := Config{AbsTol: 1.0e-6}

	assert.Equal(t, 0.5, cfg.Tolerance(0.5))
	assert.Equal(t, 0.0, cfg.Tolerance(0), "zero is an explicit flag value")
	assert.Equal(t, 1.0e-6, cfg.Tolerance(-1))
	assert.Equal(t, 1e-10, Config{}.Tolerance(-1))
}
