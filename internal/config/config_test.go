package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/typewriter/internal/typewriter"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, typewriter.DefaultTypeDelay, cfg.TypeDelay)
	assert.Equal(t, typewriter.DefaultDeleteDelay, cfg.DeleteDelay)
	assert.Equal(t, typewriter.DefaultWaitDuration, cfg.Wait)
	assert.Empty(t, cfg.Journal)
}

func TestLoad_EmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestParse_OverridesAndIgnoresUnknownKeys(t *testing.T) {
	cfg, err := Parse([]byte(`
type_delay: 60ms
delete_delay: 20
journal: /tmp/tw.db
theme: dark
`))
	require.NoError(t, err)

	assert.Equal(t, 60*time.Millisecond, cfg.TypeDelay)
	assert.Equal(t, 20*time.Millisecond, cfg.DeleteDelay)
	assert.Equal(t, typewriter.DefaultWaitDuration, cfg.Wait, "unset keys keep defaults")
	assert.Equal(t, "/tmp/tw.db", cfg.Journal)
}

func TestParse_InvalidDuration(t *testing.T) {
	_, err := Parse([]byte("wait: forever\n"))
	assert.Error(t, err)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "typewriter.yaml")
	require.NoError(t, os.WriteFile(path, []byte("wait: 250ms\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 250*time.Millisecond, cfg.Wait)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, "j.db"), expandHome("~/j.db"))
	assert.Equal(t, "/abs/j.db", expandHome("/abs/j.db"))
	assert.Equal(t, "", expandHome(""))
}

func TestFind(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "b.yaml")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	got, err := Find(filepath.Join(dir, "a.yaml"), dir, path)
	require.NoError(t, err)
	assert.Equal(t, path, got)

	_, err = Find(filepath.Join(dir, "none.yaml"))
	assert.ErrorIs(t, err, ErrNoConfig)
}

func TestOptions(t *testing.T) {
	assert.Len(t, Default().Options(), 3)
}
