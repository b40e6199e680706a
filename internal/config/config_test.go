package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultPopulatesConstants(t *testing.T) {
	cfg := Default("/repo")
	assert.Equal(t, "/repo", cfg.Root)
	assert.NotZero(t, cfg.BloomPrimaryBits)
	assert.NotZero(t, cfg.WorkerThreadCap)
	assert.NotZero(t, cfg.BatchThreshold)
}

func TestBatchIntervalConversion(t *testing.T) {
	cfg := Default("/repo")
	cfg.BatchIntervalSecs = 45
	assert.Equal(t, 45_000_000_000, int(cfg.BatchInterval()))
}

func TestWatchDebounceConversion(t *testing.T) {
	cfg := Default("/repo")
	cfg.WatchDebounceMillis = 500
	assert.Equal(t, 500_000_000, int(cfg.WatchDebounce()))
}

func TestLoadMissingFileFallsBackToDefault(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Load(filepath.Join(dir, ".qfind.kdl"))
	require.NoError(t, err)
	assert.Equal(t, dir, cfg.Root)
}

func TestLoadFromRootMissingFile(t *testing.T) {
	dir := t.TempDir()
	cfg, err := LoadFromRoot(dir)
	require.NoError(t, err)
	assert.Equal(t, dir, cfg.Root)
}

func TestLoadFromRootMergesGitignoreIntoExclude(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".gitignore"), []byte("node_modules/\n*.log\n"), 0o644))

	cfg, err := LoadFromRoot(dir)
	require.NoError(t, err)
	assert.Contains(t, cfg.Exclude, "**/.git/**")
	assert.Contains(t, cfg.Exclude, "**/node_modules/**")
	assert.Contains(t, cfg.Exclude, "**/*.log")
}

func TestLoadFromRootNoGitignoreLeavesDefaultExclude(t *testing.T) {
	dir := t.TempDir()
	cfg, err := LoadFromRoot(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"**/.git/**"}, cfg.Exclude)
}
