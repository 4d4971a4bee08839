package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xvierd/lifegame-cli/internal/domain"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Log.Level != "warn" {
		t.Errorf("expected default log level 'warn', got %q", cfg.Log.Level)
	}
	if time.Duration(cfg.Board.ToastDuration) != 3*time.Second {
		t.Errorf("expected toast duration 3s, got %v", cfg.Board.ToastDuration)
	}
	if !cfg.Notifications.Enabled {
		t.Error("expected notifications enabled by default")
	}
}

func TestLoadFile_CreatesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.toml")

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.FileExists(t, path)

	home, err := os.UserHomeDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".lifegame"), cfg.Storage.DataDir)
	assert.Equal(t, filepath.Join(home, ".lifegame", "backups"), cfg.Backup.Dir)
	assert.Equal(t, filepath.Join(home, ".lifegame", DBFileName), GetDBPath(cfg))
	assert.Equal(t, DefaultThemeConfig(), cfg.Theme)

	catalog, err := cfg.Catalog()
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultCatalog(), catalog)
}

func TestLoadFile_ReadsValues(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	data := `
[storage]
data_dir = "` + filepath.ToSlash(dir) + `"

[log]
level = "debug"

[backup]
git = true

[board]
toast_duration = "5s"

[[store.items]]
name = "Café"
cost = 5

[[store.items]]
name = "Cine"
cost = 40
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.True(t, cfg.Backup.Git)
	assert.Equal(t, filepath.Join(dir, "backups"), cfg.Backup.Dir)
	assert.Equal(t, 5*time.Second, time.Duration(cfg.Board.ToastDuration))
	assert.Equal(t, "#667EEA", cfg.Theme.ColorPrimary)

	catalog, err := cfg.Catalog()
	require.NoError(t, err)
	assert.Equal(t, []domain.StoreItem{{Name: "Café", Cost: 5}, {Name: "Cine", Cost: 40}}, catalog)
}

func TestCatalog_RejectsInvalidItems(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Store.Items = []domain.StoreItem{{Name: "Gratis", Cost: 0}}

	_, err := cfg.Catalog()
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestSaveFile_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	cfg := DefaultConfig()
	cfg.Storage.DataDir = dir
	cfg.Notifications.Sound = true
	cfg.Store.Items = []domain.StoreItem{{Name: "Siesta", Cost: 15}}
	require.NoError(t, SaveFile(path, cfg))

	loaded, err := LoadFile(path)
	require.NoError(t, err)
	assert.True(t, loaded.Notifications.Sound)
	assert.Equal(t, dir, loaded.Storage.DataDir)
	require.Len(t, loaded.Store.Items, 1)
	assert.Equal(t, "Siesta", loaded.Store.Items[0].Name)
}
