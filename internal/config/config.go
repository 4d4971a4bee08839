// Package config provides configuration management for lifegame.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
	"github.com/xvierd/lifegame-cli/internal/domain"
)

const (
	// DefaultDataDir is where the database, config and backups live.
	DefaultDataDir = "~/.lifegame"

	// DBFileName is the database file inside the data directory.
	DBFileName = "lifegame.db"

	configFileName = "config.toml"
)

// Config holds all configuration for the lifegame application.
type Config struct {
	Storage       StorageConfig      `mapstructure:"storage"`
	Notifications NotificationConfig `mapstructure:"notifications"`
	Log           LogConfig          `mapstructure:"log"`
	Backup        BackupConfig       `mapstructure:"backup"`
	Store         StoreConfig        `mapstructure:"store"`
	Board         BoardConfig        `mapstructure:"board"`
	Theme         ThemeConfig        `mapstructure:"theme"`
}

// ThemeConfig holds theme customization settings (colors and icons).
type ThemeConfig struct {
	ColorPrimary       string `mapstructure:"color_primary"`
	ColorAccent        string `mapstructure:"color_accent"`
	ColorSuccess       string `mapstructure:"color_success"`
	ColorWarning       string `mapstructure:"color_warning"`
	ColorError         string `mapstructure:"color_error"`
	ColorTitle         string `mapstructure:"color_title"`
	ColorTask          string `mapstructure:"color_task"`
	ColorDone          string `mapstructure:"color_done"`
	ColorHelp          string `mapstructure:"color_help"`
	XPGradientStart    string `mapstructure:"xp_gradient_start"`
	XPGradientEnd      string `mapstructure:"xp_gradient_end"`
	DailyGradientStart string `mapstructure:"daily_gradient_start"`
	DailyGradientEnd   string `mapstructure:"daily_gradient_end"`
	IconApp            string `mapstructure:"icon_app"`
	IconPoints         string `mapstructure:"icon_points"`
	IconLevel          string `mapstructure:"icon_level"`
	IconStore          string `mapstructure:"icon_store"`
	IconCalendar       string `mapstructure:"icon_calendar"`
	IconMeal           string `mapstructure:"icon_meal"`
	IconDone           string `mapstructure:"icon_done"`
}

// DefaultThemeConfig returns the default theme configuration.
func DefaultThemeConfig() ThemeConfig {
	return ThemeConfig{
		ColorPrimary:       "#667EEA",
		ColorAccent:        "#764BA2",
		ColorSuccess:       "#2ECC71",
		ColorWarning:       "#FEE140",
		ColorError:         "#F5576C",
		ColorTitle:         "#6B7280",
		ColorTask:          "#A0AEC0",
		ColorDone:          "#4B5563",
		ColorHelp:          "#95A5A6",
		XPGradientStart:    "#667EEA",
		XPGradientEnd:      "#764BA2",
		DailyGradientStart: "#4FACFE",
		DailyGradientEnd:   "#00F2FE",
		IconApp:            "🎮",
		IconPoints:         "💰",
		IconLevel:          "⭐",
		IconStore:          "🛒",
		IconCalendar:       "📅",
		IconMeal:           "🍽️",
		IconDone:           "✓",
	}
}

// NotificationConfig holds desktop notification settings.
type NotificationConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Sound   bool `mapstructure:"sound"`
}

// LogConfig holds diagnostic logging settings.
type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

// BackupConfig holds export settings.
type BackupConfig struct {
	Dir string `mapstructure:"dir"`
	Git bool   `mapstructure:"git"`
}

// StoreConfig holds the reward catalog. An empty list means the built-in one.
type StoreConfig struct {
	Items []domain.StoreItem `mapstructure:"items"`
}

// BoardConfig holds interactive board settings.
type BoardConfig struct {
	ToastDuration Duration `mapstructure:"toast_duration"`
}

// StorageConfig holds storage settings.
type StorageConfig struct {
	DataDir string `mapstructure:"data_dir"`
}

// Duration is a wrapper around time.Duration for TOML parsing.
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	duration, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(duration)
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// String returns the string representation of the duration.
func (d Duration) String() string {
	return time.Duration(d).String()
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Storage: StorageConfig{
			DataDir: DefaultDataDir,
		},
		Notifications: NotificationConfig{
			Enabled: true,
			Sound:   false,
		},
		Log: LogConfig{
			Level: "warn",
		},
		Backup: BackupConfig{
			Git: false,
		},
		Board: BoardConfig{
			ToastDuration: Duration(3 * time.Second),
		},
		Theme: DefaultThemeConfig(),
	}
}

// Load loads the configuration from the default config file, creating it
// with defaults when it does not exist yet.
func Load() (*Config, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return nil, fmt.Errorf("failed to get config path: %w", err)
	}
	return LoadFile(configPath)
}

// LoadFile loads the configuration from configPath, creating it with
// defaults when it does not exist yet.
func LoadFile(configPath string) (*Config, error) {
	// Ensure config directory exists
	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("toml")

	setDefaults(v)

	// If config file doesn't exist, create it with defaults
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if err := SaveFile(configPath, DefaultConfig()); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	hook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.TextUnmarshallerHookFunc(),
		mapstructure.StringToTimeDurationHookFunc(),
	))
	if err := v.Unmarshal(&cfg, hook); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.ResolvePaths(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ResolvePaths expands ~ and fills the directories derived from the data dir.
func (c *Config) ResolvePaths() error {
	dataDir, err := expandHome(c.Storage.DataDir)
	if err != nil {
		return err
	}
	if dataDir == "" {
		if dataDir, err = expandHome(DefaultDataDir); err != nil {
			return err
		}
	}
	c.Storage.DataDir = dataDir

	backupDir, err := expandHome(c.Backup.Dir)
	if err != nil {
		return err
	}
	if backupDir == "" {
		backupDir = filepath.Join(dataDir, "backups")
	}
	c.Backup.Dir = backupDir

	if c.Log.File, err = expandHome(c.Log.File); err != nil {
		return err
	}
	return nil
}

func expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, strings.TrimPrefix(path, "~")), nil
}

// Save saves the configuration to the default config file.
func Save(cfg *Config) error {
	configPath, err := GetConfigPath()
	if err != nil {
		return fmt.Errorf("failed to get config path: %w", err)
	}
	return SaveFile(configPath, cfg)
}

// SaveFile writes cfg to configPath as TOML.
func SaveFile(configPath string, cfg *Config) error {
	// Ensure config directory exists
	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("toml")

	v.Set("storage.data_dir", cfg.Storage.DataDir)
	v.Set("notifications.enabled", cfg.Notifications.Enabled)
	v.Set("notifications.sound", cfg.Notifications.Sound)
	v.Set("log.level", cfg.Log.Level)
	v.Set("log.file", cfg.Log.File)
	v.Set("backup.dir", cfg.Backup.Dir)
	v.Set("backup.git", cfg.Backup.Git)
	v.Set("board.toast_duration", cfg.Board.ToastDuration.String())

	if len(cfg.Store.Items) > 0 {
		items := make([]map[string]interface{}, len(cfg.Store.Items))
		for i, item := range cfg.Store.Items {
			items[i] = map[string]interface{}{"name": item.Name, "cost": item.Cost}
		}
		v.Set("store.items", items)
	}

	t := cfg.Theme
	v.Set("theme.color_primary", t.ColorPrimary)
	v.Set("theme.color_accent", t.ColorAccent)
	v.Set("theme.color_success", t.ColorSuccess)
	v.Set("theme.color_warning", t.ColorWarning)
	v.Set("theme.color_error", t.ColorError)
	v.Set("theme.color_title", t.ColorTitle)
	v.Set("theme.color_task", t.ColorTask)
	v.Set("theme.color_done", t.ColorDone)
	v.Set("theme.color_help", t.ColorHelp)
	v.Set("theme.xp_gradient_start", t.XPGradientStart)
	v.Set("theme.xp_gradient_end", t.XPGradientEnd)
	v.Set("theme.daily_gradient_start", t.DailyGradientStart)
	v.Set("theme.daily_gradient_end", t.DailyGradientEnd)
	v.Set("theme.icon_app", t.IconApp)
	v.Set("theme.icon_points", t.IconPoints)
	v.Set("theme.icon_level", t.IconLevel)
	v.Set("theme.icon_store", t.IconStore)
	v.Set("theme.icon_calendar", t.IconCalendar)
	v.Set("theme.icon_meal", t.IconMeal)
	v.Set("theme.icon_done", t.IconDone)

	return v.WriteConfig()
}

// Catalog returns the validated reward catalog, or the built-in one when
// none is configured.
func (c *Config) Catalog() ([]domain.StoreItem, error) {
	if len(c.Store.Items) == 0 {
		return domain.DefaultCatalog(), nil
	}

	items := make([]domain.StoreItem, 0, len(c.Store.Items))
	for _, raw := range c.Store.Items {
		item, err := domain.NewStoreItem(raw.Name, raw.Cost)
		if err != nil {
			return nil, fmt.Errorf("invalid store item in config: %w", err)
		}
		items = append(items, item)
	}
	return items, nil
}

// GetConfigPath returns the path to the config file.
func GetConfigPath() (string, error) {
	dir, err := expandHome(DefaultDataDir)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFileName), nil
}

// GetDBPath returns the path to the database file.
func GetDBPath(cfg *Config) string {
	return filepath.Join(cfg.Storage.DataDir, DBFileName)
}

// setDefaults sets default values for viper.
func setDefaults(v *viper.Viper) {
	defaults := DefaultConfig()
	v.SetDefault("storage.data_dir", defaults.Storage.DataDir)
	v.SetDefault("notifications.enabled", defaults.Notifications.Enabled)
	v.SetDefault("notifications.sound", defaults.Notifications.Sound)
	v.SetDefault("log.level", defaults.Log.Level)
	v.SetDefault("log.file", "")
	v.SetDefault("backup.dir", "")
	v.SetDefault("backup.git", defaults.Backup.Git)
	v.SetDefault("board.toast_duration", defaults.Board.ToastDuration.String())

	// Theme defaults
	t := defaults.Theme
	v.SetDefault("theme.color_primary", t.ColorPrimary)
	v.SetDefault("theme.color_accent", t.ColorAccent)
	v.SetDefault("theme.color_success", t.ColorSuccess)
	v.SetDefault("theme.color_warning", t.ColorWarning)
	v.SetDefault("theme.color_error", t.ColorError)
	v.SetDefault("theme.color_title", t.ColorTitle)
	v.SetDefault("theme.color_task", t.ColorTask)
	v.SetDefault("theme.color_done", t.ColorDone)
	v.SetDefault("theme.color_help", t.ColorHelp)
	v.SetDefault("theme.xp_gradient_start", t.XPGradientStart)
	v.SetDefault("theme.xp_gradient_end", t.XPGradientEnd)
	v.SetDefault("theme.daily_gradient_start", t.DailyGradientStart)
	v.SetDefault("theme.daily_gradient_end", t.DailyGradientEnd)
	v.SetDefault("theme.icon_app", t.IconApp)
	v.SetDefault("theme.icon_points", t.IconPoints)
	v.SetDefault("theme.icon_level", t.IconLevel)
	v.SetDefault("theme.icon_store", t.IconStore)
	v.SetDefault("theme.icon_calendar", t.IconCalendar)
	v.SetDefault("theme.icon_meal", t.IconMeal)
	v.SetDefault("theme.icon_done", t.IconDone)
}
