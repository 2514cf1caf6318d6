package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Database DatabaseConfig
	Storage  StorageConfig
	UI       UIConfig
	Log      LogConfig
	Metrics  MetricsConfig
}

// DatabaseConfig holds sqlite settings.
type DatabaseConfig struct {
	Path string
}

// StorageConfig selects where user selections are persisted.
// Backend is "sqlite" (default) or "file"; Dir is only read by the file backend.
type StorageConfig struct {
	Backend string
	Dir     string
}

// UIConfig holds presentation settings.
type UIConfig struct {
	DateFormat   string `mapstructure:"date_format"`
	Timezone     string
	ToastSeconds int `mapstructure:"toast_seconds"`
}

// LogConfig holds diagnostic log settings.
type LogConfig struct {
	Level  string
	Format string
	Path   string
}

// MetricsConfig holds the prometheus listener. Empty Listen disables it.
type MetricsConfig struct {
	Listen string
}

const (
	BackendSQLite = "sqlite"
	BackendFile   = "file"
)

// Load reads configuration from file and env. Env var overrides use prefix STOCKCHECK_.
// path overrides both $STOCKCHECK_CONFIG and the default location when non-empty.
func Load(path string) (Config, error) {
	v := viper.New()

	home := os.Getenv("HOME")
	v.SetDefault("database.path", filepath.Join(home, ".local", "share", "stockcheck", "stockcheck.db"))
	v.SetDefault("storage.backend", BackendSQLite)
	v.SetDefault("storage.dir", filepath.Join(home, ".local", "share", "stockcheck", "selections"))
	v.SetDefault("ui.date_format", "02/01/2006")
	v.SetDefault("ui.timezone", "America/Sao_Paulo")
	v.SetDefault("ui.toast_seconds", 3)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("log.path", filepath.Join(home, ".local", "state", "stockcheck", "stockcheck.log"))
	v.SetDefault("metrics.listen", "")

	v.SetConfigType("toml")

	if path == "" {
		path = os.Getenv("STOCKCHECK_CONFIG")
	}
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(filepath.Join(home, ".config", "stockcheck"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("STOCKCHECK")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// a missing file is fine, a broken one is not
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		// SetConfigFile with a path that does not exist yields a plain fs error
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	c.Storage.Backend = strings.ToLower(strings.TrimSpace(c.Storage.Backend))
	switch c.Storage.Backend {
	case BackendSQLite, BackendFile:
	default:
		return Config{}, fmt.Errorf("unknown storage backend %q", c.Storage.Backend)
	}
	if c.UI.ToastSeconds <= 0 {
		c.UI.ToastSeconds = 3
	}
	return c, nil
}

// Save writes the provided config to path (or the default location), creating the
// config directory if needed.
func Save(path string, cfg Config) error {
	if path == "" {
		path = os.Getenv("STOCKCHECK_CONFIG")
	}
	if path == "" {
		path = filepath.Join(os.Getenv("HOME"), ".config", "stockcheck", "config.toml")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("database.path", cfg.Database.Path)
	v.Set("storage.backend", cfg.Storage.Backend)
	v.Set("storage.dir", cfg.Storage.Dir)
	v.Set("ui.date_format", cfg.UI.DateFormat)
	v.Set("ui.timezone", cfg.UI.Timezone)
	v.Set("ui.toast_seconds", cfg.UI.ToastSeconds)
	v.Set("log.level", cfg.Log.Level)
	v.Set("log.format", cfg.Log.Format)
	v.Set("log.path", cfg.Log.Path)
	v.Set("metrics.listen", cfg.Metrics.Listen)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
