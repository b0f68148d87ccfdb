package model

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// DatabaseConfig selects the SQL backend.
type DatabaseConfig struct {
	// Driver is "sqlite" or "postgres".
	Driver string `mapstructure:"driver" yaml:"driver"`

	// DSN is a file path for sqlite or a connection URL for postgres.
	DSN string `mapstructure:"dsn" yaml:"dsn"`
}

// CalendarConfig holds the regional timezone used for day keys.
type CalendarConfig struct {
	Timezone string `mapstructure:"timezone" yaml:"timezone"`
}

// ArchiveConfig tunes the archive transition.
type ArchiveConfig struct {
	// Concurrency is the number of tasks moved in parallel; 1 is sequential.
	Concurrency int `mapstructure:"concurrency" yaml:"concurrency"`
}

// ServerConfig holds HTTP API settings.
type ServerConfig struct {
	Addr        string   `mapstructure:"addr" yaml:"addr"`
	CORSOrigins []string `mapstructure:"cors_origins" yaml:"cors_origins"`
}

// AuthConfig selects how Bearer tokens map to owners.
type AuthConfig struct {
	// Mode is "static" or "firebase".
	Mode string `mapstructure:"mode" yaml:"mode"`

	// FirebaseCredentials is the service-account JSON file used in firebase mode.
	FirebaseCredentials string `mapstructure:"firebase_credentials" yaml:"firebase_credentials"`

	// StaticTokens maps bearer tokens to owner ids in static mode.
	StaticTokens map[string]string `mapstructure:"static_tokens" yaml:"static_tokens"`
}

// LogConfig controls the slog handler.
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	Owner    string         `mapstructure:"owner" yaml:"owner"`
	Database DatabaseConfig `mapstructure:"database" yaml:"database"`
	Calendar CalendarConfig `mapstructure:"calendar" yaml:"calendar"`
	Archive  ArchiveConfig  `mapstructure:"archive" yaml:"archive"`
	Server   ServerConfig   `mapstructure:"server" yaml:"server"`
	Auth     AuthConfig     `mapstructure:"auth" yaml:"auth"`
	Log      LogConfig      `mapstructure:"log" yaml:"log"`
}

// configDir returns ~/.config/taskdesk, or the working directory if the
// home directory cannot be determined.
func configDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "taskdesk")
}

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/taskdesk/config.yaml.
func DefaultConfigPath() string {
	return filepath.Join(configDir(), "config.yaml")
}

// DefaultDatabasePath returns the default SQLite database location.
func DefaultDatabasePath() string {
	return filepath.Join(configDir(), "taskdesk.db")
}

// DefaultAppConfig returns a sensible default configuration.
func DefaultAppConfig() *AppConfig {
	return &AppConfig{
		Database: DatabaseConfig{
			Driver: "sqlite",
			DSN:    DefaultDatabasePath(),
		},
		Calendar: CalendarConfig{Timezone: "Asia/Kolkata"},
		Archive:  ArchiveConfig{Concurrency: 1},
		Server: ServerConfig{
			Addr:        ":8080",
			CORSOrigins: []string{"*"},
		},
		Auth: AuthConfig{
			Mode:         "static",
			StaticTokens: map[string]string{},
		},
		Log: LogConfig{Level: "info", Format: "text"},
	}
}

func setDefaults(v *viper.Viper) {
	d := DefaultAppConfig()
	v.SetDefault("owner", d.Owner)
	v.SetDefault("database.driver", d.Database.Driver)
	v.SetDefault("database.dsn", d.Database.DSN)
	v.SetDefault("calendar.timezone", d.Calendar.Timezone)
	v.SetDefault("archive.concurrency", d.Archive.Concurrency)
	v.SetDefault("server.addr", d.Server.Addr)
	v.SetDefault("server.cors_origins", d.Server.CORSOrigins)
	v.SetDefault("auth.mode", d.Auth.Mode)
	v.SetDefault("auth.firebase_credentials", d.Auth.FirebaseCredentials)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
}

// LoadConfig reads configuration from the given YAML file path using Viper.
// Environment variables prefixed with TASKDESK_ override file values
// (e.g. TASKDESK_DATABASE_DSN). A missing file yields the defaults.
func LoadConfig(path string) (*AppConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("taskdesk")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var pathErr *os.PathError
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &pathErr) && !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	cfg := DefaultAppConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if cfg.Archive.Concurrency < 1 {
		cfg.Archive.Concurrency = 1
	}
	if cfg.Auth.StaticTokens == nil {
		cfg.Auth.StaticTokens = map[string]string{}
	}

	return cfg, nil
}

// SaveConfig writes the given configuration to a YAML file at path,
// creating parent directories if needed.
func SaveConfig(path string, cfg *AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("owner", cfg.Owner)
	v.Set("database", cfg.Database)
	v.Set("calendar", cfg.Calendar)
	v.Set("archive", cfg.Archive)
	v.Set("server", cfg.Server)
	v.Set("auth", cfg.Auth)
	v.Set("log", cfg.Log)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}
