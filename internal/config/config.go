package config

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/viper"
)

type RBACConfig struct {
	PolicyFile string   `mapstructure:"policy_file"` // Path to the operator RBAC policy file
	Admins     []string `mapstructure:"admins"`      // List of admin emails
}

// AlertConfig controls security alert emails, sent when a BLOCKED or LOST
// card is presented at a reader.
type AlertConfig struct {
	Enabled    bool     `mapstructure:"enabled"`
	Recipients []string `mapstructure:"recipients"`

	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
}

type Config struct {
	// Secret key for signing operator tokens. Must be set in production.
	Secret string `mapstructure:"secret"`
	// TTL for operator tokens in minutes
	TokenTTL uint `mapstructure:"token_ttl"`

	LogLevel string `mapstructure:"log_level"`

	// Listen address for the HTTP server
	ListenAddr string `mapstructure:"listen_addr"`

	// Comma separated list of allowed CIDR networks for the management API.
	// Empty means allow all.
	AllowedNetworks string `mapstructure:"allowed_networks"`

	RBAC RBACConfig `mapstructure:"rbac"`

	Storage Storage `mapstructure:"storage"`

	Alerts AlertConfig `mapstructure:"alerts"`
}

var Cfg *Config

// Check if running in Docker container by checking for the presence of /.dockerenv file
func runningInDocker() bool {
	if _, err := os.Stat("/.dockerenv"); err == nil {
		return true
	}
	return false
}

func getConfigPath() string {
	if runningInDocker() {
		return "/app/instance"
	}
	return "./instance"
}

// LoadConfig reads configuration from config files and environment variables.
func LoadConfig(configFile ...string) (*Config, error) {
	var cfg Config

	v := viper.New()
	v.SetConfigName("config")
	v.AddConfigPath(getConfigPath())
	v.AddConfigPath(".")
	v.SetEnvPrefix("")

	if len(configFile) > 0 {
		for _, path := range configFile {
			v.SetConfigFile(path)
		}
	}

	for k, val := range Defaults() {
		v.SetDefault(k, val)
	}

	// Load configuration from environment variables
	v.AutomaticEnv()

	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %v", err)
	}

	// Convert relative sqlite path to absolute instance folder
	if cfg.Storage.SQLite != nil {
		if cfg.Storage.SQLite.Path == ":memory:" {
			// In-memory database, do nothing
		} else if !os.IsPathSeparator(cfg.Storage.SQLite.Path[0]) {
			cfg.Storage.SQLite.Path = fmt.Sprintf("%s/%s", getConfigPath(), cfg.Storage.SQLite.Path)
		}
	}

	// Warn if secret is missing - this is a critical security setting for production
	if cfg.Secret == "" {
		if os.Getenv("GIN_MODE") == "release" {
			panic("SECRET configuration variable is required in production")
		} else {
			slog.Warn("Secret is not set. Do not use in production.")
		}
	}

	return &cfg, nil
}
