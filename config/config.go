package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is built once at startup and passed to every component that
// needs it. No package-level state.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Database DatabaseConfig `mapstructure:"database"`
	Device   DeviceConfig   `mapstructure:"device"`
	Vlan     VlanConfig     `mapstructure:"vlan"`
	Session  SessionConfig  `mapstructure:"session"`
}

type ServerConfig struct {
	Address  string `mapstructure:"address"`
	HTTPPort string `mapstructure:"http_port"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // "text" | "json"
	File   string `mapstructure:"file"`   // empty = stderr
}

type DatabaseConfig struct {
	Driver string `mapstructure:"driver"` // "mysql" | "postgres" | "sqlite"
	DSN    string `mapstructure:"dsn"`
}

// DeviceConfig describes the single managed switch.
type DeviceConfig struct {
	Platform string        `mapstructure:"platform"`
	Host     string        `mapstructure:"host"`
	Username string        `mapstructure:"username"`
	Password string        `mapstructure:"password"`
	Port     int           `mapstructure:"port"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

type VlanConfig struct {
	// DefaultExpiryHours applies when a create request sets auto_delete
	// without an explicit expiry_hours.
	DefaultExpiryHours int           `mapstructure:"default_expiry_hours"`
	SweepInterval      time.Duration `mapstructure:"sweep_interval"`
}

type SessionConfig struct {
	TTL             time.Duration `mapstructure:"ttl"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
}

// Load reads vlanman.yaml (from path, or the working directory and /etc/vlanman)
// with VLANMAN_* environment overrides.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("vlanman")
	v.SetConfigType("yaml")
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/vlanman")
	}

	v.SetEnvPrefix("VLANMAN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		// config file is optional, env + defaults are enough
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.address", "0.0.0.0")
	v.SetDefault("server.http_port", "8080")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "vlanman.db")

	v.SetDefault("device.platform", "cisco_nxos")
	v.SetDefault("device.host", "sbx-nxos-mgmt.cisco.com")
	v.SetDefault("device.username", "admin")
	v.SetDefault("device.port", 22)
	v.SetDefault("device.timeout", 30*time.Second)

	v.SetDefault("vlan.default_expiry_hours", 24)
	v.SetDefault("vlan.sweep_interval", 5*time.Minute)

	v.SetDefault("session.ttl", 2*time.Hour)
	v.SetDefault("session.cleanup_interval", 30*time.Minute)
}
