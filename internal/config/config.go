// Package config loads wodplus settings from YAML and the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"gopkg.in/yaml.v3"
)

// Transport modes for the MCP server.
const (
	ModeStdio = "stdio"
	ModeHTTP  = "http"
)

// Config defines application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Transport TransportConfig `yaml:"transport"`
	DB        DBConfig        `yaml:"db"`
	Log       LogConfig       `yaml:"log"`
	Fetch     FetchConfig     `yaml:"fetch"`
	Notify    NotifyConfig    `yaml:"notify"`
	Reminder  ReminderConfig  `yaml:"reminder"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type TransportConfig struct {
	Mode string `yaml:"mode"`
}

type DBConfig struct {
	Path string `yaml:"path"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	// Path is an optional log file; empty logs to stderr only.
	Path      string `yaml:"path"`
	MaxSizeMB int    `yaml:"max_size_mb"`
}

// FetchConfig describes how to obtain the raw scraper output.
type FetchConfig struct {
	Command []string      `yaml:"command"`
	Timeout time.Duration `yaml:"timeout"`
}

// NotifyConfig selects reminder delivery. An empty command logs reminders.
type NotifyConfig struct {
	Command []string `yaml:"command"`
}

type ReminderConfig struct {
	LeadMinutes int    `yaml:"lead_minutes"`
	Timezone    string `yaml:"timezone"`
}

// Default returns the configuration used when nothing is overridden.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Host: "127.0.0.1",
			Port: 8080,
		},
		Transport: TransportConfig{
			Mode: ModeStdio,
		},
		DB: DBConfig{
			Path: "wodplus.db",
		},
		Log: LogConfig{
			Level:     "info",
			MaxSizeMB: 10,
		},
		Fetch: FetchConfig{
			Timeout: 60 * time.Second,
		},
		Reminder: ReminderConfig{
			LeadMinutes: 60,
		},
	}
}

// Load reads configuration from the YAML file at path, falling back to
// WODPLUS_CONFIG_PATH when path is empty, then applies WODPLUS_* overrides.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv("WODPLUS_CONFIG_PATH")
	}
	if path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks values that would otherwise fail late.
func (c Config) Validate() error {
	switch c.Transport.Mode {
	case ModeStdio, ModeHTTP:
	default:
		return fmt.Errorf("invalid transport mode %q", c.Transport.Mode)
	}
	if c.Reminder.LeadMinutes < 0 {
		return fmt.Errorf("invalid reminder lead minutes %d", c.Reminder.LeadMinutes)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location returns the zone activity times are interpreted in.
func (c Config) Location() (*time.Location, error) {
	if c.Reminder.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Reminder.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid reminder timezone: %w", err)
	}
	return loc, nil
}

func applyEnv(cfg *Config) error {
	if host := os.Getenv("WODPLUS_SERVER_HOST"); host != "" {
		cfg.Server.Host = host
	}
	if portStr := os.Getenv("WODPLUS_SERVER_PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return fmt.Errorf("invalid WODPLUS_SERVER_PORT: %w", err)
		}
		cfg.Server.Port = port
	}
	if mode := os.Getenv("WODPLUS_TRANSPORT_MODE"); mode != "" {
		cfg.Transport.Mode = strings.ToLower(mode)
	}
	if dbPath := os.Getenv("WODPLUS_DB_PATH"); dbPath != "" {
		cfg.DB.Path = dbPath
	}
	if level := os.Getenv("WODPLUS_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}
	if logPath := os.Getenv("WODPLUS_LOG_PATH"); logPath != "" {
		cfg.Log.Path = logPath
	}
	if cmd := os.Getenv("WODPLUS_FETCH_COMMAND"); cmd != "" {
		cfg.Fetch.Command = strings.Fields(cmd)
	}
	if timeout := os.Getenv("WODPLUS_FETCH_TIMEOUT"); timeout != "" {
		d, err := time.ParseDuration(timeout)
		if err != nil {
			return fmt.Errorf("invalid WODPLUS_FETCH_TIMEOUT: %w", err)
		}
		cfg.Fetch.Timeout = d
	}
	if cmd := os.Getenv("WODPLUS_NOTIFY_COMMAND"); cmd != "" {
		cfg.Notify.Command = strings.Fields(cmd)
	}
	if lead := os.Getenv("WODPLUS_REMINDER_LEAD_MINUTES"); lead != "" {
		n, err := strconv.Atoi(lead)
		if err != nil {
			return fmt.Errorf("invalid WODPLUS_REMINDER_LEAD_MINUTES: %w", err)
		}
		cfg.Reminder.LeadMinutes = n
	}
	if tz := os.Getenv("WODPLUS_REMINDER_TIMEZONE"); tz != "" {
		cfg.Reminder.Timezone = tz
	}
	return nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}
