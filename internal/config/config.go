// Package config loads the server configuration from a JSON file and lets
// a few environment variables override it.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

type Duration struct{ time.Duration }

// [Duration] implements [json.Marshaler]
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Duration) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch value := v.(type) {
	case float64:
		d.Duration = time.Duration(value)
		return nil
	case string:
		var err error
		d.Duration, err = time.ParseDuration(value)
		if err != nil {
			return err
		}
		return nil

	default:
		return errors.New("invalid duration")
	}
}

type LogConfig struct {
	Level      string `json:"level"`
	File       string `json:"file"`
	MaxSize    int    `json:"max_size"` // megabytes
	MaxBackups int    `json:"max_backups"`
	MaxAge     int    `json:"max_age"` // days
}

type Config struct {
	Mode            string    `json:"mode"`
	Addr            string    `json:"addr"`
	BasePath        string    `json:"base_path"`
	Storage         string    `json:"storage"`
	Database        Database  `json:"database"`
	Log             LogConfig `json:"log"`
	AllowedOrigins  []string  `json:"allowed_origins"`
	ShutdownTimeout Duration  `json:"shutdown_timeout"`
}

const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

func Default() Config {
	return Config{
		Mode:    "production",
		Addr:    ":8080",
		Storage: StoragePostgres,
		Database: Database{
			Host:    "localhost",
			Port:    5432,
			SSLMode: "disable",
		},
		Log: LogConfig{
			Level:      "info",
			MaxSize:    50,
			MaxBackups: 3,
			MaxAge:     28,
		},
		ShutdownTimeout: Duration{30 * time.Second},
	}
}

// Read loads the config at path on top of [Default] and applies
// environment overrides. An empty path skips the file.
func Read(path string) (*Config, error) {
	config := Default()
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(b, &config); err != nil {
			return nil, fmt.Errorf("unable to parse config %s: %w", path, err)
		}
	}
	if err := config.applyEnv(); err != nil {
		return nil, err
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

func (c *Config) applyEnv() error {
	if addr, ok := os.LookupEnv("APP_ADDR"); ok {
		c.Addr = addr
	}
	if basePath, ok := os.LookupEnv("APP_BASE_PATH"); ok {
		c.BasePath = basePath
	}
	if dbURL, ok := os.LookupEnv("DATABASE_URL"); ok {
		c.Database.URL = dbURL
	}
	if development, ok := os.LookupEnv("DEVELOPMENT"); ok && development != "0" {
		c.Mode = "development"
	}
	if level, ok := os.LookupEnv("LOG_LEVEL"); ok {
		c.Log.Level = level
	}
	if c.Database.Password == "" && c.Storage == StoragePostgres && c.Database.URL == "" {
		password, err := loadPassword()
		if err != nil {
			return fmt.Errorf("unable to load password: %w", err)
		}
		c.Database.Password = password
	}
	return nil
}

func (c Config) Validate() error {
	switch c.Storage {
	case StoragePostgres, StorageMemory:
	default:
		return fmt.Errorf("unknown storage %q", c.Storage)
	}
	if _, err := c.LogLevel(); err != nil {
		return err
	}
	if c.BasePath != "" && (!strings.HasPrefix(c.BasePath, "/") || strings.HasSuffix(c.BasePath, "/")) {
		return fmt.Errorf("base path %q must start and not end with a slash", c.BasePath)
	}
	return nil
}

func (c Config) Production() bool {
	return c.Mode == "production"
}

func (c Config) Development() bool {
	return c.Mode != "production"
}

// LogLevel is the configured level, lowered to debug in development.
func (c Config) LogLevel() (logrus.Level, error) {
	level, err := logrus.ParseLevel(c.Log.Level)
	if err != nil {
		return level, err
	}
	if c.Development() && level < logrus.DebugLevel {
		level = logrus.DebugLevel
	}
	return level, nil
}

func (c Config) Fields() logrus.Fields {
	return map[string]any{
		"mode":             c.Mode,
		"addr":             c.Addr,
		"base_path":        c.BasePath,
		"storage":          c.Storage,
		"pg_host":          c.Database.Host,
		"pg_port":          c.Database.Port,
		"pg_user":          c.Database.Username,
		"pg_db_name":       c.Database.DBName,
		"pg_url_set":       c.Database.URL != "",
		"log_level":        c.Log.Level,
		"log_file":         c.Log.File,
		"allowed_origins":  c.AllowedOrigins,
		"shutdown_timeout": c.ShutdownTimeout.String(),
	}
}
