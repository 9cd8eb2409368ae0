// Package config loads settings from flags, environment and a YAML file.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/mcoot/puzzleboard/internal/services/extractor"
	"github.com/mcoot/puzzleboard/internal/services/ranking"
)

// EnvPrefix prefixes every environment variable, e.g. PUZZLEBOARD_REDIS_URL
const EnvPrefix = "PUZZLEBOARD"

// Storage backends
const (
	StorageMemory   = "memory"
	StorageRedis    = "redis"
	StoragePostgres = "postgres"
)

// Config is the complete application configuration
type Config struct {
	// Input
	Input          string   `mapstructure:"input" yaml:"input"`
	Day            string   `mapstructure:"day" yaml:"day"`
	DateOrder      string   `mapstructure:"date_order" yaml:"date_order"`
	Timezone       string   `mapstructure:"timezone" yaml:"timezone"`
	TiePolicy      string   `mapstructure:"tie_policy" yaml:"tie_policy"`
	ExcludeSenders []string `mapstructure:"exclude_senders" yaml:"exclude_senders"`

	// Storage
	Storage     string `mapstructure:"storage" yaml:"storage"`
	RedisURL    string `mapstructure:"redis_url" yaml:"redis_url"`
	PostgresDSN string `mapstructure:"postgres_dsn" yaml:"postgres_dsn"`

	// Server
	Host          string `mapstructure:"host" yaml:"host"`
	Port          int    `mapstructure:"port" yaml:"port"`
	UploadKeyHash string `mapstructure:"upload_key_hash" yaml:"upload_key_hash"`
	StaticDir     string `mapstructure:"static_dir" yaml:"static_dir"`

	// Remote client
	ServerURL string `mapstructure:"server_url" yaml:"server_url"`
	UploadKey string `mapstructure:"upload_key" yaml:"upload_key"`

	LogLevel string `mapstructure:"log_level" yaml:"log_level"`
}

// Default returns the configuration used when nothing is set
func Default() Config {
	return Config{
		DateOrder:      string(extractor.DayMonthYear),
		Timezone:       "UTC",
		TiePolicy:      string(ranking.TieSplit),
		ExcludeSenders: []string{"X - Games (Nazionale di Zip)"},
		Storage:        StorageMemory,
		RedisURL:       "redis://localhost:6379",
		Host:           "0.0.0.0",
		Port:           8080,
		StaticDir:      "static",
		ServerURL:      "http://localhost:8080",
		LogLevel:       "info",
	}
}

// RegisterFlags adds the flags shared by every command
func RegisterFlags(fs *pflag.FlagSet) {
	d := Default()
	fs.String("config", "", "path to a YAML config file (env: PUZZLEBOARD_CONFIG)")
	fs.StringP("input", "i", d.Input, "chat export to read (env: PUZZLEBOARD_INPUT)")
	fs.String("date-order", d.DateOrder, "header date order in the chat export: dmy or mdy (env: PUZZLEBOARD_DATE_ORDER)")
	fs.String("timezone", d.Timezone, "timezone of chat timestamps and of \"today\" (env: PUZZLEBOARD_TIMEZONE)")
	fs.String("tie-policy", d.TiePolicy, "how equal results are ranked: split or alphabetical (env: PUZZLEBOARD_TIE_POLICY)")
	fs.StringSlice("exclude-senders", d.ExcludeSenders, "senders whose messages are ignored (env: PUZZLEBOARD_EXCLUDE_SENDERS)")
	fs.String("storage", d.Storage, "storage backend: memory, redis or postgres (env: PUZZLEBOARD_STORAGE)")
	fs.String("redis-url", d.RedisURL, "redis connection URL (env: PUZZLEBOARD_REDIS_URL)")
	fs.String("postgres-dsn", d.PostgresDSN, "postgres connection string (env: PUZZLEBOARD_POSTGRES_DSN)")
	fs.String("log-level", d.LogLevel, "log level: debug, info, warn or error (env: PUZZLEBOARD_LOG_LEVEL)")
}

// RegisterServerFlags adds the flags only the HTTP server uses
func RegisterServerFlags(fs *pflag.FlagSet) {
	d := Default()
	fs.StringP("host", "b", d.Host, "address to bind to (env: PUZZLEBOARD_HOST)")
	fs.IntP("port", "p", d.Port, "port to listen on (env: PUZZLEBOARD_PORT)")
	fs.String("upload-key-hash", d.UploadKeyHash, "bcrypt hash of the key required for uploads (env: PUZZLEBOARD_UPLOAD_KEY_HASH)")
	fs.String("static-dir", d.StaticDir, "directory served under /static/ (env: PUZZLEBOARD_STATIC_DIR)")
}

// keyFor maps a flag name to its configuration key
func keyFor(flag string) string {
	return strings.ReplaceAll(flag, "-", "_")
}

// Load resolves the configuration. Precedence, highest first: flags set on
// the command line, environment, config file, flag defaults.
func Load(fs *pflag.FlagSet) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if fs != nil {
		var bindErr error
		fs.VisitAll(func(f *pflag.Flag) {
			if f.Name == "config" {
				return
			}
			if err := v.BindPFlag(keyFor(f.Name), f); err != nil {
				bindErr = errors.Join(bindErr, err)
			}
		})
		if bindErr != nil {
			return Config{}, bindErr
		}
	}

	if file := configFile(fs); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", file, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("input", d.Input)
	v.SetDefault("day", d.Day)
	v.SetDefault("date_order", d.DateOrder)
	v.SetDefault("timezone", d.Timezone)
	v.SetDefault("tie_policy", d.TiePolicy)
	v.SetDefault("exclude_senders", d.ExcludeSenders)
	v.SetDefault("storage", d.Storage)
	v.SetDefault("redis_url", d.RedisURL)
	v.SetDefault("postgres_dsn", d.PostgresDSN)
	v.SetDefault("host", d.Host)
	v.SetDefault("port", d.Port)
	v.SetDefault("upload_key_hash", d.UploadKeyHash)
	v.SetDefault("static_dir", d.StaticDir)
	v.SetDefault("server_url", d.ServerURL)
	v.SetDefault("upload_key", d.UploadKey)
	v.SetDefault("log_level", d.LogLevel)
}

func configFile(fs *pflag.FlagSet) string {
	if fs != nil {
		if f := fs.Lookup("config"); f != nil && f.Value.String() != "" {
			return f.Value.String()
		}
	}
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	_ = v.BindEnv("config")
	return v.GetString("config")
}

// Validate rejects settings the application cannot run with
func (c Config) Validate() error {
	var errs []error

	switch c.Storage {
	case StorageMemory:
	case StorageRedis:
		if c.RedisURL == "" {
			errs = append(errs, errors.New("redis storage requires redis_url"))
		}
	case StoragePostgres:
		if c.PostgresDSN == "" {
			errs = append(errs, errors.New("postgres storage requires postgres_dsn"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown storage %q (want memory, redis or postgres)", c.Storage))
	}

	if _, err := extractor.ParseDateOrder(c.DateOrder); err != nil {
		errs = append(errs, err)
	}
	if _, err := ranking.ParseTiePolicy(c.TiePolicy); err != nil {
		errs = append(errs, err)
	}
	if _, err := c.Location(); err != nil {
		errs = append(errs, err)
	}
	if _, err := c.Level(); err != nil {
		errs = append(errs, err)
	}
	if c.Port < 1 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("invalid port (must be between 1-65535 inclusive): %d", c.Port))
	}

	return errors.Join(errs...)
}

// Location returns the timezone of chat timestamps
func (c Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// Level returns the configured slog level
func (c Config) Level() (slog.Level, error) {
	var level slog.Level
	if c.LogLevel == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q", c.LogLevel)
	}
	return level, nil
}

// Addr returns the host:port the server listens on
func (c Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// YAML renders the configuration with secrets masked
func (c Config) YAML() ([]byte, error) {
	if c.UploadKey != "" {
		c.UploadKey = "********"
	}
	return yaml.Marshal(c)
}
