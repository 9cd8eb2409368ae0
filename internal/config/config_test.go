package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/suite"
	"gopkg.in/yaml.v3"
)

type ConfigSuite struct {
	suite.Suite
}

func TestConfigSuite(t *testing.T) {
	suite.Run(t, new(ConfigSuite))
}

func (s *ConfigSuite) flags(args ...string) *pflag.FlagSet {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(fs)
	RegisterServerFlags(fs)
	s.Require().NoError(fs.Parse(args))
	return fs
}

func (s *ConfigSuite) TestDefaults() {
	cfg, err := Load(s.flags())
	s.Require().NoError(err)

	s.Equal(Default(), cfg)
	s.Equal("0.0.0.0:8080", cfg.Addr())
}

func (s *ConfigSuite) TestFlagsOverrideEnvironment() {
	s.T().Setenv("PUZZLEBOARD_STORAGE", "redis")
	s.T().Setenv("PUZZLEBOARD_PORT", "9000")
	s.T().Setenv("PUZZLEBOARD_TIE_POLICY", "alphabetical")

	cfg, err := Load(s.flags("--port", "9100", "--exclude-senders", "Bot A,Bot B"))
	s.Require().NoError(err)

	s.Equal("redis", cfg.Storage)
	s.Equal(9100, cfg.Port)
	s.Equal("alphabetical", cfg.TiePolicy)
	s.Equal([]string{"Bot A", "Bot B"}, cfg.ExcludeSenders)
}

func (s *ConfigSuite) TestEnvironmentList() {
	s.T().Setenv("PUZZLEBOARD_EXCLUDE_SENDERS", "Bot A,Bot B")

	cfg, err := Load(s.flags())
	s.Require().NoError(err)
	s.Equal([]string{"Bot A", "Bot B"}, cfg.ExcludeSenders)
}

func (s *ConfigSuite) TestConfigFile() {
	path := filepath.Join(s.T().TempDir(), "puzzleboard.yaml")
	s.Require().NoError(os.WriteFile(path, []byte(`
storage: postgres
postgres_dsn: postgres://u:p@db:5432/puzzleboard
date_order: mdy
log_level: debug
exclude_senders: []
`), 0o600))

	cfg, err := Load(s.flags("--config", path, "--log-level", "warn"))
	s.Require().NoError(err)

	s.Equal(StoragePostgres, cfg.Storage)
	s.Equal("postgres://u:p@db:5432/puzzleboard", cfg.PostgresDSN)
	s.Equal("mdy", cfg.DateOrder)
	s.Equal("warn", cfg.LogLevel)
	s.Empty(cfg.ExcludeSenders)
}

func (s *ConfigSuite) TestMissingConfigFile() {
	_, err := Load(s.flags("--config", filepath.Join(s.T().TempDir(), "missing.yaml")))
	s.Error(err)
}

func (s *ConfigSuite) TestValidate() {
	cases := map[string]func(*Config){
		"storage":     func(c *Config) { c.Storage = "sqlite" },
		"postgres":    func(c *Config) { c.Storage = StoragePostgres },
		"date order":  func(c *Config) { c.DateOrder = "ymd" },
		"tie policy":  func(c *Config) { c.TiePolicy = "coin-flip" },
		"timezone":    func(c *Config) { c.Timezone = "Mars/Olympus" },
		"log level":   func(c *Config) { c.LogLevel = "loud" },
		"port (zero)": func(c *Config) { c.Port = 0 },
		"redis url": func(c *Config) {
			c.Storage = StorageRedis
			c.RedisURL = ""
		},
	}
	for name, mutate := range cases {
		cfg := Default()
		mutate(&cfg)
		s.Error(cfg.Validate(), name)
	}

	s.NoError(Default().Validate())
}

func (s *ConfigSuite) TestLevelAndLocation() {
	cfg := Default()
	cfg.LogLevel = "DEBUG"
	cfg.Timezone = "Europe/Rome"

	level, err := cfg.Level()
	s.Require().NoError(err)
	s.Equal(slog.LevelDebug, level)

	loc, err := cfg.Location()
	s.Require().NoError(err)
	s.Equal("Europe/Rome", loc.String())
}

func (s *ConfigSuite) TestYAMLMasksUploadKey() {
	cfg := Default()
	cfg.UploadKey = "s3cret"

	data, err := cfg.YAML()
	s.Require().NoError(err)
	s.NotContains(string(data), "s3cret")

	var decoded map[string]any
	s.Require().NoError(yaml.Unmarshal(data, &decoded))
	s.Equal("memory", decoded["storage"])
	s.Equal("********", decoded["upload_key"])
}
