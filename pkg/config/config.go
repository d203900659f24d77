// Package config loads ethfixtures settings from defaults, an optional
// config file, ETHFIXTURES_* environment variables and command flags.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment overrides, e.g. ETHFIXTURES_NODE_PORT.
const EnvPrefix = "ETHFIXTURES"

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	Node    NodeConfig    `mapstructure:"node"`
	ChainDB ChainDBConfig `mapstructure:"chaindb"`
	Logging LoggingConfig `mapstructure:"logging"`
	Fixture FixtureConfig `mapstructure:"fixture"`
}

type NodeConfig struct {
	Host    string        `mapstructure:"host"`
	Port    int           `mapstructure:"port"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// ChainDBConfig selects an on-disk chain database instead of a node.
// An empty Path means headers are fetched over RPC. Ancient defaults to
// <path>/ancient when that directory exists.
type ChainDBConfig struct {
	Path    string `mapstructure:"path"`
	Backend string `mapstructure:"backend"`
	Ancient string `mapstructure:"ancient"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type FixtureConfig struct {
	Indent    int    `mapstructure:"indent"`
	Namespace string `mapstructure:"namespace"`
}

// FlagKeys maps command line flag names to config keys.
var FlagKeys = map[string]string{
	"geth-addr":  "node.host",
	"geth-port":  "node.port",
	"timeout":    "node.timeout",
	"chaindb":    "chaindb.path",
	"db-backend": "chaindb.backend",
	"ancient":    "chaindb.ancient",
	"log-level":  "logging.level",
	"log-format": "logging.format",
	"indent":     "fixture.indent",
	"namespace":  "fixture.namespace",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("node.host", "localhost")
	v.SetDefault("node.port", 8545)
	v.SetDefault("node.timeout", "30s")
	v.SetDefault("chaindb.path", "")
	v.SetDefault("chaindb.backend", "")
	v.SetDefault("chaindb.ancient", "")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("fixture.indent", 4)
	v.SetDefault("fixture.namespace", "EclipseMonitor_Test")
}

// Load reads the configuration. configPath may be empty. Flags present in
// flags that appear in FlagKeys override every other source when set.
func Load(configPath string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	if flags != nil {
		for name, key := range FlagKeys {
			f := flags.Lookup(name)
			if f == nil {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("failed to bind flag %s: %w", name, err)
			}
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate checks ranges and enumerations.
func (c *Config) Validate() error {
	if c.Node.Port <= 0 || c.Node.Port > 65535 {
		return fmt.Errorf("%w: node.port %d out of range", ErrInvalidConfig, c.Node.Port)
	}
	if c.Node.Timeout < 0 {
		return fmt.Errorf("%w: node.timeout %s is negative", ErrInvalidConfig, c.Node.Timeout)
	}
	switch c.ChainDB.Backend {
	case "", "pebble", "leveldb":
	default:
		return fmt.Errorf("%w: chaindb.backend %q", ErrInvalidConfig, c.ChainDB.Backend)
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("%w: logging.format %q", ErrInvalidConfig, c.Logging.Format)
	}
	if c.Fixture.Indent <= 0 {
		return fmt.Errorf("%w: fixture.indent must be positive", ErrInvalidConfig)
	}
	return nil
}
