package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"
)

// Config represents the root configuration structure for the application
type Config struct {
	Input InputConfig `mapstructure:"input"`
	Dump  DumpConfig  `mapstructure:"dump"`
	Log   LogConfig   `mapstructure:"log"`
}

// InputConfig describes where the RESP stream comes from
type InputConfig struct {
	Path       string `mapstructure:"path"`        // file to read, "-" for stdin
	BufferSize int    `mapstructure:"buffer_size"` // read buffer in front of the source
}

// DumpConfig controls what is printed for each decoded value
type DumpConfig struct {
	Limit  int    `mapstructure:"limit"`  // stop after this many values, 0 means all
	Format string `mapstructure:"format"` // text, log
}

// LogConfig defines logging verbosity and output style
type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // json, console
}

// Load reads the configuration from a file, overrides it with environment variables
// and then with any flags explicitly set in flags (which may be nil)
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(path)
	v.AddConfigPath(".")

	v.SetEnvPrefix("RESPDUMP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, err
		}
	}

	if flags != nil {
		if err := bindFlags(v, flags); err != nil {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks values viper cannot check by type alone
func (c *Config) Validate() error {
	if c.Input.Path == "" {
		return errors.New("input.path must not be empty")
	}
	if c.Input.BufferSize <= 0 {
		return fmt.Errorf("input.buffer_size must be positive, got %d", c.Input.BufferSize)
	}
	if c.Dump.Limit < 0 {
		return fmt.Errorf("dump.limit must not be negative, got %d", c.Dump.Limit)
	}
	switch c.Dump.Format {
	case "text", "log":
	default:
		return fmt.Errorf("unknown dump.format %q", c.Dump.Format)
	}
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("invalid log.level: %w", err)
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("unknown log.format %q", c.Log.Format)
	}
	return nil
}

// Flags returns the command line flags understood by Load. Flag names mirror the config keys
func Flags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("respdump", pflag.ContinueOnError)
	fs.String("config", ".", "directory containing config.yaml")
	fs.StringP("input", "i", "-", "file to decode, - for stdin")
	fs.IntP("limit", "n", 0, "stop after this many values, 0 for all")
	fs.StringP("format", "f", "text", "output format: text or log")
	fs.String("log-level", "info", "log level: debug, info, warn, error")
	return fs
}

var flagKeys = map[string]string{
	"input":     "input.path",
	"limit":     "dump.limit",
	"format":    "dump.format",
	"log-level": "log.level",
}

// bindFlags lets flags that were set on the command line win over file and environment values
func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	for name, key := range flagKeys {
		f := flags.Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return err
		}
	}
	return nil
}

// setDefaults populates viper with fallback values if they are not provided via file or ENV
func setDefaults(v *viper.Viper) {
	// Input
	v.SetDefault("input.path", "-")
	v.SetDefault("input.buffer_size", 4096)

	// Dump
	v.SetDefault("dump.limit", 0)
	v.SetDefault("dump.format", "text")

	// Logger
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
}
