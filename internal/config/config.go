package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// currentVersion is the config schema version.
const currentVersion = 1

// DirName is the workspace directory holding config.json and the cache.
const DirName = ".apidiff"

// Config represents the complete apidiff configuration
type Config struct {
	Version int           `json:"version" mapstructure:"version"`
	Output  OutputConfig  `json:"output" mapstructure:"output"`
	Cache   CacheConfig   `json:"cache" mapstructure:"cache"`
	Logging LoggingConfig `json:"logging" mapstructure:"logging"`
}

// OutputConfig controls changelog rendering
type OutputConfig struct {
	// Format is text, markup, json or yaml.
	Format string `json:"format" mapstructure:"format"`
	// LineEnding is crlf or lf; it applies to text output only.
	LineEnding string `json:"lineEnding" mapstructure:"lineEnding"`
}

// CacheConfig controls the rendered changelog cache
type CacheConfig struct {
	Enabled    bool `json:"enabled" mapstructure:"enabled"`
	TtlSeconds int  `json:"ttlSeconds" mapstructure:"ttlSeconds"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Format string `json:"format" mapstructure:"format"`
	Level  string `json:"level" mapstructure:"level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Version: currentVersion,
		Output: OutputConfig{
			Format:     "text",
			LineEnding: "crlf",
		},
		Cache: CacheConfig{
			Enabled:    true,
			TtlSeconds: 86400,
		},
		Logging: LoggingConfig{
			Format: "human",
			Level:  "info",
		},
	}
}

// LoadConfig loads configuration from <root>/.apidiff/config.json. Missing
// keys keep their defaults, and APIDIFF_* environment variables override the
// file (for example APIDIFF_OUTPUT_FORMAT).
func LoadConfig(root string) (*Config, error) {
	v := viper.New()

	def := DefaultConfig()
	v.SetDefault("version", def.Version)
	v.SetDefault("output.format", def.Output.Format)
	v.SetDefault("output.lineEnding", def.Output.LineEnding)
	v.SetDefault("cache.enabled", def.Cache.Enabled)
	v.SetDefault("cache.ttlSeconds", def.Cache.TtlSeconds)
	v.SetDefault("logging.format", def.Logging.Format)
	v.SetDefault("logging.level", def.Logging.Level)

	v.SetEnvPrefix("APIDIFF")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigName("config")
	v.SetConfigType("json")
	v.AddConfigPath(filepath.Join(root, DirName))

	if err := v.ReadInConfig(); err != nil {
		// A missing file means defaults plus environment.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save writes the configuration to <root>/.apidiff/config.json
func (c *Config) Save(root string) error {
	dir := filepath.Join(root, DirName)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, "config.json"), data, 0644)
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Version != currentVersion {
		return &ConfigError{Field: "version", Message: "unsupported config version"}
	}
	if !oneOf(c.Output.Format, "text", "markup", "json", "yaml") {
		return &ConfigError{Field: "output.format", Message: "must be text, markup, json or yaml"}
	}
	if !oneOf(strings.ToLower(c.Output.LineEnding), "crlf", "lf") {
		return &ConfigError{Field: "output.lineEnding", Message: "must be crlf or lf"}
	}
	if c.Cache.TtlSeconds < 0 {
		return &ConfigError{Field: "cache.ttlSeconds", Message: "must not be negative"}
	}
	if !oneOf(c.Logging.Format, "human", "json") {
		return &ConfigError{Field: "logging.format", Message: "must be human or json"}
	}
	if !oneOf(c.Logging.Level, "debug", "info", "warn", "error", "silent") {
		return &ConfigError{Field: "logging.level", Message: "unknown level"}
	}
	return nil
}

// LineEnding returns the separator selected by output.lineEnding.
func (c *Config) LineEnding() string {
	if strings.EqualFold(c.Output.LineEnding, "lf") {
		return "\n"
	}
	return "\r\n"
}

func oneOf(s string, allowed ...string) bool {
	for _, a := range allowed {
		if s == a {
			return true
		}
	}
	return false
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "config error in field '" + e.Field + "': " + e.Message
}
