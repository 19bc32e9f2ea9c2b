// Package config provides configuration loading for the registry tooling.
//
// The registry root is never configuration: it is an explicit argument to
// every command. Config covers operational knobs only, loaded from an
// optional YAML file merged with CANREG_-prefixed environment variables.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/canonizer/registry-tools/internal/index"
	"github.com/canonizer/registry-tools/internal/schema"
)

// EnvPrefix is the prefix for environment variable overrides, e.g.
// CANREG_WORKERS=4.
const EnvPrefix = "CANREG"

// Config holds the tool's operational settings.
type Config struct {
	// AcceptedDrafts overrides the JSON Schema drafts the registry
	// accepts. Empty means the default set.
	AcceptedDrafts []string `yaml:"acceptedDrafts,omitempty" mapstructure:"acceptedDrafts"`

	// IndexFileName is the index document name inside the registry root.
	IndexFileName string `yaml:"indexFileName,omitempty" mapstructure:"indexFileName"`

	// Workers is the number of transform units validated concurrently.
	Workers int `yaml:"workers,omitempty" mapstructure:"workers"`
}

// Load reads configuration from the optional YAML file at path (empty path
// skips the file) and applies environment overrides.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetDefault("indexFileName", index.DefaultFileName)
	v.SetDefault("workers", 1)

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the configuration for nonsensical values.
func (c *Config) Validate() error {
	if c.Workers < 0 {
		return fmt.Errorf("workers must be non-negative, got %d", c.Workers)
	}
	if c.IndexFileName == "" {
		return fmt.Errorf("indexFileName cannot be empty")
	}
	if strings.ContainsAny(c.IndexFileName, "/\\") {
		return fmt.Errorf("indexFileName must be a bare file name, got %q", c.IndexFileName)
	}
	for _, draft := range c.AcceptedDrafts {
		if draft == "" {
			return fmt.Errorf("acceptedDrafts entries cannot be empty")
		}
	}
	return nil
}

// SchemaValidator builds the schema validator implied by the configuration.
func (c *Config) SchemaValidator() *schema.Validator {
	return schema.NewValidator(c.AcceptedDrafts...)
}
