// Package config loads CLI settings from minions.yaml and MINIONS_*
// environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/aretw0/minions/pkg/core"
)

const (
	// FileName is the config file looked up in each search directory.
	FileName = "minions"

	// DefaultPath is the store directory, relative to the store root.
	DefaultPath = ".minions"

	// EnvPrefix prefixes every environment override, e.g. MINIONS_STORAGE_ADAPTER.
	EnvPrefix = "MINIONS"
)

// Config holds all configuration for the minions CLI.
type Config struct {
	Storage StorageConfig     `mapstructure:"storage"`
	Logging LoggingConfig     `mapstructure:"logging"`
	Types   []core.MinionType `mapstructure:"types"`

	// File is the config file that was read, if any.
	File string `mapstructure:"-"`
}

// StorageConfig selects and tunes the storage adapter.
type StorageConfig struct {
	Adapter   string `mapstructure:"adapter" validate:"oneof=memory json yaml"`
	Path      string `mapstructure:"path" validate:"required_unless=Adapter memory"`
	SystemDir string `mapstructure:"system_dir" validate:"omitempty,excludesall=/\\"`
	ReadOnly  bool   `mapstructure:"read_only"`
	Strict    bool   `mapstructure:"strict"`
	DevSafety bool   `mapstructure:"dev_safety"`
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"oneof=text json"`
}

// Load reads configuration from file and environment variables.
// configFile, when set, is read directly; otherwise minions.yaml is looked
// up in searchDirs and then in $HOME/.minions. A missing file is not an
// error.
func Load(configFile string, searchDirs ...string) (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("storage.adapter", "json")
	v.SetDefault("storage.path", DefaultPath)
	v.SetDefault("storage.system_dir", "")
	v.SetDefault("storage.read_only", false)
	v.SetDefault("storage.strict", false)
	v.SetDefault("storage.dev_safety", true)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")

	// Config file
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName(FileName)
		v.SetConfigType("yaml")
		for _, dir := range searchDirs {
			v.AddConfigPath(dir)
		}
		v.AddConfigPath(filepath.Join(homeDir(), ".minions"))
	}

	// Environment variables
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		// No config file: defaults + env vars.
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}
	cfg.File = v.ConfigFileUsed()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

var validate = validator.New()

// Validate checks struct constraints and the custom type definitions.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed on %q (value %v)", fe.Namespace(), fe.Tag(), fe.Value()))
			}
			return errors.New(strings.Join(msgs, "; "))
		}
		return err
	}

	for i, t := range c.Types {
		if t.ID == "" || t.Slug == "" || t.Name == "" {
			return fmt.Errorf("types[%d] must set id, name and slug", i)
		}
		for _, f := range t.Schema {
			if f.Name == "" {
				return fmt.Errorf("type %q has a field without a name", t.Slug)
			}
			if !f.Type.IsValid() {
				return fmt.Errorf("type %q field %q: unknown field type %q", t.Slug, f.Name, f.Type)
			}
		}
	}
	return nil
}

// ResolvePath returns the storage path, joined to root when relative.
func (c *Config) ResolvePath(root string) string {
	if filepath.IsAbs(c.Storage.Path) || root == "" {
		return c.Storage.Path
	}
	return filepath.Join(root, c.Storage.Path)
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
