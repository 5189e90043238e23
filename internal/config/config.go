package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/base-cli/base/internal/branding"
	"github.com/spf13/viper"
)

const (
	fileName = "config"
	fileType = "yaml"
)

// Store is the key/value contract consumed by the rest of the CLI.
// Missing keys read as "".
type Store interface {
	Get(key string) string
	Set(key, value string) error
}

// Config is a viper-backed Store persisted to a YAML file.
type Config struct {
	v    *viper.Viper
	path string
}

// Dir returns the path to the config directory (~/.base/).
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", branding.HomeDir())
	}
	return filepath.Join(home, branding.HomeDir())
}

// FilePath returns the full path to the config file (~/.base/config.yaml).
func FilePath() string {
	return filepath.Join(Dir(), fileName+"."+fileType)
}

// Load reads the config file at path (FilePath() when empty) and binds
// BASE_* environment variables. A missing file is not an error.
func Load(path string) (*Config, error) {
	if path == "" {
		path = FilePath()
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType(fileType)
	v.SetEnvPrefix(branding.EnvPrefix())
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if _, err := os.Stat(path); err == nil {
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
	}

	return &Config{v: v, path: path}, nil
}

// Path returns the file the config persists to.
func (c *Config) Path() string {
	return c.path
}

// Get returns a config value by key. Returns empty string if not set.
func (c *Config) Get(key string) string {
	return c.v.GetString(key)
}

// Set writes a config key-value pair and saves the config file.
func (c *Config) Set(key, value string) error {
	dir := filepath.Dir(c.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	c.v.Set(key, value)

	if err := c.v.WriteConfigAs(c.path); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// Memory is an in-memory Store.
type Memory map[string]string

// NewMemory returns an empty in-memory Store.
func NewMemory() Memory {
	return Memory{}
}

// Get returns the value for key or "".
func (m Memory) Get(key string) string {
	return m[key]
}

// Set stores value under key.
func (m Memory) Set(key, value string) error {
	m[key] = value
	return nil
}
