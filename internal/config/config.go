package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server   string   `yaml:"server"`
	Org      string   `yaml:"org"`
	Repos    []string `yaml:"repos"` // explicit watch list; empty means sweep the org
	Token    string   `yaml:"token"`
	Timezone string   `yaml:"timezone"`
	LogFile  string   `yaml:"log_file"`
	LogLevel string   `yaml:"log_level"`

	// Location is resolved from Timezone during ApplyDefaults.
	Location *time.Location `yaml:"-"`
}

// LoadFile reads a yaml config file. A missing file is not an error;
// flags and environment cover the common case.
func LoadFile(path string) (Config, error) {
	var cfg Config
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// ApplyDefaults fills unset fields from the environment and built-in
// defaults, and resolves the timezone. An unknown timezone falls back
// to UTC rather than failing mid-session.
func (c *Config) ApplyDefaults() {
	if c.Server == "" {
		c.Server = "github.com"
	}
	if c.Token == "" {
		c.Token = os.Getenv("GH_ENTERPRISE_TOKEN")
	}
	if c.Token == "" {
		c.Token = os.Getenv("GITHUB_TOKEN")
	}
	if c.LogFile == "" {
		c.LogFile = filepath.Join(os.TempDir(), "gwatch", "gwatch.log")
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}

	c.Location = time.UTC
	if c.Timezone != "" {
		if loc, err := time.LoadLocation(c.Timezone); err == nil {
			c.Location = loc
		}
	}
}

func (c Config) Validate() error {
	if c.Org == "" {
		return fmt.Errorf("org is required (use --org or the config file)")
	}
	return nil
}
