// Package config handles TOML configuration loading with environment variable substitution.
package config

import (
	"fmt"
	"os"
	"regexp"

	"github.com/BurntSushi/toml"
)

// Config is the root configuration structure.
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database"`
	OMDB     OMDBConfig     `toml:"omdb"`
	Search   SearchConfig   `toml:"search"`
}

type ServerConfig struct {
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	LogLevel string `toml:"log_level"`
}

type DatabaseConfig struct {
	Path string `toml:"path"`
}

type OMDBConfig struct {
	URL    string `toml:"url"`
	APIKey string `toml:"api_key"`
}

type SearchConfig struct {
	// Seeds are queried when a search request carries no query of its own.
	Seeds      []string `toml:"seeds"`
	PinnedID   string   `toml:"pinned_id"`
	FetchLimit int      `toml:"fetch_limit"`
}

// Load reads and parses the configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	// Substitute environment variables
	content := substituteEnvVars(string(data))

	var cfg Config
	if _, err := toml.Decode(content, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Host == "" {
		c.Server.Host = "0.0.0.0"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 4000
	}
	if c.Server.LogLevel == "" {
		c.Server.LogLevel = "info"
	}
	if c.Database.Path == "" {
		c.Database.Path = "./data/flickd.db"
	}
	if c.OMDB.URL == "" {
		c.OMDB.URL = "https://www.omdbapi.com"
	}
	if len(c.Search.Seeds) == 0 {
		c.Search.Seeds = []string{"Avengers", "Batman"}
	}
	if c.Search.PinnedID == "" {
		c.Search.PinnedID = "tt3896198"
	}
	if c.Search.FetchLimit <= 0 {
		c.Search.FetchLimit = 5
	}
}

// substituteEnvVars replaces ${VAR_NAME} with environment variable values.
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

func substituteEnvVars(content string) string {
	return envVarPattern.ReplaceAllStringFunc(content, func(match string) string {
		varName := match[2 : len(match)-1] // Strip ${ and }
		if value, ok := os.LookupEnv(varName); ok {
			return value
		}
		return match // Leave unchanged if not found
	})
}
