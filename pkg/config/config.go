// SPDX-FileCopyrightText: 2025 Jon Thor Kristinsson
// SPDX-License-Identifier: Apache-2.0

// Package config loads the reservation service's YAML configuration file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// EnvConfigPath names the environment variable that, when set, overrides
// the default search path entirely.
const EnvConfigPath = "RESERVATION_CONFIG"

// DB holds the database connection settings.
type DB struct {
	Host          string `yaml:"host"`
	Port          int    `yaml:"port"`
	User          string `yaml:"user"`
	Password      string `yaml:"password"`
	DBName        string `yaml:"dbname"`
	MaxConnections int   `yaml:"max_connections"`
}

// Server holds the RPC server's listen settings.
type Server struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// Config is the reservation service's full configuration.
type Config struct {
	DB     DB     `yaml:"db"`
	Server Server `yaml:"server"`
}

// NewDefault returns a Config with every default the schema allows
// (max_connections defaults to 5).
func NewDefault() *Config {
	return &Config{
		DB: DB{
			Host:           "localhost",
			Port:           5432,
			MaxConnections: 5,
		},
		Server: Server{
			Host: "0.0.0.0",
			Port: 50051,
		},
	}
}

// searchPaths returns the default file-search path, in priority order:
// ./reservation.yml, ~/.config/reservation.yml, /etc/reservation.yml.
func searchPaths() []string {
	paths := []string{"reservation.yml"}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "reservation.yml"))
	}
	paths = append(paths, filepath.Join("/etc", "reservation.yml"))
	return paths
}

// Resolve locates the configuration file to load: RESERVATION_CONFIG if
// set, otherwise the first of the default search path that exists. It
// returns a *NotFoundError if nothing is found, so the caller can exit
// non-zero rather than fall back to undocumented defaults.
func Resolve() (string, error) {
	if path := os.Getenv(EnvConfigPath); path != "" {
		if _, err := os.Stat(path); err != nil {
			return "", ErrConfigNotFound(path)
		}
		return path, nil
	}

	for _, path := range searchPaths() {
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}

	return "", ErrConfigNotFound(searchPaths()...)
}

// Load resolves and parses the configuration file, applying NewDefault
// for any field the file omits.
func Load() (*Config, error) {
	path, err := Resolve()
	if err != nil {
		return nil, err
	}
	return LoadFile(path)
}

// LoadFile parses a specific configuration file, skipping search-path
// resolution — used directly by tests and by callers that already know
// the path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ReadError{Path: path, Cause: err}
	}

	cfg := NewDefault()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, &ParseError{Path: path, Cause: err}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that required fields are present and well-formed.
func (c *Config) Validate() error {
	if c.DB.Host == "" {
		return ErrMissingDBHost
	}
	if c.DB.DBName == "" {
		return ErrMissingDBName
	}
	if c.DB.MaxConnections <= 0 {
		return ErrInvalidMaxConnections
	}
	if c.Server.Port <= 0 {
		return ErrInvalidServerPort
	}
	return nil
}

// DSN renders the lib/pq connection string for this configuration.
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		quoteDSNValue(c.DB.Host), c.DB.Port, quoteDSNValue(c.DB.User), quoteDSNValue(c.DB.Password), quoteDSNValue(c.DB.DBName))
}

// quoteDSNValue applies libpq's keyword/value quoting rules: any value
// containing whitespace, a single quote, or a backslash (or the empty
// string) must be single-quoted, with backslashes and single quotes
// within it backslash-escaped.
func quoteDSNValue(v string) string {
	if v == "" {
		return "''"
	}
	if !strings.ContainsAny(v, " '\\\t\n") {
		return v
	}
	v = strings.ReplaceAll(v, `\`, `\\`)
	v = strings.ReplaceAll(v, `'`, `\'`)
	return "'" + v + "'"
}

// Addr renders the server's listen address as host:port.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
