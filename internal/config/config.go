// Package config loads the exporter's configuration. Values come from
// the process environment, optionally seeded from a .env file and a TOML
// config file; the environment always wins. The result is an immutable
// Config constructed once at startup and passed down.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

// Environment variable names, matching the original deployment.
const (
	EnvTrinoHost        = "TRINO_HOST"
	EnvTrinoPort        = "TRINO_PORT"
	EnvTrinoUser        = "TRINO_USER"
	EnvTrinoPassword    = "TRINO_PASSWORD"
	EnvTrinoCatalog     = "TRINO_CATALOG"
	EnvTrinoSchema      = "TRINO_SCHEMA"
	EnvClientSecretFile = "GOOGLE_CLIENT_SECRET_FILE"
	EnvTokenPath        = "TOKEN_PATH"
	EnvDriveFolderID    = "DRIVE_FOLDER_ID"
)

// requiredVars are checked during Load; every missing name is reported.
var requiredVars = []string{
	EnvTrinoHost,
	EnvTrinoPort,
	EnvTrinoUser,
	EnvTrinoCatalog,
	EnvTrinoSchema,
	EnvClientSecretFile,
	EnvTokenPath,
	EnvDriveFolderID,
}

// Trino holds the warehouse connection settings.
type Trino struct {
	Host     string
	Port     int
	User     string
	Password string
	Catalog  string
	Schema   string
}

// Google holds the Sheets/Drive credential and destination settings.
type Google struct {
	ClientSecretFile string
	TokenPath        string
	DriveFolderID    string
}

// Config is the complete, validated configuration for one run.
type Config struct {
	Trino  Trino
	Google Google
}

// Options controls where Load looks for values beyond the environment.
type Options struct {
	// EnvFile is an optional .env file. A missing file is not an error;
	// an unreadable or malformed one is.
	EnvFile string

	// TOMLFile is an optional TOML config file providing defaults for
	// any variable not already set in the environment. Keys match the
	// environment variable names.
	TOMLFile string
}

// Load builds and validates a Config. Missing required settings are
// collected and reported together so a misconfigured run fails fast
// with the full list.
func Load(opts Options) (*Config, error) {
	if opts.EnvFile != "" {
		if err := godotenv.Load(opts.EnvFile); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("load env file %s: %w", opts.EnvFile, err)
		}
	} else {
		// Default .env in the working directory, if present.
		_ = godotenv.Load()
	}

	values := make(map[string]string)
	if opts.TOMLFile != "" {
		fileValues, err := loadTOML(opts.TOMLFile)
		if err != nil {
			return nil, err
		}
		values = fileValues
	}

	// Environment takes precedence over the file.
	lookup := func(name string) string {
		if v := os.Getenv(name); v != "" {
			return v
		}
		return values[name]
	}

	var missing []string
	for _, name := range requiredVars {
		if lookup(name) == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}

	port, err := strconv.Atoi(lookup(EnvTrinoPort))
	if err != nil {
		return nil, fmt.Errorf("invalid %s %q: %w", EnvTrinoPort, lookup(EnvTrinoPort), err)
	}

	return &Config{
		Trino: Trino{
			Host:     lookup(EnvTrinoHost),
			Port:     port,
			User:     lookup(EnvTrinoUser),
			Password: lookup(EnvTrinoPassword),
			Catalog:  lookup(EnvTrinoCatalog),
			Schema:   lookup(EnvTrinoSchema),
		},
		Google: Google{
			ClientSecretFile: lookup(EnvClientSecretFile),
			TokenPath:        lookup(EnvTokenPath),
			DriveFolderID:    lookup(EnvDriveFolderID),
		},
	}, nil
}

// loadTOML reads a flat TOML file of string or integer values keyed by
// the environment variable names.
func loadTOML(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("read config file %s: %w", path, err)
	}

	raw := make(map[string]any)
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse config file %s: %w", path, err)
	}

	values := make(map[string]string, len(raw))
	for key, val := range raw {
		switch v := val.(type) {
		case string:
			values[key] = v
		case int64:
			values[key] = strconv.FormatInt(v, 10)
		default:
			return nil, fmt.Errorf("config file %s: key %s has unsupported type %T", path, key, val)
		}
	}
	return values, nil
}
