// Package config loads the optional tern.yaml project file and resolves
// defaults from the enclosing Go module.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/mod/modfile"
	"gopkg.in/yaml.v3"
)

// DefaultInspectorPort is used when tern.yaml does not set one.
const DefaultInspectorPort = 7458

// Config represents the optional tern.yaml configuration.
type Config struct {
	App       AppConfig       `yaml:"app"`
	Inspector InspectorConfig `yaml:"inspector"`
}

// AppConfig contains application metadata.
type AppConfig struct {
	Name string `yaml:"name,omitempty"`
	ID   string `yaml:"id,omitempty"`
}

// InspectorConfig contains inspector server settings.
type InspectorConfig struct {
	Enabled bool `yaml:"enabled,omitempty"`
	Port    int  `yaml:"port,omitempty"`
}

// Resolved contains resolved configuration values.
type Resolved struct {
	Root          string
	ModulePath    string
	AppName       string
	AppID         string
	InspectorPort int
}

// LoadOptional reads tern.yaml if present. A missing file is not an
// error; it resolves to the zero config.
func LoadOptional(dir string) (*Config, error) {
	path := filepath.Join(dir, "tern.yaml")
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("failed to read tern.yaml: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse tern.yaml: %w", err)
	}

	return &cfg, nil
}

// Resolve loads tern.yaml (if present) and resolves defaults.
func Resolve(dir string) (*Resolved, error) {
	modulePath, err := modulePath(dir)
	if err != nil {
		return nil, err
	}

	cfg, err := LoadOptional(dir)
	if err != nil {
		return nil, err
	}

	appName := strings.TrimSpace(cfg.App.Name)
	if appName == "" {
		appName = defaultAppName(modulePath, dir)
	}

	appID := strings.TrimSpace(cfg.App.ID)
	port := cfg.Inspector.Port
	if port == 0 {
		port = DefaultInspectorPort
	}
	if port < 0 || port > 65535 {
		return nil, fmt.Errorf("inspector.port %d out of range", cfg.Inspector.Port)
	}

	return &Resolved{
		Root:          dir,
		ModulePath:    modulePath,
		AppName:       appName,
		AppID:         appID,
		InspectorPort: port,
	}, nil
}

// FindProjectRoot walks up from the current directory to find go.mod.
func FindProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("not in a Go module (no go.mod found)")
		}
		dir = parent
	}
}

func modulePath(dir string) (string, error) {
	data, err := os.ReadFile(filepath.Join(dir, "go.mod"))
	if err != nil {
		return "", fmt.Errorf("failed to read go.mod: %w", err)
	}
	path := modfile.ModulePath(data)
	if path == "" {
		return "", fmt.Errorf("could not determine module path from go.mod")
	}
	return path, nil
}

func defaultAppName(modulePath, dir string) string {
	parts := strings.Split(modulePath, "/")
	base := parts[len(parts)-1]
	if base == "" {
		base = filepath.Base(dir)
	}
	if base == "" {
		return "tern_app"
	}
	return base
}
