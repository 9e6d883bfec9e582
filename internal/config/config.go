// Copyright 2025 SirSeer, LLC
//
// Licensed under the Business Source License 1.1 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://mariadb.com/bsl11
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config provides configuration management for sirseer-velocity with
// support for multiple configuration sources and a well-defined precedence
// order.
//
// Configuration sources (in precedence order, highest to lowest):
//  1. Command-line flags
//  2. Environment variables (including a .env file in the working directory)
//  3. Repository-specific configuration
//  4. Global configuration file
//  5. Built-in defaults
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/cli/go-gh/v2/pkg/auth"
	"github.com/go-playground/validator/v10"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	velocityerrors "github.com/sirseerhq/sirseer-velocity/internal/errors"
)

// ghTokenForHost looks up credentials stored by the gh CLI.
var ghTokenForHost = auth.TokenForHost

// LoadConfig loads configuration from multiple sources and applies them in
// the correct precedence order. If configPath is provided, it loads from
// that specific file. Otherwise, it searches standard locations:
//   - .velocity.yaml (current directory)
//   - .velocity.yml (current directory)
//   - ~/.sirseer/velocity.yaml
//   - ~/.sirseer/velocity.yml
//
// A .env file in the working directory is loaded before environment
// overrides are applied; variables already set in the process win.
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if configPath != "" {
		if err := loadConfigFile(configPath, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	} else {
		home, _ := os.UserHomeDir()
		defaultPaths := []string{
			".velocity.yaml",
			".velocity.yml",
			filepath.Join(home, ".sirseer", "velocity.yaml"),
			filepath.Join(home, ".sirseer", "velocity.yml"),
		}

		for _, path := range defaultPaths {
			if _, err := os.Stat(path); err == nil {
				if err := loadConfigFile(path, cfg); err != nil {
					return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
				}
				break
			}
		}
	}

	if err := loadDotEnv(".env"); err != nil {
		return nil, err
	}

	if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("failed to apply environment overrides: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadConfigFile reads and parses a YAML config file
func loadConfigFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return nil
}

// loadDotEnv loads path into the process environment if it exists.
func loadDotEnv(path string) error {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// ForRepo returns the defaults with any override for repo ("owner/repo") applied.
func (c *Config) ForRepo(repo string) DefaultsConfig {
	d := c.Defaults
	if rc, ok := c.Repositories[repo]; ok {
		if rc.ItemCap > 0 {
			d.ItemCap = rc.ItemCap
		}
		if rc.Environment != "" {
			d.Environment = rc.Environment
		}
	}
	return d
}

// ResolveToken returns the API token. The flag value wins, then the variable
// named by GitHub.TokenEnv, then credentials stored by the gh CLI. A missing
// token is reported as ErrMissingToken before any request is made.
func (c *Config) ResolveToken(flagToken string) (string, error) {
	if token := strings.TrimSpace(flagToken); token != "" {
		return token, nil
	}
	if token := strings.TrimSpace(os.Getenv(c.GitHub.TokenEnv)); token != "" {
		return token, nil
	}
	if token, _ := ghTokenForHost(c.GitHub.Host); token != "" {
		return token, nil
	}
	return "", fmt.Errorf("set %s, pass --token or run `gh auth login`: %w", c.GitHub.TokenEnv, velocityerrors.ErrMissingToken)
}

// Validate checks if the configuration contains valid values.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config validation: %w", err)
	}
	return nil
}
