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

// Package config types define the configuration structures used throughout
// sirseer-velocity. These types represent settings that can be loaded from
// YAML configuration files, environment variables, or command-line flags.
package config

import (
	"time"

	"github.com/sirseerhq/sirseer-velocity/internal/logger"
)

// Config represents the complete configuration for sirseer-velocity.
type Config struct {
	GitHub       GitHubConfig          `yaml:"github"`
	Retry        RetryConfig           `yaml:"retry"`
	Defaults     DefaultsConfig        `yaml:"defaults"`
	Repositories map[string]RepoConfig `yaml:"repositories" validate:"dive"`
	// Identities maps developer emails to GitHub logins for pull request matching.
	Identities   map[string]string     `yaml:"identities" validate:"dive,keys,email,endkeys,required"`
	Server       ServerConfig          `yaml:"server"`
	Log          logger.Config         `yaml:"log"`
}

// GitHubConfig contains GitHub-specific settings. The token itself is never
// read from the config file; TokenEnv names the variable that holds it.
type GitHubConfig struct {
	GraphQLEndpoint   string        `yaml:"graphql_endpoint" env:"GITHUB_GRAPHQL_ENDPOINT" validate:"required,url"`
	Host              string        `yaml:"host" env:"GH_HOST" validate:"required,hostname"`
	TokenEnv          string        `yaml:"token_env" env:"VELOCITY_TOKEN_ENV" validate:"required"`
	RequestsPerMinute int           `yaml:"requests_per_minute" env:"VELOCITY_REQUESTS_PER_MINUTE" validate:"gte=0"`
	HTTPTimeout       time.Duration `yaml:"http_timeout" env:"VELOCITY_HTTP_TIMEOUT" validate:"gt=0"`
}

// RetryConfig controls the transport retry loop. The wait before retry n
// (1-based) is BackoffUnit * BackoffBase^n.
type RetryConfig struct {
	MaxAttempts int           `yaml:"max_attempts" env:"VELOCITY_RETRY_MAX_ATTEMPTS" validate:"gte=1,lte=10"`
	BackoffBase float64       `yaml:"backoff_base" env:"VELOCITY_RETRY_BACKOFF_BASE" validate:"gte=1"`
	BackoffUnit time.Duration `yaml:"backoff_unit" env:"VELOCITY_RETRY_BACKOFF_UNIT" validate:"gt=0"`
}

// DefaultsConfig contains settings that apply to every report unless
// overridden by repository-specific settings or command-line flags.
type DefaultsConfig struct {
	// ItemCap bounds how many nodes are collected per entity type. Zero means no cap.
	ItemCap int `yaml:"item_cap" env:"VELOCITY_ITEM_CAP" validate:"gte=0"`
	// Environment is the deployment environment used by the deploy-aware report.
	Environment string `yaml:"environment" env:"VELOCITY_ENVIRONMENT" validate:"required"`
}

// RepoConfig contains repository-specific overrides keyed by "owner/repo".
type RepoConfig struct {
	ItemCap     int    `yaml:"item_cap" validate:"gte=0"`
	Environment string `yaml:"environment"`
}

// ServerConfig configures the HTTP API started by `velocity serve`.
type ServerConfig struct {
	Addr           string        `yaml:"addr" env:"VELOCITY_ADDR" validate:"required"`
	RequestTimeout time.Duration `yaml:"request_timeout" env:"VELOCITY_REQUEST_TIMEOUT" validate:"gt=0"`
	CacheSize      int           `yaml:"cache_size" env:"VELOCITY_CACHE_SIZE" validate:"gt=0"`
	CacheTTL       time.Duration `yaml:"cache_ttl" env:"VELOCITY_CACHE_TTL" validate:"gt=0"`
}

// DefaultConfig returns a Config suitable for public GitHub.com usage.
func DefaultConfig() *Config {
	return &Config{
		GitHub: GitHubConfig{
			GraphQLEndpoint:   "https://api.github.com/graphql",
			Host:              "github.com",
			TokenEnv:          "GITHUB_TOKEN",
			RequestsPerMinute: 60,
			HTTPTimeout:       30 * time.Second,
		},
		Retry: RetryConfig{
			MaxAttempts: 3,
			BackoffBase: 2,
			BackoffUnit: time.Second,
		},
		Defaults: DefaultsConfig{
			ItemCap:     0,
			Environment: "production",
		},
		Repositories: make(map[string]RepoConfig),
		Identities:   make(map[string]string),
		Server: ServerConfig{
			Addr:           ":8080",
			RequestTimeout: 2 * time.Minute,
			CacheSize:      128,
			CacheTTL:       15 * time.Minute,
		},
		Log: logger.Config{
			Level:  "info",
			Format: "console",
		},
	}
}
