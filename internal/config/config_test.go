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

package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	velocityerrors "github.com/sirseerhq/sirseer-velocity/internal/errors"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.GitHub.GraphQLEndpoint != "https://api.github.com/graphql" {
		t.Errorf("GraphQLEndpoint = %s, want https://api.github.com/graphql", cfg.GitHub.GraphQLEndpoint)
	}
	if cfg.GitHub.TokenEnv != "GITHUB_TOKEN" {
		t.Errorf("TokenEnv = %s, want GITHUB_TOKEN", cfg.GitHub.TokenEnv)
	}
	if cfg.Retry.MaxAttempts != 3 {
		t.Errorf("MaxAttempts = %d, want 3", cfg.Retry.MaxAttempts)
	}
	if cfg.Retry.BackoffBase != 2 {
		t.Errorf("BackoffBase = %v, want 2", cfg.Retry.BackoffBase)
	}
	if cfg.Retry.BackoffUnit != time.Second {
		t.Errorf("BackoffUnit = %v, want 1s", cfg.Retry.BackoffUnit)
	}
	if cfg.Defaults.Environment != "production" {
		t.Errorf("Environment = %s, want production", cfg.Defaults.Environment)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should be valid: %v", err)
	}
}

func TestLoadConfigFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
github:
  graphql_endpoint: https://github.enterprise.com/api/graphql
  host: github.enterprise.com
  token_env: GITHUB_ENTERPRISE_TOKEN
  http_timeout: 45s

retry:
  max_attempts: 5
  backoff_base: 3
  backoff_unit: 500ms

defaults:
  item_cap: 200
  environment: prod

repositories:
  "org/repo":
    item_cap: 10
    environment: live

identities:
  dev@example.com: octodev

log:
  level: debug
  format: json
`
	if err := os.WriteFile(configPath, []byte(configContent), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(configPath)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Identities["dev@example.com"] != "octodev" {
		t.Errorf("Identities = %v", cfg.Identities)
	}
	if cfg.GitHub.GraphQLEndpoint != "https://github.enterprise.com/api/graphql" {
		t.Errorf("GraphQLEndpoint = %s", cfg.GitHub.GraphQLEndpoint)
	}
	if cfg.GitHub.TokenEnv != "GITHUB_ENTERPRISE_TOKEN" {
		t.Errorf("TokenEnv = %s", cfg.GitHub.TokenEnv)
	}
	if cfg.GitHub.HTTPTimeout != 45*time.Second {
		t.Errorf("HTTPTimeout = %v, want 45s", cfg.GitHub.HTTPTimeout)
	}
	if cfg.Retry.MaxAttempts != 5 || cfg.Retry.BackoffBase != 3 || cfg.Retry.BackoffUnit != 500*time.Millisecond {
		t.Errorf("Retry = %+v", cfg.Retry)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "json" {
		t.Errorf("Log = %+v", cfg.Log)
	}
	// Values absent from the file keep their defaults.
	if cfg.Server.Addr != ":8080" {
		t.Errorf("Server.Addr = %s, want :8080", cfg.Server.Addr)
	}

	repo := cfg.ForRepo("org/repo")
	if repo.ItemCap != 10 || repo.Environment != "live" {
		t.Errorf("ForRepo(org/repo) = %+v", repo)
	}
	other := cfg.ForRepo("other/repo")
	if other.ItemCap != 200 || other.Environment != "prod" {
		t.Errorf("ForRepo(other/repo) = %+v", other)
	}
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("retry:\n  max_attempts: 4\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	t.Setenv("GITHUB_GRAPHQL_ENDPOINT", "http://localhost:9999/graphql")
	t.Setenv("VELOCITY_RETRY_MAX_ATTEMPTS", "6")
	t.Setenv("VELOCITY_ITEM_CAP", "25")

	cfg, err := LoadConfig(configPath)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.GitHub.GraphQLEndpoint != "http://localhost:9999/graphql" {
		t.Errorf("GraphQLEndpoint = %s", cfg.GitHub.GraphQLEndpoint)
	}
	if cfg.Retry.MaxAttempts != 6 {
		t.Errorf("MaxAttempts = %d, want 6 (env beats file)", cfg.Retry.MaxAttempts)
	}
	if cfg.Defaults.ItemCap != 25 {
		t.Errorf("ItemCap = %d, want 25", cfg.Defaults.ItemCap)
	}
}

func TestLoadConfig_Errors(t *testing.T) {
	tmpDir := t.TempDir()

	tests := []struct {
		name    string
		content string
	}{
		{
			name:    "invalid yaml",
			content: "github: [unclosed",
		},
		{
			name:    "zero attempts",
			content: "retry:\n  max_attempts: 0\n",
		},
		{
			name:    "empty endpoint",
			content: "github:\n  graphql_endpoint: \"\"\n",
		},
		{
			name:    "negative item cap",
			content: "defaults:\n  item_cap: -1\n",
		},
		{
			name:    "unknown log level",
			content: "log:\n  level: chatty\n",
		},
	}

	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(tmpDir, "bad"+string(rune('a'+i))+".yaml")
			if err := os.WriteFile(path, []byte(tt.content), 0o600); err != nil {
				t.Fatal(err)
			}
			if _, err := LoadConfig(path); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}

	t.Run("missing explicit file", func(t *testing.T) {
		if _, err := LoadConfig(filepath.Join(tmpDir, "nope.yaml")); err == nil {
			t.Error("expected error, got nil")
		}
	})
}

func TestResolveToken(t *testing.T) {
	original := ghTokenForHost
	t.Cleanup(func() { ghTokenForHost = original })

	tests := []struct {
		name      string
		flag      string
		env       string
		ghToken   string
		want      string
		wantError bool
	}{
		{name: "flag wins", flag: "flag-token", env: "env-token", ghToken: "gh-token", want: "flag-token"},
		{name: "env next", env: "env-token", ghToken: "gh-token", want: "env-token"},
		{name: "gh credentials last", ghToken: "gh-token", want: "gh-token"},
		{name: "nothing configured", wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.GitHub.TokenEnv = "VELOCITY_TEST_TOKEN"
			t.Setenv("VELOCITY_TEST_TOKEN", tt.env)
			ghTokenForHost = func(string) (string, string) { return tt.ghToken, "test" }

			got, err := cfg.ResolveToken(tt.flag)
			if tt.wantError {
				if !errors.Is(err, velocityerrors.ErrMissingToken) {
					t.Errorf("expected ErrMissingToken, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ResolveToken() = %q, want %q", got, tt.want)
			}
		})
	}
}
