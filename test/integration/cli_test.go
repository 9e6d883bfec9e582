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

// Package integration runs the velocity binary end to end against mock
// GraphQL servers.
package integration

import (
	"bytes"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

var (
	buildOnce  sync.Once
	binaryPath string
	buildErr   error
	buildLog   []byte
)

func buildBinary(t *testing.T) string {
	t.Helper()
	buildOnce.Do(func() {
		dir, err := os.MkdirTemp("", "velocity-bin-")
		if err != nil {
			buildErr = err
			return
		}
		binaryPath = filepath.Join(dir, "velocity")
		cmd := exec.Command("go", "build", "-o", binaryPath, "../../cmd/velocity")
		buildLog, buildErr = cmd.CombinedOutput()
	})
	if buildErr != nil {
		t.Fatalf("Failed to build binary: %v\nOutput: %s", buildErr, buildLog)
	}
	return binaryPath
}

// result captures one run of the binary.
type result struct {
	stdout   string
	stderr   string
	exitCode int
}

// run executes the binary with args in a scrubbed environment so no real
// GitHub credentials or config files are picked up.
func run(t *testing.T, env []string, args ...string) result {
	t.Helper()
	home := t.TempDir()

	cmd := exec.Command(buildBinary(t), args...)
	cmd.Dir = home
	cmd.Env = append([]string{
		"HOME=" + home,
		"GH_CONFIG_DIR=" + filepath.Join(home, ".config", "gh"),
		"PATH=",
	}, env...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	code := 0
	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			t.Fatalf("running binary: %v", err)
		}
		code = exitErr.ExitCode()
	}
	return result{stdout: stdout.String(), stderr: stderr.String(), exitCode: code}
}

func TestCLI_InvalidRepoFormat(t *testing.T) {
	tests := []struct {
		name string
		repo string
	}{
		{"missing slash", "invalid-repo-format"},
		{"too many slashes", "org/repo/extra"},
		{"empty owner", "/repo"},
		{"empty repo", "org/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := run(t, nil, "report", tt.repo, "--email", "dev@example.com")
			if res.exitCode != 1 {
				t.Errorf("exit code = %d, want 1", res.exitCode)
			}
			if !strings.Contains(res.stderr, "invalid repository format") {
				t.Errorf("Expected invalid repository error, got: %s", res.stderr)
			}
		})
	}
}

func TestCLI_MissingToken(t *testing.T) {
	res := run(t, nil, "report", "test/repo", "--email", "dev@example.com")
	if res.exitCode != 2 {
		t.Errorf("exit code = %d, want 2", res.exitCode)
	}
	if !strings.Contains(res.stderr, "github token not configured") {
		t.Errorf("Expected missing token error, got: %s", res.stderr)
	}
}

func TestCLI_HelpCommand(t *testing.T) {
	tests := []struct {
		name      string
		args      []string
		wantFlags []string
	}{
		{"main help", []string{"--help"}, []string{"--config", "--token", "--log-level"}},
		{"report help", []string{"report", "--help"}, []string{"--email", "--deploy", "--environment", "--csv", "--ndjson", "--metadata-file", "--item-cap", "--timeout"}},
		{"serve help", []string{"serve", "--help"}, []string{"--addr"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := run(t, nil, tt.args...)
			if res.exitCode != 0 {
				t.Fatalf("Help command failed with exit code %d: %s", res.exitCode, res.stderr)
			}
			if !strings.Contains(res.stdout, "velocity") {
				t.Error("Expected binary name in help output")
			}
			for _, flag := range tt.wantFlags {
				if !strings.Contains(res.stdout, flag) {
					t.Errorf("Expected %s flag in help output", flag)
				}
			}
		})
	}
}

func TestCLI_VersionFlag(t *testing.T) {
	res := run(t, nil, "--version")
	if res.exitCode != 0 {
		t.Fatalf("Version flag failed with exit code %d", res.exitCode)
	}
	if !strings.Contains(res.stdout, "velocity") {
		t.Error("Expected binary name in version output")
	}
}
