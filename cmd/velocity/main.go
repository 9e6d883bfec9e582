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

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sirseerhq/sirseer-velocity/internal/config"
	velocityerrors "github.com/sirseerhq/sirseer-velocity/internal/errors"
	"github.com/sirseerhq/sirseer-velocity/internal/logger"
	"github.com/sirseerhq/sirseer-velocity/pkg/version"
)

// globalOptions holds the persistent flags shared by every command.
type globalOptions struct {
	configPath string
	token      string
	logLevel   string
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		cancel()
		os.Exit(mapErrorToExitCode(err))
	}
}

func newRootCommand() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:   "velocity",
		Short: "Report developer velocity metrics from GitHub",
		Long: `SirSeer Velocity computes commit and pull request cycle-time metrics for one
developer in a GitHub repository: commit counts and sizes, weekly commit
frequency, commit-to-merge times and per pull request coding, pickup, review
and deploy times.`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "Path to config file (default: .velocity.yaml or ~/.sirseer/velocity.yaml)")
	flags.StringVar(&opts.token, "token", "", "GitHub token (overrides the configured token environment variable)")
	flags.StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn or error (overrides config)")

	rootCmd.AddCommand(newReportCommand(opts))
	rootCmd.AddCommand(newServeCommand(opts))

	return rootCmd
}

// load reads the configuration and builds the logger. It does not touch the network.
func (o *globalOptions) load() (*config.Config, *zap.Logger, error) {
	cfg, err := config.LoadConfig(o.configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", velocityerrors.ErrInvalidConfig, err)
	}
	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	}
	log, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", velocityerrors.ErrInvalidConfig, err)
	}
	return cfg, log, nil
}

// mapErrorToExitCode maps internal errors to appropriate exit codes
func mapErrorToExitCode(err error) int {
	if err == nil {
		return 0
	}

	if errors.Is(err, velocityerrors.ErrMissingToken) ||
		errors.Is(err, velocityerrors.ErrInvalidToken) ||
		errors.Is(err, velocityerrors.ErrInvalidConfig) ||
		errors.Is(err, velocityerrors.ErrRepoNotFound) {
		return 2
	}

	// A rate limit that outlasted every retry is reported as exhausted retries.
	if errors.Is(err, velocityerrors.ErrNetworkFailure) ||
		errors.Is(err, velocityerrors.ErrRetriesExhausted) {
		return 3
	}

	if errors.Is(err, velocityerrors.ErrRateLimit) {
		return 2
	}

	return 1
}
