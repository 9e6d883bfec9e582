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
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/sirseerhq/sirseer-velocity/internal/metadata"
	"github.com/sirseerhq/sirseer-velocity/internal/output"
	"github.com/sirseerhq/sirseer-velocity/internal/report"
)

// reportOptions holds the flags of the report command.
type reportOptions struct {
	email        string
	deployAware  bool
	environment  string
	csvFile      string
	ndjsonFile   string
	metadataFile string
	itemCap      int
	timeout      time.Duration
}

func newReportCommand(global *globalOptions) *cobra.Command {
	opts := &reportOptions{}

	cmd := &cobra.Command{
		Use:   "report <owner>/<repo>",
		Short: "Compute velocity metrics for one developer in a repository",
		Long: `Compute velocity metrics for the developer identified by --email.

Commits are matched by author email across all branches. Merged pull requests
are matched by the GitHub login derived from the email: the identities map in
the config file wins, otherwise the part before '@' is used.

With --deploy, deployments to --environment are fetched and each pull
request gets a deploy time.

Authentication is required via GitHub token:
  - Use --token flag to provide token directly
  - Or set GITHUB_TOKEN environment variable
  - Or log in with the gh CLI`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), opts.timeout)
			defer cancel()

			return runReport(ctx, cmd.OutOrStdout(), global, opts, args[0])
		},
	}

	opts.addFlags(cmd.Flags())
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

func (o *reportOptions) addFlags(fs *pflag.FlagSet) {
	fs.StringVar(&o.email, "email", "", "Developer email address (required)")
	fs.BoolVar(&o.deployAware, "deploy", false, "Fetch deployments and compute deploy times")
	fs.StringVar(&o.environment, "environment", "", "Deployment environment (default from config: production)")
	fs.StringVar(&o.csvFile, "csv", "", "Write per pull request timings as CSV to this file")
	fs.StringVar(&o.ndjsonFile, "ndjson", "", "Write per pull request timings as NDJSON to this file")
	fs.StringVar(&o.metadataFile, "metadata-file", "", "Write run metadata as JSON to this file")
	fs.IntVar(&o.itemCap, "item-cap", 0, "Maximum items fetched per entity (default from config: unlimited)")
	fs.DurationVar(&o.timeout, "timeout", 10*time.Minute, "Deadline for the whole run")
}

// runReport executes the report command. Output files and the summary are
// written even when a fetch stopped early; the partial cause is returned
// afterwards so the exit code reflects it.
func runReport(ctx context.Context, stdout io.Writer, global *globalOptions, opts *reportOptions, repoArg string) error {
	owner, repo, err := parseRepository(repoArg)
	if err != nil {
		return err
	}
	if strings.TrimSpace(opts.email) == "" {
		return fmt.Errorf("--email must not be empty")
	}
	if opts.itemCap < 0 {
		return fmt.Errorf("--item-cap must not be negative, got %d", opts.itemCap)
	}

	cfg, log, err := global.load()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	token, err := cfg.ResolveToken(global.token)
	if err != nil {
		return err
	}

	runner, err := report.NewRunner(cfg, token, log)
	if err != nil {
		return err
	}

	result, err := runner.Run(ctx, report.Request{
		Owner:       owner,
		Repo:        repo,
		Email:       strings.TrimSpace(opts.email),
		DeployAware: opts.deployAware,
		Environment: opts.environment,
		ItemCap:     opts.itemCap,
	})
	if err != nil {
		return err
	}

	if err := writeOutputs(result, opts, log); err != nil {
		return err
	}
	if err := output.PrintSummary(stdout, result.Report); err != nil {
		return fmt.Errorf("failed to print summary: %w", err)
	}

	if result.Err != nil {
		return fmt.Errorf("report is incomplete (%s): %w", strings.Join(result.Report.Partial, ", "), result.Err)
	}
	return nil
}

func writeOutputs(result *report.Result, opts *reportOptions, log *zap.Logger) error {
	if opts.csvFile != "" {
		w, err := output.NewCSVFileWriter(opts.csvFile, result.Report.DeployAware)
		if err != nil {
			return fmt.Errorf("failed to create CSV file: %w", err)
		}
		if err := writeTimings(w, result); err != nil {
			return err
		}
		log.Info("wrote CSV timings", zap.String("path", opts.csvFile), zap.Int("rows", w.Count()))
	}

	if opts.ndjsonFile != "" {
		w, err := output.NewFileWriter(opts.ndjsonFile)
		if err != nil {
			return fmt.Errorf("failed to create NDJSON file: %w", err)
		}
		if err := writeTimings(w, result); err != nil {
			return err
		}
		log.Info("wrote NDJSON timings", zap.String("path", opts.ndjsonFile), zap.Int("rows", w.Count()))
	}

	if opts.metadataFile != "" {
		if err := metadata.SaveMetadata(result.Metadata, opts.metadataFile); err != nil {
			return fmt.Errorf("failed to save metadata: %w", err)
		}
		log.Info("wrote run metadata", zap.String("path", opts.metadataFile), zap.String("run_id", result.Metadata.RunID))
	}
	return nil
}

func writeTimings(w output.OutputWriter, result *report.Result) error {
	if err := output.WriteTimings(w, result.Report); err != nil {
		_ = w.Close()
		return fmt.Errorf("failed to write timings: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to close output: %w", err)
	}
	return nil
}

// parseRepository parses an owner/repo string into its components
func parseRepository(repoArg string) (owner, repo string, err error) {
	parts := strings.Split(repoArg, "/")
	if len(parts) != 2 {
		return "", "", fmt.Errorf("invalid repository format. Expected: <owner>/<repo>, got: %s", repoArg)
	}

	owner = strings.TrimSpace(parts[0])
	repo = strings.TrimSpace(parts[1])

	if owner == "" || repo == "" {
		return "", "", fmt.Errorf("invalid repository format. Expected: <owner>/<repo>, got: %s", repoArg)
	}

	return owner, repo, nil
}
