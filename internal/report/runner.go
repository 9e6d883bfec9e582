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

// Package report runs one velocity report end to end: it builds a GitHub
// client for the run, fetches commits, pull requests and optionally
// deployments, records the run in a metadata tracker and computes metrics.
package report

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sirseerhq/sirseer-velocity/internal/config"
	velocityerrors "github.com/sirseerhq/sirseer-velocity/internal/errors"
	"github.com/sirseerhq/sirseer-velocity/internal/github"
	"github.com/sirseerhq/sirseer-velocity/internal/metadata"
	"github.com/sirseerhq/sirseer-velocity/internal/metrics"
	"github.com/sirseerhq/sirseer-velocity/pkg/version"
)

// Entity names used in metadata and partial-result reporting.
const (
	EntityCommits      = "commits"
	EntityPullRequests = "pull_requests"
	EntityDeployments  = "deployments"
)

// Request identifies what to report on.
type Request struct {
	Owner string
	Repo  string
	Email string

	DeployAware bool
	// Environment overrides the configured deployment environment when set.
	Environment string
	// ItemCap overrides the configured item cap when positive.
	ItemCap int
}

// Repository returns "owner/repo".
func (r Request) Repository() string {
	return r.Owner + "/" + r.Repo
}

// Result is the outcome of a run.
type Result struct {
	Report   metrics.Report
	Metadata *metadata.RunMetadata
	// Err is the first partial-fetch error, if any entity stopped early.
	Err error
}

// Runner executes report runs. A Runner may be shared between goroutines;
// every run gets its own client and tracker and only the rate limiter is shared.
type Runner struct {
	cfg       *config.Config
	token     string
	limiter   *rate.Limiter
	resolver  github.LoginResolver
	transport http.RoundTripper
	log       *zap.Logger
	now       func() time.Time
}

// Option customizes a Runner.
type Option func(*Runner)

// WithTransport replaces the base HTTP transport of every client the runner builds.
func WithTransport(rt http.RoundTripper) Option {
	return func(r *Runner) { r.transport = rt }
}

// WithClock replaces the clock used to stamp reports.
func WithClock(now func() time.Time) Option {
	return func(r *Runner) { r.now = now }
}

// NewRunner creates a Runner. It fails with ErrMissingToken before any
// network activity when token is empty.
func NewRunner(cfg *config.Config, token string, log *zap.Logger, opts ...Option) (*Runner, error) {
	if token == "" {
		return nil, velocityerrors.ErrMissingToken
	}
	if log == nil {
		log = zap.NewNop()
	}
	r := &Runner{
		cfg:      cfg,
		token:    token,
		limiter:  github.NewLimiter(cfg.GitHub.RequestsPerMinute),
		resolver: github.StaticLogins(cfg.Identities),
		log:      log,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Run fetches everything req needs and computes the report.
//
// A fetch that stops early does not abort the run: the data collected so far
// is used, the entity is flagged as partial and Result.Err carries the cause.
// Authentication failures, unknown repositories and cancellation abort the
// run with an error.
func (r *Runner) Run(ctx context.Context, req Request) (*Result, error) {
	tracker := metadata.New()
	log := r.log.With(
		zap.String("run_id", tracker.RunID()),
		zap.String("repository", req.Repository()))

	defaults := r.cfg.ForRepo(req.Repository())
	if req.ItemCap > 0 {
		defaults.ItemCap = req.ItemCap
	}
	if req.Environment != "" {
		defaults.Environment = req.Environment
	}

	client, err := github.NewGraphQLClient(github.ClientConfig{
		Endpoint: r.cfg.GitHub.GraphQLEndpoint,
		Token:    r.token,
		Retry: github.RetryConfig{
			MaxAttempts: r.cfg.Retry.MaxAttempts,
			BackoffBase: r.cfg.Retry.BackoffBase,
			BackoffUnit: r.cfg.Retry.BackoffUnit,
		},
		Limiter:     r.limiter,
		HTTPTimeout: r.cfg.GitHub.HTTPTimeout,
		Transport:   r.transport,
		Observer:    tracker,
		Logger:      log,
	})
	if err != nil {
		return nil, err
	}

	fetcher := github.NewFetcher(client, log)
	opts := github.FetchOptions{
		ItemCap:     defaults.ItemCap,
		Resolver:    r.resolver,
		Environment: defaults.Environment,
	}

	log.Info("starting report",
		zap.String("email", req.Email),
		zap.Bool("deploy_aware", req.DeployAware),
		zap.Int("item_cap", opts.ItemCap))

	var firstErr error
	record := func(entity string, count int, err error) error {
		tracker.RecordEntity(entity, count, err)
		log.Debug("entity fetched",
			zap.String("entity", entity),
			zap.Int("count", count),
			zap.Int("api_calls", tracker.APICalls()))
		if err == nil {
			return nil
		}
		if isFatal(err) {
			return fmt.Errorf("fetching %s: %w", entity, err)
		}
		log.Warn("continuing with partial data", zap.String("entity", entity), zap.Int("count", count), zap.Error(err))
		if firstErr == nil {
			firstErr = fmt.Errorf("fetching %s: %w", entity, err)
		}
		return nil
	}

	commits, err := fetcher.FetchCommits(ctx, req.Owner, req.Repo, req.Email, opts)
	if err := record(EntityCommits, len(commits), err); err != nil {
		return nil, err
	}

	prs, err := fetcher.FetchPullRequests(ctx, req.Owner, req.Repo, req.Email, opts)
	if err := record(EntityPullRequests, len(prs), err); err != nil {
		return nil, err
	}

	var deployments []github.Deployment
	if req.DeployAware {
		deployments, err = fetcher.FetchDeployments(ctx, req.Owner, req.Repo, opts)
		if err := record(EntityDeployments, len(deployments), err); err != nil {
			return nil, err
		}
	}

	report := metrics.Build(metrics.Input{
		Repository:   req.Repository(),
		Email:        req.Email,
		Commits:      commits,
		PullRequests: prs,
		Deployments:  deployments,
		DeployAware:  req.DeployAware,
		Partial:      tracker.PartialEntities(),
	}, r.now())

	md := tracker.GenerateMetadata(version.Version, req.Repository(), req.Email, metadata.RunParams{
		DeployAware: req.DeployAware,
		Environment: deployEnvironment(req.DeployAware, opts.Environment),
		ItemCap:     opts.ItemCap,
	})

	log.Info("report complete",
		zap.Int("commits", report.TotalCommits),
		zap.Int("pull_requests", report.TotalPullRequests),
		zap.Int("api_calls", md.APICalls),
		zap.Bool("partial", md.Partial))

	return &Result{Report: report, Metadata: md, Err: firstErr}, nil
}

// isFatal reports whether err would make every further fetch fail the same way.
func isFatal(err error) bool {
	return errors.Is(err, velocityerrors.ErrInvalidToken) ||
		errors.Is(err, velocityerrors.ErrRepoNotFound) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}

func deployEnvironment(deployAware bool, env string) string {
	if !deployAware {
		return ""
	}
	return env
}
