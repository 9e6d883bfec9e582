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

package github

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/shurcooL/graphql"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	velocityerrors "github.com/sirseerhq/sirseer-velocity/internal/errors"
	"github.com/sirseerhq/sirseer-velocity/internal/giterror"
)

// DefaultEndpoint is the public GitHub GraphQL endpoint.
const DefaultEndpoint = "https://api.github.com/graphql"

// ClientConfig configures a GraphQLClient.
type ClientConfig struct {
	Endpoint string
	Token    string
	Retry    RetryConfig

	// RequestsPerMinute throttles outgoing requests. Zero disables throttling.
	// Ignored when Limiter is set.
	RequestsPerMinute int
	// Limiter is shared between clients that must respect a common budget.
	Limiter *rate.Limiter

	HTTPTimeout time.Duration
	// Transport replaces the default base transport. Authentication and status
	// handling are always layered on top.
	Transport http.RoundTripper

	Observer Observer
	Logger   *zap.Logger
}

// GraphQLClient executes typed queries against GitHub's GraphQL API with
// throttling and retries of transport failures.
type GraphQLClient struct {
	client    *graphql.Client
	retry     RetryConfig
	limiter   *rate.Limiter
	observer  Observer
	inspector giterror.Inspector
	log       *zap.Logger
	sleep     func(ctx context.Context, d time.Duration) error
}

// NewGraphQLClient creates a client for cfg. It fails with ErrMissingToken
// when no token is configured; nothing is sent in that case.
func NewGraphQLClient(cfg ClientConfig) (*GraphQLClient, error) {
	if cfg.Token == "" {
		return nil, velocityerrors.ErrMissingToken
	}
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}

	limiter := cfg.Limiter
	if limiter == nil {
		limiter = NewLimiter(cfg.RequestsPerMinute)
	}

	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	httpClient := &http.Client{
		Transport: newTransport(cfg.Token, cfg.Transport),
		Timeout:   cfg.HTTPTimeout,
	}

	return &GraphQLClient{
		client:    graphql.NewClient(endpoint, httpClient),
		retry:     cfg.Retry.withDefaults(),
		limiter:   limiter,
		observer:  cfg.Observer,
		inspector: giterror.NewInspector(),
		log:       log.With(zap.String("endpoint", endpoint)),
		sleep:     sleepContext,
	}, nil
}

// NewLimiter returns a limiter allowing requestsPerMinute requests per minute
// with a burst of the same size. Zero or negative means unlimited.
func NewLimiter(requestsPerMinute int) *rate.Limiter {
	if requestsPerMinute <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	return rate.NewLimiter(rate.Limit(float64(requestsPerMinute)/60), requestsPerMinute)
}

// Execute implements Executor. Transport failures are retried with exponential
// backoff up to the configured number of attempts. GraphQL errors and
// undecodable responses are returned immediately.
func (c *GraphQLClient) Execute(ctx context.Context, query interface{}, variables map[string]interface{}) error {
	var lastErr error
	for attempt := 1; attempt <= c.retry.MaxAttempts; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("waiting for rate limiter: %w", err)
		}
		if c.observer != nil {
			c.observer.IncrementAPICall()
		}

		err := c.client.Query(ctx, query, variables)
		if err == nil {
			return nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		if !c.inspector.IsTransportError(err) {
			c.log.Warn("graphql query failed", zap.Int("attempt", attempt), zap.Error(err))
			return fmt.Errorf("%w: %w", velocityerrors.ErrGraphQL, c.mapError(err))
		}

		lastErr = err
		if attempt == c.retry.MaxAttempts {
			break
		}

		backoff := c.retry.Backoff(attempt)
		c.log.Warn("transport failure, retrying",
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", c.retry.MaxAttempts),
			zap.Duration("backoff", backoff),
			zap.Error(err))
		if err := c.sleep(ctx, backoff); err != nil {
			return err
		}
	}

	c.log.Error("all attempts failed",
		zap.Int("attempts", c.retry.MaxAttempts),
		zap.Error(lastErr))
	return fmt.Errorf("%w after %d attempts: %w",
		velocityerrors.ErrRetriesExhausted, c.retry.MaxAttempts, c.mapError(lastErr))
}

// mapError attaches the matching domain sentinel to err while keeping err in the chain.
func (c *GraphQLClient) mapError(err error) error {
	// Check rate limit first, as 403 can be both auth and rate limit
	switch {
	case c.inspector.IsRateLimitError(err):
		return fmt.Errorf("GitHub API rate limit exceeded: %w: %w", velocityerrors.ErrRateLimit, err)
	case c.inspector.IsAuthError(err):
		return fmt.Errorf("GitHub API authentication failed: %w: %w", velocityerrors.ErrInvalidToken, err)
	case c.inspector.IsNotFoundError(err):
		return fmt.Errorf("%w: %w", velocityerrors.ErrRepoNotFound, err)
	case c.inspector.IsTransportError(err):
		return fmt.Errorf("%w: %w", velocityerrors.ErrNetworkFailure, err)
	default:
		return err
	}
}
