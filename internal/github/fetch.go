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

	"github.com/shurcooL/graphql"
	"go.uber.org/zap"
)

// Fetcher retrieves commits, pull requests and deployments for one repository.
type Fetcher struct {
	exec Executor
	log  *zap.Logger
}

// NewFetcher creates a Fetcher that runs its queries through exec.
func NewFetcher(exec Executor, log *zap.Logger) *Fetcher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Fetcher{exec: exec, log: log}
}

// FetchCommits returns the commits authored by email across all branches.
// Only the first 100 commits of each branch are considered, and a commit
// reachable from several branches is returned once per branch.
func (f *Fetcher) FetchCommits(ctx context.Context, owner, repo, email string, opts FetchOptions) ([]Commit, error) {
	log := f.log.With(zap.String("entity", "commits"), zap.String("repository", owner+"/"+repo))
	vars := map[string]interface{}{
		"owner":  graphql.String(owner),
		"repo":   graphql.String(repo),
		"author": graphql.String(email),
	}
	commits, err := FetchPaginated(ctx, f.exec, vars, extractCommits, opts.ItemCap, log)
	log.Info("fetched commits", zap.Int("count", len(commits)))
	return commits, err
}

// FetchPullRequests returns merged pull requests opened by the login that
// opts.Resolver derives from email.
func (f *Fetcher) FetchPullRequests(ctx context.Context, owner, repo, email string, opts FetchOptions) ([]PullRequest, error) {
	login := opts.Resolver.resolve(email)
	log := f.log.With(
		zap.String("entity", "pull_requests"),
		zap.String("repository", owner+"/"+repo),
		zap.String("login", login))
	vars := map[string]interface{}{
		"owner": graphql.String(owner),
		"repo":  graphql.String(repo),
	}
	prs, err := FetchPaginated(ctx, f.exec, vars, extractPullRequests(login), opts.ItemCap, log)
	log.Info("fetched pull requests", zap.Int("count", len(prs)))
	return prs, err
}

// FetchDeployments returns the deployments to opts.Environment, oldest first.
func (f *Fetcher) FetchDeployments(ctx context.Context, owner, repo string, opts FetchOptions) ([]Deployment, error) {
	env := opts.Environment
	if env == "" {
		env = DefaultEnvironment
	}
	log := f.log.With(
		zap.String("entity", "deployments"),
		zap.String("repository", owner+"/"+repo),
		zap.String("environment", env))
	vars := map[string]interface{}{
		"owner":       graphql.String(owner),
		"repo":        graphql.String(repo),
		"environment": graphql.String(env),
	}
	deployments, err := FetchPaginated(ctx, f.exec, vars, extractDeployments, opts.ItemCap, log)
	log.Info("fetched deployments", zap.Int("count", len(deployments)))
	return deployments, err
}
