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

// Package github fetches the data behind developer velocity metrics from
// GitHub's GraphQL API: commits by author across branches, merged pull
// requests with their review timeline, and deployments to an environment.
//
// GraphQLClient executes typed shurcooL/graphql queries with request
// throttling and exponential backoff on transport failures. FetchPaginated
// drives cursor pagination for any query; Fetcher wires the three queries.
//
// Basic usage:
//
//	client, err := github.NewGraphQLClient(github.ClientConfig{Token: token})
//	if err != nil {
//	    // Handle error
//	}
//	fetcher := github.NewFetcher(client, logger)
//	prs, err := fetcher.FetchPullRequests(ctx, "golang", "go", "dev@example.com", github.FetchOptions{})
//	if errors.Is(err, errors.ErrPartialResult) {
//	    // prs holds what was fetched before the failure
//	}
package github
