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

// Package errors defines the sentinel errors shared by the GitHub client,
// the report runner, the HTTP API and the CLI exit-code mapping.
// Callers wrap them with %w and test with errors.Is.
package errors

import "errors"

// Sentinels, grouped by the exit code the CLI maps them to.
var (
	// ErrMissingToken indicates no GitHub token could be resolved at startup.
	// Maps to exit code 2.
	ErrMissingToken = errors.New("github token not configured")

	// ErrInvalidToken indicates GitHub authentication failed.
	// Maps to exit code 2.
	ErrInvalidToken = errors.New("invalid github token")

	// ErrRepoNotFound indicates the specified repository does not exist or is not accessible.
	// Maps to exit code 2.
	ErrRepoNotFound = errors.New("repository not found")

	// ErrNetworkFailure indicates a network connection problem.
	// Maps to exit code 3.
	ErrNetworkFailure = errors.New("network connection failed")

	// ErrRateLimit indicates GitHub API rate limit has been exceeded.
	// Maps to exit code 2.
	ErrRateLimit = errors.New("github rate limit exceeded")

	// ErrInvalidConfig indicates the configuration could not be loaded or failed validation.
	// Maps to exit code 2.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrGraphQL indicates the API answered with a GraphQL error payload.
	// These are permanent for the query that produced them and are never retried.
	ErrGraphQL = errors.New("graphql query failed")

	// ErrMalformedResponse indicates the response did not contain the expected field path.
	ErrMalformedResponse = errors.New("malformed graphql response")

	// ErrRetriesExhausted indicates every attempt of a query failed with a transport error.
	// Maps to exit code 3.
	ErrRetriesExhausted = errors.New("retries exhausted")

	// ErrPartialResult indicates pagination stopped early; the nodes returned
	// alongside it are valid but incomplete.
	ErrPartialResult = errors.New("partial result")
)
