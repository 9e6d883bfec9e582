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

// Package main implements the velocity command-line interface.
// It reports developer velocity metrics for a GitHub repository from the
// GraphQL API, either once from the command line or on demand over HTTP.
//
// Usage:
//
//	velocity report <owner>/<repo> --email <address> [flags]
//	velocity serve [--addr :8080]
//
// Example:
//
//	export GITHUB_TOKEN=your_token
//	velocity report golang/go --email dev@example.com --deploy --csv timings.csv
//
// Exit codes:
//   - 0: Success
//   - 1: General error
//   - 2: Authentication, configuration, not-found or rate-limit error
//   - 3: Network error or retries exhausted
package main
