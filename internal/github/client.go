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

import "context"

// Executor runs a single typed GraphQL query.
// This interface allows for easy mocking in tests.
type Executor interface {
	// Execute populates query, a shurcooL/graphql query struct, using variables.
	Execute(ctx context.Context, query interface{}, variables map[string]interface{}) error
}

// Observer is notified of every HTTP request the client sends, retries included.
type Observer interface {
	IncrementAPICall()
}
