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

package testutil

import (
	"fmt"
	"time"
)

// Envelope wraps a data object in a GraphQL response body.
func Envelope(data interface{}) map[string]interface{} {
	return map[string]interface{}{"data": data}
}

// ErrorResponse builds a GraphQL response body carrying only errors.
func ErrorResponse(messages ...string) map[string]interface{} {
	errs := make([]map[string]interface{}, 0, len(messages))
	for _, msg := range messages {
		errs = append(errs, map[string]interface{}{"message": msg})
	}
	return map[string]interface{}{"data": nil, "errors": errs}
}

func pageInfo(hasNext bool, cursor string) map[string]interface{} {
	var endCursor interface{}
	if cursor != "" {
		endCursor = cursor
	}
	return map[string]interface{}{
		"hasNextPage": hasNext,
		"endCursor":   endCursor,
	}
}

// CommitNode builds a commit history node.
func CommitNode(oid string, committedAt time.Time, additions, deletions int) map[string]interface{} {
	return map[string]interface{}{
		"oid":           oid,
		"committedDate": committedAt.UTC().Format(time.RFC3339),
		"additions":     additions,
		"deletions":     deletions,
	}
}

// Branch builds a ref node whose target commit history holds commits.
func Branch(name string, commits ...map[string]interface{}) map[string]interface{} {
	if commits == nil {
		commits = []map[string]interface{}{}
	}
	return map[string]interface{}{
		"name": name,
		"target": map[string]interface{}{
			"history": map[string]interface{}{"nodes": commits},
		},
	}
}

// CommitsData builds the data object of one page of the commit history query.
func CommitsData(hasNext bool, cursor string, branches ...map[string]interface{}) map[string]interface{} {
	if branches == nil {
		branches = []map[string]interface{}{}
	}
	return map[string]interface{}{
		"repository": map[string]interface{}{
			"refs": map[string]interface{}{
				"nodes":    branches,
				"pageInfo": pageInfo(hasNext, cursor),
			},
		},
	}
}

// PullRequestBuilder provides a fluent API for creating merged pull request nodes
type PullRequestBuilder struct {
	title     string
	author    string
	createdAt time.Time
	mergedAt  *time.Time
	commits   []map[string]interface{}
	timeline  []map[string]interface{}
}

// NewPullRequestBuilder creates a PR builder with defaults
func NewPullRequestBuilder(number int) *PullRequestBuilder {
	created := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC).AddDate(0, 0, number)
	merged := created.Add(4 * time.Hour)
	return &PullRequestBuilder{
		title:     fmt.Sprintf("PR %d", number),
		author:    "dev",
		createdAt: created,
		mergedAt:  &merged,
	}
}

// WithTitle sets the PR title
func (b *PullRequestBuilder) WithTitle(title string) *PullRequestBuilder {
	b.title = title
	return b
}

// WithAuthor sets the PR author login; an empty login yields a null author
func (b *PullRequestBuilder) WithAuthor(login string) *PullRequestBuilder {
	b.author = login
	return b
}

// WithCreatedAt sets the creation time
func (b *PullRequestBuilder) WithCreatedAt(t time.Time) *PullRequestBuilder {
	b.createdAt = t
	return b
}

// WithMergedAt sets the merge time
func (b *PullRequestBuilder) WithMergedAt(t time.Time) *PullRequestBuilder {
	b.mergedAt = &t
	return b
}

// Unmerged clears the merge time
func (b *PullRequestBuilder) Unmerged() *PullRequestBuilder {
	b.mergedAt = nil
	return b
}

// WithCommit appends a commit to the PR
func (b *PullRequestBuilder) WithCommit(oid string, committedAt time.Time) *PullRequestBuilder {
	b.commits = append(b.commits, map[string]interface{}{
		"commit": CommitNode(oid, committedAt, 0, 0),
	})
	return b
}

// WithReviewRequested appends a ReviewRequestedEvent
func (b *PullRequestBuilder) WithReviewRequested(at time.Time) *PullRequestBuilder {
	b.timeline = append(b.timeline, map[string]interface{}{
		"__typename": "ReviewRequestedEvent",
		"createdAt":  at.UTC().Format(time.RFC3339),
	})
	return b
}

// WithReview appends a PullRequestReview in the given state
func (b *PullRequestBuilder) WithReview(state string, at time.Time) *PullRequestBuilder {
	b.timeline = append(b.timeline, map[string]interface{}{
		"__typename": "PullRequestReview",
		"createdAt":  at.UTC().Format(time.RFC3339),
		"state":      state,
	})
	return b
}

// Build creates the PR node map
func (b *PullRequestBuilder) Build() map[string]interface{} {
	var author interface{}
	if b.author != "" {
		author = map[string]interface{}{"login": b.author}
	}
	var mergedAt interface{}
	if b.mergedAt != nil {
		mergedAt = b.mergedAt.UTC().Format(time.RFC3339)
	}
	commits := b.commits
	if commits == nil {
		commits = []map[string]interface{}{}
	}
	timeline := b.timeline
	if timeline == nil {
		timeline = []map[string]interface{}{}
	}
	return map[string]interface{}{
		"title":         b.title,
		"createdAt":     b.createdAt.UTC().Format(time.RFC3339),
		"mergedAt":      mergedAt,
		"author":        author,
		"commits":       map[string]interface{}{"nodes": commits},
		"timelineItems": map[string]interface{}{"nodes": timeline},
	}
}

// PullRequestsData builds the data object of one page of the pull request query.
func PullRequestsData(hasNext bool, cursor string, prs ...map[string]interface{}) map[string]interface{} {
	if prs == nil {
		prs = []map[string]interface{}{}
	}
	return map[string]interface{}{
		"repository": map[string]interface{}{
			"pullRequests": map[string]interface{}{
				"nodes":    prs,
				"pageInfo": pageInfo(hasNext, cursor),
			},
		},
	}
}

// DeploymentNode builds a deployment node.
func DeploymentNode(id, commitOID string, createdAt time.Time) map[string]interface{} {
	return map[string]interface{}{
		"id":        id,
		"createdAt": createdAt.UTC().Format(time.RFC3339),
		"state":     "ACTIVE",
		"commitOid": commitOID,
	}
}

// DeploymentsData builds the data object of one page of the deployment query.
func DeploymentsData(hasNext bool, cursor string, deployments ...map[string]interface{}) map[string]interface{} {
	if deployments == nil {
		deployments = []map[string]interface{}{}
	}
	return map[string]interface{}{
		"repository": map[string]interface{}{
			"deployments": map[string]interface{}{
				"nodes":    deployments,
				"pageInfo": pageInfo(hasNext, cursor),
			},
		},
	}
}
