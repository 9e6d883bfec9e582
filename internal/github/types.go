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

import "time"

// Commit is a single commit authored by the user under analysis.
type Commit struct {
	OID           string    `json:"oid"`
	CommittedDate time.Time `json:"committed_date"`
	Additions     int       `json:"additions"`
	Deletions     int       `json:"deletions"`
}

// Size returns the number of changed lines in the commit.
func (c Commit) Size() int {
	return c.Additions + c.Deletions
}

// EventKind identifies the timeline items the pull request query asks for.
type EventKind string

const (
	EventReviewRequested   EventKind = "ReviewRequestedEvent"
	EventPullRequestReview EventKind = "PullRequestReview"
)

// ReviewState is the state of a submitted review.
type ReviewState string

const (
	ReviewApproved         ReviewState = "APPROVED"
	ReviewChangesRequested ReviewState = "CHANGES_REQUESTED"
	ReviewCommented        ReviewState = "COMMENTED"
	ReviewDismissed        ReviewState = "DISMISSED"
	ReviewPending          ReviewState = "PENDING"
)

// TimelineEvent is either a review request or a submitted review.
// State is only set for EventPullRequestReview.
type TimelineEvent struct {
	Kind      EventKind   `json:"kind"`
	CreatedAt time.Time   `json:"created_at"`
	State     ReviewState `json:"state,omitempty"`
}

// PullRequest is a merged pull request with the commits and timeline events
// needed to compute cycle timings.
type PullRequest struct {
	Title       string          `json:"title"`
	AuthorLogin string          `json:"author_login"`
	CreatedAt   time.Time       `json:"created_at"`
	MergedAt    *time.Time      `json:"merged_at,omitempty"`
	Commits     []Commit        `json:"commits"`
	Timeline    []TimelineEvent `json:"timeline"`
}

// Deployment is a deployment of a commit to an environment.
type Deployment struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	State     string    `json:"state"`
	CommitOID string    `json:"commit_oid"`
}

// Page is one page of a paginated connection.
type Page[T any] struct {
	Nodes       []T
	HasNextPage bool
	EndCursor   string
}

// FetchOptions configures a paginated fetch.
type FetchOptions struct {
	// ItemCap stops pagination once this many items are collected.
	// Zero or negative means no cap.
	ItemCap int

	// Resolver maps the analysed email to a GitHub login for pull request
	// filtering. Defaults to EmailLocalPart.
	Resolver LoginResolver

	// Environment selects deployments. Defaults to DefaultEnvironment.
	Environment string
}

// DefaultEnvironment is the deployment environment used when none is set.
const DefaultEnvironment = "production"
