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

package metrics

import (
	"time"

	"github.com/sirseerhq/sirseer-velocity/internal/github"
)

// PRTiming holds the cycle-time breakdown of one pull request.
// A nil duration means the timing could not be derived.
type PRTiming struct {
	Title       string
	CreatedAt   time.Time
	MergedAt    *time.Time
	FirstCommit *time.Time

	// CodingTime runs from the first commit to pull request creation.
	CodingTime *time.Duration
	// PickupTime runs from creation to the earliest review request.
	PickupTime *time.Duration
	// ReviewTime runs from the last approval seen to merge.
	ReviewTime *time.Duration
	// DeployTime runs from merge to the earliest deployment of the first commit.
	DeployTime *time.Duration
}

// DeploymentIndex maps a commit OID to its earliest deployment time.
type DeploymentIndex map[string]time.Time

// IndexDeployments builds a DeploymentIndex. When a commit was deployed more
// than once the earliest deployment wins.
func IndexDeployments(deployments []github.Deployment) DeploymentIndex {
	idx := make(DeploymentIndex, len(deployments))
	for _, d := range deployments {
		if d.CommitOID == "" {
			continue
		}
		if prev, ok := idx[d.CommitOID]; !ok || d.CreatedAt.Before(prev) {
			idx[d.CommitOID] = d.CreatedAt
		}
	}
	return idx
}

// ComputeTiming derives the timings of pr. deployed may be nil, in which case
// DeployTime is never set.
func ComputeTiming(pr github.PullRequest, deployed DeploymentIndex) PRTiming {
	timing := PRTiming{
		Title:     pr.Title,
		CreatedAt: pr.CreatedAt,
		MergedAt:  pr.MergedAt,
	}

	var first *github.Commit
	if len(pr.Commits) > 0 {
		first = &pr.Commits[0]
		committed := first.CommittedDate
		timing.FirstCommit = &committed
		timing.CodingTime = durationPtr(pr.CreatedAt.Sub(committed))
	}

	if requested, ok := earliestReviewRequest(pr.Timeline); ok {
		timing.PickupTime = durationPtr(requested.Sub(pr.CreatedAt))
	}

	if pr.MergedAt == nil {
		return timing
	}

	if approved, ok := lastApproval(pr.Timeline); ok {
		timing.ReviewTime = durationPtr(pr.MergedAt.Sub(approved))
	}

	if first != nil && deployed != nil {
		if at, ok := deployed[first.OID]; ok {
			timing.DeployTime = durationPtr(at.Sub(*pr.MergedAt))
		}
	}
	return timing
}

// ComputeTimings derives timings for every pull request in order.
// Deploy times are only computed when deployments is non-nil.
func ComputeTimings(prs []github.PullRequest, deployments []github.Deployment) []PRTiming {
	var idx DeploymentIndex
	if deployments != nil {
		idx = IndexDeployments(deployments)
	}
	timings := make([]PRTiming, 0, len(prs))
	for _, pr := range prs {
		timings = append(timings, ComputeTiming(pr, idx))
	}
	return timings
}

func earliestReviewRequest(events []github.TimelineEvent) (time.Time, bool) {
	var earliest time.Time
	found := false
	for _, ev := range events {
		if ev.Kind != github.EventReviewRequested {
			continue
		}
		if !found || ev.CreatedAt.Before(earliest) {
			earliest = ev.CreatedAt
			found = true
		}
	}
	return earliest, found
}

// lastApproval returns the approval that appears last in events, which keeps
// the order GitHub returned them in.
func lastApproval(events []github.TimelineEvent) (time.Time, bool) {
	var approved time.Time
	found := false
	for _, ev := range events {
		if ev.Kind == github.EventPullRequestReview && ev.State == github.ReviewApproved {
			approved = ev.CreatedAt
			found = true
		}
	}
	return approved, found
}

func durationPtr(d time.Duration) *time.Duration {
	return &d
}
