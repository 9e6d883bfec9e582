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
	"testing"
	"time"

	"github.com/sirseerhq/sirseer-velocity/internal/github"
)

func TestBuild(t *testing.T) {
	now := time.Date(2024, 4, 10, 8, 0, 0, 0, time.FixedZone("CEST", 2*60*60))
	in := Input{
		Repository: "acme/widgets",
		Email:      "dev@example.com",
		Commits: []github.Commit{
			{OID: "c1", CommittedDate: t0.Add(-2 * time.Hour), Additions: 4, Deletions: 2},
			{OID: "c2", CommittedDate: t0.Add(-8 * 24 * time.Hour), Additions: 2, Deletions: 0},
		},
		PullRequests: []github.PullRequest{scenarioPR()},
		Deployments: []github.Deployment{
			{CommitOID: "c1", CreatedAt: t0.Add(5 * time.Hour)},
		},
		DeployAware: true,
		Partial:     []string{"deployments"},
	}

	r := Build(in, now)

	if r.TotalCommits != 2 || r.TotalPullRequests != 1 {
		t.Errorf("totals = %d commits, %d PRs", r.TotalCommits, r.TotalPullRequests)
	}
	if r.AverageCommitSize != 4 {
		t.Errorf("AverageCommitSize = %v, want 4", r.AverageCommitSize)
	}
	if r.CommitsPerPullRequest != 1 {
		t.Errorf("CommitsPerPullRequest = %v, want 1", r.CommitsPerPullRequest)
	}
	if weeks := r.Weeks(); len(weeks) != 2 || weeks[0] >= weeks[1] {
		t.Errorf("Weeks() = %v, want two sorted buckets", weeks)
	}
	if len(r.CommitToMerge) != 1 || r.CommitToMerge[0] != 6*time.Hour {
		t.Errorf("CommitToMerge = %v, want [6h]", r.CommitToMerge)
	}
	assertDuration(t, "MeanCommitToMerge", r.MeanCommitToMerge, 6*time.Hour)
	if len(r.Timings) != 1 {
		t.Fatalf("Timings = %d, want 1", len(r.Timings))
	}
	assertDuration(t, "DeployTime", r.Timings[0].DeployTime, time.Hour)
	if !r.IsPartial() || r.Partial[0] != "deployments" {
		t.Errorf("Partial = %v", r.Partial)
	}
	if r.GeneratedAt.Location() != time.UTC || !r.GeneratedAt.Equal(now) {
		t.Errorf("GeneratedAt = %v, want %v in UTC", r.GeneratedAt, now)
	}
}

func TestBuild_Empty(t *testing.T) {
	r := Build(Input{Repository: "acme/empty"}, time.Now())

	if r.TotalCommits != 0 || r.AverageCommitSize != 0 || r.CommitsPerPullRequest != 0 {
		t.Errorf("empty report = %+v", r)
	}
	if r.MeanCommitToMerge != nil {
		t.Errorf("MeanCommitToMerge = %v, want absent", *r.MeanCommitToMerge)
	}
	if r.IsPartial() {
		t.Error("empty input reported as partial")
	}
	if len(r.Timings) != 0 {
		t.Errorf("Timings = %v, want none", r.Timings)
	}
}

func TestBuild_NotDeployAwareIgnoresDeployments(t *testing.T) {
	r := Build(Input{
		PullRequests: []github.PullRequest{scenarioPR()},
		Deployments:  []github.Deployment{{CommitOID: "c1", CreatedAt: t0.Add(5 * time.Hour)}},
	}, time.Now())

	assertAbsent(t, "DeployTime", r.Timings[0].DeployTime)
}
