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
	"sort"
	"time"

	"github.com/sirseerhq/sirseer-velocity/internal/github"
)

// Input is everything fetched for one developer in one repository.
type Input struct {
	Repository   string
	Email        string
	Commits      []github.Commit
	PullRequests []github.PullRequest
	// Deployments is only consulted when DeployAware is set.
	Deployments []github.Deployment
	DeployAware bool
	// Partial lists the entities whose fetch stopped early.
	Partial []string
}

// Report is the full set of metrics for one developer in one repository.
type Report struct {
	Repository            string
	Email                 string
	GeneratedAt           time.Time
	TotalCommits          int
	TotalPullRequests     int
	AverageCommitSize     float64
	CommitFrequency       map[string]int
	CommitToMerge         []time.Duration
	MeanCommitToMerge     *time.Duration
	CommitsPerPullRequest float64
	DeployAware           bool
	Timings               []PRTiming
	Partial               []string
}

// Build computes every metric for in. now stamps the report.
func Build(in Input, now time.Time) Report {
	var deployments []github.Deployment
	if in.DeployAware {
		deployments = in.Deployments
		if deployments == nil {
			deployments = []github.Deployment{}
		}
	}

	ctm := CommitToMergeTimes(in.PullRequests)
	report := Report{
		Repository:            in.Repository,
		Email:                 in.Email,
		GeneratedAt:           now.UTC(),
		TotalCommits:          TotalCommits(in.Commits),
		TotalPullRequests:     TotalPullRequests(in.PullRequests),
		AverageCommitSize:     AverageCommitSize(in.Commits),
		CommitFrequency:       CommitFrequencyByWeek(in.Commits),
		CommitToMerge:         ctm,
		CommitsPerPullRequest: CommitsPerPullRequest(in.PullRequests),
		DeployAware:           in.DeployAware,
		Timings:               ComputeTimings(in.PullRequests, deployments),
		Partial:               append([]string(nil), in.Partial...),
	}
	if mean, ok := MeanDuration(ctm); ok {
		report.MeanCommitToMerge = &mean
	}
	return report
}

// Weeks returns the commit frequency bucket keys in chronological order.
func (r Report) Weeks() []string {
	weeks := make([]string, 0, len(r.CommitFrequency))
	for w := range r.CommitFrequency {
		weeks = append(weeks, w)
	}
	sort.Strings(weeks)
	return weeks
}

// IsPartial reports whether any entity was only partially fetched.
func (r Report) IsPartial() bool {
	return len(r.Partial) > 0
}
