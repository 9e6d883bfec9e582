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

package output

import (
	"time"

	"github.com/sirseerhq/sirseer-velocity/internal/metrics"
)

// ReportDocument is the JSON form of a metrics report.
type ReportDocument struct {
	Repository               string         `json:"repository"`
	Email                    string         `json:"email"`
	GeneratedAt              string         `json:"generated_at"`
	TotalCommits             int            `json:"total_commits"`
	TotalPullRequests        int            `json:"total_pull_requests"`
	AverageCommitSize        float64        `json:"average_commit_size"`
	CommitFrequency          map[string]int `json:"commit_frequency"`
	CommitToMergeSeconds     []int64        `json:"commit_to_merge_seconds"`
	MeanCommitToMergeSeconds *int64         `json:"mean_commit_to_merge_seconds"`
	CommitsPerPullRequest    float64        `json:"commits_per_pull_request"`
	DeployAware              bool           `json:"deploy_aware"`
	PullRequests             []TimingRow    `json:"pull_requests"`
	Partial                  []string       `json:"partial,omitempty"`
}

// NewReportDocument converts r for JSON encoding.
func NewReportDocument(r metrics.Report) ReportDocument {
	ctm := make([]int64, 0, len(r.CommitToMerge))
	for _, d := range r.CommitToMerge {
		ctm = append(ctm, int64(d/time.Second))
	}
	freq := r.CommitFrequency
	if freq == nil {
		freq = map[string]int{}
	}
	return ReportDocument{
		Repository:               r.Repository,
		Email:                    r.Email,
		GeneratedAt:              formatTime(r.GeneratedAt),
		TotalCommits:             r.TotalCommits,
		TotalPullRequests:        r.TotalPullRequests,
		AverageCommitSize:        r.AverageCommitSize,
		CommitFrequency:          freq,
		CommitToMergeSeconds:     ctm,
		MeanCommitToMergeSeconds: Seconds(r.MeanCommitToMerge),
		CommitsPerPullRequest:    r.CommitsPerPullRequest,
		DeployAware:              r.DeployAware,
		PullRequests:             Rows(r),
		Partial:                  r.Partial,
	}
}
