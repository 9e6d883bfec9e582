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
	"fmt"
	"time"

	"github.com/sirseerhq/sirseer-velocity/internal/github"
)

// TotalCommits returns the number of commits.
func TotalCommits(commits []github.Commit) int {
	return len(commits)
}

// AverageCommitSize returns the mean of additions plus deletions per commit,
// or 0 when there are no commits.
func AverageCommitSize(commits []github.Commit) float64 {
	if len(commits) == 0 {
		return 0
	}
	total := 0
	for _, c := range commits {
		total += c.Size()
	}
	return float64(total) / float64(len(commits))
}

// WeekKey returns the ISO 8601 week bucket of t, e.g. "2024-W03".
func WeekKey(t time.Time) string {
	year, week := t.UTC().ISOWeek()
	return fmt.Sprintf("%04d-W%02d", year, week)
}

// CommitFrequencyByWeek counts commits per ISO week.
func CommitFrequencyByWeek(commits []github.Commit) map[string]int {
	freq := make(map[string]int)
	for _, c := range commits {
		freq[WeekKey(c.CommittedDate)]++
	}
	return freq
}

// CommitToMergeTimes returns, for every commit of every merged pull request,
// the time from commit to merge. Unmerged pull requests contribute nothing.
// Values are negative for commits dated after the merge.
func CommitToMergeTimes(prs []github.PullRequest) []time.Duration {
	var times []time.Duration
	for _, pr := range prs {
		if pr.MergedAt == nil {
			continue
		}
		for _, c := range pr.Commits {
			times = append(times, pr.MergedAt.Sub(c.CommittedDate))
		}
	}
	return times
}

// MeanDuration returns the arithmetic mean of ds and false when ds is empty.
func MeanDuration(ds []time.Duration) (time.Duration, bool) {
	if len(ds) == 0 {
		return 0, false
	}
	var sum time.Duration
	for _, d := range ds {
		sum += d
	}
	return sum / time.Duration(len(ds)), true
}

// CommitsPerPullRequest returns the mean number of commits per pull request,
// or 0 when there are no pull requests.
func CommitsPerPullRequest(prs []github.PullRequest) float64 {
	if len(prs) == 0 {
		return 0
	}
	total := 0
	for _, pr := range prs {
		total += len(pr.Commits)
	}
	return float64(total) / float64(len(prs))
}

// TotalPullRequests returns the number of pull requests.
func TotalPullRequests(prs []github.PullRequest) int {
	return len(prs)
}
