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
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/sirseerhq/sirseer-velocity/internal/metrics"
)

// PrintSummary writes a human readable summary of r to w.
func PrintSummary(w io.Writer, r metrics.Report) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintf(tw, "Metrics for %s (%s)\n", r.Repository, r.Email)
	fmt.Fprintf(tw, "Total commits:\t%d\n", r.TotalCommits)
	fmt.Fprintf(tw, "Total pull requests:\t%d\n", r.TotalPullRequests)
	fmt.Fprintf(tw, "Average commit size (additions + deletions):\t%.2f\n", r.AverageCommitSize)
	fmt.Fprintf(tw, "Commits per pull request:\t%.2f\n", r.CommitsPerPullRequest)
	fmt.Fprintf(tw, "Average commit to merge time:\t%s\n", formatDuration(r.MeanCommitToMerge))

	if weeks := r.Weeks(); len(weeks) > 0 {
		fmt.Fprintln(tw, "Commit frequency by week:")
		for _, week := range weeks {
			fmt.Fprintf(tw, "  %s\t%d\n", week, r.CommitFrequency[week])
		}
	}

	if len(r.Timings) > 0 {
		fmt.Fprintln(tw)
		header := "Pull request\tCoding\tPickup\tReview"
		if r.DeployAware {
			header += "\tDeploy"
		}
		fmt.Fprintln(tw, header)
		for _, t := range r.Timings {
			line := fmt.Sprintf("%s\t%s\t%s\t%s", truncate(t.Title, 50),
				formatDuration(t.CodingTime), formatDuration(t.PickupTime), formatDuration(t.ReviewTime))
			if r.DeployAware {
				line += "\t" + formatDuration(t.DeployTime)
			}
			fmt.Fprintln(tw, line)
		}
	}

	if r.IsPartial() {
		fmt.Fprintf(tw, "\nWarning: incomplete data for %s; metrics cover what was fetched before the failure\n",
			strings.Join(r.Partial, ", "))
	}

	return tw.Flush()
}

func formatDuration(d *time.Duration) string {
	if d == nil {
		return "N/A"
	}
	return d.Round(time.Second).String()
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
