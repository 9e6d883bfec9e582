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
	"encoding/json"
	"strconv"
	"time"

	"github.com/sirseerhq/sirseer-velocity/internal/metrics"
)

// Column names of the tabular timing output, in order.
var (
	TimingColumns       = []string{"Title", "CreatedAt", "MergedAt", "FirstCommit", "CodingTime", "PR_PickupTime", "ReviewTime"}
	DeployTimingColumns = append(append([]string(nil), TimingColumns...), "DeployTime")
)

// TimingRow is one pull request's timings ready for serialization.
// Timestamps are RFC 3339 UTC and durations whole seconds; nil means absent.
type TimingRow struct {
	Title             string  `json:"title"`
	CreatedAt         string  `json:"created_at"`
	MergedAt          *string `json:"merged_at"`
	FirstCommit       *string `json:"first_commit"`
	CodingTimeSeconds *int64  `json:"coding_time_seconds"`
	PickupTimeSeconds *int64  `json:"pickup_time_seconds"`
	ReviewTimeSeconds *int64  `json:"review_time_seconds"`
	DeployTimeSeconds *int64  `json:"deploy_time_seconds,omitempty"`
	deployAware       bool
}

// NewTimingRow converts a timing. DeployTime is only carried when deployAware is set.
func NewTimingRow(t metrics.PRTiming, deployAware bool) TimingRow {
	row := TimingRow{
		Title:             t.Title,
		CreatedAt:         formatTime(t.CreatedAt),
		MergedAt:          formatTimePtr(t.MergedAt),
		FirstCommit:       formatTimePtr(t.FirstCommit),
		CodingTimeSeconds: Seconds(t.CodingTime),
		PickupTimeSeconds: Seconds(t.PickupTime),
		ReviewTimeSeconds: Seconds(t.ReviewTime),
		deployAware:       deployAware,
	}
	if deployAware {
		row.DeployTimeSeconds = Seconds(t.DeployTime)
	}
	return row
}

// MarshalJSON writes deploy_time_seconds on every deploy-aware row, as null
// when no deployment matched, and leaves it out otherwise.
func (r TimingRow) MarshalJSON() ([]byte, error) {
	type plain TimingRow
	if !r.deployAware {
		return json.Marshal(plain(r))
	}
	return json.Marshal(struct {
		plain
		DeployTimeSeconds *int64 `json:"deploy_time_seconds"`
	}{plain(r), r.DeployTimeSeconds})
}

// Record returns the row as CSV fields matching TimingColumns, or
// DeployTimingColumns for deploy-aware rows. Absent values are empty.
func (r TimingRow) Record() []string {
	rec := []string{
		r.Title,
		r.CreatedAt,
		deref(r.MergedAt),
		deref(r.FirstCommit),
		formatSeconds(r.CodingTimeSeconds),
		formatSeconds(r.PickupTimeSeconds),
		formatSeconds(r.ReviewTimeSeconds),
	}
	if r.deployAware {
		rec = append(rec, formatSeconds(r.DeployTimeSeconds))
	}
	return rec
}

// Rows converts every timing of report.
func Rows(report metrics.Report) []TimingRow {
	rows := make([]TimingRow, 0, len(report.Timings))
	for _, t := range report.Timings {
		rows = append(rows, NewTimingRow(t, report.DeployAware))
	}
	return rows
}

// WriteTimings writes one row per pull request of report to w.
func WriteTimings(w OutputWriter, report metrics.Report) error {
	for _, row := range Rows(report) {
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

// Seconds truncates d to whole seconds. A nil duration stays nil.
func Seconds(d *time.Duration) *int64 {
	if d == nil {
		return nil
	}
	s := int64(*d / time.Second)
	return &s
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := formatTime(*t)
	return &s
}

func formatSeconds(s *int64) string {
	if s == nil {
		return ""
	}
	return strconv.FormatInt(*s, 10)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
