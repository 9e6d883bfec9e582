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

package integration

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sirseerhq/sirseer-velocity/test/testutil"
)

var day = time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)

func at(hour int) time.Time {
	return day.Add(time.Duration(hour) * time.Hour)
}

func configFile(t *testing.T, endpoint string) string {
	t.Helper()
	content := fmt.Sprintf(`github:
  graphql_endpoint: %s
  requests_per_minute: 0
retry:
  max_attempts: 2
  backoff_unit: 1ms
identities:
  jane@corp.example: janedoe
`, endpoint)
	return testutil.CreateTempFile(t, "", "velocity-*.yaml", content)
}

func TestReport_EndToEnd(t *testing.T) {
	pr := testutil.NewPullRequestBuilder(1).
		WithTitle("Speed up parser").
		WithAuthor("janedoe").
		WithCreatedAt(at(12)).
		WithMergedAt(at(20)).
		WithCommit("abc", at(9)).
		WithReviewRequested(at(13)).
		WithReview("COMMENTED", at(15)).
		WithReview("APPROVED", at(18)).
		Build()
	other := testutil.NewPullRequestBuilder(2).WithTitle("Unrelated change").WithAuthor("someone-else").Build()

	// The first commits request fails once and is retried.
	server := testutil.NewMockServer(t,
		testutil.Response{Status: http.StatusBadGateway, Body: "bad gateway"},
		testutil.Response{Body: testutil.Envelope(testutil.CommitsData(false, "", testutil.Branch("main",
			testutil.CommitNode("abc", at(9), 30, 10),
			testutil.CommitNode("def", at(10), 5, 5))))},
		testutil.Response{Body: testutil.Envelope(testutil.PullRequestsData(false, "", pr, other))},
	)

	dir := t.TempDir()
	csvPath := filepath.Join(dir, "timings.csv")
	metadataPath := filepath.Join(dir, "run.json")
	res := run(t, []string{"GITHUB_TOKEN=test-token"},
		"report", "acme/parser",
		"--config", configFile(t, server.URL()),
		"--email", "jane@corp.example",
		"--csv", csvPath,
		"--metadata-file", metadataPath)
	if res.exitCode != 0 {
		t.Fatalf("exit code = %d, stderr: %s", res.exitCode, res.stderr)
	}

	if !strings.Contains(res.stdout, "Speed up parser") {
		t.Errorf("summary missing matched pull request:\n%s", res.stdout)
	}
	if strings.Contains(res.stdout, "Unrelated change") {
		t.Errorf("summary includes another author's pull request:\n%s", res.stdout)
	}

	records := testutil.ReadCSV(t, csvPath)
	if len(records) != 2 {
		t.Fatalf("got %d CSV records, want 2", len(records))
	}
	row := records[1]
	if got := strings.Join(row[4:], ","); got != "10800,3600,7200" {
		t.Errorf("coding,pickup,review = %s, want 10800,3600,7200", got)
	}

	md := testutil.AssertMetadataFile(t, metadataPath)
	if md["api_calls"] != float64(3) {
		t.Errorf("api_calls = %v, want 3", md["api_calls"])
	}
	if md["partial"] != false {
		t.Errorf("partial = %v, want false", md["partial"])
	}

	for i, h := range server.Headers() {
		if got := h.Get("Authorization"); got != "Bearer test-token" {
			t.Errorf("request %d Authorization = %q", i, got)
		}
		if got := h.Get("User-Agent"); !strings.HasPrefix(got, "sirseer-velocity/") {
			t.Errorf("request %d User-Agent = %q", i, got)
		}
	}
}

func TestReport_ExitCodes(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		wantCode int
		wantText string
	}{
		{"unauthorized", http.StatusUnauthorized, 2, "authentication failed"},
		{"repository not found", http.StatusNotFound, 2, "repository not found"},
		{"service unavailable", http.StatusServiceUnavailable, 3, "retries exhausted"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := testutil.NewErrorServer(t, tt.status)
			res := run(t, []string{"GITHUB_TOKEN=test-token"},
				"report", "acme/parser",
				"--config", configFile(t, server.URL()),
				"--email", "jane@corp.example")
			if res.exitCode != tt.wantCode {
				t.Errorf("exit code = %d, want %d; stderr: %s", res.exitCode, tt.wantCode, res.stderr)
			}
			if !strings.Contains(res.stderr, tt.wantText) {
				t.Errorf("stderr missing %q: %s", tt.wantText, res.stderr)
			}
		})
	}
}
