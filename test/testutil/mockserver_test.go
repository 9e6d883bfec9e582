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
	"bytes"
	"encoding/json"
	"net/http"
	"testing"
	"time"
)

func post(t *testing.T, url string) *http.Response {
	t.Helper()
	body, _ := json.Marshal(GraphQLRequest{Query: "query{viewer{login}}", Variables: map[string]interface{}{"a": "b"}})
	resp, err := http.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("POST failed: %v", err)
	}
	resp.Body.Close()
	return resp
}

func TestMockServer(t *testing.T) {
	server := NewMockServer(t,
		Response{Status: http.StatusBadGateway, Body: "bad gateway"},
		Response{Body: Envelope(map[string]interface{}{})},
	)

	wantStatus := []int{http.StatusBadGateway, http.StatusOK, http.StatusOK}
	for i, want := range wantStatus {
		if resp := post(t, server.URL()); resp.StatusCode != want {
			t.Errorf("request %d: status = %d, want %d", i+1, resp.StatusCode, want)
		}
	}

	if got := server.RequestCount(); got != 3 {
		t.Errorf("RequestCount() = %d, want 3", got)
	}
	reqs := server.Requests()
	if reqs[0].Query != "query{viewer{login}}" || reqs[0].Variables["a"] != "b" {
		t.Errorf("recorded request = %+v", reqs[0])
	}
}

func TestPullRequestBuilder(t *testing.T) {
	created := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	node := NewPullRequestBuilder(1).
		WithAuthor("").
		WithCreatedAt(created).
		Unmerged().
		WithReview("APPROVED", created.Add(time.Hour)).
		Build()

	if node["author"] != nil {
		t.Errorf("author = %v, want nil", node["author"])
	}
	if node["mergedAt"] != nil {
		t.Errorf("mergedAt = %v, want nil", node["mergedAt"])
	}
	if node["createdAt"] != "2024-03-01T09:00:00Z" {
		t.Errorf("createdAt = %v", node["createdAt"])
	}
	items := node["timelineItems"].(map[string]interface{})["nodes"].([]map[string]interface{})
	if len(items) != 1 || items[0]["__typename"] != "PullRequestReview" {
		t.Errorf("timeline = %v", items)
	}
}
