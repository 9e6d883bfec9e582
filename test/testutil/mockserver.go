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

// Package testutil provides common test helpers for sirseer-velocity
package testutil

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// GraphQLRequest is a decoded GraphQL request body.
type GraphQLRequest struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables"`
}

// Response is one scripted reply of a MockServer.
type Response struct {
	// Status defaults to 200.
	Status int
	// Body is JSON-encoded unless it is a string, which is written verbatim.
	Body interface{}
}

// MockServer is a GraphQL endpoint that replays scripted responses and records requests.
type MockServer struct {
	*httptest.Server

	mu        sync.Mutex
	responses []Response
	requests  []GraphQLRequest
	headers   []http.Header
}

// NewMockServer starts a server that replies with responses in order.
// Once the list is exhausted the last response repeats.
func NewMockServer(t *testing.T, responses ...Response) *MockServer {
	t.Helper()
	m := &MockServer{responses: responses}
	m.Server = httptest.NewServer(http.HandlerFunc(m.handle))
	t.Cleanup(m.Close)
	return m
}

// NewDataServer starts a server that replies 200 with each data object in turn.
func NewDataServer(t *testing.T, data ...interface{}) *MockServer {
	t.Helper()
	responses := make([]Response, 0, len(data))
	for _, d := range data {
		responses = append(responses, Response{Body: Envelope(d)})
	}
	return NewMockServer(t, responses...)
}

// NewErrorServer starts a server that always replies with statusCode.
func NewErrorServer(t *testing.T, statusCode int) *MockServer {
	t.Helper()
	return NewMockServer(t, Response{Status: statusCode, Body: http.StatusText(statusCode)})
}

// NewTransientErrorServer fails failCount times with errorCode, then serves data.
func NewTransientErrorServer(t *testing.T, failCount, errorCode int, data interface{}) *MockServer {
	t.Helper()
	responses := make([]Response, 0, failCount+1)
	for i := 0; i < failCount; i++ {
		responses = append(responses, Response{Status: errorCode, Body: http.StatusText(errorCode)})
	}
	responses = append(responses, Response{Body: Envelope(data)})
	return NewMockServer(t, responses...)
}

// URL returns the GraphQL endpoint of the server.
func (m *MockServer) URL() string {
	return m.Server.URL + "/graphql"
}

// RequestCount returns the number of requests received.
func (m *MockServer) RequestCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}

// Requests returns the decoded requests received so far.
func (m *MockServer) Requests() []GraphQLRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]GraphQLRequest(nil), m.requests...)
}

// Headers returns the headers of every request received so far.
func (m *MockServer) Headers() []http.Header {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]http.Header(nil), m.headers...)
}

func (m *MockServer) handle(w http.ResponseWriter, r *http.Request) {
	var req GraphQLRequest
	body, _ := io.ReadAll(r.Body)
	_ = json.Unmarshal(body, &req)

	m.mu.Lock()
	m.requests = append(m.requests, req)
	m.headers = append(m.headers, r.Header.Clone())
	idx := len(m.requests) - 1
	if idx >= len(m.responses) {
		idx = len(m.responses) - 1
	}
	var resp Response
	if idx >= 0 {
		resp = m.responses[idx]
	}
	m.mu.Unlock()

	status := resp.Status
	if status == 0 {
		status = http.StatusOK
	}
	if text, ok := resp.Body.(string); ok {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(text))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp.Body)
}

// AssertGraphQLRequest validates a GraphQL request structure
func AssertGraphQLRequest(t *testing.T, r *http.Request) {
	t.Helper()
	if r.URL.Path != "/graphql" {
		t.Errorf("Unexpected path: %s", r.URL.Path)
	}
	if r.Method != http.MethodPost {
		t.Errorf("Expected POST method, got: %s", r.Method)
	}
	if ct := r.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("Expected Content-Type: application/json, got: %s", ct)
	}
}
