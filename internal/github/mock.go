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

package github

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"

	"github.com/shurcooL/graphql"
)

// MockResponse is one canned result served by MockExecutor.
type MockResponse struct {
	// Data is JSON-encoded as the response's "data" member.
	Data interface{}
	// Errors become the response's GraphQL "errors" array.
	Errors []string
	// Err is returned by Execute without decoding anything.
	Err error
}

// MockExecutor is an Executor for tests that serves canned responses in order
// and records the variables of every call. The last response repeats once the
// list is exhausted.
type MockExecutor struct {
	mu        sync.Mutex
	Responses []MockResponse
	CallCount int
	Variables []map[string]interface{}
}

// NewMockExecutor creates a MockExecutor serving responses.
func NewMockExecutor(responses ...MockResponse) *MockExecutor {
	return &MockExecutor{Responses: responses}
}

// Execute implements Executor. Canned data is decoded into query by the real
// GraphQL client, so query struct tags are exercised as in production.
func (m *MockExecutor) Execute(ctx context.Context, query interface{}, variables map[string]interface{}) error {
	m.mu.Lock()
	m.CallCount++
	snapshot := make(map[string]interface{}, len(variables))
	for k, v := range variables {
		snapshot[k] = v
	}
	m.Variables = append(m.Variables, snapshot)
	if len(m.Responses) == 0 {
		m.mu.Unlock()
		return fmt.Errorf("mock executor: no responses configured")
	}
	idx := m.CallCount - 1
	if idx >= len(m.Responses) {
		idx = len(m.Responses) - 1
	}
	resp := m.Responses[idx]
	m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	if resp.Err != nil {
		return resp.Err
	}

	body := map[string]interface{}{"data": resp.Data}
	if len(resp.Errors) > 0 {
		errs := make([]map[string]string, 0, len(resp.Errors))
		for _, msg := range resp.Errors {
			errs = append(errs, map[string]string{"message": msg})
		}
		body["errors"] = errs
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("mock executor: encoding response: %w", err)
	}

	client := graphql.NewClient("http://mock.invalid/graphql", &http.Client{
		Transport: cannedTransport(payload),
	})
	return client.Query(ctx, query, variables)
}

// Calls returns the number of Execute calls so far.
func (m *MockExecutor) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.CallCount
}

type cannedTransport []byte

func (c cannedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Body != nil {
		_ = req.Body.Close()
	}
	return &http.Response{
		StatusCode: http.StatusOK,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(bytes.NewReader(c)),
		Request:    req,
	}, nil
}
