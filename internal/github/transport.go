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
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirseerhq/sirseer-velocity/internal/giterror"
	"github.com/sirseerhq/sirseer-velocity/pkg/version"
)

const (
	maxResponseBytes = 10 * 1024 * 1024
	maxErrorBodyText = 512
)

// newTransport builds the transport chain used by the GraphQL client:
// status classification on top of authentication on top of base.
func newTransport(token string, base http.RoundTripper) http.RoundTripper {
	if base == nil {
		base = &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			MaxIdleConns:        10,
			MaxIdleConnsPerHost: 10,
			MaxConnsPerHost:     10,
			IdleConnTimeout:     90 * time.Second,
			ForceAttemptHTTP2:   true,
		}
	}
	return &statusTransport{
		base: &authTransport{
			token: token,
			base:  base,
		},
	}
}

// authTransport adds authentication and identification headers and a response size limit.
type authTransport struct {
	token string
	base  http.RoundTripper
}

// RoundTrip implements http.RoundTripper.
func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// Clone the request to avoid modifying the original
	req = req.Clone(req.Context())
	req.Header.Set("Authorization", "Bearer "+t.token)
	req.Header.Set("User-Agent", version.UserAgent())

	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	resp.Body = &limitedReader{
		ReadCloser: resp.Body,
		limit:      maxResponseBytes,
	}
	return resp, nil
}

// statusTransport turns every non-2xx response into a *giterror.StatusError
// so callers can tell transport failures from GraphQL errors.
type statusTransport struct {
	base http.RoundTripper
}

// RoundTrip implements http.RoundTripper.
func (t *statusTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp, nil
	}

	defer resp.Body.Close()
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyText))
	return nil, &giterror.StatusError{
		Code: resp.StatusCode,
		Body: strings.TrimSpace(string(body)),
	}
}

// limitedReader wraps a ReadCloser with a size limit to prevent excessive memory usage.
type limitedReader struct {
	io.ReadCloser
	limit int64
	read  int64
}

func (lr *limitedReader) Read(p []byte) (n int, err error) {
	if lr.read >= lr.limit {
		return 0, fmt.Errorf("response size exceeded limit of %d bytes", lr.limit)
	}
	if remaining := lr.limit - lr.read; int64(len(p)) > remaining {
		p = p[:remaining]
	}
	n, err = lr.ReadCloser.Read(p)
	lr.read += int64(n)
	return n, err
}
