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

package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	velocityerrors "github.com/sirseerhq/sirseer-velocity/internal/errors"
)

// Error codes returned in API error bodies.
const (
	CodeBadRequest  = "BAD_REQUEST"
	CodeNotFound    = "NOT_FOUND"
	CodeRateLimited = "RATE_LIMITED"
	CodeUpstream    = "UPSTREAM_ERROR"
	CodeTimeout     = "TIMEOUT"
	CodeInternal    = "INTERNAL"
)

type apiError struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func writeError(w http.ResponseWriter, log *zap.Logger, message, code string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	e := apiError{}
	e.Error.Code = code
	e.Error.Message = message

	if err := json.NewEncoder(w).Encode(e); err != nil {
		log.Error("failed to encode error response", zap.Error(err))
	}
}

func writeJSON(w http.ResponseWriter, log *zap.Logger, statusCode int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("failed to encode response", zap.Error(err))
	}
}

// classify maps a run error to an HTTP status and error code.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, velocityerrors.ErrRepoNotFound):
		return http.StatusNotFound, CodeNotFound
	case errors.Is(err, velocityerrors.ErrRateLimit):
		return http.StatusTooManyRequests, CodeRateLimited
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, CodeTimeout
	case errors.Is(err, velocityerrors.ErrInvalidToken),
		errors.Is(err, velocityerrors.ErrNetworkFailure),
		errors.Is(err, velocityerrors.ErrRetriesExhausted),
		errors.Is(err, velocityerrors.ErrGraphQL):
		return http.StatusBadGateway, CodeUpstream
	default:
		return http.StatusInternalServerError, CodeInternal
	}
}
