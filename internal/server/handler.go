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
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/sirseerhq/sirseer-velocity/internal/cache"
	"github.com/sirseerhq/sirseer-velocity/internal/output"
	"github.com/sirseerhq/sirseer-velocity/internal/report"
	"github.com/sirseerhq/sirseer-velocity/pkg/version"
)

// PartialHeader lists the entities of a partial report, comma separated.
const PartialHeader = "X-Velocity-Partial"

var validate = validator.New()

type healthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// Health reports liveness.
func Health(log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, log, http.StatusOK, healthResponse{Status: "ok", Version: version.Version})
	}
}

type metricsQuery struct {
	Owner       string `validate:"required,max=100"`
	Repo        string `validate:"required,max=100"`
	Email       string `validate:"required,email"`
	DeployAware bool
	Environment string `validate:"omitempty,max=255"`
	ItemCap     int    `validate:"gte=0"`
}

func parseMetricsQuery(r *http.Request) (metricsQuery, error) {
	q := metricsQuery{
		Owner:       chi.URLParam(r, "owner"),
		Repo:        chi.URLParam(r, "repo"),
		Email:       strings.TrimSpace(r.URL.Query().Get("email")),
		Environment: r.URL.Query().Get("environment"),
	}
	if v := r.URL.Query().Get("deploy"); v != "" {
		deploy, err := strconv.ParseBool(v)
		if err != nil {
			return q, err
		}
		q.DeployAware = deploy
	}
	if !q.DeployAware {
		// Environment only selects deployments.
		q.Environment = ""
	}
	if v := r.URL.Query().Get("item_cap"); v != "" {
		itemCap, err := strconv.Atoi(v)
		if err != nil {
			return q, err
		}
		q.ItemCap = itemCap
	}
	return q, validate.Struct(q)
}

func (q metricsQuery) cacheKey() string {
	return cache.Key(
		strings.ToLower(q.Owner),
		strings.ToLower(q.Repo),
		strings.ToLower(q.Email),
		strconv.FormatBool(q.DeployAware),
		q.Environment,
		strconv.Itoa(q.ItemCap))
}

// metricsOutcome is what one shared run produces for every waiting request.
type metricsOutcome struct {
	doc     output.ReportDocument
	partial []string
}

// GetMetrics serves the report for one repository and developer. Concurrent
// requests with the same parameters share one run. Complete reports are
// cached; partial ones are returned with PartialHeader set.
func GetMetrics(rep Reporter, reports *cache.Cache[output.ReportDocument], requestTimeout time.Duration, log *zap.Logger) http.HandlerFunc {
	var flights singleflight.Group

	return func(w http.ResponseWriter, r *http.Request) {
		q, err := parseMetricsQuery(r)
		if err != nil {
			log.Warn("invalid metrics query", zap.Error(err))
			writeError(w, log, err.Error(), CodeBadRequest, http.StatusBadRequest)
			return
		}

		key := q.cacheKey()
		if doc, ok := reports.Get(key); ok {
			log.Debug("serving cached report", zap.String("repository", doc.Repository))
			writeJSON(w, log, http.StatusOK, doc)
			return
		}

		// The run outlives a disconnecting client so other waiters still get it.
		ctx := context.WithoutCancel(r.Context())
		if requestTimeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, requestTimeout)
			defer cancel()
		}

		v, err, shared := flights.Do(key, func() (interface{}, error) {
			if doc, ok := reports.Get(key); ok {
				return metricsOutcome{doc: doc}, nil
			}
			result, err := rep.Run(ctx, report.Request{
				Owner:       q.Owner,
				Repo:        q.Repo,
				Email:       q.Email,
				DeployAware: q.DeployAware,
				Environment: q.Environment,
				ItemCap:     q.ItemCap,
			})
			if err != nil {
				return nil, err
			}
			doc := output.NewReportDocument(result.Report)
			if !result.Report.IsPartial() {
				reports.Set(key, doc)
				log.Debug("report cached", zap.String("repository", doc.Repository), zap.Int("cache_entries", reports.Len()))
			}
			return metricsOutcome{doc: doc, partial: result.Report.Partial}, nil
		})
		if err != nil {
			status, code := classify(err)
			log.Error("report failed", zap.String("repository", q.Owner+"/"+q.Repo), zap.Error(err))
			writeError(w, log, err.Error(), code, status)
			return
		}

		out := v.(metricsOutcome)
		if shared {
			log.Debug("joined in-flight report", zap.String("repository", out.doc.Repository))
		}
		if len(out.partial) > 0 {
			w.Header().Set(PartialHeader, strings.Join(out.partial, ","))
		}
		writeJSON(w, log, http.StatusOK, out.doc)
	}
}
