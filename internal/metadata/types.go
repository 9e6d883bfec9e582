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

// Package metadata types define the audit record written for each report run.
package metadata

import (
	"time"
)

// RunMetadata is the audit record of one report run: what was asked for,
// how many API calls it took and which entities were only partially fetched.
type RunMetadata struct {
	RunID        string        `json:"run_id"`
	Version      string        `json:"version"`
	QueryVersion string        `json:"query_version"`
	Repository   string        `json:"repository"`
	Email        string        `json:"email"`
	Parameters   RunParams     `json:"parameters"`
	StartedAt    time.Time     `json:"started_at"`
	CompletedAt  time.Time     `json:"completed_at"`
	Duration     string        `json:"duration"`
	APICalls     int           `json:"api_calls"`
	Entities     []EntityStats `json:"entities"`
	Partial      bool          `json:"partial"`
}

// RunParams captures the options a report run was invoked with.
type RunParams struct {
	DeployAware bool   `json:"deploy_aware"`
	Environment string `json:"environment,omitempty"`
	ItemCap     int    `json:"item_cap"`
}

// EntityStats describes the fetch of one entity type.
type EntityStats struct {
	Name    string `json:"name"`
	Count   int    `json:"count"`
	Partial bool   `json:"partial"`
	Error   string `json:"error,omitempty"`
}
