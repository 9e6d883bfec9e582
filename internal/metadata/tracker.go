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

// Package metadata tracks report runs and persists an audit record of each:
// a unique run id, the parameters used, the number of GitHub API calls made
// and, per fetched entity, how many items arrived and whether the fetch
// stopped early.
package metadata

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	// QueryVersion identifies the set of GraphQL queries used by a run
	QueryVersion = "graphql-velocity-v1"
)

// Tracker collects statistics during a report run. It implements
// github.Observer so the client can count API calls directly.
// It is safe for concurrent use.
type Tracker struct {
	mu        sync.Mutex
	runID     string
	startTime time.Time
	apiCalls  int
	entities  []EntityStats
	now       func() time.Time
}

// New creates a tracker with a fresh run id, started now.
func New() *Tracker {
	return &Tracker{
		runID:     uuid.NewString(),
		startTime: time.Now(),
		now:       time.Now,
	}
}

// RunID returns the unique id of the run.
func (t *Tracker) RunID() string {
	return t.runID
}

// IncrementAPICall records that an API request was sent.
func (t *Tracker) IncrementAPICall() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.apiCalls++
}

// APICalls returns the number of API requests recorded so far.
func (t *Tracker) APICalls() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.apiCalls
}

// RecordEntity records the outcome of fetching one entity type. A non-nil
// err marks the entity as partial.
func (t *Tracker) RecordEntity(name string, count int, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	stats := EntityStats{Name: name, Count: count}
	if err != nil {
		stats.Partial = true
		stats.Error = err.Error()
	}
	t.entities = append(t.entities, stats)
}

// PartialEntities returns the names of entities recorded as partial.
func (t *Tracker) PartialEntities() []string {
	t.mu.Lock()
	defer t.mu.Unlock()

	var names []string
	for _, e := range t.entities {
		if e.Partial {
			names = append(names, e.Name)
		}
	}
	return names
}

// GenerateMetadata creates the audit record of the run so far.
func (t *Tracker) GenerateMetadata(version, repository, email string, params RunParams) *RunMetadata {
	t.mu.Lock()
	defer t.mu.Unlock()

	completedAt := t.now()
	entities := append([]EntityStats{}, t.entities...)
	partial := false
	for _, e := range entities {
		partial = partial || e.Partial
	}

	return &RunMetadata{
		RunID:        t.runID,
		Version:      version,
		QueryVersion: QueryVersion,
		Repository:   repository,
		Email:        email,
		Parameters:   params,
		StartedAt:    t.startTime.UTC(),
		CompletedAt:  completedAt.UTC(),
		Duration:     completedAt.Sub(t.startTime).String(),
		APICalls:     t.apiCalls,
		Entities:     entities,
		Partial:      partial,
	}
}

// SaveMetadata writes metadata as indented JSON to path. The file is written
// to a temporary file first and renamed into place to prevent corruption.
func SaveMetadata(metadata *RunMetadata, path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create metadata directory: %w", err)
		}
	}

	tmpFile := path + ".tmp"
	file, err := os.Create(tmpFile)
	if err != nil {
		return fmt.Errorf("failed to create metadata file: %w", err)
	}

	if err := WriteMetadataToWriter(metadata, file); err != nil {
		_ = file.Close()
		_ = os.Remove(tmpFile)
		return fmt.Errorf("failed to write metadata: %w", err)
	}

	if err := file.Close(); err != nil {
		_ = os.Remove(tmpFile)
		return fmt.Errorf("failed to close metadata file: %w", err)
	}

	if err := os.Rename(tmpFile, path); err != nil {
		return fmt.Errorf("failed to save metadata file: %w", err)
	}

	return nil
}

// WriteMetadataToWriter serializes metadata as indented JSON to w.
func WriteMetadataToWriter(metadata *RunMetadata, w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(metadata)
}
