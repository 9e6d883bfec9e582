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

package metadata

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/sirseerhq/sirseer-velocity/test/testutil"
)

func TestNew(t *testing.T) {
	a, b := New(), New()

	if _, err := uuid.Parse(a.RunID()); err != nil {
		t.Errorf("RunID %q is not a UUID: %v", a.RunID(), err)
	}
	if a.RunID() == b.RunID() {
		t.Error("two trackers share a run id")
	}
}

func TestTracker_IncrementAPICall_Concurrent(t *testing.T) {
	tracker := New()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				tracker.IncrementAPICall()
			}
		}()
	}
	wg.Wait()

	if got := tracker.APICalls(); got != 1000 {
		t.Errorf("APICalls() = %d, want 1000", got)
	}
}

func TestTracker_RecordEntity(t *testing.T) {
	tests := []struct {
		name        string
		record      func(tr *Tracker)
		wantPartial []string
	}{
		{
			name: "all complete",
			record: func(tr *Tracker) {
				tr.RecordEntity("commits", 10, nil)
				tr.RecordEntity("pull_requests", 2, nil)
			},
		},
		{
			name: "one partial",
			record: func(tr *Tracker) {
				tr.RecordEntity("commits", 10, nil)
				tr.RecordEntity("pull_requests", 1, errors.New("partial result: page 2"))
			},
			wantPartial: []string{"pull_requests"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tracker := New()
			tt.record(tracker)

			got := tracker.PartialEntities()
			if len(got) != len(tt.wantPartial) {
				t.Fatalf("PartialEntities() = %v, want %v", got, tt.wantPartial)
			}
			for i := range got {
				if got[i] != tt.wantPartial[i] {
					t.Errorf("PartialEntities()[%d] = %q, want %q", i, got[i], tt.wantPartial[i])
				}
			}
		})
	}
}

func TestTracker_GenerateMetadata(t *testing.T) {
	start := time.Date(2024, 4, 2, 10, 0, 0, 0, time.UTC)
	tracker := New()
	tracker.startTime = start
	tracker.now = func() time.Time { return start.Add(90 * time.Second) }

	tracker.IncrementAPICall()
	tracker.IncrementAPICall()
	tracker.IncrementAPICall()
	tracker.RecordEntity("commits", 42, nil)
	tracker.RecordEntity("deployments", 3, errors.New("retries exhausted"))

	params := RunParams{DeployAware: true, Environment: "production", ItemCap: 100}
	md := tracker.GenerateMetadata("1.2.3", "acme/widgets", "dev@example.com", params)

	if md.RunID != tracker.RunID() {
		t.Errorf("RunID = %q, want %q", md.RunID, tracker.RunID())
	}
	if md.Version != "1.2.3" || md.QueryVersion != QueryVersion {
		t.Errorf("versions = %q, %q", md.Version, md.QueryVersion)
	}
	if md.Repository != "acme/widgets" || md.Email != "dev@example.com" {
		t.Errorf("target = %q, %q", md.Repository, md.Email)
	}
	if md.Parameters != params {
		t.Errorf("Parameters = %+v, want %+v", md.Parameters, params)
	}
	if md.APICalls != 3 {
		t.Errorf("APICalls = %d, want 3", md.APICalls)
	}
	if md.Duration != "1m30s" {
		t.Errorf("Duration = %q, want 1m30s", md.Duration)
	}
	if !md.StartedAt.Equal(start) || !md.CompletedAt.Equal(start.Add(90*time.Second)) {
		t.Errorf("times = %v .. %v", md.StartedAt, md.CompletedAt)
	}
	if len(md.Entities) != 2 || !md.Entities[1].Partial || md.Entities[1].Error != "retries exhausted" {
		t.Errorf("Entities = %+v", md.Entities)
	}
	if !md.Partial {
		t.Error("Partial = false, want true")
	}
}

func TestSaveMetadata(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "run.metadata.json")

	tracker := New()
	tracker.IncrementAPICall()
	tracker.RecordEntity("commits", 1, nil)
	md := tracker.GenerateMetadata("dev", "acme/widgets", "dev@example.com", RunParams{})

	if err := SaveMetadata(md, path); err != nil {
		t.Fatalf("SaveMetadata failed: %v", err)
	}
	testutil.AssertFileNotExists(t, path+".tmp")
	testutil.AssertMetadataFile(t, path)

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	var loaded RunMetadata
	if err := json.Unmarshal(data, &loaded); err != nil {
		t.Fatalf("invalid metadata JSON: %v", err)
	}
	if loaded.RunID != md.RunID || loaded.APICalls != 1 || len(loaded.Entities) != 1 {
		t.Errorf("loaded = %+v, want %+v", loaded, md)
	}
}

func TestWriteMetadataToWriter(t *testing.T) {
	md := New().GenerateMetadata("dev", "acme/widgets", "dev@example.com", RunParams{ItemCap: 5})

	var buf bytes.Buffer
	if err := WriteMetadataToWriter(md, &buf); err != nil {
		t.Fatalf("WriteMetadataToWriter failed: %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if decoded["repository"] != "acme/widgets" {
		t.Errorf("repository = %v", decoded["repository"])
	}
	if entities, ok := decoded["entities"].([]interface{}); !ok || len(entities) != 0 {
		t.Errorf("entities = %v, want empty array", decoded["entities"])
	}
	if !bytes.Contains(buf.Bytes(), []byte("\n  \"run_id\"")) {
		t.Error("output is not indented")
	}
}
