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

import "testing"

func TestEmailLocalPart(t *testing.T) {
	tests := []struct {
		email string
		want  string
	}{
		{"alice@example.com", "alice"},
		{"first.last@corp.example", "first.last"},
		{"no-at-sign", "no-at-sign"},
		{"", ""},
		{"@example.com", ""},
	}

	for _, tt := range tests {
		if got := EmailLocalPart(tt.email); got != tt.want {
			t.Errorf("EmailLocalPart(%q) = %q, want %q", tt.email, got, tt.want)
		}
	}
}

func TestStaticLogins(t *testing.T) {
	resolve := StaticLogins(map[string]string{"Dev@Example.com": "octodev"})

	if got := resolve("dev@example.com"); got != "octodev" {
		t.Errorf("mapped email = %q, want octodev", got)
	}
	if got := resolve("other@example.com"); got != "other" {
		t.Errorf("unmapped email = %q, want local part", got)
	}
}

func TestLoginResolver_NilDefaultsToLocalPart(t *testing.T) {
	var r LoginResolver
	if got := r.resolve("dev@example.com"); got != "dev" {
		t.Errorf("resolve() = %q, want dev", got)
	}
}
