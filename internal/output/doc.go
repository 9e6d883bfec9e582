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

// Package output renders velocity reports: per pull request timing rows as
// NDJSON or CSV, a JSON report document and a console summary.
//
// Example usage:
//
//	w, err := output.NewCSVFileWriter("timings.csv", report.DeployAware)
//	if err != nil {
//	    return err
//	}
//	defer w.Close()
//
//	if err := output.WriteTimings(w, report); err != nil {
//	    return err
//	}
package output
