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

package output

import "errors"

// ErrClosed is returned by Write once a writer has been closed.
var ErrClosed = errors.New("output writer closed")

// OutputWriter receives timing rows. Writer emits them as NDJSON and
// CSVWriter as CSV; Close must be called to flush file output.
type OutputWriter interface {
	Write(record interface{}) error
	Close() error
}
