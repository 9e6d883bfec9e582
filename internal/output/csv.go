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

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sync"
)

// CSVWriter writes TimingRow records as CSV with a header row.
type CSVWriter struct {
	mu        sync.Mutex
	w         *csv.Writer
	columns   []string
	count     int
	closed    bool
	closeFunc func() error
}

// NewCSVWriter writes the header to w and returns a writer for timing rows.
// deployAware adds the DeployTime column.
func NewCSVWriter(w io.Writer, deployAware bool) (*CSVWriter, error) {
	columns := TimingColumns
	if deployAware {
		columns = DeployTimingColumns
	}
	cw := &CSVWriter{
		w:       csv.NewWriter(w),
		columns: columns,
	}
	if err := cw.writeRecord(columns); err != nil {
		return nil, fmt.Errorf("failed to write CSV header: %w", err)
	}
	return cw, nil
}

// NewCSVFileWriter creates filename and writes the header to it.
// The caller must call Close() when done.
func NewCSVFileWriter(filename string, deployAware bool) (*CSVWriter, error) {
	file, err := os.Create(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}
	cw, err := NewCSVWriter(file, deployAware)
	if err != nil {
		file.Close()
		return nil, err
	}
	cw.closeFunc = file.Close
	return cw, nil
}

// Write writes one TimingRow. Other record types are rejected.
func (c *CSVWriter) Write(record interface{}) error {
	row, ok := record.(TimingRow)
	if !ok {
		if p, isPtr := record.(*TimingRow); isPtr && p != nil {
			row, ok = *p, true
		}
	}
	if !ok {
		return fmt.Errorf("unsupported CSV record type %T", record)
	}

	fields := row.Record()
	for len(fields) < len(c.columns) {
		fields = append(fields, "")
	}
	fields = fields[:len(c.columns)]

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	if err := c.writeRecord(fields); err != nil {
		return fmt.Errorf("failed to write record: %w", err)
	}
	c.count++
	return nil
}

// Count returns the number of rows written, excluding the header.
func (c *CSVWriter) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.count
}

// Close flushes buffered rows and closes the underlying file, if any.
// Closing twice is a no-op.
func (c *CSVWriter) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true

	c.w.Flush()
	err := c.w.Error()
	if c.closeFunc != nil {
		if cerr := c.closeFunc(); err == nil {
			err = cerr
		}
	}
	return err
}

func (c *CSVWriter) writeRecord(fields []string) error {
	if err := c.w.Write(fields); err != nil {
		return err
	}
	c.w.Flush()
	return c.w.Error()
}
