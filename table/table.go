// Copyright 2025 Datawiser

// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at

//     http://www.apache.org/licenses/LICENSE-2.0

// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package table

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/stockparfait/errors"
)

// Row is the interface a table row must implement.
type Row interface {
	CSV() []string // an encoding/csv compatible representation
}

// Table is an ordered collection of rows with an optional header.
//
// A typical use:
//
//	type EventRow struct {
//	  AsOf   string
//	  Shares float64
//	}
//
//	func (r EventRow) CSV() []string {
//	  return []string{r.AsOf, fmt.Sprintf("%g", r.Shares)}
//	}
//	t := NewTable("as_of", "shares")
//	t.AddRow(EventRow{"2025-01-01", 1000.0})
type Table struct {
	Header []string // optional, may be nil
	Rows   []Row
}

// NewTable creates a Table with optional column headers. When headers are
// present, each row is expected to have the same number of cells.
func NewTable(header ...string) *Table {
	return &Table{Header: header}
}

// AddRow appends one or more rows.
func (t *Table) AddRow(rows ...Row) {
	t.Rows = append(t.Rows, rows...)
}

// Params control CSV and text output of a Table.
type Params struct {
	Rows        int  // max. number of rows to write; 0 = unlimited (default)
	NoHeader    bool // suppress the header row
	MaxColWidth int  // for WriteText only; 0 = unlimited, otherwise must be >= 4
}

// visit calls f for the header (when enabled) and for each row within the
// Params.Rows limit.
func (t *Table) visit(p Params, f func(cells []string) error) error {
	if !p.NoHeader && len(t.Header) > 0 {
		if err := f(t.Header); err != nil {
			return err
		}
	}
	for i, r := range t.Rows {
		if p.Rows > 0 && i >= p.Rows {
			break
		}
		if err := f(r.CSV()); err != nil {
			return err
		}
	}
	return nil
}

// WriteCSV writes the table to w in CSV format.
func (t *Table) WriteCSV(w io.Writer, p Params) error {
	cw := csv.NewWriter(w)
	err := t.visit(p, func(cells []string) error {
		return errors.Annotate(cw.Write(cells), "failed to write CSV row")
	})
	if err != nil {
		return err
	}
	cw.Flush()
	return errors.Annotate(cw.Error(), "failed to flush CSV rows")
}

// layout holds the computed column widths for text output.
type layout struct {
	widths []int
	maxCol int
}

func (l *layout) update(cells []string) error {
	if len(cells) == 0 {
		return errors.Reason("row size = 0")
	}
	if l.widths == nil {
		l.widths = make([]int, len(cells))
	}
	if len(cells) != len(l.widths) {
		return errors.Reason("row size [%d] != expected size [%d]",
			len(cells), len(l.widths))
	}
	for i, c := range cells {
		w := len([]rune(c))
		if l.maxCol > 0 && w > l.maxCol {
			w = l.maxCol
		}
		if l.widths[i] < w {
			l.widths[i] = w
		}
	}
	return nil
}

// cell trims or pads s to the i'th column width.
func (l *layout) cell(s string, i int) string {
	w := l.widths[i]
	if r := []rune(s); len(r) > w {
		s = string(r[:w-2]) + ".."
	}
	return fmt.Sprintf("%[2]*[1]s", s, w)
}

func (l *layout) format(cells []string) string {
	out := make([]string, len(cells))
	for i, c := range cells {
		out[i] = l.cell(c, i)
	}
	return strings.Join(out, " | ")
}

func (l *layout) separator() string {
	cells := make([]string, len(l.widths))
	for i, w := range l.widths {
		cells[i] = strings.Repeat("-", w)
	}
	return strings.Join(cells, " | ")
}

// WriteText writes the table as aligned text for ease of reading.
func (t *Table) WriteText(w io.Writer, p Params) error {
	if p.MaxColWidth != 0 && p.MaxColWidth < 4 {
		return errors.Reason("MaxColWidth [%d] must be 0 or >= 4", p.MaxColWidth)
	}
	l := layout{maxCol: p.MaxColWidth}
	if err := t.visit(p, l.update); err != nil {
		return errors.Annotate(err, "failed to compute column widths")
	}
	if l.widths == nil { // empty table, nothing to print
		return nil
	}
	withSeparator := !p.NoHeader && len(t.Header) > 0
	first := true
	err := t.visit(p, func(cells []string) error {
		if _, err := fmt.Fprintf(w, "%s\n", l.format(cells)); err != nil {
			return err
		}
		if first && withSeparator {
			if _, err := fmt.Fprintf(w, "%s\n", l.separator()); err != nil {
				return err
			}
		}
		first = false
		return nil
	})
	return errors.Annotate(err, "failed to write rows")
}
