// Copyright 2021-2022
// SPDX-License-Identifier: Apache-2.0
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package dataframe

import (
	"fmt"
	"math"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cast"
)

// Len returns the number of rows in the table
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// ColCount returns the number of columns in the table
func (t *Table) ColCount() int {
	if t == nil {
		return 0
	}
	return len(t.ColNames)
}

// Empty returns true when the table has no rows
func (t *Table) Empty() bool {
	return t.Len() == 0
}

// ColIndex returns the index of the specified column; returns -1 if the column doesn't exist
func (t *Table) ColIndex(colName string) int {
	if t == nil {
		return -1
	}
	for idx, val := range t.ColNames {
		if colName == val {
			return idx
		}
	}
	return -1
}

// HasCol returns true if the column exists in the table
func (t *Table) HasCol(colName string) bool {
	return t.ColIndex(colName) != -1
}

// slice creates a new table sharing column names and row values with t
func (t *Table) slice(rows []Row) *Table {
	res := &Table{
		ColNames: make([]string, t.ColCount()),
		Rows:     make([]Row, len(rows)),
	}
	if t != nil {
		copy(res.ColNames, t.ColNames)
	}
	copy(res.Rows, rows)
	return res
}

// First returns the first row of the table; ok is false if the table is empty
func (t *Table) First() (Row, bool) {
	if t.Len() == 0 {
		return nil, false
	}
	return t.Rows[0], true
}

// Last returns the last row of the table; ok is false if the table is empty
func (t *Table) Last() (Row, bool) {
	if t.Len() == 0 {
		return nil, false
	}
	return t.Rows[len(t.Rows)-1], true
}

// Head returns a new table with the first n rows. If the table has fewer than n rows all rows are returned
func (t *Table) Head(n int) *Table {
	if t.Len() == 0 || n <= 0 {
		return t.slice(nil)
	}
	if n > len(t.Rows) {
		n = len(t.Rows)
	}
	return t.slice(t.Rows[:n])
}

// Tail returns a new table with the last n rows in their original order. If the table has fewer than
// n rows all rows are returned
func (t *Table) Tail(n int) *Table {
	if t.Len() == 0 || n <= 0 {
		return t.slice(nil)
	}
	if n > len(t.Rows) {
		n = len(t.Rows)
	}
	return t.slice(t.Rows[len(t.Rows)-n:])
}

// FindRow returns the first row where colName equals val. Returns ErrRowNotFound if no row matches
func (t *Table) FindRow(colName string, val any) (Row, error) {
	if !t.HasCol(colName) {
		return nil, fmt.Errorf("%w: %s", ErrColumnMissing, colName)
	}
	pred := Predicate{Column: colName, Op: Eq, Value: val}
	for _, row := range t.Rows {
		if pred.Match(row) {
			return row, nil
		}
	}
	return nil, fmt.Errorf("%w: %s = %v", ErrRowNotFound, colName, val)
}

// Filter returns a new table with the rows matching pred
func (t *Table) Filter(pred Predicate) *Table {
	if t.Len() == 0 {
		return t.slice(nil)
	}
	rows := make([]Row, 0, len(t.Rows))
	for _, row := range t.Rows {
		if pred.Match(row) {
			rows = append(rows, row)
		}
	}
	return t.slice(rows)
}

// Select returns a new table with only the requested columns in the requested order. Columns that do
// not exist in t are skipped
func (t *Table) Select(columns ...string) *Table {
	res := &Table{
		ColNames: make([]string, 0, len(columns)),
		Rows:     make([]Row, 0, t.Len()),
	}

	for _, col := range columns {
		if t.HasCol(col) {
			res.ColNames = append(res.ColNames, col)
		}
	}

	if t == nil {
		return res
	}

	for _, row := range t.Rows {
		projected := make(Row, len(res.ColNames))
		for _, col := range res.ColNames {
			projected[col] = row[col]
		}
		res.Rows = append(res.Rows, projected)
	}

	return res
}

// Column returns every value in the column; nil for rows that lack the column
func (t *Table) Column(colName string) []any {
	res := make([]any, 0, t.Len())
	if t == nil {
		return res
	}
	for _, row := range t.Rows {
		res = append(res, row[colName])
	}
	return res
}

// Floats returns the column coerced to float64; values that cannot be converted are NaN
func (t *Table) Floats(colName string) []float64 {
	res := make([]float64, 0, t.Len())
	if t == nil {
		return res
	}
	for _, row := range t.Rows {
		res = append(res, row.Float(colName))
	}
	return res
}

// Unique returns the distinct values of the column in order of first appearance
func (t *Table) Unique(colName string) []any {
	res := []any{}
	seen := make(map[any]bool)
	if t == nil {
		return res
	}
	for _, row := range t.Rows {
		v := normalizeKey(row[colName])
		if v == nil || seen[v] {
			continue
		}
		seen[v] = true
		res = append(res, v)
	}
	return res
}

// Table prints an ASCII formatted table
func (t *Table) Table() string {
	if t.Len() == 0 || t.ColCount() == 0 {
		return "<NO DATA>" // nothing to do as there is no data available in the table
	}

	s := &strings.Builder{}
	table := tablewriter.NewWriter(s)
	table.SetHeader(t.ColNames)
	footer := make([]string, len(t.ColNames))
	footer[0] = fmt.Sprintf("Num Rows: %d", t.Len())
	table.SetFooter(footer)
	table.SetBorder(false)

	for _, row := range t.Rows {
		cells := make([]string, 0, len(t.ColNames))
		for _, col := range t.ColNames {
			cells = append(cells, row.String(col))
		}
		table.Append(cells)
	}

	table.Render()
	return s.String()
}

// Float returns the value in colName coerced to float64; NaN if missing or not numeric
func (r Row) Float(colName string) float64 {
	v, ok := r[colName]
	if !ok || v == nil {
		return math.NaN()
	}
	f, err := cast.ToFloat64E(v)
	if err != nil {
		return math.NaN()
	}
	return f
}

// String returns the value in colName formatted for display; empty string if missing
func (r Row) String(colName string) string {
	v, ok := r[colName]
	if !ok || v == nil {
		return ""
	}
	return cast.ToString(v)
}

// Validate checks that the predicate uses a known operator
func (p Predicate) Validate() error {
	switch p.Op {
	case Eq, Ne, Gt, Ge, Lt, Le:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownOp, p.Op)
	}
}

// Match evaluates the predicate against row. Comparison is numeric when both sides can be
// converted to float64, otherwise the string representations are compared. Rows missing the
// column never match
func (p Predicate) Match(row Row) bool {
	v, ok := row[p.Column]
	if !ok || v == nil {
		return false
	}

	var cmp int
	lhs, lerr := cast.ToFloat64E(v)
	rhs, rerr := cast.ToFloat64E(p.Value)
	if lerr == nil && rerr == nil && !math.IsNaN(lhs) && !math.IsNaN(rhs) {
		switch {
		case lhs < rhs:
			cmp = -1
		case lhs > rhs:
			cmp = 1
		}
	} else {
		cmp = strings.Compare(cast.ToString(v), cast.ToString(p.Value))
	}

	switch p.Op {
	case Eq:
		return cmp == 0
	case Ne:
		return cmp != 0
	case Gt:
		return cmp > 0
	case Ge:
		return cmp >= 0
	case Lt:
		return cmp < 0
	case Le:
		return cmp <= 0
	default:
		return false
	}
}

// normalizeKey maps numeric values to float64 so that 30 and "30" land in the same bucket
func normalizeKey(v any) any {
	switch val := v.(type) {
	case nil:
		return nil
	case float64:
		return val
	case string:
		if f, err := cast.ToFloat64E(val); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) && strings.TrimSpace(val) != "" {
			return f
		}
		return val
	default:
		if f, err := cast.ToFloat64E(val); err == nil {
			return f
		}
		return cast.ToString(val)
	}
}
