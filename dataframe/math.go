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
	"math"
	"sort"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cast"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// dropNaN returns a new slice without NaN values
func dropNaN(vals []float64) []float64 {
	res := make([]float64, 0, len(vals))
	for _, v := range vals {
		if !math.IsNaN(v) {
			res = append(res, v)
		}
	}
	return res
}

// Sum adds all numeric values in the column; non-numeric values are skipped. Returns 0 for an empty table
func (t *Table) Sum(colName string) float64 {
	return floats.Sum(dropNaN(t.Floats(colName)))
}

// Mean averages all numeric values in the column; non-numeric values are skipped. Returns NaN when
// there are no numeric values
func (t *Table) Mean(colName string) float64 {
	vals := dropNaN(t.Floats(colName))
	if len(vals) == 0 {
		return math.NaN()
	}
	return stat.Mean(vals, nil)
}

// GroupBy groups rows by the value in keyCol and reduces valCol for each group with kind. Groups
// are returned in order of first appearance
func (t *Table) GroupBy(keyCol, valCol string, kind AggregateKind) *Aggregate {
	agg := &Aggregate{
		Keys: []string{},
		Vals: []float64{},
	}

	if t.Len() == 0 {
		return agg
	}

	groups := make(map[string][]float64)
	for _, row := range t.Rows {
		k, ok := row[keyCol]
		if !ok || k == nil {
			continue
		}
		key := cast.ToString(k)
		if _, seen := groups[key]; !seen {
			agg.Keys = append(agg.Keys, key)
			groups[key] = []float64{}
		}
		groups[key] = append(groups[key], row.Float(valCol))
	}

	for _, key := range agg.Keys {
		vals := groups[key]
		switch kind {
		case Sum:
			agg.Vals = append(agg.Vals, floats.Sum(dropNaN(vals)))
		case Mean:
			clean := dropNaN(vals)
			if len(clean) == 0 {
				agg.Vals = append(agg.Vals, math.NaN())
			} else {
				agg.Vals = append(agg.Vals, stat.Mean(clean, nil))
			}
		case Count:
			agg.Vals = append(agg.Vals, float64(len(vals)))
		default:
			log.Panic().Str("Kind", string(kind)).Msg("unknown aggregate kind provided to GroupBy")
		}
	}

	return agg
}

// ValueCounts counts the number of rows for each distinct value of colName
func (t *Table) ValueCounts(colName string) *Aggregate {
	return t.GroupBy(colName, colName, Count).SortDesc()
}

// Pivot reshapes the table into a grid with the distinct values of rowKey as rows, the distinct values
// of colKey as columns and valCol at each intersection. Keys are sorted ascending; numerically if every
// key is numeric. If a (row, col) pair occurs more than once the last value wins
func (t *Table) Pivot(rowKey, colKey, valCol string) *Grid {
	grid := &Grid{
		RowKeys: []any{},
		ColKeys: []any{},
		Vals:    [][]float64{},
	}

	if t.Len() == 0 {
		return grid
	}

	grid.RowKeys = SortKeys(t.Unique(rowKey))
	grid.ColKeys = SortKeys(t.Unique(colKey))

	rowIdx := make(map[any]int, len(grid.RowKeys))
	for idx, k := range grid.RowKeys {
		rowIdx[k] = idx
	}
	colIdx := make(map[any]int, len(grid.ColKeys))
	for idx, k := range grid.ColKeys {
		colIdx[k] = idx
	}

	grid.Vals = make([][]float64, len(grid.RowKeys))
	set := make([][]bool, len(grid.RowKeys))
	for idx := range grid.Vals {
		grid.Vals[idx] = make([]float64, len(grid.ColKeys))
		set[idx] = make([]bool, len(grid.ColKeys))
		for jj := range grid.Vals[idx] {
			grid.Vals[idx][jj] = math.NaN()
		}
	}

	duplicates := 0
	for _, row := range t.Rows {
		r, ok := rowIdx[normalizeKey(row[rowKey])]
		if !ok {
			continue
		}
		c, ok := colIdx[normalizeKey(row[colKey])]
		if !ok {
			continue
		}
		if set[r][c] {
			duplicates++
		}
		grid.Vals[r][c] = row.Float(valCol)
		set[r][c] = true
	}

	if duplicates > 0 {
		log.Debug().Int("Duplicates", duplicates).Str("RowKey", rowKey).Str("ColKey", colKey).Msg("pivot encountered duplicate pairs; last value kept")
	}

	return grid
}

// SortKeys sorts keys in place; numerically when every key is a float64, otherwise by their string form
func SortKeys(keys []any) []any {
	numeric := true
	for _, k := range keys {
		if _, ok := k.(float64); !ok {
			numeric = false
			break
		}
	}

	sort.SliceStable(keys, func(i, j int) bool {
		if numeric {
			return keys[i].(float64) < keys[j].(float64)
		}
		return cast.ToString(keys[i]) < cast.ToString(keys[j])
	})

	return keys
}

// Get returns the value at the intersection of rowKey and colKey; ok is false if either key is unknown
// or the intersection is empty
func (g *Grid) Get(rowKey, colKey any) (float64, bool) {
	if g == nil {
		return math.NaN(), false
	}
	r, c := -1, -1
	rk, ck := normalizeKey(rowKey), normalizeKey(colKey)
	for idx, k := range g.RowKeys {
		if k == rk {
			r = idx
			break
		}
	}
	for idx, k := range g.ColKeys {
		if k == ck {
			c = idx
			break
		}
	}
	if r == -1 || c == -1 || math.IsNaN(g.Vals[r][c]) {
		return math.NaN(), false
	}
	return g.Vals[r][c], true
}

// Len returns the number of keys in the aggregate
func (a *Aggregate) Len() int {
	if a == nil {
		return 0
	}
	return len(a.Keys)
}

// Get returns the aggregate value for key
func (a *Aggregate) Get(key string) (float64, bool) {
	if a == nil {
		return 0, false
	}
	for idx, k := range a.Keys {
		if k == key {
			return a.Vals[idx], true
		}
	}
	return 0, false
}

// Map returns the aggregate as a map
func (a *Aggregate) Map() map[string]float64 {
	res := make(map[string]float64, a.Len())
	if a == nil {
		return res
	}
	for idx, k := range a.Keys {
		res[k] = a.Vals[idx]
	}
	return res
}

// SortDesc returns a new aggregate sorted by value, largest first. Ties keep their original order and
// NaN values sort last
func (a *Aggregate) SortDesc() *Aggregate {
	n := a.Len()
	order := make([]int, n)
	for idx := range order {
		order[idx] = idx
	}
	sort.SliceStable(order, func(i, j int) bool {
		vi, vj := a.Vals[order[i]], a.Vals[order[j]]
		if math.IsNaN(vj) {
			return !math.IsNaN(vi)
		}
		return vi > vj
	})

	res := &Aggregate{
		Keys: make([]string, 0, n),
		Vals: make([]float64, 0, n),
	}
	for _, idx := range order {
		res.Keys = append(res.Keys, a.Keys[idx])
		res.Vals = append(res.Vals, a.Vals[idx])
	}
	return res
}
