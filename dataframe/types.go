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
	"errors"
)

// Row maps a column name to a scalar value. Values are float64 for numeric
// cells, nil for empty cells and string for everything else (including dates)
type Row map[string]any

// Table stores an ordered sequence of rows loaded from a tabular resource.
// Row order is the insertion order of the source and is significant:
//
// Strike  Maturity_Days  Implied_Vol
// 4500    30             0.18
// 4500    60             0.19
//
// Rows[0]["Strike"] = 4500.0
// Rows[1]["Maturity_Days"] = 60.0
//
// A nil *Table behaves as an empty table for every read operation.
type Table struct {
	ColNames []string
	Rows     []Row
}

// Grid is a two dimensional numeric grid indexed by two categorical axes.
// Vals is row major, Vals[rowIdx][colIdx]; missing intersections are NaN
type Grid struct {
	RowKeys []any
	ColKeys []any
	Vals    [][]float64
}

// Aggregate maps a categorical key to a scalar; Keys and Vals are parallel
type Aggregate struct {
	Keys []string
	Vals []float64
}

// AggregateKind selects the reduction applied to each group
type AggregateKind string

const (
	Sum   AggregateKind = "sum"
	Mean  AggregateKind = "mean"
	Count AggregateKind = "count"
)

// Op is a comparison operator used by predicates
type Op string

const (
	Eq Op = "=="
	Ne Op = "!="
	Gt Op = ">"
	Ge Op = ">="
	Lt Op = "<"
	Le Op = "<="
)

// Predicate compares the value in Column against Value using Op
type Predicate struct {
	Column string `json:"column"`
	Op     Op     `json:"op"`
	Value  any    `json:"value"`
}

var (
	ErrRowNotFound   = errors.New("row not found")
	ErrUnknownOp     = errors.New("unknown comparison operator")
	ErrColumnMissing = errors.New("column does not exist")
)
