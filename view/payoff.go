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

package view

import (
	"github.com/penny-vault/voldash/dataframe"
	"gonum.org/v1/gonum/floats"
)

const (
	PayoffNotional = 100000
	payoffPoints   = 30
)

// PayoffStrikes are the variance strikes of the illustration mesh
func PayoffStrikes() []float64 {
	return floats.Span(make([]float64, payoffPoints), 200, 600)
}

// PayoffVols are the realized vols of the illustration mesh as fractions
func PayoffVols() []float64 {
	return floats.Span(make([]float64, payoffPoints), 0.10, 0.40)
}

// VarianceSwapPayoff evaluates notional * ((vol*100)^2 - strike) over the mesh. Rows are
// realized vol in percent and columns are strikes
func VarianceSwapPayoff(strikes, vols []float64, notional float64) *dataframe.Grid {
	g := &dataframe.Grid{
		RowKeys: make([]any, 0, len(vols)),
		ColKeys: make([]any, 0, len(strikes)),
		Vals:    make([][]float64, 0, len(vols)),
	}

	for _, k := range strikes {
		g.ColKeys = append(g.ColKeys, k)
	}

	for _, v := range vols {
		pct := v * 100
		g.RowKeys = append(g.RowKeys, pct)
		row := make([]float64, len(strikes))
		for jj, k := range strikes {
			row[jj] = notional * (pct*pct - k)
		}
		g.Vals = append(g.Vals, row)
	}

	return g
}
