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
	"math"

	"github.com/penny-vault/voldash/data"
	"github.com/penny-vault/voldash/dataframe"
)

// Shape selects how a panel reshapes its resource
type Shape string

const (
	ShapeTable       Shape = "table"
	ShapeLatestRow   Shape = "latest_row"
	ShapeRowByKey    Shape = "row_by_key"
	ShapeRowBars     Shape = "row_bars"
	ShapeSeries      Shape = "series"
	ShapeSplitSeries Shape = "split_series"
	ShapeMatrix      Shape = "matrix"
	ShapePivot       Shape = "pivot"
	ShapeGroup       Shape = "group"
	ShapeMetrics     Shape = "metrics"
	ShapePayoff      Shape = "payoff"
)

// Display is a hint to the rendering client; it never changes the payload
type Display string

const (
	DisplayTable     Display = "table"
	DisplayMetrics   Display = "metrics"
	DisplayText      Display = "text"
	DisplayLine      Display = "line"
	DisplayArea      Display = "area"
	DisplayBar       Display = "bar"
	DisplaySurface   Display = "surface"
	DisplayScatter3D Display = "scatter3d"
	DisplayLine3D    Display = "line3d"
)

// MetricKind selects the reduction used for a headline number
type MetricKind string

const (
	MetricSum   MetricKind = "sum"
	MetricMean  MetricKind = "mean"
	MetricCount MetricKind = "count"
	MetricLast  MetricKind = "last"
	MetricShare MetricKind = "share"
)

// Metric describes one headline number. Window keeps only the last Window rows, Where
// filters rows before reducing and Share is the predicate counted by MetricShare
type Metric struct {
	Label  string               `json:"label"`
	Column string               `json:"column,omitempty"`
	Kind   MetricKind           `json:"kind"`
	Format string               `json:"format,omitempty"`
	Window int                  `json:"window,omitempty"`
	Where  *dataframe.Predicate `json:"where,omitempty"`
	Share  *dataframe.Predicate `json:"share,omitempty"`
}

// Bar maps a column of a single row onto a labeled bar
type Bar struct {
	Label  string `json:"label"`
	Column string `json:"column"`
}

// Panel is a declarative (resource, shape, display) triple plus the parameters of its shape
type Panel struct {
	ID       string        `json:"id"`
	Title    string        `json:"title"`
	Resource data.Resource `json:"resource"`
	Shape    Shape         `json:"shape"`
	Display  Display       `json:"display"`

	Columns []string `json:"columns,omitempty"`
	Head    int      `json:"head,omitempty"`
	Tail    int      `json:"tail,omitempty"`

	// Key is the lookup column for row_by_key/row_bars, the split column for split_series,
	// the group column for group and the row axis for pivot
	Key      string                  `json:"key,omitempty"`
	ColKey   string                  `json:"col_key,omitempty"`
	Value    string                  `json:"value,omitempty"`
	Param    string                  `json:"param,omitempty"`
	X        string                  `json:"x,omitempty"`
	Y        []string                `json:"y,omitempty"`
	Suffix   string                  `json:"suffix,omitempty"`
	Kind     dataframe.AggregateKind `json:"kind,omitempty"`
	SortDesc bool                    `json:"sort_desc,omitempty"`

	Bars    []Bar     `json:"bars,omitempty"`
	Metrics []Metric  `json:"metrics,omitempty"`
	Axis    []float64 `json:"axis,omitempty"`
}

// Page groups the panels shown together
type Page struct {
	ID     string   `json:"id"`
	Title  string   `json:"title"`
	Panels []*Panel `json:"panels"`
}

// Panel returns the panel with id or nil
func (p *Page) Panel(id string) *Panel {
	for _, panel := range p.Panels {
		if panel.ID == id {
			return panel
		}
	}
	return nil
}

// Params are the user selections sent with a request, e.g. scenario=Crash
type Params map[string]string

// Result is a built panel ready to hand to a renderer
type Result struct {
	Page     string        `json:"page"`
	Panel    string        `json:"panel"`
	Title    string        `json:"title"`
	Resource data.Resource `json:"resource"`
	Shape    Shape         `json:"shape"`
	Display  Display       `json:"display"`
	Empty    bool          `json:"empty"`
	Notice   string        `json:"notice,omitempty"`
	Data     any           `json:"data,omitempty"`
}

type TablePayload struct {
	Columns []string `json:"columns"`
	Rows    [][]any  `json:"rows"`
}

type Field struct {
	Name  string `json:"name"`
	Value any    `json:"value"`
}

type RowPayload struct {
	Key      string   `json:"key,omitempty"`
	Selected string   `json:"selected,omitempty"`
	Options  []string `json:"options,omitempty"`
	Fields   []Field  `json:"fields"`
}

// Get returns the value of the named field
func (r *RowPayload) Get(name string) (any, bool) {
	for _, f := range r.Fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return nil, false
}

type BarValue struct {
	Label string   `json:"label"`
	Value *float64 `json:"value"`
}

type BarsPayload struct {
	Selected string     `json:"selected,omitempty"`
	Options  []string   `json:"options,omitempty"`
	Bars     []BarValue `json:"bars"`
}

type Series struct {
	Name string     `json:"name"`
	X    []any      `json:"x"`
	Y    []*float64 `json:"y"`
}

type SeriesPayload struct {
	XLabel string    `json:"x_label,omitempty"`
	Series []*Series `json:"series"`
}

type GridPayload struct {
	RowLabel   string       `json:"row_label,omitempty"`
	ColLabel   string       `json:"col_label,omitempty"`
	ValueLabel string       `json:"value_label,omitempty"`
	RowKeys    []any        `json:"row_keys"`
	ColKeys    []any        `json:"col_keys"`
	Values     [][]*float64 `json:"values"`
}

type MetricValue struct {
	Label  string   `json:"label"`
	Value  *float64 `json:"value"`
	Format string   `json:"format,omitempty"`
}

type MetricsPayload struct {
	Metrics []MetricValue `json:"metrics"`
}

// Get returns the value of the metric with label; NaN for unknown labels and null values
func (m *MetricsPayload) Get(label string) float64 {
	for _, v := range m.Metrics {
		if v.Label == label && v.Value != nil {
			return *v.Value
		}
	}
	return math.NaN()
}

// num converts f for serialization; NaN and Inf have no JSON representation and become null
func num(f float64) *float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

func nums(vals []float64) []*float64 {
	res := make([]*float64, len(vals))
	for idx, v := range vals {
		res[idx] = num(v)
	}
	return res
}
