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

	"github.com/penny-vault/voldash/dataframe"
	"github.com/spf13/cast"
)

// builder reshapes a non-empty table for one panel. A nil payload means there is nothing to show
type builder func(t *dataframe.Table, p *Panel, params Params) (any, error)

var builders = map[Shape]builder{
	ShapeTable:       buildTable,
	ShapeLatestRow:   buildLatestRow,
	ShapeRowByKey:    buildRowByKey,
	ShapeRowBars:     buildRowBars,
	ShapeSeries:      buildSeries,
	ShapeSplitSeries: buildSplitSeries,
	ShapeMatrix:      buildMatrix,
	ShapePivot:       buildPivot,
	ShapeGroup:       buildGroup,
	ShapeMetrics:     buildMetrics,
	ShapePayoff:      buildPayoff,
}

// window applies the head or tail window of p; offset is the source position of the first row
func window(t *dataframe.Table, p *Panel) (res *dataframe.Table, offset int) {
	switch {
	case p.Head > 0:
		return t.Head(p.Head), 0
	case p.Tail > 0:
		res = t.Tail(p.Tail)
		return res, t.Len() - res.Len()
	default:
		return t, 0
	}
}

// columns returns the requested columns that exist in t; every column when none are requested
func columns(t *dataframe.Table, requested []string) []string {
	if len(requested) == 0 {
		res := make([]string, len(t.ColNames))
		copy(res, t.ColNames)
		return res
	}
	res := make([]string, 0, len(requested))
	for _, col := range requested {
		if t.HasCol(col) {
			res = append(res, col)
		}
	}
	return res
}

// cell prepares a table value for serialization
func cell(v any) any {
	if f, ok := v.(float64); ok {
		return num(f)
	}
	return v
}

func fields(row dataframe.Row, cols []string) []Field {
	res := make([]Field, 0, len(cols))
	for _, col := range cols {
		res = append(res, Field{Name: col, Value: cell(row[col])})
	}
	return res
}

// keyOptions lists the distinct values of col as strings in order of first appearance
func keyOptions(t *dataframe.Table, col string) []string {
	unique := t.Unique(col)
	res := make([]string, 0, len(unique))
	for _, v := range unique {
		res = append(res, cast.ToString(v))
	}
	return res
}

// selectRow returns the row chosen by the panel parameter, defaulting to the first option
func selectRow(t *dataframe.Table, p *Panel, params Params) (row dataframe.Row, selected string, options []string, err error) {
	options = keyOptions(t, p.Key)
	if len(options) == 0 {
		return nil, "", options, nil
	}

	selected = params[p.Param]
	if selected == "" {
		selected = options[0]
	}

	row, err = t.FindRow(p.Key, selected)
	if err != nil {
		return nil, selected, options, err
	}
	return row, selected, options, nil
}

func buildTable(t *dataframe.Table, p *Panel, _ Params) (any, error) {
	t, _ = window(t, p)
	cols := columns(t, p.Columns)

	payload := &TablePayload{
		Columns: cols,
		Rows:    make([][]any, 0, t.Len()),
	}
	for _, row := range t.Rows {
		cells := make([]any, 0, len(cols))
		for _, col := range cols {
			cells = append(cells, cell(row[col]))
		}
		payload.Rows = append(payload.Rows, cells)
	}
	return payload, nil
}

func buildLatestRow(t *dataframe.Table, p *Panel, _ Params) (any, error) {
	row, ok := t.First()
	if !ok {
		return nil, nil
	}
	return &RowPayload{
		Fields: fields(row, columns(t, p.Columns)),
	}, nil
}

func buildRowByKey(t *dataframe.Table, p *Panel, params Params) (any, error) {
	row, selected, options, err := selectRow(t, p, params)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, nil
	}
	return &RowPayload{
		Key:      p.Key,
		Selected: selected,
		Options:  options,
		Fields:   fields(row, columns(t, p.Columns)),
	}, nil
}

func buildRowBars(t *dataframe.Table, p *Panel, params Params) (any, error) {
	row, selected, options, err := selectRow(t, p, params)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, nil
	}

	payload := &BarsPayload{
		Selected: selected,
		Options:  options,
		Bars:     make([]BarValue, 0, len(p.Bars)),
	}
	for _, bar := range p.Bars {
		payload.Bars = append(payload.Bars, BarValue{
			Label: bar.Label,
			Value: num(row.Float(bar.Column)),
		})
	}
	return payload, nil
}

// xValues returns the x column of t, or the source row positions when the panel has no x column
func xValues(t *dataframe.Table, p *Panel, offset int) []any {
	res := make([]any, 0, t.Len())
	if p.X == "" {
		for idx := range t.Rows {
			res = append(res, offset+idx)
		}
		return res
	}
	for _, v := range t.Column(p.X) {
		res = append(res, cell(v))
	}
	return res
}

func buildSeries(t *dataframe.Table, p *Panel, _ Params) (any, error) {
	t, offset := window(t, p)
	xs := xValues(t, p, offset)

	payload := &SeriesPayload{
		XLabel: p.X,
		Series: make([]*Series, 0, len(p.Y)),
	}
	for _, col := range p.Y {
		payload.Series = append(payload.Series, &Series{
			Name: col,
			X:    xs,
			Y:    nums(t.Floats(col)),
		})
	}
	return payload, nil
}

func buildSplitSeries(t *dataframe.Table, p *Panel, _ Params) (any, error) {
	t, _ = window(t, p)
	keys := dataframe.SortKeys(t.Unique(p.Key))
	if len(keys) == 0 {
		return nil, nil
	}

	payload := &SeriesPayload{
		XLabel: p.X,
		Series: make([]*Series, 0, len(keys)*len(p.Y)),
	}
	for _, key := range keys {
		sub := t.Filter(dataframe.Predicate{Column: p.Key, Op: dataframe.Eq, Value: key})
		xs := xValues(sub, p, 0)
		for _, col := range p.Y {
			name := cast.ToString(key) + p.Suffix
			if len(p.Y) > 1 {
				name += " " + col
			}
			payload.Series = append(payload.Series, &Series{
				Name: name,
				X:    xs,
				Y:    nums(sub.Floats(col)),
			})
		}
	}
	return payload, nil
}

// buildMatrix numbers rows by their position within the window, not the source table
func buildMatrix(t *dataframe.Table, p *Panel, _ Params) (any, error) {
	t, _ = window(t, p)

	payload := &GridPayload{
		RowLabel: "position",
		RowKeys:  make([]any, 0, t.Len()),
		ColKeys:  make([]any, 0, len(p.Columns)),
		Values:   make([][]*float64, 0, t.Len()),
	}

	if len(p.Axis) == len(p.Columns) {
		for _, v := range p.Axis {
			payload.ColKeys = append(payload.ColKeys, v)
		}
	} else {
		for _, col := range p.Columns {
			payload.ColKeys = append(payload.ColKeys, col)
		}
	}

	for idx, row := range t.Rows {
		vals := make([]*float64, 0, len(p.Columns))
		for _, col := range p.Columns {
			vals = append(vals, num(row.Float(col)))
		}
		payload.RowKeys = append(payload.RowKeys, idx)
		payload.Values = append(payload.Values, vals)
	}
	return payload, nil
}

func gridPayload(g *dataframe.Grid, rowLabel, colLabel, valueLabel string) *GridPayload {
	payload := &GridPayload{
		RowLabel:   rowLabel,
		ColLabel:   colLabel,
		ValueLabel: valueLabel,
		RowKeys:    g.RowKeys,
		ColKeys:    g.ColKeys,
		Values:     make([][]*float64, 0, len(g.Vals)),
	}
	for _, vals := range g.Vals {
		payload.Values = append(payload.Values, nums(vals))
	}
	return payload
}

func buildPivot(t *dataframe.Table, p *Panel, _ Params) (any, error) {
	g := t.Pivot(p.Key, p.ColKey, p.Value)
	if len(g.RowKeys) == 0 || len(g.ColKeys) == 0 {
		return nil, nil
	}
	return gridPayload(g, p.Key, p.ColKey, p.Value), nil
}

func buildGroup(t *dataframe.Table, p *Panel, _ Params) (any, error) {
	kind := p.Kind
	if kind == "" {
		kind = dataframe.Sum
	}

	agg := t.GroupBy(p.Key, p.Value, kind)
	if p.SortDesc {
		agg = agg.SortDesc()
	}

	payload := &BarsPayload{
		Bars: make([]BarValue, 0, agg.Len()),
	}
	for idx, key := range agg.Keys {
		payload.Bars = append(payload.Bars, BarValue{
			Label: key,
			Value: num(agg.Vals[idx]),
		})
	}
	return payload, nil
}

// metricValue reduces t for m; categories absent from the data count 0
func metricValue(t *dataframe.Table, m Metric) float64 {
	if m.Window > 0 {
		t = t.Tail(m.Window)
	}
	if m.Where != nil {
		t = t.Filter(*m.Where)
	}

	switch m.Kind {
	case MetricSum:
		return t.Sum(m.Column)
	case MetricMean:
		return t.Mean(m.Column)
	case MetricCount:
		return float64(t.Len())
	case MetricLast:
		row, ok := t.Last()
		if !ok {
			return math.NaN()
		}
		return row.Float(m.Column)
	case MetricShare:
		if t.Len() == 0 {
			return math.NaN()
		}
		return float64(t.Filter(*m.Share).Len()) / float64(t.Len())
	default:
		return math.NaN()
	}
}

func buildMetrics(t *dataframe.Table, p *Panel, _ Params) (any, error) {
	payload := &MetricsPayload{
		Metrics: make([]MetricValue, 0, len(p.Metrics)),
	}
	for _, m := range p.Metrics {
		payload.Metrics = append(payload.Metrics, MetricValue{
			Label:  m.Label,
			Value:  num(metricValue(t, m)),
			Format: m.Format,
		})
	}
	return payload, nil
}

func buildPayoff(_ *dataframe.Table, _ *Panel, _ Params) (any, error) {
	g := VarianceSwapPayoff(PayoffStrikes(), PayoffVols(), PayoffNotional)
	return gridPayload(g, "Realized Vol (%)", "Variance Strike", "Payoff (USD)"), nil
}
