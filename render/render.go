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

// Package render draws built panels as PNG charts
package render

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/penny-vault/voldash/view"
	"github.com/spf13/cast"
	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

var (
	ErrNotRenderable     = errors.New("panel shape cannot be rendered as a chart")
	ErrNothingToRender   = errors.New("panel has no data to render")
	ErrUnexpectedPayload = errors.New("unexpected payload type")
)

// Options controls the canvas size
type Options struct {
	Width  int
	Height int
}

var DefaultOptions = Options{
	Width:  1024,
	Height: 512,
}

var palette = []drawing.Color{
	drawing.ColorFromHex("1E3A8A"),
	drawing.ColorFromHex("DC2626"),
	drawing.ColorFromHex("059669"),
	drawing.ColorFromHex("D97706"),
	drawing.ColorFromHex("7C3AED"),
	drawing.ColorFromHex("0891B2"),
}

// Renderable returns true if shape can be drawn by PNG
func Renderable(shape view.Shape) bool {
	switch shape {
	case view.ShapeSeries, view.ShapeSplitSeries, view.ShapeGroup, view.ShapeRowBars:
		return true
	default:
		return false
	}
}

// PNG draws res into w. Series shapes become line charts and bar shapes become bar charts
func PNG(w io.Writer, res *view.Result, opts Options) error {
	if !Renderable(res.Shape) {
		return fmt.Errorf("%w: %s", ErrNotRenderable, res.Shape)
	}
	if res.Empty || res.Data == nil {
		return ErrNothingToRender
	}

	if opts.Width <= 0 {
		opts.Width = DefaultOptions.Width
	}
	if opts.Height <= 0 {
		opts.Height = DefaultOptions.Height
	}

	switch payload := res.Data.(type) {
	case *view.SeriesPayload:
		return lineChart(w, res.Title, payload, opts)
	case *view.BarsPayload:
		return barChart(w, res.Title, payload, opts)
	default:
		return fmt.Errorf("%w: %T", ErrUnexpectedPayload, res.Data)
	}
}

// xFloats converts x values to float64; non-numeric axes (e.g. dates) fall back to position
func xFloats(xs []any) []float64 {
	res := make([]float64, len(xs))
	for idx, x := range xs {
		if p, ok := x.(*float64); ok && p != nil {
			res[idx] = *p
			continue
		}
		f, err := cast.ToFloat64E(x)
		if err != nil {
			for jj := range res {
				res[jj] = float64(jj)
			}
			return res
		}
		res[idx] = f
	}
	return res
}

func lineChart(w io.Writer, title string, payload *view.SeriesPayload, opts Options) error {
	series := make([]chart.Series, 0, len(payload.Series))
	lo, hi := math.Inf(1), math.Inf(-1)

	for idx, s := range payload.Series {
		xs := xFloats(s.X)
		cs := chart.ContinuousSeries{
			Name: s.Name,
			Style: chart.Style{
				StrokeColor: palette[idx%len(palette)],
				StrokeWidth: 2,
			},
		}
		for jj, y := range s.Y {
			if y == nil || jj >= len(xs) {
				continue
			}
			cs.XValues = append(cs.XValues, xs[jj])
			cs.YValues = append(cs.YValues, *y)
			lo, hi = math.Min(lo, *y), math.Max(hi, *y)
		}
		// a single point has no x range
		if len(cs.XValues) < 2 {
			continue
		}
		series = append(series, cs)
	}

	if len(series) == 0 {
		return ErrNothingToRender
	}

	ch := chart.Chart{
		Title:      title,
		Width:      opts.Width,
		Height:     opts.Height,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 12, Bottom: 16}},
		XAxis:      chart.XAxis{Name: payload.XLabel},
		Series:     series,
	}
	if lo == hi {
		ch.YAxis.Range = &chart.ContinuousRange{Min: lo - 1, Max: hi + 1}
	}
	if len(series) > 1 {
		ch.Elements = []chart.Renderable{chart.Legend(&ch)}
	}

	return ch.Render(chart.PNG, w)
}

func barChart(w io.Writer, title string, payload *view.BarsPayload, opts Options) error {
	bars := make([]chart.Value, 0, len(payload.Bars))
	lo, hi := 0.0, 0.0
	for idx, b := range payload.Bars {
		if b.Value == nil {
			continue
		}
		bars = append(bars, chart.Value{
			Label: b.Label,
			Value: *b.Value,
			Style: chart.Style{
				FillColor:   palette[idx%len(palette)],
				StrokeColor: palette[idx%len(palette)],
			},
		})
		lo, hi = math.Min(lo, *b.Value), math.Max(hi, *b.Value)
	}

	if len(bars) == 0 {
		return ErrNothingToRender
	}

	barWidth := opts.Width / (2 * len(bars))
	if barWidth > 80 {
		barWidth = 80
	}
	if barWidth < 4 {
		barWidth = 4
	}

	bc := chart.BarChart{
		Title:        title,
		Width:        opts.Width,
		Height:       opts.Height,
		BarWidth:     barWidth,
		Background:   chart.Style{Padding: chart.Box{Top: 40}},
		UseBaseValue: true,
		BaseValue:    0,
		Bars:         bars,
	}
	if lo == hi {
		// every bar is zero
		hi = lo + 1
	}
	bc.YAxis.Range = &chart.ContinuousRange{Min: lo, Max: hi}

	return bc.Render(chart.PNG, w)
}
