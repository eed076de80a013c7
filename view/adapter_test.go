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

package view_test

import (
	"context"
	"errors"
	"time"

	"github.com/goccy/go-json"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/penny-vault/voldash/common"
	"github.com/penny-vault/voldash/data"
	"github.com/penny-vault/voldash/fsmockhelper"
	"github.com/penny-vault/voldash/view"
)

var _ = Describe("Adapter", func() {
	var (
		adapter *view.Adapter
		ctx     context.Context
	)

	BeforeEach(func() {
		ctx = context.Background()
		adapter = view.NewAdapter(data.NewLoader(fsmockhelper.NewFs(data.AlertRules)), nil)
	})

	Context("with unknown identifiers", func() {
		It("rejects an unknown page", func() {
			_, err := adapter.Build(ctx, "options-chain", "surface", nil)
			Expect(errors.Is(err, view.ErrUnknownPage)).To(BeTrue())
		})

		It("rejects an unknown panel", func() {
			_, err := adapter.Build(ctx, "vol-surface", "smile", nil)
			Expect(errors.Is(err, view.ErrUnknownPanel)).To(BeTrue())
		})
	})

	Context("when the resource is missing", func() {
		It("returns an empty result with a notice", func() {
			res, err := adapter.Build(ctx, "alerts", "rules", nil)
			Expect(err).To(BeNil())
			Expect(res.Empty).To(BeTrue())
			Expect(res.Notice).To(Equal("alert_rules data not loaded"))
			Expect(res.Data).To(BeNil())
		})

		It("still builds the other panels on the page", func() {
			results, err := adapter.BuildPage(ctx, "alerts", nil)
			Expect(err).To(BeNil())
			Expect(results).To(HaveLen(3))
			Expect(results[0].Empty).To(BeTrue())
			Expect(results[1].Empty).To(BeFalse())
			Expect(results[1].Data.(*view.TablePayload).Rows).To(HaveLen(4))
		})
	})

	Context("when every resource is missing", func() {
		It("builds every panel without error", func() {
			adapter = view.NewAdapter(data.NewLoader(fsmockhelper.NewFs(data.AllResources...)), nil)
			for _, page := range adapter.Registry().Pages() {
				results, err := adapter.BuildPage(ctx, page.ID, nil)
				Expect(err).To(BeNil(), page.ID)
				for _, res := range results {
					Expect(res.Empty).To(BeTrue(), page.ID+"/"+res.Panel)
					Expect(res.Notice).To(HaveSuffix("data not loaded"))
				}
			}
		})
	})

	Context("when every resource is present", func() {
		It("builds every panel on every page", func() {
			for _, page := range adapter.Registry().Pages() {
				results, err := adapter.BuildPage(ctx, page.ID, nil)
				Expect(err).To(BeNil(), page.ID)
				Expect(results).To(HaveLen(len(page.Panels)))
				for _, res := range results {
					if res.Resource == data.AlertRules {
						continue
					}
					Expect(res.Empty).To(BeFalse(), page.ID+"/"+res.Panel)
					_, err := json.Marshal(res)
					Expect(err).To(BeNil())
				}
			}
		})
	})

	Context("scenario selection", func() {
		It("selects the first scenario when no parameter is given", func() {
			res, err := adapter.Build(ctx, "scenarios", "headline", nil)
			Expect(err).To(BeNil())
			row := res.Data.(*view.RowPayload)
			Expect(row.Selected).To(Equal("Base Case"))
			Expect(row.Options).To(Equal([]string{"Base Case", "Crash", "Rally"}))
		})

		It("selects the requested scenario", func() {
			res, err := adapter.Build(ctx, "scenarios", "headline", view.Params{view.ScenarioParam: "Crash"})
			Expect(err).To(BeNil())
			row := res.Data.(*view.RowPayload)
			Expect(row.Selected).To(Equal("Crash"))
			Expect(row.Fields).To(HaveLen(3))

			v, ok := row.Get("SPX_Move_Pct")
			Expect(ok).To(BeTrue())
			Expect(*(v.(*float64))).To(Equal(-20.0))
			v, _ = row.Get("Total_Portfolio_PnL")
			Expect(*(v.(*float64))).To(Equal(-2400000.0))
		})

		It("builds the strategy bars for the scenario", func() {
			res, err := adapter.Build(ctx, "scenarios", "pnl-impact", view.Params{view.ScenarioParam: "Crash"})
			Expect(err).To(BeNil())
			bars := res.Data.(*view.BarsPayload)
			Expect(bars.Bars).To(HaveLen(3))
			Expect(bars.Bars[0].Label).To(Equal("Variance Swaps"))
			Expect(*bars.Bars[0].Value).To(Equal(-3100000.0))
			Expect(*bars.Bars[1].Value).To(Equal(650000.0))
			Expect(*bars.Bars[2].Value).To(Equal(50000.0))
		})

		It("signals an unknown scenario", func() {
			_, err := adapter.Build(ctx, "scenarios", "headline", view.Params{view.ScenarioParam: "Meteor"})
			Expect(errors.Is(err, view.ErrRowNotFound)).To(BeTrue())
		})
	})

	Context("vol surface", func() {
		It("pivots strikes against maturities", func() {
			res, err := adapter.Build(ctx, "vol-surface", "surface", nil)
			Expect(err).To(BeNil())
			grid := res.Data.(*view.GridPayload)
			Expect(grid.RowKeys).To(Equal([]any{4800.0, 5000.0, 5200.0}))
			Expect(grid.ColKeys).To(Equal([]any{30.0, 60.0, 90.0}))
			Expect(*grid.Values[0][0]).To(Equal(0.22))
			Expect(*grid.Values[1][1]).To(Equal(0.19))
			Expect(*grid.Values[2][2]).To(Equal(0.175))
		})

		It("splits the skew by maturity in ascending order", func() {
			res, err := adapter.Build(ctx, "vol-surface", "skew", nil)
			Expect(err).To(BeNil())
			series := res.Data.(*view.SeriesPayload).Series
			Expect(series).To(HaveLen(3))
			Expect(series[0].Name).To(Equal("30D"))
			Expect(series[2].Name).To(Equal("90D"))
			Expect(series[0].Y).To(HaveLen(3))
		})
	})

	Context("vix term structure", func() {
		It("builds the evolution matrix against the tenor axis", func() {
			res, err := adapter.Build(ctx, "vix-term-structure", "evolution", nil)
			Expect(err).To(BeNil())
			grid := res.Data.(*view.GridPayload)
			Expect(grid.ColKeys).To(Equal([]any{0.0, 30.0, 60.0, 90.0}))
			Expect(grid.RowKeys).To(HaveLen(5))
			Expect(*grid.Values[2][0]).To(Equal(24.8))
			Expect(*grid.Values[2][3]).To(Equal(21.9))
		})

		It("numbers matrix rows from the start of the window", func() {
			reg, err := view.NewRegistry(&view.Page{
				ID: "recent",
				Panels: []*view.Panel{{
					ID:       "evolution",
					Resource: data.VixTermStructureForecast,
					Shape:    view.ShapeMatrix,
					Display:  view.DisplaySurface,
					Tail:     2,
					Columns:  []string{"VIX_Spot", "VIX_1M_Future", "VIX_2M_Future", "VIX_3M_Future"},
					Axis:     []float64{0, 30, 60, 90},
				}},
			})
			Expect(err).To(BeNil())
			adapter = view.NewAdapterWithRegistry(data.NewLoader(fsmockhelper.NewFs()), reg, nil)

			res, err := adapter.Build(ctx, "recent", "evolution", nil)
			Expect(err).To(BeNil())
			grid := res.Data.(*view.GridPayload)
			Expect(grid.RowKeys).To(Equal([]any{0, 1}))
			Expect(*grid.Values[0][0]).To(Equal(22.0))
			Expect(*grid.Values[1][0]).To(Equal(18.45))
		})

		It("counts regime days and reports 0 for absent regimes", func() {
			res, err := adapter.Build(ctx, "vix-term-structure", "regimes", nil)
			Expect(err).To(BeNil())
			m := res.Data.(*view.MetricsPayload)
			Expect(m.Get("Contango Days")).To(Equal(3.0))
			Expect(m.Get("Backwardation Days")).To(Equal(2.0))
			Expect(m.Get("Flat Days")).To(Equal(0.0))
		})
	})

	Context("trade journal", func() {
		It("computes the summary metrics", func() {
			res, err := adapter.Build(ctx, "trade-journal", "summary", nil)
			Expect(err).To(BeNil())
			m := res.Data.(*view.MetricsPayload)
			Expect(m.Get("Total Trades")).To(Equal(6.0))
			Expect(m.Get("Open Positions")).To(Equal(2.0))
			Expect(m.Get("Total P&L")).To(Equal(3000.0))
			Expect(m.Get("Win Rate")).To(Equal(0.5))
		})

		It("limits the recent trades to the requested columns", func() {
			res, err := adapter.Build(ctx, "trade-journal", "recent", nil)
			Expect(err).To(BeNil())
			t := res.Data.(*view.TablePayload)
			Expect(t.Columns).To(Equal([]string{"Entry_Date", "Strategy", "Direction", "Position_Size", "Entry_Price", "Status"}))
			Expect(t.Rows).To(HaveLen(6))
			Expect(t.Rows[0][0]).To(Equal("2025-01-02"))
		})

		It("sums P&L by strategy, largest first", func() {
			res, err := adapter.Build(ctx, "trade-journal", "pnl-by-strategy", nil)
			Expect(err).To(BeNil())
			bars := res.Data.(*view.BarsPayload).Bars
			Expect(bars[0].Label).To(Equal("Variance Carry"))
			Expect(*bars[0].Value).To(Equal(3500.0))
			Expect(bars[2].Label).To(Equal("Dispersion"))
			Expect(*bars[2].Value).To(Equal(-500.0))
		})
	})

	Context("research", func() {
		It("shows the first note", func() {
			res, err := adapter.Build(ctx, "research", "latest-note", nil)
			Expect(err).To(BeNil())
			row := res.Data.(*view.RowPayload)
			v, _ := row.Get("Date")
			Expect(v).To(Equal("2025-01-06"))
			v, _ = row.Get("Trade_Idea")
			Expect(v).To(Equal("Sell Feb variance vs buy Mar"))
		})
	})

	Context("performance", func() {
		It("plots cumulative P&L against row position", func() {
			res, err := adapter.Build(ctx, "performance", "cumulative-pnl", nil)
			Expect(err).To(BeNil())
			s := res.Data.(*view.SeriesPayload).Series[0]
			Expect(s.X).To(Equal([]any{0, 1, 2, 3}))
			Expect(*s.Y[3]).To(Equal(42000.0))
		})

		It("summarizes the last and average values", func() {
			res, err := adapter.Build(ctx, "performance", "summary", nil)
			Expect(err).To(BeNil())
			m := res.Data.(*view.MetricsPayload)
			Expect(m.Get("Total P&L")).To(Equal(42000.0))
			Expect(m.Get("Avg Sharpe")).To(BeNumerically("~", 1.6, 1e-9))
			Expect(m.Get("Win Rate")).To(BeNumerically("~", 0.575, 1e-9))
		})
	})

	Context("global markets", func() {
		It("counts arbitrage opportunities", func() {
			res, err := adapter.Build(ctx, "global-markets", "arbitrage", nil)
			Expect(err).To(BeNil())
			Expect(res.Data.(*view.MetricsPayload).Get("Arbitrage Opportunities")).To(Equal(2.0))
		})
	})

	Context("command center", func() {
		It("totals the portfolio greeks", func() {
			res, err := adapter.Build(ctx, "command-center", "portfolio-greeks", nil)
			Expect(err).To(BeNil())
			m := res.Data.(*view.MetricsPayload)
			Expect(m.Get("Total Vega")).To(Equal(-25000.0))
			Expect(m.Get("Total Gamma")).To(BeNumerically("~", 0.5, 1e-9))
			Expect(m.Get("Total Delta")).To(Equal(-1700.0))
		})
	})

	Context("variance swap payoff", func() {
		It("is a 30x30 surface", func() {
			res, err := adapter.Build(ctx, "advanced-3d", "payoff-surface", nil)
			Expect(err).To(BeNil())
			grid := res.Data.(*view.GridPayload)
			Expect(grid.RowKeys).To(HaveLen(30))
			Expect(grid.ColKeys).To(HaveLen(30))
			Expect(grid.Values).To(HaveLen(30))
			Expect(*grid.Values[0][0]).To(BeNumerically("~", -1e7, 1e-3))
			Expect(*grid.Values[0][29]).To(BeNumerically("~", -5e7, 1e-3))
			Expect(*grid.Values[29][0]).To(BeNumerically("~", 1.4e8, 1e-3))
			Expect(*grid.Values[29][29]).To(BeNumerically("~", 1e8, 1e-3))
		})

		It("is gated on variance swap pricing", func() {
			adapter = view.NewAdapter(data.NewLoader(fsmockhelper.NewFs(data.VarianceSwapPricing)), nil)
			res, err := adapter.Build(ctx, "advanced-3d", "payoff-surface", nil)
			Expect(err).To(BeNil())
			Expect(res.Empty).To(BeTrue())
			Expect(res.Notice).To(Equal("variance_swap_pricing data not loaded"))
		})
	})

	Context("with a cache", func() {
		It("returns the cached encoding on repeated requests", func() {
			cache, err := common.NewCache(16, nil, time.Minute)
			Expect(err).To(BeNil())
			adapter = view.NewAdapter(data.NewLoader(fsmockhelper.NewFs()), cache)

			first, err := adapter.BuildJSON(ctx, "scenarios", "headline", view.Params{view.ScenarioParam: "Rally"})
			Expect(err).To(BeNil())
			Expect(cache.Len()).To(Equal(1))

			second, err := adapter.BuildJSON(ctx, "scenarios", "headline", view.Params{view.ScenarioParam: "Rally"})
			Expect(err).To(BeNil())
			Expect(second).To(Equal(first))
			Expect(cache.Len()).To(Equal(1))

			var res map[string]any
			Expect(json.Unmarshal(first, &res)).To(Succeed())
			Expect(res["panel"]).To(Equal("headline"))
			Expect(res["data"].(map[string]any)["selected"]).To(Equal("Rally"))
		})

		It("keys entries by the panel parameter", func() {
			cache, err := common.NewCache(16, nil, time.Minute)
			Expect(err).To(BeNil())
			adapter = view.NewAdapter(data.NewLoader(fsmockhelper.NewFs()), cache)

			_, err = adapter.BuildJSON(ctx, "scenarios", "headline", view.Params{view.ScenarioParam: "Rally", "ignored": "x"})
			Expect(err).To(BeNil())
			_, err = adapter.BuildJSON(ctx, "scenarios", "headline", view.Params{view.ScenarioParam: "Rally"})
			Expect(err).To(BeNil())
			_, err = adapter.BuildJSON(ctx, "scenarios", "headline", view.Params{view.ScenarioParam: "Crash"})
			Expect(err).To(BeNil())
			Expect(cache.Len()).To(Equal(2))
		})

		It("does not share entries between catalogs with different contents", func() {
			cache, err := common.NewCache(16, nil, time.Minute)
			Expect(err).To(BeNil())

			original := view.NewAdapter(data.NewLoader(fsmockhelper.NewFs()), cache)
			first, err := original.BuildJSON(ctx, "vol-surface", "surface", nil)
			Expect(err).To(BeNil())

			fs := fsmockhelper.NewFs()
			fsmockhelper.WriteResource(fs, data.VolatilitySurface, "Strike,Maturity_Days,Implied_Vol\n4800,30,0.31\n")
			updated := view.NewAdapter(data.NewLoader(fs), cache)
			second, err := updated.BuildJSON(ctx, "vol-surface", "surface", nil)
			Expect(err).To(BeNil())
			Expect(second).ToNot(Equal(first))
			Expect(cache.Len()).To(Equal(2))

			var res map[string]any
			Expect(json.Unmarshal(second, &res)).To(Succeed())
			Expect(res["data"].(map[string]any)["row_keys"]).To(Equal([]any{4800.0}))
		})
	})
})
