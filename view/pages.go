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
	"github.com/penny-vault/voldash/data"
	"github.com/penny-vault/voldash/dataframe"
)

// ScenarioParam selects the row shown by the scenario panels
const ScenarioParam = "scenario"

func eq(col string, val any) *dataframe.Predicate {
	return &dataframe.Predicate{Column: col, Op: dataframe.Eq, Value: val}
}

// rawTable is the panel used for resources without a bespoke display
func rawTable(id, title string, r data.Resource, tail int) *Panel {
	return &Panel{
		ID:       id,
		Title:    title,
		Resource: r,
		Shape:    ShapeTable,
		Display:  DisplayTable,
		Tail:     tail,
	}
}

func payoffPanel() *Panel {
	return &Panel{
		ID:       "payoff-surface",
		Title:    "Variance Swap Payoff Surface",
		Resource: data.VarianceSwapPricing,
		Shape:    ShapePayoff,
		Display:  DisplaySurface,
	}
}

func dashboardPages() []*Page {
	return []*Page{
		{
			ID:    "command-center",
			Title: "Command Center",
			Panels: []*Panel{
				{
					ID:       "top-strategies",
					Title:    "Top Strategies by IR",
					Resource: data.GrinoldKahnStrategies,
					Shape:    ShapeTable,
					Display:  DisplayTable,
					Columns:  []string{"Strategy", "Expected_IR", "Expected_Alpha"},
				},
				{
					ID:       "strategy-ir",
					Title:    "Expected IR by Strategy",
					Resource: data.GrinoldKahnStrategies,
					Shape:    ShapeGroup,
					Display:  DisplayBar,
					Key:      "Strategy",
					Value:    "Expected_IR",
					Kind:     dataframe.Sum,
					SortDesc: true,
				},
				{
					ID:       "portfolio-greeks",
					Title:    "Portfolio Greeks",
					Resource: data.PortfolioGreeks,
					Shape:    ShapeMetrics,
					Display:  DisplayMetrics,
					Metrics: []Metric{
						{Label: "Total Vega", Column: "Vega", Kind: MetricSum, Format: "number"},
						{Label: "Total Gamma", Column: "Gamma", Kind: MetricSum, Format: "decimal"},
						{Label: "Total Delta", Column: "Delta", Kind: MetricSum, Format: "number"},
					},
				},
			},
		},
		{
			ID:    "vol-surface",
			Title: "Volatility Surface",
			Panels: []*Panel{
				{
					ID:       "surface",
					Title:    "Volatility Surface",
					Resource: data.VolatilitySurface,
					Shape:    ShapePivot,
					Display:  DisplaySurface,
					Key:      "Strike",
					ColKey:   "Maturity_Days",
					Value:    "Implied_Vol",
				},
				{
					ID:       "skew",
					Title:    "Volatility Skew Curves",
					Resource: data.VolatilitySurface,
					Shape:    ShapeSplitSeries,
					Display:  DisplayLine,
					Key:      "Maturity_Days",
					X:        "Strike",
					Y:        []string{"Implied_Vol"},
					Suffix:   "D",
				},
			},
		},
		{
			ID:    "vix-term-structure",
			Title: "VIX Term Structure",
			Panels: []*Panel{
				{
					ID:       "evolution",
					Title:    "VIX Term Structure Evolution",
					Resource: data.VixTermStructureForecast,
					Shape:    ShapeMatrix,
					Display:  DisplaySurface,
					Tail:     60,
					Columns:  []string{"VIX_Spot", "VIX_1M_Future", "VIX_2M_Future", "VIX_3M_Future"},
					Axis:     []float64{0, 30, 60, 90},
				},
				{
					ID:       "regimes",
					Title:    "Term Structure Regimes",
					Resource: data.VixTermStructureForecast,
					Shape:    ShapeMetrics,
					Display:  DisplayMetrics,
					Metrics: []Metric{
						{Label: "Contango Days", Kind: MetricCount, Window: 60, Where: eq("Term_Structure_Regime", "Contango")},
						{Label: "Backwardation Days", Kind: MetricCount, Window: 60, Where: eq("Term_Structure_Regime", "Backwardation")},
						{Label: "Flat Days", Kind: MetricCount, Window: 60, Where: eq("Term_Structure_Regime", "Flat")},
					},
				},
				rawTable("term-structure", "VIX Futures Curve", data.VixTermStructure, 30),
			},
		},
		{
			ID:    "trade-journal",
			Title: "Trade Journal",
			Panels: []*Panel{
				{
					ID:       "summary",
					Title:    "Trading Summary",
					Resource: data.TradeExecutionJournal,
					Shape:    ShapeMetrics,
					Display:  DisplayMetrics,
					Metrics: []Metric{
						{Label: "Total Trades", Kind: MetricCount, Format: "number"},
						{Label: "Open Positions", Kind: MetricCount, Format: "number", Where: eq("Status", "Open")},
						{Label: "Total P&L", Column: "PnL_USD", Kind: MetricSum, Format: "currency", Where: eq("Status", "Closed")},
						{
							Label:  "Win Rate",
							Kind:   MetricShare,
							Format: "percent",
							Where:  eq("Status", "Closed"),
							Share:  &dataframe.Predicate{Column: "PnL_USD", Op: dataframe.Gt, Value: 0},
						},
					},
				},
				{
					ID:       "recent",
					Title:    "Recent Trades",
					Resource: data.TradeExecutionJournal,
					Shape:    ShapeTable,
					Display:  DisplayTable,
					Columns:  []string{"Entry_Date", "Strategy", "Direction", "Position_Size", "Entry_Price", "Status"},
					Head:     20,
				},
				{
					ID:       "pnl-by-strategy",
					Title:    "P&L by Strategy",
					Resource: data.TradeExecutionJournal,
					Shape:    ShapeGroup,
					Display:  DisplayBar,
					Key:      "Strategy",
					Value:    "PnL_USD",
					Kind:     dataframe.Sum,
					SortDesc: true,
				},
			},
		},
		{
			ID:    "alerts",
			Title: "Alerts",
			Panels: []*Panel{
				{
					ID:       "rules",
					Title:    "Alert Rules",
					Resource: data.AlertRules,
					Shape:    ShapeTable,
					Display:  DisplayTable,
					Columns:  []string{"Alert_Name", "Condition", "Priority", "Action"},
				},
				{
					ID:       "history",
					Title:    "Recent Alerts",
					Resource: data.AlertHistory,
					Shape:    ShapeTable,
					Display:  DisplayTable,
					Columns:  []string{"Timestamp", "Alert_Name", "Priority", "Status", "Action_Taken"},
					Head:     15,
				},
				{
					ID:       "by-priority",
					Title:    "Alerts by Priority",
					Resource: data.AlertHistory,
					Shape:    ShapeGroup,
					Display:  DisplayBar,
					Key:      "Priority",
					Value:    "Priority",
					Kind:     dataframe.Count,
					SortDesc: true,
				},
			},
		},
		{
			ID:    "scenarios",
			Title: "Scenarios",
			Panels: []*Panel{
				{
					ID:       "headline",
					Title:    "Scenario",
					Resource: data.ScenarioAnalysis,
					Shape:    ShapeRowByKey,
					Display:  DisplayMetrics,
					Key:      "Scenario_Name",
					Param:    ScenarioParam,
					Columns:  []string{"SPX_Move_Pct", "VIX_Level", "Total_Portfolio_PnL"},
				},
				{
					ID:       "pnl-impact",
					Title:    "P&L Impact by Strategy",
					Resource: data.ScenarioAnalysis,
					Shape:    ShapeRowBars,
					Display:  DisplayBar,
					Key:      "Scenario_Name",
					Param:    ScenarioParam,
					Bars: []Bar{
						{Label: "Variance Swaps", Column: "Variance_Swap_PnL"},
						{Label: "VIX Calls", Column: "VIX_Call_Spread_PnL"},
						{Label: "ETF Arb", Column: "ETF_NAV_Arb_PnL"},
					},
				},
			},
		},
		{
			ID:    "research",
			Title: "Research",
			Panels: []*Panel{
				{
					ID:       "latest-note",
					Title:    "Research Commentary",
					Resource: data.ResearchDailyNotes,
					Shape:    ShapeLatestRow,
					Display:  DisplayText,
					Columns: []string{
						"Date", "VIX_Close", "VIX_Change", "SPX_Close", "VRP",
						"Market_Summary", "Key_Observation", "Trade_Idea",
					},
				},
			},
		},
		{
			ID:    "performance",
			Title: "Performance",
			Panels: []*Panel{
				{
					ID:       "cumulative-pnl",
					Title:    "Cumulative P&L",
					Resource: data.PerformanceAttributionDaily,
					Shape:    ShapeSeries,
					Display:  DisplayArea,
					Y:        []string{"Cumulative_PnL"},
				},
				{
					ID:       "summary",
					Title:    "Performance Summary",
					Resource: data.PerformanceAttributionDaily,
					Shape:    ShapeMetrics,
					Display:  DisplayMetrics,
					Metrics: []Metric{
						{Label: "Total P&L", Column: "Cumulative_PnL", Kind: MetricLast, Format: "currency"},
						{Label: "Avg Sharpe", Column: "Sharpe_30D", Kind: MetricMean, Format: "decimal"},
						{Label: "Win Rate", Column: "Win_Rate_30D", Kind: MetricMean, Format: "percent"},
					},
				},
			},
		},
		{
			ID:    "global-markets",
			Title: "Global Markets",
			Panels: []*Panel{
				{
					ID:       "dislocations",
					Title:    "Volatility Correlation (US/Europe/Asia)",
					Resource: data.GlobalEquityDislocations,
					Shape:    ShapeTable,
					Display:  DisplayScatter3D,
					Tail:     100,
					Columns:  []string{"Date", "US_RV", "Europe_RV", "Asia_RV", "Dislocation_Score"},
				},
				{
					ID:       "arbitrage",
					Title:    "Arbitrage Opportunities",
					Resource: data.GlobalEquityDislocations,
					Shape:    ShapeMetrics,
					Display:  DisplayMetrics,
					Metrics: []Metric{
						{Label: "Arbitrage Opportunities", Kind: MetricCount, Format: "number", Window: 100, Where: eq("Arbitrage_Opportunity", "Yes")},
					},
				},
			},
		},
		{
			ID:    "variance-swaps",
			Title: "Variance Swaps",
			Panels: []*Panel{
				rawTable("pricing", "Variance Swap Pricing", data.VarianceSwapPricing, 30),
				payoffPanel(),
			},
		},
		{
			ID:    "dividends",
			Title: "Dividends",
			Panels: []*Panel{
				rawTable("futures-arbitrage", "Dividend Futures Arbitrage", data.DividendFuturesArbitrage, 0),
			},
		},
		{
			ID:    "forecasting",
			Title: "Forecasting",
			Panels: []*Panel{
				rawTable("models", "Volatility Forecasting Models", data.VolatilityForecastingModels, 60),
				rawTable("variance-premium", "Variance Risk Premium", data.VariancePremium, 60),
			},
		},
		{
			ID:    "factors",
			Title: "Factors",
			Panels: []*Panel{
				rawTable("barra", "Barra Factor Exposures", data.BarraFactors, 0),
				rawTable("attribution", "Factor Attribution", data.FactorAttribution, 60),
			},
		},
		{
			ID:    "optimization",
			Title: "Optimization",
			Panels: []*Panel{
				rawTable("risk-budget", "Risk Budgeting", data.RiskBudgetingOptimization, 0),
			},
		},
		{
			ID:    "etf-flow",
			Title: "ETF Flow",
			Panels: []*Panel{
				rawTable("microstructure", "ETF Arbitrage Microstructure", data.EtfArbitrageMicrostructure, 100),
				rawTable("basket", "ETF Basket Composition", data.EtfBasketComposition, 0),
			},
		},
		{
			ID:    "order-flow",
			Title: "Order Flow",
			Panels: []*Panel{
				rawTable("toxicity", "Order Flow Toxicity", data.OrderFlowToxicity, 100),
			},
		},
		{
			ID:    "ml-alpha",
			Title: "ML Alpha",
			Panels: []*Panel{
				rawTable("alpha-factors", "Alpha Factors", data.AlphaFactorsML, 60),
				rawTable("feature-importance", "Feature Importance", data.MLFeatureImportance, 0),
			},
		},
		{
			ID:    "greeks",
			Title: "Greeks",
			Panels: []*Panel{
				rawTable("positions", "Position Greeks", data.PortfolioGreeks, 0),
				rawTable("hedging", "Dynamic Hedging", data.OptionGreeksDynamicHedging, 30),
			},
		},
		{
			ID:    "calendar",
			Title: "Calendar",
			Panels: []*Panel{
				rawTable("economic", "Economic Calendar", data.EconomicCalendar, 0),
				rawTable("correlations", "Correlation Network", data.CorrelationNetwork, 0),
			},
		},
		{
			ID:    "advanced-3d",
			Title: "Advanced 3D",
			Panels: []*Panel{
				{
					ID:       "greeks-evolution",
					Title:    "Portfolio Greeks Evolution",
					Resource: data.OptionGreeksDynamicHedging,
					Shape:    ShapeSeries,
					Display:  DisplayLine3D,
					Tail:     100,
					Y:        []string{"Total_Vega", "Total_Gamma"},
				},
				payoffPanel(),
			},
		},
		{
			ID:    "market",
			Title: "Market",
			Panels: []*Panel{
				rawTable("snapshot", "Live Market Snapshot", data.LiveMarketSnapshot, 0),
				rawTable("regime", "Volatility Regime", data.VolRegime, 30),
				rawTable("signals", "Trade Signals", data.TradeSignals, 30),
			},
		},
	}
}
