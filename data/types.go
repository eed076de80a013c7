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

package data

import (
	"fmt"

	"github.com/penny-vault/voldash/dataframe"
)

const (
	// FileExt is the extension of every resource file in storage
	FileExt = ".csv"
)

// Resource is the name of one tabular input. The set of resources is closed; the
// names and the column names inside each file are a wire contract with the files
// produced upstream
type Resource string

const (
	VixTermStructure            Resource = "vix_term_structure"
	VolatilitySurface           Resource = "volatility_surface"
	BarraFactors                Resource = "barra_factors"
	VariancePremium             Resource = "variance_premium"
	FactorAttribution           Resource = "factor_attribution"
	VolRegime                   Resource = "vol_regime"
	TradeSignals                Resource = "trade_signals"
	PortfolioGreeks             Resource = "portfolio_greeks"
	EtfArbitrageMicrostructure  Resource = "etf_arbitrage_microstructure"
	GrinoldKahnStrategies       Resource = "grinold_kahn_strategies"
	AlphaFactorsML              Resource = "alpha_factors_ml"
	OrderFlowToxicity           Resource = "order_flow_toxicity"
	EtfBasketComposition        Resource = "etf_basket_composition"
	RiskBudgetingOptimization   Resource = "risk_budgeting_optimization"
	MLFeatureImportance         Resource = "ml_feature_importance"
	GlobalEquityDislocations    Resource = "global_equity_dislocations"
	VarianceSwapPricing         Resource = "variance_swap_pricing"
	DividendFuturesArbitrage    Resource = "dividend_futures_arbitrage"
	VixTermStructureForecast    Resource = "vix_term_structure_forecast"
	OptionGreeksDynamicHedging  Resource = "option_greeks_dynamic_hedging"
	VolatilityForecastingModels Resource = "volatility_forecasting_models"
	LiveMarketSnapshot          Resource = "live_market_snapshot"
	TradeExecutionJournal       Resource = "trade_execution_journal"
	AlertRules                  Resource = "alert_rules"
	AlertHistory                Resource = "alert_history"
	ScenarioAnalysis            Resource = "scenario_analysis"
	ResearchDailyNotes          Resource = "research_daily_notes"
	PerformanceAttributionDaily Resource = "performance_attribution_daily"
	EconomicCalendar            Resource = "economic_calendar"
	CorrelationNetwork          Resource = "correlation_network"
)

// AllResources lists every known resource in load order
var AllResources = []Resource{
	VixTermStructure, VolatilitySurface, BarraFactors, VariancePremium,
	FactorAttribution, VolRegime, TradeSignals, PortfolioGreeks,
	EtfArbitrageMicrostructure, GrinoldKahnStrategies, AlphaFactorsML,
	OrderFlowToxicity, EtfBasketComposition, RiskBudgetingOptimization,
	MLFeatureImportance, GlobalEquityDislocations, VarianceSwapPricing,
	DividendFuturesArbitrage, VixTermStructureForecast, OptionGreeksDynamicHedging,
	VolatilityForecastingModels, LiveMarketSnapshot, TradeExecutionJournal,
	AlertRules, AlertHistory, ScenarioAnalysis, ResearchDailyNotes,
	PerformanceAttributionDaily, EconomicCalendar, CorrelationNetwork,
}

// FileName returns the name of the file backing the resource
func (r Resource) FileName() string {
	return string(r) + FileExt
}

// ParseResource converts user input into a known resource
func ParseResource(name string) (Resource, error) {
	for _, r := range AllResources {
		if string(r) == name {
			return r, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownResource, name)
}

// Status tags the outcome of loading a resource
type Status string

const (
	StatusAvailable   Status = "available"
	StatusUnavailable Status = "unavailable"
)

// Result is the outcome of loading one resource. An unavailable result always
// exposes an empty table so callers never need to handle a missing table
type Result struct {
	Resource Resource
	Status   Status
	Err      error
	table    *dataframe.Table

	// digest is the blake3 sum of the file contents; zero when unavailable
	digest [32]byte
}

// Summary describes a loaded resource
type Summary struct {
	Resource Resource `json:"resource"`
	Status   Status   `json:"status"`
	Rows     int      `json:"rows"`
	Columns  []string `json:"columns"`
	Error    string   `json:"error,omitempty"`
}
