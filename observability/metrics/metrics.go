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

// Package metrics holds the Prometheus collectors exported on /metrics
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ResourceLoads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "voldash_resource_loads_total",
			Help: "Resource load attempts by resource and outcome status",
		},
		[]string{"resource", "status"},
	)

	ResourceRows = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "voldash_resource_rows",
			Help: "Number of rows loaded for each resource (0 when unavailable)",
		},
		[]string{"resource"},
	)

	PanelBuilds = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "voldash_panel_builds_total",
			Help: "Panel builds by page, panel and outcome (ok, empty, error)",
		},
		[]string{"page", "panel", "outcome"},
	)

	PanelBuildSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "voldash_panel_build_seconds",
			Help:    "Time spent shaping a panel from the catalog",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
		},
		[]string{"shape"},
	)

	CacheRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "voldash_cache_requests_total",
			Help: "View cache lookups by tier and result (hit, miss, error)",
		},
		[]string{"tier", "result"},
	)
)
