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
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/penny-vault/voldash/common"
	"github.com/penny-vault/voldash/data"
	"github.com/penny-vault/voldash/observability/metrics"
	"github.com/penny-vault/voldash/observability/opentelemetry"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// CatalogSource provides the loaded resources; *data.Loader satisfies it
type CatalogSource interface {
	Load(ctx context.Context) *data.Catalog
}

// Adapter builds panels from the resource catalog
type Adapter struct {
	source   CatalogSource
	registry *Registry
	cache    *common.Cache
}

// NewAdapter creates an adapter for the dashboard pages. cache may be nil
func NewAdapter(source CatalogSource, cache *common.Cache) *Adapter {
	return NewAdapterWithRegistry(source, DefaultRegistry(), cache)
}

// NewAdapterWithRegistry creates an adapter serving the pages in reg
func NewAdapterWithRegistry(source CatalogSource, reg *Registry, cache *common.Cache) *Adapter {
	return &Adapter{
		source:   source,
		registry: reg,
		cache:    cache,
	}
}

// Registry returns the pages served by the adapter
func (a *Adapter) Registry() *Registry {
	return a.registry
}

// Catalog returns the loaded resources
func (a *Adapter) Catalog(ctx context.Context) *data.Catalog {
	return a.source.Load(ctx)
}

// Build shapes a single panel. An empty or unavailable resource is not an error: the result
// is flagged Empty and carries a notice
func (a *Adapter) Build(ctx context.Context, pageID, panelID string, params Params) (*Result, error) {
	page, panel, err := a.registry.Panel(pageID, panelID)
	if err != nil {
		return nil, err
	}
	return a.build(ctx, page, panel, params)
}

// BuildPage shapes every panel of a page in order
func (a *Adapter) BuildPage(ctx context.Context, pageID string, params Params) ([]*Result, error) {
	page, err := a.registry.Page(pageID)
	if err != nil {
		return nil, err
	}

	results := make([]*Result, 0, len(page.Panels))
	for _, panel := range page.Panels {
		res, err := a.build(ctx, page, panel, params)
		if err != nil {
			return nil, err
		}
		results = append(results, res)
	}
	return results, nil
}

// BuildJSON returns the encoded panel, serving repeated requests from the cache
func (a *Adapter) BuildJSON(ctx context.Context, pageID, panelID string, params Params) ([]byte, error) {
	page, panel, err := a.registry.Panel(pageID, panelID)
	if err != nil {
		return nil, err
	}

	key := cacheKey(a.source.Load(ctx).Fingerprint(), page, panel, params)
	if val, ok := a.cache.Get(ctx, key); ok {
		return val, nil
	}

	res, err := a.build(ctx, page, panel, params)
	if err != nil {
		return nil, err
	}

	val, err := json.Marshal(res)
	if err != nil {
		log.Error().Err(err).Str("Page", page.ID).Str("Panel", panel.ID).Msg("could not encode panel")
		return nil, err
	}

	if err := a.cache.Set(ctx, key, val); err != nil {
		log.Warn().Err(err).Str("Page", page.ID).Str("Panel", panel.ID).Msg("could not cache panel")
	}
	return val, nil
}

// cacheKey scopes entries to the catalog contents and only includes the parameter the panel reads
func cacheKey(fingerprint string, page *Page, panel *Panel, params Params) string {
	parts := []string{fingerprint, page.ID, panel.ID}
	if panel.Param != "" {
		parts = append(parts, fmt.Sprintf("%s=%s", panel.Param, params[panel.Param]))
	}
	return common.Key(parts...)
}

func (a *Adapter) build(ctx context.Context, page *Page, panel *Panel, params Params) (*Result, error) {
	ctx, span := opentelemetry.Tracer().Start(ctx, "view.Build")
	defer span.End()
	span.SetAttributes(
		attribute.String("page", page.ID),
		attribute.String("panel", panel.ID),
		attribute.String("shape", string(panel.Shape)),
	)

	start := time.Now()
	defer func() {
		metrics.PanelBuildSeconds.WithLabelValues(string(panel.Shape)).Observe(time.Since(start).Seconds())
	}()

	res := &Result{
		Page:     page.ID,
		Panel:    panel.ID,
		Title:    panel.Title,
		Resource: panel.Resource,
		Shape:    panel.Shape,
		Display:  panel.Display,
	}

	table := a.source.Load(ctx).Table(panel.Resource)
	if table.Empty() {
		res.Empty = true
		res.Notice = fmt.Sprintf("%s data not loaded", panel.Resource)
		metrics.PanelBuilds.WithLabelValues(page.ID, panel.ID, "empty").Inc()
		return res, nil
	}

	payload, err := builders[panel.Shape](table, panel, params)
	if err != nil {
		metrics.PanelBuilds.WithLabelValues(page.ID, panel.ID, "error").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "panel build failed")
		if !errors.Is(err, ErrRowNotFound) {
			log.Error().Err(err).Str("Page", page.ID).Str("Panel", panel.ID).Msg("could not build panel")
		}
		return nil, err
	}

	if payload == nil {
		res.Empty = true
		res.Notice = fmt.Sprintf("%s has nothing to show", panel.Resource)
		metrics.PanelBuilds.WithLabelValues(page.ID, panel.ID, "empty").Inc()
		return res, nil
	}

	res.Data = payload
	metrics.PanelBuilds.WithLabelValues(page.ID, panel.ID, "ok").Inc()
	return res, nil
}
