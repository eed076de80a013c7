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
	"fmt"

	"github.com/penny-vault/voldash/data"
	"github.com/penny-vault/voldash/dataframe"
	"github.com/rs/zerolog/log"
)

// Registry is the declarative list of every page the dashboard shows
type Registry struct {
	pages []*Page
	index map[string]*Page
}

// NewRegistry indexes pages. Page ids and panel ids within a page must be unique and
// every panel must use a known shape
func NewRegistry(pages ...*Page) (*Registry, error) {
	reg := &Registry{
		pages: pages,
		index: make(map[string]*Page, len(pages)),
	}

	for _, page := range pages {
		if _, ok := reg.index[page.ID]; ok {
			return nil, fmt.Errorf("%w: page %s", ErrDuplicateID, page.ID)
		}
		reg.index[page.ID] = page

		seen := make(map[string]bool, len(page.Panels))
		for _, panel := range page.Panels {
			if seen[panel.ID] {
				return nil, fmt.Errorf("%w: panel %s/%s", ErrDuplicateID, page.ID, panel.ID)
			}
			seen[panel.ID] = true
			if err := validatePanel(panel); err != nil {
				return nil, fmt.Errorf("panel %s/%s: %w", page.ID, panel.ID, err)
			}
		}
	}

	return reg, nil
}

func validatePanel(panel *Panel) error {
	if _, ok := builders[panel.Shape]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownShape, panel.Shape)
	}

	switch panel.Kind {
	case "", dataframe.Sum, dataframe.Mean, dataframe.Count:
	default:
		return fmt.Errorf("%w: aggregate kind %q", ErrInvalidPanel, panel.Kind)
	}

	for _, m := range panel.Metrics {
		for _, pred := range []*dataframe.Predicate{m.Where, m.Share} {
			if pred == nil {
				continue
			}
			if err := pred.Validate(); err != nil {
				return fmt.Errorf("%w: metric %q: %v", ErrInvalidPanel, m.Label, err)
			}
		}
		switch m.Kind {
		case MetricSum, MetricMean, MetricLast:
			if m.Column == "" {
				return fmt.Errorf("%w: metric %q needs a column", ErrInvalidPanel, m.Label)
			}
		case MetricCount:
		case MetricShare:
			if m.Share == nil {
				return fmt.Errorf("%w: metric %q needs a share predicate", ErrInvalidPanel, m.Label)
			}
		default:
			return fmt.Errorf("%w: metric kind %q", ErrInvalidPanel, m.Kind)
		}
	}

	return nil
}

// DefaultRegistry returns the registry holding the dashboard pages
func DefaultRegistry() *Registry {
	reg, err := NewRegistry(dashboardPages()...)
	if err != nil {
		log.Panic().Err(err).Msg("dashboard pages are invalid")
	}
	return reg
}

// Pages returns every page in display order
func (r *Registry) Pages() []*Page {
	res := make([]*Page, len(r.pages))
	copy(res, r.pages)
	return res
}

// Page returns the page with id
func (r *Registry) Page(id string) (*Page, error) {
	page, ok := r.index[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPage, id)
	}
	return page, nil
}

// Panel returns the panel pageID/panelID
func (r *Registry) Panel(pageID, panelID string) (*Page, *Panel, error) {
	page, err := r.Page(pageID)
	if err != nil {
		return nil, nil, err
	}
	panel := page.Panel(panelID)
	if panel == nil {
		return nil, nil, fmt.Errorf("%w: %s/%s", ErrUnknownPanel, pageID, panelID)
	}
	return page, panel, nil
}

// Resources returns the distinct resources used by any panel in order of first use
func (r *Registry) Resources() []data.Resource {
	seen := make(map[data.Resource]bool)
	res := []data.Resource{}
	for _, page := range r.pages {
		for _, panel := range page.Panels {
			if !seen[panel.Resource] {
				seen[panel.Resource] = true
				res = append(res, panel.Resource)
			}
		}
	}
	return res
}
