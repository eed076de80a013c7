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
	"strings"

	"github.com/penny-vault/voldash/dataframe"
	"github.com/rs/zerolog/log"
)

// Catalog maps every requested resource to its load result. It is built once by
// a Loader and is read-only afterwards; tables handed out must not be modified
type Catalog struct {
	order       []Resource
	results     map[Resource]*Result
	fingerprint string
}

func newCatalog(resources []Resource) *Catalog {
	order := make([]Resource, len(resources))
	copy(order, resources)
	return &Catalog{
		order:   order,
		results: make(map[Resource]*Result, len(resources)),
	}
}

// Fingerprint identifies the catalog contents. Two catalogs built from byte-identical
// files share a fingerprint; any change to a file or its availability changes it
func (c *Catalog) Fingerprint() string {
	return c.fingerprint
}

// Len returns the number of resources in the catalog
func (c *Catalog) Len() int {
	return len(c.results)
}

// Resources returns the resource names in load order
func (c *Catalog) Resources() []Resource {
	res := make([]Resource, len(c.order))
	copy(res, c.order)
	return res
}

// Contains returns true if name was requested when the catalog was loaded
func (c *Catalog) Contains(name Resource) bool {
	_, ok := c.results[name]
	return ok
}

// Result returns the load result for name. Asking for a resource that was never
// requested is a programming error and panics
func (c *Catalog) Result(name Resource) *Result {
	res, ok := c.results[name]
	if !ok {
		log.Panic().Str("Resource", string(name)).Msg("resource is not part of the catalog")
	}
	return res
}

// Table returns the table for name; empty if the resource is unavailable
func (c *Catalog) Table(name Resource) *dataframe.Table {
	return c.Result(name).Table()
}

// Summary describes every resource in load order
func (c *Catalog) Summary() []*Summary {
	res := make([]*Summary, 0, len(c.order))
	for _, name := range c.order {
		res = append(res, c.results[name].Summary())
	}
	return res
}

// SummaryTable returns the catalog summary as a table suitable for printing
func (c *Catalog) SummaryTable() *dataframe.Table {
	t := &dataframe.Table{
		ColNames: []string{"Resource", "Status", "Rows", "Columns", "Error"},
		Rows:     make([]dataframe.Row, 0, len(c.order)),
	}
	for _, s := range c.Summary() {
		t.Rows = append(t.Rows, dataframe.Row{
			"Resource": string(s.Resource),
			"Status":   string(s.Status),
			"Rows":     float64(s.Rows),
			"Columns":  float64(len(s.Columns)),
			"Error":    s.Error,
		})
	}
	return t
}

// Available returns true if the resource was read and parsed
func (r *Result) Available() bool {
	return r != nil && r.Status == StatusAvailable && r.table != nil
}

// Table returns the loaded table or an empty table when the resource is unavailable
func (r *Result) Table() *dataframe.Table {
	if !r.Available() {
		return &dataframe.Table{
			ColNames: []string{},
			Rows:     []dataframe.Row{},
		}
	}
	return r.table
}

// Summary describes the result
func (r *Result) Summary() *Summary {
	t := r.Table()
	s := &Summary{
		Resource: r.Resource,
		Status:   r.Status,
		Rows:     t.Len(),
		Columns:  make([]string, len(t.ColNames)),
	}
	copy(s.Columns, t.ColNames)
	if r.Err != nil {
		s.Error = strings.TrimSpace(r.Err.Error())
	}
	return s
}
