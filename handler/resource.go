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

package handler

import (
	"bytes"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/penny-vault/voldash/data"
	"github.com/penny-vault/voldash/exporter"
	"github.com/rs/zerolog/log"
)

const (
	MIMEApplicationXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

type ResourceResponse struct {
	Resource data.Resource `json:"resource"`
	Status   data.Status   `json:"status"`
	NumRows  int           `json:"num_rows"`
	Columns  []string      `json:"columns"`
	Rows     [][]any       `json:"rows"`
}

// ListResources returns the load summary of every resource
func (a *API) ListResources(c *fiber.Ctx) error {
	return c.JSON(a.adapter.Catalog(c.UserContext()).Summary())
}

// GetResource returns the rows of a resource. When limit is set only the last limit rows
// are returned
func (a *API) GetResource(c *fiber.Ctx) error {
	name, err := data.ParseResource(c.Params("name"))
	if err != nil {
		return statusError(err)
	}

	limit := c.QueryInt("limit", 0)
	if limit < 0 {
		return fiber.NewError(fiber.StatusBadRequest, "limit must not be negative")
	}

	catalog := a.adapter.Catalog(c.UserContext())
	if !catalog.Contains(name) {
		return fiber.NewError(fiber.StatusNotFound, fmt.Sprintf("resource %s is not loaded", name))
	}

	res := catalog.Result(name)
	table := res.Table()
	numRows := table.Len()
	if limit > 0 {
		table = table.Tail(limit)
	}

	rows := make([][]any, 0, table.Len())
	for _, row := range table.Rows {
		vals := make([]any, len(table.ColNames))
		for idx, col := range table.ColNames {
			vals[idx] = row[col]
		}
		rows = append(rows, vals)
	}

	return c.JSON(ResourceResponse{
		Resource: name,
		Status:   res.Status,
		NumRows:  numRows,
		Columns:  table.ColNames,
		Rows:     rows,
	})
}

// ExportResource returns the resource as a spreadsheet
func (a *API) ExportResource(c *fiber.Ctx) error {
	name, err := data.ParseResource(c.Params("name"))
	if err != nil {
		return statusError(err)
	}

	catalog := a.adapter.Catalog(c.UserContext())
	if !catalog.Contains(name) {
		return fiber.NewError(fiber.StatusNotFound, fmt.Sprintf("resource %s is not loaded", name))
	}
	table := catalog.Table(name)

	var buf bytes.Buffer
	if err := exporter.Write(&buf, exporter.Sheet{Name: string(name), Table: table}); err != nil {
		log.Error().Err(err).Str("Resource", string(name)).Msg("could not export resource")
		return err
	}

	c.Set(fiber.HeaderContentType, MIMEApplicationXLSX)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", string(name)+".xlsx"))
	return c.Send(buf.Bytes())
}
