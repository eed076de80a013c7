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

	"github.com/gofiber/fiber/v2"
	"github.com/penny-vault/voldash/render"
	"github.com/penny-vault/voldash/view"
)

// params collects the query string; page and panel ids are path parameters
func params(c *fiber.Ctx) view.Params {
	res := make(view.Params)
	for k, v := range c.Queries() {
		res[k] = v
	}
	return res
}

// ListPages returns the page and panel definitions
func (a *API) ListPages(c *fiber.Ctx) error {
	return c.JSON(a.adapter.Registry().Pages())
}

// GetPage builds every panel on a page
func (a *API) GetPage(c *fiber.Ctx) error {
	results, err := a.adapter.BuildPage(c.UserContext(), c.Params("page"), params(c))
	if err != nil {
		return statusError(err)
	}
	return c.JSON(results)
}

// GetPanel builds a single panel; repeated requests are served from the cache
func (a *API) GetPanel(c *fiber.Ctx) error {
	body, err := a.adapter.BuildJSON(c.UserContext(), c.Params("page"), c.Params("panel"), params(c))
	if err != nil {
		return statusError(err)
	}
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Send(body)
}

// GetPanelChart draws a panel as a PNG. The canvas size can be set with the width and
// height query parameters
func (a *API) GetPanelChart(c *fiber.Ctx) error {
	opts := render.Options{
		Width:  c.QueryInt("width", render.DefaultOptions.Width),
		Height: c.QueryInt("height", render.DefaultOptions.Height),
	}
	if opts.Width <= 0 || opts.Height <= 0 || opts.Width > 4096 || opts.Height > 4096 {
		return fiber.NewError(fiber.StatusBadRequest, "width and height must be between 1 and 4096")
	}

	qp := params(c)
	delete(qp, "width")
	delete(qp, "height")

	res, err := a.adapter.Build(c.UserContext(), c.Params("page"), c.Params("panel"), qp)
	if err != nil {
		return statusError(err)
	}

	var buf bytes.Buffer
	if err := render.PNG(&buf, res, opts); err != nil {
		return statusError(err)
	}

	c.Set(fiber.HeaderContentType, "image/png")
	return c.Send(buf.Bytes())
}
