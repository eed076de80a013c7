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

package router

import (
	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/penny-vault/voldash/handler"
	"github.com/penny-vault/voldash/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/viper"
)

// NewApp creates the fiber app with middleware and every route installed
func NewApp(api *handler.API) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "voldash",
		DisableStartupMessage: true,
		ErrorHandler:          handler.ErrorHandler,
		JSONEncoder:           json.Marshal,
		JSONDecoder:           json.Unmarshal,
	})

	allowOrigins := viper.GetString("server.allow_origins")
	if allowOrigins == "" {
		allowOrigins = "*"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: allowOrigins,
		AllowHeaders: "*",
		AllowMethods: "GET,HEAD,OPTIONS",
	}))
	app.Use(middleware.NewRequestID())
	app.Use(middleware.NewLogger())
	app.Use(middleware.NewTracer())

	SetupRoutes(app, api)
	return app
}

// SetupRoutes setup router api
func SetupRoutes(app *fiber.App, api *handler.API) {
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	v1 := app.Group("/v1")
	v1.Get("/", api.Ping)

	// Resources
	resources := v1.Group("/resources")
	resources.Get("/", api.ListResources)
	resources.Get("/:name", api.GetResource)
	resources.Get("/:name/xlsx", api.ExportResource)

	// Pages
	pages := v1.Group("/pages")
	pages.Get("/", api.ListPages)
	pages.Get("/:page", api.GetPage)
	pages.Get("/:page/panels/:panel", api.GetPanel)
	pages.Get("/:page/panels/:panel/chart.png", api.GetPanelChart)
}
