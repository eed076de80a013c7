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

package router_test

import (
	"io"
	"net/http"
	"net/http/httptest"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/penny-vault/voldash/data"
	"github.com/penny-vault/voldash/fsmockhelper"
	"github.com/penny-vault/voldash/handler"
	"github.com/penny-vault/voldash/middleware"
	"github.com/penny-vault/voldash/router"
	"github.com/penny-vault/voldash/view"
)

const pngMagic = "\x89PNG\r\n\x1a\n"

var _ = Describe("Router", func() {
	var (
		app *fiber.App
	)

	get := func(target string, headers ...string) (*http.Response, []byte) {
		req := httptest.NewRequest(fiber.MethodGet, target, nil)
		for idx := 0; idx+1 < len(headers); idx += 2 {
			req.Header.Set(headers[idx], headers[idx+1])
		}
		resp, err := app.Test(req, -1)
		Expect(err).To(BeNil())
		body, err := io.ReadAll(resp.Body)
		Expect(err).To(BeNil())
		return resp, body
	}

	BeforeEach(func() {
		loader := data.NewLoader(fsmockhelper.NewFs(data.AlertRules))
		app = router.NewApp(handler.New(view.NewAdapter(loader, nil)))
	})

	Describe("ping", func() {
		It("reports the api is alive", func() {
			resp, body := get("/v1/")
			Expect(resp.StatusCode).To(Equal(fiber.StatusOK))

			var ping handler.PingResponse
			Expect(json.Unmarshal(body, &ping)).To(Succeed())
			Expect(ping.Status).To(Equal("success"))
		})

		It("assigns a request id", func() {
			resp, _ := get("/v1/")
			Expect(resp.Header.Get(middleware.HeaderRequestID)).To(HaveLen(36))
		})

		It("keeps a request id supplied by the client", func() {
			resp, _ := get("/v1/", middleware.HeaderRequestID, "abc-123")
			Expect(resp.Header.Get(middleware.HeaderRequestID)).To(Equal("abc-123"))
		})
	})

	Describe("resources", func() {
		It("lists every resource with its status", func() {
			resp, body := get("/v1/resources")
			Expect(resp.StatusCode).To(Equal(fiber.StatusOK))

			var summary []*data.Summary
			Expect(json.Unmarshal(body, &summary)).To(Succeed())
			Expect(summary).To(HaveLen(len(data.AllResources)))
			for _, s := range summary {
				if s.Resource == data.AlertRules {
					Expect(s.Status).To(Equal(data.StatusUnavailable))
					Expect(s.Rows).To(Equal(0))
				} else {
					Expect(s.Status).To(Equal(data.StatusAvailable))
				}
			}
		})

		It("returns the last rows of a resource", func() {
			resp, body := get("/v1/resources/volatility_surface?limit=2")
			Expect(resp.StatusCode).To(Equal(fiber.StatusOK))

			var res handler.ResourceResponse
			Expect(json.Unmarshal(body, &res)).To(Succeed())
			Expect(res.NumRows).To(Equal(9))
			Expect(res.Rows).To(HaveLen(2))
			Expect(res.Columns).To(Equal([]string{"Strike", "Maturity_Days", "Implied_Vol"}))
		})

		It("returns an unavailable resource as an empty table", func() {
			resp, body := get("/v1/resources/alert_rules")
			Expect(resp.StatusCode).To(Equal(fiber.StatusOK))

			var res handler.ResourceResponse
			Expect(json.Unmarshal(body, &res)).To(Succeed())
			Expect(res.Status).To(Equal(data.StatusUnavailable))
			Expect(res.Rows).To(BeEmpty())
		})

		It("rejects a negative limit", func() {
			resp, _ := get("/v1/resources/volatility_surface?limit=-1")
			Expect(resp.StatusCode).To(Equal(fiber.StatusBadRequest))
		})

		It("returns 404 for an unknown resource", func() {
			resp, body := get("/v1/resources/options_chain")
			Expect(resp.StatusCode).To(Equal(fiber.StatusNotFound))

			var res handler.ErrorResponse
			Expect(json.Unmarshal(body, &res)).To(Succeed())
			Expect(res.Status).To(Equal("error"))
			Expect(res.Message).To(ContainSubstring("unknown resource"))
			Expect(res.RequestID).ToNot(BeEmpty())
		})

		It("exports a resource as a spreadsheet", func() {
			resp, body := get("/v1/resources/trade_execution_journal/xlsx")
			Expect(resp.StatusCode).To(Equal(fiber.StatusOK))
			Expect(resp.Header.Get(fiber.HeaderContentType)).To(Equal(handler.MIMEApplicationXLSX))
			Expect(resp.Header.Get(fiber.HeaderContentDisposition)).To(ContainSubstring("trade_execution_journal.xlsx"))
			// xlsx files are zip archives
			Expect(string(body)).To(HavePrefix("PK"))
		})
	})

	Describe("pages", func() {
		It("lists the registry", func() {
			resp, body := get("/v1/pages")
			Expect(resp.StatusCode).To(Equal(fiber.StatusOK))

			var pages []*view.Page
			Expect(json.Unmarshal(body, &pages)).To(Succeed())
			Expect(pages).To(HaveLen(21))
			Expect(pages[0].ID).To(Equal("command-center"))
		})

		It("builds every panel on a page", func() {
			resp, body := get("/v1/pages/alerts")
			Expect(resp.StatusCode).To(Equal(fiber.StatusOK))

			var results []*view.Result
			Expect(json.Unmarshal(body, &results)).To(Succeed())
			Expect(results).To(HaveLen(3))
			Expect(results[0].Empty).To(BeTrue())
			Expect(results[1].Empty).To(BeFalse())
		})

		It("returns 404 for an unknown page", func() {
			resp, _ := get("/v1/pages/options-chain")
			Expect(resp.StatusCode).To(Equal(fiber.StatusNotFound))
		})

		It("returns 404 for an unknown panel", func() {
			resp, _ := get("/v1/pages/vol-surface/panels/smile")
			Expect(resp.StatusCode).To(Equal(fiber.StatusNotFound))
		})

		It("serves an empty panel with status 200", func() {
			resp, body := get("/v1/pages/alerts/panels/rules")
			Expect(resp.StatusCode).To(Equal(fiber.StatusOK))
			Expect(resp.Header.Get(fiber.HeaderContentType)).To(HavePrefix(fiber.MIMEApplicationJSON))

			var res view.Result
			Expect(json.Unmarshal(body, &res)).To(Succeed())
			Expect(res.Empty).To(BeTrue())
			Expect(res.Notice).To(Equal("alert_rules data not loaded"))
		})

		It("applies the selected scenario", func() {
			resp, body := get("/v1/pages/scenarios/panels/headline?scenario=Crash")
			Expect(resp.StatusCode).To(Equal(fiber.StatusOK))

			var res struct {
				Data view.RowPayload `json:"data"`
			}
			Expect(json.Unmarshal(body, &res)).To(Succeed())
			Expect(res.Data.Selected).To(Equal("Crash"))
		})

		It("returns 404 for a scenario that does not exist", func() {
			resp, _ := get("/v1/pages/scenarios/panels/headline?scenario=Meltdown")
			Expect(resp.StatusCode).To(Equal(fiber.StatusNotFound))
		})
	})

	Describe("charts", func() {
		It("draws a series panel", func() {
			resp, body := get("/v1/pages/vol-surface/panels/skew/chart.png?width=320&height=240")
			Expect(resp.StatusCode).To(Equal(fiber.StatusOK))
			Expect(resp.Header.Get(fiber.HeaderContentType)).To(Equal("image/png"))
			Expect(string(body)).To(HavePrefix(pngMagic))
		})

		It("draws a bar panel", func() {
			resp, body := get("/v1/pages/trade-journal/panels/pnl-by-strategy/chart.png")
			Expect(resp.StatusCode).To(Equal(fiber.StatusOK))
			Expect(string(body)).To(HavePrefix(pngMagic))
		})

		It("returns 422 for a shape that is not a chart", func() {
			resp, _ := get("/v1/pages/vol-surface/panels/surface/chart.png")
			Expect(resp.StatusCode).To(Equal(fiber.StatusUnprocessableEntity))
		})

		It("returns 404 when there is nothing to draw", func() {
			loader := data.NewLoader(fsmockhelper.NewFs(data.AlertHistory))
			app = router.NewApp(handler.New(view.NewAdapter(loader, nil)))

			resp, _ := get("/v1/pages/alerts/panels/by-priority/chart.png")
			Expect(resp.StatusCode).To(Equal(fiber.StatusNotFound))
		})

		It("rejects an oversized canvas", func() {
			resp, _ := get("/v1/pages/vol-surface/panels/skew/chart.png?width=100000")
			Expect(resp.StatusCode).To(Equal(fiber.StatusBadRequest))
		})
	})

	It("exposes prometheus metrics", func() {
		get("/v1/resources")
		resp, body := get("/metrics")
		Expect(resp.StatusCode).To(Equal(fiber.StatusOK))
		Expect(string(body)).To(ContainSubstring("voldash_resource_loads_total"))
	})
})
