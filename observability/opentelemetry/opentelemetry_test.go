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

package opentelemetry_test

import (
	"context"
	"net/http/httptest"

	"github.com/gofiber/fiber/v2"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/spf13/viper"
	"go.opentelemetry.io/otel/attribute"

	"github.com/penny-vault/voldash/observability/opentelemetry"
)

var _ = Describe("Opentelemetry", func() {
	Context("without an endpoint", func() {
		It("returns a shutdown that does nothing", func() {
			viper.Set("otlp.endpoint", "")
			shutdown, err := opentelemetry.Setup()
			Expect(err).To(BeNil())
			Expect(shutdown(context.Background())).To(Succeed())
		})
	})

	Context("span attributes", func() {
		var attrs map[attribute.Key]string

		request := func(route, target string) {
			attrs = make(map[attribute.Key]string)
			app := fiber.New()
			app.Get(route, func(c *fiber.Ctx) error {
				for _, kv := range opentelemetry.SpanAttributesFromFiber(c) {
					attrs[kv.Key] = kv.Value.Emit()
				}
				return c.SendStatus(fiber.StatusNoContent)
			})

			resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, target, nil), -1)
			Expect(err).To(BeNil())
			Expect(resp.StatusCode).To(Equal(fiber.StatusNoContent))
		}

		It("records the matched route and the selected panel", func() {
			request("/api/v1/pages/:page/panels/:panel", "/api/v1/pages/vol-surface/panels/skew")
			Expect(attrs["http.method"]).To(Equal("GET"))
			Expect(attrs["http.route"]).To(Equal("/api/v1/pages/:page/panels/:panel"))
			Expect(attrs["voldash.page"]).To(Equal("vol-surface"))
			Expect(attrs["voldash.panel"]).To(Equal("skew"))
			Expect(attrs).ToNot(HaveKey(attribute.Key("voldash.name")))
		})

		It("records the selected resource", func() {
			request("/api/v1/resources/:name", "/api/v1/resources/volatility_surface")
			Expect(attrs["voldash.name"]).To(Equal("volatility_surface"))
			Expect(attrs).ToNot(HaveKey(attribute.Key("voldash.page")))
		})
	})
})
