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

package opentelemetry

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/penny-vault/voldash/common"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.10.0"
	"go.opentelemetry.io/otel/trace"
)

// Name is the instrumentation scope of every span voldash emits
const Name = "github.com/penny-vault/voldash"

// routeParams are the path parameters worth recording on a request span
var routeParams = []string{"name", "page", "panel"}

// Tracer is shared by the loader, the view adapter and the http layer. Until Setup installs
// a provider the global no-op one is used
func Tracer() trace.Tracer {
	return otel.Tracer(Name)
}

// Setup installs a batching OTLP trace provider. Without otlp.endpoint tracing stays off and
// the returned shutdown does nothing
func Setup() (func(context.Context) error, error) {
	endpoint := viper.GetString("otlp.endpoint")
	if endpoint == "" {
		log.Debug().Msg("no otlp endpoint configured; tracing disabled")
		return func(context.Context) error { return nil }, nil
	}

	ctx := context.Background()
	res, err := resource.New(ctx, resource.WithAttributes(
		semconv.ServiceNameKey.String(common.ProgramName),
		semconv.ServiceVersionKey.String(common.CurrentVersion.String()),
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	dialCtx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()

	exporter, err := otlptrace.New(dialCtx, newClient(endpoint))
	if err != nil {
		return nil, fmt.Errorf("failed to create trace exporter: %w", err)
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
		sdktrace.WithResource(res),
		sdktrace.WithBatcher(exporter),
	)
	otel.SetTracerProvider(provider)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	// flushes pending panel and loader spans
	return provider.Shutdown, nil
}

func newClient(endpoint string) otlptrace.Client {
	headers := viper.GetStringMapString("otlp.headers")
	if viper.GetBool("otlp.http") {
		log.Info().Str("Endpoint", endpoint).Str("Protocol", "http").Msg("exporting traces")
		return otlptracehttp.NewClient(
			otlptracehttp.WithEndpoint(endpoint),
			otlptracehttp.WithHeaders(headers),
		)
	}

	log.Info().Str("Endpoint", endpoint).Str("Protocol", "grpc").Msg("exporting traces")
	return otlptracegrpc.NewClient(
		otlptracegrpc.WithEndpoint(endpoint),
		otlptracegrpc.WithHeaders(headers),
	)
}

// SpanAttributesFromFiber describes a dashboard request along with the route parameters
// that selected its data. Call it after c.Next so the route is resolved
func SpanAttributesFromFiber(c *fiber.Ctx) []attribute.KeyValue {
	attrs := []attribute.KeyValue{
		semconv.HTTPClientIPKey.String(c.IP()),
		semconv.HTTPMethodKey.String(c.Method()),
		semconv.HTTPUserAgentKey.String(string(c.Context().UserAgent())),
		semconv.HTTPRouteKey.String(c.Route().Path),
	}
	for _, param := range routeParams {
		if val := c.Params(param); val != "" {
			attrs = append(attrs, attribute.String("voldash."+param, val))
		}
	}
	return attrs
}
