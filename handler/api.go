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
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/penny-vault/voldash/common"
	"github.com/penny-vault/voldash/data"
	"github.com/penny-vault/voldash/middleware"
	"github.com/penny-vault/voldash/render"
	"github.com/penny-vault/voldash/view"
	"github.com/rs/zerolog/log"
)

// API serves the resource catalog and the dashboard panels built from it
type API struct {
	adapter *view.Adapter
}

// New creates the handlers for adapter
func New(adapter *view.Adapter) *API {
	return &API{
		adapter: adapter,
	}
}

type PingResponse struct {
	Status  string `json:"status" example:"success"`
	Message string `json:"message" example:"API is alive"`
	Version string `json:"version" example:"0.3.0"`
	Time    string `json:"time" example:"2021-06-19T08:09:10.115924-05:00"`
}

type ErrorResponse struct {
	Status    string `json:"status" example:"error"`
	Message   string `json:"message" example:"unknown page: foo"`
	RequestID string `json:"request_id,omitempty"`
}

// Ping is a liveness probe
func (a *API) Ping(c *fiber.Ctx) error {
	now, err := time.Now().MarshalText()
	if err != nil {
		log.Error().Err(err).Msg("error while getting time in ping")
		return c.Status(fiber.StatusInternalServerError).JSON(PingResponse{
			Status:  "error",
			Message: err.Error(),
		})
	}
	return c.JSON(PingResponse{
		Status:  "success",
		Message: "API is alive",
		Version: common.CurrentVersion.String(),
		Time:    string(now),
	})
}

// statusError maps domain errors onto HTTP errors
func statusError(err error) error {
	switch {
	case errors.Is(err, view.ErrUnknownPage),
		errors.Is(err, view.ErrUnknownPanel),
		errors.Is(err, view.ErrRowNotFound),
		errors.Is(err, data.ErrUnknownResource),
		errors.Is(err, render.ErrNothingToRender):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, render.ErrNotRenderable):
		return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
	default:
		return err
	}
}

// ErrorHandler writes errors as json. Errors that are not a *fiber.Error are reported as 500
// without exposing their text
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	msg := "internal server error"

	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		msg = fe.Message
	}

	return c.Status(code).JSON(ErrorResponse{
		Status:    "error",
		Message:   msg,
		RequestID: middleware.RequestID(c),
	})
}
