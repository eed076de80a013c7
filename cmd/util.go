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

package cmd

import (
	"fmt"

	"github.com/penny-vault/voldash/common"
	"github.com/penny-vault/voldash/data"
	"github.com/penny-vault/voldash/view"
	"github.com/rs/zerolog/log"
)

// newAdapter wires the loader and cache described by the current configuration
func newAdapter() (*view.Adapter, error) {
	cache, err := common.NewCacheFromConfig()
	if err != nil {
		log.Error().Err(err).Msg("could not create panel cache")
		return nil, err
	}
	return view.NewAdapter(data.NewLoaderFromConfig(), cache), nil
}

// loadResource parses name and returns its table; unavailable resources are an error
func loadResource(catalog *data.Catalog, name string) (*data.Result, error) {
	resource, err := data.ParseResource(name)
	if err != nil {
		return nil, err
	}
	res := catalog.Result(resource)
	if !res.Available() {
		return nil, fmt.Errorf("%s is unavailable: %w", resource, res.Err)
	}
	return res, nil
}
