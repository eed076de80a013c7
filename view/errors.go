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
	"errors"

	"github.com/penny-vault/voldash/dataframe"
)

var (
	ErrUnknownPage  = errors.New("unknown page")
	ErrUnknownPanel = errors.New("unknown panel")
	ErrUnknownShape = errors.New("unknown shape")
	ErrDuplicateID  = errors.New("duplicate id")
	ErrInvalidPanel = errors.New("invalid panel definition")

	// ErrRowNotFound is returned when a selection names a key that is not in the resource
	ErrRowNotFound = dataframe.ErrRowNotFound
)
