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

// Package fsmockhelper builds in-memory storage holding the resource fixtures in testdata
package fsmockhelper

import (
	"path/filepath"
	"strings"

	"github.com/penny-vault/voldash/data"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

// FixtureDir is relative to a package directory one level below the module root
const FixtureDir = "../testdata/resources"

// NewFs returns a memory backed filesystem with every resource fixture except skip
func NewFs(skip ...data.Resource) afero.Fs {
	return NewFsFrom(FixtureDir, skip...)
}

// NewFsFrom copies the fixtures in dir into a memory backed filesystem
func NewFsFrom(dir string, skip ...data.Resource) afero.Fs {
	omit := make(map[data.Resource]bool, len(skip))
	for _, r := range skip {
		omit[r] = true
	}

	osFs := afero.NewOsFs()
	memFs := afero.NewMemMapFs()
	for _, r := range data.AllResources {
		if omit[r] {
			continue
		}
		fn := filepath.Join(dir, r.FileName())
		raw, err := afero.ReadFile(osFs, fn)
		if err != nil {
			log.Panic().Err(err).Str("FileName", fn).Msg("could not read fixture")
		}
		WriteResource(memFs, r, string(raw))
	}

	return memFs
}

// WriteResource replaces the backing file of r with content
func WriteResource(fs afero.Fs, r data.Resource, content string) {
	if err := afero.WriteFile(fs, r.FileName(), []byte(content), 0644); err != nil {
		log.Panic().Err(err).Str("Resource", string(r)).Msg("could not write resource")
	}
}

// ExpectedRows counts the data rows in the fixture for r
func ExpectedRows(r data.Resource) int {
	fn := filepath.Join(FixtureDir, r.FileName())
	raw, err := afero.ReadFile(afero.NewOsFs(), fn)
	if err != nil {
		log.Panic().Err(err).Str("FileName", fn).Msg("could not read fixture")
	}

	// the header is not a data row
	count := -1
	for _, line := range strings.Split(string(raw), "\n") {
		if strings.TrimSpace(line) != "" {
			count++
		}
	}

	if count < 0 {
		return 0
	}
	return count
}
