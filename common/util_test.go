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

package common_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/rs/zerolog"

	"github.com/penny-vault/voldash/common"
)

var _ = Describe("Util", func() {
	DescribeTable("log level names",
		func(name string, expected zerolog.Level) {
			Expect(common.ParseLogLevel(name)).To(Equal(expected))
		},
		Entry("debug", "debug", zerolog.DebugLevel),
		Entry("mixed case", "INFO", zerolog.InfoLevel),
		Entry("warning alias", "warning", zerolog.WarnLevel),
		Entry("padded", " error ", zerolog.ErrorLevel),
		Entry("unknown", "loud", zerolog.WarnLevel),
		Entry("empty", "", zerolog.WarnLevel),
	)

	It("builds a version string", func() {
		Expect(common.BuildVersionString(false)).To(HavePrefix("voldash v" + common.CurrentVersion.String()))
		Expect(common.BuildVersionString(false)).ToNot(ContainSubstring("Dependencies"))
	})
})
