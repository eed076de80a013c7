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

package exporter_test

import (
	"bytes"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/xuri/excelize/v2"

	"github.com/penny-vault/voldash/dataframe"
	"github.com/penny-vault/voldash/exporter"
)

var _ = Describe("Exporter", func() {
	var scenarios *dataframe.Table

	BeforeEach(func() {
		scenarios = &dataframe.Table{
			ColNames: []string{"Scenario_Name", "SPX_Move_Pct", "VIX_Level"},
			Rows: []dataframe.Row{
				{"Scenario_Name": "Crash", "SPX_Move_Pct": -20.0, "VIX_Level": 65.0},
				{"Scenario_Name": "Rally", "SPX_Move_Pct": 8.0, "VIX_Level": nil},
			},
		}
	})

	It("writes a header row followed by the data", func() {
		buf := &bytes.Buffer{}
		Expect(exporter.Write(buf, exporter.Sheet{Name: "scenario_analysis", Table: scenarios})).To(Succeed())

		f, err := excelize.OpenReader(buf)
		Expect(err).To(BeNil())
		defer f.Close()

		Expect(f.GetSheetList()).To(Equal([]string{"scenario_analysis"}))
		rows, err := f.GetRows("scenario_analysis")
		Expect(err).To(BeNil())
		Expect(rows).To(HaveLen(3))
		Expect(rows[0]).To(Equal([]string{"Scenario_Name", "SPX_Move_Pct", "VIX_Level"}))
		Expect(rows[1]).To(Equal([]string{"Crash", "-20", "65"}))
		Expect(rows[2][0]).To(Equal("Rally"))
	})

	It("writes one sheet per table and truncates long names", func() {
		buf := &bytes.Buffer{}
		Expect(exporter.Write(buf,
			exporter.Sheet{Name: "scenario_analysis", Table: scenarios},
			exporter.Sheet{Name: "a_resource_name_longer_than_thirty_one", Table: scenarios.Head(1)},
		)).To(Succeed())

		f, err := excelize.OpenReader(buf)
		Expect(err).To(BeNil())
		defer f.Close()

		Expect(f.GetSheetList()).To(Equal([]string{"scenario_analysis", "a_resource_name_longer_than_thi"}))
	})

	It("writes an empty sheet for an empty table", func() {
		buf := &bytes.Buffer{}
		Expect(exporter.Write(buf, exporter.Sheet{Name: "alert_rules", Table: &dataframe.Table{}})).To(Succeed())

		f, err := excelize.OpenReader(buf)
		Expect(err).To(BeNil())
		defer f.Close()

		rows, err := f.GetRows("alert_rules")
		Expect(err).To(BeNil())
		Expect(rows).To(BeEmpty())
	})

	It("needs a sheet", func() {
		err := exporter.Write(&bytes.Buffer{})
		Expect(errors.Is(err, exporter.ErrNoSheets)).To(BeTrue())
	})
})
