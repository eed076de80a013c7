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

// Package exporter writes resource tables to spreadsheets
package exporter

import (
	"errors"
	"fmt"
	"io"

	"github.com/penny-vault/voldash/dataframe"
	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"
)

// maxSheetName is the longest worksheet name Excel accepts
const maxSheetName = 31

var ErrNoSheets = errors.New("workbook needs at least one sheet")

// Sheet is one worksheet: a header row followed by one row per table row
type Sheet struct {
	Name  string
	Table *dataframe.Table
}

// Write encodes sheets as an xlsx workbook into w
func Write(w io.Writer, sheets ...Sheet) error {
	if len(sheets) == 0 {
		return ErrNoSheets
	}

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			log.Warn().Err(err).Msg("could not close workbook")
		}
	}()

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	for idx, sheet := range sheets {
		name := sheetName(sheet.Name)
		if idx == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), name); err != nil {
				return err
			}
		} else if _, err := f.NewSheet(name); err != nil {
			return err
		}

		if err := writeTable(f, name, sheet.Table, bold); err != nil {
			return fmt.Errorf("sheet %s: %w", name, err)
		}
	}

	_, err = f.WriteTo(w)
	return err
}

func sheetName(name string) string {
	if len(name) > maxSheetName {
		return name[:maxSheetName]
	}
	if name == "" {
		return "Sheet1"
	}
	return name
}

func writeTable(f *excelize.File, sheet string, t *dataframe.Table, headerStyle int) error {
	if t.ColCount() == 0 {
		return nil
	}

	header := make([]interface{}, 0, t.ColCount())
	for _, col := range t.ColNames {
		header = append(header, col)
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	if err := f.SetRowStyle(sheet, 1, 1, headerStyle); err != nil {
		return err
	}

	for idx, row := range t.Rows {
		cells := make([]interface{}, 0, t.ColCount())
		for _, col := range t.ColNames {
			cells = append(cells, row[col])
		}
		addr, err := excelize.CoordinatesToCellName(1, idx+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, addr, &cells); err != nil {
			return err
		}
	}

	return nil
}
