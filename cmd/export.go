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
	"bytes"
	"context"
	"errors"
	"os"

	"github.com/penny-vault/voldash/data"
	"github.com/penny-vault/voldash/exporter"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var exportAll bool

func init() {
	exportCmd.Flags().BoolVar(&exportAll, "all", false, "write every available resource to its own worksheet")
	rootCmd.AddCommand(exportCmd)
}

var exportCmd = &cobra.Command{
	Use:   "export [resource] <file.xlsx>",
	Short: "Write resources to a spreadsheet",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		catalog := data.NewLoaderFromConfig().Load(context.Background())

		var (
			sheets []exporter.Sheet
			fn     string
		)

		if exportAll {
			if len(args) != 1 {
				return errors.New("--all only takes the output file name")
			}
			fn = args[0]
			for _, s := range catalog.Summary() {
				if s.Status == data.StatusAvailable {
					sheets = append(sheets, exporter.Sheet{Name: string(s.Resource), Table: catalog.Table(s.Resource)})
				}
			}
		} else {
			if len(args) != 2 {
				return errors.New("expected a resource and an output file name")
			}
			res, err := loadResource(catalog, args[0])
			if err != nil {
				return err
			}
			fn = args[1]
			sheets = append(sheets, exporter.Sheet{Name: string(res.Resource), Table: res.Table()})
		}

		// build the workbook in memory so a failed export never leaves a partial file behind
		var buf bytes.Buffer
		if err := exporter.Write(&buf, sheets...); err != nil {
			return err
		}

		fh, err := os.Create(fn)
		if err != nil {
			return err
		}
		if _, err := buf.WriteTo(fh); err != nil {
			fh.Close()
			return err
		}
		if err := fh.Close(); err != nil {
			return err
		}

		log.Info().Str("FileName", fn).Int("NumSheets", len(sheets)).Msg("wrote spreadsheet")
		return nil
	},
}
