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
	"context"
	"fmt"

	"github.com/penny-vault/voldash/data"
	"github.com/spf13/cobra"
)

var showTail int

func init() {
	showCmd.Flags().IntVarP(&showTail, "tail", "n", 0, "only print the last n rows")
	rootCmd.AddCommand(showCmd)
}

var showCmd = &cobra.Command{
	Use:   "show <resource>",
	Short: "Print a resource as a table",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		catalog := data.NewLoaderFromConfig().Load(context.Background())
		res, err := loadResource(catalog, args[0])
		if err != nil {
			return err
		}

		table := res.Table()
		if showTail > 0 {
			table = table.Tail(showTail)
		}
		fmt.Fprint(cmd.OutOrStdout(), table.Table())
		return nil
	},
}
