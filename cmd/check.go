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

func init() {
	rootCmd.AddCommand(checkCmd)
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Load every resource and print its status",
	Long: `Load every resource and print a summary table. Unavailable resources are
reported but do not make the command fail.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		catalog := data.NewLoaderFromConfig().Load(context.Background())
		fmt.Fprint(cmd.OutOrStdout(), catalog.SummaryTable().Table())

		unavailable := 0
		for _, s := range catalog.Summary() {
			if s.Status != data.StatusAvailable {
				unavailable++
			}
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d of %d resources available\n", catalog.Len()-unavailable, catalog.Len())
		return nil
	},
}
