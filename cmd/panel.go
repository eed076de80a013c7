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
	"fmt"

	"github.com/goccy/go-json"
	"github.com/penny-vault/voldash/view"
	"github.com/spf13/cobra"
)

var (
	panelParams map[string]string
	panelPretty bool
)

func init() {
	panelCmd.Flags().StringToStringVarP(&panelParams, "param", "P", nil, "user selection passed to the panel, e.g. --param scenario=Crash")
	panelCmd.Flags().BoolVar(&panelPretty, "pretty", false, "indent the json output")
	rootCmd.AddCommand(panelCmd)
}

var panelCmd = &cobra.Command{
	Use:   "panel <page> <panel>",
	Short: "Build a dashboard panel and print it as json",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		adapter, err := newAdapter()
		if err != nil {
			return err
		}

		body, err := adapter.BuildJSON(context.Background(), args[0], args[1], view.Params(panelParams))
		if err != nil {
			return err
		}

		if panelPretty {
			var buf bytes.Buffer
			if err := json.Indent(&buf, body, "", "  "); err != nil {
				return err
			}
			body = buf.Bytes()
		}

		fmt.Fprintln(cmd.OutOrStdout(), string(body))
		return nil
	},
}
