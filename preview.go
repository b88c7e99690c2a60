/*
SPDX-License-Identifier: Apache-2.0

Copyright 2024 The Taxinomia Authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    https://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/google/tableselect/core/options"
	"github.com/google/tableselect/core/query"
	"github.com/google/tableselect/core/rendering"
	"github.com/google/tableselect/core/toolbar"
	"github.com/google/tableselect/core/views"
)

var previewFlags struct {
	csvPath string
	rows    string
	hide    string
	limit   int
	locale  string
}

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Preview the selection toolbar in the terminal",
	Long: `Render the selection toolbar above the displayed rows in the terminal.

Examples:
  tableselect preview --rows 1,3
  tableselect preview --rows 0 --locale de`,
	RunE: runPreview,
}

func init() {
	rootCmd.AddCommand(previewCmd)

	previewCmd.Flags().StringVar(&previewFlags.csvPath, "csv", "", "CSV file to preview (defaults to the demo orders)")
	previewCmd.Flags().StringVar(&previewFlags.rows, "rows", "", "comma separated selected row indices")
	previewCmd.Flags().StringVar(&previewFlags.hide, "hide", "", "comma separated columns to hide")
	previewCmd.Flags().IntVar(&previewFlags.limit, "limit", 10, "number of rows to display (0 = all)")
	previewCmd.Flags().StringVar(&previewFlags.locale, "locale", "", "locale of the selected rows label")
}

func runPreview(cmd *cobra.Command, args []string) error {
	table, name, err := loadTable(previewFlags.csvPath, "")
	if err != nil {
		return err
	}
	opts, err := loadOptions(options.Default())
	if err != nil {
		return err
	}
	if previewFlags.locale != "" {
		opts.Locale = previewFlags.locale
	}

	rows, err := parseRows(previewFlags.rows)
	if err != nil {
		return err
	}
	q := &query.Query{Table: name, Hidden: splitList(previewFlags.hide), Selected: rows, Limit: previewFlags.limit}

	props := views.ToolbarProps(name, table, q, opts)
	var vm *toolbar.ViewModel
	if props.SelectedRows.Count() > 0 {
		tvm := toolbar.New(props, &cliContainer{}).ViewModel(toolbar.ActionURLs{})
		vm = &tvm
	}

	fmt.Fprintln(cmd.OutOrStdout(), rendering.RenderPageTerminal(rendering.DefaultTerminalStyles(), vm, props.Columns, props.DisplayData))
	return nil
}
