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
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/google/tableselect/core/export"
	"github.com/google/tableselect/core/options"
	"github.com/google/tableselect/core/query"
	"github.com/google/tableselect/core/toolbar"
	"github.com/google/tableselect/core/views"
)

var exportFlags struct {
	csvPath          string
	rows             string
	displayedColumns bool
	hide             string
	out              string
	dir              string
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export selected rows as CSV",
	Long: `Export selected rows of a table as CSV, the way the toolbar download
action does.

Examples:
  # Export rows 0 and 2 of the demo orders to stdout
  tableselect export --rows 0,2

  # Export only the displayed columns to a file
  tableselect export --csv data.csv --rows 1 --hide notes --displayed-columns --out selected.csv

  # Save into a directory under the download filename of the options file
  tableselect export --rows 0 --options toolbar.yaml --dir exports`,
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVar(&exportFlags.csvPath, "csv", "", "CSV file to export from (defaults to the demo orders)")
	exportCmd.Flags().StringVar(&exportFlags.rows, "rows", "", "comma separated row indices to export")
	exportCmd.Flags().BoolVar(&exportFlags.displayedColumns, "displayed-columns", false, "export only displayed columns")
	exportCmd.Flags().StringVar(&exportFlags.hide, "hide", "", "comma separated columns to hide")
	exportCmd.Flags().StringVar(&exportFlags.out, "out", "", "output file (defaults to stdout)")
	exportCmd.Flags().StringVar(&exportFlags.dir, "dir", "", "directory to save the download filename into")
	_ = exportCmd.MarkFlagRequired("rows")
}

func runExport(cmd *cobra.Command, args []string) error {
	logger := newLogger()

	table, name, err := loadTable(exportFlags.csvPath, "")
	if err != nil {
		return err
	}
	opts, err := loadOptions(options.Default())
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("displayed-columns") {
		opts.DownloadOptions.FilterOptions.UseDisplayedColumnsOnly = exportFlags.displayedColumns
	}

	if exportFlags.out != "" && exportFlags.dir != "" {
		return errors.New("--out and --dir can not be used together")
	}

	rows, err := parseRows(exportFlags.rows)
	if err != nil {
		return err
	}
	q := &query.Query{Table: name, Hidden: splitList(exportFlags.hide), Selected: rows}

	tb := toolbar.New(views.ToolbarProps(name, table, q, opts), &cliContainer{})
	tb.SetLogger(logger)

	var d export.Downloader = export.WriterDownloader{W: cmd.OutOrStdout()}
	var saved *export.FileDownloader
	var outFile *os.File
	switch {
	case exportFlags.out != "":
		outFile, err = os.Create(exportFlags.out)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		d = export.WriterDownloader{W: outFile}
	case exportFlags.dir != "":
		saved = &export.FileDownloader{Dir: exportFlags.dir}
		d = saved
	}

	err = tb.DownloadCSV(cmd.Context(), d)
	if outFile != nil {
		if cerr := outFile.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close output file: %w", cerr)
		}
	}
	if err != nil {
		return err
	}
	switch {
	case exportFlags.out != "":
		logger.Info("CSV written", slog.String("path", exportFlags.out))
	case saved != nil && saved.Path != "":
		logger.Info("CSV written", slog.String("path", saved.Path))
		fmt.Fprintln(cmd.OutOrStdout(), saved.Path)
	}
	return nil
}
