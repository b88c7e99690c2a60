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
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/google/tableselect/core/csvimport"
	"github.com/google/tableselect/core/options"
	"github.com/google/tableselect/core/protoloader"
	"github.com/google/tableselect/core/selection"
	"github.com/google/tableselect/core/tables"
	"github.com/google/tableselect/demo"
)

var (
	// Global flags
	logLevel    string
	optionsFile string

	// Textproto dataset flags
	textprotoFile  string
	descriptorFile string
	messageName    string
)

var rootCmd = &cobra.Command{
	Use:   "tableselect",
	Short: "Data tables with a selection toolbar",
	Long: `tableselect serves data tables whose selected rows can be deleted,
downloaded as CSV or handed to custom toolbar actions.

Tables come from a CSV file, a textproto file described by a protobuf
descriptor set, or from the built-in demo data. Toolbar options
are read from a YAML file.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&optionsFile, "options", "", "toolbar options YAML file")
	rootCmd.PersistentFlags().StringVar(&textprotoFile, "textproto", "", "textproto dataset to load instead of a CSV file")
	rootCmd.PersistentFlags().StringVar(&descriptorFile, "descriptor-set", "", "FileDescriptorSet describing --textproto")
	rootCmd.PersistentFlags().StringVar(&messageName, "message", "", "fully qualified root message of --textproto")
}

func newLogger() *slog.Logger {
	var level slog.Level
	switch logLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// loadOptions reads --options, or returns fallback when the flag is unset.
func loadOptions(fallback *options.Options) (*options.Options, error) {
	if optionsFile == "" {
		return fallback, nil
	}
	return options.Load(optionsFile)
}

// hasDataset reports whether a dataset file was given on the command line.
func hasDataset(csvPath string) bool {
	return csvPath != "" || textprotoFile != ""
}

// loadTable imports --textproto or csvPath, or the demo orders when
// neither is set. It returns the table name.
func loadTable(csvPath, name string) (*tables.DataTable, string, error) {
	if textprotoFile != "" {
		table, err := loadTextproto()
		if err != nil {
			return nil, "", err
		}
		if name == "" {
			name = strings.TrimSuffix(filepath.Base(textprotoFile), filepath.Ext(textprotoFile))
		}
		return table, name, nil
	}
	if csvPath == "" {
		if name == "" {
			name = "orders"
		}
		return demo.CreateOrdersTable(), name, nil
	}
	table, err := csvimport.ImportFromFile(csvPath, csvimport.DefaultOptions())
	if err != nil {
		return nil, "", err
	}
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(csvPath), filepath.Ext(csvPath))
	}
	return table, name, nil
}

func loadTextproto() (*tables.DataTable, error) {
	if descriptorFile == "" {
		return nil, errors.New("--textproto requires --descriptor-set")
	}
	data, err := os.ReadFile(descriptorFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read descriptor set: %w", err)
	}
	loader, err := protoloader.NewLoaderFromDescriptorSet(data)
	if err != nil {
		return nil, err
	}
	if messageName == "" {
		return nil, fmt.Errorf("--textproto requires --message, one of: %s",
			strings.Join(loader.GetRegisteredMessages(), ", "))
	}
	return loader.LoadTextprotoFile(textprotoFile, messageName)
}

func parseRows(s string) ([]int, error) {
	if s == "" {
		return nil, nil
	}
	rows, err := selection.ParseIndices(s)
	if err != nil {
		return nil, fmt.Errorf("invalid --rows: %w", err)
	}
	return rows, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// cliContainer backs the toolbar outside the server. It records
// selection updates and refuses deletes.
type cliContainer struct {
	rows []int
}

func (c *cliContainer) SelectRowUpdate(source string, rows []int) error {
	c.rows = rows
	return nil
}

func (c *cliContainer) RowsDelete(ctx context.Context) error {
	return errors.New("rows can not be deleted from the command line")
}
