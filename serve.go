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
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/google/tableselect/core/metrics"
	"github.com/google/tableselect/core/models"
	"github.com/google/tableselect/core/options"
	"github.com/google/tableselect/core/server"
	"github.com/google/tableselect/datasources"
	"github.com/google/tableselect/demo"
)

var serveFlags struct {
	addr        string
	csvPath     string
	name        string
	datasources string
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve tables over HTTP",
	Long: `Serve tables over HTTP.

Without --csv, --textproto or --datasources the demo tables are served. The
--options file applies to the single loaded table, or to the demo orders
table, and is reloaded when it changes. A --datasources file lists several
tables, each with its own options file.

Examples:
  # Serve the demo tables
  tableselect serve

  # Serve a CSV file
  tableselect serve --csv data.csv --name sales --options toolbar.yaml

  # Serve the tables of a data sources file
  tableselect serve --datasources sources.yaml`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveFlags.addr, "addr", "127.0.0.1:8097", "listen address")
	serveCmd.Flags().StringVar(&serveFlags.csvPath, "csv", "", "CSV file to serve instead of the demo tables")
	serveCmd.Flags().StringVar(&serveFlags.name, "name", "", "table name for --csv (defaults to the file name)")
	serveCmd.Flags().StringVar(&serveFlags.datasources, "datasources", "", "YAML file listing the tables to serve")
}

func runServe(cmd *cobra.Command, args []string) error {
	logger := newLogger()
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Println("Starting tableselect...")

	// The store of the watched options file, nil without --options
	var store *options.Store
	if optionsFile != "" {
		o, err := options.Load(optionsFile)
		if err != nil {
			return err
		}
		store = options.NewStore(o)
		if err := watchOptions(ctx, optionsFile, store, logger); err != nil {
			return err
		}
	}

	m := metrics.NewCollector("", nil)

	var srv *server.Server
	var err error
	switch {
	case serveFlags.datasources != "":
		srv, err = datasourcesServer(ctx, logger, m)
	case !hasDataset(serveFlags.csvPath):
		srv, _, err = demo.SetupDemoServer(logger, m, store)
	default:
		srv, err = csvServer(logger, m, store)
	}
	if err != nil {
		return err
	}

	httpServer := &http.Server{
		Addr:              serveFlags.addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		fmt.Printf("Server listening on http://%s\n", serveFlags.addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
		close(errChan)
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		logger.Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}

func watchOptions(ctx context.Context, path string, store *options.Store, logger *slog.Logger) error {
	watcher, err := options.NewWatcher(path, store, logger)
	if err != nil {
		return err
	}
	go func() {
		if err := watcher.Watch(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("options watcher stopped", "path", path, "error", err)
		}
	}()
	return nil
}

func datasourcesServer(ctx context.Context, logger *slog.Logger, m *metrics.Collector) (*server.Server, error) {
	manager := datasources.NewManager()
	if err := manager.LoadConfig(serveFlags.datasources); err != nil {
		return nil, err
	}
	dataModel := models.NewDataModel()
	files, err := manager.Register(dataModel)
	if err != nil {
		return nil, err
	}
	for _, f := range files {
		if err := watchOptions(ctx, f.Path, f.Store, logger); err != nil {
			return nil, err
		}
	}
	for _, name := range dataModel.TableNames() {
		fmt.Printf("%s: %d rows loaded\n", name, dataModel.GetTable(name).Length())
	}

	srv, err := server.NewServer(dataModel)
	if err != nil {
		return nil, err
	}
	srv.SetLogger(logger)
	srv.SetMetrics(m)
	return srv, nil
}

func csvServer(logger *slog.Logger, m *metrics.Collector, store *options.Store) (*server.Server, error) {
	table, name, err := loadTable(serveFlags.csvPath, serveFlags.name)
	if err != nil {
		return nil, err
	}
	fmt.Printf("%s: %d rows imported\n", name, table.Length())

	dataModel := models.NewDataModel()
	dataModel.AddTable(name, name, table, store)

	srv, err := server.NewServer(dataModel)
	if err != nil {
		return nil, err
	}
	srv.SetLogger(logger)
	srv.SetMetrics(m)
	return srv, nil
}
