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

package demo

import (
	"fmt"
	"log/slog"

	"github.com/google/tableselect/core/metrics"
	"github.com/google/tableselect/core/models"
	"github.com/google/tableselect/core/options"
	"github.com/google/tableselect/core/server"
)

// OrdersOptions returns the options of the orders table, read from the
// embedded YAML file.
func OrdersOptions() (*options.Options, error) {
	return options.Parse(ordersOptionsYAML)
}

// CustomersOptions returns the options of the customers table: a custom
// action set instead of the delete button, and a UTF-8 marked CSV.
func CustomersOptions() *options.Options {
	o := options.Default()
	o.CustomToolbarSelect = CustomerActions
	o.OnDownload = WithExcelBOM
	o.DownloadOptions.Filename = "customers.csv"
	return o
}

// NewDataModel registers the demo tables. ordersStore, when not nil,
// replaces the options of the orders table (e.g. a store kept up to date
// from a watched file).
func NewDataModel(ordersStore *options.Store) (*models.DataModel, error) {
	dataModel := models.NewDataModel()

	if ordersStore == nil {
		o, err := OrdersOptions()
		if err != nil {
			return nil, fmt.Errorf("failed to load orders options: %w", err)
		}
		ordersStore = options.NewStore(o)
	}
	orders := CreateOrdersTable()
	dataModel.AddTable("orders", "Orders", orders, ordersStore)
	fmt.Printf("orders: %d rows\n", orders.Length())

	customers := CreateCustomersTable()
	dataModel.AddTable("customers", "Customers", customers, options.NewStore(CustomersOptions()))
	fmt.Printf("customers: %d rows\n", customers.Length())

	return dataModel, nil
}

// SetupDemoServer creates and configures a server with demo data
func SetupDemoServer(logger *slog.Logger, m *metrics.Collector, ordersStore *options.Store) (*server.Server, *models.DataModel, error) {
	fmt.Println("=== Loading Demo Tables ===")
	dataModel, err := NewDataModel(ordersStore)
	if err != nil {
		return nil, nil, err
	}
	fmt.Println("=== Demo Tables Loaded ===")

	srv, err := server.NewServer(dataModel)
	if err != nil {
		return nil, nil, err
	}
	srv.SetLogger(logger)
	srv.SetMetrics(m)
	srv.SetTitle("Demo Tables")
	return srv, dataModel, nil
}
