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

// Package demo provides sample tables for the server and the CLI.
package demo

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/google/safehtml"
	"github.com/google/safehtml/template"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/google/tableselect/core/columns"
	"github.com/google/tableselect/core/csvimport"
	"github.com/google/tableselect/core/tables"
)

//go:embed data/orders.csv
var ordersCSV string

//go:embed data/customers.csv
var customersCSV string

//go:embed data/orders.yaml
var ordersOptionsYAML []byte

var statusTemplate = template.Must(template.New("status").Parse(
	`<span class="status" title="Order status: {{.}}">&#9679; {{.}}</span>`))

var amountPrinter = message.NewPrinter(language.English)

// importTable is a helper function to import an embedded CSV table
func importTable(name, csv string, sources map[string]csvimport.ColumnSource) *tables.DataTable {
	options := csvimport.DefaultOptions()
	if sources != nil {
		options.ColumnSources = sources
	}

	table, err := csvimport.ImportFromReader(strings.NewReader(csv), options)
	if err != nil {
		panic(fmt.Sprintf("failed to import %s CSV: %v", name, err))
	}
	return table
}

// CreateOrdersTable creates the orders table. The status and amount
// columns carry custom renderers.
func CreateOrdersTable() *tables.DataTable {
	table := importTable("orders", ordersCSV, map[string]csvimport.ColumnSource{
		"id":       {DisplayName: "Order"},
		"customer": {DisplayName: "Customer"},
		"status":   {DisplayName: "Status"},
		"region":   {DisplayName: "Region"},
		"amount":   {DisplayName: "Amount"},
		"express":  {DisplayName: "Express", Display: columns.DisplayFalse},
	})
	table.GetColumn("status").ColumnDef().SetRenderer(RenderStatus)
	table.GetColumn("amount").ColumnDef().SetRenderer(RenderAmount)
	return table
}

// CreateCustomersTable creates the customers table. Internal notes are
// never shown nor exported.
func CreateCustomersTable() *tables.DataTable {
	return importTable("customers", customersCSV, map[string]csvimport.ColumnSource{
		"internal_note": {Display: columns.DisplayExcluded, NoDownload: true},
	})
}

// RenderStatus renders an order status as a badge.
func RenderStatus(value any, row int) safehtml.HTML {
	h, err := statusTemplate.ExecuteToHTML(tables.FormatValue(value))
	if err != nil {
		return safehtml.HTMLEscaped(tables.FormatValue(value))
	}
	return h
}

// RenderAmount renders an amount in dollars with thousands separators.
func RenderAmount(value any, row int) safehtml.HTML {
	f, ok := value.(float64)
	if !ok {
		return safehtml.HTMLEscaped(tables.FormatValue(value))
	}
	return safehtml.HTMLEscaped(amountPrinter.Sprintf("$%.2f", f))
}
