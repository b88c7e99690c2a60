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
	"encoding/json"
	"fmt"

	"github.com/google/safehtml"
	"github.com/google/safehtml/template"

	"github.com/google/tableselect/core/columns"
	"github.com/google/tableselect/core/options"
	"github.com/google/tableselect/core/selection"
	"github.com/google/tableselect/core/tables"
)

// The toolbar wraps custom actions in a form posting to the select
// endpoint, so each action is a submit button carrying the new selection.
var actionsTemplate = template.Must(template.New("actions").Parse(
	`{{range .}}<button type="submit" name="rows" value="{{.Rows}}" title="{{.Title}}">{{.Label}}</button>{{end}}`))

type customAction struct {
	Label string
	Title string
	Rows  string
}

// CustomerActions is the custom toolbar of the customers table. It offers
// to invert the selection among the displayed rows, to keep only the first
// selected row and to clear the selection.
func CustomerActions(sel selection.SelectedRows, displayData []tables.DisplayRow, _ func(any) error) safehtml.HTML {
	inverted := make([]int, 0, len(displayData))
	for _, row := range displayData {
		if !sel.IsSelected(row.DataIndex) {
			inverted = append(inverted, row.DataIndex)
		}
	}

	actions := []customAction{
		{Label: "Invert", Title: "Invert selection", Rows: encodeRows(inverted)},
	}
	if indices := sel.Indices(); len(indices) > 1 {
		actions = append(actions, customAction{Label: "Keep first", Title: "Keep only the first selected row", Rows: encodeRows(indices[:1])})
	}
	actions = append(actions, customAction{Label: "Clear", Title: "Clear selection", Rows: "[]"})

	h, err := actionsTemplate.ExecuteToHTML(actions)
	if err != nil {
		return safehtml.HTMLEscaped(fmt.Sprintf("custom actions unavailable: %v", err))
	}
	return h
}

func encodeRows(rows []int) string {
	b, err := json.Marshal(rows)
	if err != nil {
		return "[]"
	}
	return string(b)
}

// WithExcelBOM prefixes the CSV with a byte order mark so spreadsheet
// applications detect UTF-8.
func WithExcelBOM(head options.HeadBuilder, body options.BodyBuilder, cols []*columns.ColumnDef, rows []tables.Row) (string, bool) {
	return "\ufeff" + head(cols) + body(rows), true
}
