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

// Package export turns the selected rows of a table into a CSV download.
package export

import (
	"github.com/google/tableselect/core/columns"
	"github.com/google/tableselect/core/options"
	"github.com/google/tableselect/core/selection"
	"github.com/google/tableselect/core/tables"
)

// Result is the column list and row list handed to the CSV builder.
type Result struct {
	Columns []*columns.ColumnDef
	Rows    []tables.Row
}

// Prepare reshapes the selected rows of data for CSV export. data and cols
// are never modified.
//
// Rows are kept when sel.Lookup marks their Index as selected, in the order
// of data, and renumbered from 0. Rendered cells are replaced by their raw
// value. A rendered cell without a raw value takes the value at the same
// column of the source row with the same original Index; source defaults to
// data. When UseDisplayedColumnsOnly is set, columns that are not displayed
// and their cells are dropped.
func Prepare(data, source []tables.Row, cols []*columns.ColumnDef, opts *options.Options, sel selection.SelectedRows) Result {
	if source == nil {
		source = data
	}
	sourceByIndex := make(map[int]tables.Row, len(source))
	for _, r := range source {
		sourceByIndex[r.Index] = r
	}

	rows := make([]tables.Row, 0, sel.Count())
	for _, r := range tables.CloneRows(data) {
		if !sel.Lookup[r.Index] {
			continue
		}
		src, hasSource := sourceByIndex[r.Index]
		for j, cell := range r.Data {
			r.Data[j] = resolve(cell, src, hasSource, j)
		}
		r.Index = len(rows)
		rows = append(rows, r)
	}

	outCols := append([]*columns.ColumnDef(nil), cols...)
	if opts != nil && opts.DownloadOptions.FilterOptions.UseDisplayedColumnsOnly {
		outCols = outCols[:0]
		for _, c := range cols {
			if c.Displayed() {
				outCols = append(outCols, c)
			}
		}
		for i := range rows {
			kept := make([]tables.Cell, 0, len(outCols))
			for j, cell := range rows[i].Data {
				if j < len(cols) && cols[j].Displayed() {
					kept = append(kept, cell)
				}
			}
			rows[i].Data = kept
		}
	}

	return Result{Columns: outCols, Rows: rows}
}

// resolve returns the raw cell for a possibly rendered cell.
func resolve(cell tables.Cell, src tables.Row, hasSource bool, col int) tables.Cell {
	if !cell.IsRendered() {
		return cell
	}
	if cell.HasValue() {
		return tables.Raw(cell.Value())
	}
	if hasSource && col < len(src.Data) {
		if s := src.Data[col]; !s.IsRendered() || s.HasValue() {
			return tables.Raw(s.Value())
		}
	}
	return tables.Raw(nil)
}
