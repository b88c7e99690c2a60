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

package tables

import (
	"fmt"

	"github.com/google/tableselect/core/columns"
)

// DataTable is a columnar dataset. A DataTable is not modified once built;
// deleting rows produces a new table.
type DataTable struct {
	columns map[string]columns.IDataColumn
	order   []string
}

func NewDataTable() *DataTable {
	return &DataTable{
		columns: make(map[string]columns.IDataColumn),
	}
}

// AddColumn appends a column. Adding a column with an existing name
// replaces it in place.
func (dt *DataTable) AddColumn(col columns.IDataColumn) {
	name := col.ColumnDef().Name()
	if _, exists := dt.columns[name]; !exists {
		dt.order = append(dt.order, name)
	}
	dt.columns[name] = col
}

func (dt *DataTable) GetColumn(name string) columns.IDataColumn {
	return dt.columns[name]
}

// GetColumnNames returns the column names in insertion order.
func (dt *DataTable) GetColumnNames() []string {
	return append([]string(nil), dt.order...)
}

// ColumnDefs returns the column definitions in column order.
func (dt *DataTable) ColumnDefs() []*columns.ColumnDef {
	defs := make([]*columns.ColumnDef, 0, len(dt.order))
	for _, name := range dt.order {
		defs = append(defs, dt.columns[name].ColumnDef())
	}
	return defs
}

// Length returns the number of rows, taken from the first column.
func (dt *DataTable) Length() int {
	if len(dt.order) == 0 {
		return 0
	}
	return dt.columns[dt.order[0]].Length()
}

// Validate checks that all columns have the same length.
func (dt *DataTable) Validate() error {
	n := dt.Length()
	for _, name := range dt.order {
		if l := dt.columns[name].Length(); l != n {
			return fmt.Errorf("column %q has %d rows, expected %d", name, l, n)
		}
	}
	return nil
}

// Rows returns the dataset as raw rows.
func (dt *DataTable) Rows() []Row {
	return dt.rows(false)
}

// RenderedRows returns the dataset with column renderers applied. Cells of
// columns with a renderer are Rendered cells carrying their raw value.
func (dt *DataTable) RenderedRows() []Row {
	return dt.rows(true)
}

func (dt *DataTable) rows(render bool) []Row {
	n := dt.Length()
	rows := make([]Row, n)
	for i := 0; i < n; i++ {
		rows[i] = Row{Data: dt.cells(i, render), Index: i}
	}
	return rows
}

func (dt *DataTable) cells(i int, render bool) []Cell {
	data := make([]Cell, 0, len(dt.order))
	for _, name := range dt.order {
		col := dt.columns[name]
		v, err := col.Value(i)
		if err != nil {
			v = nil
		}
		if r := col.ColumnDef().Renderer(); render && r != nil {
			data = append(data, Rendered(v, r(v, i)))
		} else {
			data = append(data, Raw(v))
		}
	}
	return data
}

// DisplayRows returns the rendered rows at the given data indices, in the
// given order.
func (dt *DataTable) DisplayRows(indices []int) []DisplayRow {
	n := dt.Length()
	out := make([]DisplayRow, 0, len(indices))
	for _, i := range indices {
		if i < 0 || i >= n {
			continue
		}
		out = append(out, DisplayRow{Data: dt.cells(i, true), DataIndex: i})
	}
	return out
}

// WithoutRows returns a new table without the given rows. Row indices of
// the new table are renumbered from zero.
func (dt *DataTable) WithoutRows(indices []int) *DataTable {
	drop := make(map[int]bool, len(indices))
	for _, i := range indices {
		drop[i] = true
	}
	keep := make([]int, 0, dt.Length())
	for i := 0; i < dt.Length(); i++ {
		if !drop[i] {
			keep = append(keep, i)
		}
	}

	out := NewDataTable()
	for _, name := range dt.order {
		out.AddColumn(dt.columns[name].Subset(keep))
	}
	return out
}
