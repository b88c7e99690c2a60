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

package views

import (
	"github.com/google/safehtml"

	"github.com/google/tableselect/core/columns"
	"github.com/google/tableselect/core/options"
	"github.com/google/tableselect/core/query"
	"github.com/google/tableselect/core/selection"
	"github.com/google/tableselect/core/tables"
	"github.com/google/tableselect/core/toolbar"
)

// TableViewModel contains the data from the table formatted for template consumption
type TableViewModel struct {
	Title      string
	Table      string
	Columns    []ColumnInfo // Visible columns, in table order
	AllColumns []ColumnInfo // Columns that can be shown or hidden
	Rows       []RowInfo
	CurrentURL safehtml.URL

	// Selection
	SelectionEnabled bool
	SingleSelect     bool
	AllSelected      bool
	SelectAllURL     safehtml.URL
	SelectNoneURL    safehtml.URL

	// Toolbar is nil while no row is selected
	Toolbar *toolbar.ViewModel

	// Pagination info
	TotalRows     int
	DisplayedRows int
	HasMoreRows   bool
	CurrentLimit  int
	ShowAllURL    safehtml.URL
}

// ColumnInfo contains information about a column for UI display
type ColumnInfo struct {
	Name            string
	DisplayName     string
	IsVisible       bool
	SortIndicator   string // "▲", "▼" or empty
	SortURL         safehtml.URL
	ToggleColumnURL safehtml.URL
}

// RowInfo is one displayed row
type RowInfo struct {
	DataIndex int
	Selected  bool
	ToggleURL safehtml.URL
	Cells     []safehtml.HTML // Visible cells, aligned with TableViewModel.Columns
}

// Page is the per-request state of one table.
type Page struct {
	Title string
	Query *query.Query
	Table *tables.DataTable
	Mode  selection.Mode
	// Toolbar is the toolbar for the current selection, nil when the
	// selection is empty.
	Toolbar *toolbar.Toolbar
	URLs    toolbar.ActionURLs
}

// ColumnDefs returns the table's column definitions with the display state
// requested by the query. The table's own definitions are not modified.
func ColumnDefs(table *tables.DataTable, q *query.Query) []*columns.ColumnDef {
	defs := table.ColumnDefs()
	out := make([]*columns.ColumnDef, len(defs))
	for i, def := range defs {
		if q.IsColumnHidden(def.Name()) {
			out[i] = def.WithDisplay(columns.DisplayFalse)
		} else {
			out[i] = def
		}
	}
	return out
}

// DisplayRows returns the rows shown for the query: sorted and limited.
func DisplayRows(table *tables.DataTable, q *query.Query) []tables.DisplayRow {
	return table.DisplayRows(table.SortedTopK(q.SortOrder, q.Limit))
}

// SelectedRows returns the query's selection, dropping indices outside the
// table. Selection is always empty when the mode is none, and holds at most
// the first valid index when the mode is single.
func SelectedRows(table *tables.DataTable, q *query.Query, mode selection.Mode) selection.SelectedRows {
	if mode == selection.ModeNone {
		return selection.NewSelectedRows()
	}
	n := table.Length()
	indices := make([]int, 0, len(q.Selected))
	for _, i := range q.Selected {
		if i >= 0 && i < n {
			indices = append(indices, i)
		}
	}
	if mode == selection.ModeSingle && len(indices) > 1 {
		indices = indices[:1]
	}
	return selection.NewSelectedRows(indices...)
}

// ToolbarProps collects the toolbar props for a table and request.
func ToolbarProps(name string, table *tables.DataTable, q *query.Query, opts *options.Options) toolbar.Props {
	return toolbar.Props{
		Table:        name,
		Options:      opts,
		Data:         table.RenderedRows(),
		Source:       table.Rows(),
		Columns:      ColumnDefs(table, q),
		SelectedRows: SelectedRows(table, q, opts.SelectableRows),
		DisplayData:  DisplayRows(table, q),
	}
}

// BuildViewModel builds the table page for the given request state.
func BuildViewModel(p Page) TableViewModel {
	q := p.Query
	table := p.Table
	defs := ColumnDefs(table, q)
	rows := DisplayRows(table, q)
	sel := SelectedRows(table, q, p.Mode)

	vm := TableViewModel{
		Title:            p.Title,
		Table:            q.Table,
		CurrentURL:       q.ToSafeURL(),
		SelectionEnabled: p.Mode != selection.ModeNone,
		SingleSelect:     p.Mode == selection.ModeSingle,
		TotalRows:        table.Length(),
		DisplayedRows:    len(rows),
		CurrentLimit:     q.Limit,
	}
	vm.HasMoreRows = vm.DisplayedRows < vm.TotalRows
	if vm.HasMoreRows {
		vm.ShowAllURL = q.WithLimit(0)
	}

	visible := make([]int, 0, len(defs))
	for i, def := range defs {
		if def.Display() == columns.DisplayExcluded {
			continue
		}
		info := ColumnInfo{
			Name:            def.Name(),
			DisplayName:     def.DisplayName(),
			IsVisible:       def.Displayed(),
			SortIndicator:   sortIndicator(q, def.Name()),
			SortURL:         q.WithSortToggled(def.Name()),
			ToggleColumnURL: q.WithColumnToggled(def.Name()),
		}
		vm.AllColumns = append(vm.AllColumns, info)
		if info.IsVisible {
			vm.Columns = append(vm.Columns, info)
			visible = append(visible, i)
		}
	}

	for _, row := range rows {
		info := RowInfo{
			DataIndex: row.DataIndex,
			Selected:  sel.IsSelected(row.DataIndex),
			Cells:     make([]safehtml.HTML, 0, len(visible)),
		}
		if vm.SelectionEnabled {
			info.ToggleURL = q.WithRowToggled(row.DataIndex, vm.SingleSelect)
		}
		for _, i := range visible {
			info.Cells = append(info.Cells, row.Data[i].HTML())
		}
		vm.Rows = append(vm.Rows, info)
	}

	if p.Mode == selection.ModeMultiple {
		all := make([]int, table.Length())
		for i := range all {
			all[i] = i
		}
		vm.AllSelected = len(all) > 0 && sel.Count() == len(all)
		vm.SelectAllURL = q.WithSelected(all)
	}
	if vm.SelectionEnabled {
		vm.SelectNoneURL = q.WithSelected(nil)
	}

	if p.Toolbar != nil && sel.Count() > 0 {
		tvm := p.Toolbar.ViewModel(p.URLs)
		vm.Toolbar = &tvm
	}
	return vm
}

func sortIndicator(q *query.Query, column string) string {
	for i, sc := range q.SortOrder {
		if sc.Name != column {
			continue
		}
		if i > 0 {
			return ""
		}
		if sc.Descending {
			return "▼"
		}
		return "▲"
	}
	return ""
}
