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
	"context"
	"net/url"
	"strings"
	"testing"

	"github.com/google/tableselect/core/columns"
	"github.com/google/tableselect/core/export"
	"github.com/google/tableselect/core/options"
	"github.com/google/tableselect/core/query"
	"github.com/google/tableselect/core/selection"
	"github.com/google/tableselect/core/tables"
	"github.com/google/tableselect/core/toolbar"
)

type nopContainer struct{}

func (nopContainer) SelectRowUpdate(string, []int) error { return nil }
func (nopContainer) RowsDelete(context.Context) error    { return nil }

func createTestTable() *tables.DataTable {
	id := columns.NewInt64Column(columns.NewColumnDef("id", "ID"))
	name := columns.NewStringColumn(columns.NewColumnDef("name", "Name"))
	secret := columns.NewStringColumn(columns.NewColumnDef("secret", "Secret").SetDisplay(columns.DisplayExcluded))
	for i, n := range []string{"a", "<b>", "c"} {
		id.Append(int64(i + 1))
		name.Append(n)
		secret.Append("s")
	}
	dt := tables.NewDataTable()
	dt.AddColumn(id)
	dt.AddColumn(name)
	dt.AddColumn(secret)
	return dt
}

func parseQuery(t *testing.T, raw string) *query.Query {
	t.Helper()
	u, err := url.Parse(raw)
	if err != nil {
		t.Fatal(err)
	}
	return query.NewQuery(u)
}

func TestBuildViewModel(t *testing.T) {
	table := createTestTable()
	q := parseQuery(t, "/table?table=t&selected=1,7&sort=-id&limit=2")
	opts := options.Default()
	tb := toolbar.New(ToolbarProps("t", table, q, opts), nopContainer{})

	vm := BuildViewModel(Page{Title: "T", Query: q, Table: table, Mode: opts.SelectableRows, Toolbar: tb})

	if len(vm.AllColumns) != 2 || len(vm.Columns) != 2 {
		t.Fatalf("expected 2 columns, got %d visible of %d", len(vm.Columns), len(vm.AllColumns))
	}
	if vm.Columns[0].SortIndicator != "▼" || vm.Columns[1].SortIndicator != "" {
		t.Errorf("unexpected sort indicators %q %q", vm.Columns[0].SortIndicator, vm.Columns[1].SortIndicator)
	}

	if len(vm.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(vm.Rows))
	}
	if vm.Rows[0].DataIndex != 2 || vm.Rows[1].DataIndex != 1 {
		t.Errorf("unexpected row order %d %d", vm.Rows[0].DataIndex, vm.Rows[1].DataIndex)
	}
	if vm.Rows[0].Selected || !vm.Rows[1].Selected {
		t.Error("expected only data index 1 to be selected")
	}
	if got := vm.Rows[1].Cells[1].String(); got != "&lt;b&gt;" {
		t.Errorf("expected escaped cell, got %q", got)
	}
	if !vm.HasMoreRows || vm.TotalRows != 3 || !strings.Contains(vm.ShowAllURL.String(), "limit=0") {
		t.Errorf("unexpected pagination %+v", vm)
	}

	if vm.Toolbar == nil {
		t.Fatal("expected toolbar for non-empty selection")
	}
	if vm.Toolbar.Label != "1 row selected" {
		t.Errorf("expected '1 row selected', got '%s'", vm.Toolbar.Label)
	}
	if vm.AllSelected {
		t.Error("expected not all rows selected")
	}
	if !strings.Contains(vm.SelectAllURL.String(), "selected=0%2C1%2C2") {
		t.Errorf("unexpected select all URL %s", vm.SelectAllURL)
	}
	if strings.Contains(vm.SelectNoneURL.String(), "selected=") {
		t.Errorf("unexpected select none URL %s", vm.SelectNoneURL)
	}
}

func TestBuildViewModelHiddenColumn(t *testing.T) {
	table := createTestTable()
	q := parseQuery(t, "/table?table=t&hidden=name")

	vm := BuildViewModel(Page{Query: q, Table: table, Mode: selection.ModeMultiple})
	if len(vm.Columns) != 1 || vm.Columns[0].Name != "id" {
		t.Fatalf("expected only id visible, got %+v", vm.Columns)
	}
	if len(vm.Rows[0].Cells) != 1 {
		t.Errorf("expected cells aligned to visible columns, got %d", len(vm.Rows[0].Cells))
	}
	if vm.Toolbar != nil {
		t.Error("expected no toolbar without selection")
	}

	defs := ColumnDefs(table, q)
	if defs[1].Displayed() {
		t.Error("expected hidden column in column defs")
	}
	if !table.GetColumn("name").ColumnDef().Displayed() {
		t.Error("table column definition was modified")
	}
}

func TestSelectionModes(t *testing.T) {
	table := createTestTable()
	q := parseQuery(t, "/table?table=t&selected=0")

	t.Run("None", func(t *testing.T) {
		vm := BuildViewModel(Page{Query: q, Table: table, Mode: selection.ModeNone})
		if vm.SelectionEnabled || vm.Rows[0].Selected || vm.Rows[0].ToggleURL.String() != "" {
			t.Error("expected selection disabled")
		}
		if SelectedRows(table, q, selection.ModeNone).Count() != 0 {
			t.Error("expected empty selection")
		}
	})

	t.Run("Single", func(t *testing.T) {
		vm := BuildViewModel(Page{Query: q, Table: table, Mode: selection.ModeSingle})
		if !vm.SingleSelect || vm.SelectAllURL.String() != "" {
			t.Error("expected single select without select all")
		}
		if !strings.Contains(vm.Rows[2].ToggleURL.String(), "selected=2&") {
			t.Errorf("expected row toggle to replace selection, got %s", vm.Rows[2].ToggleURL)
		}
	})

	t.Run("All selected", func(t *testing.T) {
		all := parseQuery(t, "/table?table=t&selected=0,1,2")
		vm := BuildViewModel(Page{Query: all, Table: table, Mode: selection.ModeMultiple})
		if !vm.AllSelected {
			t.Error("expected all rows selected")
		}
	})
}

func TestSelectedRowsDropsInvalidIndices(t *testing.T) {
	table := createTestTable()
	q := &query.Query{Table: "t", Selected: []int{-1, 0, 3, 2}}

	sel := SelectedRows(table, q, selection.ModeMultiple)
	if sel.Count() != 2 || !sel.IsSelected(0) || !sel.IsSelected(2) || sel.IsSelected(-1) {
		t.Errorf("expected rows 0 and 2 selected, got %v", sel.Lookup)
	}

	// The exported row count matches the selection count.
	opts := options.Default()
	props := ToolbarProps("t", table, q, opts)
	result := export.Prepare(props.Data, props.Source, props.Columns, opts, props.SelectedRows)
	if len(result.Rows) != props.SelectedRows.Count() {
		t.Errorf("expected %d exported rows, got %d", props.SelectedRows.Count(), len(result.Rows))
	}
}

func TestSelectedRowsSingleModeKeepsOneRow(t *testing.T) {
	table := createTestTable()
	q := parseQuery(t, "/table?table=t&selected=0,1")

	sel := SelectedRows(table, q, selection.ModeSingle)
	if sel.Count() != 1 || !sel.IsSelected(0) {
		t.Errorf("expected only row 0 selected, got %v", sel.Lookup)
	}

	vm := BuildViewModel(Page{Query: q, Table: table, Mode: selection.ModeSingle})
	if !vm.Rows[0].Selected || vm.Rows[1].Selected {
		t.Error("expected only the first row to be marked selected")
	}
}
