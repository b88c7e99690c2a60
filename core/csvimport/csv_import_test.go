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

package csvimport

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/tableselect/core/columns"
)

func TestImportBasicCSV(t *testing.T) {
	csvData := `name,age,score,active
Alice,30,1.5,true
Bob,25,2,false
Charlie,35,,TRUE`

	table, err := ImportFromReader(strings.NewReader(csvData), DefaultOptions())
	if err != nil {
		t.Fatalf("failed to import CSV: %v", err)
	}

	if table.Length() != 3 {
		t.Errorf("expected 3 rows, got %d", table.Length())
	}
	if names := table.GetColumnNames(); len(names) != 4 {
		t.Errorf("expected 4 columns, got %v", names)
	}

	tests := []struct {
		column string
		row    int
		want   any
	}{
		{"name", 0, "Alice"},
		{"age", 1, int64(25)},
		{"score", 0, 1.5},
		{"score", 2, 0.0},
		{"active", 2, true},
	}
	for _, tt := range tests {
		col := table.GetColumn(tt.column)
		if col == nil {
			t.Fatalf("%s column not found", tt.column)
		}
		got, err := col.Value(tt.row)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != tt.want {
			t.Errorf("%s[%d]: expected %v (%T), got %v (%T)", tt.column, tt.row, tt.want, tt.want, got, got)
		}
	}
}

func TestImportWithoutHeader(t *testing.T) {
	csvData := `Alice,30
Bob,25`

	options := DefaultOptions()
	options.HasHeader = false
	table, err := ImportFromReader(strings.NewReader(csvData), options)
	if err != nil {
		t.Fatalf("failed to import CSV: %v", err)
	}
	if table.Length() != 2 {
		t.Errorf("expected 2 rows, got %d", table.Length())
	}
	if table.GetColumn("column_1") == nil || table.GetColumn("column_2") == nil {
		t.Errorf("expected generated column names, got %v", table.GetColumnNames())
	}
}

func TestImportColumnSources(t *testing.T) {
	csvData := `id,zip,secret
1,01234,x
2,98765,y`

	options := DefaultOptions()
	options.ColumnSources["zip"] = ColumnSource{Type: ColumnTypeString, DisplayName: "ZIP code"}
	options.ColumnSources["secret"] = ColumnSource{Display: columns.DisplayExcluded, NoDownload: true}

	table, err := ImportFromReader(strings.NewReader(csvData), options)
	if err != nil {
		t.Fatalf("failed to import CSV: %v", err)
	}

	zip := table.GetColumn("zip")
	if v, _ := zip.Value(0); v != "01234" {
		t.Errorf("expected forced string type to keep leading zero, got %v", v)
	}
	if zip.ColumnDef().DisplayName() != "ZIP code" {
		t.Errorf("unexpected display name %q", zip.ColumnDef().DisplayName())
	}
	secret := table.GetColumn("secret").ColumnDef()
	if secret.Display() != columns.DisplayExcluded || secret.Download() {
		t.Errorf("unexpected secret column def %+v", secret)
	}
}

func TestImportUnparsableFloat(t *testing.T) {
	options := DefaultOptions()
	options.ColumnSources["v"] = ColumnSource{Type: ColumnTypeFloat64}
	table, err := ImportFromReader(strings.NewReader("v\n1.5\nabc\n"), options)
	if err != nil {
		t.Fatalf("failed to import CSV: %v", err)
	}
	v, _ := table.GetColumn("v").Value(1)
	if f, ok := v.(float64); !ok || !math.IsNaN(f) {
		t.Errorf("expected NaN, got %v", v)
	}
}

func TestImportRecordsRaggedRows(t *testing.T) {
	records := [][]string{
		{"name", "qty"},
		{"bolt", "4"},
		{"nut"},
	}
	table, err := ImportRecords(records, DefaultOptions())
	if err != nil {
		t.Fatalf("failed to import records: %v", err)
	}
	if table.Length() != 2 {
		t.Fatalf("expected 2 rows, got %d", table.Length())
	}
	if _, ok := table.GetColumn("qty").(*columns.Int64Column); !ok {
		t.Errorf("expected int64 qty column, got %T", table.GetColumn("qty"))
	}
	v, _ := table.GetColumn("qty").Value(1)
	if v != int64(0) {
		t.Errorf("expected padded value 0, got %v", v)
	}

	if _, err := ImportRecords(nil, DefaultOptions()); !errors.Is(err, ErrEmpty) {
		t.Errorf("expected ErrEmpty, got %v", err)
	}
}

func TestImportErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"Empty", ""},
		{"Header only", "a,b\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ImportFromReader(strings.NewReader(tt.data), DefaultOptions())
			if !errors.Is(err, ErrEmpty) {
				t.Errorf("expected ErrEmpty, got %v", err)
			}
		})
	}

	if _, err := ImportFromReader(strings.NewReader("a=b\n1\n"), DefaultOptions()); err == nil {
		t.Error("expected error for reserved character in column name")
	}
}

func TestImportFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.csv")
	if err := os.WriteFile(path, []byte("id;name\n1;a\n2;b\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	options := DefaultOptions()
	options.Delimiter = ';'
	table, err := ImportFromFile(path, options)
	if err != nil {
		t.Fatalf("failed to import CSV: %v", err)
	}
	if table.Length() != 2 || table.GetColumn("name") == nil {
		t.Errorf("unexpected table with columns %v", table.GetColumnNames())
	}

	if _, err := ImportFromFile(filepath.Join(t.TempDir(), "missing.csv"), options); err == nil {
		t.Error("expected error for missing file")
	}
}
