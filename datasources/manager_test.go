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

package datasources

import (
	"os"
	"path/filepath"
	"reflect"
	"runtime"
	"testing"

	"github.com/xuri/excelize/v2"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/descriptorpb"

	"github.com/google/tableselect/core/columns"
	"github.com/google/tableselect/core/models"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

const testConfig = `
sources:
  - name: people
    title: People
    type: csv
    path: people.csv
    options: people.yaml
    columns:
      - name: age
        displayName: Age
      - name: secret
        display: excluded
        download: false
  - name: scores
    type: csv
    path: scores.tsv
    delimiter: "\t"
`

func setupConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, dir, "people.csv", "name,age,secret\nAnn,31,x\nBen,42,y\n")
	writeFile(t, dir, "scores.tsv", "team\tscore\nred\t3\n")
	writeFile(t, dir, "people.yaml", "selectableRows: single\ndownloadOptions:\n  filename: people.csv\n")
	writeFile(t, dir, "sources.yaml", testConfig)
	return filepath.Join(dir, "sources.yaml")
}

func TestManagerLoadConfig(t *testing.T) {
	manager := NewManager()
	if err := manager.LoadConfig(setupConfig(t)); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if got, want := manager.GetSourceNames(), []string{"people", "scores"}; !reflect.DeepEqual(got, want) {
		t.Errorf("GetSourceNames() = %v, want %v", got, want)
	}
	if manager.IsLoaded("people") {
		t.Error("people should not be loaded yet")
	}

	table, err := manager.LoadData("people")
	if err != nil {
		t.Fatalf("failed to load data: %v", err)
	}
	if table.Length() != 2 {
		t.Errorf("Length() = %d, want 2", table.Length())
	}
	if !manager.IsLoaded("people") {
		t.Error("people should be loaded now")
	}

	age := table.GetColumn("age")
	if _, ok := age.(*columns.Int64Column); !ok {
		t.Errorf("age column is %T, want *columns.Int64Column", age)
	}
	if got := age.ColumnDef().DisplayName(); got != "Age" {
		t.Errorf("age display name = %q, want Age", got)
	}
	secret := table.GetColumn("secret").ColumnDef()
	if secret.Display() != columns.DisplayExcluded || secret.Download() {
		t.Errorf("secret = display %q download %v, want excluded and not downloadable", secret.Display(), secret.Download())
	}

	again, err := manager.LoadData("people")
	if err != nil {
		t.Fatalf("failed to load cached data: %v", err)
	}
	if again != table {
		t.Error("expected same table instance from cache")
	}
	manager.InvalidateCache("people")
	if manager.IsLoaded("people") {
		t.Error("people should not be loaded after invalidation")
	}

	scores, err := manager.LoadData("scores")
	if err != nil {
		t.Fatalf("failed to load scores: %v", err)
	}
	if got := scores.GetColumnNames(); !reflect.DeepEqual(got, []string{"team", "score"}) {
		t.Errorf("scores columns = %v", got)
	}
}

func TestManagerRegister(t *testing.T) {
	manager := NewManager()
	if err := manager.LoadConfig(setupConfig(t)); err != nil {
		t.Fatal(err)
	}
	dm := models.NewDataModel()
	files, err := manager.Register(dm)
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	if got := dm.TableNames(); !reflect.DeepEqual(got, []string{"people", "scores"}) {
		t.Errorf("TableNames() = %v", got)
	}
	if len(files) != 1 || filepath.Base(files[0].Path) != "people.yaml" {
		t.Fatalf("options files = %v", files)
	}

	people, _ := dm.GetEntry("people")
	if people.Title != "People" {
		t.Errorf("title = %q, want People", people.Title)
	}
	if o := people.Options.Get(); o.DownloadOptions.Filename != "people.csv" {
		t.Errorf("filename = %q, want people.csv", o.DownloadOptions.Filename)
	}
	scores, _ := dm.GetEntry("scores")
	if scores.Title != "scores" {
		t.Errorf("title = %q, want scores", scores.Title)
	}
}

func TestManagerTextprotoSource(t *testing.T) {
	dir := t.TempDir()
	set := &descriptorpb.FileDescriptorSet{File: []*descriptorpb.FileDescriptorProto{{
		Name:    proto.String("team.proto"),
		Package: proto.String("league"),
		Syntax:  proto.String("proto3"),
		MessageType: []*descriptorpb.DescriptorProto{{
			Name: proto.String("Team"),
			Field: []*descriptorpb.FieldDescriptorProto{{
				Name:   proto.String("name"),
				Number: proto.Int32(1),
				Type:   descriptorpb.FieldDescriptorProto_TYPE_STRING.Enum(),
				Label:  descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL.Enum(),
			}},
		}},
	}}}
	data, err := proto.Marshal(set)
	if err != nil {
		t.Fatal(err)
	}
	writeFile(t, dir, "team.pb", string(data))
	writeFile(t, dir, "team.textproto", `name: "red"`)

	manager := NewManager()
	manager.SetBaseDir(dir)
	err = manager.AddSource(&DataSource{
		Name:          "team",
		Type:          "textproto",
		Path:          "team.textproto",
		DescriptorSet: "team.pb",
		Message:       "league.Team",
		Columns:       []ColumnAnnotation{{Name: "name", DisplayName: "Team"}},
	})
	if err != nil {
		t.Fatal(err)
	}
	table, err := manager.LoadData("team")
	if err != nil {
		t.Fatalf("LoadData: %v", err)
	}
	if got := table.GetColumn("name").ColumnDef().DisplayName(); got != "Team" {
		t.Errorf("display name = %q, want Team", got)
	}
}

func TestManagerXlsxSource(t *testing.T) {
	dir := t.TempDir()
	f := excelize.NewFile()
	if _, err := f.NewSheet("Stock"); err != nil {
		t.Fatal(err)
	}
	if err := f.SetSheetRow("Stock", "A1", &[]any{"part", "qty", "price"}); err != nil {
		t.Fatal(err)
	}
	if err := f.SetSheetRow("Stock", "A2", &[]any{"bolt", 40, 0.25}); err != nil {
		t.Fatal(err)
	}
	if err := f.SetSheetRow("Stock", "A3", &[]any{"nut", 75, 0.1}); err != nil {
		t.Fatal(err)
	}
	if err := f.SaveAs(filepath.Join(dir, "stock.xlsx")); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}

	manager := NewManager()
	manager.SetBaseDir(dir)
	if err := manager.AddSource(&DataSource{Name: "stock", Type: "xlsx", Path: "stock.xlsx", Sheet: "Stock"}); err != nil {
		t.Fatal(err)
	}
	table, err := manager.LoadData("stock")
	if err != nil {
		t.Fatalf("LoadData: %v", err)
	}
	if table.Length() != 2 {
		t.Fatalf("Length() = %d, want 2", table.Length())
	}
	if _, ok := table.GetColumn("qty").(*columns.Int64Column); !ok {
		t.Errorf("qty column is %T, want *columns.Int64Column", table.GetColumn("qty"))
	}
	if v, _ := table.GetColumn("price").Value(0); v != 0.25 {
		t.Errorf("price[0] = %v, want 0.25", v)
	}
}

func TestManagerErrors(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.csv", "x\n1\n")

	tests := []struct {
		name   string
		source *DataSource
	}{
		{name: "unknown type", source: &DataSource{Name: "s", Type: "postgres"}},
		{name: "missing file", source: &DataSource{Name: "s", Type: "csv", Path: "missing.csv"}},
		{name: "missing path", source: &DataSource{Name: "s", Type: "csv"}},
		{name: "workbook is not xlsx", source: &DataSource{Name: "s", Type: "xlsx", Path: "a.csv"}},
		{name: "textproto without descriptor", source: &DataSource{Name: "s", Type: "textproto", Path: "a.csv"}},
		{name: "unknown annotated column", source: &DataSource{Name: "s", Type: "csv", Path: "a.csv", Columns: []ColumnAnnotation{{Name: "y"}}}},
		{name: "bad display state", source: &DataSource{Name: "s", Type: "csv", Path: "a.csv", Columns: []ColumnAnnotation{{Name: "x", Display: "maybe"}}}},
		{name: "bad options file", source: &DataSource{Name: "s", Type: "csv", Path: "a.csv", Options: "nope.yaml"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			manager := NewManager()
			manager.SetBaseDir(dir)
			if err := manager.AddSource(tt.source); err != nil {
				t.Fatal(err)
			}
			if _, err := manager.Register(models.NewDataModel()); err == nil {
				t.Error("Register() succeeded, want error")
			}
		})
	}

	manager := NewManager()
	if err := manager.AddSource(&DataSource{Name: "a"}); err != nil {
		t.Fatal(err)
	}
	if err := manager.AddSource(&DataSource{Name: "a"}); err == nil {
		t.Error("duplicate source accepted")
	}
	if err := manager.AddSource(&DataSource{}); err == nil {
		t.Error("source without name accepted")
	}
	if err := manager.ParseConfig([]byte("sources: [")); err == nil {
		t.Error("invalid YAML accepted")
	}
}

func TestManagerDemoSources(t *testing.T) {
	_, currentFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("failed to get current file path")
	}
	configPath := filepath.Join(filepath.Dir(currentFile), "..", "demo", "data", "sources.yaml")

	manager := NewManager()
	if err := manager.LoadConfig(configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	dm := models.NewDataModel()
	files, err := manager.Register(dm)
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if len(files) != 1 {
		t.Errorf("got %d options files, want 1", len(files))
	}

	orders := dm.GetTable("orders")
	if orders == nil || orders.Length() != 12 {
		t.Fatalf("orders table = %v", orders)
	}
	if got := orders.GetColumn("id").ColumnDef().DisplayName(); got != "Order" {
		t.Errorf("id display name = %q, want Order", got)
	}
	if orders.GetColumn("express").ColumnDef().Displayed() {
		t.Error("express should be hidden")
	}
	if dm.GetTable("customers").GetColumn("internal_note").ColumnDef().Download() {
		t.Error("internal_note should not be downloadable")
	}
}
